package handlers

import (
	"errors"
	"net/http"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const dashboardPath = "/admin/"

func (h *Handlers) ShowLogin(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		c.Redirect(http.StatusFound, dashboardPath)
		return
	}
	render(c, http.StatusOK, "admin_login.html", gin.H{"Next": c.Query("next")})
}

func (h *Handlers) Login(c *gin.Context) {
	var form admin.LoginInput
	if err := c.ShouldBind(&form); err != nil {
		flash(c, "error", "Invalid credentials or insufficient permissions.")
		render(c, http.StatusBadRequest, "admin_login.html", gin.H{"Next": c.PostForm("next")})
		return
	}

	user, err := h.svc.Login(c.Request.Context(), form, c.ClientIP(), c.Request.UserAgent())
	if errors.Is(err, admin.ErrInvalidCredentials) {
		flash(c, "error", "Invalid credentials or insufficient permissions.")
		render(c, http.StatusOK, "admin_login.html", gin.H{
			"Next":     c.PostForm("next"),
			"Username": form.Username,
		})
		return
	}
	if err != nil {
		fail(c, err)
		return
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.Set(middleware.SessionUserKey, user.ID)
	sess.AddFlash("Welcome to the admin panel!", "success")
	_ = sess.Save()

	c.Redirect(http.StatusFound, safeNext(c.PostForm("next"), dashboardPath))
}

func (h *Handlers) Logout(c *gin.Context) {
	if middleware.CurrentUser(c) != nil {
		h.svc.Logout(c.Request.Context(), actor(c))
	}

	sess := sessions.Default(c)
	sess.Clear()
	sess.AddFlash("You have been logged out successfully.", "info")
	_ = sess.Save()
	c.Redirect(http.StatusFound, middleware.LoginPath)
}
