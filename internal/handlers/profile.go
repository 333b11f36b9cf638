package handlers

import (
	"net/http"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"

	"github.com/gin-gonic/gin"
)

const (
	profilePath           = "/admin/profile"
	profileRecentActivity = 10
)

func (h *Handlers) Profile(c *gin.Context) {
	ctx := c.Request.Context()
	a := actor(c)

	profile, err := h.svc.Profile(ctx, a.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	stats, err := h.svc.Activity().ActorStats(ctx, a.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	recent, err := h.svc.Activity().Recent(ctx, profileRecentActivity, a.UserID)
	if err != nil {
		fail(c, err)
		return
	}
	h.svc.RecordView(ctx, a, "AdminProfile", "Viewed admin profile page")

	render(c, http.StatusOK, "admin_profile.html", gin.H{
		"Profile": profile,
		"Stats":   stats,
		"Recent":  recent,
	})
}

func (h *Handlers) ProfileAction(c *gin.Context) {
	ctx := c.Request.Context()
	a := actor(c)

	var res admin.Result
	var err error
	switch c.PostForm("action") {
	case "update_profile":
		image, ok := uploadOrFlash(c, "profile_image")
		if !ok {
			break
		}
		res, err = h.svc.UpdateProfile(ctx, a, admin.ProfileInput{
			FirstName: c.PostForm("first_name"),
			LastName:  c.PostForm("last_name"),
			Email:     c.PostForm("email"),
			Phone:     c.PostForm("phone"),
			Image:     image,
		})
	case "change_password":
		var in admin.PasswordInput
		if bindErr := c.ShouldBind(&in); bindErr != nil {
			res = admin.Result{Message: "Invalid form data."}
			break
		}
		res, err = h.svc.ChangePassword(ctx, a, in)
	default:
		res = admin.Result{Message: "Unknown action."}
	}
	if err != nil {
		fail(c, err)
		return
	}
	if res.Message != "" {
		flashResult(c, res)
	}
	c.Redirect(http.StatusFound, profilePath)
}
