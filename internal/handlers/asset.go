package handlers

import (
	"net/http"
	"strings"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"

	"github.com/gin-gonic/gin"
)

//
// КАРТИНКИ НАВБАРА (логотип, баннер, фон)
//

func navbarCategory(c *gin.Context) (models.ImageCategory, bool) {
	cat := models.ImageCategory(c.Param("category"))
	return cat, cat.Exclusive()
}

func navbarPath(cat models.ImageCategory) string {
	return "/admin/navbar/" + string(cat)
}

func (h *Handlers) NavbarImages(c *gin.Context) {
	cat, ok := navbarCategory(c)
	if !ok {
		notFound(c)
		return
	}

	images, err := h.svc.NavbarImages(c.Request.Context(), cat)
	if err != nil {
		fail(c, err)
		return
	}
	h.svc.RecordView(c.Request.Context(), actor(c), "NavbarImage",
		"Viewed "+strings.ToLower(cat.Label())+" upload management")

	render(c, http.StatusOK, "admin_navbar.html", gin.H{
		"Category":   cat,
		"Label":      cat.Label(),
		"Images":     images,
		"Categories": models.ExclusiveCategories,
	})
}

// NavbarImagesAction — один POST на страницу, действие в поле action.
func (h *Handlers) NavbarImagesAction(c *gin.Context) {
	cat, ok := navbarCategory(c)
	if !ok {
		notFound(c)
		return
	}
	ctx := c.Request.Context()
	a := actor(c)
	id := parseID(c.PostForm("image_id"))

	var res admin.Result
	var err error
	switch c.PostForm("action") {
	case "upload":
		file, ok := uploadOrFlash(c, "image")
		if !ok {
			break
		}
		res, err = h.svc.UploadNavbarImage(ctx, a, cat, admin.NavbarInput{Name: c.PostForm("name"), File: file})
	case "toggle_active":
		res, err = h.svc.ToggleNavbarImage(ctx, a, cat, id)
	case "delete":
		res, err = h.svc.DeleteNavbarImage(ctx, a, cat, id)
	case "edit":
		file, ok := uploadOrFlash(c, "image")
		if !ok {
			break
		}
		res, err = h.svc.EditNavbarImage(ctx, a, cat, id, admin.NavbarInput{
			Name:   c.PostForm("name"),
			Active: checkbox(c, "is_active"),
			File:   file,
		})
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
	c.Redirect(http.StatusFound, navbarPath(cat))
}
