package handlers

import (
	"net/http"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"

	"github.com/gin-gonic/gin"
)

const slidesPath = "/admin/carousel-slides"

func (h *Handlers) Slides(c *gin.Context) {
	ctx := c.Request.Context()
	slides, err := h.svc.Catalog().ListSlides(ctx, false)
	if err != nil {
		fail(c, err)
		return
	}
	stats, err := h.svc.Catalog().SlideStats(ctx)
	if err != nil {
		fail(c, err)
		return
	}
	h.svc.RecordView(ctx, actor(c), "CarouselSlide", "Viewed carousel slides management")

	render(c, http.StatusOK, "admin_slides.html", gin.H{
		"Slides": slides,
		"Stats":  stats,
	})
}

func slideFromForm(c *gin.Context, file *admin.FileUpload) admin.SlideInput {
	return admin.SlideInput{
		Title:       c.PostForm("title"),
		Description: c.PostForm("description"),
		ButtonText:  c.PostForm("button_text"),
		ButtonURL:   c.PostForm("button_url"),
		Active:      checkbox(c, "is_active"),
		Order:       formInt(c, "display_order"),
		File:        file,
	}
}

func (h *Handlers) SlidesAction(c *gin.Context) {
	ctx := c.Request.Context()
	a := actor(c)
	id := parseID(c.PostForm("slide_id"))

	var res admin.Result
	var err error
	switch c.PostForm("action") {
	case "create":
		file, ok := uploadOrFlash(c, "image")
		if !ok {
			break
		}
		res, err = h.svc.CreateSlide(ctx, a, slideFromForm(c, file))
	case "update":
		file, ok := uploadOrFlash(c, "image")
		if !ok {
			break
		}
		res, err = h.svc.UpdateSlide(ctx, a, id, slideFromForm(c, file))
	case "toggle_active":
		res, err = h.svc.ToggleSlide(ctx, a, id)
	case "delete":
		res, err = h.svc.DeleteSlide(ctx, a, id)
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
	c.Redirect(http.StatusFound, slidesPath)
}
