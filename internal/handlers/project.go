package handlers

import (
	"net/http"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/catalog"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/pagination"

	"github.com/gin-gonic/gin"
)

const listingsPath = "/admin/land-properties"

//
// ЗЕМЕЛЬНЫЕ УЧАСТКИ (АДМИНКА)
//

func (h *Handlers) AdminListings(c *gin.Context) {
	ctx := c.Request.Context()
	f := catalog.ListingFilter{
		Search:       c.Query("search"),
		SearchFields: catalog.AdminListingSearch,
		Status:       c.Query("status"),
		Type:         c.Query("type"),
		Division:     c.Query("division"),
		District:     c.Query("district"),
		Area:         c.Query("area"),
	}
	p := pagination.Parse(c.Query("page"), pagination.AdminListingsPerPage)

	page, err := h.svc.Catalog().ListListings(ctx, f, p)
	if err != nil {
		fail(c, err)
		return
	}
	// выпадающие списки по всем участкам, включая скрытые
	districts, err := h.svc.Catalog().Districts(ctx, "", false)
	if err != nil {
		fail(c, err)
		return
	}
	areas, err := h.svc.Catalog().Areas(ctx, "", false)
	if err != nil {
		fail(c, err)
		return
	}
	h.svc.RecordView(ctx, actor(c), "LandProperty", "Viewed land properties management")

	render(c, http.StatusOK, "admin_land_properties.html", gin.H{
		"Page":            page,
		"Filter":          f,
		"Blank":           models.LandProperty{IsActive: true},
		"Districts":       districts,
		"Areas":           areas,
		"ProjectStatuses": models.ProjectStatusChoices,
		"PropertyTypes":   models.PropertyTypeChoices,
		"Divisions":       models.DivisionChoices,
	})
}

// listingFromForm читает форму участка. Числа остаются строками,
// их проверяет admin.ListingInput.
func listingFromForm(c *gin.Context, image *admin.FileUpload) admin.ListingInput {
	return admin.ListingInput{
		Name:           c.PostForm("name"),
		Area:           c.PostForm("area"),
		Location:       c.PostForm("location"),
		Division:       c.PostForm("division"),
		District:       c.PostForm("district"),
		AreaName:       c.PostForm("area_name"),
		Description:    c.PostForm("description"),
		ProjectStatus:  c.PostForm("project_status"),
		PropertyType:   c.PostForm("property_type"),
		PricePerKatha:  c.PostForm("price_per_katha"),
		TotalPlots:     c.PostForm("total_plots"),
		AvailablePlots: c.PostForm("available_plots"),
		Amenities:      c.PostForm("amenities"),
		IsFeatured:     checkbox(c, "is_featured"),
		IsActive:       checkbox(c, "is_active"),
		Image:          image,
	}
}

func (h *Handlers) AdminListingsAction(c *gin.Context) {
	ctx := c.Request.Context()
	a := actor(c)
	id := parseID(c.PostForm("land_property_id"))

	var res admin.Result
	var err error
	switch c.PostForm("action") {
	case "create":
		image, ok := uploadOrFlash(c, "image")
		if !ok {
			break
		}
		res, err = h.svc.CreateListing(ctx, a, listingFromForm(c, image))
	case "update":
		image, ok := uploadOrFlash(c, "image")
		if !ok {
			break
		}
		res, err = h.svc.UpdateListing(ctx, a, id, listingFromForm(c, image))
	case "delete":
		res, err = h.svc.DeleteListing(ctx, a, id)
	case "toggle_featured":
		res, err = h.svc.ToggleFeatured(ctx, a, id)
	case "toggle_active":
		res, err = h.svc.ToggleListingActive(ctx, a, id)
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
	c.Redirect(http.StatusFound, listingsPath)
}
