package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/admin"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/catalog"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/pagination"

	"github.com/gin-gonic/gin"
)

const (
	homeListings    = 3
	relatedListings = 3
)

// siteData — то, что нужно каждой публичной странице: активные картинки
// навбара, активные слайды и реквизиты компании.
func (h *Handlers) siteData(ctx context.Context, data gin.H) error {
	reg := h.svc.Slots()
	navbar := gin.H{}
	for _, cat := range models.ExclusiveCategories {
		asset, err := reg.Active(ctx, cat)
		if err != nil {
			return err
		}
		navbar[cat.Label()] = asset
	}
	slides, err := h.svc.Catalog().ListSlides(ctx, true)
	if err != nil {
		return err
	}
	company, err := h.svc.Catalog().CompanyInfo(ctx)
	if err != nil {
		return err
	}

	data["Navbar"] = navbar
	data["Slides"] = slides
	data["Company"] = company
	return nil
}

func (h *Handlers) renderPublic(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if err := h.siteData(c.Request.Context(), data); err != nil {
		fail(c, err)
		return
	}
	render(c, status, tmpl, data)
}

func (h *Handlers) Home(c *gin.Context) {
	ctx := c.Request.Context()
	featured, err := h.svc.Catalog().HomeListings(ctx, homeListings)
	if err != nil {
		fail(c, err)
		return
	}

	h.renderPublic(c, http.StatusOK, "home.html", gin.H{
		"Featured":    featured,
		"HasListings": len(featured) > 0,
	})
}

func (h *Handlers) LandProperties(c *gin.Context) {
	ctx := c.Request.Context()
	f := catalog.ListingFilter{
		Search:       c.Query("search"),
		SearchFields: catalog.PublicListingSearch,
		Status:       c.Query("status"),
		Type:         c.Query("type"),
		Division:     c.Query("division"),
		District:     c.Query("district"),
		Area:         c.Query("area"),
		ActiveOnly:   true,
	}

	viewMode := c.DefaultQuery("view", "paginated")
	p := pagination.Parse(c.Query("page"), pagination.PublicListingsPerPage)
	if viewMode == "all" {
		p.All = true
	}

	page, err := h.svc.Catalog().ListListings(ctx, f, p)
	if err != nil {
		fail(c, err)
		return
	}

	var districts, areas []string
	if f.Division != "" {
		if districts, err = h.svc.Catalog().Districts(ctx, f.Division, true); err != nil {
			fail(c, err)
			return
		}
	}
	if f.District != "" {
		if areas, err = h.svc.Catalog().Areas(ctx, f.District, true); err != nil {
			fail(c, err)
			return
		}
	}

	h.renderPublic(c, http.StatusOK, "land_properties.html", gin.H{
		"Page":            page,
		"ViewMode":        viewMode,
		"Filter":          f,
		"Districts":       districts,
		"Areas":           areas,
		"ProjectStatuses": models.ProjectStatusChoices,
		"PropertyTypes":   models.PropertyTypeChoices,
		"Divisions":       models.DivisionChoices,
	})
}

func (h *Handlers) LandPropertyDetail(c *gin.Context) {
	ctx := c.Request.Context()
	id := parseID(c.Param("id"))
	if id == 0 {
		notFound(c)
		return
	}

	p, err := h.svc.Catalog().GetListing(ctx, id, true)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			notFound(c)
			return
		}
		fail(c, err)
		return
	}
	related, err := h.svc.Catalog().RelatedListings(ctx, *p, relatedListings)
	if err != nil {
		fail(c, err)
		return
	}

	h.renderPublic(c, http.StatusOK, "land_property_detail.html", gin.H{
		"Property": p,
		"Related":  related,
	})
}

func (h *Handlers) contactPage(c *gin.Context, status int, form admin.LeadInput) {
	h.renderPublic(c, status, "contact.html", gin.H{
		"Form":          form,
		"PropertyTypes": models.InterestChoices,
		"BudgetRanges":  models.BudgetChoices,
	})
}

func (h *Handlers) ShowContact(c *gin.Context) {
	h.contactPage(c, http.StatusOK, admin.LeadInput{})
}

// leadFromForm: чекбокс приходит как "on", поэтому без ShouldBind.
func leadFromForm(c *gin.Context) admin.LeadInput {
	return admin.LeadInput{
		FirstName:    c.PostForm("first_name"),
		LastName:     c.PostForm("last_name"),
		Email:        c.PostForm("email"),
		Phone:        c.PostForm("phone"),
		PropertyType: c.PostForm("property_type"),
		Budget:       c.PostForm("budget"),
		Message:      c.PostForm("message"),
		Newsletter:   checkbox(c, "newsletter_subscription"),
	}
}

func (h *Handlers) SubmitContact(c *gin.Context) {
	in := leadFromForm(c)
	res, err := h.svc.SubmitLead(c.Request.Context(), in, c.ClientIP())
	if err != nil {
		fail(c, err)
		return
	}
	flashResult(c, res)
	if !res.Success {
		h.contactPage(c, http.StatusOK, in)
		return
	}
	c.Redirect(http.StatusFound, "/contact")
}

// ContactAJAX — та же форма в JSON.
func (h *Handlers) ContactAJAX(c *gin.Context) {
	var in admin.LeadInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": []string{"Invalid request data"}})
		return
	}

	res, err := h.svc.SubmitLead(c.Request.Context(), in, c.ClientIP())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "errors": []string{"An error occurred. Please try again."}})
		return
	}
	if !res.Success {
		errs := res.Errors
		if len(errs) == 0 {
			errs = []string{res.Message}
		}
		c.JSON(http.StatusOK, gin.H{"success": false, "errors": errs})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": res.Message})
}

