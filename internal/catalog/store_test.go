package catalog

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/database"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/pagination"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCatalogTest(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return NewStore(db), db
}

func listing(name string, mut func(*models.LandProperty)) *models.LandProperty {
	p := &models.LandProperty{
		Name:          name,
		Location:      name + " road",
		Division:      models.DivisionDhaka,
		District:      "Dhaka",
		AreaName:      "Keraniganj",
		ProjectStatus: models.StatusOngoing,
		PropertyType:  models.TypeResidential,
		IsActive:      true,
	}
	if mut != nil {
		mut(p)
	}
	return p
}

func seedListings(t *testing.T, s *Store, items ...*models.LandProperty) {
	t.Helper()
	for _, p := range items {
		require.NoError(t, s.CreateListing(context.Background(), p))
	}
}

func names(items []models.LandProperty) []string {
	out := make([]string, 0, len(items))
	for _, p := range items {
		out = append(out, p.Name)
	}
	return out
}

func TestListListings_SearchAndFilters(t *testing.T) {
	s, _ := setupCatalogTest(t)
	ctx := context.Background()

	seedListings(t, s,
		listing("Polash Nagar", nil),
		listing("South Dhaka Model Town", func(p *models.LandProperty) {
			p.District = "Munshiganj"
			p.AreaName = "Sirajdikhan"
		}),
		listing("Chittagong Hill View", func(p *models.LandProperty) {
			p.Division = models.DivisionChittagong
			p.District = "Chittagong"
			p.AreaName = "Hathazari"
			p.PropertyType = models.TypeMixed
			p.Description = "Sea facing plots near Polash market"
		}),
		listing("Barisal Green Valley", func(p *models.LandProperty) {
			p.Division = models.DivisionBarisal
			p.District = "Barisal"
			p.ProjectStatus = models.StatusUpcoming
			p.IsActive = false
		}),
	)

	all := pagination.Params{Page: 1, PerPage: 10}

	page, err := s.ListListings(ctx, ListingFilter{Search: "MUNSHI"}, all)
	require.NoError(t, err)
	assert.Equal(t, []string{"South Dhaka Model Town"}, names(page.Items))

	page, err = s.ListListings(ctx, ListingFilter{Search: "polash", SearchFields: PublicListingSearch}, all)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Polash Nagar", "Chittagong Hill View"}, names(page.Items))

	page, err = s.ListListings(ctx, ListingFilter{Division: "dhaka", District: "dhak"}, all)
	require.NoError(t, err)
	assert.Equal(t, []string{"Polash Nagar"}, names(page.Items))

	page, err = s.ListListings(ctx, ListingFilter{Type: "mixed", Area: "HATH"}, all)
	require.NoError(t, err)
	assert.Equal(t, []string{"Chittagong Hill View"}, names(page.Items))

	page, err = s.ListListings(ctx, ListingFilter{Status: "upcoming"}, all)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barisal Green Valley"}, names(page.Items))

	page, err = s.ListListings(ctx, ListingFilter{Status: "upcoming", ActiveOnly: true}, all)
	require.NoError(t, err)
	assert.Empty(t, page.Items)
}

func TestListListings_LikeWildcardsAreLiteral(t *testing.T) {
	s, _ := setupCatalogTest(t)
	ctx := context.Background()

	seedListings(t, s, listing("Plot 100% sold", nil), listing("Plot 1000", nil), listing("Block_A", nil), listing("BlockXA", nil))

	page, err := s.ListListings(ctx, ListingFilter{Search: "100%"}, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Plot 100% sold"}, names(page.Items))

	page, err = s.ListListings(ctx, ListingFilter{Search: "block_"}, pagination.Params{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, []string{"Block_A"}, names(page.Items))
}

func TestListListings_Pagination(t *testing.T) {
	s, _ := setupCatalogTest(t)
	for i := 0; i < 8; i++ {
		seedListings(t, s, listing(fmt.Sprintf("Project %d", i), nil))
	}

	page, err := s.ListListings(context.Background(), ListingFilter{ActiveOnly: true}, pagination.Params{Page: 9, PerPage: 6})
	require.NoError(t, err)
	assert.Equal(t, 2, page.Page)
	assert.Len(t, page.Items, 2)

	page, err = s.ListListings(context.Background(), ListingFilter{ActiveOnly: true}, pagination.Params{Page: 1, PerPage: 6, All: true})
	require.NoError(t, err)
	assert.Len(t, page.Items, 8)
}

func TestGetListing_ActiveOnly(t *testing.T) {
	s, _ := setupCatalogTest(t)
	ctx := context.Background()

	hidden := listing("Hidden", func(p *models.LandProperty) { p.IsActive = false })
	seedListings(t, s, hidden)

	_, err := s.GetListing(ctx, hidden.ID, true)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetListing(ctx, hidden.ID, false)
	require.NoError(t, err)
	assert.False(t, got.IsActive)
}

func TestToggleFlags(t *testing.T) {
	s, _ := setupCatalogTest(t)
	ctx := context.Background()

	p := listing("Toggle me", nil)
	seedListings(t, s, p)

	got, err := s.ToggleFeatured(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsFeatured)

	got, err = s.ToggleListingActive(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	got, err = s.ToggleListingActive(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)

	_, err = s.ToggleFeatured(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestHomeListings_FallsBackToActive(t *testing.T) {
	s, _ := setupCatalogTest(t)
	ctx := context.Background()

	seedListings(t, s,
		listing("A", nil),
		listing("B", nil),
		listing("Inactive featured", func(p *models.LandProperty) { p.IsFeatured = true; p.IsActive = false }),
	)

	got, err := s.HomeListings(ctx, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"A", "B"}, names(got))

	seedListings(t, s, listing("Featured", func(p *models.LandProperty) { p.IsFeatured = true }))
	got, err = s.HomeListings(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, []string{"Featured"}, names(got))
}

func TestRelatedListings(t *testing.T) {
	s, _ := setupCatalogTest(t)
	ctx := context.Background()

	base := listing("Base", nil)
	seedListings(t, s,
		base,
		listing("Same division", func(p *models.LandProperty) { p.District = "Gazipur" }),
		listing("Same district", func(p *models.LandProperty) { p.Division = models.DivisionKhulna }),
		listing("Elsewhere", func(p *models.LandProperty) {
			p.Division = models.DivisionSylhet
			p.District = "Sylhet"
		}),
		listing("Inactive neighbour", func(p *models.LandProperty) { p.IsActive = false }),
	)

	got, err := s.RelatedListings(ctx, *base, 3)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Same division", "Same district"}, names(got))
}

func TestDistrictsAndAreas(t *testing.T) {
	s, _ := setupCatalogTest(t)
	ctx := context.Background()

	seedListings(t, s,
		listing("A", nil),
		listing("B", func(p *models.LandProperty) { p.District = "Munshiganj"; p.AreaName = "Sirajdikhan" }),
		listing("C", func(p *models.LandProperty) {
			p.Division = models.DivisionBarisal
			p.District = "Barisal"
			p.AreaName = "Wazirpur"
		}),
		listing("D", func(p *models.LandProperty) { p.District = "Narayanganj"; p.IsActive = false }),
	)

	districts, err := s.Districts(ctx, "", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Barisal", "Dhaka", "Munshiganj"}, districts)

	districts, err = s.Districts(ctx, "dhaka", false)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dhaka", "Munshiganj", "Narayanganj"}, districts)

	areas, err := s.Areas(ctx, "Munshiganj", true)
	require.NoError(t, err)
	assert.Equal(t, []string{"Sirajdikhan"}, areas)
}

func TestListingStats(t *testing.T) {
	s, _ := setupCatalogTest(t)
	seedListings(t, s,
		listing("A", func(p *models.LandProperty) { p.IsFeatured = true }),
		listing("B", nil),
		listing("C", func(p *models.LandProperty) { p.IsActive = false }),
	)

	st, err := s.ListingStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, ListingStats{Total: 3, Featured: 1, Active: 2}, st)

	exists, err := s.ListingExists(context.Background(), "B")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestDeleteListing(t *testing.T) {
	s, _ := setupCatalogTest(t)
	p := listing("Gone", nil)
	seedListings(t, s, p)

	require.NoError(t, s.DeleteListing(context.Background(), p.ID))
	assert.ErrorIs(t, s.DeleteListing(context.Background(), p.ID), ErrNotFound)
}

func createSlide(t *testing.T, s *Store, db *gorm.DB, title string, active bool, order int, created time.Time) *models.CarouselSlide {
	t.Helper()
	asset := &models.ImageAsset{
		Category:     models.CategoryCarouselSlide,
		Name:         title,
		Path:         "carousel/" + title + ".jpg",
		Active:       active,
		DisplayOrder: order,
		CreatedAt:    created,
	}
	require.NoError(t, db.Create(asset).Error)
	slide := &models.CarouselSlide{Title: title, ImageID: asset.ID}
	require.NoError(t, s.CreateSlide(context.Background(), slide))
	return slide
}

func TestListSlides_OrderAndActive(t *testing.T) {
	s, db := setupCatalogTest(t)
	ctx := context.Background()
	now := time.Now()

	createSlide(t, s, db, "third", true, 2, now)
	createSlide(t, s, db, "older-first", true, 1, now.Add(-time.Hour))
	createSlide(t, s, db, "newer-first", true, 1, now)
	hidden := createSlide(t, s, db, "hidden", false, 0, now)

	slides, err := s.ListSlides(ctx, true)
	require.NoError(t, err)
	var titles []string
	for _, sl := range slides {
		titles = append(titles, sl.Title)
		assert.Equal(t, sl.ImageID, sl.Image.ID)
	}
	assert.Equal(t, []string{"newer-first", "older-first", "third"}, titles)

	all, err := s.ListSlides(ctx, false)
	require.NoError(t, err)
	assert.Len(t, all, 4)
	assert.Equal(t, hidden.ID, all[0].ID)
	assert.Equal(t, models.DefaultButtonText, all[0].ButtonText)

	st, err := s.SlideStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, SlideStats{Total: 4, Active: 3}, st)

	require.NoError(t, s.DeleteSlide(ctx, hidden.ID))
	_, err = s.GetSlide(ctx, hidden.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func lead(first, email string, mut func(*models.Lead)) *models.Lead {
	l := &models.Lead{FirstName: first, LastName: "Test", Email: email, Phone: "01700000000", Message: "Interested in plots"}
	if mut != nil {
		mut(l)
	}
	return l
}

func TestLeads(t *testing.T) {
	s, _ := setupCatalogTest(t)
	ctx := context.Background()

	a := lead("Karim", "karim@example.com", func(l *models.Lead) { l.Budget = "50-100" })
	b := lead("Rahim", "rahim@example.com", func(l *models.Lead) { l.PropertyType = "land"; l.Message = "Need a commercial plot" })
	c := lead("Salma", "salma@example.com", func(l *models.Lead) { l.Status = models.LeadClosed })
	for _, l := range []*models.Lead{a, b, c} {
		require.NoError(t, s.CreateLead(ctx, l))
	}
	assert.Equal(t, models.LeadNew, a.Status)

	all := pagination.Params{Page: 1, PerPage: 15}

	page, err := s.ListLeads(ctx, LeadFilter{Search: "COMMERCIAL"}, all)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, b.ID, page.Items[0].ID)

	page, err = s.ListLeads(ctx, LeadFilter{Budget: "50-100"}, all)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, a.ID, page.Items[0].ID)

	page, err = s.ListLeads(ctx, LeadFilter{Status: "new", PropertyType: "land"}, all)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)

	updated, old, err := s.UpdateLeadStatus(ctx, a.ID, models.LeadReplied)
	require.NoError(t, err)
	assert.Equal(t, models.LeadNew, old)
	assert.Equal(t, models.LeadReplied, updated.Status)

	n, err := s.MarkAllRead(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	st, err := s.LeadStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(3), st.Total)
	assert.Equal(t, int64(0), st.New())
	assert.Equal(t, int64(1), st.ByStatus[models.LeadRead])
	assert.Equal(t, int64(1), st.ByStatus[models.LeadReplied])
	assert.Equal(t, int64(1), st.ByStatus[models.LeadClosed])

	require.NoError(t, s.DeleteLead(ctx, c.ID))
	_, err = s.GetLead(ctx, c.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCompanyInfo(t *testing.T) {
	s, _ := setupCatalogTest(t)
	ctx := context.Background()

	info, err := s.CompanyInfo(ctx)
	require.NoError(t, err)
	assert.Nil(t, info)

	require.NoError(t, s.SaveCompanyInfo(ctx, &models.CompanyInfo{Name: models.DefaultCompanyName, Phone: "+880 1700-000000"}))
	info, err = s.CompanyInfo(ctx)
	require.NoError(t, err)
	require.NotNil(t, info)
	assert.Equal(t, models.DefaultCompanyName, info.Name)
}
