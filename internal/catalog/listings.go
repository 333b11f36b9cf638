package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	AdminListingSearch  = []string{"name", "location", "district", "area_name"}
	PublicListingSearch = []string{"name", "location", "description"}
)

const listingOrder = "land_properties.created_at desc, land_properties.id desc"

type ListingFilter struct {
	Search       string
	SearchFields []string
	Status       string
	Type         string
	Division     string
	District     string // подстрока
	Area         string // подстрока по area_name
	ActiveOnly   bool
}

func (s *Store) listingQuery(ctx context.Context, f ListingFilter) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.LandProperty{})

	fields := f.SearchFields
	if fields == nil {
		fields = AdminListingSearch
	}
	q = containsFold(q, fields, f.Search)

	if f.Status != "" {
		q = q.Where("project_status = ?", f.Status)
	}
	if f.Type != "" {
		q = q.Where("property_type = ?", f.Type)
	}
	if f.Division != "" {
		q = q.Where("division = ?", f.Division)
	}
	q = containsFold(q, []string{"district"}, f.District)
	q = containsFold(q, []string{"area_name"}, f.Area)
	if f.ActiveOnly {
		q = q.Where("is_active = ?", true)
	}
	return q
}

func (s *Store) ListListings(ctx context.Context, f ListingFilter, p pagination.Params) (pagination.Page[models.LandProperty], error) {
	page, err := pagination.Find[models.LandProperty](s.listingQuery(ctx, f), listingOrder, p, "Image")
	if err != nil {
		return page, fmt.Errorf("catalog: list listings: %w", err)
	}
	return page, nil
}

// GetListing; activeOnly — для публичной страницы, неактивные там 404.
func (s *Store) GetListing(ctx context.Context, id uint, activeOnly bool) (*models.LandProperty, error) {
	q := s.db.WithContext(ctx).Preload("Image")
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	var p models.LandProperty
	if err := q.First(&p, id).Error; err != nil {
		return nil, notFound("listing", id, err)
	}
	return &p, nil
}

func (s *Store) CreateListing(ctx context.Context, p *models.LandProperty) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(p).Error; err != nil {
		return fmt.Errorf("catalog: create listing: %w", err)
	}
	return nil
}

func (s *Store) SaveListing(ctx context.Context, p *models.LandProperty) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(p).Error; err != nil {
		return fmt.Errorf("catalog: save listing %d: %w", p.ID, err)
	}
	return nil
}

func (s *Store) DeleteListing(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.LandProperty{}, id)
	if res.Error != nil {
		return fmt.Errorf("catalog: delete listing %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: listing %d", ErrNotFound, id)
	}
	return nil
}

func (s *Store) setListingFlag(ctx context.Context, id uint, column string) (*models.LandProperty, error) {
	p, err := s.GetListing(ctx, id, false)
	if err != nil {
		return nil, err
	}
	err = s.db.WithContext(ctx).Model(p).Update(column, gorm.Expr("NOT "+column)).Error
	if err != nil {
		return nil, fmt.Errorf("catalog: toggle %s on listing %d: %w", column, id, err)
	}
	return s.GetListing(ctx, id, false)
}

func (s *Store) ToggleFeatured(ctx context.Context, id uint) (*models.LandProperty, error) {
	return s.setListingFlag(ctx, id, "is_featured")
}

func (s *Store) ToggleListingActive(ctx context.Context, id uint) (*models.LandProperty, error) {
	return s.setListingFlag(ctx, id, "is_active")
}

// HomeListings — избранные активные; если таких нет, любые активные.
func (s *Store) HomeListings(ctx context.Context, limit int) ([]models.LandProperty, error) {
	var out []models.LandProperty
	base := s.db.WithContext(ctx).Preload("Image").Where("is_active = ?", true).Order(listingOrder).Limit(limit)

	if err := base.Session(&gorm.Session{}).Where("is_featured = ?", true).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("catalog: featured listings: %w", err)
	}
	if len(out) > 0 {
		return out, nil
	}
	if err := base.Session(&gorm.Session{}).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("catalog: active listings: %w", err)
	}
	return out, nil
}

// RelatedListings — активные из того же округа (division) или района.
func (s *Store) RelatedListings(ctx context.Context, p models.LandProperty, limit int) ([]models.LandProperty, error) {
	var out []models.LandProperty
	err := s.db.WithContext(ctx).
		Preload("Image").
		Where("is_active = ? AND id <> ?", true, p.ID).
		Where("(division = ? OR district = ?)", p.Division, p.District).
		Order(listingOrder).
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, fmt.Errorf("catalog: related listings: %w", err)
	}
	return out, nil
}

func (s *Store) RecentListings(ctx context.Context, limit int) ([]models.LandProperty, error) {
	var out []models.LandProperty
	if err := s.db.WithContext(ctx).Order(listingOrder).Limit(limit).Find(&out).Error; err != nil {
		return nil, fmt.Errorf("catalog: recent listings: %w", err)
	}
	return out, nil
}

func (s *Store) distinct(ctx context.Context, column string, activeOnly bool, where string, arg string) ([]string, error) {
	q := s.db.WithContext(ctx).Model(&models.LandProperty{}).
		Where(column+" <> ?", "").
		Distinct(column).
		Order(column)
	if activeOnly {
		q = q.Where("is_active = ?", true)
	}
	if arg = strings.TrimSpace(arg); arg != "" {
		q = q.Where(where, arg)
	}
	var out []string
	if err := q.Pluck(column, &out).Error; err != nil {
		return nil, fmt.Errorf("catalog: distinct %s: %w", column, err)
	}
	return out, nil
}

// Districts — районы для выпадающего списка, опционально в пределах округа.
func (s *Store) Districts(ctx context.Context, division string, activeOnly bool) ([]string, error) {
	return s.distinct(ctx, "district", activeOnly, "division = ?", division)
}

// Areas — территории, опционально в пределах района.
func (s *Store) Areas(ctx context.Context, district string, activeOnly bool) ([]string, error) {
	return s.distinct(ctx, "area_name", activeOnly, "district = ?", district)
}

type ListingStats struct {
	Total    int64
	Featured int64
	Active   int64
}

func (s *Store) ListingStats(ctx context.Context) (ListingStats, error) {
	var st ListingStats
	db := s.db.WithContext(ctx).Model(&models.LandProperty{})
	if err := db.Session(&gorm.Session{}).Count(&st.Total).Error; err != nil {
		return st, fmt.Errorf("catalog: listing stats: %w", err)
	}
	if err := db.Session(&gorm.Session{}).Where("is_featured = ?", true).Count(&st.Featured).Error; err != nil {
		return st, fmt.Errorf("catalog: listing stats: %w", err)
	}
	if err := db.Session(&gorm.Session{}).Where("is_active = ?", true).Count(&st.Active).Error; err != nil {
		return st, fmt.Errorf("catalog: listing stats: %w", err)
	}
	return st, nil
}

// ListingExists — по имени, для идемпотентной загрузки фикстур.
func (s *Store) ListingExists(ctx context.Context, name string) (bool, error) {
	var n int64
	if err := s.db.WithContext(ctx).Model(&models.LandProperty{}).Where("name = ?", name).Count(&n).Error; err != nil {
		return false, fmt.Errorf("catalog: listing exists: %w", err)
	}
	return n > 0, nil
}
