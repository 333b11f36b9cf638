package catalog

import (
	"context"
	"fmt"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"

	"gorm.io/gorm/clause"
)

const slideOrder = "image_assets.display_order asc, image_assets.created_at desc, carousel_slides.id desc"

// ListSlides — слайды в порядке картинок; activeOnly для главной.
func (s *Store) ListSlides(ctx context.Context, activeOnly bool) ([]models.CarouselSlide, error) {
	q := s.db.WithContext(ctx).
		Select("carousel_slides.*").
		Joins("JOIN image_assets ON image_assets.id = carousel_slides.image_id").
		Preload("Image").
		Order(slideOrder)
	if activeOnly {
		q = q.Where("image_assets.active = ?", true)
	}

	var out []models.CarouselSlide
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("catalog: list slides: %w", err)
	}
	return out, nil
}

func (s *Store) GetSlide(ctx context.Context, id uint) (*models.CarouselSlide, error) {
	var slide models.CarouselSlide
	if err := s.db.WithContext(ctx).Preload("Image").First(&slide, id).Error; err != nil {
		return nil, notFound("slide", id, err)
	}
	return &slide, nil
}

func (s *Store) CreateSlide(ctx context.Context, slide *models.CarouselSlide) error {
	if slide.ButtonText == "" {
		slide.ButtonText = models.DefaultButtonText
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(slide).Error; err != nil {
		return fmt.Errorf("catalog: create slide: %w", err)
	}
	return nil
}

func (s *Store) SaveSlide(ctx context.Context, slide *models.CarouselSlide) error {
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Save(slide).Error; err != nil {
		return fmt.Errorf("catalog: save slide %d: %w", slide.ID, err)
	}
	return nil
}

// DeleteSlide удаляет только строку слайда; картинку удаляет slots.Registry.
func (s *Store) DeleteSlide(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.CarouselSlide{}, id)
	if res.Error != nil {
		return fmt.Errorf("catalog: delete slide %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: slide %d", ErrNotFound, id)
	}
	return nil
}

type SlideStats struct {
	Total  int64
	Active int64
}

func (s *Store) SlideStats(ctx context.Context) (SlideStats, error) {
	var st SlideStats
	if err := s.db.WithContext(ctx).Model(&models.CarouselSlide{}).Count(&st.Total).Error; err != nil {
		return st, fmt.Errorf("catalog: slide stats: %w", err)
	}
	err := s.db.WithContext(ctx).Model(&models.CarouselSlide{}).
		Joins("JOIN image_assets ON image_assets.id = carousel_slides.image_id").
		Where("image_assets.active = ?", true).
		Count(&st.Active).Error
	if err != nil {
		return st, fmt.Errorf("catalog: slide stats: %w", err)
	}
	return st, nil
}
