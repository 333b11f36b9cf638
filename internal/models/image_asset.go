package models

import "time"

type ImageCategory string

const (
	CategoryLogo          ImageCategory = "logo"
	CategoryBanner        ImageCategory = "banner"
	CategoryBackground    ImageCategory = "background"
	CategoryCarouselSlide ImageCategory = "carousel-slide"
	CategoryPropertyPhoto ImageCategory = "property-photo"
)

// ExclusiveCategories — категории, в которых активна максимум одна картинка.
var ExclusiveCategories = []ImageCategory{CategoryLogo, CategoryBanner, CategoryBackground}

var categoryLabels = map[ImageCategory]string{
	CategoryLogo:          "Logo",
	CategoryBanner:        "Banner",
	CategoryBackground:    "Background",
	CategoryCarouselSlide: "Carousel Slide",
	CategoryPropertyPhoto: "Property Photo",
}

func (c ImageCategory) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

func (c ImageCategory) Exclusive() bool {
	for _, e := range ExclusiveCategories {
		if c == e {
			return true
		}
	}
	return false
}

func (c ImageCategory) Label() string {
	if l, ok := categoryLabels[c]; ok {
		return l
	}
	return string(c)
}

type ImageAsset struct {
	ID           uint          `gorm:"primaryKey"`
	Category     ImageCategory `gorm:"type:varchar(32);not null;index"`
	Name         string        `gorm:"size:200;not null"`
	Path         string        `gorm:"size:512;not null"`
	Active       bool          `gorm:"not null;default:false;index"`
	DisplayOrder int           `gorm:"not null;default:0"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
