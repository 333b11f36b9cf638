package models

import "time"

const DefaultButtonText = "More Details"

// CarouselSlide — текст слайда. Активность и порядок живут на ImageAsset.
type CarouselSlide struct {
	ID          uint   `gorm:"primaryKey"`
	Title       string `gorm:"size:200;not null"`
	Description string `gorm:"type:text"`
	ButtonText  string `gorm:"size:50"`
	ButtonURL   string `gorm:"size:500"`

	ImageID uint       `gorm:"not null;index"`
	Image   ImageAsset `gorm:"constraint:OnDelete:RESTRICT"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
