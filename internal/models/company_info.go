package models

import "time"

const DefaultCompanyName = "Matrichaya Properties Ltd."

type CompanyInfo struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"size:200;not null"`
	Address   string `gorm:"type:text"`
	Phone     string `gorm:"size:20"`
	Email     string `gorm:"size:254"`
	About     string `gorm:"type:text"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
