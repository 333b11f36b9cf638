package models

import (
	"math"
	"strings"
	"time"
)

type Division string

const (
	DivisionDhaka      Division = "dhaka"
	DivisionChittagong Division = "chittagong"
	DivisionRajshahi   Division = "rajshahi"
	DivisionKhulna     Division = "khulna"
	DivisionBarisal    Division = "barisal"
	DivisionSylhet     Division = "sylhet"
	DivisionRangpur    Division = "rangpur"
	DivisionMymensingh Division = "mymensingh"
)

var DivisionChoices = []Choice{
	{Value: string(DivisionDhaka), Label: "Dhaka"},
	{Value: string(DivisionChittagong), Label: "Chittagong"},
	{Value: string(DivisionRajshahi), Label: "Rajshahi"},
	{Value: string(DivisionKhulna), Label: "Khulna"},
	{Value: string(DivisionBarisal), Label: "Barisal"},
	{Value: string(DivisionSylhet), Label: "Sylhet"},
	{Value: string(DivisionRangpur), Label: "Rangpur"},
	{Value: string(DivisionMymensingh), Label: "Mymensingh"},
}

type ProjectStatus string

const (
	StatusOngoing   ProjectStatus = "ongoing"
	StatusCompleted ProjectStatus = "completed"
	StatusUpcoming  ProjectStatus = "upcoming"
)

var ProjectStatusChoices = []Choice{
	{Value: string(StatusOngoing), Label: "Ongoing"},
	{Value: string(StatusCompleted), Label: "Completed"},
	{Value: string(StatusUpcoming), Label: "Upcoming"},
}

type PropertyType string

const (
	TypeResidential PropertyType = "residential"
	TypeCommercial  PropertyType = "commercial"
	TypeMixed       PropertyType = "mixed"
)

var PropertyTypeChoices = []Choice{
	{Value: string(TypeResidential), Label: "Residential"},
	{Value: string(TypeCommercial), Label: "Commercial"},
	{Value: string(TypeMixed), Label: "Mixed Use"},
}

func (d Division) Label() string      { return choiceLabel(DivisionChoices, string(d)) }
func (s ProjectStatus) Label() string { return choiceLabel(ProjectStatusChoices, string(s)) }
func (t PropertyType) Label() string  { return choiceLabel(PropertyTypeChoices, string(t)) }

type LandProperty struct {
	ID          uint     `gorm:"primaryKey"`
	Name        string   `gorm:"size:200;not null"`
	Area        string   `gorm:"size:100"` // "150 katha"
	Location    string   `gorm:"size:300"`
	Division    Division `gorm:"type:varchar(20);not null;index"`
	District    string   `gorm:"size:100;index"`
	AreaName    string   `gorm:"size:100"`
	Description string   `gorm:"type:text"`

	ImageID *uint
	Image   *ImageAsset `gorm:"constraint:OnDelete:SET NULL"`

	ProjectStatus ProjectStatus `gorm:"type:varchar(20);not null;index"`
	PropertyType  PropertyType  `gorm:"type:varchar(20);not null;index"`

	PricePerKatha  *float64 `gorm:"type:decimal(12,2)"`
	TotalPlots     *uint
	AvailablePlots *uint
	Amenities      string `gorm:"type:text"`

	IsFeatured bool `gorm:"not null;default:false;index"`
	IsActive   bool `gorm:"not null;default:false;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SoldPlots — total - available, 0 если одно из значений не задано.
func (p LandProperty) SoldPlots() uint {
	if p.TotalPlots == nil || p.AvailablePlots == nil {
		return 0
	}
	if *p.AvailablePlots >= *p.TotalPlots {
		return 0
	}
	return *p.TotalPlots - *p.AvailablePlots
}

// CompletionPercentage считается только когда обе величины заданы и не нулевые.
func (p LandProperty) CompletionPercentage() float64 {
	if p.TotalPlots == nil || p.AvailablePlots == nil {
		return 0
	}
	if *p.TotalPlots == 0 || *p.AvailablePlots == 0 {
		return 0
	}
	pct := float64(p.SoldPlots()) / float64(*p.TotalPlots) * 100
	return math.Round(pct*10) / 10
}

// AmenityList режет строку удобств по запятым для шаблона.
func (p LandProperty) AmenityList() []string {
	var out []string
	for _, item := range strings.Split(p.Amenities, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
