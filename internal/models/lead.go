package models

import (
	"strings"
	"time"
)

type LeadStatus string

const (
	LeadNew     LeadStatus = "new"
	LeadRead    LeadStatus = "read"
	LeadReplied LeadStatus = "replied"
	LeadClosed  LeadStatus = "closed"
)

var LeadStatusChoices = []Choice{
	{Value: string(LeadNew), Label: "New"},
	{Value: string(LeadRead), Label: "Read"},
	{Value: string(LeadReplied), Label: "Replied"},
	{Value: string(LeadClosed), Label: "Closed"},
}

var InterestChoices = []Choice{
	{Value: "apartment", Label: "Apartment"},
	{Value: "house", Label: "House"},
	{Value: "land", Label: "Land"},
	{Value: "commercial", Label: "Commercial"},
	{Value: "other", Label: "Other"},
}

var BudgetChoices = []Choice{
	{Value: "under-50", Label: "Under 50 Lakh"},
	{Value: "50-100", Label: "50 Lakh - 1 Crore"},
	{Value: "100-200", Label: "1 - 2 Crore"},
	{Value: "200-500", Label: "2 - 5 Crore"},
	{Value: "above-500", Label: "Above 5 Crore"},
}

func (s LeadStatus) Valid() bool  { return hasChoice(LeadStatusChoices, string(s)) }
func (s LeadStatus) Label() string { return choiceLabel(LeadStatusChoices, string(s)) }

// Lead — заявка с формы контактов.
type Lead struct {
	ID           uint       `gorm:"primaryKey"`
	FirstName    string     `gorm:"size:100;not null"`
	LastName     string     `gorm:"size:100;not null"`
	Email        string     `gorm:"size:254;not null"`
	Phone        string     `gorm:"size:20;not null"`
	PropertyType string     `gorm:"size:20"`
	Budget       string     `gorm:"size:20"`
	Message      string     `gorm:"type:text;not null"`
	Newsletter   bool       `gorm:"not null;default:false"`
	Status       LeadStatus `gorm:"type:varchar(20);not null;index"`
	IPAddress    string     `gorm:"size:45"`
	CreatedAt    time.Time  `gorm:"index"`
	UpdatedAt    time.Time
}

func (Lead) TableName() string { return "contact_messages" }

func (l Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

func (l Lead) InterestLabel() string { return choiceLabel(InterestChoices, l.PropertyType) }
func (l Lead) BudgetLabel() string   { return choiceLabel(BudgetChoices, l.Budget) }
