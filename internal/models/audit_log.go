package models

import "time"

type ActionKind string

const (
	ActionLogin  ActionKind = "login"
	ActionLogout ActionKind = "logout"
	ActionCreate ActionKind = "create"
	ActionUpdate ActionKind = "update"
	ActionDelete ActionKind = "delete"
	ActionView   ActionKind = "view"
)

var ActionChoices = []Choice{
	{Value: string(ActionLogin), Label: "Login"},
	{Value: string(ActionLogout), Label: "Logout"},
	{Value: string(ActionCreate), Label: "Create"},
	{Value: string(ActionUpdate), Label: "Update"},
	{Value: string(ActionDelete), Label: "Delete"},
	{Value: string(ActionView), Label: "View"},
}

func (a ActionKind) Valid() bool  { return hasChoice(ActionChoices, string(a)) }
func (a ActionKind) Label() string { return choiceLabel(ActionChoices, string(a)) }

// AdminActivity — запись журнала действий админов. Только добавление,
// удаляется целиком через Purge.
type AdminActivity struct {
	ID uint `gorm:"primaryKey"`

	AdminID uint `gorm:"not null;index"`
	Admin   User `gorm:"constraint:OnDelete:CASCADE"`

	Action      ActionKind `gorm:"type:varchar(20);not null;index"`
	ModelName   string     `gorm:"size:100;index"` // "LandProperty", "CarouselSlide", ...
	ObjectID    *uint
	Description string    `gorm:"type:text"`
	IPAddress   string    `gorm:"size:45"`
	UserAgent   string    `gorm:"type:text"`
	Timestamp   time.Time `gorm:"not null;index"`
}

func (AdminActivity) TableName() string { return "admin_activities" }
