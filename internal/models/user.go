package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Username     string `gorm:"uniqueIndex;size:150;not null"`
	Email        string `gorm:"size:254"`
	FirstName    string `gorm:"size:150"`
	LastName     string `gorm:"size:150"`
	PasswordHash string `gorm:"not null"`
	IsStaff      bool   `gorm:"not null;default:false"`
	LastLogin    *time.Time
}

// FullName — имя для шапки админки, если не заполнено, то логин.
func (u User) FullName() string {
	name := strings.TrimSpace(u.FirstName + " " + u.LastName)
	if name == "" {
		return u.Username
	}
	return name
}

// AdminProfile — расширение пользователя для сотрудников.
type AdminProfile struct {
	ID           uint   `gorm:"primaryKey"`
	UserID       uint   `gorm:"uniqueIndex;not null"`
	User         User   `gorm:"constraint:OnDelete:CASCADE"`
	Phone        string `gorm:"size:20"`
	ImagePath    string `gorm:"size:512"`
	IsSuperAdmin bool   `gorm:"not null;default:false"`
	LastLoginIP  string `gorm:"size:45"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
