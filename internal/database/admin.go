package database

import (
	"errors"
	"fmt"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	defaultAdminUsername = "admin"
	defaultAdminPassword = "Admin123!"
)

// EnsureDefaultAdmin создаёт суперадмина, если в базе ещё нет ни одного
// сотрудника. Логин и пароль берутся из ADMIN_USERNAME / ADMIN_PASSWORD.
func EnsureDefaultAdmin(db *gorm.DB, username, password string) error {
	if username == "" {
		username = defaultAdminUsername
	}
	if password == "" {
		password = defaultAdminPassword
	}

	var count int64
	if err := db.Model(&models.User{}).Where("is_staff = ?", true).Count(&count).Error; err != nil {
		return fmt.Errorf("database: check admin user: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("database: hash admin password: %w", err)
	}

	admin := models.User{
		Username:     username,
		PasswordHash: string(hash),
		IsStaff:      true,
	}
	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&admin).Error; err != nil {
			return err
		}
		return tx.Create(&models.AdminProfile{UserID: admin.ID, IsSuperAdmin: true}).Error
	})
	if err != nil {
		return fmt.Errorf("database: create default admin: %w", err)
	}

	log.Info().Str("username", username).Msg("created default admin user")
	return nil
}

// EnsureCompanyInfo — одна строка с реквизитами компании.
func EnsureCompanyInfo(db *gorm.DB) error {
	var info models.CompanyInfo
	err := db.First(&info).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("database: load company info: %w", err)
	}
	info = models.CompanyInfo{Name: models.DefaultCompanyName}
	if err := db.Create(&info).Error; err != nil {
		return fmt.Errorf("database: create company info: %w", err)
	}
	return nil
}
