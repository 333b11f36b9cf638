package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/media"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/validation"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	authModel     = "Admin"
	profileModel  = "AdminProfile"
	activityModel = "AdminActivity"

	profileImageDir   = "admin_profiles"
	minPasswordLength = 8
)

type LoginInput struct {
	Username string `form:"username"`
	Password string `form:"password"`
}

// Login пускает только сотрудников. Неверный логин, пароль и отсутствие
// прав неразличимы для вызывающего.
func (s *Service) Login(ctx context.Context, in LoginInput, ip, userAgent string) (*models.User, error) {
	username := strings.TrimSpace(in.Username)
	if username == "" || in.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var u models.User
	err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("admin: load user %q: %w", username, err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !u.IsStaff {
		log.Warn().Str("username", username).Msg("non-staff user tried to log into admin")
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	if err := s.db.WithContext(ctx).Model(&u).Update("last_login", now).Error; err != nil {
		log.Warn().Err(err).Uint("user_id", u.ID).Msg("failed to update last login")
	}
	if profile, err := s.Profile(ctx, u.ID); err == nil {
		if err := s.db.WithContext(ctx).Model(profile).Update("last_login_ip", ip).Error; err != nil {
			log.Warn().Err(err).Uint("user_id", u.ID).Msg("failed to update last login ip")
		}
	} else {
		log.Warn().Err(err).Uint("user_id", u.ID).Msg("failed to load admin profile")
	}

	s.record(ctx, Actor{UserID: u.ID, Username: u.Username, IP: ip, UserAgent: userAgent},
		models.ActionLogin, authModel, "Admin logged in", 0)
	return &u, nil
}

func (s *Service) Logout(ctx context.Context, a Actor) {
	s.record(ctx, a, models.ActionLogout, authModel, "Admin logged out", 0)
}

// User — сотрудник по id; nil, если нет или не сотрудник.
func (s *Service) User(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	err := s.db.WithContext(ctx).Where("is_staff = ?", true).First(&u, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("admin: load user %d: %w", id, err)
	}
	return &u, nil
}

// Profile возвращает профиль, создавая пустой при первом обращении.
func (s *Service) Profile(ctx context.Context, userID uint) (*models.AdminProfile, error) {
	var p models.AdminProfile
	err := s.db.WithContext(ctx).
		Where(models.AdminProfile{UserID: userID}).
		FirstOrCreate(&p).Error
	if err != nil {
		return nil, fmt.Errorf("admin: profile for user %d: %w", userID, err)
	}
	if err := s.db.WithContext(ctx).First(&p.User, userID).Error; err != nil {
		return nil, fmt.Errorf("admin: profile user %d: %w", userID, err)
	}
	return &p, nil
}

type ProfileInput struct {
	FirstName string      `validate:"max=150" label:"First name"`
	LastName  string      `validate:"max=150" label:"Last name"`
	Email     string      `validate:"omitempty,email,max=254" label:"Email"`
	Phone     string      `validate:"max=20" label:"Phone"`
	Image     *FileUpload `validate:"-"`
}

// UpdateProfile; новая аватарка пишется до сохранения, старая удаляется после.
func (s *Service) UpdateProfile(ctx context.Context, a Actor, in ProfileInput) (res Result, err error) {
	defer guard("profile.update", &res, &err)

	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	if errs := validation.Struct(in); len(errs) > 0 {
		return invalid(errs), nil
	}

	profile, err := s.Profile(ctx, a.UserID)
	if err != nil {
		return settle("profile.update", "Error updating profile", err)
	}

	store := s.slots.Media()
	var newPath string
	if !in.Image.empty() {
		newPath = media.NewPath(profileImageDir, in.Image.Filename)
		if err := store.Put(ctx, newPath, in.Image.Data); err != nil {
			return settle("profile.update", "Error updating profile", err)
		}
	}
	oldPath := profile.ImagePath

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.User{}).Where("id = ?", a.UserID).Updates(map[string]any{
			"first_name": in.FirstName,
			"last_name":  in.LastName,
			"email":      in.Email,
		}).Error
		if err != nil {
			return err
		}
		updates := map[string]any{"phone": in.Phone}
		if newPath != "" {
			updates["image_path"] = newPath
		}
		return tx.Model(&models.AdminProfile{}).Where("id = ?", profile.ID).Updates(updates).Error
	})
	if err != nil {
		if newPath != "" {
			store.Delete(ctx, newPath)
		}
		return settle("profile.update", "Error updating profile", err)
	}
	if newPath != "" && oldPath != "" {
		store.Delete(ctx, oldPath)
	}

	s.record(ctx, a, models.ActionUpdate, profileModel, "Updated admin profile information", 0)
	return ok("Profile updated successfully!", profile.ID), nil
}

type PasswordInput struct {
	Current string `form:"current_password"`
	New     string `form:"new_password"`
	Confirm string `form:"confirm_password"`
}

// ChangePassword: проверки идут по очереди, первая неудачная и есть ответ.
func (s *Service) ChangePassword(ctx context.Context, a Actor, in PasswordInput) (res Result, err error) {
	defer guard("profile.password", &res, &err)

	var u models.User
	if err := s.db.WithContext(ctx).First(&u, a.UserID).Error; err != nil {
		return settle("profile.password", "Error changing password", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Current)) != nil {
		return invalidOne("Current password is incorrect."), nil
	}
	if in.New != in.Confirm {
		return invalidOne("New passwords do not match."), nil
	}
	if len(in.New) < minPasswordLength {
		return invalidOne(fmt.Sprintf("New password must be at least %d characters long.", minPasswordLength)), nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.New), bcrypt.DefaultCost)
	if err != nil {
		return settle("profile.password", "Error changing password", err)
	}
	if err := s.db.WithContext(ctx).Model(&u).Update("password_hash", string(hash)).Error; err != nil {
		return settle("profile.password", "Error changing password", err)
	}

	s.record(ctx, a, models.ActionUpdate, profileModel, "Changed admin password", 0)
	return ok("Password changed successfully!", u.ID), nil
}

func invalidOne(msg string) Result {
	return Result{Message: msg, Errors: []string{msg}}
}

// PurgeActivities удаляет весь журнал и пишет об этом первую новую запись.
func (s *Service) PurgeActivities(ctx context.Context, a Actor) (res Result, err error) {
	defer guard("activities.purge", &res, &err)

	n, err := s.activity.Purge(ctx)
	if err != nil {
		return settle("activities.purge", "Error deleting admin activities", err)
	}

	s.record(ctx, a, models.ActionDelete, activityModel, fmt.Sprintf("Deleted all %d admin activities", n), 0)
	return ok(fmt.Sprintf("Successfully deleted all %d admin activities.", n), 0), nil
}
