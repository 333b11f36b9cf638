// Package catalog — хранилище объявлений, слайдов, заявок и реквизитов компании.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"

	"gorm.io/gorm"
)

var ErrNotFound = errors.New("catalog: record not found")

type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func notFound(what string, id uint, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s %d", ErrNotFound, what, id)
	}
	return fmt.Errorf("catalog: load %s %d: %w", what, id, err)
}

// escapeLike экранирует спецсимволы LIKE через '!'.
func escapeLike(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return r.Replace(s)
}

// containsFold — регистронезависимый поиск подстроки по OR списка колонок.
// Колонки берутся только из констант пакета.
func containsFold(q *gorm.DB, columns []string, term string) *gorm.DB {
	term = strings.TrimSpace(term)
	if term == "" || len(columns) == 0 {
		return q
	}
	pattern := "%" + escapeLike(strings.ToLower(term)) + "%"

	parts := make([]string, 0, len(columns))
	args := make([]any, 0, len(columns))
	for _, col := range columns {
		parts = append(parts, "LOWER("+col+") LIKE ? ESCAPE '!'")
		args = append(args, pattern)
	}
	return q.Where("("+strings.Join(parts, " OR ")+")", args...)
}

// CompanyInfo — первая строка реквизитов или nil.
func (s *Store) CompanyInfo(ctx context.Context) (*models.CompanyInfo, error) {
	var info models.CompanyInfo
	err := s.db.WithContext(ctx).Order("id").First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("catalog: company info: %w", err)
	}
	return &info, nil
}

func (s *Store) SaveCompanyInfo(ctx context.Context, info *models.CompanyInfo) error {
	if err := s.db.WithContext(ctx).Save(info).Error; err != nil {
		return fmt.Errorf("catalog: save company info: %w", err)
	}
	return nil
}
