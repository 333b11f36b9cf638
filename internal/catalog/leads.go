package catalog

import (
	"context"
	"fmt"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/pagination"
)

var LeadSearch = []string{"first_name", "last_name", "email", "phone", "message"}

type LeadFilter struct {
	Search       string
	Status       string
	PropertyType string
	Budget       string
}

func (s *Store) ListLeads(ctx context.Context, f LeadFilter, p pagination.Params) (pagination.Page[models.Lead], error) {
	q := containsFold(s.db.WithContext(ctx).Model(&models.Lead{}), LeadSearch, f.Search)
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.PropertyType != "" {
		q = q.Where("property_type = ?", f.PropertyType)
	}
	if f.Budget != "" {
		q = q.Where("budget = ?", f.Budget)
	}

	page, err := pagination.Find[models.Lead](q, "created_at desc, id desc", p)
	if err != nil {
		return page, fmt.Errorf("catalog: list leads: %w", err)
	}
	return page, nil
}

func (s *Store) CreateLead(ctx context.Context, l *models.Lead) error {
	if l.Status == "" {
		l.Status = models.LeadNew
	}
	if err := s.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("catalog: create lead: %w", err)
	}
	return nil
}

func (s *Store) GetLead(ctx context.Context, id uint) (*models.Lead, error) {
	var l models.Lead
	if err := s.db.WithContext(ctx).First(&l, id).Error; err != nil {
		return nil, notFound("lead", id, err)
	}
	return &l, nil
}

// UpdateLeadStatus возвращает заявку и её прежний статус.
func (s *Store) UpdateLeadStatus(ctx context.Context, id uint, status models.LeadStatus) (*models.Lead, models.LeadStatus, error) {
	l, err := s.GetLead(ctx, id)
	if err != nil {
		return nil, "", err
	}
	old := l.Status
	if err := s.db.WithContext(ctx).Model(l).Update("status", status).Error; err != nil {
		return nil, "", fmt.Errorf("catalog: update lead %d: %w", id, err)
	}
	return l, old, nil
}

func (s *Store) DeleteLead(ctx context.Context, id uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Lead{}, id)
	if res.Error != nil {
		return fmt.Errorf("catalog: delete lead %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: lead %d", ErrNotFound, id)
	}
	return nil
}

// MarkAllRead переводит все new в read, возвращает число затронутых.
func (s *Store) MarkAllRead(ctx context.Context) (int64, error) {
	res := s.db.WithContext(ctx).Model(&models.Lead{}).
		Where("status = ?", models.LeadNew).
		Update("status", models.LeadRead)
	if res.Error != nil {
		return 0, fmt.Errorf("catalog: mark leads read: %w", res.Error)
	}
	return res.RowsAffected, nil
}

type LeadStats struct {
	Total    int64
	ByStatus map[models.LeadStatus]int64
}

func (s LeadStats) New() int64 { return s.ByStatus[models.LeadNew] }

func (s *Store) LeadStats(ctx context.Context) (LeadStats, error) {
	type row struct {
		Status models.LeadStatus
		N      int64
	}
	var rows []row
	err := s.db.WithContext(ctx).Model(&models.Lead{}).
		Select("status, COUNT(*) AS n").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return LeadStats{}, fmt.Errorf("catalog: lead stats: %w", err)
	}

	st := LeadStats{ByStatus: map[models.LeadStatus]int64{}}
	for _, c := range models.LeadStatusChoices {
		st.ByStatus[models.LeadStatus(c.Value)] = 0
	}
	for _, r := range rows {
		st.ByStatus[r.Status] = r.N
		st.Total += r.N
	}
	return st, nil
}
