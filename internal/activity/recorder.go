// Package activity — журнал действий администраторов.
package activity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/pagination"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Entry — одна запись. Model — имя сущности ("LandProperty", "Admin", ...).
type Entry struct {
	ActorID     uint
	Action      models.ActionKind
	Model       string
	ObjectID    *uint
	Description string
	IP          string
	UserAgent   string
}

type Recorder struct {
	db  *gorm.DB
	now func() time.Time
}

func NewRecorder(db *gorm.DB) *Recorder {
	return &Recorder{db: db, now: time.Now}
}

// Record только добавляет строку. Ошибку решает вызывающий: бизнес-операция
// к этому моменту уже выполнена и не откатывается.
func (r *Recorder) Record(ctx context.Context, e Entry) error {
	if e.ActorID == 0 {
		return errors.New("activity: actor is required")
	}
	if !e.Action.Valid() {
		return fmt.Errorf("activity: unknown action %q", e.Action)
	}
	row := models.AdminActivity{
		AdminID:     e.ActorID,
		Action:      e.Action,
		ModelName:   e.Model,
		ObjectID:    e.ObjectID,
		Description: e.Description,
		IPAddress:   e.IP,
		UserAgent:   e.UserAgent,
		Timestamp:   r.now(),
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&row).Error; err != nil {
		return fmt.Errorf("activity: record: %w", err)
	}
	return nil
}

// Filter — фильтры списка. DateRange: today, week, month, year.
type Filter struct {
	Actor     string
	Action    string
	Model     string
	DateRange string
}

func (r *Recorder) since(rangeName string) (time.Time, bool) {
	now := r.now()
	switch rangeName {
	case "today":
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location()), true
	case "week":
		return now.AddDate(0, 0, -7), true
	case "month":
		return now.AddDate(0, 0, -30), true
	case "year":
		return now.AddDate(0, 0, -365), true
	}
	return time.Time{}, false
}

func (r *Recorder) query(ctx context.Context, f Filter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&models.AdminActivity{})

	if actor := strings.TrimSpace(f.Actor); actor != "" {
		// подзапрос вместо JOIN: Count и Find идут по одной таблице
		actors := r.db.Model(&models.User{}).Select("id").
			Where("LOWER(username) LIKE ? ESCAPE '!'", "%"+escapeLike(strings.ToLower(actor))+"%")
		q = q.Where("admin_activities.admin_id IN (?)", actors)
	}
	if f.Action != "" {
		q = q.Where("admin_activities.action = ?", f.Action)
	}
	if f.Model != "" {
		q = q.Where("admin_activities.model_name = ?", f.Model)
	}
	if from, ok := r.since(f.DateRange); ok {
		q = q.Where("admin_activities.timestamp >= ?", from)
	}
	return q
}

func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

const activityOrder = "admin_activities.timestamp desc, admin_activities.id desc"

func (r *Recorder) List(ctx context.Context, f Filter, p pagination.Params) (pagination.Page[models.AdminActivity], error) {
	q := r.query(ctx, f)
	page, err := pagination.Find[models.AdminActivity](q, activityOrder, p, "Admin")
	if err != nil {
		return page, fmt.Errorf("activity: list: %w", err)
	}
	return page, nil
}

// Recent — последние записи; actorID = 0 — по всем админам.
func (r *Recorder) Recent(ctx context.Context, limit int, actorID uint) ([]models.AdminActivity, error) {
	q := r.db.WithContext(ctx).Preload("Admin").Order(activityOrder).Limit(limit)
	if actorID != 0 {
		q = q.Where("admin_id = ?", actorID)
	}
	var out []models.AdminActivity
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("activity: recent: %w", err)
	}
	return out, nil
}

func (r *Recorder) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.AdminActivity{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("activity: count: %w", err)
	}
	return n, nil
}

type Stats struct {
	Total         int64
	Today         int64
	Week          int64
	Month         int64
	ActiveAdmins  int64 // входили за последние 7 дней
	RecentChanges int64 // create/update/delete за 7 дней
}

func (r *Recorder) Stats(ctx context.Context) (Stats, error) {
	var st Stats
	base := r.db.WithContext(ctx).Model(&models.AdminActivity{})
	weekAgo, _ := r.since("week")

	counts := []struct {
		dst   *int64
		apply func(*gorm.DB) *gorm.DB
	}{
		{&st.Total, func(q *gorm.DB) *gorm.DB { return q }},
		{&st.Today, func(q *gorm.DB) *gorm.DB { from, _ := r.since("today"); return q.Where("timestamp >= ?", from) }},
		{&st.Week, func(q *gorm.DB) *gorm.DB { return q.Where("timestamp >= ?", weekAgo) }},
		{&st.Month, func(q *gorm.DB) *gorm.DB { from, _ := r.since("month"); return q.Where("timestamp >= ?", from) }},
		{&st.ActiveAdmins, func(q *gorm.DB) *gorm.DB {
			return q.Where("action = ? AND timestamp >= ?", models.ActionLogin, weekAgo).Distinct("admin_id")
		}},
		{&st.RecentChanges, func(q *gorm.DB) *gorm.DB {
			return q.Where("action IN ? AND timestamp >= ?",
				[]models.ActionKind{models.ActionCreate, models.ActionUpdate, models.ActionDelete}, weekAgo)
		}},
	}
	for _, c := range counts {
		if err := c.apply(base.Session(&gorm.Session{})).Count(c.dst).Error; err != nil {
			return Stats{}, fmt.Errorf("activity: stats: %w", err)
		}
	}
	return st, nil
}

// ActorStats — для страницы профиля.
type ActorStats struct {
	Total     int64
	Today     int64
	LastLogin *time.Time
}

func (r *Recorder) ActorStats(ctx context.Context, actorID uint) (ActorStats, error) {
	var st ActorStats
	base := r.db.WithContext(ctx).Model(&models.AdminActivity{}).Where("admin_id = ?", actorID)
	if err := base.Session(&gorm.Session{}).Count(&st.Total).Error; err != nil {
		return st, fmt.Errorf("activity: actor stats: %w", err)
	}
	today, _ := r.since("today")
	if err := base.Session(&gorm.Session{}).Where("timestamp >= ?", today).Count(&st.Today).Error; err != nil {
		return st, fmt.Errorf("activity: actor stats: %w", err)
	}

	var last models.AdminActivity
	err := base.Session(&gorm.Session{}).Where("action = ?", models.ActionLogin).Order("timestamp desc").First(&last).Error
	switch {
	case err == nil:
		st.LastLogin = &last.Timestamp
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return st, fmt.Errorf("activity: actor stats: %w", err)
	}
	return st, nil
}

// ModelNames — различные имена сущностей для фильтра.
func (r *Recorder) ModelNames(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&models.AdminActivity{}).
		Where("model_name <> ?", "").
		Distinct("model_name").
		Order("model_name").
		Pluck("model_name", &out).Error
	if err != nil {
		return nil, fmt.Errorf("activity: model names: %w", err)
	}
	return out, nil
}

// ActorNames — логины админов, у которых есть записи.
func (r *Recorder) ActorNames(ctx context.Context) ([]string, error) {
	var out []string
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id IN (?)", r.db.Model(&models.AdminActivity{}).Select("admin_id")).
		Order("username").
		Pluck("username", &out).Error
	if err != nil {
		return nil, fmt.Errorf("activity: actor names: %w", err)
	}
	return out, nil
}

// Purge удаляет весь журнал.
func (r *Recorder) Purge(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.AdminActivity{})
	if res.Error != nil {
		return 0, fmt.Errorf("activity: purge: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *Recorder) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Where("timestamp < ?", cutoff).Delete(&models.AdminActivity{})
	if res.Error != nil {
		return 0, fmt.Errorf("activity: purge before %s: %w", cutoff.Format(time.RFC3339), res.Error)
	}
	return res.RowsAffected, nil
}
