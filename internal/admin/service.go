// Package admin — операции админки. Каждая операция возвращает Result для
// флеш-сообщения; error только для not-found и сбоев инфраструктуры.
package admin

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/activity"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/catalog"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/seed"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/slots"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

var (
	ErrNotFound           = errors.New("admin: not found")
	ErrInvalidCredentials = errors.New("admin: invalid credentials")
)

const genericFailure = "Something went wrong. Please try again."

// Actor — кто выполняет операцию; IP и User-Agent идут в журнал.
type Actor struct {
	UserID    uint
	Username  string
	IP        string
	UserAgent string
}

type Result struct {
	Success    bool
	Message    string
	AffectedID *uint
	Errors     []string
}

type FileUpload struct {
	Filename string
	Data     []byte
}

func (f *FileUpload) empty() bool { return f == nil || len(f.Data) == 0 }

func ok(msg string, id uint) Result {
	r := Result{Success: true, Message: msg}
	if id != 0 {
		r.AffectedID = &id
	}
	return r
}

func fail(msg string) Result { return Result{Message: msg} }

func invalid(errs []string) Result {
	return Result{Message: "Please correct the following errors:", Errors: errs}
}

type Service struct {
	db       *gorm.DB
	slots    *slots.Registry
	catalog  *catalog.Store
	activity *activity.Recorder
	seeder   *seed.Seeder
}

func NewService(db *gorm.DB, reg *slots.Registry, store *catalog.Store, rec *activity.Recorder, seeder *seed.Seeder) *Service {
	return &Service{db: db, slots: reg, catalog: store, activity: rec, seeder: seeder}
}

func (s *Service) Slots() *slots.Registry      { return s.slots }
func (s *Service) Catalog() *catalog.Store     { return s.catalog }
func (s *Service) Activity() *activity.Recorder { return s.activity }

// record пишет в журнал; ошибка журнала операцию не валит.
func (s *Service) record(ctx context.Context, a Actor, action models.ActionKind, model, desc string, objectID uint) {
	e := activity.Entry{
		ActorID:     a.UserID,
		Action:      action,
		Model:       model,
		Description: desc,
		IP:          a.IP,
		UserAgent:   a.UserAgent,
	}
	if objectID != 0 {
		e.ObjectID = &objectID
	}
	if err := s.activity.Record(ctx, e); err != nil {
		log.Error().Err(err).Uint("admin_id", a.UserID).Str("model", model).Msg("failed to record admin activity")
	}
}

// RecordView — запись о просмотре страницы админки.
func (s *Service) RecordView(ctx context.Context, a Actor, model, desc string) {
	s.record(ctx, a, models.ActionView, model, desc, 0)
}

// guard ловит панику внутри операции и превращает её в общее сообщение.
func guard(op string, res *Result, err *error) {
	if p := recover(); p != nil {
		log.Error().
			Str("op", op).
			Interface("panic", p).
			Bytes("stack", debug.Stack()).
			Msg("admin operation panicked")
		*res = fail(genericFailure)
		*err = nil
	}
}

func isNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, slots.ErrNotFound) ||
		errors.Is(err, catalog.ErrNotFound) ||
		errors.Is(err, gorm.ErrRecordNotFound)
}

// settle раскладывает ошибку: not-found уходит наверх как ErrNotFound,
// остальное логируется и становится сообщением с префиксом.
func settle(op, prefix string, err error) (Result, error) {
	if isNotFound(err) {
		return Result{}, fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	log.Error().Err(err).Str("op", op).Msg("admin operation failed")
	return fail(prefix + ": " + reason(err)), nil
}

// reason — текст ошибки, который можно показать администратору.
func reason(err error) string {
	switch {
	case errors.Is(err, slots.ErrEmptyUpload):
		return "image file is required"
	case errors.Is(err, slots.ErrExclusiveCategory):
		return "display order cannot be changed for this image type"
	case errors.Is(err, slots.ErrInvalidCategory):
		return "unknown image type"
	}
	return "unexpected error, please try again"
}
