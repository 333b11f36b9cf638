package pagination

import (
	"fmt"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

const DefaultPage = 1

// Размеры страниц по разделам.
const (
	AdminListingsPerPage  = 10
	PublicListingsPerPage = 6
	LeadsPerPage          = 15
	ActivitiesPerPage     = 25
)

type Params struct {
	Page    int
	PerPage int
	All     bool // view=all — без лимита
}

// Parse: мусор или номер < 1 → первая страница. Выход за последнюю
// страницу обрезается в Find, когда известен total.
func Parse(pageRaw string, perPage int) Params {
	page, err := strconv.Atoi(strings.TrimSpace(pageRaw))
	if err != nil || page < 1 {
		page = DefaultPage
	}
	if perPage < 1 {
		perPage = 1
	}
	return Params{Page: page, PerPage: perPage}
}

func (p Params) Limit() int  { return p.PerPage }
func (p Params) Offset() int { return (p.Page - 1) * p.PerPage }

type Meta struct {
	Page       int
	PerPage    int
	Total      int64
	TotalPages int
	HasNext    bool
	HasPrev    bool
	NextPage   int
	PrevPage   int
	StartIndex int // номер первой записи на странице, с 1
	EndIndex   int
}

// BuildMeta считает метаданные и сам зажимает страницу в [1, TotalPages].
func BuildMeta(total int64, p Params) Meta {
	totalPages := 1
	if !p.All && total > 0 {
		totalPages = int((total + int64(p.PerPage) - 1) / int64(p.PerPage))
	}
	page := p.Page
	if page < 1 || p.All {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	meta := Meta{
		Page:       page,
		PerPage:    p.PerPage,
		Total:      total,
		TotalPages: totalPages,
		HasPrev:    page > 1,
		HasNext:    page < totalPages,
	}
	if meta.HasPrev {
		meta.PrevPage = page - 1
	}
	if meta.HasNext {
		meta.NextPage = page + 1
	}
	if total > 0 {
		if p.All {
			meta.StartIndex, meta.EndIndex = 1, int(total)
		} else {
			meta.StartIndex = (page-1)*p.PerPage + 1
			meta.EndIndex = min(page*p.PerPage, int(total))
		}
	}
	return meta
}

// Pages — номера страниц для навигации в шаблоне.
func (m Meta) Pages() []int {
	out := make([]int, 0, m.TotalPages)
	for i := 1; i <= m.TotalPages; i++ {
		out = append(out, i)
	}
	return out
}

type Page[T any] struct {
	Items []T
	Meta
}

// Find считает total по запросу q, зажимает номер страницы и выбирает
// нужный срез в порядке order. q должен уже содержать Model и фильтры,
// preload применяется только к выборке.
func Find[T any](q *gorm.DB, order string, p Params, preload ...string) (Page[T], error) {
	base := q.Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		return Page[T]{}, fmt.Errorf("pagination: count: %w", err)
	}

	meta := BuildMeta(total, p)
	items := make([]T, 0)

	find := base.Order(order)
	for _, rel := range preload {
		find = find.Preload(rel)
	}
	if !p.All {
		find = find.Limit(meta.PerPage).Offset((meta.Page - 1) * meta.PerPage)
	}
	if err := find.Find(&items).Error; err != nil {
		return Page[T]{}, fmt.Errorf("pagination: find: %w", err)
	}

	return Page[T]{Items: items, Meta: meta}, nil
}
