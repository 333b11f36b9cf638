// Package slots управляет картинками сайта и держит инвариант: в эксклюзивной
// категории (логотип, баннер, фон) активна максимум одна картинка.
//
// Снятие флага с соседей — явная операция реестра в той же транзакции,
// что и установка, под блокировкой строк категории.
package slots

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/imageproc"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/media"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrNotFound          = errors.New("slots: image not found")
	ErrInvalidCategory   = errors.New("slots: unknown image category")
	ErrExclusiveCategory = errors.New("slots: exclusive category has no display order")
	ErrEmptyUpload       = errors.New("slots: empty upload")
)

// Upload — новый файл. Active и Order учитываются только для
// неэксклюзивных категорий: эксклюзивная загрузка всегда активна.
type Upload struct {
	Name     string
	Filename string
	Data     []byte
	Active   bool
	Order    int
}

// Edit — частичное изменение, nil-поля не трогаются.
type Edit struct {
	Name   *string
	Order  *int
	Active *bool
	File   *Upload
}

var categoryDirs = map[models.ImageCategory]string{
	models.CategoryLogo:          "navbar",
	models.CategoryBanner:        "navbar",
	models.CategoryBackground:    "navbar",
	models.CategoryCarouselSlide: "carousel",
	models.CategoryPropertyPhoto: "land_properties",
}

// DefaultProfiles — категории, которые перекодируются при загрузке.
func DefaultProfiles() map[models.ImageCategory]imageproc.Target {
	return map[models.ImageCategory]imageproc.Target{
		models.CategoryCarouselSlide: imageproc.CarouselTarget,
	}
}

type Registry struct {
	db       *gorm.DB
	media    media.Store
	profiles map[models.ImageCategory]imageproc.Target
}

func NewRegistry(db *gorm.DB, store media.Store) *Registry {
	return &Registry{db: db, media: store, profiles: DefaultProfiles()}
}

func (r *Registry) Media() media.Store { return r.media }

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// lockCategory берёт FOR UPDATE на все строки категории по возрастанию id,
// чтобы параллельные активации шли друг за другом. SQLite блокировки
// игнорирует, там транзакции и так сериализуются.
func lockCategory(tx *gorm.DB, category models.ImageCategory) error {
	var ids []uint
	return tx.Model(&models.ImageAsset{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("category = ?", category).
		Order("id").
		Pluck("id", &ids).Error
}

func deactivateOthers(tx *gorm.DB, category models.ImageCategory, keepID uint) error {
	q := tx.Model(&models.ImageAsset{}).Where("category = ? AND active = ?", category, true)
	if keepID != 0 {
		q = q.Where("id <> ?", keepID)
	}
	return q.Update("active", false).Error
}

// ingest перекодирует файл по профилю категории и кладёт в хранилище.
func (r *Registry) ingest(ctx context.Context, category models.ImageCategory, up Upload) (string, error) {
	if len(up.Data) == 0 {
		return "", ErrEmptyUpload
	}

	data, filename := up.Data, up.Filename
	if target, ok := r.profiles[category]; ok {
		data = target.Apply(up.Data)
		if !bytes.Equal(data, up.Data) {
			filename = media.WithExt(filename, ".jpg")
		}
	}

	p := media.NewPath(categoryDirs[category], filename)
	if err := r.media.Put(ctx, p, data); err != nil {
		return "", fmt.Errorf("slots: store %s: %w", category, err)
	}
	return p, nil
}

// UploadNew сохраняет файл и создаёт запись. В эксклюзивной категории
// все остальные картинки выключаются в той же транзакции.
func (r *Registry) UploadNew(ctx context.Context, category models.ImageCategory, up Upload) (*models.ImageAsset, error) {
	if !category.Valid() {
		return nil, ErrInvalidCategory
	}

	p, err := r.ingest(ctx, category, up)
	if err != nil {
		return nil, err
	}

	asset := &models.ImageAsset{
		Category:     category,
		Name:         up.Name,
		Path:         p,
		Active:       up.Active || category.Exclusive(),
		DisplayOrder: up.Order,
	}
	if category.Exclusive() {
		asset.DisplayOrder = 0
	}

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if category.Exclusive() {
			if err := lockCategory(tx, category); err != nil {
				return err
			}
			if err := deactivateOthers(tx, category, 0); err != nil {
				return err
			}
		}
		return tx.Create(asset).Error
	})
	if err != nil {
		r.media.Delete(ctx, p)
		return nil, fmt.Errorf("slots: upload %s: %w", category, err)
	}

	log.Info().Str("category", string(category)).Uint("id", asset.ID).Str("path", p).Msg("image uploaded")
	return asset, nil
}

// Activate включает картинку; в эксклюзивной категории сначала выключает
// остальных, потом включает себя.
func (r *Registry) Activate(ctx context.Context, id uint) (*models.ImageAsset, error) {
	var asset models.ImageAsset
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&asset, id).Error; err != nil {
			return notFound(err)
		}
		return activateTx(tx, &asset)
	})
	if err != nil {
		return nil, wrap("activate", id, err)
	}
	return &asset, nil
}

func activateTx(tx *gorm.DB, asset *models.ImageAsset) error {
	if asset.Category.Exclusive() {
		if err := lockCategory(tx, asset.Category); err != nil {
			return err
		}
		if err := deactivateOthers(tx, asset.Category, asset.ID); err != nil {
			return err
		}
	}
	return tx.Model(asset).Update("active", true).Error
}

// Deactivate выключает картинку, соседей не трогает.
func (r *Registry) Deactivate(ctx context.Context, id uint) (*models.ImageAsset, error) {
	asset, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Model(asset).Update("active", false).Error; err != nil {
		return nil, wrap("deactivate", id, err)
	}
	return asset, nil
}

func (r *Registry) Toggle(ctx context.Context, id uint) (*models.ImageAsset, error) {
	asset, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.Active {
		return r.Deactivate(ctx, id)
	}
	return r.Activate(ctx, id)
}

// Reorder меняет позицию; только для неэксклюзивных категорий.
func (r *Registry) Reorder(ctx context.Context, id uint, rank int) (*models.ImageAsset, error) {
	asset, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if asset.Category.Exclusive() {
		return nil, ErrExclusiveCategory
	}
	if err := r.db.WithContext(ctx).Model(asset).Update("display_order", rank).Error; err != nil {
		return nil, wrap("reorder", id, err)
	}
	return asset, nil
}

// Edit применяет частичные изменения. Новый файл пишется до транзакции,
// старый удаляется только после коммита.
func (r *Registry) Edit(ctx context.Context, id uint, e Edit) (*models.ImageAsset, error) {
	current, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Order != nil && current.Category.Exclusive() {
		return nil, ErrExclusiveCategory
	}

	var newPath string
	if e.File != nil {
		if newPath, err = r.ingest(ctx, current.Category, *e.File); err != nil {
			return nil, err
		}
	}

	var asset models.ImageAsset
	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&asset, id).Error; err != nil {
			return notFound(err)
		}

		updates := map[string]any{}
		if e.Name != nil {
			updates["name"] = *e.Name
		}
		if e.Order != nil {
			updates["display_order"] = *e.Order
		}
		if newPath != "" {
			updates["path"] = newPath
		}
		if len(updates) > 0 {
			if err := tx.Model(&asset).Updates(updates).Error; err != nil {
				return err
			}
		}

		if e.Active != nil && *e.Active != asset.Active {
			if *e.Active {
				return activateTx(tx, &asset)
			}
			return tx.Model(&asset).Update("active", false).Error
		}
		return nil
	})
	if err != nil {
		if newPath != "" {
			r.media.Delete(ctx, newPath)
		}
		return nil, wrap("edit", id, err)
	}

	if newPath != "" && current.Path != "" && current.Path != newPath {
		r.media.Delete(ctx, current.Path)
	}
	return &asset, nil
}

// Replace меняет файл картинки, старый файл удаляется.
func (r *Registry) Replace(ctx context.Context, id uint, up Upload) (*models.ImageAsset, error) {
	return r.Edit(ctx, id, Edit{File: &up})
}

// Delete: сначала файл, потом запись.
func (r *Registry) Delete(ctx context.Context, id uint) (*models.ImageAsset, error) {
	asset, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	r.media.Delete(ctx, asset.Path)
	if err := r.db.WithContext(ctx).Delete(&models.ImageAsset{}, asset.ID).Error; err != nil {
		return nil, wrap("delete", id, err)
	}
	log.Info().Str("category", string(asset.Category)).Uint("id", asset.ID).Msg("image deleted")
	return asset, nil
}

func (r *Registry) Get(ctx context.Context, id uint) (*models.ImageAsset, error) {
	var asset models.ImageAsset
	if err := r.db.WithContext(ctx).First(&asset, id).Error; err != nil {
		return nil, wrap("get", id, notFound(err))
	}
	return &asset, nil
}

// List — картинки категории: по display_order, новые первыми при равенстве.
func (r *Registry) List(ctx context.Context, category models.ImageCategory) ([]models.ImageAsset, error) {
	var assets []models.ImageAsset
	err := r.db.WithContext(ctx).
		Where("category = ?", category).
		Order("display_order asc, created_at desc, id desc").
		Find(&assets).Error
	if err != nil {
		return nil, fmt.Errorf("slots: list %s: %w", category, err)
	}
	return assets, nil
}

// Active — активная картинка категории или nil.
func (r *Registry) Active(ctx context.Context, category models.ImageCategory) (*models.ImageAsset, error) {
	var asset models.ImageAsset
	err := r.db.WithContext(ctx).
		Where("category = ? AND active = ?", category, true).
		Order("display_order asc, created_at desc, id desc").
		First(&asset).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("slots: active %s: %w", category, err)
	}
	return &asset, nil
}

func (r *Registry) Count(ctx context.Context, category models.ImageCategory, activeOnly bool) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(&models.ImageAsset{}).Where("category = ?", category)
	if activeOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Count(&n).Error; err != nil {
		return 0, fmt.Errorf("slots: count %s: %w", category, err)
	}
	return n, nil
}

func wrap(op string, id uint, err error) error {
	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return fmt.Errorf("slots: %s %d: %w", op, id, err)
}
