package slots

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/database"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/imageproc"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type memStore struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newMemStore() *memStore { return &memStore{files: map[string][]byte{}} }

func (m *memStore) Put(_ context.Context, p string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[p] = data
	return nil
}

func (m *memStore) Delete(_ context.Context, p string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, p)
}

func (m *memStore) Exists(_ context.Context, p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[p]
	return ok
}

func (m *memStore) URL(p string) string { return "/media/" + p }

func (m *memStore) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.files)
}

func setupRegistryTest(t *testing.T) (*Registry, *gorm.DB, *memStore) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	store := newMemStore()
	return NewRegistry(db, store), db, store
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x), G: uint8(y), B: 90, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func upload(name string) Upload {
	return Upload{Name: name, Filename: name + ".png", Data: []byte("raw-" + name)}
}

func activeIDs(t *testing.T, db *gorm.DB, category models.ImageCategory) []uint {
	t.Helper()
	var ids []uint
	require.NoError(t, db.Model(&models.ImageAsset{}).
		Where("category = ? AND active = ?", category, true).
		Order("id").
		Pluck("id", &ids).Error)
	return ids
}

func TestUploadNew_ExclusiveDeactivatesOthers(t *testing.T) {
	reg, db, store := setupRegistryTest(t)
	ctx := context.Background()

	a, err := reg.UploadNew(ctx, models.CategoryLogo, upload("a"))
	require.NoError(t, err)
	b, err := reg.UploadNew(ctx, models.CategoryLogo, upload("b"))
	require.NoError(t, err)
	_, err = reg.Deactivate(ctx, b.ID)
	require.NoError(t, err)
	_, err = reg.Activate(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{a.ID}, activeIDs(t, db, models.CategoryLogo))

	c, err := reg.UploadNew(ctx, models.CategoryLogo, upload("c"))
	require.NoError(t, err)

	assert.True(t, c.Active)
	assert.Equal(t, []uint{c.ID}, activeIDs(t, db, models.CategoryLogo))
	assert.Equal(t, 3, store.count())
}

func TestUploadNew_ExclusiveIgnoresRequestedInactive(t *testing.T) {
	reg, _, _ := setupRegistryTest(t)

	up := upload("banner")
	up.Active = false
	up.Order = 7
	asset, err := reg.UploadNew(context.Background(), models.CategoryBanner, up)
	require.NoError(t, err)
	assert.True(t, asset.Active)
	assert.Equal(t, 0, asset.DisplayOrder)
}

func TestUploadNew_CategoriesAreIndependent(t *testing.T) {
	reg, db, _ := setupRegistryTest(t)
	ctx := context.Background()

	logo, err := reg.UploadNew(ctx, models.CategoryLogo, upload("logo"))
	require.NoError(t, err)
	banner, err := reg.UploadNew(ctx, models.CategoryBanner, upload("banner"))
	require.NoError(t, err)

	assert.Equal(t, []uint{logo.ID}, activeIDs(t, db, models.CategoryLogo))
	assert.Equal(t, []uint{banner.ID}, activeIDs(t, db, models.CategoryBanner))
}

func TestUploadNew_NonExclusiveKeepsSiblings(t *testing.T) {
	reg, db, _ := setupRegistryTest(t)
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"one", "two", "three"} {
		up := upload(name)
		up.Active = true
		asset, err := reg.UploadNew(ctx, models.CategoryPropertyPhoto, up)
		require.NoError(t, err)
		ids = append(ids, asset.ID)
	}
	assert.Equal(t, ids, activeIDs(t, db, models.CategoryPropertyPhoto))

	inactive := upload("four")
	asset, err := reg.UploadNew(ctx, models.CategoryPropertyPhoto, inactive)
	require.NoError(t, err)
	assert.False(t, asset.Active)
}

func TestUploadNew_CarouselIsTranscoded(t *testing.T) {
	reg, _, store := setupRegistryTest(t)

	asset, err := reg.UploadNew(context.Background(), models.CategoryCarouselSlide, Upload{
		Name:     "hero",
		Filename: "hero.png",
		Data:     pngBytes(t, 400, 200),
		Active:   true,
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(asset.Path, "carousel/"))
	assert.True(t, strings.HasSuffix(asset.Path, "-hero.jpg"))

	w, h, ok := imageproc.Dimensions(store.files[asset.Path])
	require.True(t, ok)
	assert.Equal(t, 1200, w)
	assert.Equal(t, 650, h)
}

func TestUploadNew_UndecodableCarouselKeepsOriginal(t *testing.T) {
	reg, _, store := setupRegistryTest(t)

	asset, err := reg.UploadNew(context.Background(), models.CategoryCarouselSlide, Upload{
		Name: "broken", Filename: "broken.png", Data: []byte("not an image"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(asset.Path, "-broken.png"))
	assert.Equal(t, []byte("not an image"), store.files[asset.Path])
}

func TestUploadNew_Validation(t *testing.T) {
	reg, _, store := setupRegistryTest(t)
	ctx := context.Background()

	_, err := reg.UploadNew(ctx, models.ImageCategory("favicon"), upload("x"))
	assert.ErrorIs(t, err, ErrInvalidCategory)

	_, err = reg.UploadNew(ctx, models.CategoryLogo, Upload{Name: "empty", Filename: "e.png"})
	assert.ErrorIs(t, err, ErrEmptyUpload)
	assert.Equal(t, 0, store.count())
}

func TestUploadNew_FailedInsertRemovesFile(t *testing.T) {
	reg, db, store := setupRegistryTest(t)

	require.NoError(t, db.Callback().Create().Before("gorm:create").Register("test:fail", func(tx *gorm.DB) {
		if tx.Statement.Table == "image_assets" {
			_ = tx.AddError(errors.New("insert failed"))
		}
	}))

	_, err := reg.UploadNew(context.Background(), models.CategoryLogo, upload("a"))
	require.Error(t, err)
	assert.Equal(t, 0, store.count())
}

// setupFileRegistry: файловая база с несколькими соединениями, чтобы
// транзакции активации действительно шли параллельно.
func setupFileRegistry(t *testing.T) (*Registry, *gorm.DB) {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "slots.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, database.Migrate(db))

	return NewRegistry(db, newMemStore()), db
}

// contended: SQLite без FOR UPDATE отвечает на гонку либо BUSY,
// либо нарушением частичного уникального индекса.
func contended(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") ||
		strings.Contains(msg, "database is locked") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

func TestActivate_ConcurrentLeavesExactlyOne(t *testing.T) {
	reg, db := setupFileRegistry(t)
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"a", "b", "c", "d"} {
		asset, err := reg.UploadNew(ctx, models.CategoryLogo, upload(name))
		require.NoError(t, err)
		ids = append(ids, asset.ID)
	}

	for round := 0; round < 20; round++ {
		var wg sync.WaitGroup
		start := make(chan struct{})
		errs := make(chan error, len(ids))
		for _, id := range ids {
			wg.Add(1)
			go func(id uint) {
				defer wg.Done()
				<-start
				_, err := reg.Activate(ctx, id)
				errs <- err
			}(id)
		}
		close(start)
		wg.Wait()
		close(errs)

		for err := range errs {
			if err != nil {
				assert.True(t, contended(err), "round %d: unexpected error %v", round, err)
			}
		}

		active := activeIDs(t, db, models.CategoryLogo)
		require.Len(t, active, 1, "round %d", round)
		assert.Contains(t, ids, active[0])
	}
}

func TestActivate_Sequence(t *testing.T) {
	reg, db, _ := setupRegistryTest(t)
	ctx := context.Background()

	var ids []uint
	for _, name := range []string{"a", "b", "c"} {
		asset, err := reg.UploadNew(ctx, models.CategoryBackground, upload(name))
		require.NoError(t, err)
		ids = append(ids, asset.ID)
	}

	for _, id := range []uint{ids[0], ids[2], ids[1], ids[1]} {
		_, err := reg.Activate(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, []uint{id}, activeIDs(t, db, models.CategoryBackground))
	}

	_, err := reg.Deactivate(ctx, ids[1])
	require.NoError(t, err)
	assert.Empty(t, activeIDs(t, db, models.CategoryBackground))
}

func TestToggle(t *testing.T) {
	reg, db, _ := setupRegistryTest(t)
	ctx := context.Background()

	a, err := reg.UploadNew(ctx, models.CategoryLogo, upload("a"))
	require.NoError(t, err)
	b, err := reg.UploadNew(ctx, models.CategoryLogo, upload("b"))
	require.NoError(t, err)

	got, err := reg.Toggle(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, got.Active)
	assert.Equal(t, []uint{a.ID}, activeIDs(t, db, models.CategoryLogo))

	got, err = reg.Toggle(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, got.Active)
	assert.Empty(t, activeIDs(t, db, models.CategoryLogo))

	_, err = reg.Toggle(ctx, b.ID+100)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReorder(t *testing.T) {
	reg, _, _ := setupRegistryTest(t)
	ctx := context.Background()

	logo, err := reg.UploadNew(ctx, models.CategoryLogo, upload("logo"))
	require.NoError(t, err)
	_, err = reg.Reorder(ctx, logo.ID, 3)
	assert.ErrorIs(t, err, ErrExclusiveCategory)

	first, err := reg.UploadNew(ctx, models.CategoryPropertyPhoto, Upload{Name: "first", Filename: "f.png", Data: []byte("f"), Order: 5})
	require.NoError(t, err)
	second, err := reg.UploadNew(ctx, models.CategoryPropertyPhoto, Upload{Name: "second", Filename: "s.png", Data: []byte("s"), Order: 1})
	require.NoError(t, err)

	list, err := reg.List(ctx, models.CategoryPropertyPhoto)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, second.ID, list[0].ID)

	_, err = reg.Reorder(ctx, first.ID, 0)
	require.NoError(t, err)
	list, err = reg.List(ctx, models.CategoryPropertyPhoto)
	require.NoError(t, err)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestReplace_DeletesOldFile(t *testing.T) {
	reg, _, store := setupRegistryTest(t)
	ctx := context.Background()

	asset, err := reg.UploadNew(ctx, models.CategoryLogo, upload("old"))
	require.NoError(t, err)
	oldPath := asset.Path

	updated, err := reg.Replace(ctx, asset.ID, upload("new"))
	require.NoError(t, err)

	assert.NotEqual(t, oldPath, updated.Path)
	assert.False(t, store.Exists(ctx, oldPath))
	assert.True(t, store.Exists(ctx, updated.Path))
	assert.True(t, updated.Active)
}

func TestEdit(t *testing.T) {
	reg, db, _ := setupRegistryTest(t)
	ctx := context.Background()

	a, err := reg.UploadNew(ctx, models.CategoryLogo, upload("a"))
	require.NoError(t, err)
	b, err := reg.UploadNew(ctx, models.CategoryLogo, upload("b"))
	require.NoError(t, err)

	name, on := "Company Logo", true
	edited, err := reg.Edit(ctx, a.ID, Edit{Name: &name, Active: &on})
	require.NoError(t, err)
	assert.Equal(t, "Company Logo", edited.Name)
	assert.True(t, edited.Active)
	assert.Equal(t, []uint{a.ID}, activeIDs(t, db, models.CategoryLogo))

	off := false
	_, err = reg.Edit(ctx, a.ID, Edit{Active: &off})
	require.NoError(t, err)
	assert.Empty(t, activeIDs(t, db, models.CategoryLogo))

	order := 2
	_, err = reg.Edit(ctx, b.ID, Edit{Order: &order})
	assert.ErrorIs(t, err, ErrExclusiveCategory)
}

func TestDelete_RemovesFileAndRow(t *testing.T) {
	reg, db, store := setupRegistryTest(t)
	ctx := context.Background()

	asset, err := reg.UploadNew(ctx, models.CategoryLogo, upload("a"))
	require.NoError(t, err)

	_, err = reg.Delete(ctx, asset.ID)
	require.NoError(t, err)
	assert.False(t, store.Exists(ctx, asset.Path))

	var n int64
	require.NoError(t, db.Model(&models.ImageAsset{}).Count(&n).Error)
	assert.Zero(t, n)

	_, err = reg.Delete(ctx, asset.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDelete_MissingFileStillRemovesRow(t *testing.T) {
	reg, _, store := setupRegistryTest(t)
	ctx := context.Background()

	asset, err := reg.UploadNew(ctx, models.CategoryBanner, upload("a"))
	require.NoError(t, err)
	store.Delete(ctx, asset.Path)

	_, err = reg.Delete(ctx, asset.ID)
	require.NoError(t, err)
	_, err = reg.Get(ctx, asset.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestActiveAndCount(t *testing.T) {
	reg, _, _ := setupRegistryTest(t)
	ctx := context.Background()

	none, err := reg.Active(ctx, models.CategoryLogo)
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = reg.UploadNew(ctx, models.CategoryLogo, upload("a"))
	require.NoError(t, err)
	b, err := reg.UploadNew(ctx, models.CategoryLogo, upload("b"))
	require.NoError(t, err)

	active, err := reg.Active(ctx, models.CategoryLogo)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, b.ID, active.ID)

	total, err := reg.Count(ctx, models.CategoryLogo, false)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	on, err := reg.Count(ctx, models.CategoryLogo, true)
	require.NoError(t, err)
	assert.Equal(t, int64(1), on)
}
