package activity

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"
	"time"

	"github.com/Amrita-Dey3792/matrichaya-properties/internal/database"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/models"
	"github.com/Amrita-Dey3792/matrichaya-properties/internal/pagination"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupActivityTest(t *testing.T) (*Recorder, *gorm.DB, *models.User, *models.User) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	alice := &models.User{Username: "alice", PasswordHash: "x", IsStaff: true}
	bob := &models.User{Username: "bob_ops", PasswordHash: "x", IsStaff: true}
	require.NoError(t, db.Create(alice).Error)
	require.NoError(t, db.Create(bob).Error)

	return NewRecorder(db), db, alice, bob
}

func idPtr(v uint) *uint { return &v }

// at подменяет часы рекордера на время записи.
func at(r *Recorder, ts time.Time) { r.now = func() time.Time { return ts } }

func TestRecord_Validation(t *testing.T) {
	rec, _, alice, _ := setupActivityTest(t)
	ctx := context.Background()

	assert.Error(t, rec.Record(ctx, Entry{Action: models.ActionLogin}))
	assert.Error(t, rec.Record(ctx, Entry{ActorID: alice.ID, Action: "dance"}))
	require.NoError(t, rec.Record(ctx, Entry{ActorID: alice.ID, Action: models.ActionLogin, Model: "Admin"}))

	n, err := rec.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func seedActivities(t *testing.T, rec *Recorder, alice, bob *models.User, now time.Time) {
	t.Helper()
	ctx := context.Background()
	entries := []struct {
		ago   time.Duration
		entry Entry
	}{
		{0, Entry{ActorID: alice.ID, Action: models.ActionLogin, Model: "Admin", Description: "Admin logged in", IP: "10.0.0.1"}},
		{time.Hour, Entry{ActorID: alice.ID, Action: models.ActionCreate, Model: "LandProperty", ObjectID: idPtr(7), Description: "Created land property: Polash Nagar"}},
		{3 * 24 * time.Hour, Entry{ActorID: bob.ID, Action: models.ActionUpdate, Model: "ContactMessage", ObjectID: idPtr(3), Description: "Updated message status"}},
		{20 * 24 * time.Hour, Entry{ActorID: bob.ID, Action: models.ActionLogin, Model: "Admin", Description: "Admin logged in"}},
		{200 * 24 * time.Hour, Entry{ActorID: bob.ID, Action: models.ActionDelete, Model: "CarouselSlide", ObjectID: idPtr(1), Description: "Deleted carousel slide"}},
	}
	for _, e := range entries {
		at(rec, now.Add(-e.ago))
		require.NoError(t, rec.Record(ctx, e.entry))
	}
	at(rec, now)
}

func TestList_Filters(t *testing.T) {
	rec, _, alice, bob := setupActivityTest(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.Local)
	seedActivities(t, rec, alice, bob, now)

	p := pagination.Params{Page: 1, PerPage: 25}

	page, err := rec.List(ctx, Filter{}, p)
	require.NoError(t, err)
	require.Len(t, page.Items, 5)
	assert.Equal(t, "Admin logged in", page.Items[0].Description)
	assert.Equal(t, "alice", page.Items[0].Admin.Username)

	page, err = rec.List(ctx, Filter{Actor: "BOB"}, p)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)

	page, err = rec.List(ctx, Filter{Actor: "b_"}, p)
	require.NoError(t, err)
	assert.Len(t, page.Items, 3, "underscore is a literal")

	page, err = rec.List(ctx, Filter{Action: "login"}, p)
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)

	page, err = rec.List(ctx, Filter{Model: "LandProperty"}, p)
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, uint(7), *page.Items[0].ObjectID)

	for rangeName, want := range map[string]int{"today": 2, "week": 3, "month": 4, "year": 5, "bogus": 5} {
		page, err = rec.List(ctx, Filter{DateRange: rangeName}, p)
		require.NoError(t, err)
		assert.Len(t, page.Items, want, rangeName)
	}
}

func TestList_CountsWithActorFilter(t *testing.T) {
	rec, _, alice, bob := setupActivityTest(t)
	ctx := context.Background()
	seedActivities(t, rec, alice, bob, time.Date(2025, 3, 14, 15, 0, 0, 0, time.Local))

	page, err := rec.List(ctx, Filter{Actor: "bob", Action: "login"}, pagination.Params{Page: 1, PerPage: 25})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "bob_ops", page.Items[0].Admin.Username)

	// вторая страница по два элемента при трёх записях bob
	page, err = rec.List(ctx, Filter{Actor: "bob"}, pagination.Params{Page: 2, PerPage: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Equal(t, 2, page.TotalPages)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Deleted carousel slide", page.Items[0].Description)
}

func TestStats(t *testing.T) {
	rec, _, alice, bob := setupActivityTest(t)
	now := time.Date(2025, 3, 14, 15, 0, 0, 0, time.Local)
	seedActivities(t, rec, alice, bob, now)

	st, err := rec.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, Stats{Total: 5, Today: 2, Week: 3, Month: 4, ActiveAdmins: 1, RecentChanges: 2}, st)

	as, err := rec.ActorStats(context.Background(), bob.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), as.Total)
	assert.Equal(t, int64(0), as.Today)
	require.NotNil(t, as.LastLogin)
	assert.True(t, as.LastLogin.Equal(now.Add(-20*24*time.Hour)))
}

func TestModelAndActorNames(t *testing.T) {
	rec, _, alice, bob := setupActivityTest(t)
	seedActivities(t, rec, alice, bob, time.Now())

	names, err := rec.ModelNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Admin", "CarouselSlide", "ContactMessage", "LandProperty"}, names)

	actors, err := rec.ActorNames(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob_ops"}, actors)
}

func TestRecent(t *testing.T) {
	rec, _, alice, bob := setupActivityTest(t)
	seedActivities(t, rec, alice, bob, time.Now())

	recent, err := rec.Recent(context.Background(), 2, 0)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, models.ActionLogin, recent[0].Action)

	mine, err := rec.Recent(context.Background(), 10, bob.ID)
	require.NoError(t, err)
	assert.Len(t, mine, 3)
}

func TestExportCSV(t *testing.T) {
	rec, _, alice, bob := setupActivityTest(t)
	now := time.Date(2025, 3, 14, 15, 4, 5, 0, time.Local)
	seedActivities(t, rec, alice, bob, now)

	var buf bytes.Buffer
	require.NoError(t, rec.ExportCSV(context.Background(), &buf, Filter{Actor: "alice"}))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Admin", "Action", "Model", "Description", "IP Address", "Timestamp", "Object ID"}, records[0])
	assert.Equal(t, []string{"alice", "Login", "Admin", "Admin logged in", "10.0.0.1", "2025-03-14 15:04:05", ""}, records[1])
	assert.Equal(t, []string{"alice", "Create", "LandProperty", "Created land property: Polash Nagar", "", "2025-03-14 14:04:05", "7"}, records[2])
}

func TestExportFilename(t *testing.T) {
	assert.Equal(t, "admin_activities_2025-03-14_09-05.csv", ExportFilename(time.Date(2025, 3, 14, 9, 5, 59, 0, time.UTC)))
}

func TestPurge(t *testing.T) {
	rec, _, alice, bob := setupActivityTest(t)
	ctx := context.Background()
	seedActivities(t, rec, alice, bob, time.Now())

	n, err := rec.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)

	left, err := rec.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, left)
}

func TestRetention_RunOnce(t *testing.T) {
	rec, _, alice, bob := setupActivityTest(t)
	ctx := context.Background()
	seedActivities(t, rec, alice, bob, time.Now())

	ret := NewRetention(rec, 30, "")
	n, err := ret.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	left, err := rec.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), left)
}

func TestRetention_Start(t *testing.T) {
	rec, _, _, _ := setupActivityTest(t)

	disabled := NewRetention(rec, 0, "@daily")
	require.NoError(t, disabled.Start())

	bad := NewRetention(rec, 7, "not a schedule")
	assert.Error(t, bad.Start())

	ok := NewRetention(rec, 7, "@every 1h")
	require.NoError(t, ok.Start())
	ok.Stop()
}
