package catalog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/motion.report/internal/dataset"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/motion"
	"github.com/banshee-data/motion.report/internal/timeutil"
)

func rec(name string, fps float64, frames int) motion.Info {
	return motion.Info{Path: "/g1/" + name, Name: name, FPS: fps, Frames: frames, Bodies: 2, DOFs: 3, SizeBytes: 1024}
}

func testCatalog() *dataset.Catalog {
	return &dataset.Catalog{
		Root: "/g1",
		Datasets: []*dataset.Dataset{
			{Name: "ACCAD", Subjects: []*dataset.Subject{
				{Name: "Female1", Records: []motion.Info{rec("a_walk.npz", 30, 90), rec("b_salsa.npz", 30, 240)}},
				{Name: "Male2", Records: []motion.Info{rec("c_jump.npz", 60, 120)}},
			}},
			{Name: "CMU", Subjects: []*dataset.Subject{
				{Name: "01", Records: []motion.Info{rec("d_mix.npz", 120, 120)}},
			}},
		},
		Skipped: 2,
	}
}

func openStore(t *testing.T) (*Store, *timeutil.MockClock) {
	t.Helper()
	defer monitoring.Quiet()()
	clock := timeutil.NewMockClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	s, err := OpenWithClock(filepath.Join(t.TempDir(), "catalog.db"), clock)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func TestOpen_MigratesAndAppliesPragmas(t *testing.T) {
	s, _ := openStore(t)

	version, dirty, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
	assert.False(t, dirty)

	var journal string
	require.NoError(t, s.db.QueryRow("PRAGMA journal_mode").Scan(&journal))
	assert.Equal(t, "wal", journal)

	var fk int
	require.NoError(t, s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk))
	assert.Equal(t, 1, fk)
}

func TestOpen_Reopen(t *testing.T) {
	defer monitoring.Quiet()()
	path := filepath.Join(t.TempDir(), "catalog.db")

	s, err := Open(path)
	require.NoError(t, err)
	_, err = s.SaveScan(context.Background(), testCatalog())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	scans, err := s.Scans(context.Background())
	require.NoError(t, err)
	assert.Len(t, scans, 1)
}

func TestMigrateDown(t *testing.T) {
	s, _ := openStore(t)
	defer monitoring.Quiet()()

	require.NoError(t, s.MigrateDown())
	version, _, err := s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(1), version)

	require.NoError(t, s.MigrateUp())
	version, _, err = s.MigrateVersion()
	require.NoError(t, err)
	assert.Equal(t, uint(2), version)
}

func TestSaveScan(t *testing.T) {
	s, clock := openStore(t)
	defer monitoring.Quiet()()
	ctx := context.Background()

	id, err := s.SaveScan(ctx, testCatalog())
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	assert.NoError(t, err)

	scans, err := s.Scans(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 1)
	assert.Equal(t, Scan{ID: id, Root: "/g1", Created: clock.Now(), Files: 4, Skipped: 2}, scans[0])

	all, err := s.Records(ctx, id, "")
	require.NoError(t, err)
	assert.Len(t, all, 4)

	accad, err := s.Records(ctx, id, "ACCAD")
	require.NoError(t, err)
	require.Len(t, accad, 3)
	assert.Equal(t, "a_walk.npz", accad[0].Name)
	assert.Equal(t, "Female1", accad[0].Subject)
	assert.Equal(t, "daily", accad[0].Category)
	assert.Equal(t, 30.0, accad[0].FPS)
	assert.Equal(t, 90, accad[0].Frames)
	assert.InDelta(t, 3.0, accad[0].Duration(), 1e-12)
	assert.Equal(t, "dance", accad[1].Category)
}

func TestLatestScan(t *testing.T) {
	s, clock := openStore(t)
	defer monitoring.Quiet()()
	ctx := context.Background()

	_, err := s.LatestScan(ctx)
	assert.ErrorIs(t, err, ErrNoScan)

	first, err := s.SaveScan(ctx, testCatalog())
	require.NoError(t, err)
	clock.Advance(time.Hour)
	second, err := s.SaveScan(ctx, &dataset.Catalog{Root: "/other"})
	require.NoError(t, err)

	latest, err := s.LatestScan(ctx)
	require.NoError(t, err)
	assert.Equal(t, second, latest.ID)

	scans, err := s.Scans(ctx)
	require.NoError(t, err)
	require.Len(t, scans, 2)
	assert.Equal(t, first, scans[1].ID)
}

func TestFindByDuration(t *testing.T) {
	s, _ := openStore(t)
	defer monitoring.Quiet()()
	ctx := context.Background()

	_, err := s.FindByDuration(ctx, "ACCAD", dataset.AnyDuration)
	assert.ErrorIs(t, err, ErrNoScan)

	cat := testCatalog()
	_, err = s.SaveScan(ctx, cat)
	require.NoError(t, err)

	d, err := cat.Dataset("ACCAD")
	require.NoError(t, err)

	for _, r := range []dataset.DurationRange{
		dataset.AnyDuration,
		{Min: 2, Max: 3},
		{Min: 3, Max: 8},
		{Min: 0, Max: 5},
		{Min: 4, Max: 7},
	} {
		got, err := s.FindByDuration(ctx, "ACCAD", r)
		require.NoError(t, err)
		assert.Equal(t, dataset.FindByDuration(d, r), got, "range %+v", r)
	}

	_, err = s.FindByDuration(ctx, "KIT", dataset.AnyDuration)
	assert.ErrorIs(t, err, dataset.ErrDatasetNotFound)
}

func TestCategoryCounts(t *testing.T) {
	s, _ := openStore(t)
	defer monitoring.Quiet()()
	ctx := context.Background()

	_, err := s.SaveScan(ctx, testCatalog())
	require.NoError(t, err)

	counts, err := s.CategoryCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"daily": 2, "dance": 1, "other": 1}, counts)
}
