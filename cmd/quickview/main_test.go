package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/dataset"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/motion"
	"github.com/banshee-data/motion.report/internal/testutil"
)

// writeTree lays out ACCAD/Female1 with 3, 8, 2 and 6 s records at 30 fps
// and CMU/01 with a 1 s record at 120 fps.
func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for name, sec := range map[string]float64{"a_walk.npz": 3, "b_run.npz": 8, "c_jump.npz": 2, "d_kick.npz": 6} {
		testutil.WriteDuration(t, filepath.Join(root, "ACCAD", "Female1", name), 30, sec)
	}
	testutil.WriteDuration(t, filepath.Join(root, "CMU", "01", "e_dance.npz"), 120, 1)
	return root
}

func runAction(t *testing.T, o Options) (string, error) {
	t.Helper()
	defer monitoring.Quiet()()
	var buf bytes.Buffer
	err := run(context.Background(), o, config.EmptyConfig(), &buf)
	return buf.String(), err
}

func TestParseFlags(t *testing.T) {
	o, _, err := parseFlags(nil, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "overview", o.Action)
	assert.Equal(t, 5.0, o.MaxDuration)

	o, _, err = parseFlags([]string{"--action=short", "--max_duration=2.5", "--seed=7"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, "short", o.Action)
	assert.Equal(t, 2.5, o.MaxDuration)
	assert.Equal(t, uint64(7), o.Seed)
}

func TestRun_Overview(t *testing.T) {
	root := writeTree(t)
	// Replace ACCAD with a single record so the sample is deterministic.
	require.NoError(t, os.RemoveAll(filepath.Join(root, "ACCAD")))
	testutil.WriteDuration(t, filepath.Join(root, "ACCAD", "Female1", "a_walk.npz"), 30, 3)

	for _, action := range []string{"overview", "stats"} {
		out, err := runAction(t, Options{Action: action, DataRoot: root, Seed: 1})
		require.NoError(t, err)
		assert.Contains(t, out, "Found 2 datasets")
		assert.Contains(t, out, "Sampled 2 files")
		assert.Contains(t, out, filepath.Join("ACCAD", "Female1", "a_walk.npz")+": 90 frames, 3.00 s @ 30 fps")
		assert.Contains(t, out, "Sample mean: 105 frames, 2.00 s (210 frames total)")
	}
}

func TestRun_OverviewSeedIsRepeatable(t *testing.T) {
	root := writeTree(t)
	a, err := runAction(t, Options{Action: "overview", DataRoot: root, Seed: 42})
	require.NoError(t, err)
	b, err := runAction(t, Options{Action: "overview", DataRoot: root, Seed: 42})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestRun_List(t *testing.T) {
	root := writeTree(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "ACCAD", "Female1", "0_bad.npz"), []byte("junk"), 0644))

	out, err := runAction(t, Options{Action: "list", DataRoot: root, Dataset: "ACCAD"})
	require.NoError(t, err)
	assert.Contains(t, out, "Female1 (5 files)")
	assert.Contains(t, out, "0_bad.npz: failed to read")
	assert.Contains(t, out, "a_walk.npz: 90 frames, 3.00 s")
	assert.Contains(t, out, "... 2 more")

	_, err = runAction(t, Options{Action: "list", DataRoot: root, Dataset: "KIT"})
	assert.ErrorIs(t, err, dataset.ErrDatasetNotFound)
}

func TestRun_Preview(t *testing.T) {
	root := writeTree(t)
	out, err := runAction(t, Options{Action: "preview", File: filepath.Join(root, "ACCAD", "Female1", "a_walk.npz")})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 12)
	assert.Equal(t, "a_walk.npz: 90 frames @ 30 fps (3.00 s), 2 bodies, 3 dofs", lines[0])
	assert.Contains(t, lines[2], "[  0.000,   0.000,   1.000]")
	assert.Contains(t, lines[2], "[-0.100, 0.100]")
}

func TestRun_PreviewRejectsBodilessArchive(t *testing.T) {
	path := testutil.WriteMotion(t, filepath.Join(t.TempDir(), "empty.npz"), testutil.Motion{FPS: 30, Frames: 3, Bodies: 0, DOFs: 2})
	_, err := runAction(t, Options{Action: "preview", File: path})
	assert.ErrorIs(t, err, motion.ErrMalformedArchive)
}

func TestRun_ShortOnlyReturnsShortRecords(t *testing.T) {
	root := writeTree(t)
	out, err := runAction(t, Options{Action: "short", DataRoot: root, Dataset: "ACCAD", MaxDuration: 5})
	require.NoError(t, err)

	assert.Contains(t, out, "2 files in ACCAD no longer than 5 s")
	assert.Less(t, strings.Index(out, "c_jump.npz"), strings.Index(out, "a_walk.npz"))
	assert.NotContains(t, out, "b_run.npz")
	assert.NotContains(t, out, "d_kick.npz")
}

func TestRun_UsageErrors(t *testing.T) {
	for _, o := range []Options{
		{Action: "list"},
		{Action: "preview"},
		{Action: "short"},
		{Action: "short", Dataset: "ACCAD"},
		{Action: "replay"},
	} {
		_, err := runAction(t, o)
		assert.ErrorIs(t, err, errUsage, o.Action)
	}
}
