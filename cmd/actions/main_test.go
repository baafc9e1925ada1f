package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/motion.report/internal/classify"
	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/dataset"
)

// Classification reads names only, so the archives can be empty files.
func writeTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, p := range []string{
		"KIT/3/walking_forward_01_poses_120_jpos.npz",
		"KIT/3/salsa_dance_02_poses_120_jpos.npz",
		"KIT/3/happy_wave_poses_60_jpos.npz",
		"KIT/4/xyz.npz",
		"KIT/4/readme.txt",
		"BMLrub/sub/deep/Dance_Salsa.npz",
	} {
		path := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, nil, 0644))
	}
	require.NoError(t, os.MkdirAll(filepath.Join(root, "Empty"), 0755))
	return root
}

func runAction(t *testing.T, o Options, cfg *config.Config) (string, error) {
	t.Helper()
	if cfg == nil {
		cfg = config.EmptyConfig()
	}
	var buf bytes.Buffer
	err := run(context.Background(), o, cfg, &buf)
	return buf.String(), err
}

func TestParseFlags(t *testing.T) {
	o, _, err := parseFlags([]string{"-action", "find", "-keyword", "kick", "-dataset", "CMU"}, io.Discard)
	require.NoError(t, err)
	assert.Equal(t, Options{Action: "find", Keyword: "kick", Dataset: "CMU"}, o)
}

func TestRun_Analyze(t *testing.T) {
	root := writeTree(t)
	out, err := runAction(t, Options{Action: "analyze", DataRoot: root, Dataset: "KIT"}, nil)
	require.NoError(t, err)

	assert.Contains(t, out, "Dataset KIT: 4 files")
	assert.Regexp(t, `dance\s+1 \( 25\.0%\)`, out)
	assert.Regexp(t, `emotion\s+1 \( 25\.0%\)`, out)
	assert.Regexp(t, `unknown\s+1 \( 25\.0%\)`, out)
	assert.Contains(t, out, "happy_wave_poses_60_jpos.npz")
	// happy_wave counts under emotion and gesture in the multi-label view.
	assert.Regexp(t, `gesture\s+1\n`, out)
	assert.Regexp(t, `forward\s+1`, out)

	_, err = runAction(t, Options{Action: "analyze", DataRoot: root, Dataset: "HDM05"}, nil)
	assert.ErrorIs(t, err, dataset.ErrDatasetNotFound)
}

func TestRun_List(t *testing.T) {
	root := writeTree(t)
	for _, action := range []string{"list", "stats"} {
		out, err := runAction(t, Options{Action: action, DataRoot: root}, nil)
		require.NoError(t, err)
		assert.Regexp(t, `BMLrub\s+1  dance\n`, out)
		assert.Regexp(t, `KIT\s+4  daily, dance, emotion, gesture\n`, out)
		assert.NotContains(t, out, "Empty")
	}
}

func TestRun_Search(t *testing.T) {
	root := writeTree(t)
	out, err := runAction(t, Options{Action: "search", DataRoot: root, Keyword: "SALSA"}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, `2 files matching "SALSA"`)
	assert.Contains(t, out, "BMLrub/Dance_Salsa.npz")
	assert.Contains(t, out, "KIT/salsa_dance_02_poses_120_jpos.npz")

	limit := 1
	out, err = runAction(t, Options{Action: "find", DataRoot: root, Keyword: "salsa"}, &config.Config{SearchLimit: &limit})
	require.NoError(t, err)
	assert.Contains(t, out, "... 1 more")

	out, err = runAction(t, Options{Action: "search", DataRoot: root, Keyword: "salsa", Dataset: "KIT"}, nil)
	require.NoError(t, err)
	assert.Contains(t, out, "1 files matching")
}

func TestRun_UsageErrors(t *testing.T) {
	for _, o := range []Options{{Action: "analyze"}, {Action: "search"}, {Action: "plot"}} {
		_, err := runAction(t, o, nil)
		assert.ErrorIs(t, err, errUsage, o.Action)
	}
}

func TestPrintReport_ExampleLimits(t *testing.T) {
	var paths []string
	for i := range 6 {
		paths = append(paths, fmt.Sprintf("walk_%d.npz", i), fmt.Sprintf("xyz_%d.npz", i))
	}
	var buf bytes.Buffer
	printReport(&buf, "KIT", classify.AnalyzeFiles(paths))
	out := buf.String()

	assert.Contains(t, out, "walk_2.npz")
	assert.NotContains(t, out, "walk_3.npz")
	assert.Contains(t, out, "... 3 more")
	assert.Contains(t, out, "xyz_4.npz")
	assert.NotContains(t, out, "xyz_5.npz")
	assert.Contains(t, out, "... 1 more")
}
