package chart

import (
	"bytes"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/motion.report/internal/dataset"
)

var testBars = []Bar{
	{Dataset: "ACCAD", Files: 252, Frames: 140000},
	{Dataset: "CMU", Files: 1983, Frames: 3500000},
	{Dataset: "KIT", Files: 4232, Frames: 1900000},
}

func TestFromSummary(t *testing.T) {
	s := dataset.Summary{Rows: []dataset.DatasetRow{
		{Name: "A", Files: 1, Frames: 10},
		{Name: "B", Files: 2, Frames: 20},
	}}
	assert.Equal(t, []Bar{{"A", 1, 10}, {"B", 2, 20}}, FromSummary(s))
}

func TestWritePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, testBars))

	cfg, err := png.DecodeConfig(&buf)
	require.NoError(t, err)
	assert.Greater(t, cfg.Width, cfg.Height, "charts sit side by side")
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteHTML(&buf, testBars))

	html := buf.String()
	assert.Contains(t, html, "echarts")
	assert.Contains(t, html, "Files per dataset")
	assert.Contains(t, html, "Frames per dataset")
	for _, b := range testBars {
		assert.Contains(t, html, b.Dataset)
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()

	pngPath := filepath.Join(dir, "stats.PNG")
	require.NoError(t, Save(pngPath, testBars))
	f, err := os.Open(pngPath)
	require.NoError(t, err)
	_, err = png.DecodeConfig(f)
	f.Close()
	assert.NoError(t, err)

	htmlPath := filepath.Join(dir, "stats.html")
	require.NoError(t, Save(htmlPath, testBars))
	data, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "<html"))
}

func TestSave_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.ErrorIs(t, Save(filepath.Join(dir, "stats.svg"), testBars), ErrUnsupportedFormat)
	assert.Error(t, Save(filepath.Join(dir, "stats.png"), nil))
	assert.NoFileExists(t, filepath.Join(dir, "stats.png"))
	assert.Error(t, Save(filepath.Join(dir, "missing", "stats.png"), testBars))
}
