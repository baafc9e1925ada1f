// Package chart renders per-dataset file and frame counts as a PNG (gonum/plot)
// or an interactive HTML page (go-echarts).
package chart

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/banshee-data/motion.report/internal/dataset"
)

// DefaultPath is used when no output path is given.
const DefaultPath = "dataset_stats.png"

// ErrUnsupportedFormat is returned for output extensions other than .png
// and .html.
var ErrUnsupportedFormat = errors.New("unsupported chart format")

// Bar is one dataset's column in both charts.
type Bar struct {
	Dataset string
	Files   int
	Frames  int
}

// FromSummary returns one bar per summary row.
func FromSummary(s dataset.Summary) []Bar {
	bars := make([]Bar, 0, len(s.Rows))
	for _, r := range s.Rows {
		bars = append(bars, Bar{Dataset: r.Name, Files: r.Files, Frames: r.Frames})
	}
	return bars
}

// Save writes bars to path, choosing the renderer from the extension.
func Save(path string, bars []Bar) error {
	var write func(io.Writer, []Bar) error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		write = WritePNG
	case ".html", ".htm":
		write = WriteHTML
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, path)
	}
	if len(bars) == 0 {
		return errors.New("chart: no datasets to plot")
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f, bars); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", path, err)
	}
	return f.Close()
}

func labels(bars []Bar) []string {
	out := make([]string, len(bars))
	for i, b := range bars {
		out[i] = b.Dataset
	}
	return out
}
