package main

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/banshee-data/motion.report/internal/dataset"
	"github.com/banshee-data/motion.report/internal/motion"
)

const rule = "============================================================"

func mb(b int64) float64 { return float64(b) / (1024 * 1024) }

func printScan(w io.Writer, c *dataset.Catalog) {
	fmt.Fprintf(w, "Scanned %s: %d datasets, %d files", c.Root, len(c.Datasets), c.TotalFiles())
	if c.Skipped > 0 {
		fmt.Fprintf(w, " (%d unreadable skipped)", c.Skipped)
	}
	fmt.Fprintln(w)
	for _, d := range c.Datasets {
		fmt.Fprintf(w, "  %-24s %4d subjects %6d files %10d frames\n", d.Name, len(d.Subjects), d.Files(), d.Frames())
	}
}

func printSummary(w io.Writer, s dataset.Summary) {
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, "DATASET SUMMARY")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "Datasets:        %d\n", s.Datasets)
	fmt.Fprintf(w, "Total files:     %d\n", s.Files)
	fmt.Fprintf(w, "Total frames:    %d\n", s.Frames)
	fmt.Fprintf(w, "Total size:      %.1f MB\n", mb(s.SizeBytes))
	fmt.Fprintf(w, "Total duration:  %.1f s (%.2f h)\n", s.Duration, s.Duration/3600)
	fmt.Fprintf(w, "Estimated at %g fps: %.2f h\n", s.AssumedFPS, s.EstimatedDuration/3600)
	if s.Skipped > 0 {
		fmt.Fprintf(w, "Unreadable:      %d\n", s.Skipped)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%-24s %8s %8s %12s %10s %10s\n", "Dataset", "Subjects", "Files", "Frames", "Size MB", "Mean s")
	fmt.Fprintln(w, strings.Repeat("-", 77))
	for _, r := range s.Rows {
		fmt.Fprintf(w, "%-24s %8d %8d %12d %10.1f %10.2f\n", r.Name, r.Subjects, r.Files, r.Frames, mb(r.SizeBytes), r.MeanDuration)
	}
}

func printExploration(w io.Writer, ex dataset.Exploration) {
	fmt.Fprintf(w, "Dataset %s: %d subjects\n", ex.Name, ex.TotalSubjects)
	for _, s := range ex.Subjects {
		fmt.Fprintf(w, "\n  %s: %d files, %d frames, mean %.2f s, mean %.2f MB\n", s.Name, s.Files, s.Frames, s.MeanDuration, s.MeanSizeMB)
		for _, e := range s.Examples {
			fmt.Fprintf(w, "    - %s\n", e)
		}
		if s.More > 0 {
			fmt.Fprintf(w, "    ... %d more\n", s.More)
		}
	}
	if n := ex.TotalSubjects - len(ex.Subjects); n > 0 {
		fmt.Fprintf(w, "\n  ... %d more subjects\n", n)
	}
}

func printAnalysis(w io.Writer, rec *motion.Record, an motion.Analysis) {
	fmt.Fprintf(w, "File:      %s\n", rec.Path)
	fmt.Fprintf(w, "FPS:       %g\n", rec.FPS)
	fmt.Fprintf(w, "Frames:    %d\n", rec.Frames)
	fmt.Fprintf(w, "Duration:  %.2f s\n", rec.Duration())
	fmt.Fprintf(w, "Bodies:    %d\n", rec.Bodies)
	fmt.Fprintf(w, "DOFs:      %d\n", rec.DOFs)
	fmt.Fprintf(w, "Size:      %.2f MB\n", rec.SizeMB())
	fmt.Fprintf(w, "Rotations: %v\n", rec.BodyRotations != nil)
	for i, axis := range []string{"x", "y", "z"} {
		fmt.Fprintf(w, "Position %s: %s\n", axis, formatRange(an.Position[i]))
	}
	fmt.Fprintf(w, "DOF range:  %s\n", formatRange(an.DOF))
	if an.HasNaN || an.HasInf {
		fmt.Fprintf(w, "WARNING: non-finite values (NaN: %v, Inf: %v)\n", an.HasNaN, an.HasInf)
	}
}

func formatRange(r motion.Range) string {
	if !r.Valid() {
		return "n/a"
	}
	return fmt.Sprintf("[%.3f, %.3f]", r.Min, r.Max)
}

func printMatches(w io.Writer, name string, r dataset.DurationRange, matches []dataset.Match) {
	hi := "inf"
	if !math.IsInf(r.Max, 1) {
		hi = fmt.Sprintf("%g", r.Max)
	}
	fmt.Fprintf(w, "%d files in %s with duration in [%g, %s] s\n", len(matches), name, r.Min, hi)
	for _, m := range matches {
		fmt.Fprintf(w, "  %7.2f s %7d frames  %s/%s\n", m.Duration, m.Frames, m.Subject, m.Name)
	}
}
