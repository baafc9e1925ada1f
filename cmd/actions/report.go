package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/banshee-data/motion.report/internal/classify"
)

func printReport(w io.Writer, name string, rep classify.Report) {
	fmt.Fprintf(w, "Dataset %s: %d files\n", name, rep.Files)
	if rep.Files == 0 {
		return
	}

	fmt.Fprintln(w, "\nCategories:")
	for _, g := range rep.Groups {
		fmt.Fprintf(w, "  %-10s %5d (%5.1f%%)\n", g.Category, len(g.Files), g.Percent)
		limit := examplesPerGroup
		if g.Category == classify.Unknown {
			limit = examplesPerUnknown
		}
		for _, f := range g.Files[:min(len(g.Files), limit)] {
			fmt.Fprintf(w, "      %s\n", filepath.Base(f))
		}
		if n := len(g.Files) - limit; n > 0 {
			fmt.Fprintf(w, "      ... %d more\n", n)
		}
	}

	fmt.Fprintln(w, "\nAll matches (a file may count in several):")
	for _, c := range classify.Default.Names() {
		if n := rep.Matches[c]; n > 0 {
			fmt.Fprintf(w, "  %-10s %5d\n", c, n)
		}
	}

	if len(rep.Actions) == 0 {
		return
	}
	fmt.Fprintln(w, "\nTop actions:")
	for _, a := range rep.Actions[:min(len(rep.Actions), topActions)] {
		fmt.Fprintf(w, "  %-20s %5d\n", a.Action, a.Count)
	}
}

func printOverview(w io.Writer, rows []classify.DatasetActions, sample int) {
	fmt.Fprintf(w, "%-24s %8s  %s\n", "Dataset", "Files", fmt.Sprintf("Categories (first %d files)", sample))
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, r := range rows {
		cats := "-"
		if len(r.Categories) > 0 {
			cats = strings.Join(r.Categories, ", ")
		}
		fmt.Fprintf(w, "%-24s %8d  %s\n", r.Dataset, r.Files, cats)
	}
}

func printHits(w io.Writer, keyword string, hits []classify.Hit, limit int) {
	fmt.Fprintf(w, "%d files matching %q\n", len(hits), keyword)
	for _, h := range hits[:min(len(hits), limit)] {
		fmt.Fprintf(w, "  %s/%s\n", h.Dataset, h.Name)
	}
	if n := len(hits) - limit; n > 0 {
		fmt.Fprintf(w, "  ... %d more\n", n)
	}
}
