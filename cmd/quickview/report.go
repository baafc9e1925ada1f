package main

import (
	"fmt"
	"io"
	"path/filepath"

	"github.com/banshee-data/motion.report/internal/dataset"
	"github.com/banshee-data/motion.report/internal/motion"
)

func printOverview(w io.Writer, root string, names []string, entries []dataset.Entry) {
	fmt.Fprintf(w, "Found %d datasets under %s\n", len(names), root)
	for _, n := range names {
		fmt.Fprintf(w, "  - %s\n", n)
	}
	fmt.Fprintf(w, "\nSampled %d files:\n", len(entries))
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.Path)
		if err != nil {
			rel = e.Path
		}
		if e.Failed() {
			fmt.Fprintf(w, "  %s: error: %v\n", rel, e.Err)
			continue
		}
		fmt.Fprintf(w, "  %s: %d frames, %.2f s @ %g fps, %d bodies, %d dofs\n",
			rel, e.Info.Frames, e.Info.Duration(), e.Info.FPS, e.Info.Bodies, e.Info.DOFs)
	}

	st := dataset.SummarizeSample(dataset.Readable(entries))
	if len(st.Records) == 0 {
		return
	}
	fmt.Fprintf(w, "\nSample mean: %.0f frames, %.2f s (%d frames total)\n", st.MeanFrames, st.MeanDuration, st.TotalFrames)
}

func printListing(w io.Writer, l *dataset.Listing) {
	fmt.Fprintf(w, "Dataset %s: %d subjects\n", l.Name, l.TotalSubjects)
	for _, s := range l.Subjects {
		fmt.Fprintf(w, "\n  %s (%d files)\n", s.Name, s.Files)
		for _, e := range s.Entries {
			if e.Failed() {
				fmt.Fprintf(w, "    %s: failed to read\n", e.Name)
				continue
			}
			fmt.Fprintf(w, "    %s: %d frames, %.2f s\n", e.Name, e.Info.Frames, e.Info.Duration())
		}
		if s.More > 0 {
			fmt.Fprintf(w, "    ... %d more\n", s.More)
		}
	}
	if l.MoreSubjects > 0 {
		fmt.Fprintf(w, "\n  ... %d more subjects\n", l.MoreSubjects)
	}
}

func printPreview(w io.Writer, rec *motion.Record, rows []motion.PreviewRow) {
	fmt.Fprintf(w, "%s: %d frames @ %g fps (%.2f s), %d bodies, %d dofs\n",
		rec.Name, rec.Frames, rec.FPS, rec.Duration(), rec.Bodies, rec.DOFs)
	fmt.Fprintf(w, "%6s  %26s  %20s\n", "frame", "root position", "dof range")
	for _, r := range rows {
		dof := "n/a"
		if r.DOF.Valid() {
			dof = fmt.Sprintf("[%.3f, %.3f]", r.DOF.Min, r.DOF.Max)
		}
		fmt.Fprintf(w, "%6d  [%7.3f, %7.3f, %7.3f]  %20s\n", r.Frame, r.Root[0], r.Root[1], r.Root[2], dof)
	}
}

func printShort(w io.Writer, name string, maxDuration float64, matches []dataset.Match) {
	fmt.Fprintf(w, "%d files in %s no longer than %g s\n", len(matches), name, maxDuration)
	for _, m := range matches {
		fmt.Fprintf(w, "  %6.2f s  %s/%s\n", m.Duration, m.Subject, m.Name)
	}
}
