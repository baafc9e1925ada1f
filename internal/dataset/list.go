package dataset

import (
	"context"
	"fmt"
	"math/rand/v2"
	"path/filepath"

	"github.com/banshee-data/motion.report/internal/motion"
)

// Entry is a record header or the error met reading it.
type Entry struct {
	Name string      `json:"name"`
	Path string      `json:"path"`
	Info motion.Info `json:"info"`
	Err  error       `json:"-"`
}

// Failed reports whether the header could not be read.
func (e Entry) Failed() bool { return e.Err != nil }

// SubjectListing is one subject of a Listing.
type SubjectListing struct {
	Name    string  `json:"name"`
	Files   int     `json:"files"`
	Entries []Entry `json:"entries"`
	More    int     `json:"more"`
}

// Listing shows the first subjects of a dataset and the first records of
// each, without reading the rest.
type Listing struct {
	Name          string           `json:"name"`
	TotalSubjects int              `json:"total_subjects"`
	Subjects      []SubjectListing `json:"subjects"`
	MoreSubjects  int              `json:"more_subjects"`
}

// ListContents lists up to maxSubjects subjects of the named dataset. Only
// the first few archives of each subject are opened.
func (s *Scanner) ListContents(ctx context.Context, root, name string, maxSubjects int) (*Listing, error) {
	path := filepath.Join(root, name)
	if st, err := s.FS.Stat(path); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %q under %s", ErrDatasetNotFound, name, root)
	}
	subjects, err := s.dirs(path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}

	l := &Listing{Name: name, TotalSubjects: len(subjects)}
	for i, sub := range subjects {
		if i >= maxSubjects {
			l.MoreSubjects = len(subjects) - maxSubjects
			break
		}
		files, err := s.archives(filepath.Join(path, sub))
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", sub, err)
		}
		sl := SubjectListing{Name: sub, Files: len(files), More: max(len(files)-exampleCount, 0)}
		for _, f := range files[:min(len(files), exampleCount)] {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			sl.Entries = append(sl.Entries, s.entry(f))
		}
		l.Subjects = append(l.Subjects, sl)
	}
	return l, nil
}

func (s *Scanner) entry(path string) Entry {
	info, err := s.ReadHeader(path)
	return Entry{Name: filepath.Base(path), Path: path, Info: info, Err: err}
}

// Sample picks up to n datasets at random, then one random subject and one
// random archive within each. Datasets whose chosen subject has no archive
// contribute nothing.
func (s *Scanner) Sample(ctx context.Context, root string, n int, rng *rand.Rand) ([]Entry, error) {
	datasets, err := s.Datasets(root)
	if err != nil {
		return nil, err
	}

	var out []Entry
	for _, i := range rng.Perm(len(datasets))[:min(n, len(datasets))] {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		dir := filepath.Join(root, datasets[i])
		subjects, err := s.dirs(dir)
		if err != nil || len(subjects) == 0 {
			continue
		}
		files, err := s.archives(filepath.Join(dir, subjects[rng.IntN(len(subjects))]))
		if err != nil || len(files) == 0 {
			continue
		}
		out = append(out, s.entry(files[rng.IntN(len(files))]))
	}
	return out, nil
}

// Readable returns the headers of the entries that were read successfully.
func Readable(entries []Entry) []motion.Info {
	var out []motion.Info
	for _, e := range entries {
		if !e.Failed() {
			out = append(out, e.Info)
		}
	}
	return out
}
