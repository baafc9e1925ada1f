package classify

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banshee-data/motion.report/internal/dataset"
)

// Group is the set of files whose primary label is one category.
type Group struct {
	Category string   `json:"category"`
	Files    []string `json:"files"`
	Percent  float64  `json:"percent"`
}

// ActionCount is how often one action name occurs.
type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

// Report is the classification of a set of files.
type Report struct {
	Files int `json:"files"`
	// Groups holds one entry per non-empty primary label, in taxonomy order
	// with Unknown last.
	Groups []Group `json:"groups"`
	// Matches counts every category each file hits, so a file matching two
	// categories counts in both.
	Matches map[string]int `json:"matches"`
	// Actions is the action name histogram, most frequent first.
	Actions []ActionCount `json:"actions"`
}

// Group returns the named group, or nil.
func (r *Report) Group(category string) *Group {
	for i := range r.Groups {
		if r.Groups[i].Category == category {
			return &r.Groups[i]
		}
	}
	return nil
}

// AnalyzeFiles classifies paths with t.
func (t Taxonomy) AnalyzeFiles(paths []string) Report {
	rep := Report{Files: len(paths), Matches: make(map[string]int)}
	byPrimary := make(map[string][]string)
	actions := make(map[string]int)

	for _, p := range paths {
		labels := t.Classify(p)
		primary := Unknown
		if len(labels) > 0 {
			primary = labels[0]
		}
		byPrimary[primary] = append(byPrimary[primary], p)
		for _, l := range labels {
			rep.Matches[l]++
		}
		if a := ActionName(p); a != "" {
			actions[a]++
		}
	}

	for _, name := range t.Names() {
		files := byPrimary[name]
		if len(files) == 0 {
			continue
		}
		rep.Groups = append(rep.Groups, Group{
			Category: name,
			Files:    files,
			Percent:  100 * float64(len(files)) / float64(len(paths)),
		})
	}

	for a, n := range actions {
		rep.Actions = append(rep.Actions, ActionCount{Action: a, Count: n})
	}
	sort.Slice(rep.Actions, func(i, j int) bool {
		if rep.Actions[i].Count != rep.Actions[j].Count {
			return rep.Actions[i].Count > rep.Actions[j].Count
		}
		return rep.Actions[i].Action < rep.Actions[j].Action
	})
	return rep
}

// AnalyzeFiles runs Default.AnalyzeFiles.
func AnalyzeFiles(paths []string) Report { return Default.AnalyzeFiles(paths) }

// AnalyzeDataset classifies every archive in the subjects of the named dataset.
func (t Taxonomy) AnalyzeDataset(s *dataset.Scanner, root, name string) (Report, error) {
	paths, err := s.DatasetArchives(root, name)
	if err != nil {
		return Report{}, err
	}
	return t.AnalyzeFiles(paths), nil
}

// DatasetActions is one line of the all-datasets overview.
type DatasetActions struct {
	Dataset    string   `json:"dataset"`
	Files      int      `json:"files"`
	Categories []string `json:"categories"`
}

// Overview counts the archives under each dataset, recursively, and lists
// the categories seen in the first sampleLimit of them. Datasets holding no
// archive are left out.
func (t Taxonomy) Overview(ctx context.Context, s *dataset.Scanner, root string, sampleLimit int) ([]DatasetActions, error) {
	names, err := s.Datasets(root)
	if err != nil {
		return nil, err
	}

	var out []DatasetActions
	for _, name := range names {
		files, err := s.WalkArchives(ctx, filepath.Join(root, name))
		if err != nil {
			return nil, err
		}
		if len(files) == 0 {
			continue
		}
		seen := make(map[string]bool)
		for _, f := range files[:min(sampleLimit, len(files))] {
			for _, c := range t.Classify(f) {
				seen[c] = true
			}
		}
		cats := make([]string, 0, len(seen))
		for c := range seen {
			cats = append(cats, c)
		}
		sort.Strings(cats)
		out = append(out, DatasetActions{Dataset: name, Files: len(files), Categories: cats})
	}
	return out, nil
}

// Hit is an archive whose filename contains a search keyword.
type Hit struct {
	Dataset string `json:"dataset"`
	Name    string `json:"name"`
	Path    string `json:"path"`
}

// Search returns every archive whose filename contains keyword,
// case-insensitively. An empty dataset searches all datasets.
func Search(ctx context.Context, s *dataset.Scanner, root, keyword, name string) ([]Hit, error) {
	if keyword == "" {
		return nil, fmt.Errorf("search: empty keyword")
	}
	names := []string{name}
	if name == "" {
		var err error
		if names, err = s.Datasets(root); err != nil {
			return nil, err
		}
	} else if st, err := s.FS.Stat(filepath.Join(root, name)); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %q under %s", dataset.ErrDatasetNotFound, name, root)
	}

	kw := strings.ToLower(keyword)
	var hits []Hit
	for _, ds := range names {
		files, err := s.WalkArchives(ctx, filepath.Join(root, ds))
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			base := filepath.Base(f)
			if strings.Contains(strings.ToLower(base), kw) {
				hits = append(hits, Hit{Dataset: ds, Name: base, Path: f})
			}
		}
	}
	return hits, nil
}
