// Package dataset walks a data root laid out as <dataset>/<subject>/*.npz and
// aggregates the record headers it finds.
package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/banshee-data/motion.report/internal/fsutil"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/motion"
)

// Ext is the archive file extension.
const Ext = ".npz"

// ErrDatasetNotFound is returned when a named dataset directory does not exist.
var ErrDatasetNotFound = errors.New("dataset not found")

// Subject is one subject directory and the headers of its archives.
type Subject struct {
	Name    string        `json:"name"`
	Path    string        `json:"path"`
	Records []motion.Info `json:"records"`
}

// Frames returns the frame total over the subject's records.
func (s *Subject) Frames() int {
	n := 0
	for _, r := range s.Records {
		n += r.Frames
	}
	return n
}

// Dataset is one top-level directory under the data root.
type Dataset struct {
	Name     string     `json:"name"`
	Path     string     `json:"path"`
	Subjects []*Subject `json:"subjects"`
}

// Records returns every record in subject order.
func (d *Dataset) Records() []motion.Info {
	var out []motion.Info
	for _, s := range d.Subjects {
		out = append(out, s.Records...)
	}
	return out
}

// Files returns the number of readable archives in the dataset.
func (d *Dataset) Files() int {
	n := 0
	for _, s := range d.Subjects {
		n += len(s.Records)
	}
	return n
}

// Frames returns the frame total over the dataset.
func (d *Dataset) Frames() int {
	n := 0
	for _, s := range d.Subjects {
		n += s.Frames()
	}
	return n
}

// Duration returns the summed record durations in seconds.
func (d *Dataset) Duration() float64 {
	var t float64
	for _, s := range d.Subjects {
		for _, r := range s.Records {
			t += r.Duration()
		}
	}
	return t
}

// SizeBytes returns the summed archive sizes.
func (d *Dataset) SizeBytes() int64 {
	var n int64
	for _, s := range d.Subjects {
		for _, r := range s.Records {
			n += r.SizeBytes
		}
	}
	return n
}

// Catalog is the result of scanning a data root.
type Catalog struct {
	Root     string     `json:"root"`
	Datasets []*Dataset `json:"datasets"`
	// Skipped counts archives whose header could not be read.
	Skipped int `json:"skipped"`
}

// Dataset returns the named dataset or ErrDatasetNotFound.
func (c *Catalog) Dataset(name string) (*Dataset, error) {
	for _, d := range c.Datasets {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrDatasetNotFound, name)
}

// TotalFiles returns the number of readable archives.
func (c *Catalog) TotalFiles() int {
	n := 0
	for _, d := range c.Datasets {
		n += d.Files()
	}
	return n
}

// TotalFrames returns the frame total over every dataset.
func (c *Catalog) TotalFrames() int {
	n := 0
	for _, d := range c.Datasets {
		n += d.Frames()
	}
	return n
}

// TotalDuration returns the summed record durations in seconds.
func (c *Catalog) TotalDuration() float64 {
	var t float64
	for _, d := range c.Datasets {
		t += d.Duration()
	}
	return t
}

// Scanner reads the directory tree through FS and record headers through
// ReadHeader so both can be replaced in tests.
type Scanner struct {
	FS         fsutil.FileSystem
	ReadHeader func(path string) (motion.Info, error)
}

// NewScanner returns a Scanner over the real filesystem.
func NewScanner() *Scanner {
	return &Scanner{FS: fsutil.OSFileSystem{}, ReadHeader: motion.ReadInfo}
}

// Scan enumerates every dataset under root. Datasets, subjects and records are
// visited in name order. Subjects without archives are omitted. Unreadable
// archives are logged and counted in Catalog.Skipped.
func (s *Scanner) Scan(ctx context.Context, root string) (*Catalog, error) {
	names, err := s.dirs(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	c := &Catalog{Root: root}
	for _, name := range names {
		d, skipped, err := s.scanDataset(ctx, filepath.Join(root, name))
		if err != nil {
			return nil, err
		}
		c.Datasets = append(c.Datasets, d)
		c.Skipped += skipped
	}
	return c, nil
}

// ScanDataset scans a single dataset directory under root.
func (s *Scanner) ScanDataset(ctx context.Context, root, name string) (*Dataset, error) {
	path := filepath.Join(root, name)
	st, err := s.FS.Stat(path)
	if err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %q under %s", ErrDatasetNotFound, name, root)
	}
	d, _, err := s.scanDataset(ctx, path)
	return d, err
}

func (s *Scanner) scanDataset(ctx context.Context, path string) (*Dataset, int, error) {
	d := &Dataset{Name: filepath.Base(path), Path: path}
	subjects, err := s.dirs(path)
	if err != nil {
		return nil, 0, fmt.Errorf("scan dataset %s: %w", path, err)
	}

	skipped := 0
	for _, name := range subjects {
		sub := &Subject{Name: name, Path: filepath.Join(path, name)}
		files, err := s.archives(sub.Path)
		if err != nil {
			return nil, 0, fmt.Errorf("scan subject %s: %w", sub.Path, err)
		}
		for _, f := range files {
			if err := ctx.Err(); err != nil {
				return nil, 0, err
			}
			info, err := s.ReadHeader(f)
			if err != nil {
				monitoring.Warnf("cannot read %s: %v", f, err)
				skipped++
				continue
			}
			sub.Records = append(sub.Records, info)
		}
		if len(sub.Records) > 0 {
			d.Subjects = append(d.Subjects, sub)
		}
	}
	return d, skipped, nil
}

// dirs returns the sorted names of the visible subdirectories of path.
func (s *Scanner) dirs(path string) ([]string, error) {
	entries, err := s.FS.ReadDir(path)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// archives returns the sorted archive paths directly inside dir.
func (s *Scanner) archives(dir string) ([]string, error) {
	entries, err := s.FS.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && IsArchive(e.Name()) {
			out = append(out, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(out)
	return out, nil
}

// Datasets returns the sorted dataset names under root without reading any
// archive.
func (s *Scanner) Datasets(root string) ([]string, error) {
	names, err := s.dirs(root)
	if err != nil {
		return nil, fmt.Errorf("list datasets in %s: %w", root, err)
	}
	return names, nil
}

// IsArchive reports whether name has the archive extension.
func IsArchive(name string) bool {
	return strings.EqualFold(filepath.Ext(name), Ext)
}

// WalkArchives returns every archive path below root, recursively, sorted.
func (s *Scanner) WalkArchives(ctx context.Context, root string) ([]string, error) {
	var out []string
	var walk func(dir string) error
	walk = func(dir string) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		entries, err := s.FS.ReadDir(dir)
		if err != nil {
			return err
		}
		for _, e := range entries {
			p := filepath.Join(dir, e.Name())
			switch {
			case e.IsDir():
				if err := walk(p); err != nil {
					return err
				}
			case IsArchive(e.Name()):
				out = append(out, p)
			}
		}
		return nil
	}
	if err := walk(root); err != nil {
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}
	sort.Strings(out)
	return out, nil
}

// DatasetArchives returns the archive paths in every subject of the named
// dataset without opening them.
func (s *Scanner) DatasetArchives(root, name string) ([]string, error) {
	path := filepath.Join(root, name)
	if st, err := s.FS.Stat(path); err != nil || !st.IsDir() {
		return nil, fmt.Errorf("%w: %q under %s", ErrDatasetNotFound, name, root)
	}
	subjects, err := s.dirs(path)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", path, err)
	}
	var out []string
	for _, sub := range subjects {
		files, err := s.archives(filepath.Join(path, sub))
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", sub, err)
		}
		out = append(out, files...)
	}
	return out, nil
}
