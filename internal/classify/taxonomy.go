// Package classify labels motion archives by keywords found in their
// filenames.
package classify

import (
	"path/filepath"
	"strings"
)

// Unknown is the label of a file matching no category.
const Unknown = "unknown"

// Category is a named keyword list.
type Category struct {
	Name     string
	Keywords []string
}

// Taxonomy is an ordered category list. Order sets precedence when a
// filename matches more than one category.
type Taxonomy []Category

// Default is the taxonomy used by the tools.
var Default = Taxonomy{
	{"dance", []string{"dance", "flamenco", "salsa", "bachata", "reggaeton", "karsilamas", "zeimpekiko", "hasapiko", "maleviziotikos", "haniotikos"}},
	{"emotion", []string{"happy", "sad", "angry", "tired", "excited", "afraid", "annoyed", "nervous", "scary", "satisfied"}},
	{"daily", []string{"walk", "run", "jump", "sit", "stand", "reach", "grab", "throw", "catch"}},
	{"sport", []string{"basketball", "football", "tennis", "swimming", "boxing", "kick", "punch"}},
	{"gesture", []string{"wave", "point", "clap", "shake", "nod", "bow"}},
	{"other", []string{"mix", "musical", "theater", "performance"}},
}

// Names returns the category names in order, followed by Unknown.
func (t Taxonomy) Names() []string {
	out := make([]string, 0, len(t)+1)
	for _, c := range t {
		out = append(out, c.Name)
	}
	return append(out, Unknown)
}

// Classify returns every category with a keyword that occurs in the base
// name of filename, case-insensitively, in taxonomy order.
func (t Taxonomy) Classify(filename string) []string {
	name := strings.ToLower(filepath.Base(filename))
	var out []string
	for _, c := range t {
		if c.matches(name) {
			out = append(out, c.Name)
		}
	}
	return out
}

// Primary returns the first matching category, or Unknown.
func (t Taxonomy) Primary(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	for _, c := range t {
		if c.matches(name) {
			return c.Name
		}
	}
	return Unknown
}

func (c Category) matches(lower string) bool {
	for _, k := range c.Keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}

// Classify runs Default.Classify.
func Classify(filename string) []string { return Default.Classify(filename) }

// Primary runs Default.Primary.
func Primary(filename string) string { return Default.Primary(filename) }

// Retargeting suffixes, longest first so the c3d forms are removed whole.
var suffixes = []string{
	"_c3d_poses_120_jpos.npz",
	"_c3d_poses_60_jpos.npz",
	"_poses_120_jpos.npz",
	"_poses_60_jpos.npz",
}

// ActionName extracts the action token from an archive filename: the
// retargeting suffix is removed and the last underscore-separated token is
// returned, or the one before it when the last is numeric.
//
//	"B3_-_walk_poses_120_jpos.npz" -> "walk"
//	"Subject_1_F_Jump_2_poses_60_jpos.npz" -> "jump"
func ActionName(filename string) string {
	name := strings.ToLower(filepath.Base(filename))
	for _, s := range suffixes {
		if strings.HasSuffix(name, s) {
			name = strings.TrimSuffix(name, s)
			break
		}
	}
	name = strings.TrimSuffix(name, ".npz")

	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return name
	}
	action := parts[len(parts)-1]
	if isDigits(action) && len(parts) >= 3 {
		action = parts[len(parts)-2]
	}
	return action
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
