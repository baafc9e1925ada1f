package dataset

import (
	"math"
	"sort"
)

// Match is a record selected by a duration query.
type Match struct {
	Subject   string  `json:"subject"`
	Name      string  `json:"file"`
	Path      string  `json:"path"`
	Duration  float64 `json:"duration_s"`
	Frames    int     `json:"frames"`
	SizeBytes int64   `json:"size_bytes"`
}

// DurationRange is an inclusive bound on record duration in seconds.
type DurationRange struct {
	Min float64
	Max float64
}

// AnyDuration matches every record.
var AnyDuration = DurationRange{Min: 0, Max: math.Inf(1)}

// Contains reports whether Min <= d <= Max.
func (r DurationRange) Contains(d float64) bool {
	return d >= r.Min && d <= r.Max
}

// FindByDuration returns the records of d whose duration lies in r, shortest
// first. Ties keep path order.
func FindByDuration(d *Dataset, r DurationRange) []Match {
	var out []Match
	for _, s := range d.Subjects {
		for _, rec := range s.Records {
			dur := rec.Duration()
			if !r.Contains(dur) {
				continue
			}
			out = append(out, Match{
				Subject:   s.Name,
				Name:      rec.Name,
				Path:      rec.Path,
				Duration:  dur,
				Frames:    rec.Frames,
				SizeBytes: rec.SizeBytes,
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Duration != out[j].Duration {
			return out[i].Duration < out[j].Duration
		}
		return out[i].Path < out[j].Path
	})
	return out
}

// Short returns the records of d no longer than maxDuration seconds.
func Short(d *Dataset, maxDuration float64) []Match {
	return FindByDuration(d, DurationRange{Min: 0, Max: maxDuration})
}
