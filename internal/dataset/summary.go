package dataset

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/banshee-data/motion.report/internal/motion"
)

// DatasetRow is one line of the summary table.
type DatasetRow struct {
	Name         string  `json:"name"`
	Subjects     int     `json:"subjects"`
	Files        int     `json:"files"`
	Frames       int     `json:"frames"`
	SizeBytes    int64   `json:"size_bytes"`
	Duration     float64 `json:"duration_s"`
	MeanDuration float64 `json:"mean_duration_s"`
}

// Summary aggregates a catalog.
type Summary struct {
	Datasets  int     `json:"datasets"`
	Files     int     `json:"files"`
	Frames    int     `json:"frames"`
	SizeBytes int64   `json:"size_bytes"`
	Duration  float64 `json:"duration_s"`
	// EstimatedDuration is Frames / AssumedFPS, matching a dataset recorded
	// at a single nominal rate.
	EstimatedDuration float64      `json:"estimated_duration_s"`
	AssumedFPS        float64      `json:"assumed_fps"`
	Rows              []DatasetRow `json:"rows"`
	Skipped           int          `json:"skipped"`
}

// Summarize builds the dataset table. Rows are in catalog (name) order and
// MeanDuration is the mean of the records' real durations.
func Summarize(c *Catalog, assumedFPS float64) Summary {
	s := Summary{Datasets: len(c.Datasets), AssumedFPS: assumedFPS, Skipped: c.Skipped}
	for _, d := range c.Datasets {
		row := DatasetRow{
			Name:         d.Name,
			Subjects:     len(d.Subjects),
			Files:        d.Files(),
			Frames:       d.Frames(),
			SizeBytes:    d.SizeBytes(),
			MeanDuration: meanDuration(d.Records()),
		}
		row.Duration = d.Duration()
		s.Rows = append(s.Rows, row)

		s.Files += row.Files
		s.Frames += row.Frames
		s.SizeBytes += row.SizeBytes
		s.Duration += row.Duration
	}
	if assumedFPS > 0 {
		s.EstimatedDuration = float64(s.Frames) / assumedFPS
	}
	return s
}

// SubjectRow describes one subject in an exploration.
type SubjectRow struct {
	Name         string   `json:"name"`
	Files        int      `json:"files"`
	Frames       int      `json:"frames"`
	MeanDuration float64  `json:"mean_duration_s"`
	MeanSizeMB   float64  `json:"mean_size_mb"`
	Examples     []string `json:"examples"`
	More         int      `json:"more"`
}

// Exploration is the per-subject breakdown of one dataset.
type Exploration struct {
	Name          string       `json:"name"`
	TotalSubjects int          `json:"total_subjects"`
	Subjects      []SubjectRow `json:"subjects"`
}

// exampleCount is how many filenames are listed per subject.
const exampleCount = 3

// Explore describes the first maxSubjects subjects of d.
func Explore(d *Dataset, maxSubjects int) Exploration {
	ex := Exploration{Name: d.Name, TotalSubjects: len(d.Subjects)}
	for i, s := range d.Subjects {
		if i >= maxSubjects {
			break
		}
		row := SubjectRow{
			Name:         s.Name,
			Files:        len(s.Records),
			Frames:       s.Frames(),
			MeanDuration: meanDuration(s.Records),
		}
		sizes := make([]float64, len(s.Records))
		for j, r := range s.Records {
			sizes[j] = r.SizeMB()
			if j < exampleCount {
				row.Examples = append(row.Examples, r.Name)
			}
		}
		row.MeanSizeMB = mean(sizes)
		row.More = max(len(s.Records)-exampleCount, 0)
		ex.Subjects = append(ex.Subjects, row)
	}
	return ex
}

func meanDuration(recs []motion.Info) float64 {
	d := make([]float64, len(recs))
	for i, r := range recs {
		d[i] = r.Duration()
	}
	return mean(d)
}

// mean is stat.Mean with an empty input mapped to zero instead of NaN.
func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// SampleStats averages a handful of sampled records.
type SampleStats struct {
	Records      []motion.Info `json:"records"`
	MeanFrames   float64       `json:"mean_frames"`
	MeanDuration float64       `json:"mean_duration_s"`
	TotalFrames  int           `json:"total_frames"`
}

// SummarizeSample averages frames and duration over recs.
func SummarizeSample(recs []motion.Info) SampleStats {
	frames := make([]float64, len(recs))
	for i, r := range recs {
		frames[i] = float64(r.Frames)
	}
	return SampleStats{
		Records:      recs,
		MeanFrames:   mean(frames),
		MeanDuration: meanDuration(recs),
		TotalFrames:  int(floats.Sum(frames)),
	}
}
