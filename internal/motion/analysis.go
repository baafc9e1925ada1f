package motion

import (
	"math"
)

// Range is a closed interval over the finite values seen.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

func emptyRange() Range {
	return Range{Min: math.Inf(1), Max: math.Inf(-1)}
}

func (r *Range) add(v float64) {
	if v < r.Min {
		r.Min = v
	}
	if v > r.Max {
		r.Max = v
	}
}

// Valid reports whether at least one finite value was folded in.
func (r Range) Valid() bool {
	return r.Min <= r.Max
}

// Analysis summarises the numeric content of a record.
type Analysis struct {
	Position [3]Range `json:"position"` // x, y, z over every body and frame
	DOF      Range    `json:"dof"`
	HasNaN   bool     `json:"has_nan"`
	HasInf   bool     `json:"has_inf"`
}

// Analyze computes per-axis position ranges, the joint angle range and
// whether any NaN or Inf is present in body_positions or dof_positions.
// Non-finite values are excluded from the ranges.
func Analyze(r *Record) Analysis {
	an := Analysis{DOF: emptyRange()}
	for i := range an.Position {
		an.Position[i] = emptyRange()
	}

	for i, v := range r.BodyPositions {
		if !an.finite(v) {
			continue
		}
		an.Position[i%3].add(v)
	}
	for _, v := range r.DOFPositions {
		if !an.finite(v) {
			continue
		}
		an.DOF.add(v)
	}
	return an
}

func (an *Analysis) finite(v float64) bool {
	switch {
	case math.IsNaN(v):
		an.HasNaN = true
		return false
	case math.IsInf(v, 0):
		an.HasInf = true
		return false
	}
	return true
}

// PreviewRow is one line of a frame preview: the root position and the
// joint angle range within the frame.
type PreviewRow struct {
	Frame int        `json:"frame"`
	Root  [3]float64 `json:"root"`
	DOF   Range      `json:"dof"`
}

// Preview returns rows for the first n frames (fewer when the record is shorter).
func Preview(r *Record, n int) []PreviewRow {
	if n > r.Frames {
		n = r.Frames
	}
	rows := make([]PreviewRow, 0, max(n, 0))
	for f := 0; f < n; f++ {
		dr := emptyRange()
		if r.DOFs > 0 {
			for _, v := range r.FrameDOFs(f) {
				if !math.IsNaN(v) && !math.IsInf(v, 0) {
					dr.add(v)
				}
			}
		}
		rows = append(rows, PreviewRow{Frame: f, Root: r.Root(f), DOF: dr})
	}
	return rows
}

// RangeViolation describes dof_positions samples outside [-limit, limit].
type RangeViolation struct {
	Count      int `json:"count"`
	FirstFrame int `json:"first_frame"`
	FirstJoint int `json:"first_joint"`
}

// CheckRange reports how many joint angles fall outside [-limit, limit].
// NaN counts as a violation. It returns nil when every value is in bounds.
func CheckRange(r *Record, limit float64) *RangeViolation {
	var v *RangeViolation
	for i, x := range r.DOFPositions {
		if x >= -limit && x <= limit {
			continue
		}
		if v == nil {
			v = &RangeViolation{FirstFrame: i / r.DOFs, FirstJoint: i % r.DOFs}
		}
		v.Count++
	}
	return v
}
