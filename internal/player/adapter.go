package player

import (
	"errors"
	"fmt"
)

// ErrJointMismatch is returned when a vector's length does not match what
// the adapter was built for.
var ErrJointMismatch = errors.New("joint-count mismatch")

// Adapter maps source DOF vectors of one length onto the model's joint order.
// When the model names its source joints and their count matches the data,
// joints are matched by name; otherwise by index, padding missing trailing
// joints with their defaults and dropping extra source joints.
type Adapter struct {
	source   int
	index    []int // per target joint: source index, or -1 for default
	defaults []float64
	byName   bool
	missing  []string
	dropped  int
}

// NewAdapter builds an adapter from sourceCount DOFs to m's joints.
func NewAdapter(sourceCount int, m *Model) *Adapter {
	a := &Adapter{
		source:   sourceCount,
		index:    make([]int, len(m.Joints)),
		defaults: m.Defaults(),
	}

	if len(m.SourceJoints) > 0 && len(m.SourceJoints) == sourceCount {
		a.byName = true
		pos := make(map[string]int, sourceCount)
		for i, n := range m.SourceJoints {
			pos[n] = i
		}
		used := 0
		for i, j := range m.Joints {
			if si, ok := pos[j.Name]; ok {
				a.index[i] = si
				used++
				continue
			}
			a.index[i] = -1
			a.missing = append(a.missing, j.Name)
		}
		a.dropped = sourceCount - used
		return a
	}

	for i, j := range m.Joints {
		if i < sourceCount {
			a.index[i] = i
			continue
		}
		a.index[i] = -1
		a.missing = append(a.missing, j.Name)
	}
	a.dropped = max(sourceCount-len(m.Joints), 0)
	return a
}

// ByName reports whether joints are matched by name.
func (a *Adapter) ByName() bool { return a.byName }

// Missing lists the model joints filled from their defaults.
func (a *Adapter) Missing() []string { return a.missing }

// Dropped is the number of source joints with no target.
func (a *Adapter) Dropped() int { return a.dropped }

// Identity reports whether Adapt copies src unchanged.
func (a *Adapter) Identity() bool {
	if a.source != len(a.index) {
		return false
	}
	for i, si := range a.index {
		if si != i {
			return false
		}
	}
	return true
}

// Adapt fills dst (model joint order) from src (source order) without
// allocating.
func (a *Adapter) Adapt(dst, src []float64) error {
	if len(src) != a.source {
		return fmt.Errorf("%w: got %d source values, want %d", ErrJointMismatch, len(src), a.source)
	}
	if len(dst) != len(a.index) {
		return fmt.Errorf("%w: got %d target slots, want %d", ErrJointMismatch, len(dst), len(a.index))
	}
	for i, si := range a.index {
		if si < 0 {
			dst[i] = a.defaults[i]
			continue
		}
		dst[i] = src[si]
	}
	return nil
}

// AdaptBodies fills dst (target bodies × 3) from src (source bodies × 3).
// Missing bodies take the root position; extra source bodies are dropped.
func AdaptBodies(dst, src []float64) error {
	if len(src) < 3 || len(src)%3 != 0 || len(dst)%3 != 0 {
		return fmt.Errorf("%w: body vectors of %d and %d values", ErrJointMismatch, len(src), len(dst))
	}
	n := copy(dst, src)
	for i := n; i < len(dst); i += 3 {
		copy(dst[i:i+3], src[:3])
	}
	return nil
}
