package motion

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sbinet/npyio/npz"
)

// Member names inside a motion archive.
const (
	KeyFPS           = "fps"
	KeyBodyPositions = "body_positions"
	KeyBodyRotations = "body_rotations"
	KeyDOFPositions  = "dof_positions"
)

// ErrMalformedArchive is returned for archives whose members are missing or
// whose shapes disagree.
var ErrMalformedArchive = errors.New("malformed motion archive")

// archive wraps an open npz reader with member lookup that tolerates both
// "name" and "name.npy" keys.
type archive struct {
	path string
	r    *npz.Reader
}

func openArchive(path string) (*archive, error) {
	r, err := npz.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &archive{path: path, r: r}, nil
}

func (a *archive) Close() error {
	return a.r.Close()
}

func (a *archive) key(name string) (string, bool) {
	for _, k := range a.r.Keys() {
		if k == name || k == name+".npy" {
			return k, true
		}
	}
	return "", false
}

func (a *archive) has(name string) bool {
	_, ok := a.key(name)
	return ok
}

// shape returns the declared shape of a member without reading its data.
func (a *archive) shape(name string) ([]int, error) {
	k, ok := a.key(name)
	if !ok {
		return nil, fmt.Errorf("%w: %s has no %q array", ErrMalformedArchive, a.path, name)
	}
	hdr := a.r.Header(k)
	if hdr == nil {
		return nil, fmt.Errorf("%w: %s: unreadable header for %q", ErrMalformedArchive, a.path, name)
	}
	if hdr.Descr.Fortran && len(hdr.Descr.Shape) > 1 {
		return nil, fmt.Errorf("%w: %s: %q is fortran-ordered", ErrMalformedArchive, a.path, name)
	}
	return append([]int(nil), hdr.Descr.Shape...), nil
}

// floats reads a numeric member of any common dtype as float64 values.
func (a *archive) floats(name string) ([]float64, []int, error) {
	shape, err := a.shape(name)
	if err != nil {
		return nil, nil, err
	}
	k, _ := a.key(name)
	dtype := strings.TrimLeft(a.r.Header(k).Descr.Type, "<>|=")

	var out []float64
	switch dtype {
	case "f8":
		err = a.r.Read(k, &out)
	case "f4":
		var v []float32
		if err = a.r.Read(k, &v); err == nil {
			out = widen(v)
		}
	case "i8":
		var v []int64
		if err = a.r.Read(k, &v); err == nil {
			out = widen(v)
		}
	case "i4":
		var v []int32
		if err = a.r.Read(k, &v); err == nil {
			out = widen(v)
		}
	case "u1":
		var v []uint8
		if err = a.r.Read(k, &v); err == nil {
			out = widen(v)
		}
	default:
		return nil, nil, fmt.Errorf("%w: %s: %q has unsupported dtype %q", ErrMalformedArchive, a.path, name, dtype)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %q from %s: %w", name, a.path, err)
	}
	if want := elements(shape); len(out) != want {
		return nil, nil, fmt.Errorf("%w: %s: %q holds %d values, shape %v needs %d", ErrMalformedArchive, a.path, name, len(out), shape, want)
	}
	return out, shape, nil
}

// scalar reads the first value of a member, which for fps is a 0-d array.
func (a *archive) scalar(name string) (float64, error) {
	v, _, err := a.floats(name)
	if err != nil {
		return 0, err
	}
	if len(v) == 0 {
		return 0, fmt.Errorf("%w: %s: %q is empty", ErrMalformedArchive, a.path, name)
	}
	return v[0], nil
}

func widen[T float32 | int64 | int32 | uint8](v []T) []float64 {
	out := make([]float64, len(v))
	for i, x := range v {
		out[i] = float64(x)
	}
	return out
}

func elements(shape []int) int {
	n := 1
	for _, d := range shape {
		n *= d
	}
	return n
}
