package motion

import (
	"fmt"
	"os"
	"path/filepath"
)

// Record is a fully loaded motion archive.
type Record struct {
	Info

	// BodyPositions holds Frames*Bodies*3 values.
	BodyPositions []float64
	// BodyRotations holds Frames*Bodies*4 quaternion values, or nil when the
	// archive has none.
	BodyRotations []float64
	// DOFPositions holds Frames*DOFs joint angles in radians.
	DOFPositions []float64
}

// Load reads every member of the archive at path.
func Load(path string) (*Record, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	a, err := openArchive(path)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	rec := &Record{Info: Info{Path: path, Name: filepath.Base(path), SizeBytes: st.Size()}}
	if err := a.readHeader(&rec.Info); err != nil {
		return nil, err
	}
	if !a.has(KeyDOFPositions) {
		return nil, fmt.Errorf("%w: %s has no %q array", ErrMalformedArchive, path, KeyDOFPositions)
	}

	if rec.BodyPositions, _, err = a.floats(KeyBodyPositions); err != nil {
		return nil, err
	}
	if rec.DOFPositions, _, err = a.floats(KeyDOFPositions); err != nil {
		return nil, err
	}
	if a.has(KeyBodyRotations) {
		rot, shape, err := a.floats(KeyBodyRotations)
		if err != nil {
			return nil, err
		}
		if len(shape) != 3 || shape[0] != rec.Frames || shape[1] != rec.Bodies || shape[2] != 4 {
			return nil, fmt.Errorf("%w: %s: body_rotations shape %v, want [%d, %d, 4]", ErrMalformedArchive, path, shape, rec.Frames, rec.Bodies)
		}
		rec.BodyRotations = rot
	}
	return rec, nil
}

// BodyPosition returns the position of body b in frame f.
func (r *Record) BodyPosition(f, b int) [3]float64 {
	i := (f*r.Bodies + b) * 3
	return [3]float64{r.BodyPositions[i], r.BodyPositions[i+1], r.BodyPositions[i+2]}
}

// FrameBodies returns the Bodies*3 slice of positions for frame f without copying.
func (r *Record) FrameBodies(f int) []float64 {
	n := r.Bodies * 3
	return r.BodyPositions[f*n : (f+1)*n]
}

// FrameDOFs returns the joint angles of frame f without copying.
func (r *Record) FrameDOFs(f int) []float64 {
	return r.DOFPositions[f*r.DOFs : (f+1)*r.DOFs]
}

// Root returns the position of body 0 in frame f.
func (r *Record) Root(f int) [3]float64 {
	return r.BodyPosition(f, 0)
}
