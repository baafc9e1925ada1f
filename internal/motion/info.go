package motion

import (
	"fmt"
	"os"
	"path/filepath"
)

// Info is the header-level description of a record: enough for scanning and
// duration filtering without loading the bulk arrays.
type Info struct {
	Path      string  `json:"path"`
	Name      string  `json:"name"`
	FPS       float64 `json:"fps"`
	Frames    int     `json:"frames"`
	Bodies    int     `json:"bodies"`
	DOFs      int     `json:"dofs"`
	SizeBytes int64   `json:"size_bytes"`
}

// Duration returns the record length in seconds: Frames / FPS.
func (i Info) Duration() float64 {
	if i.FPS <= 0 {
		return 0
	}
	return float64(i.Frames) / i.FPS
}

// SizeMB returns the archive size in MiB.
func (i Info) SizeMB() float64 {
	return float64(i.SizeBytes) / (1024 * 1024)
}

// ReadInfo opens path and reads fps plus the shapes of the per-frame arrays.
// body_positions is required; dof_positions is optional at this level.
func ReadInfo(path string) (Info, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Info{}, err
	}

	a, err := openArchive(path)
	if err != nil {
		return Info{}, err
	}
	defer a.Close()

	info := Info{Path: path, Name: filepath.Base(path), SizeBytes: st.Size()}
	if err := a.readHeader(&info); err != nil {
		return Info{}, err
	}
	return info, nil
}

func (a *archive) readHeader(info *Info) error {
	fps, err := a.scalar(KeyFPS)
	if err != nil {
		return err
	}
	if fps <= 0 {
		return fmt.Errorf("%w: %s: fps must be positive, got %g", ErrMalformedArchive, a.path, fps)
	}
	info.FPS = fps

	pos, err := a.shape(KeyBodyPositions)
	if err != nil {
		return err
	}
	if len(pos) != 3 || pos[2] != 3 {
		return fmt.Errorf("%w: %s: body_positions shape %v, want [frames, bodies, 3]", ErrMalformedArchive, a.path, pos)
	}
	if pos[1] < 1 {
		return fmt.Errorf("%w: %s: body_positions has no bodies", ErrMalformedArchive, a.path)
	}
	info.Frames, info.Bodies = pos[0], pos[1]

	if a.has(KeyDOFPositions) {
		dof, err := a.shape(KeyDOFPositions)
		if err != nil {
			return err
		}
		if len(dof) != 2 || dof[0] != info.Frames {
			return fmt.Errorf("%w: %s: dof_positions shape %v does not match %d frames", ErrMalformedArchive, a.path, dof, info.Frames)
		}
		info.DOFs = dof[1]
	}
	return nil
}
