package player

import (
	"context"
	"fmt"
	"image"
	"io"
	"math"
)

// View selects the projection plane.
type View string

const (
	ViewFront View = "front" // y right, z up
	ViewSide  View = "side"  // x right, z up
	ViewTop   View = "top"   // x right, y up
)

// ParseView validates a view name. Empty selects ViewFront.
func ParseView(s string) (View, error) {
	switch View(s) {
	case "", ViewFront:
		return ViewFront, nil
	case ViewSide, ViewTop:
		return View(s), nil
	}
	return "", fmt.Errorf("unknown view %q (want front, side or top)", s)
}

// project maps a world point to the view's horizontal and vertical axes.
func (v View) project(p [3]float64) (h, u float64) {
	switch v {
	case ViewSide:
		return p[0], p[2]
	case ViewTop:
		return p[0], p[1]
	}
	return p[1], p[2]
}

// Viewport is the output geometry.
type Viewport struct {
	Width  int
	Height int
	// CameraDistance is the half-extent in metres visible around the root.
	CameraDistance float64
	View           View
}

// FrameState is what a renderer receives for each frame, already adapted to
// the model.
type FrameState struct {
	Index int
	// Time is seconds since the first frame of the range at normal speed.
	Time   float64
	Root   [3]float64
	Bodies []float64 // len(Model.Bodies)*3, or the source count when the model has none
	Joints []float64 // len(Model.Joints)
}

// Body returns the position of body i.
func (f FrameState) Body(i int) [3]float64 {
	return [3]float64{f.Bodies[3*i], f.Bodies[3*i+1], f.Bodies[3*i+2]}
}

// Renderer draws frames. Begin is called once before the first frame and
// Close once after the last, including on error paths.
type Renderer interface {
	Begin(m *Model, vp Viewport) error
	Frame(ctx context.Context, f FrameState) error
	Close() error
}

// FrameSink consumes rasterized frames.
type FrameSink interface {
	WriteFrame(index int, img image.Image) error
	Close() error
}

// ConsoleRenderer prints one line per Every frames.
type ConsoleRenderer struct {
	W     io.Writer
	Every int

	model *Model
	n     int
}

// Begin prints the model header.
func (c *ConsoleRenderer) Begin(m *Model, vp Viewport) error {
	c.model = m
	c.n = 0
	_, err := fmt.Fprintf(c.W, "model %s: %d joints, %d bodies\n", m.Name, len(m.Joints), len(m.Bodies))
	return err
}

// Frame prints the frame index, time, root position and joint angle range.
func (c *ConsoleRenderer) Frame(_ context.Context, f FrameState) error {
	defer func() { c.n++ }()
	if c.Every > 1 && c.n%c.Every != 0 {
		return nil
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, v := range f.Joints {
		lo, hi = math.Min(lo, v), math.Max(hi, v)
	}
	_, err := fmt.Fprintf(c.W, "frame %5d  t=%7.3fs  root=[%6.3f, %6.3f, %6.3f]  dof=[%.3f, %.3f]\n",
		f.Index, f.Time, f.Root[0], f.Root[1], f.Root[2], lo, hi)
	return err
}

// Close is a no-op.
func (c *ConsoleRenderer) Close() error { return nil }
