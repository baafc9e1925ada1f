package player

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"path/filepath"

	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/banshee-data/motion.report/internal/fsutil"
)

var (
	boneStyle   = draw.LineStyle{Color: color.RGBA{R: 40, G: 40, B: 40, A: 255}, Width: vg.Points(2)}
	groundStyle = draw.LineStyle{Color: color.RGBA{R: 170, G: 170, B: 170, A: 255}, Width: vg.Points(1)}
	jointGlyph  = draw.GlyphStyle{Color: color.RGBA{R: 214, G: 39, B: 40, A: 255}, Radius: vg.Points(3), Shape: draw.CircleGlyph{}}
	rootGlyph   = draw.GlyphStyle{Color: color.RGBA{R: 31, G: 119, B: 180, A: 255}, Radius: vg.Points(5), Shape: draw.CircleGlyph{}}
)

// ImageRenderer rasterizes each frame as an orthographic projection of the
// body positions, joined by bones from the model's parent table, and hands
// the image to its sinks.
type ImageRenderer struct {
	Sinks []FrameSink

	model *Model
	vp    Viewport
}

// Begin validates the viewport.
func (r *ImageRenderer) Begin(m *Model, vp Viewport) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return fmt.Errorf("invalid viewport %dx%d", vp.Width, vp.Height)
	}
	if vp.CameraDistance <= 0 {
		return fmt.Errorf("camera distance must be positive, got %g", vp.CameraDistance)
	}
	r.model, r.vp = m, vp
	return nil
}

// Frame rasterizes f and writes it to every sink.
func (r *ImageRenderer) Frame(_ context.Context, f FrameState) error {
	img := Rasterize(r.model, r.vp, f)
	for _, s := range r.Sinks {
		if err := s.WriteFrame(f.Index, img); err != nil {
			return err
		}
	}
	return nil
}

// Close closes every sink and joins their errors.
func (r *ImageRenderer) Close() error {
	var errs []error
	for _, s := range r.Sinks {
		errs = append(errs, s.Close())
	}
	return errors.Join(errs...)
}

// Rasterize draws one frame. The view is centred on the root's projection
// and spans CameraDistance metres either side along the shorter image axis.
func Rasterize(m *Model, vp Viewport, f FrameState) image.Image {
	c := vgimg.NewWith(
		vgimg.UseWH(vg.Length(vp.Width), vg.Length(vp.Height)),
		vgimg.UseDPI(72),
		vgimg.UseBackgroundColor(color.White),
	)
	dc := draw.New(c)

	w, h := float64(vp.Width), float64(vp.Height)
	scale := math.Min(w, h) / 2 / vp.CameraDistance
	ch, cu := vp.View.project(f.Root)
	at := func(p [3]float64) vg.Point {
		ph, pu := vp.View.project(p)
		return vg.Point{X: vg.Length(w/2 + (ph-ch)*scale), Y: vg.Length(h/2 + (pu-cu)*scale)}
	}

	if vp.View != ViewTop {
		y := vg.Length(h/2 - cu*scale)
		dc.StrokeLine2(groundStyle, 0, y, vg.Length(w), y)
	}

	n := len(f.Bodies) / 3
	for i, b := range m.Bodies {
		if i >= n || b.Parent < 0 || b.Parent >= n {
			continue
		}
		p, q := at(f.Body(b.Parent)), at(f.Body(i))
		dc.StrokeLine2(boneStyle, p.X, p.Y, q.X, q.Y)
	}
	for i := 0; i < n; i++ {
		dc.DrawGlyph(jointGlyph, at(f.Body(i)))
	}
	dc.DrawGlyph(rootGlyph, at(f.Root))
	return c.Image()
}

// PNGDirSink writes frames as frame_000000.png files into Dir.
type PNGDirSink struct {
	FS  fsutil.FileSystem
	Dir string
}

// NewPNGDirSink creates dir and returns a sink writing into it.
func NewPNGDirSink(fs fsutil.FileSystem, dir string) (*PNGDirSink, error) {
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create frames dir: %w", err)
	}
	return &PNGDirSink{FS: fs, Dir: dir}, nil
}

// WriteFrame encodes img as PNG.
func (s *PNGDirSink) WriteFrame(index int, img image.Image) error {
	name := filepath.Join(s.Dir, fmt.Sprintf("frame_%06d.png", index))
	f, err := s.FS.Create(name)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return f.Close()
}

// Close is a no-op.
func (s *PNGDirSink) Close() error { return nil }
