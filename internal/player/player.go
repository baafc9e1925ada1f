package player

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/motion"
	"github.com/banshee-data/motion.report/internal/timeutil"
)

// FrameRange resolves [start, end) against a record of frames frames. end 0
// means the last frame; larger values are clamped.
func FrameRange(frames, start, end int) (int, int, error) {
	if end <= 0 || end > frames {
		end = frames
	}
	if start < 0 || start >= end {
		return 0, 0, fmt.Errorf("invalid frame range [%d, %d) for %d frames", start, end, frames)
	}
	return start, end, nil
}

// Options controls playback.
type Options struct {
	StartFrame int
	EndFrame   int
	Speed      float64
	Loop       bool
	// Capture disables pacing and looping: every frame in range is rendered
	// once, as fast as the renderer accepts it.
	Capture bool
}

// Stats summarises a playback run.
type Stats struct {
	Frames int
	Passes int
	Start  int
	End    int
}

// Player feeds a record's frames to a renderer.
type Player struct {
	Record   *motion.Record
	Model    *Model
	Renderer Renderer
	Viewport Viewport
	Clock    timeutil.Clock
	Options  Options
}

// Interval is the wall time between frames at the given speed.
func Interval(fps, speed float64) time.Duration {
	return time.Duration(float64(time.Second) / (fps * speed))
}

// Play renders the frame range, looping until ctx is cancelled when Loop is
// set. The renderer is closed on every return path. Cancellation ends
// playback with ctx.Err().
func (p *Player) Play(ctx context.Context) (stats Stats, err error) {
	rec := p.Record
	start, end, err := FrameRange(rec.Frames, p.Options.StartFrame, p.Options.EndFrame)
	if err != nil {
		return Stats{}, err
	}
	if p.Options.Speed <= 0 {
		return Stats{}, fmt.Errorf("speed must be positive, got %g", p.Options.Speed)
	}
	stats.Start, stats.End = start, end

	adapter := NewAdapter(rec.DOFs, p.Model)
	if !adapter.Identity() {
		monitoring.Warnf("adapting %d source joints to %d model joints (by name: %v, defaulted: %d, dropped: %d)",
			rec.DOFs, len(p.Model.Joints), adapter.ByName(), len(adapter.Missing()), adapter.Dropped())
	}
	bodies := len(p.Model.Bodies)
	if bodies == 0 {
		bodies = rec.Bodies
	}
	loop := p.Options.Loop
	if loop && p.Options.Capture {
		monitoring.Warnf("loop is ignored while recording; capturing a single pass")
		loop = false
	}

	if err := p.Renderer.Begin(p.Model, p.Viewport); err != nil {
		p.Renderer.Close()
		return stats, fmt.Errorf("renderer begin: %w", err)
	}
	defer func() {
		err = errors.Join(err, p.Renderer.Close())
	}()

	state := FrameState{
		Joints: make([]float64, len(p.Model.Joints)),
		Bodies: make([]float64, bodies*3),
	}
	interval := Interval(rec.FPS, p.Options.Speed)

	for {
		began := p.Clock.Now()
		for f := start; f < end; f++ {
			if err := ctx.Err(); err != nil {
				return stats, err
			}
			if !p.Options.Capture {
				due := began.Add(time.Duration(f-start) * interval)
				if d := due.Sub(p.Clock.Now()); d > 0 {
					if err := p.Clock.Sleep(ctx, d); err != nil {
						return stats, err
					}
				}
			}

			state.Index = f
			state.Time = float64(f-start) / rec.FPS
			state.Root = rec.Root(f)
			if err := adapter.Adapt(state.Joints, rec.FrameDOFs(f)); err != nil {
				return stats, err
			}
			if err := AdaptBodies(state.Bodies, rec.FrameBodies(f)); err != nil {
				return stats, err
			}
			if err := p.Renderer.Frame(ctx, state); err != nil {
				return stats, fmt.Errorf("render frame %d: %w", f, err)
			}
			stats.Frames++
		}
		stats.Passes++
		if !loop {
			return stats, nil
		}
	}
}
