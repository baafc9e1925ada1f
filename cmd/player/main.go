// Command player replays a motion archive frame by frame on the console or
// as rasterized frames, optionally capturing a video through ffmpeg.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/banshee-data/motion.report/internal/config"
	"github.com/banshee-data/motion.report/internal/fsutil"
	"github.com/banshee-data/motion.report/internal/monitoring"
	"github.com/banshee-data/motion.report/internal/motion"
	"github.com/banshee-data/motion.report/internal/player"
	"github.com/banshee-data/motion.report/internal/security"
	"github.com/banshee-data/motion.report/internal/timeutil"
	"github.com/banshee-data/motion.report/internal/version"
)

var errUsage = errors.New("usage")

// Options holds the command-line flags.
type Options struct {
	Action         string
	ConfigPath     string
	File           string
	Model          string
	StartFrame     int
	EndFrame       int
	Speed          float64
	Loop           bool
	CameraDistance float64
	View           string
	Record         bool
	Output         string
	FramesDir      string
	Width          int
	Height         int
	Every          int
	Version        bool
}

func parseFlags(args []string, stderr io.Writer) (Options, *flag.FlagSet, error) {
	var o Options
	fs := flag.NewFlagSet("player", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&o.Action, "action", "play", "play or info")
	fs.StringVar(&o.ConfigPath, "config", "", "JSON config file (default "+config.DefaultConfigPath+" when present)")
	fs.StringVar(&o.File, "file", "", "Archive to play (required)")
	fs.StringVar(&o.Model, "model", "", "YAML robot model (default: generic model sized to the archive)")
	fs.IntVar(&o.StartFrame, "start_frame", 0, "First frame")
	fs.IntVar(&o.EndFrame, "end_frame", 0, "Frame to stop before (0 = last)")
	fs.Float64Var(&o.Speed, "speed", 1, "Playback speed multiplier")
	fs.BoolVar(&o.Loop, "loop", false, "Loop until interrupted (ignored when recording)")
	fs.Float64Var(&o.CameraDistance, "camera_distance", 3, "Visible half-extent around the root, metres")
	fs.StringVar(&o.View, "view", "front", "Projection: front, side or top")
	fs.BoolVar(&o.Record, "record", false, "Capture a video with ffmpeg")
	fs.StringVar(&o.Output, "output", "", "Video path when recording (default recordings/<file>.mp4)")
	fs.StringVar(&o.FramesDir, "frames_dir", "", "Also write every frame as PNG into this directory")
	fs.IntVar(&o.Width, "width", 640, "Frame width in pixels")
	fs.IntVar(&o.Height, "height", 480, "Frame height in pixels")
	fs.IntVar(&o.Every, "every", 1, "Console playback prints every Nth frame")
	fs.BoolVar(&o.Version, "version", false, "Print version and exit")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: player -file <archive.npz> [options]\n\nOptions:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  player -file g1/KIT/3/walk.npz -speed 0.5 -loop\n")
		fmt.Fprintf(stderr, "  player -file walk.npz -model g1.yaml -record -output out/walk.mp4\n")
	}
	err := fs.Parse(args)
	return o, fs, err
}

// deps are the seams run uses for time and for recording.
type deps struct {
	FS       fsutil.FileSystem
	Clock    timeutil.Clock
	Recorder *player.Recorder
}

func main() {
	opts, fs, err := parseFlags(os.Args[1:], os.Stderr)
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		os.Exit(2)
	}
	if opts.Version {
		fmt.Println(version.String("player"))
		return
	}

	cfg, err := config.Resolve(opts.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	d := deps{FS: fsutil.OSFileSystem{}, Clock: timeutil.RealClock{}, Recorder: player.NewRecorder()}
	if err := run(ctx, opts, cfg, d, os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			fs.Usage()
			os.Exit(1)
		}
		if errors.Is(err, context.Canceled) {
			return
		}
		log.Fatalf("player: %v", err)
	}
}

func run(ctx context.Context, o Options, cfg *config.Config, d deps, w io.Writer) error {
	if o.File == "" {
		return fmt.Errorf("%w: -file is required", errUsage)
	}
	rec, err := motion.Load(o.File)
	if err != nil {
		return err
	}
	model := player.GenericModel(rec.DOFs, rec.Bodies)
	if o.Model != "" {
		if model, err = player.LoadModel(o.Model); err != nil {
			return err
		}
	}

	switch o.Action {
	case "info":
		printInfo(w, rec, model)
		return nil
	case "play":
		return play(ctx, o, cfg, d, rec, model, w)
	}
	return fmt.Errorf("%w: unknown action %q", errUsage, o.Action)
}

func play(ctx context.Context, o Options, cfg *config.Config, d deps, rec *motion.Record, model *player.Model, w io.Writer) error {
	view, err := player.ParseView(o.View)
	if err != nil {
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	start, end, err := player.FrameRange(rec.Frames, o.StartFrame, o.EndFrame)
	if err != nil {
		return err
	}

	p := &player.Player{
		Record:   rec,
		Model:    model,
		Viewport: player.Viewport{Width: o.Width, Height: o.Height, CameraDistance: o.CameraDistance, View: view},
		Clock:    d.Clock,
		Options: player.Options{
			StartFrame: start,
			EndFrame:   end,
			Speed:      o.Speed,
			Loop:       o.Loop,
			Capture:    o.Record,
		},
	}

	var sinks []player.FrameSink
	if o.FramesDir != "" {
		sink, err := player.NewPNGDirSink(d.FS, o.FramesDir)
		if err != nil {
			return err
		}
		sinks = append(sinks, sink)
	}

	var recording *player.Recording
	if o.Record {
		if o.Speed <= 0 {
			return fmt.Errorf("%w: -speed must be positive", errUsage)
		}
		ro := player.RecordOptions{
			Output:      videoPath(o),
			FPS:         rec.FPS * o.Speed,
			Frames:      end - start,
			Width:       o.Width,
			Height:      o.Height,
			FFmpegPath:  cfg.GetFFmpegPath(),
			Codec:       cfg.GetVideoCodec(),
			FrameBudget: cfg.GetFrameBudgetBytes(),
			Margin:      cfg.GetDiskMarginBytes(),
		}
		session := player.Session{Source: o.File, StartFrame: start, EndFrame: end, Speed: o.Speed}
		if recording, err = d.Recorder.Start(ctx, ro, session); err != nil {
			for _, s := range sinks {
				s.Close()
			}
			return err
		}
		sinks = append(sinks, recording)
	}

	if len(sinks) > 0 {
		p.Renderer = &player.ImageRenderer{Sinks: sinks}
	} else {
		p.Renderer = &player.ConsoleRenderer{W: w, Every: o.Every}
	}

	stats, err := p.Play(ctx)
	monitoring.Logf("played frames [%d, %d) of %s: %d frames, %d passes", stats.Start, stats.End, rec.Name, stats.Frames, stats.Passes)
	if err != nil {
		return err
	}
	if recording != nil {
		s := recording.Session()
		fmt.Fprintf(w, "Recorded %d frames to %s (session %s)\n", s.Frames, s.Output, s.ID)
	}
	if o.FramesDir != "" {
		fmt.Fprintf(w, "Wrote %d frames to %s\n", stats.Frames, o.FramesDir)
	}
	return nil
}

// videoPath is -output, or recordings/<archive name>.mp4.
func videoPath(o Options) string {
	if o.Output != "" {
		return o.Output
	}
	base := strings.TrimSuffix(filepath.Base(o.File), filepath.Ext(o.File))
	return filepath.Join("recordings", security.SanitizeFilename(base)+".mp4")
}

func printInfo(w io.Writer, rec *motion.Record, m *player.Model) {
	fmt.Fprintf(w, "File:    %s\n", rec.Path)
	fmt.Fprintf(w, "FPS:     %g\n", rec.FPS)
	fmt.Fprintf(w, "Frames:  %d (%.2f s)\n", rec.Frames, rec.Duration())
	fmt.Fprintf(w, "Bodies:  %d\n", rec.Bodies)
	fmt.Fprintf(w, "DOFs:    %d\n", rec.DOFs)
	fmt.Fprintf(w, "Model:   %s (%d joints, %d bodies)\n", m.Name, len(m.Joints), len(m.Bodies))

	a := player.NewAdapter(rec.DOFs, m)
	switch {
	case a.Identity():
		fmt.Fprintln(w, "Joints:  identity mapping")
	default:
		mode := "by index"
		if a.ByName() {
			mode = "by name"
		}
		fmt.Fprintf(w, "Joints:  mapped %s, %d defaulted, %d dropped\n", mode, len(a.Missing()), a.Dropped())
		if len(a.Missing()) > 0 {
			fmt.Fprintf(w, "Defaulted: %s\n", strings.Join(a.Missing(), ", "))
		}
	}
}
