package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/banshee-data/motion.report/internal/fsutil"
	"github.com/banshee-data/motion.report/internal/monitoring"
)

var (
	// ErrBadOutputPath is returned for an unsupported video extension or an
	// output directory that cannot be created.
	ErrBadOutputPath = errors.New("bad output path")
	// ErrInsufficientDisk is returned when the volume cannot hold the
	// estimated recording.
	ErrInsufficientDisk = errors.New("insufficient disk space")
)

// VideoExts are the accepted recording containers.
var VideoExts = []string{".mp4", ".mov", ".mkv", ".avi"}

// RecordOptions configures a recording.
type RecordOptions struct {
	Output string
	FPS    float64
	Frames int
	Width  int
	Height int

	FFmpegPath  string
	Codec       string
	FrameBudget int64 // estimated encoded bytes per frame
	Margin      int64 // free bytes to leave on the volume
}

// Estimate is the number of bytes the preflight requires to be free.
func (o RecordOptions) Estimate() uint64 {
	return uint64(int64(o.Frames)*o.FrameBudget + o.Margin)
}

// Encoder receives PNG-encoded frames and produces the video file.
type Encoder interface {
	io.WriteCloser
}

// Session is the JSON sidecar written next to a recording.
type Session struct {
	ID         string    `json:"session_id"`
	Source     string    `json:"source"`
	Output     string    `json:"output"`
	StartFrame int       `json:"start_frame"`
	EndFrame   int       `json:"end_frame"`
	Speed      float64   `json:"speed"`
	FPS        float64   `json:"fps"`
	Frames     int       `json:"frames_written"`
	Started    time.Time `json:"started"`
	Finished   time.Time `json:"finished"`
	Error      string    `json:"error,omitempty"`
}

// Recorder checks recording preconditions and starts encoder sessions.
type Recorder struct {
	FS       fsutil.FileSystem
	LookPath func(file string) (string, error)
	// NewEncoder starts the encoder; nil uses the ffmpeg subprocess.
	NewEncoder func(ctx context.Context, o RecordOptions) (Encoder, error)
	Now        func() time.Time
}

// NewRecorder returns a Recorder over the real filesystem and ffmpeg.
func NewRecorder() *Recorder {
	return &Recorder{FS: fsutil.OSFileSystem{}, LookPath: exec.LookPath, Now: time.Now}
}

// Preflight validates the output path, creates its directory, checks free
// disk space against the estimate and locates ffmpeg. Platforms that cannot
// report free space skip that check.
func (r *Recorder) Preflight(o RecordOptions) error {
	ext := strings.ToLower(filepath.Ext(o.Output))
	ok := false
	for _, e := range VideoExts {
		ok = ok || ext == e
	}
	if !ok {
		return fmt.Errorf("%w: %q: extension must be one of %s", ErrBadOutputPath, o.Output, strings.Join(VideoExts, ", "))
	}

	dir := filepath.Dir(o.Output)
	if err := r.FS.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrBadOutputPath, dir, err)
	}

	free, err := r.FS.FreeBytes(dir)
	switch {
	case errors.Is(err, errors.ErrUnsupported):
		monitoring.Warnf("cannot determine free space in %s; skipping disk check", dir)
	case err != nil:
		return fmt.Errorf("check free space in %s: %w", dir, err)
	case free < o.Estimate():
		return fmt.Errorf("%w: %s has %d bytes free, recording needs about %d", ErrInsufficientDisk, dir, free, o.Estimate())
	}

	if r.NewEncoder == nil {
		if _, err := r.LookPath(o.FFmpegPath); err != nil {
			return fmt.Errorf("ffmpeg not found (%s): %w", o.FFmpegPath, err)
		}
	}
	return nil
}

// Start runs Preflight, starts the encoder and returns a FrameSink that
// feeds it. Closing the sink finishes the video and writes the sidecar.
func (r *Recorder) Start(ctx context.Context, o RecordOptions, s Session) (*Recording, error) {
	if err := r.Preflight(o); err != nil {
		return nil, err
	}
	newEnc := r.NewEncoder
	if newEnc == nil {
		newEnc = startFFmpeg
	}
	enc, err := newEnc(ctx, o)
	if err != nil {
		return nil, fmt.Errorf("start encoder: %w", err)
	}

	s.ID = uuid.NewString()
	s.Output = o.Output
	s.FPS = o.FPS
	s.Started = r.Now()
	monitoring.Logf("recording session %s: %d frames to %s", s.ID, o.Frames, o.Output)
	return &Recording{rec: r, enc: enc, session: s}, nil
}

// Recording is an active encoder session.
type Recording struct {
	rec     *Recorder
	enc     Encoder
	session Session
	err     error
	closed  bool
}

// Session returns the session metadata collected so far.
func (r *Recording) Session() Session { return r.session }

// WriteFrame PNG-encodes img into the encoder.
func (r *Recording) WriteFrame(_ int, img image.Image) error {
	if err := png.Encode(r.enc, img); err != nil {
		r.err = fmt.Errorf("encode frame: %w", err)
		return r.err
	}
	r.session.Frames++
	return nil
}

// Close finishes the encoder and writes the sidecar. It is safe to call
// more than once.
func (r *Recording) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true

	err := r.enc.Close()
	if err == nil {
		err = r.err
	}
	r.session.Finished = r.rec.Now()
	if err != nil {
		r.session.Error = err.Error()
	}

	data, jerr := json.MarshalIndent(r.session, "", "  ")
	if jerr == nil {
		jerr = r.rec.FS.WriteFile(SidecarPath(r.session.Output), data, 0644)
	}
	monitoring.Logf("recording session %s finished: %d frames", r.session.ID, r.session.Frames)
	return errors.Join(err, jerr)
}

// SidecarPath returns the JSON sidecar path for a video output.
func SidecarPath(output string) string {
	return output + ".json"
}

// ffmpegArgs builds the image2pipe command line: PNG frames on stdin,
// even-sized yuv420p output.
func ffmpegArgs(o RecordOptions) []string {
	codec := o.Codec
	if codec == "" {
		codec = "libx264"
	}
	return []string{
		"-y", "-loglevel", "error",
		"-f", "image2pipe",
		"-c:v", "png",
		"-framerate", strconv.FormatFloat(o.FPS, 'f', -1, 64),
		"-i", "-",
		"-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2",
		"-c:v", codec,
		"-pix_fmt", "yuv420p",
		o.Output,
	}
}

type ffmpegEncoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stderr *strings.Builder
}

func startFFmpeg(ctx context.Context, o RecordOptions) (Encoder, error) {
	cmd := exec.CommandContext(ctx, o.FFmpegPath, ffmpegArgs(o)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, err
	}
	var stderr strings.Builder
	cmd.Stderr = &stderr
	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return &ffmpegEncoder{cmd: cmd, stdin: stdin, stderr: &stderr}, nil
}

func (e *ffmpegEncoder) Write(p []byte) (int, error) {
	return e.stdin.Write(p)
}

func (e *ffmpegEncoder) Close() error {
	cerr := e.stdin.Close()
	if err := e.cmd.Wait(); err != nil {
		return fmt.Errorf("ffmpeg failed: %v\n%s", err, e.stderr.String())
	}
	return cerr
}
