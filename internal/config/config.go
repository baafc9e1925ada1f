package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
)

// DefaultConfigPath is where the tools look for an explorer config when
// -config is not given. A missing file at this path is not an error.
const DefaultConfigPath = "config/explorer.json"

// Config holds the knobs shared by the explorer, quickview, actions and player
// tools. Every field is optional; the Get* accessors supply defaults, so a
// partial file is safe. Command-line flags override what is loaded here.
type Config struct {
	// Dataset layout
	DataRoot   *string  `json:"data_root,omitempty"`
	AssumedFPS *float64 `json:"assumed_fps,omitempty"`

	// Report sizes
	ExploreSubjects *int `json:"explore_subjects,omitempty"`
	ListSubjects    *int `json:"list_subjects,omitempty"`
	PreviewFrames   *int `json:"preview_frames,omitempty"`
	SampleDatasets  *int `json:"sample_datasets,omitempty"`
	OverviewSample  *int `json:"overview_sample,omitempty"`
	SearchLimit     *int `json:"search_limit,omitempty"`

	// Range check on dof_positions, radians
	DOFLimit *float64 `json:"dof_limit,omitempty"`

	// Recording
	FrameBudgetBytes *int64  `json:"frame_budget_bytes,omitempty"`
	DiskMarginBytes  *int64  `json:"disk_margin_bytes,omitempty"`
	FFmpegPath       *string `json:"ffmpeg_path,omitempty"`
	VideoCodec       *string `json:"video_codec,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// EmptyConfig returns a Config with all fields set to nil.
func EmptyConfig() *Config {
	return &Config{}
}

// DefaultConfig returns a Config with every field populated with its default.
func DefaultConfig() *Config {
	return &Config{
		DataRoot:         ptrString("g1"),
		AssumedFPS:       ptrFloat64(120),
		ExploreSubjects:  ptrInt(5),
		ListSubjects:     ptrInt(10),
		PreviewFrames:    ptrInt(10),
		SampleDatasets:   ptrInt(3),
		OverviewSample:   ptrInt(10),
		SearchLimit:      ptrInt(20),
		DOFLimit:         ptrFloat64(math.Pi),
		FrameBudgetBytes: ptrInt64(256 * 1024),
		DiskMarginBytes:  ptrInt64(100 * 1024 * 1024),
		FFmpegPath:       ptrString("ffmpeg"),
		VideoCodec:       ptrString("libx264"),
	}
}

// LoadConfig loads a Config from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
func LoadConfig(path string) (*Config, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Resolve loads path when set. With an empty path it tries DefaultConfigPath
// and falls back to an empty config when that file does not exist.
func Resolve(path string) (*Config, error) {
	if path != "" {
		return LoadConfig(path)
	}
	if _, err := os.Stat(DefaultConfigPath); err != nil {
		return EmptyConfig(), nil
	}
	return LoadConfig(DefaultConfigPath)
}

// Validate checks that the configuration values are valid.
func (c *Config) Validate() error {
	if c.AssumedFPS != nil && *c.AssumedFPS <= 0 {
		return fmt.Errorf("assumed_fps must be positive, got %f", *c.AssumedFPS)
	}
	if c.DOFLimit != nil && *c.DOFLimit <= 0 {
		return fmt.Errorf("dof_limit must be positive, got %f", *c.DOFLimit)
	}

	counts := map[string]*int{
		"explore_subjects": c.ExploreSubjects,
		"list_subjects":    c.ListSubjects,
		"preview_frames":   c.PreviewFrames,
		"sample_datasets":  c.SampleDatasets,
		"overview_sample":  c.OverviewSample,
		"search_limit":     c.SearchLimit,
	}
	for name, v := range counts {
		if v != nil && *v <= 0 {
			return fmt.Errorf("%s must be positive, got %d", name, *v)
		}
	}

	if c.FrameBudgetBytes != nil && *c.FrameBudgetBytes <= 0 {
		return fmt.Errorf("frame_budget_bytes must be positive, got %d", *c.FrameBudgetBytes)
	}
	if c.DiskMarginBytes != nil && *c.DiskMarginBytes < 0 {
		return fmt.Errorf("disk_margin_bytes must be non-negative, got %d", *c.DiskMarginBytes)
	}
	if c.FFmpegPath != nil && *c.FFmpegPath == "" {
		return fmt.Errorf("ffmpeg_path must not be empty")
	}

	return nil
}

// GetDataRoot returns the data_root value or the default.
func (c *Config) GetDataRoot() string {
	if c.DataRoot == nil || *c.DataRoot == "" {
		return "g1"
	}
	return *c.DataRoot
}

// GetAssumedFPS returns the frame rate used for whole-corpus duration estimates.
func (c *Config) GetAssumedFPS() float64 {
	if c.AssumedFPS == nil {
		return 120
	}
	return *c.AssumedFPS
}

// GetExploreSubjects returns how many subjects the explore report shows.
func (c *Config) GetExploreSubjects() int {
	if c.ExploreSubjects == nil {
		return 5
	}
	return *c.ExploreSubjects
}

// GetListSubjects returns how many subjects the list report shows.
func (c *Config) GetListSubjects() int {
	if c.ListSubjects == nil {
		return 10
	}
	return *c.ListSubjects
}

// GetPreviewFrames returns the preview_frames value or the default.
func (c *Config) GetPreviewFrames() int {
	if c.PreviewFrames == nil {
		return 10
	}
	return *c.PreviewFrames
}

// GetSampleDatasets returns the sample_datasets value or the default.
func (c *Config) GetSampleDatasets() int {
	if c.SampleDatasets == nil {
		return 3
	}
	return *c.SampleDatasets
}

// GetOverviewSample returns how many files per dataset the action overview inspects.
func (c *Config) GetOverviewSample() int {
	if c.OverviewSample == nil {
		return 10
	}
	return *c.OverviewSample
}

// GetSearchLimit returns the search_limit value or the default.
func (c *Config) GetSearchLimit() int {
	if c.SearchLimit == nil {
		return 20
	}
	return *c.SearchLimit
}

// GetDOFLimit returns the dof_limit value or the default (pi).
func (c *Config) GetDOFLimit() float64 {
	if c.DOFLimit == nil {
		return math.Pi
	}
	return *c.DOFLimit
}

// GetFrameBudgetBytes returns the per-frame disk estimate used before recording.
func (c *Config) GetFrameBudgetBytes() int64 {
	if c.FrameBudgetBytes == nil {
		return 256 * 1024
	}
	return *c.FrameBudgetBytes
}

// GetDiskMarginBytes returns the disk_margin_bytes value or the default.
func (c *Config) GetDiskMarginBytes() int64 {
	if c.DiskMarginBytes == nil {
		return 100 * 1024 * 1024
	}
	return *c.DiskMarginBytes
}

// GetFFmpegPath returns the ffmpeg_path value or the default.
func (c *Config) GetFFmpegPath() string {
	if c.FFmpegPath == nil {
		return "ffmpeg"
	}
	return *c.FFmpegPath
}

// GetVideoCodec returns the video_codec value or the default.
func (c *Config) GetVideoCodec() string {
	if c.VideoCodec == nil || *c.VideoCodec == "" {
		return "libx264"
	}
	return *c.VideoCodec
}
