package config

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	empty := EmptyConfig()

	// Getters on the populated defaults must agree with the nil fallbacks.
	assert.Equal(t, empty.GetDataRoot(), cfg.GetDataRoot())
	assert.Equal(t, empty.GetAssumedFPS(), cfg.GetAssumedFPS())
	assert.Equal(t, empty.GetExploreSubjects(), cfg.GetExploreSubjects())
	assert.Equal(t, empty.GetListSubjects(), cfg.GetListSubjects())
	assert.Equal(t, empty.GetPreviewFrames(), cfg.GetPreviewFrames())
	assert.Equal(t, empty.GetSampleDatasets(), cfg.GetSampleDatasets())
	assert.Equal(t, empty.GetOverviewSample(), cfg.GetOverviewSample())
	assert.Equal(t, empty.GetSearchLimit(), cfg.GetSearchLimit())
	assert.Equal(t, empty.GetDOFLimit(), cfg.GetDOFLimit())
	assert.Equal(t, empty.GetFrameBudgetBytes(), cfg.GetFrameBudgetBytes())
	assert.Equal(t, empty.GetDiskMarginBytes(), cfg.GetDiskMarginBytes())
	assert.Equal(t, empty.GetFFmpegPath(), cfg.GetFFmpegPath())
	assert.Equal(t, empty.GetVideoCodec(), cfg.GetVideoCodec())

	assert.Equal(t, "g1", cfg.GetDataRoot())
	assert.Equal(t, 120.0, cfg.GetAssumedFPS())
	assert.Equal(t, math.Pi, cfg.GetDOFLimit())
	require.NoError(t, cfg.Validate())
}

func TestLoadConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "explorer.json")

	testJSON := `{
  "data_root": "/data/g1",
  "assumed_fps": 60,
  "search_limit": 5,
  "ffmpeg_path": "/usr/local/bin/ffmpeg"
}`
	require.NoError(t, os.WriteFile(configPath, []byte(testJSON), 0644))

	cfg, err := LoadConfig(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/data/g1", cfg.GetDataRoot())
	assert.Equal(t, 60.0, cfg.GetAssumedFPS())
	assert.Equal(t, 5, cfg.GetSearchLimit())
	assert.Equal(t, "/usr/local/bin/ffmpeg", cfg.GetFFmpegPath())

	// Omitted fields keep their defaults.
	assert.Equal(t, 10, cfg.GetPreviewFrames())
	assert.Equal(t, "libx264", cfg.GetVideoCodec())
}

func TestLoadConfig_Errors(t *testing.T) {
	tmpDir := t.TempDir()

	t.Run("wrong extension", func(t *testing.T) {
		path := filepath.Join(tmpDir, "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, ".json extension")
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(tmpDir, "missing.json"))
		assert.ErrorContains(t, err, "failed to stat")
	})

	t.Run("bad json", func(t *testing.T) {
		path := filepath.Join(tmpDir, "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{"), 0644))
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "failed to parse")
	})

	t.Run("invalid value", func(t *testing.T) {
		path := filepath.Join(tmpDir, "invalid.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"assumed_fps": 0}`), 0644))
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "assumed_fps must be positive")
	})

	t.Run("too large", func(t *testing.T) {
		path := filepath.Join(tmpDir, "large.json")
		big := make([]byte, 1024*1024+1)
		for i := range big {
			big[i] = ' '
		}
		require.NoError(t, os.WriteFile(path, big, 0644))
		_, err := LoadConfig(path)
		assert.ErrorContains(t, err, "too large")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *Config
		wantErr string
	}{
		{"empty is valid", EmptyConfig(), ""},
		{"negative dof limit", &Config{DOFLimit: ptrFloat64(-1)}, "dof_limit"},
		{"zero preview frames", &Config{PreviewFrames: ptrInt(0)}, "preview_frames"},
		{"zero frame budget", &Config{FrameBudgetBytes: ptrInt64(0)}, "frame_budget_bytes"},
		{"negative disk margin", &Config{DiskMarginBytes: ptrInt64(-5)}, "disk_margin_bytes"},
		{"zero disk margin ok", &Config{DiskMarginBytes: ptrInt64(0)}, ""},
		{"empty ffmpeg path", &Config{FFmpegPath: ptrString("")}, "ffmpeg_path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestResolve_EmptyPathWithoutDefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	defer os.Chdir(wd)

	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "g1", cfg.GetDataRoot())
}

func TestResolve_DefaultFile(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	dir := t.TempDir()
	require.NoError(t, os.Chdir(dir))
	defer os.Chdir(wd)

	require.NoError(t, os.MkdirAll("config", 0755))
	require.NoError(t, os.WriteFile(DefaultConfigPath, []byte(`{"data_root": "mocap"}`), 0644))

	cfg, err := Resolve("")
	require.NoError(t, err)
	assert.Equal(t, "mocap", cfg.GetDataRoot())
}
