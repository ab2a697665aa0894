package config_test

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rohmanhakim/astar-state/internal/config"
	"github.com/rohmanhakim/astar-state/pkg/hashutil"
)

func TestWithDefault(t *testing.T) {
	cfg := config.WithDefault()

	if cfg == nil {
		t.Fatal("WithDefault() returned nil")
	}

	builtCfg, err := cfg.Build()
	if err != nil {
		t.Fatalf("should not have any error, got %v", err)
	}

	if builtCfg.GridWidth() != 32 {
		t.Errorf("expected GridWidth 32, got %d", builtCfg.GridWidth())
	}
	if builtCfg.GridHeight() != 32 {
		t.Errorf("expected GridHeight 32, got %d", builtCfg.GridHeight())
	}
	if builtCfg.MaxSteps() != 0 {
		t.Errorf("expected MaxSteps 0, got %d", builtCfg.MaxSteps())
	}
	if builtCfg.ContinueOnError() {
		t.Error("expected ContinueOnError false")
	}
	if builtCfg.HashAlgo() != hashutil.HashAlgoBLAKE3 {
		t.Errorf("expected HashAlgo blake3, got %s", builtCfg.HashAlgo())
	}
	if builtCfg.LogLevel() != "info" {
		t.Errorf("expected LogLevel info, got %s", builtCfg.LogLevel())
	}
	if builtCfg.LogFormat() != config.LogFormatText {
		t.Errorf("expected LogFormat text, got %s", builtCfg.LogFormat())
	}
	if builtCfg.Metrics() {
		t.Error("expected Metrics false")
	}
	if builtCfg.SnapshotDir() != "" {
		t.Errorf("expected empty SnapshotDir, got %s", builtCfg.SnapshotDir())
	}
	if builtCfg.WriteAttempts() != 3 {
		t.Errorf("expected WriteAttempts 3, got %d", builtCfg.WriteAttempts())
	}
	if builtCfg.BackoffInitialDuration() != 100*time.Millisecond {
		t.Errorf("expected BackoffInitialDuration 100ms, got %v", builtCfg.BackoffInitialDuration())
	}
	if builtCfg.BackoffMultiplier() != 2.0 {
		t.Errorf("expected BackoffMultiplier 2.0, got %f", builtCfg.BackoffMultiplier())
	}
	if builtCfg.BackoffMaxDuration() != 2*time.Second {
		t.Errorf("expected BackoffMaxDuration 2s, got %v", builtCfg.BackoffMaxDuration())
	}
}

func TestWithChain(t *testing.T) {
	cfg, err := config.WithDefault().
		WithGridWidth(10).
		WithGridHeight(20).
		WithMaxSteps(500).
		WithContinueOnError(true).
		WithHashAlgo(hashutil.HashAlgoSHA256).
		WithLogLevel("debug").
		WithLogFormat(config.LogFormatJSON).
		WithMetrics(true).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GridWidth() != 10 || cfg.GridHeight() != 20 {
		t.Errorf("expected 10x20 grid, got %dx%d", cfg.GridWidth(), cfg.GridHeight())
	}
	if cfg.MaxSteps() != 500 {
		t.Errorf("expected MaxSteps 500, got %d", cfg.MaxSteps())
	}
	if !cfg.ContinueOnError() {
		t.Error("expected ContinueOnError true")
	}
	if cfg.HashAlgo() != hashutil.HashAlgoSHA256 {
		t.Errorf("expected HashAlgo sha256, got %s", cfg.HashAlgo())
	}
	if cfg.SlogLevel() != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", cfg.SlogLevel())
	}
	if cfg.LogFormat() != config.LogFormatJSON {
		t.Errorf("expected LogFormat json, got %s", cfg.LogFormat())
	}
	if !cfg.Metrics() {
		t.Error("expected Metrics true")
	}
}

func TestBuild_Invalid(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
	}{
		{"zero width", config.WithDefault().WithGridWidth(0)},
		{"negative height", config.WithDefault().WithGridHeight(-3)},
		{"negative max steps", config.WithDefault().WithMaxSteps(-1)},
		{"unknown hash", config.WithDefault().WithHashAlgo("md5")},
		{"unknown level", config.WithDefault().WithLogLevel("trace")},
		{"unknown format", config.WithDefault().WithLogFormat("xml")},
		{"zero write attempts", config.WithDefault().WithWriteAttempts(0)},
		{"shrinking backoff", config.WithDefault().WithBackoffMultiplier(0.5)},
		{"max below initial backoff", config.WithDefault().WithBackoffMaxDuration(time.Millisecond)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.cfg.Build()
			if !errors.Is(err, config.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestBuild_ReturnsValue(t *testing.T) {
	original := config.WithDefault()
	built, err := original.Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	original.WithGridWidth(99)
	if built.GridWidth() != 32 {
		t.Error("Build() appears to return reference, not value")
	}
}

func TestSlogLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	}
	for name, want := range tests {
		cfg, err := config.WithDefault().WithLogLevel(name).Build()
		if err != nil {
			t.Fatalf("unexpected error for %s: %v", name, err)
		}
		if cfg.SlogLevel() != want {
			t.Errorf("level %s: expected %v, got %v", name, want, cfg.SlogLevel())
		}
	}
}

func writeConfig(t *testing.T, name string, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestWithConfigFile_FileDoesNotExist(t *testing.T) {
	_, err := config.WithConfigFile("/nonexistent/path/config.json")

	if !errors.Is(err, config.ErrFileDoesNotExist) {
		t.Errorf("expected ErrFileDoesNotExist, got: %v", err)
	}
}

func TestWithConfigFile_InvalidJSON(t *testing.T) {
	path := writeConfig(t, "invalid.json", "{invalid json content}")

	_, err := config.WithConfigFile(path)
	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail, got: %v", err)
	}
}

func TestWithConfigFile_InvalidYAML(t *testing.T) {
	path := writeConfig(t, "invalid.yaml", "gridWidth: [1, 2")

	_, err := config.WithConfigFile(path)
	if !errors.Is(err, config.ErrConfigParsingFail) {
		t.Errorf("expected ErrConfigParsingFail, got: %v", err)
	}
}

func TestWithConfigFile_UnsupportedExtension(t *testing.T) {
	path := writeConfig(t, "config.toml", "gridWidth = 4")

	_, err := config.WithConfigFile(path)
	if !errors.Is(err, config.ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got: %v", err)
	}
}

func TestWithConfigFile_CompleteJSON(t *testing.T) {
	path := writeConfig(t, "config.json", `{
		"gridWidth": 64,
		"gridHeight": 48,
		"maxSteps": 1000,
		"continueOnError": true,
		"hashAlgo": "sha256",
		"logLevel": "warn",
		"logFormat": "json",
		"metrics": true
	}`)

	cfg, err := config.WithConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error loading valid config: %v", err)
	}

	if cfg.GridWidth() != 64 || cfg.GridHeight() != 48 {
		t.Errorf("expected 64x48 grid, got %dx%d", cfg.GridWidth(), cfg.GridHeight())
	}
	if cfg.MaxSteps() != 1000 {
		t.Errorf("expected MaxSteps 1000, got %d", cfg.MaxSteps())
	}
	if !cfg.ContinueOnError() {
		t.Error("expected ContinueOnError true")
	}
	if cfg.HashAlgo() != hashutil.HashAlgoSHA256 {
		t.Errorf("expected sha256, got %s", cfg.HashAlgo())
	}
	if cfg.LogLevel() != "warn" {
		t.Errorf("expected warn, got %s", cfg.LogLevel())
	}
	if cfg.LogFormat() != config.LogFormatJSON {
		t.Errorf("expected json, got %s", cfg.LogFormat())
	}
	if !cfg.Metrics() {
		t.Error("expected Metrics true")
	}
}

func TestWithConfigFile_PartialYAML(t *testing.T) {
	path := writeConfig(t, "config.yml", "gridWidth: 5\nmaxSteps: 7\n")

	cfg, err := config.WithConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.GridWidth() != 5 {
		t.Errorf("expected GridWidth 5, got %d", cfg.GridWidth())
	}
	if cfg.MaxSteps() != 7 {
		t.Errorf("expected MaxSteps 7, got %d", cfg.MaxSteps())
	}
	// untouched fields keep defaults
	if cfg.GridHeight() != 32 {
		t.Errorf("expected default GridHeight 32, got %d", cfg.GridHeight())
	}
	if cfg.HashAlgo() != hashutil.HashAlgoBLAKE3 {
		t.Errorf("expected default blake3, got %s", cfg.HashAlgo())
	}
}

func TestWithConfigFile_EmptyJSON(t *testing.T) {
	path := writeConfig(t, "empty.json", "{}")

	cfg, err := config.WithConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.GridWidth() != 32 || cfg.LogLevel() != "info" {
		t.Errorf("expected defaults, got width %d level %s", cfg.GridWidth(), cfg.LogLevel())
	}
}

func TestWithConfigFile_InvalidValues(t *testing.T) {
	path := writeConfig(t, "bad.yaml", "hashAlgo: md5\n")

	_, err := config.WithConfigFile(path)
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got: %v", err)
	}
}

func TestWithConfigFile_SnapshotYAML(t *testing.T) {
	path := writeConfig(t, "snapshot.yaml", `snapshotDir: out/states
writeAttempts: 5
backoffInitialDuration: 250ms
backoffMultiplier: 1.5
backoffMaxDuration: 4s
`)

	cfg, err := config.WithConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.SnapshotDir() != "out/states" {
		t.Errorf("expected SnapshotDir out/states, got %s", cfg.SnapshotDir())
	}
	if cfg.WriteAttempts() != 5 {
		t.Errorf("expected WriteAttempts 5, got %d", cfg.WriteAttempts())
	}
	if cfg.BackoffInitialDuration() != 250*time.Millisecond {
		t.Errorf("expected BackoffInitialDuration 250ms, got %v", cfg.BackoffInitialDuration())
	}
	if cfg.BackoffMultiplier() != 1.5 {
		t.Errorf("expected BackoffMultiplier 1.5, got %f", cfg.BackoffMultiplier())
	}
	if cfg.BackoffMaxDuration() != 4*time.Second {
		t.Errorf("expected BackoffMaxDuration 4s, got %v", cfg.BackoffMaxDuration())
	}
}
