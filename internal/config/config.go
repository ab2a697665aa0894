package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rohmanhakim/astar-state/pkg/fileutil"
	"github.com/rohmanhakim/astar-state/pkg/hashutil"
	"gopkg.in/yaml.v3"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

type Config struct {
	//===============
	// Grid
	//===============
	// Number of columns of the grid every replayed location must fall in
	gridWidth int
	// Number of rows of the grid every replayed location must fall in
	gridHeight int

	//===============
	// Replay
	//===============
	// Maximum number of trace ops applied. 0 means unlimited
	maxSteps int
	// Keep applying ops after one failed instead of stopping
	continueOnError bool
	// Algorithm used for the final state digest
	hashAlgo hashutil.HashAlgo

	//===============
	// Output
	//===============
	// One of debug, info, warn, error
	logLevel string
	// text or json
	logFormat string
	// Dump prometheus metrics after the replay
	metrics bool

	//===============
	// Snapshot
	//===============
	// Directory the final state snapshot is written to. Empty disables it
	snapshotDir string
	// Maximum attempts for a snapshot write that fails with a retryable error
	writeAttempts int
	// Initial delay for backoff
	backoffInitialDuration time.Duration
	// Multiplier during exponential backoff
	backoffMultiplier float64
	// Capped maximum delay for backoff to stop exponential multiplication
	backoffMaxDuration time.Duration
}

// configRules mirrors Config with exported fields so the validator can
// see them.
type configRules struct {
	GridWidth  int    `validate:"gt=0"`
	GridHeight int    `validate:"gt=0"`
	MaxSteps   int    `validate:"gte=0"`
	HashAlgo   string `validate:"oneof=sha256 blake3"`
	LogLevel   string `validate:"oneof=debug info warn error"`
	LogFormat  string `validate:"oneof=text json"`

	WriteAttempts          int           `validate:"gte=1"`
	BackoffInitialDuration time.Duration `validate:"gte=0"`
	BackoffMultiplier      float64       `validate:"gte=1"`
	BackoffMaxDuration     time.Duration `validate:"gtefield=BackoffInitialDuration"`
}

var configValidate = validator.New()

type configDTO struct {
	GridWidth       int    `json:"gridWidth,omitempty" yaml:"gridWidth,omitempty"`
	GridHeight      int    `json:"gridHeight,omitempty" yaml:"gridHeight,omitempty"`
	MaxSteps        int    `json:"maxSteps,omitempty" yaml:"maxSteps,omitempty"`
	ContinueOnError bool   `json:"continueOnError,omitempty" yaml:"continueOnError,omitempty"`
	HashAlgo        string `json:"hashAlgo,omitempty" yaml:"hashAlgo,omitempty"`
	LogLevel        string `json:"logLevel,omitempty" yaml:"logLevel,omitempty"`
	LogFormat       string `json:"logFormat,omitempty" yaml:"logFormat,omitempty"`
	Metrics         bool   `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	SnapshotDir            string        `json:"snapshotDir,omitempty" yaml:"snapshotDir,omitempty"`
	WriteAttempts          int           `json:"writeAttempts,omitempty" yaml:"writeAttempts,omitempty"`
	BackoffInitialDuration time.Duration `json:"backoffInitialDuration,omitempty" yaml:"backoffInitialDuration,omitempty"`
	BackoffMultiplier      float64       `json:"backoffMultiplier,omitempty" yaml:"backoffMultiplier,omitempty"`
	BackoffMaxDuration     time.Duration `json:"backoffMaxDuration,omitempty" yaml:"backoffMaxDuration,omitempty"`
}

func newConfigFromDTO(dto configDTO) (Config, error) {
	cfg := WithDefault()

	// Only override if non-zero value is provided
	if dto.GridWidth != 0 {
		cfg.gridWidth = dto.GridWidth
	}
	if dto.GridHeight != 0 {
		cfg.gridHeight = dto.GridHeight
	}
	if dto.MaxSteps != 0 {
		cfg.maxSteps = dto.MaxSteps
	}
	if dto.HashAlgo != "" {
		cfg.hashAlgo = hashutil.HashAlgo(dto.HashAlgo)
	}
	if dto.LogLevel != "" {
		cfg.logLevel = dto.LogLevel
	}
	if dto.LogFormat != "" {
		cfg.logFormat = dto.LogFormat
	}
	if dto.SnapshotDir != "" {
		cfg.snapshotDir = dto.SnapshotDir
	}
	if dto.WriteAttempts != 0 {
		cfg.writeAttempts = dto.WriteAttempts
	}
	if dto.BackoffInitialDuration != 0 {
		cfg.backoffInitialDuration = dto.BackoffInitialDuration
	}
	if dto.BackoffMultiplier != 0 {
		cfg.backoffMultiplier = dto.BackoffMultiplier
	}
	if dto.BackoffMaxDuration != 0 {
		cfg.backoffMaxDuration = dto.BackoffMaxDuration
	}
	// Booleans default to false, so the DTO value is used as-is
	cfg.continueOnError = dto.ContinueOnError
	cfg.metrics = dto.Metrics

	return cfg.Build()
}

// WithConfigFile loads a JSON or YAML config file, picked by extension.
// Fields missing from the file keep their default values.
func WithConfigFile(path string) (Config, error) {
	_, err := os.Stat(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrFileDoesNotExist, err.Error())
	}
	configContent, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrReadConfigFail, err.Error())
	}
	cfgDTO := configDTO{}

	switch ext := fileutil.GetFileExtension(path); ext {
	case "json":
		err = json.Unmarshal(configContent, &cfgDTO)
	case "yaml", "yml":
		err = yaml.Unmarshal(configContent, &cfgDTO)
	default:
		return Config{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
	if err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrConfigParsingFail, err.Error())
	}

	return newConfigFromDTO(cfgDTO)
}

// WithDefault creates a new Config with default values for all fields.
func WithDefault() *Config {
	defaultConfig := Config{
		gridWidth:       32,
		gridHeight:      32,
		maxSteps:        0,
		continueOnError: false,
		hashAlgo:        hashutil.HashAlgoBLAKE3,
		logLevel:        "info",
		logFormat:       LogFormatText,
		metrics:         false,

		snapshotDir:            "",
		writeAttempts:          3,
		backoffInitialDuration: 100 * time.Millisecond,
		backoffMultiplier:      2.0,
		backoffMaxDuration:     2 * time.Second,
	}
	return &defaultConfig
}

func (c *Config) WithGridWidth(width int) *Config {
	c.gridWidth = width
	return c
}

func (c *Config) WithGridHeight(height int) *Config {
	c.gridHeight = height
	return c
}

func (c *Config) WithMaxSteps(steps int) *Config {
	c.maxSteps = steps
	return c
}

func (c *Config) WithContinueOnError(continueOnError bool) *Config {
	c.continueOnError = continueOnError
	return c
}

func (c *Config) WithHashAlgo(algo hashutil.HashAlgo) *Config {
	c.hashAlgo = algo
	return c
}

func (c *Config) WithLogLevel(level string) *Config {
	c.logLevel = level
	return c
}

func (c *Config) WithLogFormat(format string) *Config {
	c.logFormat = format
	return c
}

func (c *Config) WithMetrics(metrics bool) *Config {
	c.metrics = metrics
	return c
}

func (c *Config) WithSnapshotDir(dir string) *Config {
	c.snapshotDir = dir
	return c
}

func (c *Config) WithWriteAttempts(attempts int) *Config {
	c.writeAttempts = attempts
	return c
}

func (c *Config) WithBackoffInitialDuration(duration time.Duration) *Config {
	c.backoffInitialDuration = duration
	return c
}

func (c *Config) WithBackoffMultiplier(multiplier float64) *Config {
	c.backoffMultiplier = multiplier
	return c
}

func (c *Config) WithBackoffMaxDuration(duration time.Duration) *Config {
	c.backoffMaxDuration = duration
	return c
}

// Build validates the config and returns a copy of it.
func (c *Config) Build() (Config, error) {
	rules := configRules{
		GridWidth:  c.gridWidth,
		GridHeight: c.gridHeight,
		MaxSteps:   c.maxSteps,
		HashAlgo:   string(c.hashAlgo),
		LogLevel:   c.logLevel,
		LogFormat:  c.logFormat,

		WriteAttempts:          c.writeAttempts,
		BackoffInitialDuration: c.backoffInitialDuration,
		BackoffMultiplier:      c.backoffMultiplier,
		BackoffMaxDuration:     c.backoffMaxDuration,
	}
	if err := configValidate.Struct(rules); err != nil {
		return Config{}, fmt.Errorf("%w: %s", ErrInvalidConfig, err.Error())
	}
	return *c, nil
}

func (c Config) GridWidth() int {
	return c.gridWidth
}

func (c Config) GridHeight() int {
	return c.gridHeight
}

func (c Config) MaxSteps() int {
	return c.maxSteps
}

func (c Config) ContinueOnError() bool {
	return c.continueOnError
}

func (c Config) HashAlgo() hashutil.HashAlgo {
	return c.hashAlgo
}

func (c Config) LogLevel() string {
	return c.logLevel
}

// SlogLevel maps the configured level name onto slog. Unknown names fall
// back to info; Build rejects them anyway.
func (c Config) SlogLevel() slog.Level {
	switch c.logLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) LogFormat() string {
	return c.logFormat
}

func (c Config) Metrics() bool {
	return c.metrics
}

func (c Config) SnapshotDir() string {
	return c.snapshotDir
}

func (c Config) WriteAttempts() int {
	return c.writeAttempts
}

func (c Config) BackoffInitialDuration() time.Duration {
	return c.backoffInitialDuration
}

func (c Config) BackoffMultiplier() float64 {
	return c.backoffMultiplier
}

func (c Config) BackoffMaxDuration() time.Duration {
	return c.backoffMaxDuration
}
