package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"

	"github.com/rohmanhakim/astar-state/internal/config"
	"github.com/rohmanhakim/astar-state/pkg/hashutil"
	"github.com/spf13/cobra"
)

var (
	cfgFile         string
	tracePath       string
	gridWidth       int
	gridHeight      int
	maxSteps        int
	continueOnError bool
	hashAlgo        string
	logLevel        string
	logFormat       string
	metrics         bool
	snapshotDir     string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "astar-state",
	Short: "Replay A* search-state traces.",
	Long: `astar-state applies recorded open/close/min operations to an A* search
state over a bounded grid and reports the resulting open and closed sets.

Replays are deterministic: the same trace always yields the same output and
the same final state digest.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

// ExecuteWithArgs runs the command tree once with explicit arguments and
// streams. Flag values persist between runs; call ResetFlags in between.
func ExecuteWithArgs(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) error {
	rootCmd.SetArgs(args)
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)
	rootCmd.SetErr(errOut)
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config-file", "", "config file path, .json, .yaml or .yml (e.g., /home/myuser/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn or error (default info)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: text or json (default text)")

	replayCmd.Flags().StringVar(&tracePath, "trace", "-", "trace file to replay, - for stdin")
	replayCmd.Flags().IntVar(&gridWidth, "grid-width", 0, "grid width (default 32)")
	replayCmd.Flags().IntVar(&gridHeight, "grid-height", 0, "grid height (default 32)")
	replayCmd.Flags().IntVar(&maxSteps, "max-steps", 0, "maximum number of ops to apply (0 for unlimited)")
	replayCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "keep applying ops after a failed one")
	replayCmd.Flags().StringVar(&hashAlgo, "hash-algo", "", "state digest algorithm: sha256 or blake3 (default blake3)")
	replayCmd.Flags().BoolVar(&metrics, "metrics", false, "print prometheus metrics after the replay")
	replayCmd.Flags().StringVar(&snapshotDir, "snapshot-dir", "", "write the final state snapshot into this directory")

	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(versionCmd)
}

// InitConfigWithError builds the config from the config file, if any,
// then applies the flags that were set on top of it.
func InitConfigWithError() (config.Config, error) {
	configBuilder := config.WithDefault()

	if cfgFile != "" {
		fileCfg, err := config.WithConfigFile(cfgFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("error initializing config from file: %w", err)
		}
		configBuilder = &fileCfg
	}

	// Override with CLI flag values where provided
	if gridWidth != 0 {
		configBuilder = configBuilder.WithGridWidth(gridWidth)
	}

	if gridHeight != 0 {
		configBuilder = configBuilder.WithGridHeight(gridHeight)
	}

	if maxSteps != 0 {
		configBuilder = configBuilder.WithMaxSteps(maxSteps)
	}

	if continueOnError {
		configBuilder = configBuilder.WithContinueOnError(continueOnError)
	}

	if hashAlgo != "" {
		algo, err := hashutil.ParseHashAlgo(hashAlgo)
		if err != nil {
			return config.Config{}, fmt.Errorf("%w: %s", config.ErrInvalidConfig, err.Error())
		}
		configBuilder = configBuilder.WithHashAlgo(algo)
	}

	if logLevel != "" {
		configBuilder = configBuilder.WithLogLevel(logLevel)
	}

	if logFormat != "" {
		configBuilder = configBuilder.WithLogFormat(logFormat)
	}

	if metrics {
		configBuilder = configBuilder.WithMetrics(metrics)
	}

	if snapshotDir != "" {
		configBuilder = configBuilder.WithSnapshotDir(snapshotDir)
	}

	return configBuilder.Build()
}

func newLogger(w io.Writer, cfg config.Config) *slog.Logger {
	opts := &slog.HandlerOptions{Level: cfg.SlogLevel()}
	if cfg.LogFormat() == config.LogFormatJSON {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func ResetFlags() {
	cfgFile = ""
	tracePath = "-"
	gridWidth = 0
	gridHeight = 0
	maxSteps = 0
	continueOnError = false
	hashAlgo = ""
	logLevel = ""
	logFormat = ""
	metrics = false
	snapshotDir = ""
}

// Test helper functions to set flag values from tests
func SetConfigFileForTest(path string) {
	cfgFile = path
}

func SetTracePathForTest(path string) {
	tracePath = path
}

func SetGridWidthForTest(width int) {
	gridWidth = width
}

func SetGridHeightForTest(height int) {
	gridHeight = height
}

func SetMaxStepsForTest(steps int) {
	maxSteps = steps
}

func SetContinueOnErrorForTest(c bool) {
	continueOnError = c
}

func SetHashAlgoForTest(algo string) {
	hashAlgo = algo
}

func SetLogLevelForTest(level string) {
	logLevel = level
}

func SetLogFormatForTest(format string) {
	logFormat = format
}

func SetMetricsForTest(m bool) {
	metrics = m
}

func SetSnapshotDirForTest(dir string) {
	snapshotDir = dir
}
