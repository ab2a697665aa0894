package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/rohmanhakim/astar-state/internal/config"
	"github.com/rohmanhakim/astar-state/internal/grid"
	"github.com/rohmanhakim/astar-state/internal/metadata"
	"github.com/rohmanhakim/astar-state/internal/storage"
	"github.com/rohmanhakim/astar-state/internal/trace"
	"github.com/rohmanhakim/astar-state/pkg/fileutil"
	"github.com/rohmanhakim/astar-state/pkg/retry"
	"github.com/rohmanhakim/astar-state/pkg/timeutil"
	"github.com/spf13/cobra"
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Apply a search-state trace and print the outcome of every op",
	Long: `replay reads a trace, one op per line:

  open X Y PREV TOTAL [PX PY]   offer a waypoint, optionally linked to the closed waypoint at (PX,PY)
  close X Y                     move the open waypoint at (X,Y) to the closed set
  min                           print the open waypoint with the smallest total cost
  closed X Y                    print whether (X,Y) is closed
  count                         print the number of open waypoints
  path X Y                      print the predecessor chain of the closed waypoint at (X,Y)
  block X Y                     mark (X,Y) impassable; later opens there fail

Lines starting with # are comments. The command exits non-zero when any op fails.`,
	Args: cobra.NoArgs,
	RunE: runReplay,
}

func runReplay(cmd *cobra.Command, args []string) error {
	cfg, err := InitConfigWithError()
	if err != nil {
		return err
	}

	logger := newLogger(cmd.ErrOrStderr(), cfg)
	recorder := metadata.NewRecorder(logger)

	var sink metadata.MetadataSink = recorder
	var registry *prometheus.Registry
	if cfg.Metrics() {
		registry = prometheus.NewRegistry()
		promSink, err := metadata.NewPrometheusSink(registry)
		if err != nil {
			return err
		}
		sink = metadata.NewMultiSink(recorder, promSink)
	}

	input, openErr := fileutil.OpenInput(tracePath, cmd.InOrStdin())
	if openErr != nil {
		return openErr
	}
	defer input.Close()

	ops, err := trace.Parse(input)
	if err != nil {
		return err
	}

	m, err := grid.New(cfg.GridWidth(), cfg.GridHeight())
	if err != nil {
		return err
	}

	replayer, err := trace.NewReplayer(
		m,
		trace.NewReplayParam(cfg.MaxSteps(), cfg.ContinueOnError(), cfg.HashAlgo(), recorder.RunID()),
		sink,
	)
	if err != nil {
		return err
	}

	report, replayErr := replayer.Replay(cmd.Context(), ops)

	out := cmd.OutOrStdout()
	printResults(out, report)
	printSummary(out, report)

	// The final state is persisted even when the replay failed
	if cfg.SnapshotDir() != "" {
		snapshotSink := storage.NewLocalSink(sink, snapshotRetryParam(cfg))
		written, writeErr := snapshotSink.Write(
			cfg.SnapshotDir(),
			trace.SnapshotLines(replayer.State().Snapshot()),
			cfg.HashAlgo(),
		)
		if writeErr != nil {
			if replayErr == nil {
				replayErr = writeErr
			}
		} else {
			fmt.Fprintf(out, "snapshot: %s\n", written.Path())
		}
	}

	if registry != nil {
		if err := printMetrics(out, registry); err != nil {
			return err
		}
	}
	return replayErr
}

func snapshotRetryParam(cfg config.Config) retry.RetryParam {
	return retry.NewRetryParam(
		cfg.BackoffInitialDuration()/2,
		time.Now().UnixNano(),
		cfg.WriteAttempts(),
		timeutil.NewBackoffParam(
			cfg.BackoffInitialDuration(),
			cfg.BackoffMultiplier(),
			cfg.BackoffMaxDuration(),
		),
	)
}

func printResults(w io.Writer, report trace.Report) {
	for _, result := range report.Results {
		if result.Err() != nil {
			fmt.Fprintf(w, "error %v\n", result.Err())
			continue
		}
		fmt.Fprintln(w, result.Output())
	}
}

func printSummary(w io.Writer, report trace.Report) {
	fmt.Fprintf(w, "---\n")
	fmt.Fprintf(w, "run: %s\n", report.RunID)
	fmt.Fprintf(w, "steps: %d skipped: %d errors: %d\n", report.Steps, report.Skipped, report.Errors)
	fmt.Fprintf(w, "modified: %d rejected: %d closes: %d\n", report.Modified, report.Rejected, report.Closes)
	fmt.Fprintf(w, "open: %d closed: %d\n", report.OpenCount, report.ClosedCount)
	fmt.Fprintf(w, "digest %s: %s\n", report.HashAlgo, report.Digest)
}

func printMetrics(w io.Writer, gatherer prometheus.Gatherer) error {
	families, err := gatherer.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	fmt.Fprintf(w, "---\n")
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
