package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/stubsift-dev/stubsift/internal/analyzer/bench"
	"github.com/stubsift-dev/stubsift/internal/analyzer/orchestrator"
	"github.com/stubsift-dev/stubsift/internal/analyzer/rules"
	"github.com/stubsift-dev/stubsift/internal/analyzer/walker"
	"github.com/stubsift-dev/stubsift/internal/infrastructure/snapshot"
)

var (
	benchActors  int
	benchBatches int
	benchJSON    bool
)

// benchCmd represents the bench command
var benchCmd = &cobra.Command{
	Use:   "bench <snapshot.yaml>",
	Short: "Measure scheduling fairness of concurrent analysis passes",
	Long: `Run several concurrent analysis passes over partitions of a snapshot,
released from a shared start barrier, and report timing skew between
them. The benchmark is diagnostic: it reports throughput and contention
indicators, never violations.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runBenchAction(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(benchCmd)

	benchCmd.Flags().IntVar(&benchActors, "actors", 4, "Number of concurrent analysis passes")
	benchCmd.Flags().IntVar(&benchBatches, "batches", 1, "Pass repetitions per actor")
	benchCmd.Flags().BoolVar(&benchJSON, "json", false, "Emit the result as JSON")
}

// runBenchAction implements the core logic for the bench command
func runBenchAction(ctx context.Context, snapshotPath string) error {
	slog.Info("loading snapshot", "path", snapshotPath)
	assemblies, err := snapshot.Load(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	registry := rules.DefaultCatalog()
	phases, err := orchestrator.DefaultPhases(registry)
	if err != nil {
		return fmt.Errorf("failed to assemble phases: %w", err)
	}

	harness, err := bench.New(assemblies, phases, bench.Config{
		Actors:       benchActors,
		Batches:      benchBatches,
		Orchestrator: orchestrator.Config{},
		Walker:       walker.Config{},
	})
	if err != nil {
		return err
	}

	slog.Info("benchmarking", "actors", benchActors, "batches", benchBatches)
	result, err := harness.Run(ctx)
	if err != nil {
		return fmt.Errorf("benchmark failed: %w", err)
	}

	if benchJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(data))
		return nil
	}

	printBenchResult(result)
	return nil
}

// printBenchResult writes a human-readable benchmark summary.
//
//nolint:errcheck // Best-effort terminal output
func printBenchResult(result *bench.Result) {
	fmt.Printf("Actors:      %d\n", result.Actors)
	fmt.Printf("Batches:     %d\n", result.Batches)
	fmt.Printf("Operations:  %d\n", result.Operations)
	fmt.Printf("Elapsed:     %s\n", result.Elapsed.Round(time.Millisecond))
	fmt.Printf("Throughput:  %.0f ops/sec\n", result.Throughput)
	fmt.Printf("Variation:   %.1f%%\n", result.VariationPct)

	for _, t := range result.ActorTimings {
		if t.Failed {
			fmt.Printf("  actor %d: FAILED (%s)\n", t.Actor, t.Error)
			continue
		}
		fmt.Printf("  actor %d: %s, %d ops\n", t.Actor, t.Duration.Round(time.Millisecond), t.Operations)
	}

	if result.Contention {
		fmt.Fprintln(os.Stderr, "warning: timing variation suggests actor contention")
	}
	if result.LowThroughput {
		fmt.Fprintln(os.Stderr, "warning: throughput below healthy baseline")
	}
}
