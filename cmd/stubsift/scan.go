package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/expr-lang/expr"
	"github.com/spf13/cobra"

	"github.com/stubsift-dev/stubsift/internal/analyzer/orchestrator"
	"github.com/stubsift-dev/stubsift/internal/analyzer/rules"
	"github.com/stubsift-dev/stubsift/internal/analyzer/walker"
	"github.com/stubsift-dev/stubsift/internal/infrastructure/config"
	"github.com/stubsift-dev/stubsift/internal/infrastructure/output"
	"github.com/stubsift-dev/stubsift/internal/infrastructure/snapshot"
)

var (
	format           string
	outFile          string
	scanConfigPath   string
	filterExpr       string
	stopOnFirst      bool
	includeAsm       []string
	excludeAsm       []string
	includeFramework bool
	typeAllowList    []string
	scorePenalty     int
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <snapshot.yaml>",
	Short: "Analyze a metadata snapshot for unfinished code",
	Long: `Load a metadata snapshot and run the rule catalog over every type and
member it contains. The snapshot must be a valid YAML or JSON dump
produced by a metadata extractor.

Filtering:
  --include-assembly Game       Walk assemblies whose name contains 'Game'
  --exclude-assembly Tests      Skip assemblies whose name contains 'Tests'
  --type Game.Core.Player       Restrict the walk to specific types
  --filter "kind == 'method'"   Advanced subject filter expression`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScanAction(cmd.Context(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&format, "format", "table", "Output format: table, json, yaml, sarif")
	scanCmd.Flags().StringVarP(&outFile, "output", "o", "", "Output file path (default: stdout)")
	scanCmd.Flags().StringVar(&scanConfigPath, "scan-config", "", "Analyzer configuration file")

	// Filtering flags
	scanCmd.Flags().StringSliceVar(&includeAsm, "include-assembly", nil, "Walk assemblies containing these substrings (comma-separated)")
	scanCmd.Flags().StringSliceVar(&excludeAsm, "exclude-assembly", nil, "Skip assemblies containing these substrings (comma-separated)")
	scanCmd.Flags().BoolVar(&includeFramework, "include-framework", false, "Walk host-framework assemblies too")
	scanCmd.Flags().StringSliceVar(&typeAllowList, "type", nil, "Restrict the walk to these fully-qualified types (comma-separated)")
	scanCmd.Flags().StringVar(&filterExpr, "filter", "", "Advanced subject filter expression (e.g. \"kind == 'method'\")")

	scanCmd.Flags().BoolVar(&stopOnFirst, "stop-on-first", false, "Stop at the first violation")
	scanCmd.Flags().IntVar(&scorePenalty, "penalty", 0, "Score deduction per violation (0 = default)")
}

// runScanAction implements the core logic for the scan command
func runScanAction(ctx context.Context, snapshotPath string) error {
	cfg, err := loadScanConfig()
	if err != nil {
		return err
	}

	slog.Info("loading snapshot", "path", snapshotPath)
	assemblies, err := snapshot.Load(snapshotPath)
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}
	slog.Info("snapshot loaded", "assemblies", len(assemblies))

	walkCfg := walker.Config{
		IncludeSubstrings: cfg.Assemblies.Include,
		ExcludeSubstrings: cfg.Assemblies.Exclude,
		IncludeFramework:  cfg.Assemblies.IncludeFramework,
		TypeAllowList:     cfg.TypeAllowList,
	}

	// Compile the subject filter ONCE at startup.
	if cfg.FilterExpr != "" {
		program, err := expr.Compile(cfg.FilterExpr,
			expr.Env(walker.SubjectEnv{}),
			expr.AsBool())
		if err != nil {
			return fmt.Errorf("invalid --filter expression: %w\nExample: kind == 'method' && namespace startsWith 'Game'", err)
		}
		walkCfg.FilterProgram = program
	}

	registry := rules.DefaultCatalog()
	phases, err := orchestrator.DefaultPhases(registry)
	if err != nil {
		return fmt.Errorf("failed to assemble phases: %w", err)
	}

	rctx := rules.NewContext(assemblies)
	w := walker.New(assemblies, walkCfg)
	orch := orchestrator.New(w, rctx, phases, orchestrator.Config{
		StopOnFirstViolation: cfg.StopOnFirstViolation,
		PhaseEnabled:         cfg.Phases,
		YieldEvery:           cfg.YieldEvery,
		ScorePenalty:         cfg.ScorePenalty,
	})

	slog.Info("analyzing", "rules", registry.Len(), "phases", len(phases))
	rep, err := orch.Run(ctx)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	slog.Info("analysis complete",
		"duration", rep.Duration,
		"members_evaluated", rep.MembersEvaluated,
		"violations", rep.Summary.TotalViolations,
		"score", rep.Score)

	writer := os.Stdout
	if outFile != "" {
		//nolint:gosec // G304: User-controlled output file path is intentional
		file, err := os.Create(outFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			_ = file.Close() // Best-effort cleanup
		}()
		writer = file
		slog.Info("writing output", "file", outFile, "format", format)
	}

	factory := output.NewFormatterFactory()
	formatter, err := factory.Create(format, writer, output.Options{
		Indent:       true,
		SnapshotPath: snapshotPath,
		Rules:        ruleInfos(registry),
	})
	if err != nil {
		return err
	}
	if err := formatter.Format(rep); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	// Non-zero exit when unfinished code was found.
	if rep.Summary.TotalViolations > 0 {
		return fmt.Errorf("scan found %d violations (score %d/100)",
			rep.Summary.TotalViolations, rep.Score)
	}

	return nil
}

// loadScanConfig merges the analyzer config file with flag overrides.
// Flags win over the file.
func loadScanConfig() (config.Config, error) {
	cfg := config.Default()
	if scanConfigPath != "" {
		loaded, err := config.Load(scanConfigPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load scan config: %w", err)
		}
		cfg = loaded
	}

	if len(includeAsm) > 0 {
		cfg.Assemblies.Include = includeAsm
	}
	if len(excludeAsm) > 0 {
		cfg.Assemblies.Exclude = excludeAsm
	}
	if includeFramework {
		cfg.Assemblies.IncludeFramework = true
	}
	if len(typeAllowList) > 0 {
		cfg.TypeAllowList = typeAllowList
	}
	if filterExpr != "" {
		cfg.FilterExpr = filterExpr
	}
	if stopOnFirst {
		cfg.StopOnFirstViolation = true
	}
	if scorePenalty > 0 {
		cfg.ScorePenalty = scorePenalty
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

// ruleInfos projects the catalog into formatter metadata.
func ruleInfos(registry *rules.Registry) []output.RuleInfo {
	infos := make([]output.RuleInfo, 0, registry.Len())
	for _, r := range registry.Rules() {
		infos = append(infos, output.RuleInfo{
			ID:       r.ID,
			Name:     r.Name,
			Category: r.Category.String(),
		})
	}
	return infos
}
