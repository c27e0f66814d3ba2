// Package main provides the CLI entrypoint for kanatype.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/kanatype/internal/config"
	"github.com/verte-zerg/kanatype/internal/engine"
	"github.com/verte-zerg/kanatype/internal/generator"
	"github.com/verte-zerg/kanatype/internal/logger"
	"github.com/verte-zerg/kanatype/internal/model"
	"github.com/verte-zerg/kanatype/internal/query"
	"github.com/verte-zerg/kanatype/internal/stats"
	"github.com/verte-zerg/kanatype/internal/statsui"
	"github.com/verte-zerg/kanatype/internal/store"
	"github.com/verte-zerg/kanatype/internal/tui"
	"github.com/verte-zerg/kanatype/internal/vocabulary"
)

const (
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultCurveWindow = 20
)

var (
	fileCfg config.FileConfig

	practiceDicts      []string
	practiceRomanCount int
	practiceLapLength  int
	practiceIdealCount bool
	practiceFocusWeak  bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int

	statsSince       string
	statsLast        int
	statsCurveWindow int
	statsKeys        string
	statsIdealCount  bool
	statsPlain       bool

	dictsForce bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:               "kanatype",
		Short:             "Japanese kana typing trainer",
		SilenceUsage:      true,
		SilenceErrors:     false,
		PersistentPreRunE: loadFileConfig,
		RunE:              runPracticeCmd,
	}

	rootCmd.Flags().StringSliceVar(&practiceDicts, "dict", nil, "dictionaries to practice (default: all)")
	rootCmd.Flags().IntVar(&practiceRomanCount, "roman-count", query.DefaultRomanCount, "minimal keys per query")
	rootCmd.Flags().IntVar(&practiceLapLength, "lap-length", engine.DefaultLapLength, "keys per lap")
	rootCmd.Flags().BoolVar(&practiceIdealCount, "ideal-count", false, "score with the minimal key count instead of keys typed")
	rootCmd.Flags().BoolVar(&practiceFocusWeak, "focus-weak", false, "bias practice toward weak keys")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak keys to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak keys")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak keys")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newDictsCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func loadFileConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		logger.Setup("", "")
		return fmt.Errorf("failed to load config: %w", err)
	}
	fileCfg = cfg
	logger.Setup(deref(cfg.Log.Level), deref(cfg.Log.Format))
	return nil
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	p := fileCfg.Practice
	applySliceConfig(cmd, "dict", &practiceDicts, p.Dicts)
	applyConfig(cmd, "roman-count", &practiceRomanCount, p.RomanCount)
	applyConfig(cmd, "lap-length", &practiceLapLength, p.LapLength)
	applyConfig(cmd, "ideal-count", &practiceIdealCount, p.IdealCount)
	applyConfig(cmd, "focus-weak", &practiceFocusWeak, p.FocusWeak)
	applyConfig(cmd, "weak-top", &practiceWeakTop, p.WeakTop)
	applyConfig(cmd, "weak-factor", &practiceWeakFactor, p.WeakFactor)
	applyConfig(cmd, "weak-window", &practiceWeakWindow, p.WeakWindow)

	cfg := model.Config{
		Dicts:      practiceDicts,
		RomanCount: practiceRomanCount,
		LapLength:  practiceLapLength,
		IdealCount: practiceIdealCount,
		FocusWeak:  practiceFocusWeak,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	dictDir := config.DefaultDictDir()
	lib, err := vocabulary.LoadLibrary(cmd.Context(), dictDir, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to load dictionaries: %w", err)
	}
	entries, err := lib.Entries(cfg.Dicts...)
	if err != nil {
		return dictionaryLoadError(dictDir, err)
	}
	if len(cfg.Dicts) == 0 {
		cfg.Dicts = lib.Names()
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			slog.Warn("failed to close db", "error", cerr)
		}
	}()

	m, err := tui.NewModel(cfg, st, generator.New(), entries, slog.Default())
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return m.Err()
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newDictsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dicts",
		Short: "List installed dictionaries",
		Args:  cobra.NoArgs,
		RunE:  runDictsCmd,
	}
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Install the starter dictionary",
		Args:  cobra.NoArgs,
		RunE:  runDictsInitCmd,
	}
	initCmd.Flags().BoolVar(&dictsForce, "force", false, "overwrite an existing starter dictionary")
	cmd.AddCommand(initCmd)
	return cmd
}

func runDictsCmd(cmd *cobra.Command, _ []string) error {
	dictDir := config.DefaultDictDir()
	lib, err := vocabulary.LoadLibrary(cmd.Context(), dictDir, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to load dictionaries: %w", err)
	}
	dicts := lib.Dictionaries()
	if len(dicts) == 0 {
		return dictionaryLoadError(dictDir, vocabulary.ErrNoDictionaries)
	}
	out := cmd.OutOrStdout()
	for _, d := range dicts {
		line := fmt.Sprintf("%s\t%d entries", d.Name, len(d.Entries))
		if len(d.ErrorLines) > 0 {
			line += fmt.Sprintf("\tskipped lines %v", d.ErrorLines)
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func runDictsInitCmd(cmd *cobra.Command, _ []string) error {
	path, err := vocabulary.Install(config.DefaultDictDir(), dictsForce)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return fmt.Errorf("failed to install starter dictionary: %w", err)
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
	return err
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	cmd.Flags().StringVar(&statsKeys, "keys", "", "keys for per-key curves")
	cmd.Flags().BoolVar(&statsIdealCount, "ideal-count", false, "use the minimal key count for metrics")
	cmd.Flags().BoolVar(&statsPlain, "plain", false, "print a text report instead of the TUI")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	applyConfig(cmd, "ideal-count", &statsIdealCount, fileCfg.Practice.IdealCount)

	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsCurveWindow < 1 {
		return fmt.Errorf("--curve-window must be >= 1")
	}

	cfg := model.StatsConfig{
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
		Keys:        statsKeys,
		IdealCount:  statsIdealCount,
	}

	st, err := store.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			slog.Warn("failed to close db", "error", cerr)
		}
	}()

	if statsPlain {
		return printStats(cmd, st, cfg)
	}
	program := tea.NewProgram(statsui.NewModel(st, cfg), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("failed to run stats TUI: %w", err)
	}
	return nil
}

func printStats(cmd *cobra.Command, st *store.Store, cfg model.StatsConfig) error {
	ctx := cmd.Context()
	report, err := stats.BuildReport(ctx, st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}
	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Sessions, cfg.IdealCount); err != nil {
		return err
	}
	if err := stats.RenderCurves(out, report.Sessions, cfg.CurveWindow, 0, cfg.IdealCount); err != nil {
		return err
	}
	if err := stats.RenderKeyTable(out, report.KeyAggsWindow); err != nil {
		return err
	}
	keys := statsui.ParseKeys(cfg.Keys)
	if len(keys) == 0 {
		return nil
	}
	perSession, err := st.ListKeyStatsForSessions(ctx, stats.SessionIDs(report.Sessions), keys)
	if err != nil {
		return fmt.Errorf("failed to load key stats: %w", err)
	}
	return stats.RenderKeyCurves(out, report.Sessions, perSession, keys, cfg.CurveWindow, 0)
}

func applyConfig[T any](cmd *cobra.Command, name string, target, value *T) {
	if value == nil || cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applySliceConfig(cmd *cobra.Command, name string, target *[]string, value []string) {
	if len(value) == 0 || cmd.Flags().Changed(name) {
		return
	}
	*target = value
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# kanatype configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# dicts = ["%s"]          # Dictionaries to practice (default: all)
# roman-count = %d        # Minimal keys per query
# lap-length = %d         # Keys per lap
# ideal-count = false     # Score with the minimal key count
# focus-weak = false      # Bias practice toward weak keys
# weak-top = %d           # Number of weak keys to focus on
# weak-factor = %.1f      # Weight factor for weak keys
# weak-window = %d        # Number of recent sessions to compute weak keys

[log]
# level = "info"          # debug, info, warn, error
# format = "pretty"       # pretty or json
`,
		vocabulary.StarterName,
		query.DefaultRomanCount,
		engine.DefaultLapLength,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.RomanCount <= 0 {
		return fmt.Errorf("--roman-count must be > 0")
	}
	if cfg.LapLength <= 0 {
		return fmt.Errorf("--lap-length must be > 0")
	}
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func dictionaryLoadError(dir string, err error) error {
	lines := []string{
		fmt.Sprintf("failed to load dictionaries: %v", err),
		fmt.Sprintf("expected dictionary files (*%s) in: %s", vocabulary.Extension, dir),
		"Install the starter dictionary: kanatype dicts init",
	}
	return fmt.Errorf("%s", strings.Join(lines, "\n"))
}
