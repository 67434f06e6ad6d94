package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/san-kum/ambient/internal/ambient"
	"github.com/san-kum/ambient/internal/config"
	"github.com/san-kum/ambient/internal/logging"
	"github.com/san-kum/ambient/internal/tui"
	"github.com/san-kum/ambient/internal/viz"
)

var (
	dataDir  string
	logLevel string
	// Config file
	configFile string
	// Preset name
	preset string
	// Engine overrides
	seed        int64
	paletteName string
	bars        int
	watch bool
	// Stream size in terminal cells
	streamWidth int
	streamRows  int
)

// main runs the command tree and exits with status 1 if the command fails.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

// newRootCmd registers the commands. The root runs the preset picker when no
// subcommand is given. Flags whose defaults differ between commands (--time,
// --label, --fps, --theme) are unbound and read back with the flag getters.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "ambient",
		Short:        "animated gradient and bar-field backdrop",
		SilenceUsage: true,
		RunE:         runPicker,
	}

	rootCmd.PersistentFlags().StringVar(&dataDir, "data", config.DefaultDataDir, "data directory")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	liveCmd := &cobra.Command{
		Use:   "live",
		Short: "run the backdrop in a full-screen view",
		Args:  cobra.NoArgs,
		RunE:  runLive,
	}
	addEngineFlags(liveCmd)
	liveCmd.Flags().Int("fps", config.DefaultFPS, "frame rate")
	liveCmd.Flags().BoolVar(&watch, "watch", false, "apply edits to the --config file while running")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "simulate the backdrop and save every frame",
		Args:  cobra.NoArgs,
		RunE:  runSimulation,
	}
	addEngineFlags(runCmd)
	runCmd.Flags().Duration("time", 10*time.Second, "simulated duration")
	runCmd.Flags().String("label", "", "run label, used as the ID prefix")

	streamCmd := &cobra.Command{
		Use:   "stream",
		Short: "paint the backdrop to stdout with plain escape codes",
		Args:  cobra.NoArgs,
		RunE:  runStream,
	}
	addEngineFlags(streamCmd)
	streamCmd.Flags().Int("fps", config.DefaultFPS, "frame rate")
	streamCmd.Flags().Duration("time", 0, "stop after this long (0 runs until interrupted)")
	streamCmd.Flags().IntVar(&streamWidth, "width", 80, "width in columns")
	streamCmd.Flags().IntVar(&streamRows, "rows", 20, "height in rows")
	streamCmd.Flags().String("theme", viz.ThemeSky.Name, "bar theme")

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	palettesCmd := &cobra.Command{
		Use:   "palettes",
		Short: "list palettes",
		Args:  cobra.NoArgs,
		RunE:  listPalettes,
	}

	initCmd := &cobra.Command{
		Use:   "init [path]",
		Short: "write a config file (yaml, or toml by extension)",
		Args:  cobra.MaximumNArgs(1),
		RunE:  initConfig,
	}
	initCmd.Flags().StringVar(&preset, "preset", "", "start from a preset")

	rootCmd.AddCommand(liveCmd, runCmd, streamCmd, presetsCmd, palettesCmd, initCmd)
	rootCmd.AddCommand(runCommands()...)
	return rootCmd
}

func addEngineFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml or toml)")
	cmd.Flags().StringVar(&preset, "preset", "", "use preset configuration")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one from the clock)")
	cmd.Flags().StringVar(&paletteName, "palette", "", "palette name")
	cmd.Flags().IntVar(&bars, "bars", 0, "number of bars")
}

// loadConfig resolves the config file or preset, then applies any flags the
// user set explicitly.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var cfg *config.Config
	switch {
	case configFile != "":
		c, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = c
	case preset != "":
		cfg = config.GetPreset(preset)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset %q (available: %s)", preset, strings.Join(config.ListPresets(), ", "))
		}
	default:
		cfg = config.DefaultConfig()
	}

	flags := cmd.Flags()
	if flags.Changed("seed") {
		cfg.Seed = seed
	}
	if flags.Changed("palette") {
		cfg.Palette = paletteName
		cfg.Colors = nil
	}
	if flags.Changed("bars") {
		cfg.Bars = bars
	}
	if flags.Changed("fps") {
		fps, err := flags.GetInt("fps")
		if err != nil {
			return nil, err
		}
		cfg.FPS = fps
	}
	if flags.Changed("data") || cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config, w io.Writer) (*log.Logger, error) {
	lvl, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	logger := logging.New(w)
	logger.SetLevel(lvl)
	return logger, nil
}

// fileLogger logs into the data directory, for commands that own the terminal.
func fileLogger(cfg *config.Config) (*log.Logger, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
		return nil, nil, err
	}
	f, err := os.OpenFile(filepath.Join(cfg.DataDir, "ambient.log"), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, err
	}
	logger, err := newLogger(cfg, f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

func runPicker(cmd *cobra.Command, args []string) error {
	cfg := config.DefaultConfig()
	cfg.DataDir = dataDir
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	return viz.RunInteractive(cmd.Context(), logger)
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	watchPath := ""
	if watch {
		if configFile == "" {
			return fmt.Errorf("--watch needs --config")
		}
		watchPath = configFile
	}

	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	return viz.Run(cmd.Context(), cfg, logging.With(logger, "mode", "live"), watchPath)
}

func runStream(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	logger, closeLog, err := fileLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	duration, err := cmd.Flags().GetDuration("time")
	if err != nil {
		return err
	}
	theme, err := cmd.Flags().GetString("theme")
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.Logger = logging.With(logger, "mode", "stream")

	r := tui.NewLiveRenderer(os.Stdout, streamWidth, streamRows, cfg.FPS)
	r.SetBarColor(viz.GetTheme(theme).Bar)
	eng, err := ambient.New(opts, r)
	if err != nil {
		return err
	}

	r.Start()
	defer r.Stop()
	if err := eng.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	eng.Stop()
	return nil
}

func listPresets(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPALETTE\tBARS\tPERIOD\tSTEP\tSPEED\tBAR_INTERVAL")
	for _, name := range config.ListPresets() {
		p := config.GetPreset(name)
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%.2f\t%.4f\t%s\n",
			name, p.Palette, p.Bars, p.Period, p.StepSize, p.GradientSpeed, p.BarInterval.Std())
	}
	return w.Flush()
}

func listPalettes(cmd *cobra.Command, args []string) error {
	for _, name := range config.PaletteNames() {
		var swatch strings.Builder
		for _, hex := range config.Palettes[name] {
			swatch.WriteString(lipgloss.NewStyle().Background(lipgloss.Color(hex)).Render("  "))
		}
		fmt.Printf("  %-10s %s  %s\n", name, swatch.String(), strings.Join(config.Palettes[name], " "))
	}
	return nil
}

func initConfig(cmd *cobra.Command, args []string) error {
	path := "ambient.yaml"
	if len(args) > 0 {
		path = args[0]
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%s already exists", path)
	}

	cfg := config.DefaultConfig()
	if preset != "" {
		if cfg = config.GetPreset(preset); cfg == nil {
			return fmt.Errorf("unknown preset %q", preset)
		}
	}
	if err := config.Save(path, cfg); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}
