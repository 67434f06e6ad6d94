package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/spf13/cobra"

	"github.com/san-kum/ambient/internal/ambient"
	"github.com/san-kum/ambient/internal/export"
	"github.com/san-kum/ambient/internal/storage"
	"github.com/san-kum/ambient/internal/viz"
)

var (
	plotBar      int
	exportFrame  int
	exportOut    string
	exportFormat string
	exportWidth  int
	exportHeight int
	sweepRuns    int
)

// runCommands are the commands that work on saved runs.
func runCommands() []*cobra.Command {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	showCmd := &cobra.Command{
		Use:   "show [run_id]",
		Short: "print run metadata",
		Args:  cobra.ExactArgs(1),
		RunE:  showRun,
	}

	plotCmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot bar heights over time",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	plotCmd.Flags().IntVar(&plotBar, "bar", -1, "bar index to plot (-1 plots the mean height)")

	exportCmd := &cobra.Command{
		Use:   "export [run_id]",
		Short: "export a frame of a run to SVG",
		Args:  cobra.ExactArgs(1),
		RunE:  exportRun,
	}
	exportCmd.Flags().IntVar(&exportFrame, "frame", -1, "bar frame index, negative counts from the end")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default <run_id>.svg)")
	exportCmd.Flags().StringVar(&exportFormat, "format", "frame", "frame, braille or mean")
	exportCmd.Flags().IntVar(&exportWidth, "width", 1200, "width in pixels")
	exportCmd.Flags().IntVar(&exportHeight, "height", 400, "height in pixels")
	exportCmd.Flags().String("theme", viz.ThemeSky.Name, "bar theme")

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export bar heights to CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	deleteCmd := &cobra.Command{
		Use:   "delete [run_id]",
		Short: "delete a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := storage.New(dataDir).Delete(args[0]); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep",
		Short: "simulate consecutive seeds in parallel and save each run",
		Args:  cobra.NoArgs,
		RunE:  runSweep,
	}
	addEngineFlags(sweepCmd)
	sweepCmd.Flags().IntVar(&sweepRuns, "runs", 8, "number of seeds")
	sweepCmd.Flags().Duration("time", 10*time.Second, "simulated duration")
	sweepCmd.Flags().String("label", "sweep", "run label, used as the ID prefix")

	return []*cobra.Command{listCmd, showCmd, plotCmd, exportCmd, exportCSVCmd, exportJSONCmd, deleteCmd, sweepCmd}
}

// simFlags reads the --time and --label flags of run and sweep.
func simFlags(cmd *cobra.Command) (time.Duration, string, error) {
	duration, err := cmd.Flags().GetDuration("time")
	if err != nil {
		return 0, "", err
	}
	label, err := cmd.Flags().GetString("label")
	if err != nil {
		return 0, "", err
	}
	return duration, label, nil
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	duration, label, err := simFlags(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.Logger = logger
	eng, err := ambient.New(opts, nil)
	if err != nil {
		return err
	}

	start := time.Now()
	result, err := eng.Simulate(cmd.Context(), duration)
	if err != nil {
		return err
	}

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}
	runID, err := st.Save(storage.NewMetadata(label, opts, duration), result)
	if err != nil {
		return err
	}

	logger.Info("run saved",
		"id", runID,
		"seed", opts.Seed,
		"gradient_frames", len(result.Gradients),
		"bar_frames", len(result.Bars),
		"wraps", result.Wraps,
		"elapsed", time.Since(start).Round(time.Millisecond))
	fmt.Println(runID)
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	duration, label, err := simFlags(cmd)
	if err != nil {
		return err
	}
	logger, err := newLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	opts, err := cfg.Options()
	if err != nil {
		return err
	}
	opts.Logger = logger
	ens, err := ambient.NewEnsemble(opts, sweepRuns, opts.Seed)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := ens.Run(cmd.Context(), duration)
	if err != nil {
		return err
	}
	logger.Info("sweep finished", "runs", len(results), "elapsed", time.Since(start).Round(time.Millisecond))

	st := storage.New(cfg.DataDir)
	if err := st.Init(); err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSEED\tWRAPS\tMEAN")
	for i, res := range results {
		runOpts := opts
		runOpts.Seed = ens.Seed(i)
		meta := storage.NewMetadata(label, runOpts, duration)
		runID, err := st.Save(meta, res)
		if err != nil {
			return err
		}
		saved, err := st.Load(runID)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "%s\t%d\t%d\t%.3f\n", runID, runOpts.Seed, res.Wraps, saved.MeanHeight)
	}
	return w.Flush()
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTIME\tDURATION\tBARS\tSEED\tWRAPS\tMEAN")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\t%.3f\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Bars,
			run.Seed,
			run.Wraps,
			run.MeanHeight,
		)
	}

	return w.Flush()
}

func showRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, err := st.Load(args[0])
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

func plotRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.Bars) == 0 {
		return fmt.Errorf("no data to plot")
	}

	data := result.MeanHeights()
	caption := "mean bar height"
	if plotBar >= 0 {
		if data, err = result.BarHeights(plotBar); err != nil {
			return err
		}
		caption = fmt.Sprintf("bar %d height", plotBar)
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("seed: %d\n", meta.Seed)
	fmt.Printf("samples: %d\n\n", len(data))

	graph := asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.LowerBound(0),
		asciigraph.UpperBound(1),
		asciigraph.Caption(caption),
	)
	fmt.Println(graph)
	return nil
}

// gradientAt returns the last gradient frame at or before t.
func gradientAt(result *ambient.Result, t time.Duration) ambient.GradientFrame {
	i := sort.Search(len(result.GradientTimes), func(i int) bool { return result.GradientTimes[i] > t })
	if i == 0 {
		return result.Gradients[0]
	}
	return result.Gradients[i-1]
}

func exportRun(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	if len(result.Bars) == 0 || len(result.Gradients) == 0 {
		return fmt.Errorf("no frames to export")
	}

	idx := exportFrame
	if idx < 0 {
		idx += len(result.Bars)
	}
	if idx < 0 || idx >= len(result.Bars) {
		return fmt.Errorf("frame %d out of range [0, %d)", exportFrame, len(result.Bars))
	}
	frame := result.Bars[idx]
	g := gradientAt(result, result.BarTimes[idx])
	theme, err := cmd.Flags().GetString("theme")
	if err != nil {
		return err
	}

	var svg string
	switch exportFormat {
	case "frame":
		svg = export.FrameToSVG(g, frame, exportWidth, exportHeight, viz.GetTheme(theme).Bar)
	case "braille":
		c := export.BarsCanvas(frame, max(exportWidth/8, 1), max(exportHeight/16, 1))
		svg = export.CanvasToSVG(c, 4, g.Left, g.Right)
	case "mean":
		svg = export.SeriesToSVG(result.MeanHeights(), exportWidth, exportHeight, g.Right)
		if svg == "" {
			return fmt.Errorf("need at least two bar frames for a mean plot")
		}
	default:
		return fmt.Errorf("unknown format %q (frame, braille, mean)", exportFormat)
	}

	out := exportOut
	if out == "" {
		out = meta.ID + ".svg"
	}
	if err := export.WriteFile(out, svg); err != nil {
		return err
	}
	fmt.Printf("wrote %s (frame %d at %s)\n", out, idx, result.BarTimes[idx])
	return nil
}

func exportCSV(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	rows, err := st.LoadBars(args[0])
	if err != nil {
		return err
	}

	if len(rows) == 0 {
		return fmt.Errorf("no data to export")
	}

	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"time", "tick"}
	for i := range rows[0].Heights {
		header = append(header, fmt.Sprintf("h%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, r := range rows {
		row := []string{strconv.FormatFloat(r.Time.Seconds(), 'f', 3, 64), strconv.FormatUint(r.Tick, 10)}
		for _, val := range r.Heights {
			row = append(row, strconv.FormatFloat(val, 'f', 6, 64))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	meta, result, err := st.LoadResult(args[0])
	if err != nil {
		return err
	}
	return storage.ExportJSON(os.Stdout, *meta, result)
}
