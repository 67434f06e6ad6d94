package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/san-kum/ambient/internal/ambient"
)

const (
	metadataFile = "metadata.json"
	gradientFile = "gradient.csv"
	barsFile     = "bars.csv"
)

// ErrRunNotFound is returned when a run directory has no metadata.
var ErrRunNotFound = errors.New("storage: run not found")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID               string    `json:"id"`
	Label            string    `json:"label"`
	Timestamp        time.Time `json:"timestamp"`
	Seed             int64     `json:"seed"`
	Palette          []string  `json:"palette"`
	Bars             int       `json:"bars"`
	ViewportWidth    float64   `json:"viewport_width"`
	Period           int       `json:"period"`
	StepSize         float64   `json:"step_size"`
	GradientSpeed    float64   `json:"gradient_speed"`
	GradientInterval string    `json:"gradient_interval"`
	BarInterval      string    `json:"bar_interval"`
	Duration         string    `json:"duration"`
	GradientFrames   int       `json:"gradient_frames"`
	BarFrames        int       `json:"bar_frames"`
	Wraps            uint64    `json:"wraps"`
	MeanHeight       float64   `json:"mean_height"`
}

// NewMetadata describes a run made with opts.
func NewMetadata(label string, opts ambient.Options, duration time.Duration) RunMetadata {
	return RunMetadata{
		Label:            label,
		Seed:             opts.Seed,
		Palette:          opts.Palette.Hex(),
		Bars:             opts.Bars,
		ViewportWidth:    opts.ViewportWidth,
		Period:           opts.Period,
		StepSize:         opts.StepSize,
		GradientSpeed:    opts.GradientSpeed,
		GradientInterval: opts.GradientInterval.String(),
		BarInterval:      opts.BarInterval.String(),
		Duration:         duration.String(),
	}
}

// Save writes the metadata and both frame streams under a new run ID.
func (s *Store) Save(meta RunMetadata, result *ambient.Result) (string, error) {
	label := meta.Label
	if label == "" {
		label = "run"
	}
	runID := fmt.Sprintf("%s_%s", label, uuid.NewString()[:8])
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	meta.ID = runID
	meta.Timestamp = time.Now()
	meta.GradientFrames = len(result.Gradients)
	meta.BarFrames = len(result.Bars)
	meta.Wraps = result.Wraps
	if n := len(result.Bars); n > 0 {
		sum := 0.0
		for _, h := range result.MeanHeights() {
			sum += h
		}
		meta.MeanHeight = sum / float64(n)
	}

	// metadata goes last: List only shows runs whose frames are complete
	if err := writeGradient(filepath.Join(runDir, gradientFile), result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeBars(filepath.Join(runDir, barsFile), result); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		os.RemoveAll(runDir)
		return "", err
	}
	return runID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeCSV(path string, rows func(w *csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if err := rows(w); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func formatMillis(d time.Duration) string {
	return strconv.FormatFloat(float64(d)/float64(time.Millisecond), 'f', 3, 64)
}

func writeGradient(path string, result *ambient.Result) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if err := w.Write([]string{"time_ms", "tick", "step", "left", "right"}); err != nil {
			return err
		}
		for i, f := range result.Gradients {
			row := []string{
				formatMillis(result.GradientTimes[i]),
				strconv.FormatUint(f.Tick, 10),
				strconv.FormatFloat(f.Step, 'f', 6, 64),
				f.Left.Hex(),
				f.Right.Hex(),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

func writeBars(path string, result *ambient.Result) error {
	return writeCSV(path, func(w *csv.Writer) error {
		if len(result.Bars) == 0 {
			return w.Write([]string{"time_ms", "tick"})
		}
		header := []string{"time_ms", "tick"}
		for i := range result.Bars[0].Samples {
			header = append(header, fmt.Sprintf("h%d", i))
		}
		if err := w.Write(header); err != nil {
			return err
		}
		for i, f := range result.Bars {
			row := []string{formatMillis(result.BarTimes[i]), strconv.FormatUint(f.Tick, 10)}
			for _, s := range f.Samples {
				row = append(row, strconv.FormatFloat(s.Height, 'f', 6, 64))
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
		return nil
	})
}

// List returns all runs, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
		}
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

func parseMillis(s string) (time.Duration, error) {
	ms, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return time.Duration(ms * float64(time.Millisecond)), nil
}

// LoadGradient reads the gradient frames of a run.
func (s *Store) LoadGradient(runID string) ([]time.Duration, []ambient.GradientFrame, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, gradientFile))
	if err != nil {
		return nil, nil, err
	}
	if len(records) < 2 {
		return []time.Duration{}, []ambient.GradientFrame{}, nil
	}

	times := make([]time.Duration, 0, len(records)-1)
	frames := make([]ambient.GradientFrame, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < 5 {
			return nil, nil, fmt.Errorf("%s line %d: expected 5 fields, got %d", gradientFile, i+2, len(rec))
		}
		t, err := parseMillis(rec[0])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", gradientFile, i+2, err)
		}
		tick, err := strconv.ParseUint(rec[1], 10, 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", gradientFile, i+2, err)
		}
		step, err := strconv.ParseFloat(rec[2], 64)
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", gradientFile, i+2, err)
		}
		left, err := ambient.ParseHex(rec[3])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", gradientFile, i+2, err)
		}
		right, err := ambient.ParseHex(rec[4])
		if err != nil {
			return nil, nil, fmt.Errorf("%s line %d: %w", gradientFile, i+2, err)
		}
		times = append(times, t)
		frames = append(frames, ambient.GradientFrame{Tick: tick, Left: left, Right: right, Step: step})
	}
	return times, frames, nil
}

// BarRow is one stored bar tick.
type BarRow struct {
	Time    time.Duration
	Tick    uint64
	Heights []float64
}

// LoadBars reads the bar heights of a run, one row per bar tick. Rows must
// have as many fields as the header.
func (s *Store) LoadBars(runID string) ([]BarRow, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, barsFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []BarRow{}, nil
	}

	width := len(records[0])
	if width < 2 {
		return nil, fmt.Errorf("%s: header has %d fields, expected at least 2", barsFile, width)
	}
	rows := make([]BarRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		line := i + 2
		if len(rec) != width {
			return nil, fmt.Errorf("%s line %d: expected %d fields, got %d", barsFile, line, width, len(rec))
		}
		t, err := parseMillis(rec[0])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", barsFile, line, err)
		}
		tick, err := strconv.ParseUint(rec[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%s line %d: %w", barsFile, line, err)
		}
		heights := make([]float64, 0, width-2)
		for _, v := range rec[2:] {
			h, err := strconv.ParseFloat(v, 64)
			if err != nil {
				return nil, fmt.Errorf("%s line %d: %w", barsFile, line, err)
			}
			heights = append(heights, h)
		}
		rows = append(rows, BarRow{Time: t, Tick: tick, Heights: heights})
	}
	return rows, nil
}

// LoadResult rebuilds the frames of a run.
func (s *Store) LoadResult(runID string) (*RunMetadata, *ambient.Result, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, nil, err
	}
	gt, gf, err := s.LoadGradient(runID)
	if err != nil {
		return nil, nil, err
	}
	rows, err := s.LoadBars(runID)
	if err != nil {
		return nil, nil, err
	}

	result := &ambient.Result{
		GradientTimes: gt,
		Gradients:     gf,
		BarTimes:      make([]time.Duration, len(rows)),
		Bars:          make([]ambient.BarFrame, len(rows)),
		Wraps:         meta.Wraps,
	}
	for i, row := range rows {
		result.BarTimes[i] = row.Time
		result.Bars[i] = BarFrameFromHeights(row.Tick, meta.ViewportWidth, row.Heights)
	}
	return meta, result, nil
}

// BarFrameFromHeights lays heights out across viewportWidth.
func BarFrameFromHeights(tick uint64, viewportWidth float64, heights []float64) ambient.BarFrame {
	f := ambient.BarFrame{Tick: tick, Samples: make([]ambient.BarSample, len(heights))}
	if len(heights) > 0 {
		f.BarWidth = viewportWidth / float64(len(heights))
	}
	for i, h := range heights {
		f.Samples[i] = ambient.BarSample{Index: i, X: float64(i) * f.BarWidth, Height: h, Opacity: h}
	}
	return f
}

// Delete removes a run and all its files.
func (s *Store) Delete(runID string) error {
	if _, err := s.Load(runID); err != nil {
		return err
	}
	return os.RemoveAll(filepath.Join(s.baseDir, runID))
}
