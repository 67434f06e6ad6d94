package storage

import (
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/san-kum/ambient/internal/ambient"
)

type ExportData struct {
	Run       RunMetadata     `json:"run"`
	Gradients []ExportedColor `json:"gradients"`
	Bars      []ExportedBars  `json:"bars"`
}

type ExportedColor struct {
	TimeMs float64 `json:"time_ms"`
	Step   float64 `json:"step"`
	Left   string  `json:"left"`
	Right  string  `json:"right"`
}

type ExportedBars struct {
	TimeMs  float64   `json:"time_ms"`
	Heights []float64 `json:"heights"`
}

func millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}

func exportData(meta RunMetadata, result *ambient.Result) ExportData {
	data := ExportData{
		Run:       meta,
		Gradients: make([]ExportedColor, len(result.Gradients)),
		Bars:      make([]ExportedBars, len(result.Bars)),
	}
	for i, f := range result.Gradients {
		data.Gradients[i] = ExportedColor{
			TimeMs: millis(result.GradientTimes[i]),
			Step:   f.Step,
			Left:   f.Left.Hex(),
			Right:  f.Right.Hex(),
		}
	}
	for i, f := range result.Bars {
		data.Bars[i] = ExportedBars{
			TimeMs:  millis(result.BarTimes[i]),
			Heights: f.Heights(),
		}
	}
	return data
}

// ExportJSON writes a run as one indented JSON document.
func ExportJSON(w io.Writer, meta RunMetadata, result *ambient.Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(exportData(meta, result))
}

func ExportJSONFile(path string, meta RunMetadata, result *ambient.Result) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return ExportJSON(file, meta, result)
}
