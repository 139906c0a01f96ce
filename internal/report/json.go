// Package report renders the outcome of a schema directory load.
package report

import (
	"encoding/json"
	"io"
	"time"

	"github.com/andyballingall/jerify/internal/schema"
)

// Reporter writes a LoadReport in some output format.
type Reporter interface {
	Write(w io.Writer, r *schema.LoadReport) error
}

// JSONReporter implements Reporter for JSON output.
type JSONReporter struct{}

type jsonSchema struct {
	Name string `json:"name"`
	Path string `json:"path"`
}

type jsonSkipped struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

type jsonOutput struct {
	Dir        string `json:"dir"`
	DirMissing bool   `json:"dirMissing"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	Duration   string `json:"duration"`
	Stats      struct {
		TotalLoaded  int `json:"totalLoaded"`
		TotalSkipped int `json:"totalSkipped"`
	} `json:"stats"`
	Loaded  []jsonSchema  `json:"loaded"`
	Skipped []jsonSkipped `json:"skipped"`
}

func (jr *JSONReporter) Write(w io.Writer, r *schema.LoadReport) error {
	out := jsonOutput{
		Dir:        r.Dir,
		DirMissing: r.DirMissing,
		StartTime:  r.StartTime.Format(time.RFC3339),
		EndTime:    r.EndTime.Format(time.RFC3339),
		Duration:   r.EndTime.Sub(r.StartTime).String(),
		Loaded:     make([]jsonSchema, 0, len(r.Loaded)),
		Skipped:    make([]jsonSkipped, 0, len(r.Skipped)),
	}

	for _, e := range r.Loaded {
		out.Loaded = append(out.Loaded, jsonSchema{Name: e.Name, Path: e.Path})
	}
	for _, s := range r.Skipped {
		errMsg := ""
		if s.Err != nil {
			errMsg = s.Err.Error()
		}
		out.Skipped = append(out.Skipped, jsonSkipped{Path: s.Path, Error: errMsg})
	}
	out.Stats.TotalLoaded = len(out.Loaded)
	out.Stats.TotalSkipped = len(out.Skipped)

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// New returns the Reporter for format, "text" or "json".
func New(format string, verbose, useColour bool) Reporter {
	if format == "json" {
		return &JSONReporter{}
	}
	return &TextReporter{Verbose: verbose, UseColour: useColour}
}
