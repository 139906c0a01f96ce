package report

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/andyballingall/jerify/internal/schema"
)

// TextReporter implements Reporter for plain text output.
type TextReporter struct {
	Verbose   bool
	UseColour bool
}

const (
	colReset     = "\033[0m"
	colRed       = "\033[31m"
	colGreen     = "\033[32m"
	colYellow    = "\033[33m"
	colGrey      = "\033[90m"
	colWhite     = "\033[37m"
	colBoldRed   = "\033[1;31m"
	colBoldGreen = "\033[1;32m"
	colBoldWhite = "\033[1;37m"
)

// cs returns a string which will render with the given colour
// if colourisation is enabled.
func (tr *TextReporter) cs(c, s string) string {
	if !tr.UseColour {
		return s
	}
	return c + s + colReset
}

func (tr *TextReporter) Write(w io.Writer, r *schema.LoadReport) error {
	divider := strings.Repeat("-", 40)

	fmt.Fprintf(w, "%s\n", divider)
	fmt.Fprint(w, tr.cs(colBoldWhite, "JERIFY SCHEMA REPORT\n\n"))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Directory:"), tr.cs(colWhite, r.Dir))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Started:  "), tr.cs(colWhite, r.StartTime.Format("15:04:05")))
	fmt.Fprintf(w, "%s %s\n", tr.cs(colGrey, "Duration: "), tr.cs(colWhite, r.EndTime.Sub(r.StartTime).String()))
	fmt.Fprintf(w, "%s\n", divider)

	if r.DirMissing {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colYellow, "[MISSING]"), tr.cs(colYellow, "schema directory not found"))
	}

	if tr.Verbose {
		for _, e := range r.Loaded {
			fmt.Fprintf(w, "%s %s %s\n",
				tr.cs(colGreen, "[OK]"),
				tr.cs(colWhite, e.Name),
				tr.cs(colGrey, "("+tr.rel(r.Dir, e.Path)+")"))
		}
	}

	for _, s := range r.Skipped {
		fmt.Fprintf(w, "%s %s\n", tr.cs(colRed, "[SKIPPED]"), tr.cs(colRed, tr.rel(r.Dir, s.Path)))
		fmt.Fprintf(w, "    %v\n", s.Err)
	}

	fmt.Fprintf(w, "%s\n", divider)
	summaryLabel := tr.cs(colBoldWhite, "Schema summary: ")
	summaryStats := fmt.Sprintf("%d loaded, %d skipped", len(r.Loaded), len(r.Skipped))
	statsColor := colBoldGreen
	if len(r.Skipped) > 0 {
		statsColor = colBoldRed
	}
	fmt.Fprintf(w, "%s%s\n", summaryLabel, tr.cs(statsColor, summaryStats))
	fmt.Fprintf(w, "%s\n", divider)

	return nil
}

// rel shortens p to a path relative to dir where possible.
func (tr *TextReporter) rel(dir, p string) string {
	if r, err := filepath.Rel(dir, p); err == nil && !strings.HasPrefix(r, "..") {
		return r
	}
	return p
}
