// Package report renders rename events for the user.
// The text format streams one line per event as the executor produces it; the
// table, JSON, CSV and YAML formats collect every event and write one document
// when the run finishes.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"rxrename/internal/config"
	"rxrename/internal/executor"
	"rxrename/internal/plan"
)

const sourceColumn = 40

// Entry is one event, with paths relative to the run directory.
type Entry struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Status string `json:"status" yaml:"status"`
	Reason string `json:"reason,omitempty" yaml:"reason,omitempty"`
	Error  string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Summary is the document form of executor.Summary.
type Summary struct {
	Total          int    `json:"total" yaml:"total"`
	Planned        int    `json:"planned" yaml:"planned"`
	Applied        int    `json:"applied" yaml:"applied"`
	Skipped        int    `json:"skipped" yaml:"skipped"`
	Failed         int    `json:"failed" yaml:"failed"`
	DryRun         bool   `json:"dry_run" yaml:"dry_run"`
	ProcessingTime string `json:"processing_time" yaml:"processing_time"`
}

// Document is what the JSON and YAML formats write.
type Document struct {
	Summary Summary `json:"summary" yaml:"summary"`
	Entries []Entry `json:"entries" yaml:"entries"`
}

// Reporter implements executor.Recorder.
type Reporter struct {
	config  *config.Config
	writer  io.Writer
	entries []Entry
	source  lipgloss.Style
	target  lipgloss.Style
	failure lipgloss.Style
}

// NewReporter creates a Reporter writing to w. Colors are used only by the text
// format and only when color is true.
func NewReporter(cfg *config.Config, w io.Writer, color bool) *Reporter {
	renderer := lipgloss.NewRenderer(w)
	if color {
		renderer.SetColorProfile(termenv.TrueColor)
	} else {
		renderer.SetColorProfile(termenv.Ascii)
	}

	return &Reporter{
		config:  cfg,
		writer:  w,
		entries: []Entry{},
		source:  renderer.NewStyle().Foreground(lipgloss.Color("#4682B4")),
		target:  renderer.NewStyle().Foreground(lipgloss.Color("#00FFFF")),
		failure: renderer.NewStyle().Foreground(lipgloss.Color("#FF5F5F")),
	}
}

// Record stores the event and, in text mode, prints it right away.
func (r *Reporter) Record(event executor.Event) {
	entry := Entry{
		Source: r.relative(event.Op.Source),
		Target: r.relative(event.Op.Target),
		Status: string(event.Kind),
		Reason: event.Reason,
	}
	if event.Err != nil {
		entry.Error = event.Err.Error()
	}
	r.entries = append(r.entries, entry)

	if r.config.OutputFormat == config.OutputText || r.config.OutputFormat == "" {
		r.logText(event, entry)
	}
}

// Entries returns the recorded entries.
func (r *Reporter) Entries() []Entry {
	return r.entries
}

// Finish writes the final report in the configured format.
func (r *Reporter) Finish(summary executor.Summary) error {
	switch r.config.OutputFormat {
	case config.OutputJSON:
		return r.writeJSONReport(summary)
	case config.OutputYAML:
		return r.writeYAMLReport(summary)
	case config.OutputCSV:
		return r.writeCSVReport(summary)
	case config.OutputTable:
		return r.writeTableReport(summary)
	default:
		return r.writeSummaryReport(summary)
	}
}

func (r *Reporter) logText(event executor.Event, entry Entry) {
	switch event.Kind {
	case executor.KindFailed:
		r.writeLine(entry, "failed to rename to", r.failure.Render(": "+entry.Error))
	case executor.KindPlanned:
		if r.config.Verbose {
			r.writeLine(entry, "will be renamed to", "")
		}
	case executor.KindApplied:
		if r.config.Verbose {
			r.writeLine(entry, "renamed to", "")
		}
	case executor.KindSkipped:
		if r.config.Verbose && entry.Reason != plan.ReasonUnchanged {
			r.writeLine(entry, "not renamed to", " ("+entry.Reason+")")
		}
	}
}

func (r *Reporter) writeLine(entry Entry, verb, suffix string) {
	pad := sourceColumn - lipgloss.Width(entry.Source)
	if pad < 0 {
		pad = 0
	}
	fmt.Fprintf(r.writer, "%s%s %s %s%s\n",
		r.source.Render(entry.Source), strings.Repeat(" ", pad), verb, r.target.Render(entry.Target), suffix)
}

func (r *Reporter) writeSummaryReport(summary executor.Summary) error {
	if summary.NothingToDo() {
		fmt.Fprintln(r.writer, "No changes with current parameters.")
		return nil
	}

	skipped := summary.Skipped - r.count(plan.ReasonUnchanged)
	if summary.DryRun {
		fmt.Fprintf(r.writer, "Would rename %d of %d files (%d skipped).\n", summary.Planned, summary.Total, skipped)
		fmt.Fprintln(r.writer, "Dry run: nothing was renamed. Re-run with --commit to apply the changes.")
		return nil
	}

	fmt.Fprintf(r.writer, "Renamed %d of %d files (%d skipped, %d failed).\n", summary.Applied, summary.Total, skipped, summary.Failed)
	return nil
}

func (r *Reporter) writeTableReport(summary executor.Summary) error {
	table := tablewriter.NewWriter(r.writer)
	table.SetHeader([]string{"Source", "Target", "Status", "Reason"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})

	for _, entry := range r.entries {
		if entry.Reason == plan.ReasonUnchanged {
			continue
		}
		reason := entry.Reason
		if entry.Error != "" {
			reason = entry.Error
		}
		table.Append([]string{entry.Source, entry.Target, entry.Status, reason})
	}

	mode := "commit"
	if summary.DryRun {
		mode = "dry-run"
	}
	table.SetFooter([]string{
		fmt.Sprintf("%d files", summary.Total),
		mode,
		fmt.Sprintf("%d ok", summary.Planned+summary.Applied),
		fmt.Sprintf("%d failed", summary.Failed),
	})

	table.Render()
	return r.writeSummaryReport(summary)
}

func (r *Reporter) writeJSONReport(summary executor.Summary) error {
	encoder := json.NewEncoder(r.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(r.document(summary))
}

func (r *Reporter) writeYAMLReport(summary executor.Summary) error {
	encoder := yaml.NewEncoder(r.writer)
	encoder.SetIndent(2)
	if err := encoder.Encode(r.document(summary)); err != nil {
		return err
	}
	return encoder.Close()
}

func (r *Reporter) writeCSVReport(summary executor.Summary) error {
	writer := csv.NewWriter(r.writer)

	if err := writer.Write([]string{"source", "target", "status", "reason", "error"}); err != nil {
		return err
	}
	for _, entry := range r.entries {
		if err := writer.Write([]string{entry.Source, entry.Target, entry.Status, entry.Reason, entry.Error}); err != nil {
			return err
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return err
	}

	mode := "commit"
	if summary.DryRun {
		mode = "dry-run"
	}
	fmt.Fprintf(r.writer, "# rxrename CSV report (%s)\n", mode)
	fmt.Fprintf(r.writer, "# Total files: %d\n", summary.Total)
	fmt.Fprintf(r.writer, "# Planned: %d\n", summary.Planned)
	fmt.Fprintf(r.writer, "# Applied: %d\n", summary.Applied)
	fmt.Fprintf(r.writer, "# Skipped: %d\n", summary.Skipped)
	fmt.Fprintf(r.writer, "# Failed: %d\n", summary.Failed)
	fmt.Fprintf(r.writer, "# Processing time: %v\n", summary.Duration)

	return nil
}

func (r *Reporter) document(summary executor.Summary) Document {
	return Document{
		Summary: Summary{
			Total:          summary.Total,
			Planned:        summary.Planned,
			Applied:        summary.Applied,
			Skipped:        summary.Skipped,
			Failed:         summary.Failed,
			DryRun:         summary.DryRun,
			ProcessingTime: summary.Duration.String(),
		},
		Entries: r.entries,
	}
}

func (r *Reporter) count(reason string) int {
	n := 0
	for _, entry := range r.entries {
		if entry.Status == string(executor.KindSkipped) && entry.Reason == reason {
			n++
		}
	}
	return n
}

func (r *Reporter) relative(path string) string {
	if path == "" || r.config.Directory == "" {
		return path
	}
	rel, err := filepath.Rel(r.config.Directory, path)
	if err != nil {
		return path
	}
	return rel
}
