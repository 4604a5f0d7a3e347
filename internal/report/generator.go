// Package report renders the per-category summary of a classification run.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/Kris2339/MEO-PayDay/internal/models"
	"gopkg.in/yaml.v3"
)

// Supported output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RunReport is the rendered view of one run.
type RunReport struct {
	RunID      string         `json:"run_id" yaml:"run_id"`
	Files      int            `json:"files" yaml:"files"`
	Summary    models.Summary `json:"summary" yaml:"summary"`
	FileErrors []string       `json:"file_errors" yaml:"file_errors"`
}

// ReportGenerator renders run reports in several formats.
type ReportGenerator struct {
	logger logging.Logger
}

// NewReportGenerator creates a new instance of ReportGenerator.
func NewReportGenerator(logger logging.Logger) *ReportGenerator {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ReportGenerator{logger: logger.WithField("component", "ReportGenerator")}
}

// GenerateReport renders report as text, json or yaml.
func (g *ReportGenerator) GenerateReport(report *RunReport, format string) ([]byte, error) {
	if report.FileErrors == nil {
		report.FileErrors = []string{}
	}
	switch format {
	case FormatText, "":
		return g.generateTextReport(report)
	case FormatJSON:
		return g.generateJSONReport(report)
	case FormatYAML:
		return g.generateYAMLReport(report)
	default:
		return nil, fmt.Errorf("unsupported report format: %s", format)
	}
}

func (g *ReportGenerator) generateJSONReport(report *RunReport) ([]byte, error) {
	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		g.logger.WithError(err).Error("Failed to marshal JSON report")
		return nil, fmt.Errorf("failed to marshal JSON report: %w", err)
	}
	return append(out, '\n'), nil
}

func (g *ReportGenerator) generateYAMLReport(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		g.logger.WithError(err).Error("Failed to marshal YAML report")
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to marshal YAML report: %w", err)
	}
	return buf.Bytes(), nil
}

func (g *ReportGenerator) generateTextReport(report *RunReport) ([]byte, error) {
	var buf bytes.Buffer
	if report.RunID != "" {
		fmt.Fprintf(&buf, "Run %s (%d files)\n", report.RunID, report.Files)
	}

	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	for _, ks := range []models.KindSummary{report.Summary.Outbound, report.Summary.Inbound} {
		fmt.Fprintf(tw, "\n[%s] %s\t%d\n", kindLabel(ks.Kind), "합계", ks.Total)
		if ks.IsEmpty() {
			fmt.Fprintln(tw, "  (없음)\t")
			continue
		}
		for _, c := range ks.Counts {
			fmt.Fprintf(tw, "  %s\t%d\n", c.Category, c.Count)
		}
	}
	if err := tw.Flush(); err != nil {
		return nil, err
	}

	if len(report.FileErrors) > 0 {
		fmt.Fprintf(&buf, "\nSkipped files (%d):\n", len(report.FileErrors))
		for _, msg := range report.FileErrors {
			fmt.Fprintf(&buf, "  - %s\n", msg)
		}
	}
	return buf.Bytes(), nil
}

func kindLabel(kind models.SourceKind) string {
	switch kind {
	case models.SourceOutbound:
		return "출고"
	case models.SourceInbound:
		return "입고"
	}
	return string(kind)
}
