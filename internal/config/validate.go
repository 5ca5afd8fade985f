package config

import (
	"fmt"
	"strings"

	"salesreport/internal/report"
)

// IssueSeverity grades a validation finding.
type IssueSeverity string

const (
	// SeverityError blocks execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning is surfaced but does not block.
	SeverityWarning IssueSeverity = "warning"
)

// Issue is a single validation finding. Path is a dotted path into the
// config (e.g. "export.kind").
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements error so an Issue can stand alone where one is expected.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// Validate statically checks a Pipeline and returns all findings. It never
// touches the filesystem; a configured-but-missing input surfaces later as
// SourceNotFound from the loader.
func Validate(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Sources.Customers) == "" {
		issues = append(issues, Issue{SeverityError, "sources.customers", "customers path must not be empty"})
	}
	if strings.TrimSpace(p.Sources.Sales) == "" {
		issues = append(issues, Issue{SeverityError, "sources.sales", "sales path must not be empty"})
	}
	if strings.TrimSpace(p.Report.OutputDir) == "" {
		issues = append(issues, Issue{SeverityError, "report.output_dir", "output_dir must not be empty"})
	}
	if p.Report.TopN < 0 {
		issues = append(issues, Issue{SeverityError, "report.top_n", "top_n must not be negative"})
	}

	for i, name := range p.Charts.Enabled {
		if !report.KnownChart(report.Chart(name)) {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     fmt.Sprintf("charts.enabled[%d]", i),
				Message:  fmt.Sprintf("unknown chart %q will be skipped", name),
			})
		}
	}

	if p.Export.Enabled {
		switch p.Export.Kind {
		case "sqlite", "postgres":
		case "":
			issues = append(issues, Issue{SeverityError, "export.kind", "export.kind must be set when export is enabled"})
		default:
			// Unknown kinds are warnings for forward compatibility; the
			// storage factory gives the authoritative answer at run time.
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "export.kind",
				Message:  fmt.Sprintf("unrecognized backend %q; the run will fail unless a backend registered it", p.Export.Kind),
			})
		}
		if strings.TrimSpace(p.Export.DSN) == "" {
			issues = append(issues, Issue{SeverityError, "export.dsn", "export.dsn must be set when export is enabled"})
		}
	}

	return issues
}

// HasErrors reports whether any finding is severity error.
func HasErrors(issues []Issue) bool {
	for _, iss := range issues {
		if iss.Severity == SeverityError {
			return true
		}
	}
	return false
}

// EnabledCharts maps the configured chart names onto the typed chart set,
// dropping unknown names (Validate already warned about them). An empty
// configuration yields the default set.
func EnabledCharts(p Pipeline) []report.Chart {
	if len(p.Charts.Enabled) == 0 {
		out := make([]report.Chart, len(report.DefaultCharts))
		copy(out, report.DefaultCharts)
		return out
	}
	var out []report.Chart
	for _, name := range p.Charts.Enabled {
		if c := report.Chart(name); report.KnownChart(c) {
			out = append(out, c)
		}
	}
	return out
}
