// Package config defines the JSON-serializable configuration model for the
// sales report pipeline. It is intentionally small and explicit so a run can
// be described by a single file, decoded with the standard library, and
// passed through the program without extra glue.
package config

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Pipeline is the top-level object decoded from a config file.
type Pipeline struct {
	// Sources names the two input tables.
	Sources Sources `json:"sources"`

	// Report controls the textual summary.
	Report Report `json:"report"`

	// Charts selects and styles the rendered chart artifacts.
	Charts Charts `json:"charts"`

	// Export optionally persists the unified table and aggregate views to a
	// database after the report is written.
	Export Export `json:"export"`

	// Dashboard configures the interactive HTTP front end (salesdash only).
	Dashboard Dashboard `json:"dashboard"`
}

// Sources holds the input file paths. Format is chosen by extension:
// .csv (default) or .xlsx.
type Sources struct {
	Customers string `json:"customers"`
	Sales     string `json:"sales"`
}

// Report controls the text report.
type Report struct {
	// OutputDir receives the chart artifacts and is echoed in the report's
	// final line. Created on demand.
	OutputDir string `json:"output_dir"`

	// TopN bounds the customer and combo tables. 0 means 5.
	TopN int `json:"top_n"`
}

// Charts selects which charts render and with what styling.
type Charts struct {
	// Enabled lists chart names; empty renders the default set.
	Enabled []string `json:"enabled"`

	// Palette lists series colors in order; empty keeps library defaults.
	Palette []string `json:"palette"`
}

// Export configures the optional database sink.
type Export struct {
	// Enabled turns the export stage on.
	Enabled bool `json:"enabled"`

	// Kind names a registered storage backend ("sqlite", "postgres").
	Kind string `json:"kind"`

	// DSN is handed to the backend driver.
	DSN string `json:"dsn"`

	// TablePrefix is prepended to every exported table name.
	TablePrefix string `json:"table_prefix"`
}

// Dashboard configures the interactive server.
type Dashboard struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `json:"addr"`
}

// Default returns the configuration used when no file is given.
func Default() Pipeline {
	return Pipeline{
		Sources: Sources{
			Customers: "data/customer_data.csv",
			Sales:     "data/sales_data.csv",
		},
		Report: Report{OutputDir: "outputs", TopN: 5},
		Charts: Charts{
			Palette: []string{"#6366f1", "#8b5cf6", "#ec4899", "#10b981", "#f59e0b", "#06b6d4"},
		},
		Export:    Export{Kind: "sqlite", DSN: "salesreport.db", TablePrefix: "sr_"},
		Dashboard: Dashboard{Addr: ":8080"},
	}
}

// Load decodes a Pipeline from the file at path, layered over Default.
func Load(path string) (Pipeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return Pipeline{}, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode decodes a Pipeline from r, layered over Default. Unknown fields are
// rejected so typos surface instead of silently falling back to defaults.
func Decode(r io.Reader) (Pipeline, error) {
	p := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&p); err != nil {
		return Pipeline{}, fmt.Errorf("decode config: %w", err)
	}
	return p, nil
}
