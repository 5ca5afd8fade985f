package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"salesreport/internal/config"
	"salesreport/internal/pipeline"

	// register all export backends with the storage factory.
	// config selects which one to use but all of them compile in.
	_ "salesreport/internal/storage/all"
)

// main is the entry point for the batch report binary. It loads the pipeline
// config, applies flag overrides, validates, and runs the four-stage
// pipeline: load, merge, aggregate, report.
func main() {
	var (
		cfgPath   string
		customers string
		salesPath string
		outDir    string
		validate  bool
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON path (defaults apply when empty)")
	flag.StringVar(&customers, "customers", "", "customers file path (overrides config)")
	flag.StringVar(&salesPath, "sales", "", "sales file path (overrides config)")
	flag.StringVar(&outDir, "out", "", "output directory (overrides config)")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	configureLogging(*verbose)

	cfg := config.Default()
	if cfgPath != "" {
		var err error
		cfg, err = config.Load(cfgPath)
		if err != nil {
			fatalf("load config: %v", err)
		}
	}
	if customers != "" {
		cfg.Sources.Customers = customers
	}
	if salesPath != "" {
		cfg.Sources.Sales = salesPath
	}
	if outDir != "" {
		cfg.Report.OutputDir = outDir
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasErrors(issues) {
		fatalf("configuration is invalid")
	}
	if validate {
		log.Printf("configuration is valid")
		return
	}

	if err := pipeline.Run(context.Background(), cfg, os.Stdout); err != nil {
		fatalf("pipeline: %v", err)
	}
}

// configureLogging silences the stage log lines unless -v is given; the
// report itself goes to stdout either way.
func configureLogging(verbose bool) {
	if verbose {
		log.SetOutput(os.Stderr)
		return
	}
	log.SetOutput(io.Discard)
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
