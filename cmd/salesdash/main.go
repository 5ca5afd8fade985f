package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"salesreport/internal/config"
	"salesreport/internal/loader"
	"salesreport/internal/sales"
	"salesreport/internal/viz"
	"salesreport/internal/webui"
)

// main is the entry point for the interactive dashboard. It loads and merges
// the dataset once at startup and serves it over HTTP; filters and charts
// are computed per request.
func main() {
	var (
		cfgPath   string
		customers string
		salesPath string
		addr      string
	)

	flag.StringVar(&cfgPath, "config", "", "pipeline config JSON path (defaults apply when empty)")
	flag.StringVar(&customers, "customers", "", "customers file path (overrides config)")
	flag.StringVar(&salesPath, "sales", "", "sales file path (overrides config)")
	flag.StringVar(&addr, "addr", "", "listen address (overrides config)")
	verbose := flag.Bool("v", false, "enable verbose logs")

	flag.Parse()

	if !*verbose {
		log.SetOutput(io.Discard)
	}

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
	if addr != "" {
		cfg.Dashboard.Addr = addr
	}

	custRows, saleRows, err := loader.Load(cfg.Sources.Customers, cfg.Sources.Sales)
	if err != nil {
		fatalf("load: %v", err)
	}
	unified, err := sales.Merge(custRows, saleRows)
	if err != nil {
		fatalf("merge: %v", err)
	}
	log.Printf("dataset ready: %d customers, %d sale lines", len(custRows), len(unified))

	srv := webui.NewServer(webui.Config{
		Addr:  cfg.Dashboard.Addr,
		Theme: viz.Theme{Palette: cfg.Charts.Palette},
	}, custRows, unified)
	if err := srv.ListenAndServe(); err != nil {
		fatalf("serve: %v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
