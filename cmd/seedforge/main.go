package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kk-code-lab/seedforge/internal/app"
	"github.com/kk-code-lab/seedforge/internal/corpus"
	"github.com/kk-code-lab/seedforge/internal/index"
)

func main() {
	showVersion := flag.Bool("version", false, "Print version and exit")
	showVersionShort := flag.Bool("v", false, "Print version and exit (shorthand)")
	out := flag.String("out", "", "Corpus output root (overrides config)")
	configPath := flag.String("config", "", "Optional YAML layout config")
	mode := flag.String("mode", "generate", "Mode: generate|status")
	noIndex := flag.Bool("no-index", false, "Skip writing the SQLite corpus index")
	jsonOut := flag.Bool("json", false, "Output report as JSON")
	flag.Parse()

	if *showVersion || *showVersionShort {
		fmt.Printf("seedforge %s (commit %s)\n", app.Version, app.BuildCommit)
		return
	}
	if flag.NArg() > 0 {
		fmt.Fprintln(os.Stderr, "unknown arguments:", flag.Args())
		os.Exit(2)
	}

	var cfg corpus.Config
	if *configPath != "" {
		loaded, err := corpus.LoadConfig(*configPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	layout := cfg.Layout(*out)

	report, err := run(*mode, layout, *noIndex)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s error: %v\n", *mode, err)
		os.Exit(1)
	}
	if *jsonOut {
		if err := writeJSON(report); err != nil {
			fmt.Fprintf(os.Stderr, "report error: %v\n", err)
			os.Exit(1)
		}
		return
	}
	printReport(report)
}

func run(mode string, layout corpus.Layout, noIndex bool) (*corpus.Report, error) {
	switch mode {
	case "generate":
		entries, err := corpus.Catalog(layout)
		if err != nil {
			return nil, err
		}
		var store *index.Store
		if !noIndex {
			if err := os.MkdirAll(layout.Root, 0o755); err != nil {
				return nil, err
			}
			store, err = index.Open(filepath.Join(layout.Root, "index.db"))
			if err != nil {
				return nil, err
			}
			defer store.Close()
		}
		return corpus.Assemble(layout, entries, store)
	case "status":
		return corpus.Status(layout)
	default:
		return nil, fmt.Errorf("unknown mode %q", mode)
	}
}

func printReport(r *corpus.Report) {
	fmt.Printf("corpus %s root=%s\n", r.Mode, r.Root)
	for _, st := range r.Categories {
		fmt.Printf("  %-16s files=%d bytes=%d\n", st.Category, st.Files, st.Bytes)
	}
	fmt.Printf("total files=%d bytes=%d", r.Files, r.TotalBytes)
	if r.Errors > 0 {
		fmt.Printf(" errors=%d", r.Errors)
	}
	fmt.Println()
	for _, sample := range r.ErrorSample {
		fmt.Fprintf(os.Stderr, "error: %s\n", sample)
	}
}
