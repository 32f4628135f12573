package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"filematch/internal/config"
	"filematch/internal/match"
	"filematch/internal/progress"
	"filematch/internal/render"
	"filematch/internal/scan"
)

const (
	formatConsole = "console"
	formatCSV     = "csv"
	formatJSON    = "json"
	formatXLSX    = "xlsx"
)

// commonOptions holds the flags shared by the dupes and compare commands.
type commonOptions struct {
	configPath string
	workers    int
	format     string
	output     string
	noThumbs   bool
}

func (o *commonOptions) bindFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.configPath, "config", "c", "filematch.yaml", "config file path")
	cmd.Flags().IntVarP(&o.workers, "workers", "w", 0, "number of worker goroutines (default 2x CPUs)")
	cmd.Flags().StringVar(&o.format, "format", formatConsole, "output format: console, csv, json or xlsx")
	cmd.Flags().StringVarP(&o.output, "output", "o", "", "output file path (file formats only)")
	cmd.Flags().BoolVar(&o.noThumbs, "no-thumbs", false, "skip image previews in xlsx output")
}

// resolve loads the config file and folds it into the options: flags win,
// then config values, then built-in defaults.
func (o *commonOptions) resolve() (*config.Config, error) {
	cfg, err := config.LoadConfig(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if o.workers <= 0 {
		o.workers = cfg.Workers
	}
	if o.workers <= 0 {
		o.workers = runtime.NumCPU() * 2
	}

	o.format = strings.ToLower(strings.TrimSpace(o.format))
	switch o.format {
	case formatConsole, formatCSV, formatJSON, formatXLSX:
	default:
		return nil, fmt.Errorf("unsupported format %q, allowed values: console, csv, json, xlsx", o.format)
	}

	if o.output == "" {
		o.output = cfg.Output
	}

	return cfg, nil
}

// scanOptions builds the scan configuration, picking a progress reporter
// that fits the terminal: a redrawing bar on a TTY, a plain every-N-files
// log otherwise. Progress goes to stderr so file output stays clean.
func (o *commonOptions) scanOptions(cfg *config.Config) scan.Options {
	var rep progress.Reporter
	if isatty.IsTerminal(os.Stderr.Fd()) {
		rep = progress.NewBar(os.Stderr)
	} else {
		rep = progress.NewLog(os.Stderr, cfg.ProgressEvery)
	}

	return scan.Options{
		Exclude:  cfg.Exclude,
		Workers:  o.workers,
		Reporter: rep,
	}
}

// reportSkipped enumerates the files excluded from the scan and any
// directories the walk could not enter. Skips are informational: they never
// change the exit status.
func reportSkipped(results ...*scan.Result) {
	total := 0
	for _, r := range results {
		total += len(r.Skipped)
	}
	if total > 0 {
		fmt.Fprintf(os.Stderr, "skipped %d unreadable files:\n", total)
		for _, r := range results {
			for _, s := range r.Skipped {
				fmt.Fprintf(os.Stderr, "  %s\n", s)
			}
		}
	}

	for _, r := range results {
		for _, err := range r.WalkErrors {
			fmt.Fprintf(os.Stderr, "walk: %v\n", err)
		}
	}
}

// defaultOutput names the output artifact after the scanned tree, next to
// the tree itself, the way the original report files were laid out.
func defaultOutput(root, stem, ext string) string {
	name := fmt.Sprintf("%s_%s.%s", stem, filepath.Base(root), ext)
	return filepath.Join(filepath.Dir(root), name)
}

// writeReport renders the report in the selected format. Console output goes
// to the command's stdout; file formats are written to outPath.
func (o *commonOptions) writeReport(cmd *cobra.Command, rep match.Report, labels render.Labels, outPath string) error {
	switch o.format {
	case formatConsole:
		colored := isatty.IsTerminal(os.Stdout.Fd()) && !color.NoColor
		return render.Console(cmd.OutOrStdout(), rep, labels, colored)

	case formatCSV:
		f, err := createOutput(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		if err := render.CSV(f, rep, labels); err != nil {
			return err
		}
		return f.Close()

	case formatJSON:
		return render.JSONFile(outPath, rep, labels)

	case formatXLSX:
		return render.XLSX(outPath, rep, render.XLSXOptions{
			Labels:     labels,
			Thumbnails: !o.noThumbs,
		})

	default:
		return fmt.Errorf("unsupported format %q", o.format)
	}
}

func createOutput(path string) (*os.File, error) {
	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if err := os.MkdirAll(directory, 0o755); err != nil {
			return nil, fmt.Errorf("create output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	return f, nil
}
