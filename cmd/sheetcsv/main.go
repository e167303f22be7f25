// Package main provides the CLI entry point for sheetcsv.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/ukaji3/sheetcsv-go/internal/config"
	"github.com/ukaji3/sheetcsv-go/internal/logging"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv"
	"github.com/ukaji3/sheetcsv-go/pkg/sheetcsv/processor"
)

var (
	configPath  string
	delimiter   string
	escape      string
	utf8Encoded bool
	sheets      string
	charset     string
	replace     bool
	outDir      string
	originalDir string
	jobs        int
	watchDir    string
	logLevel    string
	logFormat   string
)

func main() {
	rootCmd := newRootCmd()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "sheetcsv [flags] <input.xlsx|input.xls|->...",
		Short: "Convert Excel workbooks to CSV, one file per sheet",
		Long: `sheetcsv converts each sheet of XLS and XLSX workbooks to delimited text.
Use "-" to read a workbook from stdin, or --watch to convert workbooks as
they appear in a directory.`,
		SilenceUsage: true,
		RunE:         run,
	}

	flags := rootCmd.Flags()
	flags.StringVar(&configPath, "config", "", "TOML configuration file")
	flags.StringVarP(&delimiter, "delimiter", "d", ",", `Field delimiter ("\t" for tab)`)
	flags.StringVar(&escape, "escape", "Windows", "Escape convention: Windows, Unix, None")
	flags.BoolVar(&utf8Encoded, "utf8", false, "Write UTF-8 with a byte-order marker")
	flags.StringVar(&sheets, "sheets", "", "Comma-separated sheet names to export (default: all)")
	flags.StringVar(&charset, "charset", sheetcsv.DefaultCharset, "Output charset when --utf8 is not set")
	flags.BoolVar(&replace, "replace-unsupported", false, `Write "?" for characters the charset cannot represent`)
	flags.StringVarP(&outDir, "out-dir", "o", ".", "Directory for converted files")
	flags.StringVar(&originalDir, "original-dir", "", "Directory receiving a copy of every input")
	flags.IntVar(&jobs, "jobs", 4, "Maximum number of inputs converted in parallel")
	flags.StringVar(&watchDir, "watch", "", "Watch a directory and convert new workbooks")
	flags.StringVar(&logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	flags.StringVar(&logFormat, "log-format", "text", "Log format: text, json")

	return rootCmd
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if len(args) == 0 && cfg.Watch.Dir == "" {
		return fmt.Errorf("requires at least one input or --watch")
	}

	logger := logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	exportCfg, err := cfg.Export.SheetCSV()
	if err != nil {
		return err
	}
	proc, err := processor.NewWithConfig(exportCfg, logger)
	if err != nil {
		return err
	}

	c := &converter{
		proc:        proc,
		outDir:      cfg.Output.Dir,
		originalDir: cfg.Output.OriginalDir,
		logger:      logger,
	}

	if len(args) > 0 {
		if err := c.convertAll(cmd.Context(), args, cfg.Output.Jobs); err != nil {
			return err
		}
	}
	if cfg.Watch.Dir != "" {
		return c.watch(cmd.Context(), cfg.Watch.Dir, cfg.Watch.Debounce)
	}
	return nil
}

// applyFlags overrides file and environment settings with flags set on the
// command line.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		cfg.Export.Delimiter = delimiter
	}
	if flags.Changed("escape") {
		cfg.Export.EscapeConvention = escape
	}
	if flags.Changed("utf8") {
		cfg.Export.UTF8Encoded = utf8Encoded
	}
	if flags.Changed("sheets") {
		cfg.Export.ExtractSheets = sheetcsv.ParseSheetList(sheets)
	}
	if flags.Changed("charset") {
		cfg.Export.Charset = charset
	}
	if flags.Changed("replace-unsupported") {
		cfg.Export.ReplaceUnsupported = replace
	}
	if flags.Changed("out-dir") {
		cfg.Output.Dir = outDir
	}
	if flags.Changed("original-dir") {
		cfg.Output.OriginalDir = originalDir
	}
	if flags.Changed("jobs") {
		cfg.Output.Jobs = jobs
	}
	if flags.Changed("watch") {
		cfg.Watch.Dir = watchDir
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = logFormat
	}
}
