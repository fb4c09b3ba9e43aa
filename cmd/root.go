// Package cmd implements the CLI command structure for taskpad.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"taskpad/internal/config"
	"taskpad/internal/logging"
	"taskpad/internal/task"
	"taskpad/internal/ui"
	"taskpad/internal/view"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Run executes the taskpad CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("taskpad", flag.ContinueOnError)
	fs.Usage = func() {
		printUsage(fs, os.Stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	cfg, err := config.Load(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, os.Stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Determine the subcommand; with no args the TUI runs.
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "tui", "run":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "check":
		return checkCommand(cfg, remainingArgs)
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, os.Stdout)
		return nil
	default:
		// A bare existing file path opens that task file.
		if fi, err := os.Stat(subcommand); err == nil && !fi.IsDir() {
			cfg.DataFile = subcommand
			return tuiCommand(ctx, cfg, remainingArgs)
		}
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, os.Stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// tuiCommand runs the interactive screen.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	if len(args) == 1 {
		cfg.DataFile = args[0]
	}

	// The TUI owns the terminal, so logs go to a per-run file. Losing the
	// log file is not fatal.
	var w io.Writer = io.Discard
	if f, err := logging.OpenRunFile(cfg.LogDir); err == nil {
		defer f.Close()
		w = f
		if err := logging.PruneRunFiles(cfg.LogDir, 20); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: pruning old logs: %v\n", err)
		}
	}
	logger := logging.New(w, logging.Options{
		Level:           cfg.LogLevel,
		Format:          cfg.LogFormat,
		ReportTimestamp: true,
		Prefix:          "taskpad",
	})

	store := task.Open(cfg.DataFile, logger)
	return ui.Run(ctx, store, logger, view.Parse(cfg.DefaultFilter))
}

// checkCommand validates the task file against the schema.
func checkCommand(cfg *config.Config, args []string) error {
	if len(args) > 1 {
		return fmt.Errorf("unexpected arguments: %v", args[1:])
	}
	path := cfg.DataFile
	if len(args) == 1 {
		path = args[0]
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		fmt.Printf("No task file at %s (a fresh one is created on first save)\n", path)
		return nil
	}

	result := task.ValidateFile(path)
	for _, w := range result.Warnings {
		fmt.Printf("Warning: %s\n", w)
	}
	if result.Valid {
		fmt.Printf("%s: OK\n", path)
		return nil
	}
	for _, e := range result.Errors {
		fmt.Printf("Error: %s\n", e)
	}
	return fmt.Errorf("%s: %d problem(s) found", path, len(result.Errors))
}

func versionCommand() error {
	fmt.Printf("taskpad %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintf(w, `taskpad - terminal to-do list

Usage:
  taskpad [flags]              Open the interactive task screen
  taskpad tui [file]           Same, with an explicit task file
  taskpad check [file]         Validate a task file against the schema
  taskpad version              Print version
  taskpad help                 Show this help

Flags:
`)
	fs.SetOutput(w)
	fs.PrintDefaults()
}
