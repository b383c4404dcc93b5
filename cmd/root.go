// Package cmd implements the CLI command structure for simpletodo.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/nibzard/simpletodo/internal/config"
)

// Version is set via ldflags at build time.
var Version = "dev"

// Output streams, swapped in tests.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// Run executes the simpletodo CLI.
func Run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("simpletodo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand()
	}

	// Default to the interactive UI
	subcommand := "tui"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "version":
		return versionCommand()
	case "help":
		printUsage(fs, stdout)
		return nil
	case "config":
		return configCommand(cws, remainingArgs)
	case "doctor":
		return doctorCommand(ctx, cws, remainingArgs)
	}

	cfg := cws.Config
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	switch subcommand {
	case "tui":
		return tuiCommand(ctx, cfg, remainingArgs)
	case "add":
		return addCommand(ctx, cfg, remainingArgs)
	case "ls", "list":
		return lsCommand(ctx, cfg, remainingArgs)
	case "done", "toggle":
		return doneCommand(ctx, cfg, remainingArgs)
	case "edit":
		return editCommand(ctx, cfg, remainingArgs)
	case "rm", "remove":
		return rmCommand(ctx, cfg, remainingArgs)
	case "logs":
		return logsCommand(ctx, cfg, remainingArgs)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// versionCommand prints version information.
func versionCommand() error {
	fmt.Fprintf(stdout, "simpletodo version %s\n", Version)
	return nil
}

// printUsage prints the usage message.
func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "simpletodo - a small task list for the terminal")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  simpletodo [options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  tui [-inline]      Interactive task list (default command)")
	fmt.Fprintln(w, "  add <text>         Add a task")
	fmt.Fprintln(w, "  ls                 List tasks")
	fmt.Fprintln(w, "  done <id|#n>       Toggle a task's completion")
	fmt.Fprintln(w, "  edit <id|#n> <text>  Replace a task's text")
	fmt.Fprintln(w, "  rm <id|#n>         Remove a task")
	fmt.Fprintln(w, "  logs               Show interactive session logs")
	fmt.Fprintln(w, "  config             Show the effective configuration")
	fmt.Fprintln(w, "  doctor             Check configuration, storage and stored data")
	fmt.Fprintln(w, "  version            Show version information")
	fmt.Fprintln(w, "  help               Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Tasks are addressed by id or by 1-based position (#2).")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fs.SetOutput(stderr)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (use with 'ls' command):")
	fmt.Fprintln(w, "  -done        Only completed tasks")
	fmt.Fprintln(w, "  -pending     Only open tasks")
	fmt.Fprintln(w, "  -json        Print the stored JSON record")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Logs Options (use with 'logs' command):")
	fmt.Fprintln(w, "  -f, -follow  Follow the latest log (like tail -f)")
	fmt.Fprintln(w, "  -n int       Number of lines to show (0 = all)")
	fmt.Fprintln(w, "  -list        List session logs")
	fmt.Fprintln(w, "  -prune int   Keep only the newest n session logs")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Config Options (use with 'config' command):")
	fmt.Fprintln(w, "  -example     Print an example config file")
	fmt.Fprintln(w, "  -path        Print the user config file location")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment variables SIMPLETODO_* override config files; flags override both.")
}
