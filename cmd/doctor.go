package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/nibzard/simpletodo/internal/config"
	"github.com/nibzard/simpletodo/internal/kv"
	"github.com/nibzard/simpletodo/internal/persist"
	"github.com/nibzard/simpletodo/internal/todo"
)

// doctorCommand checks the configuration, the storage backend and the
// stored record. Unlike normal loading, the record is validated strictly.
func doctorCommand(ctx context.Context, cws *config.ConfigWithSources, args []string) error {
	fs := flag.NewFlagSet("simpletodo doctor", flag.ContinueOnError)
	fs.SetOutput(stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	cfg := cws.Config

	fmt.Fprintln(stdout, "simpletodo doctor")
	fmt.Fprintln(stdout, "=================")
	fmt.Fprintln(stdout)

	allOK := true

	// Check config
	fmt.Fprintln(stdout, "Config:")
	for _, f := range cws.Files {
		fmt.Fprintf(stdout, "  file: %s\n", f)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ Valid")
	}
	if *verbose {
		for _, f := range cws.Fields() {
			fmt.Fprintf(stdout, "     %s = %s (%s)\n", f.Name, f.Value, f.Source)
		}
	}
	fmt.Fprintln(stdout)

	// Check storage and stored record
	fmt.Fprintf(stdout, "Storage: %s (key %q)\n", cfg.Storage, cfg.StorageKey)
	if allOK {
		if !checkStorage(ctx, cfg, *verbose) {
			allOK = false
		}
	} else {
		fmt.Fprintln(stdout, "  ⚠️  Skipped (fix config first)")
	}
	fmt.Fprintln(stdout)

	// Check log directory
	fmt.Fprintf(stdout, "Log directory: %s\n", cfg.LogDir)
	if info, err := os.Stat(cfg.LogDir); err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintln(stdout, "  ⚠️  Not found (will be created by tui)")
		} else {
			fmt.Fprintf(stdout, "  ❌ Error: %v\n", err)
			allOK = false
		}
	} else if !info.IsDir() {
		fmt.Fprintln(stdout, "  ❌ Error: path is not a directory")
		allOK = false
	} else {
		fmt.Fprintln(stdout, "  ✅ OK")
	}
	fmt.Fprintln(stdout)

	if allOK {
		fmt.Fprintln(stdout, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(stdout, "⚠️  Some checks failed.")
	return errors.New("doctor checks failed")
}

func checkStorage(ctx context.Context, cfg *config.Config, verbose bool) bool {
	store, err := openStore(ctx, cfg)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		return false
	}
	defer store.Close()
	fmt.Fprintln(stdout, "  ✅ Reachable")

	gw := persist.New(store, persist.WithKey(cfg.StorageKey), persist.WithLogger(newLogger(cfg)))
	defer gw.Close(ctx)

	if verbose {
		switch s := store.(type) {
		case *kv.FileStore:
			fmt.Fprintf(stdout, "     record: %s\n", s.Path(gw.Key()))
		case *kv.SQLStore:
			fmt.Fprintf(stdout, "     record: kv_store row %q (drivers: %s)\n", gw.Key(), strings.Join(kv.SQLDrivers(), ", "))
		default:
			fmt.Fprintf(stdout, "     record: key %q\n", gw.Key())
		}
	}

	data, found, err := gw.Load(ctx)
	if err != nil {
		fmt.Fprintf(stdout, "  ❌ %v\n", err)
		return false
	}
	if !found {
		fmt.Fprintln(stdout, "  ⚠️  No stored tasks yet")
		return true
	}

	tasks, err := todo.Parse(data)
	if err != nil {
		fmt.Fprintln(stdout, "  ❌ Stored record is invalid (it will be read as an empty list):")
		for _, e := range unjoin(err) {
			fmt.Fprintf(stdout, "     - %v\n", e)
		}
		return false
	}
	fmt.Fprintf(stdout, "  ✅ %d task(s), %d done\n", tasks.Len(), tasks.Completed())
	if verbose {
		for i, t := range tasks {
			fmt.Fprint(stdout, "  ")
			printTask(i+1, t)
		}
	}
	return true
}

// unjoin splits an errors.Join result into its parts.
func unjoin(err error) []error {
	if j, ok := err.(interface{ Unwrap() []error }); ok {
		return j.Unwrap()
	}
	return []error{err}
}
