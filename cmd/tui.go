package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/nibzard/simpletodo/internal/config"
	"github.com/nibzard/simpletodo/internal/logging"
	"github.com/nibzard/simpletodo/internal/ui"
)

// keepSessionLogs is how many session logs survive the prune at startup.
const keepSessionLogs = 20

// tuiCommand runs the interactive list. While it owns the terminal, logs go
// to a session file under log_dir.
func tuiCommand(ctx context.Context, cfg *config.Config, args []string) (err error) {
	fs := flag.NewFlagSet("simpletodo tui", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inline := fs.Bool("inline", false, "Draw below the prompt instead of using the alternate screen")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if !ui.IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY (use 'simpletodo ls' or 'simpletodo add')")
	}

	logger, closeLog := sessionLogger(cfg)
	defer closeLog()

	w, err := openWorkspace(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := w.close(ctx); cerr != nil {
			logger.Error("closing storage", "err", cerr)
			if err == nil {
				err = cerr
			}
		}
	}()

	logger.Info("session started", "storage", cfg.Storage, "tasks", w.app.Tasks().Len())
	return ui.RunTUI(ctx, w.app, ui.WithSaveErrors(w.saveErrs), ui.WithAltScreen(!*inline))
}

// sessionLogger opens a run log in cfg.LogDir and prunes old ones. If the
// log cannot be created, logging is discarded.
func sessionLogger(cfg *config.Config) (*log.Logger, func()) {
	runLog, err := logging.NewRunLogger(cfg.LogDir)
	if err != nil {
		newLogger(cfg).Warn("session log disabled", "err", err)
		return logging.Discard(), func() {}
	}

	logger := logging.New(runLog.Writer(), logging.OptionsFromConfig(cfg))
	if removed, err := logging.PruneRuns(cfg.LogDir, keepSessionLogs); err != nil {
		logger.Warn("pruning session logs", "err", err)
	} else if removed > 0 {
		logger.Debug("pruned session logs", "removed", removed)
	}
	return logger, func() { runLog.Close() }
}
