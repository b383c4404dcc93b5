package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"

	"github.com/nibzard/simpletodo/internal/config"
	"github.com/nibzard/simpletodo/internal/todo"
)

// withWorkspace runs fn against the loaded list and always closes storage.
func withWorkspace(ctx context.Context, cfg *config.Config, fn func(*workspace) error) (err error) {
	w, err := openWorkspace(ctx, cfg, newLogger(cfg))
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.close(ctx))
	}()
	return fn(w)
}

// addCommand appends a task. All arguments are joined with spaces.
func addCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("simpletodo add", flag.ContinueOnError)
	fs.SetOutput(stderr)
	quiet := fs.Bool("q", false, "Print only the new task id")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return errors.New("add: missing task text")
	}
	text := strings.Join(fs.Args(), " ")

	return withWorkspace(ctx, cfg, func(w *workspace) error {
		w.app.SetInput(text)
		task, err := w.app.Submit()
		if err != nil {
			return fmt.Errorf("add: %w", err)
		}
		if *quiet {
			fmt.Fprintln(stdout, task.ID)
			return nil
		}
		fmt.Fprintf(stdout, "Added %s: %s\n", task.ID, task.Text)
		return nil
	})
}

// lsCommand lists tasks in stored order.
func lsCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("simpletodo ls", flag.ContinueOnError)
	fs.SetOutput(stderr)
	onlyDone := fs.Bool("done", false, "Only completed tasks")
	onlyPending := fs.Bool("pending", false, "Only open tasks")
	asJSON := fs.Bool("json", false, "Print the stored JSON record")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if *onlyDone && *onlyPending {
		return errors.New("ls: -done and -pending are mutually exclusive")
	}

	return withWorkspace(ctx, cfg, func(w *workspace) error {
		if *asJSON {
			return printRecord(ctx, w)
		}

		tasks := w.app.Tasks()

		printed := 0
		for i, t := range tasks {
			if (*onlyDone && !t.IsCompleted) || (*onlyPending && t.IsCompleted) {
				continue
			}
			printTask(i+1, t)
			printed++
		}
		if printed == 0 {
			fmt.Fprintln(stdout, "No tasks found.")
			return nil
		}
		fmt.Fprintf(stdout, "\n%d of %d done\n", tasks.Completed(), tasks.Len())
		return nil
	})
}

// printRecord writes the stored value as is, or an empty record when the
// key has never been written.
func printRecord(ctx context.Context, w *workspace) error {
	data, found, err := w.gateway.Load(ctx)
	if err != nil {
		return err
	}
	if !found {
		if data, err = todo.Encode(nil); err != nil {
			return err
		}
	}
	fmt.Fprintln(stdout, strings.TrimRight(string(data), "\n"))
	return nil
}

// doneCommand toggles completion of one task.
func doneCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: simpletodo done <id|#n>")
	}
	return withWorkspace(ctx, cfg, func(w *workspace) error {
		id, err := resolveID(w.app.Tasks(), args[0])
		if err != nil {
			return fmt.Errorf("done: %w", err)
		}
		if err := w.app.Toggle(id); err != nil {
			return fmt.Errorf("done: %w", err)
		}
		task, _ := w.app.Tasks().Get(id)
		state := "Reopened"
		if task.IsCompleted {
			state = "Completed"
		}
		fmt.Fprintf(stdout, "%s %s: %s\n", state, task.ID, task.Text)
		return nil
	})
}

// editCommand replaces the text of one task through the same edit session
// the interactive UI uses.
func editCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 2 {
		return errors.New("usage: simpletodo edit <id|#n> <text>")
	}
	text := strings.Join(args[1:], " ")
	return withWorkspace(ctx, cfg, func(w *workspace) error {
		id, err := resolveID(w.app.Tasks(), args[0])
		if err != nil {
			return fmt.Errorf("edit: %w", err)
		}
		if err := w.app.StartEdit(id); err != nil {
			return fmt.Errorf("edit: %w", err)
		}
		w.app.SetInput(text)
		task, err := w.app.Submit()
		if err != nil {
			return fmt.Errorf("edit: %w", err)
		}
		fmt.Fprintf(stdout, "Updated %s: %s\n", task.ID, task.Text)
		return nil
	})
}

// rmCommand removes one task.
func rmCommand(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: simpletodo rm <id|#n>")
	}
	return withWorkspace(ctx, cfg, func(w *workspace) error {
		id, err := resolveID(w.app.Tasks(), args[0])
		if err != nil {
			return fmt.Errorf("rm: %w", err)
		}
		task, _ := w.app.Tasks().Get(id)
		if err := w.app.Delete(id); err != nil {
			return fmt.Errorf("rm: %w", err)
		}
		fmt.Fprintf(stdout, "Removed %s: %s\n", task.ID, task.Text)
		return nil
	})
}

func printTask(pos int, t todo.Task) {
	check := " "
	if t.IsCompleted {
		check = "x"
	}
	fmt.Fprintf(stdout, "%3d. [%s] %s  %s\n", pos, check, t.ID, t.Text)
}
