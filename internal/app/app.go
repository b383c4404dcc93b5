// Package app wires the task list, the input session and persistence
// together and exposes one method per user event.
package app

import (
	"errors"

	"github.com/charmbracelet/log"

	"github.com/nibzard/simpletodo/internal/session"
	"github.com/nibzard/simpletodo/internal/todo"
)

// Saver receives the full list after every successful mutation.
// persist.Gateway implements it.
type Saver interface {
	Save(todo.List)
}

// Option configures an App.
type Option func(*App)

// WithIDGenerator overrides the timestamp id generator.
func WithIDGenerator(ids todo.IDGenerator) Option {
	return func(a *App) {
		if ids != nil {
			a.ids = ids
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// App is the single mutator of the task list. It is not safe for
// concurrent use; events are expected one at a time.
type App struct {
	tasks  todo.List
	sess   session.Session
	ids    todo.IDGenerator
	saver  Saver
	logger *log.Logger
}

// New seeds the app with the list loaded at startup.
func New(initial todo.List, saver Saver, opts ...Option) *App {
	if initial == nil {
		initial = todo.List{}
	}
	a := &App{
		tasks:  initial,
		ids:    todo.TimestampIDs{},
		saver:  saver,
		logger: log.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Tasks returns the current list. Callers must not modify it.
func (a *App) Tasks() todo.List {
	return a.tasks
}

// Session returns a copy of the input session.
func (a *App) Session() session.Session {
	return a.sess
}

// SetInput mirrors the input line.
func (a *App) SetInput(text string) {
	a.sess.SetInput(text)
}

// Submit adds the input as a new task, or commits it as the new text of
// the task under edit. On a validation error nothing changes and the input
// is kept. Committing to a task that has since been removed ends the edit
// without touching the list.
func (a *App) Submit() (todo.Task, error) {
	if a.sess.Editing() {
		return a.commitEdit()
	}

	next, task, err := a.tasks.Add(a.sess.Input, a.ids)
	if err != nil {
		return todo.Task{}, err
	}
	a.apply(next)
	a.sess.Clear()
	a.logger.Debug("task added", "id", task.ID)
	return task, nil
}

func (a *App) commitEdit() (todo.Task, error) {
	id := a.sess.EditingID
	next, err := a.tasks.Edit(id, a.sess.Input)
	if err != nil {
		if errors.Is(err, todo.ErrNotFound) {
			a.logger.Debug("edit target vanished", "id", id)
			a.sess.Clear()
		}
		return todo.Task{}, err
	}
	a.apply(next)
	a.sess.Clear()
	task, _ := next.Get(id)
	a.logger.Debug("task edited", "id", id)
	return task, nil
}

// StartEdit loads the task's text into the input and marks it as the edit
// target, replacing any edit already in progress.
func (a *App) StartEdit(id string) error {
	task, ok := a.tasks.Get(id)
	if !ok {
		return &todo.NotFoundError{ID: id}
	}
	if a.sess.Editing() && a.sess.EditingID != id {
		a.logger.Debug("abandoning edit", "id", a.sess.EditingID, "next", id)
	}
	a.sess.BeginEdit(task)
	return nil
}

// CancelEdit ends the edit session and clears the input.
func (a *App) CancelEdit() {
	a.sess.Cancel()
}

// Toggle flips the completion state of a task.
func (a *App) Toggle(id string) error {
	next, err := a.tasks.Toggle(id)
	if err != nil {
		return err
	}
	a.apply(next)
	a.logger.Debug("task toggled", "id", id)
	return nil
}

// Delete removes a task.
func (a *App) Delete(id string) error {
	next, err := a.tasks.Remove(id)
	if err != nil {
		return err
	}
	a.apply(next)
	a.logger.Debug("task removed", "id", id)
	return nil
}

func (a *App) apply(next todo.List) {
	a.tasks = next
	if a.saver != nil {
		a.saver.Save(next)
	}
}

// IgnoreNotFound maps todo.ErrNotFound to nil. Stale ids from the UI are
// treated as no-ops.
func IgnoreNotFound(err error) error {
	if errors.Is(err, todo.ErrNotFound) {
		return nil
	}
	return err
}
