// Package ui provides the interactive terminal interface.
package ui

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nibzard/simpletodo/internal/app"
	"github.com/nibzard/simpletodo/internal/todo"
)

// EmptyTaskNotice is shown when a blank task is submitted.
const EmptyTaskNotice = "Task cannot be empty!"

var (
	cursorStyle  = lipgloss.NewStyle().Bold(true)
	editingStyle = lipgloss.NewStyle().Reverse(true)
	doneStyle    = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	statusStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
)

// TUIOption configures the TUI behavior.
type TUIOption func(*tuiConfig)

type tuiConfig struct {
	saveErrs  <-chan error
	altScreen bool
}

// WithSaveErrors shows errors received on ch in the status line.
func WithSaveErrors(ch <-chan error) TUIOption {
	return func(c *tuiConfig) {
		c.saveErrs = ch
	}
}

// WithAltScreen runs the program in the alternate screen buffer.
func WithAltScreen(enabled bool) TUIOption {
	return func(c *tuiConfig) {
		c.altScreen = enabled
	}
}

// RunTUI drives a until the user quits or ctx is cancelled.
func RunTUI(ctx context.Context, a *app.App, opts ...TUIOption) error {
	c := &tuiConfig{altScreen: true}
	for _, opt := range opts {
		opt(c)
	}

	if !IsTTY(os.Stdout) {
		return fmt.Errorf("tui requires a TTY")
	}

	programOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if c.altScreen {
		programOpts = append(programOpts, tea.WithAltScreen())
	}
	program := tea.NewProgram(newTUIModel(a, c.saveErrs), programOpts...)
	_, err := program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return ctx.Err()
	}
	return err
}

type tuiModel struct {
	app      *app.App
	cursor   int
	notice   string
	status   string
	saveErrs <-chan error
}

type saveErrMsg struct {
	err error
}

func newTUIModel(a *app.App, saveErrs <-chan error) *tuiModel {
	return &tuiModel{app: a, saveErrs: saveErrs}
}

func (m *tuiModel) Init() tea.Cmd {
	return waitForSaveErr(m.saveErrs)
}

func (m *tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		m.notice = ""
		return m, m.handleKey(msg)
	case saveErrMsg:
		m.status = "Save failed: " + msg.err.Error()
		return m, waitForSaveErr(m.saveErrs)
	}
	return m, nil
}

func (m *tuiModel) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyRunes:
		m.app.SetInput(m.app.Session().Input + string(msg.Runes))
		return nil
	case tea.KeySpace:
		m.app.SetInput(m.app.Session().Input + " ")
		return nil
	}

	switch msg.String() {
	case "ctrl+c":
		return tea.Quit
	case "enter":
		m.submit()
	case "backspace":
		in := []rune(m.app.Session().Input)
		if len(in) > 0 {
			m.app.SetInput(string(in[:len(in)-1]))
		}
	case "ctrl+u":
		m.app.SetInput("")
	case "esc":
		m.app.CancelEdit()
	case "up", "ctrl+p":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "ctrl+n":
		if m.cursor < m.app.Tasks().Len()-1 {
			m.cursor++
		}
	case "ctrl+t", "tab":
		if id, ok := m.selectedID(); ok {
			m.report(m.app.Toggle(id))
		}
	case "ctrl+e":
		if id, ok := m.selectedID(); ok {
			m.report(m.app.StartEdit(id))
		}
	case "ctrl+d":
		if id, ok := m.selectedID(); ok {
			m.report(m.app.Delete(id))
			m.clampCursor()
		}
	}
	return nil
}

func (m *tuiModel) submit() {
	editing := m.app.Session().Editing()
	_, err := m.app.Submit()
	if todo.IsValidation(err) {
		m.notice = EmptyTaskNotice
		return
	}
	m.report(err)
	if err == nil && !editing {
		m.cursor = m.app.Tasks().Len() - 1
	}
	m.clampCursor()
}

// report surfaces unexpected errors; stale ids are ignored.
func (m *tuiModel) report(err error) {
	if err = app.IgnoreNotFound(err); err != nil {
		m.status = err.Error()
	}
}

func (m *tuiModel) selectedID() (string, bool) {
	tasks := m.app.Tasks()
	if m.cursor < 0 || m.cursor >= tasks.Len() {
		return "", false
	}
	return tasks[m.cursor].ID, true
}

func (m *tuiModel) clampCursor() {
	if n := m.app.Tasks().Len(); m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *tuiModel) View() string {
	var b strings.Builder
	writeTitle(&b)
	writeInput(&b, m.app)
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n")
	}
	b.WriteString("\n")
	writeTasks(&b, m.app, m.cursor)
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n\n")
	}
	writeFooter(&b)
	return b.String()
}

func waitForSaveErr(ch <-chan error) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		err, ok := <-ch
		if !ok {
			return nil
		}
		return saveErrMsg{err: err}
	}
}

func writeTitle(b *strings.Builder) {
	title := "simpletodo"
	b.WriteString(title + "\n")
	b.WriteString(strings.Repeat("=", len(title)) + "\n\n")
}

func writeInput(b *strings.Builder, a *app.App) {
	sess := a.Session()
	label := "New task"
	if sess.Editing() {
		label = "Editing"
	}
	b.WriteString(fmt.Sprintf("%s: %s_\n", label, sess.Input))
}

func writeTasks(b *strings.Builder, a *app.App, cursor int) {
	tasks := a.Tasks()
	if tasks.Len() == 0 {
		b.WriteString("  No tasks yet.\n\n")
		return
	}
	editing := a.Session().EditingID
	for i, t := range tasks {
		b.WriteString(formatTask(t, i == cursor, t.ID == editing))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n  %d of %d done\n\n", tasks.Completed(), tasks.Len()))
}

func writeFooter(b *strings.Builder) {
	b.WriteString("enter save | tab toggle | ctrl+e edit | ctrl+d delete | esc cancel | ctrl+c quit\n")
}

func formatTask(t todo.Task, selected, editing bool) string {
	pointer := " "
	if selected {
		pointer = cursorStyle.Render(">")
	}
	check := " "
	text := t.Text
	if t.IsCompleted {
		check = "x"
		text = doneStyle.Render(text)
	}
	if editing {
		text = editingStyle.Render(t.Text)
	}
	return fmt.Sprintf("%s [%s] %s", pointer, check, text)
}

// IsTTY returns true if w is a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
