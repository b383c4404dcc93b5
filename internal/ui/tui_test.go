package ui

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nibzard/simpletodo/internal/app"
	"github.com/nibzard/simpletodo/internal/todo"
)

type seqIDs struct {
	n int
}

func (s *seqIDs) NewID(todo.List) string {
	s.n++
	return fmt.Sprintf("T%d", s.n)
}

type countingSaver struct {
	saves int
}

func (c *countingSaver) Save(todo.List) {
	c.saves++
}

func newTestModel(initial todo.List) (*tuiModel, *countingSaver) {
	saver := &countingSaver{}
	a := app.New(initial, saver, app.WithIDGenerator(&seqIDs{}))
	return newTUIModel(a, nil), saver
}

func press(m *tuiModel, keys ...tea.KeyMsg) {
	for _, k := range keys {
		m.Update(k)
	}
}

func typeText(m *tuiModel, text string) {
	for _, r := range text {
		if r == ' ' {
			press(m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		press(m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

var (
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyTab   = tea.KeyMsg{Type: tea.KeyTab}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
	keyEdit  = tea.KeyMsg{Type: tea.KeyCtrlE}
	keyDel   = tea.KeyMsg{Type: tea.KeyCtrlD}
	keyTogg  = tea.KeyMsg{Type: tea.KeyCtrlT}
)

func TestTypeAndSubmit(t *testing.T) {
	m, saver := newTestModel(nil)

	typeText(m, "Buy milk")
	if got := m.app.Session().Input; got != "Buy milk" {
		t.Fatalf("input: got %q", got)
	}
	press(m, keyEnter)

	tasks := m.app.Tasks()
	if tasks.Len() != 1 || tasks[0].Text != "Buy milk" || tasks[0].ID != "T1" {
		t.Fatalf("tasks: got %+v", tasks)
	}
	if m.app.Session().Input != "" {
		t.Error("input should be cleared after submit")
	}
	if saver.saves != 1 {
		t.Errorf("saves: got %d, want 1", saver.saves)
	}
	if !strings.Contains(m.View(), "Buy milk") {
		t.Errorf("view should list the task:\n%s", m.View())
	}
}

func TestEmptySubmitShowsNotice(t *testing.T) {
	m, saver := newTestModel(nil)

	typeText(m, "   ")
	press(m, keyEnter)

	if m.notice != EmptyTaskNotice {
		t.Fatalf("notice: got %q", m.notice)
	}
	if !strings.Contains(m.View(), EmptyTaskNotice) {
		t.Error("view should show the notice")
	}
	if m.app.Tasks().Len() != 0 || saver.saves != 0 {
		t.Error("blank submit must not change the list")
	}

	typeText(m, "x")
	if m.notice != "" {
		t.Error("notice should clear on the next key")
	}
}

func TestBackspace(t *testing.T) {
	m, _ := newTestModel(nil)
	typeText(m, "café")
	press(m, keyBack)
	if got := m.app.Session().Input; got != "caf" {
		t.Errorf("input: got %q, want caf", got)
	}
	m.app.SetInput("")
	press(m, keyBack)
	if got := m.app.Session().Input; got != "" {
		t.Errorf("backspace on empty input: got %q", got)
	}
}

func TestToggleSelected(t *testing.T) {
	m, _ := newTestModel(todo.List{{ID: "A", Text: "first"}, {ID: "B", Text: "second"}})

	press(m, keyDown, keyTab)
	if !m.app.Tasks()[1].IsCompleted || m.app.Tasks()[0].IsCompleted {
		t.Fatalf("expected only B completed: %+v", m.app.Tasks())
	}
	press(m, keyTogg)
	if m.app.Tasks()[1].IsCompleted {
		t.Error("ctrl+t should toggle back")
	}
	if !strings.Contains(m.View(), "0 of 2 done") {
		t.Errorf("view summary:\n%s", m.View())
	}
}

func TestEditSelected(t *testing.T) {
	m, saver := newTestModel(todo.List{{ID: "A", Text: "first"}, {ID: "B", Text: "second"}})

	press(m, keyDown, keyEdit)
	if s := m.app.Session(); s.EditingID != "B" || s.Input != "second" {
		t.Fatalf("session: got %+v", s)
	}
	if !strings.Contains(m.View(), "Editing: second_") {
		t.Errorf("view should show edit mode:\n%s", m.View())
	}

	typeText(m, "!")
	press(m, keyEnter)
	if got := m.app.Tasks()[1].Text; got != "second!" {
		t.Errorf("text: got %q", got)
	}
	if m.app.Tasks().Len() != 2 {
		t.Error("edit should not add a task")
	}
	if m.cursor != 1 {
		t.Errorf("cursor moved on edit: %d", m.cursor)
	}
	if saver.saves != 1 {
		t.Errorf("saves: got %d", saver.saves)
	}
}

func TestEscCancelsEdit(t *testing.T) {
	m, _ := newTestModel(todo.List{{ID: "A", Text: "first"}})

	press(m, keyEdit)
	typeText(m, " more")
	press(m, keyEsc)

	if m.app.Session().Editing() || m.app.Session().Input != "" {
		t.Errorf("session: got %+v", m.app.Session())
	}
	if m.app.Tasks()[0].Text != "first" {
		t.Error("cancelled edit must not change the task")
	}
}

func TestDeleteSelectedClampsCursor(t *testing.T) {
	m, _ := newTestModel(todo.List{{ID: "A", Text: "first"}, {ID: "B", Text: "second"}})

	press(m, keyDown, keyDel)
	if m.app.Tasks().Len() != 1 || m.app.Tasks()[0].ID != "A" {
		t.Fatalf("tasks: got %+v", m.app.Tasks())
	}
	if m.cursor != 0 {
		t.Errorf("cursor: got %d, want 0", m.cursor)
	}

	press(m, keyDel, keyDel)
	if m.app.Tasks().Len() != 0 {
		t.Errorf("tasks: got %+v", m.app.Tasks())
	}
	if m.status != "" {
		t.Errorf("delete on empty list should be silent, got %q", m.status)
	}
	if !strings.Contains(m.View(), "No tasks yet.") {
		t.Errorf("view:\n%s", m.View())
	}
}

func TestCursorBounds(t *testing.T) {
	m, _ := newTestModel(todo.List{{ID: "A", Text: "first"}, {ID: "B", Text: "second"}})

	press(m, keyUp)
	if m.cursor != 0 {
		t.Errorf("cursor above top: %d", m.cursor)
	}
	press(m, keyDown, keyDown, keyDown)
	if m.cursor != 1 {
		t.Errorf("cursor below bottom: %d", m.cursor)
	}
}

func TestSubmitMovesCursorToNewTask(t *testing.T) {
	m, _ := newTestModel(todo.List{{ID: "A", Text: "first"}})
	typeText(m, "second")
	press(m, keyEnter)
	if m.cursor != 1 {
		t.Errorf("cursor: got %d, want 1", m.cursor)
	}
}

func TestCtrlCQuits(t *testing.T) {
	m, _ := newTestModel(nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestSaveErrorsShownInStatus(t *testing.T) {
	ch := make(chan error, 1)
	a := app.New(nil, nil)
	m := newTUIModel(a, ch)

	ch <- errors.New("disk full")
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init should wait for save errors")
	}
	m.Update(cmd())

	if !strings.Contains(m.View(), "Save failed: disk full") {
		t.Errorf("view:\n%s", m.View())
	}
}

func TestInitWithoutSaveErrors(t *testing.T) {
	m, _ := newTestModel(nil)
	if cmd := m.Init(); cmd != nil {
		t.Error("Init without an error channel should return nil")
	}
}

func TestIsTTY(t *testing.T) {
	if IsTTY(&strings.Builder{}) {
		t.Error("a strings.Builder is not a TTY")
	}
}

func TestTUIOptions(t *testing.T) {
	ch := make(chan error)
	c := &tuiConfig{altScreen: true}
	for _, opt := range []TUIOption{WithSaveErrors(ch), WithAltScreen(false)} {
		opt(c)
	}
	if c.altScreen {
		t.Error("WithAltScreen(false) should disable the alternate screen")
	}
	if c.saveErrs == nil {
		t.Error("WithSaveErrors should set the channel")
	}
}
