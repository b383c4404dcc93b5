// Package session tracks the transient input state of the task screen:
// the text in the input line and which task, if any, is being edited.
package session

import "github.com/nibzard/simpletodo/internal/todo"

// Session is the scratch state behind the input line. The zero value is an
// idle session with an empty buffer.
type Session struct {
	Input     string
	EditingID string
}

// SetInput replaces the input buffer.
func (s *Session) SetInput(text string) {
	s.Input = text
}

// Editing reports whether an edit is in progress.
func (s Session) Editing() bool {
	return s.EditingID != ""
}

// BeginEdit targets t and copies its text into the buffer. An edit already
// in progress is abandoned without being committed.
func (s *Session) BeginEdit(t todo.Task) {
	s.EditingID = t.ID
	s.Input = t.Text
}

// Cancel ends any edit and clears the buffer.
func (s *Session) Cancel() {
	s.Input = ""
	s.EditingID = ""
}

// Clear resets the session after a successful add or commit.
func (s *Session) Clear() {
	s.Cancel()
}
