package todo

import (
	"strings"
	"unicode/utf8"
)

// Len returns the number of tasks.
func (l List) Len() int {
	return len(l)
}

// Index returns the position of the task with id, or -1.
func (l List) Index(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Get returns the task with id and whether it exists.
func (l List) Get(id string) (Task, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i], true
	}
	return Task{}, false
}

// Clone returns a copy that shares no backing array with l.
func (l List) Clone() List {
	out := make(List, len(l))
	copy(out, l)
	return out
}

// Equal reports whether both lists hold the same tasks in the same order.
func (l List) Equal(other List) bool {
	if len(l) != len(other) {
		return false
	}
	for i := range l {
		if l[i] != other[i] {
			return false
		}
	}
	return true
}

// Completed returns the number of completed tasks.
func (l List) Completed() int {
	n := 0
	for _, t := range l {
		if t.IsCompleted {
			n++
		}
	}
	return n
}

// Add appends a new incomplete task with an id from ids.
func (l List) Add(text string, ids IDGenerator) (List, Task, error) {
	if err := checkText(text); err != nil {
		return l, Task{}, err
	}
	if ids == nil {
		ids = TimestampIDs{}
	}

	task := Task{
		ID:          ids.NewID(l),
		Text:        text,
		IsCompleted: false,
	}

	out := make(List, len(l), len(l)+1)
	copy(out, l)
	out = append(out, task)
	return out, task, nil
}

// Edit replaces the text of the task with id, keeping its position and
// completion state.
func (l List) Edit(id, text string) (List, error) {
	if err := checkText(text); err != nil {
		return l, err
	}
	return l.update(id, func(t *Task) {
		t.Text = text
	})
}

// Toggle flips the completion state of the task with id.
func (l List) Toggle(id string) (List, error) {
	return l.update(id, func(t *Task) {
		t.IsCompleted = !t.IsCompleted
	})
}

// Remove drops the task with id. The remaining tasks keep their order.
func (l List) Remove(id string) (List, error) {
	i := l.Index(id)
	if i < 0 {
		return l, &NotFoundError{ID: id}
	}
	out := make(List, 0, len(l)-1)
	out = append(out, l[:i]...)
	out = append(out, l[i+1:]...)
	return out, nil
}

// update copies the list and applies fn to the copy of the matching task.
func (l List) update(id string, fn func(*Task)) (List, error) {
	i := l.Index(id)
	if i < 0 {
		return l, &NotFoundError{ID: id}
	}
	out := l.Clone()
	fn(&out[i])
	return out, nil
}

func checkText(text string) error {
	if strings.TrimSpace(text) == "" {
		return &ValidationError{Path: "text", Err: ErrEmptyText}
	}
	if !utf8.ValidString(text) {
		return &ValidationError{Path: "text", Err: ErrInvalidText}
	}
	return nil
}
