// Package todo holds the task list and the pure operations over it.
//
// The persisted form is a bare JSON array stored under a single key:
//
//	[
//	  {"id": "1718031234567", "text": "Buy milk", "isCompleted": false},
//	  {"id": "1718031240012", "text": "Call mom", "isCompleted": true}
//	]
//
// There is no schema version field and no migration logic. A missing or
// unreadable value decodes to an empty list.
//
// # Mutations
//
// Add, Edit, Toggle and Remove never modify the receiver. Each returns a
// freshly allocated List so callers can hand the previous value to a
// background writer without copying.
//
//   - Add and Edit reject text that is empty after trimming with a
//     *ValidationError. The text itself is stored as entered.
//   - Edit, Toggle and Remove return a *NotFoundError (matching ErrNotFound)
//     when no task has the given id.
//
// # Task IDs
//
// IDs are opaque strings. The default generator uses the creation time in
// Unix milliseconds and bumps the value until it is unique within the
// list; UUIDs are available as an alternative.
package todo
