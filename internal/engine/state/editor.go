// Package state defines the immutable snapshot payloads stored in history.
//
// Each payload is a closed record with unexported fields. A snapshot is
// built in full by its constructor and changed only by deriving a new one
// from explicit, typed overrides; the receiver is never modified.
package state

import "fmt"

// EditorState is a point-in-time copy of an editor buffer.
type EditorState struct {
	content string
	cursor  int
	dirty   bool
}

// NewEditorState creates a fully specified editor snapshot.
func NewEditorState(content string, cursor int, dirty bool) EditorState {
	return EditorState{
		content: content,
		cursor:  cursor,
		dirty:   dirty,
	}
}

// Content returns the buffer text.
func (s EditorState) Content() string { return s.content }

// Cursor returns the cursor position.
func (s EditorState) Cursor() int { return s.cursor }

// Dirty returns true if the snapshot has unsaved changes.
func (s EditorState) Dirty() bool { return s.dirty }

// EditorOverrides lists the fields to replace when deriving.
// A nil field keeps the receiver's value.
type EditorOverrides struct {
	Content *string
	Cursor  *int
	Dirty   *bool
}

// IsEmpty returns true if no field is overridden.
func (o EditorOverrides) IsEmpty() bool {
	return o.Content == nil && o.Cursor == nil && o.Dirty == nil
}

// Derive returns a copy of s with the given overrides applied.
func (s EditorState) Derive(o EditorOverrides) EditorState {
	next := s
	if o.Content != nil {
		next.content = *o.Content
	}
	if o.Cursor != nil {
		next.cursor = *o.Cursor
	}
	if o.Dirty != nil {
		next.dirty = *o.Dirty
	}
	return next
}

// Equal reports whether two snapshots hold the same field values.
func (s EditorState) Equal(other EditorState) bool {
	return s == other
}

// String returns a single-line description for logs and displays.
func (s EditorState) String() string {
	return fmt.Sprintf("content=%q cursor=%d dirty=%t", s.content, s.cursor, s.dirty)
}

// Ptr returns a pointer to v, for building overrides inline.
func Ptr[T any](v T) *T {
	return &v
}
