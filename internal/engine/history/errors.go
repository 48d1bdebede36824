package history

import "fmt"

// InvariantError reports a cursor outside [-1, len-1].
// It is raised as a panic: it means the history itself is corrupt.
type InvariantError struct {
	Op  string
	Pos int
	Len int
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("history: invariant violated in %s: cursor %d outside [-1, %d]", e.Op, e.Pos, e.Len-1)
}

// checkCursor panics if pos is not a valid cursor for n entries.
func checkCursor(op string, pos, n int) {
	if pos < -1 || pos > n-1 {
		panic(&InvariantError{Op: op, Pos: pos, Len: n})
	}
}
