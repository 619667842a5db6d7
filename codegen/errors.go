package codegen

import "fmt"

// Error reports a code-generation failure: an unsupported target, a
// function that exceeds the backend's parameter cap, or an internal
// invariant violation (e.g. an exhausted register pool or a label that
// was never marked).
type Error struct {
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e.Line == 0 {
		return e.Msg
	}
	return fmt.Sprintf("%s (line %d)", e.Msg, e.Line)
}
