// Package traverse defines the consumption protocol shared by every edge
// producer and the helpers that drive it.
//
// A [Traverser] is single-use and bound to at most one open resource. It can
// be consumed three ways:
//
//   - TryStep produces at most one element, so several traversers can be
//     stepped from outside (see [Merge]).
//   - Drain runs to completion.
//   - Loop checks a [Control] after every element and may return early with
//     [None] at a buffer-refill boundary so the caller can interleave other
//     work before resuming.
//
// Whichever method signals completion, the resource has been released by the
// time it returns. Further calls are no-ops.
package traverse

import (
	"io"
)

// Status is the outcome of a [Traverser.Loop] call.
type Status int

const (
	// None means the traverser stopped at a refill boundary and wants to be
	// invoked again.
	None Status = iota
	// Done means the traverser is exhausted and closed.
	Done
	// Exit means the control turned inactive and the traverser is closed.
	Exit
)

func (s Status) String() string {
	switch s {
	case None:
		return "none"
	case Done:
		return "done"
	case Exit:
		return "exit"
	}
	return "unknown"
}

// Traverser produces a stream of values through callbacks.
type Traverser[T any] interface {
	// TryStep passes at most one value to action and reports whether one was
	// produced. It returns false once exhausted, after closing the resource.
	TryStep(action func(T)) (bool, error)
	// Drain passes every remaining value to action and closes the resource.
	Drain(action func(T)) error
	// Loop passes values to action until exhausted (Done), until ctl turns
	// inactive (Exit) or until a refill boundary is crossed (None).
	Loop(ctl Control, action func(T)) (Status, error)
}

// Close releases t early when it holds a resource. Traversers without one
// are left alone.
func Close[T any](t Traverser[T]) error {
	if c, ok := t.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

// Run calls t.Loop until it returns something other than None.
func Run[T any](t Traverser[T], ctl Control, action func(T)) (Status, error) {
	for {
		st, err := t.Loop(ctl, action)
		if err != nil || st != None {
			return st, err
		}
	}
}

// Collect drains t into a slice. copyOut converts each value into something
// safe to keep, which matters for traversers that reuse a cursor.
func Collect[T, R any](t Traverser[T], copyOut func(T) R) ([]R, error) {
	var out []R
	err := t.Drain(func(v T) {
		out = append(out, copyOut(v))
	})
	return out, err
}

// Identity returns v unchanged. It is the copyOut for value types.
func Identity[T any](v T) T { return v }
