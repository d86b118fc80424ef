package traverse

import "errors"

type empty[T any] struct{}

// Empty returns a traverser that yields nothing.
func Empty[T any]() Traverser[T] { return empty[T]{} }

func (empty[T]) TryStep(func(T)) (bool, error)         { return false, nil }
func (empty[T]) Drain(func(T)) error                   { return nil }
func (empty[T]) Loop(Control, func(T)) (Status, error) { return Done, nil }

// failed reports its error once and is exhausted afterwards.
type failed[T any] struct {
	err error
}

// Failed returns a traverser whose first call fails with err.
func Failed[T any](err error) Traverser[T] { return &failed[T]{err: err} }

func (f *failed[T]) take() error {
	err := f.err
	f.err = nil
	return err
}

func (f *failed[T]) TryStep(func(T)) (bool, error) { return false, f.take() }
func (f *failed[T]) Drain(func(T)) error           { return f.take() }

func (f *failed[T]) Loop(Control, func(T)) (Status, error) {
	if err := f.take(); err != nil {
		return Exit, err
	}
	return Done, nil
}

type slice[T any] struct {
	items []T
	pos   int
}

// Slice returns a traverser over items. The slice is not copied.
func Slice[T any](items []T) Traverser[T] { return &slice[T]{items: items} }

func (s *slice[T]) TryStep(action func(T)) (bool, error) {
	if s.pos >= len(s.items) {
		return false, nil
	}
	s.pos++
	action(s.items[s.pos-1])
	return true, nil
}

func (s *slice[T]) Drain(action func(T)) error {
	for s.pos < len(s.items) {
		s.pos++
		action(s.items[s.pos-1])
	}
	return nil
}

func (s *slice[T]) Loop(ctl Control, action func(T)) (Status, error) {
	for s.pos < len(s.items) {
		s.pos++
		action(s.items[s.pos-1])
		if !ctl.Active() {
			s.pos = len(s.items)
			return Exit, nil
		}
	}
	return Done, nil
}

// merged steps its children round-robin, one value each turn.
type merged[T any] struct {
	ts   []Traverser[T]
	next int
}

// Merge interleaves ts, taking one value from each in turn. An exhausted
// child drops out of the rotation. On error or early exit the children that
// are still open get closed.
func Merge[T any](ts ...Traverser[T]) Traverser[T] {
	return &merged[T]{ts: append([]Traverser[T](nil), ts...)}
}

func (m *merged[T]) TryStep(action func(T)) (bool, error) {
	for len(m.ts) > 0 {
		if m.next >= len(m.ts) {
			m.next = 0
		}
		ok, err := m.ts[m.next].TryStep(action)
		if err != nil {
			m.ts = append(m.ts[:m.next], m.ts[m.next+1:]...)
			return false, errors.Join(err, m.Close())
		}
		if ok {
			m.next++
			return true, nil
		}
		m.ts = append(m.ts[:m.next], m.ts[m.next+1:]...)
	}
	return false, nil
}

func (m *merged[T]) Drain(action func(T)) error {
	for {
		ok, err := m.TryStep(action)
		if err != nil || !ok {
			return err
		}
	}
}

func (m *merged[T]) Loop(ctl Control, action func(T)) (Status, error) {
	for {
		ok, err := m.TryStep(action)
		if err != nil {
			return Exit, err
		}
		if !ok {
			return Done, nil
		}
		if !ctl.Active() {
			return Exit, m.Close()
		}
	}
}

// Close releases every child that is still in the rotation.
func (m *merged[T]) Close() error {
	var errs []error
	for _, t := range m.ts {
		if err := Close(t); err != nil {
			errs = append(errs, err)
		}
	}
	m.ts = nil
	return errors.Join(errs...)
}
