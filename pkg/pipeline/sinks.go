package pipeline

// sink is the base for terminal pipes.
type sink[T, R any] struct {
	g      guard
	result R
	next   func(s *sink[T, R], v T) error
	start  func(s *sink[T, R], count int64)
}

func (s *sink[T, R]) Open(count int64) error {
	if err := s.g.open(); err != nil {
		return err
	}
	if s.start != nil {
		s.start(s, count)
	}
	return nil
}

func (s *sink[T, R]) OnNext(_ int64, v T) error {
	if err := s.g.next(); err != nil {
		return err
	}
	return s.next(s, v)
}

func (s *sink[T, R]) Close() error { return s.g.close() }

func (s *sink[T, R]) Result() R { return s.result }

// Collect gathers every value into a slice in arrival order. Values that
// borrow a traverser cursor must be copied by an upstream Map first.
func Collect[T any]() Sink[T, []T] {
	return &sink[T, []T]{
		start: func(s *sink[T, []T], count int64) {
			if count > 0 {
				s.result = make([]T, 0, count)
			}
		},
		next: func(s *sink[T, []T], v T) error {
			s.result = append(s.result, v)
			return nil
		},
	}
}

// ForEach calls fn with every value. Its result is the number of values.
func ForEach[T any](fn func(T)) Sink[T, int64] {
	return &sink[T, int64]{
		next: func(s *sink[T, int64], v T) error {
			fn(v)
			s.result++
			return nil
		},
	}
}

// Count counts values.
func Count[T any]() Sink[T, int64] {
	return &sink[T, int64]{
		next: func(s *sink[T, int64], _ T) error {
			s.result++
			return nil
		},
	}
}

// Reduce folds values into init with fn.
func Reduce[T, R any](init R, fn func(R, T) R) Sink[T, R] {
	return &sink[T, R]{
		result: init,
		next: func(s *sink[T, R], v T) error {
			s.result = fn(s.result, v)
			return nil
		},
	}
}

// AnyMatch reports whether pred accepts some value. It stops the run at the
// first match.
func AnyMatch[T any](pred func(T) bool) Sink[T, bool] {
	return &sink[T, bool]{
		next: func(s *sink[T, bool], v T) error {
			if pred(v) {
				s.result = true
				return ErrStop
			}
			return nil
		},
	}
}

// Found is an optional value.
type Found[T any] struct {
	Value T
	OK    bool
}

// First keeps the first value and stops the run.
func First[T any]() Sink[T, Found[T]] {
	return &sink[T, Found[T]]{
		next: func(s *sink[T, Found[T]], v T) error {
			s.result = Found[T]{Value: v, OK: true}
			return ErrStop
		},
	}
}
