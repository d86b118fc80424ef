package pipeline

// Map applies fn to every value.
func Map[In, Out any](fn func(In) Out) Stage[In, Out] {
	return newStage(nil, func(t *Transform[In, Out], _ int64, v In) error {
		return t.Yield(fn(v))
	})
}

// Filter keeps the values pred accepts.
func Filter[T any](pred func(T) bool) Stage[T, T] {
	return newStage(unknown, func(t *Transform[T, T], _ int64, v T) error {
		if !pred(v) {
			return nil
		}
		return t.Yield(v)
	})
}

// Peek calls fn with every value and passes it on unchanged.
func Peek[T any](fn func(T)) Stage[T, T] {
	return newStage(nil, func(t *Transform[T, T], _ int64, v T) error {
		fn(v)
		return t.Yield(v)
	})
}

// FlatMap expands every value into zero or more values.
func FlatMap[In, Out any](fn func(In) []Out) Stage[In, Out] {
	return newStage(unknown, func(t *Transform[In, Out], _ int64, v In) error {
		for _, o := range fn(v) {
			if err := t.Yield(o); err != nil {
				return err
			}
		}
		return nil
	})
}

// Limit passes at most n values and then stops the run.
func Limit[T any](n int64) Stage[T, T] {
	return StageFunc[T, T](func(out Pipe[T]) Pipe[T] {
		seen := int64(0)
		t := &transform[T, T]{
			count: func(c int64) int64 { return min(c, max(n, 0)) },
			next: func(t *Transform[T, T], _ int64, v T) error {
				if seen >= n {
					return ErrStop
				}
				seen++
				if err := t.Yield(v); err != nil {
					return err
				}
				if seen == n {
					return ErrStop
				}
				return nil
			},
		}
		t.Bind(out)
		return t
	})
}

// Skip drops the first n values.
func Skip[T any](n int64) Stage[T, T] {
	return StageFunc[T, T](func(out Pipe[T]) Pipe[T] {
		seen := int64(0)
		t := &transform[T, T]{
			count: func(c int64) int64 { return max(c-max(n, 0), 0) },
			next: func(t *Transform[T, T], _ int64, v T) error {
				if seen < n {
					seen++
					return nil
				}
				return t.Yield(v)
			},
		}
		t.Bind(out)
		return t
	})
}
