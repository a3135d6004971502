package wizard

// Rows is the editable row list behind a collection step. Removing rows never
// takes the list below its floor.
type Rows[T any] struct {
	items []T
	min   int
}

func NewRows[T any](min int, items []T) *Rows[T] {
	if min < 1 {
		min = 1
	}
	cp := make([]T, len(items))
	copy(cp, items)
	return &Rows[T]{items: cp, min: min}
}

func (r *Rows[T]) Len() int { return len(r.items) }

func (r *Rows[T]) Items() []T {
	cp := make([]T, len(r.items))
	copy(cp, r.items)
	return cp
}

func (r *Rows[T]) Add(item T) {
	r.items = append(r.items, item)
}

func (r *Rows[T]) Edit(i int, item T) error {
	if i < 0 || i >= len(r.items) {
		return ErrRowOutOfRange
	}
	r.items[i] = item
	return nil
}

func (r *Rows[T]) Remove(i int) error {
	if i < 0 || i >= len(r.items) {
		return ErrRowOutOfRange
	}
	if len(r.items) <= r.min {
		return ErrLastRow
	}
	r.items = append(r.items[:i], r.items[i+1:]...)
	return nil
}

// Complete reports whether the list satisfies its floor.
func (r *Rows[T]) Complete() bool {
	return len(r.items) >= r.min
}
