// Package option provides an explicit optional value. Absent inputs such as
// missing pool addresses, memos or not-yet-loaded balances are carried as
// None instead of nil pointers or zero values.
package option

// Option holds a value of type T or nothing. The zero value is None.
type Option[T any] struct {
	value T
	some  bool
}

// Some wraps a present value.
func Some[T any](value T) Option[T] {
	return Option[T]{value: value, some: true}
}

// None returns an absent value.
func None[T any]() Option[T] {
	return Option[T]{}
}

func (o Option[T]) IsSome() bool { return o.some }
func (o Option[T]) IsNone() bool { return !o.some }

// Value returns the wrapped value and whether it is present.
func (o Option[T]) Value() (T, bool) {
	return o.value, o.some
}

// GetOrElse returns the wrapped value or the given fallback.
func (o Option[T]) GetOrElse(fallback T) T {
	if o.some {
		return o.value
	}
	return fallback
}
