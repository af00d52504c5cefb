// Package remote provides a four-state container for values resolved by
// asynchronous requests: not yet asked, pending, failed or succeeded.
// It models the freshness of fee quotes, approval checks and transaction
// results without resorting to nil checks.
package remote

type state int

const (
	stateNotAsked state = iota
	statePending
	stateFailure
	stateSuccess
)

// Data holds a value of type T in one of four request states.
// The zero value is NotAsked.
type Data[T any] struct {
	state state
	value T
	err   error
}

// NotAsked returns a Data for a request that has never been issued.
func NotAsked[T any]() Data[T] {
	return Data[T]{}
}

// Pending returns a Data for an in-flight request.
func Pending[T any]() Data[T] {
	return Data[T]{state: statePending}
}

// Failure returns a Data for a failed request.
func Failure[T any](err error) Data[T] {
	return Data[T]{state: stateFailure, err: err}
}

// Success returns a Data carrying a resolved value.
func Success[T any](value T) Data[T] {
	return Data[T]{state: stateSuccess, value: value}
}

func (d Data[T]) IsNotAsked() bool { return d.state == stateNotAsked }
func (d Data[T]) IsPending() bool  { return d.state == statePending }
func (d Data[T]) IsFailure() bool  { return d.state == stateFailure }
func (d Data[T]) IsSuccess() bool  { return d.state == stateSuccess }

// Value returns the resolved value and whether the request succeeded.
func (d Data[T]) Value() (T, bool) {
	return d.value, d.state == stateSuccess
}

// Err returns the request error, nil unless the request failed.
func (d Data[T]) Err() error {
	if d.state != stateFailure {
		return nil
	}
	return d.err
}

// GetOrElse returns the resolved value or the given fallback.
func (d Data[T]) GetOrElse(fallback T) T {
	if d.state == stateSuccess {
		return d.value
	}
	return fallback
}
