// Package scope overrides a value for the extent of a call and puts the
// previous value back on every exit path.
package scope

// Override sets *target to value and returns a function that restores the
// value *target held before the call.
func Override[T any](target *T, value T) (restore func()) {
	saved := *target
	*target = value
	return func() {
		*target = saved
	}
}

// Run overrides *target with value while fn executes. The previous value is
// restored before Run returns, including when fn returns an error or panics.
func Run[T any](target *T, value T, fn func() error) error {
	defer Override(target, value)()
	return fn()
}
