package extract

// Optional holds either a present value or nothing. It distinguishes an input
// that was not observed from one whose values happen to be zero.
type Optional[T any] struct {
	value   T
	present bool
}

// Present wraps v as a present value.
func Present[T any](v T) Optional[T] {
	return Optional[T]{value: v, present: true}
}

// Absent returns an empty Optional.
func Absent[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.present
}

// IsPresent reports whether a value is held.
func (o Optional[T]) IsPresent() bool {
	return o.present
}
