package persist

// Record is the result of a Load: either a value, or NoData when nothing was ever saved.
// NoData is not an error; a failed Load returns an error alongside a zero Record.
type Record[T any] struct {
	value   T
	present bool
}

// Found wraps a loaded value.
func Found[T any](v T) Record[T] {
	return Record[T]{value: v, present: true}
}

// NoData is the record for a leaf file that exists but has never been written.
func NoData[T any]() Record[T] {
	return Record[T]{}
}

// Value returns the loaded value, and false if the record is NoData.
func (r Record[T]) Value() (T, bool) {
	return r.value, r.present
}

func (r Record[T]) IsNoData() bool {
	return !r.present
}

// MustValue returns the loaded value, panicking if the record is NoData.
func (r Record[T]) MustValue() T {
	if !r.present {
		panic("persist: MustValue called on a NoData record")
	}
	return r.value
}
