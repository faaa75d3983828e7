// Package shared provides an ownership-counted handle used to share large
// values between several slots without copying them.
package shared

// Rc is a counted reference to a value of type T. Copying an Rc by
// assignment does not register a new owner; use Clone for that and Release
// when the slot stops referencing the value.
type Rc[T any] struct {
	box *box[T]
}

type box[T any] struct {
	value *T
	refs  int
}

// New wraps v in a handle with a single owner.
func New[T any](v *T) Rc[T] {
	return Rc[T]{box: &box[T]{value: v, refs: 1}}
}

// Clone returns a new owner of the same instance.
func (r Rc[T]) Clone() Rc[T] {
	if r.box == nil {
		return Rc[T]{}
	}
	r.box.refs++
	return Rc[T]{box: r.box}
}

// Release drops the owner held by r and empties the handle.
func (r *Rc[T]) Release() {
	if r.box == nil {
		return
	}
	r.box.refs--
	if r.box.refs == 0 {
		r.box.value = nil
	}
	r.box = nil
}

// Get returns the referenced value. The value must not be mutated unless
// the handle is Unique.
func (r Rc[T]) Get() *T {
	if r.box == nil {
		return nil
	}
	return r.box.value
}

// Valid reports whether r references a value.
func (r Rc[T]) Valid() bool {
	return r.box != nil
}

// Unique reports whether r is the only owner of its value.
func (r Rc[T]) Unique() bool {
	return r.box != nil && r.box.refs == 1
}

// Owners returns the number of owners of the referenced value.
func (r Rc[T]) Owners() int {
	if r.box == nil {
		return 0
	}
	return r.box.refs
}

// Same reports whether r and other reference the same instance. Two distinct
// instances holding equal values are not the same.
func (r Rc[T]) Same(other Rc[T]) bool {
	return r.box != nil && r.box == other.box
}

// MakeMut returns the value referenced by *r for mutation. If the value has
// other owners, *r is first detached onto a fresh single-owner copy made by
// clone, so the other owners never observe the write.
func MakeMut[T any](r *Rc[T], clone func(*T) *T) *T {
	if r.box == nil {
		panic("shared: MakeMut on empty handle")
	}
	if r.box.refs > 1 {
		copied := clone(r.box.value)
		r.box.refs--
		r.box = &box[T]{value: copied, refs: 1}
	}
	return r.box.value
}
