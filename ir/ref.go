package ir

// Ref is a one-level indirection handle over a node: every holder of the
// same *Ref[T] observes a Set on its next Get. This is the Go rendering of
// §9's "arena + index handles / shared mutable cell" guidance. No pass in
// this module holds a Ref: C4 records an ID's binding in Expr.Resolved and
// replaces Unknown types and placeholder fields by overwriting the pointed-to
// struct in place.
//
// Passes must not cache the value returned by Get() across a call that might
// call Set() on the same Ref — always re-fetch through the Ref, the same
// discipline the teacher applies when it rebuilds fieldMap/methodMap indices
// after a mutation instead of trusting a stale cached slice position.
type Ref[T any] struct {
	val T
}

// NewRef wraps an initial value in a Ref.
func NewRef[T any](v T) *Ref[T] {
	return &Ref[T]{val: v}
}

// Get returns the current value.
func (r *Ref[T]) Get() T {
	return r.val
}

// Set replaces the value in place; every other holder of this *Ref[T] will
// see the new value on its next Get.
func (r *Ref[T]) Set(v T) {
	r.val = v
}
