// Copyright (c) 2026 LPPM Portal. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package pointer provides generic helpers for optional values.

Partial updates carry their fields as pointers, where nil means "leave
unchanged". These helpers keep that convention terse at the call sites.
*/
package pointer

// To returns a pointer to a copy of v.
func To[T any](v T) *T {
	return &v
}

// Val dereferences p, returning the zero value when p is nil.
func Val[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}
	return *p
}

// NonEmpty maps nil and the empty string to nil, and anything else to a copy.
// Used for nullable references such as a study program id, where clients
// clear the reference by sending "".
func NonEmpty(p *string) *string {
	if p == nil || *p == "" {
		return nil
	}
	return To(*p)
}
