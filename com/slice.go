// SPDX-License-Identifier: Unlicense OR MIT

package com

// Borrow returns the native pointers of hs, in order, for passing as an
// array to a single native call. Reference counts are not touched and the
// result must not outlive any element of hs. Borrow panics on a nil or
// released element.
func Borrow[T Interface](hs []*Handle[T]) []T {
	if len(hs) == 0 {
		return nil
	}
	raw := make([]T, len(hs))
	for i, h := range hs {
		raw[i] = h.Raw()
	}
	return raw
}

// BorrowOptional is like Borrow but maps nil elements to null slots,
// which native calls interpret as "unbound".
func BorrowOptional[T Interface](hs []*Handle[T]) []T {
	if len(hs) == 0 {
		return nil
	}
	raw := make([]T, len(hs))
	for i, h := range hs {
		if h != nil {
			raw[i] = h.Raw()
		}
	}
	return raw
}
