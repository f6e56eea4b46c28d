// SPDX-License-Identifier: Unlicense OR MIT

package unsafe

import (
	"errors"
	"strings"
	"unsafe"
)

var errNUL = errors.New("string contains NUL")

// BytesView returns a byte slice view of a slice of plain values.
func BytesView[T any](s []T) []byte {
	if len(s) == 0 {
		return nil
	}
	sz := int(unsafe.Sizeof(s[0]))
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*sz)
}

// SliceOf returns a view of n bytes of native memory.
func SliceOf(p unsafe.Pointer, n int) []byte {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(p), n)
}

// Ptr returns a pointer to the first element of s, or nil if s is empty.
func Ptr[T any](s []T) unsafe.Pointer {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Pointer(&s[0])
}

// CString returns s as a NUL-terminated byte slice.
func CString(s string) ([]byte, error) {
	if strings.IndexByte(s, 0) != -1 {
		return nil, errNUL
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return b, nil
}

// GoString convert a NUL-terminated C string
// to a Go string.
func GoString(s []byte) string {
	for i, v := range s {
		if v == 0 {
			return string(s[:i])
		}
	}
	return string(s)
}
