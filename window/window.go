// SPDX-License-Identifier: Unlicense OR MIT

// Package window provides the native top-level window a swap chain
// presents into.
//
// A Window belongs to the OS thread that created it. Callers lock their
// goroutine to the thread with runtime.LockOSThread before calling New
// and call every method from that goroutine.
package window

import "image"

// Options configure a new window.
type Options struct {
	Title string
	// Size is the initial client area size in pixels. A zero size lets
	// the system choose.
	Size image.Point
	// Hidden creates the window without showing it.
	Hidden bool
}
