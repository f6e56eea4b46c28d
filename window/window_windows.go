// SPDX-License-Identifier: Unlicense OR MIT

package window

import (
	"image"
	"sync"
	"unsafe"

	syscall "golang.org/x/sys/windows"
)

// Window is a native top-level window.
type Window struct {
	hwnd syscall.Handle
	// alive is cleared by WM_NCDESTROY, the last message a window
	// receives.
	alive bool
	// quit is set once WM_QUIT is seen by Pump.
	quit    bool
	resized bool
}

// winMap maps win32 HWNDs to *Windows.
var winMap sync.Map

var resources struct {
	once sync.Once
	err  error
	// handle is the module handle from GetModuleHandle.
	handle syscall.Handle
	// class is the window class from RegisterClassEx.
	class uint16
}

const (
	windowStyle   = _WS_OVERLAPPEDWINDOW | _WS_CLIPSIBLINGS | _WS_CLIPCHILDREN
	windowExStyle = _WS_EX_APPWINDOW | _WS_EX_WINDOWEDGE
)

// initResources registers the window class shared by every Window.
func initResources() error {
	setProcessDPIAware()
	hInst, err := getModuleHandle()
	if err != nil {
		return err
	}
	resources.handle = hInst
	cursor, err := loadCursor(_IDC_ARROW)
	if err != nil {
		return err
	}
	wcls := wndClassEx{
		CbSize:        uint32(unsafe.Sizeof(wndClassEx{})),
		Style:         _CS_HREDRAW | _CS_VREDRAW | _CS_OWNDC,
		LpfnWndProc:   syscall.NewCallback(windowProc),
		HInstance:     hInst,
		HCursor:       cursor,
		LpszClassName: syscall.StringToUTF16Ptr("D3DComWindow"),
	}
	cls, err := registerClassEx(&wcls)
	if err != nil {
		return err
	}
	resources.class = cls
	return nil
}

// New creates a window. The calling goroutine must be locked to its OS
// thread, which then receives the window's messages.
func New(opts Options) (*Window, error) {
	resources.once.Do(func() {
		resources.err = initResources()
	})
	if resources.err != nil {
		return nil, resources.err
	}
	x, y := int32(_CW_USEDEFAULT), int32(_CW_USEDEFAULT)
	width, height := int32(_CW_USEDEFAULT), int32(_CW_USEDEFAULT)
	if sz := opts.Size; sz.X > 0 && sz.Y > 0 {
		r := rect{Right: int32(sz.X), Bottom: int32(sz.Y)}
		adjustWindowRectEx(&r, windowStyle, windowExStyle)
		width, height = r.Right-r.Left, r.Bottom-r.Top
	}
	hwnd, err := createWindowEx(windowExStyle,
		resources.class,
		opts.Title,
		windowStyle,
		x, y,
		width, height,
		resources.handle,
	)
	if err != nil {
		return nil, err
	}
	w := &Window{hwnd: hwnd, alive: true}
	winMap.Store(hwnd, w)
	if !opts.Hidden {
		w.Show()
	}
	return w, nil
}

func windowProc(hwnd syscall.Handle, msg uint32, wParam, lParam uintptr) uintptr {
	win, exists := winMap.Load(hwnd)
	if !exists {
		return defWindowProc(hwnd, msg, wParam, lParam)
	}
	w := win.(*Window)
	switch msg {
	case _WM_SIZE:
		w.resized = true
	case _WM_NCDESTROY:
		w.alive = false
		winMap.Delete(hwnd)
	}
	return defWindowProc(hwnd, msg, wParam, lParam)
}

// HWND returns the native window handle. The handle is valid while the
// window is alive.
func (w *Window) HWND() syscall.Handle {
	return w.hwnd
}

// ClientSize returns the size of the client area in pixels.
func (w *Window) ClientSize() image.Point {
	if !w.alive {
		return image.Point{}
	}
	r := getClientRect(w.hwnd)
	return image.Point{X: int(r.Right - r.Left), Y: int(r.Bottom - r.Top)}
}

// Alive reports whether the window still exists. A window dies when the
// user closes it or Destroy is called.
func (w *Window) Alive() bool {
	return w.alive
}

// Resized reports whether the window received a size change since the
// last call to Resized.
func (w *Window) Resized() bool {
	r := w.resized
	w.resized = false
	return r
}

func (w *Window) Show() {
	if !w.alive {
		return
	}
	showWindow(w.hwnd, _SW_SHOW)
	updateWindow(w.hwnd)
	setForegroundWindow(w.hwnd)
	setFocus(w.hwnd)
}

// Pump dispatches the messages queued for the calling thread without
// blocking. It returns false once the window is destroyed or the thread
// receives WM_QUIT.
func (w *Window) Pump() bool {
	m := new(msg)
	for !w.quit && peekMessage(m, 0, 0, 0, _PM_REMOVE) {
		if m.Message == _WM_QUIT {
			w.quit = true
			break
		}
		translateMessage(m)
		dispatchMessage(m)
	}
	return w.alive && !w.quit
}

// Destroy destroys the window. It is a no-op for a dead window.
func (w *Window) Destroy() {
	if !w.alive {
		return
	}
	destroyWindow(w.hwnd)
}
