// SPDX-License-Identifier: Unlicense OR MIT

package window

import (
	"fmt"
	"unsafe"

	syscall "golang.org/x/sys/windows"
)

type wndClassEx struct {
	CbSize        uint32
	Style         uint32
	LpfnWndProc   uintptr
	CnClsExtra    int32
	CbWndExtra    int32
	HInstance     syscall.Handle
	HIcon         syscall.Handle
	HCursor       syscall.Handle
	HbrBackground syscall.Handle
	LpszMenuName  *uint16
	LpszClassName *uint16
	HIconSm       syscall.Handle
}

type msg struct {
	Hwnd     syscall.Handle
	Message  uint32
	WParam   uintptr
	LParam   uintptr
	Time     uint32
	Pt       point
	LPrivate uint32
}

type point struct {
	X, Y int32
}

type rect struct {
	Left, Top, Right, Bottom int32
}

const (
	_CS_HREDRAW = 0x0002
	_CS_VREDRAW = 0x0001
	_CS_OWNDC   = 0x0020

	_CW_USEDEFAULT = -2147483648

	_IDC_ARROW = 32512

	_PM_REMOVE = 0x0001

	_SW_SHOW = 5

	_WM_NCDESTROY = 0x0082
	_WM_QUIT      = 0x0012
	_WM_SIZE      = 0x0005

	_WS_CLIPCHILDREN     = 0x02000000
	_WS_CLIPSIBLINGS     = 0x04000000
	_WS_OVERLAPPEDWINDOW = 0x00CF0000

	_WS_EX_APPWINDOW  = 0x00040000
	_WS_EX_WINDOWEDGE = 0x00000100
)

var (
	kernel32          = syscall.NewLazySystemDLL("kernel32.dll")
	_GetModuleHandleW = kernel32.NewProc("GetModuleHandleW")

	user32               = syscall.NewLazySystemDLL("user32.dll")
	_AdjustWindowRectEx  = user32.NewProc("AdjustWindowRectEx")
	_CreateWindowEx      = user32.NewProc("CreateWindowExW")
	_DefWindowProc       = user32.NewProc("DefWindowProcW")
	_DestroyWindow       = user32.NewProc("DestroyWindow")
	_DispatchMessage     = user32.NewProc("DispatchMessageW")
	_GetClientRect       = user32.NewProc("GetClientRect")
	_LoadCursor          = user32.NewProc("LoadCursorW")
	_PeekMessage         = user32.NewProc("PeekMessageW")
	_RegisterClassExW    = user32.NewProc("RegisterClassExW")
	_SetFocus            = user32.NewProc("SetFocus")
	_SetForegroundWindow = user32.NewProc("SetForegroundWindow")
	_SetProcessDPIAware  = user32.NewProc("SetProcessDPIAware")
	_ShowWindow          = user32.NewProc("ShowWindow")
	_TranslateMessage    = user32.NewProc("TranslateMessage")
	_UpdateWindow        = user32.NewProc("UpdateWindow")
)

func adjustWindowRectEx(r *rect, dwStyle uint32, dwExStyle uint32) {
	_AdjustWindowRectEx.Call(uintptr(unsafe.Pointer(r)), uintptr(dwStyle), 0, uintptr(dwExStyle))
}

func createWindowEx(dwExStyle uint32, lpClassName uint16, lpWindowName string, dwStyle uint32, x, y, w, h int32, hInstance syscall.Handle) (syscall.Handle, error) {
	wname, err := syscall.UTF16PtrFromString(lpWindowName)
	if err != nil {
		return 0, err
	}
	hwnd, _, err := _CreateWindowEx.Call(
		uintptr(dwExStyle),
		uintptr(lpClassName),
		uintptr(unsafe.Pointer(wname)),
		uintptr(dwStyle),
		uintptr(x), uintptr(y),
		uintptr(w), uintptr(h),
		0, // hWndParent
		0, // hMenu
		uintptr(hInstance),
		0, // lpParam
	)
	if hwnd == 0 {
		return 0, fmt.Errorf("CreateWindowEx failed: %v", err)
	}
	return syscall.Handle(hwnd), nil
}

func defWindowProc(hwnd syscall.Handle, msg uint32, wparam, lparam uintptr) uintptr {
	r, _, _ := _DefWindowProc.Call(uintptr(hwnd), uintptr(msg), wparam, lparam)
	return r
}

func destroyWindow(hwnd syscall.Handle) {
	_DestroyWindow.Call(uintptr(hwnd))
}

func dispatchMessage(m *msg) {
	_DispatchMessage.Call(uintptr(unsafe.Pointer(m)))
}

func getClientRect(hwnd syscall.Handle) rect {
	var r rect
	_GetClientRect.Call(uintptr(hwnd), uintptr(unsafe.Pointer(&r)))
	return r
}

func getModuleHandle() (syscall.Handle, error) {
	h, _, err := _GetModuleHandleW.Call(uintptr(0))
	if h == 0 {
		return 0, fmt.Errorf("GetModuleHandleW failed: %v", err)
	}
	return syscall.Handle(h), nil
}

func loadCursor(curID uint16) (syscall.Handle, error) {
	h, _, err := _LoadCursor.Call(0, uintptr(curID))
	if h == 0 {
		return 0, fmt.Errorf("LoadCursorW failed: %v", err)
	}
	return syscall.Handle(h), nil
}

func peekMessage(m *msg, hwnd syscall.Handle, wMsgFilterMin, wMsgFilterMax, wRemoveMsg uint32) bool {
	r, _, _ := _PeekMessage.Call(uintptr(unsafe.Pointer(m)), uintptr(hwnd), uintptr(wMsgFilterMin), uintptr(wMsgFilterMax), uintptr(wRemoveMsg))
	return r != 0
}

func registerClassEx(cls *wndClassEx) (uint16, error) {
	a, _, err := _RegisterClassExW.Call(uintptr(unsafe.Pointer(cls)))
	if a == 0 {
		return 0, fmt.Errorf("RegisterClassExW failed: %v", err)
	}
	return uint16(a), nil
}

func setFocus(hwnd syscall.Handle) {
	_SetFocus.Call(uintptr(hwnd))
}

func setForegroundWindow(hwnd syscall.Handle) {
	_SetForegroundWindow.Call(uintptr(hwnd))
}

func setProcessDPIAware() {
	_SetProcessDPIAware.Call()
}

func showWindow(hwnd syscall.Handle, nCmdShow int32) {
	_ShowWindow.Call(uintptr(hwnd), uintptr(nCmdShow))
}

func translateMessage(m *msg) {
	_TranslateMessage.Call(uintptr(unsafe.Pointer(m)))
}

func updateWindow(hwnd syscall.Handle) {
	_UpdateWindow.Call(uintptr(hwnd))
}
