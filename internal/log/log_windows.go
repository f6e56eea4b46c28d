// SPDX-License-Identifier: Unlicense OR MIT

package log

import (
	"log"
	"unsafe"

	syscall "golang.org/x/sys/windows"
)

type debugWriter struct{}

var (
	kernel32           = syscall.NewLazySystemDLL("kernel32")
	outputDebugStringW = kernel32.NewProc("OutputDebugStringW")
	isDebuggerPresent  = kernel32.NewProc("IsDebuggerPresent")
	debugBreak         = kernel32.NewProc("DebugBreak")
)

func init() {
	// DebugView adds its own timestamps.
	if syscall.Stderr == 0 {
		log.SetFlags(log.Flags() &^ log.LstdFlags)
		log.SetOutput(debugWriter{})
	}
}

func (debugWriter) Write(buf []byte) (int, error) {
	p, err := syscall.UTF16PtrFromString(string(buf))
	if err != nil {
		return 0, err
	}
	outputDebugStringW.Call(uintptr(unsafe.Pointer(p)))
	return len(buf), nil
}

// DebuggerPresent reports whether a debugger is attached.
func DebuggerPresent() bool {
	r, _, _ := isDebuggerPresent.Call()
	return r != 0
}

// BreakIfDebugger stops in an attached debugger and does nothing
// otherwise.
func BreakIfDebugger() {
	if DebuggerPresent() {
		debugBreak.Call()
	}
}
