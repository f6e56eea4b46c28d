// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows
// +build !windows

package log

func DebuggerPresent() bool { return false }

func BreakIfDebugger() {}
