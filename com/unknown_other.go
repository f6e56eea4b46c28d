// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows
// +build !windows

package com

import (
	"runtime"
	"unsafe"
)

// COM objects only exist on Windows. Elsewhere no native call can hand out
// a non-nil interface pointer, so reaching these methods is a bug.

func (u *Unknown) AddRef() uint32 {
	panic("com: IUnknown.AddRef not supported on " + runtime.GOOS)
}

func (u *Unknown) Release() uint32 {
	panic("com: IUnknown.Release not supported on " + runtime.GOOS)
}

func (u *Unknown) QueryInterface(iid *GUID, out unsafe.Pointer) HRESULT {
	panic("com: IUnknown.QueryInterface not supported on " + runtime.GOOS)
}
