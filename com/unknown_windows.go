// SPDX-License-Identifier: Unlicense OR MIT

package com

import (
	"syscall"
	"unsafe"
)

func (u *Unknown) AddRef() uint32 {
	r, _, _ := syscall.SyscallN(u.vtbl.AddRef, uintptr(unsafe.Pointer(u)))
	return uint32(r)
}

func (u *Unknown) Release() uint32 {
	r, _, _ := syscall.SyscallN(u.vtbl.Release, uintptr(unsafe.Pointer(u)))
	return uint32(r)
}

func (u *Unknown) QueryInterface(iid *GUID, out unsafe.Pointer) HRESULT {
	r, _, _ := syscall.SyscallN(
		u.vtbl.QueryInterface,
		uintptr(unsafe.Pointer(u)),
		uintptr(unsafe.Pointer(iid)),
		uintptr(out),
	)
	return HRESULT(r)
}
