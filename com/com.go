// SPDX-License-Identifier: Unlicense OR MIT

/*
Package com implements ownership of reference counted COM interfaces.

Native objects are reached through a *Handle, which owns exactly one
reference. A handle is created either by taking over the reference
returned from a native factory (Own) or by duplicating another handle
(Clone), and gives its reference back with Release:

	dev, err := ...
	if err != nil {
		return err
	}
	defer dev.Release()

Raw borrows the native pointer for the duration of a single call. The
pointer must not be stored beyond that call.
*/
package com

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unsafe"
)

// GUID is the identity of a COM interface. Its layout matches the native
// GUID structure.
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// Interface is the constraint satisfied by pointers to native COM
// interfaces. The zero value (nil) represents the absence of an object.
//
// IID must not dereference its receiver; it is called on nil pointers to
// look up the identity of the type.
type Interface interface {
	comparable
	AddRef() uint32
	Release() uint32
	IID() GUID
}

// Querier is implemented by interfaces that can be queried for other
// interfaces of the same object.
type Querier interface {
	QueryInterface(iid *GUID, out unsafe.Pointer) HRESULT
}

// UnknownVtbl is the leading part of every COM vtable.
type UnknownVtbl struct {
	QueryInterface uintptr
	AddRef         uintptr
	Release        uintptr
}

// Unknown is the native layout of a COM object as seen by its clients: a
// single pointer to a vtable. Interface types embed Unknown as their only
// field and thereby share one implementation of the IUnknown methods.
type Unknown struct {
	vtbl *UnknownVtbl
}

// Vtbl returns the object's vtable, for conversion to the full vtable
// layout of a derived interface.
func (u *Unknown) Vtbl() unsafe.Pointer {
	return unsafe.Pointer(u.vtbl)
}

func (g GUID) String() string {
	return fmt.Sprintf("{%08X-%04X-%04X-%02X%02X-%02X%02X%02X%02X%02X%02X}",
		g.Data1, g.Data2, g.Data3,
		g.Data4[0], g.Data4[1], g.Data4[2], g.Data4[3],
		g.Data4[4], g.Data4[5], g.Data4[6], g.Data4[7])
}

// ParseGUID parses the canonical form, with or without braces.
func ParseGUID(s string) (GUID, error) {
	str := strings.TrimSuffix(strings.TrimPrefix(s, "{"), "}")
	parts := strings.Split(str, "-")
	if len(parts) != 5 || len(parts[0]) != 8 || len(parts[1]) != 4 || len(parts[2]) != 4 || len(parts[3]) != 4 || len(parts[4]) != 12 {
		return GUID{}, fmt.Errorf("com: malformed GUID %q", s)
	}
	b, err := hex.DecodeString(strings.Join(parts, ""))
	if err != nil {
		return GUID{}, fmt.Errorf("com: malformed GUID %q: %v", s, err)
	}
	g := GUID{
		Data1: uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]),
		Data2: uint16(b[4])<<8 | uint16(b[5]),
		Data3: uint16(b[6])<<8 | uint16(b[7]),
	}
	copy(g.Data4[:], b[8:])
	return g, nil
}

// MustParseGUID is like ParseGUID but panics on malformed input. It is
// intended for package level interface identities.
func MustParseGUID(s string) GUID {
	g, err := ParseGUID(s)
	if err != nil {
		panic(err)
	}
	return g
}
