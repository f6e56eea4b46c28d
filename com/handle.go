// SPDX-License-Identifier: Unlicense OR MIT

package com

import (
	"fmt"
	"unsafe"
)

// Handle owns one reference to a native object of interface type T.
//
// Handles are used through pointers; copying a *Handle shares its single
// reference rather than duplicating it. Use Clone to obtain a second,
// independent reference. A Handle is not safe for concurrent use.
type Handle[T Interface] struct {
	ptr T
}

// Own takes over a reference returned by a native call. The reference
// count is not incremented; the caller transfers the +1 reference it
// holds. Own returns nil for a nil pointer.
func Own[T Interface](raw T) *Handle[T] {
	var null T
	if raw == null {
		return nil
	}
	return &Handle[T]{ptr: raw}
}

// IIDOf returns the interface identity associated with T.
func IIDOf[T Interface]() GUID {
	var null T
	return null.IID()
}

// IID returns the interface identity of the handle's type.
func (h *Handle[T]) IID() GUID {
	return IIDOf[T]()
}

// Clone increments the reference count and returns a new handle with its
// own release obligation.
func (h *Handle[T]) Clone() *Handle[T] {
	p := h.Raw()
	p.AddRef()
	return &Handle[T]{ptr: p}
}

// Raw borrows the native pointer for passing to a single native call. The
// result is valid only as long as h is not released and must not be
// retained. Raw panics if h is nil or released.
func (h *Handle[T]) Raw() T {
	var null T
	if h == nil || h.ptr == null {
		panic(fmt.Sprintf("com: use of released %s handle", NameOf(IIDOf[T]())))
	}
	return h.ptr
}

// Live reports whether h still owns its reference.
func (h *Handle[T]) Live() bool {
	var null T
	return h != nil && h.ptr != null
}

// Release gives up the handle's reference. Only the first call releases;
// later calls, and calls on a nil handle, do nothing.
func (h *Handle[T]) Release() {
	var null T
	if h == nil || h.ptr == null {
		return
	}
	p := h.ptr
	h.ptr = null
	p.Release()
}

func (h *Handle[T]) String() string {
	name := NameOf(IIDOf[T]())
	if !h.Live() {
		return name + "(released)"
	}
	return fmt.Sprintf("%s(%p)", name, any(h.ptr))
}

// Created returns an owned handle to the object produced by the native
// call name. A failed status is returned as an ErrorCode, and so is a
// success status that produced no object.
func Created[T Interface](name string, hr HRESULT, raw T) (*Handle[T], error) {
	if err := Check(name, hr); err != nil {
		return nil, err
	}
	h := Own(raw)
	if h == nil {
		return nil, ErrorCode{Name: name, Code: E_POINTER}
	}
	return h, nil
}

// Query asks the object behind h for interface U and returns a new owned
// handle to it. h keeps its own reference.
func Query[U Interface, T interface {
	Interface
	Querier
}](h *Handle[T]) (*Handle[U], error) {
	iid := IIDOf[U]()
	var out U
	if hr := h.Raw().QueryInterface(&iid, unsafe.Pointer(&out)); hr.Failed() {
		return nil, ErrorCode{Name: "QueryInterface(" + NameOf(iid) + ")", Code: hr}
	}
	q := Own(out)
	if q == nil {
		return nil, ErrorCode{Name: "QueryInterface(" + NameOf(iid) + ")", Code: E_POINTER}
	}
	return q, nil
}
