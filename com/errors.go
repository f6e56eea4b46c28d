// SPDX-License-Identifier: Unlicense OR MIT

package com

import (
	"errors"
	"fmt"
)

// HRESULT is a native status code. Negative values signal failure.
type HRESULT uint32

const (
	S_OK    HRESULT = 0
	S_FALSE HRESULT = 1

	E_NOTIMPL     HRESULT = 0x80004001
	E_NOINTERFACE HRESULT = 0x80004002
	E_POINTER     HRESULT = 0x80004003
	E_FAIL        HRESULT = 0x80004005
	E_OUTOFMEMORY HRESULT = 0x8007000E
	E_INVALIDARG  HRESULT = 0x80070057

	DXGI_STATUS_OCCLUDED HRESULT = 0x087A0001

	DXGI_ERROR_INVALID_CALL          HRESULT = 0x887A0001
	DXGI_ERROR_NOT_FOUND             HRESULT = 0x887A0002
	DXGI_ERROR_UNSUPPORTED           HRESULT = 0x887A0004
	DXGI_ERROR_DEVICE_REMOVED        HRESULT = 0x887A0005
	DXGI_ERROR_DEVICE_HUNG           HRESULT = 0x887A0006
	DXGI_ERROR_DEVICE_RESET          HRESULT = 0x887A0007
	DXGI_ERROR_DRIVER_INTERNAL_ERROR HRESULT = 0x887A0020
	DXGI_ERROR_SDK_COMPONENT_MISSING HRESULT = 0x887A002D

	D3D11_ERROR_FILE_NOT_FOUND HRESULT = 0x887C0002
	D3DDDIERR_DEVICEREMOVED    HRESULT = 1<<31 | 0x876<<16 | 2160
)

// Error classes. An ErrorCode unwraps to at most one of them, so that
// callers can write errors.Is(err, com.ErrDeviceLost).
var (
	ErrInvalidArg  = errors.New("invalid argument")
	ErrDeviceLost  = errors.New("device lost")
	ErrUnsupported = errors.New("unsupported")
	ErrNotFound    = errors.New("not found")
	ErrOutOfMemory = errors.New("out of memory")
	ErrNoInterface = errors.New("no such interface")
)

// ErrorCode is the error returned by a failed native call.
type ErrorCode struct {
	Name string
	Code HRESULT
}

func (h HRESULT) Failed() bool    { return int32(h) < 0 }
func (h HRESULT) Succeeded() bool { return int32(h) >= 0 }

// Check returns nil for a successful status and an ErrorCode otherwise.
func Check(name string, hr HRESULT) error {
	if hr.Failed() {
		return ErrorCode{Name: name, Code: hr}
	}
	return nil
}

// Class returns the error class of a failure code, or nil if the code is
// not classified.
func Class(hr HRESULT) error {
	switch hr {
	case E_INVALIDARG, E_POINTER, DXGI_ERROR_INVALID_CALL:
		return ErrInvalidArg
	case DXGI_ERROR_DEVICE_REMOVED, DXGI_ERROR_DEVICE_RESET, DXGI_ERROR_DEVICE_HUNG,
		DXGI_ERROR_DRIVER_INTERNAL_ERROR, D3DDDIERR_DEVICEREMOVED:
		return ErrDeviceLost
	case DXGI_ERROR_UNSUPPORTED, DXGI_ERROR_SDK_COMPONENT_MISSING, E_NOTIMPL:
		return ErrUnsupported
	case DXGI_ERROR_NOT_FOUND, D3D11_ERROR_FILE_NOT_FOUND:
		return ErrNotFound
	case E_OUTOFMEMORY:
		return ErrOutOfMemory
	case E_NOINTERFACE:
		return ErrNoInterface
	}
	return nil
}

func (e ErrorCode) Error() string {
	return fmt.Sprintf("%s: %#x", e.Name, uint32(e.Code))
}

func (e ErrorCode) Unwrap() error {
	return Class(e.Code)
}
