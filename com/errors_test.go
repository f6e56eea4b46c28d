// SPDX-License-Identifier: Unlicense OR MIT

package com

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorClasses(t *testing.T) {
	tests := []struct {
		code  HRESULT
		class error
	}{
		{E_INVALIDARG, ErrInvalidArg},
		{DXGI_ERROR_INVALID_CALL, ErrInvalidArg},
		{DXGI_ERROR_DEVICE_REMOVED, ErrDeviceLost},
		{DXGI_ERROR_DEVICE_RESET, ErrDeviceLost},
		{D3DDDIERR_DEVICEREMOVED, ErrDeviceLost},
		{DXGI_ERROR_UNSUPPORTED, ErrUnsupported},
		{DXGI_ERROR_NOT_FOUND, ErrNotFound},
		{E_OUTOFMEMORY, ErrOutOfMemory},
		{E_NOINTERFACE, ErrNoInterface},
		{E_FAIL, nil},
	}
	for _, test := range tests {
		err := fmt.Errorf("wrapped: %w", ErrorCode{Name: "Call", Code: test.code})
		if got := Class(test.code); got != test.class {
			t.Errorf("Class(%#x) = %v, want %v", uint32(test.code), got, test.class)
		}
		if test.class != nil && !errors.Is(err, test.class) {
			t.Errorf("errors.Is(%v, %v) = false", err, test.class)
		}
		var code ErrorCode
		if !errors.As(err, &code) || code.Code != test.code {
			t.Errorf("errors.As lost the status code of %v", err)
		}
	}
}

func TestCheck(t *testing.T) {
	if err := Check("Call", S_OK); err != nil {
		t.Errorf("Check(S_OK) = %v", err)
	}
	// Success codes other than S_OK are not failures.
	if err := Check("Present", DXGI_STATUS_OCCLUDED); err != nil {
		t.Errorf("Check(DXGI_STATUS_OCCLUDED) = %v", err)
	}
	err := Check("Call", E_INVALIDARG)
	if err == nil || err.Error() != "Call: 0x80070057" {
		t.Errorf("Check(E_INVALIDARG) = %v", err)
	}
}

func TestGUIDRoundTrip(t *testing.T) {
	const s = "{DB6F6DDB-AC77-4E88-8253-819DF9BBF140}"
	g, err := ParseGUID(s)
	if err != nil {
		t.Fatal(err)
	}
	want := GUID{0xdb6f6ddb, 0xac77, 0x4e88, [8]byte{0x82, 0x53, 0x81, 0x9d, 0xf9, 0xbb, 0xf1, 0x40}}
	if g != want {
		t.Errorf("ParseGUID(%q) = %#v, want %#v", s, g, want)
	}
	if g.String() != s {
		t.Errorf("String() = %s, want %s", g, s)
	}
	for _, bad := range []string{"", "{DB6F6DDB}", "{DB6F6DDB-AC77-4E88-8253-819DF9BBF14Z}"} {
		if _, err := ParseGUID(bad); err == nil {
			t.Errorf("ParseGUID(%q) succeeded", bad)
		}
	}
}

func TestRegistry(t *testing.T) {
	if got := NameOf(fakeIID); got != "IFakeObject" {
		t.Errorf("NameOf(fakeIID) = %q", got)
	}
	unknown := MustParseGUID("{00000000-0000-0000-0000-0000000000AA}")
	if got := NameOf(unknown); got != unknown.String() {
		t.Errorf("NameOf(unregistered) = %q", got)
	}
	// Registering the same name twice is fine.
	Register[*fakeObject]("IFakeObject")
	defer func() {
		if recover() == nil {
			t.Error("conflicting registration did not panic")
		}
	}()
	Register[*fakeObject]("IOtherName")
}
