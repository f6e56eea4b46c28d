// SPDX-License-Identifier: Unlicense OR MIT

package unsafe

import (
	"bytes"
	"testing"
)

func TestBytesView(t *testing.T) {
	v := []uint16{0x0102, 0x0304}
	b := BytesView(v)
	if len(b) != 4 {
		t.Fatalf("len = %d, want 4", len(b))
	}
	b[0] = 0xff
	if v[0]&0xff != 0xff && v[0]>>8 != 0xff {
		t.Error("BytesView does not alias its input")
	}
	if BytesView([]float32(nil)) != nil {
		t.Error("BytesView of an empty slice is not nil")
	}
}

func TestCString(t *testing.T) {
	b, err := CString("POSITION")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(b, []byte("POSITION\x00")) {
		t.Errorf("CString = %q", b)
	}
	if GoString(b) != "POSITION" {
		t.Errorf("GoString = %q", GoString(b))
	}
	if _, err := CString("POS\x00ITION"); err == nil {
		t.Error("CString accepted an embedded NUL")
	}
}

func TestPtr(t *testing.T) {
	if Ptr([]int(nil)) != nil {
		t.Error("Ptr of an empty slice is not nil")
	}
	s := []int{1, 2}
	if *(*int)(Ptr(s)) != 1 {
		t.Error("Ptr does not point at the first element")
	}
}
