// SPDX-License-Identifier: Unlicense OR MIT

package log

import "testing"

func TestDebugWriter(t *testing.T) {
	msg := []byte("d3dcom: debug output test\n")
	n, err := debugWriter{}.Write(msg)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(msg) {
		t.Errorf("wrote %d bytes, want %d", n, len(msg))
	}
	if _, err := (debugWriter{}).Write([]byte("a\x00b")); err == nil {
		t.Error("NUL in debug output accepted")
	}
}
