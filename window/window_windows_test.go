// SPDX-License-Identifier: Unlicense OR MIT

package window

import (
	"image"
	"runtime"
	"testing"
)

func TestWindowLifecycle(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	want := image.Pt(320, 240)
	w, err := New(Options{Title: "test", Size: want, Hidden: true})
	if err != nil {
		t.Skipf("no window station: %v", err)
	}
	defer w.Destroy()
	if w.HWND() == 0 {
		t.Fatal("zero HWND")
	}
	if !w.Alive() || !w.Pump() {
		t.Fatal("new window is dead")
	}
	if got := w.ClientSize(); got != want {
		t.Errorf("client size %v, want %v", got, want)
	}
	w.Destroy()
	if w.Alive() {
		t.Error("destroyed window is alive")
	}
	if w.Pump() {
		t.Error("Pump reports a destroyed window")
	}
	if sz := w.ClientSize(); sz != (image.Point{}) {
		t.Errorf("destroyed window has size %v", sz)
	}
	// Destroy is idempotent.
	w.Destroy()
}

func TestMultipleWindows(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	var wins []*Window
	for i := 0; i < 2; i++ {
		w, err := New(Options{Size: image.Pt(64, 64), Hidden: true})
		if err != nil {
			t.Skipf("no window station: %v", err)
		}
		wins = append(wins, w)
	}
	if wins[0].HWND() == wins[1].HWND() {
		t.Error("windows share an HWND")
	}
	wins[0].Destroy()
	if !wins[1].Alive() || !wins[1].Pump() {
		t.Error("destroying one window killed another")
	}
	wins[1].Destroy()
}
