// SPDX-License-Identifier: Unlicense OR MIT

package shadercache

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"sync/atomic"
	"testing"

	"gioui.org/shader"
	"gioui.org/shader/gio"
	"golang.org/x/sync/errgroup"

	"d3dcom.org/d3dcompile"
)

type fakeCompiler struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (f *fakeCompiler) Compile(ctx context.Context, name string, src []byte, s Source) ([]byte, string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.fail != nil {
		return nil, "", f.fail
	}
	code := append([]byte(s.Target.String()+":"), src...)
	return code, "warning X3206: implicit truncation", nil
}

func (f *fakeCompiler) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newCache(t *testing.T) (*Cache, *fakeCompiler) {
	t.Helper()
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "sub"), 0o755); err != nil {
		t.Fatal(err)
	}
	for name, src := range map[string]string{
		"vs.hlsl":     "vertex",
		"sub/ps.hlsl": "pixel",
	} {
		if err := os.WriteFile(filepath.Join(root, filepath.FromSlash(name)), []byte(src), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	fc := new(fakeCompiler)
	return &Cache{
		Root:     root,
		Out:      filepath.Join(t.TempDir(), "assets"),
		Compiler: fc,
		Logf:     t.Logf,
	}, fc
}

var vertexSource = Source{Path: "vs.hlsl", EntryPoint: "main", Target: d3dcompile.VS_5_0}

func TestRequireCompilesOnce(t *testing.T) {
	c, fc := newCache(t)
	ctx := context.Background()
	code, err := c.Require(ctx, vertexSource)
	if err != nil {
		t.Fatal(err)
	}
	if want := []byte("vs_5_0:vertex"); !bytes.Equal(code, want) {
		t.Errorf("got %q, want %q", code, want)
	}
	onDisk, err := os.ReadFile(filepath.Join(c.Out, "vs.bin"))
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(onDisk, code) {
		t.Errorf("cached %q, compiled %q", onDisk, code)
	}
	again, err := c.Require(ctx, vertexSource)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(again, code) {
		t.Errorf("second Require returned %q", again)
	}
	if n := fc.count(); n != 1 {
		t.Errorf("compiled %d times, want 1", n)
	}
	// A fresh cache over the same directory reuses the binary.
	c2 := &Cache{Root: c.Root, Out: c.Out, Compiler: fc}
	if _, err := c2.Require(ctx, vertexSource); err != nil {
		t.Fatal(err)
	}
	if n := fc.count(); n != 1 {
		t.Errorf("compiled %d times across caches, want 1", n)
	}
}

func TestRequireNested(t *testing.T) {
	c, _ := newCache(t)
	s := Source{Path: "sub/ps.hlsl", EntryPoint: "main", Target: d3dcompile.PS_5_0}
	if _, err := c.Require(context.Background(), s); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(c.Out, "sub", "ps.bin")); err != nil {
		t.Error(err)
	}
}

func TestRequireEmptyBinary(t *testing.T) {
	c, fc := newCache(t)
	out, err := c.Path(vertexSource)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(out, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	code, err := c.Require(context.Background(), vertexSource)
	if err != nil {
		t.Fatal(err)
	}
	if len(code) == 0 || fc.count() != 1 {
		t.Errorf("empty binary not recompiled (%d compiles)", fc.count())
	}
}

func TestRequireStaleBinary(t *testing.T) {
	c, fc := newCache(t)
	out, _ := c.Path(vertexSource)
	if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(out, []byte("old"), 0o644); err != nil {
		t.Fatal(err)
	}
	code, err := c.Require(context.Background(), vertexSource)
	if err != nil {
		t.Fatal(err)
	}
	if string(code) != "old" || fc.count() != 0 {
		t.Errorf("existing binary replaced: %q", code)
	}
	c.Rebuild = true
	code, err = c.Require(context.Background(), vertexSource)
	if err != nil {
		t.Fatal(err)
	}
	if string(code) != "vs_5_0:vertex" {
		t.Errorf("Rebuild returned %q", code)
	}
}

func TestRequireConcurrent(t *testing.T) {
	c, fc := newCache(t)
	var g errgroup.Group
	for i := 0; i < 16; i++ {
		g.Go(func() error {
			_, err := c.Require(context.Background(), vertexSource)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if n := fc.count(); n != 1 {
		t.Errorf("compiled %d times, want 1", n)
	}
}

func TestRequireCompileError(t *testing.T) {
	c, fc := newCache(t)
	fc.fail = errors.New("error X3000: syntax error")
	if _, err := c.Require(context.Background(), vertexSource); !errors.Is(err, fc.fail) {
		t.Fatalf("got %v, want the compiler error", err)
	}
	out, _ := c.Path(vertexSource)
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Errorf("failed compilation left a binary: %v", err)
	}
}

func TestRequireMissingSource(t *testing.T) {
	c, fc := newCache(t)
	_, err := c.Require(context.Background(), Source{Path: "missing.hlsl", EntryPoint: "main", Target: d3dcompile.PS_5_0})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want a missing file error", err)
	}
	if fc.count() != 0 {
		t.Error("compiler called without a source")
	}
}

func TestRequireCanceled(t *testing.T) {
	c, fc := newCache(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := c.Require(ctx, vertexSource); !errors.Is(err, context.Canceled) {
		t.Errorf("got %v, want context.Canceled", err)
	}
	if fc.count() != 0 {
		t.Error("canceled Require compiled")
	}
}

func TestPath(t *testing.T) {
	c := &Cache{Out: "out"}
	got, err := c.Path(Source{Path: "a/b/vs.hlsl"})
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("out", "a", "b", "vs.bin"); got != want {
		t.Errorf("Path = %q, want %q", got, want)
	}
	for _, bad := range []string{"", "../vs.hlsl", "/abs/vs.hlsl", "a//vs.hlsl"} {
		if _, err := c.Path(Source{Path: bad}); err == nil {
			t.Errorf("Path accepted %q", bad)
		}
	}
}

func TestPrecompiled(t *testing.T) {
	if _, err := Precompiled(shader.Sources{Name: "empty.vert"}); !errors.Is(err, errNoDXBC) {
		t.Errorf("got %v, want errNoDXBC", err)
	}
	src := gio.Shader_input_vert
	if src.DXBC == "" {
		t.Skipf("no DXBC bytecode for %s on %s", src.Name, runtime.GOOS)
	}
	code, err := Precompiled(src)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(code, []byte("DXBC")) {
		t.Errorf("not a DXBC container: % x", code[:4])
	}
}

// blockingCompiler holds every compilation until release is closed or
// the compilation context is done.
type blockingCompiler struct {
	started chan struct{}
	release chan struct{}
	calls   int32
}

func (b *blockingCompiler) Compile(ctx context.Context, name string, src []byte, s Source) ([]byte, string, error) {
	if atomic.AddInt32(&b.calls, 1) == 1 {
		close(b.started)
	}
	select {
	case <-b.release:
		return append([]byte("DXBC"), src...), "", nil
	case <-ctx.Done():
		return nil, "", ctx.Err()
	}
}

func TestRequireCancelOneWaiter(t *testing.T) {
	c, _ := newCache(t)
	bc := &blockingCompiler{started: make(chan struct{}), release: make(chan struct{})}
	c.Compiler = bc

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errA := make(chan error, 1)
	go func() {
		_, err := c.Require(ctx, vertexSource)
		errA <- err
	}()
	<-bc.started

	type result struct {
		code []byte
		err  error
	}
	resB := make(chan result, 1)
	go func() {
		code, err := c.Require(context.Background(), vertexSource)
		resB <- result{code, err}
	}()

	cancel()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("canceled caller: got %v, want context.Canceled", err)
	}
	close(bc.release)
	res := <-resB
	if res.err != nil {
		t.Fatalf("waiting caller failed: %v", res.err)
	}
	if !bytes.Equal(res.code, []byte("DXBCvertex")) {
		t.Errorf("waiting caller got %q", res.code)
	}
	if n := atomic.LoadInt32(&bc.calls); n != 1 {
		t.Errorf("compiled %d times, want 1", n)
	}
}
