// SPDX-License-Identifier: Unlicense OR MIT

// Package shadercache compiles shader sources once and keeps the
// bytecode in a directory of binary files.
//
// The binary for a source is stored under the output directory at the
// source's relative path with its extension replaced by ".bin". A binary
// of nonzero size is considered up to date; sources are not hashed and
// timestamps are not compared. Set Rebuild to force recompilation.
package shadercache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gioui.org/shader"
	"golang.org/x/sync/singleflight"

	"d3dcom.org/d3dcompile"
)

// Source describes a shader program to compile.
type Source struct {
	// Path of the source file relative to Cache.Root, with forward
	// slashes.
	Path       string
	EntryPoint string
	Target     d3dcompile.Target
	Defines    []d3dcompile.Define
}

// Compiler turns shader source into bytecode.
type Compiler interface {
	// Compile compiles src, read from the file name. Warnings are
	// returned along with the bytecode.
	Compile(ctx context.Context, name string, src []byte, s Source) (code []byte, warnings string, err error)
}

// Cache is a compile-once shader cache. A Cache is safe for concurrent
// use; concurrent requests for the same binary share one compilation.
type Cache struct {
	// Root is the directory of shader sources.
	Root string
	// Out is the directory of compiled binaries.
	Out      string
	Compiler Compiler
	// Rebuild forces every Require to recompile.
	Rebuild bool
	// Logf, if set, receives compilation and warning messages.
	Logf func(format string, args ...interface{})

	group singleflight.Group
}

var errNoDXBC = errors.New("shadercache: no DXBC bytecode")

// Path returns the location of the compiled binary for s.
func (c *Cache) Path(s Source) (string, error) {
	rel := filepath.FromSlash(s.Path)
	if s.Path == "" || filepath.IsAbs(rel) || !fs.ValidPath(s.Path) {
		return "", fmt.Errorf("shadercache: invalid source path %q", s.Path)
	}
	rel = strings.TrimSuffix(rel, filepath.Ext(rel)) + ".bin"
	return filepath.Join(c.Out, rel), nil
}

// Require returns the bytecode for s, compiling and storing it if no
// usable binary exists. Canceling ctx abandons the wait; a compilation
// other callers are waiting for keeps running.
func (c *Cache) Require(ctx context.Context, s Source) ([]byte, error) {
	out, err := c.Path(s)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	// Shared by every caller waiting on out.
	ch := c.group.DoChan(out, func() (interface{}, error) {
		return c.require(context.Background(), out, s)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]byte), nil
	}
}

func (c *Cache) require(ctx context.Context, out string, s Source) ([]byte, error) {
	if !c.Rebuild {
		code, err := os.ReadFile(out)
		switch {
		case err == nil && len(code) > 0:
			return code, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist):
			return nil, fmt.Errorf("shadercache: %w", err)
		}
	}
	if c.Compiler == nil {
		return nil, fmt.Errorf("shadercache: %s: no compiler", s.Path)
	}
	name := filepath.Join(c.Root, filepath.FromSlash(s.Path))
	src, err := os.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("shadercache: %w", err)
	}
	c.logf("compiling %s (%s, %v)", s.Path, s.EntryPoint, s.Target)
	code, warnings, err := c.Compiler.Compile(ctx, name, src, s)
	if err != nil {
		return nil, fmt.Errorf("shadercache: %s: %w", s.Path, err)
	}
	if w := strings.TrimSpace(warnings); w != "" {
		c.logf("%s: %s", s.Path, w)
	}
	if len(code) == 0 {
		return nil, fmt.Errorf("shadercache: %s: compiler returned no bytecode", s.Path)
	}
	if err := writeFile(out, code); err != nil {
		return nil, fmt.Errorf("shadercache: %w", err)
	}
	return code, nil
}

// writeFile replaces path with data, creating parent directories.
func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(data)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, path)
	}
	if err != nil {
		os.Remove(tmp)
	}
	return err
}

func (c *Cache) logf(format string, args ...interface{}) {
	if c.Logf != nil {
		c.Logf(format, args...)
	}
}

// Precompiled returns the DXBC bytecode embedded in src.
func Precompiled(src shader.Sources) ([]byte, error) {
	if src.DXBC == "" {
		return nil, fmt.Errorf("%w for %s", errNoDXBC, src.Name)
	}
	return []byte(src.DXBC), nil
}
