// SPDX-License-Identifier: Unlicense OR MIT

// Command shaderc compiles a tree of HLSL shaders into the binary layout
// read by shadercache.
//
// The stage of a shader is the prefix of its file name up to the first
// '.' or '_': vs.hlsl and vs_blit.hlsl are vertex shaders, ps.hlsl a pixel
// shader.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"os"
	"path"
	"runtime"
	"sort"
	"strings"

	"golang.org/x/exp/slices"
	"golang.org/x/sync/errgroup"

	"d3dcom.org/d3dcompile"
	"d3dcom.org/shadercache"
)

var (
	srcDir   = flag.String("src", ".", "directory of .hlsl sources")
	outDir   = flag.String("out", "assets", "output directory")
	model    = flag.String("model", "5_0", "shader model, such as 5_0 or 4_0_level_9_1")
	entry    = flag.String("entry", "main", "entry point")
	force    = flag.Bool("f", false, "recompile up to date shaders")
	parallel = flag.Int("j", runtime.NumCPU(), "number of parallel compilations")
	verbose  = flag.Bool("v", false, "print compiled shaders")
)

var stages = []string{"vs", "ps", "cs", "gs", "hs", "ds"}

func main() {
	flag.Parse()
	if err := mainErr(); err != nil {
		fmt.Fprintf(os.Stderr, "shaderc: %v\n", err)
		os.Exit(1)
	}
}

func mainErr() error {
	if *parallel < 1 {
		return errors.New("-j must be positive")
	}
	srcs, err := findSources(os.DirFS(*srcDir), *model, *entry)
	if err != nil {
		return err
	}
	if len(srcs) == 0 {
		return fmt.Errorf("no shaders in %s", *srcDir)
	}
	compiler, err := newCompiler()
	if err != nil {
		return err
	}
	cache := &shadercache.Cache{
		Root:     *srcDir,
		Out:      *outDir,
		Compiler: compiler,
		Rebuild:  *force,
	}
	if *verbose {
		cache.Logf = func(format string, args ...interface{}) {
			fmt.Fprintf(os.Stderr, format+"\n", args...)
		}
	}
	return compileAll(context.Background(), cache, srcs, *parallel)
}

func compileAll(ctx context.Context, cache *shadercache.Cache, srcs []shadercache.Source, limit int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, s := range srcs {
		s := s
		g.Go(func() error {
			_, err := cache.Require(ctx, s)
			return err
		})
	}
	return g.Wait()
}

// findSources lists the shaders under fsys with their targets for the
// given shader model.
func findSources(fsys fs.FS, model, entry string) ([]shadercache.Source, error) {
	var srcs []shadercache.Source
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || path.Ext(p) != ".hlsl" {
			return nil
		}
		stage := stageOf(path.Base(p))
		if !slices.Contains(stages, stage) {
			// Include files and other helpers.
			return nil
		}
		target, err := d3dcompile.ParseTarget(stage + "_" + model)
		if err != nil {
			return fmt.Errorf("%s: %v", p, err)
		}
		srcs = append(srcs, shadercache.Source{
			Path:       p,
			EntryPoint: entry,
			Target:     target,
		})
		return nil
	})
	sort.Slice(srcs, func(i, j int) bool {
		return srcs[i].Path < srcs[j].Path
	})
	return srcs, err
}

func stageOf(name string) string {
	name = strings.ToLower(name)
	if i := strings.IndexAny(name, "._"); i >= 0 {
		name = name[:i]
	}
	return name
}
