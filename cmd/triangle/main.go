// SPDX-License-Identifier: Unlicense OR MIT

// Command triangle opens a window and draws a triangle with Direct3D 11.
//
// By default the shaders are the precompiled ones from gioui.org/shader.
// With -assets, vs.hlsl and ps.hlsl are compiled from that directory once
// and kept in the -cache directory for later runs.
package main

import (
	"context"
	"flag"
	"fmt"
	"image/color"
	"log"
	"os"
	"strings"

	"gioui.org/shader/gio"
	"golang.org/x/image/colornames"

	"d3dcom.org/d3d11"
	"d3dcom.org/d3dcompile"
	"d3dcom.org/dxgi"
	dlog "d3dcom.org/internal/log"
	"d3dcom.org/shadercache"
)

var (
	assetsDir = flag.String("assets", "", "directory with vs.hlsl and ps.hlsl (default: precompiled shaders)")
	cacheDir  = flag.String("cache", "assets", "directory for compiled shaders")
	rebuild   = flag.Bool("rebuild", false, "recompile shaders even if cached")
	driver    = flag.String("driver", "hardware", "driver type (hardware, warp, reference)")
	debug     = flag.Bool("debug", false, "create a debug device and report leaked objects")
	vsync     = flag.Bool("vsync", true, "wait for vertical sync")
	frames    = flag.Int("frames", 0, "exit after this many frames (0 to run until closed)")
	bg        = flag.String("bg", "steelblue", "background color name")
)

type config struct {
	driver       d3d11.DriverType
	debug        bool
	syncInterval int
	frames       int
	background   [4]float32
	shaders      shaders
}

// shaders is the bytecode and vertex layout of the triangle program.
type shaders struct {
	vertex, pixel []byte
	layout        []d3d11.InputElement
	stride        uint32
}

func main() {
	flag.Parse()
	if err := mainErr(); err != nil {
		dlog.BreakIfDebugger()
		log.Fatalf("triangle: %v", err)
	}
}

func mainErr() error {
	drv, err := d3d11.ParseDriverType(*driver)
	if err != nil {
		return err
	}
	bgColor, ok := colornames.Map[strings.ToLower(*bg)]
	if !ok {
		return fmt.Errorf("unknown color %q", *bg)
	}
	cfg := config{
		driver:     drv,
		debug:      *debug,
		frames:     *frames,
		background: toFloat(bgColor),
	}
	if *vsync {
		cfg.syncInterval = 1
	}
	if *assetsDir == "" {
		cfg.shaders, err = precompiled()
	} else {
		cfg.shaders, err = compiled(*assetsDir, *cacheDir)
	}
	if err != nil {
		return err
	}
	return run(cfg)
}

func precompiled() (shaders, error) {
	vs, err := shadercache.Precompiled(gio.Shader_input_vert)
	if err != nil {
		return shaders{}, err
	}
	ps, err := shadercache.Precompiled(gio.Shader_simple_frag)
	if err != nil {
		return shaders{}, err
	}
	layout, stride, err := d3d11.InputElementsFromShader(gio.Shader_input_vert)
	if err != nil {
		return shaders{}, err
	}
	return shaders{vertex: vs, pixel: ps, layout: layout, stride: stride}, nil
}

func compiled(root, out string) (shaders, error) {
	compiler, err := newCompiler()
	if err != nil {
		return shaders{}, err
	}
	cache := &shadercache.Cache{
		Root:     root,
		Out:      out,
		Compiler: compiler,
		Rebuild:  *rebuild,
		Logf:     log.Printf,
	}
	ctx := context.Background()
	vs, err := cache.Require(ctx, shadercache.Source{Path: "vs.hlsl", EntryPoint: "main", Target: d3dcompile.VS_5_0})
	if err != nil {
		return shaders{}, err
	}
	ps, err := cache.Require(ctx, shadercache.Source{Path: "ps.hlsl", EntryPoint: "main", Target: d3dcompile.PS_5_0})
	if err != nil {
		return shaders{}, err
	}
	layout := []d3d11.InputElement{
		{SemanticName: "POSITION", Format: dxgi.FORMAT_R32G32B32A32_FLOAT, InputSlotClass: d3d11.INPUT_PER_VERTEX_DATA},
	}
	return shaders{vertex: vs, pixel: ps, layout: layout, stride: 16}, nil
}

func toFloat(c color.RGBA) [4]float32 {
	return [4]float32{
		float32(c.R) / 255,
		float32(c.G) / 255,
		float32(c.B) / 255,
		float32(c.A) / 255,
	}
}

func init() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: triangle [flags]\n")
		flag.PrintDefaults()
	}
}
