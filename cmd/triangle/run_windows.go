// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"errors"
	"fmt"
	"image"
	"log"
	"runtime"

	"d3dcom.org/com"
	"d3dcom.org/d3d11"
	"d3dcom.org/dxgi"
	gunsafe "d3dcom.org/internal/unsafe"
	"d3dcom.org/shadercache"
	"d3dcom.org/window"
)

var vertices = []float32{
	0, .5, .5, 1,
	.5, -.5, .5, 1,
	-.5, -.5, .5, 1,
}

type renderer struct {
	vs     *com.Handle[*d3d11.VertexShader]
	ps     *com.Handle[*d3d11.PixelShader]
	layout *com.Handle[*d3d11.InputLayout]
	vbuf   *com.Handle[*d3d11.Buffer]
	rs     *com.Handle[*d3d11.RasterizerState]
	stride uint32
}

func newCompiler() (shadercache.Compiler, error) {
	return shadercache.D3DCompiler{}, nil
}

func run(cfg config) error {
	// Window messages are delivered to the creating thread.
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	win, err := window.New(window.Options{Title: "Triangle", Size: image.Pt(800, 600)})
	if err != nil {
		return err
	}
	defer win.Destroy()

	sz := win.ClientSize()
	opts := d3d11.CreateOptions{
		DriverType:    cfg.driver,
		FeatureLevels: []d3d11.FeatureLevel{d3d11.FEATURE_LEVEL_11_0},
	}
	if cfg.debug {
		opts.Flags |= d3d11.CREATE_DEVICE_DEBUG
	}
	dsc, err := d3d11.CreateDeviceAndSwapChain(opts, &dxgi.SWAP_CHAIN_DESC{
		BufferDesc: dxgi.MODE_DESC{
			Width:  uint32(sz.X),
			Height: uint32(sz.Y),
			Format: dxgi.FORMAT_R8G8B8A8_UNORM,
		},
		SampleDesc:   dxgi.SAMPLE_DESC{Count: 1},
		BufferUsage:  dxgi.USAGE_RENDER_TARGET_OUTPUT,
		BufferCount:  1,
		OutputWindow: uintptr(win.HWND()),
		Windowed:     1,
		SwapEffect:   dxgi.SWAP_EFFECT_DISCARD,
	})
	if err != nil {
		return fmt.Errorf("%v device: %w", cfg.driver, err)
	}
	defer dsc.Release()
	logAdapter(dsc.Device, dsc.FeatureLevel)

	r, err := newRenderer(dsc.Device.Raw(), cfg.shaders)
	if err != nil {
		return err
	}
	err = loop(win, dsc, r, cfg)
	r.Release()
	if cfg.debug {
		if err := d3d11.ReportLiveDeviceObjects(dsc.Device); err != nil {
			log.Printf("triangle: %v", err)
		}
	}
	return err
}

func loop(win *window.Window, dsc *d3d11.DeviceAndSwapChain, r *renderer, cfg config) error {
	dev, ctx, swap := dsc.Device.Raw(), dsc.Context.Raw(), dsc.SwapChain.Raw()
	rtv, err := backBufferView(dsc)
	if err != nil {
		return err
	}
	defer func() { rtv.Release() }()
	for frame := 0; cfg.frames == 0 || frame < cfg.frames; frame++ {
		if !win.Pump() {
			return nil
		}
		sz := win.ClientSize()
		if sz.X == 0 || sz.Y == 0 {
			// Minimized.
			continue
		}
		if win.Resized() {
			ctx.OMSetRenderTargets(nil, nil)
			rtv.Release()
			if err := swap.ResizeBuffers(0, uint32(sz.X), uint32(sz.Y), dxgi.FORMAT_UNKNOWN, 0); err != nil {
				return deviceError(dev, err)
			}
			if rtv, err = backBufferView(dsc); err != nil {
				return err
			}
		}
		r.draw(ctx, rtv, sz, cfg.background)
		if err := swap.Present(cfg.syncInterval, 0); err != nil {
			return deviceError(dev, err)
		}
	}
	return nil
}

// deviceError adds the removal reason to the error of a lost device.
func deviceError(dev *d3d11.Device, err error) error {
	if !errors.Is(err, com.ErrDeviceLost) {
		return err
	}
	return fmt.Errorf("%w (removal reason: %v)", err, dev.GetDeviceRemovedReason())
}

func backBufferView(dsc *d3d11.DeviceAndSwapChain) (*com.Handle[*d3d11.RenderTargetView], error) {
	buf, err := dxgi.GetBuffer[*d3d11.Texture2D](dsc.SwapChain, 0)
	if err != nil {
		return nil, err
	}
	defer buf.Release()
	return dsc.Device.Raw().CreateRenderTargetView(d3d11.AsResource(buf), nil)
}

func logAdapter(dev *com.Handle[*d3d11.Device], lvl d3d11.FeatureLevel) {
	dxgiDev, err := com.Query[*dxgi.Device](dev)
	if err != nil {
		log.Printf("triangle: %v", err)
		return
	}
	defer dxgiDev.Release()
	adapter, err := dxgiDev.Raw().GetAdapter()
	if err != nil {
		log.Printf("triangle: %v", err)
		return
	}
	defer adapter.Release()
	adapter1, err := com.Query[*dxgi.Adapter1](adapter)
	if err != nil {
		log.Printf("triangle: %v", err)
		return
	}
	defer adapter1.Release()
	desc, err := adapter1.Raw().Desc1()
	if err != nil {
		log.Printf("triangle: %v", err)
		return
	}
	log.Printf("triangle: %s, %v", desc.Name(), lvl)
}

func newRenderer(dev *d3d11.Device, s shaders) (*renderer, error) {
	r := &renderer{stride: s.stride}
	var err error
	if r.vs, err = dev.CreateVertexShader(s.vertex, nil); err != nil {
		r.Release()
		return nil, err
	}
	if r.ps, err = dev.CreatePixelShader(s.pixel, nil); err != nil {
		r.Release()
		return nil, err
	}
	if r.layout, err = dev.CreateInputLayout(s.layout, s.vertex); err != nil {
		r.Release()
		return nil, err
	}
	data := gunsafe.BytesView(vertices)
	r.vbuf, err = dev.CreateBuffer(&d3d11.BUFFER_DESC{
		ByteWidth: uint32(len(data)),
		Usage:     d3d11.USAGE_IMMUTABLE,
		BindFlags: d3d11.BIND_VERTEX_BUFFER,
	}, &d3d11.SubresourceData{Data: data})
	if err != nil {
		r.Release()
		return nil, err
	}
	r.rs, err = dev.CreateRasterizerState(&d3d11.RASTERIZER_DESC{
		FillMode:        d3d11.FILL_SOLID,
		CullMode:        d3d11.CULL_NONE,
		DepthClipEnable: 1,
	})
	if err != nil {
		r.Release()
		return nil, err
	}
	return r, nil
}

func (r *renderer) draw(ctx *d3d11.DeviceContext, rtv *com.Handle[*d3d11.RenderTargetView], sz image.Point, bg [4]float32) {
	ctx.OMSetRenderTargets([]*com.Handle[*d3d11.RenderTargetView]{rtv}, nil)
	ctx.ClearRenderTargetView(rtv, bg)
	ctx.RSSetViewports([]d3d11.VIEWPORT{{Width: float32(sz.X), Height: float32(sz.Y), MaxDepth: 1}})
	ctx.RSSetState(r.rs)
	ctx.IASetInputLayout(r.layout)
	ctx.IASetPrimitiveTopology(d3d11.PRIMITIVE_TOPOLOGY_TRIANGLELIST)
	ctx.IASetVertexBuffers(0, []*com.Handle[*d3d11.Buffer]{r.vbuf}, []uint32{r.stride}, []uint32{0})
	ctx.VSSetShader(r.vs, nil)
	ctx.PSSetShader(r.ps, nil)
	ctx.Draw(3, 0)
}

func (r *renderer) Release() {
	r.rs.Release()
	r.vbuf.Release()
	r.layout.Release()
	r.ps.Release()
	r.vs.Release()
}
