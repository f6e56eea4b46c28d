// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"errors"
	"image"
	"runtime"
	"testing"

	"gioui.org/shader/gio"

	"d3dcom.org/com"
	"d3dcom.org/dxgi"
	gunsafe "d3dcom.org/internal/unsafe"
	"d3dcom.org/window"
)

var (
	triangle = []float32{
		0, .5, .5, 1,
		.5, -.5, .5, 1,
		-.5, -.5, .5, 1,
	}
	clearColor  = [4]float32{.5, .25, 0, 1}
	clearExpect = [4]uint8{128, 64, 0, 255}
	// The color output by gio.Shader_simple_frag.
	shaderExpect = [4]uint8{64, 140, 191, 255}
)

// newDevice creates a level 11.0 device on the hardware adapter, or on
// WARP if that fails. It skips the test if neither is available.
func newDevice(t *testing.T) (*com.Handle[*Device], *com.Handle[*DeviceContext]) {
	t.Helper()
	var errs []error
	for _, driver := range []DriverType{DRIVER_TYPE_HARDWARE, DRIVER_TYPE_WARP} {
		dev, ctx, lvl, err := CreateDevice(CreateOptions{
			DriverType:    driver,
			FeatureLevels: []FeatureLevel{FEATURE_LEVEL_11_0},
		})
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if lvl != FEATURE_LEVEL_11_0 {
			t.Errorf("%v device has %v", driver, lvl)
		}
		t.Cleanup(func() {
			ctx.Release()
			dev.Release()
		})
		return dev, ctx
	}
	for _, err := range errs {
		var code com.ErrorCode
		if !errors.As(err, &code) && !errors.Is(err, com.ErrUnsupported) {
			t.Errorf("unclassified creation error: %v", err)
		}
	}
	t.Skipf("no Direct3D 11.0 device: %v", errs)
	return nil, nil
}

func TestCreateDevice(t *testing.T) {
	dev, ctx := newDevice(t)
	if got := dev.Raw().GetFeatureLevel(); got != FEATURE_LEVEL_11_0 {
		t.Errorf("GetFeatureLevel = %v", got)
	}
	imm := dev.Raw().GetImmediateContext()
	if imm == nil {
		t.Fatal("no immediate context")
	}
	defer imm.Release()
	if imm.Raw() != ctx.Raw() {
		t.Error("GetImmediateContext returned another context")
	}
	if err := dev.Raw().GetDeviceRemovedReason(); err != nil {
		t.Errorf("fresh device removed: %v", err)
	}
}

func TestDeviceAdapter(t *testing.T) {
	dev, _ := newDevice(t)
	dxgiDev, err := com.Query[*dxgi.Device](dev)
	if err != nil {
		t.Fatal(err)
	}
	defer dxgiDev.Release()
	adapter, err := dxgiDev.Raw().GetAdapter()
	if err != nil {
		t.Fatal(err)
	}
	defer adapter.Release()
	adapter1, err := com.Query[*dxgi.Adapter1](adapter)
	if err != nil {
		t.Fatal(err)
	}
	defer adapter1.Release()
	desc, err := adapter1.Raw().Desc1()
	if err != nil {
		t.Fatal(err)
	}
	if desc.Name() == "" {
		t.Error("adapter has no name")
	}
	if _, err := com.Query[*Texture2D](dev); !errors.Is(err, com.ErrNoInterface) {
		t.Errorf("device queried as a texture: %v", err)
	}
}

func TestCreateBufferValidation(t *testing.T) {
	dev, _ := newDevice(t)
	_, err := dev.Raw().CreateBuffer(&BUFFER_DESC{
		ByteWidth: 16,
		Usage:     USAGE_IMMUTABLE,
		BindFlags: BIND_VERTEX_BUFFER,
	}, nil)
	if !errors.Is(err, com.ErrInvalidArg) {
		t.Errorf("immutable buffer without data: got %v", err)
	}
	buf, err := dev.Raw().CreateBuffer(&BUFFER_DESC{
		ByteWidth: 16,
		Usage:     USAGE_DEFAULT,
		BindFlags: BIND_VERTEX_BUFFER,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	buf.Release()
	buf.Release()
}

func TestCreateInputLayout(t *testing.T) {
	dev, _ := newDevice(t)
	vs := []byte(gio.Shader_input_vert.DXBC)
	elems, _, err := InputElementsFromShader(gio.Shader_input_vert)
	if err != nil {
		t.Fatal(err)
	}
	layout, err := dev.Raw().CreateInputLayout(elems, vs)
	if err != nil {
		t.Fatal(err)
	}
	layout.Release()
	if _, err := dev.Raw().CreateInputLayout(nil, vs); !errors.Is(err, com.ErrInvalidArg) {
		t.Errorf("empty layout: got %v", err)
	}
	wrong := append([]InputElement(nil), elems...)
	wrong[0].SemanticName = "COLOR"
	if _, err := dev.Raw().CreateInputLayout(wrong, vs); !errors.Is(err, com.ErrInvalidArg) {
		t.Errorf("mismatched layout: got %v", err)
	}
}

func TestClassLinkage(t *testing.T) {
	dev, ctx := newDevice(t)
	linkage, err := dev.Raw().CreateClassLinkage()
	if err != nil {
		t.Fatal(err)
	}
	defer linkage.Release()
	vs, err := dev.Raw().CreateVertexShader([]byte(gio.Shader_input_vert.DXBC), linkage)
	if err != nil {
		t.Fatal(err)
	}
	vs.Release()
	if _, err := linkage.Raw().CreateClassInstance("A\x00B", 0, 0, 0, 0); !errors.Is(err, com.ErrInvalidArg) {
		t.Errorf("class name with NUL: got %v", err)
	}
	// Unused interface slots are passed as nil instances.
	empty := []*com.Handle[*ClassInstance]{nil, nil}
	ctx.Raw().VSSetShader(nil, empty)
	ctx.Raw().PSSetShader(nil, empty)
}

func TestRenderTriangle(t *testing.T) {
	dev, ctx := newDevice(t)
	sz := image.Pt(800, 600)
	d, c := dev.Raw(), ctx.Raw()

	target, err := d.CreateTexture2D(&TEXTURE2D_DESC{
		Width:      uint32(sz.X),
		Height:     uint32(sz.Y),
		MipLevels:  1,
		ArraySize:  1,
		Format:     dxgi.FORMAT_R8G8B8A8_UNORM,
		SampleDesc: dxgi.SAMPLE_DESC{Count: 1},
		BindFlags:  BIND_RENDER_TARGET,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer target.Release()
	rtv, err := d.CreateRenderTargetView(AsResource(target), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer rtv.Release()
	draw(t, d, c, rtv, sz)

	staging, err := d.CreateTexture2D(&TEXTURE2D_DESC{
		Width:          uint32(sz.X),
		Height:         uint32(sz.Y),
		MipLevels:      1,
		ArraySize:      1,
		Format:         dxgi.FORMAT_R8G8B8A8_UNORM,
		SampleDesc:     dxgi.SAMPLE_DESC{Count: 1},
		Usage:          USAGE_STAGING,
		CPUAccessFlags: CPU_ACCESS_READ,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer staging.Release()
	c.CopyResource(AsResource(staging), AsResource(target))
	m, err := c.Map(AsResource(staging), 0, MAP_READ, 0)
	if err != nil {
		t.Fatal(err)
	}
	pixels := m.Bytes(int(m.RowPitch) * sz.Y)
	pixel := func(x, y int) [4]uint8 {
		o := y*int(m.RowPitch) + x*4
		var p [4]uint8
		copy(p[:], pixels[o:o+4])
		return p
	}
	corner, center := pixel(0, 0), pixel(300, 400)
	c.Unmap(AsResource(staging), 0)

	if !near(corner, clearExpect) {
		t.Errorf("clear color %v, want %v", corner, clearExpect)
	}
	// Just off the center to catch inverted triangles.
	if !near(center, shaderExpect) {
		t.Errorf("shader color %v, want %v", center, shaderExpect)
	}
	if err := d.GetDeviceRemovedReason(); err != nil {
		t.Error(err)
	}
}

func TestSwapChainPresent(t *testing.T) {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	sz := image.Pt(320, 240)
	win, err := window.New(window.Options{Title: "d3d11 test", Size: sz, Hidden: true})
	if err != nil {
		t.Skipf("no window: %v", err)
	}
	defer win.Destroy()
	desc := &dxgi.SWAP_CHAIN_DESC{
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
	}
	var dsc *DeviceAndSwapChain
	for _, driver := range []DriverType{DRIVER_TYPE_HARDWARE, DRIVER_TYPE_WARP} {
		dsc, err = CreateDeviceAndSwapChain(CreateOptions{
			DriverType:    driver,
			FeatureLevels: []FeatureLevel{FEATURE_LEVEL_11_0},
		}, desc)
		if err == nil {
			break
		}
	}
	if err != nil {
		var code com.ErrorCode
		if !errors.As(err, &code) && !errors.Is(err, com.ErrUnsupported) {
			t.Errorf("unclassified creation error: %v", err)
		}
		t.Skipf("no Direct3D 11.0 device: %v", err)
	}
	defer dsc.Release()
	if dsc.FeatureLevel != FEATURE_LEVEL_11_0 {
		t.Errorf("feature level %v", dsc.FeatureLevel)
	}

	backBuffer, err := dxgi.GetBuffer[*Texture2D](dsc.SwapChain, 0)
	if err != nil {
		t.Fatal(err)
	}
	rtv, err := dsc.Device.Raw().CreateRenderTargetView(AsResource(backBuffer), nil)
	backBuffer.Release()
	if err != nil {
		t.Fatal(err)
	}
	draw(t, dsc.Device.Raw(), dsc.Context.Raw(), rtv, sz)
	if err := dsc.SwapChain.Raw().Present(0, 0); err != nil {
		t.Fatal(err)
	}
	win.Pump()

	// Resizing requires every back buffer reference to be gone.
	dsc.Context.Raw().OMSetRenderTargets(nil, nil)
	rtv.Release()
	if err := dsc.SwapChain.Raw().ResizeBuffers(0, 160, 120, dxgi.FORMAT_UNKNOWN, 0); err != nil {
		t.Fatal(err)
	}
	got, err := dsc.SwapChain.Raw().GetDesc()
	if err != nil {
		t.Fatal(err)
	}
	if got.BufferDesc.Width != 160 || got.BufferDesc.Height != 120 {
		t.Errorf("resized to %dx%d", got.BufferDesc.Width, got.BufferDesc.Height)
	}
	if got.BufferDesc.Format != dxgi.FORMAT_R8G8B8A8_UNORM {
		t.Errorf("resize changed the format to %d", got.BufferDesc.Format)
	}
}

// draw clears rtv and draws the test triangle into it.
func draw(t *testing.T, d *Device, c *DeviceContext, rtv *com.Handle[*RenderTargetView], sz image.Point) {
	t.Helper()
	src := gio.Shader_input_vert
	vs, err := d.CreateVertexShader([]byte(src.DXBC), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer vs.Release()
	ps, err := d.CreatePixelShader([]byte(gio.Shader_simple_frag.DXBC), nil)
	if err != nil {
		t.Fatal(err)
	}
	defer ps.Release()
	elems, stride, err := InputElementsFromShader(src)
	if err != nil {
		t.Fatal(err)
	}
	layout, err := d.CreateInputLayout(elems, []byte(src.DXBC))
	if err != nil {
		t.Fatal(err)
	}
	defer layout.Release()
	data := gunsafe.BytesView(triangle)
	vbuf, err := d.CreateBuffer(&BUFFER_DESC{
		ByteWidth: uint32(len(data)),
		Usage:     USAGE_IMMUTABLE,
		BindFlags: BIND_VERTEX_BUFFER,
	}, &SubresourceData{Data: data})
	if err != nil {
		t.Fatal(err)
	}
	defer vbuf.Release()
	rs, err := d.CreateRasterizerState(&RASTERIZER_DESC{
		FillMode: FILL_SOLID,
		CullMode: CULL_NONE,
	})
	if err != nil {
		t.Fatal(err)
	}
	defer rs.Release()

	c.ClearState()
	c.OMSetRenderTargets([]*com.Handle[*RenderTargetView]{rtv}, nil)
	c.ClearRenderTargetView(rtv, clearColor)
	c.RSSetViewports([]VIEWPORT{{Width: float32(sz.X), Height: float32(sz.Y), MaxDepth: 1}})
	c.RSSetState(rs)
	c.IASetInputLayout(layout)
	c.IASetPrimitiveTopology(PRIMITIVE_TOPOLOGY_TRIANGLELIST)
	c.IASetVertexBuffers(0, []*com.Handle[*Buffer]{vbuf}, []uint32{stride}, []uint32{0})
	c.VSSetShader(vs, nil)
	c.PSSetShader(ps, nil)
	c.Draw(3, 0)
	c.Flush()
}

func near(got, want [4]uint8) bool {
	for i := range got {
		d := int(got[i]) - int(want[i])
		if d < -1 || d > 1 {
			return false
		}
	}
	return true
}
