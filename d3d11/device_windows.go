// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"d3dcom.org/com"
	"d3dcom.org/dxgi"
	gunsafe "d3dcom.org/internal/unsafe"
)

// CreateOptions configures device creation.
type CreateOptions struct {
	// Adapter selects the adapter to create the device on. If set,
	// DriverType must be DRIVER_TYPE_UNKNOWN.
	Adapter    *com.Handle[*dxgi.Adapter1]
	DriverType DriverType
	// Software is the rasterizer module for DRIVER_TYPE_SOFTWARE.
	Software windows.Handle
	// Flags is a combination of CREATE_DEVICE flags.
	Flags uint32
	// FeatureLevels lists the acceptable levels in order of preference.
	// An empty list selects the runtime's default list.
	FeatureLevels []FeatureLevel
}

// DeviceAndSwapChain is the result of CreateDeviceAndSwapChain. Every
// handle is non-nil.
type DeviceAndSwapChain struct {
	FeatureLevel FeatureLevel
	Device       *com.Handle[*Device]
	Context      *com.Handle[*DeviceContext]
	SwapChain    *com.Handle[*dxgi.SwapChain]
}

var (
	d3d11DLL = windows.NewLazySystemDLL("d3d11.dll")

	_D3D11CreateDevice             = d3d11DLL.NewProc("D3D11CreateDevice")
	_D3D11CreateDeviceAndSwapChain = d3d11DLL.NewProc("D3D11CreateDeviceAndSwapChain")
)

// Release releases the swap chain, context and device, in that order.
func (d *DeviceAndSwapChain) Release() {
	d.SwapChain.Release()
	d.Context.Release()
	d.Device.Release()
}

func (o *CreateOptions) adapter() uintptr {
	if o.Adapter == nil {
		return 0
	}
	if o.DriverType != DRIVER_TYPE_UNKNOWN {
		panic(fmt.Sprintf("d3d11: explicit adapter with driver type %v", o.DriverType))
	}
	return uintptr(unsafe.Pointer(o.Adapter.Raw()))
}

// CreateDevice creates a device and its immediate context without a swap
// chain, for offscreen rendering.
func CreateDevice(opts CreateOptions) (*com.Handle[*Device], *com.Handle[*DeviceContext], FeatureLevel, error) {
	if err := _D3D11CreateDevice.Find(); err != nil {
		return nil, nil, 0, fmt.Errorf("d3d11: %w: %v", com.ErrUnsupported, err)
	}
	var (
		dev     *Device
		ctx     *DeviceContext
		featLvl FeatureLevel
	)
	r, _, _ := _D3D11CreateDevice.Call(
		opts.adapter(),                           // pAdapter
		uintptr(opts.DriverType),                 // driverType
		uintptr(opts.Software),                   // Software
		uintptr(opts.Flags),                      // Flags
		uintptr(gunsafe.Ptr(opts.FeatureLevels)), // pFeatureLevels
		uintptr(len(opts.FeatureLevels)),         // FeatureLevels
		SDK_VERSION,                              // SDKVersion
		uintptr(unsafe.Pointer(&dev)),            // ppDevice
		uintptr(unsafe.Pointer(&featLvl)),        // pFeatureLevel
		uintptr(unsafe.Pointer(&ctx)),            // ppImmediateContext
	)
	runtime.KeepAlive(opts.FeatureLevels)
	if err := com.Check("D3D11CreateDevice", com.HRESULT(r)); err != nil {
		return nil, nil, 0, err
	}
	d, c := com.Own(dev), com.Own(ctx)
	if d == nil || c == nil {
		c.Release()
		d.Release()
		return nil, nil, 0, com.ErrorCode{Name: "D3D11CreateDevice", Code: com.E_POINTER}
	}
	return d, c, featLvl, nil
}

// CreateDeviceAndSwapChain creates a device, its immediate context and a
// swap chain for the window in desc. Either every object is created or
// none is.
func CreateDeviceAndSwapChain(opts CreateOptions, desc *dxgi.SWAP_CHAIN_DESC) (*DeviceAndSwapChain, error) {
	if err := _D3D11CreateDeviceAndSwapChain.Find(); err != nil {
		return nil, fmt.Errorf("d3d11: %w: %v", com.ErrUnsupported, err)
	}
	var (
		dev     *Device
		ctx     *DeviceContext
		swchain *dxgi.SwapChain
		featLvl FeatureLevel
	)
	r, _, _ := _D3D11CreateDeviceAndSwapChain.Call(
		opts.adapter(),                           // pAdapter
		uintptr(opts.DriverType),                 // driverType
		uintptr(opts.Software),                   // Software
		uintptr(opts.Flags),                      // Flags
		uintptr(gunsafe.Ptr(opts.FeatureLevels)), // pFeatureLevels
		uintptr(len(opts.FeatureLevels)),         // FeatureLevels
		SDK_VERSION,                              // SDKVersion
		uintptr(unsafe.Pointer(desc)),            // pSwapChainDesc
		uintptr(unsafe.Pointer(&swchain)),        // ppSwapChain
		uintptr(unsafe.Pointer(&dev)),            // ppDevice
		uintptr(unsafe.Pointer(&featLvl)),        // pFeatureLevel
		uintptr(unsafe.Pointer(&ctx)),            // ppImmediateContext
	)
	runtime.KeepAlive(opts.FeatureLevels)
	if err := com.Check("D3D11CreateDeviceAndSwapChain", com.HRESULT(r)); err != nil {
		return nil, err
	}
	res := &DeviceAndSwapChain{
		FeatureLevel: featLvl,
		Device:       com.Own(dev),
		Context:      com.Own(ctx),
		SwapChain:    com.Own(swchain),
	}
	if res.Device == nil || res.Context == nil || res.SwapChain == nil {
		res.Release()
		return nil, com.ErrorCode{Name: "D3D11CreateDeviceAndSwapChain", Code: com.E_POINTER}
	}
	return res, nil
}

func (d *Device) vtbl() *_ID3D11DeviceVtbl {
	return (*_ID3D11DeviceVtbl)(d.Vtbl())
}

// CreateBuffer creates a buffer. An immutable buffer requires initial
// data, and initial data must cover ByteWidth bytes; both are checked
// before the native call.
func (d *Device) CreateBuffer(desc *BUFFER_DESC, init *SubresourceData) (*com.Handle[*Buffer], error) {
	if err := checkBuffer(desc, init); err != nil {
		return nil, err
	}
	data := marshalSubresource(init)
	var buf *Buffer
	r, _, _ := syscall.SyscallN(
		d.vtbl().CreateBuffer,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(desc)),
		uintptr(unsafe.Pointer(data)),
		uintptr(unsafe.Pointer(&buf)),
	)
	runtime.KeepAlive(init)
	return own("DeviceCreateBuffer", r, buf)
}

func (d *Device) CreateTexture2D(desc *TEXTURE2D_DESC, init *SubresourceData) (*com.Handle[*Texture2D], error) {
	if err := checkTexture2D(desc, init); err != nil {
		return nil, err
	}
	data := marshalSubresource(init)
	var tex *Texture2D
	r, _, _ := syscall.SyscallN(
		d.vtbl().CreateTexture2D,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(desc)),
		uintptr(unsafe.Pointer(data)),
		uintptr(unsafe.Pointer(&tex)),
	)
	runtime.KeepAlive(init)
	return own("DeviceCreateTexture2D", r, tex)
}

// CreateVertexShader creates a vertex shader from compiled bytecode.
// linkage may be nil.
func (d *Device) CreateVertexShader(bytecode []byte, linkage *com.Handle[*ClassLinkage]) (*com.Handle[*VertexShader], error) {
	const call = "DeviceCreateVertexShader"
	if err := checkBytecode(call, bytecode); err != nil {
		return nil, err
	}
	var shader *VertexShader
	r, _, _ := syscall.SyscallN(
		d.vtbl().CreateVertexShader,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&bytecode[0])),
		uintptr(len(bytecode)),
		optional(linkage), // pClassLinkage
		uintptr(unsafe.Pointer(&shader)),
	)
	return own(call, r, shader)
}

// CreatePixelShader creates a pixel shader from compiled bytecode.
// linkage may be nil.
func (d *Device) CreatePixelShader(bytecode []byte, linkage *com.Handle[*ClassLinkage]) (*com.Handle[*PixelShader], error) {
	const call = "DeviceCreatePixelShader"
	if err := checkBytecode(call, bytecode); err != nil {
		return nil, err
	}
	var shader *PixelShader
	r, _, _ := syscall.SyscallN(
		d.vtbl().CreatePixelShader,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&bytecode[0])),
		uintptr(len(bytecode)),
		optional(linkage), // pClassLinkage
		uintptr(unsafe.Pointer(&shader)),
	)
	return own(call, r, shader)
}

func (d *Device) CreateClassLinkage() (*com.Handle[*ClassLinkage], error) {
	var linkage *ClassLinkage
	r, _, _ := syscall.SyscallN(
		d.vtbl().CreateClassLinkage,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&linkage)),
	)
	return own("DeviceCreateClassLinkage", r, linkage)
}

// CreateInputLayout creates an input layout for the vertex shader whose
// bytecode is given. Layouts without elements, and layouts that do not
// supply an input the shader's signature declares, are rejected before
// the native call.
func (d *Device) CreateInputLayout(elems []InputElement, bytecode []byte) (*com.Handle[*InputLayout], error) {
	descs, err := validateInputLayout(elems, bytecode)
	if err != nil {
		return nil, err
	}
	var layout *InputLayout
	r, _, _ := syscall.SyscallN(
		d.vtbl().CreateInputLayout,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&descs[0])),
		uintptr(len(descs)),
		uintptr(unsafe.Pointer(&bytecode[0])),
		uintptr(len(bytecode)),
		uintptr(unsafe.Pointer(&layout)),
	)
	runtime.KeepAlive(descs)
	return own("DeviceCreateInputLayout", r, layout)
}

// CreateRenderTargetView creates a view of res. A nil desc creates a view
// of the first mip level of the whole resource.
func (d *Device) CreateRenderTargetView(res Resource, desc *RENDER_TARGET_VIEW_DESC_TEX2D) (*com.Handle[*RenderTargetView], error) {
	var view *RenderTargetView
	r, _, _ := syscall.SyscallN(
		d.vtbl().CreateRenderTargetView,
		uintptr(unsafe.Pointer(d)),
		uintptr(res.resource()),
		uintptr(unsafe.Pointer(desc)),
		uintptr(unsafe.Pointer(&view)),
	)
	return own("DeviceCreateRenderTargetView", r, view)
}

func (d *Device) CreateDepthStencilView(res Resource, desc *DEPTH_STENCIL_VIEW_DESC_TEX2D) (*com.Handle[*DepthStencilView], error) {
	var view *DepthStencilView
	r, _, _ := syscall.SyscallN(
		d.vtbl().CreateDepthStencilView,
		uintptr(unsafe.Pointer(d)),
		uintptr(res.resource()),
		uintptr(unsafe.Pointer(desc)),
		uintptr(unsafe.Pointer(&view)),
	)
	return own("DeviceCreateDepthStencilView", r, view)
}

func (d *Device) CreateRasterizerState(desc *RASTERIZER_DESC) (*com.Handle[*RasterizerState], error) {
	var state *RasterizerState
	r, _, _ := syscall.SyscallN(
		d.vtbl().CreateRasterizerState,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(desc)),
		uintptr(unsafe.Pointer(&state)),
	)
	return own("DeviceCreateRasterizerState", r, state)
}

func (d *Device) CheckFormatSupport(format dxgi.Format) (uint32, error) {
	var support uint32
	r, _, _ := syscall.SyscallN(
		d.vtbl().CheckFormatSupport,
		uintptr(unsafe.Pointer(d)),
		uintptr(format),
		uintptr(unsafe.Pointer(&support)),
	)
	if err := com.Check("DeviceCheckFormatSupport", com.HRESULT(r)); err != nil {
		return 0, err
	}
	return support, nil
}

// GetImmediateContext returns a new reference to the device's immediate
// context.
func (d *Device) GetImmediateContext() *com.Handle[*DeviceContext] {
	var ctx *DeviceContext
	syscall.SyscallN(
		d.vtbl().GetImmediateContext,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&ctx)),
	)
	return com.Own(ctx)
}

func (d *Device) GetFeatureLevel() FeatureLevel {
	lvl, _, _ := syscall.SyscallN(
		d.vtbl().GetFeatureLevel,
		uintptr(unsafe.Pointer(d)),
	)
	return FeatureLevel(lvl)
}

// GetDeviceRemovedReason returns nil while the device is usable, and the
// reason for its removal otherwise.
func (d *Device) GetDeviceRemovedReason() error {
	r, _, _ := syscall.SyscallN(
		d.vtbl().GetDeviceRemovedReason,
		uintptr(unsafe.Pointer(d)),
	)
	return com.Check("DeviceGetDeviceRemovedReason", com.HRESULT(r))
}

// ReportLiveDeviceObjects writes the objects still alive on dev to the
// debugger output. It requires a device created with CREATE_DEVICE_DEBUG.
func ReportLiveDeviceObjects(dev *com.Handle[*Device]) error {
	dbg, err := com.Query[*Debug](dev)
	if err != nil {
		return fmt.Errorf("ReportLiveDeviceObjects: %w", err)
	}
	defer dbg.Release()
	d := dbg.Raw()
	r, _, _ := syscall.SyscallN(
		(*_ID3D11DebugVtbl)(d.Vtbl()).ReportLiveDeviceObjects,
		uintptr(unsafe.Pointer(d)),
		RLDO_DETAIL|RLDO_IGNORE_INTERNAL,
	)
	return com.Check("DebugReportLiveDeviceObjects", com.HRESULT(r))
}

// CreateClassInstance creates an instance of the HLSL class typeName.
func (l *ClassLinkage) CreateClassInstance(typeName string, cbOffset, cvOffset, texOffset, samplerOffset uint32) (*com.Handle[*ClassInstance], error) {
	const call = "ClassLinkageCreateClassInstance"
	name, err := gunsafe.CString(typeName)
	if err != nil {
		return nil, invalidArg(call, "d3d11: class name %q: %v", typeName, err)
	}
	var inst *ClassInstance
	r, _, _ := syscall.SyscallN(
		(*_ID3D11ClassLinkageVtbl)(l.Vtbl()).CreateClassInstance,
		uintptr(unsafe.Pointer(l)),
		uintptr(unsafe.Pointer(&name[0])),
		uintptr(cbOffset),
		uintptr(cvOffset),
		uintptr(texOffset),
		uintptr(samplerOffset),
		uintptr(unsafe.Pointer(&inst)),
	)
	runtime.KeepAlive(name)
	return own(call, r, inst)
}

func marshalSubresource(init *SubresourceData) *_SUBRESOURCE_DATA {
	if init == nil || len(init.Data) == 0 {
		return nil
	}
	return &_SUBRESOURCE_DATA{
		pSysMem:          &init.Data[0],
		SysMemPitch:      init.Pitch,
		SysMemSlicePitch: init.SlicePitch,
	}
}

// own turns the outcome of a native factory call into an owned handle
// or an error.
func own[T com.Interface](call string, r uintptr, obj T) (*com.Handle[T], error) {
	return com.Created(call, com.HRESULT(r), obj)
}

// optional returns the native pointer of h, or 0 for a nil handle.
func optional[T com.Interface](h *com.Handle[T]) uintptr {
	if h == nil {
		return 0
	}
	p := h.Raw()
	return uintptr(*(*unsafe.Pointer)(unsafe.Pointer(&p)))
}
