// SPDX-License-Identifier: Unlicense OR MIT

/*
Package d3d11 wraps the Direct3D 11 device, device context and resource
interfaces.

Every creation function returns an owned *com.Handle or an error, never
both. Binding functions on DeviceContext borrow their arguments for the
duration of the call only; the context keeps its own references to
bound objects, so handles may be released once bound.
*/
package d3d11

import (
	"fmt"
	"strings"
	"unsafe"

	"d3dcom.org/com"
	"d3dcom.org/dxgi"
)

// DriverType selects the implementation behind a device.
type DriverType uint32

// FeatureLevel is a D3D_FEATURE_LEVEL.
type FeatureLevel uint32

type BUFFER_DESC struct {
	ByteWidth           uint32
	Usage               uint32
	BindFlags           uint32
	CPUAccessFlags      uint32
	MiscFlags           uint32
	StructureByteStride uint32
}

type TEXTURE2D_DESC struct {
	Width          uint32
	Height         uint32
	MipLevels      uint32
	ArraySize      uint32
	Format         dxgi.Format
	SampleDesc     dxgi.SAMPLE_DESC
	Usage          uint32
	BindFlags      uint32
	CPUAccessFlags uint32
	MiscFlags      uint32
}

type VIEWPORT struct {
	TopLeftX float32
	TopLeftY float32
	Width    float32
	Height   float32
	MinDepth float32
	MaxDepth float32
}

type RENDER_TARGET_VIEW_DESC_TEX2D struct {
	Format        dxgi.Format
	ViewDimension uint32
	Texture2D     TEX2D_RTV
	_             [2]uint32
}

type TEX2D_RTV struct {
	MipSlice uint32
}

type DEPTH_STENCIL_VIEW_DESC_TEX2D struct {
	Format        dxgi.Format
	ViewDimension uint32
	Flags         uint32
	Texture2D     TEX2D_DSV
	_             [2]uint32
}

type TEX2D_DSV struct {
	MipSlice uint32
}

type BOX struct {
	Left   uint32
	Top    uint32
	Front  uint32
	Right  uint32
	Bottom uint32
	Back   uint32
}

type MAPPED_SUBRESOURCE struct {
	PData      unsafe.Pointer
	RowPitch   uint32
	DepthPitch uint32
}

type INPUT_ELEMENT_DESC struct {
	SemanticName         *byte
	SemanticIndex        uint32
	Format               dxgi.Format
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       uint32
	InstanceDataStepRate uint32
}

type RASTERIZER_DESC struct {
	FillMode              uint32
	CullMode              uint32
	FrontCounterClockwise uint32
	DepthBias             int32
	DepthBiasClamp        float32
	SlopeScaledDepthBias  float32
	DepthClipEnable       uint32
	ScissorEnable         uint32
	MultisampleEnable     uint32
	AntialiasedLineEnable uint32
}

type _SUBRESOURCE_DATA struct {
	pSysMem          *byte
	SysMemPitch      uint32
	SysMemSlicePitch uint32
}

// InputElement describes one vertex attribute of an input layout.
type InputElement struct {
	SemanticName         string
	SemanticIndex        uint32
	Format               dxgi.Format
	InputSlot            uint32
	AlignedByteOffset    uint32
	InputSlotClass       uint32
	InstanceDataStepRate uint32
}

// SubresourceData is the initial content of a resource. Pitch and
// SlicePitch are ignored for buffers.
type SubresourceData struct {
	Data       []byte
	Pitch      uint32
	SlicePitch uint32
}

type Device struct{ com.Unknown }
type DeviceContext struct{ com.Unknown }
type Buffer struct{ com.Unknown }
type Texture1D struct{ com.Unknown }
type Texture2D struct{ com.Unknown }
type Texture3D struct{ com.Unknown }
type VertexShader struct{ com.Unknown }
type PixelShader struct{ com.Unknown }
type InputLayout struct{ com.Unknown }
type ClassLinkage struct{ com.Unknown }
type ClassInstance struct{ com.Unknown }
type RenderTargetView struct{ com.Unknown }
type DepthStencilView struct{ com.Unknown }
type RasterizerState struct{ com.Unknown }

// Debug is ID3D11Debug, available on devices created with
// CREATE_DEVICE_DEBUG.
type Debug struct{ com.Unknown }

type _ID3D11DeviceVtbl struct {
	com.UnknownVtbl
	CreateBuffer                         uintptr
	CreateTexture1D                      uintptr
	CreateTexture2D                      uintptr
	CreateTexture3D                      uintptr
	CreateShaderResourceView             uintptr
	CreateUnorderedAccessView            uintptr
	CreateRenderTargetView               uintptr
	CreateDepthStencilView               uintptr
	CreateInputLayout                    uintptr
	CreateVertexShader                   uintptr
	CreateGeometryShader                 uintptr
	CreateGeometryShaderWithStreamOutput uintptr
	CreatePixelShader                    uintptr
	CreateHullShader                     uintptr
	CreateDomainShader                   uintptr
	CreateComputeShader                  uintptr
	CreateClassLinkage                   uintptr
	CreateBlendState                     uintptr
	CreateDepthStencilState              uintptr
	CreateRasterizerState                uintptr
	CreateSamplerState                   uintptr
	CreateQuery                          uintptr
	CreatePredicate                      uintptr
	CreateCounter                        uintptr
	CreateDeferredContext                uintptr
	OpenSharedResource                   uintptr
	CheckFormatSupport                   uintptr
	CheckMultisampleQualityLevels        uintptr
	CheckCounterInfo                     uintptr
	CheckCounter                         uintptr
	CheckFeatureSupport                  uintptr
	GetPrivateData                       uintptr
	SetPrivateData                       uintptr
	SetPrivateDataInterface              uintptr
	GetFeatureLevel                      uintptr
	GetCreationFlags                     uintptr
	GetDeviceRemovedReason               uintptr
	GetImmediateContext                  uintptr
	SetExceptionMode                     uintptr
	GetExceptionMode                     uintptr
}

type _ID3D11DeviceContextVtbl struct {
	com.UnknownVtbl
	GetDevice                                 uintptr
	GetPrivateData                            uintptr
	SetPrivateData                            uintptr
	SetPrivateDataInterface                   uintptr
	VSSetConstantBuffers                      uintptr
	PSSetShaderResources                      uintptr
	PSSetShader                               uintptr
	PSSetSamplers                             uintptr
	VSSetShader                               uintptr
	DrawIndexed                               uintptr
	Draw                                      uintptr
	Map                                       uintptr
	Unmap                                     uintptr
	PSSetConstantBuffers                      uintptr
	IASetInputLayout                          uintptr
	IASetVertexBuffers                        uintptr
	IASetIndexBuffer                          uintptr
	DrawIndexedInstanced                      uintptr
	DrawInstanced                             uintptr
	GSSetConstantBuffers                      uintptr
	GSSetShader                               uintptr
	IASetPrimitiveTopology                    uintptr
	VSSetShaderResources                      uintptr
	VSSetSamplers                             uintptr
	Begin                                     uintptr
	End                                       uintptr
	GetData                                   uintptr
	SetPredication                            uintptr
	GSSetShaderResources                      uintptr
	GSSetSamplers                             uintptr
	OMSetRenderTargets                        uintptr
	OMSetRenderTargetsAndUnorderedAccessViews uintptr
	OMSetBlendState                           uintptr
	OMSetDepthStencilState                    uintptr
	SOSetTargets                              uintptr
	DrawAuto                                  uintptr
	DrawIndexedInstancedIndirect              uintptr
	DrawInstancedIndirect                     uintptr
	Dispatch                                  uintptr
	DispatchIndirect                          uintptr
	RSSetState                                uintptr
	RSSetViewports                            uintptr
	RSSetScissorRects                         uintptr
	CopySubresourceRegion                     uintptr
	CopyResource                              uintptr
	UpdateSubresource                         uintptr
	CopyStructureCount                        uintptr
	ClearRenderTargetView                     uintptr
	ClearUnorderedAccessViewUint              uintptr
	ClearUnorderedAccessViewFloat             uintptr
	ClearDepthStencilView                     uintptr
	GenerateMips                              uintptr
	SetResourceMinLOD                         uintptr
	GetResourceMinLOD                         uintptr
	ResolveSubresource                        uintptr
	ExecuteCommandList                        uintptr
	HSSetShaderResources                      uintptr
	HSSetShader                               uintptr
	HSSetSamplers                             uintptr
	HSSetConstantBuffers                      uintptr
	DSSetShaderResources                      uintptr
	DSSetShader                               uintptr
	DSSetSamplers                             uintptr
	DSSetConstantBuffers                      uintptr
	CSSetShaderResources                      uintptr
	CSSetUnorderedAccessViews                 uintptr
	CSSetShader                               uintptr
	CSSetSamplers                             uintptr
	CSSetConstantBuffers                      uintptr
	VSGetConstantBuffers                      uintptr
	PSGetShaderResources                      uintptr
	PSGetShader                               uintptr
	PSGetSamplers                             uintptr
	VSGetShader                               uintptr
	PSGetConstantBuffers                      uintptr
	IAGetInputLayout                          uintptr
	IAGetVertexBuffers                        uintptr
	IAGetIndexBuffer                          uintptr
	GSGetConstantBuffers                      uintptr
	GSGetShader                               uintptr
	IAGetPrimitiveTopology                    uintptr
	VSGetShaderResources                      uintptr
	VSGetSamplers                             uintptr
	GetPredication                            uintptr
	GSGetShaderResources                      uintptr
	GSGetSamplers                             uintptr
	OMGetRenderTargets                        uintptr
	OMGetRenderTargetsAndUnorderedAccessViews uintptr
	OMGetBlendState                           uintptr
	OMGetDepthStencilState                    uintptr
	SOGetTargets                              uintptr
	RSGetState                                uintptr
	RSGetViewports                            uintptr
	RSGetScissorRects                         uintptr
	HSGetShaderResources                      uintptr
	HSGetShader                               uintptr
	HSGetSamplers                             uintptr
	HSGetConstantBuffers                      uintptr
	DSGetShaderResources                      uintptr
	DSGetShader                               uintptr
	DSGetSamplers                             uintptr
	DSGetConstantBuffers                      uintptr
	CSGetShaderResources                      uintptr
	CSGetUnorderedAccessViews                 uintptr
	CSGetShader                               uintptr
	CSGetSamplers                             uintptr
	CSGetConstantBuffers                      uintptr
	ClearState                                uintptr
	Flush                                     uintptr
	GetType                                   uintptr
	GetContextFlags                           uintptr
	FinishCommandList                         uintptr
}

type _ID3D11ClassLinkageVtbl struct {
	com.UnknownVtbl
	GetDevice               uintptr
	GetPrivateData          uintptr
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetClassInstance        uintptr
	CreateClassInstance     uintptr
}

type _ID3D11DebugVtbl struct {
	com.UnknownVtbl
	SetFeatureMask             uintptr
	GetFeatureMask             uintptr
	SetPresentPerRenderOpDelay uintptr
	GetPresentPerRenderOpDelay uintptr
	SetSwapChain               uintptr
	GetSwapChain               uintptr
	ValidateContext            uintptr
	ReportLiveDeviceObjects    uintptr
	ValidateContextForDispatch uintptr
}

var (
	IID_ID3D11Device           = com.MustParseGUID("{DB6F6DDB-AC77-4E88-8253-819DF9BBF140}")
	IID_ID3D11DeviceContext    = com.MustParseGUID("{C0BFA96C-E089-44FB-8EAF-26F8796190DA}")
	IID_ID3D11Buffer           = com.MustParseGUID("{48570B85-D1EE-4FCD-A250-EB350722B037}")
	IID_ID3D11Texture1D        = com.MustParseGUID("{F8FB5C27-C6B3-4F75-A4C8-439AF2EF564C}")
	IID_ID3D11Texture2D        = com.MustParseGUID("{6F15AAF2-D208-4E89-9AB4-489535D34F9C}")
	IID_ID3D11Texture3D        = com.MustParseGUID("{037E866E-F56D-4357-A8AF-9DABBE6E250E}")
	IID_ID3D11VertexShader     = com.MustParseGUID("{3B301D64-D678-4289-8897-22F8928B72F3}")
	IID_ID3D11PixelShader      = com.MustParseGUID("{EA82E40D-51DC-4F33-93D4-DB7C9125AE8C}")
	IID_ID3D11InputLayout      = com.MustParseGUID("{E4819DDC-4CF0-4025-BD26-5DE82A3E07B7}")
	IID_ID3D11ClassLinkage     = com.MustParseGUID("{DDF57CBA-9543-46E4-A12B-F207A0FE7FED}")
	IID_ID3D11ClassInstance    = com.MustParseGUID("{A6CD7FAA-B0B7-4A2F-9436-8662A65797CB}")
	IID_ID3D11RenderTargetView = com.MustParseGUID("{DFDBA067-0B8D-4865-875B-D7B4516CC164}")
	IID_ID3D11DepthStencilView = com.MustParseGUID("{9FDAC92A-1876-48C3-AFAD-25B94F84A9B6}")
	IID_ID3D11RasterizerState  = com.MustParseGUID("{9BB4AB81-AB1A-4D8F-B506-FC04200B6EE7}")
	IID_ID3D11Debug            = com.MustParseGUID("{79CF2233-7536-4948-9D36-1E4692DC5760}")
)

const (
	SDK_VERSION = 7

	DRIVER_TYPE_UNKNOWN   DriverType = 0
	DRIVER_TYPE_HARDWARE  DriverType = 1
	DRIVER_TYPE_REFERENCE DriverType = 2
	DRIVER_TYPE_NULL      DriverType = 3
	DRIVER_TYPE_SOFTWARE  DriverType = 4
	DRIVER_TYPE_WARP      DriverType = 5

	FEATURE_LEVEL_9_1  FeatureLevel = 0x9100
	FEATURE_LEVEL_9_2  FeatureLevel = 0x9200
	FEATURE_LEVEL_9_3  FeatureLevel = 0x9300
	FEATURE_LEVEL_10_0 FeatureLevel = 0xa000
	FEATURE_LEVEL_10_1 FeatureLevel = 0xa100
	FEATURE_LEVEL_11_0 FeatureLevel = 0xb000
	FEATURE_LEVEL_11_1 FeatureLevel = 0xb100
	FEATURE_LEVEL_12_0 FeatureLevel = 0xc000
	FEATURE_LEVEL_12_1 FeatureLevel = 0xc100

	CREATE_DEVICE_SINGLETHREADED = 0x1
	CREATE_DEVICE_DEBUG          = 0x2
	CREATE_DEVICE_BGRA_SUPPORT   = 0x20

	USAGE_DEFAULT   = 0
	USAGE_IMMUTABLE = 1
	USAGE_DYNAMIC   = 2
	USAGE_STAGING   = 3

	BIND_VERTEX_BUFFER    = 0x1
	BIND_INDEX_BUFFER     = 0x2
	BIND_CONSTANT_BUFFER  = 0x4
	BIND_SHADER_RESOURCE  = 0x8
	BIND_RENDER_TARGET    = 0x20
	BIND_DEPTH_STENCIL    = 0x40
	BIND_UNORDERED_ACCESS = 0x80

	CPU_ACCESS_WRITE = 0x10000
	CPU_ACCESS_READ  = 0x20000

	MAP_READ               = 1
	MAP_WRITE              = 2
	MAP_READ_WRITE         = 3
	MAP_WRITE_DISCARD      = 4
	MAP_WRITE_NO_OVERWRITE = 5

	PRIMITIVE_TOPOLOGY_UNDEFINED     = 0
	PRIMITIVE_TOPOLOGY_POINTLIST     = 1
	PRIMITIVE_TOPOLOGY_LINELIST      = 2
	PRIMITIVE_TOPOLOGY_LINESTRIP     = 3
	PRIMITIVE_TOPOLOGY_TRIANGLELIST  = 4
	PRIMITIVE_TOPOLOGY_TRIANGLESTRIP = 5

	INPUT_PER_VERTEX_DATA   = 0
	INPUT_PER_INSTANCE_DATA = 1

	APPEND_ALIGNED_ELEMENT = 0xffffffff

	RTV_DIMENSION_TEXTURE2D = 4
	DSV_DIMENSION_TEXTURE2D = 3

	FILL_WIREFRAME = 2
	FILL_SOLID     = 3

	CULL_NONE  = 1
	CULL_FRONT = 2
	CULL_BACK  = 3

	CLEAR_DEPTH   = 0x1
	CLEAR_STENCIL = 0x2

	RLDO_SUMMARY         = 1
	RLDO_DETAIL          = 2
	RLDO_IGNORE_INTERNAL = 4

	// Number of vertex buffer slots of the input assembler.
	IA_VERTEX_INPUT_RESOURCE_SLOT_COUNT = 32
	// Number of render target slots of the output merger.
	SIMULTANEOUS_RENDER_TARGET_COUNT = 8
)

func init() {
	com.Register[*Device]("ID3D11Device")
	com.Register[*DeviceContext]("ID3D11DeviceContext")
	com.Register[*Buffer]("ID3D11Buffer")
	com.Register[*Texture1D]("ID3D11Texture1D")
	com.Register[*Texture2D]("ID3D11Texture2D")
	com.Register[*Texture3D]("ID3D11Texture3D")
	com.Register[*VertexShader]("ID3D11VertexShader")
	com.Register[*PixelShader]("ID3D11PixelShader")
	com.Register[*InputLayout]("ID3D11InputLayout")
	com.Register[*ClassLinkage]("ID3D11ClassLinkage")
	com.Register[*ClassInstance]("ID3D11ClassInstance")
	com.Register[*RenderTargetView]("ID3D11RenderTargetView")
	com.Register[*DepthStencilView]("ID3D11DepthStencilView")
	com.Register[*RasterizerState]("ID3D11RasterizerState")
	com.Register[*Debug]("ID3D11Debug")
}

func (*Device) IID() com.GUID           { return IID_ID3D11Device }
func (*DeviceContext) IID() com.GUID    { return IID_ID3D11DeviceContext }
func (*Buffer) IID() com.GUID           { return IID_ID3D11Buffer }
func (*Texture1D) IID() com.GUID        { return IID_ID3D11Texture1D }
func (*Texture2D) IID() com.GUID        { return IID_ID3D11Texture2D }
func (*Texture3D) IID() com.GUID        { return IID_ID3D11Texture3D }
func (*VertexShader) IID() com.GUID     { return IID_ID3D11VertexShader }
func (*PixelShader) IID() com.GUID      { return IID_ID3D11PixelShader }
func (*InputLayout) IID() com.GUID      { return IID_ID3D11InputLayout }
func (*ClassLinkage) IID() com.GUID     { return IID_ID3D11ClassLinkage }
func (*ClassInstance) IID() com.GUID    { return IID_ID3D11ClassInstance }
func (*RenderTargetView) IID() com.GUID { return IID_ID3D11RenderTargetView }
func (*DepthStencilView) IID() com.GUID { return IID_ID3D11DepthStencilView }
func (*RasterizerState) IID() com.GUID  { return IID_ID3D11RasterizerState }
func (*Debug) IID() com.GUID            { return IID_ID3D11Debug }

var driverTypeNames = [...]string{
	DRIVER_TYPE_UNKNOWN:   "Unknown",
	DRIVER_TYPE_HARDWARE:  "Hardware",
	DRIVER_TYPE_REFERENCE: "Reference",
	DRIVER_TYPE_NULL:      "Null",
	DRIVER_TYPE_SOFTWARE:  "Software",
	DRIVER_TYPE_WARP:      "Warp",
}

func (d DriverType) String() string {
	if int(d) < len(driverTypeNames) {
		return driverTypeNames[d]
	}
	return fmt.Sprintf("DriverType(%d)", uint32(d))
}

// ParseDriverType parses the name of a driver type, as returned by
// DriverType.String, ignoring case.
func ParseDriverType(s string) (DriverType, error) {
	for i, name := range driverTypeNames {
		if strings.EqualFold(name, s) {
			return DriverType(i), nil
		}
	}
	return 0, fmt.Errorf("d3d11: unknown driver type %q", s)
}

// FeatureLevels lists every known feature level, highest first.
var FeatureLevels = []FeatureLevel{
	FEATURE_LEVEL_12_1,
	FEATURE_LEVEL_12_0,
	FEATURE_LEVEL_11_1,
	FEATURE_LEVEL_11_0,
	FEATURE_LEVEL_10_1,
	FEATURE_LEVEL_10_0,
	FEATURE_LEVEL_9_3,
	FEATURE_LEVEL_9_2,
	FEATURE_LEVEL_9_1,
}

// Major returns the major version of the level, such as 11 for
// FEATURE_LEVEL_11_0.
func (l FeatureLevel) Major() int {
	return int(l >> 12)
}

// Minor returns the minor version of the level.
func (l FeatureLevel) Minor() int {
	return int(l>>8) & 0xf
}

func (l FeatureLevel) String() string {
	for _, known := range FeatureLevels {
		if l == known {
			return fmt.Sprintf("FeatureLevel %d.%d", l.Major(), l.Minor())
		}
	}
	return fmt.Sprintf("FeatureLevel(%#x)", uint32(l))
}
