// SPDX-License-Identifier: Unlicense OR MIT

// Package dxgi wraps the DXGI factory, adapter and swap chain interfaces.
package dxgi

import (
	"unicode/utf16"

	"d3dcom.org/com"
)

// Format is a DXGI_FORMAT.
type Format uint32

// FormatClass is the shader-visible component type of a Format.
type FormatClass uint8

type SWAP_CHAIN_DESC struct {
	BufferDesc   MODE_DESC
	SampleDesc   SAMPLE_DESC
	BufferUsage  uint32
	BufferCount  uint32
	OutputWindow uintptr // HWND
	Windowed     uint32
	SwapEffect   uint32
	Flags        uint32
}

type SAMPLE_DESC struct {
	Count   uint32
	Quality uint32
}

type MODE_DESC struct {
	Width            uint32
	Height           uint32
	RefreshRate      RATIONAL
	Format           Format
	ScanlineOrdering uint32
	Scaling          uint32
}

type RATIONAL struct {
	Numerator   uint32
	Denominator uint32
}

type LUID struct {
	LowPart  uint32
	HighPart int32
}

type ADAPTER_DESC1 struct {
	Description           [128]uint16
	VendorId              uint32
	DeviceId              uint32
	SubSysId              uint32
	Revision              uint32
	DedicatedVideoMemory  uintptr
	DedicatedSystemMemory uintptr
	SharedSystemMemory    uintptr
	AdapterLuid           LUID
	Flags                 uint32
}

// SwapChain is IDXGISwapChain.
type SwapChain struct{ com.Unknown }

// Factory1 is IDXGIFactory1.
type Factory1 struct{ com.Unknown }

// Adapter is IDXGIAdapter.
type Adapter struct{ com.Unknown }

// Adapter1 is IDXGIAdapter1.
type Adapter1 struct{ com.Unknown }

// Device is IDXGIDevice, the DXGI view of a Direct3D device.
type Device struct{ com.Unknown }

type _IDXGIObjectVtbl struct {
	com.UnknownVtbl
	SetPrivateData          uintptr
	SetPrivateDataInterface uintptr
	GetPrivateData          uintptr
	GetParent               uintptr
}

type _IDXGISwapChainVtbl struct {
	_IDXGIObjectVtbl
	GetDevice           uintptr
	Present             uintptr
	GetBuffer           uintptr
	SetFullscreenState  uintptr
	GetFullscreenState  uintptr
	GetDesc             uintptr
	ResizeBuffers       uintptr
	ResizeTarget        uintptr
	GetContainingOutput uintptr
	GetFrameStatistics  uintptr
	GetLastPresentCount uintptr
}

type _IDXGIFactory1Vtbl struct {
	_IDXGIObjectVtbl
	EnumAdapters          uintptr
	MakeWindowAssociation uintptr
	GetWindowAssociation  uintptr
	CreateSwapChain       uintptr
	CreateSoftwareAdapter uintptr
	EnumAdapters1         uintptr
	IsCurrent             uintptr
}

type _IDXGIAdapter1Vtbl struct {
	_IDXGIObjectVtbl
	EnumOutputs           uintptr
	GetDesc               uintptr
	CheckInterfaceSupport uintptr
	GetDesc1              uintptr
}

type _IDXGIDeviceVtbl struct {
	_IDXGIObjectVtbl
	GetAdapter             uintptr
	CreateSurface          uintptr
	QueryResourceResidency uintptr
	SetGPUThreadPriority   uintptr
	GetGPUThreadPriority   uintptr
}

var (
	IID_IDXGISwapChain = com.MustParseGUID("{310D36A0-D2E7-4C0A-AA04-6A9D23B8886A}")
	IID_IDXGIFactory1  = com.MustParseGUID("{770AAE78-F26F-4DBA-A829-253C83D1B387}")
	IID_IDXGIAdapter   = com.MustParseGUID("{2411E7E1-12AC-4CCF-BD14-9798E8534DC0}")
	IID_IDXGIAdapter1  = com.MustParseGUID("{29038F61-3839-4626-91FD-086879011A05}")
	IID_IDXGIDevice    = com.MustParseGUID("{54EC77FA-1377-44E6-8C32-88FD5F44C84C}")
)

const (
	FORMAT_UNKNOWN             Format = 0
	FORMAT_R32G32B32A32_FLOAT  Format = 2
	FORMAT_R32G32B32A32_UINT   Format = 3
	FORMAT_R32G32B32A32_SINT   Format = 4
	FORMAT_R32G32B32_FLOAT     Format = 6
	FORMAT_R32G32B32_UINT      Format = 7
	FORMAT_R32G32B32_SINT      Format = 8
	FORMAT_R16G16B16A16_FLOAT  Format = 10
	FORMAT_R16G16B16A16_UNORM  Format = 11
	FORMAT_R16G16B16A16_UINT   Format = 12
	FORMAT_R16G16B16A16_SNORM  Format = 13
	FORMAT_R16G16B16A16_SINT   Format = 14
	FORMAT_R32G32_FLOAT        Format = 16
	FORMAT_R32G32_UINT         Format = 17
	FORMAT_R32G32_SINT         Format = 18
	FORMAT_R10G10B10A2_UNORM   Format = 24
	FORMAT_R11G11B10_FLOAT     Format = 26
	FORMAT_R8G8B8A8_UNORM      Format = 28
	FORMAT_R8G8B8A8_UNORM_SRGB Format = 29
	FORMAT_R8G8B8A8_UINT       Format = 30
	FORMAT_R8G8B8A8_SNORM      Format = 31
	FORMAT_R8G8B8A8_SINT       Format = 32
	FORMAT_R16G16_FLOAT        Format = 34
	FORMAT_R16G16_UNORM        Format = 35
	FORMAT_R16G16_UINT         Format = 36
	FORMAT_R16G16_SNORM        Format = 37
	FORMAT_R16G16_SINT         Format = 38
	FORMAT_R32_TYPELESS        Format = 39
	FORMAT_D32_FLOAT           Format = 40
	FORMAT_R32_FLOAT           Format = 41
	FORMAT_R32_UINT            Format = 42
	FORMAT_R32_SINT            Format = 43
	FORMAT_D24_UNORM_S8_UINT   Format = 45
	FORMAT_R8G8_UNORM          Format = 49
	FORMAT_R8G8_UINT           Format = 50
	FORMAT_R8G8_SINT           Format = 52
	FORMAT_R16_FLOAT           Format = 54
	FORMAT_R16_UINT            Format = 57
	FORMAT_R16_SINT            Format = 59
	FORMAT_R8_UNORM            Format = 61
	FORMAT_R8_UINT             Format = 62
	FORMAT_R8_SINT             Format = 64
	FORMAT_B8G8R8A8_UNORM      Format = 87

	USAGE_SHADER_INPUT         = 1 << (0 + 4)
	USAGE_RENDER_TARGET_OUTPUT = 1 << (1 + 4)

	SWAP_EFFECT_DISCARD         = 0
	SWAP_EFFECT_SEQUENTIAL      = 1
	SWAP_EFFECT_FLIP_SEQUENTIAL = 3
	SWAP_EFFECT_FLIP_DISCARD    = 4

	SWAP_CHAIN_FLAG_ALLOW_MODE_SWITCH = 2

	PRESENT_TEST            = 0x1
	PRESENT_DO_NOT_SEQUENCE = 0x2
	PRESENT_RESTART         = 0x4

	ADAPTER_FLAG_SOFTWARE = 2

	MWA_NO_WINDOW_CHANGES = 1 << 0
	MWA_NO_ALT_ENTER      = 1 << 1
)

const (
	ClassUnknown FormatClass = iota
	// ClassFloat covers float, unorm and snorm formats.
	ClassFloat
	ClassUint
	ClassSint
)

type formatInfo struct {
	class FormatClass
	size  int
}

var formats = map[Format]formatInfo{
	FORMAT_R32G32B32A32_FLOAT:  {ClassFloat, 16},
	FORMAT_R32G32B32A32_UINT:   {ClassUint, 16},
	FORMAT_R32G32B32A32_SINT:   {ClassSint, 16},
	FORMAT_R32G32B32_FLOAT:     {ClassFloat, 12},
	FORMAT_R32G32B32_UINT:      {ClassUint, 12},
	FORMAT_R32G32B32_SINT:      {ClassSint, 12},
	FORMAT_R16G16B16A16_FLOAT:  {ClassFloat, 8},
	FORMAT_R16G16B16A16_UNORM:  {ClassFloat, 8},
	FORMAT_R16G16B16A16_UINT:   {ClassUint, 8},
	FORMAT_R16G16B16A16_SNORM:  {ClassFloat, 8},
	FORMAT_R16G16B16A16_SINT:   {ClassSint, 8},
	FORMAT_R32G32_FLOAT:        {ClassFloat, 8},
	FORMAT_R32G32_UINT:         {ClassUint, 8},
	FORMAT_R32G32_SINT:         {ClassSint, 8},
	FORMAT_R10G10B10A2_UNORM:   {ClassFloat, 4},
	FORMAT_R11G11B10_FLOAT:     {ClassFloat, 4},
	FORMAT_R8G8B8A8_UNORM:      {ClassFloat, 4},
	FORMAT_R8G8B8A8_UNORM_SRGB: {ClassFloat, 4},
	FORMAT_R8G8B8A8_UINT:       {ClassUint, 4},
	FORMAT_R8G8B8A8_SNORM:      {ClassFloat, 4},
	FORMAT_R8G8B8A8_SINT:       {ClassSint, 4},
	FORMAT_R16G16_FLOAT:        {ClassFloat, 4},
	FORMAT_R16G16_UNORM:        {ClassFloat, 4},
	FORMAT_R16G16_UINT:         {ClassUint, 4},
	FORMAT_R16G16_SNORM:        {ClassFloat, 4},
	FORMAT_R16G16_SINT:         {ClassSint, 4},
	FORMAT_R32_FLOAT:           {ClassFloat, 4},
	FORMAT_R32_UINT:            {ClassUint, 4},
	FORMAT_R32_SINT:            {ClassSint, 4},
	FORMAT_D32_FLOAT:           {ClassFloat, 4},
	FORMAT_D24_UNORM_S8_UINT:   {ClassUnknown, 4},
	FORMAT_R8G8_UNORM:          {ClassFloat, 2},
	FORMAT_R8G8_UINT:           {ClassUint, 2},
	FORMAT_R8G8_SINT:           {ClassSint, 2},
	FORMAT_R16_FLOAT:           {ClassFloat, 2},
	FORMAT_R16_UINT:            {ClassUint, 2},
	FORMAT_R16_SINT:            {ClassSint, 2},
	FORMAT_R8_UNORM:            {ClassFloat, 1},
	FORMAT_R8_UINT:             {ClassUint, 1},
	FORMAT_R8_SINT:             {ClassSint, 1},
	FORMAT_B8G8R8A8_UNORM:      {ClassFloat, 4},
}

func init() {
	com.Register[*SwapChain]("IDXGISwapChain")
	com.Register[*Factory1]("IDXGIFactory1")
	com.Register[*Adapter]("IDXGIAdapter")
	com.Register[*Adapter1]("IDXGIAdapter1")
	com.Register[*Device]("IDXGIDevice")
}

func (*SwapChain) IID() com.GUID { return IID_IDXGISwapChain }
func (*Factory1) IID() com.GUID  { return IID_IDXGIFactory1 }
func (*Adapter) IID() com.GUID   { return IID_IDXGIAdapter }
func (*Adapter1) IID() com.GUID  { return IID_IDXGIAdapter1 }
func (*Device) IID() com.GUID    { return IID_IDXGIDevice }

// Class returns the component type a shader observes when reading f.
func (f Format) Class() FormatClass {
	return formats[f].class
}

// Size returns the size in bytes of one element of f, or 0 for unknown
// and block compressed formats.
func (f Format) Size() int {
	return formats[f].size
}

// Name returns the adapter description as a Go string.
func (d *ADAPTER_DESC1) Name() string {
	n := 0
	for n < len(d.Description) && d.Description[n] != 0 {
		n++
	}
	return string(utf16.Decode(d.Description[:n]))
}

// Software reports whether the adapter is a software rasterizer.
func (d *ADAPTER_DESC1) Software() bool {
	return d.Flags&ADAPTER_FLAG_SOFTWARE != 0
}
