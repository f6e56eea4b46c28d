// SPDX-License-Identifier: Unlicense OR MIT

package dxgi

import (
	"errors"
	"fmt"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"d3dcom.org/com"
)

var (
	dxgiDLL = windows.NewLazySystemDLL("dxgi.dll")

	_CreateDXGIFactory1 = dxgiDLL.NewProc("CreateDXGIFactory1")
)

// CreateFactory1 creates a DXGI 1.1 factory.
func CreateFactory1() (*com.Handle[*Factory1], error) {
	if err := _CreateDXGIFactory1.Find(); err != nil {
		return nil, fmt.Errorf("dxgi: %w: %v", com.ErrUnsupported, err)
	}
	iid := IID_IDXGIFactory1
	var f *Factory1
	r, _, _ := _CreateDXGIFactory1.Call(
		uintptr(unsafe.Pointer(&iid)),
		uintptr(unsafe.Pointer(&f)),
	)
	return com.Created("CreateDXGIFactory1", com.HRESULT(r), f)
}

// EnumAdapters1 returns the adapter at index i. Past the last adapter
// the error is a com.ErrNotFound.
func (f *Factory1) EnumAdapters1(i uint32) (*com.Handle[*Adapter1], error) {
	var a *Adapter1
	r, _, _ := syscall.SyscallN(
		(*_IDXGIFactory1Vtbl)(f.Vtbl()).EnumAdapters1,
		uintptr(unsafe.Pointer(f)),
		uintptr(i),
		uintptr(unsafe.Pointer(&a)),
	)
	return com.Created("IDXGIFactory1EnumAdapters1", com.HRESULT(r), a)
}

// Adapters returns every adapter known to f. The caller releases them.
func (f *Factory1) Adapters() ([]*com.Handle[*Adapter1], error) {
	var adapters []*com.Handle[*Adapter1]
	for i := uint32(0); ; i++ {
		a, err := f.EnumAdapters1(i)
		if err != nil {
			var code com.ErrorCode
			if errors.As(err, &code) && code.Code == com.DXGI_ERROR_NOT_FOUND {
				return adapters, nil
			}
			for _, a := range adapters {
				a.Release()
			}
			return nil, err
		}
		adapters = append(adapters, a)
	}
}

func (a *Adapter1) Desc1() (ADAPTER_DESC1, error) {
	var desc ADAPTER_DESC1
	r, _, _ := syscall.SyscallN(
		(*_IDXGIAdapter1Vtbl)(a.Vtbl()).GetDesc1,
		uintptr(unsafe.Pointer(a)),
		uintptr(unsafe.Pointer(&desc)),
	)
	if err := com.Check("IDXGIAdapter1GetDesc1", com.HRESULT(r)); err != nil {
		return ADAPTER_DESC1{}, err
	}
	return desc, nil
}

// GetAdapter returns the adapter the device was created on.
func (d *Device) GetAdapter() (*com.Handle[*Adapter], error) {
	var a *Adapter
	r, _, _ := syscall.SyscallN(
		(*_IDXGIDeviceVtbl)(d.Vtbl()).GetAdapter,
		uintptr(unsafe.Pointer(d)),
		uintptr(unsafe.Pointer(&a)),
	)
	return com.Created("IDXGIDeviceGetAdapter", com.HRESULT(r), a)
}

// Present shows the back buffer. Success statuses such as
// DXGI_STATUS_OCCLUDED are not errors. A removed, reset or hung device is
// reported as a com.ErrDeviceLost.
func (s *SwapChain) Present(SyncInterval int, Flags uint32) error {
	r, _, _ := syscall.SyscallN(
		(*_IDXGISwapChainVtbl)(s.Vtbl()).Present,
		uintptr(unsafe.Pointer(s)),
		uintptr(SyncInterval),
		uintptr(Flags),
	)
	return com.Check("IDXGISwapChainPresent", com.HRESULT(r))
}

// GetBuffer returns back buffer i of the swap chain as interface T,
// typically *d3d11.Texture2D.
func GetBuffer[T com.Interface](s *com.Handle[*SwapChain], i int) (*com.Handle[T], error) {
	sc := s.Raw()
	iid := com.IIDOf[T]()
	var buf T
	r, _, _ := syscall.SyscallN(
		(*_IDXGISwapChainVtbl)(sc.Vtbl()).GetBuffer,
		uintptr(unsafe.Pointer(sc)),
		uintptr(i),
		uintptr(unsafe.Pointer(&iid)),
		uintptr(unsafe.Pointer(&buf)),
	)
	return com.Created("IDXGISwapChainGetBuffer("+com.NameOf(iid)+")", com.HRESULT(r), buf)
}

// ResizeBuffers resizes the back buffers. Every reference to a back
// buffer, including views of it, must be released first.
func (s *SwapChain) ResizeBuffers(BufferCount, Width, Height uint32, NewFormat Format, SwapChainFlags uint32) error {
	r, _, _ := syscall.SyscallN(
		(*_IDXGISwapChainVtbl)(s.Vtbl()).ResizeBuffers,
		uintptr(unsafe.Pointer(s)),
		uintptr(BufferCount),
		uintptr(Width),
		uintptr(Height),
		uintptr(NewFormat),
		uintptr(SwapChainFlags),
	)
	return com.Check("IDXGISwapChainResizeBuffers", com.HRESULT(r))
}

func (s *SwapChain) GetDesc() (SWAP_CHAIN_DESC, error) {
	var desc SWAP_CHAIN_DESC
	r, _, _ := syscall.SyscallN(
		(*_IDXGISwapChainVtbl)(s.Vtbl()).GetDesc,
		uintptr(unsafe.Pointer(s)),
		uintptr(unsafe.Pointer(&desc)),
	)
	if err := com.Check("IDXGISwapChainGetDesc", com.HRESULT(r)); err != nil {
		return SWAP_CHAIN_DESC{}, err
	}
	return desc, nil
}

// MakeWindowAssociation controls which window messages DXGI handles for
// hwnd, such as Alt-Enter.
func (f *Factory1) MakeWindowAssociation(hwnd windows.Handle, flags uint32) error {
	r, _, _ := syscall.SyscallN(
		(*_IDXGIFactory1Vtbl)(f.Vtbl()).MakeWindowAssociation,
		uintptr(unsafe.Pointer(f)),
		uintptr(hwnd),
		uintptr(flags),
	)
	return com.Check("IDXGIFactory1MakeWindowAssociation", com.HRESULT(r))
}
