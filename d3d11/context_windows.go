// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"fmt"
	"math"
	"runtime"
	"syscall"
	"unsafe"

	"d3dcom.org/com"
	gunsafe "d3dcom.org/internal/unsafe"
)

func (c *DeviceContext) vtbl() *_ID3D11DeviceContextVtbl {
	return (*_ID3D11DeviceContextVtbl)(c.Vtbl())
}

// OMSetRenderTargets binds render targets to the output merger slots in
// order, and an optional depth stencil view. Nil targets leave their
// slot unbound.
func (c *DeviceContext) OMSetRenderTargets(targets []*com.Handle[*RenderTargetView], depthStencil *com.Handle[*DepthStencilView]) {
	if len(targets) > SIMULTANEOUS_RENDER_TARGET_COUNT {
		panic(fmt.Sprintf("d3d11: %d render targets exceed the %d output slots", len(targets), SIMULTANEOUS_RENDER_TARGET_COUNT))
	}
	views := com.BorrowOptional(targets)
	syscall.SyscallN(
		c.vtbl().OMSetRenderTargets,
		uintptr(unsafe.Pointer(c)),
		uintptr(len(views)),
		uintptr(gunsafe.Ptr(views)),
		optional(depthStencil),
	)
	runtime.KeepAlive(views)
}

func (c *DeviceContext) RSSetViewports(viewports []VIEWPORT) {
	syscall.SyscallN(
		c.vtbl().RSSetViewports,
		uintptr(unsafe.Pointer(c)),
		uintptr(len(viewports)),
		uintptr(gunsafe.Ptr(viewports)),
	)
	runtime.KeepAlive(viewports)
}

func (c *DeviceContext) ClearRenderTargetView(target *com.Handle[*RenderTargetView], color [4]float32) {
	syscall.SyscallN(
		c.vtbl().ClearRenderTargetView,
		uintptr(unsafe.Pointer(c)),
		uintptr(unsafe.Pointer(target.Raw())),
		uintptr(unsafe.Pointer(&color)),
	)
}

func (c *DeviceContext) ClearDepthStencilView(target *com.Handle[*DepthStencilView], flags uint32, depth float32, stencil uint8) {
	syscall.SyscallN(
		c.vtbl().ClearDepthStencilView,
		uintptr(unsafe.Pointer(c)),
		uintptr(unsafe.Pointer(target.Raw())),
		uintptr(flags),
		uintptr(math.Float32bits(depth)),
		uintptr(stencil),
	)
}

// RSSetState binds a rasterizer state. A nil state restores the default.
func (c *DeviceContext) RSSetState(state *com.Handle[*RasterizerState]) {
	syscall.SyscallN(
		c.vtbl().RSSetState,
		uintptr(unsafe.Pointer(c)),
		optional(state),
	)
}

// IASetInputLayout binds layout. A nil layout unbinds the current one.
func (c *DeviceContext) IASetInputLayout(layout *com.Handle[*InputLayout]) {
	syscall.SyscallN(
		c.vtbl().IASetInputLayout,
		uintptr(unsafe.Pointer(c)),
		optional(layout),
	)
}

func (c *DeviceContext) IASetPrimitiveTopology(mode uint32) {
	syscall.SyscallN(
		c.vtbl().IASetPrimitiveTopology,
		uintptr(unsafe.Pointer(c)),
		uintptr(mode),
	)
}

// IASetVertexBuffers binds buffers to consecutive input slots starting at
// startSlot. The three slices correspond by index and must have equal
// lengths; IASetVertexBuffers panics otherwise. Nil buffers unbind their
// slot.
func (c *DeviceContext) IASetVertexBuffers(startSlot uint32, bufs []*com.Handle[*Buffer], strides, offsets []uint32) {
	checkParallel("IASetVertexBuffers", len(bufs), len(strides), len(offsets))
	if int(startSlot)+len(bufs) > IA_VERTEX_INPUT_RESOURCE_SLOT_COUNT {
		panic(fmt.Sprintf("d3d11: vertex buffer slots %d-%d out of range", startSlot, int(startSlot)+len(bufs)-1))
	}
	raw := com.BorrowOptional(bufs)
	syscall.SyscallN(
		c.vtbl().IASetVertexBuffers,
		uintptr(unsafe.Pointer(c)),
		uintptr(startSlot),
		uintptr(len(raw)),
		uintptr(gunsafe.Ptr(raw)),
		uintptr(gunsafe.Ptr(strides)),
		uintptr(gunsafe.Ptr(offsets)),
	)
	runtime.KeepAlive(raw)
	runtime.KeepAlive(strides)
	runtime.KeepAlive(offsets)
}

// VSSetShader binds a vertex shader and the class instances its
// interfaces use. A nil shader unbinds the stage, and nil instances leave
// their interface slots empty.
func (c *DeviceContext) VSSetShader(s *com.Handle[*VertexShader], instances []*com.Handle[*ClassInstance]) {
	raw := com.BorrowOptional(instances)
	syscall.SyscallN(
		c.vtbl().VSSetShader,
		uintptr(unsafe.Pointer(c)),
		optional(s),
		uintptr(gunsafe.Ptr(raw)),
		uintptr(len(raw)),
	)
	runtime.KeepAlive(raw)
}

// PSSetShader binds a pixel shader and the class instances its
// interfaces use. A nil shader unbinds the stage, and nil instances leave
// their interface slots empty.
func (c *DeviceContext) PSSetShader(s *com.Handle[*PixelShader], instances []*com.Handle[*ClassInstance]) {
	raw := com.BorrowOptional(instances)
	syscall.SyscallN(
		c.vtbl().PSSetShader,
		uintptr(unsafe.Pointer(c)),
		optional(s),
		uintptr(gunsafe.Ptr(raw)),
		uintptr(len(raw)),
	)
	runtime.KeepAlive(raw)
}

func (c *DeviceContext) Draw(count, start uint32) {
	syscall.SyscallN(
		c.vtbl().Draw,
		uintptr(unsafe.Pointer(c)),
		uintptr(count),
		uintptr(start),
	)
}

func (c *DeviceContext) CopyResource(dst, src Resource) {
	syscall.SyscallN(
		c.vtbl().CopyResource,
		uintptr(unsafe.Pointer(c)),
		uintptr(dst.resource()),
		uintptr(src.resource()),
	)
}

// Map maps a subresource for CPU access. The mapping stays valid until
// the matching Unmap.
func (c *DeviceContext) Map(res Resource, subResource, mapType, mapFlags uint32) (MAPPED_SUBRESOURCE, error) {
	var resMap MAPPED_SUBRESOURCE
	r, _, _ := syscall.SyscallN(
		c.vtbl().Map,
		uintptr(unsafe.Pointer(c)),
		uintptr(res.resource()),
		uintptr(subResource),
		uintptr(mapType),
		uintptr(mapFlags),
		uintptr(unsafe.Pointer(&resMap)),
	)
	if err := com.Check("DeviceContextMap", com.HRESULT(r)); err != nil {
		return MAPPED_SUBRESOURCE{}, err
	}
	return resMap, nil
}

func (c *DeviceContext) Unmap(res Resource, subResource uint32) {
	syscall.SyscallN(
		c.vtbl().Unmap,
		uintptr(unsafe.Pointer(c)),
		uintptr(res.resource()),
		uintptr(subResource),
	)
}

// ClearState unbinds every object and resets all state to its default.
func (c *DeviceContext) ClearState() {
	syscall.SyscallN(
		c.vtbl().ClearState,
		uintptr(unsafe.Pointer(c)),
	)
}

func (c *DeviceContext) Flush() {
	syscall.SyscallN(
		c.vtbl().Flush,
		uintptr(unsafe.Pointer(c)),
	)
}

// Bytes returns a view of n bytes of mapped memory.
func (m MAPPED_SUBRESOURCE) Bytes(n int) []byte {
	return gunsafe.SliceOf(m.PData, n)
}
