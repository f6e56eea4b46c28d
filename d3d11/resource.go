// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"unsafe"

	"d3dcom.org/com"
)

// ResourceKind is the closed set of interfaces that derive from
// ID3D11Resource.
type ResourceKind interface {
	*Buffer | *Texture1D | *Texture2D | *Texture3D
	com.Interface
}

// Resource is a borrowed reference to any resource, accepted by calls
// such as CreateRenderTargetView and CopyResource.
type Resource interface {
	resource() unsafe.Pointer
}

type resourceRef[T ResourceKind] struct {
	h *com.Handle[T]
}

// AsResource returns h as a Resource. The native pointer is looked up on
// every use, so a Resource of a released handle panics like Raw does.
func AsResource[T ResourceKind](h *com.Handle[T]) Resource {
	return resourceRef[T]{h: h}
}

func (r resourceRef[T]) resource() unsafe.Pointer {
	// Every ResourceKind is a pointer to a struct that embeds
	// com.Unknown.
	p := r.h.Raw()
	return *(*unsafe.Pointer)(unsafe.Pointer(&p))
}
