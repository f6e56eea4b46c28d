// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"d3dcom.org/com"
	"d3dcom.org/dxgi"
	gunsafe "d3dcom.org/internal/unsafe"
)

// SignatureElement is one entry of a shader's input signature.
type SignatureElement struct {
	SemanticName  string
	SemanticIndex uint32
	// SystemValue is non-zero for values generated by the pipeline, such
	// as SV_VertexID, which no input layout supplies.
	SystemValue   uint32
	ComponentType uint32
	Register      uint32
	Mask          uint8
}

// Register component types of a signature element.
const (
	COMPONENT_UNKNOWN = 0
	COMPONENT_UINT32  = 1
	COMPONENT_SINT32  = 2
	COMPONENT_FLOAT32 = 3
)

var errMalformedDXBC = errors.New("d3d11: malformed DXBC container")

// invalidArg returns an error that is classified as com.ErrInvalidArg and
// carries the status the native call would have failed with.
func invalidArg(call, format string, args ...interface{}) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), com.ErrorCode{Name: call, Code: com.E_INVALIDARG})
}

func checkBuffer(desc *BUFFER_DESC, init *SubresourceData) error {
	const call = "DeviceCreateBuffer"
	if desc.ByteWidth == 0 {
		return invalidArg(call, "d3d11: zero sized buffer")
	}
	if init == nil {
		if desc.Usage == USAGE_IMMUTABLE {
			return invalidArg(call, "d3d11: immutable buffer without initial data")
		}
		return nil
	}
	if n := len(init.Data); n < int(desc.ByteWidth) {
		return invalidArg(call, "d3d11: %d bytes of initial data for a %d byte buffer", n, desc.ByteWidth)
	}
	return nil
}

func checkTexture2D(desc *TEXTURE2D_DESC, init *SubresourceData) error {
	const call = "DeviceCreateTexture2D"
	if desc.Usage == USAGE_IMMUTABLE && init == nil {
		return invalidArg(call, "d3d11: immutable texture without initial data")
	}
	if init != nil {
		if desc.MipLevels != 1 || desc.ArraySize != 1 {
			return invalidArg(call, "d3d11: initial data for a texture of more than one subresource")
		}
		if need := int(init.Pitch) * int(desc.Height); len(init.Data) < need {
			return invalidArg(call, "d3d11: %d bytes of initial data for %d rows of pitch %d", len(init.Data), desc.Height, init.Pitch)
		}
	}
	return nil
}

func checkBytecode(call string, bytecode []byte) error {
	if len(bytecode) == 0 {
		return invalidArg(call, "d3d11: empty shader bytecode")
	}
	return nil
}

// checkParallel panics unless every length equals n. Slots of parallel
// arrays correspond by index, and a mismatch is a programming error.
func checkParallel(call string, n int, lengths ...int) {
	for _, l := range lengths {
		if l != n {
			panic(fmt.Sprintf("d3d11: %s: parallel arrays of lengths %d and %d", call, n, l))
		}
	}
}

// marshalInputElements converts elems to their native form. The returned
// descriptors reference NUL terminated copies of the semantic names and
// must be kept alive until the native call returns.
func marshalInputElements(elems []InputElement) ([]INPUT_ELEMENT_DESC, error) {
	const call = "DeviceCreateInputLayout"
	if len(elems) == 0 {
		return nil, invalidArg(call, "d3d11: input layout without elements")
	}
	descs := make([]INPUT_ELEMENT_DESC, len(elems))
	for i, e := range elems {
		if e.SemanticName == "" {
			return nil, invalidArg(call, "d3d11: input element %d has no semantic name", i)
		}
		name, err := gunsafe.CString(e.SemanticName)
		if err != nil {
			return nil, invalidArg(call, "d3d11: input element %d: semantic %q: %v", i, e.SemanticName, err)
		}
		descs[i] = INPUT_ELEMENT_DESC{
			SemanticName:         &name[0],
			SemanticIndex:        e.SemanticIndex,
			Format:               e.Format,
			InputSlot:            e.InputSlot,
			AlignedByteOffset:    e.AlignedByteOffset,
			InputSlotClass:       e.InputSlotClass,
			InstanceDataStepRate: e.InstanceDataStepRate,
		}
	}
	return descs, nil
}

// InputSignature extracts the input signature from DXBC shader bytecode.
// It returns a nil signature without error if the container has no input
// signature chunk.
func InputSignature(bytecode []byte) ([]SignatureElement, error) {
	le := binary.LittleEndian
	if len(bytecode) < 32 || string(bytecode[:4]) != "DXBC" {
		return nil, errMalformedDXBC
	}
	nchunks := int(le.Uint32(bytecode[28:]))
	if nchunks > (len(bytecode)-32)/4 {
		return nil, errMalformedDXBC
	}
	for i := 0; i < nchunks; i++ {
		off := int(le.Uint32(bytecode[32+4*i:]))
		if off < 0 || off+8 > len(bytecode) {
			return nil, errMalformedDXBC
		}
		fourcc := string(bytecode[off : off+4])
		size := int(le.Uint32(bytecode[off+4:]))
		data := bytecode[off+8:]
		if size < 0 || size > len(data) {
			return nil, errMalformedDXBC
		}
		data = data[:size]
		switch fourcc {
		case "ISGN":
			return parseSignature(data, 24, false)
		case "ISG1":
			return parseSignature(data, 32, true)
		}
	}
	return nil, nil
}

func parseSignature(chunk []byte, stride int, extended bool) ([]SignatureElement, error) {
	le := binary.LittleEndian
	if len(chunk) < 8 {
		return nil, errMalformedDXBC
	}
	count := int(le.Uint32(chunk))
	start := int(le.Uint32(chunk[4:]))
	if count < 0 || start < 0 || count > (len(chunk)-start)/stride {
		return nil, errMalformedDXBC
	}
	sig := make([]SignatureElement, count)
	for i := range sig {
		e := chunk[start+i*stride:]
		if extended {
			// Skip the stream index.
			e = e[4:]
		}
		nameOff := int(le.Uint32(e))
		if nameOff < 0 || nameOff >= len(chunk) {
			return nil, errMalformedDXBC
		}
		name := gunsafe.GoString(chunk[nameOff:])
		sig[i] = SignatureElement{
			SemanticName:  name,
			SemanticIndex: le.Uint32(e[4:]),
			SystemValue:   le.Uint32(e[8:]),
			ComponentType: le.Uint32(e[12:]),
			Register:      le.Uint32(e[16:]),
			Mask:          e[20],
		}
	}
	return sig, nil
}

// CheckInputSignature reports whether elems supply every input the
// signature reads, with a compatible component type. Semantic names
// match without regard to case.
func CheckInputSignature(sig []SignatureElement, elems []InputElement) error {
	const call = "DeviceCreateInputLayout"
	for _, s := range sig {
		if s.SystemValue != 0 {
			continue
		}
		i := slices.IndexFunc(elems, func(e InputElement) bool {
			return e.SemanticIndex == s.SemanticIndex && strings.EqualFold(e.SemanticName, s.SemanticName)
		})
		if i == -1 {
			return invalidArg(call, "d3d11: shader input %s%d is missing from the input layout", s.SemanticName, s.SemanticIndex)
		}
		if !compatible(s.ComponentType, elems[i].Format) {
			return invalidArg(call, "d3d11: shader input %s%d has component type %d, incompatible with format %d",
				s.SemanticName, s.SemanticIndex, s.ComponentType, elems[i].Format)
		}
	}
	return nil
}

func compatible(componentType uint32, f dxgi.Format) bool {
	class := f.Class()
	if class == dxgi.ClassUnknown {
		return true
	}
	switch componentType {
	case COMPONENT_FLOAT32:
		return class == dxgi.ClassFloat
	case COMPONENT_UINT32:
		return class == dxgi.ClassUint
	case COMPONENT_SINT32:
		return class == dxgi.ClassSint
	default:
		return true
	}
}

// validateInputLayout runs the checks CreateInputLayout performs before
// reaching the native call.
func validateInputLayout(elems []InputElement, bytecode []byte) ([]INPUT_ELEMENT_DESC, error) {
	descs, err := marshalInputElements(elems)
	if err != nil {
		return nil, err
	}
	if err := checkBytecode("DeviceCreateInputLayout", bytecode); err != nil {
		return nil, err
	}
	sig, err := InputSignature(bytecode)
	if err != nil {
		// Bytecode the parser does not understand is left to the runtime.
		return descs, nil
	}
	if err := CheckInputSignature(sig, elems); err != nil {
		return nil, err
	}
	return descs, nil
}
