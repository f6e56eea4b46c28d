// SPDX-License-Identifier: Unlicense OR MIT

package d3d11

import (
	"fmt"

	"gioui.org/shader"

	"d3dcom.org/dxgi"
)

// InputElementsFromShader derives a tightly packed single slot input
// layout from the reflected inputs of a precompiled vertex shader.
// It also returns the vertex stride.
func InputElementsFromShader(src shader.Sources) ([]InputElement, uint32, error) {
	if len(src.Inputs) == 0 {
		return nil, 0, fmt.Errorf("d3d11: shader %s has no vertex inputs", src.Name)
	}
	elems := make([]InputElement, len(src.Inputs))
	var offset uint32
	for i, inp := range src.Inputs {
		format, err := inputFormat(inp)
		if err != nil {
			return nil, 0, fmt.Errorf("d3d11: shader %s: input %s: %v", src.Name, inp.Name, err)
		}
		elems[i] = InputElement{
			SemanticName:      inp.Semantic,
			SemanticIndex:     uint32(inp.SemanticIndex),
			Format:            format,
			AlignedByteOffset: offset,
			InputSlotClass:    INPUT_PER_VERTEX_DATA,
		}
		offset += uint32(format.Size())
	}
	return elems, offset, nil
}

func inputFormat(inp shader.InputLocation) (dxgi.Format, error) {
	var formats []dxgi.Format
	switch inp.Type {
	case shader.DataTypeFloat:
		formats = []dxgi.Format{
			dxgi.FORMAT_R32_FLOAT,
			dxgi.FORMAT_R32G32_FLOAT,
			dxgi.FORMAT_R32G32B32_FLOAT,
			dxgi.FORMAT_R32G32B32A32_FLOAT,
		}
	case shader.DataTypeInt:
		formats = []dxgi.Format{
			dxgi.FORMAT_R32_SINT,
			dxgi.FORMAT_R32G32_SINT,
			dxgi.FORMAT_R32G32B32_SINT,
			dxgi.FORMAT_R32G32B32A32_SINT,
		}
	case shader.DataTypeShort:
		formats = []dxgi.Format{
			dxgi.FORMAT_R16_SINT,
			dxgi.FORMAT_R16G16_SINT,
		}
	default:
		return 0, fmt.Errorf("unsupported data type %d", inp.Type)
	}
	if inp.Size < 1 || inp.Size > len(formats) {
		return 0, fmt.Errorf("unsupported data size %d", inp.Size)
	}
	return formats[inp.Size-1], nil
}
