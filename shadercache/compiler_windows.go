// SPDX-License-Identifier: Unlicense OR MIT

package shadercache

import (
	"context"

	"d3dcom.org/d3dcompile"
)

// D3DCompiler compiles with the system D3DCompiler library. Includes are
// resolved relative to the source file.
type D3DCompiler struct {
	// Flags is a combination of d3dcompile.COMPILE flags.
	Flags uint32
}

func (d D3DCompiler) Compile(ctx context.Context, name string, src []byte, s Source) ([]byte, string, error) {
	res, err := d3dcompile.Compile(src, d3dcompile.Options{
		SourceName: name,
		Defines:    s.Defines,
		Include:    d3dcompile.StandardFileInclude,
		EntryPoint: s.EntryPoint,
		Target:     s.Target,
		Flags1:     d.Flags,
	})
	if err != nil {
		return nil, "", err
	}
	defer res.Shader.Release()
	code := append([]byte(nil), res.Shader.Raw().Bytes()...)
	return code, res.Warnings, nil
}
