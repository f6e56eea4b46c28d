// SPDX-License-Identifier: Unlicense OR MIT

package main

import (
	"d3dcom.org/d3dcompile"
	"d3dcom.org/shadercache"
)

func newCompiler() (shadercache.Compiler, error) {
	return shadercache.D3DCompiler{Flags: d3dcompile.COMPILE_OPTIMIZATION_LEVEL3}, nil
}
