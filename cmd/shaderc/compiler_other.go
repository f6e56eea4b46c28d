// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows
// +build !windows

package main

import (
	"errors"

	"d3dcom.org/shadercache"
)

func newCompiler() (shadercache.Compiler, error) {
	return nil, errors.New("compiling HLSL requires Windows")
}
