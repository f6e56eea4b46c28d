// SPDX-License-Identifier: Unlicense OR MIT

//go:build !windows
// +build !windows

package main

import (
	"errors"

	"d3dcom.org/shadercache"
)

var errUnsupported = errors.New("triangle requires Windows")

func newCompiler() (shadercache.Compiler, error) {
	return nil, errUnsupported
}

func run(cfg config) error {
	return errUnsupported
}
