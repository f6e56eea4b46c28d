// SPDX-License-Identifier: Unlicense OR MIT

// Package d3dcompile compiles HLSL source with the D3DCompiler library.
package d3dcompile

import (
	"fmt"
	"strings"

	"d3dcom.org/com"
)

// Target is a compiler profile such as vs_5_0.
type Target uint8

// Include selects how #include directives are resolved. The only
// include handler is StandardFileInclude; the zero value disables
// includes.
type Include struct {
	// magic is the value the compiler interprets in place of an
	// ID3DInclude pointer. It is never dereferenced.
	magic uintptr
}

// StandardFileInclude resolves includes relative to the current
// directory and the directory of SourceName.
var StandardFileInclude = Include{magic: 1}

// Define is a preprocessor macro.
type Define struct {
	Name       string
	Definition string
}

// Options control a compilation.
type Options struct {
	// SourceName is used in diagnostics and for resolving includes.
	SourceName string
	Defines    []Define
	Include    Include
	// EntryPoint is the shader function. It is ignored for effect
	// targets.
	EntryPoint string
	Target     Target
	// Flags1 is a combination of the COMPILE flags.
	Flags1 uint32
	Flags2 uint32
}

// Result is a successful compilation.
type Result struct {
	Shader *com.Handle[*Blob]
	// Warnings holds the compiler's diagnostics, if any.
	Warnings string
}

// CompileError is a failed compilation.
type CompileError struct {
	Code        com.HRESULT
	Diagnostics string
}

// Blob is ID3DBlob, a reference counted byte buffer.
type Blob struct{ com.Unknown }

type _ID3DBlobVtbl struct {
	com.UnknownVtbl
	GetBufferPointer uintptr
	GetBufferSize    uintptr
}

var IID_ID3DBlob = com.MustParseGUID("{8BA5FB08-5195-40E2-AC58-0D989C3A0102}")

const (
	CS_5_0 Target = iota + 1
	DS_5_0
	GS_5_0
	HS_5_0
	PS_5_0
	VS_5_0

	CS_4_1
	GS_4_1
	PS_4_1
	VS_4_1

	CS_4_0
	GS_4_0
	PS_4_0
	VS_4_0

	PS_4_0_LEVEL_9_1
	PS_4_0_LEVEL_9_3
	VS_4_0_LEVEL_9_1
	VS_4_0_LEVEL_9_3

	PS_3_0
	PS_3_SW
	VS_3_0
	VS_3_SW
	PS_2_0
	PS_2_A
	PS_2_B
	PS_2_SW
	VS_2_0
	VS_2_A
	VS_2_SW
	TX_1_0
	VS_1_1

	FX_2_0
	FX_4_0
	FX_4_1
	FX_5_0
)

const (
	COMPILE_DEBUG                          = 1 << 0
	COMPILE_SKIP_VALIDATION                = 1 << 1
	COMPILE_SKIP_OPTIMIZATION              = 1 << 2
	COMPILE_PACK_MATRIX_ROW_MAJOR          = 1 << 3
	COMPILE_PACK_MATRIX_COLUMN_MAJOR       = 1 << 4
	COMPILE_PARTIAL_PRECISION              = 1 << 5
	COMPILE_AVOID_FLOW_CONTROL             = 1 << 9
	COMPILE_PREFER_FLOW_CONTROL            = 1 << 10
	COMPILE_ENABLE_STRICTNESS              = 1 << 11
	COMPILE_ENABLE_BACKWARDS_COMPATIBILITY = 1 << 12
	COMPILE_IEEE_STRICTNESS                = 1 << 13
	COMPILE_OPTIMIZATION_LEVEL0            = 1 << 14
	COMPILE_OPTIMIZATION_LEVEL1            = 0
	COMPILE_OPTIMIZATION_LEVEL2            = 1<<14 | 1<<15
	COMPILE_OPTIMIZATION_LEVEL3            = 1 << 15
	COMPILE_WARNINGS_ARE_ERRORS            = 1 << 18
)

var targetNames = [...]string{
	CS_5_0: "cs_5_0",
	DS_5_0: "ds_5_0",
	GS_5_0: "gs_5_0",
	HS_5_0: "hs_5_0",
	PS_5_0: "ps_5_0",
	VS_5_0: "vs_5_0",

	CS_4_1: "cs_4_1",
	GS_4_1: "gs_4_1",
	PS_4_1: "ps_4_1",
	VS_4_1: "vs_4_1",

	CS_4_0: "cs_4_0",
	GS_4_0: "gs_4_0",
	PS_4_0: "ps_4_0",
	VS_4_0: "vs_4_0",

	PS_4_0_LEVEL_9_1: "ps_4_0_level_9_1",
	PS_4_0_LEVEL_9_3: "ps_4_0_level_9_3",
	VS_4_0_LEVEL_9_1: "vs_4_0_level_9_1",
	VS_4_0_LEVEL_9_3: "vs_4_0_level_9_3",

	PS_3_0:  "ps_3_0",
	PS_3_SW: "ps_3_sw",
	VS_3_0:  "vs_3_0",
	VS_3_SW: "vs_3_sw",
	PS_2_0:  "ps_2_0",
	PS_2_A:  "ps_2_a",
	PS_2_B:  "ps_2_b",
	PS_2_SW: "ps_2_sw",
	VS_2_0:  "vs_2_0",
	VS_2_A:  "vs_2_a",
	VS_2_SW: "vs_2_sw",
	TX_1_0:  "tx_1_0",
	VS_1_1:  "vs_1_1",

	FX_2_0: "fx_2_0",
	FX_4_0: "fx_4_0",
	FX_4_1: "fx_4_1",
	FX_5_0: "fx_5_0",
}

func init() {
	com.Register[*Blob]("ID3DBlob")
}

func (*Blob) IID() com.GUID { return IID_ID3DBlob }

// String returns the profile name passed to the compiler.
func (t Target) String() string {
	if t > 0 && int(t) < len(targetNames) {
		return targetNames[t]
	}
	return fmt.Sprintf("Target(%d)", uint8(t))
}

// Valid reports whether t is a known profile.
func (t Target) Valid() bool {
	return t > 0 && int(t) < len(targetNames)
}

// Effect reports whether t is an effect profile, which takes no entry
// point.
func (t Target) Effect() bool {
	return strings.HasPrefix(t.String(), "fx_")
}

// Stage returns the two letter shader stage of t, such as "vs".
func (t Target) Stage() string {
	return t.String()[:2]
}

// ParseTarget looks up a profile by name, ignoring case.
func ParseTarget(name string) (Target, error) {
	for i, n := range targetNames {
		if n != "" && strings.EqualFold(n, name) {
			return Target(i), nil
		}
	}
	return 0, fmt.Errorf("d3dcompile: unknown target %q", name)
}

// Enabled reports whether includes are resolved.
func (i Include) Enabled() bool {
	return i.magic != 0
}

func (e *CompileError) Error() string {
	msg := strings.TrimSpace(e.Diagnostics)
	if msg == "" {
		return fmt.Sprintf("D3DCompile: %#x", uint32(e.Code))
	}
	return fmt.Sprintf("D3DCompile: %#x: %s", uint32(e.Code), msg)
}

// Unwrap classifies the status of a failed compilation.
func (e *CompileError) Unwrap() error {
	return com.ErrorCode{Name: "D3DCompile", Code: e.Code}
}

func (o *Options) validate() error {
	if !o.Target.Valid() {
		return fmt.Errorf("d3dcompile: invalid target %v", o.Target)
	}
	if !o.Target.Effect() && o.EntryPoint == "" {
		return fmt.Errorf("d3dcompile: target %v requires an entry point", o.Target)
	}
	for _, d := range o.Defines {
		if d.Name == "" {
			return fmt.Errorf("d3dcompile: define without a name")
		}
		if strings.IndexByte(d.Name, 0) != -1 || strings.IndexByte(d.Definition, 0) != -1 {
			return fmt.Errorf("d3dcompile: define %q contains NUL", d.Name)
		}
	}
	return nil
}
