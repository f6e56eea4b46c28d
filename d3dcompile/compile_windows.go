// SPDX-License-Identifier: Unlicense OR MIT

package d3dcompile

import (
	"fmt"
	"runtime"
	"syscall"
	"unsafe"

	"golang.org/x/sys/windows"

	"d3dcom.org/com"
	gunsafe "d3dcom.org/internal/unsafe"
)

var (
	d3dcompiler_47 = windows.NewLazySystemDLL("d3dcompiler_47.dll")

	__D3DCompile         = d3dcompiler_47.NewProc("D3DCompile")
	__D3DReadFileToBlob  = d3dcompiler_47.NewProc("D3DReadFileToBlob")
	__D3DWriteBlobToFile = d3dcompiler_47.NewProc("D3DWriteBlobToFile")
)

type _D3D_SHADER_MACRO struct {
	Name       *byte
	Definition *byte
}

// Compile compiles HLSL source. On failure the error is a *CompileError
// carrying the compiler's diagnostics.
func Compile(src []byte, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(src) == 0 {
		return nil, fmt.Errorf("d3dcompile: %w", com.ErrorCode{Name: "D3DCompile", Code: com.E_INVALIDARG})
	}
	if err := __D3DCompile.Find(); err != nil {
		return nil, fmt.Errorf("d3dcompile: %w: %v", com.ErrUnsupported, err)
	}
	var (
		code   *Blob
		errors *Blob
	)
	sourceName := cstr(opts.SourceName)
	entryPoint := cstr(opts.EntryPoint)
	if opts.Target.Effect() {
		entryPoint = nil
	}
	target := cstr(opts.Target.String())
	defines := shaderMacros(opts.Defines)
	r, _, _ := __D3DCompile.Call(
		uintptr(unsafe.Pointer(&src[0])),
		uintptr(len(src)),
		uintptr(gunsafe.Ptr(sourceName)), // pSourceName
		uintptr(gunsafe.Ptr(defines)),    // pDefines
		opts.Include.magic,               // pInclude
		uintptr(gunsafe.Ptr(entryPoint)),
		uintptr(gunsafe.Ptr(target)),
		uintptr(opts.Flags1),
		uintptr(opts.Flags2),
		uintptr(unsafe.Pointer(&code)),
		uintptr(unsafe.Pointer(&errors)),
	)
	runtime.KeepAlive(src)
	runtime.KeepAlive(sourceName)
	runtime.KeepAlive(defines)
	runtime.KeepAlive(entryPoint)
	runtime.KeepAlive(target)
	shader, diag := com.Own(code), com.Own(errors)
	var diagnostics string
	if diag != nil {
		diagnostics = gunsafe.GoString(diag.Raw().Bytes())
		diag.Release()
	}
	if hr := com.HRESULT(r); hr.Failed() {
		shader.Release()
		return nil, &CompileError{Code: hr, Diagnostics: diagnostics}
	}
	if shader == nil {
		return nil, &CompileError{Code: com.E_POINTER, Diagnostics: diagnostics}
	}
	return &Result{Shader: shader, Warnings: diagnostics}, nil
}

// Bytes returns the contents of the blob. The slice aliases the blob's
// memory and is valid until the blob is released.
func (b *Blob) Bytes() []byte {
	vtbl := (*_ID3DBlobVtbl)(b.Vtbl())
	ptr, _, _ := syscall.SyscallN(vtbl.GetBufferPointer, uintptr(unsafe.Pointer(b)))
	sz, _, _ := syscall.SyscallN(vtbl.GetBufferSize, uintptr(unsafe.Pointer(b)))
	data := gunsafe.SliceOf(*(*unsafe.Pointer)(unsafe.Pointer(&ptr)), int(sz))
	return data[:len(data):len(data)]
}

// ReadFileToBlob reads a file into a new blob.
func ReadFileToBlob(path string) (*com.Handle[*Blob], error) {
	if err := __D3DReadFileToBlob.Find(); err != nil {
		return nil, fmt.Errorf("d3dcompile: %w: %v", com.ErrUnsupported, err)
	}
	wpath, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, err
	}
	var blob *Blob
	r, _, _ := __D3DReadFileToBlob.Call(
		uintptr(unsafe.Pointer(wpath)),
		uintptr(unsafe.Pointer(&blob)),
	)
	if err := com.Check("D3DReadFileToBlob", com.HRESULT(r)); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	h := com.Own(blob)
	if h == nil {
		return nil, com.ErrorCode{Name: "D3DReadFileToBlob", Code: com.E_POINTER}
	}
	return h, nil
}

// WriteFile writes the contents of the blob to path. An existing file is
// replaced only if overwrite is set.
func (b *Blob) WriteFile(path string, overwrite bool) error {
	if err := __D3DWriteBlobToFile.Find(); err != nil {
		return fmt.Errorf("d3dcompile: %w: %v", com.ErrUnsupported, err)
	}
	wpath, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	var ow uintptr
	if overwrite {
		ow = 1
	}
	r, _, _ := __D3DWriteBlobToFile.Call(
		uintptr(unsafe.Pointer(b)),
		uintptr(unsafe.Pointer(wpath)),
		ow,
	)
	if err := com.Check("D3DWriteBlobToFile", com.HRESULT(r)); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// shaderMacros returns the NULL terminated macro array for defines, or
// nil if there are none.
func shaderMacros(defines []Define) []_D3D_SHADER_MACRO {
	if len(defines) == 0 {
		return nil
	}
	macros := make([]_D3D_SHADER_MACRO, len(defines)+1)
	for i, d := range defines {
		macros[i] = _D3D_SHADER_MACRO{
			Name:       &mustCString(d.Name)[0],
			Definition: &mustCString(d.Definition)[0],
		}
	}
	return macros
}

// cstr returns s as a NUL terminated string, or nil for the empty
// string. s must not contain NUL; Options.validate checks that.
func cstr(s string) []byte {
	if s == "" {
		return nil
	}
	return mustCString(s)
}

func mustCString(s string) []byte {
	b, err := gunsafe.CString(s)
	if err != nil {
		panic(err)
	}
	return b
}
