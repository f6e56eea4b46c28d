// SPDX-License-Identifier: Unlicense OR MIT

package d3dcompile

import (
	"errors"
	"strings"
	"testing"

	"d3dcom.org/com"
)

func TestTargetNames(t *testing.T) {
	for i, name := range targetNames {
		if name == "" {
			continue
		}
		tgt, err := ParseTarget(strings.ToUpper(name))
		if err != nil {
			t.Fatal(err)
		}
		if int(tgt) != i || tgt.String() != name {
			t.Errorf("ParseTarget(%q) = %v, want %s", name, tgt, name)
		}
	}
	if _, err := ParseTarget("vs_9_9"); err == nil {
		t.Error("unknown target parsed")
	}
	if got := Target(0).String(); got != "Target(0)" {
		t.Errorf("zero target prints as %q", got)
	}
}

func TestTargetKinds(t *testing.T) {
	if !FX_5_0.Effect() || VS_5_0.Effect() {
		t.Error("Effect misclassifies targets")
	}
	if got := PS_4_0_LEVEL_9_1.Stage(); got != "ps" {
		t.Errorf("stage %q, want ps", got)
	}
}

func TestStandardFileInclude(t *testing.T) {
	var none Include
	if none.Enabled() {
		t.Error("zero Include is enabled")
	}
	if !StandardFileInclude.Enabled() || StandardFileInclude.magic != 1 {
		t.Error("StandardFileInclude does not carry its marker value")
	}
}

func TestValidateOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		ok   bool
	}{
		{"vertex", Options{EntryPoint: "main", Target: VS_5_0}, true},
		{"effect without entry", Options{Target: FX_4_0}, true},
		{"no target", Options{EntryPoint: "main"}, false},
		{"no entry", Options{Target: PS_5_0}, false},
		{"unnamed define", Options{EntryPoint: "main", Target: PS_5_0, Defines: []Define{{Definition: "1"}}}, false},
		{"NUL define", Options{EntryPoint: "main", Target: PS_5_0, Defines: []Define{{Name: "A\x00B"}}}, false},
		{"empty definition", Options{EntryPoint: "main", Target: PS_5_0, Defines: []Define{{Name: "A"}}}, true},
	}
	for _, test := range tests {
		err := test.opts.validate()
		if (err == nil) != test.ok {
			t.Errorf("%s: validate() = %v", test.name, err)
		}
	}
}

func TestCompileErrorClass(t *testing.T) {
	err := error(&CompileError{Code: com.E_FAIL, Diagnostics: "shader.hlsl(3,1): error X3000: syntax error\n"})
	if !strings.Contains(err.Error(), "X3000") {
		t.Errorf("diagnostics missing from %q", err)
	}
	var code com.ErrorCode
	if !errors.As(err, &code) || code.Code != com.E_FAIL {
		t.Errorf("CompileError does not unwrap to its status: %v", err)
	}
	err = &CompileError{Code: com.E_OUTOFMEMORY}
	if !errors.Is(err, com.ErrOutOfMemory) {
		t.Errorf("%v is not classified as out of memory", err)
	}
}
