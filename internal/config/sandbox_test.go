package config

import (
	"strings"
	"testing"

	lua "github.com/yuin/gopher-lua"
)

func TestSandboxLuaVM(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantErr bool
		errMsg  string
	}{
		{
			name: "string operations allowed",
			code: `x = string.format("%s/%s", "~", ".zpm")`,
		},
		{
			name: "table operations allowed",
			code: `t = {"a"}; table.insert(t, "b"); x = table.concat(t, "/")`,
		},
		{
			name: "math operations allowed",
			code: `x = math.max(60, 300)`,
		},
		{
			name: "basic functions allowed",
			code: `x = tonumber("300"); y = tostring(true); z = type({})`,
		},
		{
			name:    "os.getenv blocked",
			code:    `x = os.getenv("HOME")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "os.execute blocked",
			code:    `os.execute("rm -rf ~/.zpm")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "io.open blocked",
			code:    `f = io.open("/etc/passwd")`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "require blocked",
			code:    `socket = require("socket")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "dofile blocked",
			code:    `dofile("/tmp/evil.lua")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "loadstring blocked",
			code:    `f = loadstring("return 1")`,
			wantErr: true,
			errMsg:  "attempt to call",
		},
		{
			name:    "package blocked",
			code:    `x = package.path`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
		{
			name:    "debug blocked",
			code:    `debug.getinfo(1)`,
			wantErr: true,
			errMsg:  "attempt to index",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			L := newSandboxedVM()
			defer L.Close()

			err := L.DoString(tt.code)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DoString(%q) error = %v, wantErr %v", tt.code, err, tt.wantErr)
			}
			if tt.wantErr && tt.errMsg != "" && !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("DoString(%q) error = %v, want substring %q", tt.code, err, tt.errMsg)
			}
		})
	}
}

func TestNewSandboxedVM(t *testing.T) {
	L := newSandboxedVM()
	defer L.Close()

	for _, name := range []string{"os", "io", "debug", "require", "load"} {
		if v := L.GetGlobal(name); v.Type() != lua.LTNil {
			t.Errorf("global %s = %v, want nil", name, v.Type())
		}
	}
	for _, name := range []string{"string", "table", "math"} {
		if v := L.GetGlobal(name); v.Type() != lua.LTTable {
			t.Errorf("global %s = %v, want table", name, v.Type())
		}
	}
}
