package config

import (
	lua "github.com/yuin/gopher-lua"
)

// sandboxLuaVM strips every global that reaches outside the VM: the os,
// io and debug libraries and all module loading. string, table, math and
// the basic functions stay available.
func sandboxLuaVM(L *lua.LState) {
	for _, name := range []string{
		"os",
		"io",
		"debug",
		"require",
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"module",
		"package",
	} {
		L.SetGlobal(name, lua.LNil)
	}
}

// newSandboxedVM creates a new Lua VM with sandboxing applied.
func newSandboxedVM() *lua.LState {
	L := lua.NewState()
	sandboxLuaVM(L)
	return L
}
