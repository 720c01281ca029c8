package config

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Generator renders a Config as a Lua config file.
type Generator struct {
	indent string
	home   string
}

// NewGenerator creates a generator. Paths under home are written with a
// leading "~" so the file stays portable.
func NewGenerator(home string) *Generator {
	return &Generator{indent: "  ", home: home}
}

// Generate returns Lua source that parses back to cfg.
func (g *Generator) Generate(cfg *Config) string {
	var buf bytes.Buffer

	buf.WriteString("-- zpm configuration\n")
	buf.WriteString("-- The read-only `platform` table (os, arch, key, is_linux, is_macos, ...)\n")
	buf.WriteString("-- is available for host-specific values.\n\n")
	buf.WriteString(luaGlobalZpm + " = {\n")

	g.writeComment(&buf, "install root: versions/, cache/ and the current marker")
	g.writeString(&buf, luaFieldRoot, g.tilde(cfg.Root))
	g.writeComment(&buf, "directory for the zig and zls symlinks; add it to PATH")
	g.writeString(&buf, luaFieldBinDir, g.tilde(cfg.BinDir))
	buf.WriteString("\n")
	g.writeString(&buf, luaFieldIndexURL, cfg.IndexURL)
	g.writeString(&buf, luaFieldZLSReleaseURL, cfg.ZLSReleaseURL)
	g.writeComment(&buf, "HTTP timeout in seconds")
	buf.WriteString(fmt.Sprintf("%s%s = %s,\n", g.indent, luaFieldTimeout,
		strconv.FormatFloat(cfg.Timeout.Seconds(), 'f', -1, 64)))
	buf.WriteString("\n")
	g.writeComment(&buf, "check the .minisig (or .asc with a keyring) next to each archive")
	buf.WriteString(fmt.Sprintf("%s%s = %t,\n", g.indent, luaFieldVerify, cfg.VerifySignature))
	g.writeString(&buf, luaFieldMinisignKey, cfg.MinisignKey)
	if cfg.Keyring != "" {
		g.writeString(&buf, luaFieldKeyring, g.tilde(cfg.Keyring))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func (g *Generator) writeComment(buf *bytes.Buffer, text string) {
	buf.WriteString(g.indent + "-- " + text + "\n")
}

func (g *Generator) writeString(buf *bytes.Buffer, field, value string) {
	buf.WriteString(fmt.Sprintf("%s%s = %q,\n", g.indent, field, value))
}

func (g *Generator) tilde(path string) string {
	if g.home == "" {
		return path
	}
	if path == g.home {
		return "~"
	}
	if rest, ok := strings.CutPrefix(path, g.home+"/"); ok {
		return "~/" + rest
	}
	return path
}
