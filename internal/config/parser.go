package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/ZebulonRouseFrantzich/zpm/internal/platform"
)

// Parser evaluates Lua config files with platform detection.
type Parser struct {
	detector platform.Detector
}

// NewParser creates a new config parser with the given platform detector.
// A nil detector leaves the platform table undefined.
func NewParser(detector platform.Detector) *Parser {
	return &Parser{detector: detector}
}

// Load reads the config file at path on top of base. A missing file
// returns base unchanged. The result has "~" expanded and is validated.
func (p *Parser) Load(ctx context.Context, path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		cfg := *base
		if err := finalize(&cfg); err != nil {
			return nil, err
		}
		return &cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	cfg, err := p.ParseString(ctx, string(data), base)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// ParseString evaluates luaCode and overlays the zpm table onto base.
func (p *Parser) ParseString(ctx context.Context, luaCode string, base *Config) (*Config, error) {
	L := newSandboxedVM()
	defer L.Close()
	L.SetContext(ctx)

	if p.detector != nil {
		info, err := p.detector.Detect(ctx)
		if err != nil {
			return nil, fmt.Errorf("platform detection failed: %w", err)
		}
		if err := platform.InjectPlatformTable(L, info); err != nil {
			return nil, fmt.Errorf("inject platform table: %w", err)
		}
	}

	if err := L.DoString(luaCode); err != nil {
		return nil, &ParseError{
			Message: "Lua error",
			Detail:  err.Error(),
		}
	}

	cfg := *base
	if err := extractConfig(L, &cfg); err != nil {
		return nil, err
	}
	if err := finalize(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func finalize(cfg *Config) error {
	if err := cfg.ExpandPaths(); err != nil {
		return err
	}
	return cfg.Validate()
}

// ParseError represents a config parsing error with friendly message.
type ParseError struct {
	Message string // User-friendly message
	Detail  string // Technical details (raw Lua error)
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Detail)
}

// extractConfig copies the fields present in the global zpm table into cfg.
func extractConfig(L *lua.LState, cfg *Config) error {
	zpmTable := L.GetGlobal(luaGlobalZpm)
	if zpmTable.Type() != lua.LTTable {
		return &ParseError{
			Message: "missing or invalid 'zpm' table",
			Detail:  fmt.Sprintf("expected table, got %s", zpmTable.Type()),
		}
	}
	table := zpmTable.(*lua.LTable)

	strFields := map[string]*string{
		luaFieldRoot:          &cfg.Root,
		luaFieldBinDir:        &cfg.BinDir,
		luaFieldIndexURL:      &cfg.IndexURL,
		luaFieldZLSReleaseURL: &cfg.ZLSReleaseURL,
		luaFieldMinisignKey:   &cfg.MinisignKey,
		luaFieldKeyring:       &cfg.Keyring,
	}
	for name, dst := range strFields {
		v := table.RawGetString(name)
		switch v.Type() {
		case lua.LTNil:
		case lua.LTString:
			*dst = v.String()
		default:
			return typeError(name, "string", v)
		}
	}

	switch v := table.RawGetString(luaFieldTimeout); v.Type() {
	case lua.LTNil:
	case lua.LTNumber:
		cfg.Timeout = time.Duration(float64(lua.LVAsNumber(v)) * float64(time.Second))
	default:
		return typeError(luaFieldTimeout, "number of seconds", v)
	}

	switch v := table.RawGetString(luaFieldVerify); v.Type() {
	case lua.LTNil:
	case lua.LTBool:
		cfg.VerifySignature = lua.LVAsBool(v)
	default:
		return typeError(luaFieldVerify, "boolean", v)
	}

	return nil
}

func typeError(field, want string, got lua.LValue) error {
	return &ParseError{
		Message: fmt.Sprintf("invalid value for zpm.%s", field),
		Detail:  fmt.Sprintf("expected %s, got %s", want, got.Type()),
	}
}

// FormatError formats a ParseError for user display.
// In verbose mode, show the raw Lua error. Otherwise, show friendly message.
func FormatError(err error, verbose bool) string {
	var parseErr *ParseError
	if errors.As(err, &parseErr) {
		if verbose {
			return fmt.Sprintf("%s\n\nDetails:\n%s", parseErr.Message, parseErr.Detail)
		}
		detail := parseErr.Detail
		if idx := strings.Index(detail, "stack traceback"); idx > 0 {
			detail = strings.TrimSpace(detail[:idx])
		}
		return fmt.Sprintf("%s: %s", parseErr.Message, detail)
	}
	return err.Error()
}
