package shell

import (
	"fmt"
	"strings"
)

// ActivationCommand returns the rc file line that loads zpm's PATH setup.
func ActivationCommand(shell ShellType) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	switch shell {
	case ShellFish:
		return fmt.Sprintf("zpm env %s | source", shell), nil
	default:
		return fmt.Sprintf(`eval "$(zpm env %s)"`, shell), nil
	}
}

// EnvScript returns shell code that prepends binDir to PATH unless it is
// already there.
func EnvScript(shell ShellType, binDir string) (string, error) {
	if err := ValidateShell(shell); err != nil {
		return "", err
	}

	switch shell {
	case ShellFish:
		return fmt.Sprintf("fish_add_path --global --move %s\n", quoteFish(binDir)), nil
	default:
		q := quotePOSIX(binDir)
		return fmt.Sprintf("case \":${PATH}:\" in\n  *:%s:*) ;;\n  *) export PATH=%s\"${PATH:+:${PATH}}\" ;;\nesac\n", q, q), nil
	}
}

// quotePOSIX single-quotes s for sh, bash and zsh.
func quotePOSIX(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

// quoteFish single-quotes s for fish, where only \ and ' need escaping.
func quoteFish(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `'`, `\'`)
	return "'" + s + "'"
}
