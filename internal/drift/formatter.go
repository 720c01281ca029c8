package drift

import (
	"fmt"
	"strings"
)

const rule = "━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n"

// FormatReport formats results for user display.
func FormatReport(results []Result) string {
	var sb strings.Builder

	sb.WriteString(rule)
	sb.WriteString("ZPM DOCTOR\n")
	sb.WriteString(rule + "\n")

	problems := 0
	for _, r := range results {
		if r.DriftType.IsProblem() {
			problems++
		}
		sb.WriteString(formatEntry(r))
		sb.WriteString("\n")
	}

	sb.WriteString(rule)
	if problems == 0 {
		sb.WriteString("SUMMARY: No drift detected ✓\n")
	} else {
		sb.WriteString(fmt.Sprintf("SUMMARY: %d problem(s) detected\n", problems))
	}
	sb.WriteString(rule)
	return sb.String()
}

func formatEntry(r Result) string {
	var sb strings.Builder

	if r.DriftType == DriftOK {
		sb.WriteString(fmt.Sprintf("[%s] ✓\n", r.Tool))
	} else {
		sb.WriteString(fmt.Sprintf("[%s] %s\n", r.Tool, r.DriftType))
	}

	if r.Selected != "" {
		sb.WriteString(fmt.Sprintf("  Selected: %s\n", r.Selected))
	}
	if r.LinkTarget != "" {
		sb.WriteString(fmt.Sprintf("  Link:     %s -> %s\n", r.LinkPath, r.LinkTarget))
	}
	if r.ActivePath != "" {
		active := r.ActivePath
		if r.ActiveVersion != "" {
			active += " (" + r.ActiveVersion + ")"
		}
		sb.WriteString(fmt.Sprintf("  Active:   %s\n", active))
	}
	if hint := hintFor(r); hint != "" {
		sb.WriteString("  Action:   " + hint + "\n")
	}
	return sb.String()
}

func hintFor(r Result) string {
	switch r.DriftType {
	case DriftNoSelection:
		return "zpm install --default"
	case DriftNotInstalled:
		return fmt.Sprintf("zpm install %s --default", r.Selected)
	case DriftLinkMissing:
		if r.Selected == "" {
			return "zpm install-zls"
		}
		return fmt.Sprintf("zpm use %s", r.Selected)
	case DriftLinkMismatch:
		if r.Selected == "" {
			return "zpm use <version>"
		}
		return fmt.Sprintf("zpm use %s", r.Selected)
	case DriftNotOnPath:
		return "zpm setup-shell"
	case DriftExternalOverride:
		return "another zig comes first on PATH; move the zpm bin directory earlier"
	case DriftVersionMismatch:
		return fmt.Sprintf("zpm uninstall %s && zpm install %s --default", r.Selected, r.Selected)
	default:
		return ""
	}
}
