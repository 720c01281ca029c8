package drift

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"time"
)

const versionTimeout = 10 * time.Second

var versionRegex = regexp.MustCompile(`\d+\.\d+\.\d+(?:-[0-9A-Za-z.+-]+)?`)

// ExtractVersion extracts the first Zig version string from command
// output, including any "-dev.N+hash" suffix.
func ExtractVersion(output string) (string, error) {
	match := versionRegex.FindString(output)
	if match == "" {
		return "", fmt.Errorf("no version found in output")
	}
	return match, nil
}

// DetectVersion runs "<binaryPath> version".
func DetectVersion(ctx context.Context, binaryPath string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionTimeout)
	defer cancel()

	output, err := exec.CommandContext(ctx, binaryPath, "version").Output()
	if err != nil {
		return "", fmt.Errorf("run %s version: %w", binaryPath, err)
	}
	return ExtractVersion(string(output))
}
