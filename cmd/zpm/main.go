// Command zpm installs and switches between Zig toolchain versions.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZebulonRouseFrantzich/zpm/internal/artifact"
)

// Version will be set at build time via -ldflags
var Version = "v0.1.0"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	a := newApp(os.Stdout, os.Stderr)
	a.progress = artifact.ProgressOutput(os.Stderr)
	code := a.run(ctx, os.Args[1:])

	stop()
	os.Exit(code)
}
