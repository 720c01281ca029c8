package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fatih/color"
	"github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"github.com/ZebulonRouseFrantzich/zpm/internal/artifact"
	"github.com/ZebulonRouseFrantzich/zpm/internal/catalog"
	"github.com/ZebulonRouseFrantzich/zpm/internal/config"
	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
	"github.com/ZebulonRouseFrantzich/zpm/internal/logging"
	"github.com/ZebulonRouseFrantzich/zpm/internal/platform"
	"github.com/ZebulonRouseFrantzich/zpm/internal/toolchain"
	"github.com/ZebulonRouseFrantzich/zpm/internal/transaction"
)

// Viper keys. With the ZPM prefix and the "-" to "_" replacer each one is
// also read from ZPM_<KEY>.
const (
	keyConfig          = "config"
	keyRoot            = "root"
	keyBinDir          = "bin-dir"
	keyIndexURL        = "index-url"
	keyZLSReleaseURL   = "zls-release-url"
	keyTimeout         = "timeout"
	keyVerifySignature = "verify-signature"
	keyDebug           = "debug"
)

// app holds the state shared by every command of one invocation.
type app struct {
	stdout io.Writer
	stderr io.Writer
	// progress receives download byte counters; nil disables them.
	progress io.Writer

	v         *viper.Viper
	verbosity int
	quiet     bool
	// started is set once argument parsing succeeded; errors before
	// that are usage errors.
	started bool

	// detector is replaced in tests.
	detector platform.Detector

	home       string
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
}

func newApp(stdout, stderr io.Writer) *app {
	v := viper.New()
	v.SetEnvPrefix("ZPM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &app{
		stdout:   stdout,
		stderr:   stderr,
		v:        v,
		detector: platform.NewDetector(),
		logger:   logging.NewDiscard(),
	}
}

// run executes args and returns the process exit code.
func (a *app) run(ctx context.Context, args []string) int {
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.ExecuteContext(ctx)
	if err == nil {
		return zpmerrors.ExitSuccess
	}

	var exitErr *zpmerrors.ExitError
	if !a.started && !errors.As(err, &exitErr) {
		err = zpmerrors.NewUserError(err, "Run: zpm --help")
	}
	a.printError(err)
	return zpmerrors.ExitCode(err)
}

func (a *app) printError(err error) {
	color.New(color.FgRed, color.Bold).Fprint(a.stderr, "Error: ")

	var parseErr *config.ParseError
	if errors.As(err, &parseErr) {
		fmt.Fprintf(a.stderr, "%s: %s\n", a.configPath, config.FormatError(parseErr, a.verbosity > 1))
	} else {
		fmt.Fprintln(a.stderr, err)
	}

	if hint := zpmerrors.Suggestion(err); hint != "" {
		color.New(color.FgYellow).Fprintln(a.stderr, hint)
	}
}

// setupLogging builds the stderr logger from -v, -q and ZPM_DEBUG.
func (a *app) setupLogging() error {
	if a.quiet && a.verbosity > 0 {
		return zpmerrors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	v := a.verbosity
	if v == 0 {
		switch a.v.GetString(keyDebug) {
		case "1", "true":
			v = 2
		}
	}

	level := logging.LevelFromVerbosity(v)
	if a.quiet {
		level = slog.LevelError
	}
	a.logger = logging.New(a.stderr, level)
	return nil
}

// resolvePaths locates the home directory and the config file.
func (a *app) resolvePaths() error {
	home, err := homedir.Dir()
	if err != nil {
		return errors.Wrap(err, "locate home directory")
	}
	a.home = home

	a.configPath = config.DefaultPath()
	if p := a.v.GetString(keyConfig); p != "" {
		if a.configPath, err = homedir.Expand(p); err != nil {
			return errors.Wrapf(err, "expand %s", p)
		}
	}
	return nil
}

// loadConfig resolves the effective configuration: built-in defaults,
// then the Lua file, then ZPM_* variables and flags.
func (a *app) loadConfig(ctx context.Context) error {
	if err := a.resolvePaths(); err != nil {
		return err
	}

	parser := config.NewParser(a.detector)
	cfg, err := parser.Load(ctx, a.configPath, config.Defaults(a.home))
	if err != nil {
		return zpmerrors.NewUserError(err, "Fix the config file or run: zpm config init --force")
	}
	return a.finishConfig(cfg)
}

// defaultConfig is loadConfig without the Lua file.
func (a *app) defaultConfig() error {
	if err := a.resolvePaths(); err != nil {
		return err
	}
	return a.finishConfig(config.Defaults(a.home))
}

func (a *app) finishConfig(cfg *config.Config) error {
	if err := a.applyOverrides(cfg); err != nil {
		return err
	}
	if err := cfg.ExpandPaths(); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return zpmerrors.NewUserError(err, "")
	}

	a.cfg = cfg
	a.logger.Debug("loaded config", "path", a.configPath, "root", cfg.Root, "bin_dir", cfg.BinDir)
	return nil
}

func (a *app) applyOverrides(cfg *config.Config) error {
	for key, field := range map[string]*string{
		keyRoot:          &cfg.Root,
		keyBinDir:        &cfg.BinDir,
		keyIndexURL:      &cfg.IndexURL,
		keyZLSReleaseURL: &cfg.ZLSReleaseURL,
	} {
		if s := a.v.GetString(key); s != "" {
			*field = s
		}
	}

	if s := a.v.GetString(keyTimeout); s != "" {
		secs := a.v.GetFloat64(keyTimeout)
		if secs <= 0 {
			return zpmerrors.NewUserError(errors.Newf("invalid ZPM_TIMEOUT %q", s), "Set a positive number of seconds")
		}
		cfg.Timeout = time.Duration(secs * float64(time.Second))
	}
	if a.v.GetString(keyVerifySignature) != "" {
		cfg.VerifySignature = a.v.GetBool(keyVerifySignature)
	}
	return nil
}

// manager wires the toolchain manager to the HTTP catalog and downloader.
func (a *app) manager() (*toolchain.Manager, error) {
	cfg := a.cfg

	client := catalog.NewClient(catalog.ClientOptions{
		IndexURL:     cfg.IndexURL,
		CompanionURL: cfg.ZLSReleaseURL,
		Timeout:      cfg.Timeout,
		Logger:       a.logger,
	})

	downloader := artifact.NewDownloader(cfg.Timeout)
	downloader.SetProgress(a.progress)

	verifier := artifact.NewVerifier(artifact.VerifierOptions{
		VerifySignature: cfg.VerifySignature,
		MinisignKey:     cfg.MinisignKey,
		KeyringPath:     cfg.Keyring,
	})

	return toolchain.NewManager(toolchain.Options{
		Layout:   cfg.Layout(),
		Catalog:  client,
		Fetcher:  downloader,
		Verifier: verifier,
		Detector: a.detector,
		Logger:   a.logger,
	})
}

// withLock runs fn while holding the install lock on behalf of op.
func (a *app) withLock(ctx context.Context, op string, fn func(m *toolchain.Manager) error) error {
	m, err := a.manager()
	if err != nil {
		return err
	}

	lock, err := transaction.AcquireLock(ctx, m.Layout().LockFile(), op)
	if err != nil {
		return err
	}
	defer lock.Release()

	return fn(m)
}

// pathHint prints a reminder when the bin directory is not on PATH.
func (a *app) pathHint() {
	binDir := a.cfg.BinDir
	for _, dir := range strings.Split(os.Getenv("PATH"), string(os.PathListSeparator)) {
		if dir == binDir {
			return
		}
	}
	color.New(color.FgYellow).Fprintf(a.stdout, "%s is not on your PATH. Run: zpm setup-shell\n", binDir)
}
