// Package shell puts the zpm bin directory on the user's PATH.
//
// Two pieces cooperate. EnvScript renders the PATH snippet that
// `zpm env <shell>` prints, and the rc file helpers append a single line
// that evaluates it at shell startup:
//
//	eval "$(zpm env bash)"      # ~/.bashrc
//	eval "$(zpm env zsh)"       # ~/.zshrc
//	zpm env fish | source       # ~/.config/fish/config.fish
//
// # Shell Detection
//
// DetectShell tries $SHELL first and falls back to the name of the parent
// process, read with gopsutil.
//
// # RC File Management
//
// Edits are idempotent (an existing "zpm env" line is left alone),
// optionally backed up, and written through a temp file and rename.
package shell
