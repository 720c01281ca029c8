package shell

const (
	// ActivationMarker identifies the zpm line in an rc file.
	ActivationMarker = "zpm env"

	// BackupSuffix is appended to an rc file path for its backup copy.
	BackupSuffix = ".zpm-backup"

	sectionComment = "# zpm - Zig version manager"
)
