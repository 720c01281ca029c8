package artifact

// VerificationMethod indicates how an archive was verified.
type VerificationMethod int

const (
	// VerificationNone indicates no verification (should never happen in production)
	VerificationNone VerificationMethod = iota
	// VerificationSHA256 indicates the published sha256 matched
	VerificationSHA256
	// VerificationMinisign indicates a minisign signature was verified
	VerificationMinisign
	// VerificationGPG indicates an OpenPGP detached signature was verified
	VerificationGPG
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationSHA256:
		return "sha256"
	case VerificationMinisign:
		return "minisign"
	case VerificationGPG:
		return "gpg"
	case VerificationNone:
		return "none"
	default:
		return "unknown"
	}
}

// VerificationResult lists every check an archive passed, in order.
type VerificationResult struct {
	Methods []VerificationMethod
}

// Has reports whether m is among the passed checks.
func (r *VerificationResult) Has(m VerificationMethod) bool {
	for _, got := range r.Methods {
		if got == m {
			return true
		}
	}
	return false
}

// Archive extensions understood by ArchiveExtractor.
const (
	ExtTarXz = ".tar.xz"
	ExtTarGz = ".tar.gz"
	ExtTgz   = ".tgz"
	ExtZip   = ".zip"
)
