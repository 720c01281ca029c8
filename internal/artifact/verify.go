package artifact

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
	"github.com/jedisct1/go-minisign"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
)

// ZigMinisignKey is the public key Zig release tarballs are signed with.
const ZigMinisignKey = "RWSGOq2NVecA2UPNdBUZykf1CCb147pkmdtYxgb3Ti+JO/wCYvhbAb/U"

// Signature file suffixes, appended to the archive URL.
const (
	SuffixMinisign = ".minisig"
	SuffixGPG      = ".asc"
)

// VerifierOptions configures the optional signature checks.
type VerifierOptions struct {
	// VerifySignature enables a signature check after the checksum.
	VerifySignature bool
	// MinisignKey is a base64 minisign public key. Empty selects ZigMinisignKey.
	MinisignKey string
	// KeyringPath points at an OpenPGP keyring. When set, .asc signatures
	// are used instead of minisign.
	KeyringPath string
}

// Verifier checks downloaded archives.
type Verifier struct {
	opts VerifierOptions
}

// NewVerifier creates a new verifier
func NewVerifier(opts VerifierOptions) *Verifier {
	if opts.MinisignKey == "" {
		opts.MinisignKey = ZigMinisignKey
	}
	return &Verifier{opts: opts}
}

// SignatureSuffix returns the suffix of the signature file the verifier
// expects next to each archive, or "" when signatures are not checked.
func (v *Verifier) SignatureSuffix() string {
	switch {
	case !v.opts.VerifySignature:
		return ""
	case v.opts.KeyringPath != "":
		return SuffixGPG
	default:
		return SuffixMinisign
	}
}

// Verify checks archivePath against the expected hex sha256 and, when
// signaturePath is non-empty, against its signature. Every failure is
// reported as ErrChecksumMismatch.
func (v *Verifier) Verify(archivePath, expectedSHA256, signaturePath string) (*VerificationResult, error) {
	result := &VerificationResult{}

	if err := VerifySHA256(archivePath, expectedSHA256); err != nil {
		return result, err
	}
	result.Methods = append(result.Methods, VerificationSHA256)

	if signaturePath == "" {
		return result, nil
	}

	var (
		method VerificationMethod
		err    error
	)
	if strings.HasSuffix(signaturePath, SuffixGPG) {
		method, err = VerificationGPG, v.verifyGPG(archivePath, signaturePath)
	} else {
		method, err = VerificationMinisign, v.verifyMinisign(archivePath, signaturePath)
	}
	if err != nil {
		return result, zpmerrors.Wrap(zpmerrors.ErrChecksumMismatch, err, "%s signature of %s", method, archivePath)
	}
	result.Methods = append(result.Methods, method)

	return result, nil
}

// VerifySHA256 compares the sha256 of path with expected, ignoring hex case.
func VerifySHA256(path, expected string) error {
	actual, err := calculateSHA256(path)
	if err != nil {
		return zpmerrors.Wrap(zpmerrors.ErrChecksumMismatch, err, "hash %s", path)
	}

	if !strings.EqualFold(actual, strings.TrimSpace(expected)) {
		return zpmerrors.New(zpmerrors.ErrChecksumMismatch, "%s\nactual:   %s\nexpected: %s", path, actual, expected)
	}
	return nil
}

func (v *Verifier) verifyMinisign(archivePath, signaturePath string) error {
	pub, err := minisign.NewPublicKey(v.opts.MinisignKey)
	if err != nil {
		return fmt.Errorf("parse public key: %w", err)
	}

	sig, err := minisign.NewSignatureFromFile(signaturePath)
	if err != nil {
		return fmt.Errorf("read signature: %w", err)
	}

	ok, err := pub.VerifyFromFile(archivePath, sig)
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	if !ok {
		return fmt.Errorf("verify signature: rejected")
	}
	return nil
}

func (v *Verifier) verifyGPG(archivePath, signaturePath string) error {
	keyring, err := loadKeyring(v.opts.KeyringPath)
	if err != nil {
		return err
	}

	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	sigFile, err := os.Open(signaturePath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sigFile.Close()

	// Armored first, then binary.
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, archiveFile, sigFile, nil)
	if err != nil {
		archiveFile.Seek(0, io.SeekStart)
		sigFile.Seek(0, io.SeekStart)
		_, err = openpgp.CheckDetachedSignature(keyring, archiveFile, sigFile, nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}

func loadKeyring(path string) (openpgp.EntityList, error) {
	if path == "" {
		return nil, fmt.Errorf("no keyring configured")
	}

	keyringFile, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		keyringFile.Seek(0, io.SeekStart)
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}
	return keyring, nil
}

func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
