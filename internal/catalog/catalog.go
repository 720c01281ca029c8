// Package catalog models the Zig release index and resolves version
// tokens against it.
//
// The index is a JSON object keyed by version ("master", "0.13.0", ...).
// Each entry mixes metadata strings with one object per downloadable
// build, keyed "{arch}-{os}":
//
//	"0.13.0": {
//	  "date": "2024-06-07",
//	  "docs": "https://ziglang.org/documentation/0.13.0/",
//	  "x86_64-linux": {"tarball": "...", "shasum": "...", "size": "47082308"}
//	}
//
// A catalog is fetched fresh for every command and never written to disk.
package catalog

import (
	"encoding/json"
	"slices"
	"strconv"
	"strings"

	zpmerrors "github.com/ZebulonRouseFrantzich/zpm/internal/errors"
	"github.com/ZebulonRouseFrantzich/zpm/internal/version"
)

// Catalog maps a version key to its release entry.
type Catalog map[string]Entry

// Entry describes one release.
type Entry struct {
	// Version is the dev build string; set only for master.
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Date    string `json:"date,omitempty" yaml:"date,omitempty"`
	Docs    string `json:"docs,omitempty" yaml:"docs,omitempty"`
	StdDocs string `json:"stdDocs,omitempty" yaml:"std_docs,omitempty"`
	Notes   string `json:"notes,omitempty" yaml:"notes,omitempty"`
	// Platforms maps a platform key such as "x86_64-linux" to its build.
	Platforms map[string]Artifact `json:"platforms,omitempty" yaml:"platforms,omitempty"`
}

// Artifact is a downloadable archive for one platform.
type Artifact struct {
	Tarball string `json:"tarball" yaml:"tarball"`
	Shasum  string `json:"shasum" yaml:"shasum"`
	Size    int64  `json:"size" yaml:"size"`
}

// Keys holding archives that are not host builds.
var nonPlatformKeys = map[string]bool{
	"src":       true,
	"bootstrap": true,
}

// UnmarshalJSON decodes the index's flat entry shape. Any key whose value
// is an object carrying both tarball and shasum is taken as a platform.
func (e *Entry) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	*e = Entry{Platforms: make(map[string]Artifact)}
	for key, value := range raw {
		switch key {
		case "version":
			e.Version = metadataString(value)
		case "date":
			e.Date = metadataString(value)
		case "docs":
			e.Docs = metadataString(value)
		case "stdDocs":
			e.StdDocs = metadataString(value)
		case "notes":
			e.Notes = metadataString(value)
		default:
			if nonPlatformKeys[key] {
				continue
			}
			if a, ok := decodeArtifact(value); ok {
				e.Platforms[key] = a
			}
		}
	}
	return nil
}

// metadataString decodes a descriptive string field. A value of any other
// JSON type is ignored and yields "", so odd metadata never rejects the
// entry's platform builds.
func metadataString(value json.RawMessage) string {
	var s string
	if err := json.Unmarshal(value, &s); err != nil {
		return ""
	}
	return s
}

func decodeArtifact(value json.RawMessage) (Artifact, bool) {
	var wire struct {
		Tarball string          `json:"tarball"`
		Shasum  string          `json:"shasum"`
		Size    json.RawMessage `json:"size"`
	}
	if err := json.Unmarshal(value, &wire); err != nil {
		return Artifact{}, false
	}
	if wire.Tarball == "" || wire.Shasum == "" {
		return Artifact{}, false
	}
	return Artifact{Tarball: wire.Tarball, Shasum: wire.Shasum, Size: parseSize(wire.Size)}, true
}

// parseSize accepts the size as either a JSON string or number.
func parseSize(raw json.RawMessage) int64 {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// DisplayVersion returns the dev build string for master entries and key
// otherwise.
func (e Entry) DisplayVersion(key string) string {
	if key == version.Master && e.Version != "" {
		return e.Version
	}
	return key
}

// Resolve maps a version token to a concrete catalog key and its entry.
//
// "latest" and "master" select the master entry. "stable" selects the
// newest non-master key by version.Compare, falling back to master when
// there is none. Anything else must be present verbatim.
func Resolve(c Catalog, token string) (string, Entry, error) {
	switch token {
	case version.Latest, version.Master:
		return lookup(c, version.Master, token)
	case version.Stable:
		if newest, ok := newestRelease(c); ok {
			return newest, c[newest], nil
		}
		return lookup(c, version.Master, token)
	default:
		return lookup(c, token, token)
	}
}

func lookup(c Catalog, key, token string) (string, Entry, error) {
	entry, ok := c[key]
	if !ok {
		return "", Entry{}, zpmerrors.New(zpmerrors.ErrNotFound, "%q", token)
	}
	return key, entry, nil
}

func newestRelease(c Catalog) (string, bool) {
	var releases []string
	for key := range c {
		if key != version.Master {
			releases = append(releases, key)
		}
	}
	if len(releases) == 0 {
		return "", false
	}
	slices.Sort(releases)
	version.Sort(releases)
	return releases[0], true
}

// Versions returns every catalog key ordered by version.Compare. Keys the
// comparator ties on keep lexical order.
func (c Catalog) Versions() []string {
	keys := make([]string, 0, len(c))
	for key := range c {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	version.Sort(keys)
	return keys
}
