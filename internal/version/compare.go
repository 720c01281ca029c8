// Package version orders Zig version tokens.
//
// The ordering is "newest first" under an ascending sort:
// Compare returns -1 when a is the newer release. The synthetic "master"
// token is greater than everything else, and when two versions agree on
// every shared component the one with fewer components is greater, so
// "1.2" > "1.2.0".
package version

import (
	"slices"
	"strconv"
	"strings"
)

// Reserved version aliases.
const (
	Latest = "latest"
	Master = "master"
	Stable = "stable"
)

// IsAlias reports whether token is one of the reserved aliases.
func IsAlias(token string) bool {
	switch token {
	case Latest, Master, Stable:
		return true
	default:
		return false
	}
}

// Compare returns -1, 0 or +1 ordering a relative to b.
func Compare(a, b string) int {
	aMaster, bMaster := a == Master, b == Master
	switch {
	case aMaster && bMaster:
		return 0
	case aMaster:
		return 1
	case bMaster:
		return -1
	}

	aParts := strings.Split(a, ".")
	bParts := strings.Split(b, ".")

	for i := 0; i < len(aParts) && i < len(bParts); i++ {
		an, bn := component(aParts[i]), component(bParts[i])
		if an != bn {
			// Inverted: larger numbers sort first.
			if bn > an {
				return 1
			}
			return -1
		}
	}

	switch {
	case len(bParts) > len(aParts):
		return 1
	case len(bParts) < len(aParts):
		return -1
	default:
		return 0
	}
}

// Sort orders tokens in place using Compare.
func Sort(tokens []string) {
	slices.SortStableFunc(tokens, Compare)
}

// component parses a dotted component as an unsigned integer; anything
// unparsable counts as zero.
func component(s string) uint64 {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0
	}
	return n
}
