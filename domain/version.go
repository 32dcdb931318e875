package domain

import (
	"strconv"
	"strings"
)

const versionFieldCount = 3 // major, minor, patch

// versionSeparators split a version string into its numeric fields.
func versionSeparators(r rune) bool {
	return r == '.' || r == '-' || r == '+'
}

// versionTriple is the (major, minor, patch) ordering key for a version string.
type versionTriple [versionFieldCount]uint64

// parseTriple extracts the first three numeric fields of a version string.
// Fields are delimited by '.', '-', or '+'; a missing or non-numeric field
// coerces to 0. Anything past the third field (pre-release tags, build
// metadata) is ignored.
func parseTriple(version string) versionTriple {
	var triple versionTriple

	fields := strings.FieldsFunc(version, versionSeparators)
	for i := 0; i < versionFieldCount && i < len(fields); i++ {
		n, err := strconv.ParseUint(fields[i], 10, 64)
		if err != nil {
			continue // non-numeric field stays 0
		}
		triple[i] = n
	}

	return triple
}

// less reports whether a orders strictly before b.
func (t versionTriple) less(other versionTriple) bool {
	for i := range t {
		if t[i] != other[i] {
			return t[i] < other[i]
		}
	}
	return false
}

// NeedsUpdate reports whether latest is strictly newer than current.
//
// The ordering is a lexicographic comparison of the first three numeric
// fields only. This is a deliberate simplification of semantic versioning:
// "0.3.0-alpha" and "0.3.0" compare equal, so a pre-release never triggers
// (or blocks) an update on its own. Do not replace this with a full semver
// comparison without treating it as a behavior change.
func NeedsUpdate(current, latest string) bool {
	return parseTriple(current).less(parseTriple(latest))
}
