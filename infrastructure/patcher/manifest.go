// Package patcher rewrites version tokens inside managed files while leaving
// every other byte of the input untouched.
package patcher

import (
	"fmt"
	"regexp"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/rios0rios0/depsync/domain"
)

const dependenciesTable = "dependencies"

// entryShape classifies a dependency entry found in a manifest.
type entryShape int

const (
	shapeNoTable entryShape = iota // manifest has no [dependencies] table
	shapeMissing                   // table exists but the entry does not
	shapeBare                      // pkg = "1.2.3"
	shapeTableVersion              // pkg = { version = "1.2.3", ... } or [dependencies.pkg]
	shapeTablePath                 // table with a path key: a local dependency
	shapeUnknown                   // anything else (arrays, numbers, ...)
)

// ReadManifestVersion returns the declared version of pkg in a manifest.
//
// A bare string entry returns its value. A table entry with a path key is a
// local dependency and reports not-found regardless of any version field. A
// table with a version field returns it. Unparseable documents, missing
// tables, and missing entries all report not-found.
func ReadManifestVersion(manifest, pkg string) (string, bool) {
	shape, version, err := classifyEntry(manifest, pkg)
	if err != nil {
		return "", false
	}
	switch shape {
	case shapeBare, shapeTableVersion:
		return version, true
	default:
		return "", false
	}
}

// PatchManifest rewrites the version of pkg to newVersion, preserving every
// other byte of the manifest.
//
// The edit is structural: the document is parsed to classify the entry, the
// entry's line is located in a line-block model of the document, and only the
// version token on that line is replaced. Whole-document substitution is
// never performed, so comments, ordering, and unrelated entries survive
// byte-identical.
//
// Failure modes: *domain.ParseError for an unparseable document,
// *domain.NotFoundError when the table or entry is absent, *domain.ShapeError
// when the entry is not in a patchable form (including local path
// dependencies, which must never be version-patched).
func PatchManifest(manifest, pkg, newVersion string) (string, error) {
	shape, _, err := classifyEntry(manifest, pkg)
	if err != nil {
		return "", err
	}

	switch shape {
	case shapeNoTable:
		return "", &domain.NotFoundError{Package: pkg, Detail: "no [dependencies] table in manifest"}
	case shapeMissing:
		return "", &domain.NotFoundError{Package: pkg, Detail: "not present in [dependencies]"}
	case shapeTablePath:
		return "", &domain.ShapeError{Package: pkg, Got: "local path dependency"}
	case shapeUnknown:
		return "", &domain.ShapeError{Package: pkg, Got: "entry is neither a string nor a table"}
	case shapeBare, shapeTableVersion:
		// patchable below
	}

	lines := strings.Split(manifest, "\n")

	if idx, ok := findEntryLine(lines, dependenciesTable, pkg); ok {
		patched, replaceErr := replaceVersionOnLine(lines[idx], pkg, shape, newVersion)
		if replaceErr != nil {
			return "", replaceErr
		}
		lines[idx] = patched
		return strings.Join(lines, "\n"), nil
	}

	// Block table form: [dependencies.pkg] with a version key of its own.
	if shape == shapeTableVersion {
		if idx, ok := findEntryLine(lines, dependenciesTable+"."+pkg, "version"); ok {
			patched, replaceErr := replaceVersionOnLine(lines[idx], "version", shapeBare, newVersion)
			if replaceErr != nil {
				return "", replaceErr
			}
			lines[idx] = patched
			return strings.Join(lines, "\n"), nil
		}
	}

	return "", &domain.ShapeError{Package: pkg, Got: "entry spelling not locatable in document"}
}

// classifyEntry parses the manifest and classifies the shape of pkg's entry.
// The parsed value is used for classification only, never for serialization.
func classifyEntry(manifest, pkg string) (entryShape, string, error) {
	var doc map[string]any
	if err := toml.Unmarshal([]byte(manifest), &doc); err != nil {
		return shapeUnknown, "", &domain.ParseError{Subject: "manifest", Err: err}
	}

	deps, ok := doc[dependenciesTable].(map[string]any)
	if !ok {
		return shapeNoTable, "", nil
	}

	entry, ok := deps[pkg]
	if !ok {
		return shapeMissing, "", nil
	}

	switch e := entry.(type) {
	case string:
		return shapeBare, e, nil
	case map[string]any:
		// Local dependencies have no comparable version, even when a
		// version field is also present.
		if _, hasPath := e["path"]; hasPath {
			return shapeTablePath, "", nil
		}
		if version, hasVersion := e["version"].(string); hasVersion {
			return shapeTableVersion, version, nil
		}
		return shapeUnknown, "", nil
	default:
		return shapeUnknown, "", nil
	}
}

// findEntryLine returns the index of the line declaring key inside the named
// table. Table membership follows the document's [header] lines; the key may
// be bare or double-quoted.
func findEntryLine(lines []string, table, key string) (int, bool) {
	keyRe := keyLinePattern(key)

	section := ""
	for i, line := range lines {
		if name, isHeader := parseTableHeader(line); isHeader {
			section = name
			continue
		}
		if section == table && keyRe.MatchString(line) {
			return i, true
		}
	}
	return 0, false
}

// parseTableHeader detects a [table] or [[table]] header line and returns the
// (unquoted) dotted name.
func parseTableHeader(line string) (string, bool) {
	trimmed := strings.TrimSpace(stripInlineComment(line))
	if !strings.HasPrefix(trimmed, "[") || !strings.HasSuffix(trimmed, "]") {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(trimmed, "["), "]")
	name = strings.TrimSuffix(strings.TrimPrefix(name, "["), "]") // array-of-tables
	name = strings.ReplaceAll(name, `"`, "")
	return strings.TrimSpace(name), name != ""
}

// stripInlineComment removes a trailing # comment, ignoring # inside quoted
// strings.
func stripInlineComment(line string) string {
	inDouble := false
	inSingle := false
	for i := 0; i < len(line); i++ {
		switch ch := line[i]; {
		case inDouble:
			if ch == '\\' {
				i++
			} else if ch == '"' {
				inDouble = false
			}
		case inSingle:
			if ch == '\'' {
				inSingle = false
			}
		case ch == '"':
			inDouble = true
		case ch == '\'':
			inSingle = true
		case ch == '#':
			return line[:i]
		}
	}
	return line
}

// keyLinePattern matches a line assigning the given key, bare or quoted.
func keyLinePattern(key string) *regexp.Regexp {
	quoted := regexp.QuoteMeta(key)
	return regexp.MustCompile(`^\s*(?:"` + quoted + `"|` + quoted + `)\s*=`)
}

// replaceVersionOnLine rewrites exactly the version token of an entry line.
// For a bare entry the quoted value after '=' is the version; for an inline
// table it is the value of the embedded version key.
func replaceVersionOnLine(line, key string, shape entryShape, newVersion string) (string, error) {
	quoted := regexp.QuoteMeta(key)

	var patterns []*regexp.Regexp
	if shape == shapeBare {
		patterns = []*regexp.Regexp{
			regexp.MustCompile(`^(\s*(?:"` + quoted + `"|` + quoted + `)\s*=\s*")[^"]*(")`),
			regexp.MustCompile(`^(\s*(?:"` + quoted + `"|` + quoted + `)\s*=\s*')[^']*(')`),
		}
	} else {
		patterns = []*regexp.Regexp{
			regexp.MustCompile(`(version\s*=\s*")[^"]*(")`),
			regexp.MustCompile(`(version\s*=\s*')[^']*(')`),
		}
	}

	for _, re := range patterns {
		if re.MatchString(line) {
			return re.ReplaceAllString(line, "${1}"+newVersion+"${2}"), nil
		}
	}

	return "", &domain.ShapeError{
		Package: key,
		Got:     fmt.Sprintf("no quoted version token on line %q", strings.TrimSpace(line)),
	}
}
