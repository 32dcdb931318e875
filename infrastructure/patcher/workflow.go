package patcher

import (
	"regexp"
)

// RewriteWorkflow replaces the version literal that appears for pkg inside a
// workflow file's sed substitution rules, e.g.:
//
//	sed -i.bak 's|evo-agent-sdk = { path = "[^"]*" }|evo-agent-sdk = "0.1"|' Cargo.toml
//
// Only substrings of the form |<pkg> = "<value starting with a digit>" are
// touched: the pipe delimiter, the literal package name, an equals sign, and
// a double-quoted version. Every such occurrence for pkg is rewritten; all
// other content, including other packages' rules, passes through byte for
// byte. The operation never fails and is idempotent: with no match the input
// is returned unchanged.
func RewriteWorkflow(content, pkg, newVersion string) string {
	re := regexp.MustCompile(`(\|` + regexp.QuoteMeta(pkg) + ` = ")(\d[^"]*)(")`)
	return re.ReplaceAllString(content, "${1}"+newVersion+"${3}")
}
