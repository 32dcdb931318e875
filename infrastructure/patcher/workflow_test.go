package patcher_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/depsync/infrastructure/patcher"
)

const fixtureWorkflow = `name: e2e
jobs:
  pin:
    steps:
      - name: Pin SDK to the published release
        run: |
          sed -i.bak 's|evo-agent-sdk = { path = "[^"]*" }|evo-agent-sdk = "0.2"|' Cargo.toml
          sed -i.bak 's|other-crate = { path = "[^"]*" }|other-crate = "1.5"|' Cargo.toml
`

func TestRewriteWorkflow(t *testing.T) {
	t.Parallel()

	t.Run("should rewrite the version inside the sed replacement", func(t *testing.T) {
		t.Parallel()

		// when
		result := patcher.RewriteWorkflow(fixtureWorkflow, "evo-agent-sdk", "0.3")

		// then
		assert.Contains(t, result, `|evo-agent-sdk = "0.3"|`)
		assert.NotContains(t, result, `|evo-agent-sdk = "0.2"|`)
	})

	t.Run("should leave other packages' rules untouched", func(t *testing.T) {
		t.Parallel()

		// when
		result := patcher.RewriteWorkflow(fixtureWorkflow, "evo-agent-sdk", "0.3")

		// then
		assert.Contains(t, result, `|other-crate = "1.5"|`)
	})

	t.Run("should be idempotent", func(t *testing.T) {
		t.Parallel()

		// when
		once := patcher.RewriteWorkflow(fixtureWorkflow, "evo-agent-sdk", "0.3")
		twice := patcher.RewriteWorkflow(once, "evo-agent-sdk", "0.3")

		// then
		assert.Equal(t, once, twice)
	})

	t.Run("should return the input unchanged when nothing matches", func(t *testing.T) {
		t.Parallel()

		// when
		result := patcher.RewriteWorkflow(fixtureWorkflow, "unknown-pkg", "9.9")

		// then
		assert.Equal(t, fixtureWorkflow, result)
	})

	t.Run("should rewrite every occurrence for the package", func(t *testing.T) {
		t.Parallel()

		// given
		content := `s|pkg = "1.0"| and again s|pkg = "1.0"|`

		// when
		result := patcher.RewriteWorkflow(content, "pkg", "2.0")

		// then
		assert.Equal(t, `s|pkg = "2.0"| and again s|pkg = "2.0"|`, result)
	})

	t.Run("should only match versions starting with a digit", func(t *testing.T) {
		t.Parallel()

		// given - the pattern side of the sed rule quotes a non-version value
		content := `sed 's|pkg = "{ path }"|pkg = "1.0"|' Cargo.toml`

		// when
		result := patcher.RewriteWorkflow(content, "pkg", "2.0")

		// then - only the digit-leading literal was rewritten
		assert.Equal(t, `sed 's|pkg = "{ path }"|pkg = "2.0"|' Cargo.toml`, result)
	})

	t.Run("should treat regex metacharacters in the package name literally", func(t *testing.T) {
		t.Parallel()

		// given
		content := `s|a.b = "1.0"| s|axb = "1.0"|`

		// when
		result := patcher.RewriteWorkflow(content, "a.b", "2.0")

		// then - "axb" must not match the dot
		assert.Equal(t, `s|a.b = "2.0"| s|axb = "1.0"|`, result)
	})
}
