package patcher_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/depsync/domain"
	"github.com/rios0rios0/depsync/infrastructure/patcher"
)

const fixtureManifest = `# Fleet agent manifest
[package]
name = "evo-king"
version = "0.1.0"   # crate version, not a dependency

[dependencies]
evo-agent-sdk = "0.2"
serde = { version = "1.0", features = ["derive"] }
tokio = { version = "1", features = ["full"] }  # async runtime
local-helper = { path = "../helper" }

[dev-dependencies]
evo-agent-sdk = "0.1"
`

func TestReadManifestVersion(t *testing.T) {
	t.Parallel()

	t.Run("should read a bare string entry", func(t *testing.T) {
		t.Parallel()

		// when
		version, ok := patcher.ReadManifestVersion(fixtureManifest, "evo-agent-sdk")

		// then
		require.True(t, ok)
		assert.Equal(t, "0.2", version)
	})

	t.Run("should read the version field of an inline table", func(t *testing.T) {
		t.Parallel()

		// when
		version, ok := patcher.ReadManifestVersion(fixtureManifest, "serde")

		// then
		require.True(t, ok)
		assert.Equal(t, "1.0", version)
	})

	t.Run("should report not found for a path dependency", func(t *testing.T) {
		t.Parallel()

		// given - local dependencies have no comparable version
		_, ok := patcher.ReadManifestVersion(fixtureManifest, "local-helper")

		// then
		assert.False(t, ok)
	})

	t.Run("should report not found for a path dependency with a version field", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "[dependencies]\npkg = { path = \"../pkg\", version = \"0.1\" }\n"

		// when
		_, ok := patcher.ReadManifestVersion(manifest, "pkg")

		// then
		assert.False(t, ok)
	})

	t.Run("should report not found for a missing entry", func(t *testing.T) {
		t.Parallel()

		_, ok := patcher.ReadManifestVersion(fixtureManifest, "nonexistent")
		assert.False(t, ok)
	})

	t.Run("should report not found when the manifest has no dependencies table", func(t *testing.T) {
		t.Parallel()

		_, ok := patcher.ReadManifestVersion("[package]\nname = \"x\"\n", "evo-agent-sdk")
		assert.False(t, ok)
	})

	t.Run("should report not found for an unparseable document", func(t *testing.T) {
		t.Parallel()

		_, ok := patcher.ReadManifestVersion("[dependencies\nbroken", "evo-agent-sdk")
		assert.False(t, ok)
	})
}

func TestPatchManifest(t *testing.T) {
	t.Parallel()

	t.Run("should patch a bare entry and preserve every other byte", func(t *testing.T) {
		t.Parallel()

		// when
		patched, err := patcher.PatchManifest(fixtureManifest, "evo-agent-sdk", "0.3")

		// then
		require.NoError(t, err)
		assert.Contains(t, patched, `evo-agent-sdk = "0.3"`)

		// only the version token on the [dependencies] line changed
		expected := strings.Replace(
			fixtureManifest,
			"[dependencies]\nevo-agent-sdk = \"0.2\"",
			"[dependencies]\nevo-agent-sdk = \"0.3\"",
			1,
		)
		assert.Equal(t, expected, patched)
	})

	t.Run("should leave the same entry in other tables untouched", func(t *testing.T) {
		t.Parallel()

		// when
		patched, err := patcher.PatchManifest(fixtureManifest, "evo-agent-sdk", "0.3")

		// then - the [dev-dependencies] pin survives
		require.NoError(t, err)
		assert.Contains(t, patched, "[dev-dependencies]\nevo-agent-sdk = \"0.1\"")
	})

	t.Run("should patch the version field of an inline table", func(t *testing.T) {
		t.Parallel()

		// when
		patched, err := patcher.PatchManifest(fixtureManifest, "serde", "1.1")

		// then
		require.NoError(t, err)
		assert.Contains(t, patched, `serde = { version = "1.1", features = ["derive"] }`)
	})

	t.Run("should preserve a trailing comment on the patched line", func(t *testing.T) {
		t.Parallel()

		// when
		patched, err := patcher.PatchManifest(fixtureManifest, "tokio", "1.2")

		// then
		require.NoError(t, err)
		assert.Contains(t, patched, `tokio = { version = "1.2", features = ["full"] }  # async runtime`)
	})

	t.Run("should patch a block table entry", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "[dependencies.evo-agent-sdk]\nversion = \"0.2\"\nfeatures = [\"tls\"]\n"

		// when
		patched, err := patcher.PatchManifest(manifest, "evo-agent-sdk", "0.3")

		// then
		require.NoError(t, err)
		assert.Equal(t, "[dependencies.evo-agent-sdk]\nversion = \"0.3\"\nfeatures = [\"tls\"]\n", patched)
	})

	t.Run("should patch a quoted key", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "[dependencies]\n\"evo-agent-sdk\" = \"0.2\"\n"

		// when
		patched, err := patcher.PatchManifest(manifest, "evo-agent-sdk", "0.3")

		// then
		require.NoError(t, err)
		assert.Equal(t, "[dependencies]\n\"evo-agent-sdk\" = \"0.3\"\n", patched)
	})

	t.Run("should refuse to patch a path dependency", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := patcher.PatchManifest(fixtureManifest, "local-helper", "0.3")

		// then
		var shapeErr *domain.ShapeError
		require.ErrorAs(t, err, &shapeErr)
		assert.Equal(t, "local-helper", shapeErr.Package)
	})

	t.Run("should return not found for a missing entry", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := patcher.PatchManifest(fixtureManifest, "nonexistent", "1.0")

		// then
		var notFoundErr *domain.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("should return not found when no dependencies table exists", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := patcher.PatchManifest("[package]\nname = \"x\"\n", "evo-agent-sdk", "1.0")

		// then
		var notFoundErr *domain.NotFoundError
		require.ErrorAs(t, err, &notFoundErr)
	})

	t.Run("should return shape error for a non-string non-table entry", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "[dependencies]\nweird = 42\n"

		// when
		_, err := patcher.PatchManifest(manifest, "weird", "1.0")

		// then
		var shapeErr *domain.ShapeError
		require.ErrorAs(t, err, &shapeErr)
	})

	t.Run("should return parse error for a broken document", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := patcher.PatchManifest("[dependencies\nbroken", "evo-agent-sdk", "1.0")

		// then
		var parseErr *domain.ParseError
		require.ErrorAs(t, err, &parseErr)
	})

	t.Run("should not touch a hash inside a quoted value when locating comments", func(t *testing.T) {
		t.Parallel()

		// given
		manifest := "[dependencies]\nevo-agent-sdk = \"0.2\" # pinned #123\n"

		// when
		patched, err := patcher.PatchManifest(manifest, "evo-agent-sdk", "0.3")

		// then
		require.NoError(t, err)
		assert.Equal(t, "[dependencies]\nevo-agent-sdk = \"0.3\" # pinned #123\n", patched)
	})
}
