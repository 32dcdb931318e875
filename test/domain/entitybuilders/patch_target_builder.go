package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	testkit "github.com/rios0rios0/testkit/pkg/test"

	"github.com/rios0rios0/depsync/domain"
)

// PatchTargetBuilder helps create test patch targets with a fluent interface.
type PatchTargetBuilder struct {
	*testkit.BaseBuilder
	repo     string
	filePath string
	kind     domain.FileKind
}

// NewPatchTargetBuilder creates a new patch target builder with sensible defaults.
func NewPatchTargetBuilder() *PatchTargetBuilder {
	return &PatchTargetBuilder{
		BaseBuilder: testkit.NewBaseBuilder(),
		repo:        "my-org/evo-king",
		filePath:    "Cargo.toml",
		kind:        domain.KindManifest,
	}
}

// WithRepo sets the repository slug.
func (b *PatchTargetBuilder) WithRepo(repo string) *PatchTargetBuilder {
	b.repo = repo
	return b
}

// WithFilePath sets the repository-relative file path.
func (b *PatchTargetBuilder) WithFilePath(path string) *PatchTargetBuilder {
	b.filePath = path
	return b
}

// WithKind sets the file kind.
func (b *PatchTargetBuilder) WithKind(kind domain.FileKind) *PatchTargetBuilder {
	b.kind = kind
	return b
}

// Build creates the patch target (satisfies testkit.Builder interface).
func (b *PatchTargetBuilder) Build() interface{} {
	return b.BuildPatchTarget()
}

// BuildPatchTarget creates the patch target with a concrete return type.
func (b *PatchTargetBuilder) BuildPatchTarget() domain.PatchTarget {
	return domain.PatchTarget{
		Repo:     b.repo,
		FilePath: b.filePath,
		Kind:     b.kind,
	}
}

// Reset clears the builder state, allowing it to be reused.
func (b *PatchTargetBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.repo = "my-org/evo-king"
	b.filePath = "Cargo.toml"
	b.kind = domain.KindManifest
	return b
}

// Clone creates a deep copy of the PatchTargetBuilder.
func (b *PatchTargetBuilder) Clone() testkit.Builder {
	return &PatchTargetBuilder{
		BaseBuilder: b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		repo:        b.repo,
		filePath:    b.filePath,
		kind:        b.kind,
	}
}
