package domain

// FileKind identifies which patcher understands a managed file.
type FileKind string

const (
	// KindManifest is a structured dependency manifest (Cargo.toml shape).
	KindManifest FileKind = "manifest"
	// KindWorkflow is a CI workflow file carrying embedded sed patterns.
	KindWorkflow FileKind = "workflow"
)

// CommitStrategy identifies which commit mechanism succeeded.
type CommitStrategy string

const (
	// StrategyRemoteAPI commits through the hosting provider's contents API.
	StrategyRemoteAPI CommitStrategy = "remote-api"
	// StrategyLocalCheckout commits through a local clone and git push.
	StrategyLocalCheckout CommitStrategy = "local-checkout"
)

// VersionReport is the result of a version comparison for a single package.
type VersionReport struct {
	Package     string // Package name on the registry
	Current     string // Version currently pinned in the scanned file (empty if none)
	Latest      string // Latest stable version published on the registry
	NeedsUpdate bool
}

// PatchTarget identifies one unit of work: a single file in a single repository.
type PatchTarget struct {
	Repo     string   // Repository slug, e.g. "my-org/evo-king"
	FilePath string   // Path inside the repository, e.g. "Cargo.toml"
	Kind     FileKind // Which patcher produced the new content
}

// CommitRecord is the provenance of one persisted file update. Strategy is
// always the strategy that actually succeeded, never the one attempted first.
type CommitRecord struct {
	Repo     string
	FilePath string
	Strategy CommitStrategy
	CommitID string // Remote commit SHA, or local short hash
}

// UpdateOptions holds runtime options for a single run.
type UpdateOptions struct {
	DryRun  bool
	Verbose bool
}
