// Package application drives a full synchronization run: resolve latest
// versions, scan the managed repositories, patch pinned files, and commit.
package application

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depsync/config"
	"github.com/rios0rios0/depsync/domain"
	"github.com/rios0rios0/depsync/infrastructure/committer"
	"github.com/rios0rios0/depsync/infrastructure/patcher"
)

// VersionSource resolves the latest stable version of a package.
type VersionSource interface {
	LatestStableVersion(ctx context.Context, name string) (string, error)
}

// FileCommitter persists one patched file and reports its provenance.
type FileCommitter interface {
	Commit(ctx context.Context, input committer.CommitInput) (*domain.CommitRecord, error)
}

// Summary is the outcome of one run.
type Summary struct {
	Reports   []domain.VersionReport
	Committed []domain.CommitRecord
	Pending   int // Files that needed an update (committed or not)
	Errors    int // Items skipped because a step failed
}

// pendingUpdate is a fully patched file waiting to be committed.
type pendingUpdate struct {
	target       domain.PatchTarget
	checkoutPath string
	content      string
	message      string
}

// UpdateService runs the synchronization phases over the configured fleet.
type UpdateService struct {
	versions  VersionSource
	committer FileCommitter
}

// NewUpdateService creates the service over its two capabilities.
func NewUpdateService(versions VersionSource, fileCommitter FileCommitter) *UpdateService {
	return &UpdateService{versions: versions, committer: fileCommitter}
}

// Run executes the three phases in order: fetch latest versions, scan and
// patch the managed files, then commit each changed file. A failure on one
// package, file, or repository never aborts the run; the item is logged,
// counted, and skipped.
func (s *UpdateService) Run(
	ctx context.Context,
	cfg *config.Config,
	opts domain.UpdateOptions,
) (*Summary, error) {
	if opts.Verbose {
		logger.SetLevel(logger.DebugLevel)
	}

	summary := &Summary{}

	latest := s.fetchLatestVersions(ctx, cfg, summary)
	if len(latest) == 0 {
		logger.Warnf("[service] no package versions could be resolved, nothing to do")
		return summary, nil
	}

	pending := s.scanRepositories(cfg, latest, summary)
	summary.Pending = len(pending)

	if len(pending) == 0 {
		logger.Infof("[service] all repositories are up to date")
		return summary, nil
	}

	if opts.DryRun {
		for _, update := range pending {
			logger.Infof(
				"[service] DRY RUN: would commit %s in %s (%q)",
				update.target.FilePath, update.target.Repo, update.message,
			)
		}
		return summary, nil
	}

	for _, update := range pending {
		record, err := s.committer.Commit(ctx, committer.CommitInput{
			PatchTarget:  update.target,
			Content:      update.content,
			Message:      update.message,
			CheckoutPath: update.checkoutPath,
		})
		if err != nil {
			logger.Errorf(
				"[service] failed to commit %s in %s: %v",
				update.target.FilePath, update.target.Repo, err,
			)
			summary.Errors++
			continue
		}
		summary.Committed = append(summary.Committed, *record)
	}

	logger.Infof(
		"[service] run complete: %d outdated, %d committed, %d errors",
		summary.Pending, len(summary.Committed), summary.Errors,
	)
	return summary, nil
}

// Check resolves latest versions and reports the state of every tracked
// package in every manifest without patching or committing anything.
func (s *UpdateService) Check(ctx context.Context, cfg *config.Config) (*Summary, error) {
	summary := &Summary{}

	latest := s.fetchLatestVersions(ctx, cfg, summary)

	for _, repo := range cfg.Repositories {
		for _, manifest := range repo.Manifests {
			content, err := readRepoFile(repo.Path, manifest)
			if err != nil {
				logger.Warnf("[service] %s: skipping %s: %v", repo.Name, manifest, err)
				summary.Errors++
				continue
			}

			for _, pkg := range cfg.Packages {
				latestVersion, ok := latest[pkg.Name]
				if !ok {
					continue
				}
				current, found := patcher.ReadManifestVersion(content, pkg.Name)
				if !found {
					continue
				}
				summary.Reports = append(summary.Reports, domain.VersionReport{
					Package:     pkg.Name,
					Current:     current,
					Latest:      latestVersion,
					NeedsUpdate: domain.NeedsUpdate(current, latestVersion),
				})
			}
		}
	}

	return summary, nil
}

// fetchLatestVersions resolves the latest stable version of every tracked
// package. Packages the registry cannot answer for are dropped from the run.
func (s *UpdateService) fetchLatestVersions(
	ctx context.Context,
	cfg *config.Config,
	summary *Summary,
) map[string]string {
	latest := make(map[string]string, len(cfg.Packages))

	for _, pkg := range cfg.Packages {
		version, err := s.versions.LatestStableVersion(ctx, pkg.Name)
		if err != nil {
			logger.Warnf("[service] skipping package %s: %v", pkg.Name, err)
			summary.Errors++
			continue
		}
		logger.Infof("[service] %s latest stable: %s", pkg.Name, version)
		latest[pkg.Name] = version
	}

	return latest
}

// scanRepositories walks every configured repository and produces the patched
// files that need committing. Version reports are collected along the way.
func (s *UpdateService) scanRepositories(
	cfg *config.Config,
	latest map[string]string,
	summary *Summary,
) []pendingUpdate {
	var pending []pendingUpdate

	for _, repo := range cfg.Repositories {
		for _, manifest := range repo.Manifests {
			update, ok := s.patchManifestFile(repo, manifest, cfg.Packages, latest, summary)
			if ok {
				pending = append(pending, update)
			}
		}
		for _, workflow := range repo.Workflows {
			update, ok := s.patchWorkflowFile(repo, workflow, cfg.Packages, latest, summary)
			if ok {
				pending = append(pending, update)
			}
		}
	}

	return pending
}

// patchManifestFile applies every outdated tracked package to a single
// manifest and returns the accumulated patched content.
func (s *UpdateService) patchManifestFile(
	repo config.RepositoryConfig,
	manifest string,
	packages []config.PackageConfig,
	latest map[string]string,
	summary *Summary,
) (pendingUpdate, bool) {
	content, err := readRepoFile(repo.Path, manifest)
	if err != nil {
		logger.Warnf("[service] %s: skipping %s: %v", repo.Name, manifest, err)
		summary.Errors++
		return pendingUpdate{}, false
	}

	changed := false
	for _, pkg := range packages {
		latestVersion, ok := latest[pkg.Name]
		if !ok {
			continue
		}

		current, found := patcher.ReadManifestVersion(content, pkg.Name)
		if !found {
			logger.Debugf("[service] %s: %s not pinned in %s", repo.Name, pkg.Name, manifest)
			continue
		}

		needsUpdate := domain.NeedsUpdate(current, latestVersion)
		summary.Reports = append(summary.Reports, domain.VersionReport{
			Package:     pkg.Name,
			Current:     current,
			Latest:      latestVersion,
			NeedsUpdate: needsUpdate,
		})
		if !needsUpdate {
			logger.Debugf(
				"[service] %s: %s already at %s in %s",
				repo.Name, pkg.Name, current, manifest,
			)
			continue
		}

		patched, patchErr := patcher.PatchManifest(content, pkg.Name, latestVersion)
		if patchErr != nil {
			logger.Warnf(
				"[service] %s: cannot patch %s in %s: %v",
				repo.Name, pkg.Name, manifest, patchErr,
			)
			summary.Errors++
			continue
		}

		logger.Infof(
			"[service] %s: %s %s -> %s in %s",
			repo.Name, pkg.Name, current, latestVersion, manifest,
		)
		content = patched
		changed = true
	}

	if !changed {
		return pendingUpdate{}, false
	}

	return pendingUpdate{
		target: domain.PatchTarget{
			Repo:     repo.Name,
			FilePath: manifest,
			Kind:     domain.KindManifest,
		},
		checkoutPath: repo.Path,
		content:      content,
		message:      fmt.Sprintf("chore(deps): update dependencies in %s", manifest),
	}, true
}

// patchWorkflowFile rewrites the sed version patterns of every flagged
// package in a single workflow file.
func (s *UpdateService) patchWorkflowFile(
	repo config.RepositoryConfig,
	workflow string,
	packages []config.PackageConfig,
	latest map[string]string,
	summary *Summary,
) (pendingUpdate, bool) {
	content, err := readRepoFile(repo.Path, workflow)
	if err != nil {
		logger.Warnf("[service] %s: skipping %s: %v", repo.Name, workflow, err)
		summary.Errors++
		return pendingUpdate{}, false
	}

	var bumped []string
	var lastVersion string
	for _, pkg := range packages {
		if !pkg.PatchWorkflows {
			continue
		}
		latestVersion, ok := latest[pkg.Name]
		if !ok {
			continue
		}

		rewritten := patcher.RewriteWorkflow(content, pkg.Name, latestVersion)
		if rewritten == content {
			continue
		}

		logger.Infof(
			"[service] %s: %s sed pattern -> %s in %s",
			repo.Name, pkg.Name, latestVersion, workflow,
		)
		content = rewritten
		bumped = append(bumped, pkg.Name)
		lastVersion = latestVersion
	}

	if len(bumped) == 0 {
		return pendingUpdate{}, false
	}

	message := fmt.Sprintf("ci: bump %s to %s in sed pattern", bumped[0], lastVersion)
	if len(bumped) > 1 {
		message = fmt.Sprintf("ci: bump pinned versions in %s", workflow)
	}

	return pendingUpdate{
		target: domain.PatchTarget{
			Repo:     repo.Name,
			FilePath: workflow,
			Kind:     domain.KindWorkflow,
		},
		checkoutPath: repo.Path,
		content:      content,
		message:      message,
	}, true
}

// readRepoFile reads a repository-relative file from the local checkout.
func readRepoFile(root, relPath string) (string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(relPath)))
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	return string(data), nil
}
