// Package testdoubles provides test doubles (spies, stubs, dummies) for the
// service and committer interfaces. These are hand-crafted implementations — no
// mock frameworks.
package testdoubles

import (
	"context"
	"fmt"

	"github.com/rios0rios0/depsync/domain"
	"github.com/rios0rios0/depsync/infrastructure/committer"
)

// ---------------------------------------------------------------------------
// SpyVersionSource
// ---------------------------------------------------------------------------

// SpyVersionSource resolves versions from a fixed table and records which
// packages were requested.
type SpyVersionSource struct {
	// --- LatestStableVersion ---
	Versions map[string]string // name -> latest stable
	Err      error
	// spy: packages that were requested
	RequestedPackages []string
}

func (s *SpyVersionSource) LatestStableVersion(
	_ context.Context,
	name string,
) (string, error) {
	s.RequestedPackages = append(s.RequestedPackages, name)
	if s.Err != nil {
		return "", s.Err
	}
	if version, ok := s.Versions[name]; ok {
		return version, nil
	}
	return "", fmt.Errorf("unknown package: %s", name)
}

// ---------------------------------------------------------------------------
// SpyFileCommitter
// ---------------------------------------------------------------------------

// SpyFileCommitter records every commit request and answers with a canned
// record.
type SpyFileCommitter struct {
	// --- Commit ---
	Record *domain.CommitRecord
	Err    error
	// spy: inputs received
	Inputs []committer.CommitInput
}

func (s *SpyFileCommitter) Commit(
	_ context.Context,
	input committer.CommitInput,
) (*domain.CommitRecord, error) {
	s.Inputs = append(s.Inputs, input)
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Record != nil {
		return s.Record, nil
	}
	return &domain.CommitRecord{
		Repo:     input.Repo,
		FilePath: input.FilePath,
		Strategy: domain.StrategyRemoteAPI,
		CommitID: "deadbeef",
	}, nil
}

// ---------------------------------------------------------------------------
// SpyContentStore
// ---------------------------------------------------------------------------

// ContentUpdate records a single invocation of UpdateFile.
type ContentUpdate struct {
	Repo    string
	Path    string
	Content string
	Message string
	BlobID  string
}

// SpyContentStore implements committer.ContentStore as a configurable spy.
type SpyContentStore struct {
	// --- BlobID ---
	BlobIDs   map[string]string // path -> blob id
	BlobIDErr error

	// --- UpdateFile ---
	CommitID  string
	UpdateErr error
	// spy: updates received
	Updates []ContentUpdate
}

var _ committer.ContentStore = (*SpyContentStore)(nil)

func (s *SpyContentStore) BlobID(_ context.Context, _, path string) (string, error) {
	if s.BlobIDErr != nil {
		return "", s.BlobIDErr
	}
	if s.BlobIDs != nil {
		if id, ok := s.BlobIDs[path]; ok {
			return id, nil
		}
	}
	return "", fmt.Errorf("file not found: %s", path)
}

func (s *SpyContentStore) UpdateFile(
	_ context.Context,
	repo, path, content, message, blobID string,
) (string, error) {
	s.Updates = append(s.Updates, ContentUpdate{
		Repo:    repo,
		Path:    path,
		Content: content,
		Message: message,
		BlobID:  blobID,
	})
	if s.UpdateErr != nil {
		return "", s.UpdateErr
	}
	if s.CommitID != "" {
		return s.CommitID, nil
	}
	return "remote-sha", nil
}

// ---------------------------------------------------------------------------
// SpyGitRunner
// ---------------------------------------------------------------------------

// SpyGitRunner implements committer.GitRunner in memory, recording the step
// sequence instead of invoking a binary.
type SpyGitRunner struct {
	EnsureErr error
	AddErr    error
	CommitErr error
	PushErr   error
	HeadErr   error

	// Head is the id returned by HeadID (defaults to "abc1234").
	Head string

	// spy: inputs received
	Steps          []string
	AddedPaths     []string
	CommitMessages []string
}

var _ committer.GitRunner = (*SpyGitRunner)(nil)

func (g *SpyGitRunner) EnsureRepo(_ string) error {
	g.Steps = append(g.Steps, "ensure")
	return g.EnsureErr
}

func (g *SpyGitRunner) Add(_ context.Context, _, path string) error {
	g.Steps = append(g.Steps, "add")
	g.AddedPaths = append(g.AddedPaths, path)
	return g.AddErr
}

func (g *SpyGitRunner) Commit(_ context.Context, _, message string) error {
	g.Steps = append(g.Steps, "commit")
	g.CommitMessages = append(g.CommitMessages, message)
	return g.CommitErr
}

func (g *SpyGitRunner) Push(_ context.Context, _ string) error {
	g.Steps = append(g.Steps, "push")
	return g.PushErr
}

func (g *SpyGitRunner) HeadID(_ context.Context, _ string) (string, error) {
	g.Steps = append(g.Steps, "rev-parse")
	if g.HeadErr != nil {
		return "", g.HeadErr
	}
	if g.Head != "" {
		return g.Head, nil
	}
	return "abc1234", nil
}
