// Package committer persists patched files: first through the hosting
// provider's contents API, then — when a local checkout is available —
// through a git add/commit/push fallback.
package committer

import (
	"context"
	"fmt"
	"strings"

	gh "github.com/google/go-github/v66/github"
)

// ContentStore is the remote commit capability: read a file's current blob id
// and submit an updated version keyed on it.
type ContentStore interface {
	// BlobID returns the content identifier of path on the default branch.
	BlobID(ctx context.Context, repo, path string) (string, error)

	// UpdateFile replaces path's content in a single commit. blobID is the
	// optimistic-concurrency token from BlobID; the provider rejects the
	// update when the file changed underneath. Returns the new commit id.
	UpdateFile(ctx context.Context, repo, path, content, message, blobID string) (string, error)
}

// GitHubStore implements ContentStore with the GitHub contents API.
type GitHubStore struct {
	client *gh.Client
}

// NewGitHubStore creates a store authenticated with the given token.
func NewGitHubStore(token string) ContentStore {
	return &GitHubStore{client: gh.NewClient(nil).WithAuthToken(token)}
}

func (s *GitHubStore) BlobID(ctx context.Context, repo, path string) (string, error) {
	owner, name, err := splitSlug(repo)
	if err != nil {
		return "", err
	}

	fileContent, _, _, err := s.client.Repositories.GetContents(
		ctx, owner, name, path,
		&gh.RepositoryContentGetOptions{},
	)
	if err != nil {
		return "", fmt.Errorf("failed to get current blob id for %q: %w", path, err)
	}
	if fileContent == nil {
		return "", fmt.Errorf("path %q is a directory, not a file", path)
	}

	return fileContent.GetSHA(), nil
}

func (s *GitHubStore) UpdateFile(
	ctx context.Context,
	repo, path, content, message, blobID string,
) (string, error) {
	owner, name, err := splitSlug(repo)
	if err != nil {
		return "", err
	}

	// The client base64-encodes Content on the wire, as the contents API
	// requires.
	resp, _, err := s.client.Repositories.UpdateFile(
		ctx, owner, name, path,
		&gh.RepositoryContentFileOptions{
			Message: gh.String(message),
			Content: []byte(content),
			SHA:     gh.String(blobID),
		},
	)
	if err != nil {
		return "", fmt.Errorf("failed to update %q: %w", path, err)
	}

	commitID := resp.Commit.GetSHA()
	if commitID == "" {
		return "", fmt.Errorf("update of %q returned no commit id", path)
	}

	return commitID, nil
}

// splitSlug splits an "owner/name" repository id.
func splitSlug(repo string) (string, string, error) {
	owner, name, ok := strings.Cut(repo, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("invalid repository slug %q, want owner/name", repo)
	}
	return owner, name, nil
}
