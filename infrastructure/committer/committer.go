package committer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/depsync/domain"
)

const (
	dirMode  = 0o755
	fileMode = 0o644
)

// CommitInput is one unit of work for the commit pipeline.
type CommitInput struct {
	domain.PatchTarget

	Content string
	Message string

	// CheckoutPath is the root of a local clone of Repo. Empty disables the
	// local fallback.
	CheckoutPath string
}

// Committer persists a patched file, attempting the remote contents API
// first and falling back to a local checkout commit exactly once.
type Committer struct {
	store ContentStore
	git   GitRunner
}

// New creates a committer over the given capabilities.
func New(store ContentStore, git GitRunner) *Committer {
	return &Committer{store: store, git: git}
}

// Commit produces exactly one outcome for the unit: a CommitRecord naming
// the strategy that actually succeeded, or a *domain.CommitError.
//
// The two strategies are mutually exclusive and strictly ordered: the local
// checkout attempt only starts after the remote attempt has fully failed,
// and nothing retries beyond that single fallback step.
func (c *Committer) Commit(ctx context.Context, input CommitInput) (*domain.CommitRecord, error) {
	record, remoteErr := c.commitViaAPI(ctx, input)
	if remoteErr == nil {
		logger.Infof(
			"[committer] %s: committed %s via remote API (%s)",
			input.Repo, input.FilePath, record.CommitID,
		)
		return record, nil
	}

	logger.Warnf(
		"[committer] %s: remote API commit of %s failed: %v",
		input.Repo, input.FilePath, remoteErr,
	)

	if input.CheckoutPath == "" {
		return nil, &domain.CommitError{
			Repo:     input.Repo,
			FilePath: input.FilePath,
			Reason:   domain.ErrNoFallbackAvailable,
			Cause:    remoteErr,
		}
	}

	record, localErr := c.commitViaCheckout(ctx, input)
	if localErr != nil {
		return nil, &domain.CommitError{
			Repo:     input.Repo,
			FilePath: input.FilePath,
			Reason:   domain.ErrLocalCommitFailed,
			Cause:    localErr,
		}
	}

	logger.Infof(
		"[committer] %s: committed %s via local checkout (%s)",
		input.Repo, input.FilePath, record.CommitID,
	)
	return record, nil
}

// commitViaAPI performs the two remote round-trips: read the current blob id,
// then submit the update keyed on it.
func (c *Committer) commitViaAPI(ctx context.Context, input CommitInput) (*domain.CommitRecord, error) {
	blobID, err := c.store.BlobID(ctx, input.Repo, input.FilePath)
	if err != nil {
		return nil, err
	}

	commitID, err := c.store.UpdateFile(
		ctx, input.Repo, input.FilePath,
		input.Content, input.Message, blobID,
	)
	if err != nil {
		return nil, err
	}

	return &domain.CommitRecord{
		Repo:     input.Repo,
		FilePath: input.FilePath,
		Strategy: domain.StrategyRemoteAPI,
		CommitID: commitID,
	}, nil
}

// commitViaCheckout writes the content into the checkout and runs the
// stage/commit/push/read-head sequence. Any failing step is terminal.
func (c *Committer) commitViaCheckout(ctx context.Context, input CommitInput) (*domain.CommitRecord, error) {
	if err := c.git.EnsureRepo(input.CheckoutPath); err != nil {
		return nil, err
	}

	fullPath := filepath.Join(input.CheckoutPath, filepath.FromSlash(input.FilePath))
	if err := os.MkdirAll(filepath.Dir(fullPath), dirMode); err != nil {
		return nil, fmt.Errorf("failed to create parent dirs for %q: %w", fullPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(input.Content), fileMode); err != nil {
		return nil, fmt.Errorf("failed to write %q: %w", fullPath, err)
	}

	if err := c.git.Add(ctx, input.CheckoutPath, input.FilePath); err != nil {
		return nil, err
	}
	if err := c.git.Commit(ctx, input.CheckoutPath, input.Message); err != nil {
		return nil, err
	}
	if err := c.git.Push(ctx, input.CheckoutPath); err != nil {
		return nil, err
	}

	head, err := c.git.HeadID(ctx, input.CheckoutPath)
	if err != nil {
		return nil, err
	}

	return &domain.CommitRecord{
		Repo:     input.Repo,
		FilePath: input.FilePath,
		Strategy: domain.StrategyLocalCheckout,
		CommitID: head,
	}, nil
}
