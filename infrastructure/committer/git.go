package committer

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	gogit "github.com/go-git/go-git/v5"

	"github.com/rios0rios0/depsync/domain"
)

// GitRunner is the local version-control capability needed by the checkout
// fallback. Tests substitute an in-memory implementation instead of invoking
// a real binary.
type GitRunner interface {
	// EnsureRepo verifies dir is a git worktree with an origin remote.
	EnsureRepo(dir string) error

	// Add stages path, relative to dir.
	Add(ctx context.Context, dir, path string) error

	// Commit creates a commit with the given message.
	Commit(ctx context.Context, dir, message string) error

	// Push pushes the current branch to the checkout's configured remote.
	Push(ctx context.Context, dir string) error

	// HeadID returns the short hash of the checkout's HEAD.
	HeadID(ctx context.Context, dir string) (string, error)
}

// CLIGitRunner runs git as a subprocess with the working directory at the
// checkout root. Any non-zero exit is a *domain.SubprocessError.
type CLIGitRunner struct{}

// NewCLIGitRunner creates the subprocess-backed runner.
func NewCLIGitRunner() GitRunner {
	return &CLIGitRunner{}
}

// EnsureRepo opens the checkout with go-git and checks that an origin remote
// is configured, so a broken checkout fails before any mutation.
func (r *CLIGitRunner) EnsureRepo(dir string) error {
	repo, err := gogit.PlainOpen(dir)
	if err != nil {
		return fmt.Errorf("failed to open checkout %q: %w", dir, err)
	}
	if _, remoteErr := repo.Remote(gogit.DefaultRemoteName); remoteErr != nil {
		return fmt.Errorf("checkout %q has no %s remote: %w", dir, gogit.DefaultRemoteName, remoteErr)
	}
	return nil
}

func (r *CLIGitRunner) Add(ctx context.Context, dir, path string) error {
	_, err := r.run(ctx, dir, "add", "add", path)
	return err
}

func (r *CLIGitRunner) Commit(ctx context.Context, dir, message string) error {
	_, err := r.run(ctx, dir, "commit", "commit", "-m", message)
	return err
}

func (r *CLIGitRunner) Push(ctx context.Context, dir string) error {
	_, err := r.run(ctx, dir, "push", "push")
	return err
}

func (r *CLIGitRunner) HeadID(ctx context.Context, dir string) (string, error) {
	output, err := r.run(ctx, dir, "rev-parse", "rev-parse", "--short", "HEAD")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output), nil
}

func (r *CLIGitRunner) run(
	ctx context.Context,
	dir, step string,
	args ...string,
) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return "", &domain.SubprocessError{
			Step:   step,
			Dir:    dir,
			Output: string(output),
			Err:    err,
		}
	}

	return string(output), nil
}
