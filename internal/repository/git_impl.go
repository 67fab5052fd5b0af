package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/storer"
	"go.uber.org/zap"
)

// gitRepository reads repository state through go-git and performs every
// mutation through the git binary so hooks, signing and credential helpers
// behave as they do on the command line.
type gitRepository struct {
	runner Runner
	repo   *git.Repository
	logger *zap.Logger
}

// NewGitRepository opens the repository containing dir.
func NewGitRepository(runner Runner, dir string, logger *zap.Logger) (GitRepository, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open git repository: %w", err)
	}
	return &gitRepository{runner: runner, repo: repo, logger: logger}, nil
}

// Clone clones url into dir (relative to the runner's directory).
func Clone(ctx context.Context, runner Runner, url, dir string) error {
	if _, err := runner.Run(ctx, "clone", url, dir); err != nil {
		return fmt.Errorf("failed to clone %s: %w", url, err)
	}
	return nil
}

// Describe returns `git describe --always` for HEAD.
func (r *gitRepository) Describe(ctx context.Context) (string, error) {
	out, err := r.runner.Run(ctx, "describe", "--always")
	if err != nil {
		return "", fmt.Errorf("failed to describe HEAD: %w", err)
	}
	return out, nil
}

// HasTags reports whether the repository has at least one tag.
func (r *gitRepository) HasTags(_ context.Context) (bool, error) {
	iter, err := r.repo.Tags()
	if err != nil {
		return false, fmt.Errorf("failed to get tags: %w", err)
	}
	found := false
	err = iter.ForEach(func(_ *plumbing.Reference) error {
		found = true
		return storer.ErrStop
	})
	if err != nil && err != storer.ErrStop {
		return false, fmt.Errorf("failed to iterate tags: %w", err)
	}
	return found, nil
}

// TagExists checks if a tag exists.
func (r *gitRepository) TagExists(_ context.Context, tag string) (bool, error) {
	_, err := r.repo.Tag(tag)
	if err == git.ErrTagNotFound {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check tag %s: %w", tag, err)
	}
	return true, nil
}

// HasSigningKey reports whether user.signingkey is configured.
func (r *gitRepository) HasSigningKey(ctx context.Context) bool {
	out, err := r.runner.Run(ctx, "config", "user.signingkey")
	if err != nil {
		return false
	}
	return out != ""
}

// CreateTag creates a signed or annotated tag on HEAD.
func (r *gitRepository) CreateTag(ctx context.Context, tag, msg string, sign bool) error {
	kind := "-a"
	if sign {
		kind = "-s"
	}
	if _, err := r.runner.Run(ctx, "tag", kind, tag, "-m", msg); err != nil {
		return fmt.Errorf("failed to create tag %s: %w", tag, err)
	}
	return nil
}

// DeleteTag deletes a local tag.
func (r *gitRepository) DeleteTag(ctx context.Context, tag string) error {
	if _, err := r.runner.Run(ctx, "tag", "-d", tag); err != nil {
		return fmt.Errorf("failed to delete tag %s: %w", tag, err)
	}
	return nil
}

// PushTag pushes a tag to the remote.
func (r *gitRepository) PushTag(ctx context.Context, remote, tag string) error {
	if _, err := r.runner.Run(ctx, "push", remote, "refs/tags/"+tag); err != nil {
		return fmt.Errorf("failed to push tag %s to %s: %w", tag, remote, err)
	}
	return nil
}

// DeleteRemoteTag deletes a tag from the remote.
func (r *gitRepository) DeleteRemoteTag(ctx context.Context, remote, tag string) error {
	if _, err := r.runner.Run(ctx, "push", "--delete", remote, "refs/tags/"+tag); err != nil {
		return fmt.Errorf("failed to delete tag %s from %s: %w", tag, remote, err)
	}
	return nil
}

// Remotes returns the configured remote names, sorted.
func (r *gitRepository) Remotes(_ context.Context) ([]string, error) {
	remotes, err := r.repo.Remotes()
	if err != nil {
		return nil, fmt.Errorf("failed to list remotes: %w", err)
	}
	names := make([]string, 0, len(remotes))
	for _, remote := range remotes {
		names = append(names, remote.Config().Name)
	}
	sort.Strings(names)
	return names, nil
}

// RemoteURL returns the first URL of a remote.
func (r *gitRepository) RemoteURL(_ context.Context, remote string) (string, error) {
	rem, err := r.repo.Remote(remote)
	if err != nil {
		return "", fmt.Errorf("failed to get remote %s: %w", remote, err)
	}
	urls := rem.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("remote %s has no url", remote)
	}
	return urls[0], nil
}

// RemoteBranches returns the remote-tracking branches known for remote,
// without the remote prefix.
func (r *gitRepository) RemoteBranches(_ context.Context, remote string) ([]string, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("failed to list references: %w", err)
	}
	prefix := remote + "/"
	var branches []string
	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if !ref.Name().IsRemote() {
			return nil
		}
		short := ref.Name().Short()
		if !strings.HasPrefix(short, prefix) {
			return nil
		}
		name := strings.TrimPrefix(short, prefix)
		if name != "HEAD" {
			branches = append(branches, name)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate references: %w", err)
	}
	sort.Strings(branches)
	return branches, nil
}

// Fetch fetches from one remote.
func (r *gitRepository) Fetch(ctx context.Context, remote string, prune bool) error {
	args := []string{"fetch", remote}
	if prune {
		args = append(args, "--prune")
	}
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to fetch %s: %w", remote, err)
	}
	return nil
}

// FetchAll fetches from every remote.
func (r *gitRepository) FetchAll(ctx context.Context, prune bool) error {
	args := []string{"fetch", "--all"}
	if prune {
		args = append(args, "--prune")
	}
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to fetch remotes: %w", err)
	}
	return nil
}

// CurrentBranch returns the checked out branch, or an empty string on a
// detached HEAD.
func (r *gitRepository) CurrentBranch(_ context.Context) (string, error) {
	head, err := r.repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to get HEAD: %w", err)
	}
	if head.Type() != plumbing.SymbolicReference {
		return "", nil
	}
	return head.Target().Short(), nil
}

// StaleBranches returns local branches whose upstream tracking ref is gone.
func (r *gitRepository) StaleBranches(_ context.Context) ([]string, error) {
	cfg, err := r.repo.Config()
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %w", err)
	}
	var stale []string
	for name, branch := range cfg.Branches {
		if branch.Remote == "" || branch.Remote == "." || branch.Merge == "" {
			continue
		}
		if _, err := r.repo.Reference(plumbing.NewBranchReferenceName(name), false); err != nil {
			continue
		}
		tracking := plumbing.NewRemoteReferenceName(branch.Remote, branch.Merge.Short())
		_, err := r.repo.Reference(tracking, false)
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			stale = append(stale, name)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", tracking, err)
		}
	}
	sort.Strings(stale)
	return stale, nil
}

// CheckoutNewBranch creates and checks out a branch at HEAD.
func (r *gitRepository) CheckoutNewBranch(ctx context.Context, name string) error {
	if _, err := r.runner.Run(ctx, "checkout", "-b", name); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", name, err)
	}
	return nil
}

// CheckoutReset checks out name, creating or resetting it to startPoint.
func (r *gitRepository) CheckoutReset(ctx context.Context, name, startPoint string) error {
	if _, err := r.runner.Run(ctx, "checkout", "-B", name, startPoint); err != nil {
		return fmt.Errorf("failed to checkout %s at %s: %w", name, startPoint, err)
	}
	return nil
}

// ResetHard performs a hard reset to the specified reference.
func (r *gitRepository) ResetHard(ctx context.Context, ref string) error {
	if _, err := r.runner.Run(ctx, "reset", "--hard", ref); err != nil {
		return fmt.Errorf("failed to reset to %s: %w", ref, err)
	}
	return nil
}

// DeleteBranch force deletes a local branch.
func (r *gitRepository) DeleteBranch(ctx context.Context, name string) error {
	if _, err := r.runner.Run(ctx, "branch", "-D", name); err != nil {
		return fmt.Errorf("failed to delete branch %s: %w", name, err)
	}
	return nil
}

// DeleteRemoteBranches deletes branches from a remote in one push.
func (r *gitRepository) DeleteRemoteBranches(ctx context.Context, remote string, names ...string) error {
	if len(names) == 0 {
		return nil
	}
	args := append([]string{"push", "--delete", remote}, names...)
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to delete branches from %s: %w", remote, err)
	}
	return nil
}

// PushBranch pushes a branch, optionally recording it as upstream.
func (r *gitRepository) PushBranch(ctx context.Context, remote, name string, setUpstream bool) error {
	args := []string{"push"}
	if setUpstream {
		args = append(args, "-u")
	}
	args = append(args, remote, name)
	if _, err := r.runner.Run(ctx, args...); err != nil {
		return fmt.Errorf("failed to push branch %s to %s: %w", name, remote, err)
	}
	return nil
}

// HasWorkingChanges reports unstaged modifications to tracked files.
func (r *gitRepository) HasWorkingChanges(ctx context.Context) (bool, error) {
	_, err := r.runner.Run(ctx, "diff", "--exit-code", "--quiet")
	if err == nil {
		return false, nil
	}
	var cmdErr *CmdError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode == 1 {
		return true, nil
	}
	return false, fmt.Errorf("failed to check working copy: %w", err)
}

// SetConfig writes a repository-local configuration value.
func (r *gitRepository) SetConfig(ctx context.Context, key, value string) error {
	if _, err := r.runner.Run(ctx, "config", key, value); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
