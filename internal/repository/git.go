package repository

import "context"

// GitRepository defines the interface for Git operations.
type GitRepository interface {
	// Version and tags
	Describe(ctx context.Context) (string, error)
	HasTags(ctx context.Context) (bool, error)
	TagExists(ctx context.Context, tag string) (bool, error)
	HasSigningKey(ctx context.Context) bool
	CreateTag(ctx context.Context, tag, msg string, sign bool) error
	DeleteTag(ctx context.Context, tag string) error
	PushTag(ctx context.Context, remote, tag string) error
	DeleteRemoteTag(ctx context.Context, remote, tag string) error
	// Remotes
	Remotes(ctx context.Context) ([]string, error)
	RemoteURL(ctx context.Context, remote string) (string, error)
	RemoteBranches(ctx context.Context, remote string) ([]string, error)
	Fetch(ctx context.Context, remote string, prune bool) error
	FetchAll(ctx context.Context, prune bool) error
	// Branches
	CurrentBranch(ctx context.Context) (string, error)
	StaleBranches(ctx context.Context) ([]string, error)
	CheckoutNewBranch(ctx context.Context, name string) error
	CheckoutReset(ctx context.Context, name, startPoint string) error
	ResetHard(ctx context.Context, ref string) error
	DeleteBranch(ctx context.Context, name string) error
	DeleteRemoteBranches(ctx context.Context, remote string, names ...string) error
	PushBranch(ctx context.Context, remote, name string, setUpstream bool) error
	// Working copy
	HasWorkingChanges(ctx context.Context) (bool, error)
	SetConfig(ctx context.Context, key, value string) error
}
