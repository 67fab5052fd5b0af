package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ejfitzgerald/accoutrements/internal/repository"
	"go.uber.org/zap"
)

// CompensatingActions undoes release steps. Every action is idempotent so a
// rollback can be retried or replayed from stored state.
type CompensatingActions struct {
	gitRepo    repository.GitRepository
	githubRepo repository.GithubRepository
	logger     *zap.Logger
}

// NewCompensatingActions creates the compensation handler.
func NewCompensatingActions(
	gitRepo repository.GitRepository,
	githubRepo repository.GithubRepository,
	logger *zap.Logger,
) *CompensatingActions {
	return &CompensatingActions{gitRepo: gitRepo, githubRepo: githubRepo, logger: logger}
}

// DeleteTag removes the local tag when it still exists.
func (ca *CompensatingActions) DeleteTag(ctx context.Context, rollbackData map[string]any) error {
	tag, ok := rollbackData["tag"].(string)
	if !ok || tag == "" {
		return fmt.Errorf("tag not found in rollback data")
	}
	exists, err := ca.gitRepo.TagExists(ctx, tag)
	if err != nil {
		return err
	}
	if !exists {
		ca.logger.Debug("tag already deleted", zap.String("tag", tag))
		return nil
	}
	return ca.gitRepo.DeleteTag(ctx, tag)
}

// DeleteRemoteTag removes the pushed tag. A tag the remote no longer has is
// treated as deleted.
func (ca *CompensatingActions) DeleteRemoteTag(ctx context.Context, rollbackData map[string]any) error {
	tag, _ := rollbackData["tag"].(string)
	remote, _ := rollbackData["remote"].(string)
	if tag == "" || remote == "" {
		return fmt.Errorf("tag or remote not found in rollback data")
	}
	err := ca.gitRepo.DeleteRemoteTag(ctx, remote, tag)
	var cmdErr *repository.CmdError
	if errors.As(err, &cmdErr) && strings.Contains(string(cmdErr.Stderr), "remote ref does not exist") {
		ca.logger.Debug("remote tag already deleted", zap.String("remote", remote), zap.String("tag", tag))
		return nil
	}
	return err
}

// DeleteRelease removes the GitHub release.
func (ca *CompensatingActions) DeleteRelease(ctx context.Context, rollbackData map[string]any) error {
	id := releaseID(rollbackData)
	if id == 0 {
		return nil
	}
	return ca.githubRepo.DeleteRelease(ctx, id)
}

// releaseID accepts the int64 stored in memory and the float64 produced by
// decoding stored state.
func releaseID(rollbackData map[string]any) int64 {
	switch v := rollbackData["release_id"].(type) {
	case int64:
		return v
	case int:
		return int64(v)
	case float64:
		return int64(v)
	}
	return 0
}
