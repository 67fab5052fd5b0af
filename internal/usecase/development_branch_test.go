package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDevelopmentBranchUseCase(gitRepo *mockGitRepository) *CreateDevelopmentBranchUseCase {
	return &CreateDevelopmentBranchUseCase{
		GitRepo:    gitRepo,
		Upstream:   &DetectUpstreamUseCase{GitRepo: gitRepo, Preferred: []string{"upstream", "origin"}},
		Trunk:      &DetectTrunkUseCase{GitRepo: gitRepo, TrunkBranches: []string{"master", "main"}, DevelopBranch: "develop"},
		PushRemote: "origin",
		Logger:     zap.NewNop(),
	}
}

func TestBranchName(t *testing.T) {
	t.Run("Should join names with dashes", func(t *testing.T) {
		name, err := BranchName("feature", []string{"login", "page"})
		require.NoError(t, err)
		assert.Equal(t, "feature/login-page", name)
	})
	t.Run("Should require a name", func(t *testing.T) {
		_, err := BranchName("fix", nil)
		assert.Error(t, err)
	})
	t.Run("Should reject names git would refuse", func(t *testing.T) {
		_, err := BranchName("fix", []string{"a..b"})
		assert.Error(t, err)
	})
}

func TestCreateDevelopmentBranchUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	t.Run("Should branch from upstream develop and push to origin", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := newDevelopmentBranchUseCase(gitRepo)
		gitRepo.On("HasWorkingChanges", ctx).Return(false, nil)
		gitRepo.On("Remotes", ctx).Return([]string{"origin", "upstream"}, nil)
		gitRepo.On("Fetch", ctx, "upstream", true).Return(nil)
		gitRepo.On("RemoteBranches", ctx, "upstream").Return([]string{"develop", "master"}, nil)
		gitRepo.On("CheckoutNewBranch", ctx, "feature/login-page").Return(nil)
		gitRepo.On("ResetHard", ctx, "upstream/develop").Return(nil)
		gitRepo.On("PushBranch", ctx, "origin", "feature/login-page", true).Return(nil)
		branch, err := uc.Execute(ctx, "feature", []string{"login", "page"}, true)
		require.NoError(t, err)
		assert.Equal(t, &DevelopmentBranch{
			Name:       "feature/login-page",
			Remote:     "upstream",
			StartPoint: "upstream/develop",
			PushedTo:   "origin",
		}, branch)
		gitRepo.AssertExpectations(t)
	})
	t.Run("Should push to upstream when the push remote is missing", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := newDevelopmentBranchUseCase(gitRepo)
		gitRepo.On("HasWorkingChanges", ctx).Return(false, nil)
		gitRepo.On("Remotes", ctx).Return([]string{"upstream"}, nil)
		gitRepo.On("Fetch", ctx, "upstream", true).Return(nil)
		gitRepo.On("RemoteBranches", ctx, "upstream").Return([]string{"main"}, nil)
		gitRepo.On("CheckoutNewBranch", ctx, "fix/crash").Return(nil)
		gitRepo.On("ResetHard", ctx, "upstream/main").Return(nil)
		gitRepo.On("PushBranch", ctx, "upstream", "fix/crash", true).Return(nil)
		branch, err := uc.Execute(ctx, "fix", []string{"crash"}, true)
		require.NoError(t, err)
		assert.Equal(t, "upstream", branch.PushedTo)
	})
	t.Run("Should refuse to run with working changes", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := newDevelopmentBranchUseCase(gitRepo)
		gitRepo.On("HasWorkingChanges", ctx).Return(true, nil)
		_, err := uc.Execute(ctx, "chore", []string{"deps"}, false)
		assert.True(t, errors.Is(err, ErrWorkingCopyDirty))
		gitRepo.AssertNotCalled(t, "CheckoutNewBranch", ctx, "chore/deps")
	})
	t.Run("Should stop when the branch cannot be created", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := newDevelopmentBranchUseCase(gitRepo)
		gitRepo.On("HasWorkingChanges", ctx).Return(false, nil)
		gitRepo.On("Remotes", ctx).Return([]string{"origin"}, nil)
		gitRepo.On("Fetch", ctx, "origin", true).Return(nil)
		gitRepo.On("RemoteBranches", ctx, "origin").Return([]string{"master"}, nil)
		gitRepo.On("CheckoutNewBranch", ctx, "bugfix/x").Return(errors.New("already exists"))
		_, err := uc.Execute(ctx, "bugfix", []string{"x"}, false)
		assert.ErrorContains(t, err, "already exists")
		gitRepo.AssertNotCalled(t, "ResetHard", ctx, "origin/master")
	})
}

func TestCheckoutTrunkUseCase_Execute(t *testing.T) {
	ctx := context.Background()
	t.Run("Should fetch and reset the trunk", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := &CheckoutTrunkUseCase{
			GitRepo:  gitRepo,
			Upstream: &DetectUpstreamUseCase{GitRepo: gitRepo, Preferred: []string{"upstream", "origin"}},
			Trunk:    &DetectTrunkUseCase{GitRepo: gitRepo, TrunkBranches: []string{"master", "main"}},
		}
		gitRepo.On("Remotes", ctx).Return([]string{"origin"}, nil)
		gitRepo.On("Fetch", ctx, "origin", true).Return(nil)
		gitRepo.On("RemoteBranches", ctx, "origin").Return([]string{"main"}, nil)
		gitRepo.On("CheckoutReset", ctx, "main", "origin/main").Return(nil)
		target, err := uc.Execute(ctx, true)
		require.NoError(t, err)
		assert.Equal(t, "origin/main", target)
		gitRepo.AssertExpectations(t)
	})
	t.Run("Should skip fetching unless asked", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := &CheckoutTrunkUseCase{
			GitRepo:  gitRepo,
			Upstream: &DetectUpstreamUseCase{GitRepo: gitRepo, Preferred: []string{"origin"}},
			Trunk:    &DetectTrunkUseCase{GitRepo: gitRepo, TrunkBranches: []string{"master"}},
		}
		gitRepo.On("Remotes", ctx).Return([]string{"origin"}, nil)
		gitRepo.On("RemoteBranches", ctx, "origin").Return([]string{"master"}, nil)
		gitRepo.On("CheckoutReset", ctx, "master", "origin/master").Return(nil)
		_, err := uc.Execute(ctx, false)
		require.NoError(t, err)
		gitRepo.AssertNotCalled(t, "Fetch", ctx, "origin", true)
	})
}
