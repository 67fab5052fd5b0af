package repository

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/ejfitzgerald/accoutrements/internal/config"
	"github.com/google/go-github/v74/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
)

type githubRepository struct {
	client *github.Client
	owner  string
	repo   string
	logger *zap.Logger
}

// NewGithubRepository creates a GithubRepository after validating the token
// and repository slug.
func NewGithubRepository(token, owner, repo string, logger *zap.Logger) (GithubRepository, error) {
	if err := config.ValidateGitHubToken(token); err != nil {
		return nil, fmt.Errorf("invalid GitHub token: %w", err)
	}
	if err := config.ValidateGitHubOwnerRepo(owner, repo); err != nil {
		return nil, fmt.Errorf("invalid repository configuration: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: strings.TrimSpace(token)})
	client := github.NewClient(oauth2.NewClient(context.Background(), ts))
	return newGithubRepositoryWithClient(client, owner, repo, logger), nil
}

func newGithubRepositoryWithClient(client *github.Client, owner, repo string, logger *zap.Logger) *githubRepository {
	return &githubRepository{client: client, owner: owner, repo: repo, logger: logger}
}

// CreateRelease publishes a release for an already pushed tag and returns
// its id. Release notes are generated by GitHub.
func (r *githubRepository) CreateRelease(ctx context.Context, tag string, prerelease bool) (int64, error) {
	release, _, err := r.client.Repositories.CreateRelease(ctx, r.owner, r.repo, &github.RepositoryRelease{
		TagName:              github.Ptr(tag),
		Name:                 github.Ptr(tag),
		Prerelease:           github.Ptr(prerelease),
		GenerateReleaseNotes: github.Ptr(true),
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create release %s: %w", tag, err)
	}
	r.logger.Debug("created GitHub release",
		zap.String("repo", r.owner+"/"+r.repo),
		zap.String("tag", tag),
		zap.Int64("id", release.GetID()))
	return release.GetID(), nil
}

// DeleteRelease removes a release. A release that is already gone is not an
// error.
func (r *githubRepository) DeleteRelease(ctx context.Context, id int64) error {
	resp, err := r.client.Repositories.DeleteRelease(ctx, r.owner, r.repo, id)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("failed to delete release %d: %w", id, err)
	}
	return nil
}
