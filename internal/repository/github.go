package repository

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

// GithubRepository publishes GitHub releases for pushed tags.
type GithubRepository interface {
	CreateRelease(ctx context.Context, tag string, prerelease bool) (int64, error)
	DeleteRelease(ctx context.Context, id int64) error
}

var githubRemotePattern = regexp.MustCompile(`github\.com[:/]([^/]+)/([^/]+?)(?:\.git)?/?$`)

// ParseGithubRemote extracts owner and repository from a GitHub remote URL
// in either scp (git@github.com:owner/repo.git) or https form.
func ParseGithubRemote(url string) (string, string, error) {
	m := githubRemotePattern.FindStringSubmatch(strings.TrimSpace(url))
	if m == nil {
		return "", "", fmt.Errorf("not a GitHub remote: %s", url)
	}
	return m[1], m[2], nil
}
