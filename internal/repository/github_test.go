package repository

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-github/v74/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestGithubRepository(t *testing.T, handler http.Handler) *githubRepository {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := github.NewClient(nil)
	base, err := url.Parse(server.URL + "/")
	require.NoError(t, err)
	client.BaseURL = base
	return newGithubRepositoryWithClient(client, "octo", "widget", zap.NewNop())
}

func TestGithubRepository_CreateRelease(t *testing.T) {
	t.Run("Should create a release for the tag", func(t *testing.T) {
		var got github.RepositoryRelease
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/octo/widget/releases", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id": 42}`))
		})
		repo := newTestGithubRepository(t, mux)
		id, err := repo.CreateRelease(context.Background(), "v1.3.0-rc1", true)
		require.NoError(t, err)
		assert.Equal(t, int64(42), id)
		assert.Equal(t, "v1.3.0-rc1", got.GetTagName())
		assert.True(t, got.GetPrerelease())
	})
	t.Run("Should surface API failures", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/octo/widget/releases", func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		})
		repo := newTestGithubRepository(t, mux)
		_, err := repo.CreateRelease(context.Background(), "v1.0.0", false)
		assert.ErrorContains(t, err, "failed to create release v1.0.0")
	})
}

func TestGithubRepository_DeleteRelease(t *testing.T) {
	t.Run("Should delete the release", func(t *testing.T) {
		called := false
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/octo/widget/releases/42", func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodDelete, r.Method)
			called = true
			w.WriteHeader(http.StatusNoContent)
		})
		repo := newTestGithubRepository(t, mux)
		require.NoError(t, repo.DeleteRelease(context.Background(), 42))
		assert.True(t, called)
	})
	t.Run("Should treat a missing release as deleted", func(t *testing.T) {
		repo := newTestGithubRepository(t, http.NotFoundHandler())
		assert.NoError(t, repo.DeleteRelease(context.Background(), 7))
	})
}

func TestGithubNoopRepository(t *testing.T) {
	t.Run("Should require a token for every operation", func(t *testing.T) {
		repo := NewGithubNoopRepository("octo", "widget")
		_, err := repo.CreateRelease(context.Background(), "v1.0.0", false)
		assert.True(t, errors.Is(err, ErrGithubTokenRequired))
		assert.True(t, errors.Is(repo.DeleteRelease(context.Background(), 1), ErrGithubTokenRequired))
	})
}

func TestNewGithubRepository(t *testing.T) {
	t.Run("Should reject a malformed token", func(t *testing.T) {
		_, err := NewGithubRepository("nope", "octo", "widget", zap.NewNop())
		assert.ErrorContains(t, err, "invalid GitHub token")
	})
}

func TestParseGithubRemote(t *testing.T) {
	cases := map[string][2]string{
		"git@github.com:octo/widget.git":        {"octo", "widget"},
		"https://github.com/octo/widget.git":    {"octo", "widget"},
		"https://github.com/octo/widget":        {"octo", "widget"},
		"ssh://git@github.com/octo/my.repo.git": {"octo", "my.repo"},
	}
	for in, want := range cases {
		t.Run("Should parse "+in, func(t *testing.T) {
			owner, repo, err := ParseGithubRemote(in)
			require.NoError(t, err)
			assert.Equal(t, want[0], owner)
			assert.Equal(t, want[1], repo)
		})
	}
	t.Run("Should reject other hosts", func(t *testing.T) {
		_, _, err := ParseGithubRemote("git@gitlab.com:octo/widget.git")
		assert.Error(t, err)
	})
}
