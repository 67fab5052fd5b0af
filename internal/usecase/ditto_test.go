package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneDestination(t *testing.T) {
	cases := map[string]string{
		"git@github.com:octo/widget.git":     "widget",
		"https://github.com/octo/widget.git": "widget",
		"https://example.com/a/b/tool":       "tool",
		"ssh://host/srv/repo.git/":           "repo",
	}
	for url, want := range cases {
		t.Run("Should derive the directory for "+url, func(t *testing.T) {
			got, err := CloneDestination(url)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
	t.Run("Should reject a bare word", func(t *testing.T) {
		_, err := CloneDestination("widget")
		assert.Error(t, err)
	})
}

func identityFs(t *testing.T) afero.Fs {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src/acme", 0o755))
	content := "[user]\nname = \"Jo Bloggs\"\nsigningkey = \"ABC123\"\n"
	require.NoError(t, afero.WriteFile(fs, "/src/.git-ditto.toml", []byte(content), 0o600))
	return fs
}

func TestDittoUseCase_Clone(t *testing.T) {
	ctx := context.Background()
	t.Run("Should clone and apply the identity", func(t *testing.T) {
		runner := new(mockRunner)
		uc := &DittoUseCase{Runner: runner, Fs: identityFs(t), Dir: "/src/acme"}
		runner.On("Run", ctx, []string{"clone", "git@github.com:acme/widget.git", "widget"}).Return("", nil)
		runner.On("Run", ctx, []string{"-C", "widget", "config", "user.name", "Jo Bloggs"}).Return("", nil)
		runner.On("Run", ctx, []string{"-C", "widget", "config", "user.signingkey", "ABC123"}).Return("", nil)
		result, err := uc.Clone(ctx, "git@github.com:acme/widget.git")
		require.NoError(t, err)
		assert.Equal(t, "widget", result.Destination)
		assert.Equal(t, "/src/.git-ditto.toml", result.IdentityFile)
		assert.Equal(t, []IdentitySetting{
			{Key: "user.name", Value: "Jo Bloggs"},
			{Key: "user.signingkey", Value: "ABC123"},
		}, result.Applied)
		runner.AssertExpectations(t)
	})
	t.Run("Should not configure anything without an identity file", func(t *testing.T) {
		runner := new(mockRunner)
		fs := afero.NewMemMapFs()
		require.NoError(t, fs.MkdirAll("/tmp", 0o755))
		uc := &DittoUseCase{Runner: runner, Fs: fs, Dir: "/tmp"}
		runner.On("Run", ctx, []string{"clone", "https://github.com/acme/widget.git", "widget"}).Return("", nil)
		result, err := uc.Clone(ctx, "https://github.com/acme/widget.git")
		require.NoError(t, err)
		assert.Empty(t, result.Applied)
		runner.AssertNumberOfCalls(t, "Run", 1)
	})
	t.Run("Should fail when the clone fails", func(t *testing.T) {
		runner := new(mockRunner)
		uc := &DittoUseCase{Runner: runner, Fs: identityFs(t), Dir: "/src/acme"}
		runner.On("Run", ctx, []string{"clone", "git@github.com:acme/widget.git", "widget"}).Return("", errors.New("denied"))
		_, err := uc.Clone(ctx, "git@github.com:acme/widget.git")
		assert.ErrorContains(t, err, "denied")
	})
}

func TestDittoUseCase_Update(t *testing.T) {
	ctx := context.Background()
	t.Run("Should apply the identity to the current repository", func(t *testing.T) {
		gitRepo := new(mockGitRepository)
		uc := &DittoUseCase{Fs: identityFs(t), Dir: "/src/acme"}
		gitRepo.On("SetConfig", ctx, "user.name", "Jo Bloggs").Return(nil)
		gitRepo.On("SetConfig", ctx, "user.signingkey", "ABC123").Return(nil)
		result, err := uc.Update(ctx, gitRepo)
		require.NoError(t, err)
		assert.Len(t, result.Applied, 2)
		gitRepo.AssertExpectations(t)
	})
}
