package usecase

import (
	"context"
	"fmt"
	"regexp"

	"github.com/ejfitzgerald/accoutrements/internal/config"
	"github.com/ejfitzgerald/accoutrements/internal/repository"
	"github.com/spf13/afero"
)

var cloneURLPattern = regexp.MustCompile(`[/:]([^/:]+?)(?:\.git)?/?$`)

// IdentitySetting is one git config value written by ditto.
type IdentitySetting struct {
	Key   string
	Value string
}

// DittoResult reports what ditto did.
type DittoResult struct {
	Destination  string
	IdentityFile string
	Applied      []IdentitySetting
}

// CloneDestination returns the directory `git clone url` creates.
func CloneDestination(url string) (string, error) {
	m := cloneURLPattern.FindStringSubmatch(url)
	if m == nil || m[1] == "" {
		return "", fmt.Errorf("unable to parse the clone url: %s", url)
	}
	return m[1], nil
}

// DittoUseCase clones repositories and stamps them with the identity from
// the nearest .git-ditto.toml.
type DittoUseCase struct {
	Runner repository.Runner
	Fs     afero.Fs
	Dir    string
}

// Clone clones url and applies the identity to the new repository.
func (uc *DittoUseCase) Clone(ctx context.Context, url string) (*DittoResult, error) {
	dest, err := CloneDestination(url)
	if err != nil {
		return nil, err
	}
	identity, path, err := config.LoadIdentity(uc.Fs, uc.Dir)
	if err != nil {
		return nil, err
	}
	if err := repository.Clone(ctx, uc.Runner, url, dest); err != nil {
		return nil, err
	}
	result := &DittoResult{Destination: dest, IdentityFile: path}
	result.Applied, err = applyIdentity(identity, func(key, value string) error {
		_, err := uc.Runner.Run(ctx, "-C", dest, "config", key, value)
		return err
	})
	return result, err
}

// Update applies the identity to the repository the runner points at.
func (uc *DittoUseCase) Update(ctx context.Context, gitRepo repository.GitRepository) (*DittoResult, error) {
	identity, path, err := config.LoadIdentity(uc.Fs, uc.Dir)
	if err != nil {
		return nil, err
	}
	result := &DittoResult{Destination: uc.Dir, IdentityFile: path}
	result.Applied, err = applyIdentity(identity, func(key, value string) error {
		return gitRepo.SetConfig(ctx, key, value)
	})
	return result, err
}

func applyIdentity(identity config.Identity, set func(key, value string) error) ([]IdentitySetting, error) {
	var applied []IdentitySetting
	for _, s := range []struct {
		key   string
		value *string
	}{
		{"user.name", identity.Name},
		{"user.email", identity.Email},
		{"user.signingkey", identity.SigningKey},
	} {
		if s.value == nil {
			continue
		}
		if err := set(s.key, *s.value); err != nil {
			return applied, fmt.Errorf("failed to set %s: %w", s.key, err)
		}
		applied = append(applied, IdentitySetting{Key: s.key, Value: *s.value})
	}
	return applied, nil
}
