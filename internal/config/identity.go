package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/spf13/viper"
)

// IdentityFileName is looked up in the working directory and every parent.
const IdentityFileName = ".git-ditto.toml"

// Identity is the committer identity applied to a clone. Nil fields are left
// untouched in the repository configuration.
type Identity struct {
	Name       *string
	Email      *string
	SigningKey *string
}

// HasUpdates reports whether any field is set.
func (i Identity) HasUpdates() bool {
	return i.Name != nil || i.Email != nil || i.SigningKey != nil
}

// FindIdentityFile walks up from dir and returns the first identity file, or
// an empty path when none exists.
func FindIdentityFile(fs afero.Fs, dir string) (string, error) {
	current, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	for {
		candidate := filepath.Join(current, IdentityFileName)
		_, err := fs.Stat(candidate)
		if err == nil {
			return candidate, nil
		}
		if !os.IsNotExist(err) {
			return "", fmt.Errorf("failed to check %s: %w", candidate, err)
		}
		parent := filepath.Dir(current)
		if parent == current {
			return "", nil
		}
		current = parent
	}
}

// LoadIdentity reads the identity file nearest to dir. A missing file yields
// an empty Identity.
func LoadIdentity(fs afero.Fs, dir string) (Identity, string, error) {
	path, err := FindIdentityFile(fs, dir)
	if err != nil || path == "" {
		return Identity{}, "", err
	}
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return Identity{}, path, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var id Identity
	if v.IsSet("user.name") {
		id.Name = stringPtr(v.GetString("user.name"))
	}
	if v.IsSet("user.email") {
		id.Email = stringPtr(v.GetString("user.email"))
	}
	if v.IsSet("user.signingkey") {
		id.SigningKey = stringPtr(v.GetString("user.signingkey"))
	}
	return id, path, nil
}

func stringPtr(s string) *string {
	return &s
}
