package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateBranchName(t *testing.T) {
	t.Run("Should accept development branch names", func(t *testing.T) {
		for _, name := range []string{"feature/login-page", "fix/JIRA-12", "chore/bump_deps", "main"} {
			assert.NoError(t, ValidateBranchName(name), name)
		}
	})
	t.Run("Should reject invalid branch names", func(t *testing.T) {
		for _, name := range []string{
			"", "/feature", "feature/", "feature//x", "a..b", "x.lock", "-rf", "has space", "tilde~1",
			strings.Repeat("a", 256),
		} {
			assert.Error(t, ValidateBranchName(name), name)
		}
	})
}

func TestValidateTagName(t *testing.T) {
	t.Run("Should accept version tags", func(t *testing.T) {
		assert.NoError(t, ValidateTagName("v1.2.3-rc1"))
		assert.NoError(t, ValidateTagName("release-2024"))
	})
	t.Run("Should reject invalid tags", func(t *testing.T) {
		assert.Error(t, ValidateTagName("v1/2"))
		assert.Error(t, ValidateTagName("--force"))
		assert.Error(t, ValidateTagName(""))
	})
}
