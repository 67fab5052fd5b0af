package domain

import (
	"fmt"
	"regexp"
	"strings"
)

var refNameRegex = regexp.MustCompile(`^[a-zA-Z0-9._/+-]+$`)

// ValidateBranchName rejects names git would refuse or that would be
// ambiguous on the command line.
func ValidateBranchName(branch string) error {
	if err := validateRefName("branch", branch); err != nil {
		return err
	}
	if strings.HasPrefix(branch, "/") || strings.HasSuffix(branch, "/") {
		return fmt.Errorf("branch name cannot start or end with slash: %s", branch)
	}
	if strings.Contains(branch, "//") {
		return fmt.Errorf("branch name cannot contain empty path components: %s", branch)
	}
	return nil
}

// ValidateTagName applies the same ref rules to a tag.
func ValidateTagName(tag string) error {
	if err := validateRefName("tag", tag); err != nil {
		return err
	}
	if strings.Contains(tag, "/") {
		return fmt.Errorf("tag name cannot contain a slash: %s", tag)
	}
	return nil
}

func validateRefName(kind, name string) error {
	if name == "" {
		return fmt.Errorf("%s name cannot be empty", kind)
	}
	if len(name) > 255 {
		return fmt.Errorf("%s name too long: %d characters (max: 255)", kind, len(name))
	}
	if strings.HasPrefix(name, "-") {
		return fmt.Errorf("%s name cannot start with a dash: %s", kind, name)
	}
	if strings.Contains(name, "..") {
		return fmt.Errorf("%s name cannot contain consecutive dots: %s", kind, name)
	}
	if strings.HasSuffix(name, ".lock") || strings.HasSuffix(name, ".") {
		return fmt.Errorf("%s name cannot end with .lock or a dot: %s", kind, name)
	}
	if !refNameRegex.MatchString(name) {
		return fmt.Errorf("invalid %s name format: %s", kind, name)
	}
	return nil
}
