package config

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ejfitzgerald/accoutrements/internal/domain"
	"github.com/gobwas/glob"
	"github.com/spf13/viper"
)

type Config struct {
	GitPath           string   `mapstructure:"git_path"`
	Remotes           []string `mapstructure:"remotes"`
	TrunkBranches     []string `mapstructure:"trunk_branches"`
	DevelopBranch     string   `mapstructure:"develop_branch"`
	PushRemote        string   `mapstructure:"push_remote"`
	ProtectedBranches []string `mapstructure:"protected_branches"`
	InitialVersion    string   `mapstructure:"initial_version"`
	DefaultMode       string   `mapstructure:"default_mode"`
	StateDir          string   `mapstructure:"state_dir"`
	GithubToken       string   `mapstructure:"github_token"`
	GithubOwner       string   `mapstructure:"github_owner"`
	GithubRepo        string   `mapstructure:"github_repo"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Remotes:           []string{"upstream", "origin"},
		TrunkBranches:     []string{"master", "main", "trunk"},
		DevelopBranch:     "develop",
		PushRemote:        "origin",
		ProtectedBranches: []string{"master", "main", "trunk", "develop", "release/*"},
		InitialVersion:    "v0.0.0",
		DefaultMode:       "patch",
		StateDir:          ".release-state",
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Remotes) == 0 {
		return fmt.Errorf("remotes cannot be empty")
	}
	if len(c.TrunkBranches) == 0 {
		return fmt.Errorf("trunk_branches cannot be empty")
	}
	for _, pattern := range c.ProtectedBranches {
		if _, err := glob.Compile(pattern, '/'); err != nil {
			return fmt.Errorf("invalid protected_branches pattern %q: %w", pattern, err)
		}
	}
	if !domain.IsMode(c.DefaultMode) {
		return fmt.Errorf("default_mode %q is not a version mode", c.DefaultMode)
	}
	if c.StateDir == "" {
		return fmt.Errorf("state_dir cannot be empty")
	}
	if strings.Contains(c.StateDir, "..") {
		return fmt.Errorf("state_dir contains invalid path traversal")
	}
	if c.GithubToken != "" {
		if err := ValidateGitHubToken(c.GithubToken); err != nil {
			return fmt.Errorf("invalid github_token: %w", err)
		}
	}
	if c.GithubOwner != "" || c.GithubRepo != "" {
		if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
			return fmt.Errorf("invalid github configuration: %w", err)
		}
	}
	return nil
}

// ValidateGitHubToken validates GitHub token format (exported for reuse)
func ValidateGitHubToken(token string) error {
	token = strings.TrimSpace(token)
	if len(token) < 40 {
		return fmt.Errorf("token too short: expected at least 40 characters")
	}
	classicPAT := regexp.MustCompile(`^[a-fA-F0-9]{40}$`)
	fineGrainedPAT := regexp.MustCompile(`^github_pat_[a-zA-Z0-9_]{82}$`)
	appToken := regexp.MustCompile(`^ghs_[a-zA-Z0-9]{36}$`)
	oauthToken := regexp.MustCompile(`^gho_[a-zA-Z0-9]{36}$`)
	personalToken := regexp.MustCompile(`^ghp_[a-zA-Z0-9]{36}$`)
	if !classicPAT.MatchString(token) &&
		!fineGrainedPAT.MatchString(token) &&
		!appToken.MatchString(token) &&
		!oauthToken.MatchString(token) &&
		!personalToken.MatchString(token) {
		return fmt.Errorf("invalid token format")
	}
	return nil
}

// ValidateGitHubOwnerRepo validates GitHub owner and repository names (exported for reuse)
func ValidateGitHubOwnerRepo(owner, repo string) error {
	if owner == "" {
		return fmt.Errorf("owner cannot be empty")
	}
	if repo == "" {
		return fmt.Errorf("repository cannot be empty")
	}
	validName := regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9\-_.]*[a-zA-Z0-9]$|^[a-zA-Z0-9]$`)
	if !validName.MatchString(owner) {
		return fmt.Errorf("invalid owner format: %s", owner)
	}
	if len(owner) > 39 {
		return fmt.Errorf("owner too long: maximum 39 characters")
	}
	if !validName.MatchString(repo) {
		return fmt.Errorf("invalid repository format: %s", repo)
	}
	if len(repo) > 100 {
		return fmt.Errorf("repository too long: maximum 100 characters")
	}
	return nil
}

// LoadConfig reads .accoutrements.yaml from dir, overlaid with environment
// variables.
func LoadConfig(dir string) (*Config, error) {
	v := viper.New()
	v.SetConfigName(".accoutrements")
	v.SetConfigType("yaml")
	v.AddConfigPath(dir)
	v.SetEnvPrefix("ACCOUTREMENTS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	// BindEnv checks the listed variables in order
	if err := v.BindEnv("github_token", "GITHUB_TOKEN", "ACCOUTREMENTS_GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	if err := v.BindEnv("git_path", "GIT_PATH", "ACCOUTREMENTS_GIT_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind git_path env: %w", err)
	}
	if err := v.BindEnv("initial_version", "INITIAL_VERSION", "ACCOUTREMENTS_INITIAL_VERSION"); err != nil {
		return nil, fmt.Errorf("failed to bind initial_version env: %w", err)
	}
	defaults := DefaultConfig()
	v.SetDefault("remotes", defaults.Remotes)
	v.SetDefault("trunk_branches", defaults.TrunkBranches)
	v.SetDefault("develop_branch", defaults.DevelopBranch)
	v.SetDefault("push_remote", defaults.PushRemote)
	v.SetDefault("protected_branches", defaults.ProtectedBranches)
	v.SetDefault("initial_version", defaults.InitialVersion)
	v.SetDefault("default_mode", defaults.DefaultMode)
	v.SetDefault("state_dir", defaults.StateDir)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}
