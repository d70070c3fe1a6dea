package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/spf13/viper"
)

const (
	configName = ".release-helper"
	envPrefix  = "RELEASE_HELPER"
)

var (
	remoteNameRegex = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)
	tagPrefixRegex  = regexp.MustCompile(`^[a-zA-Z0-9._/-]*$`)
	validLogLevels  = map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	validLogFormats = map[string]bool{"console": true, "json": true}
)

type Config struct {
	Remote      string          `mapstructure:"remote"`
	TagPrefix   string          `mapstructure:"tag_prefix"`
	Changelog   ChangelogConfig `mapstructure:"changelog"`
	Steps       StepsConfig     `mapstructure:"steps"`
	Author      AuthorConfig    `mapstructure:"author"`
	GithubToken string          `mapstructure:"github_token"`
	GithubOwner string          `mapstructure:"github_owner"`
	GithubRepo  string          `mapstructure:"github_repo"`
	GithubAPI   string          `mapstructure:"github_api_url"`
	StateDir    string          `mapstructure:"state_dir"`
	Log         LogConfig       `mapstructure:"log"`
}

// ChangelogConfig controls the changelog artifact.
type ChangelogConfig struct {
	File        string `mapstructure:"file"`
	IncludeDiff bool   `mapstructure:"include_diff"`
}

// StepsConfig selects which optional workflow steps run.
type StepsConfig struct {
	Push           bool `mapstructure:"push"`
	Changelog      bool `mapstructure:"changelog"`
	Confirm        bool `mapstructure:"confirm"`
	PublishRelease bool `mapstructure:"publish_release"`
}

// AuthorConfig overrides the signature used for commits and tags.
type AuthorConfig struct {
	Name  string `mapstructure:"name"`
	Email string `mapstructure:"email"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		Remote: "origin",
		Changelog: ChangelogConfig{
			File: "CHANGELOG.md",
		},
		Steps: StepsConfig{
			Push:      true,
			Changelog: true,
			Confirm:   true,
		},
		StateDir: ".release-helper",
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if !remoteNameRegex.MatchString(c.Remote) {
		return fmt.Errorf("invalid remote name: %q", c.Remote)
	}
	if !tagPrefixRegex.MatchString(c.TagPrefix) {
		return fmt.Errorf("invalid tag_prefix: %q", c.TagPrefix)
	}
	if err := validateRelativePath("changelog.file", c.Changelog.File); err != nil {
		return err
	}
	if err := validateRelativePath("state_dir", c.StateDir); err != nil {
		return err
	}
	if !validLogLevels[c.Log.Level] {
		return fmt.Errorf("unsupported log level: %s", c.Log.Level)
	}
	if !validLogFormats[c.Log.Format] {
		return fmt.Errorf("unsupported log format: %s", c.Log.Format)
	}
	return nil
}

// ValidateForGitHubOperations validates the GitHub token and target
// repository. Only publishing needs them, so Validate leaves them alone.
func (c *Config) ValidateForGitHubOperations() error {
	if c.GithubToken == "" {
		return fmt.Errorf("github_token is required for GitHub operations")
	}
	if err := ValidateGitHubToken(c.GithubToken); err != nil {
		return fmt.Errorf("invalid github_token: %w", err)
	}
	if err := ValidateGitHubOwnerRepo(c.GithubOwner, c.GithubRepo); err != nil {
		return fmt.Errorf("invalid github configuration: %w", err)
	}
	return c.Validate()
}

func validateRelativePath(key, p string) error {
	if p == "" {
		return fmt.Errorf("%s cannot be empty", key)
	}
	if filepath.IsAbs(p) {
		return fmt.Errorf("%s must be relative to the repository root", key)
	}
	if strings.Contains(p, "..") {
		return fmt.Errorf("%s contains invalid path traversal", key)
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

// LoadConfig reads configuration from configFile when given, otherwise from
// .release-helper.yaml in the search paths, then environment variables.
func LoadConfig(configFile string, searchPaths ...string) (*Config, error) {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(configName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// BindEnv allows multiple env vars - it will check them in order
	if err := v.BindEnv("github_token", "RELEASE_HELPER_GITHUB_TOKEN", "GITHUB_TOKEN"); err != nil {
		return nil, fmt.Errorf("failed to bind github_token env: %w", err)
	}
	if err := v.BindEnv("github_owner", "RELEASE_HELPER_GITHUB_OWNER", "GITHUB_OWNER"); err != nil {
		return nil, fmt.Errorf("failed to bind github_owner env: %w", err)
	}
	if err := v.BindEnv("github_repo", "RELEASE_HELPER_GITHUB_REPO", "GITHUB_REPO"); err != nil {
		return nil, fmt.Errorf("failed to bind github_repo env: %w", err)
	}
	if err := v.BindEnv("github_api_url", "RELEASE_HELPER_GITHUB_API_URL", "GITHUB_API_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind github_api_url env: %w", err)
	}
	setDefaults(v, DefaultConfig())
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if config.GithubToken != "" {
		// Best effort: owner and repo stay empty when they cannot be derived
		// and ValidateForGitHubOperations reports it when publishing.
		_ = populateRepositoryDefaults(&config)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &config, nil
}

func setDefaults(v *viper.Viper, d *Config) {
	v.SetDefault("remote", d.Remote)
	v.SetDefault("tag_prefix", d.TagPrefix)
	v.SetDefault("changelog.file", d.Changelog.File)
	v.SetDefault("changelog.include_diff", d.Changelog.IncludeDiff)
	v.SetDefault("steps.push", d.Steps.Push)
	v.SetDefault("steps.changelog", d.Steps.Changelog)
	v.SetDefault("steps.confirm", d.Steps.Confirm)
	v.SetDefault("steps.publish_release", d.Steps.PublishRelease)
	v.SetDefault("author.name", d.Author.Name)
	v.SetDefault("author.email", d.Author.Email)
	v.SetDefault("state_dir", d.StateDir)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.format", d.Log.Format)
}

// populateRepositoryDefaults fills GitHub owner/repo from the Actions
// environment or, failing that, from the configured remote's URL.
func populateRepositoryDefaults(cfg *Config) error {
	if cfg.GithubOwner == "" {
		cfg.GithubOwner = os.Getenv("GITHUB_REPOSITORY_OWNER")
	}
	if cfg.GithubRepo == "" {
		cfg.GithubRepo = os.Getenv("GITHUB_REPOSITORY_NAME")
	}
	if slug := os.Getenv("GITHUB_REPOSITORY"); slug != "" {
		if owner, repo, ok := strings.Cut(slug, "/"); ok {
			if cfg.GithubOwner == "" {
				cfg.GithubOwner = owner
			}
			if cfg.GithubRepo == "" {
				cfg.GithubRepo = repo
			}
		}
	}
	if cfg.GithubOwner != "" && cfg.GithubRepo != "" {
		return nil
	}
	remoteName := cfg.Remote
	if remoteName == "" {
		remoteName = "origin"
	}
	repo, err := git.PlainOpenWithOptions(".", &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return fmt.Errorf("failed to open git repository for github defaults: %w", err)
	}
	remote, err := repo.Remote(remoteName)
	if err != nil {
		return fmt.Errorf("failed to read remote %s: %w", remoteName, err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return fmt.Errorf("remote %s has no URL", remoteName)
	}
	owner, name, err := parseGitRemoteURL(urls[0])
	if err != nil {
		return err
	}
	if cfg.GithubOwner == "" {
		cfg.GithubOwner = owner
	}
	if cfg.GithubRepo == "" {
		cfg.GithubRepo = name
	}
	return nil
}

// parseGitRemoteURL extracts owner and repository from https, scp-like ssh
// and plain path remotes.
func parseGitRemoteURL(raw string) (string, string, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "/")
	s = strings.TrimSuffix(s, ".git")
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
		if slash := strings.Index(s, "/"); slash >= 0 {
			s = s[slash+1:]
		}
	} else if at := strings.Index(s, "@"); at >= 0 {
		if colon := strings.Index(s[at:], ":"); colon >= 0 {
			s = s[at+colon+1:]
		}
	}
	s = filepath.ToSlash(s)
	parts := strings.Split(strings.Trim(s, "/"), "/")
	if len(parts) < 2 || parts[len(parts)-2] == "" || parts[len(parts)-1] == "" {
		return "", "", fmt.Errorf("cannot derive owner/repo from remote URL %q", raw)
	}
	return parts[len(parts)-2], parts[len(parts)-1], nil
}
