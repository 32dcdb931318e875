// Package config loads the depsync configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	logger "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration for depsync.
type Config struct {
	GitHub       GitHubConfig       `yaml:"github"`
	Registry     RegistryConfig     `yaml:"registry"`
	Packages     []PackageConfig    `yaml:"packages"`
	Repositories []RepositoryConfig `yaml:"repositories"`
}

// GitHubConfig holds the remote commit API settings.
type GitHubConfig struct {
	Token string `yaml:"token"` // Inline, ${ENV_VAR}, or file path
}

// RegistryConfig holds the package index settings.
type RegistryConfig struct {
	BaseURL string `yaml:"base_url"` // Empty selects the public crates.io index
}

// PackageConfig describes one tracked package.
type PackageConfig struct {
	Name string `yaml:"name"`

	// PatchWorkflows enables rewriting this package's version literal inside
	// the managed workflow files' sed patterns.
	PatchWorkflows bool `yaml:"patch_workflows"`
}

// RepositoryConfig describes a single managed repository.
type RepositoryConfig struct {
	Name      string   `yaml:"name"`      // Slug, e.g. "my-org/evo-king"
	Path      string   `yaml:"path"`      // Local checkout root
	Manifests []string `yaml:"manifests"` // Manifest files that may pin tracked packages
	Workflows []string `yaml:"workflows"` // Workflow files carrying sed version patterns
}

// envVarPattern matches ${VAR_NAME} placeholders.
var envVarPattern = regexp.MustCompile(`\$\{([^}]+)}`)

// Load reads and parses a configuration file, expanding environment variables
// and resolving token file paths.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	var cfg Config
	if unmarshalErr := yaml.Unmarshal(data, &cfg); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", unmarshalErr)
	}

	cfg.GitHub.Token = resolveToken(cfg.GitHub.Token)

	if validateErr := validate(&cfg); validateErr != nil {
		return nil, validateErr
	}

	return &cfg, nil
}

// FindConfigFile searches for a configuration file in standard locations.
// Returns the path to the first file found or an error if none is found.
func FindConfigFile() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}

	locations := []string{
		".",
		".config",
		"configs",
	}
	if homeDir != "" {
		locations = append(
			locations,
			homeDir,
			filepath.Join(homeDir, ".config"),
		)
	}

	patterns := []string{
		".depsync.yaml",
		".depsync.yml",
		"depsync.yaml",
		"depsync.yml",
	}

	for _, loc := range locations {
		for _, pat := range patterns {
			p := filepath.Join(loc, pat)
			if _, statErr := os.Stat(p); statErr == nil {
				return p, nil
			}
		}
	}

	return "", errors.New("config file not found in default locations")
}

// resolveToken expands environment variable references (${VAR}) and, if the
// resulting string is a path to an existing file, reads the token from the file.
func resolveToken(raw string) string {
	if raw == "" {
		return raw
	}

	resolved := envVarPattern.ReplaceAllStringFunc(raw, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		if val := os.Getenv(varName); val != "" {
			return val
		}
		logger.Warnf("Environment variable %q is not set", varName)
		return ""
	})

	if _, statErr := os.Stat(resolved); statErr == nil {
		data, readErr := os.ReadFile(resolved)
		if readErr != nil {
			logger.Warnf("Failed to read token file %q: %v", resolved, readErr)
			return resolved
		}
		logger.Infof("Read token from file %q", resolved)
		return strings.TrimSpace(string(data))
	}

	return resolved
}

// validate checks for required configuration values.
func validate(cfg *Config) error {
	if cfg.GitHub.Token == "" {
		return errors.New("github.token is required (set inline, via ${ENV_VAR}, or as file path)")
	}

	if len(cfg.Packages) == 0 {
		return errors.New("at least one tracked package must be configured")
	}
	for i, p := range cfg.Packages {
		if p.Name == "" {
			return fmt.Errorf("packages[%d].name is required", i)
		}
	}

	if len(cfg.Repositories) == 0 {
		return errors.New("at least one repository must be configured")
	}
	for i, r := range cfg.Repositories {
		if r.Name == "" {
			return fmt.Errorf("repositories[%d].name is required", i)
		}
		if r.Path == "" {
			return fmt.Errorf("repositories[%d].path is required", i)
		}
	}

	return nil
}
