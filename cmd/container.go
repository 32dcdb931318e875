package cmd

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/rios0rios0/depsync/application"
	"github.com/rios0rios0/depsync/config"
	"github.com/rios0rios0/depsync/infrastructure/committer"
	"github.com/rios0rios0/depsync/infrastructure/registry"
)

// loadConfig resolves the config file (flag first, then auto-detect) and
// loads it.
func loadConfig() (*config.Config, error) {
	cfgPath := configPath
	if cfgPath == "" {
		var err error
		cfgPath, err = config.FindConfigFile()
		if err != nil {
			return nil, fmt.Errorf(
				"no config file found: %w\nSpecify one with --config or create depsync.yaml",
				err,
			)
		}
	}

	logger.Infof("Using config file: %s", cfgPath)

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// injectUpdateService assembles the service graph for the loaded config.
func injectUpdateService(cfg *config.Config) (*application.UpdateService, error) {
	container := dig.New()

	providers := []any{
		func() *config.Config { return cfg },
		func(c *config.Config) application.VersionSource {
			return registry.NewClient(c.Registry.BaseURL)
		},
		func(c *config.Config) committer.ContentStore {
			return committer.NewGitHubStore(c.GitHub.Token)
		},
		committer.NewCLIGitRunner,
		func(store committer.ContentStore, git committer.GitRunner) application.FileCommitter {
			return committer.New(store, git)
		},
		application.NewUpdateService,
	}
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return nil, fmt.Errorf("failed to register provider: %w", err)
		}
	}

	var svc *application.UpdateService
	if err := container.Invoke(func(s *application.UpdateService) {
		svc = s
	}); err != nil {
		return nil, fmt.Errorf("failed to build service: %w", err)
	}
	return svc, nil
}
