package cmd

import (
	"context"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/depsync/domain"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the dependency synchronization engine",
	Long: `Resolve the latest stable version of every tracked package, patch
the manifests and workflow files of every configured repository,
and commit each changed file.

This is the main command intended to be used in a cronjob.`,
	RunE: runSync,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.AddCommand(runCmd)
}

func runSync(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := injectUpdateService(cfg)
	if err != nil {
		return err
	}

	logger.Info("Starting depsync run...")

	summary, err := svc.Run(ctx, cfg, domain.UpdateOptions{
		DryRun:  dryRun,
		Verbose: verbose,
	})
	if err != nil {
		return err
	}

	for _, record := range summary.Committed {
		logger.Infof(
			"Committed %s in %s via %s (%s)",
			record.FilePath, record.Repo, record.Strategy, record.CommitID,
		)
	}
	if summary.Errors > 0 {
		logger.Warnf("Run finished with %d errors", summary.Errors)
	}
	return nil
}
