package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var showOutdatedOnly bool

//nolint:gochecknoglobals // required by cobra CLI pattern
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Report pinned versions without patching anything",
	Long: `Resolve the latest stable version of every tracked package and list
where each one is pinned across the configured repositories, flagging
the ones that are outdated. No file is modified and nothing is
committed.`,
	RunE: runCheck,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	checkCmd.Flags().BoolVar(
		&showOutdatedOnly, "outdated", false,
		"Show only outdated packages",
	)
	rootCmd.AddCommand(checkCmd)
}

func runCheck(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	svc, err := injectUpdateService(cfg)
	if err != nil {
		return err
	}

	summary, err := svc.Check(ctx, cfg)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PACKAGE\tCURRENT\tLATEST\tSTATUS")
	outdated := 0
	for _, report := range summary.Reports {
		status := "up to date"
		if report.NeedsUpdate {
			status = "OUTDATED"
			outdated++
		} else if showOutdatedOnly {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", report.Package, report.Current, report.Latest, status)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	fmt.Printf("\n%d pinned, %d outdated\n", len(summary.Reports), outdated)
	return nil
}
