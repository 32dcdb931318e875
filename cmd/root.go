// Package cmd wires the depsync CLI.
package cmd

import (
	"github.com/spf13/cobra"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	// Global flags
	configPath string
	dryRun     bool
	verbose    bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:   "depsync",
	Short: "Fleet-wide dependency version synchronizer",
	Long: `A CLI tool that keeps a fleet of repositories pinned to the latest
stable version of shared packages.

It queries the package index for each tracked package, patches the
version pinned in every managed manifest (preserving formatting and
comments), rewrites version literals embedded in CI workflow sed
patterns, and commits each changed file - through the hosting
provider's contents API when possible, through a local checkout
otherwise.`,
}

func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().StringVarP(
		&configPath, "config", "c", "",
		"Path to config file (default: auto-detect)",
	)
	rootCmd.PersistentFlags().BoolVar(
		&dryRun, "dry-run", false,
		"Show what would be committed without making changes",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable verbose output",
	)
}
