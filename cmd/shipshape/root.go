package main

import (
	"github.com/spf13/cobra"

	"github.com/shipshapehq/shipshape/internal/config"
	"github.com/shipshapehq/shipshape/internal/logger"
)

type rootFlags struct {
	verbose    bool
	dryRun     bool
	jsonOutput bool
	policyPath string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:           "shipshape",
		Short:         "Shipshape reconciles repositories and redirect services against a declared policy",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVar(&flags.dryRun, "dry-run", false, "Report divergence without writing anything")
	cmd.PersistentFlags().BoolVar(&flags.jsonOutput, "json", false, "Output the report in JSON format")
	cmd.PersistentFlags().StringVarP(&flags.policyPath, "policy", "p", "", "Path to a policy file overriding the defaults")

	cmd.AddCommand(newRepoCmd(flags))
	cmd.AddCommand(newSiteCmd(flags))
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// loadPolicy returns the effective policy: defaults alone, or defaults with
// the policy file layered on top.
func (f *rootFlags) loadPolicy() (*config.Policy, error) {
	if f.policyPath == "" {
		return config.Default(), nil
	}
	return config.ParsePolicy(f.policyPath)
}

func (f *rootFlags) newLogger() (*logger.Logger, error) {
	level := "info"
	if f.verbose {
		level = "debug"
	}
	return logger.New(logger.Options{Level: level, HumanReadable: true})
}
