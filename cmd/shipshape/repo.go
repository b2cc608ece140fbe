package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipshapehq/shipshape/internal/engine"
	"github.com/shipshapehq/shipshape/internal/gitinfo"
	"github.com/shipshapehq/shipshape/internal/provider/repo"
	"github.com/shipshapehq/shipshape/internal/report"
	shiperrors "github.com/shipshapehq/shipshape/pkg/errors"
)

type repoOptions struct {
	branch string
}

func newRepoCmd(root *rootFlags) *cobra.Command {
	opts := &repoOptions{}

	cmd := &cobra.Command{
		Use:   "repo [owner/]name",
		Short: "Reconcile a GitHub repository's governance settings",
		Long: "Ensures auto-merge, head-branch deletion and branch protection match " +
			"the policy, and warns when the CI workflow file is missing.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRepo(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.branch, "branch", "b", "", "Branch to protect (default from policy)")

	return cmd
}

func runRepo(cmd *cobra.Command, root *rootFlags, opts *repoOptions, arg string) error {
	policy, err := root.loadPolicy()
	if err != nil {
		return err
	}

	log, err := root.newLogger()
	if err != nil {
		return err
	}

	ref, err := resolveRepoRef(arg)
	if err != nil {
		return err
	}

	ref.Branch = policy.Repo.Branch
	if opts.branch != "" {
		ref.Branch = opts.branch
	}

	client := repo.NewClient(os.Getenv("GITHUB_TOKEN"))
	checks := repo.Checks(client, ref, policy.Repo)

	runner := engine.NewRunner(log, root.dryRun)
	result, runErr := runner.Run(cmd.Context(), ref.String(), checks)

	if err := report.Render(cmd.OutOrStdout(), result, root.jsonOutput); err != nil {
		return err
	}
	if runErr != nil {
		return runErr
	}
	if result.ExitCode() != 0 {
		return fmt.Errorf("%d of %d checks did not reach the desired state",
			result.Failed+result.Skipped, len(result.Results))
	}
	return nil
}

// resolveRepoRef turns the positional argument into an owner/name pair. A
// bare name falls back to SHIPSHAPE_OWNER, then to the origin remote of the
// current working copy.
func resolveRepoRef(arg string) (repo.Ref, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return repo.Ref{}, shiperrors.NewInputError("repository", "repository name is empty", nil)
	}

	if strings.Contains(arg, "/") {
		parts := strings.SplitN(arg, "/", 2)
		if parts[0] == "" || parts[1] == "" || strings.Contains(parts[1], "/") {
			return repo.Ref{}, shiperrors.NewInputError("repository",
				fmt.Sprintf("%q is not of the form owner/name", arg), nil)
		}
		return repo.Ref{Owner: parts[0], Name: parts[1]}, nil
	}

	if owner := os.Getenv("SHIPSHAPE_OWNER"); owner != "" {
		return repo.Ref{Owner: owner, Name: arg}, nil
	}

	origin, err := gitinfo.Detect(".")
	if err != nil {
		return repo.Ref{}, shiperrors.NewInputError("repository",
			"no owner given, SHIPSHAPE_OWNER is unset and the working copy has no usable origin remote", err)
	}
	return repo.Ref{Owner: origin.Owner, Name: arg}, nil
}
