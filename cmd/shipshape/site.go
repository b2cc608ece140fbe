package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/shipshapehq/shipshape/internal/config"
	"github.com/shipshapehq/shipshape/internal/engine"
	"github.com/shipshapehq/shipshape/internal/provider/site"
	"github.com/shipshapehq/shipshape/internal/report"
	shiperrors "github.com/shipshapehq/shipshape/pkg/errors"
)

type siteOptions struct {
	domain string
	region string
	target string
}

func newSiteCmd(root *rootFlags) *cobra.Command {
	opts := &siteOptions{}

	cmd := &cobra.Command{
		Use:   "site <subdomain>",
		Short: "Provision a static redirect service for a subdomain",
		Long: "Ensures the website bucket, redirect configuration, public-read policy " +
			"and DNS alias for <subdomain>.<domain> exist and match the policy.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSite(cmd, root, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.domain, "domain", "d", "", "Apex domain (default $SHIPSHAPE_DOMAIN)")
	cmd.Flags().StringVarP(&opts.region, "region", "r", "", "AWS region (default from policy)")
	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "Redirect target host (default the apex domain)")

	return cmd
}

func runSite(cmd *cobra.Command, root *rootFlags, opts *siteOptions, subdomain string) error {
	policy, err := root.loadPolicy()
	if err != nil {
		return err
	}

	log, err := root.newLogger()
	if err != nil {
		return err
	}

	sitePolicy, ref, err := resolveSiteRef(policy.Site, opts, subdomain)
	if err != nil {
		return err
	}

	client, err := site.NewClient(cmd.Context(), ref.Region)
	if err != nil {
		return err
	}
	checks := site.Checks(client, ref, sitePolicy)

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

// resolveSiteRef merges flags, environment and policy into the effective
// site policy and target reference. Flags win over the environment, which
// wins over the policy file.
func resolveSiteRef(policy config.SitePolicy, opts *siteOptions, subdomain string) (config.SitePolicy, site.Ref, error) {
	subdomain = strings.TrimSpace(subdomain)
	if subdomain == "" || strings.Contains(subdomain, ".") {
		return policy, site.Ref{}, shiperrors.NewInputError("subdomain",
			fmt.Sprintf("%q is not a bare subdomain label", subdomain), nil)
	}

	domain := policy.Domain
	if env := os.Getenv("SHIPSHAPE_DOMAIN"); env != "" {
		domain = env
	}
	if opts.domain != "" {
		domain = opts.domain
	}
	if domain == "" {
		return policy, site.Ref{}, shiperrors.NewInputError("domain",
			"no apex domain given: set --domain, SHIPSHAPE_DOMAIN or the policy's site.domain", nil)
	}
	policy.Domain = domain

	if opts.region != "" {
		policy.Region = opts.region
	}
	if opts.target != "" {
		policy.Target = opts.target
	}
	if policy.Target == "" {
		policy.Target = domain
	}

	if err := config.Validate(&config.Policy{Version: "1.0.0", Site: policy, Repo: config.Default().Repo}); err != nil {
		return policy, site.Ref{}, err
	}

	// Well-formed but unsupported regions must fail before any provider
	// call, not at the DNS check after the bucket writes.
	if err := site.ValidateRegion(policy.Region); err != nil {
		return policy, site.Ref{}, shiperrors.NewInputError("region", err.Error(), err)
	}

	ref := site.Ref{Subdomain: subdomain, Domain: domain, Region: policy.Region}
	return policy, ref, nil
}
