package config

// Policy is the desired-state document for both pipelines. Every field has a
// built-in default so the CLI works without a policy file; a file supplied
// with --policy overrides only the fields it mentions.
type Policy struct {
	Version string     `yaml:"version" validate:"required,semver"`
	Repo    RepoPolicy `yaml:"repo"`
	Site    SitePolicy `yaml:"site"`
}

// RepoPolicy declares the governed repository settings.
type RepoPolicy struct {
	// Branch is the branch protected by the protection ruleset.
	Branch string `yaml:"branch" validate:"required,min=1,max=250"`

	// AutoMerge enables the repository's allow-auto-merge flag.
	AutoMerge bool `yaml:"auto_merge"`

	// DeleteBranchOnMerge enables automatic head-branch deletion.
	DeleteBranchOnMerge bool `yaml:"delete_branch_on_merge"`

	// Protection is the full branch-protection ruleset applied on divergence.
	Protection ProtectionPolicy `yaml:"protection"`

	// Workflow is the workflow file whose presence is checked (advisory).
	Workflow string `yaml:"workflow" validate:"required,workflow_path"`
}

// ProtectionPolicy mirrors the provider's branch-protection ruleset shape.
// It is always written in full, overwriting any partial prior configuration.
type ProtectionPolicy struct {
	RequiredReviews  int  `yaml:"required_reviews" validate:"min=0,max=6"`
	EnforceAdmins    bool `yaml:"enforce_admins"`
	AllowForcePushes bool `yaml:"allow_force_pushes"`
	AllowDeletions   bool `yaml:"allow_deletions"`
}

// SitePolicy declares the redirect service's desired state.
type SitePolicy struct {
	// Region is the AWS region hosting the redirect bucket.
	Region string `yaml:"region" validate:"required,aws_region"`

	// Domain is the apex domain the subdomain is created under. Usually
	// supplied via flag or SHIPSHAPE_DOMAIN rather than the policy file.
	Domain string `yaml:"domain" validate:"omitempty,hostname_rfc1123"`

	// Target is the host all requests are redirected to. Defaults to the
	// apex domain when empty.
	Target string `yaml:"target" validate:"omitempty,hostname_rfc1123"`

	// Protocol is the redirect scheme.
	Protocol string `yaml:"protocol" validate:"required,oneof=http https"`
}

// Default returns the built-in baseline policy.
func Default() *Policy {
	return &Policy{
		Version: "1.0.0",
		Repo: RepoPolicy{
			Branch:              "main",
			AutoMerge:           true,
			DeleteBranchOnMerge: true,
			Protection: ProtectionPolicy{
				RequiredReviews:  1,
				EnforceAdmins:    true,
				AllowForcePushes: false,
				AllowDeletions:   false,
			},
			Workflow: ".github/workflows/ci.yml",
		},
		Site: SitePolicy{
			Region:   "us-east-1",
			Protocol: "https",
		},
	}
}
