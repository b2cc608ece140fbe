package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/go-github/v61/github"

	"github.com/shipshapehq/shipshape/internal/config"
	"github.com/shipshapehq/shipshape/internal/engine"
	"github.com/shipshapehq/shipshape/internal/model"
)

// Checks returns the ordered governance checks for one repository. The
// repository check is a prerequisite for everything after it; the workflow
// check is advisory.
func Checks(client *github.Client, ref Ref, policy config.RepoPolicy) []engine.Check {
	return []engine.Check{
		&repositoryCheck{client: client, ref: ref},
		&autoMergeCheck{client: client, ref: ref, policy: policy},
		&branchProtectionCheck{client: client, ref: ref, policy: policy.Protection},
		&workflowCheck{client: client, ref: ref, path: policy.Workflow},
	}
}

// repositoryCheck verifies the target repository exists before any
// sub-resource is touched.
type repositoryCheck struct {
	client *github.Client
	ref    Ref
}

func (c *repositoryCheck) Metadata() engine.CheckMetadata {
	return engine.CheckMetadata{
		ID:      "repository",
		Summary: "target repository exists",
		Prereq:  true,
	}
}

func (c *repositoryCheck) Evaluate(ctx context.Context) (*model.Evaluation, error) {
	_, _, err := c.client.Repositories.Get(ctx, c.ref.Owner, c.ref.Name)
	if err != nil {
		if isNotFound(err) {
			return &model.Evaluation{
				State:   model.StateAbsent,
				Message: fmt.Sprintf("repository %s does not exist", c.ref),
			}, nil
		}
		return nil, classify(err)
	}

	return &model.Evaluation{
		State:   model.StateSatisfied,
		Message: fmt.Sprintf("repository %s exists", c.ref),
	}, nil
}

func (c *repositoryCheck) Apply(ctx context.Context, eval *model.Evaluation) error {
	return errors.New("repository creation is out of scope")
}

// autoMergeCheck governs the repository merge-behavior flags. The two flags
// are one property: they are always written together in full.
type autoMergeCheck struct {
	client *github.Client
	ref    Ref
	policy config.RepoPolicy
}

func (c *autoMergeCheck) Metadata() engine.CheckMetadata {
	return engine.CheckMetadata{
		ID:      "auto-merge",
		Summary: "auto-merge and branch cleanup flags",
	}
}

func (c *autoMergeCheck) Evaluate(ctx context.Context) (*model.Evaluation, error) {
	repository, _, err := c.client.Repositories.Get(ctx, c.ref.Owner, c.ref.Name)
	if err != nil {
		return nil, classify(err)
	}

	if repository.GetAllowAutoMerge() == c.policy.AutoMerge &&
		repository.GetDeleteBranchOnMerge() == c.policy.DeleteBranchOnMerge {
		return &model.Evaluation{
			State:   model.StateSatisfied,
			Message: fmt.Sprintf("auto_merge=%t delete_branch_on_merge=%t", c.policy.AutoMerge, c.policy.DeleteBranchOnMerge),
		}, nil
	}

	return &model.Evaluation{
		State: model.StateDivergent,
		Message: fmt.Sprintf("auto_merge %t -> %t, delete_branch_on_merge %t -> %t",
			repository.GetAllowAutoMerge(), c.policy.AutoMerge,
			repository.GetDeleteBranchOnMerge(), c.policy.DeleteBranchOnMerge),
	}, nil
}

func (c *autoMergeCheck) Apply(ctx context.Context, eval *model.Evaluation) error {
	_, _, err := c.client.Repositories.Edit(ctx, c.ref.Owner, c.ref.Name, &github.Repository{
		AllowAutoMerge:      github.Bool(c.policy.AutoMerge),
		DeleteBranchOnMerge: github.Bool(c.policy.DeleteBranchOnMerge),
	})
	if err != nil {
		return classify(err)
	}
	return nil
}

// branchProtectionCheck governs the protection ruleset for the policy
// branch. The desired ruleset is always written in full, overwriting any
// partial prior configuration.
type branchProtectionCheck struct {
	client *github.Client
	ref    Ref
	policy config.ProtectionPolicy
}

func (c *branchProtectionCheck) Metadata() engine.CheckMetadata {
	return engine.CheckMetadata{
		ID:      "branch-protection",
		Summary: "branch protection ruleset",
	}
}

func (c *branchProtectionCheck) Evaluate(ctx context.Context) (*model.Evaluation, error) {
	protection, _, err := c.client.Repositories.GetBranchProtection(ctx, c.ref.Owner, c.ref.Name, c.ref.Branch)
	if err != nil {
		// An unprotected branch is "not yet configured", not an error.
		if isNotFound(err) || errors.Is(err, github.ErrBranchNotProtected) {
			return &model.Evaluation{
				State:   model.StateDivergent,
				Message: fmt.Sprintf("branch %s is not protected", c.ref.Branch),
			}, nil
		}
		return nil, classify(err)
	}

	if c.matches(protection) {
		return &model.Evaluation{
			State:   model.StateSatisfied,
			Message: fmt.Sprintf("branch %s protection matches policy", c.ref.Branch),
		}, nil
	}

	return &model.Evaluation{
		State:   model.StateDivergent,
		Message: fmt.Sprintf("branch %s protection diverges from policy", c.ref.Branch),
	}, nil
}

func (c *branchProtectionCheck) matches(p *github.Protection) bool {
	forcePushes := p.GetAllowForcePushes()
	if (forcePushes != nil && forcePushes.Enabled) != c.policy.AllowForcePushes {
		return false
	}
	deletions := p.GetAllowDeletions()
	if (deletions != nil && deletions.Enabled) != c.policy.AllowDeletions {
		return false
	}
	admins := p.GetEnforceAdmins()
	if (admins != nil && admins.Enabled) != c.policy.EnforceAdmins {
		return false
	}

	reviews := p.GetRequiredPullRequestReviews()
	if c.policy.RequiredReviews == 0 {
		return reviews == nil
	}
	return reviews != nil && reviews.RequiredApprovingReviewCount == c.policy.RequiredReviews
}

func (c *branchProtectionCheck) Apply(ctx context.Context, eval *model.Evaluation) error {
	request := &github.ProtectionRequest{
		// Null placeholders keep unconfigured sub-rules unset on the
		// provider side.
		RequiredStatusChecks: nil,
		Restrictions:         nil,
		EnforceAdmins:        c.policy.EnforceAdmins,
		AllowForcePushes:     github.Bool(c.policy.AllowForcePushes),
		AllowDeletions:       github.Bool(c.policy.AllowDeletions),
	}
	if c.policy.RequiredReviews > 0 {
		request.RequiredPullRequestReviews = &github.PullRequestReviewsEnforcementRequest{
			RequiredApprovingReviewCount: c.policy.RequiredReviews,
		}
	}

	_, _, err := c.client.Repositories.UpdateBranchProtection(ctx, c.ref.Owner, c.ref.Name, c.ref.Branch, request)
	if err != nil {
		return classify(err)
	}
	return nil
}

// workflowCheck reports whether the expected CI workflow file is present.
// It is advisory: shipshape cannot author a meaningful workflow, so absence
// is surfaced as guidance instead of being reconciled.
type workflowCheck struct {
	client *github.Client
	ref    Ref
	path   string
}

func (c *workflowCheck) Metadata() engine.CheckMetadata {
	return engine.CheckMetadata{
		ID:       "workflow",
		Summary:  "CI workflow file present",
		Advisory: true,
	}
}

func (c *workflowCheck) Evaluate(ctx context.Context) (*model.Evaluation, error) {
	opts := &github.RepositoryContentGetOptions{Ref: c.ref.Branch}
	_, _, _, err := c.client.Repositories.GetContents(ctx, c.ref.Owner, c.ref.Name, c.path, opts)
	if err != nil {
		if isNotFound(err) {
			return &model.Evaluation{
				State:   model.StateAbsent,
				Message: fmt.Sprintf("workflow %s not found on %s", c.path, c.ref.Branch),
				Guidance: fmt.Sprintf("commit %s to %s so required checks have something to run",
					c.path, c.ref),
			}, nil
		}
		return nil, classify(err)
	}

	return &model.Evaluation{
		State:   model.StateSatisfied,
		Message: fmt.Sprintf("workflow %s present", c.path),
	}, nil
}

func (c *workflowCheck) Apply(ctx context.Context, eval *model.Evaluation) error {
	return errors.New("workflow files are not managed by shipshape")
}
