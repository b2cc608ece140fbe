package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	shiperrors "github.com/shipshapehq/shipshape/pkg/errors"
)

func writePolicy(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestParsePolicyLayersOverDefaults(t *testing.T) {
	path := writePolicy(t, `
version: "1.0.0"
repo:
  branch: main
  auto_merge: true
  delete_branch_on_merge: true
  workflow: .github/workflows/ci.yml
  protection:
    required_reviews: 2
site:
  region: eu-west-1
  protocol: https
`)

	policy, err := ParsePolicy(path)
	require.NoError(t, err)

	require.Equal(t, 2, policy.Repo.Protection.RequiredReviews)
	require.Equal(t, "eu-west-1", policy.Site.Region)
	// Untouched fields keep their defaults.
	require.Equal(t, "main", policy.Repo.Branch)
	require.True(t, policy.Repo.Protection.EnforceAdmins)
	require.False(t, policy.Repo.Protection.AllowForcePushes)
	require.False(t, policy.Repo.Protection.AllowDeletions)
}

func TestParsePolicyMissingFile(t *testing.T) {
	_, err := ParsePolicy(filepath.Join(t.TempDir(), "nope.yaml"))

	var parseErr *shiperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParsePolicyMalformedYAML(t *testing.T) {
	path := writePolicy(t, "repo: [broken")

	_, err := ParsePolicy(path)
	var parseErr *shiperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
}

func TestParsePolicyRejectsUnknownKey(t *testing.T) {
	// A typo'd key must fail the parse, not silently keep the default.
	path := writePolicy(t, `
repo:
  auto_merg: false
`)

	_, err := ParsePolicy(path)
	var parseErr *shiperrors.ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Contains(t, err.Error(), "auto_merg")
}

func TestParsePolicyEmptyFileKeepsDefaults(t *testing.T) {
	path := writePolicy(t, "")

	policy, err := ParsePolicy(path)
	require.NoError(t, err)
	require.Equal(t, Default(), policy)
}

func TestParsePolicyRejectsBadRegion(t *testing.T) {
	path := writePolicy(t, `
site:
  region: mars-central-9000
`)

	_, err := ParsePolicy(path)
	var inputErr *shiperrors.InputError
	require.ErrorAs(t, err, &inputErr)
	require.Contains(t, inputErr.Field, "Site.Region")
}

func TestParsePolicyRejectsWorkflowOutsideWorkflowsDir(t *testing.T) {
	path := writePolicy(t, `
repo:
  workflow: ci.yml
`)

	_, err := ParsePolicy(path)
	var inputErr *shiperrors.InputError
	require.ErrorAs(t, err, &inputErr)
}

func TestDefaultPolicyIsValid(t *testing.T) {
	require.NoError(t, Validate(Default()))
}

func TestValidateRejectsReviewCountOutOfRange(t *testing.T) {
	policy := Default()
	policy.Repo.Protection.RequiredReviews = 10

	require.Error(t, Validate(policy))
}
