package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shipshapehq/shipshape/internal/config"
	shiperrors "github.com/shipshapehq/shipshape/pkg/errors"
)

func TestResolveRepoRefExplicitOwner(t *testing.T) {
	ref, err := resolveRepoRef("acme/widgets")
	require.NoError(t, err)
	require.Equal(t, "acme", ref.Owner)
	require.Equal(t, "widgets", ref.Name)
}

func TestResolveRepoRefOwnerFromEnv(t *testing.T) {
	t.Setenv("SHIPSHAPE_OWNER", "acme")

	ref, err := resolveRepoRef("widgets")
	require.NoError(t, err)
	require.Equal(t, "acme", ref.Owner)
	require.Equal(t, "widgets", ref.Name)
}

func TestResolveRepoRefRejectsMalformedInput(t *testing.T) {
	for _, arg := range []string{"", "/widgets", "acme/", "a/b/c"} {
		_, err := resolveRepoRef(arg)

		var inputErr *shiperrors.InputError
		require.ErrorAs(t, err, &inputErr, "arg %q", arg)
		require.Equal(t, 2, exitCodeFor(err))
	}
}

func TestResolveRepoRefWithoutOwnerNeedsWorkingCopy(t *testing.T) {
	t.Setenv("SHIPSHAPE_OWNER", "")
	t.Chdir(t.TempDir())

	_, err := resolveRepoRef("widgets")

	var inputErr *shiperrors.InputError
	require.ErrorAs(t, err, &inputErr)
}

func TestResolveSiteRefPrecedence(t *testing.T) {
	t.Setenv("SHIPSHAPE_DOMAIN", "env.example.net")

	policy, ref, err := resolveSiteRef(config.Default().Site, &siteOptions{}, "docs")
	require.NoError(t, err)
	require.Equal(t, "env.example.net", policy.Domain)
	require.Equal(t, "docs.env.example.net", ref.Hostname())

	policy, ref, err = resolveSiteRef(config.Default().Site,
		&siteOptions{domain: "flag.example.net", region: "eu-west-1", target: "www.example.net"}, "docs")
	require.NoError(t, err)
	require.Equal(t, "flag.example.net", policy.Domain)
	require.Equal(t, "eu-west-1", policy.Region)
	require.Equal(t, "www.example.net", policy.Target)
	require.Equal(t, "docs.flag.example.net", ref.Hostname())
}

func TestResolveSiteRefDefaultsTargetToApex(t *testing.T) {
	_, ref, err := resolveSiteRef(config.Default().Site, &siteOptions{domain: "example.net"}, "docs")
	require.NoError(t, err)
	require.Equal(t, "docs.example.net", ref.Bucket())

	policy, _, err := resolveSiteRef(config.Default().Site, &siteOptions{domain: "example.net"}, "docs")
	require.NoError(t, err)
	require.Equal(t, "example.net", policy.Target)
}

func TestResolveSiteRefRejectsBadInput(t *testing.T) {
	t.Setenv("SHIPSHAPE_DOMAIN", "")

	_, _, err := resolveSiteRef(config.Default().Site, &siteOptions{}, "docs")
	var inputErr *shiperrors.InputError
	require.ErrorAs(t, err, &inputErr, "missing domain")

	_, _, err = resolveSiteRef(config.Default().Site, &siteOptions{domain: "example.net"}, "docs.www")
	require.ErrorAs(t, err, &inputErr, "dotted subdomain")

	_, _, err = resolveSiteRef(config.Default().Site,
		&siteOptions{domain: "example.net", region: "not a region"}, "docs")
	require.ErrorAs(t, err, &inputErr, "invalid region")
	require.Equal(t, 2, exitCodeFor(err))
}

func TestResolveSiteRefRejectsRegionWithoutWebsiteEndpoint(t *testing.T) {
	// "zz-fake-1" is shaped like a region but has no website endpoint; it
	// must be rejected before any provider client exists.
	_, _, err := resolveSiteRef(config.Default().Site,
		&siteOptions{domain: "example.net", region: "zz-fake-1"}, "docs")

	var inputErr *shiperrors.InputError
	require.ErrorAs(t, err, &inputErr)
	require.Equal(t, "region", inputErr.Field)
	require.Equal(t, 2, exitCodeFor(err))
}

func TestExitCodeFor(t *testing.T) {
	require.Equal(t, 2, exitCodeFor(shiperrors.NewParseError("policy.yaml", 3, errors.New("bad yaml"))))
	require.Equal(t, 2, exitCodeFor(shiperrors.NewInputError("domain", "missing", nil)))
	require.Equal(t, 1, exitCodeFor(shiperrors.NewAuthError("aws", errors.New("denied"))))
	require.Equal(t, 1, exitCodeFor(errors.New("anything else")))
}
