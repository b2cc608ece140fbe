package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorFormatting(t *testing.T) {
	err := NewParseError("policy.yaml", 12, fmt.Errorf("bad indentation"))
	require.EqualError(t, err, "parse error: policy.yaml:12: bad indentation")

	err = NewParseError("policy.yaml", 0, fmt.Errorf("unexpected end of stream"))
	require.EqualError(t, err, "parse error: policy.yaml: unexpected end of stream")
}

func TestInputErrorFormatting(t *testing.T) {
	err := NewInputError("repository", "expected owner/name", nil)
	require.EqualError(t, err, "invalid input: repository: expected owner/name")

	err = NewInputError("", "missing required identifier", nil)
	require.EqualError(t, err, "invalid input: missing required identifier")
}

func TestAuthErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("401 bad credentials")
	err := NewAuthError("github", cause)

	require.EqualError(t, err, "authentication failed [github]: 401 bad credentials")
	require.ErrorIs(t, err, cause)

	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
	require.Equal(t, "github", authErr.Provider)
}

func TestPrerequisiteErrorUnwrap(t *testing.T) {
	cause := fmt.Errorf("repository not found")
	err := NewPrerequisiteError("repository", cause)

	require.EqualError(t, err, "prerequisite repository failed: repository not found")
	require.ErrorIs(t, err, cause)
}

func TestApplyErrorWrapping(t *testing.T) {
	cause := fmt.Errorf("422 validation failed")
	err := fmt.Errorf("check run: %w", NewApplyError("branch-protection", cause))

	var applyErr *ApplyError
	require.ErrorAs(t, err, &applyErr)
	require.Equal(t, "branch-protection", applyErr.CheckID)
	require.ErrorIs(t, err, cause)
}

func TestNilReceiversAreSafe(t *testing.T) {
	var parseErr *ParseError
	var authErr *AuthError

	require.Equal(t, "", parseErr.Error())
	require.NoError(t, errors.Unwrap(error(authErr)))
}
