package repo

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v61/github"

	shiperrors "github.com/shipshapehq/shipshape/pkg/errors"
)

// Ref identifies the governed repository. It is constructed once at startup
// from CLI input and never mutated.
type Ref struct {
	Owner  string
	Name   string
	Branch string
}

func (r Ref) String() string {
	return r.Owner + "/" + r.Name
}

// NewClient builds a GitHub API client. An empty token yields an
// unauthenticated client, which the first check will reject with an
// AuthError as soon as the provider requires credentials.
func NewClient(token string) *github.Client {
	client := github.NewClient(nil)
	if token != "" {
		client = client.WithAuthToken(token)
	}
	return client
}

// apiStatus extracts the HTTP status from a go-github error, or 0.
func apiStatus(err error) int {
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return ghErr.Response.StatusCode
	}
	return 0
}

// classify maps provider errors onto the run's error taxonomy. Credential
// rejections become AuthErrors so the runner aborts the whole run.
func classify(err error) error {
	switch apiStatus(err) {
	case http.StatusUnauthorized, http.StatusForbidden:
		return shiperrors.NewAuthError("github", err)
	}
	return fmt.Errorf("github: %w", err)
}

// isNotFound reports whether the error is a plain 404.
func isNotFound(err error) bool {
	return apiStatus(err) == http.StatusNotFound
}
