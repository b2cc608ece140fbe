package gitinfo

import (
	"fmt"
	"regexp"
	"strings"

	git "github.com/go-git/go-git/v5"
)

// Origin identifies the repository the current working copy was cloned from.
type Origin struct {
	Owner string
	Name  string
}

var sshRemotePattern = regexp.MustCompile(`^(?:ssh://)?git@[^:/]+[:/](?P<owner>[^/]+)/(?P<name>[^/]+?)(?:\.git)?$`)

// Detect opens the working copy at dir and derives owner/name from its
// origin remote. It never touches the network.
func Detect(dir string) (*Origin, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("open working copy: %w", err)
	}

	remote, err := repo.Remote("origin")
	if err != nil {
		return nil, fmt.Errorf("no origin remote: %w", err)
	}

	urls := remote.Config().URLs
	if len(urls) == 0 {
		return nil, fmt.Errorf("origin remote has no URL")
	}

	return ParseRemoteURL(urls[0])
}

// ParseRemoteURL extracts owner/name from an https or ssh git remote URL.
func ParseRemoteURL(raw string) (*Origin, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fmt.Errorf("empty remote URL")
	}

	if m := sshRemotePattern.FindStringSubmatch(raw); m != nil {
		return &Origin{Owner: m[1], Name: m[2]}, nil
	}

	if strings.HasPrefix(raw, "http://") || strings.HasPrefix(raw, "https://") {
		trimmed := strings.TrimSuffix(raw, "/")
		trimmed = strings.TrimSuffix(trimmed, ".git")
		// scheme + empty + host + owner + name
		parts := strings.Split(trimmed, "/")
		if len(parts) >= 5 {
			owner := parts[len(parts)-2]
			name := parts[len(parts)-1]
			if owner != "" && name != "" {
				return &Origin{Owner: owner, Name: name}, nil
			}
		}
	}

	return nil, fmt.Errorf("cannot derive owner/name from remote URL %q", raw)
}
