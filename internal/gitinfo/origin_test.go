package gitinfo

import (
	"testing"

	git "github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteURL(t *testing.T) {
	cases := []struct {
		name  string
		url   string
		owner string
		repo  string
	}{
		{"https", "https://github.com/acme/widgets", "acme", "widgets"},
		{"https with .git", "https://github.com/acme/widgets.git", "acme", "widgets"},
		{"ssh scp style", "git@github.com:acme/widgets.git", "acme", "widgets"},
		{"ssh scheme", "ssh://git@github.com/acme/widgets.git", "acme", "widgets"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			origin, err := ParseRemoteURL(tc.url)
			require.NoError(t, err)
			require.Equal(t, tc.owner, origin.Owner)
			require.Equal(t, tc.repo, origin.Name)
		})
	}
}

func TestParseRemoteURLRejectsUnusableURLs(t *testing.T) {
	for _, url := range []string{"", "   ", "https://github.com/widgets", "ftp://example.com/a/b"} {
		_, err := ParseRemoteURL(url)
		require.Error(t, err, "url %q", url)
	}
}

func TestDetectReadsOriginRemote(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = repo.CreateRemote(&gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{"git@github.com:acme/widgets.git"},
	})
	require.NoError(t, err)

	origin, err := Detect(dir)
	require.NoError(t, err)
	require.Equal(t, "acme", origin.Owner)
	require.Equal(t, "widgets", origin.Name)
}

func TestDetectFailsWithoutOrigin(t *testing.T) {
	dir := t.TempDir()
	_, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	_, err = Detect(dir)
	require.Error(t, err)
}

func TestDetectFailsOutsideRepository(t *testing.T) {
	_, err := Detect(t.TempDir())
	require.Error(t, err)
}
