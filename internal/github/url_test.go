package github

import (
	"testing"

	"github.com/stretchr/testify/require"

	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
)

func TestParseURL(t *testing.T) {
	cases := []struct {
		in    string
		owner string
		repo  string
	}{
		{in: "https://github.com/octocat/Hello-World", owner: "octocat", repo: "Hello-World"},
		{in: "https://github.com/octocat/Hello-World/", owner: "octocat", repo: "Hello-World"},
		{in: "https://github.com/octocat/Hello-World.git", owner: "octocat", repo: "Hello-World"},
		{in: "  https://github.com/acme/widget  ", owner: "acme", repo: "widget"},
		{in: "git@github.com:acme/widget.git", owner: "acme", repo: "widget"},
		{in: "github.com/acme/widget", owner: "acme", repo: "widget"},
		{in: "github.com/acme/widget.git", owner: "acme", repo: "widget"},
	}
	for _, tc := range cases {
		ref, err := ParseURL(tc.in)
		require.NoError(t, err, tc.in)
		require.Equal(t, tc.owner, ref.Owner, tc.in)
		require.Equal(t, tc.repo, ref.Repo, tc.in)
	}
}

func TestParseURL_Rejects(t *testing.T) {
	for _, in := range []string{
		"",
		"not a url",
		"https://gitlab.com/acme/widget",
		"https://github.com/acme",
		"https://github.com/acme/widget/tree/main",
		"git@github.com:acme/widget",
		"https://GitHub.com/acme/widget",
	} {
		_, err := ParseURL(in)
		require.Error(t, err, in)
		require.ErrorIs(t, err, appErr.ErrInvalid, in)
	}
}

func TestRepoRefString(t *testing.T) {
	require.Equal(t, "acme/widget", RepoRef{Owner: "acme", Repo: "widget"}.String())
}

func TestParseURL_ErrorMessage(t *testing.T) {
	_, err := ParseURL("  https://gitlab.com/acme/widget/ ")
	require.EqualError(t, err, "Invalid GitHub repository URL: https://gitlab.com/acme/widget")
}
