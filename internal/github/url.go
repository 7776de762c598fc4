package github

import (
	"regexp"
	"strings"

	appErr "github.com/Drago-03/Documentation.AI/internal/pkg/errors"
)

// RepoRef identifies a repository on github.com.
type RepoRef struct {
	Owner string `json:"owner"`
	Repo  string `json:"repo"`
}

func (r RepoRef) String() string {
	return r.Owner + "/" + r.Repo
}

// Tried in order; the first match wins. The host is matched case-sensitively.
var urlPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^https://github\.com/([^/]+)/([^/]+)(?:\.git)?/?$`),
	regexp.MustCompile(`^git@github\.com:([^/]+)/([^/]+)\.git$`),
	regexp.MustCompile(`^github\.com/([^/]+)/([^/]+)/?$`),
}

// ParseURL extracts owner and repository from the https, ssh and bare-domain forms.
func ParseURL(raw string) (RepoRef, error) {
	cleaned := strings.TrimRight(strings.TrimSpace(raw), "/")
	for _, pattern := range urlPatterns {
		m := pattern.FindStringSubmatch(cleaned)
		if m == nil {
			continue
		}
		repo := strings.TrimSuffix(m[2], ".git")
		if m[1] == "" || repo == "" {
			continue
		}
		return RepoRef{Owner: m[1], Repo: repo}, nil
	}
	return RepoRef{}, appErr.Invalidf("Invalid GitHub repository URL: %s", cleaned)
}
