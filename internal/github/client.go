package github

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v57/github"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/Drago-03/Documentation.AI/internal/model"
)

const defaultTimeout = 30 * time.Second

// Manifest and entry-point files whose contents feed the code analysis.
var (
	ManifestFiles   = []string{"package.json", "requirements.txt", "setup.py", "Cargo.toml", "go.mod", "build.gradle"}
	EntryPointFiles = []string{
		"main.py", "app.py", "server.py", "index.py",
		"index.js", "app.js", "server.js", "main.js",
		"Main.java", "Application.java",
		"main.go", "main.rs", "main.cpp",
	}
)

const maxContentFiles = 10

// Entry is one item of the depth-1 contents listing.
type Entry struct {
	Name string `json:"name"`
	Path string `json:"path"`
	Type string `json:"type"`
	Size int    `json:"size"`
}

// Snapshot is everything fetched for one repository.
type Snapshot struct {
	Ref       RepoRef
	Info      model.RepositoryInfo
	Languages map[string]int
	Entries   []Entry
	Contents  map[string]string
}

type options struct {
	token      string
	baseURL    string
	rps        int
	timeout    time.Duration
	httpClient *http.Client
}

type Option func(*options)

func WithToken(token string) Option {
	return func(o *options) {
		o.token = strings.TrimSpace(token)
	}
}

// WithBaseURL points the client at a GitHub Enterprise or test server.
func WithBaseURL(baseURL string) Option {
	return func(o *options) {
		o.baseURL = strings.TrimSpace(baseURL)
	}
}

// WithRateLimit caps outgoing requests per second. Zero disables the limiter.
func WithRateLimit(requestsPerSecond int) Option {
	return func(o *options) {
		o.rps = requestsPerSecond
	}
}

func WithTimeout(timeout time.Duration) Option {
	return func(o *options) {
		o.timeout = timeout
	}
}

func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

type Client struct {
	gh       *gh.Client
	limiter  *rate.Limiter
	hasToken bool
}

func NewClient(opts ...Option) (*Client, error) {
	o := &options{timeout: defaultTimeout}
	for _, opt := range opts {
		opt(o)
	}
	httpClient := o.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: o.timeout}
	}
	if o.token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
		tc := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: o.token}))
		tc.Timeout = httpClient.Timeout
		httpClient = tc
	}
	client := gh.NewClient(httpClient)
	if o.baseURL != "" {
		base := o.baseURL
		if !strings.HasSuffix(base, "/") {
			base += "/"
		}
		u, err := url.Parse(base)
		if err != nil {
			return nil, fmt.Errorf("parse github base url: %w", err)
		}
		client.BaseURL = u
	}
	c := &Client{gh: client, hasToken: o.token != ""}
	if o.rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(o.rps), o.rps)
	}
	return c, nil
}

// Authenticated reports whether requests carry a token.
func (c *Client) Authenticated() bool {
	return c.hasToken
}

// Fetch loads repository metadata, the language breakdown, the root listing and
// the contents of manifest and entry-point files. Only the metadata call is fatal.
func (c *Client) Fetch(ctx context.Context, ref RepoRef) (*Snapshot, error) {
	logger := logutil.GetLogger(ctx).With(zap.String("repo", ref.String()))
	info, err := c.repository(ctx, ref)
	if err != nil {
		return nil, err
	}
	snap := &Snapshot{Ref: ref, Info: *info, Contents: map[string]string{}}

	languages, err := c.languages(ctx, ref)
	if err != nil {
		logger.Warn("list languages failed, falling back to extensions", zap.Error(err))
	} else {
		snap.Languages = languages
	}

	entries, err := c.listing(ctx, ref)
	if err != nil {
		logger.Warn("list contents failed", zap.Error(err))
	}
	snap.Entries = entries

	for _, name := range contentCandidates(entries) {
		content, err := c.fileContent(ctx, ref, name)
		if err != nil {
			logger.Warn("fetch file content failed", zap.String("file", name), zap.Error(err))
			continue
		}
		snap.Contents[name] = content
	}
	logger.Debug("repository fetched",
		zap.Int("entries", len(snap.Entries)),
		zap.Int("languages", len(snap.Languages)),
		zap.Int("contents", len(snap.Contents)),
	)
	return snap, nil
}

func (c *Client) wait(ctx context.Context) error {
	if c.limiter == nil {
		return nil
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("github rate limit wait: %w", err)
	}
	return nil
}

func (c *Client) repository(ctx context.Context, ref RepoRef) (*model.RepositoryInfo, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	repo, resp, err := c.gh.Repositories.Get(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return nil, classifyError("repos/"+ref.String(), resp, err)
	}
	return toRepositoryInfo(ref, repo), nil
}

func (c *Client) languages(ctx context.Context, ref RepoRef) (map[string]int, error) {
	if err := c.wait(ctx); err != nil {
		return nil, err
	}
	languages, resp, err := c.gh.Repositories.ListLanguages(ctx, ref.Owner, ref.Repo)
	if err != nil {
		return nil, classifyError("repos/"+ref.String()+"/languages", resp, err)
	}
	return languages, nil
}

func (c *Client) listing(ctx context.Context, ref RepoRef) ([]Entry, error) {
	if err := c.wait(ctx); err != nil {
		return []Entry{}, err
	}
	_, dir, resp, err := c.gh.Repositories.GetContents(ctx, ref.Owner, ref.Repo, "", nil)
	if err != nil {
		return []Entry{}, classifyError("repos/"+ref.String()+"/contents", resp, err)
	}
	entries := make([]Entry, 0, len(dir))
	for _, item := range dir {
		if item == nil {
			continue
		}
		entries = append(entries, Entry{
			Name: item.GetName(),
			Path: item.GetPath(),
			Type: item.GetType(),
			Size: item.GetSize(),
		})
	}
	return entries, nil
}

func (c *Client) fileContent(ctx context.Context, ref RepoRef, path string) (string, error) {
	if err := c.wait(ctx); err != nil {
		return "", err
	}
	file, _, resp, err := c.gh.Repositories.GetContents(ctx, ref.Owner, ref.Repo, path, nil)
	if err != nil {
		return "", classifyError("repos/"+ref.String()+"/contents/"+path, resp, err)
	}
	if file == nil {
		return "", fmt.Errorf("%s is a directory", path)
	}
	return file.GetContent()
}

func classifyError(endpoint string, resp *gh.Response, err error) error {
	if resp != nil && resp.Response != nil {
		if resp.StatusCode == http.StatusNotFound {
			return ErrRepositoryNotFound
		}
		return &APIError{StatusCode: resp.StatusCode, Endpoint: endpoint, Err: err}
	}
	return fmt.Errorf("request %s: %w", endpoint, err)
}

// contentCandidates picks manifest files first, then entry points, capped at maxContentFiles.
func contentCandidates(entries []Entry) []string {
	present := make(map[string]bool, len(entries))
	for _, e := range entries {
		if e.Type == "file" {
			present[e.Name] = true
		}
	}
	out := make([]string, 0, maxContentFiles)
	for _, group := range [][]string{ManifestFiles, EntryPointFiles} {
		for _, name := range group {
			if len(out) >= maxContentFiles {
				return out
			}
			if present[name] {
				out = append(out, name)
			}
		}
	}
	return out
}

func toRepositoryInfo(ref RepoRef, repo *gh.Repository) *model.RepositoryInfo {
	info := &model.RepositoryInfo{
		Name:            repo.GetName(),
		Owner:           ref.Owner,
		FullName:        repo.GetFullName(),
		Description:     repo.GetDescription(),
		HTMLURL:         repo.GetHTMLURL(),
		CloneURL:        repo.GetCloneURL(),
		Language:        repo.GetLanguage(),
		StargazersCount: repo.GetStargazersCount(),
		ForksCount:      repo.GetForksCount(),
		OpenIssuesCount: repo.GetOpenIssuesCount(),
		Topics:          repo.Topics,
	}
	if info.Name == "" {
		info.Name = ref.Repo
	}
	if info.Topics == nil {
		info.Topics = []string{}
	}
	if ts := repo.GetCreatedAt(); !ts.Time.IsZero() {
		info.CreatedAt = ts.Time.UTC().Format(time.RFC3339)
	}
	if ts := repo.GetUpdatedAt(); !ts.Time.IsZero() {
		info.UpdatedAt = ts.Time.UTC().Format(time.RFC3339)
	}
	if lic := repo.GetLicense(); lic != nil && lic.GetName() != "" {
		name := lic.GetName()
		info.License = &name
	}
	return info
}
