package store

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Kris2339/MEO-PayDay/internal/logging"
	"github.com/google/go-github/v66/github"
)

// Defaults for the GitHub backend.
const (
	DefaultGitHubPath   = "market_products.json"
	DefaultGitHubBranch = "main"

	commitMessagePrefix = "마켓 상품명 업데이트 - "
	commitTimeLayout    = "2006-01-02 15:04:05"
)

// GitHubConfig locates the list inside a repository.
type GitHubConfig struct {
	Token  string
	Repo   string // owner/name
	Path   string
	Branch string
	// BaseURL overrides the API endpoint, e.g. for GitHub Enterprise. Must end in "/".
	BaseURL string
}

// Configured reports whether a token and a repository are set.
func (c GitHubConfig) Configured() bool {
	return c.Token != "" && c.Repo != ""
}

// GitHubStore keeps the list in a repository file through the contents API.
// The revision is the blob SHA of the file.
type GitHubStore struct {
	cfg    GitHubConfig
	owner  string
	repo   string
	client *github.Client
	logger logging.Logger
	now    func() time.Time
}

// NewGitHubStore returns a GitHub-backed store. An unconfigured store loads an
// empty list and fails every save with ErrStoreNotConfigured.
func NewGitHubStore(cfg GitHubConfig, logger logging.Logger) (*GitHubStore, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultGitHubPath
	}
	if cfg.Branch == "" {
		cfg.Branch = DefaultGitHubBranch
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	s := &GitHubStore{cfg: cfg, logger: logger, now: time.Now}
	if !cfg.Configured() {
		return s, nil
	}

	owner, repo, ok := strings.Cut(cfg.Repo, "/")
	if !ok || owner == "" || repo == "" {
		return nil, fmt.Errorf("invalid GitHub repository %q (expected owner/name)", cfg.Repo)
	}
	s.owner, s.repo = owner, repo

	s.client = github.NewClient(nil).WithAuthToken(cfg.Token)
	if cfg.BaseURL != "" {
		u, err := url.Parse(cfg.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("invalid GitHub base URL: %w", err)
		}
		s.client.BaseURL = u
	}
	return s, nil
}

// Name implements Store.
func (s *GitHubStore) Name() string { return BackendGitHub }

// Load implements Store.
func (s *GitHubStore) Load(ctx context.Context) ([]string, string, error) {
	if s.client == nil {
		s.logger.Warn("GitHub store not configured, using empty market list")
		return []string{}, "", nil
	}

	content, sha, err := s.fetch(ctx)
	if err != nil {
		return nil, "", err
	}
	if sha == "" {
		return []string{}, "", nil
	}
	items, err := Decode([]byte(content))
	if err != nil {
		return nil, "", err
	}
	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(items)},
		logging.Field{Key: logging.FieldRevision, Value: sha},
	).Debug("Loaded market list from GitHub")
	return items, sha, nil
}

// Save implements Store. With an empty revision the current blob SHA is looked
// up first, so a missing local revision never blocks the first write.
func (s *GitHubStore) Save(ctx context.Context, items []string, revision string) (string, error) {
	if s.client == nil {
		return "", ErrStoreNotConfigured
	}

	data, err := Encode(items)
	if err != nil {
		return "", err
	}

	sha := revision
	if sha == "" {
		if _, sha, err = s.fetch(ctx); err != nil {
			return "", err
		}
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String(commitMessagePrefix + s.now().Format(commitTimeLayout)),
		Content: data,
		Branch:  github.String(s.cfg.Branch),
	}

	var res *github.RepositoryContentResponse
	var resp *github.Response
	if sha == "" {
		res, resp, err = s.client.Repositories.CreateFile(ctx, s.owner, s.repo, s.cfg.Path, opts)
	} else {
		opts.SHA = github.String(sha)
		res, resp, err = s.client.Repositories.UpdateFile(ctx, s.owner, s.repo, s.cfg.Path, opts)
	}
	if err != nil {
		if isConflict(resp, err) {
			return "", ErrRevisionConflict
		}
		return "", fmt.Errorf("failed to update %s on GitHub: %w", s.cfg.Path, err)
	}

	newSHA := ""
	if res != nil && res.Content != nil {
		newSHA = res.Content.GetSHA()
	}
	s.logger.WithFields(
		logging.Field{Key: logging.FieldCount, Value: len(items)},
		logging.Field{Key: logging.FieldRevision, Value: newSHA},
	).Info("Saved market list to GitHub")
	return newSHA, nil
}

// fetch returns the decoded file content and blob SHA; both are "" when the file is absent.
func (s *GitHubStore) fetch(ctx context.Context) (string, string, error) {
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.owner, s.repo, s.cfg.Path,
		&github.RepositoryContentGetOptions{Ref: s.cfg.Branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", "", nil
		}
		return "", "", fmt.Errorf("failed to fetch %s from GitHub: %w", s.cfg.Path, err)
	}
	if file == nil {
		return "", "", fmt.Errorf("%s is a directory, not a file", s.cfg.Path)
	}
	content, err := file.GetContent()
	if err != nil {
		return "", "", fmt.Errorf("failed to decode %s: %w", s.cfg.Path, err)
	}
	return content, file.GetSHA(), nil
}

func isConflict(resp *github.Response, err error) bool {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		status = ghErr.Response.StatusCode
	}
	return status == http.StatusConflict || status == http.StatusUnprocessableEntity
}
