package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path"

	"github.com/google/go-github/v66/github"
)

// GitHubConfig, görsellerin commit edileceği repo.
type GitHubConfig struct {
	Owner   string
	Repo    string
	Branch  string
	BaseURL string // public URL öneki, boşsa site köküne göre relative
}

// GitHubStore, Contents API üzerinden dosya oluşturur, günceller ve siler.
type GitHubStore struct {
	client *github.Client
	cfg    GitHubConfig
}

// NewGitHubStore, token ile yetkilendirilmiş client üzerinden store kurar.
func NewGitHubStore(token string, cfg GitHubConfig) *GitHubStore {
	return NewGitHubStoreWithClient(github.NewClient(nil).WithAuthToken(token), cfg)
}

// NewGitHubStoreWithClient, hazır bir client ile store kurar (test sunucusu için).
func NewGitHubStoreWithClient(client *github.Client, cfg GitHubConfig) *GitHubStore {
	if cfg.Branch == "" {
		cfg.Branch = "main"
	}
	return &GitHubStore{client: client, cfg: cfg}
}

func (s *GitHubStore) Name() string { return "github" }

// Put, dosya varsa SHA'sını alıp günceller, yoksa oluşturur.
func (s *GitHubStore) Put(ctx context.Context, repoPath string, content []byte) (string, error) {
	repoPath, err := CheckPath(repoPath)
	if err != nil {
		return "", err
	}

	sha, err := s.currentSHA(ctx, repoPath)
	if err != nil && !errors.Is(err, ErrNotExist) {
		return "", err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String("Upload image: " + path.Base(repoPath)),
		Content: content,
		Branch:  github.String(s.cfg.Branch),
	}

	if sha != "" {
		opts.SHA = github.String(sha)
		_, _, err = s.client.Repositories.UpdateFile(ctx, s.cfg.Owner, s.cfg.Repo, repoPath, opts)
	} else {
		_, _, err = s.client.Repositories.CreateFile(ctx, s.cfg.Owner, s.cfg.Repo, repoPath, opts)
	}
	if err != nil {
		return "", fmt.Errorf("failed to commit %s: %w", repoPath, err)
	}

	return PublicURL(s.cfg.BaseURL, repoPath), nil
}

// Delete, dosyanın SHA'sını bulup siler.
func (s *GitHubStore) Delete(ctx context.Context, repoPath string) error {
	repoPath, err := CheckPath(repoPath)
	if err != nil {
		return err
	}

	sha, err := s.currentSHA(ctx, repoPath)
	if err != nil {
		return err
	}

	opts := &github.RepositoryContentFileOptions{
		Message: github.String("Delete image: " + repoPath),
		SHA:     github.String(sha),
		Branch:  github.String(s.cfg.Branch),
	}
	if _, _, err := s.client.Repositories.DeleteFile(ctx, s.cfg.Owner, s.cfg.Repo, repoPath, opts); err != nil {
		return fmt.Errorf("failed to delete %s: %w", repoPath, err)
	}
	return nil
}

func (s *GitHubStore) currentSHA(ctx context.Context, repoPath string) (string, error) {
	file, _, resp, err := s.client.Repositories.GetContents(ctx, s.cfg.Owner, s.cfg.Repo, repoPath,
		&github.RepositoryContentGetOptions{Ref: s.cfg.Branch})
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return "", fmt.Errorf("%w: %s", ErrNotExist, repoPath)
		}
		return "", fmt.Errorf("failed to look up %s: %w", repoPath, err)
	}
	if file == nil || file.GetSHA() == "" {
		// Yol bir dizine işaret ediyor.
		return "", fmt.Errorf("%w: %s", ErrNotExist, repoPath)
	}
	return file.GetSHA(), nil
}
