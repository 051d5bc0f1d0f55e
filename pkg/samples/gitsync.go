package samples

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
)

// GitSyncConfig configures gallery syncing from a git repository.
type GitSyncConfig struct {
	// URL is the repository to clone.
	URL string

	// Branch is the branch to track.
	Branch string

	// Dir is the local checkout path, also the gallery directory.
	Dir string

	// Interval is how often to pull.
	Interval time.Duration
}

// GitSyncer keeps the gallery directory in sync with a git
// repository, reloading the gallery when a pull brings changes.
type GitSyncer struct {
	config  GitSyncConfig
	gallery *Gallery
	logger  *slog.Logger
	repo    *gogit.Repository
}

// NewGitSyncer creates a syncer for the gallery.
func NewGitSyncer(cfg GitSyncConfig, gallery *Gallery) (*GitSyncer, error) {
	if cfg.URL == "" {
		return nil, fmt.Errorf("repository URL cannot be empty")
	}
	if cfg.Branch == "" {
		return nil, fmt.Errorf("branch cannot be empty")
	}
	return &GitSyncer{
		config:  cfg,
		gallery: gallery,
		logger:  slog.Default().With("component", "samples.gitsync"),
	}, nil
}

// Clone performs the initial clone, or opens an existing checkout.
func (s *GitSyncer) Clone(ctx context.Context) error {
	gitDir := filepath.Join(s.config.Dir, ".git")
	if _, err := os.Stat(gitDir); err == nil {
		repo, err := gogit.PlainOpen(s.config.Dir)
		if err != nil {
			return fmt.Errorf("opening existing checkout: %w", err)
		}
		s.repo = repo
		return nil
	}

	if err := os.MkdirAll(s.config.Dir, 0o755); err != nil {
		return fmt.Errorf("creating gallery directory: %w", err)
	}

	repo, err := gogit.PlainCloneContext(ctx, s.config.Dir, false, &gogit.CloneOptions{
		URL:           s.config.URL,
		ReferenceName: plumbing.NewBranchReferenceName(s.config.Branch),
		SingleBranch:  true,
	})
	if err != nil {
		return fmt.Errorf("cloning sample gallery: %w", err)
	}
	s.repo = repo

	s.logger.Info("sample gallery cloned", "url", s.config.URL, "branch", s.config.Branch)
	return nil
}

// Run pulls on the configured interval until the context is
// cancelled. Clone must have been called first.
func (s *GitSyncer) Run(ctx context.Context) error {
	if s.repo == nil {
		return fmt.Errorf("gallery not cloned, call Clone first")
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sample gallery sync stopped")
			return nil
		case <-ticker.C:
			if err := s.pull(ctx); err != nil {
				s.logger.Error("sample gallery pull failed", "error", err)
			}
		}
	}
}

func (s *GitSyncer) pull(ctx context.Context) error {
	head, err := s.repo.Head()
	if err != nil {
		return fmt.Errorf("reading HEAD: %w", err)
	}
	before := head.Hash()

	worktree, err := s.repo.Worktree()
	if err != nil {
		return fmt.Errorf("getting worktree: %w", err)
	}

	err = worktree.PullContext(ctx, &gogit.PullOptions{RemoteName: "origin"})
	if err == gogit.NoErrAlreadyUpToDate {
		return nil
	}
	if err != nil {
		return fmt.Errorf("pulling: %w", err)
	}

	head, err = s.repo.Head()
	if err != nil {
		return fmt.Errorf("reading new HEAD: %w", err)
	}
	if head.Hash() != before {
		s.logger.Info("sample gallery updated",
			"from", before.String()[:8],
			"to", head.Hash().String()[:8],
		)
		if err := s.gallery.Load(); err != nil {
			return fmt.Errorf("reloading gallery: %w", err)
		}
	}
	return nil
}
