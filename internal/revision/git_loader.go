// Package revision loads deck snapshots out of git history.
package revision

import (
	"strings"
	"time"

	"github.com/haierkeys/deck-diff/internal/domain"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// GitLoader implements domain.RevisionLoader over a local git worktree.
type GitLoader struct {
	repo   *git.Repository
	logger *zap.Logger
}

// NewGitLoader opens the repository at path.
func NewGitLoader(path string, logger *zap.Logger) (*GitLoader, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open git repository %s", path)
	}
	return &GitLoader{repo: repo, logger: logger}, nil
}

func (l *GitLoader) commit(revision string) (*object.Commit, error) {
	hash, err := l.repo.ResolveRevision(plumbing.Revision(revision))
	if err != nil {
		return nil, errors.Wrapf(err, "resolve revision %s", revision)
	}
	commit, err := l.repo.CommitObject(*hash)
	if err != nil {
		return nil, errors.Wrapf(err, "load commit %s", hash)
	}
	return commit, nil
}

// Load returns the content of path at revision, domain.ErrNotFound when
// the file does not exist there.
func (l *GitLoader) Load(path string, revision string) ([]byte, error) {
	commit, err := l.commit(revision)
	if err != nil {
		return nil, err
	}
	file, err := commit.File(path)
	if err != nil {
		if errors.Is(err, object.ErrFileNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, errors.Wrapf(err, "read %s at %s", path, revision)
	}
	content, err := file.Contents()
	if err != nil {
		return nil, errors.Wrapf(err, "read %s at %s", path, revision)
	}
	l.logger.Debug("snapshot loaded",
		zap.String("path", path),
		zap.String("revision", revision),
		zap.Int("size", len(content)))
	return []byte(content), nil
}

// ParentRevision resolves the first parent of revision,
// domain.ErrNoParentRevision for a root commit.
func (l *GitLoader) ParentRevision(revision string) (string, error) {
	commit, err := l.commit(revision)
	if err != nil {
		return "", err
	}
	if commit.NumParents() == 0 {
		return "", domain.ErrNoParentRevision
	}
	return commit.ParentHashes[0].String(), nil
}

// CommitInfo returns display metadata for revision.
func (l *GitLoader) CommitInfo(revision string) (*domain.CommitInfo, error) {
	commit, err := l.commit(revision)
	if err != nil {
		return nil, err
	}
	hash := commit.Hash.String()
	return &domain.CommitInfo{
		Hash:      hash,
		ShortHash: hash[:8],
		Message:   strings.TrimSpace(commit.Message),
		Author:    commit.Author.Name,
		Email:     commit.Author.Email,
		Date:      commit.Author.When.Format(time.RFC3339),
	}, nil
}
