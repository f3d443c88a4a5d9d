package revision

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/haierkeys/deck-diff/internal/domain"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func commitFile(t *testing.T, repo *git.Repository, dir, name, content, message string) string {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add(name)
	require.NoError(t, err)
	hash, err := wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Tester",
			Email: "tester@example.com",
			When:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
		},
	})
	require.NoError(t, err)
	return hash.String()
}

func newTestRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	return repo, dir
}

func TestLoadAtRevisions(t *testing.T) {
	repo, dir := newTestRepo(t)
	first := commitFile(t, repo, dir, "deck.json", `{"name":"v1"}`, "initial snapshot")
	second := commitFile(t, repo, dir, "deck.json", `{"name":"v2"}`, "update snapshot")

	loader, err := NewGitLoader(dir, zap.NewNop())
	require.NoError(t, err)

	head, err := loader.Load("deck.json", "HEAD")
	require.NoError(t, err)
	assert.Equal(t, `{"name":"v2"}`, string(head))

	atSecond, err := loader.Load("deck.json", second)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"v2"}`, string(atSecond))

	atFirst, err := loader.Load("deck.json", first)
	require.NoError(t, err)
	assert.Equal(t, `{"name":"v1"}`, string(atFirst))
}

func TestLoadMissingFile(t *testing.T) {
	repo, dir := newTestRepo(t)
	commitFile(t, repo, dir, "other.txt", "x", "unrelated")

	loader, err := NewGitLoader(dir, zap.NewNop())
	require.NoError(t, err)

	_, err = loader.Load("deck.json", "HEAD")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestParentRevision(t *testing.T) {
	repo, dir := newTestRepo(t)
	first := commitFile(t, repo, dir, "deck.json", "a", "first")
	commitFile(t, repo, dir, "deck.json", "b", "second")

	loader, err := NewGitLoader(dir, zap.NewNop())
	require.NoError(t, err)

	parent, err := loader.ParentRevision("HEAD")
	require.NoError(t, err)
	assert.Equal(t, first, parent)
}

func TestParentRevisionOfRootCommit(t *testing.T) {
	repo, dir := newTestRepo(t)
	commitFile(t, repo, dir, "deck.json", "a", "first")

	loader, err := NewGitLoader(dir, zap.NewNop())
	require.NoError(t, err)

	_, err = loader.ParentRevision("HEAD")
	assert.ErrorIs(t, err, domain.ErrNoParentRevision)
}

func TestCommitInfo(t *testing.T) {
	repo, dir := newTestRepo(t)
	hash := commitFile(t, repo, dir, "deck.json", "a", "add deck snapshot\n")

	loader, err := NewGitLoader(dir, zap.NewNop())
	require.NoError(t, err)

	info, err := loader.CommitInfo("HEAD")
	require.NoError(t, err)
	assert.Equal(t, hash, info.Hash)
	assert.Equal(t, hash[:8], info.ShortHash)
	assert.Equal(t, "add deck snapshot", info.Message)
	assert.Equal(t, "Tester", info.Author)
	assert.Equal(t, "tester@example.com", info.Email)
	assert.Equal(t, "2024-06-01T12:00:00Z", info.Date)
}

func TestNewGitLoaderMissingRepository(t *testing.T) {
	_, err := NewGitLoader(t.TempDir(), zap.NewNop())
	assert.Error(t, err)
}
