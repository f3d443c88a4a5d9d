package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const deckV1 = `{
  "name": "Vocab",
  "note_models": [{
    "crowdanki_uuid": "m1", "name": "Basic",
    "flds": [{"name": "Front", "ord": 0}, {"name": "Back", "ord": 1}],
    "tmpls": [{"name": "Card 1", "ord": 0, "qfmt": "{{Front}}", "afmt": "{{FrontSide}}<hr>{{Back}}"}]
  }],
  "notes": [
    {"guid": "n1", "note_model_uuid": "m1", "fields": ["hello", "hallo"], "tags": []},
    {"guid": "n2", "note_model_uuid": "m1", "fields": ["bye", "tschuess"], "tags": []}
  ],
  "children": []
}`

const deckV2 = `{
  "name": "Vocab",
  "note_models": [{
    "crowdanki_uuid": "m1", "name": "Basic",
    "flds": [{"name": "Front", "ord": 0}, {"name": "Back", "ord": 1}],
    "tmpls": [{"name": "Card 1", "ord": 0, "qfmt": "{{Front}}", "afmt": "{{FrontSide}}<hr>{{Back}}"}]
  }],
  "notes": [
    {"guid": "n1", "note_model_uuid": "m1", "fields": ["hello", "hallo!"], "tags": []},
    {"guid": "n3", "note_model_uuid": "m1", "fields": ["thanks", "danke"], "tags": []}
  ],
  "children": []
}`

func commitDeck(t *testing.T, repo *git.Repository, dir, content, message string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "deck.json"), []byte(content), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("deck.json")
	require.NoError(t, err)
	_, err = wt.Commit(message, &git.CommitOptions{
		Author: &object.Signature{Name: "Tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
}

func testConfig(t *testing.T, repoDir string) *AppConfig {
	t.Helper()
	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	cfg.Repo.Path = repoDir
	cfg.Output.File = filepath.Join(t.TempDir(), "diff.html")
	cfg.Media.IsEnabled = false
	return cfg
}

func TestRunDiffBetweenCommits(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitDeck(t, repo, dir, deckV1, "initial deck")
	commitDeck(t, repo, dir, deckV2, "update deck")

	cfg := testConfig(t, dir)
	a, err := NewApp(cfg, zap.NewNop())
	require.NoError(t, err)

	result, err := a.RunDiff()
	require.NoError(t, err)

	assert.False(t, result.NoChanges)
	assert.Equal(t, 1, result.Stats.Added)
	assert.Equal(t, 1, result.Stats.Modified)
	assert.Equal(t, 1, result.Stats.Removed)
	assert.Equal(t, 3, result.Entries)

	content, err := os.ReadFile(cfg.Output.File)
	require.NoError(t, err)
	html := string(content)
	assert.Contains(t, html, "thanks")
	assert.Contains(t, html, "tschuess")
	assert.Contains(t, html, "hallo!")
}

func TestRunDiffInitialCommitReportsAllAdded(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitDeck(t, repo, dir, deckV1, "initial deck")

	cfg := testConfig(t, dir)
	a, err := NewApp(cfg, zap.NewNop())
	require.NoError(t, err)

	result, err := a.RunDiff()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.Added)
	assert.Zero(t, result.Stats.Modified)
	assert.Zero(t, result.Stats.Removed)
}

func TestRunDiffNoChangesWritesNothing(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	commitDeck(t, repo, dir, deckV1, "initial deck")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("unrelated"), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("notes.txt")
	require.NoError(t, err)
	_, err = wt.Commit("unrelated change", &git.CommitOptions{
		Author: &object.Signature{Name: "Tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)

	cfg := testConfig(t, dir)
	a, err := NewApp(cfg, zap.NewNop())
	require.NoError(t, err)

	result, err := a.RunDiff()
	require.NoError(t, err)
	assert.True(t, result.NoChanges)
	_, statErr := os.Stat(cfg.Output.File)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunDiffDeckFileIntroducedLater(t *testing.T) {
	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# decks"), 0644))
	wt, err := repo.Worktree()
	require.NoError(t, err)
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("init repo", &git.CommitOptions{
		Author: &object.Signature{Name: "Tester", Email: "tester@example.com", When: time.Now()},
	})
	require.NoError(t, err)
	commitDeck(t, repo, dir, deckV1, "add deck")

	cfg := testConfig(t, dir)
	a, err := NewApp(cfg, zap.NewNop())
	require.NoError(t, err)

	result, err := a.RunDiff()
	require.NoError(t, err)
	assert.Equal(t, 2, result.Stats.Added)
}

func TestNewAppValidatesDependencies(t *testing.T) {
	_, err := NewApp(nil, zap.NewNop())
	assert.Error(t, err)

	cfg, err := ParseConfig(nil)
	require.NoError(t, err)
	_, err = NewApp(cfg, nil)
	assert.Error(t, err)
}
