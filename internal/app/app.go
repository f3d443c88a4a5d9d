package app

import (
	"fmt"
	"path/filepath"

	"github.com/haierkeys/deck-diff/internal/domain"
	"github.com/haierkeys/deck-diff/internal/media"
	"github.com/haierkeys/deck-diff/internal/page"
	"github.com/haierkeys/deck-diff/internal/revision"
	"github.com/haierkeys/deck-diff/internal/service"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// App is the application container. It wires the revision loader, the
// core services and the page writer once; there is no package-level
// mutable state anywhere below it.
type App struct {
	config *AppConfig
	logger *zap.Logger

	Loader domain.RevisionLoader
	Parse  service.ParseService
	Diff   service.DiffService
	Report service.ReportService
	Media  *media.Handler
	Page   *page.Writer
}

// NewApp creates the application container and wires all dependencies.
func NewApp(cfg *AppConfig, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("configuration is required")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	a := &App{config: cfg, logger: logger}

	loader, err := revision.NewGitLoader(cfg.Repo.Path, logger)
	if err != nil {
		return nil, err
	}
	a.Loader = loader

	var resolver domain.MediaResolver
	if cfg.Media.IsEnabled {
		deckPath := filepath.Join(cfg.Repo.Path, cfg.Repo.DeckFile)
		a.Media = media.NewHandler(deckPath, outputDir(cfg), cfg.Media.Dir, logger)
		resolver = a.Media
	}

	a.Parse = service.NewParseService(logger)
	a.Diff = service.NewDiffService(logger)
	a.Report = service.NewReportService(resolver, logger)

	a.Page, err = page.NewWriter(logger)
	if err != nil {
		return nil, err
	}

	logger.Debug("app container initialized",
		zap.String("repo", cfg.Repo.Path),
		zap.String("deck", cfg.Repo.DeckFile),
		zap.Bool("media", cfg.Media.IsEnabled))
	return a, nil
}

// Config returns the application configuration.
func (a *App) Config() *AppConfig {
	return a.config
}

// Logger returns the logger.
func (a *App) Logger() *zap.Logger {
	return a.logger
}

// RunResult summarizes one completed diff run.
type RunResult struct {
	Stats     page.Stats
	Entries   int
	Output    string
	NoChanges bool
}

// RunDiff executes one full diff run: load both snapshots, parse, diff,
// assemble and write the report. An empty change set is a successful
// outcome that writes nothing. Any error before the final write leaves no
// partial report behind.
func (a *App) RunDiff() (*RunResult, error) {
	cfg := a.config

	info, err := a.Loader.CommitInfo(cfg.Repo.Commit)
	if err != nil {
		return nil, err
	}
	a.logger.Info("diffing deck snapshots",
		zap.String("commit", info.ShortHash),
		zap.String("deck", cfg.Repo.DeckFile))

	newSnap, err := a.loadSnapshot(cfg.Repo.Commit, false)
	if err != nil {
		return nil, err
	}

	var oldSnap *domain.Snapshot
	var parentInfo *domain.CommitInfo
	parentRev, err := a.Loader.ParentRevision(cfg.Repo.Commit)
	switch {
	case errors.Is(err, domain.ErrNoParentRevision):
		// Initial commit: everything in the new tree reports as added.
		a.logger.Info("commit has no parent, reporting every note as added")
		oldSnap = emptySnapshot(newSnap)
	case err != nil:
		return nil, err
	default:
		if parentInfo, err = a.Loader.CommitInfo(parentRev); err != nil {
			return nil, err
		}
		if oldSnap, err = a.loadSnapshot(parentRev, true); err != nil {
			return nil, err
		}
		if oldSnap == nil {
			// Deck file first appeared in this commit.
			oldSnap = emptySnapshot(newSnap)
		}
	}

	changes, err := a.Diff.Compute(oldSnap, newSnap)
	if err != nil {
		return nil, err
	}
	if len(changes) == 0 {
		a.logger.Info("no note changes detected")
		return &RunResult{NoChanges: true}, nil
	}

	entries, err := a.Report.Assemble(changes)
	if err != nil {
		return nil, err
	}

	if a.Media != nil {
		refs := media.ExtractFromChanges(changes)
		if _, err = a.Media.Copy(refs); err != nil {
			return nil, err
		}
	}

	stats := page.Count(entries)
	data := &page.Data{
		Title:   cfg.Output.Title,
		Commit:  info,
		Parent:  parentInfo,
		Stats:   stats,
		Entries: entries,
	}
	if err = a.Page.Write(cfg.Output.File, data); err != nil {
		return nil, err
	}

	a.logger.Info("diff run complete",
		zap.Int("added", stats.Added),
		zap.Int("modified", stats.Modified),
		zap.Int("removed", stats.Removed),
		zap.String("output", cfg.Output.File))
	return &RunResult{Stats: stats, Entries: len(entries), Output: cfg.Output.File}, nil
}

// loadSnapshot loads and parses the deck file at revision. With
// allowMissing a missing file returns nil instead of failing.
func (a *App) loadSnapshot(rev string, allowMissing bool) (*domain.Snapshot, error) {
	raw, err := a.Loader.Load(a.config.Repo.DeckFile, rev)
	if err != nil {
		if allowMissing && errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "load %s at %s", a.config.Repo.DeckFile, rev)
	}
	return a.Parse.Parse(raw)
}

// emptySnapshot builds a snapshot with no notes but the counterpart's
// models, so added-note rendering still resolves.
func emptySnapshot(like *domain.Snapshot) *domain.Snapshot {
	name := ""
	if like != nil && like.Root != nil {
		name = like.Root.Name
	}
	return &domain.Snapshot{
		Root:   &domain.Deck{Name: name},
		Models: like.Models,
	}
}

func outputDir(cfg *AppConfig) string {
	return filepath.Dir(cfg.Output.File)
}
