package cmd

import (
	"path/filepath"
	"time"

	internalApp "github.com/haierkeys/deck-diff/internal/app"
	"github.com/haierkeys/deck-diff/pkg/fileurl"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type diffFlags struct {
	config  string // configuration file path
	repo    string // git repository path
	deck    string // deck snapshot path inside the repository
	commit  string // revision to report
	output  string // report output path
	noMedia bool   // skip media copying
	watch   bool   // regenerate when the repository changes
}

func init() {
	flags := new(diffFlags)

	var diffCommand = &cobra.Command{
		Use:   "diff [-c config_file] [--repo path] [--commit rev] [-o output]",
		Short: "Generate the HTML diff report for a deck commit",
		Run: func(cmd *cobra.Command, args []string) {
			cfg, err := loadConfig(flags)
			if err != nil {
				bootstrapLogger.Error("config load failed", zap.Error(err))
				return
			}

			logger, err := internalApp.NewLogger(&cfg.Log)
			if err != nil {
				bootstrapLogger.Error("logger init failed", zap.Error(err))
				return
			}
			defer logger.Sync()

			a, err := internalApp.NewApp(cfg, logger)
			if err != nil {
				logger.Error("app init failed", zap.Error(err))
				return
			}

			if _, err = a.RunDiff(); err != nil {
				logger.Error("diff run failed", zap.Error(err))
				return
			}
			if flags.watch {
				watchAndRerun(a)
			}
		},
	}

	diffCommand.Flags().StringVarP(&flags.config, "config", "c", "", "configuration file path")
	diffCommand.Flags().StringVar(&flags.repo, "repo", "", "git repository path")
	diffCommand.Flags().StringVar(&flags.deck, "deck", "", "deck snapshot path inside the repository")
	diffCommand.Flags().StringVar(&flags.commit, "commit", "", "revision to report")
	diffCommand.Flags().StringVarP(&flags.output, "output", "o", "", "report output path")
	diffCommand.Flags().BoolVar(&flags.noMedia, "no-media", false, "skip copying media files")
	diffCommand.Flags().BoolVarP(&flags.watch, "watch", "w", false, "regenerate when the repository changes")

	rootCmd.AddCommand(diffCommand)
}

// loadConfig resolves the config file and applies flag overrides. Without
// a config file on disk the embedded default configuration applies.
func loadConfig(flags *diffFlags) (*internalApp.AppConfig, error) {
	path := flags.config
	if path == "" {
		for _, candidate := range []string{"config.yaml", "config/config.yaml"} {
			if fileurl.IsExist(candidate) {
				path = candidate
				break
			}
		}
	}

	var cfg *internalApp.AppConfig
	var err error
	if path != "" {
		cfg, err = internalApp.LoadConfig(path)
	} else {
		cfg, err = internalApp.ParseConfig([]byte(configDefault))
	}
	if err != nil {
		return nil, err
	}

	if flags.repo != "" {
		cfg.Repo.Path = flags.repo
	}
	if flags.deck != "" {
		cfg.Repo.DeckFile = flags.deck
	}
	if flags.commit != "" {
		cfg.Repo.Commit = flags.commit
	}
	if flags.output != "" {
		cfg.Output.File = flags.output
	}
	if flags.noMedia {
		cfg.Media.IsEnabled = false
	}
	return cfg, nil
}

// watchAndRerun regenerates the report whenever the repository's git state
// changes, so the page always reflects the latest commit.
func watchAndRerun(a *internalApp.App) {
	logger := a.Logger()
	w := watcher.New()

	// One event per cycle is enough; a commit touches many ref files.
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write, watcher.Create)

	gitDir := filepath.Join(a.Config().Repo.Path, ".git")
	if err := w.AddRecursive(gitDir); err != nil {
		logger.Error("watch setup failed", zap.String("dir", gitDir), zap.Error(err))
		return
	}

	go func() {
		for {
			select {
			case event := <-w.Event:
				logger.Info("repository changed, regenerating report",
					zap.String("file", event.Path))
				if _, err := a.RunDiff(); err != nil {
					logger.Error("diff run failed", zap.Error(err))
				}
			case err := <-w.Error:
				logger.Error("watcher error", zap.Error(err))
			case <-w.Closed:
				logger.Info("watcher closed")
				return
			}
		}
	}()

	logger.Info("watching repository for changes", zap.String("dir", gitDir))
	if err := w.Start(time.Second); err != nil {
		logger.Error("watcher start failed", zap.Error(err))
	}
}
