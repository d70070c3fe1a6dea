package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/compozy/releasehelper/internal/config"
	"github.com/compozy/releasehelper/internal/logging"
	"github.com/compozy/releasehelper/internal/orchestrator"
	"github.com/compozy/releasehelper/internal/repository"
	"github.com/compozy/releasehelper/internal/service"
	"github.com/compozy/releasehelper/internal/ui"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// container holds all the dependencies for the application.
type container struct {
	cfg *config.Config
	log *zap.Logger

	gitRepo   repository.GitRepository
	publisher repository.ReleasePublisher
	journal   repository.JournalRepository
	changelog service.ChangelogService
	reporter  ui.Reporter
	prompter  ui.Prompter
}

// newContainer creates a new container with all the dependencies.
func newContainer(cmd *cobra.Command, opts *globalOptions) (*container, error) {
	if opts.noColor {
		ui.NoColor()
	}
	located, err := repository.NewGitRepository(".")
	if err != nil {
		return nil, err
	}
	root := located.Root()
	cfg, err := config.LoadConfig(opts.configFile, root)
	if err != nil {
		return nil, err
	}
	applyOverrides(cfg, opts)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	log, err := logging.NewFactory().CreateLogger(logging.Level(cfg.Log.Level), logging.Format(cfg.Log.Format))
	if err != nil {
		return nil, err
	}
	gitRepo, err := repository.NewGitRepository(root,
		repository.WithToken(cfg.GithubToken),
		repository.WithAuthor(cfg.Author.Name, cfg.Author.Email),
		repository.WithDefaultRemote(cfg.Remote),
		repository.WithLogger(log),
	)
	if err != nil {
		return nil, err
	}
	publisher, err := newPublisher(cfg, log)
	if err != nil {
		return nil, err
	}
	fsRepo := repository.FileSystemRepository(afero.NewOsFs())
	log.Debug("container ready",
		zap.String("root", root),
		zap.String("remote", cfg.Remote),
		zap.String("state_dir", cfg.StateDir),
	)
	return &container{
		cfg:       cfg,
		log:       log,
		gitRepo:   gitRepo,
		publisher: publisher,
		journal:   repository.NewJournalRepository(fsRepo, filepath.Join(root, cfg.StateDir)),
		changelog: service.NewChangelogService(fsRepo),
		reporter:  ui.NewConsoleReporter(cmd.OutOrStdout(), cmd.ErrOrStderr()),
		prompter:  ui.NewIOPrompter(cmd.InOrStdin(), cmd.OutOrStdout(), opts.yes),
	}, nil
}

// newPublisher picks the release publisher. Publishing is optional: without
// a usable token the no-op publisher reports ErrGithubTokenRequired when a
// release is requested.
func newPublisher(cfg *config.Config, log *zap.Logger) (repository.ReleasePublisher, error) {
	if cfg.GithubToken == "" {
		return repository.NewNoopPublisher(cfg.GithubOwner, cfg.GithubRepo), nil
	}
	if err := cfg.ValidateForGitHubOperations(); err != nil {
		log.Debug("github publishing unavailable", zap.Error(err))
		return repository.NewUnusablePublisher(cfg.GithubOwner, cfg.GithubRepo, err), nil
	}
	return repository.NewGithubPublisher(cfg.GithubToken, cfg.GithubOwner, cfg.GithubRepo, cfg.GithubAPI)
}

func applyOverrides(cfg *config.Config, opts *globalOptions) {
	if opts.remote != "" {
		cfg.Remote = opts.remote
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
}

func (c *container) dependencies() orchestrator.Dependencies {
	return orchestrator.Dependencies{
		GitRepo:   c.gitRepo,
		Changelog: c.changelog,
		Publisher: c.publisher,
		Journal:   c.journal,
		Reporter:  c.reporter,
		Prompter:  c.prompter,
		Logger:    c.log,
	}
}

func (c *container) settings(offline bool) orchestrator.Settings {
	return orchestrator.Settings{
		Remote:        c.cfg.Remote,
		TagPrefix:     c.cfg.TagPrefix,
		ChangelogFile: c.cfg.Changelog.File,
		IncludeDiff:   c.cfg.Changelog.IncludeDiff,
		Offline:       offline,
	}
}

func (c *container) close() {
	_ = c.log.Sync()
}
