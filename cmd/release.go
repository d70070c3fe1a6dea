package cmd

import (
	"fmt"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/orchestrator"
	"github.com/compozy/releasehelper/internal/service"
	"github.com/spf13/cobra"
)

func newReleaseCmd(opts *globalOptions) *cobra.Command {
	var (
		bump        string
		message     string
		changes     string
		noPush      bool
		noChangelog bool
		publish     bool
		dryRun      bool
		offline     bool
	)
	cmd := &cobra.Command{
		Use:   "release",
		Short: "Commit, push, bump the version, tag and update the changelog",
		Long: `Walk through a release of the current branch:
- Show the repository status
- Stage and commit pending changes
- Push the branch
- Bump the version from the highest existing tag
- Create an annotated tag
- Append the release to the changelog and commit it
- Push the branch and tags, and optionally publish a GitHub release

Every step is recorded in a run journal. Nothing is rolled back on failure;
use last-run to see which steps completed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := orchestrator.ReleaseConfig{
				Message: message,
				Changes: service.SplitChanges(changes),
				DryRun:  dryRun,
			}
			if bump != "" {
				kind, err := domain.ParseBumpKind(bump)
				if err != nil {
					return err
				}
				cfg.Bump = kind
			}
			c, err := newContainer(cmd, opts)
			if err != nil {
				return err
			}
			defer c.close()
			if publish {
				if err := c.cfg.ValidateForGitHubOperations(); err != nil {
					return fmt.Errorf("--publish: %w", err)
				}
			}
			cfg.Push = c.cfg.Steps.Push && !noPush
			cfg.Changelog = c.cfg.Steps.Changelog && !noChangelog
			cfg.Confirm = c.cfg.Steps.Confirm
			cfg.Publish = c.cfg.Steps.PublishRelease || publish
			orch := orchestrator.NewReleaseOrchestrator(c.dependencies(), c.settings(offline))
			_, err = orch.Execute(cmd.Context(), cfg)
			return err
		},
	}
	cmd.Flags().StringVar(&bump, "bump", "", "Version component to bump: major, minor or patch (asked when empty)")
	cmd.Flags().StringVarP(&message, "message", "m", "", "Commit message for pending changes")
	cmd.Flags().StringVar(&changes, "changes", "", "Comma-separated changes for the changelog")
	cmd.Flags().BoolVar(&noPush, "no-push", false, "Do not push the branch or tags")
	cmd.Flags().BoolVar(&noChangelog, "no-changelog", false, "Do not update the changelog")
	cmd.Flags().BoolVar(&publish, "publish", false, "Publish a GitHub release for the new tag (requires a GitHub token)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show what would happen without changing anything")
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip fetching from the remote")
	return cmd
}
