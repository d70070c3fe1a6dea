package cmd

import (
	"context"
	"fmt"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/orchestrator"
	"github.com/compozy/releasehelper/internal/ui"
	"github.com/compozy/releasehelper/internal/usecase"
	"github.com/spf13/cobra"
)

func newNextVersionCmd(opts *globalOptions) *cobra.Command {
	var (
		bump         string
		requireClean bool
		offline      bool
	)
	cmd := &cobra.Command{
		Use:   "next-version",
		Short: "Print the tag the next release would get",
		Long: `Print the tag the next release would get. The latest version is the
numerically highest tag that parses as MAJOR.MINOR.PATCH; other tags are
ignored. Only the tag is written to stdout.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			kind, err := domain.ParseBumpKind(bump)
			if err != nil {
				return err
			}
			c, err := newContainer(cmd, opts)
			if err != nil {
				return err
			}
			defer c.close()
			reporter := ui.NewConsoleReporter(cmd.ErrOrStderr(), cmd.ErrOrStderr())
			ctx, cancel := context.WithTimeout(cmd.Context(), orchestrator.NetworkStepTimeout)
			defer cancel()
			if requireClean {
				modified, untracked, err := c.gitRepo.WorkingTreeStatus(ctx)
				if err != nil {
					return fmt.Errorf("failed to get working tree status: %w", err)
				}
				if len(modified)+len(untracked) > 0 {
					return fmt.Errorf("%w: commit or stash your changes first", usecase.ErrDirtyWorkingTree)
				}
			}
			uc := &usecase.CalculateVersionUseCase{
				GitRepo:   c.gitRepo,
				Remote:    c.cfg.Remote,
				TagPrefix: c.cfg.TagPrefix,
				Logger:    c.log,
			}
			plan, err := uc.Execute(ctx, kind, !offline)
			if err != nil {
				return err
			}
			if plan.FetchErr != nil {
				reporter.Warn("Could not fetch tags from %s (%v). Using local tags only.", c.cfg.Remote, plan.FetchErr)
			}
			if len(plan.SkippedTags) > 0 {
				reporter.List("Ignored tag: ", plan.SkippedTags)
			}
			fmt.Fprintln(cmd.OutOrStdout(), plan.NextTag)
			return nil
		},
	}
	cmd.Flags().StringVar(&bump, "bump", "patch", "Version component to bump: major, minor or patch")
	cmd.Flags().BoolVar(&requireClean, "require-clean", false, "Fail when the working tree has uncommitted changes")
	cmd.Flags().BoolVar(&offline, "offline", false, "Use local tags without fetching")
	return cmd
}
