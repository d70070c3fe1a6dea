package cmd

import (
	"context"

	"github.com/compozy/releasehelper/internal/orchestrator"
	"github.com/compozy/releasehelper/internal/usecase"
	"github.com/spf13/cobra"
)

func newStatusCmd(opts *globalOptions) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show the working tree and how the branch compares to its remote",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(cmd, opts)
			if err != nil {
				return err
			}
			defer c.close()
			ctx, cancel := context.WithTimeout(cmd.Context(), orchestrator.NetworkStepTimeout)
			defer cancel()
			uc := &usecase.InspectRepositoryUseCase{
				GitRepo:   c.gitRepo,
				Remote:    c.cfg.Remote,
				TagPrefix: c.cfg.TagPrefix,
				Logger:    c.log,
			}
			report, err := uc.Execute(ctx, offline)
			if err != nil {
				return err
			}
			orchestrator.RenderReport(c.reporter, report)
			return nil
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip fetching from the remote")
	return cmd
}
