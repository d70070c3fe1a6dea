package cmd

import (
	"github.com/compozy/releasehelper/internal/orchestrator"
	"github.com/spf13/cobra"
)

func newMenuCmd(opts *globalOptions) *cobra.Command {
	var offline bool
	cmd := &cobra.Command{
		Use:   "menu",
		Short: "Interactive loop to push, commit, add files or tag",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(cmd, opts)
			if err != nil {
				return err
			}
			defer c.close()
			orch := orchestrator.NewMenuOrchestrator(c.dependencies(), c.settings(offline))
			_, err = orch.Execute(cmd.Context(), orchestrator.MenuConfig{
				Changelog: c.cfg.Steps.Changelog,
				Confirm:   c.cfg.Steps.Confirm,
				Publish:   c.cfg.Steps.PublishRelease,
			})
			return err
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Skip fetching from the remote")
	return cmd
}
