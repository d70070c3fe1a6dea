package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/compozy/releasehelper/internal/domain"
	"github.com/compozy/releasehelper/internal/repository"
	"github.com/spf13/cobra"
)

func newLastRunCmd(opts *globalOptions) *cobra.Command {
	var sessionID string
	cmd := &cobra.Command{
		Use:   "last-run",
		Short: "Show the steps recorded for the latest (or a given) release run",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := newContainer(cmd, opts)
			if err != nil {
				return err
			}
			defer c.close()
			var journal *domain.RunJournal
			if sessionID != "" {
				journal, err = c.journal.Load(cmd.Context(), sessionID)
			} else {
				journal, err = c.journal.LoadLatest(cmd.Context())
			}
			if errors.Is(err, repository.ErrJournalNotFound) && sessionID == "" {
				c.reporter.Info("No release runs recorded yet.")
				return nil
			}
			if err != nil {
				return err
			}
			printJournal(cmd.OutOrStdout(), journal)
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "id", "", "Session id of the run to show")
	return cmd
}

func printJournal(out io.Writer, j *domain.RunJournal) {
	fmt.Fprintf(out, "Session:\t%s\n", j.SessionID)
	fmt.Fprintf(out, "Repository:\t%s\n", j.Repo)
	fmt.Fprintf(out, "Branch:\t%s\n", j.Branch)
	if j.Version != "" {
		fmt.Fprintf(out, "Version:\t%s\n", j.Version)
	}
	fmt.Fprintf(out, "Status:\t%s\n", j.Status)
	fmt.Fprintf(out, "Started:\t%s\n", j.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(out, "Updated:\t%s\n", j.UpdatedAt.Format(time.RFC3339))
	if j.Error != "" {
		fmt.Fprintf(out, "Error:\t%s\n", j.Error)
	}
	fmt.Fprintln(out, "Steps:")
	for i, step := range j.Steps {
		fmt.Fprintf(out, "%d. %-17s %s", i+1, step.Type, step.Status)
		if step.Error != "" {
			fmt.Fprintf(out, " (%s)", step.Error)
		}
		fmt.Fprintln(out)
		keys := make([]string, 0, len(step.Details))
		for k := range step.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(out, "   %s: %v\n", k, step.Details[k])
		}
	}
}
