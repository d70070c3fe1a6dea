package cmd

import (
	"fmt"
	"runtime"
	"strings"
	"text/tabwriter"

	"github.com/compozy/releasehelper/pkg/version"
	"github.com/spf13/cobra"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "release-helper\t%s\n", orDefault(version.Version, "dev"))
			fmt.Fprintf(w, "commit\t%s\n", orDefault(version.CommitHash, "unknown"))
			fmt.Fprintf(w, "built\t%s\n", orDefault(version.BuildDate, "unknown"))
			fmt.Fprintf(w, "go\t%s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
			return w.Flush()
		},
	}
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}
