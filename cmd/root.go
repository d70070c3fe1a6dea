package cmd

import (
	"context"

	"github.com/compozy/releasehelper/pkg/version"
	"github.com/spf13/cobra"
)

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configFile string
	logLevel   string
	logFormat  string
	noColor    bool
	remote     string
	yes        bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}
	rootCmd := &cobra.Command{
		Use:   "release-helper",
		Short: "Guided commit, tag and changelog workflow for git repositories",
		Long: `release-helper shows where a repository stands against its remote and walks
through committing, pushing, bumping the semantic version, tagging and
appending to the changelog.`,
		Version:       version.Summary(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configFile, "config", "", "Path to a config file (default .release-helper.yaml)")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&opts.logFormat, "log-format", "", "Log format: console or json")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.StringVar(&opts.remote, "remote", "", "Remote to fetch from and push to")
	flags.BoolVar(&opts.yes, "yes", false, "Answer yes to every confirmation")

	rootCmd.AddCommand(
		newStatusCmd(opts),
		newNextVersionCmd(opts),
		newReleaseCmd(opts),
		newMenuCmd(opts),
		newLastRunCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the command line with ctx as the base context.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}
