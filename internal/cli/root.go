// Package cli implements the gitwagon command line.
package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root cobra command.
func NewRootCmd(version string) *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "gitwagon",
		Short: "Read and publish files in git-hosted sites",
		Long: `gitwagon reads and writes resources in git repositories addressed by locators,
and publishes every change with a commit and push when the command finishes.

Locators are either direct repository references or pages site URLs:

  git:ssh://git@github.com/acct/site.git?gh-pages#/docs/
  github:https://acct.github.io/project/

Connection flags fall back to GITWAGON_* environment variables.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.init(cmd)
		},
		PersistentPostRunE: func(*cobra.Command, []string) error {
			return opts.close()
		},
	}

	opts.register(rootCmd)

	rootCmd.AddCommand(newLocateCmd(opts))
	rootCmd.AddCommand(newLsCmd(opts))
	rootCmd.AddCommand(newGetCmd(opts))
	rootCmd.AddCommand(newPutCmd(opts))
	rootCmd.AddCommand(newPutDirCmd(opts))
	rootCmd.AddCommand(newExistsCmd(opts))

	return rootCmd
}
