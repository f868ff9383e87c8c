package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

// newLocateCmd creates the locate command.
func newLocateCmd(opts *globalOptions) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "locate <locator> [resource]",
		Short: "Print the git locator a resource resolves to",
		Long: `Print the git: locator a resource resolves to, without cloning anything.
Pages locators are mapped to their repository first.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			session, err := opts.open(ctx, args[0])
			if err != nil {
				return err
			}

			loc := session.Locator()
			if len(args) == 2 {
				loc, err = session.Registry().Builder().Locate(ctx, args[1])
				if err != nil {
					return err
				}
			}

			return printLocator(cmd.OutOrStdout(), loc, format)
		},
	}

	cmd.Flags().StringVarP(&format, "output", "o", formatText, "output format: text, json or yaml")

	return cmd
}

// newLsCmd creates the ls command.
func newLsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ls <locator> [directory]",
		Short: "List a directory",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			session, err := opts.open(ctx, args[0])
			if err != nil {
				return err
			}
			defer func() { err = finish(ctx, session, err) }()

			dir := "."
			if len(args) == 2 {
				dir = args[1]
			}
			path, err := session.ResolveToLocalPath(ctx, dir)
			if err != nil {
				return err
			}
			children, err := session.ListChildren(path)
			if err != nil {
				return err
			}

			for _, child := range children {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), child); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// newGetCmd creates the get command.
func newGetCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "get <locator> <resource>",
		Short: "Download a resource",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			session, err := opts.open(ctx, args[0])
			if err != nil {
				return err
			}
			defer func() { err = finish(ctx, session, err) }()

			r, _, err := session.Get(ctx, args[1])
			if err != nil {
				return err
			}
			defer r.Close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" && output != "-" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", output, err)
				}
				defer f.Close()
				w = f
			}

			_, err = io.Copy(w, r)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of stdout")

	return cmd
}

// newPutCmd creates the put command.
func newPutCmd(opts *globalOptions) *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "put <locator> <resource>",
		Short: "Upload a resource and publish it",
		Long:  `Upload a resource from a file or stdin, then commit and push the change.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()

			var r io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return fmt.Errorf("failed to open %s: %w", input, err)
				}
				defer f.Close()
				r = f
			}

			session, err := opts.open(ctx, args[0])
			if err != nil {
				return err
			}
			defer func() { err = finish(ctx, session, err) }()

			w, err := session.Put(ctx, args[1])
			if err != nil {
				return err
			}
			if _, err := io.Copy(w, r); err != nil {
				_ = w.Close()
				return fmt.Errorf("failed to write %s: %w", args[1], err)
			}
			return w.Close()
		},
	}

	cmd.Flags().StringVarP(&input, "file", "f", "", "read from this file instead of stdin")

	return cmd
}

// newPutDirCmd creates the put-dir command.
func newPutDirCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "put-dir <locator> <source-dir> [destination]",
		Short: "Upload a directory tree and publish it",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			session, err := opts.open(ctx, args[0])
			if err != nil {
				return err
			}
			defer func() { err = finish(ctx, session, err) }()

			dest := "."
			if len(args) == 3 {
				dest = args[2]
			}
			return session.PutDirectory(ctx, args[1], dest)
		},
	}
}

// newExistsCmd creates the exists command.
func newExistsCmd(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "exists <locator> <resource>",
		Short: "Report whether a resource exists",
		Long:  `Print true or false. A resource ending in "/" only matches a directory.`,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) (err error) {
			ctx := cmd.Context()
			session, err := opts.open(ctx, args[0])
			if err != nil {
				return err
			}
			defer func() { err = finish(ctx, session, err) }()

			exists, err := session.ResourceExists(ctx, args[1])
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatBool(exists))
			return err
		},
	}
}
