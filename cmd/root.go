package cmd

import (
	"fmt"

	"collectfiles/pkg/logging"
	"collectfiles/pkg/version"

	"github.com/spf13/cobra"
)

const appName = "collectfiles"

// NewRootCmd builds the base command. It collects files from input_dir into
// output_dir and carries the version subcommand.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "collectfiles <input_dir> <output_dir>",
		Short: "Collect every file under a directory into an output directory",
		Long: `collectfiles copies every file found under input_dir into output_dir.

Without --max_depth all files land directly in output_dir. With --max_depth N
the first N directory levels are preserved and anything deeper is merged into
the directory at level N. Existing files are never overwritten: colliding
names get a numeric suffix before the extension (report.txt, report1.txt, ...).`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, err := cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("error reading flags: %w", err)
			}
			if _, err := logging.Setup(debug, appName, version.Get().Version); err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		RunE: runCollect,
	}

	rootCmd.Flags().Int("max_depth", -1, "Directory levels to preserve below output_dir (omit to flatten fully)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

// Execute runs the root command with os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}
