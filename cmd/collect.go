package cmd

import (
	"fmt"
	"io"
	"os"

	"collectfiles/pkg/collect"
	"collectfiles/pkg/logging"
	"collectfiles/pkg/runlock"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// runCollect maps flags onto collect.Options and runs a collection against
// the real filesystem while holding the output directory's run lock.
func runCollect(cmd *cobra.Command, args []string) error {
	opts := collect.Options{
		InputDir:  args[0],
		OutputDir: args[1],
	}
	// An absent --max_depth flattens fully; 0 is passed through as a real depth
	if cmd.Flags().Changed("max_depth") {
		depth, err := cmd.Flags().GetInt("max_depth")
		if err != nil {
			return fmt.Errorf("error reading flags: %w", err)
		}
		opts.MaxDepth = &depth
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	// Tag every log line of this run
	logger := logging.Logger.With(zap.String("runID", uuid.NewString()))

	// Refuse to share the output directory with another run
	lock, err := runlock.Acquire(opts.OutputDir)
	if err != nil {
		logger.Error("Failed to lock output directory", zap.String("output", opts.OutputDir), zap.Error(err))
		return err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			logger.Warn("Failed to release output lock", zap.String("lockFile", lock.Path()), zap.Error(err))
		}
	}()

	result, err := collect.NewCollector(afero.NewOsFs(), logger).Run(opts)
	if err != nil {
		return err
	}

	printSummary(cmd.OutOrStdout(), result, opts.OutputDir)
	return nil
}

// printSummary writes a one-line report, colored only when w is a terminal.
func printSummary(w io.Writer, result collect.Result, outputDir string) {
	c := color.New(color.FgGreen)
	if f, ok := w.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		c.EnableColor()
	} else {
		c.DisableColor()
	}

	c.Fprintf(w, "collected %d files into %s", result.Files, outputDir)
	if result.Renamed > 0 {
		fmt.Fprintf(w, " (%d renamed to avoid collisions)", result.Renamed)
	}
	fmt.Fprintln(w)
}
