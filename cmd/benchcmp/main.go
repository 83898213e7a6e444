// Command benchcmp unifies, combines and compares benchmark result trees.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/speakeasy-api/namedtree"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logLevel  string
	verbose   bool
	colorMode string

	logger *zap.Logger
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "benchcmp",
		Short: "Compare benchmark result trees",
		Long: `benchcmp works on trees of benchmark results: nested mappings whose
leaves are measurements. Trees sharing a structure can be summed, averaged
and compared key by key, and directories of bonnie++ runs can be compared
side by side.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if logger != nil {
				return nil
			}
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(zapLevel(namedtree.ParseLogLevel(logLevel)))
			if verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: error, warn, info or debug")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	root.PersistentFlags().StringVar(&colorMode, "color", "auto", "Colour output: auto, always or never")

	root.AddCommand(newCompareCmd())
	root.AddCommand(newSpecCmd())
	root.AddCommand(newApplyCmd())
	root.AddCommand(newPaintCmd())
	return root
}

// options returns the library options backed by the CLI logger.
func options() namedtree.Options {
	opts := namedtree.DefaultOptions()
	opts.Logger = newZapLogger(logger)
	return opts
}

// useColor resolves --color for output written to w.
func useColor(mode string, w io.Writer) (bool, error) {
	switch mode {
	case "always":
		return true, nil
	case "never":
		return false, nil
	case "auto", "":
		f, ok := w.(*os.File)
		if !ok {
			return false, nil
		}
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()), nil
	default:
		return false, fmt.Errorf("invalid --color %q: want auto, always or never", mode)
	}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
