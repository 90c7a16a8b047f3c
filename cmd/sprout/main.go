// Command sprout previews and exports the branch-growth preloader.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// log is replaced by the root command's PersistentPreRunE.
var log = zap.NewNop()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "sprout",
		Short: "Procedural branch-growth preloader",
		Long: `sprout grows a seeded network of branches around a center point,
fades it out and starts again, until the host page reports it is ready.

Examples:
  sprout run --ready-after 3s        # preview in a window
  sprout run --config sprout.toml --watch
  sprout frames --out frames --count 120
  sprout script --out shots session.json`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			jsonLog, _ := cmd.Flags().GetBool("json-log")
			l, err := newLogger(debug, jsonLog)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			log = l
			return nil
		},
	}
	root.PersistentFlags().Bool("debug", false, "verbose development logging and FPS overlay")
	root.PersistentFlags().Bool("json-log", false, "structured JSON log output")

	root.AddCommand(newRunCmd())
	root.AddCommand(newFramesCmd())
	root.AddCommand(newScriptCmd())
	return root
}

func main() {
	err := newRootCmd().Execute()
	_ = log.Sync()
	if err != nil {
		os.Exit(1)
	}
}
