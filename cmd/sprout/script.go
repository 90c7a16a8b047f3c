package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/nexusagri/sprout"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newScriptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "script <script.json>",
		Short: "Run a JSON test script headlessly",
		Long: `Replay a JSON test script against the preloader on a virtual clock and
write the screenshots it requests to --out.

Script actions: advance (ms), ready, resize (width, height),
screenshot (label), wait (frames).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, _ := cmd.Flags().GetString("out")
			maxFrames, _ := cmd.Flags().GetInt("max-frames")

			paths, err := runScriptFile(cfg, args[0], out, maxFrames)
			for _, p := range paths {
				cmd.Println(p)
			}
			return err
		},
	}
	addConfigFlags(cmd)
	cmd.Flags().StringP("out", "o", "screenshots", "screenshot directory")
	cmd.Flags().Int("max-frames", 36000, "stop after this many frames")
	return cmd
}

func runScriptFile(cfg sprout.Config, path, out string, maxFrames int) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read script %s", path)
	}
	runner, err := sprout.LoadTestScript(data)
	if err != nil {
		return nil, errors.Wrapf(err, "load script %s", path)
	}

	p, err := sprout.Start(cfg, nil, sprout.WithLogger(log))
	if err != nil {
		return nil, err
	}
	p.ScreenshotDir = out

	paths, err := sprout.RunScript(p, runner, sprout.NewRasterSurface(640, 480), maxFrames)
	if err != nil {
		return paths, err
	}
	if !runner.Done() {
		log.Warn("script did not finish", zap.Int("maxFrames", maxFrames))
	}
	return paths, nil
}
