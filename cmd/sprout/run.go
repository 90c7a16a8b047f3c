package main

import (
	"context"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/nexusagri/sprout"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Preview the preloader in a window",
		Long: `Open a window and run the preloader. The page-ready signal is simulated
after --ready-after; the command exits when the preloader finishes.

With --watch, edits to the --config file restart the animation with the
new settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			readyAfter, _ := cmd.Flags().GetDuration("ready-after")
			width, _ := cmd.Flags().GetInt("width")
			height, _ := cmd.Flags().GetInt("height")
			debug, _ := cmd.Flags().GetBool("debug")

			h := &host{readyAfter: readyAfter, debug: debug, width: width, height: height}
			if err := h.restart(cfg); err != nil {
				return err
			}

			if watch, _ := cmd.Flags().GetBool("watch"); watch {
				path, _ := cmd.Flags().GetString("config")
				if path == "" {
					log.Warn("--watch needs --config, not watching")
				} else {
					cw, err := newConfigWatcher(path, log)
					if err != nil {
						return err
					}
					defer cw.Close()
					ctx, cancel := context.WithCancel(cmd.Context())
					defer cancel()
					go cw.Run(ctx)
					h.reloads = cw.Reloads()
				}
			}

			ebiten.SetWindowTitle("sprout")
			ebiten.SetWindowSize(width, height)
			ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
			return ebiten.RunGame(h)
		},
	}
	addConfigFlags(cmd)
	cmd.Flags().Bool("watch", false, "restart when the config file changes")
	cmd.Flags().Duration("ready-after", 2500*time.Millisecond, "simulate the page-ready signal after this delay (0 = never)")
	cmd.Flags().Int("width", 640, "window width")
	cmd.Flags().Int("height", 480, "window height")
	return cmd
}

// host owns the running preloader and swaps it out on config reloads.
type host struct {
	p          *sprout.Preloader
	reloads    <-chan sprout.Config
	readyAfter time.Duration
	debug      bool
	width      int
	height     int
	finished   bool
}

func (h *host) restart(cfg sprout.Config) error {
	p, err := sprout.Start(cfg, func() { h.finished = true },
		sprout.WithLogger(log),
		sprout.WithSize(float64(h.width), float64(h.height)))
	if err != nil {
		return err
	}
	if h.p != nil {
		h.p.Stop()
	}
	p.SetDebugMode(h.debug)
	h.p = p
	h.finished = false
	return nil
}

// Update implements ebiten.Game.
func (h *host) Update() error {
	select {
	case cfg := <-h.reloads:
		if err := h.restart(cfg); err != nil {
			log.Warn("restart with reloaded config failed", zap.Error(err))
		}
	default:
	}

	if h.readyAfter > 0 && h.p.Lifecycle().Elapsed(time.Now()) >= h.readyAfter {
		h.p.PageReady()
	}
	if err := h.p.Update(); err != nil {
		return err
	}
	if h.finished && h.reloads == nil {
		return ebiten.Termination
	}
	return nil
}

// Draw implements ebiten.Game.
func (h *host) Draw(screen *ebiten.Image) { h.p.Draw(screen) }

// Layout implements ebiten.Game.
func (h *host) Layout(w, hgt int) (int, int) {
	h.width, h.height = w, hgt
	return h.p.Layout(w, hgt)
}
