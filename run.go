package sprout

import "github.com/hajimehoshi/ebiten/v2"

// RunConfig configures the window opened by Run.
type RunConfig struct {
	Title         string
	Width, Height int
	ShowFPS       bool
	// Debug enables per-frame stats logging.
	Debug bool
	// Resizable lets the user resize the window; the preloader re-centers.
	Resizable bool
	// Update, if set, runs every tick before the preloader updates. Hosts
	// use it to deliver PageReady from the game goroutine.
	Update func() error
}

// windowGame wraps a Preloader so the ebiten loop ends once onDone fires.
type windowGame struct {
	*Preloader
	hook func() error
}

func (g windowGame) Update() error {
	if g.hook != nil {
		if err := g.hook(); err != nil {
			return err
		}
	}
	if err := g.Preloader.Update(); err != nil {
		return err
	}
	if g.Done() {
		return ebiten.Termination
	}
	return nil
}

// Run opens a window and runs p until its lifecycle completes or the window
// is closed. It blocks and must be called from the main goroutine.
func Run(p *Preloader, cfg RunConfig) error {
	if cfg.Width <= 0 {
		cfg.Width = 640
	}
	if cfg.Height <= 0 {
		cfg.Height = 480
	}
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	p.Resize(float64(cfg.Width), float64(cfg.Height))
	p.SetDebugMode(cfg.Debug)
	p.showFPS = cfg.ShowFPS || cfg.Debug

	// RunGame returns nil when Update reports ebiten.Termination.
	return ebiten.RunGame(windowGame{Preloader: p, hook: cfg.Update})
}
