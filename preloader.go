package sprout

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// Preloader is a loading screen: a growth animation plus the lifecycle that
// decides when to hand control back to the host page. It implements
// ebiten.Game, and can also be driven manually with Tick and Render.
//
// A Preloader is single-threaded. All calls must come from the goroutine
// that runs the host loop.
type Preloader struct {
	cfg      Config
	anim     *Animation // nil in reduced motion
	life     *Lifecycle
	renderer *Renderer
	log      *zap.Logger
	now      func() time.Time

	start     time.Time
	lastNow   time.Time
	width     float64
	height    float64
	stopped   bool
	junctions []Junction

	surface       *ImageSurface
	surfaceWarned bool

	debug      bool
	stats      debugStats
	showFPS    bool
	testRunner *TestRunner
	shots      []string
	shotSeq    int

	// ScreenshotDir is where queued screenshots are written.
	ScreenshotDir string
}

// Option customizes a Preloader created by Start.
type Option func(*Preloader)

// WithLogger routes lifecycle and debug messages to l.
func WithLogger(l *zap.Logger) Option {
	return func(p *Preloader) {
		if l != nil {
			p.log = l
		}
	}
}

// WithClock replaces time.Now as the preloader's time source.
func WithClock(now func() time.Time) Option {
	return func(p *Preloader) {
		if now != nil {
			p.now = now
		}
	}
}

// WithSize sets the initial logical surface size.
func WithSize(w, h float64) Option {
	return func(p *Preloader) {
		p.width, p.height = w, h
	}
}

// Start validates cfg and starts a preloader. onDone fires exactly once when
// the preloader should be removed; it may be nil. Invalid configs fail with
// ErrInvalidParameter and nothing is started.
func Start(cfg Config, onDone func(), opts ...Option) (*Preloader, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	p := &Preloader{
		cfg:           cfg,
		renderer:      NewRenderer(cfg.Palette),
		log:           zap.NewNop(),
		now:           time.Now,
		width:         640,
		height:        480,
		ScreenshotDir: "screenshots",
	}
	for _, opt := range opts {
		opt(p)
	}

	if !cfg.ReducedMotion {
		anim, err := NewAnimation(cfg.clock(), cfg.Topology, cfg.BranchCount, cfg.Seed, cfg.SeedPolicy)
		if err != nil {
			return nil, err
		}
		anim.SetLogger(p.log)
		anim.SetCenter(p.center())
		p.anim = anim
	}

	p.start = p.now()
	p.lastNow = p.start
	done := func() {
		p.log.Info("sprout: preloader done",
			zap.Stringer("reason", p.life.Reason()),
			zap.Duration("elapsed", p.lastNow.Sub(p.start)))
		if onDone != nil {
			onDone()
		}
	}
	p.life = NewLifecycle(p.start, cfg.MinVisibleDuration, cfg.MaxVisibleDuration, cfg.FadeOutDelay, done)
	if p.anim != nil {
		p.anim.Start(p.start)
	}
	p.log.Debug("sprout: preloader started",
		zap.Int32("seed", cfg.Seed),
		zap.Int("branches", cfg.BranchCount),
		zap.Stringer("strategy", cfg.Topology.Strategy),
		zap.Bool("reducedMotion", cfg.ReducedMotion))
	return p, nil
}

// PageReady is the host's signal that the surrounding page has loaded.
func (p *Preloader) PageReady() {
	if !p.life.Ready() {
		p.log.Debug("sprout: page ready", zap.Duration("elapsed", p.lastNow.Sub(p.start)))
	}
	p.life.PageReady()
}

// Tick advances the lifecycle and the animation to now. It does nothing
// after Stop.
func (p *Preloader) Tick(now time.Time) {
	if p.stopped {
		return
	}
	p.lastNow = now
	p.life.Tick(now)
	if p.anim != nil {
		p.anim.SetCenter(p.center())
		p.anim.Update(now)
		if p.cfg.Junctions {
			p.junctions = FindJunctions(p.anim.Branches(), p.junctions)
		}
	}
}

// Render paints the current frame onto s. A nil surface returns
// ErrSurfaceUnavailable and draws nothing; the lifecycle is unaffected.
func (p *Preloader) Render(s Surface) error {
	if s == nil {
		return ErrSurfaceUnavailable
	}
	f := Frame{
		Center:        p.center(),
		Elapsed:       p.lastNow.Sub(p.start),
		ReducedMotion: p.anim == nil,
	}
	if p.anim != nil {
		f.Branches = p.anim.Branches()
		f.State = p.anim.Frame()
		f.Junctions = p.junctions
	}
	p.stats.commandCount = p.renderer.Render(s, f)
	return nil
}

// Resize sets the logical surface size. Only the center moves; branch
// geometry is translated on the next tick.
func (p *Preloader) Resize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	p.width, p.height = w, h
}

// Stop cancels the preloader. Later Tick calls do nothing and onDone will
// not fire if it has not already.
func (p *Preloader) Stop() { p.stopped = true }

// Visible reports whether the preloader is still shown at full opacity.
func (p *Preloader) Visible() bool { return p.life.Visible() }

// Done reports whether onDone has fired.
func (p *Preloader) Done() bool { return p.life.Done() }

// Alpha returns the overlay opacity for the host to apply.
func (p *Preloader) Alpha() float64 { return p.life.Alpha() }

// Animation returns the growth animation, or nil in reduced motion.
func (p *Preloader) Animation() *Animation { return p.anim }

// Lifecycle returns the lifecycle controller.
func (p *Preloader) Lifecycle() *Lifecycle { return p.life }

// Config returns the config the preloader was started with.
func (p *Preloader) Config() Config { return p.cfg }

func (p *Preloader) center() Vec2 {
	return Vec2{p.width / 2, p.height / 2}
}

// --- ebiten.Game ---

// Update implements ebiten.Game.
func (p *Preloader) Update() error {
	var t0 time.Time
	if p.debug {
		t0 = time.Now()
	}
	if p.testRunner != nil {
		p.testRunner.step(p)
		p.Tick(p.testRunner.Now())
	} else {
		p.Tick(p.now())
	}
	if p.debug {
		p.stats.updateTime = time.Since(t0)
	}
	return nil
}

// Draw implements ebiten.Game. A nil screen is logged once and skipped.
func (p *Preloader) Draw(screen *ebiten.Image) {
	if screen == nil {
		if !p.surfaceWarned {
			p.log.Warn("sprout: no drawing surface, skipping frames", zap.Error(ErrSurfaceUnavailable))
			p.surfaceWarned = true
		}
		return
	}
	if p.surface == nil {
		p.surface, _ = NewImageSurface(screen)
	} else {
		p.surface.SetTarget(screen)
	}

	var t0 time.Time
	if p.debug {
		t0 = time.Now()
	}
	_ = p.Render(p.surface)
	if p.debug {
		p.stats.renderTime = time.Since(t0)
		p.debugLog()
	}
	if p.showFPS {
		drawFPS(screen)
	}
	p.flushScreenshots(screen)
}

// Layout implements ebiten.Game.
func (p *Preloader) Layout(outsideWidth, outsideHeight int) (int, int) {
	p.Resize(float64(outsideWidth), float64(outsideHeight))
	return outsideWidth, outsideHeight
}

var _ ebiten.Game = (*Preloader)(nil)
