package sprout

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// DismissReason records why a Lifecycle left the visible state.
type DismissReason uint8

const (
	DismissNone     DismissReason = iota // still visible
	DismissReady                         // page ready and minimum duration reached
	DismissFallback                      // maximum duration reached without a ready signal
)

// String implements fmt.Stringer.
func (r DismissReason) String() string {
	switch r {
	case DismissReady:
		return "ready"
	case DismissFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Lifecycle decides when the preloader goes away. It leaves the visible
// state exactly once, either when the page is ready and MinDuration has
// passed, or when MaxDuration passes without a ready signal. A stalled ready
// signal therefore never blocks the host forever.
//
// Lifecycle is tick driven and holds no timers of its own.
type Lifecycle struct {
	// MinDuration is the shortest time the preloader stays visible.
	MinDuration time.Duration
	// MaxDuration forces completion even if the page never reports ready.
	MaxDuration time.Duration
	// FadeOutDelay is the overlay fade between dismissal and onDone.
	FadeOutDelay time.Duration

	start     time.Time
	ready     bool
	visible   bool
	done      bool
	reason    DismissReason
	dismissed time.Time
	lastTick  time.Time
	fade      *gween.Tween
	alpha     float64
	onDone    func()
}

// DefaultMaxDuration is the fallback used when NewLifecycle is given a
// non-positive maximum.
const DefaultMaxDuration = 8 * time.Second

// NewLifecycle creates a visible Lifecycle that started at start. onDone may
// be nil. A non-positive maxDur becomes DefaultMaxDuration so the fallback
// cannot be switched off.
func NewLifecycle(start time.Time, minDur, maxDur, fadeOut time.Duration, onDone func()) *Lifecycle {
	if maxDur <= 0 {
		maxDur = DefaultMaxDuration
	}
	return &Lifecycle{
		MinDuration:  minDur,
		MaxDuration:  maxDur,
		FadeOutDelay: fadeOut,
		start:        start,
		visible:      true,
		alpha:        1,
		onDone:       onDone,
	}
}

// PageReady records the ready signal. Repeated calls are harmless.
func (l *Lifecycle) PageReady() {
	l.ready = true
}

// Tick advances the lifecycle to now.
func (l *Lifecycle) Tick(now time.Time) {
	if l.done {
		return
	}
	if l.visible {
		elapsed := now.Sub(l.start)
		switch {
		case l.ready && elapsed >= l.MinDuration:
			l.dismiss(now, DismissReady)
		case elapsed >= l.MaxDuration:
			l.dismiss(now, DismissFallback)
			l.finish()
			return
		default:
			return
		}
		if l.FadeOutDelay <= 0 {
			l.finish()
		}
		return
	}

	dt := now.Sub(l.lastTick)
	l.lastTick = now
	if dt > 0 {
		v, _ := l.fade.Update(float32(dt.Seconds()))
		l.alpha = clamp01(float64(v))
	}
	if now.Sub(l.dismissed) >= l.FadeOutDelay {
		l.finish()
	}
}

func (l *Lifecycle) dismiss(now time.Time, reason DismissReason) {
	l.visible = false
	l.reason = reason
	l.dismissed = now
	l.lastTick = now
	l.fade = gween.New(1, 0, float32(l.FadeOutDelay.Seconds()), ease.Linear)
}

func (l *Lifecycle) finish() {
	l.done = true
	l.alpha = 0
	if l.onDone != nil {
		l.onDone()
	}
}

// Visible reports whether the preloader has not been dismissed yet.
func (l *Lifecycle) Visible() bool { return l.visible }

// Done reports whether onDone has fired.
func (l *Lifecycle) Done() bool { return l.done }

// Ready reports whether the page signalled readiness.
func (l *Lifecycle) Ready() bool { return l.ready }

// Reason returns why the lifecycle was dismissed.
func (l *Lifecycle) Reason() DismissReason { return l.reason }

// Alpha returns the overlay opacity: 1 while visible, fading to 0 after
// dismissal.
func (l *Lifecycle) Alpha() float64 { return l.alpha }

// Elapsed returns the time since the lifecycle started.
func (l *Lifecycle) Elapsed(now time.Time) time.Duration { return now.Sub(l.start) }
