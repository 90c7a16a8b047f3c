package sprout

import (
	"time"

	"go.uber.org/zap"
)

// debugStats holds per-frame timing and draw metrics.
// Only populated when debug mode is on.
type debugStats struct {
	updateTime   time.Duration
	renderTime   time.Duration
	commandCount int
}

// SetDebugMode enables or disables debug mode. When enabled, per-frame
// timing and draw-command counts are logged at debug level and the FPS
// overlay is drawn.
func (p *Preloader) SetDebugMode(enabled bool) {
	p.debug = enabled
	p.showFPS = enabled
}

// debugLog logs timing and draw stats for the frame just drawn.
func (p *Preloader) debugLog() {
	if !p.debug {
		return
	}
	branches := 0
	var fs FrameState
	if p.anim != nil {
		branches = len(p.anim.Branches())
		fs = p.anim.Frame()
	}
	p.log.Debug("sprout: frame",
		zap.Duration("update", p.stats.updateTime),
		zap.Duration("render", p.stats.renderTime),
		zap.Int("commands", p.stats.commandCount),
		zap.Int("branches", branches),
		zap.Int("junctions", len(p.junctions)),
		zap.Stringer("phase", fs.Phase),
		zap.Float64("cycleProgress", fs.CycleProgress))
}

// CommandCount returns the number of draw commands issued by the last
// Render call.
func (p *Preloader) CommandCount() int {
	return p.stats.commandCount
}
