package sprout

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultFrameInterval is the virtual time a TestRunner advances per frame.
const DefaultFrameInterval = time.Second / 60

// testStep represents a single action in a test script.
type testStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	Ms     int64   `json:"ms,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

// testScript is the top-level JSON structure for a test script.
type testScript struct {
	FrameIntervalMs int64      `json:"frameIntervalMs,omitempty"`
	Steps           []testStep `json:"steps"`
}

// TestRunner replays a scripted session against a Preloader on a virtual
// clock, for automated visual testing. Every frame advances the clock by
// FrameInterval; "advance" steps jump it further. Attach with
// Preloader.SetTestRunner.
//
// Supported actions: "advance" (ms), "ready", "resize" (width, height),
// "screenshot" (label) and "wait" (frames).
type TestRunner struct {
	FrameInterval time.Duration

	steps     []testStep
	cursor    int
	waitCount int
	done      bool

	base   time.Time
	offset time.Duration
}

// LoadTestScript parses a JSON test script and returns a TestRunner ready
// to be attached via SetTestRunner. Malformed scripts fail with
// ErrInvalidScript.
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script testScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "parse test script"), ErrInvalidScript)
	}
	if len(script.Steps) == 0 {
		return nil, errors.Wrap(ErrInvalidScript, "parse test script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "advance", "ready", "resize", "screenshot", "wait":
		default:
			return nil, errors.Wrapf(ErrInvalidScript, "step %d: unknown action %q", i, st.Action)
		}
		if st.Action == "advance" && st.Ms < 0 {
			return nil, errors.Wrapf(ErrInvalidScript, "step %d: negative advance %dms", i, st.Ms)
		}
	}
	r := &TestRunner{steps: script.Steps, FrameInterval: DefaultFrameInterval}
	if script.FrameIntervalMs > 0 {
		r.FrameInterval = time.Duration(script.FrameIntervalMs) * time.Millisecond
	}
	return r, nil
}

// SetTestRunner attaches a TestRunner to the preloader. From then on Update
// reads time from the runner's virtual clock, starting at the preloader's
// start time.
func (p *Preloader) SetTestRunner(runner *TestRunner) {
	p.testRunner = runner
	if runner != nil {
		runner.base = p.start
		runner.offset = 0
	}
}

// Done reports whether all steps in the test script have been executed.
func (r *TestRunner) Done() bool {
	return r.done
}

// Now returns the current virtual time.
func (r *TestRunner) Now() time.Time {
	return r.base.Add(r.offset)
}

// Elapsed returns the virtual time elapsed since the runner was attached.
func (r *TestRunner) Elapsed() time.Duration {
	return r.offset
}

// step advances the test runner by one frame. Called from Preloader.Update.
func (r *TestRunner) step(p *Preloader) {
	r.offset += r.FrameInterval
	if r.done {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "advance":
		r.offset += time.Duration(st.Ms) * time.Millisecond
	case "ready":
		p.PageReady()
	case "resize":
		p.Resize(st.Width, st.Height)
	case "screenshot":
		p.Screenshot(st.Label)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 {
		r.done = true
	}
}

// RunScript drives p through runner headlessly, rendering every frame to s
// and writing queued screenshots from its snapshot. It stops when the script
// finishes or after maxFrames frames, and returns the screenshot paths.
func RunScript(p *Preloader, runner *TestRunner, s *RasterSurface, maxFrames int) ([]string, error) {
	p.SetTestRunner(runner)
	var paths []string
	for frame := 0; frame < maxFrames && !runner.Done(); frame++ {
		if err := p.Update(); err != nil {
			return paths, err
		}
		w, h := p.width, p.height
		s.Resize(int(w), int(h))
		if err := p.Render(s); err != nil {
			return paths, err
		}
		if p.PendingScreenshots() == 0 {
			continue
		}
		written, err := p.FlushScreenshots(s.Snapshot())
		paths = append(paths, written...)
		if err != nil {
			return paths, err
		}
	}
	return paths, nil
}
