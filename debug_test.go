package sprout

import (
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestSetDebugMode(t *testing.T) {
	p, _ := startTestPreloader(t, DefaultConfig(), nil)
	p.SetDebugMode(true)
	if !p.debug || !p.showFPS {
		t.Error("debug mode should enable stats and FPS overlay")
	}
	p.SetDebugMode(false)
	if p.debug || p.showFPS {
		t.Error("debug mode should be off")
	}
}

func TestDebugLogFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	clk := newFakeClock()
	p, err := Start(DefaultConfig(), nil, WithClock(clk.now), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatal(err)
	}
	p.SetDebugMode(true)
	clk.advance(time.Second)
	p.Tick(clk.now())
	_ = p.Render(NewRecordingSurface(640, 480))
	p.debugLog()

	entries := logs.FilterMessage("sprout: frame").All()
	if len(entries) != 1 {
		t.Fatalf("frame entries = %d, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["commands"] != int64(p.CommandCount()) {
		t.Errorf("commands field = %v, want %d", fields["commands"], p.CommandCount())
	}
	if fields["phase"] != "growing" {
		t.Errorf("phase field = %v", fields["phase"])
	}
}

func TestDebugLogDisabled(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	p, err := Start(DefaultConfig(), nil, WithLogger(zap.New(core)))
	if err != nil {
		t.Fatal(err)
	}
	p.debugLog()
	if n := logs.FilterMessage("sprout: frame").Len(); n != 0 {
		t.Errorf("frame entries = %d with debug off", n)
	}
}

func TestCycleResetLogged(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	clk := newFakeClock()
	p, err := Start(DefaultConfig(), nil, WithClock(clk.now), WithLogger(zap.New(core)))
	if err != nil {
		t.Fatal(err)
	}
	clk.advance(5100 * time.Millisecond)
	p.Tick(clk.now())
	if n := logs.FilterMessage("sprout: cycle reset").Len(); n != 1 {
		t.Errorf("cycle reset entries = %d, want 1", n)
	}
}
