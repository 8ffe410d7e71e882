package main

import "testing"

func TestController_TapStartStopSetsTempo(t *testing.T) {
	c := NewController()
	c.HandleEvent(Event{Kind: EventTap})
	for i := 0; i < 600; i++ {
		c.Tick()
	}
	c.HandleEvent(Event{Kind: EventTap})

	if got := c.tempo.TempoMs(); got != 600 {
		t.Fatalf("TempoMs() after tap pair = %d, want 600", got)
	}
}

func TestController_FirstTapSeedsRandomOnce(t *testing.T) {
	c := NewController()
	if c.seeded {
		t.Fatalf("seeded = true before any tap completed")
	}

	c.HandleEvent(Event{Kind: EventTap})
	for i := 0; i < 500; i++ {
		c.Tick()
	}
	c.HandleEvent(Event{Kind: EventTap})
	if !c.seeded {
		t.Fatalf("seeded = false after the first completed tap")
	}
}

func TestController_SyncOutFreezesWhileCounting(t *testing.T) {
	c := NewController()
	c.HandleEvent(Event{Kind: EventTap})

	var sawToggle bool
	prev := c.dds.syncOut
	for i := 0; i < 2000; i++ {
		s := c.AdvanceSample()
		if s.SyncOut != prev {
			sawToggle = true
		}
		prev = s.SyncOut
	}
	if sawToggle {
		t.Fatalf("SyncOut toggled while a tap measurement was in progress")
	}
}

func TestController_EncoderInSpeedModeAdjustsTempo(t *testing.T) {
	c := NewController()
	c.mode.Advance() // -> speed
	before := c.tempo.TempoMs()

	c.HandleEvent(Event{Kind: EventEncoderStep, EncoderDelta: 1})
	if got := c.tempo.TempoMs(); got == before {
		t.Fatalf("TempoMs() unchanged after a speed-mode encoder step")
	}
}

func TestController_EncoderInWaveformModeChangesWaveform(t *testing.T) {
	c := NewController()
	c.mode.Advance() // -> speed
	c.mode.Advance() // -> waveform
	before := c.plotter.Waveform()

	c.HandleEvent(Event{Kind: EventEncoderStep, EncoderDelta: 1})
	if c.plotter.Waveform() == before {
		t.Fatalf("Waveform() unchanged after a waveform-mode encoder step")
	}
}

func TestController_EncoderInMultiplierModeChangesMultiplier(t *testing.T) {
	c := NewController() // defaults to multiplier mode
	before := c.dds.Multiplier()

	c.HandleEvent(Event{Kind: EventEncoderStep, EncoderDelta: 1})
	if c.dds.Multiplier() == before {
		t.Fatalf("Multiplier() unchanged after a multiplier-mode encoder step")
	}
}

func TestController_ModeButtonShortPressAdvancesMode(t *testing.T) {
	c := NewController()
	before := c.mode.Mode()

	c.HandleEvent(Event{Kind: EventModePress})
	for i := 0; i < 50; i++ {
		c.Tick()
	}
	c.HandleEvent(Event{Kind: EventModeRelease})

	if c.mode.Mode() == before {
		t.Fatalf("Mode() unchanged after a short press")
	}
}

func TestController_ModeButtonLongPressResetsInsteadOfAdvancing(t *testing.T) {
	c := NewController()
	c.mode.Advance() // -> speed
	c.tempo.SetBaseTempo(700)
	c.HandleEvent(Event{Kind: EventEncoderStep, EncoderDelta: 5}) // nudge the speed-adjust offset
	baseBefore := c.tempo.BaseTempoMs()
	before := c.mode.Mode()

	c.HandleEvent(Event{Kind: EventModePress})
	for i := 0; i < resetHoldMs+10; i++ {
		c.Tick() // resetCurrentMode fires internally once the threshold is crossed
	}
	c.HandleEvent(Event{Kind: EventModeRelease})

	if c.mode.Mode() != before {
		t.Fatalf("Mode() = %v after a long press, want unchanged %v", c.mode.Mode(), before)
	}
	if got := c.tempo.BaseTempoMs(); got != baseBefore {
		t.Fatalf("BaseTempoMs() after long-press reset in speed mode = %d, want unchanged %d", got, baseBefore)
	}
	if got := c.tempo.TempoMs(); got != baseBefore {
		t.Fatalf("TempoMs() after long-press reset in speed mode = %d, want the base tempo %d with the offset cleared", got, baseBefore)
	}
}

func TestController_TapAlignWhileExternalClockIsSourceOnlyFlipsIs2xCounting(t *testing.T) {
	c := NewController()
	c.HandleEvent(Event{Kind: EventSourceToggle}) // -> external clock
	tempoBefore := c.tempo.TempoMs()
	multiplierBefore := c.dds.Multiplier()
	waveformBefore := c.plotter.Waveform()

	c.HandleEvent(Event{Kind: EventTapAlign})

	if !c.is2xCounting {
		t.Fatalf("is2xCounting = false after the tap-align switch while external clock is the source")
	}
	if c.tempo.TempoMs() != tempoBefore || c.dds.Multiplier() != multiplierBefore || c.plotter.Waveform() != waveformBefore {
		t.Fatalf("tap-align had a side effect beyond flipping is2xCounting")
	}
}

func TestController_TapAlignWhileTapIsSourceAbortsAndRealigns(t *testing.T) {
	c := NewController()
	c.HandleEvent(Event{Kind: EventTap}) // start a measurement
	if !c.tempo.Counting() {
		t.Fatalf("setup: expected a measurement in progress after the tap")
	}

	c.HandleEvent(Event{Kind: EventTapAlign})

	if c.tempo.Counting() {
		t.Fatalf("Counting() = true after a tap-align switch closure, want the measurement aborted")
	}
	if c.is2xCounting {
		t.Fatalf("is2xCounting flipped while tap is the source, want it untouched")
	}
}

func TestController_SourceGatesWhichPulseIsLive(t *testing.T) {
	c := NewController()

	c.HandleEvent(Event{Kind: EventExternalClock}) // ignored: tap is still the source
	if c.tempo.Counting() {
		t.Fatalf("Counting() = true after an external clock pulse while tap is the source")
	}

	c.HandleEvent(Event{Kind: EventSourceToggle}) // -> external clock
	c.HandleEvent(Event{Kind: EventTap})          // now ignored
	if c.tempo.Counting() {
		t.Fatalf("Counting() = true after a tap while external clock is the source")
	}

	c.HandleEvent(Event{Kind: EventExternalClock})
	if !c.tempo.Counting() {
		t.Fatalf("Counting() = false after an external clock pulse while it is the source")
	}
}

func TestController_SourceChangeAbortsInFlightMeasurementAndResetsAveraging(t *testing.T) {
	c := NewController()
	c.HandleEvent(Event{Kind: EventAveragingToggle})
	c.HandleEvent(Event{Kind: EventTap})
	for i := 0; i < 400; i++ {
		c.Tick()
	}
	c.HandleEvent(Event{Kind: EventTap}) // completes one averaged sample
	c.HandleEvent(Event{Kind: EventTap}) // starts a second, in-flight measurement

	c.HandleEvent(Event{Kind: EventSourceToggle})

	if c.tempo.Counting() {
		t.Fatalf("Counting() = true after a source change, want the in-flight measurement aborted")
	}
	if c.source != SourceExternal {
		t.Fatalf("source = %v after toggling, want external", c.source)
	}
	if got := c.tempo.avg.Average(); got != 0 {
		t.Fatalf("averaging history after a source change averages to %d, want it cleared (0)", got)
	}
}

func TestController_ResetAllRestoresDefaults(t *testing.T) {
	c := NewController()
	c.tempo.SetBaseTempo(700)
	c.dds.SetMultiplier(1)
	c.plotter.SetWaveform(1)
	c.mode.Advance()
	c.HandleEvent(Event{Kind: EventSourceToggle})
	c.HandleEvent(Event{Kind: EventTapAlign})

	c.ResetAll()

	if c.tempo.TempoMs() != defaultTempo {
		t.Fatalf("TempoMs() after ResetAll() = %d, want %d", c.tempo.TempoMs(), defaultTempo)
	}
	if c.dds.Multiplier() != MultiplierQuarter {
		t.Fatalf("Multiplier() after ResetAll() = %v, want quarter", c.dds.Multiplier())
	}
	if c.plotter.Waveform() != WaveformSine {
		t.Fatalf("Waveform() after ResetAll() = %v, want sine", c.plotter.Waveform())
	}
	if c.mode.Mode() != SelectionMultiplier {
		t.Fatalf("Mode() after ResetAll() = %v, want multiplier", c.mode.Mode())
	}
	if c.is2xCounting {
		t.Fatalf("is2xCounting after ResetAll() = true, want false")
	}
	if c.source != SourceTap {
		t.Fatalf("source after ResetAll() = %v, want tap", c.source)
	}
}
