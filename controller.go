// controller.go - the single goroutine that owns tempo, mode and waveform state

package main

// Controller is the non-ISR main loop: it owns every piece of mutable
// state (tempo measurement, selection mode, waveform, multiplier, DDS
// accumulators) and is the only thing that ever mutates it. Input events
// and the 1ms/sample-period ticks all funnel through its methods, which
// the owning goroutine calls serially - so nothing here needs its own
// locking, matching the firmware's single-threaded main loop reading flags
// set by ISRs.
type Controller struct {
	tempo   *Tempo
	dds     *DDS
	plotter *Plotter
	mode    *ModeSwitch
	random  RandomSource

	source       InputSource // which pulse input is live: tap or external clock
	seeded       bool        // random source has been reseeded from a real tap yet
	is2xCounting bool        // clock-source 2x-tap-align toggle; see DESIGN.md
}

// NewController wires up a Controller from scratch: the random source is
// built first and the plotter second, since the plotter draws from the
// random source and the DDS draws from the plotter; tempo, DDS and mode
// switch follow.
func NewController() *Controller {
	random := NewMathRandSource()
	plotter := NewPlotter(random)
	return &Controller{
		tempo:   NewTempo(),
		dds:     NewDDS(plotter),
		plotter: plotter,
		mode:    NewModeSwitch(),
		random:  random,
	}
}

// HandleEvent applies one debounced input edge or encoder step to the
// controller's state. Called from the goroutine that also calls Tick and
// AdvanceSample - never concurrently with either.
func (c *Controller) HandleEvent(e Event) {
	switch e.Kind {
	case EventTap:
		if c.source == SourceTap {
			c.handlePulse(false)
		}
	case EventExternalClock:
		if c.source == SourceExternal {
			c.handlePulse(true)
		}
	case EventAveragingToggle:
		c.tempo.SetAveraging(!c.tempo.averageEnable)
	case EventSourceToggle:
		c.changeSource()
	case EventTapAlign:
		c.handleTapAlign()
	case EventModePress:
		c.mode.PressStart()
	case EventModeRelease:
		if c.mode.PressEnd() {
			c.mode.Advance()
		}
	case EventEncoderStep:
		c.applyEncoderStep(e.EncoderDelta)
	}
}

// handlePulse starts or stops the in-flight period measurement, feeding the
// very first completed measurement to the random source as its seed.
// bypassAveraging is true for pulses from the external clock: §4.3 exempts
// a clock-sourced tempo from averaging even when averaging is enabled.
func (c *Controller) handlePulse(bypassAveraging bool) {
	if !c.tempo.Counting() {
		c.tempo.StartCount()
		return
	}
	measured, ok := c.tempo.StopCount(bypassAveraging)
	if ok && !c.seeded {
		c.random.Reseed(uint64(measured))
		c.seeded = true
	}
}

// changeSource flips which pulse input is live. Any measurement in flight
// on the old source is abandoned, and the averaging history is cleared -
// a period measured against one source has no bearing on the other.
func (c *Controller) changeSource() {
	if c.source == SourceTap {
		c.source = SourceExternal
	} else {
		c.source = SourceTap
	}
	c.tempo.Abort()
	c.tempo.ResetAverage()
}

// handleTapAlign dispatches the tap-align switch closing. While tap is the
// active source it forces a timeout of any in-flight measurement and
// re-aligns the derived waveform to the base phase immediately. While the
// external clock is the active source it instead flips is2xCounting with no
// other side effect - the firmware's documented quirk, preserved verbatim
// (see DESIGN.md).
func (c *Controller) handleTapAlign() {
	if c.source == SourceExternal {
		c.is2xCounting = !c.is2xCounting
		return
	}
	c.tempo.Abort()
	c.dds.AlignNow()
}

// applyEncoderStep routes one encoder detent to whichever parameter the
// current selection mode targets.
func (c *Controller) applyEncoderStep(dir int) {
	delta := c.mode.EncoderStep(dir)
	switch c.mode.Mode() {
	case SelectionSpeed:
		c.tempo.AdjustOffset(int32(delta))
	case SelectionWaveform:
		c.plotter.SetWaveform(delta)
	case SelectionMultiplier:
		c.dds.SetMultiplier(delta)
	}
}

// Tick advances every millisecond-granularity timer: the in-flight tempo
// measurement's timeout, and the mode switch's hold/idle timers. It also
// detects a long-press-to-reset and applies it directly, since there is no
// ISR-level distinction between "held long enough" and any other tick.
func (c *Controller) Tick() {
	c.tempo.Tick()
	c.mode.Tick()
	if c.mode.HoldThresholdReached() {
		c.resetCurrentMode()
	}
}

// resetCurrentMode restores the power-on default for whichever parameter
// the current selection mode targets, mirroring the firmware's
// mode-specific long-press reset dispatch.
func (c *Controller) resetCurrentMode() {
	switch c.mode.Mode() {
	case SelectionSpeed:
		// Zeros only the encoder's speed-adjust offset; the last
		// tapped/measured base tempo is left untouched.
		c.tempo.ResetAdjustOffset()
	case SelectionWaveform:
		c.plotter.ResetWaveform()
	case SelectionMultiplier:
		c.dds.ResetMultiplier()
	}
}

// AdvanceSample steps the DDS by one sample period using the current base
// tempo, suppressing the SYNC_OUT toggle while a measurement is in
// progress, and stamps the panel-indicator fields onto the resulting
// Sample.
func (c *Controller) AdvanceSample() Sample {
	s := c.dds.Advance(c.tempo.Duty(), c.tempo.Counting())
	s.TapActiveLED = c.tempo.Counting() && c.source == SourceTap
	s.ModeLED = c.mode.Mode()
	return s
}
