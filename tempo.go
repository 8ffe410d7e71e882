// tempo.go - tap/clock period measurement, averaging, and duty-cycle recalculation

package main

// Tempo measures the period between two pulses (taps or external clock
// edges), optionally averages it, rejects it if out of the supported range,
// and converts it to a phase-accumulator step (duty). It has no notion of
// which pin produced the pulses; the controller decides that.
//
// The effective tempo is baseMs (the last tapped/measured/averaged period)
// plus adjustOffset (a signed nudge applied only by the encoder in speed
// mode). The two are kept separate because a speed-mode long-press reset
// must clear the offset without touching the last tapped tempo.
type Tempo struct {
	counting  bool
	elapsedMs uint32

	baseMs       uint32 // last tapped/measured/averaged tempo period, milliseconds
	adjustOffset int32  // encoder speed-adjustment offset, separate from baseMs

	effectiveMs uint32 // baseMs + adjustOffset, the value actually driving duty
	duty        uint32 // current base phase-accumulator step

	avg           *Averager
	averageEnable bool
}

// NewTempo returns a Tempo at the default tempo, averaging disabled.
func NewTempo() *Tempo {
	t := &Tempo{avg: NewAverager()}
	t.baseMs = defaultTempo
	t.recompute()
	return t
}

// SetAveraging enables or disables averaging of successive tap periods.
// Disabling clears any in-flight average, matching the firmware's behaviour
// when the averaging-enable pin is toggled off mid-sequence.
func (t *Tempo) SetAveraging(enabled bool) {
	t.averageEnable = enabled
	if !enabled {
		t.avg.Reset()
	}
}

// StartCount begins timing a new period; called on the leading edge of a
// tap or external clock pulse. A start while already counting restarts the
// measurement rather than accumulating across it.
func (t *Tempo) StartCount() {
	t.counting = true
	t.elapsedMs = 0
}

// StopCount ends timing, feeds the elapsed period through averaging (if
// enabled and not bypassed), applies the result as the new base tempo, and
// returns the measured (pre-average) period for callers that need the raw
// value (e.g. to seed the random-waveform generator on the very first tap).
// bypassAveraging skips the average even with averaging enabled, used when
// the pulse came from an external clock rather than a tap.
func (t *Tempo) StopCount(bypassAveraging bool) (measuredMs uint32, ok bool) {
	if !t.counting {
		return 0, false
	}
	t.counting = false
	measured := t.elapsedMs

	applied := measured
	if t.averageEnable && !bypassAveraging {
		t.avg.Submit(measured)
		applied = t.avg.Average()
	}
	t.SetBaseTempo(applied)
	return measured, true
}

// Abort cancels an in-flight measurement without applying anything,
// matching the firmware's forced timeout on an input-source change or a
// tap-align switch closing while not the clock source.
func (t *Tempo) Abort() {
	t.counting = false
	t.elapsedMs = 0
}

// ResetAverage clears the averaging ring without touching the
// averaging-enabled flag, used when the input source changes - the
// in-flight history no longer applies to the newly-selected source.
func (t *Tempo) ResetAverage() {
	t.avg.Reset()
}

// Tick advances the in-progress measurement by one millisecond and aborts
// it if it has run past the slowest supported tempo, treating an
// unreasonably long gap between pulses as an abandoned tap rather than a
// valid (very slow) one.
func (t *Tempo) Tick() {
	if !t.counting {
		return
	}
	t.elapsedMs++
	if t.elapsedMs > minFreqMs {
		t.counting = false
	}
}

// Counting reports whether a period measurement is in progress.
func (t *Tempo) Counting() bool {
	return t.counting
}

// SetBaseTempo rejects ms outside [maxFreqMs, minFreqMs] as a silent no-op -
// an out-of-range tap or clock period is left entirely unapplied rather than
// clamped to the boundary, matching the original firmware's
// if (out of range) return; guard. An in-range ms is applied unless it falls
// within tempoHysteresisMs of the current base tempo - a dead band that
// keeps a tempo already locked in from jittering on every near-identical
// tap.
func (t *Tempo) SetBaseTempo(ms uint32) {
	if ms < maxFreqMs || ms > minFreqMs {
		return
	}

	var delta uint32
	if ms > t.baseMs {
		delta = ms - t.baseMs
	} else {
		delta = t.baseMs - ms
	}
	if delta <= tempoHysteresisMs {
		return
	}
	t.baseMs = ms
	t.recompute()
}

// AdjustOffset nudges the speed-adjust offset by delta, rejecting the
// adjustment entirely (no-op) if the resulting effective tempo would fall
// outside [maxFreqMs, minFreqMs], mirroring the original firmware's
// AdjustSpeed guard. It never touches baseMs - only ResetAdjustOffset does.
func (t *Tempo) AdjustOffset(delta int32) {
	tentative := int64(t.baseMs) + int64(t.adjustOffset) + int64(delta)
	if tentative < int64(maxFreqMs) || tentative > int64(minFreqMs) {
		return
	}
	t.adjustOffset += delta
	t.recompute()
}

// ResetAdjustOffset zeros the speed-adjust offset, leaving the last
// tapped/measured base tempo untouched - the firmware's
// ResetSpeedAdjustSetting, which only clears g_tempo_adjust_offset.
func (t *Tempo) ResetAdjustOffset() {
	t.adjustOffset = 0
	t.recompute()
}

// recompute derives the effective tempo and duty from baseMs and
// adjustOffset.
func (t *Tempo) recompute() {
	t.effectiveMs = uint32(int64(t.baseMs) + int64(t.adjustOffset))
	t.duty = recalculateDuty(t.effectiveMs)
}

// recalculateDuty converts a period in milliseconds to a 32-bit
// phase-accumulator step using the fixed-point reciprocal
// dutyCycleDivisor, avoiding any floating point:
//
//	step = (1000 * 2^32) / (SAMPLE_RATE * period_ms)
//
// which rearranges to dutyCycleDivisor*1000/period_ms since
// dutyCycleDivisor == 2^32/SAMPLE_RATE.
func recalculateDuty(periodMs uint32) uint32 {
	return uint32((dutyCycleDivisor * 1000) / uint64(periodMs))
}

// TempoMs returns the current effective tempo in milliseconds (base tempo
// plus any speed-adjust offset).
func (t *Tempo) TempoMs() uint32 {
	return t.effectiveMs
}

// BaseTempoMs returns the last tapped/measured/averaged tempo, ignoring any
// speed-adjust offset.
func (t *Tempo) BaseTempoMs() uint32 {
	return t.baseMs
}

// Duty returns the current base phase-accumulator step.
func (t *Tempo) Duty() uint32 {
	return t.duty
}

// Reset restores power-on defaults: default tempo, no adjust offset,
// averaging off, no count in progress.
func (t *Tempo) Reset() {
	t.counting = false
	t.elapsedMs = 0
	t.averageEnable = false
	t.avg.Reset()
	t.baseMs = defaultTempo
	t.adjustOffset = 0
	t.recompute()
}
