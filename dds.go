// dds.go - direct digital synthesis: phase accumulation, table lookup, sync outputs

package main

// halfPhase is the phase-accumulator value at the midpoint of one full
// cycle, used to detect the half-cycle crossing that drives the 2x sync
// output independently of the full-cycle overflow.
const halfPhase = uint32(1) << 31

// DDS advances a pair of 32-bit phase accumulators - one for the base
// tempo, one for the musically-scaled derived (sub-beat) waveform - once
// per sample period, and looks up the resulting PWM duty from a Plotter.
// It also derives the two digital sync outputs from the base accumulator's
// overflow behaviour, matching the firmware's TIMER1_OVF handling.
type DDS struct {
	baseAcc    uint32
	derivedAcc uint32

	plotter    *Plotter
	multiplier Multiplier
	alignment  alignmentTracker

	syncOut   bool
	sync2xOut bool
}

// NewDDS returns a DDS drawing its waveform from plotter, defaulting to a
// quarter-note (1:1) multiplier.
func NewDDS(plotter *Plotter) *DDS {
	return &DDS{plotter: plotter, multiplier: MultiplierQuarter}
}

// Sample is one sample period's output: the base waveform's PWM duty (what
// the original firmware calls SYNC_OUT's analog counterpart when driven
// through a filter), the derived waveform's PWM duty, and the two digital
// sync lines.
type Sample struct {
	BaseDuty    uint8
	DerivedDuty uint8
	SyncOut     bool
	Sync2xOut   bool

	// TapActiveLED and ModeLED are panel indicators, not part of the DDS
	// engine itself; Controller.AdvanceSample fills them in on every
	// sample so a single Outputs.Write call carries the full observable
	// state of one sample period.
	TapActiveLED bool
	ModeLED      SelectionMode
}

// Advance steps both accumulators by one sample period using baseDuty as
// the base step and baseDuty scaled by the current multiplier as the
// derived step. counting suppresses the SYNC_OUT toggle (but never
// SYNC_2X_OUT) while a tap or clock period is being measured, matching the
// firmware's rule that the sync output freezes mid-measurement.
func (d *DDS) Advance(baseDuty uint32, counting bool) Sample {
	derivedDuty := scaleDuty(baseDuty, d.multiplier)

	prevBase := d.baseAcc
	d.baseAcc += baseDuty
	baseOverflowed := d.baseAcc < prevBase
	halfCrossed := prevBase < halfPhase && d.baseAcc >= halfPhase && !baseOverflowed

	if baseOverflowed {
		if !counting {
			d.syncOut = !d.syncOut
		}
		d.sync2xOut = !d.sync2xOut
		if d.alignment.onBaseOverflow(d.multiplier) {
			d.derivedAcc = 0
		}
		d.plotter.RefreshRandom()
	} else if halfCrossed {
		d.sync2xOut = !d.sync2xOut
	}

	d.derivedAcc += derivedDuty

	return Sample{
		BaseDuty:    d.plotter.Plot(uint8(d.baseAcc >> 24)),
		DerivedDuty: d.plotter.Plot(uint8(d.derivedAcc >> 24)),
		SyncOut:     d.syncOut,
		Sync2xOut:   d.sync2xOut,
	}
}

// SetMultiplier moves the derived waveform's multiplier by delta, clamped
// (not wrapped) at both ends, and immediately re-projects the derived phase
// from the base phase under the new ratio rather than leaving derivedAcc to
// glitch until the next alignment point.
func (d *DDS) SetMultiplier(delta int) {
	d.multiplier = clampMultiplier(d.multiplier, delta)
	d.reprojectDerivedPhase()
}

// Multiplier returns the currently selected multiplier.
func (d *DDS) Multiplier() Multiplier {
	return d.multiplier
}

// ResetMultiplier restores the quarter-note (1:1) default and re-projects
// the derived phase under it, same as SetMultiplier.
func (d *DDS) ResetMultiplier() {
	d.multiplier = MultiplierQuarter
	d.reprojectDerivedPhase()
}

// reprojectDerivedPhase recomputes derivedAcc from the current baseAcc
// using the new multiplier's exact ratio, the phase-coherent equivalent of
// AdjustPhaseAccumulation in the original firmware: it places the derived
// waveform where it would already be had the new multiplier been active
// since the last base-cycle downbeat, instead of stepping it from whatever
// value the old multiplier left behind.
func (d *DDS) reprojectDerivedPhase() {
	num := uint64(multiplierRatioNum[d.multiplier])
	den := uint64(multiplierRatioDen[d.multiplier])
	d.derivedAcc = uint32((uint64(d.baseAcc) * num) / den)
}

// AlignNow forces the derived phase back into alignment with the base
// phase immediately, independent of the 12-cycle alignment schedule -
// the firmware's realign action on the tap-align switch closing while tap
// (not external clock) is the active input source.
func (d *DDS) AlignNow() {
	d.derivedAcc = 0
	d.alignment.reset()
}

// Reset returns both accumulators, the alignment schedule and the sync
// outputs to their power-on state without touching the selected multiplier
// or waveform.
func (d *DDS) Reset() {
	d.baseAcc = 0
	d.derivedAcc = 0
	d.alignment.reset()
	d.syncOut = false
	d.sync2xOut = false
}
