// mode.go - encoder selection mode FSM and adaptive encoder-speed scaling

package main

// SelectionMode is which parameter the rotary encoder currently adjusts.
type SelectionMode int

const (
	SelectionSpeed SelectionMode = iota
	SelectionWaveform
	SelectionMultiplier
	selectionCount // sentinel
)

func (s SelectionMode) String() string {
	switch s {
	case SelectionSpeed:
		return "speed"
	case SelectionWaveform:
		return "waveform"
	case SelectionMultiplier:
		return "multiplier"
	default:
		return "unknown"
	}
}

// ModeSwitch tracks the currently selected mode and the adaptive step
// multiplier applied to encoder turns while in speed mode: turning the
// encoder quickly (successive steps under fastEncoderMs apart) ramps the
// step size up, so a large tempo change doesn't require dozens of detents.
type ModeSwitch struct {
	mode SelectionMode

	stepMultiplier int
	consecutive    int
	idleMs         uint32

	holdMs     uint32
	holding    bool
	consumed   bool // true once the current hold has already fired a long-press reset
}

// NewModeSwitch returns a ModeSwitch starting in multiplier-select mode,
// matching the firmware's boot sequence (which cycles through to
// multiplier before settling).
func NewModeSwitch() *ModeSwitch {
	return &ModeSwitch{mode: SelectionMultiplier, stepMultiplier: 1}
}

// Mode returns the currently selected mode.
func (m *ModeSwitch) Mode() SelectionMode {
	return m.mode
}

// Advance cycles to the next mode (Speed -> Waveform -> Multiplier ->
// Speed), called on a short press of the mode button.
func (m *ModeSwitch) Advance() {
	m.mode = SelectionMode((int(m.mode) + 1) % int(selectionCount))
	m.stepMultiplier = 1
	m.consecutive = 0
	m.idleMs = 0
}

// Tick advances the long-press hold timer and the encoder idle timer by one
// millisecond; call once per millisecond regardless of button/encoder
// activity.
func (m *ModeSwitch) Tick() {
	if m.holding {
		m.holdMs++
	}
	if m.idleMs < encoderIdleMs {
		m.idleMs++
		if m.idleMs >= encoderIdleMs {
			m.stepMultiplier = 1
			m.consecutive = 0
		}
	}
}

// PressStart begins timing a mode-button hold.
func (m *ModeSwitch) PressStart() {
	m.holding = true
	m.holdMs = 0
	m.consumed = false
}

// HoldThresholdReached reports, at most once per hold, whether the button
// has now been held long enough to count as a long press (reset) rather
// than a short press (advance mode). Once it returns true for a given
// press, it returns false for the remainder of that same hold so the
// eventual release is not also treated as a short press.
func (m *ModeSwitch) HoldThresholdReached() bool {
	if m.consumed || !m.holding {
		return false
	}
	if m.holdMs >= resetHoldMs {
		m.consumed = true
		return true
	}
	return false
}

// PressEnd ends the current hold and reports whether the release should be
// treated as a short press (the long-press threshold was never reached and
// therefore was not already consumed by HoldThresholdReached).
func (m *ModeSwitch) PressEnd() (shortPress bool) {
	wasConsumed := m.consumed
	m.holding = false
	m.holdMs = 0
	m.consumed = false
	return !wasConsumed
}

// EncoderStep registers one rotary-encoder detent, in direction dir (+1 or
// -1), and returns the signed amount the currently selected parameter
// should move by, folding in the adaptive step multiplier while in speed
// mode. Waveform and multiplier selection always move by exactly one
// position per detent regardless of turn speed.
func (m *ModeSwitch) EncoderStep(dir int) int {
	if m.mode != SelectionSpeed {
		if dir > 0 {
			return 1
		}
		return -1
	}

	fast := m.idleMs < fastEncoderMs
	m.idleMs = 0
	if fast {
		m.consecutive++
		if m.consecutive >= consecutivePerStep {
			m.consecutive = 0
			m.stepMultiplier += stepIncrement
		}
	} else {
		m.consecutive = 0
		m.stepMultiplier = 1
	}

	if dir > 0 {
		return m.stepMultiplier
	}
	return -m.stepMultiplier
}

// Reset restores power-on defaults: multiplier-select mode, step
// multiplier of 1, no hold in progress.
func (m *ModeSwitch) Reset() {
	*m = ModeSwitch{mode: SelectionMultiplier, stepMultiplier: 1}
}
