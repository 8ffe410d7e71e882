// events.go - typed edge events carried from the input-sampling goroutine to the controller

package main

// EventKind identifies which input produced an Event.
type EventKind int

const (
	EventTap EventKind = iota
	EventExternalClock
	EventAveragingToggle
	EventSourceToggle
	EventTapAlign
	EventModePress
	EventModeRelease
	EventEncoderStep
)

// InputSource selects which pulse input is live: the tap footswitch or an
// external clock signal. Only the selected source's pulses reach the tempo
// counter; the other's are ignored entirely, matching the firmware's
// input-source pin gating the tap-closed and external-clock ISRs.
type InputSource int

const (
	SourceTap InputSource = iota
	SourceExternal
)

func (s InputSource) String() string {
	if s == SourceExternal {
		return "external"
	}
	return "tap"
}

// Event is a single debounced edge or encoder step, queued from the
// non-blocking input-sampling path to the single goroutine that owns all
// mutable tempo/mode/DDS state. Encoding every input as one typed value
// keeps that goroutine's select loop to one channel, mirroring the
// firmware's single-threaded main loop reading a handful of flags set by
// ISRs.
type Event struct {
	Kind EventKind

	// EncoderDelta carries +1/-1 for EventEncoderStep; 0 otherwise.
	EncoderDelta int
}
