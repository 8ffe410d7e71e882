// debounce.go - turns a stream of raw input-port snapshots into stable edge events

package main

// Debouncer turns a 1kHz stream of raw 8-bit input-port snapshots into
// stable closed/opened edge events. A pin must read the same logic level
// continuously for the full debounceWindow (10ms) before an edge is
// declared, which absorbs switch-contact chatter without a single explicit
// "noise" code path: the OR/AND reduction simply never latches a half-formed
// transition.
type Debouncer struct {
	window [debounceWindow]uint8
	index  int

	closedState uint8 // OR-reduced: bit clear only if the pin read low every sample
	openState   uint8 // AND-reduced: bit set only if the pin read high every sample

	closedChanged uint8
	openChanged   uint8
}

// NewDebouncer returns a Debouncer initialized as if every input had been
// open (logic high, given active-low switches) since power-on.
func NewDebouncer() *Debouncer {
	d := &Debouncer{}
	for i := range d.window {
		d.window[i] = 0xff
	}
	d.closedState = 0xff
	d.openState = 0xff
	return d
}

// Sample records the current raw port snapshot into the ring. The window
// spans the last debounceWindow calls, i.e. 10ms at one call per
// millisecond.
func (d *Debouncer) Sample(port uint8) {
	d.window[d.index] = port
	d.index++
	if d.index >= debounceWindow {
		d.index = 0
	}
}

// ComputeEdges OR/AND-reduces the sample window into new closed/open states
// and derives one-shot edge masks against the previous call: an edge is
// reported only by the call that first sees it. Nothing in this package
// calls the Debouncer; the input backends deliver already-debounced Events.
func (d *Debouncer) ComputeEdges() {
	var closed uint8 = 0x00
	var open uint8 = 0xff
	for _, s := range d.window {
		closed |= s
		open &= s
	}

	prevClosed, prevOpen := d.closedState, d.openState
	d.closedState, d.openState = closed, open
	d.closedChanged = closed ^ prevClosed
	d.openChanged = open ^ prevOpen
}

// WasClosed reports, for each bit set in pins, whether that pin transitioned
// to the closed (logic low) state on the most recent ComputeEdges call.
func (d *Debouncer) WasClosed(pins uint8) uint8 {
	return (^d.closedState & d.closedChanged) & pins
}

// WasOpened reports, for each bit set in pins, whether that pin transitioned
// to the open (logic high) state on the most recent ComputeEdges call.
func (d *Debouncer) WasOpened(pins uint8) uint8 {
	return (d.openState & d.openChanged) & pins
}
