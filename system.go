// system.go - wires the controller to real time via tickers and an event channel

package main

import (
	"context"
	"log"
	"time"

	"golang.org/x/sync/errgroup"
)

// eventQueueDepth bounds the buffered channel carrying input events from
// the Inputs backend to the controller goroutine. A pin-change ISR that
// outran this buffer would indicate input arriving faster than a human can
// plausibly tap or turn a knob; spec.md's load-shedding rule says drop
// rather than block in that case.
const eventQueueDepth = 32

// System owns the real-time plumbing around a Controller: a sample-rate
// ticker driving AdvanceSample, a 1kHz ticker driving Tick, and the event
// channel an Inputs backend feeds. Exactly one goroutine - the one running
// Run's select loop - ever touches the Controller, so the Controller itself
// needs no locking.
type System struct {
	controller *Controller
	outputs    Outputs
	inputs     Inputs
}

// NewSystem builds a System around a fresh Controller.
func NewSystem(outputs Outputs, inputs Inputs) *System {
	return &System{
		controller: NewController(),
		outputs:    outputs,
		inputs:     inputs,
	}
}

// Run drives the system until ctx is cancelled or the Inputs backend
// returns an error. It starts the inputs goroutine and the sample/tick
// tickers under an errgroup so a failure in any one of them cancels the
// others.
func (s *System) Run(ctx context.Context) error {
	events := make(chan Event, eventQueueDepth)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.inputs.Run(ctx, events)
	})
	g.Go(func() error {
		return s.loop(ctx, events)
	})
	return g.Wait()
}

// loop is the single goroutine that owns the Controller: it multiplexes
// the sample ticker, the housekeeping ticker, and incoming events into
// serial calls on the controller, and forwards every produced Sample to
// the Outputs backend.
func (s *System) loop(ctx context.Context, events <-chan Event) error {
	sampleTicker := time.NewTicker(samplePeriod)
	defer sampleTicker.Stop()
	tickTicker := time.NewTicker(tickPeriod)
	defer tickTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case e := <-events:
			s.controller.HandleEvent(e)
		case <-tickTicker.C:
			s.controller.Tick()
		case <-sampleTicker.C:
			s.outputs.Write(s.controller.AdvanceSample())
		}
	}
}

// logDroppedEvent reports an event that could not be queued because the
// channel was full, rather than silently discarding it.
func logDroppedEvent(kind EventKind) {
	log.Printf("taptempo: dropped event kind=%d, input arriving faster than the event queue drains", kind)
}
