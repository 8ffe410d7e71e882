//go:build headless

// backend_headless.go - no-op audio/video/input backend for servers and tests

package main

import (
	"context"
	"time"
)

// headlessOutputs discards every sample. Used for the headless build tag,
// where no audio device or display is available.
type headlessOutputs struct{}

func newDefaultOutputs() (Outputs, func(), error) {
	return headlessOutputs{}, func() {}, nil
}

func (headlessOutputs) Write(Sample) {}

// headlessInputs produces no events and simply blocks until ctx is
// cancelled, letting System.Run idle without a real input device.
type headlessInputs struct{}

func newDefaultInputs() (Inputs, error) {
	return headlessInputs{}, nil
}

func (headlessInputs) Run(ctx context.Context, _ chan<- Event) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
