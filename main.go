// main.go - process entry point: flag parsing and backend wiring

package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "tap tempo clock/LFO core - space is the tap footswitch,\n")
		fmt.Fprintf(os.Stderr, "'c' an external clock pulse, 's' toggles the input source\n")
		fmt.Fprintf(os.Stderr, "between tap and external clock, 't' closes the tap-align\n")
		fmt.Fprintf(os.Stderr, "switch (realigns the derived waveform while tap is the\n")
		fmt.Fprintf(os.Stderr, "source, or flips the 2x-counting flag while external clock\n")
		fmt.Fprintf(os.Stderr, "is), 'm' the mode button, 'a' averaging, and the left/right\n")
		fmt.Fprintf(os.Stderr, "arrows the rotary encoder.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *showVersion {
		fmt.Println("taptempo dev")
		return
	}

	outputs, cleanup, err := newDefaultOutputs()
	if err != nil {
		log.Fatalf("taptempo: %v", err)
	}
	defer cleanup()

	inputs, err := newDefaultInputs()
	if err != nil {
		log.Fatalf("taptempo: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sys := NewSystem(outputs, inputs)
	if err := sys.Run(ctx); err != nil && ctx.Err() == nil {
		log.Fatalf("taptempo: %v", err)
	}
}
