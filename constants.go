// constants.go - single source of truth for timing and buffer-size configuration

package main

import "time"

// Clock and sample-rate configuration. SAMPLE_RATE is derived from
// CPU_FREQ/TABLE_SIZE, matching the AVR firmware's Timer0/Timer1 overflow
// rate (8MHz / 256 = 31.25kHz).
const (
	cpuFreqHz    = 8_000_000
	tableSize    = 256
	sampleRateHz = cpuFreqHz / tableSize // 31250 Hz
	tickRateHz   = 1000                  // 1 kHz housekeeping tick

	samplePeriod = time.Second / sampleRateHz
	tickPeriod   = time.Second / tickRateHz
)

// Tempo bounds, in milliseconds. MAX_FREQ_MS is the fastest (shortest
// period) tempo accepted, MIN_FREQ_MS the slowest (longest period).
const (
	maxFreqMs    = 50    // 20 Hz
	minFreqMs    = 10000 // 0.1 Hz
	defaultTempo = 1000  // 1 Hz

	tempoHysteresisMs = 2 // SetBaseTempo no-ops within this band of the current tempo
)

// Debounce / averaging buffer sizes.
const (
	debounceWindow = 10
	avgCapacity    = 10
)

// Mode-reset long-press and encoder adaptive-speed timing.
const (
	resetHoldMs        = 2000
	fastEncoderMs      = 100
	encoderIdleMs      = 1000
	consecutivePerStep = 10
	stepIncrement      = 10
)

// Musical-multiplier alignment schedule: the number of base cycles between
// every multiplier's downbeat landing back on the base tempo's downbeat at
// once.
const multiplierAlignmentOffset = 12

// Random-waveform quantization.
const (
	randomStepCount = 8
	randomStepSize  = 0xff / randomStepCount
)

// dutyCycleDivisor is 2^32 / SAMPLE_RATE, used to convert a frequency in Hz
// into a 32-bit phase-accumulator step without floating point:
//
//	step = frequency_hz * dutyCycleDivisor
//
// matching the original firmware's DUTY_CYCLE_DIVISOR.
const dutyCycleDivisor = (uint64(1) << 32) / sampleRateHz
