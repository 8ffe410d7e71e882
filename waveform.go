// waveform.go - table index to 8-bit PWM duty mapping for each waveform shape

package main

// Waveform selects which shape the Plotter draws for a given table index.
type Waveform int

const (
	WaveformSine Waveform = iota
	WaveformRampUp
	WaveformRampDown
	WaveformTriangle
	WaveformSquare
	WaveformRandom
	waveformCount // sentinel, not a selectable waveform
)

func (w Waveform) String() string {
	switch w {
	case WaveformSine:
		return "sine"
	case WaveformRampUp:
		return "ramp-up"
	case WaveformRampDown:
		return "ramp-down"
	case WaveformTriangle:
		return "triangle"
	case WaveformSquare:
		return "square"
	case WaveformRandom:
		return "random"
	default:
		return "unknown"
	}
}

// sineTable holds one full cycle of an 8-bit sine wave, re-phased so index 0
// is the minimum sample rather than the zero crossing. This matches the
// starting point of every other waveform so a phase reset never produces an
// audible discontinuity regardless of which waveform is selected.
var sineTable = [tableSize]uint8{
	0, 0, 0, 0, 1, 1, 1, 2, 2, 3, 4, 5, 5, 6, 7, 9,
	10, 11, 12, 14, 15, 17, 18, 20, 21, 23, 25, 27, 29, 31, 33, 35,
	37, 40, 42, 44, 47, 49, 52, 54, 57, 59, 62, 65, 67, 70, 73, 76,
	79, 82, 85, 88, 90, 93, 97, 100, 103, 106, 109, 112, 115, 118, 121, 124,
	128, 131, 134, 137, 140, 143, 146, 149, 152, 155, 158, 162, 165, 167, 170, 173,
	176, 179, 182, 185, 188, 190, 193, 196, 198, 201, 203, 206, 208, 211, 213, 215,
	218, 220, 222, 224, 226, 228, 230, 232, 234, 235, 237, 238, 240, 241, 243, 244,
	245, 246, 248, 249, 250, 250, 251, 252, 253, 253, 254, 254, 254, 255, 255, 255,
	255, 255, 255, 255, 254, 254, 254, 253, 253, 252, 251, 250, 250, 249, 248, 246,
	245, 244, 243, 241, 240, 238, 237, 235, 234, 232, 230, 228, 226, 224, 222, 220,
	218, 215, 213, 211, 208, 206, 203, 201, 198, 196, 193, 190, 188, 185, 182, 179,
	176, 173, 170, 167, 165, 162, 158, 155, 152, 149, 146, 143, 140, 137, 134, 131,
	128, 124, 121, 118, 115, 112, 109, 106, 103, 100, 97, 93, 90, 88, 85, 82,
	79, 76, 73, 70, 67, 65, 62, 59, 57, 54, 52, 49, 47, 44, 42, 40,
	37, 35, 33, 31, 29, 27, 25, 23, 21, 20, 18, 17, 15, 14, 12, 11,
	10, 9, 7, 6, 5, 5, 4, 3, 2, 2, 1, 1, 1, 0, 0, 0,
}

// Plotter maps a table index in [0, tableSize) to an 8-bit PWM duty cycle
// for the currently selected waveform.
type Plotter struct {
	waveform Waveform
	random   RandomSource
	latched  uint8 // current random-waveform sample, refreshed once per base cycle
}

// NewPlotter builds a Plotter drawing sine by default, using src to supply
// the random waveform's samples.
func NewPlotter(src RandomSource) *Plotter {
	return &Plotter{waveform: WaveformSine, random: src}
}

// Plot returns the PWM duty for table index idx under the current waveform.
func (p *Plotter) Plot(idx uint8) uint8 {
	switch p.waveform {
	case WaveformSine:
		return sineTable[idx]
	case WaveformRampUp:
		return idx
	case WaveformRampDown:
		return 0xff - idx
	case WaveformTriangle:
		if idx < 0x80 {
			return idx * 2
		}
		return 0xff - (idx-0x80)*2
	case WaveformSquare:
		if idx < 0x80 {
			return 0x00
		}
		return 0xff
	case WaveformRandom:
		return p.latched
	default:
		return 0
	}
}

// RefreshRandom draws a new latched sample for the random waveform,
// quantized to randomStepCount levels. Called once per completed base cycle.
func (p *Plotter) RefreshRandom() {
	p.latched = uint8(p.random.Next8()%randomStepCount) * randomStepSize
}

// SetWaveform scrolls the selection by delta, wrapping at both ends.
func (p *Plotter) SetWaveform(delta int) {
	p.waveform = wrapWaveform(p.waveform, delta)
}

func wrapWaveform(w Waveform, delta int) Waveform {
	n := int(waveformCount)
	next := (int(w)+delta)%n + n
	return Waveform(next % n)
}

// Waveform returns the currently selected waveform.
func (p *Plotter) Waveform() Waveform {
	return p.waveform
}

// ResetWaveform restores sine, the default waveform.
func (p *Plotter) ResetWaveform() {
	p.waveform = WaveformSine
}
