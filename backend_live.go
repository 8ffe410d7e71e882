//go:build !headless

// backend_live.go - oto audio output, raw-terminal input, and an ebiten scope panel

package main

import (
	"context"
	"fmt"
	"image/color"
	"math"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/ebitengine/oto/v3"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/term"
)

// newDefaultOutputs wires the real audio device and the ebiten scope panel,
// fanning every Sample to both.
func newDefaultOutputs() (Outputs, func(), error) {
	audio, err := newOtoOutputs()
	if err != nil {
		return nil, nil, fmt.Errorf("taptempo: audio init: %w", err)
	}
	scope := newScopeOutputs()
	go scope.run()

	combined := multiOutputs{audio, scope}
	cleanup := func() {
		audio.close()
		scope.close()
	}
	return combined, cleanup, nil
}

// newDefaultInputs wires a raw-terminal keyboard as the footswitch, mode
// button and encoder stand-in.
func newDefaultInputs() (Inputs, error) {
	return newTerminalInputs(), nil
}

// multiOutputs fans one Sample out to every wrapped Outputs.
type multiOutputs []Outputs

func (m multiOutputs) Write(s Sample) {
	for _, o := range m {
		o.Write(s)
	}
}

// otoOutputs renders each Sample's base duty as a floating-point PCM
// sample pushed through an oto player; oto pulls samples via Read on its
// own goroutine, so samples are handed off through a small ring buffer
// guarded by a mutex rather than computed synchronously inside Write.
type otoOutputs struct {
	ctx    *oto.Context
	player *oto.Player

	mu   sync.Mutex
	ring []float32
	head int
	tail int
}

const otoRingSize = 4096

func newOtoOutputs() (*otoOutputs, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRateHz,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   4,
	})
	if err != nil {
		return nil, err
	}
	<-ready

	o := &otoOutputs{ctx: ctx, ring: make([]float32, otoRingSize)}
	o.player = ctx.NewPlayer(o)
	o.player.Play()
	return o, nil
}

// Write converts the base waveform's 8-bit PWM duty to a centered float32
// sample and pushes it into the ring oto's Read drains.
func (o *otoOutputs) Write(s Sample) {
	sample := (float32(s.BaseDuty) - 128) / 128

	o.mu.Lock()
	next := (o.tail + 1) % len(o.ring)
	if next != o.head { // drop the sample if the ring is full, never block
		o.ring[o.tail] = sample
		o.tail = next
	}
	o.mu.Unlock()
}

// Read implements io.Reader for oto.NewPlayer, draining the ring buffer as
// little-endian float32 PCM, padding with silence if underrun.
func (o *otoOutputs) Read(p []byte) (int, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	n := 0
	for n+4 <= len(p) {
		var v float32
		if o.head != o.tail {
			v = o.ring[o.head]
			o.head = (o.head + 1) % len(o.ring)
		}
		putFloat32LE(p[n:n+4], v)
		n += 4
	}
	return n, nil
}

func putFloat32LE(b []byte, f float32) {
	bits := math.Float32bits(f)
	b[0] = byte(bits)
	b[1] = byte(bits >> 8)
	b[2] = byte(bits >> 16)
	b[3] = byte(bits >> 24)
}

func (o *otoOutputs) close() {
	_ = o.player.Close()
}

// scopeOutputs is an ebiten window that plots a rolling window of recent
// base-waveform samples, standing in for the firmware's bench oscilloscope
// probe on SYNC_OUT during development.
type scopeOutputs struct {
	mu           sync.Mutex
	history      [scopeWidth]uint8
	pos          int
	tapActiveLED bool
	modeLED      SelectionMode

	closeOnce sync.Once
	done      chan struct{}
}

const (
	scopeWidth  = 320
	scopeHeight = 160
)

func newScopeOutputs() *scopeOutputs {
	return &scopeOutputs{done: make(chan struct{})}
}

func (s *scopeOutputs) Write(sample Sample) {
	s.mu.Lock()
	s.history[s.pos] = sample.BaseDuty
	s.pos = (s.pos + 1) % scopeWidth
	s.tapActiveLED = sample.TapActiveLED
	s.modeLED = sample.ModeLED
	s.mu.Unlock()
}

func (s *scopeOutputs) run() {
	ebiten.SetWindowSize(scopeWidth*2, scopeHeight*2)
	ebiten.SetWindowTitle("tap tempo - scope")
	ebiten.SetWindowResizable(true)
	ebiten.SetRunnableOnUnfocused(true)
	if err := ebiten.RunGame(s); err != nil {
		// RunGame returns when the window is closed or Layout requests
		// termination; neither is an operational error worth surfacing.
		_ = err
	}
}

func (s *scopeOutputs) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	select {
	case <-s.done:
		return ebiten.Termination
	default:
	}
	return nil
}

func (s *scopeOutputs) Draw(screen *ebiten.Image) {
	screen.Fill(color.Black)

	s.mu.Lock()
	defer s.mu.Unlock()
	for x := 0; x < scopeWidth; x++ {
		idx := (s.pos + x) % scopeWidth
		level := s.history[idx]
		y := scopeHeight - 1 - int(level)*scopeHeight/256
		screen.Set(x, y, color.RGBA{0, 255, 0, 255})
	}
	text.Draw(screen, "SYNC_OUT", basicfont.Face7x13, 4, 12, color.RGBA{0, 255, 0, 255})

	tapColor := color.RGBA{80, 80, 80, 255}
	if s.tapActiveLED {
		tapColor = color.RGBA{255, 60, 60, 255}
	}
	text.Draw(screen, "TAP", basicfont.Face7x13, 4, scopeHeight-20, tapColor)
	text.Draw(screen, "mode: "+s.modeLED.String(), basicfont.Face7x13, 60, scopeHeight-20, color.RGBA{200, 200, 200, 255})
}

func (s *scopeOutputs) Layout(outsideWidth, outsideHeight int) (int, int) {
	return scopeWidth, scopeHeight
}

func (s *scopeOutputs) close() {
	s.closeOnce.Do(func() { close(s.done) })
}

// terminalInputs reads raw stdin and turns keystrokes into Events,
// standing in for the footswitch, mode button, rotary encoder, and the
// input-source/tap-align switches: space is the tap footswitch, 'c' is the
// external clock pulse (only live once the source is switched to external),
// 's' toggles the input source, 't' closes the tap-align switch, 'm' the
// mode button (held across repeated reads to synthesize press/release), 'a'
// toggles averaging, and the left/right arrow keys step the encoder.
type terminalInputs struct{}

func newTerminalInputs() *terminalInputs {
	return &terminalInputs{}
}

func (t *terminalInputs) Run(ctx context.Context, events chan<- Event) error {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		return fmt.Errorf("taptempo: raw terminal mode: %w", err)
	}
	defer term.Restore(fd, oldState)

	if err := syscall.SetNonblock(fd, true); err != nil {
		return fmt.Errorf("taptempo: nonblocking stdin: %w", err)
	}
	defer syscall.SetNonblock(fd, false)

	buf := make([]byte, 3)
	modeHeld := false
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		n, err := syscall.Read(fd, buf)
		if n > 0 {
			t.dispatch(buf[:n], events, &modeHeld)
		}
		if err == syscall.EAGAIN || err == syscall.EWOULDBLOCK || n == 0 {
			time.Sleep(5 * time.Millisecond)
			continue
		}
		if err != nil {
			return err
		}
	}
}

func (t *terminalInputs) dispatch(b []byte, events chan<- Event, modeHeld *bool) {
	send := func(e Event) {
		select {
		case events <- e:
		default:
			logDroppedEvent(e.Kind)
		}
	}

	for _, c := range b {
		switch c {
		case ' ':
			send(Event{Kind: EventTap})
		case 'c':
			send(Event{Kind: EventExternalClock})
		case 's':
			send(Event{Kind: EventSourceToggle})
		case 't':
			send(Event{Kind: EventTapAlign})
		case 'a':
			send(Event{Kind: EventAveragingToggle})
		case 'm':
			if !*modeHeld {
				*modeHeld = true
				send(Event{Kind: EventModePress})
			}
		case 0x1b: // escape sequence prefix for arrow keys; ignored on its own
		case 'C': // right arrow tail byte
			send(Event{Kind: EventEncoderStep, EncoderDelta: 1})
		case 'D': // left arrow tail byte
			send(Event{Kind: EventEncoderStep, EncoderDelta: -1})
		default:
			if *modeHeld {
				*modeHeld = false
				send(Event{Kind: EventModeRelease})
			}
		}
	}
}
