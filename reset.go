// reset.go - full power-on reset of every subsystem

package main

// ResetAll restores every subsystem to its power-on state: tempo, DDS
// accumulators/multiplier, waveform, selection mode, and the seeded flag.
// It does not touch the random source's internal state beyond what
// DDS.Reset and the seeded flag imply, since re-seeding happens naturally
// the next time a tap completes.
func (c *Controller) ResetAll() {
	c.tempo.Reset()
	c.dds.Reset()
	c.dds.ResetMultiplier()
	c.plotter.ResetWaveform()
	c.mode.Reset()
	c.seeded = false
	c.is2xCounting = false
	c.source = SourceTap
}
