package decoder

import (
	"busdecode/internal/bus"
)

// State is everything the decoder remembers between samples.
type State struct {
	PastReset     bool
	PrevClockHigh bool

	// Pending is the index of the last rising clock edge whose address
	// window has not resolved yet, or bus.BadSampleIndex.
	Pending bus.SampleIndex
}

func newState() State {
	return State{Pending: bus.BadSampleIndex}
}

// HasPending reports whether an address window is outstanding.
func (s *State) HasPending() bool {
	return s.Pending != bus.BadSampleIndex
}

// latchDelay is the number of samples between a rising clock edge and the
// sample whose address and chip-select lines are read.
const latchDelay = 2

// track runs reset and clock edge detection for smp. reset is true on the
// one sample where reset is first seen, rising is true when the clock went
// from low to high.
func (s *State) track(smp bus.Sample, m bus.ChannelMap) (reset, rising bool) {
	if !s.PastReset && smp.Level(m, bus.ChanReset) {
		s.PastReset = true
		reset = true
	}

	clockHigh := smp.Level(m, bus.ChanClock)
	if !s.PrevClockHigh && clockHigh {
		s.Pending = smp.Index
		rising = true
	}
	s.PrevClockHigh = clockHigh
	return reset, rising
}

// latch resolves a pending address window on smp. qualified is true when smp
// is the window sample; selected is true when both chip-selects were
// asserted, in which case addr holds the address bus value.
func (s *State) latch(smp bus.Sample, m bus.ChannelMap) (addr uint16, qualified, selected bool) {
	if !s.PastReset || !s.HasPending() || smp.Index != s.Pending+latchDelay {
		return 0, false, false
	}
	s.Pending = bus.BadSampleIndex

	cs1 := !smp.Level(m, bus.ChanCS1)
	cs2 := smp.Level(m, bus.ChanCS2)
	if !cs1 || !cs2 {
		return 0, true, false
	}
	return smp.Address(m), true, true
}
