package bus

import (
	"fmt"
	"strings"
)

// SampleBits is the number of digital channels packed into one sample.
const SampleBits = 16

// Channel names a logical signal carried by one bit of a sample.
type Channel int

const (
	ChanReset Channel = iota
	ChanClock
	ChanCS1
	ChanCS2
	ChanAddrLow
	ChanAddrHigh
	numChannels
)

var channelNames = [numChannels]string{
	ChanReset:    "reset",
	ChanClock:    "clock",
	ChanCS1:      "cs1",
	ChanCS2:      "cs2",
	ChanAddrLow:  "addr_low",
	ChanAddrHigh: "addr_high",
}

func (c Channel) String() string {
	if c < 0 || c >= numChannels {
		return fmt.Sprintf("channel(%d)", int(c))
	}
	return channelNames[c]
}

// ChannelByName looks up a logical channel by its configuration key.
func ChannelByName(name string) (Channel, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for c, n := range channelNames {
		if n == name {
			return Channel(c), true
		}
	}
	return 0, false
}

// Channels returns every logical channel in declaration order.
func Channels() []Channel {
	chans := make([]Channel, numChannels)
	for i := range chans {
		chans[i] = Channel(i)
	}
	return chans
}

// ChannelMap assigns each logical channel a bit position within a sample.
// CS1 is active-low, CS2 is active-high. The address bus occupies the
// contiguous bits AddrLow..AddrHigh.
type ChannelMap struct {
	Reset    uint8
	Clock    uint8
	CS1      uint8
	CS2      uint8
	AddrLow  uint8
	AddrHigh uint8
}

// DefaultChannelMap is the wiring used by the reference captures:
// RST=0 PHI2=1 /CS1=2 CS2=3 A0..A11=4..15.
func DefaultChannelMap() ChannelMap {
	return ChannelMap{
		Reset:    0,
		Clock:    1,
		CS1:      2,
		CS2:      3,
		AddrLow:  4,
		AddrHigh: 15,
	}
}

// Bit returns the bit position assigned to c.
func (m ChannelMap) Bit(c Channel) uint8 {
	switch c {
	case ChanReset:
		return m.Reset
	case ChanClock:
		return m.Clock
	case ChanCS1:
		return m.CS1
	case ChanCS2:
		return m.CS2
	case ChanAddrLow:
		return m.AddrLow
	case ChanAddrHigh:
		return m.AddrHigh
	}
	return 0xFF
}

// SetBit assigns bit position b to c.
func (m *ChannelMap) SetBit(c Channel, b uint8) {
	switch c {
	case ChanReset:
		m.Reset = b
	case ChanClock:
		m.Clock = b
	case ChanCS1:
		m.CS1 = b
	case ChanCS2:
		m.CS2 = b
	case ChanAddrLow:
		m.AddrLow = b
	case ChanAddrHigh:
		m.AddrHigh = b
	}
}

// AddrWidth is the number of address bits.
func (m ChannelMap) AddrWidth() uint8 {
	return m.AddrHigh - m.AddrLow + 1
}

// AddrMask masks an address already shifted down by AddrLow.
func (m ChannelMap) AddrMask() uint16 {
	return uint16((uint32(1) << m.AddrWidth()) - 1)
}

// Conflict describes the first problem found with the map, or "" when the map
// is usable. Every single-bit channel and every address bit must own a
// distinct bit position.
func (m ChannelMap) Conflict() string {
	for _, c := range Channels() {
		if m.Bit(c) >= SampleBits {
			return fmt.Sprintf("%s mapped to bit %d, samples have %d bits", c, m.Bit(c), SampleBits)
		}
	}
	if m.AddrHigh < m.AddrLow {
		return fmt.Sprintf("addr_high (bit %d) below addr_low (bit %d)", m.AddrHigh, m.AddrLow)
	}

	owner := map[uint8]string{}
	claim := func(bit uint8, name string) string {
		if prev, ok := owner[bit]; ok {
			return fmt.Sprintf("%s and %s both mapped to bit %d", prev, name, bit)
		}
		owner[bit] = name
		return ""
	}
	for _, c := range []Channel{ChanReset, ChanClock, ChanCS1, ChanCS2} {
		if msg := claim(m.Bit(c), c.String()); msg != "" {
			return msg
		}
	}
	for b := m.AddrLow; b <= m.AddrHigh; b++ {
		if msg := claim(b, fmt.Sprintf("A%d", b-m.AddrLow)); msg != "" {
			return msg
		}
	}
	return ""
}

func (m ChannelMap) String() string {
	parts := make([]string, 0, numChannels)
	for _, c := range Channels() {
		parts = append(parts, fmt.Sprintf("%s=%d", c, m.Bit(c)))
	}
	return strings.Join(parts, " ")
}
