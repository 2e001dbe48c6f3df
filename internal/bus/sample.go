package bus

// Sample is one time-step of the logic analyzer: every channel packed into a
// 16-bit word, tagged with its position in the capture.
type Sample struct {
	Index SampleIndex
	Value uint16
}

// High reports whether the bit at position bit is set.
func (s Sample) High(bit uint8) bool {
	return s.Value&(1<<bit) != 0
}

// Level reads the bit that m assigns to c.
func (s Sample) Level(m ChannelMap, c Channel) bool {
	return s.High(m.Bit(c))
}

// Address extracts the address bus value from the sample.
func (s Sample) Address(m ChannelMap) uint16 {
	return (s.Value >> m.AddrLow) & m.AddrMask()
}
