package decoder

import (
	"strconv"

	"busdecode/internal/bus"
	"busdecode/internal/common"
)

// DefaultSampleLimit is the sample bound used for bounded analysis runs.
const DefaultSampleLimit uint64 = 200200

// Config selects how a decode run behaves. It is fixed for the life of a run.
type Config struct {
	// EmitClockEdges reports every rising clock edge as an event, whether or
	// not reset has been seen.
	EmitClockEdges bool

	// SampleLimit stops the run after this many samples. Nil means the run
	// goes to the end of the capture; a limit of zero processes nothing.
	SampleLimit *uint64

	// Channels maps logical signals onto sample bits.
	Channels bus.ChannelMap
}

// NewConfig returns the unbounded, edge-silent configuration over the default
// channel wiring.
func NewConfig() *Config {
	return &Config{
		Channels: bus.DefaultChannelMap(),
	}
}

// NewBoundedConfig returns the bounded analysis configuration: edges are not
// reported and the run stops at DefaultSampleLimit samples.
func NewBoundedConfig() *Config {
	cfg := NewConfig()
	cfg.SetSampleLimit(DefaultSampleLimit)
	return cfg
}

// NewEdgeConfig returns the configuration that reports clock edges and runs
// to the end of the capture.
func NewEdgeConfig() *Config {
	cfg := NewConfig()
	cfg.EmitClockEdges = true
	return cfg
}

// SetSampleLimit bounds the run to n samples.
func (c *Config) SetSampleLimit(n uint64) {
	c.SampleLimit = &n
}

// Limit returns the sample bound and whether there is one.
func (c *Config) Limit() (uint64, bool) {
	if c.SampleLimit == nil {
		return 0, false
	}
	return *c.SampleLimit, true
}

// LimitString renders the sample bound for logs.
func (c *Config) LimitString() string {
	if n, ok := c.Limit(); ok {
		return strconv.FormatUint(n, 10)
	}
	return "none"
}

// Validate checks the channel assignment before any decoding starts.
func (c *Config) Validate() error {
	if msg := c.Channels.Conflict(); msg != "" {
		return common.NewErrorMsg(bus.ErrSevError, bus.ErrChannelMap, msg)
	}
	return nil
}
