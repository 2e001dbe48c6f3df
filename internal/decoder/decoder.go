// Package decoder reconstructs bus cycles from a logic-analyzer capture of a
// memory mapped microprocessor bus: when reset was released, where the clock
// rose, and which addresses were presented while the chip-selects were
// active.
package decoder

import (
	"context"
	"errors"
	"fmt"
	"io"

	"busdecode/internal/bus"
	"busdecode/internal/common"
)

// SampleSource supplies samples in capture order. Next returns io.EOF at the
// end of the capture.
type SampleSource interface {
	Next() (bus.Sample, error)
}

// Stats counts what happened during a run.
type Stats struct {
	Samples      uint64
	Resets       uint64
	RisingEdges  uint64
	Windows      uint64
	Addresses    uint64
	Rejected     uint64
	LimitReached bool
}

// ctxCheckInterval is how many samples are processed between context checks.
const ctxCheckInterval = 4096

// Decoder is a single pass bus trace decoder. Samples go through reset and
// clock edge tracking, then the address latch, and any resulting events are
// delivered to the attached EventSink.
type Decoder struct {
	common.Component

	cfg   Config
	state State
	stats Stats
	sink  common.AttachPt[EventSink]
}

// NewDecoder validates cfg and returns a decoder ready for one run.
func NewDecoder(cfg *Config) (*Decoder, error) {
	if cfg == nil {
		cfg = NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	d := &Decoder{cfg: *cfg}
	if n, ok := cfg.Limit(); ok {
		d.cfg.SetSampleLimit(n)
	}
	d.InitComponent("decoder")
	d.sink.SetEnabled(true)
	d.Reset()
	return d, nil
}

// EventOutAttachPt is where the event sink is attached.
func (d *Decoder) EventOutAttachPt() *common.AttachPt[EventSink] {
	return &d.sink
}

// Config returns the configuration the decoder was built with.
func (d *Decoder) Config() Config {
	return d.cfg
}

// State returns a copy of the current decoder state.
func (d *Decoder) State() State {
	return d.state
}

// Stats returns the counters for the current run.
func (d *Decoder) Stats() Stats {
	return d.stats
}

// Reset discards all state so the decoder can start a new capture.
func (d *Decoder) Reset() {
	d.state = newState()
	d.stats = Stats{}
}

// SampleIn processes one sample. Samples must arrive in index order starting
// at 0; anything else is rejected with a fatal response since the decoder
// state would no longer describe the capture.
func (d *Decoder) SampleIn(smp bus.Sample) bus.DatapathResp {
	if smp.Index != bus.SampleIndex(d.stats.Samples) {
		d.LogError(common.NewErrorWithIdxMsg(bus.ErrSevError, bus.ErrInvalidParamVal, smp.Index,
			fmt.Sprintf("sample out of order, expected index %d", d.stats.Samples)))
		return bus.RespFatalInvalid
	}
	d.stats.Samples++

	resp := bus.RespCont
	m := d.cfg.Channels

	reset, rising := d.state.track(smp, m)
	if reset {
		d.stats.Resets++
		resp = max(resp, d.emit(Event{Kind: EventReset, Index: smp.Index}))
	}
	if rising {
		d.stats.RisingEdges++
		if d.cfg.EmitClockEdges {
			resp = max(resp, d.emit(Event{Kind: EventClockEdge, Index: smp.Index}))
		}
	}

	addr, qualified, selected := d.state.latch(smp, m)
	if qualified {
		d.stats.Windows++
		if selected {
			d.stats.Addresses++
			resp = max(resp, d.emit(Event{Kind: EventAddress, Index: smp.Index, Address: addr}))
		} else {
			d.stats.Rejected++
		}
	}
	return resp
}

func (d *Decoder) emit(ev Event) bus.DatapathResp {
	if !d.sink.HasAttachedAndEnabled() {
		return bus.RespCont
	}
	return d.sink.First().EventIn(ev)
}

// Run decodes every sample src yields, up to the configured sample limit. The
// decoder is reset first. An empty capture is not an error: it is logged as a
// warning and Run returns with no events. Events already delivered stay
// delivered when Run fails part way.
func (d *Decoder) Run(ctx context.Context, src SampleSource) (Stats, error) {
	d.Reset()

	for {
		if limit, ok := d.cfg.Limit(); ok && d.stats.Samples >= limit {
			d.stats.LimitReached = true
			d.LogDebug("sample limit %d reached", limit)
			break
		}
		if d.stats.Samples%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return d.stats, err
			}
		}

		smp, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var libErr *common.Error
			if errors.As(err, &libErr) {
				d.LogError(libErr)
			}
			return d.stats, err
		}

		if resp := d.SampleIn(smp); bus.DataRespIsFatal(resp) {
			err := common.NewErrorWithIdxMsg(bus.ErrSevError, bus.ErrSinkFatal, smp.Index, common.DataRespStr(resp))
			d.LogError(err)
			return d.stats, err
		}
	}

	if d.stats.Samples == 0 && !d.stats.LimitReached {
		d.LogError(common.NewErrorWithIdx(bus.ErrSevWarn, bus.ErrEmptyStream, 0))
	}
	d.LogDebug("%d samples, %d rising edges, %d windows, %d addresses, %d rejected",
		d.stats.Samples, d.stats.RisingEdges, d.stats.Windows, d.stats.Addresses, d.stats.Rejected)
	return d.stats, nil
}
