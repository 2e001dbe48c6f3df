package printers

import (
	"encoding/json"
	"io"

	"busdecode/internal/bus"
	"busdecode/internal/decoder"
)

// jsonEvent is the wire form of one event.
type jsonEvent struct {
	Kind    string  `json:"kind"`
	Index   uint64  `json:"index"`
	Address *uint16 `json:"address,omitempty"`
}

// JSONPrinter writes one JSON object per event, newline separated.
type JSONPrinter struct {
	enc *json.Encoder
	err error
}

// NewJSONPrinter creates a structured event sink writing to w.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{enc: json.NewEncoder(w)}
}

// EventIn implements decoder.EventSink.
func (p *JSONPrinter) EventIn(ev decoder.Event) bus.DatapathResp {
	if p.err != nil {
		return bus.RespFatalSysErr
	}
	je := jsonEvent{Kind: ev.Kind.String(), Index: uint64(ev.Index)}
	if ev.Kind == decoder.EventAddress {
		a := ev.Address
		je.Address = &a
	}
	if err := p.enc.Encode(je); err != nil {
		p.err = err
		return bus.RespFatalSysErr
	}
	return bus.RespCont
}

// Err returns the first encoding or write error.
func (p *JSONPrinter) Err() error { return p.err }
