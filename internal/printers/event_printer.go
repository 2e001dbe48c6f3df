package printers

import (
	"fmt"
	"io"
	"strings"

	"busdecode/internal/bus"
	"busdecode/internal/decoder"
)

// EventPrinter writes decoded events as the text log, one line per event:
//
//	RST: <index>
//	Phi2 Edge: <index>
//	F<address>
type EventPrinter struct {
	ItemPrinter
	collectStats bool
	eventCounts  map[decoder.EventKind]int
}

// NewEventPrinter creates a new text event printer.
func NewEventPrinter(writer io.Writer) *EventPrinter {
	return &EventPrinter{
		ItemPrinter: *NewItemPrinter(writer),
		eventCounts: make(map[decoder.EventKind]int),
	}
}

// EventIn implements decoder.EventSink.
func (p *EventPrinter) EventIn(ev decoder.Event) bus.DatapathResp {
	if p.collectStats {
		p.eventCounts[ev.Kind]++
	}
	if p.IsMuted() {
		return bus.RespCont
	}

	p.ItemPrintLine(ev.String() + "\n")
	if p.Err() != nil {
		return bus.RespFatalSysErr
	}
	return bus.RespCont
}

// SetCollectStats enables per kind event counting.
func (p *EventPrinter) SetCollectStats() {
	p.collectStats = true
}

// PrintStats writes the collected event counts.
func (p *EventPrinter) PrintStats() {
	if !p.collectStats {
		return
	}
	var sb strings.Builder
	sb.WriteString("Decoded events:\n")
	for _, k := range []decoder.EventKind{decoder.EventReset, decoder.EventClockEdge, decoder.EventAddress} {
		sb.WriteString(fmt.Sprintf("  %-10s : %d\n", k, p.eventCounts[k]))
	}
	p.ItemPrintLine(sb.String())
}
