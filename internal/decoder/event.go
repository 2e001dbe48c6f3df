package decoder

import (
	"fmt"

	"busdecode/internal/bus"
)

// EventKind distinguishes the bus cycle events produced by a decode run.
type EventKind int

const (
	EventReset EventKind = iota
	EventClockEdge
	EventAddress
)

func (k EventKind) String() string {
	switch k {
	case EventReset:
		return "reset"
	case EventClockEdge:
		return "clock_edge"
	case EventAddress:
		return "address"
	}
	return fmt.Sprintf("event(%d)", int(k))
}

// Event is one decoded bus occurrence. Address is only meaningful for
// EventAddress.
type Event struct {
	Kind    EventKind
	Index   bus.SampleIndex
	Address uint16
}

// String renders the event as one line of the text log.
func (e Event) String() string {
	switch e.Kind {
	case EventReset:
		return fmt.Sprintf("RST: %d", e.Index)
	case EventClockEdge:
		return fmt.Sprintf("Phi2 Edge: %d", e.Index)
	case EventAddress:
		return fmt.Sprintf("F%03X", e.Address)
	}
	return fmt.Sprintf("%s: %d", e.Kind, e.Index)
}

// EventSink receives decoded events in sample order.
type EventSink interface {
	EventIn(ev Event) bus.DatapathResp
}

// EventList is an EventSink that keeps every event it is given.
type EventList []Event

func (l *EventList) EventIn(ev Event) bus.DatapathResp {
	*l = append(*l, ev)
	return bus.RespCont
}
