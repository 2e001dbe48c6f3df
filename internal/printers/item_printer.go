package printers

import (
	"fmt"
	"io"

	"busdecode/internal/common"
)

// ItemPrinter is the shared base of the event printers: an output writer,
// an optional message logger that mirrors every line, and a mute switch.
type ItemPrinter struct {
	writer io.Writer
	msgLog common.Logger
	muted  bool
	err    error
}

// NewItemPrinter constructs an ItemPrinter using the given io.Writer.
func NewItemPrinter(writer io.Writer) *ItemPrinter {
	return &ItemPrinter{
		writer: writer,
	}
}

// SetMessageLogger sets the optional logger that receives each printed line
// at debug level.
func (p *ItemPrinter) SetMessageLogger(logger common.Logger) {
	p.msgLog = logger
}

// ItemPrintLine writes the given message to the writer and optionally logs it.
// The first write failure is kept and reported by Err.
func (p *ItemPrinter) ItemPrintLine(msg string) {
	if p.writer != nil && p.err == nil {
		if _, err := fmt.Fprint(p.writer, msg); err != nil {
			p.err = err
		}
	}
	if p.msgLog != nil {
		p.msgLog.Debug(msg)
	}
}

// Err returns the first error hit while writing.
func (p *ItemPrinter) Err() error { return p.err }

// SetMute sets the printer to mute (avoids output).
func (p *ItemPrinter) SetMute(mute bool) { p.muted = mute }

// IsMuted returns true if the printer is muted.
func (p *ItemPrinter) IsMuted() bool { return p.muted }
