// Package lister runs a complete decode: it opens a capture, builds a
// decoder and an event printer, and drives the capture through them.
package lister

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"
	"time"

	"busdecode/internal/bus"
	"busdecode/internal/common"
	"busdecode/internal/decoder"
	"busdecode/internal/printers"
	"busdecode/internal/source"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Config carries everything a decode run needs.
type Config struct {
	// CapturePath is read when Input is nil.
	CapturePath string
	Input       io.Reader

	Decoder   decoder.Config
	Format    string
	ChunkSize int

	// PrintStats appends per kind event counts to the text log.
	PrintStats bool
	// Quiet mutes the event lines of the text log. Stats are still printed.
	Quiet bool
	// EchoEvents mirrors each text log line to Logger at debug level.
	EchoEvents bool

	// ErrorLogLevel is the most verbose decoder error severity that reaches
	// Logger. Zero keeps the decoder default (warnings).
	ErrorLogLevel bus.ErrSeverity

	OutputWriter io.Writer
	Logger       common.Logger
}

type statsPrinter interface {
	decoder.EventSink
	Err() error
}

// Run decodes one capture and writes its event log.
func Run(ctx context.Context, cfg Config) (decoder.Stats, error) {
	w := cfg.OutputWriter
	if w == nil {
		w = os.Stdout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = common.NewNoOpLogger()
	}

	dec, err := decoder.NewDecoder(&cfg.Decoder)
	if err != nil {
		logger.Error(err)
		return decoder.Stats{}, err
	}
	dec.LoggerAttachPt().Attach(logger)
	if cfg.ErrorLogLevel != bus.ErrSevNone {
		dec.SetErrorLogLevel(cfg.ErrorLogLevel)
	}

	var sink statsPrinter
	var text *printers.EventPrinter
	switch cfg.Format {
	case "", FormatText:
		text = printers.NewEventPrinter(w)
		if cfg.PrintStats {
			text.SetCollectStats()
		}
		if cfg.EchoEvents {
			text.SetMessageLogger(logger)
		}
		text.SetMute(cfg.Quiet)
		sink = text
	case FormatJSON:
		if cfg.Quiet {
			return decoder.Stats{}, common.NewErrorMsg(bus.ErrSevError, bus.ErrInvalidParamVal,
				"quiet mode only applies to text output")
		}
		sink = printers.NewJSONPrinter(w)
	default:
		return decoder.Stats{}, common.NewErrorMsg(bus.ErrSevError, bus.ErrInvalidParamVal,
			fmt.Sprintf("unknown output format %q", cfg.Format))
	}
	dec.EventOutAttachPt().Attach(sink)

	in := cfg.Input
	if in == nil {
		f, err := os.Open(cfg.CapturePath)
		if err != nil {
			err := common.WrapError(bus.ErrFileError, err, "opening capture")
			logger.Error(err)
			return decoder.Stats{}, err
		}
		defer f.Close()
		in = f
		logger.Logf(common.SeverityInfo, "decoding %s", cfg.CapturePath)
	}

	chunk := cfg.ChunkSize
	if chunk == 0 {
		chunk = source.DefaultChunkSize
	}
	logger.Logf(common.SeverityDebug, "channels: %s; edges=%t limit=%s chunk=%d",
		cfg.Decoder.Channels, cfg.Decoder.EmitClockEdges, cfg.Decoder.LimitString(), chunk)

	perf := newPerfStats()
	stats, err := dec.Run(ctx, source.NewWithChunkSize(in, chunk))
	perf.log(logger, "decode")
	// a failed write stops the run as a sink error; report the write itself
	if werr := sink.Err(); werr != nil {
		err := common.WrapError(bus.ErrFileError, werr, "writing event log")
		logger.Error(err)
		return stats, err
	}
	if err != nil {
		return stats, err
	}
	if text != nil {
		text.PrintStats()
	}
	return stats, nil
}

// perfStats snapshots time and allocation at the start of a run.
type perfStats struct {
	startTime time.Time
	startMem  uint64
	startGc   uint32
}

func newPerfStats() *perfStats {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	return &perfStats{time.Now(), m.TotalAlloc, m.NumGC}
}

func (p *perfStats) log(logger common.Logger, prefix string) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	alloc := (m.TotalAlloc - p.startMem) / 1024
	gcs := m.NumGC - p.startGc
	logger.Logf(common.SeverityDebug, "%s took %0.3fs using %v Kb (%v GC events)",
		prefix, time.Since(p.startTime).Seconds(), alloc, gcs)
}
