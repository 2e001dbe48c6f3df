// Package capture converts logic-analyzer captures into other formats.
package capture

import (
	"errors"
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"busdecode/internal/bus"
	"busdecode/internal/common"
	"busdecode/internal/decoder"
)

const (
	// DefaultSampleRate is the nominal rate written into the WAV header.
	// Captures carry no timing of their own.
	DefaultSampleRate = 1000000

	wavBitDepth   = 16
	wavPCMFormat  = 1
	frameBlock    = 4096
	levelHigh     = 32767
	levelLow      = -32768
	levelAddrSpan = 65535
)

// WAVTracks lists the audio tracks written for each frame, in order.
var WAVTracks = []string{"reset", "clock", "cs1", "cs2", "address"}

// WAVExporter writes a capture as a multi-track 16-bit PCM WAV file: one
// track per control line at full scale high or low, and one track carrying
// the address bus value scaled to the full sample range.
type WAVExporter struct {
	common.Component

	SampleRate int
	Channels   bus.ChannelMap
	// Limit bounds the number of frames; nil exports the whole capture.
	Limit *uint64
}

// NewWAVExporter returns an exporter using the default wiring and rate.
func NewWAVExporter() *WAVExporter {
	e := &WAVExporter{
		SampleRate: DefaultSampleRate,
		Channels:   bus.DefaultChannelMap(),
	}
	e.InitComponent("wavexport")
	return e
}

// SetLimit bounds the export to n frames.
func (e *WAVExporter) SetLimit(n uint64) {
	e.Limit = &n
}

// Export reads src to the end, or to Limit samples, and writes the WAV file
// to w. It returns the number of frames written.
func (e *WAVExporter) Export(src decoder.SampleSource, w io.WriteSeeker) (uint64, error) {
	if msg := e.Channels.Conflict(); msg != "" {
		return 0, common.NewErrorMsg(bus.ErrSevError, bus.ErrChannelMap, msg)
	}
	if e.SampleRate <= 0 {
		return 0, common.NewErrorMsg(bus.ErrSevError, bus.ErrInvalidParamVal, "sample rate must be positive")
	}

	numTracks := len(WAVTracks)
	enc := wav.NewEncoder(w, e.SampleRate, wavBitDepth, numTracks, wavPCMFormat)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: numTracks, SampleRate: e.SampleRate},
		Data:           make([]int, 0, frameBlock*numTracks),
		SourceBitDepth: wavBitDepth,
	}

	var frames uint64
	wrote := false
	flush := func() error {
		// the header is only emitted by Write, so an empty capture still
		// needs one call.
		if len(buf.Data) == 0 && wrote {
			return nil
		}
		if err := enc.Write(buf); err != nil {
			return common.WrapError(bus.ErrFileError, err, "writing wav frames")
		}
		wrote = true
		buf.Data = buf.Data[:0]
		return nil
	}

	var runErr error
	for e.Limit == nil || frames < *e.Limit {
		smp, err := src.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			runErr = err
			break
		}

		buf.Data = e.appendFrame(buf.Data, smp)
		frames++
		if len(buf.Data) >= frameBlock*numTracks {
			if err := flush(); err != nil {
				return frames, err
			}
		}
	}

	if err := flush(); err != nil {
		return frames, err
	}
	if err := enc.Close(); err != nil {
		return frames, common.WrapError(bus.ErrFileError, err, "finishing wav file")
	}
	if runErr != nil {
		return frames, runErr
	}

	e.LogDebug("wrote %d frames of %d tracks at %d Hz", frames, numTracks, e.SampleRate)
	return frames, nil
}

func (e *WAVExporter) appendFrame(dst []int, smp bus.Sample) []int {
	m := e.Channels
	level := func(c bus.Channel) int {
		if smp.Level(m, c) {
			return levelHigh
		}
		return levelLow
	}
	addr := int(smp.Address(m)) * levelAddrSpan / int(m.AddrMask())
	return append(dst,
		level(bus.ChanReset),
		level(bus.ChanClock),
		level(bus.ChanCS1),
		level(bus.ChanCS2),
		addr+levelLow,
	)
}
