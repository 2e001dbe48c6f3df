// Package source turns a raw logic-analyzer capture into a stream of samples.
//
// A capture has no header: it is a run of 16-bit little-endian words, one per
// time-step, each bit one digital channel.
package source

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"busdecode/internal/bus"
	"busdecode/internal/common"
)

// DefaultChunkSize is the read size used when none is configured.
const DefaultChunkSize = 1024

// Source yields the samples of a capture in order. It reads the underlying
// stream in fixed chunks and is consumed exactly once: after it reports
// io.EOF or an error, every further call to Next reports the same result.
type Source struct {
	r     io.Reader
	chunk []byte
	buf   []byte // unread bytes of the current chunk
	carry []byte // odd byte left over from a short read
	next  bus.SampleIndex
	off   int64 // byte offset of buf[0] in the stream
	err   error
}

// New creates a Source over r using DefaultChunkSize.
func New(r io.Reader) *Source {
	return NewWithChunkSize(r, DefaultChunkSize)
}

// NewWithChunkSize creates a Source over r reading size bytes at a time.
// Sizes below 2 are raised to 2.
func NewWithChunkSize(r io.Reader, size int) *Source {
	if size < 2 {
		size = 2
	}
	return &Source{
		r:     r,
		chunk: make([]byte, size),
		carry: make([]byte, 0, 1),
	}
}

// Next returns the next sample. At the end of a well formed capture it
// returns io.EOF. If the capture ends with an odd byte, the complete samples
// before it are returned first and then a truncated stream error.
func (s *Source) Next() (bus.Sample, error) {
	if s.err != nil {
		return bus.Sample{}, s.err
	}

	for len(s.buf) < 2 {
		if err := s.fill(); err != nil {
			s.err = err
			return bus.Sample{}, err
		}
	}

	smp := bus.Sample{
		Index: s.next,
		Value: binary.LittleEndian.Uint16(s.buf),
	}
	s.buf = s.buf[2:]
	s.off += 2
	s.next++
	return smp, nil
}

// Consumed is the number of samples returned so far.
func (s *Source) Consumed() uint64 {
	return uint64(s.next)
}

// fill reads the next chunk. A single byte left in buf is moved to carry so
// it can pair with the first byte of the chunk.
func (s *Source) fill() error {
	if len(s.buf) == 1 {
		s.carry = append(s.carry[:0], s.buf[0])
		s.buf = nil
	}

	n, err := s.r.Read(s.chunk[len(s.carry):])
	if n > 0 {
		copy(s.chunk, s.carry)
		s.buf = s.chunk[:len(s.carry)+n]
		s.carry = s.carry[:0]
		return nil
	}

	if err == nil {
		return nil
	}
	if !errors.Is(err, io.EOF) {
		return common.WrapError(bus.ErrFileError, err, "reading capture at byte offset %d", s.off)
	}
	if len(s.carry) > 0 {
		return common.NewErrorWithIdxMsg(bus.ErrSevError, bus.ErrTruncatedStream, s.next,
			fmt.Sprintf("odd trailing byte 0x%02x at offset %d ignored", s.carry[0], s.off))
	}
	return io.EOF
}
