package source

import (
	"bytes"
	"errors"
	"io"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"

	"busdecode/internal/bus"
	"busdecode/internal/common"
)

func drain(t *testing.T, s *Source) ([]bus.Sample, error) {
	t.Helper()
	var out []bus.Sample
	for {
		smp, err := s.Next()
		if err != nil {
			return out, err
		}
		out = append(out, smp)
	}
}

func TestLittleEndianPairs(t *testing.T) {
	data := []byte{0x01, 0x00, 0x03, 0x00, 0x34, 0x12, 0xff, 0xff}
	got, err := drain(t, New(bytes.NewReader(data)))
	if err != io.EOF {
		t.Fatalf("expected io.EOF, got %v", err)
	}
	want := []bus.Sample{
		{Index: 0, Value: 0x0001},
		{Index: 1, Value: 0x0003},
		{Index: 2, Value: 0x1234},
		{Index: 3, Value: 0xFFFF},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("samples mismatch (-want +got):\n%s", diff)
	}
}

func TestChunkBoundaries(t *testing.T) {
	data := make([]byte, 0, 64)
	for i := 0; i < 32; i++ {
		data = append(data, byte(i), byte(0x80|i))
	}
	want, err := drain(t, New(bytes.NewReader(data)))
	if err != io.EOF {
		t.Fatalf("reference read failed: %v", err)
	}

	readers := map[string]func() io.Reader{
		"odd chunk size": func() io.Reader { return bytes.NewReader(data) },
		"one byte reads": func() io.Reader { return iotest.OneByteReader(bytes.NewReader(data)) },
		"half reads":     func() io.Reader { return iotest.HalfReader(bytes.NewReader(data)) },
		"data with eof":  func() io.Reader { return iotest.DataErrReader(bytes.NewReader(data)) },
	}
	for name, mk := range readers {
		t.Run(name, func(t *testing.T) {
			got, err := drain(t, NewWithChunkSize(mk(), 7))
			if err != io.EOF {
				t.Fatalf("expected io.EOF, got %v", err)
			}
			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("samples mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTruncatedStream(t *testing.T) {
	data := []byte{0x01, 0x00, 0x03, 0x00, 0x13}
	s := NewWithChunkSize(iotest.OneByteReader(bytes.NewReader(data)), 4)
	got, err := drain(t, s)

	if len(got) != 2 {
		t.Fatalf("expected the 2 complete samples before the odd byte, got %d", len(got))
	}
	if !errors.Is(err, common.ErrTruncatedStream) {
		t.Fatalf("expected truncated stream error, got %v", err)
	}
	var libErr *common.Error
	if !errors.As(err, &libErr) || libErr.Idx != 2 {
		t.Errorf("expected error at sample index 2, got %+v", libErr)
	}
	want := "ERROR:0x0004 (BUSDEC_ERR_TRUNCATED_STREAM) [Capture ends with an odd trailing byte.]; Idx=2; odd trailing byte 0x13 at offset 4 ignored"
	if err.Error() != want {
		t.Errorf("error text = %q, want %q", err.Error(), want)
	}
}

func TestEmptyStream(t *testing.T) {
	s := New(bytes.NewReader(nil))
	if _, err := s.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF for empty capture, got %v", err)
	}
	if s.Consumed() != 0 {
		t.Errorf("expected 0 samples consumed, got %d", s.Consumed())
	}
}

func TestNotRestartable(t *testing.T) {
	s := New(bytes.NewReader([]byte{0x01, 0x00, 0x02}))
	if _, err := s.Next(); err != nil {
		t.Fatalf("unexpected error on first sample: %v", err)
	}
	_, first := s.Next()
	_, second := s.Next()
	if first == nil || first != second {
		t.Errorf("expected the same terminal error on every call, got %v then %v", first, second)
	}
	if s.Consumed() != 1 {
		t.Errorf("expected 1 sample consumed, got %d", s.Consumed())
	}
}

func TestReadError(t *testing.T) {
	boom := errors.New("device gone")
	s := New(io.MultiReader(bytes.NewReader([]byte{0x01, 0x00}), iotest.ErrReader(boom)))
	got, err := drain(t, s)
	if len(got) != 1 {
		t.Fatalf("expected 1 sample before the failure, got %d", len(got))
	}
	if !errors.Is(err, boom) || !errors.Is(err, common.ErrFileError) {
		t.Errorf("expected wrapped file error, got %v", err)
	}
}
