package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"busdecode/internal/bus"
	"busdecode/internal/common"
	"busdecode/internal/decoder"
)

// The reference capture: reset, one rejected window, clock held high.
var referenceCapture = []byte{0x01, 0x00, 0x03, 0x00, 0x03, 0x00, 0x03, 0x00, 0x03, 0x00, 0x13, 0x00}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	return executeWithInput(t, nil, args...)
}

func executeWithInput(t *testing.T, in io.Reader, args ...string) (string, string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewRootCmd(&stdout, &stderr)
	if in != nil {
		cmd.SetIn(in)
	}
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestDecodeCommand(t *testing.T) {
	path := writeFile(t, "boot.bin", referenceCapture)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"default", []string{"decode", path}, "RST: 0\n"},
		{"edges", []string{"decode", "--edges", path}, "RST: 0\nPhi2 Edge: 1\n"},
		{"limit", []string{"decode", "--edges", "--limit", "1", path}, "RST: 0\n"},
		{"zero limit", []string{"decode", "--edges", "--limit", "0", path}, ""},
		{"quiet stats", []string{"decode", "-q", "--stats", path},
			"Decoded events:\n  reset      : 1\n  clock_edge : 0\n  address    : 0\n"},
		{"bounded", []string{"decode", "--bounded", path}, "RST: 0\n"},
		{"json", []string{"decode", "--format", "json", path}, `{"kind":"reset","index":0}` + "\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out, _, err := execute(t, tc.args...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, out); diff != "" {
				t.Errorf("output mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeCommandChannelMap(t *testing.T) {
	// reset on bit 15, clock on bit 14, address on bits 0-11
	capture := []byte{0x00, 0x80, 0x00, 0x40, 0x00, 0x40, 0x21, 0x53}
	path := writeFile(t, "swapped.bin", capture)
	ini := writeFile(t, "wiring.ini", []byte("[channels]\nRST=15\nPHI2=14\n_CS1=13\n_CS2=12\nA0=0\nA11=11\n"))

	out, _, err := execute(t, "decode", "--channels", ini, path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("RST: 0\nF321\n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	bad := writeFile(t, "bad.ini", []byte("[channels]\ncs2 = 2\n"))
	if _, _, err := execute(t, "decode", "--channels", bad, path); !errors.Is(err, common.ErrChannelMap) {
		t.Errorf("expected channel map error, got %v", err)
	}
}

func TestDecodeCommandErrors(t *testing.T) {
	truncated := writeFile(t, "odd.bin", referenceCapture[:5])
	out, _, err := execute(t, "decode", truncated)
	if !errors.Is(err, common.ErrTruncatedStream) {
		t.Errorf("expected truncated stream error, got %v", err)
	}
	if out != "RST: 0\n" {
		t.Errorf("expected events before the odd byte, got %q", out)
	}

	if _, _, err := execute(t, "decode", filepath.Join(t.TempDir(), "none.bin")); !errors.Is(err, common.ErrFileError) {
		t.Errorf("expected file error, got %v", err)
	}
	if _, _, err := execute(t, "decode"); err == nil {
		t.Error("expected an argument error")
	}
	path := writeFile(t, "boot.bin", referenceCapture)
	if _, _, err := execute(t, "decode", "--bounded", "--limit", "5", path); err == nil {
		t.Error("expected --bounded and --limit to be exclusive")
	}
}

func TestVerboseLogging(t *testing.T) {
	path := writeFile(t, "boot.bin", referenceCapture)
	_, stderr, err := execute(t, "-v", "decode", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stderr, "level=debug") || !strings.Contains(stderr, "decode took") {
		t.Errorf("expected debug logging, got:\n%s", stderr)
	}

	_, stderr, _ = execute(t, "decode", path)
	if strings.Contains(stderr, "level=debug") {
		t.Errorf("debug output without -v:\n%s", stderr)
	}
}

func TestWritesCommand(t *testing.T) {
	path := writeFile(t, "writes.txt", []byte("12:00:00.001 B7 W\n12:00:00.002 FF W\n12:00:00.003 96 W\n"))
	out, _, err := execute(t, "writes", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("48-H 69-i \n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestWavCommand(t *testing.T) {
	path := writeFile(t, "boot.bin", referenceCapture)
	wav := filepath.Join(t.TempDir(), "boot.wav")
	if _, _, err := execute(t, "wav", "--rate", "8000", path, wav); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, err := os.Stat(wav)
	if err != nil {
		t.Fatal(err)
	}
	// 44 byte header, 6 frames of 5 tracks at 2 bytes
	if st.Size() != 44+6*5*2 {
		t.Errorf("unexpected wav size %d", st.Size())
	}
}

func TestVersion(t *testing.T) {
	Version = "v1.2.3"
	defer func() { Version = "" }()
	out, _, err := execute(t, "--version")
	if err != nil || out != "busdecode v1.2.3\n" {
		t.Errorf("unexpected version output %q (%v)", out, err)
	}
}

func TestDecodeConfigPresets(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want *decoder.Config
	}{
		{"default", nil, decoder.NewConfig()},
		{"bounded", []string{"--bounded"}, decoder.NewBoundedConfig()},
		{"edges", []string{"--edges"}, decoder.NewEdgeConfig()},
		{"zero limit", []string{"--limit", "0"}, func() *decoder.Config {
			cfg := decoder.NewConfig()
			cfg.SetSampleLimit(0)
			return cfg
		}()},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cmd := newDecodeCmd(io.Discard)
			if err := cmd.ParseFlags(tc.args); err != nil {
				t.Fatal(err)
			}
			got, err := decodeConfig(cmd)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("config mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDecodeFromStdin(t *testing.T) {
	path := writeFile(t, "boot.bin", referenceCapture)
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	out, _, err := executeWithInput(t, f, "decode", "--edges", "-")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff("RST: 0\nPhi2 Edge: 1\n", out); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}
	// standard input is left open for the caller
	if _, err := f.Read(make([]byte, 1)); err != io.EOF {
		t.Errorf("expected stdin at EOF and still open, got %v", err)
	}
}

func TestVerboseEchoesEvents(t *testing.T) {
	path := writeFile(t, "boot.bin", referenceCapture)
	out, stderr, err := execute(t, "-v", "decode", path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "RST: 0\n" {
		t.Errorf("unexpected output %q", out)
	}
	if !strings.Contains(stderr, `msg="RST: 0\n" component=decode`) {
		t.Errorf("expected the event echoed to the log, got:\n%s", stderr)
	}
}

func TestQuietHidesEmptyCaptureWarning(t *testing.T) {
	path := writeFile(t, "empty.bin", nil)
	_, stderr, err := execute(t, "decode", path)
	if err != nil || !strings.Contains(stderr, "BUSDEC_ERR_EMPTY_STREAM") {
		t.Errorf("expected an empty capture warning, got %v:\n%s", err, stderr)
	}
	_, stderr, err = execute(t, "decode", "-q", path)
	if err != nil || strings.Contains(stderr, "BUSDEC_ERR_EMPTY_STREAM") {
		t.Errorf("expected no warning with -q, got %v:\n%s", err, stderr)
	}
}

func TestWritesCommandFailure(t *testing.T) {
	path := writeFile(t, "writes.txt", []byte("12:00:00.001 B7 W\nshort\n"))
	out, _, err := execute(t, "writes", path)
	if !errors.Is(err, common.NewError(0, bus.ErrWriteLogFormat)) {
		t.Errorf("expected a write log format error, got %v", err)
	}
	if out != "" {
		t.Errorf("expected no output on failure, got %q", out)
	}
}

func TestWavCommandLimit(t *testing.T) {
	path := writeFile(t, "boot.bin", referenceCapture)
	wav := filepath.Join(t.TempDir(), "boot.wav")
	if _, _, err := execute(t, "wav", "--limit", "2", path, wav); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	st, err := os.Stat(wav)
	if err != nil {
		t.Fatal(err)
	}
	if st.Size() != 44+2*5*2 {
		t.Errorf("unexpected wav size %d", st.Size())
	}
}

func TestCloseOutput(t *testing.T) {
	f, err := os.Create(filepath.Join(t.TempDir(), "out.wav"))
	if err != nil {
		t.Fatal(err)
	}
	if err := closeOutput(f, "out.wav"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err = closeOutput(f, "out.wav")
	if !errors.Is(err, common.ErrFileError) || !errors.Is(err, os.ErrClosed) {
		t.Errorf("expected a wrapped close failure, got %v", err)
	}
	if !strings.Contains(err.Error(), "closing out.wav") {
		t.Errorf("expected the file name in %q", err.Error())
	}
}
