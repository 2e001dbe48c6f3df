// Package writelog renders bus write logs exported by the logic analyzer.
//
// Each line of a write log records one data bus write. Columns 13 and 14 hold
// the byte as two hex digits, as seen on the inverted data bus. A value of FF
// marks an idle write and is skipped.
package writelog

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"busdecode/internal/bus"
	"busdecode/internal/common"
)

const (
	byteColumn = 13
	idleByte   = "FF"
)

// Stats counts the lines seen by Dump.
type Stats struct {
	Lines   int
	Skipped int
	Bytes   int
}

// Dump reads a write log from r and writes every non-idle byte to w,
// un-inverted, as two lower case hex digits followed by "-<char>" when it is
// printable ASCII. Tokens are separated by single spaces on one line.
func Dump(r io.Reader, w io.Writer) (Stats, error) {
	var st Stats
	bw := bufio.NewWriter(w)
	sc := bufio.NewScanner(r)

	for sc.Scan() {
		st.Lines++
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			st.Skipped++
			continue
		}
		if len(line) < byteColumn+2 {
			return st, lineError(st.Lines, fmt.Sprintf("line too short (%d chars)", len(line)))
		}

		field := line[byteColumn : byteColumn+2]
		if strings.EqualFold(field, idleByte) {
			st.Skipped++
			continue
		}
		v, err := strconv.ParseUint(field, 16, 8)
		if err != nil {
			return st, lineError(st.Lines, fmt.Sprintf("bad hex byte %q", field))
		}

		if _, err := bw.WriteString(Token(byte(v) ^ 0xFF)); err != nil {
			return st, common.WrapError(bus.ErrFileError, err, "writing dump")
		}
		st.Bytes++
	}
	if err := sc.Err(); err != nil {
		return st, common.WrapError(bus.ErrFileError, err, "reading write log")
	}
	if err := bw.Flush(); err != nil {
		return st, common.WrapError(bus.ErrFileError, err, "writing dump")
	}
	return st, nil
}

// Token formats one recovered byte.
func Token(b byte) string {
	if b > 31 && b < 127 {
		return fmt.Sprintf("%02x-%c ", b, b)
	}
	return fmt.Sprintf("%02x ", b)
}

func lineError(line int, msg string) error {
	return common.NewErrorMsg(bus.ErrSevError, bus.ErrWriteLogFormat, fmt.Sprintf("line %d: %s", line, msg))
}
