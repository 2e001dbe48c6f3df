package common

import (
	"errors"
	"fmt"
	"strings"

	"busdecode/internal/bus"
)

// Error represents the library error object.
// It carries a code, a severity and, when known, the sample index at which the
// problem was found.
type Error struct {
	Code    bus.Err
	Sev     bus.ErrSeverity
	Idx     bus.SampleIndex
	Message string
	Cause   error
}

func NewError(sev bus.ErrSeverity, code bus.Err) *Error {
	return &Error{
		Code: code,
		Sev:  sev,
		Idx:  bus.BadSampleIndex,
	}
}

func NewErrorWithIdx(sev bus.ErrSeverity, code bus.Err, idx bus.SampleIndex) *Error {
	return &Error{
		Code: code,
		Sev:  sev,
		Idx:  idx,
	}
}

func NewErrorMsg(sev bus.ErrSeverity, code bus.Err, msg string) *Error {
	return &Error{
		Code:    code,
		Sev:     sev,
		Idx:     bus.BadSampleIndex,
		Message: msg,
	}
}

func NewErrorWithIdxMsg(sev bus.ErrSeverity, code bus.Err, idx bus.SampleIndex, msg string) *Error {
	return &Error{
		Code:    code,
		Sev:     sev,
		Idx:     idx,
		Message: msg,
	}
}

// WrapError builds an error-severity Error around an underlying cause, such as
// an I/O failure.
func WrapError(code bus.Err, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Sev:     bus.ErrSevError,
		Idx:     bus.BadSampleIndex,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Error implements the standard error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	switch e.Sev {
	case bus.ErrSevNone:
		return "LIBRARY INTERNAL ERROR: Invalid Error Object"
	case bus.ErrSevError:
		sb.WriteString("ERROR:")
	case bus.ErrSevWarn:
		sb.WriteString("WARN :")
	case bus.ErrSevInfo:
		sb.WriteString("INFO :")
	default:
		return "LIBRARY INTERNAL ERROR: Invalid Error Object"
	}

	sb.WriteString(fmt.Sprintf("0x%04x ", e.Code))

	if desc, ok := errorCodeDesc[e.Code]; ok {
		sb.WriteString(fmt.Sprintf("(%s) [%s]; ", desc.name, desc.msg))
	} else {
		sb.WriteString("(unknown); ")
	}

	if e.Idx != bus.BadSampleIndex {
		sb.WriteString(fmt.Sprintf("Idx=%d; ", e.Idx))
	}

	sb.WriteString(e.Message)
	if e.Cause != nil {
		if e.Message != "" {
			sb.WriteString(": ")
		}
		sb.WriteString(e.Cause.Error())
	}
	return sb.String()
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is matches any *Error carrying the same code, so the code sentinels below
// work with errors.Is.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Code sentinels for errors.Is.
var (
	ErrTruncatedStream = NewError(bus.ErrSevError, bus.ErrTruncatedStream)
	ErrEmptyStream     = NewError(bus.ErrSevWarn, bus.ErrEmptyStream)
	ErrChannelMap      = NewError(bus.ErrSevError, bus.ErrChannelMap)
	ErrFileError       = NewError(bus.ErrSevError, bus.ErrFileError)
	ErrSinkFatal       = NewError(bus.ErrSevError, bus.ErrSinkFatal)
)

// DataRespStr returns a string representation for a bus.DatapathResp value.
func DataRespStr(resp bus.DatapathResp) string {
	switch resp {
	case bus.RespCont:
		return "RESP_CONT: Continue processing."
	case bus.RespFatalSysErr:
		return "RESP_FATAL_SYS_ERR: Processing Fatal Error :  internal system error."
	case bus.RespFatalInvalid:
		return "RESP_FATAL_INVALID: Processing Fatal Error :  invalid data path operation."
	default:
		return "Unknown RESP type."
	}
}

type errDesc struct {
	name string
	msg  string
}

var errorCodeDesc = map[bus.Err]errDesc{
	bus.OK:                 {"BUSDEC_OK", "No Error."},
	bus.ErrFail:            {"BUSDEC_ERR_FAIL", "General failure."},
	bus.ErrInvalidParamVal: {"BUSDEC_ERR_INVALID_PARAM_VAL", "Invalid value parameter passed to component."},
	bus.ErrFileError:       {"BUSDEC_ERR_FILE_ERROR", "File access error"},
	bus.ErrTruncatedStream: {"BUSDEC_ERR_TRUNCATED_STREAM", "Capture ends with an odd trailing byte."},
	bus.ErrEmptyStream:     {"BUSDEC_ERR_EMPTY_STREAM", "Capture contains no samples."},
	bus.ErrChannelMap:      {"BUSDEC_ERR_CHANNEL_MAP", "Invalid channel assignment."},
	bus.ErrAttachTooMany:   {"BUSDEC_ERR_ATTACH_TOO_MANY", "Cannot attach - attach device limit reached."},
	bus.ErrAttachNotFound:  {"BUSDEC_ERR_ATTACH_COMP_NOT_FOUND", "Cannot detach - component not found."},
	bus.ErrSinkFatal:       {"BUSDEC_ERR_SINK_FATAL", "An event sink in the data path has returned a fatal error."},
	bus.ErrWriteLogFormat:  {"BUSDEC_ERR_WRITE_LOG_FORMAT", "Malformed line in bus write log."},
	bus.ErrLast:            {"BUSDEC_ERR_LAST", "No error - error code end marker"},
}
