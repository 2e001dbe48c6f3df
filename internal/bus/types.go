package bus

// Sample Indexing

// SampleIndex is the 0-based position of a sample in a capture.
type SampleIndex uint64

// BadSampleIndex is an invalid sample index value.
const BadSampleIndex SampleIndex = ^SampleIndex(0)

// General Library Return and Error Codes

// Err represents library error return type
type Err uint32

const (
	OK                 Err = 0
	ErrFail            Err = 1
	ErrInvalidParamVal Err = 2
	ErrFileError       Err = 3
	ErrTruncatedStream Err = 4
	ErrEmptyStream     Err = 5
	ErrChannelMap      Err = 6
	ErrAttachTooMany   Err = 7
	ErrAttachNotFound  Err = 8
	ErrSinkFatal       Err = 9
	ErrWriteLogFormat  Err = 10
	ErrLast            Err = 11
)

// ErrSeverity used to indicate the severity of an error or logger verbosity
type ErrSeverity uint32

const (
	ErrSevNone  ErrSeverity = 0
	ErrSevError ErrSeverity = 1
	ErrSevWarn  ErrSeverity = 2
	ErrSevInfo  ErrSeverity = 3
)

// Decode datapath

// DatapathResp is the response of an event sink to a delivered event.
type DatapathResp uint32

const (
	RespCont         DatapathResp = 0
	RespFatalSysErr  DatapathResp = 1
	RespFatalInvalid DatapathResp = 2
)

func DataRespIsFatal(x DatapathResp) bool { return x >= RespFatalSysErr }
