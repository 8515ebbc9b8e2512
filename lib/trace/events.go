package trace

import "fmt"

// --------------------------------------------------------------------------
// Event Model
// --------------------------------------------------------------------------

// Op is the operation carried by one trace event
type Op string

const (
	// OpSet asserts a value for a handle from the event's time onward
	OpSet Op = "set"
	// OpRundown asserts a snapshot value; on a handle with no prior history
	// it counts as in force since the earliest observable moment
	OpRundown Op = "rundown"
	// OpEnd retires a handle: its entire history is discarded because the
	// identifier is about to be reused for something unrelated
	OpEnd Op = "end"
	// OpGet resolves the value in force for a handle at the event's time
	OpGet Op = "get"
)

// Event is one line of an NDJSON trace: an assertion about, or a query
// against, a handle within a named scope ("process", "thread", ...).
type Event struct {
	Scope  string `json:"scope"`
	Handle uint64 `json:"handle"`
	Time   int64  `json:"time"`
	Op     Op     `json:"op"`
	Value  string `json:"value,omitempty"`
}

// Validate checks the structural validity of an event
func (e *Event) Validate() error {
	if e.Scope == "" {
		return NewError(RetCParseError, "event has no scope")
	}
	switch e.Op {
	case OpSet, OpRundown, OpEnd, OpGet:
		return nil
	default:
		return NewError(RetCInvalidOperation, fmt.Sprintf("unknown op %q", e.Op))
	}
}

// Resolution is the outcome of one OpGet event
type Resolution struct {
	Scope  string `json:"scope"`
	Handle uint64 `json:"handle"`
	Time   int64  `json:"time"`
	Value  string `json:"value,omitempty"`
	Found  bool   `json:"found"`
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCParseError:
		errorCode = "ParseError"
	case RetCInvalidOperation:
		errorCode = "InvalidOperation"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("TraceError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new trace Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Operation executed successfully.
	RetCInternalError                   // 1: Operation failed due to an internal error.
	RetCParseError                      // 2: Trace input could not be parsed.
	RetCInvalidOperation                // 3: Invalid operation.
)
