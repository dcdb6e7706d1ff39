package value

import "fmt"

// ErrorKind identifies a standard spreadsheet error. the numeric codes match
// the classic ERROR.TYPE numbering.
type ErrorKind uint8

const (
	ErrNull  ErrorKind = 1 // #NULL! - no cells in common between ranges
	ErrDiv0  ErrorKind = 2 // #DIV/0! - division by zero
	ErrValue ErrorKind = 3 // #VALUE! - wrong type of argument or operand
	ErrRef   ErrorKind = 4 // #REF! - invalid cell reference
	ErrName  ErrorKind = 5 // #NAME? - unrecognized function or defined name
	ErrNum   ErrorKind = 6 // #NUM! - number invalid, too large, or too small
	ErrNA    ErrorKind = 7 // #N/A - value not available
)

// ErrorTokens maps error kinds to their display tokens.
var ErrorTokens = map[ErrorKind]string{
	ErrNull:  "#NULL!",
	ErrDiv0:  "#DIV/0!",
	ErrValue: "#VALUE!",
	ErrRef:   "#REF!",
	ErrName:  "#NAME?",
	ErrNum:   "#NUM!",
	ErrNA:    "#N/A",
}

var tokenKinds = map[string]ErrorKind{
	"#NULL!":  ErrNull,
	"#DIV/0!": ErrDiv0,
	"#VALUE!": ErrValue,
	"#REF!":   ErrRef,
	"#NAME?":  ErrName,
	"#NUM!":   ErrNum,
	"#N/A":    ErrNA,
}

// Error is a formula error carried as a value. it also satisfies Go's error
// interface so API boundaries can return it directly.
type Error struct {
	Kind    ErrorKind
	Message string
}

func (Error) isValue()  {}
func (Error) isScalar() {}

// String returns the display token, never the message. cells show "#DIV/0!",
// not the diagnostic text.
func (e Error) String() string {
	return ErrorTokens[e.Kind]
}

func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrorTokens[e.Kind]
}

// NewError creates an error value with a diagnostic message. an empty message
// falls back to the display token.
func NewError(kind ErrorKind, message string) Error {
	if message == "" {
		message = ErrorTokens[kind]
	}
	return Error{Kind: kind, Message: message}
}

// Errorf creates an error value with a formatted diagnostic message.
func Errorf(kind ErrorKind, format string, a ...any) Error {
	return Error{Kind: kind, Message: fmt.Sprintf(format, a...)}
}

// ParseErrorToken recognizes a literal error token like "#N/A".
func ParseErrorToken(s string) (Error, bool) {
	if kind, ok := tokenKinds[s]; ok {
		return NewError(kind, ""), true
	}
	return Error{}, false
}

// AsError returns the value as an Error if it is one. the nil-comfortable
// counterpart to a type assertion, used to propagate errors before touching
// operands.
func AsError(v Value) (Error, bool) {
	e, ok := v.(Error)
	return e, ok
}

// IsError reports whether the value is an error.
func IsError(v Value) bool {
	_, ok := v.(Error)
	return ok
}

// FirstError scans values left to right and returns the first error found.
func FirstError(vs ...Value) (Error, bool) {
	for _, v := range vs {
		if e, ok := v.(Error); ok {
			return e, true
		}
	}
	return Error{}, false
}
