package highlight

import "fmt"

// Machine-readable codes reported by the structured backend.
const (
	CodeInvalidFiletype = "invalid_filetype"
	CodeInvalidEngine   = "invalid_engine"
	CodeParseFailed     = "parse_failed"
	CodeEncodeFailed    = "encode_failed"
)

// Error is a recoverable failure reported by a highlighting backend.
type Error struct {
	Code    string
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
