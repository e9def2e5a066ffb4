package protocol

import (
	"errors"
	"fmt"
)

const (
	// Request shape.
	ErrBadRequest = "E_BAD_REQUEST"

	// Name resolution.
	ErrUnknownAction  = "E_UNKNOWN_ACTION"
	ErrUnknownRecipe  = "E_UNKNOWN_RECIPE"
	ErrUnknownCrafter = "E_UNKNOWN_CRAFTER"
	ErrInvalidState   = "E_INVALID_STATE"

	ErrInternal = "E_INTERNAL"
)

var knownCodes = map[string]struct{}{
	ErrBadRequest:     {},
	ErrUnknownAction:  {},
	ErrUnknownRecipe:  {},
	ErrUnknownCrafter: {},
	ErrInvalidState:   {},
	ErrInternal:       {},
}

func IsKnownCode(code string) bool {
	if code == "" {
		return true
	}
	_, ok := knownCodes[code]
	return ok
}

// Error carries a wire error code alongside the underlying cause.
type Error struct {
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return e.Code + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func Errorf(code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code to err. A nil err stays nil.
func Wrap(code string, err error, message string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf returns the code of the first *Error in err's chain, or
// ErrInternal when there is none.
func CodeOf(err error) string {
	if err == nil {
		return ""
	}
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ErrInternal
}

// ErrorMsgFor renders err as an ERROR message.
func ErrorMsgFor(requestID string, err error) ErrorMsg {
	return ErrorMsg{
		Type:            TypeError,
		ProtocolVersion: Version,
		RequestID:       requestID,
		Code:            CodeOf(err),
		Message:         err.Error(),
	}
}
