package rounds

import "fmt"

// Kind tags a workflow error so callers can distinguish validation problems,
// missing aggregates and persistence failures without parsing the message.
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindInvalidState
	KindPersistence
)

type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string { return e.Message }

func validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func notFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func invalidStatef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf(format, args...)}
}

func persistencef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindPersistence, Message: fmt.Sprintf(format, args...)}
}

// Result is the discriminated outcome of a workflow RPC: success (possibly
// with warnings for best-effort sub-operations) or a single tagged error. No
// panics cross this boundary.
type Result struct {
	Success  bool     `json:"success"`
	Warnings []string `json:"warnings,omitempty"`
	Err      *Error   `json:"-"`
}

func succeed(warnings []string) Result {
	return Result{Success: true, Warnings: warnings}
}

func fail(err error) Result {
	if tagged, ok := err.(*Error); ok {
		return Result{Err: tagged}
	}
	return Result{Err: &Error{Kind: KindPersistence, Message: err.Error()}}
}
