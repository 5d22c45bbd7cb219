package apierr

import "fmt"

// Error is what a handler returns to the client. The cause stays
// server-side; only the code, message and run id go over the wire.
type Error struct {
	code    Code
	message string
	status  int
	run     string
	cause   error
}

func New(code Code, status int, message string) *Error {
	return &Error{code: code, message: message, status: status}
}

func Wrap(code Code, status int, message string, cause error) *Error {
	return &Error{code: code, message: message, status: status, cause: cause}
}

// ForRun returns a copy of e tagged with the link run it concerns.
func (e *Error) ForRun(id string) *Error {
	c := *e
	c.run = id
	return &c
}

func (e *Error) Error() string {
	msg := string(e.code)
	if e.run != "" {
		msg += " [run " + e.run + "]"
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", msg, e.message, e.cause)
	}
	return msg + ": " + e.message
}

func (e *Error) Unwrap() error   { return e.cause }
func (e *Error) Code() Code      { return e.code }
func (e *Error) Message() string { return e.message }
func (e *Error) Status() int     { return e.status }
func (e *Error) Run() string     { return e.run }

// ErrorResponse is the JSON body of every failed API call.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type ErrorBody struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Run     string `json:"run,omitempty"`
}

func (e *Error) Response() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Code: e.code, Message: e.message, Run: e.run}}
}
