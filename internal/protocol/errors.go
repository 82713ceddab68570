package protocol

import "fmt"

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Error is a JSON-RPC error object. It implements the error interface so
// handlers can return it directly and have the code preserved on the wire.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// NewParseError returns the error for unparseable wire input.
func NewParseError() *Error {
	return &Error{Code: CodeParseError, Message: "Parse error"}
}

// NewInvalidRequest returns the error for envelopes violating the field contract.
func NewInvalidRequest() *Error {
	return &Error{Code: CodeInvalidRequest, Message: "Invalid Request"}
}

// NewMethodNotFound returns the error for unknown methods.
func NewMethodNotFound() *Error {
	return &Error{Code: CodeMethodNotFound, Message: "Method not found"}
}

// NewInvalidParams returns the error for parameter binding failures.
func NewInvalidParams(detail string) *Error {
	err := &Error{Code: CodeInvalidParams, Message: "Invalid params"}
	if detail != "" {
		err.Data = detail
	}
	return err
}

// NewInternalError returns the error for uncaught handler faults.
func NewInternalError(detail string) *Error {
	err := &Error{Code: CodeInternalError, Message: "Internal error"}
	if detail != "" {
		err.Data = detail
	}
	return err
}
