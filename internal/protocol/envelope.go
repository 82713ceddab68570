package protocol

import "encoding/json"

// Version is the protocol version tag every envelope must carry.
const Version = "2.0"

// Request is a decoded inbound request or notification.
//
// ID is nil when the envelope carried no id field (a notification) and
// holds the raw JSON value otherwise, including the literal "null".
type Request struct {
	ID     json.RawMessage
	Method string
	Params json.RawMessage
}

// IsNotification reports whether the envelope carried no id and therefore
// must never produce a response.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}

// Incoming is one element of a decoded message: either a valid request or
// the error to respond with for that element.
type Incoming struct {
	Req *Request
	Err *Error
	// ErrID is the echoed id for Err responses, nil (encoded as null)
	// when the id could not be recovered.
	ErrID json.RawMessage
}

// Response is an outbound response envelope. Exactly one of Result or Err
// is set; MarshalJSON enforces the wire shape.
type Response struct {
	ID     json.RawMessage
	Result any
	Err    *Error
}

// NewResult builds a success response echoing the request id.
func NewResult(id json.RawMessage, result any) *Response {
	return &Response{ID: id, Result: result}
}

// NewError builds an error response. A nil id encodes as null.
func NewError(id json.RawMessage, err *Error) *Response {
	return &Response{ID: id, Err: err}
}

// MarshalJSON emits the full envelope. The result member is always present
// on success responses, even when the handler returned nil.
func (r *Response) MarshalJSON() ([]byte, error) {
	if r.Err != nil {
		return json.Marshal(struct {
			JSONRPC string          `json:"jsonrpc"`
			ID      json.RawMessage `json:"id"`
			Error   *Error          `json:"error"`
		}{Version, r.ID, r.Err})
	}
	return json.Marshal(struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Result  any             `json:"result"`
	}{Version, r.ID, r.Result})
}

// NewNotification builds and serializes an id-less notification envelope,
// the shape used for every broadcast.
func NewNotification(method string, params any) ([]byte, error) {
	return json.Marshal(struct {
		JSONRPC string `json:"jsonrpc"`
		Method  string `json:"method"`
		Params  any    `json:"params"`
	}{Version, method, params})
}
