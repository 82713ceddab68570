package protocol

import (
	"bytes"
	"encoding/json"
)

// Decode parses one wire message into its constituent envelopes.
//
// The returned batch flag records whether the input was a top-level array,
// which controls response framing: batch responses are concatenated into an
// array, single responses are emitted bare.
//
// Malformed JSON yields a single ParseError element. Batch elements are
// decoded independently: a bad element produces its own error Incoming and
// never aborts its siblings. An empty batch is an InvalidRequest.
func Decode(raw []byte) (msgs []Incoming, batch bool) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return []Incoming{{Err: NewParseError()}}, false
		}
		if len(elems) == 0 {
			return []Incoming{{Err: NewInvalidRequest()}}, false
		}
		msgs = make([]Incoming, 0, len(elems))
		for _, elem := range elems {
			msgs = append(msgs, decodeOne(elem))
		}
		return msgs, true
	}

	if !json.Valid(raw) {
		return []Incoming{{Err: NewParseError()}}, false
	}
	return []Incoming{decodeOne(raw)}, false
}

// decodeOne validates a single envelope against the field contract.
func decodeOne(raw []byte) Incoming {
	var env struct {
		JSONRPC string          `json:"jsonrpc"`
		ID      json.RawMessage `json:"id"`
		Method  json.RawMessage `json:"method"`
		Params  json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		// Well-formed JSON but not an object (e.g. a bare number
		// inside a batch).
		return Incoming{Err: NewInvalidRequest()}
	}
	if env.JSONRPC != Version {
		return Incoming{Err: NewInvalidRequest(), ErrID: env.ID}
	}

	var method string
	if err := json.Unmarshal(env.Method, &method); err != nil || method == "" {
		return Incoming{Err: NewInvalidRequest(), ErrID: env.ID}
	}

	return Incoming{Req: &Request{
		ID:     env.ID,
		Method: method,
		Params: env.Params,
	}}
}

// EncodeResponses serializes a response set.
//
// Zero responses encode to nil: a notification-only batch produces no wire
// output at all, not an empty array. A single response to a non-batch input
// is emitted as a bare object.
func EncodeResponses(resps []*Response, batch bool) ([]byte, error) {
	if len(resps) == 0 {
		return nil, nil
	}
	if !batch {
		return json.Marshal(resps[0])
	}
	return json.Marshal(resps)
}
