// Package protocol implements the JSON-RPC 2.0 envelope codec.
//
// The codec is pure and stateless:
//   - Decode parses raw wire text into requests/notifications, including
//     batches, without ever panicking on malformed input
//   - EncodeResponses serializes response sets, emitting no output at all
//     when every element of a batch was a notification
//
// Error codes follow the JSON-RPC 2.0 specification.
package protocol
