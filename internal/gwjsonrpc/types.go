// Package gwjsonrpc implements the JSON-RPC 2.0 message model and incremental
// framing used to interpose on MCP traffic.
// file: internal/gwjsonrpc/types.go
package gwjsonrpc

import (
	"encoding/json"
	"fmt"

	"github.com/cowgnition-labs/mcp-gateway/internal/gwerrors"
)

// Version is the JSON-RPC version string every message must carry.
const Version = "2.0"

// Direction identifies which way a message is flowing through the gateway.
type Direction string

// The two directions a message can travel.
const (
	DirectionClientToServer Direction = "client->server"
	DirectionServerToClient Direction = "server->client"
)

// Kind tags a ParsedMessage by which of the four JSON-RPC shapes it is.
type Kind string

// The four message kinds the framer distinguishes.
const (
	KindRequest      Kind = "request"
	KindNotification Kind = "notification"
	KindResponse     Kind = "response"
	KindErrorResponse Kind = "error"
)

// Error represents a JSON-RPC 2.0 error object.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Error implements the error interface so an *Error can be returned directly.
func (e *Error) Error() string {
	return fmt.Sprintf("JSON-RPC error %d: %s", e.Code, e.Message)
}

// wireMessage is the raw on-wire shape used only for decoding; field
// presence (not zero-value) decides the Kind, so every field is a pointer or
// RawMessage.
type wireMessage struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// ParsedMessage is the value produced by the framer: a decoded JSON-RPC
// message plus the exact raw substring it was decoded from.
type ParsedMessage struct {
	Kind   Kind
	ID     json.RawMessage
	Method string
	Params json.RawMessage
	Result json.RawMessage
	Error  *Error
	Raw    string
}

// classify derives a Kind from field presence exactly as spec.md §3 defines:
// method+id -> Request, method without id -> Notification, error -> ErrorResponse,
// result -> Response.
func classify(w *wireMessage) (Kind, bool) {
	switch {
	case w.Method != "" && len(w.ID) > 0:
		return KindRequest, true
	case w.Method != "" && len(w.ID) == 0:
		return KindNotification, true
	case w.Error != nil:
		return KindErrorResponse, true
	case w.Result != nil:
		return KindResponse, true
	default:
		return "", false
	}
}

// parseMessage decodes a single extracted JSON object into a ParsedMessage.
// It returns an error (CategoryFraming) on malformed JSON, a non-"2.0"
// jsonrpc field, or a shape matching none of the four kinds — callers treat
// all three as a drop-and-continue parse error per spec.md §7.
func parseMessage(raw string) (*ParsedMessage, error) {
	var w wireMessage
	if err := json.Unmarshal([]byte(raw), &w); err != nil {
		return nil, gwerrors.NewFramingError("failed to decode JSON-RPC message", err)
	}
	if w.JSONRPC != Version {
		return nil, gwerrors.NewFramingError(fmt.Sprintf("unsupported jsonrpc version %q", w.JSONRPC), nil)
	}
	kind, ok := classify(&w)
	if !ok {
		return nil, gwerrors.NewFramingError("message matches no known JSON-RPC kind", nil)
	}
	return &ParsedMessage{
		Kind:   kind,
		ID:     w.ID,
		Method: w.Method,
		Params: w.Params,
		Result: w.Result,
		Error:  w.Error,
		Raw:    raw,
	}, nil
}

// IsToolCall reports whether this is a tools/call request.
func (m *ParsedMessage) IsToolCall() bool {
	return m.Kind == KindRequest && m.Method == "tools/call"
}

// IsResourceRead reports whether this is a resources/read request.
func (m *ParsedMessage) IsResourceRead() bool {
	return m.Kind == KindRequest && m.Method == "resources/read"
}

// ToolName reads params.name when this is a tool call with a mapping params.
func (m *ParsedMessage) ToolName() string {
	if !m.IsToolCall() {
		return ""
	}
	return stringField(m.Params, "name")
}

// ResourceURI reads params.uri when this is a resource read with a mapping params.
func (m *ParsedMessage) ResourceURI() string {
	if !m.IsResourceRead() {
		return ""
	}
	return stringField(m.Params, "uri")
}

func stringField(raw json.RawMessage, key string) string {
	if len(raw) == 0 {
		return ""
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return ""
	}
	v, ok := obj[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return ""
	}
	return s
}

// MessageID returns the message's id as an interface{} (nil, float64, or
// string depending on the JSON source), matching JSON-RPC's allowance for
// both integer and string ids.
func (m *ParsedMessage) MessageID() interface{} {
	if len(m.ID) == 0 {
		return nil
	}
	var id interface{}
	_ = json.Unmarshal(m.ID, &id)
	return id
}

// ErrorResponse is the synthesized shape the gateway writes back to a peer
// when a request is blocked.
type ErrorResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Error   ErrorBody       `json:"error"`
}

// ErrorBody is the payload of a synthesized ErrorResponse.
type ErrorBody struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewErrorResponse builds a single-line JSON-encodable error response with
// id echoed from the original message, per spec.md §4.2/§6.
func NewErrorResponse(id json.RawMessage, code int, message string, data interface{}) *ErrorResponse {
	return &ErrorResponse{
		JSONRPC: Version,
		ID:      id,
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// Marshal encodes the response as a single JSON line, without a trailing newline.
func (r *ErrorResponse) Marshal() (string, error) {
	b, err := json.Marshal(r)
	if err != nil {
		return "", gwerrors.Wrap(err, "failed to marshal error response")
	}
	return string(b), nil
}
