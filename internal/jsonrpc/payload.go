package jsonrpc

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/imtaco/live-signal/internal/errors"
)

type messageType int

const (
	typeUnknown messageType = iota
	typeRequest
	typeResponse
	typeNotification
)

const jsonRPCVersion = "2.0"

// Request is an inbound call. ID is unset for notifications.
type Request struct {
	ID     *ID              `json:"id"`
	Method string           `json:"method"`
	Params *json.RawMessage `json:"params,omitempty"`
}

// message is the wire envelope for every direction.
type message struct {
	JSONRPC string           `json:"jsonrpc,omitempty"`
	ID      *ID              `json:"id,omitempty"`
	Method  *string          `json:"method,omitempty"`
	Params  *json.RawMessage `json:"params,omitempty"`
	Result  *json.RawMessage `json:"result,omitempty"`
	Error   *Error           `json:"error,omitempty"`

	msgType messageType `json:"-"`
}

// validate sets msgType. A method plus a result or error, or a result
// without id, is typeUnknown.
func (m *message) validate() {
	hasReply := m.Result != nil || m.Error != nil

	switch {
	case m.Method != nil && hasReply:
		m.msgType = typeUnknown
	case m.Method != nil && m.ID.IsSet():
		m.msgType = typeRequest
	case m.Method != nil:
		m.msgType = typeNotification
	case hasReply && m.ID.IsSet():
		m.msgType = typeResponse
	default:
		m.msgType = typeUnknown
	}
}

func marshalRaw(v any, what string) (*json.RawMessage, error) {
	bs, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrapf(ErrCodeParseError, err, "failed to marshal %s", what)
	}
	raw := json.RawMessage(bs)
	return &raw, nil
}

func newNotificationMessage(method string, params any) (*message, error) {
	raw, err := marshalRaw(params, "params")
	if err != nil {
		return nil, err
	}
	return &message{
		JSONRPC: jsonRPCVersion,
		Method:  &method,
		Params:  raw,
		msgType: typeNotification,
	}, nil
}

// newResponseMessage carries either result or respErr, never both.
func newResponseMessage(id ID, result any, respErr *Error) (*message, error) {
	m := &message{
		JSONRPC: jsonRPCVersion,
		ID:      &id,
		Error:   respErr,
		msgType: typeResponse,
	}
	if respErr != nil {
		return m, nil
	}

	raw, err := marshalRaw(result, "result")
	if err != nil {
		return nil, err
	}
	m.Result = raw
	return m, nil
}

// ID is a request id, a string or an unsigned integer on the wire.
type ID struct {
	Num      uint64
	Str      string
	isString bool
}

// IsSet is false for a nil id and for the integer 0.
func (id *ID) IsSet() bool {
	return id != nil && (id.isString || id.Num != 0)
}

func (id *ID) String() string {
	if id.isString {
		return strconv.Quote(id.Str)
	}
	return strconv.FormatUint(id.Num, 10)
}

func (id *ID) MarshalJSON() ([]byte, error) {
	if id.isString {
		return json.Marshal(id.Str)
	}
	return json.Marshal(id.Num)
}

func (id *ID) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*id = ID{Str: s, isString: true}
		return nil
	}

	var n uint64
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID{Num: n}
	return nil
}

// Error is the error object of a response. It is also returned by method
// handlers to choose the code the client sees.
type Error struct {
	Code    int64            `json:"code"`
	Message string           `json:"message"`
	Data    *json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc error: code %v, message: %s", e.Code, e.Message)
}

// Standard error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)
