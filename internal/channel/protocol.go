package channel

import (
	"bytes"
	"encoding/json"
)

// Outbound message kinds.
const TypeExecute = "execute"

// Inbound message kinds.
const (
	TypeExecutionStart    = "execution_start"
	TypeExecutionComplete = "execution_complete"
	TypeError             = "error"
)

// Outbound is a client to backend frame. Only "execute" exists.
type Outbound struct {
	Type       string `json:"type"`
	Script     string `json:"script"`
	ScriptName string `json:"scriptName"`
}

// NewExecute builds an execute request.
func NewExecute(scriptName, script string) Outbound {
	return Outbound{Type: TypeExecute, Script: script, ScriptName: scriptName}
}

// Inbound is a backend to client frame. Fields not used by a kind are empty.
// sessionId, message and data are opaque: a JSON string decodes to its value
// and any other JSON value decodes to its compact JSON text.
type Inbound struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Message   string `json:"message,omitempty"`
	Data      string `json:"data,omitempty"`
}

// Text returns the human readable payload, preferring data over message.
func (m Inbound) Text() string {
	if m.Data != "" {
		return m.Data
	}
	return m.Message
}

// UnmarshalJSON decodes a frame without rejecting non-string payloads.
func (m *Inbound) UnmarshalJSON(b []byte) error {
	var raw struct {
		Type      string          `json:"type"`
		SessionID json.RawMessage `json:"sessionId"`
		Message   json.RawMessage `json:"message"`
		Data      json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*m = Inbound{
		Type:      raw.Type,
		SessionID: rawText(raw.SessionID),
		Message:   rawText(raw.Message),
		Data:      rawText(raw.Data),
	}
	return nil
}

// rawText renders a JSON value as text. Absent and null values are empty.
func rawText(v json.RawMessage) string {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return ""
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		return s
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, v); err != nil {
		return string(v)
	}
	return buf.String()
}
