package domain

import (
	"encoding/json"
	"time"
)

// Inbound is the only frame shape clients may send.
type Inbound struct {
	Message string `json:"message"`
}

// Outbound is the frame fanned out to every room member.
type Outbound struct {
	Message   string `json:"message"`
	SenderID  string `json:"sender_id"`
	Timestamp string `json:"timestamp"`
}

// ParseInbound decodes a raw client frame. A non-object or otherwise
// unparseable payload yields ErrMalformedPayload; a missing or empty
// message field yields ErrEmptyMessage. Callers drop the frame either
// way and keep the connection open.
func ParseInbound(raw []byte) (Inbound, error) {
	var in Inbound
	if err := json.Unmarshal(raw, &in); err != nil {
		return Inbound{}, ErrMalformedPayload
	}
	if in.Message == "" {
		return Inbound{}, ErrEmptyMessage
	}
	return in, nil
}

// EncodeOutbound frames a message for delivery. The timestamp is the
// server-assigned creation time, ISO-8601 UTC.
func EncodeOutbound(msg ChatMessage) []byte {
	out := Outbound{
		Message:   msg.Text,
		SenderID:  msg.SenderID,
		Timestamp: msg.CreatedAt.UTC().Format(time.RFC3339),
	}
	data, _ := json.Marshal(out)
	return data
}
