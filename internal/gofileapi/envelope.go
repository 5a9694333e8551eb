// Package gofileapi handles the response envelope shared by every GoFile
// endpoint. Responses arrive as {"status": "...", "data": ...}; a status other
// than "ok" is an API-level refusal and is distinct from transport failures.
package gofileapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// StatusOK is the status value reported on success.
const StatusOK = "ok"

// Envelope is the wire form of every GoFile response.
type Envelope struct {
	Status string          `json:"status"`
	Data   json.RawMessage `json:"data"`
}

// StatusError reports a response whose envelope carried a non-ok status.
type StatusError struct {
	Status string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("gofile: api status %q", e.Status)
}

// ParseEnvelope decodes the raw body into an Envelope without touching the
// data payload.
func ParseEnvelope(body []byte) (*Envelope, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("gofile: empty response body")
	}
	var env Envelope
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("gofile: decode envelope: %w", err)
	}
	return &env, nil
}

// Decode unwraps the envelope and unmarshals its data payload into out.
// A non-ok status is returned as *StatusError. A missing data field decodes
// as JSON null, leaving out at its zero value.
func Decode(body []byte, out any) error {
	env, err := ParseEnvelope(body)
	if err != nil {
		return err
	}
	if env.Status != StatusOK {
		return &StatusError{Status: env.Status}
	}
	if out == nil {
		return nil
	}
	payload := []byte(env.Data)
	if len(bytes.TrimSpace(payload)) == 0 {
		payload = []byte("null")
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("gofile: decode data payload: %w", err)
	}
	return nil
}

// StatusFromBody extracts the envelope status from an error response body.
// It reports ok=false when the body does not parse as an envelope or the
// status field is empty, letting callers fall back to the HTTP status.
func StatusFromBody(body []byte) (string, bool) {
	env, err := ParseEnvelope(body)
	if err != nil || env.Status == "" {
		return "", false
	}
	return env.Status, true
}
