package api

import "encoding/json"

// The service is inconsistent about response shapes: most endpoints wrap
// the payload as {"success": true, "data": ...}, a few return it flat.
// Everything is normalized here, at the boundary, so nothing past this
// file ever sees the wrapper.

type envelope struct {
	Success *bool           `json:"success"`
	Message string          `json:"message"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// DecodePayload unmarshals a response body into v, unwrapping the
// {success,data} envelope when present and falling back to the flat shape
// otherwise.
func DecodePayload(body []byte, v any) error {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil && env.Data != nil {
		return json.Unmarshal(env.Data, v)
	}
	return json.Unmarshal(body, v)
}

// ErrorMessage extracts a human-readable message from an error response
// body, or returns the fallback when none is present.
func ErrorMessage(body []byte, fallback string) string {
	var env envelope
	if err := json.Unmarshal(body, &env); err == nil {
		if env.Message != "" {
			return env.Message
		}
		if env.Error != "" {
			return env.Error
		}
	}
	return fallback
}
