package api

import "encoding/json"

// Error is a failed API call. Msg is what the user sees: the server's
// "message" field when the body carried one, otherwise the per-operation
// fallback text.
type Error struct {
	Status int
	Msg    string
	Cause  error
}

func (e *Error) Error() string { return e.Msg }

func (e *Error) Unwrap() error { return e.Cause }

func errorFromResponse(status int, body []byte, fallback string) *Error {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && payload.Message != "" {
		return &Error{Status: status, Msg: payload.Message}
	}
	return &Error{Status: status, Msg: fallback}
}
