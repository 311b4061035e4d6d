package gateway

import (
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

// The response handed back when no HTTP response was received at all.
const (
	NetworkFailureStatus  = http.StatusBadRequest
	NetworkFailureMessage = "An error occurred."
)

// CredentialsNotProvided is the 403 detail the remote API sends for calls
// made without any credentials.
const CredentialsNotProvided = "Authentication credentials were not provided."

// Response is the outcome of a call: the status code and the raw JSON payload.
type Response struct {
	StatusCode int
	Payload    []byte
}

func networkFailure() *Response {
	payload, _ := json.Marshal(map[string]string{"message": NetworkFailureMessage})
	return &Response{StatusCode: NetworkFailureStatus, Payload: payload}
}

// OK reports a 2xx status.
func (r *Response) OK() bool {
	return r != nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Decode unmarshals the payload into v.
func (r *Response) Decode(v any) error {
	if r == nil || len(r.Payload) == 0 {
		return fmt.Errorf("[gateway Decode] empty payload")
	}
	if err := json.Unmarshal(r.Payload, v); err != nil {
		return fmt.Errorf("[gateway Decode] %w", err)
	}
	return nil
}

// Message extracts a human readable message from an error payload. It looks
// for "message", "detail" and "error" first, then for the first field error
// of a validation payload such as {"email": ["already registered"]}.
func (r *Response) Message() string {
	if r == nil || len(r.Payload) == 0 {
		return ""
	}

	var body map[string]any
	if err := json.Unmarshal(r.Payload, &body); err != nil {
		return ""
	}

	for _, key := range []string{"message", "detail", "error"} {
		if s, ok := body[key].(string); ok && s != "" {
			return s
		}
	}

	if s := firstString(body["non_field_errors"]); s != "" {
		return s
	}

	keys := make([]string, 0, len(body))
	for k := range body {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s := firstString(body[k]); s != "" {
			return fieldLabel(k) + ": " + s
		}
	}
	return ""
}

func (r *Response) credentialsNotProvided() bool {
	if r == nil || r.StatusCode != http.StatusForbidden {
		return false
	}
	var body struct {
		Detail string `json:"detail"`
	}
	if err := json.Unmarshal(r.Payload, &body); err != nil {
		return false
	}
	return body.Detail == CredentialsNotProvided
}

func firstString(v any) string {
	switch value := v.(type) {
	case string:
		return value
	case []any:
		for _, item := range value {
			if s, ok := item.(string); ok && s != "" {
				return s
			}
		}
	}
	return ""
}

func fieldLabel(key string) string {
	label := strings.ReplaceAll(key, "_", " ")
	if label == "" {
		return label
	}
	return strings.ToUpper(label[:1]) + label[1:]
}
