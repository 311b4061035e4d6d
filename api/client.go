// Package api is the typed client of the remote mapping API. Every call goes
// through a gateway session.
package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-json"
	"github.com/jrsteele09/go-route-finder/gateway"
)

// Caller is satisfied by *gateway.Session.
type Caller interface {
	Call(ctx context.Context, method, endpoint string, body any, opts ...gateway.CallOption) (*gateway.Response, error)
}

type Client struct {
	caller Caller
}

func New(caller Caller) *Client {
	return &Client{caller: caller}
}

// Error is a non-2xx response from the remote API, a transport failure
// included (status 400, "An error occurred.").
type Error struct {
	StatusCode int
	Message    string
	Payload    []byte
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("remote API returned status %d: %s", e.StatusCode, e.Message)
}

// FieldErrors returns the first message per field of a validation payload
// such as {"email": ["Enter a valid email address."]}.
func (e *Error) FieldErrors() map[string]string {
	var body map[string]any
	if err := json.Unmarshal(e.Payload, &body); err != nil {
		return nil
	}

	fields := map[string]string{}
	for key, value := range body {
		if key == "message" || key == "detail" || key == "error" {
			continue
		}
		if list, ok := value.([]any); ok && len(list) > 0 {
			if s, ok := list[0].(string); ok {
				fields[key] = s
			}
		}
	}
	if len(fields) == 0 {
		return nil
	}
	return fields
}

func newError(resp *gateway.Response) *Error {
	message := resp.Message()
	if message == "" {
		message = strings.TrimSpace(string(resp.Payload))
		if len(message) > 200 || strings.HasPrefix(message, "<") {
			message = ""
		}
	}
	return &Error{StatusCode: resp.StatusCode, Message: message, Payload: resp.Payload}
}

// do performs the call and decodes a 2xx payload into out when out is not nil.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out any, opts ...gateway.CallOption) error {
	resp, err := c.caller.Call(ctx, method, endpoint, body, opts...)
	if err != nil {
		return err
	}
	if !resp.OK() {
		return newError(resp)
	}
	if out == nil || len(resp.Payload) == 0 {
		return nil
	}
	if err := resp.Decode(out); err != nil {
		return fmt.Errorf("[api] %s %s: %w", method, endpoint, err)
	}
	return nil
}
