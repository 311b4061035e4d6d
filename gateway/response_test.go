package gateway_test

import (
	"testing"

	"github.com/jrsteele09/go-route-finder/gateway"
	"github.com/stretchr/testify/require"
)

func TestResponseMessage(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    string
	}{
		{name: "message", payload: `{"message": "Route not found"}`, want: "Route not found"},
		{name: "detail", payload: `{"detail": "Invalid code"}`, want: "Invalid code"},
		{name: "error", payload: `{"error": "Bad coordinates"}`, want: "Bad coordinates"},
		{name: "non field errors", payload: `{"email": ["taken"], "non_field_errors": ["Passwords do not match"]}`, want: "Passwords do not match"},
		{name: "first field error", payload: `{"new_password": ["Too short"], "email": ["Enter a valid email"]}`, want: "Email: Enter a valid email"},
		{name: "field string", payload: `{"old_password": "Wrong password"}`, want: "Old password: Wrong password"},
		{name: "not json", payload: `<html>oops</html>`, want: ""},
		{name: "empty", payload: ``, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &gateway.Response{StatusCode: 400, Payload: []byte(tt.payload)}
			require.Equal(t, tt.want, resp.Message())
		})
	}
}

func TestResponseOK(t *testing.T) {
	require.True(t, (&gateway.Response{StatusCode: 204}).OK())
	require.False(t, (&gateway.Response{StatusCode: 302}).OK())

	var nilResponse *gateway.Response
	require.False(t, nilResponse.OK())
	require.Error(t, nilResponse.Decode(&struct{}{}))
}
