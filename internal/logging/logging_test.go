package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/require"
)

func TestSetup(t *testing.T) {
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	t.Run("default level", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, setup(&buf, "PROD", ""))
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("valid level", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, setup(&buf, "PROD", "DEBUG"))
		require.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	})

	t.Run("invalid level", func(t *testing.T) {
		var buf bytes.Buffer
		err := setup(&buf, "PROD", "loud")
		require.EqualError(t, err, "invalid LOG_LEVEL 'loud'")
		require.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
	})

	t.Run("json output outside DEV", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, setup(&buf, "PROD", "info"))
		log.Info().Str("k", "v").Msg("hello")
		require.Contains(t, buf.String(), `"k":"v"`)
		require.Contains(t, buf.String(), `"message":"hello"`)
	})
}

func TestContext(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, setup(&buf, "PROD", "info"))

	ctx := IntoContext(context.Background(), "req-1")
	require.Equal(t, "req-1", RequestID(ctx))

	FromContext(ctx).Info().Msg("scoped")
	require.Contains(t, buf.String(), `"request_id":"req-1"`)

	require.Equal(t, "", RequestID(context.Background()))
	require.Equal(t, &log.Logger, FromContext(context.Background()))
}
