package telemetry

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetupWithoutExporters(t *testing.T) {
	tel, err := Setup(context.Background(), "test:telemetry", Config{})
	require.NoError(t, err)
	require.Nil(t, tel.TracerProvider)
	require.Nil(t, tel.MeterProvider)
	require.NoError(t, tel.Shutdown(context.Background()))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short"))

	long := strings.Repeat("a", maxBodyAttribute+10)
	out := truncate(long)
	require.True(t, strings.HasPrefix(out, strings.Repeat("a", maxBodyAttribute)))
	require.True(t, strings.HasSuffix(out, "bytes total)"))
}
