package app

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/vk/typeboot/internal/testutil"
)

// SetupBuilderTest creates a Builder that logs at debug level into a
// captured buffer.
func SetupBuilderTest(t *testing.T, cfg Config) (*Builder, *testutil.SafeBuffer) {
	t.Helper()

	logBuffer := &testutil.SafeBuffer{}
	cfg.LogLevel = "debug"
	b, err := New(logBuffer, &cfg)
	require.NoError(t, err)
	testutil.DumpLogsOnCleanup(t, logBuffer)

	return b, logBuffer
}
