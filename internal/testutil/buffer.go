// Package testutil holds helpers shared by the package tests.
package testutil

import (
	"bytes"
	"os"
	"sync"
	"testing"
)

// SafeBuffer is a thread-safe buffer for capturing log output in tests.
type SafeBuffer struct {
	b  bytes.Buffer
	mu sync.Mutex
}

// Write implements the io.Writer interface for SafeBuffer.
func (b *SafeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.Write(p)
}

// String implements the fmt.Stringer interface for SafeBuffer.
func (b *SafeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.b.String()
}

// DumpLogsOnCleanup prints the captured log output at the end of the test
// when TYPEBOOT_TEST_LOGS=true.
func DumpLogsOnCleanup(t *testing.T, buf *SafeBuffer) {
	t.Helper()
	t.Cleanup(func() {
		if os.Getenv("TYPEBOOT_TEST_LOGS") == "true" {
			t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), buf.String())
		}
	})
}
