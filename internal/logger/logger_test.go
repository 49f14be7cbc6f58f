package logger

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDisabled(t *testing.T) {
	c, err := Init("")
	require.NoError(t, err)
	assert.NoError(t, c.Close())
}

func TestInitWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	c, err := Init(dir)
	require.NoError(t, err)
	t.Cleanup(func() { SetOutput(io.Discard) })

	Info.Println("connected")
	Error.Println("fetch failed")
	require.NoError(t, c.Close())

	data, err := os.ReadFile(filepath.Join(dir, "todbc.log"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "INFO: ")
	assert.Contains(t, string(data), "connected")
	assert.Contains(t, string(data), "ERROR: ")
}

func TestSetOutput(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	t.Cleanup(func() { SetOutput(io.Discard) })

	Info.Printf("rc=%d", 0)
	assert.Contains(t, buf.String(), "rc=0")
}
