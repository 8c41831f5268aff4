package logging

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []map[string]interface{} {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var entries []map[string]interface{}
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		entry := map[string]interface{}{}
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		entries = append(entries, entry)
	}
	return entries
}

func TestTraceWritesOnlyWhenEnabled(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "trace.log")
	Configure(path)
	t.Cleanup(func() {
		SetTraceEnabled(false)
		Configure("")
	})

	SetTraceEnabled(false)
	Trace("ignored", nil)
	SetTraceEnabled(true)
	Trace("session.switch", map[string]interface{}{"target": 2})
	Close()

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "session.switch", entries[0]["event"])
	payload, ok := entries[0]["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.EqualValues(t, 2, payload["target"])
}

func TestErrorIgnoresNil(t *testing.T) {
	path := filepath.Join(t.TempDir(), "error.log")
	Configure(path)
	t.Cleanup(func() { Configure("") })

	Error(nil)
	Error(errors.New("boom"))
	Close()

	entries := readEntries(t, path)
	require.Len(t, entries, 1)
	assert.Equal(t, "error", entries[0]["level"])
	assert.Equal(t, "boom", entries[0]["msg"])
}
