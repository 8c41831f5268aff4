package app

import (
	"testing"
	"time"

	"github.com/atomicstack/termslots/internal/menu"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModelOptionsCarryConfig(t *testing.T) {
	cfg := Config{
		Width:         100,
		Height:        30,
		ShowFooter:    true,
		TickInterval:  20 * time.Millisecond,
		Shell:         "/bin/zsh",
		LeaderKey:     "ctrl+b",
		LeaderTimeout: time.Second,
		BufferSize:    1024,
		LogoutTimeout: 3 * time.Second,
		Programs:      []menu.Program{{Name: "top", Command: "top"}},
	}

	opts := modelOptions(cfg, nil)

	assert.Equal(t, 100, opts.Width)
	assert.Equal(t, 30, opts.Height)
	assert.True(t, opts.ShowFooter)
	assert.Equal(t, 20*time.Millisecond, opts.TickInterval)
	assert.Equal(t, "/bin/zsh", opts.Shell)
	assert.Equal(t, cfg.Programs, opts.Programs)
	assert.Equal(t, 3*time.Second, opts.LogoutTimeout)
	require.NotNil(t, opts.Leader)
	assert.Equal(t, "ctrl+b", opts.Leader.Key())
	assert.Equal(t, time.Second, opts.Leader.Timeout())
	assert.Len(t, opts.BridgeOptions, 2)
	require.NotNil(t, opts.Users)
	require.NotNil(t, opts.Identity)
}
