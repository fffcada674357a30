package redis

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_Unreachable(t *testing.T) {
	client, err := NewClient(&Config{Host: "127.0.0.1", Port: 1}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, err.Error(), "failed to ping Redis")
}
