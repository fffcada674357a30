package handler

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/cuongbtq/skillbridge/internal/api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActivityCursorRoundTrip(t *testing.T) {
	in := &storage.ActivityCursor{
		CreatedAt: time.Date(2025, 6, 1, 10, 30, 0, 123456789, time.UTC),
		ID:        "3f0b7c1e-5d2a-4c11-8a77-0c9b1d2e3f40",
	}

	encoded := EncodeActivityCursor(in)
	assert.NotContains(t, encoded, "=")

	out, err := DecodeActivityCursor(encoded)
	require.NoError(t, err)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.Equal(t, in.ID, out.ID)
}

func TestDecodeActivityCursor(t *testing.T) {
	enc := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	out, err := DecodeActivityCursor("")
	require.NoError(t, err)
	assert.Nil(t, out)

	for name, cursor := range map[string]string{
		"not base64":     "***",
		"no separator":   enc("12345"),
		"empty id":       enc("12345|"),
		"non numeric ts": enc("yesterday|abc"),
		"id not a uuid":  enc("12345|x"),
		"urn id":         enc("12345|urn:uuid:3f0b7c1e-5d2a-4c11-8a77-0c9b1d2e3f40"),
	} {
		t.Run(name, func(t *testing.T) {
			_, err := DecodeActivityCursor(cursor)
			assert.Error(t, err)
		})
	}
}

func TestValidID(t *testing.T) {
	tests := map[string]bool{
		"3f0b7c1e-5d2a-4c11-8a77-0c9b1d2e3f40":          true,
		"3F0B7C1E-5D2A-4C11-8A77-0C9B1D2E3F40":          true,
		"urn:uuid:3f0b7c1e-5d2a-4c11-8a77-0c9b1d2e3f40": false,
		"{3f0b7c1e-5d2a-4c11-8a77-0c9b1d2e3f40}":        false,
		"3f0b7c1e5d2a4c118a770c9b1d2e3f40":              false,
		"not-a-uuid":                                    false,
		"":                                              false,
	}

	for id, want := range tests {
		assert.Equal(t, want, validID(id), "id %q", id)
	}
}
