package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

func TestParseSessionID(t *testing.T) {
	id := NewSessionID()
	parsed, err := ParseSessionID(" " + id.String() + " ")
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseSessionID("")
	assert.Error(t, err)
	_, err = ParseSessionID("not-a-uuid")
	assert.Error(t, err)
}

func TestHash(t *testing.T) {
	h := HashString("abc")
	assert.Len(t, h.String(), 64)
	assert.Equal(t, "ba7816bf8f01", h.Short())
	assert.Equal(t, h, NewHash([]byte("abc")))
}

func TestTimestampUnixMilliRoundTrip(t *testing.T) {
	ts := NewTimestamp(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	back := FromUnixMilli(ts.UnixMilli())
	assert.True(t, ts.Time().Equal(back.Time()))
	assert.True(t, IsNotFound(ErrSessionNotFound))
}
