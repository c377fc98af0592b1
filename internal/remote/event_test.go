package remote

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEvent_Snapshot(t *testing.T) {
	data := []byte(`{
		"kind": "snapshot",
		"posts": [
			{"id": "Xy9Kq2", "trackTitle": "Energy Flash", "likes": "12"},
			{"id": "Ab3Cd4"}
		]
	}`)

	ev, err := parseEvent(data)
	require.NoError(t, err)
	assert.Equal(t, "snapshot", ev.Kind)
	require.Len(t, ev.Posts, 2)
	assert.Equal(t, "Xy9Kq2", ev.Posts[0].ID)
	assert.EqualValues(t, 12, ev.Posts[0].Likes)
}

func TestParseEvent_Ping(t *testing.T) {
	ev, err := parseEvent([]byte(`{"kind":"ping"}`))
	require.NoError(t, err)
	assert.Equal(t, "ping", ev.Kind)
	assert.Empty(t, ev.Posts)
}

func TestParseEvent_Malformed(t *testing.T) {
	_, err := parseEvent([]byte(`{"kind":`))
	assert.Error(t, err)
}
