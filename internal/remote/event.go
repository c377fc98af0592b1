package remote

import (
	"encoding/json"
	"fmt"

	"github.com/ravetok/nexus/internal/domain"
)

// streamEvent is one message from the cloud snapshot stream. The stream
// re-sends the full ordered snapshot on every change rather than deltas, so
// each delivery replaces the previous remote view wholesale.
type streamEvent struct {
	Kind  string            `json:"kind"` // "snapshot" | "ping"
	Posts []*domain.RawPost `json:"posts,omitempty"`
}

func parseEvent(data []byte) (*streamEvent, error) {
	var ev streamEvent
	if err := json.Unmarshal(data, &ev); err != nil {
		return nil, fmt.Errorf("unmarshal stream event: %w", err)
	}
	return &ev, nil
}
