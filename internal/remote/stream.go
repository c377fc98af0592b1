package remote

import (
	"context"
	"fmt"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ravetok/nexus/internal/logger"
)

const reconnectBackoff = 5 * time.Second

// Subscriber maintains the standing subscription to the cloud snapshot
// stream. Connectivity is observable through the sink: live while the
// websocket is up, off on any disconnect. The rest of the node keeps
// working in local-only mode whenever the stream is down.
type Subscriber struct {
	url    string
	sink   SnapshotSink
	logger logger.Logger
}

// NewSubscriber creates a stream subscriber.
func NewSubscriber(streamURL string, sink SnapshotSink, log logger.Logger) *Subscriber {
	return &Subscriber{
		url:    streamURL,
		sink:   sink,
		logger: log,
	}
}

// Start connects and processes snapshot deliveries until the context is
// cancelled, reconnecting with a fixed backoff on transient errors.
func (s *Subscriber) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
			if err := s.subscribe(ctx); err != nil {
				s.logger.Warn("cloud stream disconnected, reconnecting",
					logger.Error(err))
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-time.After(reconnectBackoff):
				}
			}
		}
	}
}

func (s *Subscriber) subscribe(ctx context.Context) error {
	s.logger.Info("connecting to cloud stream",
		logger.String("url", s.url))

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, s.url, nil)
	if err != nil {
		s.sink.SetLive(false)
		return fmt.Errorf("dial cloud stream: %w", err)
	}
	defer conn.Close()

	s.logger.Info("connected to cloud stream")
	s.sink.SetLive(true)
	defer s.sink.SetLive(false)

	var snapshots int64
	lastStatsLog := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, message, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read stream message: %w", err)
		}

		ev, err := parseEvent(message)
		if err != nil {
			s.logger.Error("failed to parse stream event", logger.Error(err))
			continue
		}

		if ev.Kind != "snapshot" {
			continue
		}

		snapshots++
		s.sink.SetRemoteSnapshot(ev.Posts)

		if time.Since(lastStatsLog) >= 30*time.Second {
			s.logger.Info("cloud stream stats",
				logger.Int("snapshots", int(snapshots)),
				logger.Int("posts_in_last", len(ev.Posts)))
			lastStatsLog = time.Now()
		}
	}
}
