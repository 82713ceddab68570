package broadcast

import (
	"log/slog"

	"telemetryd/internal/protocol"
	"telemetryd/internal/session"
)

// Coordinator delivers topic events to subscribers through the session
// registry. Delivery is best-effort: a failed send never aborts the pass,
// and cross-subscriber ordering is unspecified. Sends to one subscriber are
// sequential, so publish order is preserved per subscriber.
type Coordinator struct {
	sessions *session.Registry
	logger   *slog.Logger
}

// NewCoordinator creates a coordinator over the session registry.
func NewCoordinator(sessions *session.Registry, logger *slog.Logger) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		sessions: sessions,
		logger:   logger,
	}
}

// Publish sends one notification for topic to every current subscriber.
func (c *Coordinator) Publish(topic string, payload any) {
	ids := c.sessions.Subscribers(topic)
	if len(ids) == 0 {
		return
	}

	data, err := protocol.NewNotification(topic, payload)
	if err != nil {
		c.logger.Error("failed to encode notification", "topic", topic, "error", err)
		return
	}

	var dead []string
	for _, id := range ids {
		sess, ok := c.sessions.Get(id)
		if !ok {
			// Torn down between snapshot and send.
			dead = append(dead, id)
			continue
		}
		if err := sess.Send(data); err != nil {
			c.logger.Warn("broadcast send failed, pruning session",
				"topic", topic,
				"session", id,
				"error", err,
			)
			dead = append(dead, id)
		}
	}

	if len(dead) > 0 {
		c.sessions.Prune(topic, dead)
	}
}
