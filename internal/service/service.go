package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/technocare/internal/events"
	"github.com/Skotchmaster/technocare/internal/metrics"
	"github.com/Skotchmaster/technocare/pkg/logging"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

// publish never fails the caller: the write already happened.
func publish(ctx context.Context, p events.Publisher, topic, key string, event map[string]any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, event); err != nil {
		metrics.EventsPublished.WithLabelValues(topic, "error").Inc()
		logging.FromContext(ctx).Error("event_publish_failed", "topic", topic, "type", event["type"], "error", err)
		return
	}
	metrics.EventsPublished.WithLabelValues(topic, "ok").Inc()
}
