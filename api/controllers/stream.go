package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/tastebite/tastebite-backend/api/responses"
	pkgerrors "github.com/tastebite/tastebite-backend/pkg/errors"
	"github.com/tastebite/tastebite-backend/pkg/logger"
	redisclient "github.com/tastebite/tastebite-backend/pkg/redis"
)

const streamHeartbeat = 25 * time.Second

// OrderEventSource yields the payloads broadcast after each committed order.
// The returned stop function releases the subscription.
type OrderEventSource interface {
	Subscribe(ctx context.Context) (<-chan []byte, func(), error)
}

type redisOrderEvents struct {
	client  *redisclient.Client
	channel string
}

// NewRedisOrderEvents adapts the redis broadcast channel into an event source.
func NewRedisOrderEvents(client *redisclient.Client, channel string) OrderEventSource {
	return &redisOrderEvents{client: client, channel: channel}
}

func (s *redisOrderEvents) Subscribe(ctx context.Context) (<-chan []byte, func(), error) {
	if s.client == nil {
		return nil, nil, fmt.Errorf("redis client unavailable")
	}

	sub, err := s.client.Subscribe(ctx, s.channel)
	if err != nil {
		return nil, nil, err
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		for msg := range sub.Channel() {
			select {
			case out <- []byte(msg.Payload):
			case <-ctx.Done():
				return
			}
		}
	}()

	stop := func() {
		_ = sub.Close()
	}
	return out, stop, nil
}

// OrderStream serves the order broadcast as server-sent events. Delivery is
// best-effort; a dropped subscriber never affects order placement.
func OrderStream(src OrderEventSource, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if src == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order stream unavailable"))
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "streaming unsupported"))
			return
		}

		ctx := r.Context()
		events, stop, err := src.Subscribe(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "subscribe order events"))
			return
		}
		defer stop()

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.WriteHeader(http.StatusOK)
		flusher.Flush()

		heartbeat := time.NewTicker(streamHeartbeat)
		defer heartbeat.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-heartbeat.C:
				fmt.Fprint(w, ": ping\n\n")
				flusher.Flush()
			case payload, open := <-events:
				if !open {
					return
				}
				fmt.Fprintf(w, "event: order_placed\ndata: %s\n\n", payload)
				flusher.Flush()
			}
		}
	}
}
