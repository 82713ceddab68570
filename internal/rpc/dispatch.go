package rpc

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"telemetryd/internal/protocol"
)

const (
	subscribePrefix   = "subscribe_"
	unsubscribePrefix = "unsubscribe_"
)

// Subscriptions is the topic membership surface the dispatcher mutates on
// behalf of a session. Implemented by the session registry.
type Subscriptions interface {
	Subscribe(topic, sessionID string)
	Unsubscribe(topic, sessionID string) bool
}

// Dispatcher routes decoded envelopes to handlers and produces serialized
// responses. One Dispatch call handles one wire message, batch or single,
// processing elements strictly in order on the caller's goroutine so
// per-session FIFO ordering is preserved.
type Dispatcher struct {
	registry *Registry
	subs     Subscriptions
	logger   *slog.Logger
}

// NewDispatcher creates a dispatcher over a populated registry.
func NewDispatcher(registry *Registry, subs Subscriptions, logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{
		registry: registry,
		subs:     subs,
		logger:   logger,
	}
}

// Dispatch processes one raw inbound message for a session and returns the
// serialized response, or nil when nothing is to be sent (notifications,
// all-notification batches).
func (d *Dispatcher) Dispatch(ctx context.Context, sessionID string, raw []byte) []byte {
	msgs, batch := protocol.Decode(raw)

	resps := make([]*protocol.Response, 0, len(msgs))
	for _, msg := range msgs {
		if resp := d.handleOne(ctx, sessionID, msg); resp != nil {
			resps = append(resps, resp)
		}
	}

	out, err := protocol.EncodeResponses(resps, batch)
	if err != nil {
		d.logger.Error("failed to encode responses", "session", sessionID, "error", err)
		return nil
	}
	return out
}

// handleOne processes a single decoded element. A nil return means no
// response (notification, or a dropped notification fault).
func (d *Dispatcher) handleOne(ctx context.Context, sessionID string, msg protocol.Incoming) *protocol.Response {
	if msg.Err != nil {
		return protocol.NewError(msg.ErrID, msg.Err)
	}
	req := msg.Req

	if strings.HasPrefix(req.Method, subscribePrefix) {
		return d.handleSubscribe(sessionID, req, strings.TrimPrefix(req.Method, subscribePrefix))
	}
	if strings.HasPrefix(req.Method, unsubscribePrefix) {
		return d.handleUnsubscribe(sessionID, req, strings.TrimPrefix(req.Method, unsubscribePrefix))
	}

	method, ok := d.registry.Lookup(req.Method)
	if !ok {
		if req.IsNotification() {
			d.logger.Debug("dropping notification for unknown method", "method", req.Method)
			return nil
		}
		return protocol.NewError(req.ID, protocol.NewMethodNotFound())
	}

	args, err := BindArgs(req.Params, method.Params)
	if err != nil {
		return d.faultResponse(req, err)
	}

	result, err := d.invoke(ctx, method, args, req.Method)
	if err != nil {
		return d.faultResponse(req, err)
	}

	if req.IsNotification() {
		return nil
	}
	return protocol.NewResult(req.ID, result)
}

// invoke calls the handler, converting panics into internal errors so a
// handler fault never tears down the session loop.
func (d *Dispatcher) invoke(ctx context.Context, method Method, args Args, name string) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("handler panic", "method", name, "panic", r)
			err = protocol.NewInternalError("handler fault")
		}
	}()
	return method.Handler(ctx, args)
}

// faultResponse maps a handler/binding error onto a response, or drops it
// for notifications.
func (d *Dispatcher) faultResponse(req *protocol.Request, err error) *protocol.Response {
	if req.IsNotification() {
		d.logger.Debug("dropping notification fault", "method", req.Method, "error", err)
		return nil
	}
	var perr *protocol.Error
	if errors.As(err, &perr) {
		return protocol.NewError(req.ID, perr)
	}
	return protocol.NewError(req.ID, protocol.NewInternalError(err.Error()))
}

func (d *Dispatcher) handleSubscribe(sessionID string, req *protocol.Request, topic string) *protocol.Response {
	if !d.registry.HasTopic(topic) {
		return d.subscriptionError(req, protocol.NewMethodNotFound())
	}
	if sessionID == "" {
		// Live connections always carry a session id; this guards the
		// invariant rather than an expected path.
		return d.subscriptionError(req, protocol.NewInvalidRequest())
	}

	d.subs.Subscribe(topic, sessionID)
	d.logger.Debug("subscribed", "session", sessionID, "topic", topic)

	if req.IsNotification() {
		return nil
	}
	return protocol.NewResult(req.ID, map[string]any{
		"subscribed": true,
		"method":     topic,
	})
}

func (d *Dispatcher) handleUnsubscribe(sessionID string, req *protocol.Request, topic string) *protocol.Response {
	if !d.registry.HasTopic(topic) {
		return d.subscriptionError(req, protocol.NewMethodNotFound())
	}

	removed := false
	if sessionID != "" {
		removed = d.subs.Unsubscribe(topic, sessionID)
	}
	d.logger.Debug("unsubscribed", "session", sessionID, "topic", topic, "removed", removed)

	if req.IsNotification() {
		return nil
	}
	return protocol.NewResult(req.ID, map[string]any{
		"unsubscribed": removed,
		"method":       topic,
	})
}

func (d *Dispatcher) subscriptionError(req *protocol.Request, perr *protocol.Error) *protocol.Response {
	if req.IsNotification() {
		return nil
	}
	return protocol.NewError(req.ID, perr)
}
