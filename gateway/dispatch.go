package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

type MessageHandler func(ctx context.Context, evt *MessageEvent) error
type JoinHandler func(ctx context.Context, evt *JoinEvent) error

type registeredMessageHandler struct {
	name string
	fn   MessageHandler
}

type registeredJoinHandler struct {
	name string
	fn   JoinHandler
}

// Dispatcher fans incoming platform events out to every registered handler
// for that event type, in registration order. Registering a second handler
// for a type never replaces the first; each event type holds an ordered
// collection of handlers and all of them observe every event.
//
// Handlers are fault-isolated from each other: an error (or panic) in one
// handler is logged and counted, and the remaining handlers still run. The
// joined error is returned to the caller for reporting only; the event is
// not retried.
//
// Registration is expected to complete before dispatch begins; OnMessage and
// OnJoin are not safe to call concurrently with Dispatch*.
type Dispatcher struct {
	logger          *slog.Logger
	messageHandlers []registeredMessageHandler
	joinHandlers    []registeredJoinHandler
}

func NewDispatcher(logger *slog.Logger) *Dispatcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Dispatcher{logger: logger}
}

// OnMessage appends a handler for message events. The name shows up in logs
// and metrics.
func (d *Dispatcher) OnMessage(name string, h MessageHandler) {
	d.messageHandlers = append(d.messageHandlers, registeredMessageHandler{name: name, fn: h})
}

// OnJoin appends a handler for member-join events.
func (d *Dispatcher) OnJoin(name string, h JoinHandler) {
	d.joinHandlers = append(d.joinHandlers, registeredJoinHandler{name: name, fn: h})
}

// DispatchMessage runs every registered message handler against evt.
// Messages authored by bots (including this one) are dropped before any
// handler runs.
func (d *Dispatcher) DispatchMessage(ctx context.Context, evt *MessageEvent) error {
	if evt.AuthorIsBot {
		return nil
	}
	start := time.Now()
	defer func() {
		eventProcessDuration.WithLabelValues("message").Observe(time.Since(start).Seconds())
	}()
	eventProcessCount.WithLabelValues("message").Inc()

	var errs []error
	for _, reg := range d.messageHandlers {
		if err := d.safeRun(reg.name, func() error { return reg.fn(ctx, evt) }); err != nil {
			handlerErrorCount.WithLabelValues("message", reg.name).Inc()
			d.logger.Error("message handler failed", "handler", reg.name, "channel", evt.ChannelID, "author", evt.AuthorID, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", reg.name, err))
		}
	}
	return errors.Join(errs...)
}

// DispatchJoin runs every registered join handler against evt.
func (d *Dispatcher) DispatchJoin(ctx context.Context, evt *JoinEvent) error {
	start := time.Now()
	defer func() {
		eventProcessDuration.WithLabelValues("join").Observe(time.Since(start).Seconds())
	}()
	eventProcessCount.WithLabelValues("join").Inc()

	var errs []error
	for _, reg := range d.joinHandlers {
		if err := d.safeRun(reg.name, func() error { return reg.fn(ctx, evt) }); err != nil {
			handlerErrorCount.WithLabelValues("join", reg.name).Inc()
			d.logger.Error("join handler failed", "handler", reg.name, "guild", evt.GuildID, "user", evt.Member.UserID, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", reg.name, err))
		}
	}
	return errors.Join(errs...)
}

// similar to an HTTP server, we want to recover any panics from handler execution
func (d *Dispatcher) safeRun(name string, fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panic: %v", r)
		}
	}()
	return fn()
}
