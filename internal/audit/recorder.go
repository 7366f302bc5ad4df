package audit

import (
	"context"
	"log/slog"

	"neighnet/pkg/requestcontext"
)

const defaultInboxSize = 256

// Recorder accepts events from request handlers and drains them to the sink
// on a background worker, so a slow broker never stalls a scan. When the
// inbox is full the event is dropped and logged; audit here is best effort.
type Recorder struct {
	sink   Sink
	inbox  chan Event
	logger *slog.Logger
}

func NewRecorder(sink Sink, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{
		sink:   sink,
		inbox:  make(chan Event, defaultInboxSize),
		logger: logger,
	}
}

// Record enqueues one event. The actor and timestamp come from the request
// context when present.
func (r *Recorder) Record(ctx context.Context, action string, attrs map[string]string) {
	event := Event{
		Timestamp: requestcontext.Now(ctx),
		Action:    action,
		Attrs:     attrs,
	}
	if actor := requestcontext.UserID(ctx); !actor.IsZero() {
		event.ActorID = actor.String()
	}

	select {
	case r.inbox <- event:
	default:
		r.logger.WarnContext(ctx, "audit inbox full, dropping event",
			slog.String("action", action))
	}
}

// Run drains the inbox until ctx is cancelled, then flushes what is queued.
func (r *Recorder) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			r.flush()
			return ctx.Err()
		case event := <-r.inbox:
			r.write(event)
		}
	}
}

func (r *Recorder) flush() {
	for {
		select {
		case event := <-r.inbox:
			r.write(event)
		default:
			return
		}
	}
}

func (r *Recorder) write(event Event) {
	// A fresh context: the request that produced the event is long gone.
	if err := r.sink.Write(context.Background(), event); err != nil {
		r.logger.Error("failed to write audit event",
			slog.String("action", event.Action),
			slog.String("error", err.Error()))
	}
}
