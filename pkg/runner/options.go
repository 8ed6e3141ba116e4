package runner

import (
	"log/slog"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithQuickRepliesOnStart shows the quick-reply menu before the first prompt
// when the conversation is empty.
func WithQuickRepliesOnStart(show bool) Option {
	return func(r *Runner) {
		r.showQuick = show
	}
}

// WithInterruptSource lets an interrupt cancel the trigger in flight, e.g. a
// thinking delay, without leaving the loop.
func WithInterruptSource(src InterruptSource) Option {
	return func(r *Runner) {
		r.Interrupts = src
	}
}
