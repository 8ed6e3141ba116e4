package runner

import (
	"context"

	"github.com/aretw0/ragso/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
type IOHandler interface {
	// Output presents turns appended by the last trigger.
	Output(ctx context.Context, turns []domain.Turn) error

	// Input reads one line from the user.
	Input(ctx context.Context) (string, error)

	// SystemOutput reports something that is not part of the conversation,
	// such as a rejected command.
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer is a function that transforms the content before outputting it.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)
