package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/ragso"
	"github.com/aretw0/ragso/internal/logging"
	"github.com/aretw0/ragso/internal/presentation/markdown"
	"github.com/aretw0/ragso/pkg/domain"
)

// Runner handles the read-dispatch-print loop of one conversation.
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on stdio.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	// Interrupts cancels the trigger in flight when it fires. An interrupt
	// at the prompt ends the loop.
	Interrupts InterruptSource

	conv      *ragso.Conversation
	engine    *ragso.Engine
	showQuick bool
}

// InterruptSource is the user's interrupt key as the loop sees it.
// *SignalManager is the terminal implementation.
type InterruptSource interface {
	// Context is cancelled when an interrupt arrives.
	Context() context.Context
	// Reset re-arms the source after an interrupt was handled.
	Reset()
	// CheckRace waits briefly for an interrupt that may trail an input error.
	CheckRace()
}

var _ InterruptSource = (*SignalManager)(nil)

// NewRunner creates a Runner for conv.
func NewRunner(engine *ragso.Engine, conv *ragso.Conversation, opts ...Option) *Runner {
	r := &Runner{
		engine:    engine,
		conv:      conv,
		showQuick: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(nil, nil)
	}
	if r.Logger == nil {
		r.Logger = logging.NewNop()
	}
	return r
}

// Run loops until /quit, end of input, an interrupt at the prompt, or ctx
// cancellation. Only ctx cancellation and IO failures return an error.
func (r *Runner) Run(ctx context.Context) error {
	if r.showQuick && len(r.conv.Turns()) == 0 {
		r.help(ctx)
	}

	for {
		line, err := r.input(ctx)
		if err != nil {
			if r.interrupted(ctx) {
				r.Logger.Debug("interrupted at prompt", "session", r.conv.ID())
				return nil
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if line == "" {
			continue
		}

		cmd, err := ParseCommand(line)
		if err != nil {
			if err := r.Handler.SystemOutput(ctx, err.Error()); err != nil {
				return err
			}
			continue
		}

		switch cmd.Kind {
		case CmdQuit:
			return nil
		case CmdHelp:
			r.help(ctx)
			continue
		}

		turns, err := r.step(ctx, cmd)
		if errors.Is(err, ragso.ErrNotPersisted) {
			r.Logger.Warn("turns not saved", "session", r.conv.ID(), "err", err)
			if err := r.Handler.Output(ctx, turns); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
			if err := r.Handler.SystemOutput(ctx, describe(err)); err != nil {
				return err
			}
			continue
		}
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if r.Interrupts != nil && r.Interrupts.Context().Err() != nil {
				r.Interrupts.Reset()
			}
			r.Logger.Debug("trigger rejected", "session", r.conv.ID(), "command", cmd.Kind, "err", err)
			if err := r.Handler.SystemOutput(ctx, describe(err)); err != nil {
				return err
			}
			continue
		}
		if err := r.Handler.Output(ctx, turns); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}

// interruptible derives a context that the interrupt source also cancels.
func (r *Runner) interruptible(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(ctx)
	if r.Interrupts == nil {
		return ctx, cancel
	}
	stop := context.AfterFunc(r.Interrupts.Context(), cancel)
	return ctx, func() {
		stop()
		cancel()
	}
}

func (r *Runner) input(ctx context.Context) (string, error) {
	inputCtx, cancel := r.interruptible(ctx)
	defer cancel()
	return r.Handler.Input(inputCtx)
}

// interrupted reports whether an input error came from the interrupt key
// rather than from ctx or the input stream.
func (r *Runner) interrupted(ctx context.Context) bool {
	if r.Interrupts == nil || ctx.Err() != nil {
		return false
	}
	r.Interrupts.CheckRace()
	return r.Interrupts.Context().Err() != nil
}

// step dispatches one command under a context the interrupt source can cancel.
func (r *Runner) step(ctx context.Context, cmd Command) ([]domain.Turn, error) {
	stepCtx, cancel := r.interruptible(ctx)
	defer cancel()

	switch cmd.Kind {
	case CmdUtterance:
		return r.conv.SubmitUtterance(stepCtx, cmd.Text)
	case CmdQuick:
		return r.conv.SelectQuickReplyAt(stepCtx, cmd.Index)
	case CmdSeat:
		return r.conv.SelectSeat(stepCtx, cmd.ID)
	case CmdBook:
		return r.conv.SelectBiblio(stepCtx, cmd.ID)
	case CmdItem:
		return r.conv.SelectItem(stepCtx, cmd.ID)
	case CmdHold:
		return r.conv.RequestHold(stepCtx, cmd.ID)
	case CmdBuy:
		return r.conv.RequestPurchase(stepCtx, cmd.ID)
	case CmdYes, CmdNo:
		turnID, ok := OpenPrompt(r.conv.Turns())
		if !ok {
			return nil, errNoOpenPrompt
		}
		return r.conv.Confirm(stepCtx, turnID, cmd.Kind == CmdYes)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, cmd.Kind)
}

var errNoOpenPrompt = errors.New("nothing to confirm")

// OpenPrompt returns the id of the latest unanswered confirmation prompt.
func OpenPrompt(turns []domain.Turn) (string, bool) {
	for i := len(turns) - 1; i >= 0; i-- {
		if turns[i].IsOpenPrompt() {
			return turns[i].ID, true
		}
	}
	return "", false
}

func (r *Runner) help(ctx context.Context) {
	md := markdown.QuickReplies(r.engine.QuickReplies())
	if th, ok := r.Handler.(*TextHandler); ok {
		_ = th.Markdown(md)
		return
	}
	_ = r.Handler.SystemOutput(ctx, strings.TrimSpace(md))
}

func describe(err error) string {
	switch {
	case errors.Is(err, domain.ErrInvalidSelection):
		return "선택할 수 없는 항목입니다: " + err.Error()
	case errors.Is(err, ragso.ErrNotPersisted):
		return "대화 기록을 저장하지 못했습니다. 같은 요청을 다시 보내지 마세요."
	case errors.Is(err, domain.ErrTurnPending):
		return "이전 요청을 처리하는 중입니다."
	case errors.Is(err, context.Canceled):
		return "요청이 취소되었습니다."
	}
	return err.Error()
}
