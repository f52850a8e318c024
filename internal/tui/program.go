package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/diogo/codexside/internal/config"
	"github.com/diogo/codexside/internal/orchestrator"
)

// streamFPS caps how often orchestrator events reach the program.
const streamFPS = 30

// sender is the part of tea.Program the forwarder needs.
type sender interface {
	Send(msg tea.Msg)
}

// forwarder moves orchestrator events into the Bubble Tea loop.
//
// Listener calls never block: events coalesce in a one-slot buffer and a
// pump goroutine delivers them at most streamFPS times a second. The model
// re-reads the store on every event, so a replaced event is covered by the
// one that replaced it.
type forwarder struct {
	pending chan orchestrator.Event
	limiter *rate.Limiter
}

func newForwarder(fps int) *forwarder {
	return &forwarder{
		pending: make(chan orchestrator.Event, 1),
		limiter: rate.NewLimiter(rate.Every(time.Second/time.Duration(fps)), 1),
	}
}

// forward is the orchestrator listener. The newest event replaces one that
// is still waiting.
func (f *forwarder) forward(ev orchestrator.Event) {
	for {
		select {
		case f.pending <- ev:
			return
		default:
		}
		select {
		case <-f.pending:
		default:
		}
	}
}

// pump delivers events to s until ctx is done.
func (f *forwarder) pump(ctx context.Context, s sender) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-f.pending:
			if err := f.limiter.Wait(ctx); err != nil {
				return
			}
			s.Send(eventMsg(ev))
		}
	}
}

// RunChat starts the chat TUI and blocks until the user quits.
func RunChat(ctx context.Context, src config.Source, ws Workspace, log zerolog.Logger) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	fwd := newForwarder(streamFPS)
	orch := orchestrator.New(src, ws,
		orchestrator.WithListener(fwd.forward),
		orchestrator.WithLogger(log),
	)

	m := NewChatModel(ctx, orch, ws, log)
	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	go fwd.pump(ctx, p)

	if n, ok := src.(config.Notifier); ok {
		n.OnChange(func(config.Settings) { p.Send(settingsChangedMsg{}) })
	}

	log.Info().Str("vault", ws.VaultRoot()).Msg("chat started")
	_, err := p.Run()
	orch.Cancel()
	log.Info().Msg("chat closed")
	return err
}
