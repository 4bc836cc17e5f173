// Package notify polls the service for notifications.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tamarindhq/tamarind/internal/domain"
)

// Lister fetches notifications. *api.Client satisfies it.
type Lister interface {
	ListNotifications(ctx context.Context) ([]domain.Notification, error)
}

// EventMsg is sent when new notifications arrive since the last poll.
type EventMsg struct {
	New    []domain.Notification
	Unread int
}

// Poller periodically fetches notifications and reports ones it has not
// seen before.
type Poller struct {
	mu     sync.RWMutex
	lister Lister
	logger *slog.Logger
	seen   map[string]bool
	unread int
	last   time.Time
}

// NewPoller creates a poller over the given lister.
func NewPoller(lister Lister, logger *slog.Logger) *Poller {
	return &Poller{
		lister: lister,
		logger: logger,
		seen:   make(map[string]bool),
	}
}

// Unread returns the unread count from the most recent poll.
func (p *Poller) Unread() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.unread
}

// LastPoll returns when the poller last reached the service.
func (p *Poller) LastPoll() time.Time {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

// Check fetches notifications once and returns the ones not seen on a
// previous call. Poll failures are swallowed after logging; the next
// tick retries anyway.
func (p *Poller) Check(ctx context.Context) []domain.Notification {
	notifications, err := p.lister.ListNotifications(ctx)
	if err != nil {
		p.logger.Debug("notification poll failed", "error", err)
		return nil
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	var fresh []domain.Notification
	unread := 0
	for _, n := range notifications {
		if !n.Read {
			unread++
		}
		if !p.seen[n.ID] {
			p.seen[n.ID] = true
			fresh = append(fresh, n)
		}
	}
	p.unread = unread
	p.last = time.Now()
	return fresh
}

// Prime marks everything currently on the server as seen without
// reporting it, so startup does not replay the whole history as new.
func (p *Poller) Prime(ctx context.Context) {
	p.Check(ctx)
}

// StartMonitoring polls at the given interval until ctx is cancelled,
// sending an EventMsg to the program whenever new notifications appear.
func (p *Poller) StartMonitoring(ctx context.Context, program *tea.Program, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case <-ticker.C:
			if fresh := p.Check(ctx); len(fresh) > 0 {
				program.Send(EventMsg{New: fresh, Unread: p.Unread()})
			}
		}
	}
}
