// Package notify fans a run summary out to the configured notification
// channels. Channels fail independently; a delivery error is logged and
// never affects the run outcome.
package notify

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/kebairia/sqlbackup/internal/config"
	"github.com/kebairia/sqlbackup/internal/logger"
)

// Notifier delivers a plain-text message through one channel.
type Notifier interface {
	Name() string
	Enabled() bool
	Send(ctx context.Context, message string) error
}

// httpClient is shared by the HTTP-based channels.
var httpClient = &http.Client{Timeout: 30 * time.Second}

// Manager holds the channel list and the notifier per channel name.
type Manager struct {
	channels  []string
	notifiers map[string]Notifier
	log       logger.Logger
}

// NewManager wires every supported channel from configuration.
func NewManager(cfg config.NotificationConfig) *Manager {
	return &Manager{
		channels: cfg.Channels,
		notifiers: map[string]Notifier{
			"telegram": NewTelegram(cfg.Telegram),
			"slack":    NewSlack(cfg.Slack),
			"email":    NewEmail(cfg.Email),
			"sms":      NewSMS(cfg.SMS),
			"viber":    NewViber(cfg.Viber),
		},
		log: logger.Global(),
	}
}

// NotifyAll walks the configured channel list and delivers message on
// each enabled channel, logging failures per channel.
func (m *Manager) NotifyAll(ctx context.Context, message string) {
	for _, name := range m.channels {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		n, ok := m.notifiers[name]
		if !ok {
			m.log.Warn("unknown notification channel", "channel", name)
			continue
		}
		if !n.Enabled() {
			continue
		}
		if err := n.Send(ctx, message); err != nil {
			m.log.Error("notification failed", "channel", n.Name(), "error", err.Error())
			continue
		}
		m.log.Info("notification sent", "channel", n.Name())
	}
}
