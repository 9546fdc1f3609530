package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/kebairia/sqlbackup/internal/config"
)

// Slack posts messages to an incoming-webhook URL.
type Slack struct {
	cfg config.SlackConfig
}

// NewSlack builds the Slack notifier.
func NewSlack(cfg config.SlackConfig) *Slack {
	return &Slack{cfg: cfg}
}

func (s *Slack) Name() string { return "slack" }

func (s *Slack) Enabled() bool {
	return s.cfg.Enabled && s.cfg.WebhookURL != ""
}

func (s *Slack) Send(ctx context.Context, message string) error {
	payload, err := json.Marshal(map[string]string{"text": message})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.WebhookURL,
		bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("slack webhook returned %s: %s", resp.Status, body)
	}
	return nil
}
