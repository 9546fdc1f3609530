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

const viberAPIBase = "https://chatapi.viber.com"

// Viber sends messages through the Viber public-account chat API.
type Viber struct {
	cfg     config.ViberConfig
	baseURL string
}

// NewViber builds the Viber notifier.
func NewViber(cfg config.ViberConfig) *Viber {
	return &Viber{cfg: cfg, baseURL: viberAPIBase}
}

func (v *Viber) Name() string { return "viber" }

func (v *Viber) Enabled() bool {
	return v.cfg.Enabled && v.cfg.AuthToken != "" && v.cfg.ReceiverID != ""
}

func (v *Viber) Send(ctx context.Context, message string) error {
	sender := v.cfg.SenderName
	if sender == "" {
		sender = "BackupBot"
	}

	payload, err := json.Marshal(map[string]any{
		"receiver":        v.cfg.ReceiverID,
		"min_api_version": 2,
		"sender":          map[string]string{"name": sender},
		"type":            "text",
		"text":            message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		v.baseURL+"/pa/send_message", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Viber-Auth-Token", v.cfg.AuthToken)

	resp, err := httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("viber API returned %s: %s", resp.Status, body)
	}
	return nil
}
