package notify

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/kebairia/sqlbackup/internal/config"
)

const twilioAPIBase = "https://api.twilio.com"

// SMS sends text messages through the Twilio Messages API, one request
// per recipient.
type SMS struct {
	cfg     config.SMSConfig
	baseURL string
}

// NewSMS builds the SMS notifier.
func NewSMS(cfg config.SMSConfig) *SMS {
	return &SMS{cfg: cfg, baseURL: twilioAPIBase}
}

func (s *SMS) Name() string { return "sms" }

func (s *SMS) Enabled() bool {
	return s.cfg.Enabled && s.cfg.AccountSID != "" && s.cfg.AuthToken != "" && len(s.cfg.ToNumbers) > 0
}

func (s *SMS) Send(ctx context.Context, message string) error {
	endpoint := fmt.Sprintf("%s/2010-04-01/Accounts/%s/Messages.json", s.baseURL, s.cfg.AccountSID)

	for _, number := range s.cfg.ToNumbers {
		form := url.Values{
			"To":   {number},
			"From": {s.cfg.FromNumber},
			"Body": {message},
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
			strings.NewReader(form.Encode()))
		if err != nil {
			return err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.SetBasicAuth(s.cfg.AccountSID, s.cfg.AuthToken)

		resp, err := httpClient.Do(req)
		if err != nil {
			return err
		}
		resp.Body.Close()
		if resp.StatusCode >= 300 {
			return fmt.Errorf("twilio API returned %s for %s", resp.Status, number)
		}
	}
	return nil
}
