package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrValidateConfig indicates that the loaded configuration is invalid.
var ErrValidateConfig = errors.New("configuration validation failed")

var knownFormats = map[string]bool{
	"none": true, "gz": true, "xz": true, "tar.xz": true, "zip": true, "rar": true,
}

var knownProtocols = map[string]bool{
	"sftp": true, "ftp": true, "scp": true,
}

var knownChannels = map[string]bool{
	"telegram": true, "slack": true, "email": true, "sms": true, "viber": true,
}

// Validate checks the loaded configuration and returns non-fatal warnings
// plus an error wrapping ErrValidateConfig when any hard requirement is
// missing. Fatal checks mirror what the run would otherwise trip over at
// startup; warnings cover settings that degrade silently.
func (c *Config) Validate() (warnings []string, err error) {
	var problems []string

	if c.Backup.Dir == "" {
		problems = append(problems, "backup.dir is required")
	}
	if !knownFormats[strings.ToLower(strings.TrimSpace(c.Backup.ArchiveFormat))] {
		warnings = append(warnings, fmt.Sprintf(
			"backup.archive_format %q is not recognized; backups will be stored uncompressed", c.Backup.ArchiveFormat))
	}

	if c.MySQL.Host == "" {
		problems = append(problems, "mysql.host is required")
	}
	if !c.Vault.Enabled && c.MySQL.User == "" {
		problems = append(problems, "mysql.user is required unless vault is enabled")
	}
	if c.Vault.Enabled {
		if c.Vault.SecretPath == "" {
			problems = append(problems, "vault.secret_path is required when vault is enabled")
		}
		if c.Vault.Token == "" && (c.Vault.RoleID == "" || c.Vault.RoleName == "") {
			problems = append(problems, "vault needs either a token or role_id plus role_name")
		}
	}

	if c.Remote.Enabled {
		if !knownProtocols[strings.ToLower(c.Remote.Protocol)] {
			problems = append(problems, fmt.Sprintf("remote.protocol %q is not one of sftp, ftp, scp", c.Remote.Protocol))
		}
		if c.Remote.Host == "" {
			problems = append(problems, "remote.host is required when remote is enabled")
		}
		if c.Remote.Username == "" {
			problems = append(problems, "remote.username is required when remote is enabled")
		}
		if strings.ToLower(c.Remote.Protocol) == "sftp" && c.Remote.Password == "" && c.Remote.KeyFile == "" {
			warnings = append(warnings, "remote sftp has neither password nor key_file configured")
		}
	}

	for _, ch := range c.Notification.Channels {
		name := strings.ToLower(strings.TrimSpace(ch))
		if !knownChannels[name] {
			warnings = append(warnings, fmt.Sprintf("unknown notification channel %q", ch))
			continue
		}
		warnings = append(warnings, c.checkChannel(name)...)
	}

	if len(problems) > 0 {
		return warnings, fmt.Errorf("%w: %s", ErrValidateConfig, strings.Join(problems, "; "))
	}
	return warnings, nil
}

// checkChannel reports incomplete settings for an enabled channel.
func (c *Config) checkChannel(name string) []string {
	var w []string
	n := c.Notification
	switch name {
	case "telegram":
		if n.Telegram.Enabled && (n.Telegram.Token == "" || n.Telegram.ChatID == "") {
			w = append(w, "telegram is enabled but token or chat_id is missing")
		}
	case "slack":
		if n.Slack.Enabled && n.Slack.WebhookURL == "" {
			w = append(w, "slack is enabled but webhook_url is missing")
		}
	case "email":
		if n.Email.Enabled && (n.Email.SMTPServer == "" || len(n.Email.ToAddresses) == 0) {
			w = append(w, "email is enabled but smtp_server or to_addresses is missing")
		}
	case "sms":
		if n.SMS.Enabled && (n.SMS.AccountSID == "" || n.SMS.AuthToken == "" || len(n.SMS.ToNumbers) == 0) {
			w = append(w, "sms is enabled but account_sid, auth_token or to_numbers is missing")
		}
	case "viber":
		if n.Viber.Enabled && (n.Viber.AuthToken == "" || n.Viber.ReceiverID == "") {
			w = append(w, "viber is enabled but auth_token or receiver_id is missing")
		}
	}
	return w
}
