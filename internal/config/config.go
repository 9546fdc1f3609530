package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// ErrLoadConfig indicates a failure to read or parse the YAML configuration.
var ErrLoadConfig = errors.New("config load failed")

// Config represents the top-level YAML configuration file.
type Config struct {
	Backup       BackupConfig       `mapstructure:"backup"       yaml:"backup"`
	MySQL        MySQLConfig        `mapstructure:"mysql"        yaml:"mysql"`
	Export       ExportConfig       `mapstructure:"export"       yaml:"export"`
	Remote       RemoteConfig       `mapstructure:"remote"       yaml:"remote"`
	Notification NotificationConfig `mapstructure:"notification" yaml:"notification"`
	Vault        VaultConfig        `mapstructure:"vault"        yaml:"vault"`
	Logging      LoggingConfig      `mapstructure:"logging"      yaml:"logging"`
}

// BackupConfig contains global backup options.
type BackupConfig struct {
	Dir           string `mapstructure:"dir"            yaml:"dir"`
	ArchiveFormat string `mapstructure:"archive_format" yaml:"archive_format"`
	// Strict makes the process exit non-zero when any per-database
	// backup fails, even though the run itself completes.
	Strict bool `mapstructure:"strict" yaml:"strict,omitempty"`
}

// MySQLConfig holds connection settings and tool paths for the target server.
type MySQLConfig struct {
	Host             string `mapstructure:"host"              yaml:"host"`
	User             string `mapstructure:"user"              yaml:"user"`
	Password         string `mapstructure:"password"          yaml:"password,omitempty"`
	MySQLPath        string `mapstructure:"mysql_path"        yaml:"mysql_path"`
	MySQLDumpPath    string `mapstructure:"mysqldump_path"    yaml:"mysqldump_path"`
	IgnoredDatabases string `mapstructure:"ignored_databases" yaml:"ignored_databases,omitempty"`
}

// ExportConfig controls optional mysqldump flags.
type ExportConfig struct {
	IncludeRoutines  bool `mapstructure:"include_routines"  yaml:"include_routines"`
	IncludeEvents    bool `mapstructure:"include_events"    yaml:"include_events"`
	ColumnStatistics bool `mapstructure:"column_statistics" yaml:"column_statistics"`
}

// RemoteConfig describes the remote upload target.
type RemoteConfig struct {
	Enabled         bool   `mapstructure:"enabled"          yaml:"enabled"`
	Protocol        string `mapstructure:"protocol"         yaml:"protocol"`
	Host            string `mapstructure:"host"             yaml:"host"`
	Port            int    `mapstructure:"port"             yaml:"port"`
	Username        string `mapstructure:"username"         yaml:"username"`
	Password        string `mapstructure:"password"         yaml:"password,omitempty"`
	KeyFile         string `mapstructure:"key_file"         yaml:"key_file,omitempty"`
	KeyPassphrase   string `mapstructure:"key_passphrase"   yaml:"key_passphrase,omitempty"`
	RemoteDirectory string `mapstructure:"remote_directory" yaml:"remote_directory"`
	UploadSchedule  string `mapstructure:"upload_schedule"  yaml:"upload_schedule"`
}

// NotificationConfig lists active channels and their settings.
type NotificationConfig struct {
	Channels []string       `mapstructure:"channels" yaml:"channels"`
	Telegram TelegramConfig `mapstructure:"telegram" yaml:"telegram"`
	Slack    SlackConfig    `mapstructure:"slack"    yaml:"slack"`
	Email    EmailConfig    `mapstructure:"email"    yaml:"email"`
	SMS      SMSConfig      `mapstructure:"sms"      yaml:"sms"`
	Viber    ViberConfig    `mapstructure:"viber"    yaml:"viber"`
}

// TelegramConfig holds Telegram bot notification settings.
type TelegramConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Token   string `mapstructure:"token"   yaml:"token,omitempty"`
	ChatID  string `mapstructure:"chat_id" yaml:"chat_id,omitempty"`
}

// SlackConfig holds Slack webhook settings.
type SlackConfig struct {
	Enabled    bool   `mapstructure:"enabled"     yaml:"enabled"`
	WebhookURL string `mapstructure:"webhook_url" yaml:"webhook_url,omitempty"`
}

// EmailConfig holds SMTP settings.
type EmailConfig struct {
	Enabled     bool     `mapstructure:"enabled"      yaml:"enabled"`
	SMTPServer  string   `mapstructure:"smtp_server"  yaml:"smtp_server,omitempty"`
	SMTPPort    int      `mapstructure:"smtp_port"    yaml:"smtp_port,omitempty"`
	Username    string   `mapstructure:"username"     yaml:"username,omitempty"`
	Password    string   `mapstructure:"password"     yaml:"password,omitempty"`
	FromAddress string   `mapstructure:"from_address" yaml:"from_address,omitempty"`
	ToAddresses []string `mapstructure:"to_addresses" yaml:"to_addresses,omitempty"`
}

// SMSConfig holds Twilio SMS settings.
type SMSConfig struct {
	Enabled    bool     `mapstructure:"enabled"     yaml:"enabled"`
	AccountSID string   `mapstructure:"account_sid" yaml:"account_sid,omitempty"`
	AuthToken  string   `mapstructure:"auth_token"  yaml:"auth_token,omitempty"`
	FromNumber string   `mapstructure:"from_number" yaml:"from_number,omitempty"`
	ToNumbers  []string `mapstructure:"to_numbers"  yaml:"to_numbers,omitempty"`
}

// ViberConfig holds Viber public-account settings.
type ViberConfig struct {
	Enabled    bool   `mapstructure:"enabled"     yaml:"enabled"`
	AuthToken  string `mapstructure:"auth_token"  yaml:"auth_token,omitempty"`
	ReceiverID string `mapstructure:"receiver_id" yaml:"receiver_id,omitempty"`
	SenderName string `mapstructure:"sender_name" yaml:"sender_name,omitempty"`
}

// VaultConfig holds connection settings for HashiCorp Vault. When enabled,
// the MySQL username and password are read from SecretPath instead of the
// mysql section.
type VaultConfig struct {
	Enabled    bool   `mapstructure:"enabled"     yaml:"enabled"`
	Address    string `mapstructure:"address"     yaml:"address,omitempty"`
	Token      string `mapstructure:"token"       yaml:"token,omitempty"`
	RoleID     string `mapstructure:"role_id"     yaml:"role_id,omitempty"`
	RoleName   string `mapstructure:"role_name"   yaml:"role_name,omitempty"`
	SecretPath string `mapstructure:"secret_path" yaml:"secret_path,omitempty"`
}

// LoggingConfig selects log level and output encoding.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level,omitempty"`
	Format string `mapstructure:"format" yaml:"format,omitempty"`
}

// Load reads the configuration from the given YAML file using Viper
// and unmarshals into the Config struct.
func (c *Config) Load(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.AutomaticEnv()

	v.SetDefault("backup.archive_format", "none")
	v.SetDefault("mysql.mysql_path", "mysql")
	v.SetDefault("mysql.mysqldump_path", "mysqldump")
	v.SetDefault("remote.protocol", "sftp")
	v.SetDefault("remote.port", 22)
	v.SetDefault("remote.remote_directory", "/")
	v.SetDefault("remote.upload_schedule", "daily")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("%w: read config %s: %v", ErrLoadConfig, path, err)
	}

	if err := v.UnmarshalExact(c); err != nil {
		return fmt.Errorf("%w: unmarshal config: %v", ErrLoadConfig, err)
	}

	return nil
}

// IgnoredPatterns returns the cleaned exclusion pattern list from the
// comma-separated mysql.ignored_databases value.
func (c *Config) IgnoredPatterns() []string {
	var patterns []string
	for _, p := range strings.Split(c.MySQL.IgnoredDatabases, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			patterns = append(patterns, p)
		}
	}
	return patterns
}
