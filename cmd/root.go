package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kebairia/sqlbackup/internal/config"
	"github.com/kebairia/sqlbackup/internal/logger"
	"github.com/kebairia/sqlbackup/internal/vault"
)

var (
	// configFile is the path to the YAML configuration.
	configFile string
	// strict makes per-database failures turn into a non-zero exit.
	strict bool

	rootCmd = &cobra.Command{
		Use:   "sqlbackup",
		Short: "Scheduled backups for every database on a MySQL server",
		Long: `sqlbackup dumps every database visible to the configured
credentials, archives each dump, optionally uploads the results to a
remote host on a schedule, and reports the outcome through the
configured notification channels.`,
		SilenceUsage: true,
	}
)

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().
		StringVarP(&configFile, "config", "c", "./config.yaml", "path to YAML config file")
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(backupCmd)
	rootCmd.AddCommand(uploadCmd)
	rootCmd.AddCommand(notifyCmd)
	rootCmd.AddCommand(validateCmd)
}

// setup loads and validates the configuration, initializes logging from
// it, and resolves Vault-sourced MySQL credentials when enabled. Every
// subcommand that touches the server goes through here.
func setup(ctx context.Context) (config.Config, error) {
	var cfg config.Config
	if err := cfg.Load(configFile); err != nil {
		return cfg, err
	}

	log, err := logger.Init(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return cfg, fmt.Errorf("logger init: %w", err)
	}

	warnings, err := cfg.Validate()
	for _, w := range warnings {
		log.Warn(w)
	}
	if err != nil {
		return cfg, err
	}

	if cfg.Vault.Enabled {
		if err := resolveVaultCredentials(ctx, &cfg); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// resolveVaultCredentials overrides the MySQL user and password with the
// secrets stored in Vault.
func resolveVaultCredentials(ctx context.Context, cfg *config.Config) error {
	opts := []vault.Option{
		vault.WithAddress(cfg.Vault.Address),
	}
	if cfg.Vault.Token != "" {
		opts = append(opts, vault.WithToken(cfg.Vault.Token))
	}
	if cfg.Vault.RoleID != "" && cfg.Vault.RoleName != "" {
		opts = append(opts, vault.WithAppRole(cfg.Vault.RoleID, cfg.Vault.RoleName))
	}

	client, err := vault.NewClient(ctx, opts...)
	if err != nil {
		return fmt.Errorf("vault client init: %w", err)
	}
	creds, err := client.GetCredentials(ctx, cfg.Vault.SecretPath)
	if err != nil {
		return fmt.Errorf("vault read: %w", err)
	}
	cfg.MySQL.User = creds.Username
	cfg.MySQL.Password = creds.Password
	return nil
}
