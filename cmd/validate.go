package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kebairia/sqlbackup/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file and report problems",
	RunE: func(cmd *cobra.Command, args []string) error {
		var cfg config.Config
		if err := cfg.Load(configFile); err != nil {
			return err
		}

		warnings, err := cfg.Validate()
		for _, w := range warnings {
			fmt.Printf("warning: %s\n", w)
		}
		if err != nil {
			return err
		}

		fmt.Printf("%s: configuration is valid (%d warnings)\n", configFile, len(warnings))
		return nil
	},
}
