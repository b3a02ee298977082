// Package cli implements the batchctl command tree.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kbukum/batchkit/config"
)

const annotationSkipConfig = "batchctl/skip-config"

type rootOptions struct {
	configFile string
	envFile    string
	store      string
	debug      bool
}

// NewRootCmd creates the batchctl root command.
func NewRootCmd(ver string) *cobra.Command {
	var opts rootOptions
	a := &app{}

	cmd := &cobra.Command{
		Use:           "batchctl",
		Short:         "Walk sorted sets in batches",
		Long:          "batchctl pages through Redis or sqlite sorted sets window by window and seeds sets for testing.",
		Version:       ver,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[annotationSkipConfig] == "true" {
				return nil
			}
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			*a = *newApp(cfg)
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.configFile, "config", "c", "", "path to config file (default: search ./cmd/batchctl, ./batchctl.yml, ./config.yml)")
	cmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "path to .env file")
	cmd.PersistentFlags().StringVar(&opts.store, "store", "", "store backend: redis or sqlite (overrides config)")
	cmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	cmd.AddCommand(newZsetCmd(a), newSeedCmd(a), newHealthCmd(a), newVersionCmd())
	return cmd
}

func loadConfig(opts rootOptions) (*Config, error) {
	var loaderOpts []config.LoaderOption
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}

	cfg := &Config{}
	if err := config.LoadConfig(serviceName, cfg, loaderOpts...); err != nil {
		return nil, err
	}
	if opts.store != "" {
		cfg.Store = opts.store
	}
	if opts.debug {
		cfg.Debug = true
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
