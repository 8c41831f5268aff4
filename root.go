package main

import (
	"errors"
	"fmt"

	"github.com/atomicstack/termslots/internal/app"
	"github.com/atomicstack/termslots/internal/config"
	"github.com/atomicstack/termslots/internal/logging"
	"github.com/atomicstack/termslots/internal/logging/events"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// errConfig marks failures to load or validate settings.
var errConfig = errors.New("configuration error")

func newRootCmd(run func(app.Config) error, args []string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "termslots",
		Short:         "Run up to nine terminal sessions in one terminal",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(viper.New(), cmd.Flags(), args)
			if err != nil {
				return fmt.Errorf("%w: %v", errConfig, err)
			}
			if err := config.Validate(cfg); err != nil {
				return fmt.Errorf("%w: %v", errConfig, err)
			}
			logging.Configure(cfg.Logging.FilePath)
			logging.SetTraceEnabled(cfg.Logging.Trace)
			defer logging.Close()

			traceStartup(cfg)
			err = run(cfg.App)
			events.App.Stop(err)
			if err != nil {
				logging.Error(err)
			}
			return err
		},
	}
	config.RegisterFlags(cmd.Flags())
	cmd.SetArgs(args)
	return cmd
}

func exitCode(err error) int {
	if errors.Is(err, errConfig) {
		return 2
	}
	return 1
}
