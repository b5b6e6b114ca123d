// Package cmd contains the paddock command line interface.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/racetrack-labs/paddock"
	racing "github.com/racetrack-labs/paddock/contexts/racing/init"
)

const shutdownTimeout = 10 * time.Second

// NewRootCommand returns the paddock command with all its sub commands.
func NewRootCommand() *cobra.Command {
	var configFile string

	loadConfig := func() (*paddock.Config, error) {
		return LoadConfig(configFile)
	}

	root := &cobra.Command{
		Use:           "paddock",
		Short:         "Manage racing data: countries, teams, championships, speedways, pilots, and results",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: ./paddock.yaml, if present)")

	root.AddCommand(
		Serve(loadConfig),
		Migrate(loadConfig),
		Version("paddock"),
	)
	root.AddCommand(racing.Commands(func(ctx context.Context) (*paddock.Container, error) {
		conf, err := loadConfig()
		if err != nil {
			return nil, err
		}

		return paddock.InitialiseDefaultDependencies(ctx, conf, racing.Migrations())
	})...)

	return root
}

// LoadConfig reads the defaults, the config file, and the PADDOCK_ environment variables, in that order.
// Without a file name ./paddock.yaml is read, if it exists.
func LoadConfig(file string) (*paddock.Config, error) {
	vip := paddock.DefaultViper()

	if file != "" {
		vip.SetConfigFile(file)
	} else {
		vip.SetConfigName("paddock")
		vip.AddConfigPath(".")
	}

	if err := vip.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("could not read config: %w", err)
		}
	}

	conf := &paddock.Config{}
	if err := vip.Unmarshal(conf); err != nil {
		return nil, err //nolint:wrapcheck // already has the context
	}

	return conf, nil
}

// Serve returns the `serve` command, which runs the api until the process receives SIGINT or SIGTERM.
func Serve(loadConfig func() (*paddock.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:                   "serve",
		Short:                 "Serve the racing api",
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			dc, err := paddock.InitialiseDefaultDependencies(ctx, conf, racing.Migrations())
			if err != nil {
				return fmt.Errorf("could not initialise dependencies: %w", err)
			}

			rc, err := racing.NewRacingContext(ctx, dc)
			if err != nil {
				return errors.Join(err, dc.Shutdown(context.WithoutCancel(ctx)))
			}

			if err = dc.Start(ctx); err != nil {
				return errors.Join(err, dc.Shutdown(context.WithoutCancel(ctx)))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "serving on :%d\n", conf.HTTP.Port)

			<-ctx.Done()

			sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
			defer cancel()

			return errors.Join(rc.Shutdown(sctx), dc.Shutdown(sctx))
		},
	}
}

// Migrate returns the `migrate` command, which brings the schema of the configured storage up to date.
func Migrate(loadConfig func() (*paddock.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:                   "migrate",
		Short:                 "Migrate the schema of the configured storage",
		Args:                  cobra.NoArgs,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			conf, err := loadConfig()
			if err != nil {
				return err
			}

			if err = paddock.Migrate(cmd.Context(), conf, racing.Migrations()); err != nil {
				return err //nolint:wrapcheck // already has the context
			}

			fmt.Fprintf(cmd.OutOrStdout(), "migrated %s storage\n", backendName(conf))

			return nil
		},
	}
}

func backendName(conf *paddock.Config) paddock.Backend {
	if conf.Storage.Backend == "" {
		return paddock.MemoryBackend
	}

	return conf.Storage.Backend
}
