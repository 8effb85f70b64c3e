package main

import (
	"context"
	"fmt"

	"github.com/soypat/rupture/internal/config"
	"github.com/soypat/rupture/internal/logging"
	"github.com/soypat/rupture/internal/observability"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	vp      = viper.New()
	cfgFile string
	// cfg and logger are set by the root command before any subcommand runs.
	cfg    config.Config
	logger = logging.Noop()
	// shutdownTracing flushes spans once the command finishes, see execute.
	shutdownTracing func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "rupture",
	Short: "Fault rupture geometry and animation",
	Long: `Build a 3D figure of an earthquake fault rupture from its focal
mechanism: two fault bounding blocks that slide along the slip vector, the
beachball of the moment tensor, the fault plane and a compass.

Parameters are read from a configuration file (yaml, toml, json, or ini with
a .cfg extension), overridden by RUPTURE_* environment variables such as
RUPTURE_ANIMATION_STEPS and by flags. Without a file the 2016
Pedernales M7.8 earthquake is drawn.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	config.SetDefaults(vp)
	config.BindEnv(vp)
	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "configuration file")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.String("log-format", "text", "log format: text or json")
	mustBind("log.level", flags.Lookup("log-level"))
	flags.Bool("trace", false, "export OpenTelemetry spans (see tracing.exporter)")
	mustBind("log.format", flags.Lookup("log-format"))
	mustBind("tracing.enabled", flags.Lookup("trace"))
}

func loadConfig(cmd *cobra.Command, args []string) error {
	if err := config.Read(vp, cfgFile); err != nil {
		return err
	}
	c, err := config.Unmarshal(vp)
	if err != nil {
		return err
	}
	logger = logging.New(logging.Config{Level: c.Log.Level, Format: c.Log.Format, Output: cmd.ErrOrStderr()})
	if err := c.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	cfg = c
	ctx := logging.ContextWithLogger(cmd.Context(), logger)
	cmd.SetContext(ctx)
	shutdownTracing, err = observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     c.Tracing.Enabled,
		ServiceName: "rupture",
		Exporter:    c.Tracing.Exporter,
		Endpoint:    c.Tracing.Endpoint,
		SampleRatio: c.Tracing.SampleRatio,
		Output:      cmd.ErrOrStderr(),
	}, logger)
	if err != nil {
		return fmt.Errorf("initialising tracing: %w", err)
	}
	if cfgFile != "" {
		logger.Debug(ctx, "configuration loaded", logging.String("path", cfgFile))
	}
	return nil
}
