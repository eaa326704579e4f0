package cmd

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/jsphweid/barspan/config"
	"github.com/jsphweid/barspan/constants"
	"github.com/jsphweid/barspan/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var version = "dev"

// cfg holds the validated configuration once setup has run.
var cfg = &config.Config{}

// input is what viper unmarshals into before validation.
var input = &config.RawInput{}

var logger = logging.NewNop()

var rootCmd = &cobra.Command{
	Use:           "barspan",
	Short:         "Groups scored note streams into bar-aligned spans",
	Long:          `barspan buckets scored notes into bars per track and offset, and emits the runs of bars that rate well together as spans.`,
	Version:       version,
	SilenceErrors: true,
	SilenceUsage:  true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is ./.barspan.yaml or $HOME/.barspan.yaml)")
	flags.Int("bar-length", constants.DefaultBarLength, "bar length in milliseconds (0 derives it from --bpm)")
	flags.Float64("bpm", 0, "tempo used when --bar-length is 0")
	flags.Int("beats-per-bar", constants.DefaultBeatsPerBar, "beats in one bar when deriving from tempo")
	flags.String("log-level", constants.DefaultLogLevel, "debug, info, warn or error")
	flags.String("log-format", constants.DefaultLogFormat, "console or json")
	flags.String("palette", "", "palette tag attached to every bar")

	_ = viper.BindPFlags(flags)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.SetConfigName(constants.ConfigName)
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
	}

	viper.SetEnvPrefix(constants.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("bar-length", constants.DefaultBarLength)
	viper.SetDefault("beats-per-bar", constants.DefaultBeatsPerBar)
	viper.SetDefault("log-level", constants.DefaultLogLevel)
	viper.SetDefault("log-format", constants.DefaultLogFormat)
	viper.SetDefault("viz-interval", constants.DefaultVizInterval)
	viper.SetDefault("addr", constants.DefaultAddr)
	viper.SetDefault("output", constants.DefaultOutput)
}

// sharedSetup merges file, env and flags, validates them into cfg and
// builds the logger.
func sharedSetup(_ *cobra.Command, _ []string) error {
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	if err := config.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	l, err := logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(logger)
	return nil
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
