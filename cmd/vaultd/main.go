package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/iov-one/vault"
	vaultd "github.com/iov-one/vault/cmd/vaultd/app"
	"github.com/iov-one/vault/commands"
	"github.com/iov-one/vault/commands/server"
	"github.com/iov-one/vault/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tendermint/tendermint/libs/log"
)

const (
	flagHome     = "home"
	flagBind     = "bind"
	flagDebug    = "debug"
	flagLogLevel = "log_level"
	flagMetrics  = "metrics"
	flagForce    = "force"
)

// config holds the settings shared by all commands. Every value can be
// set with a flag or with a VAULTD_ prefixed environment variable.
type config struct {
	Home     string `mapstructure:"home"`
	Bind     string `mapstructure:"bind"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
	Metrics  string `mapstructure:"metrics"`
}

func loadConfig(v *viper.Viper) (*config, error) {
	var conf config
	if err := v.Unmarshal(&conf); err != nil {
		return nil, errors.Wrap(errors.ErrInput, err.Error())
	}
	if conf.Home == "" {
		return nil, errors.Wrap(errors.ErrEmpty, "home directory")
	}
	return &conf, nil
}

func newLogger(level string) (log.Logger, error) {
	allowed, err := log.AllowLevel(level)
	if err != nil {
		return nil, err
	}
	logger := log.NewTMLogger(log.NewSyncWriter(os.Stdout))
	return log.NewFilter(logger, allowed).With("module", "vaultd"), nil
}

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "vaultd",
		Short:         "Quorum multisig vault node",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defaultHome := filepath.Join(os.ExpandEnv("$HOME"), ".vaultd")
	flags := root.PersistentFlags()
	flags.String(flagHome, defaultHome, "directory to store files under")
	flags.String(flagBind, "tcp://localhost:26658", "address the ABCI server listens on")
	flags.Bool(flagDebug, false, "return full error details to clients")
	flags.String(flagLogLevel, "info", "log level: debug, info, error or none")
	flags.String(flagMetrics, "", "address of the HTTP metrics endpoint, empty disables it")

	v.SetEnvPrefix("VAULTD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		panic(err)
	}

	// setup loads the configuration and the logger for a command.
	setup := func() (*config, log.Logger, error) {
		conf, err := loadConfig(v)
		if err != nil {
			return nil, nil, err
		}
		logger, err := newLogger(conf.LogLevel)
		if err != nil {
			return nil, nil, err
		}
		return conf, logger, nil
	}

	initCmd := &cobra.Command{
		Use:   "init [administrator address...]",
		Short: "Initialize app options in genesis file",
		Long: `Write the application state into the genesis file. Every argument is
the address of a vault administrator. When no address is given, a new
key is generated and printed out.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := setup()
			if err != nil {
				return err
			}
			force, err := cmd.Flags().GetBool(flagForce)
			if err != nil {
				return err
			}
			return server.InitCmd(vaultd.GenInitOptions, logger, conf.Home, force, args)
		},
	}
	initCmd.Flags().BoolP(flagForce, "f", false, "overwrite an existing app state")

	startCmd := &cobra.Command{
		Use:   "start",
		Short: "Run the abci server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, logger, err := setup()
			if err != nil {
				return err
			}
			return server.StartCmd(vaultd.GenerateApp, logger, server.StartOptions{
				Home:    conf.Home,
				Bind:    conf.Bind,
				Debug:   conf.Debug,
				Metrics: conf.Metrics,
			})
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate <genesis file>...",
		Short: "Check that genesis files can initialize the application",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return server.ValidateGenesis(vaultd.Initializers(), args)
		},
	}

	testgenCmd := &cobra.Command{
		Use:   "testgen [directory]",
		Short: "Write example encodings of the application types",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return commands.TestGenCmd(vaultd.Examples(), args)
		},
	}

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the app version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), vault.Version)
		},
	}

	root.AddCommand(initCmd, startCmd, validateCmd, testgenCmd, versionCmd)
	return root
}

func main() {
	if err := newRootCmd(viper.New()).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}
