package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/kubev2v/jobqueue/internal/config"
)

const envPrefix = "JOBQUEUE"

// flagKeys maps every flag to its configuration key.
var flagKeys = map[string]string{
	"server-mode":           "server.mode",
	"http-port":             "server.http-port",
	"queue-capacity":        "queue.capacity",
	"queue-permits":         "queue.permits",
	"dispatcher-runs-tasks": "queue.dispatcher-runs-tasks",
	"stop-timeout":          "queue.stop-timeout",
	"store-path":            "store.path",
	"log-format":            "log-format",
	"log-level":             "log-level",
}

func NewRootCommand() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:          "jobqueue",
		Short:        "Priority job queue with bounded, duplicate-aware execution",
		SilenceUsage: true,
	}

	root.AddCommand(newRunCommand(v), newVersionCommand())
	return root
}

func registerFlags(flags *pflag.FlagSet, defaults *config.Configuration) {
	flags.String("config", "", "Path to a config file (yaml, json or toml)")
	flags.String("server-mode", defaults.Server.ServerMode, "Server mode: dev or prod")
	flags.Int("http-port", defaults.Server.HTTPPort, "HTTP server listen port")
	flags.Int64("queue-capacity", defaults.Queue.Capacity, "Maximum number of admitted, unfinished jobs")
	flags.Int("queue-permits", defaults.Queue.Permits, "Jobs executing on the worker pool at once (0: twice GOMAXPROCS)")
	flags.Bool("dispatcher-runs-tasks", defaults.Queue.DispatcherRunsTasks, "Run jobs on the dispatcher when no permit is free")
	flags.Duration("stop-timeout", defaults.Queue.StopTimeout, "How long shutdown waits for the dispatcher")
	flags.String("store-path", defaults.Store.Path, "DuckDB file for the execution history (empty: in memory)")
	flags.String("log-format", defaults.LogFormat, "Log format: console or json")
	flags.String("log-level", defaults.LogLevel, "Log level: debug, info, warn, error")
}

// loadConfiguration merges defaults, config file, JOBQUEUE_* environment
// variables and flags, in increasing order of precedence.
func loadConfiguration(v *viper.Viper, flags *pflag.FlagSet) (*config.Configuration, error) {
	for name, key := range flagKeys {
		if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
			return nil, fmt.Errorf("failed to bind flag %s: %w", name, err)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if path, _ := flags.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	cfg, err := config.NewConfigurationWithDefaults()
	if err != nil {
		return nil, err
	}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
