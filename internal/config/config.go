package config

import (
	"time"

	"github.com/creasty/defaults"
	"go.uber.org/zap/zapcore"

	srvErrors "github.com/kubev2v/jobqueue/pkg/errors"
)

type Configuration struct {
	Server    Server `mapstructure:"server"`
	Queue     Queue  `mapstructure:"queue"`
	Store     Store  `mapstructure:"store"`
	LogFormat string `mapstructure:"log-format" default:"console"`
	LogLevel  string `mapstructure:"log-level" default:"info"`
}

type Server struct {
	ServerMode string `mapstructure:"mode" default:"dev"`
	HTTPPort   int    `mapstructure:"http-port" default:"8000"`
}

type Queue struct {
	// Capacity is the ceiling on admitted but unfinished jobs.
	Capacity int64 `mapstructure:"capacity" default:"1048576"`
	// Permits bounds the jobs executing on the worker pool. Zero means twice GOMAXPROCS.
	Permits             int           `mapstructure:"permits" default:"0"`
	DispatcherRunsTasks bool          `mapstructure:"dispatcher-runs-tasks" default:"true"`
	StopTimeout         time.Duration `mapstructure:"stop-timeout" default:"1s"`
}

type Store struct {
	// Path of the DuckDB file. Empty keeps the history in memory.
	Path string `mapstructure:"path" default:""`
}

// NewConfigurationWithDefaults returns a configuration with every default applied.
func NewConfigurationWithDefaults() (*Configuration, error) {
	cfg := &Configuration{}
	if err := defaults.Set(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Configuration) Validate() error {
	switch c.Server.ServerMode {
	case "dev", "prod":
	default:
		return srvErrors.NewInvalidArgumentError("server mode must be dev or prod, got %q", c.Server.ServerMode)
	}
	if c.Server.HTTPPort <= 0 || c.Server.HTTPPort > 65535 {
		return srvErrors.NewInvalidArgumentError("invalid http port %d", c.Server.HTTPPort)
	}
	if c.Queue.Capacity <= 0 {
		return srvErrors.NewInvalidArgumentError("queue capacity must be positive, got %d", c.Queue.Capacity)
	}
	if c.Queue.Permits < 0 {
		return srvErrors.NewInvalidArgumentError("queue permits must not be negative, got %d", c.Queue.Permits)
	}
	if c.Queue.StopTimeout <= 0 {
		return srvErrors.NewInvalidArgumentError("queue stop timeout must be positive, got %s", c.Queue.StopTimeout)
	}
	switch c.LogFormat {
	case "console", "json":
	default:
		return srvErrors.NewInvalidArgumentError("log format must be console or json, got %q", c.LogFormat)
	}
	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return srvErrors.NewInvalidArgumentError("invalid log level %q", c.LogLevel)
	}
	return nil
}

// DebugMap returns the configuration as a flat map for logging.
func (c *Configuration) DebugMap() map[string]any {
	return map[string]any{
		"server.mode":                 c.Server.ServerMode,
		"server.http-port":            c.Server.HTTPPort,
		"queue.capacity":              c.Queue.Capacity,
		"queue.permits":               c.Queue.Permits,
		"queue.dispatcher-runs-tasks": c.Queue.DispatcherRunsTasks,
		"queue.stop-timeout":          c.Queue.StopTimeout.String(),
		"store.path":                  c.Store.Path,
		"log-format":                  c.LogFormat,
		"log-level":                   c.LogLevel,
	}
}
