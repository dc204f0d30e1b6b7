// Package config defines the configuration structure for the jobqueue service.
//
// Configuration is organized into logical sections (Server, Queue, Store).
// Defaults come from `default` struct tags applied by creasty/defaults; the
// command line layer overlays flags, JOBQUEUE_* environment variables and an
// optional config file through viper, which decodes into the `mapstructure`
// tags.
//
// # Configuration Structure
//
//	Configuration
//	├── Server         - HTTP server settings
//	├── Queue          - Job queue sizing and shutdown
//	├── Store          - Execution history database
//	├── LogFormat      - Logging format
//	└── LogLevel       - Logging verbosity
//
// # Server Configuration
//
//	┌──────────────────┬─────────┬────────────────────────────────────────┐
//	│ Field            │ Default │ Description                            │
//	├──────────────────┼─────────┼────────────────────────────────────────┤
//	│ ServerMode       │ "dev"   │ Server mode: "prod" or "dev"           │
//	│ HTTPPort         │ 8000    │ HTTP server listen port                │
//	└──────────────────┴─────────┴────────────────────────────────────────┘
//
// # Queue Configuration
//
//	┌─────────────────────┬─────────┬──────────────────────────────────────────┐
//	│ Field               │ Default │ Description                              │
//	├─────────────────────┼─────────┼──────────────────────────────────────────┤
//	│ Capacity            │ 1048576 │ Ceiling on admitted, unfinished jobs     │
//	│ Permits             │ 0       │ Concurrent pool executions, 0: 2×PROCS   │
//	│ DispatcherRunsTasks │ true    │ Run inline when no permit is free        │
//	│ StopTimeout         │ 1s      │ How long Stop waits for the dispatcher   │
//	└─────────────────────┴─────────┴──────────────────────────────────────────┘
//
// # Store Configuration
//
//	┌───────┬─────────┬──────────────────────────────────────────────┐
//	│ Field │ Default │ Description                                  │
//	├───────┼─────────┼──────────────────────────────────────────────┤
//	│ Path  │ ""      │ DuckDB file; empty keeps history in memory   │
//	└───────┴─────────┴──────────────────────────────────────────────┘
//
// # Usage Example
//
//	cfg, err := config.NewConfigurationWithDefaults()
//	if err != nil {
//	    return err
//	}
//	if err := v.Unmarshal(cfg); err != nil {
//	    return err
//	}
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
//
// # Debug Logging
//
// DebugMap flattens the configuration for structured logging:
//
//	zap.S().Infow("configuration loaded", "config", cfg.DebugMap())
package config
