package config

// Supported cache backends.
const (
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

const (
	defaultConfigPath     = "~/.config/scenecache/config.toml"
	defaultDataDir        = "~/.local/share/scenecache"
	defaultLogDir         = "~/.local/share/scenecache/logs"
	defaultDatabaseName   = "cache.db"
	defaultShowsPath      = "~/.config/scenecache/shows.yaml"
	defaultExceptionsPath = "~/.config/scenecache/exceptions.json"
	defaultAPIBind        = "127.0.0.1:7488"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Cache: Cache{
			Backend: BackendSQLite,
		},
		Sources: Sources{
			ShowsPath:      defaultShowsPath,
			ExceptionsPath: defaultExceptionsPath,
		},
		API: API{
			Bind: defaultAPIBind,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
