package paddock

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/racetrack-labs/paddock/secret"
)

// Config is a structure used for service configuration.
// It is intended to be mapped by viper.
type Config struct {
	ApplicationName string `mapstructure:"application_name"`
	InstanceName    string `mapstructure:"instance_name"`

	Environment Environment `mapstructure:"environment"`

	HTTP     HTTP     `mapstructure:"http"`
	Storage  Storage  `mapstructure:"storage"`
	Memory   Memory   `mapstructure:"memory"`
	SQLite   SQLite   `mapstructure:"sqlite"`
	Postgres Postgres `mapstructure:"postgres"`
	OTEL     OTEL     `mapstructure:"otel"`
	Log      Log      `mapstructure:"log"`
}

const (
	LocalEnv       Environment = "local"
	TestEnv        Environment = "test"
	DevelopmentEnv Environment = "dev"
	ProductionEnv  Environment = "prod"
)

// Environments is the list of all supported environments.
func Environments() []Environment {
	return []Environment{LocalEnv, TestEnv, DevelopmentEnv, ProductionEnv}
}

type Environment string

const (
	MemoryBackend   Backend = "memory"
	SQLiteBackend   Backend = "sqlite"
	PostgresBackend Backend = "postgres"
)

// Backends is the list of all supported storage backends.
func Backends() []Backend {
	return []Backend{MemoryBackend, SQLiteBackend, PostgresBackend}
}

// Backend selects where the racing data is stored.
type Backend string

type (
	HTTP struct {
		Port                  int  `mapstructure:"port"                    json:"port"`
		StatusEndpointEnabled bool `mapstructure:"status_endpoint_enabled" json:"-"`
		StatusEndpointPort    int  `mapstructure:"status_endpoint_port"    json:"-"`
	}

	Storage struct {
		Backend Backend `mapstructure:"backend" json:"backend"`
	}

	// Memory keeps the data in process.
	// If Dir is set, every change is written as JSON files into it and loaded on start.
	Memory struct {
		Dir string `mapstructure:"dir" json:"dir"`
	}

	SQLite struct {
		Path string `mapstructure:"path" json:"path"`
	}

	Postgres struct {
		User     string        `mapstructure:"user"      json:"user"`
		Password secret.Secret `mapstructure:"password"  json:"-"`
		Database string        `mapstructure:"database"  json:"database"`
		Host     string        `mapstructure:"host"      json:"host"`
		Port     int           `mapstructure:"port"      json:"port"`
		SSLMode  string        `mapstructure:"ssl_mode"  json:"sslMode"`
		MaxConns int           `mapstructure:"max_conns" json:"maxConns"`
	}

	OTEL struct {
		Host     string `mapstructure:"host"     json:"host"`
		Port     int    `mapstructure:"port"     json:"port"`
		Hostname string `mapstructure:"hostname" json:"hostname"`
	}

	Log struct {
		// Level is one of: paddock:debug, paddock:info, debug, info, warn, error.
		Level string `mapstructure:"level" json:"level"`
		// LokiURL is the push endpoint of a local Loki. It is only used in the LocalEnv.
		LokiURL string `mapstructure:"loki_url" json:"lokiURL"`
	}
)

// EnvPrefix is the prefix of environment variables overwriting the configuration,
// e.g. PADDOCK_STORAGE_BACKEND=sqlite.
const EnvPrefix = "PADDOCK"

// DefaultViper returns a new viper instance with all default values
// from Config set.
func DefaultViper() *Viper {
	vip := viper.New()

	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vip.AutomaticEnv()

	vip.SetDefault("application_name", "paddock")
	vip.SetDefault("instance_name", "")

	vip.SetDefault("environment", "local")

	vip.SetDefault("http.port", 8080)
	vip.SetDefault("http.status_endpoint_enabled", true)
	vip.SetDefault("http.status_endpoint_port", 2223)

	vip.SetDefault("storage.backend", "memory")

	vip.SetDefault("memory.dir", "")

	vip.SetDefault("sqlite.path", "paddock.db")

	vip.SetDefault("postgres.user", "paddock")
	vip.SetDefault("postgres.password", "secret")
	vip.SetDefault("postgres.database", "paddock")
	vip.SetDefault("postgres.host", "localhost")
	vip.SetDefault("postgres.port", 5432)
	vip.SetDefault("postgres.ssl_mode", "disable")
	vip.SetDefault("postgres.max_conns", 10)

	vip.SetDefault("otel.host", "localhost")
	vip.SetDefault("otel.port", 4317)
	vip.SetDefault("otel.hostname", "")

	vip.SetDefault("log.level", "info")
	vip.SetDefault("log.loki_url", "")

	return &Viper{Viper: vip}
}

var errConfigLoadFailed = errors.New("loading configuration failed")

// Viper is a wrapper around viper.Viper for configuration loading.
// It overwrites Unmarshal, so that secret.Secret values are decoded
// and the enum like values are checked without the caller having to add any decode hooks.
type Viper struct {
	*viper.Viper
}

// Unmarshal works for Config and for any struct embedding it with `mapstructure:",squash"`.
func (vip *Viper) Unmarshal(rawVal any, opts ...viper.DecoderConfigOption) error {
	opts = append([]viper.DecoderConfigOption{viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		allowedValuesHookFunc(Environments()),
		allowedValuesHookFunc(Backends()),
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	))}, opts...)

	err := vip.Viper.Unmarshal(rawVal, opts...)
	if err != nil {
		return fmt.Errorf("%w: could not decode configuration into struct: %v", errConfigLoadFailed, err) //nolint:errorlint,lll // hide decoder internals
	}

	return nil
}

// allowedValuesHookFunc rejects values of type T that are not in allowed.
func allowedValuesHookFunc[T ~string](allowed []T) mapstructure.DecodeHookFuncType {
	return func(_ reflect.Type, t reflect.Type, data any) (any, error) {
		if t != reflect.TypeOf(T("")) {
			return data, nil
		}

		val, _ := data.(string)
		if slices.Contains(allowed, T(val)) {
			return data, nil
		}

		values := make([]string, 0, len(allowed))
		for _, a := range allowed {
			values = append(values, string(a))
		}

		return data, fmt.Errorf("value %q is not allowed, use one of: %s", val, strings.Join(values, ", ")) //nolint:err113,lll // accept dynamic error
	}
}
