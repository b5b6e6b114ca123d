package paddock_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/racetrack-labs/paddock"
)

func TestDefaultViper(t *testing.T) {
	t.Parallel()

	vip := paddock.DefaultViper()
	assert.NotEmpty(t, vip)

	// This test enforces the default values, so whenever they change,
	// make sure to also update the example config file!

	assert.Equal(t, "paddock", vip.GetString("application_name"))
	assert.Empty(t, vip.Get("instance_name"))

	assert.Equal(t, paddock.LocalEnv, paddock.Environment(vip.GetString("environment")))

	assert.Equal(t, 8080, vip.GetInt("http.port"))
	assert.True(t, vip.GetBool("http.status_endpoint_enabled"))
	assert.Equal(t, 2223, vip.GetInt("http.status_endpoint_port"))

	assert.Equal(t, paddock.MemoryBackend, paddock.Backend(vip.GetString("storage.backend")))
	assert.Empty(t, vip.GetString("memory.dir"))
	assert.Equal(t, "paddock.db", vip.GetString("sqlite.path"))

	assert.Equal(t, "paddock", vip.GetString("postgres.user"))
	assert.Equal(t, "secret", vip.GetString("postgres.password"))
	assert.Equal(t, "paddock", vip.GetString("postgres.database"))
	assert.Equal(t, "localhost", vip.GetString("postgres.host"))
	assert.Equal(t, 5432, vip.GetInt("postgres.port"))
	assert.Equal(t, "disable", vip.GetString("postgres.ssl_mode"))
	assert.Equal(t, 10, vip.GetInt("postgres.max_conns"))

	assert.Equal(t, "localhost", vip.GetString("otel.host"))
	assert.Equal(t, 4317, vip.GetInt("otel.port"))
	assert.Equal(t, "", vip.GetString("otel.hostname"))

	assert.Equal(t, "info", vip.GetString("log.level"))
	assert.Empty(t, vip.GetString("log.loki_url"))
}

func TestDefaultViper_Unmarshal(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()

		conf := paddock.Config{}

		err := paddock.DefaultViper().Unmarshal(&conf)
		require.NoError(t, err)
		assert.Equal(t, paddock.LocalEnv, conf.Environment)
		assert.Equal(t, paddock.MemoryBackend, conf.Storage.Backend)
		assert.Equal(t, "secret", conf.Postgres.Password.Secret())
	})

	t.Run("invalid environment", func(t *testing.T) {
		t.Parallel()

		vip := paddock.DefaultViper()
		vip.SetConfigFile("./testdata/config/invalid-config.yaml")
		err := vip.ReadInConfig()
		require.NoError(t, err)

		conf := paddock.Config{}

		err = vip.Unmarshal(&conf)
		assert.Error(t, err, "should fail when using unsupported enum values")
		assert.Contains(t, err.Error(), "use one of: local, test, dev, prod",
			"error message should list out all accepted environments")
	})

	t.Run("invalid backend", func(t *testing.T) {
		t.Parallel()

		vip := paddock.DefaultViper()
		vip.SetConfigFile("./testdata/config/invalid-backend.yaml")
		err := vip.ReadInConfig()
		require.NoError(t, err)

		conf := paddock.Config{}

		err = vip.Unmarshal(&conf)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "use one of: memory, sqlite, postgres")
	})

	t.Run("config file", func(t *testing.T) {
		t.Parallel()

		vip := paddock.DefaultViper()
		vip.SetConfigFile("./testdata/config/test-config.yaml")
		err := vip.ReadInConfig()
		require.NoError(t, err)

		conf := paddock.Config{}

		err = vip.Unmarshal(&conf)
		require.NoError(t, err)
		assert.Equal(t, "paddock-test", conf.ApplicationName)
		assert.Equal(t, paddock.TestEnv, conf.Environment)
		assert.Equal(t, 9090, conf.HTTP.Port)
		assert.False(t, conf.HTTP.StatusEndpointEnabled)
		assert.Equal(t, 2223, conf.HTTP.StatusEndpointPort, "should keep defaults of missing keys")
		assert.Equal(t, paddock.SQLiteBackend, conf.Storage.Backend)
		assert.Equal(t, ":memory:", conf.SQLite.Path)
		assert.Equal(t, "racing", conf.Postgres.User)
		assert.Equal(t, "paddock:debug", conf.Log.Level)
	})

	t.Run("unmarshal secret", func(t *testing.T) {
		t.Parallel()

		vip := paddock.DefaultViper()
		vip.SetConfigFile("./testdata/config/test-config.yaml")
		err := vip.ReadInConfig()
		require.NoError(t, err)

		conf := paddock.Config{}

		err = vip.Unmarshal(&conf)
		require.NoError(t, err)
		assert.Equal(t, "my-db-secret", conf.Postgres.Password.Secret())
		assert.NotContains(t, conf.Postgres.Password.String(), "my-db-secret")
	})

	t.Run("custom config", func(t *testing.T) {
		t.Parallel()

		type MyConfig struct {
			SomeStructField struct{ A string }
			paddock.Config  `mapstructure:",squash"`
		}

		vip := paddock.DefaultViper()
		vip.SetConfigFile("./testdata/config/test-config.yaml")
		err := vip.ReadInConfig()
		require.NoError(t, err)

		conf := MyConfig{}

		err = vip.Unmarshal(&conf)
		require.NoError(t, err)
		assert.Equal(t, paddock.TestEnv, conf.Environment)
		assert.Equal(t, "my-db-secret", conf.Postgres.Password.Secret())
	})
}

//nolint:paralleltest // t.Setenv does not allow parallel tests
func TestDefaultViper_Env(t *testing.T) {
	t.Setenv("PADDOCK_STORAGE_BACKEND", "postgres")
	t.Setenv("PADDOCK_POSTGRES_PASSWORD", "from-env")

	conf := paddock.Config{}

	err := paddock.DefaultViper().Unmarshal(&conf)
	require.NoError(t, err)
	assert.Equal(t, paddock.PostgresBackend, conf.Storage.Backend)
	assert.Equal(t, "from-env", conf.Postgres.Password.Secret())
}
