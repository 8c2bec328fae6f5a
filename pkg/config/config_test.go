package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "technocare", cfg.ServiceName)
	assert.Equal(t, ":5001", cfg.Addr())
	assert.Equal(t, DriverMongo, cfg.Storage.Driver)
	assert.Equal(t, "technocare", cfg.Storage.MongoDatabase)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Zero(t, cfg.Redis.PerMinute)
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("SERVER_PORT", "8080")
	t.Setenv("KAFKA_BROKERS", "k1:9092, ,k2:9092")
	t.Setenv("RATE_LIMIT_PER_MINUTE", "60")

	cfg, err := Load("testdata/does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, 60, cfg.Redis.PerMinute)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		storage Storage
		wantErr string
	}{
		{name: "mongo ok", storage: Storage{Driver: DriverMongo, MongoURI: "mongodb://x"}},
		{name: "mongo without uri", storage: Storage{Driver: DriverMongo}, wantErr: "MONGO_URI"},
		{name: "postgres without url", storage: Storage{Driver: DriverPostgres}, wantErr: "DATABASE_URL"},
		{name: "sqlite ok", storage: Storage{Driver: DriverSQLite, DatabaseURL: "x.db"}},
		{name: "unknown", storage: Storage{Driver: "redis"}, wantErr: "unsupported STORAGE_DRIVER"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Config{Storage: tt.storage}.Validate()
			if tt.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"a", "b"}, CSV(" a ,,b "))
}
