package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = `
app:
  name: users
  http:
    port: 18080
db:
  driver: postgres
  dsn: host=localhost dbname=users
cache:
  driver: redis
notify:
  driver: sns
  sns:
    endpoint: http://localhost:4566
    topic: arn:aws:sns:us-east-1:000000000000:user-updated
`

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoadFileAndDefaults(t *testing.T) {
	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)

	assert.Equal(t, "users", c.App.Name)
	assert.Equal(t, 18080, c.App.HTTP.Port)
	assert.Equal(t, "postgres", c.DB.Driver)
	assert.Equal(t, "redis", c.Cache.Driver)
	assert.Equal(t, "sns", c.Notify.Driver)
	assert.Equal(t, "http://localhost:4566", c.Notify.SNS.Endpoint)
	assert.Equal(t, "arn:aws:sns:us-east-1:000000000000:user-updated", c.Notify.SNS.Topic)

	// defaults
	assert.Equal(t, "us-east-1", c.Notify.SNS.Region)
	assert.Equal(t, 10, c.App.HTTP.RequestTimeoutSec)
	assert.Equal(t, "user:", c.Cache.KeyPrefix)
	assert.Equal(t, int64(64), c.Notify.MaxInFlight)
	assert.Equal(t, 9090, c.App.Admin.Port)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("APP_DB_DSN", "file:override.db")
	t.Setenv("APP_NOTIFY_RABBITMQ_URL", "amqp://u:p@mq:5672/")

	c, err := Load(writeConfig(t, sample))
	require.NoError(t, err)
	assert.Equal(t, "file:override.db", c.DB.DSN)
	assert.Equal(t, "amqp://u:p@mq:5672/", c.Notify.RabbitMQ.URL)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}
