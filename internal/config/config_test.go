package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "5000", c.Port)
	assert.Equal(t, "9090", c.MetricsPort)
	assert.Equal(t, "localhost", c.DBHost)
	assert.Equal(t, "27017", c.DBPort)
	assert.Equal(t, "files_manager", c.DBName)
	assert.Equal(t, "localhost:6379", c.RedisAddr)
	assert.Equal(t, "/tmp/files_manager", c.FolderPath)
	assert.Equal(t, 24*time.Hour, c.SessionTTL)
	assert.Equal(t, 2*time.Second, c.DequeueTimeout)
	assert.Equal(t, 10*time.Second, c.ShutdownTimeout)
	assert.False(t, c.Dev)
}

func TestLoadOverlaysEnvironment(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("DB_HOST", "mongo.internal")
	t.Setenv("DB_DATABASE", "filevault")
	t.Setenv("REDIS_ADDR", "redis.internal:6380")
	t.Setenv("FOLDER_PATH", "/var/lib/filevault")
	t.Setenv("DEV", "1")

	c := Load()

	assert.Equal(t, "8080", c.Port)
	assert.Equal(t, "mongo.internal", c.DBHost)
	assert.Equal(t, "27017", c.DBPort, "unset vars keep their defaults")
	assert.Equal(t, "filevault", c.DBName)
	assert.Equal(t, "redis.internal:6380", c.RedisAddr)
	assert.Equal(t, "/var/lib/filevault", c.FolderPath)
	assert.True(t, c.Dev)
}

func TestMongoURI(t *testing.T) {
	var c Config
	c.LoadDefaults()
	assert.Equal(t, "mongodb://localhost:27017", c.MongoURI())
}
