package config

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("PG_HOST", "db.internal")
	t.Setenv("PG_USER", "arena")
	t.Setenv("PG_PASSWORD", "secret")
	t.Setenv("PG_DATABASE", "arena")
	t.Setenv("REDIS_ADDR", "localhost:6379")
}

func TestLoadAppliesDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "arena-platform", cfg.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, 10, cfg.Arena.DefaultQuestionCount)
	assert.Equal(t, 20*time.Second, cfg.Arena.QuestionDeadline)
	assert.Equal(t, 100, cfg.Arena.EventCapacity)
	assert.Equal(t, 2*time.Hour, cfg.Arena.SnapshotTTL)
}

func TestLoadReadsOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("QUESTION_DEADLINE_SECONDS", "45s")
	t.Setenv("EVENT_LOG_CAPACITY", "250")

	cfg, err := Load(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, 45*time.Second, cfg.Arena.QuestionDeadline)
	assert.Equal(t, 250, cfg.Arena.EventCapacity)
}

func TestLoadRequiresPostgres(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("PG_HOST", "")

	_, err := Load(context.Background())
	require.Error(t, err)
}
