package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "gamefest", cfg.DB.Name)
	assert.Equal(t, "./uploads", cfg.UploadDir)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PASSWORD", "hunter2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "db.internal", cfg.DB.Host)
}

func TestDatabaseDSN(t *testing.T) {
	db := Database{
		Host: "localhost", Port: "5432",
		User: "postgres", Password: "postgres",
		Name: "gamefest", SSLMode: "disable",
	}
	assert.Equal(t,
		"host=localhost port=5432 user=postgres password=postgres dbname=gamefest sslmode=disable",
		db.DSN(),
	)
}
