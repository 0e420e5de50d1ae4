package db_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/internal/auth/config"
	"taskflow/internal/auth/db"
)

func TestMigrationsURL(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name string
		dir  string
		want string
	}{
		{name: "relative", dir: "migrations/auth", want: "file://" + filepath.Join(wd, "migrations/auth")},
		{name: "absolute", dir: "/srv/migrations", want: "file:///srv/migrations"},
		{name: "already a url", dir: "file:///srv/migrations", want: "file:///srv/migrations"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := db.MigrationsURL(tc.dir)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestNewFailsWithoutMigrations(t *testing.T) {
	cfg := &config.PostgresConfig{
		Host:          "127.0.0.1",
		Port:          1,
		User:          "postgres",
		Password:      "postgres",
		Database:      "taskflow",
		SSLMode:       "disable",
		MinConn:       1,
		MaxConn:       2,
		MigrationsDir: filepath.Join(t.TempDir(), "missing"),
	}

	database, err := db.New(context.Background(), cfg)
	require.Error(t, err)
	assert.Nil(t, database)
	assert.Contains(t, err.Error(), db.ErrDBMigrations)
}
