package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"storyhub/internal/config"
	"storyhub/internal/db"
	"storyhub/internal/models"
	"storyhub/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dsn string, args ...string) (string, error) {
	t.Helper()
	cfg := &config.Config{Database: config.DatabaseConfig{Driver: db.DriverSQLite, URL: dsn}}
	cmd := NewRootCommand(cfg)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func tempDSN(t *testing.T) string {
	return "file:" + filepath.Join(t.TempDir(), "storyhub.db") + "?_foreign_keys=on"
}

func TestMigrateSeedStats(t *testing.T) {
	dsn := tempDSN(t)

	out, err := run(t, dsn, "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")

	out, err = run(t, dsn, "seed")
	require.NoError(t, err)
	assert.Equal(t, "created 5 categories\n", out)

	out, err = run(t, dsn, "seed")
	require.NoError(t, err)
	assert.Equal(t, "created 0 categories\n", out)

	out, err = run(t, dsn, "stats", "--format", "json")
	require.NoError(t, err)
	var stats models.AdminStats
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Zero(t, stats.TotalUsers)
}

func TestPromote(t *testing.T) {
	dsn := tempDSN(t)
	_, err := run(t, dsn, "migrate")
	require.NoError(t, err)

	gdb, err := db.Open(db.DriverSQLite, dsn)
	require.NoError(t, err)
	require.NoError(t, store.New(gdb).CreateUser(context.Background(), &models.User{Username: "alice"}))
	sqlDB, _ := gdb.DB()
	sqlDB.Close()

	out, err := run(t, dsn, "promote", "alice", "--premium")
	require.NoError(t, err)
	assert.Equal(t, "alice is now admin (premium: true)\n", out)

	_, err = run(t, dsn, "promote", "nobody")
	assert.ErrorIs(t, err, store.ErrNotFound)

	_, err = run(t, dsn, "promote", "alice", "--role", "king")
	assert.ErrorIs(t, err, store.ErrInvalidStatus)
}

func TestInvalidFormat(t *testing.T) {
	_, err := run(t, tempDSN(t), "stats", "--format", "xml")
	assert.Error(t, err)
}
