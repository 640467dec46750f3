package cmd

import (
	"bytes"
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/Lumos-Labs-HQ/addtx/internal/config"
	"github.com/Lumos-Labs-HQ/addtx/internal/populate"
	_ "github.com/mattn/go-sqlite3"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT NOT NULL,
	role TEXT NOT NULL,
	is_active BOOLEAN NOT NULL
);
CREATE TABLE transactions (
	id TEXT PRIMARY KEY,
	user_id INTEGER NOT NULL,
	reference_number TEXT NOT NULL UNIQUE,
	transaction_type TEXT NOT NULL,
	category TEXT NOT NULL,
	merchant TEXT NOT NULL,
	description TEXT,
	amount NUMERIC NOT NULL,
	currency TEXT NOT NULL,
	status TEXT NOT NULL,
	created_at TIMESTAMP NOT NULL
);
`

func newSQLiteConfig(t *testing.T, customers int) (*config.Config, *sql.DB) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "app.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(testSchema)
	require.NoError(t, err)
	for i := 0; i < customers; i++ {
		_, err = db.Exec("INSERT INTO users (email, role, is_active) VALUES (?, 'customer', 1)",
			"customer"+string(rune('a'+i))+"@example.com")
		require.NoError(t, err)
	}
	_, err = db.Exec("INSERT INTO users (email, role, is_active) VALUES ('root@example.com', 'admin', 1)")
	require.NoError(t, err)

	t.Setenv("ADDTX_TEST_DB", "sqlite://"+path)

	cfg := config.Default()
	cfg.Database.Provider = "sqlite"
	cfg.Database.URLEnv = "ADDTX_TEST_DB"
	cfg.BatchSize = 10
	cfg.Generator.Seed = 42
	return cfg, db
}

func countRows(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM transactions").Scan(&n))
	return n
}

func TestRunAddWithExplicitCount(t *testing.T) {
	cfg, db := newSQLiteConfig(t, 3)
	var out bytes.Buffer

	summary, err := runAdd(context.Background(), cfg, []string{"5"}, runOptions{Output: &out})
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Users)
	assert.Equal(t, 15, summary.Total)
	assert.True(t, summary.Committed)
	assert.Equal(t, 15, countRows(t, db))

	assert.Contains(t, out.String(), "Will add 5 transactions per user")
	assert.Contains(t, out.String(), "Found 3 users")
	assert.Contains(t, out.String(), "Average: 5.0 transactions per user")
}

func TestRunAddInvalidCountFallsBackToRandom(t *testing.T) {
	cfg, db := newSQLiteConfig(t, 2)
	var out bytes.Buffer

	summary, err := runAdd(context.Background(), cfg, []string{"lots"}, runOptions{Output: &out})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, summary.Requested, 10)
	assert.LessOrEqual(t, summary.Requested, 30)
	assert.Equal(t, 2*summary.Requested, countRows(t, db))
	assert.Contains(t, out.String(), "Invalid number, using random count")
}

func TestRunAddNoCustomers(t *testing.T) {
	cfg, db := newSQLiteConfig(t, 0)
	var out bytes.Buffer

	summary, err := runAdd(context.Background(), cfg, nil, runOptions{Output: &out})
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Users)
	assert.Equal(t, 0, countRows(t, db))
	assert.Contains(t, out.String(), "No users found in database")
}

func TestRunAddDryRun(t *testing.T) {
	cfg, db := newSQLiteConfig(t, 2)

	summary, err := runAdd(context.Background(), cfg, []string{"4"}, runOptions{DryRun: true, Output: &bytes.Buffer{}})
	require.NoError(t, err)

	assert.Equal(t, 8, summary.Total)
	assert.False(t, summary.Committed)
	assert.Equal(t, 0, countRows(t, db))
}

func TestRunAddMissingDatabaseURL(t *testing.T) {
	cfg := config.Default()
	cfg.Database.URLEnv = "ADDTX_TEST_MISSING_URL"
	t.Setenv("ADDTX_TEST_MISSING_URL", "")

	_, err := runAdd(context.Background(), cfg, []string{"1"}, runOptions{Output: &bytes.Buffer{}})
	assert.Error(t, err)
}

func TestRunAddUsesCustomProfile(t *testing.T) {
	cfg, db := newSQLiteConfig(t, 1)

	profile := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(profile, []byte(`currency: EUR
categories:
  - name: Rent
    type: debit
    weight: 1
    min_amount: "750.00"
    max_amount: "750.00"
    merchants: [Landlord]
`), 0644))
	cfg.Generator.Profile = profile

	_, err := runAdd(context.Background(), cfg, []string{"3"}, runOptions{Output: &bytes.Buffer{}})
	require.NoError(t, err)

	var n int
	require.NoError(t, db.QueryRow(
		"SELECT COUNT(*) FROM transactions WHERE currency = 'EUR' AND category = 'Rent' AND merchant = 'Landlord'",
	).Scan(&n))
	assert.Equal(t, 3, n)
}

func TestInitializeProject(t *testing.T) {
	dir := t.TempDir()

	require.NoError(t, initializeProject(dir, "sqlite", true, false))

	v := viper.New()
	v.SetConfigFile(filepath.Join(dir, configFileName))
	require.NoError(t, v.ReadInConfig())
	assert.Equal(t, "sqlite", v.GetString("database.provider"))
	assert.Equal(t, "transactions", v.GetString("tables.transactions"))
	assert.Equal(t, profileFileName, v.GetString("generator.profile"))

	profile, err := populate.LoadProfile(filepath.Join(dir, profileFileName))
	require.NoError(t, err)
	assert.NotEmpty(t, profile.Categories)

	env, err := os.ReadFile(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	assert.Contains(t, string(env), "DATABASE_URL=sqlite://./app.db")

	assert.Error(t, initializeProject(dir, "sqlite", false, false))
	assert.NoError(t, initializeProject(dir, "sqlite", false, true))
}

func TestInitializeProjectRejectsUnknownProvider(t *testing.T) {
	assert.Error(t, initializeProject(t.TempDir(), "oracle", false, false))
}

func TestHandleEnvFileKeepsExistingURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=postgres://prod\nDEBUG=1"), 0644))

	require.NoError(t, handleEnvFile(path, "DATABASE_URL=sqlite://./app.db\n"))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "DATABASE_URL=postgres://prod\nDEBUG=1", string(data))

	require.NoError(t, handleEnvFile(path, "APP_DB=sqlite://./app.db\n"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "DEBUG=1\n\n# Added by addtx\nAPP_DB=sqlite://./app.db\n")
}
