package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-ledger/internal/config"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(append([]string{"--db", dbPath}, args...))
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

// seed writes rows behind the ledger's back.
func seed(t *testing.T, dbPath string, statements ...string) {
	t.Helper()
	store, err := storage.NewStorage(&config.Config{DBPath: dbPath, BusyTimeoutMs: 1000})
	require.NoError(t, err)
	defer store.Close()
	for _, stmt := range statements {
		_, err := store.DB.Exec(stmt)
		require.NoError(t, err)
	}
}

func TestMigrate(t *testing.T) {
	t.Setenv("LEDGER_REPORTING_CURRENCY", "USD")
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	out, err := run(t, dbPath, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "schema version 0 -> 2\n", out)

	out, err = run(t, dbPath, "migrate")
	require.NoError(t, err)
	assert.Equal(t, "schema version 2 -> 2\n", out)
}

func TestAccountsAndBalances(t *testing.T) {
	t.Setenv("LEDGER_REPORTING_CURRENCY", "USD")
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	_, err := run(t, dbPath, "migrate")
	require.NoError(t, err)

	seed(t, dbPath,
		`INSERT INTO accounts (id, name, balance, currency) VALUES (1, 'Checking', '50', NULL)`,
		`INSERT INTO accounts (id, name, balance, currency) VALUES (2, 'Euro', '10', 'EUR')`,
		`INSERT INTO transactions (account_id, date, payee, amount) VALUES (1, '2024-01-01', 'Opening Balance', '50')`,
		`INSERT INTO transactions (account_id, date, payee, amount, currency) VALUES (2, '2024-01-01', 'Opening Balance', '10', 'EUR')`,
	)

	out, err := run(t, dbPath, "accounts")
	require.NoError(t, err)
	assert.Contains(t, out, "Checking")
	assert.Contains(t, out, "$50.00")

	out, err = run(t, dbPath, "rates", "set", "eur", "1.1")
	require.NoError(t, err)
	assert.Equal(t, "EUR = 1.1 USD\n", out)

	out, err = run(t, dbPath, "rates", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "EUR")

	out, err = run(t, dbPath, "balances", "--currency", "USD")
	require.NoError(t, err)
	assert.Contains(t, out, "$11.00")
}

func TestRatesSet_Invalid(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")

	_, err := run(t, dbPath, "rates", "set", "EUR", "abc")
	assert.Error(t, err)

	_, err = run(t, dbPath, "rates", "set", "EUR", "0")
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "ledger.db")
	_, err := run(t, dbPath, "migrate")
	require.NoError(t, err)

	seed(t, dbPath,
		`INSERT INTO accounts (id, name, balance) VALUES (1, 'Checking', '20')`,
		`INSERT INTO transactions (account_id, date, payee, amount) VALUES (1, '2024-01-01', 'Shop', '20')`,
	)
	out, err := run(t, dbPath, "check")
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	seed(t, dbPath, `UPDATE accounts SET balance = '25' WHERE id = 1`)
	out, err = run(t, dbPath, "check")
	assert.ErrorIs(t, err, ErrDrift)
	assert.Contains(t, out, "stored 25, transactions sum to 20")
}
