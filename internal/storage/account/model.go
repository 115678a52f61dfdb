package account

import (
	"github.com/shopspring/decimal"
)

const tableName = "accounts"

var columns = []any{"id", "name", "balance", "currency"}

// Account represents an account record. Balance is the cached sum of the
// account's transactions, in Currency when set.
type Account struct {
	ID       int64           `db:"id"`
	Name     string          `db:"name"`
	Balance  decimal.Decimal `db:"balance"`
	Currency *string         `db:"currency"`
}

// AccountCreate is the input for creating a new account.
type AccountCreate struct {
	Name     string
	Balance  decimal.Decimal
	Currency *string
}

// AccountUpdate replaces the editable fields of an account.
type AccountUpdate struct {
	Name     string
	Currency *string
}
