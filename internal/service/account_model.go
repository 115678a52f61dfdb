package service

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/storage/account"
)

// Account represents an account in the service layer. ExchangeRate is only
// populated by balance listings.
type Account struct {
	ID           int64
	Name         string
	Balance      decimal.Decimal
	Currency     *string
	ExchangeRate decimal.Decimal
}

// AccountCreate is the input for creating an account.
type AccountCreate struct {
	Name           string
	InitialBalance decimal.Decimal
	Currency       *string
}

// BalanceDrift reports an account whose cached balance disagrees with the
// sum of its transactions.
type BalanceDrift struct {
	AccountID int64
	Name      string
	Stored    decimal.Decimal
	Computed  decimal.Decimal
}

func accountFromStorage(acc *account.Account) Account {
	return Account{
		ID:           acc.ID,
		Name:         acc.Name,
		Balance:      acc.Balance,
		Currency:     acc.Currency,
		ExchangeRate: decimal.NewFromInt(1),
	}
}
