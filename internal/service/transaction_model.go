package service

import (
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

// Transaction represents a transaction in the service layer.
type Transaction struct {
	ID            int64
	AccountID     int64
	Date          string
	Payee         string
	Notes         *string
	Category      *string
	Amount        decimal.Decimal
	Currency      *string
	Ticker        *string
	Shares        *decimal.Decimal
	PricePerShare *decimal.Decimal
	Fee           *decimal.Decimal
	LinkedTxID    *int64
}

// TransactionInput is the caller-supplied part of a transaction.
type TransactionInput struct {
	AccountID int64
	Date      string
	Payee     string
	Notes     *string
	Category  *string
	Amount    decimal.Decimal
	Currency  *string

	Ticker        *string
	Shares        *decimal.Decimal
	PricePerShare *decimal.Decimal
	Fee           *decimal.Decimal
}

// InvestmentInput describes a buy or sell. Side is "buy" or "sell".
type InvestmentInput struct {
	AccountID     int64
	Date          string
	Side          string
	Ticker        string
	Shares        decimal.Decimal
	PricePerShare decimal.Decimal
	Fee           decimal.Decimal
	Notes         *string
	Currency      *string
}

// TransactionResult is a written transaction and, for transfers, the
// counterpart row in the other account.
type TransactionResult struct {
	Transaction Transaction
	Counterpart *Transaction
}

// TransactionCursor identifies a position in a paginated result set.
type TransactionCursor struct {
	Position int
	Limit    int
}

func transactionFromStorage(row *transaction.Transaction) Transaction {
	return Transaction{
		ID:            row.ID,
		AccountID:     row.AccountID,
		Date:          row.Date,
		Payee:         row.Payee,
		Notes:         row.Notes,
		Category:      row.Category,
		Amount:        row.Amount,
		Currency:      row.Currency,
		Ticker:        row.Ticker,
		Shares:        fromNull(row.Shares),
		PricePerShare: fromNull(row.PricePerShare),
		Fee:           fromNull(row.Fee),
		LinkedTxID:    row.LinkedTxID,
	}
}

func resultFromStorage(primary, counterpart *transaction.Transaction) *TransactionResult {
	result := &TransactionResult{Transaction: transactionFromStorage(primary)}
	if counterpart != nil {
		cp := transactionFromStorage(counterpart)
		result.Counterpart = &cp
	}
	return result
}

func fromNull(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	v := d.Decimal
	return &v
}

func toNull(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
