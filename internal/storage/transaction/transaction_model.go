package transaction

import (
	"github.com/shopspring/decimal"
)

const (
	tableName = "transactions"

	// CategoryTransfer marks both rows of a transfer pair.
	CategoryTransfer = "Transfer"
)

var columns = []any{
	"id", "account_id", "date", "payee", "notes", "category", "amount",
	"ticker", "shares", "price_per_share", "fee", "currency", "linked_tx_id",
}

// Transaction represents a transaction record. Date is an ISO-8601 string so
// it sorts lexicographically.
type Transaction struct {
	ID            int64               `db:"id"`
	AccountID     int64               `db:"account_id"`
	Date          string              `db:"date"`
	Payee         string              `db:"payee"`
	Notes         *string             `db:"notes"`
	Category      *string             `db:"category"`
	Amount        decimal.Decimal     `db:"amount"`
	Ticker        *string             `db:"ticker"`
	Shares        decimal.NullDecimal `db:"shares"`
	PricePerShare decimal.NullDecimal `db:"price_per_share"`
	Fee           decimal.NullDecimal `db:"fee"`
	Currency      *string             `db:"currency"`
	LinkedTxID    *int64              `db:"linked_tx_id"`
}

// IsTransfer reports whether the row is categorised as a transfer.
func (t *Transaction) IsTransfer() bool {
	return t.Category != nil && *t.Category == CategoryTransfer
}

// TransactionFilter specifies filters for listing transactions.
type TransactionFilter struct {
	AccountID *int64
	Limit     int
	Offset    int
}

// TransactionCursor identifies a position in a paginated result set.
type TransactionCursor struct {
	Position int
	Limit    int
}

// TransactionListResult contains a page of transactions and an optional next cursor.
type TransactionListResult struct {
	Transactions []*Transaction
	NextCursor   *TransactionCursor
}

// CurrencySum is the total of one account's transactions in one currency.
// A nil Currency collects rows stored without a currency.
type CurrencySum struct {
	AccountID int64
	Currency  *string
	Total     decimal.Decimal
}
