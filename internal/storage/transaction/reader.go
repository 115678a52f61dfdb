package transaction

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dialect"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/storage/sqlerr"
)

const defaultLimit = 50

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

func selectTransactions(mods ...bob.Mod[*dialect.SelectQuery]) bob.BaseQuery[*dialect.SelectQuery] {
	base := []bob.Mod[*dialect.SelectQuery]{
		sm.Columns(columns...),
		sm.From(tableName),
	}
	return sqlite.Select(append(base, mods...)...)
}

func (r *Reader) FindByID(ctx context.Context, id int64) (*Transaction, error) {
	row, err := bob.One(ctx, r.exec, selectTransactions(
		sm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	), scan.StructMapper[*Transaction]())
	if sqlerr.IsNoRows(err) {
		return nil, ledgererr.NotFound("transaction", id)
	}
	if err != nil {
		return nil, sqlerr.Classify("transaction.FindByID", err)
	}
	return row, nil
}

// List returns a page of transactions, newest date first.
func (r *Reader) List(ctx context.Context, filter *TransactionFilter) (*TransactionListResult, error) {
	limit := defaultLimit
	offset := 0
	var queryMods []bob.Mod[*dialect.SelectQuery]
	if filter != nil {
		if filter.Limit > 0 {
			limit = filter.Limit
		}
		offset = filter.Offset
		if filter.AccountID != nil {
			queryMods = append(queryMods, sm.Where(sqlite.Quote("account_id").EQ(sqlite.Arg(*filter.AccountID))))
		}
	}
	queryMods = append(queryMods,
		sm.OrderBy("date").Desc(),
		sm.OrderBy("id").Desc(),
		sm.Limit(limit+1),
		sm.Offset(offset),
	)

	rows, err := bob.All(ctx, r.exec, selectTransactions(queryMods...), scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, sqlerr.Classify("transaction.List", err)
	}

	var nextCursor *TransactionCursor
	if len(rows) > limit {
		rows = rows[:limit]
		nextCursor = &TransactionCursor{
			Position: offset + limit,
			Limit:    limit,
		}
	}
	return &TransactionListResult{Transactions: rows, NextCursor: nextCursor}, nil
}

// ListByAccount returns every transaction owned by accountID.
func (r *Reader) ListByAccount(ctx context.Context, accountID int64) ([]*Transaction, error) {
	rows, err := bob.All(ctx, r.exec, selectTransactions(
		sm.Where(sqlite.Quote("account_id").EQ(sqlite.Arg(accountID))),
		sm.OrderBy("id").Asc(),
	), scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, sqlerr.Classify("transaction.ListByAccount", err)
	}
	return rows, nil
}

// FindTransferCandidates returns unlinked transfer rows with the given notes
// that live outside excludeAccountID.
func (r *Reader) FindTransferCandidates(ctx context.Context, notes string, excludeAccountID, excludeID int64) ([]*Transaction, error) {
	rows, err := bob.All(ctx, r.exec, selectTransactions(
		sm.Where(sqlite.Quote("notes").EQ(sqlite.Arg(notes))),
		sm.Where(sqlite.Quote("category").EQ(sqlite.Arg(CategoryTransfer))),
		sm.Where(sqlite.Quote("linked_tx_id").IsNull()),
		sm.Where(sqlite.Quote("account_id").NE(sqlite.Arg(excludeAccountID))),
		sm.Where(sqlite.Quote("id").NE(sqlite.Arg(excludeID))),
		sm.OrderBy("id").Asc(),
	), scan.StructMapper[*Transaction]())
	if err != nil {
		return nil, sqlerr.Classify("transaction.FindTransferCandidates", err)
	}
	return rows, nil
}

type amountRow struct {
	AccountID int64           `db:"account_id"`
	Currency  *string         `db:"currency"`
	Amount    decimal.Decimal `db:"amount"`
}

func (r *Reader) amounts(ctx context.Context, op string) ([]amountRow, error) {
	rows, err := bob.All(ctx, r.exec, sqlite.Select(
		sm.Columns("account_id", "currency", "amount"),
		sm.From(tableName),
		sm.OrderBy("account_id").Asc(),
		sm.OrderBy("id").Asc(),
	), scan.StructMapper[amountRow]())
	if err != nil {
		return nil, sqlerr.Classify(op, err)
	}
	return rows, nil
}

// CurrencySums totals amounts per account and currency. Amounts are stored as
// text, so the sum is taken here rather than in SQL to stay exact.
func (r *Reader) CurrencySums(ctx context.Context) ([]CurrencySum, error) {
	rows, err := r.amounts(ctx, "transaction.CurrencySums")
	if err != nil {
		return nil, err
	}

	type key struct {
		accountID int64
		currency  string
		hasCode   bool
	}
	totals := make(map[key]*CurrencySum)
	var order []key
	for _, row := range rows {
		k := key{accountID: row.AccountID}
		if row.Currency != nil {
			k.currency, k.hasCode = *row.Currency, true
		}
		sum, ok := totals[k]
		if !ok {
			sum = &CurrencySum{AccountID: row.AccountID, Currency: row.Currency}
			totals[k] = sum
			order = append(order, k)
		}
		sum.Total = sum.Total.Add(row.Amount)
	}

	sums := make([]CurrencySum, 0, len(order))
	for _, k := range order {
		sums = append(sums, *totals[k])
	}
	return sums, nil
}

// Totals returns the plain sum of amounts per account.
func (r *Reader) Totals(ctx context.Context) (map[int64]decimal.Decimal, error) {
	rows, err := r.amounts(ctx, "transaction.Totals")
	if err != nil {
		return nil, err
	}
	totals := make(map[int64]decimal.Decimal)
	for _, row := range rows {
		totals[row.AccountID] = totals[row.AccountID].Add(row.Amount)
	}
	return totals, nil
}

// Payees returns the distinct payees in alphabetical order.
func (r *Reader) Payees(ctx context.Context) ([]string, error) {
	payees, err := bob.All(ctx, r.exec, sqlite.Select(
		sm.Distinct(),
		sm.Columns("payee"),
		sm.From(tableName),
		sm.Where(sqlite.Quote("payee").NE(sqlite.Arg(""))),
	), scan.SingleColumnMapper[string])
	if err != nil {
		return nil, sqlerr.Classify("transaction.Payees", err)
	}
	sort.Strings(payees)
	return payees, nil
}

// Categories returns the distinct user categories, leaving out transfers.
func (r *Reader) Categories(ctx context.Context) ([]string, error) {
	categories, err := bob.All(ctx, r.exec, sqlite.Select(
		sm.Distinct(),
		sm.Columns("category"),
		sm.From(tableName),
		sm.Where(sqlite.Quote("category").IsNotNull()),
		sm.Where(sqlite.Quote("category").NE(sqlite.Arg(CategoryTransfer))),
		sm.Where(sqlite.Quote("category").NE(sqlite.Arg(""))),
	), scan.SingleColumnMapper[string])
	if err != nil {
		return nil, sqlerr.Classify("transaction.Categories", err)
	}
	sort.Strings(categories)
	return categories, nil
}
