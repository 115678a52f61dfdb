package account

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/um"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/storage/sqlerr"
)

type Writer struct {
	tx bob.Tx
	Reader
}

func NewWriter(tx bob.Tx) *Writer {
	return &Writer{
		tx: tx,
		Reader: Reader{
			exec: tx,
		},
	}
}

// Insert stores a new account and returns its id.
func (w *Writer) Insert(ctx context.Context, create *AccountCreate) (int64, error) {
	result, err := bob.Exec(ctx, w.tx, sqlite.Insert(
		im.Into(tableName, "name", "balance", "currency"),
		im.Values(sqlite.Arg(create.Name, create.Balance, create.Currency)),
	))
	if sqlerr.IsUnique(err) {
		return 0, ledgererr.DuplicateName(create.Name)
	}
	if err != nil {
		return 0, sqlerr.Classify("account.Insert", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, sqlerr.Classify("account.Insert", err)
	}
	return id, nil
}

// Update replaces name and currency. It returns NotFound if no row changed.
func (w *Writer) Update(ctx context.Context, id int64, update *AccountUpdate) error {
	result, err := bob.Exec(ctx, w.tx, sqlite.Update(
		um.Table(tableName),
		um.SetCol("name").ToArg(update.Name),
		um.SetCol("currency").ToArg(update.Currency),
		um.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	))
	if sqlerr.IsUnique(err) {
		return ledgererr.DuplicateName(update.Name)
	}
	return requireRow(id, "account.Update", result, err)
}

func (w *Writer) UpdateBalance(ctx context.Context, id int64, balance decimal.Decimal) error {
	result, err := bob.Exec(ctx, w.tx, sqlite.Update(
		um.Table(tableName),
		um.SetCol("balance").ToArg(balance),
		um.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	))
	return requireRow(id, "account.UpdateBalance", result, err)
}

// AddToBalance applies delta to the stored balance.
func (w *Writer) AddToBalance(ctx context.Context, id int64, delta decimal.Decimal) error {
	if delta.IsZero() {
		return nil
	}
	acc, err := w.FindByID(ctx, id)
	if err != nil {
		return err
	}
	return w.UpdateBalance(ctx, id, acc.Balance.Add(delta))
}

// Delete removes the account row. Deleting a missing id is not an error.
func (w *Writer) Delete(ctx context.Context, id int64) error {
	_, err := bob.Exec(ctx, w.tx, sqlite.Delete(
		dm.From(tableName),
		dm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	))
	return sqlerr.Classify("account.Delete", err)
}

func requireRow(id int64, op string, result sql.Result, err error) error {
	if err != nil {
		return sqlerr.Classify(op, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return sqlerr.Classify(op, err)
	}
	if n == 0 {
		return ledgererr.NotFound("account", id)
	}
	return nil
}
