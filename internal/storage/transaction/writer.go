package transaction

import (
	"context"
	"database/sql"

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

// Insert stores t and returns the new id. t.ID is ignored.
func (w *Writer) Insert(ctx context.Context, t *Transaction) (int64, error) {
	result, err := bob.Exec(ctx, w.tx, sqlite.Insert(
		im.Into(tableName,
			"account_id", "date", "payee", "notes", "category", "amount",
			"ticker", "shares", "price_per_share", "fee", "currency", "linked_tx_id",
		),
		im.Values(sqlite.Arg(
			t.AccountID, t.Date, t.Payee, t.Notes, t.Category, t.Amount,
			t.Ticker, t.Shares, t.PricePerShare, t.Fee, t.Currency, t.LinkedTxID,
		)),
	))
	if sqlerr.IsForeignKey(err) {
		return 0, ledgererr.UnknownAccount(t.AccountID)
	}
	if err != nil {
		return 0, sqlerr.Classify("transaction.Insert", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, sqlerr.Classify("transaction.Insert", err)
	}
	return id, nil
}

// Update overwrites every column of the row identified by t.ID.
func (w *Writer) Update(ctx context.Context, t *Transaction) error {
	result, err := bob.Exec(ctx, w.tx, sqlite.Update(
		um.Table(tableName),
		um.SetCol("account_id").ToArg(t.AccountID),
		um.SetCol("date").ToArg(t.Date),
		um.SetCol("payee").ToArg(t.Payee),
		um.SetCol("notes").ToArg(t.Notes),
		um.SetCol("category").ToArg(t.Category),
		um.SetCol("amount").ToArg(t.Amount),
		um.SetCol("ticker").ToArg(t.Ticker),
		um.SetCol("shares").ToArg(t.Shares),
		um.SetCol("price_per_share").ToArg(t.PricePerShare),
		um.SetCol("fee").ToArg(t.Fee),
		um.SetCol("currency").ToArg(t.Currency),
		um.SetCol("linked_tx_id").ToArg(t.LinkedTxID),
		um.Where(sqlite.Quote("id").EQ(sqlite.Arg(t.ID))),
	))
	if sqlerr.IsForeignKey(err) {
		return ledgererr.UnknownAccount(t.AccountID)
	}
	return requireRow(t.ID, "transaction.Update", result, err)
}

// SetLinked points id at its transfer counterpart. A nil linkedID clears it.
func (w *Writer) SetLinked(ctx context.Context, id int64, linkedID *int64) error {
	result, err := bob.Exec(ctx, w.tx, sqlite.Update(
		um.Table(tableName),
		um.SetCol("linked_tx_id").ToArg(linkedID),
		um.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	))
	return requireRow(id, "transaction.SetLinked", result, err)
}

func (w *Writer) Delete(ctx context.Context, id int64) error {
	result, err := bob.Exec(ctx, w.tx, sqlite.Delete(
		dm.From(tableName),
		dm.Where(sqlite.Quote("id").EQ(sqlite.Arg(id))),
	))
	return requireRow(id, "transaction.Delete", result, err)
}

// DeleteByAccount removes every transaction owned by accountID.
func (w *Writer) DeleteByAccount(ctx context.Context, accountID int64) (int64, error) {
	result, err := bob.Exec(ctx, w.tx, sqlite.Delete(
		dm.From(tableName),
		dm.Where(sqlite.Quote("account_id").EQ(sqlite.Arg(accountID))),
	))
	if err != nil {
		return 0, sqlerr.Classify("transaction.DeleteByAccount", err)
	}
	n, err := result.RowsAffected()
	return n, sqlerr.Classify("transaction.DeleteByAccount", err)
}

// ClearLinksInto unlinks rows in other accounts whose counterpart belongs to
// accountID.
func (w *Writer) ClearLinksInto(ctx context.Context, accountID int64) error {
	_, err := bob.Exec(ctx, w.tx, sqlite.Update(
		um.Table(tableName),
		um.SetCol("linked_tx_id").ToArg(nil),
		um.Where(sqlite.Raw("linked_tx_id IN (SELECT id FROM transactions WHERE account_id = ?)", accountID)),
		um.Where(sqlite.Quote("account_id").NE(sqlite.Arg(accountID))),
	))
	return sqlerr.Classify("transaction.ClearLinksInto", err)
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
		return ledgererr.NotFound("transaction", id)
	}
	return nil
}
