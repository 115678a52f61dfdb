// Package rate stores user-entered exchange rates to USD.
package rate

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stephenafamo/bob"
	"github.com/stephenafamo/bob/dialect/sqlite"
	"github.com/stephenafamo/bob/dialect/sqlite/dm"
	"github.com/stephenafamo/bob/dialect/sqlite/im"
	"github.com/stephenafamo/bob/dialect/sqlite/sm"
	"github.com/stephenafamo/scan"

	"github.com/carson-networks/finance-ledger/internal/currency"
	"github.com/carson-networks/finance-ledger/internal/storage/sqlerr"
)

const tableName = "custom_exchange_rates"

// CustomRate is a currency's overridden rate to USD.
type CustomRate struct {
	Currency string          `db:"currency"`
	Rate     decimal.Decimal `db:"rate"`
}

type Reader struct {
	exec bob.Executor
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{exec: exec}
}

// List returns every custom rate ordered by currency code.
func (r *Reader) List(ctx context.Context) ([]CustomRate, error) {
	rows, err := bob.All(ctx, r.exec, sqlite.Select(
		sm.Columns("currency", "rate"),
		sm.From(tableName),
		sm.OrderBy("currency").Asc(),
	), scan.StructMapper[CustomRate]())
	if err != nil {
		return nil, sqlerr.Classify("rate.List", err)
	}
	return rows, nil
}

// Get returns the custom rate for code. ok is false when none is stored.
func (r *Reader) Get(ctx context.Context, code string) (CustomRate, bool, error) {
	rows, err := bob.All(ctx, r.exec, sqlite.Select(
		sm.Columns("currency", "rate"),
		sm.From(tableName),
		sm.Where(sqlite.Quote("currency").EQ(sqlite.Arg(code))),
	), scan.StructMapper[CustomRate]())
	if err != nil {
		return CustomRate{}, false, sqlerr.Classify("rate.Get", err)
	}
	if len(rows) == 0 {
		return CustomRate{}, false, nil
	}
	return rows[0], true, nil
}

// Map returns the custom rates keyed by currency code.
func (r *Reader) Map(ctx context.Context) (currency.CustomRates, error) {
	rows, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(currency.CustomRates, len(rows))
	for _, row := range rows {
		out[row.Currency] = row.Rate
	}
	return out, nil
}

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

// Set stores rate for code, replacing any previous value.
func (w *Writer) Set(ctx context.Context, code string, rate decimal.Decimal) error {
	if err := w.Delete(ctx, code); err != nil {
		return err
	}
	_, err := bob.Exec(ctx, w.tx, sqlite.Insert(
		im.Into(tableName, "currency", "rate"),
		im.Values(sqlite.Arg(code, rate)),
	))
	return sqlerr.Classify("rate.Set", err)
}

func (w *Writer) Delete(ctx context.Context, code string) error {
	_, err := bob.Exec(ctx, w.tx, sqlite.Delete(
		dm.From(tableName),
		dm.Where(sqlite.Quote("currency").EQ(sqlite.Arg(code))),
	))
	return sqlerr.Classify("rate.Delete", err)
}
