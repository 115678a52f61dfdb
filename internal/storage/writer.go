package storage

import (
	"context"

	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-ledger/internal/storage/account"
	"github.com/carson-networks/finance-ledger/internal/storage/rate"
	"github.com/carson-networks/finance-ledger/internal/storage/rule"
	"github.com/carson-networks/finance-ledger/internal/storage/sqlerr"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

type Writer struct {
	tx          bob.Tx
	Account     *account.Writer
	Transaction *transaction.Writer
	Rule        *rule.Writer
	Rate        *rate.Writer
}

func NewWriter(tx bob.Tx) Writer {
	return Writer{
		tx:          tx,
		Account:     account.NewWriter(tx),
		Transaction: transaction.NewWriter(tx),
		Rule:        rule.NewWriter(tx),
		Rate:        rate.NewWriter(tx),
	}
}

func (w *Writer) Commit() error {
	return sqlerr.Classify("storage.Commit", w.tx.Commit(context.Background()))
}

func (w *Writer) Rollback() error {
	return w.tx.Rollback(context.Background())
}
