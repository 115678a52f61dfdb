package storage

import (
	"github.com/stephenafamo/bob"

	"github.com/carson-networks/finance-ledger/internal/storage/account"
	"github.com/carson-networks/finance-ledger/internal/storage/rate"
	"github.com/carson-networks/finance-ledger/internal/storage/rule"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

type Reader struct {
	Accounts     *account.Reader
	Transactions *transaction.Reader
	Rules        *rule.Reader
	Rates        *rate.Reader
}

func NewReader(exec bob.Executor) *Reader {
	return &Reader{
		Accounts:     account.NewReader(exec),
		Transactions: transaction.NewReader(exec),
		Rules:        rule.NewReader(exec),
		Rates:        rate.NewReader(exec),
	}
}
