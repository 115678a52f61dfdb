package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-ledger/internal/currency"
	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

// Processor runs a ledger action as one atomic unit. The operator delegator
// is the production implementation.
type Processor interface {
	Process(ctx context.Context, action actions.IAction) error
}

// Service holds all business logic services.
type Service struct {
	Transaction *TransactionService
	Account     *AccountService
	Rule        *RuleService
	Rate        *RateService
}

// NewService wires the services. Writes go through processor; reads go
// straight to the store's reader.
func NewService(reader *storage.Reader, processor Processor, rates currency.RateSource, reportingCurrency string, logger *logrus.Logger) *Service {
	return &Service{
		Transaction: NewTransactionService(reader, processor, logger),
		Account:     NewAccountService(reader, processor, rates, reportingCurrency, logger),
		Rule:        NewRuleService(reader, processor),
		Rate:        NewRateService(reader, processor),
	}
}
