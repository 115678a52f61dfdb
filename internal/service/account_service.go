package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-ledger/internal/balance"
	"github.com/carson-networks/finance-ledger/internal/currency"
	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/storage"
)

// AccountService handles account business logic.
type AccountService struct {
	reader    *storage.Reader
	processor Processor
	rates     currency.RateSource
	reporting string
	logger    *logrus.Logger
}

// NewAccountService creates a new AccountService.
func NewAccountService(reader *storage.Reader, processor Processor, rates currency.RateSource, reportingCurrency string, logger *logrus.Logger) *AccountService {
	if rates == nil {
		rates = currency.NewStaticSource(nil)
	}
	return &AccountService{
		reader:    reader,
		processor: processor,
		rates:     rates,
		reporting: reportingCurrency,
		logger:    logger,
	}
}

// CreateAccount creates an account, with an opening-balance entry when the
// initial balance is not zero.
func (s *AccountService) CreateAccount(ctx context.Context, create AccountCreate) (*Account, error) {
	action := &actions.CreateAccount{
		Name:           create.Name,
		InitialBalance: create.InitialBalance,
		Currency:       create.Currency,
	}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	acc := accountFromStorage(action.Account)
	return &acc, nil
}

// GetAccount retrieves an account by ID.
func (s *AccountService) GetAccount(ctx context.Context, id int64) (*Account, error) {
	row, err := s.reader.Accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	acc := accountFromStorage(row)
	return &acc, nil
}

// ListAccounts returns every account with its stored balance.
func (s *AccountService) ListAccounts(ctx context.Context) ([]Account, error) {
	rows, err := s.reader.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Account, len(rows))
	for i, row := range rows {
		out[i] = accountFromStorage(row)
	}
	return out, nil
}

// ListAccountBalances returns every account with its balance recomputed from
// its transactions and converted into the account's currency, plus the rate
// from that currency into reportingCurrency. An empty reportingCurrency uses
// the configured default. Market rates are best effort.
func (s *AccountService) ListAccountBalances(ctx context.Context, reportingCurrency string) ([]Account, error) {
	reporting := s.reporting
	if strings.TrimSpace(reportingCurrency) != "" {
		code, ok := currency.NormalizeCode(reportingCurrency)
		if !ok {
			return nil, ledgererr.Validation("unknown currency %q", reportingCurrency)
		}
		reporting = code
	}

	rows, err := s.reader.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	rawSums, err := s.reader.Transactions.CurrencySums(ctx)
	if err != nil {
		return nil, err
	}
	custom, err := s.reader.Rates.Map(ctx)
	if err != nil {
		return nil, err
	}

	accounts := make([]balance.Account, len(rows))
	for i, row := range rows {
		accounts[i] = balance.Account{ID: row.ID, Name: row.Name, Balance: row.Balance}
		if row.Currency != nil {
			accounts[i].Currency = *row.Currency
		}
	}
	sums := make([]balance.CurrencySum, len(rawSums))
	for i, raw := range rawSums {
		sums[i] = balance.CurrencySum{AccountID: raw.AccountID, Currency: reporting, Total: raw.Total}
		if raw.Currency != nil && *raw.Currency != "" {
			sums[i].Currency = *raw.Currency
		}
	}

	tickers := balance.RequiredTickers(accounts, sums, reporting, custom)
	fetched := currency.Rates{}
	if len(tickers) > 0 {
		got, err := s.rates.FetchRates(ctx, tickers)
		if err != nil {
			s.logger.WithError(err).WithField("tickers", tickers).Warn("AccountService.ListAccountBalances.fetchRates")
		} else if got != nil {
			fetched = got
		}
	}

	computed := balance.Compute(accounts, sums, reporting, fetched, custom)
	out := make([]Account, len(computed))
	for i, acc := range computed {
		out[i] = Account{
			ID:           acc.ID,
			Name:         acc.Name,
			Balance:      acc.Balance,
			Currency:     rows[i].Currency,
			ExchangeRate: acc.ExchangeRate,
		}
	}
	return out, nil
}

// UpdateAccount replaces an account's name and currency.
func (s *AccountService) UpdateAccount(ctx context.Context, id int64, name string, currencyCode *string) (*Account, error) {
	action := &actions.UpdateAccount{ID: id, Name: name, Currency: currencyCode}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	acc := accountFromStorage(action.Account)
	return &acc, nil
}

// RenameAccount changes an account's name.
func (s *AccountService) RenameAccount(ctx context.Context, id int64, name string) (*Account, error) {
	action := &actions.RenameAccount{ID: id, Name: name}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	acc := accountFromStorage(action.Account)
	return &acc, nil
}

// DeleteAccount removes an account and its transactions. Unknown ids succeed.
func (s *AccountService) DeleteAccount(ctx context.Context, id int64) error {
	action := &actions.DeleteAccount{ID: id}
	if err := s.processor.Process(ctx, action); err != nil {
		return err
	}
	if action.Deleted {
		s.logger.WithFields(logrus.Fields{
			"accountID":      id,
			"removedEntries": action.RemovedEntries,
		}).Info("AccountService.DeleteAccount.deleted")
	}
	return nil
}

// CheckBalances compares every cached balance with its transactions.
func (s *AccountService) CheckBalances(ctx context.Context) ([]BalanceDrift, error) {
	rows, err := s.reader.Accounts.List(ctx)
	if err != nil {
		return nil, err
	}
	totals, err := s.reader.Transactions.Totals(ctx)
	if err != nil {
		return nil, err
	}

	var drift []BalanceDrift
	for _, row := range rows {
		if !row.Balance.Equal(totals[row.ID]) {
			drift = append(drift, BalanceDrift{
				AccountID: row.ID,
				Name:      row.Name,
				Stored:    row.Balance,
				Computed:  totals[row.ID],
			})
		}
	}
	return drift, nil
}
