// Package balance turns raw per-currency transaction sums into display
// balances in each account's currency.
package balance

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/currency"
)

// Account is an account as seen by the aggregator. Currency is empty when the
// account follows the reporting currency.
type Account struct {
	ID           int64
	Name         string
	Currency     string
	Balance      decimal.Decimal
	ExchangeRate decimal.Decimal
}

// CurrencySum is the total of one account's transactions in one currency.
type CurrencySum struct {
	AccountID int64
	Currency  string
	Total     decimal.Decimal
}

func (a Account) effectiveCurrency(reporting string) string {
	if a.Currency == "" {
		return reporting
	}
	return a.Currency
}

// Compute returns a copy of accounts where Balance is the converted sum of
// the account's transactions and ExchangeRate converts the account currency
// into the reporting currency. Accounts without sums keep their balance.
func Compute(accounts []Account, sums []CurrencySum, reporting string, fetched currency.Rates, custom currency.CustomRates) []Account {
	byID := make(map[int64]string, len(accounts))
	for _, acc := range accounts {
		byID[acc.ID] = acc.effectiveCurrency(reporting)
	}

	totals := make(map[int64]decimal.Decimal)
	for _, s := range sums {
		dst, ok := byID[s.AccountID]
		if !ok {
			dst = reporting
		}
		rate := currency.Resolve(s.Currency, dst, fetched, custom)
		totals[s.AccountID] = totals[s.AccountID].Add(s.Total.Mul(rate))
	}

	out := make([]Account, len(accounts))
	for i, acc := range accounts {
		if total, ok := totals[acc.ID]; ok {
			acc.Balance = total
		}
		if acc.Currency == "" {
			acc.ExchangeRate = decimal.NewFromInt(1)
		} else {
			acc.ExchangeRate = currency.Resolve(acc.Currency, reporting, fetched, custom)
		}
		out[i] = acc
	}
	return out
}

// RequiredTickers lists the market tickers Compute can use for these inputs:
// a rate to USD for every non-USD currency without a custom rate, plus the
// direct pair for every conversion whose two sides are both market-priced.
func RequiredTickers(accounts []Account, sums []CurrencySum, reporting string, custom currency.CustomRates) []string {
	all := map[string]struct{}{reporting: {}}
	byID := make(map[int64]string, len(accounts))
	for _, acc := range accounts {
		byID[acc.ID] = acc.effectiveCurrency(reporting)
		if acc.Currency != "" {
			all[acc.Currency] = struct{}{}
		}
	}
	for _, s := range sums {
		all[s.Currency] = struct{}{}
	}

	market := make(map[string]struct{})
	for c := range all {
		if _, isCustom := custom[c]; c != currency.Pivot && !isCustom {
			market[c] = struct{}{}
		}
	}
	priced := func(c string) bool {
		_, ok := market[c]
		return ok || c == currency.Pivot
	}

	tickers := make(map[string]struct{})
	for c := range market {
		tickers[currency.PairTicker(c, currency.Pivot)] = struct{}{}
	}
	for _, s := range sums {
		dst, ok := byID[s.AccountID]
		if !ok {
			dst = reporting
		}
		if s.Currency != dst && priced(s.Currency) && priced(dst) {
			tickers[currency.PairTicker(s.Currency, dst)] = struct{}{}
		}
	}
	for _, acc := range accounts {
		if acc.Currency != "" && acc.Currency != reporting && priced(acc.Currency) && priced(reporting) {
			tickers[currency.PairTicker(acc.Currency, reporting)] = struct{}{}
		}
	}

	out := make([]string, 0, len(tickers))
	for t := range tickers {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
