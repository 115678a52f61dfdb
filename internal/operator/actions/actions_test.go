package actions

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/rules"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/storagetest"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// run performs action in its own transaction, the way the operator does.
func run(t *testing.T, store *storage.Storage, action IAction) error {
	t.Helper()
	ctx := context.Background()
	w, err := store.Write(ctx)
	require.NoError(t, err)
	if err = action.Perform(ctx, w); err != nil {
		require.NoError(t, w.Rollback())
		return err
	}
	require.NoError(t, w.Commit())
	return nil
}

func newAccount(t *testing.T, store *storage.Storage, name, balance string) int64 {
	t.Helper()
	create := &CreateAccount{Name: name, InitialBalance: dec(balance), Date: "2024-01-01"}
	require.NoError(t, run(t, store, create))
	return create.Account.ID
}

func balanceOf(t *testing.T, store *storage.Storage, id int64) string {
	t.Helper()
	acc, err := store.Reader.Accounts.FindByID(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance.String()
}

func assertBalancesMatchEntries(t *testing.T, store *storage.Storage) {
	t.Helper()
	ctx := context.Background()
	accounts, err := store.Reader.Accounts.List(ctx)
	require.NoError(t, err)
	totals, err := store.Reader.Transactions.Totals(ctx)
	require.NoError(t, err)
	for _, acc := range accounts {
		assert.Truef(t, acc.Balance.Equal(totals[acc.ID]),
			"account %s balance %s, entries sum %s", acc.Name, acc.Balance, totals[acc.ID])
	}
}

func assertLinked(t *testing.T, store *storage.Storage, a, b int64) {
	t.Helper()
	ctx := context.Background()
	ta, err := store.Reader.Transactions.FindByID(ctx, a)
	require.NoError(t, err)
	tb, err := store.Reader.Transactions.FindByID(ctx, b)
	require.NoError(t, err)
	require.NotNil(t, ta.LinkedTxID)
	require.NotNil(t, tb.LinkedTxID)
	assert.Equal(t, b, *ta.LinkedTxID)
	assert.Equal(t, a, *tb.LinkedTxID)
	assert.True(t, ta.Amount.Equal(tb.Amount.Neg()))
}

func TestCreateAccount_OpeningBalance(t *testing.T) {
	store := storagetest.New(t)
	id := newAccount(t, store, "Checking", "100")

	rows, err := store.Reader.Transactions.ListByAccount(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, OpeningBalancePayee, rows[0].Payee)
	assert.Equal(t, OpeningBalanceNotes, *rows[0].Notes)
	assert.Equal(t, OpeningBalanceCategory, *rows[0].Category)
	assert.Equal(t, "100", rows[0].Amount.String())
	assert.Equal(t, "2024-01-01", rows[0].Date)
	assert.Equal(t, "100", balanceOf(t, store, id))
}

func TestCreateAccount_ZeroBalanceHasNoEntries(t *testing.T) {
	store := storagetest.New(t)
	id := newAccount(t, store, "Cash", "0")

	rows, err := store.Reader.Transactions.ListByAccount(context.Background(), id)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCreateAccount_NameChecks(t *testing.T) {
	store := storagetest.New(t)
	newAccount(t, store, "  Foo  ", "0")

	err := run(t, store, &CreateAccount{Name: "foo"})
	assert.ErrorIs(t, err, ledgererr.ErrDuplicateName)

	err = run(t, store, &CreateAccount{Name: "   "})
	assert.ErrorIs(t, err, ledgererr.ErrValidation)

	err = run(t, store, &CreateAccount{Name: "Bar", Currency: strPtr("XXQ")})
	assert.ErrorIs(t, err, ledgererr.ErrValidation)

	accounts, err := store.Reader.Accounts.List(context.Background())
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "Foo", accounts[0].Name)
}

func TestUpdateAccount(t *testing.T) {
	store := storagetest.New(t)
	foo := newAccount(t, store, "Foo", "0")
	newAccount(t, store, "Bar", "0")

	rename := &RenameAccount{ID: foo, Name: "FOO"}
	require.NoError(t, run(t, store, rename))
	assert.Equal(t, "FOO", rename.Account.Name)

	err := run(t, store, &RenameAccount{ID: foo, Name: "bar"})
	assert.ErrorIs(t, err, ledgererr.ErrDuplicateName)

	err = run(t, store, &UpdateAccount{ID: 999, Name: "Nope"})
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)

	update := &UpdateAccount{ID: foo, Name: "Euro", Currency: strPtr("eur")}
	require.NoError(t, run(t, store, update))
	require.NotNil(t, update.Account.Currency)
	assert.Equal(t, "EUR", *update.Account.Currency)

	rename = &RenameAccount{ID: foo, Name: "Euro Cash"}
	require.NoError(t, run(t, store, rename))
	assert.Equal(t, "EUR", *rename.Account.Currency)
}

func TestCreateTransaction_Transfer(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "100")
	b := newAccount(t, store, "B", "0")

	create := &CreateTransaction{TransactionInput: TransactionInput{
		AccountID: a, Date: "2024-02-01", Payee: "B", Category: strPtr("Misc"), Amount: dec("-50"),
	}}
	require.NoError(t, run(t, store, create))

	assert.Equal(t, "50", balanceOf(t, store, a))
	assert.Equal(t, "50", balanceOf(t, store, b))
	require.NotNil(t, create.Counterpart)
	assert.Equal(t, transaction.CategoryTransfer, *create.Transaction.Category)
	assert.Equal(t, transaction.CategoryTransfer, *create.Counterpart.Category)
	assert.Equal(t, "A", create.Counterpart.Payee)
	assert.Equal(t, b, create.Counterpart.AccountID)
	assertLinked(t, store, create.Transaction.ID, create.Counterpart.ID)
	assertBalancesMatchEntries(t, store)
}

func TestCreateTransaction_CurrencyNormalized(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "0")

	create := &CreateTransaction{TransactionInput: TransactionInput{
		AccountID: a, Date: "2024-02-01", Payee: "Cafe", Amount: dec("-3"), Currency: strPtr("eur"),
	}}
	require.NoError(t, run(t, store, create))

	stored, err := store.Reader.Transactions.FindByID(context.Background(), create.Transaction.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Currency)
	assert.Equal(t, "EUR", *stored.Currency)

	bad := &CreateTransaction{TransactionInput: TransactionInput{
		AccountID: a, Date: "2024-02-01", Payee: "Cafe", Amount: dec("-3"), Currency: strPtr("ZZQ"),
	}}
	assert.ErrorIs(t, run(t, store, bad), ledgererr.ErrValidation)

	update := &UpdateTransaction{ID: create.Transaction.ID, TransactionInput: create.TransactionInput}
	update.Currency = strPtr("nope")
	assert.ErrorIs(t, run(t, store, update), ledgererr.ErrValidation)
}

func TestCreateTransaction_PayeeMatchingOwnAccountIsNotTransfer(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "0")

	create := &CreateTransaction{TransactionInput: TransactionInput{AccountID: a, Date: "2024-02-01", Payee: "A", Amount: dec("5")}}
	require.NoError(t, run(t, store, create))
	assert.Nil(t, create.Counterpart)
	assert.Nil(t, create.Transaction.Category)
}

func TestCreateTransaction_UnknownAccount(t *testing.T) {
	store := storagetest.New(t)

	err := run(t, store, &CreateTransaction{TransactionInput: TransactionInput{AccountID: 77, Date: "2024-02-01", Payee: "X", Amount: dec("1")}})
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)
	assert.ErrorIs(t, err, ledgererr.ErrConstraint)
}

func TestCreateTransaction_RulesApplyAndHighestPriorityWins(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "0")
	newAccount(t, store, "Savings", "0")

	require.NoError(t, run(t, store, &CreateRule{Rule: rules.Rule{
		Priority: 10, MatchField: "payee", MatchPattern: "coffee", ActionField: "category", ActionValue: "High",
	}}))
	require.NoError(t, run(t, store, &CreateRule{Rule: rules.Rule{
		Priority: 1, MatchField: "payee", MatchPattern: "coffee", ActionField: "category", ActionValue: "Low",
	}}))
	require.NoError(t, run(t, store, &CreateRule{Rule: rules.Rule{
		Priority: 5,
		Conditions: []rules.Condition{{Field: "notes", Operator: "equals", Value: "to savings"}},
		Actions:    []rules.Action{{Field: "payee", Value: "Savings"}, {Field: "category", Value: "Saving"}},
	}}))

	coffee := &CreateTransaction{TransactionInput: TransactionInput{AccountID: a, Date: "2024-02-01", Payee: "Corner Coffee", Amount: dec("-3")}}
	require.NoError(t, run(t, store, coffee))
	assert.Equal(t, "High", *coffee.Transaction.Category)

	// A rule that renames the payee to an account turns the entry into a
	// transfer, and the transfer category overrides the rule's category.
	move := &CreateTransaction{TransactionInput: TransactionInput{AccountID: a, Date: "2024-02-02", Payee: "Bank", Notes: strPtr("to savings"), Amount: dec("-20")}}
	require.NoError(t, run(t, store, move))
	assert.Equal(t, "Savings", move.Transaction.Payee)
	assert.Equal(t, transaction.CategoryTransfer, *move.Transaction.Category)
	require.NotNil(t, move.Counterpart)
	assertBalancesMatchEntries(t, store)
}

func TestUpdateTransaction_MirrorsTransfer(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "100")
	b := newAccount(t, store, "B", "0")

	create := &CreateTransaction{TransactionInput: TransactionInput{AccountID: a, Date: "2024-02-01", Payee: "B", Notes: strPtr("rent"), Amount: dec("-50")}}
	require.NoError(t, run(t, store, create))

	update := &UpdateTransaction{ID: create.Transaction.ID, TransactionInput: TransactionInput{
		AccountID: a, Date: "2024-02-03", Payee: "B", Notes: strPtr("rent share"), Category: strPtr(transaction.CategoryTransfer), Amount: dec("-80"),
	}}
	require.NoError(t, run(t, store, update))

	assert.Equal(t, "20", balanceOf(t, store, a))
	assert.Equal(t, "80", balanceOf(t, store, b))
	require.NotNil(t, update.Counterpart)
	assert.Equal(t, "2024-02-03", update.Counterpart.Date)
	assert.Equal(t, "rent share", *update.Counterpart.Notes)
	assert.Equal(t, "A", update.Counterpart.Payee)
	assertLinked(t, store, create.Transaction.ID, create.Counterpart.ID)

	// Editing the mirror side flows back to the original.
	back := &UpdateTransaction{ID: create.Counterpart.ID, TransactionInput: TransactionInput{
		AccountID: b, Date: "2024-02-04", Payee: "A", Category: strPtr(transaction.CategoryTransfer), Amount: dec("30"),
	}}
	require.NoError(t, run(t, store, back))
	assert.Equal(t, "70", balanceOf(t, store, a))
	assert.Equal(t, "30", balanceOf(t, store, b))
	assertLinked(t, store, create.Transaction.ID, create.Counterpart.ID)
	assertBalancesMatchEntries(t, store)
}

func TestUpdateTransaction_MoveBetweenAccounts(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "1000")
	b := newAccount(t, store, "B", "1000")

	create := &CreateTransaction{TransactionInput: TransactionInput{AccountID: a, Date: "2024-03-01", Payee: "Store", Amount: dec("-201")}}
	require.NoError(t, run(t, store, create))
	assert.Equal(t, "799", balanceOf(t, store, a))

	update := &UpdateTransaction{ID: create.Transaction.ID, TransactionInput: TransactionInput{AccountID: b, Date: "2024-03-01", Payee: "Store", Amount: dec("-201")}}
	require.NoError(t, run(t, store, update))

	assert.Equal(t, "1000", balanceOf(t, store, a))
	assert.Equal(t, "799", balanceOf(t, store, b))
	assertBalancesMatchEntries(t, store)
}

func TestUpdateTransaction_Errors(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "10")

	err := run(t, store, &UpdateTransaction{ID: 404, TransactionInput: TransactionInput{AccountID: a, Date: "2024-03-01", Amount: dec("1")}})
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)

	rows, err := store.Reader.Transactions.ListByAccount(context.Background(), a)
	require.NoError(t, err)
	err = run(t, store, &UpdateTransaction{ID: rows[0].ID, TransactionInput: TransactionInput{AccountID: 999, Date: "2024-03-01", Amount: dec("1")}})
	assert.ErrorIs(t, err, ledgererr.ErrConstraint)
	assert.Equal(t, "10", balanceOf(t, store, a))
}

func TestDeleteTransaction_RemovesBothSides(t *testing.T) {
	for _, deleteMirror := range []bool{false, true} {
		store := storagetest.New(t)
		a := newAccount(t, store, "A", "100")
		b := newAccount(t, store, "B", "0")

		create := &CreateTransaction{TransactionInput: TransactionInput{AccountID: a, Date: "2024-02-01", Payee: "B", Amount: dec("-50")}}
		require.NoError(t, run(t, store, create))

		target := create.Transaction.ID
		if deleteMirror {
			target = create.Counterpart.ID
		}
		del := &DeleteTransaction{ID: target}
		require.NoError(t, run(t, store, del))
		assert.Len(t, del.Deleted, 2)

		assert.Equal(t, "100", balanceOf(t, store, a))
		assert.Equal(t, "0", balanceOf(t, store, b))
		_, err := store.Reader.Transactions.FindByID(context.Background(), create.Counterpart.ID)
		assert.ErrorIs(t, err, ledgererr.ErrNotFound)
		assertBalancesMatchEntries(t, store)
	}
}

func TestDeleteTransaction_NotFound(t *testing.T) {
	store := storagetest.New(t)
	err := run(t, store, &DeleteTransaction{ID: 1})
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)
}

// legacyTransfer writes an unlinked transfer pair the way older data stored
// them: matched only by notes.
type legacyTransfer struct {
	from, to int64
	amount   decimal.Decimal
	notes    string
	ids      []int64
}

func (l *legacyTransfer) Perform(ctx context.Context, writer *storage.Writer) error {
	for _, row := range []*transaction.Transaction{
		{AccountID: l.from, Date: "2023-12-01", Payee: "legacy", Notes: strPtr(l.notes), Category: strPtr(transaction.CategoryTransfer), Amount: l.amount},
		{AccountID: l.to, Date: "2023-12-01", Payee: "legacy", Notes: strPtr(l.notes), Category: strPtr(transaction.CategoryTransfer), Amount: l.amount.Neg()},
	} {
		id, err := writer.Transaction.Insert(ctx, row)
		if err != nil {
			return err
		}
		if err = writer.Account.AddToBalance(ctx, row.AccountID, row.Amount); err != nil {
			return err
		}
		l.ids = append(l.ids, id)
	}
	return nil
}

func TestUpdateTransaction_BackfillsLegacyLink(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "0")
	b := newAccount(t, store, "B", "0")

	legacy := &legacyTransfer{from: a, to: b, amount: dec("-25"), notes: "old move"}
	require.NoError(t, run(t, store, legacy))

	update := &UpdateTransaction{ID: legacy.ids[0], TransactionInput: TransactionInput{
		AccountID: a, Date: "2023-12-02", Payee: "B", Notes: strPtr("old move"), Category: strPtr(transaction.CategoryTransfer), Amount: dec("-40"),
	}}
	require.NoError(t, run(t, store, update))

	assertLinked(t, store, legacy.ids[0], legacy.ids[1])
	assert.Equal(t, "-40", balanceOf(t, store, a))
	assert.Equal(t, "40", balanceOf(t, store, b))
	assertBalancesMatchEntries(t, store)
}

func TestDeleteTransaction_LegacyFallback(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "0")
	b := newAccount(t, store, "B", "0")

	legacy := &legacyTransfer{from: a, to: b, amount: dec("-25"), notes: "old move"}
	require.NoError(t, run(t, store, legacy))

	del := &DeleteTransaction{ID: legacy.ids[1]}
	require.NoError(t, run(t, store, del))
	assert.ElementsMatch(t, legacy.ids, del.Deleted)
	assert.Equal(t, "0", balanceOf(t, store, a))
	assert.Equal(t, "0", balanceOf(t, store, b))
}

func TestDeleteTransaction_AmbiguousLegacyMatch(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "0")
	b := newAccount(t, store, "B", "0")
	c := newAccount(t, store, "C", "0")

	first := &legacyTransfer{from: a, to: b, amount: dec("-10"), notes: "split"}
	require.NoError(t, run(t, store, first))
	second := &legacyTransfer{from: a, to: c, amount: dec("-10"), notes: "split"}
	require.NoError(t, run(t, store, second))

	// The row in B sees two candidates in A, both negating it.
	del := &DeleteTransaction{ID: first.ids[1]}
	require.NoError(t, run(t, store, del))
	assert.Equal(t, []int64{first.ids[1]}, del.Deleted)
	assert.NotEmpty(t, del.Note)
	assertBalancesMatchEntries(t, store)
}

func TestDeleteTransaction_AmbiguityResolvedByAmount(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "0")
	b := newAccount(t, store, "B", "0")
	c := newAccount(t, store, "C", "0")

	first := &legacyTransfer{from: a, to: b, amount: dec("-10"), notes: "split"}
	require.NoError(t, run(t, store, first))
	second := &legacyTransfer{from: c, to: b, amount: dec("-15"), notes: "split"}
	require.NoError(t, run(t, store, second))

	// The row in A has candidates in B (+10, +15) and C (-15); only +10 negates it.
	del := &DeleteTransaction{ID: first.ids[0]}
	require.NoError(t, run(t, store, del))
	assert.ElementsMatch(t, first.ids, del.Deleted)
	assertBalancesMatchEntries(t, store)
}

func TestDeleteAccount(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "100")
	b := newAccount(t, store, "B", "0")

	create := &CreateTransaction{TransactionInput: TransactionInput{AccountID: a, Date: "2024-02-01", Payee: "B", Amount: dec("-50")}}
	require.NoError(t, run(t, store, create))

	del := &DeleteAccount{ID: a}
	require.NoError(t, run(t, store, del))
	assert.True(t, del.Deleted)
	assert.Equal(t, int64(2), del.RemovedEntries)

	_, err := store.Reader.Accounts.FindByID(context.Background(), a)
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)

	survivor, err := store.Reader.Transactions.FindByID(context.Background(), create.Counterpart.ID)
	require.NoError(t, err)
	assert.Nil(t, survivor.LinkedTxID)
	assert.Equal(t, "50", balanceOf(t, store, b))
	assertBalancesMatchEntries(t, store)

	missing := &DeleteAccount{ID: a}
	require.NoError(t, run(t, store, missing))
	assert.False(t, missing.Deleted)
}

func TestInvestment_BuyThenSell(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "Broker", "1000")

	buy := &CreateInvestment{InvestmentInput: InvestmentInput{
		AccountID: a, Date: "2024-04-01", Side: SideBuy, Ticker: "acme", Shares: dec("10"), PricePerShare: dec("100"), Fee: dec("2"),
	}}
	require.NoError(t, run(t, store, buy))
	assert.Equal(t, "-2", balanceOf(t, store, a))
	assert.Equal(t, "Buy", buy.Transaction.Payee)
	assert.Equal(t, CategoryInvestment, *buy.Transaction.Category)
	assert.Equal(t, "ACME", *buy.Transaction.Ticker)
	assert.Equal(t, "Bought 10 shares of ACME", *buy.Transaction.Notes)
	assert.Equal(t, "10", buy.Transaction.Shares.Decimal.String())

	sell := &UpdateInvestment{ID: buy.Transaction.ID, InvestmentInput: buy.InvestmentInput}
	sell.Side = SideSell
	require.NoError(t, run(t, store, sell))
	assert.Equal(t, "1998", balanceOf(t, store, a))
	assert.Equal(t, "998", sell.Transaction.Amount.String())
	assert.Equal(t, "-10", sell.Transaction.Shares.Decimal.String())
	assert.Equal(t, "Sell", sell.Transaction.Payee)
	assertBalancesMatchEntries(t, store)
}

func TestInvestment_Validation(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "Broker", "0")

	cases := map[string]InvestmentInput{
		"no ticker":    {AccountID: a, Date: "2024-04-01", Side: SideBuy, Shares: dec("1")},
		"zero shares":  {AccountID: a, Date: "2024-04-01", Side: SideBuy, Ticker: "X"},
		"bad side":     {AccountID: a, Date: "2024-04-01", Side: "hold", Ticker: "X", Shares: dec("1")},
		"no date":      {AccountID: a, Side: SideBuy, Ticker: "X", Shares: dec("1")},
		"bad currency": {AccountID: a, Date: "2024-04-01", Side: SideBuy, Ticker: "X", Shares: dec("1"), Currency: strPtr("ZZQ")},
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			err := run(t, store, &CreateInvestment{InvestmentInput: in})
			assert.ErrorIs(t, err, ledgererr.ErrValidation)
		})
	}
}

func TestInvestment_CurrencyNormalized(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "Broker", "0")

	buy := &CreateInvestment{InvestmentInput: InvestmentInput{
		AccountID: a, Date: "2024-04-01", Side: SideBuy, Ticker: "X", Shares: dec("1"), PricePerShare: dec("5"), Currency: strPtr(" gbp "),
	}}
	require.NoError(t, run(t, store, buy))

	stored, err := store.Reader.Transactions.FindByID(context.Background(), buy.Transaction.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.Currency)
	assert.Equal(t, "GBP", *stored.Currency)
}

func TestUpdateInvestment_OnTransferSideClearsBothLinks(t *testing.T) {
	store := storagetest.New(t)
	ctx := context.Background()
	a := newAccount(t, store, "A", "100")
	b := newAccount(t, store, "B", "0")

	create := &CreateTransaction{TransactionInput: TransactionInput{
		AccountID: a, Date: "2024-02-01", Payee: "B", Amount: dec("-50"),
	}}
	require.NoError(t, run(t, store, create))
	assertLinked(t, store, create.Transaction.ID, create.Counterpart.ID)

	update := &UpdateInvestment{ID: create.Transaction.ID, InvestmentInput: InvestmentInput{
		AccountID: a, Date: "2024-02-01", Side: SideBuy, Ticker: "acme", Shares: dec("1"), PricePerShare: dec("10"),
	}}
	require.NoError(t, run(t, store, update))

	primary, err := store.Reader.Transactions.FindByID(ctx, create.Transaction.ID)
	require.NoError(t, err)
	assert.Nil(t, primary.LinkedTxID)
	assert.Equal(t, CategoryInvestment, *primary.Category)

	former, err := store.Reader.Transactions.FindByID(ctx, create.Counterpart.ID)
	require.NoError(t, err)
	assert.Nil(t, former.LinkedTxID)
	assert.Equal(t, "50", former.Amount.String())
	assert.Equal(t, "90", balanceOf(t, store, a))
	assert.Equal(t, "50", balanceOf(t, store, b))
	assertBalancesMatchEntries(t, store)

	// The former mirror is now independent: deleting it leaves the investment.
	del := &DeleteTransaction{ID: create.Counterpart.ID}
	require.NoError(t, run(t, store, del))
	_, err = store.Reader.Transactions.FindByID(ctx, create.Transaction.ID)
	assert.NoError(t, err)
	assertBalancesMatchEntries(t, store)
}

type failAfter struct {
	inner IAction
}

func (f *failAfter) Perform(ctx context.Context, writer *storage.Writer) error {
	if err := f.inner.Perform(ctx, writer); err != nil {
		return err
	}
	return errors.New("injected failure")
}

func TestFailedAction_LeavesNoPartialEffect(t *testing.T) {
	store := storagetest.New(t)
	a := newAccount(t, store, "A", "100")
	b := newAccount(t, store, "B", "0")

	err := run(t, store, &failAfter{inner: &CreateTransaction{TransactionInput: TransactionInput{
		AccountID: a, Date: "2024-02-01", Payee: "B", Amount: dec("-50"),
	}}})
	require.Error(t, err)

	assert.Equal(t, "100", balanceOf(t, store, a))
	assert.Equal(t, "0", balanceOf(t, store, b))
	rows, err := store.Reader.Transactions.ListByAccount(context.Background(), b)
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestRules_CrudAndReorder(t *testing.T) {
	store := storagetest.New(t)
	ctx := context.Background()

	first := &CreateRule{Rule: rules.Rule{Priority: 1, MatchField: "payee", MatchPattern: "a"}}
	require.NoError(t, run(t, store, first))
	second := &CreateRule{Rule: rules.Rule{Priority: 2, Logic: "OR"}}
	require.NoError(t, run(t, store, second))
	assert.Equal(t, "or", second.Rule.Logic)
	assert.Equal(t, "and", first.Rule.Logic)

	err := run(t, store, &CreateRule{Rule: rules.Rule{Logic: "xor"}})
	assert.ErrorIs(t, err, ledgererr.ErrValidation)

	require.NoError(t, run(t, store, &ReorderRules{IDs: []int64{first.Rule.ID, second.Rule.ID}}))
	list, err := store.Reader.Rules.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, first.Rule.ID, list[0].ID)
	assert.Equal(t, 2, list[0].Priority)
	assert.Equal(t, 1, list[1].Priority)

	err = run(t, store, &ReorderRules{IDs: []int64{first.Rule.ID, 999}})
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)

	updated := first.Rule
	updated.ActionField, updated.ActionValue = "category", "A"
	require.NoError(t, run(t, store, &UpdateRule{Rule: updated}))
	got, err := store.Reader.Rules.FindByID(ctx, first.Rule.ID)
	require.NoError(t, err)
	assert.Equal(t, "A", got.ActionValue)

	err = run(t, store, &UpdateRule{Rule: rules.Rule{ID: 999}})
	assert.ErrorIs(t, err, ledgererr.ErrNotFound)

	require.NoError(t, run(t, store, &DeleteRule{ID: first.Rule.ID}))
	require.NoError(t, run(t, store, &DeleteRule{ID: first.Rule.ID}))
	list, err = store.Reader.Rules.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestSetCustomRate(t *testing.T) {
	store := storagetest.New(t)

	set := &SetCustomRate{Currency: " eur ", Rate: dec("1.08")}
	require.NoError(t, run(t, store, set))
	assert.Equal(t, "EUR", set.Currency)

	assert.ErrorIs(t, run(t, store, &SetCustomRate{Currency: "EUR", Rate: dec("0")}), ledgererr.ErrValidation)
	assert.ErrorIs(t, run(t, store, &SetCustomRate{Currency: "NOPE", Rate: dec("1")}), ledgererr.ErrValidation)

	rate, ok, err := store.Reader.Rates.Get(context.Background(), "EUR")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "1.08", rate.Rate.String())
}
