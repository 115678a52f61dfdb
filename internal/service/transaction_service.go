package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/operator/actions"
	"github.com/carson-networks/finance-ledger/internal/rules"
	"github.com/carson-networks/finance-ledger/internal/storage"
	"github.com/carson-networks/finance-ledger/internal/storage/transaction"
)

const defaultLimit = 50

// TransactionService handles transaction business logic.
type TransactionService struct {
	reader    *storage.Reader
	processor Processor
	logger    *logrus.Logger
}

// NewTransactionService creates a new TransactionService.
func NewTransactionService(reader *storage.Reader, processor Processor, logger *logrus.Logger) *TransactionService {
	return &TransactionService{reader: reader, processor: processor, logger: logger}
}

func (in TransactionInput) toAction() actions.TransactionInput {
	return actions.TransactionInput{
		AccountID:     in.AccountID,
		Date:          in.Date,
		Payee:         in.Payee,
		Notes:         in.Notes,
		Category:      in.Category,
		Amount:        in.Amount,
		Currency:      in.Currency,
		Ticker:        in.Ticker,
		Shares:        toNull(in.Shares),
		PricePerShare: toNull(in.PricePerShare),
		Fee:           toNull(in.Fee),
	}
}

func (in InvestmentInput) toAction() (actions.InvestmentInput, error) {
	side, ok := actions.ParseSide(in.Side)
	if !ok {
		return actions.InvestmentInput{}, ledgererr.Validation("side must be buy or sell, got %q", in.Side)
	}
	return actions.InvestmentInput{
		AccountID:     in.AccountID,
		Date:          in.Date,
		Side:          side,
		Ticker:        in.Ticker,
		Shares:        in.Shares,
		PricePerShare: in.PricePerShare,
		Fee:           in.Fee,
		Notes:         in.Notes,
		Currency:      in.Currency,
	}, nil
}

// CreateTransaction runs the rules over input and records it, creating the
// mirror row when the payee names another account.
func (s *TransactionService) CreateTransaction(ctx context.Context, input TransactionInput) (*TransactionResult, error) {
	action := &actions.CreateTransaction{TransactionInput: input.toAction()}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	s.logRuleWarnings(ctx, action.Warnings)
	return resultFromStorage(action.Transaction, action.Counterpart), nil
}

// GetTransaction retrieves a transaction by ID.
func (s *TransactionService) GetTransaction(ctx context.Context, id int64) (*Transaction, error) {
	row, err := s.reader.Transactions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	t := transactionFromStorage(row)
	return &t, nil
}

// ListTransactions returns a page of transactions using cursor-based pagination.
func (s *TransactionService) ListTransactions(ctx context.Context, accountID *int64, cursor *TransactionCursor) ([]Transaction, *TransactionCursor, error) {
	limit := defaultLimit
	offset := 0
	if cursor != nil {
		if cursor.Limit > 0 {
			limit = cursor.Limit
		}
		offset = cursor.Position
	}

	result, err := s.reader.Transactions.List(ctx, &transaction.TransactionFilter{
		AccountID: accountID,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		return nil, nil, err
	}

	if len(result.Transactions) == 0 {
		return nil, nil, nil
	}

	var nextCursor *TransactionCursor
	if result.NextCursor != nil {
		nextCursor = &TransactionCursor{
			Position: result.NextCursor.Position,
			Limit:    result.NextCursor.Limit,
		}
	}

	converted := make([]Transaction, len(result.Transactions))
	for i, row := range result.Transactions {
		converted[i] = transactionFromStorage(row)
	}
	return converted, nextCursor, nil
}

// UpdateTransaction rewrites a transaction and keeps its transfer
// counterpart in step.
func (s *TransactionService) UpdateTransaction(ctx context.Context, id int64, input TransactionInput) (*TransactionResult, error) {
	action := &actions.UpdateTransaction{ID: id, TransactionInput: input.toAction()}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	s.logCounterpartNote(ctx, id, action.Note)
	return resultFromStorage(action.Transaction, action.Counterpart), nil
}

// DeleteTransaction removes a transaction and its transfer counterpart and
// returns the deleted ids.
func (s *TransactionService) DeleteTransaction(ctx context.Context, id int64) ([]int64, error) {
	action := &actions.DeleteTransaction{ID: id}
	if err := s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	s.logCounterpartNote(ctx, id, action.Note)
	return action.Deleted, nil
}

func (s *TransactionService) CreateInvestment(ctx context.Context, input InvestmentInput) (*Transaction, error) {
	in, err := input.toAction()
	if err != nil {
		return nil, err
	}
	action := &actions.CreateInvestment{InvestmentInput: in}
	if err = s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	t := transactionFromStorage(action.Transaction)
	return &t, nil
}

func (s *TransactionService) UpdateInvestment(ctx context.Context, id int64, input InvestmentInput) (*Transaction, error) {
	in, err := input.toAction()
	if err != nil {
		return nil, err
	}
	action := &actions.UpdateInvestment{ID: id, InvestmentInput: in}
	if err = s.processor.Process(ctx, action); err != nil {
		return nil, err
	}
	t := transactionFromStorage(action.Transaction)
	return &t, nil
}

func (s *TransactionService) ListPayees(ctx context.Context) ([]string, error) {
	return s.reader.Transactions.Payees(ctx)
}

func (s *TransactionService) ListCategories(ctx context.Context) ([]string, error) {
	return s.reader.Transactions.Categories(ctx)
}

func (s *TransactionService) entry(ctx context.Context) *logrus.Entry {
	if logData := logging.GetLogData(ctx); logData != nil {
		return logData.Log()
	}
	return logrus.NewEntry(s.logger)
}

func (s *TransactionService) logRuleWarnings(ctx context.Context, warnings []rules.Warning) {
	if len(warnings) == 0 {
		return
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("ruleWarnings", len(warnings))
	}
	entry := s.entry(ctx)
	for _, w := range warnings {
		entry.WithField("ruleID", w.RuleID).WithField("detail", w.Message).Warn("TransactionService.CreateTransaction.ruleWarning")
	}
}

func (s *TransactionService) logCounterpartNote(ctx context.Context, id int64, note string) {
	if note == "" {
		return
	}
	s.entry(ctx).WithField("transactionID", id).WithField("detail", note).Warn("TransactionService.counterpart.unresolved")
}
