package transaction

import (
	"context"

	"github.com/danielgtaylor/huma/v2"
	"github.com/shopspring/decimal"

	"github.com/carson-networks/finance-ledger/internal/service"
)

// Transaction is the API response model for a transaction.
// It is used only for responses, not for request bodies.
type Transaction struct {
	ID            int64   `json:"id" doc:"Transaction ID"`
	AccountID     int64   `json:"accountID" doc:"Owning account ID"`
	Date          string  `json:"date" doc:"Transaction date (YYYY-MM-DD)"`
	Payee         string  `json:"payee" doc:"Payee, or the other account's name for transfers"`
	Notes         *string `json:"notes,omitempty" doc:"Free-form notes"`
	Category      *string `json:"category,omitempty" doc:"Category"`
	Amount        string  `json:"amount" doc:"Signed decimal amount"`
	Currency      *string `json:"currency,omitempty" doc:"ISO 4217 code"`
	Ticker        *string `json:"ticker,omitempty" doc:"Instrument ticker"`
	Shares        *string `json:"shares,omitempty" doc:"Shares, negative for sells"`
	PricePerShare *string `json:"pricePerShare,omitempty" doc:"Price per share"`
	Fee           *string `json:"fee,omitempty" doc:"Fee"`
	LinkedTxID    *int64  `json:"linkedTxID,omitempty" doc:"Transfer counterpart ID"`
}

func decimalString(d *decimal.Decimal) *string {
	if d == nil {
		return nil
	}
	s := d.String()
	return &s
}

func fromService(tx *service.Transaction) Transaction {
	return Transaction{
		ID:            tx.ID,
		AccountID:     tx.AccountID,
		Date:          tx.Date,
		Payee:         tx.Payee,
		Notes:         tx.Notes,
		Category:      tx.Category,
		Amount:        tx.Amount.String(),
		Currency:      tx.Currency,
		Ticker:        tx.Ticker,
		Shares:        decimalString(tx.Shares),
		PricePerShare: decimalString(tx.PricePerShare),
		Fee:           decimalString(tx.Fee),
		LinkedTxID:    tx.LinkedTxID,
	}
}

// TransactionResultBody is a written transaction and its transfer
// counterpart, when there is one.
type TransactionResultBody struct {
	Transaction Transaction  `json:"transaction" doc:"The written transaction"`
	Counterpart *Transaction `json:"counterpart,omitempty" doc:"Mirrored row in the other account of a transfer"`
}

// TransactionResultOutput is the Huma output for transaction writes.
type TransactionResultOutput struct {
	Status int
	Body   TransactionResultBody
}

func resultFromService(result *service.TransactionResult) TransactionResultBody {
	body := TransactionResultBody{Transaction: fromService(&result.Transaction)}
	if result.Counterpart != nil {
		cp := fromService(result.Counterpart)
		body.Counterpart = &cp
	}
	return body
}

// TransactionOutput wraps a single transaction.
type TransactionOutput struct {
	Status int
	Body   Transaction
}

type transactionService interface {
	CreateTransaction(ctx context.Context, input service.TransactionInput) (*service.TransactionResult, error)
	GetTransaction(ctx context.Context, id int64) (*service.Transaction, error)
	ListTransactions(ctx context.Context, accountID *int64, cursor *service.TransactionCursor) ([]service.Transaction, *service.TransactionCursor, error)
	UpdateTransaction(ctx context.Context, id int64, input service.TransactionInput) (*service.TransactionResult, error)
	DeleteTransaction(ctx context.Context, id int64) ([]int64, error)
	CreateInvestment(ctx context.Context, input service.InvestmentInput) (*service.Transaction, error)
	UpdateInvestment(ctx context.Context, id int64, input service.InvestmentInput) (*service.Transaction, error)
	ListPayees(ctx context.Context) ([]string, error)
	ListCategories(ctx context.Context) ([]string, error)
}

// Handler serves the transaction, investment and lookup endpoints.
type Handler struct {
	TransactionService transactionService
}

func NewHandler(svc transactionService) *Handler {
	return &Handler{TransactionService: svc}
}

// Register registers every transaction endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	h.registerCreate(api)
	h.registerList(api)
	h.registerUpdate(api)
	h.registerInvestment(api)
	h.registerLookups(api)
}
