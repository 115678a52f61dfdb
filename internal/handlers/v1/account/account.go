package account

import (
	"context"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-ledger/internal/service"
)

// Account is the API response model for an account.
type Account struct {
	ID           int64   `json:"id" doc:"Account ID"`
	Name         string  `json:"name" doc:"Account name"`
	Balance      string  `json:"balance" doc:"Decimal balance in the account currency"`
	Currency     *string `json:"currency,omitempty" doc:"ISO 4217 code, absent when the account uses the reporting currency"`
	ExchangeRate string  `json:"exchangeRate,omitempty" doc:"Rate from the account currency to the reporting currency"`
}

func fromService(acc *service.Account) Account {
	return Account{
		ID:       acc.ID,
		Name:     acc.Name,
		Balance:  acc.Balance.String(),
		Currency: acc.Currency,
	}
}

// AccountOutput wraps a single account.
type AccountOutput struct {
	Status int
	Body   Account
}

// accountService is the part of the service layer the account endpoints use.
type accountService interface {
	CreateAccount(ctx context.Context, create service.AccountCreate) (*service.Account, error)
	GetAccount(ctx context.Context, id int64) (*service.Account, error)
	ListAccounts(ctx context.Context) ([]service.Account, error)
	ListAccountBalances(ctx context.Context, reportingCurrency string) ([]service.Account, error)
	UpdateAccount(ctx context.Context, id int64, name string, currency *string) (*service.Account, error)
	RenameAccount(ctx context.Context, id int64, name string) (*service.Account, error)
	DeleteAccount(ctx context.Context, id int64) error
}

// Handler serves the /v1/account endpoints.
type Handler struct {
	AccountService accountService
}

func NewHandler(svc accountService) *Handler {
	return &Handler{AccountService: svc}
}

// Register registers every account endpoint with the Huma API.
func (h *Handler) Register(api huma.API) {
	h.registerCreate(api)
	h.registerList(api)
	h.registerUpdate(api)
}
