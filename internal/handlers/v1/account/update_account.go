package account

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
	"github.com/carson-networks/finance-ledger/internal/logging"
)

type AccountIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Account ID"`
}

type UpdateAccountInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Account ID"`
	Body struct {
		Name     string `json:"name" minLength:"1" doc:"Account name"`
		Currency string `json:"currency,omitempty" doc:"ISO 4217 code, empty for the reporting currency"`
	}
}

type RenameAccountInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Account ID"`
	Body struct {
		Name string `json:"name" minLength:"1" doc:"New account name"`
	}
}

type DeleteAccountOutput struct {
	Status int
}

func (h *Handler) registerUpdate(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "get-account",
		Method:      http.MethodGet,
		Path:        "/v1/account/{id}",
		Summary:     "Get an account",
		Tags:        []string{"Accounts"},
	}, h.get)

	huma.Register(api, huma.Operation{
		OperationID: "update-account",
		Method:      http.MethodPut,
		Path:        "/v1/account/{id}",
		Summary:     "Update an account",
		Description: "Replaces the account name and currency.",
		Tags:        []string{"Accounts"},
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID: "rename-account",
		Method:      http.MethodPatch,
		Path:        "/v1/account/{id}/name",
		Summary:     "Rename an account",
		Tags:        []string{"Accounts"},
	}, h.rename)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-account",
		Method:        http.MethodDelete,
		Path:          "/v1/account/{id}",
		Summary:       "Delete an account",
		Description:   "Deletes the account and all of its transactions. Deleting an unknown account succeeds.",
		Tags:          []string{"Accounts"},
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func (h *Handler) get(ctx context.Context, input *AccountIDInput) (*AccountOutput, error) {
	acc, err := h.AccountService.GetAccount(ctx, input.ID)
	if err != nil {
		return nil, httperr.From("failed to get account", err)
	}
	return &AccountOutput{Status: http.StatusOK, Body: fromService(acc)}, nil
}

func (h *Handler) update(ctx context.Context, input *UpdateAccountInput) (*AccountOutput, error) {
	acc, err := h.AccountService.UpdateAccount(ctx, input.ID, input.Body.Name, httperr.OptionalString(input.Body.Currency))
	if err != nil {
		return nil, httperr.From("failed to update account", err)
	}
	return &AccountOutput{Status: http.StatusOK, Body: fromService(acc)}, nil
}

func (h *Handler) rename(ctx context.Context, input *RenameAccountInput) (*AccountOutput, error) {
	acc, err := h.AccountService.RenameAccount(ctx, input.ID, input.Body.Name)
	if err != nil {
		return nil, httperr.From("failed to rename account", err)
	}
	return &AccountOutput{Status: http.StatusOK, Body: fromService(acc)}, nil
}

func (h *Handler) delete(ctx context.Context, input *AccountIDInput) (*DeleteAccountOutput, error) {
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("accountID", input.ID)
	}
	if err := h.AccountService.DeleteAccount(ctx, input.ID); err != nil {
		return nil, httperr.From("failed to delete account", err)
	}
	return &DeleteAccountOutput{Status: http.StatusNoContent}, nil
}
