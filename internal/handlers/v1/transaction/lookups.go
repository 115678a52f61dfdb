package transaction

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
)

// NamesOutput is a sorted list of distinct values.
type NamesOutput struct {
	Body struct {
		Values []string `json:"values" doc:"Distinct values in ascending order"`
	}
}

func (h *Handler) registerLookups(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-payees",
		Method:      http.MethodGet,
		Path:        "/v1/payees",
		Summary:     "List payees",
		Tags:        []string{"Transactions"},
	}, h.payees)

	huma.Register(api, huma.Operation{
		OperationID: "list-categories",
		Method:      http.MethodGet,
		Path:        "/v1/categories",
		Summary:     "List categories",
		Description: "Returns every category in use except Transfer.",
		Tags:        []string{"Transactions"},
	}, h.categories)
}

func namesOutput(values []string) *NamesOutput {
	out := &NamesOutput{}
	out.Body.Values = values
	if out.Body.Values == nil {
		out.Body.Values = []string{}
	}
	return out
}

func (h *Handler) payees(ctx context.Context, _ *struct{}) (*NamesOutput, error) {
	values, err := h.TransactionService.ListPayees(ctx)
	if err != nil {
		return nil, httperr.From("failed to list payees", err)
	}
	return namesOutput(values), nil
}

func (h *Handler) categories(ctx context.Context, _ *struct{}) (*NamesOutput, error) {
	values, err := h.TransactionService.ListCategories(ctx)
	if err != nil {
		return nil, httperr.From("failed to list categories", err)
	}
	return namesOutput(values), nil
}
