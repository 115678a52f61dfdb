package rule

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/finance-ledger/internal/handlers/httperr"
	"github.com/carson-networks/finance-ledger/internal/logging"
	"github.com/carson-networks/finance-ledger/internal/rules"
)

// Condition is one predicate of a compound rule.
type Condition struct {
	Field    string `json:"field" doc:"payee, notes, category, amount, date, currency or ticker"`
	Operator string `json:"operator" doc:"equals, contains, starts_with, ends_with, greater_than or less_than"`
	Value    string `json:"value" doc:"Value compared against the field"`
	Negated  bool   `json:"negated,omitempty" doc:"Invert the result"`
}

// Action assigns a value to payee, notes or category.
type Action struct {
	Field string `json:"field" doc:"payee, notes or category"`
	Value string `json:"value" doc:"Value to assign"`
}

// Rule is both the request and response model for a rule.
type Rule struct {
	ID           int64       `json:"id,omitempty" readOnly:"true" doc:"Rule ID"`
	Priority     int         `json:"priority,omitempty" doc:"Higher priorities run first"`
	MatchField   string      `json:"matchField,omitempty" doc:"Single-condition shorthand field"`
	MatchPattern string      `json:"matchPattern,omitempty" doc:"Single-condition shorthand substring"`
	ActionField  string      `json:"actionField,omitempty" doc:"Single-action shorthand field"`
	ActionValue  string      `json:"actionValue,omitempty" doc:"Single-action shorthand value"`
	Logic        string      `json:"logic,omitempty" enum:"and,or" doc:"How conditions combine, defaults to and"`
	Conditions   []Condition `json:"conditions,omitempty" doc:"Compound conditions"`
	Actions      []Action    `json:"actions,omitempty" doc:"Compound actions"`
}

func (r *Rule) toRules(id int64) rules.Rule {
	out := rules.Rule{
		ID:           id,
		Priority:     r.Priority,
		MatchField:   r.MatchField,
		MatchPattern: r.MatchPattern,
		ActionField:  r.ActionField,
		ActionValue:  r.ActionValue,
		Logic:        r.Logic,
	}
	for _, c := range r.Conditions {
		out.Conditions = append(out.Conditions, rules.Condition(c))
	}
	for _, a := range r.Actions {
		out.Actions = append(out.Actions, rules.Action(a))
	}
	return out
}

func fromRules(r *rules.Rule) Rule {
	out := Rule{
		ID:           r.ID,
		Priority:     r.Priority,
		MatchField:   r.MatchField,
		MatchPattern: r.MatchPattern,
		ActionField:  r.ActionField,
		ActionValue:  r.ActionValue,
		Logic:        r.Logic,
	}
	for _, c := range r.Conditions {
		out.Conditions = append(out.Conditions, Condition(c))
	}
	for _, a := range r.Actions {
		out.Actions = append(out.Actions, Action(a))
	}
	return out
}

type RuleOutput struct {
	Status int
	Body   Rule
}

type ListRulesOutput struct {
	Body struct {
		Rules []Rule `json:"rules" doc:"Rules in evaluation order"`
	}
}

func listOutput(rs []rules.Rule) *ListRulesOutput {
	out := &ListRulesOutput{}
	out.Body.Rules = make([]Rule, len(rs))
	for i := range rs {
		out.Body.Rules[i] = fromRules(&rs[i])
	}
	return out
}

type CreateRuleInput struct {
	Body Rule
}

type UpdateRuleInput struct {
	ID   int64 `path:"id" minimum:"1" doc:"Rule ID"`
	Body Rule
}

type RuleIDInput struct {
	ID int64 `path:"id" minimum:"1" doc:"Rule ID"`
}

type ReorderRulesInput struct {
	Body struct {
		IDs []int64 `json:"ids" doc:"Every rule ID, highest priority first"`
	}
}

type DeleteRuleOutput struct {
	Status int
}

type ruleService interface {
	CreateRule(ctx context.Context, rule rules.Rule) (*rules.Rule, error)
	UpdateRule(ctx context.Context, rule rules.Rule) (*rules.Rule, error)
	DeleteRule(ctx context.Context, id int64) error
	ListRules(ctx context.Context) ([]rules.Rule, error)
	ReorderRules(ctx context.Context, ids []int64) ([]rules.Rule, error)
}

// Handler serves the /v1/rule endpoints.
type Handler struct {
	RuleService ruleService
}

func NewHandler(svc ruleService) *Handler {
	return &Handler{RuleService: svc}
}

func (h *Handler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "create-rule",
		Method:      http.MethodPost,
		Path:        "/v1/rule",
		Summary:     "Create a rule",
		Tags:        []string{"Rules"},
	}, h.create)

	huma.Register(api, huma.Operation{
		OperationID: "list-rules",
		Method:      http.MethodGet,
		Path:        "/v1/rules",
		Summary:     "List rules",
		Description: "Returns rules in evaluation order: priority descending, then ID.",
		Tags:        []string{"Rules"},
	}, h.list)

	huma.Register(api, huma.Operation{
		OperationID: "update-rule",
		Method:      http.MethodPut,
		Path:        "/v1/rule/{id}",
		Summary:     "Update a rule",
		Tags:        []string{"Rules"},
	}, h.update)

	huma.Register(api, huma.Operation{
		OperationID:   "delete-rule",
		Method:        http.MethodDelete,
		Path:          "/v1/rule/{id}",
		Summary:       "Delete a rule",
		Tags:          []string{"Rules"},
		DefaultStatus: http.StatusNoContent,
	}, h.delete)

	huma.Register(api, huma.Operation{
		OperationID: "reorder-rules",
		Method:      http.MethodPut,
		Path:        "/v1/rules/order",
		Summary:     "Reorder rules",
		Description: "Assigns descending priorities in the given order.",
		Tags:        []string{"Rules"},
	}, h.reorder)
}

func (h *Handler) create(ctx context.Context, input *CreateRuleInput) (*RuleOutput, error) {
	created, err := h.RuleService.CreateRule(ctx, input.Body.toRules(0))
	if err != nil {
		return nil, httperr.From("failed to create rule", err)
	}
	if logData := logging.GetLogData(ctx); logData != nil {
		logData.AddData("ruleID", created.ID)
	}
	return &RuleOutput{Status: http.StatusCreated, Body: fromRules(created)}, nil
}

func (h *Handler) list(ctx context.Context, _ *struct{}) (*ListRulesOutput, error) {
	rs, err := h.RuleService.ListRules(ctx)
	if err != nil {
		return nil, httperr.From("failed to list rules", err)
	}
	return listOutput(rs), nil
}

func (h *Handler) update(ctx context.Context, input *UpdateRuleInput) (*RuleOutput, error) {
	updated, err := h.RuleService.UpdateRule(ctx, input.Body.toRules(input.ID))
	if err != nil {
		return nil, httperr.From("failed to update rule", err)
	}
	return &RuleOutput{Status: http.StatusOK, Body: fromRules(updated)}, nil
}

func (h *Handler) delete(ctx context.Context, input *RuleIDInput) (*DeleteRuleOutput, error) {
	if err := h.RuleService.DeleteRule(ctx, input.ID); err != nil {
		return nil, httperr.From("failed to delete rule", err)
	}
	return &DeleteRuleOutput{Status: http.StatusNoContent}, nil
}

func (h *Handler) reorder(ctx context.Context, input *ReorderRulesInput) (*ListRulesOutput, error) {
	rs, err := h.RuleService.ReorderRules(ctx, input.Body.IDs)
	if err != nil {
		return nil, httperr.From("failed to reorder rules", err)
	}
	return listOutput(rs), nil
}
