package rule

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/carson-networks/finance-ledger/internal/ledgererr"
	"github.com/carson-networks/finance-ledger/internal/rules"
)

type mockRuleService struct {
	mock.Mock
}

func (m *mockRuleService) CreateRule(ctx context.Context, rule rules.Rule) (*rules.Rule, error) {
	args := m.Called(ctx, rule)
	r, _ := args.Get(0).(*rules.Rule)
	return r, args.Error(1)
}

func (m *mockRuleService) UpdateRule(ctx context.Context, rule rules.Rule) (*rules.Rule, error) {
	args := m.Called(ctx, rule)
	r, _ := args.Get(0).(*rules.Rule)
	return r, args.Error(1)
}

func (m *mockRuleService) DeleteRule(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRuleService) ListRules(ctx context.Context) ([]rules.Rule, error) {
	args := m.Called(ctx)
	rs, _ := args.Get(0).([]rules.Rule)
	return rs, args.Error(1)
}

func (m *mockRuleService) ReorderRules(ctx context.Context, ids []int64) ([]rules.Rule, error) {
	args := m.Called(ctx, ids)
	rs, _ := args.Get(0).([]rules.Rule)
	return rs, args.Error(1)
}

func newTestAPI(t *testing.T, svc ruleService) humatest.TestAPI {
	t.Helper()
	_, api := humatest.New(t)
	NewHandler(svc).Register(api)
	return api
}

func TestHTTP_CreateRule_Compound(t *testing.T) {
	svc := new(mockRuleService)
	svc.On("CreateRule", mock.Anything, mock.MatchedBy(func(r rules.Rule) bool {
		return r.ID == 0 && r.Logic == "or" && len(r.Conditions) == 2 &&
			r.Conditions[1].Negated && len(r.Actions) == 1 && r.Actions[0].Field == "category"
	})).Return(&rules.Rule{
		ID:    4,
		Logic: "or",
		Conditions: []rules.Condition{
			{Field: "payee", Operator: "contains", Value: "coffee"},
			{Field: "amount", Operator: "greater_than", Value: "0", Negated: true},
		},
		Actions: []rules.Action{{Field: "category", Value: "Dining"}},
	}, nil)

	resp := newTestAPI(t, svc).Post("/v1/rule", map[string]any{
		"logic": "or",
		"conditions": []map[string]any{
			{"field": "payee", "operator": "contains", "value": "coffee"},
			{"field": "amount", "operator": "greater_than", "value": "0", "negated": true},
		},
		"actions": []map[string]any{{"field": "category", "value": "Dining"}},
	})

	require.Equal(t, http.StatusCreated, resp.Code)
	var body Rule
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, int64(4), body.ID)
	assert.Len(t, body.Conditions, 2)
	svc.AssertExpectations(t)
}

func TestHTTP_CreateRule_InvalidLogic(t *testing.T) {
	svc := new(mockRuleService)

	resp := newTestAPI(t, svc).Post("/v1/rule", map[string]any{"logic": "xor"})

	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
	svc.AssertNotCalled(t, "CreateRule")
}

func TestHTTP_UpdateRule_UsesPathID(t *testing.T) {
	svc := new(mockRuleService)
	svc.On("UpdateRule", mock.Anything, mock.MatchedBy(func(r rules.Rule) bool {
		return r.ID == 9 && r.MatchField == "payee"
	})).Return(nil, ledgererr.NotFound("rule", 9))

	resp := newTestAPI(t, svc).Put("/v1/rule/9", map[string]any{
		"matchField": "payee", "matchPattern": "x", "actionField": "category", "actionValue": "y",
	})

	assert.Equal(t, http.StatusNotFound, resp.Code)
	svc.AssertExpectations(t)
}

func TestHTTP_DeleteRule(t *testing.T) {
	svc := new(mockRuleService)
	svc.On("DeleteRule", mock.Anything, int64(3)).Return(nil)

	resp := newTestAPI(t, svc).Delete("/v1/rule/3")

	assert.Equal(t, http.StatusNoContent, resp.Code)
}

func TestHTTP_ReorderRules(t *testing.T) {
	svc := new(mockRuleService)
	svc.On("ReorderRules", mock.Anything, []int64{2, 1}).
		Return([]rules.Rule{{ID: 2, Priority: 2}, {ID: 1, Priority: 1}}, nil)

	resp := newTestAPI(t, svc).Put("/v1/rules/order", map[string]any{"ids": []int64{2, 1}})

	require.Equal(t, http.StatusOK, resp.Code)
	var body struct {
		Rules []Rule `json:"rules"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Rules, 2)
	assert.Equal(t, int64(2), body.Rules[0].ID)
	assert.Equal(t, 2, body.Rules[0].Priority)
}

func TestHTTP_ReorderRules_Duplicate(t *testing.T) {
	svc := new(mockRuleService)
	svc.On("ReorderRules", mock.Anything, []int64{1, 1}).
		Return(nil, ledgererr.Validation("rule 1 listed twice"))

	resp := newTestAPI(t, svc).Put("/v1/rules/order", map[string]any{"ids": []int64{1, 1}})

	assert.Equal(t, http.StatusBadRequest, resp.Code)
}
