package rule

import (
	"encoding/json"
	"fmt"

	"github.com/carson-networks/finance-ledger/internal/rules"
)

const tableName = "rules"

var columns = []any{
	"id", "priority", "match_field", "match_pattern", "action_field",
	"action_value", "logic", "conditions", "actions",
}

// row mirrors the rules table. Conditions and actions are JSON arrays.
type row struct {
	ID           int64  `db:"id"`
	Priority     int    `db:"priority"`
	MatchField   string `db:"match_field"`
	MatchPattern string `db:"match_pattern"`
	ActionField  string `db:"action_field"`
	ActionValue  string `db:"action_value"`
	Logic        string `db:"logic"`
	Conditions   string `db:"conditions"`
	Actions      string `db:"actions"`
}

func (r *row) toRule() (*rules.Rule, error) {
	out := &rules.Rule{
		ID:           r.ID,
		Priority:     r.Priority,
		MatchField:   r.MatchField,
		MatchPattern: r.MatchPattern,
		ActionField:  r.ActionField,
		ActionValue:  r.ActionValue,
		Logic:        r.Logic,
	}
	if err := unmarshalList(r.Conditions, &out.Conditions); err != nil {
		return nil, fmt.Errorf("rule %d conditions: %w", r.ID, err)
	}
	if err := unmarshalList(r.Actions, &out.Actions); err != nil {
		return nil, fmt.Errorf("rule %d actions: %w", r.ID, err)
	}
	return out, nil
}

func unmarshalList[T any](raw string, dst *[]T) error {
	if raw == "" {
		return nil
	}
	return json.Unmarshal([]byte(raw), dst)
}

func marshalList[T any](items []T) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
