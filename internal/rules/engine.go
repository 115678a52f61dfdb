// Package rules evaluates user-defined categorisation rules against a
// transaction draft. It performs no I/O and never fails: anything it cannot
// interpret is reported as a Warning and otherwise ignored.
package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Warning describes a rule element the engine could not interpret.
type Warning struct {
	RuleID  int64
	Message string
}

func (w Warning) String() string {
	return fmt.Sprintf("rule %d: %s", w.RuleID, w.Message)
}

// Sort orders rules by priority descending, then id ascending.
func Sort(rs []Rule) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Priority != rs[j].Priority {
			return rs[i].Priority > rs[j].Priority
		}
		return rs[i].ID < rs[j].ID
	})
}

// Apply runs every matching rule over draft. Rules are evaluated from the
// lowest priority to the highest so that the highest priority rule writes
// last and wins on any field several rules assign.
func Apply(draft *Draft, rs []Rule) []Warning {
	ordered := make([]Rule, len(rs))
	copy(ordered, rs)
	Sort(ordered)

	var warnings []Warning
	for i := len(ordered) - 1; i >= 0; i-- {
		rule := ordered[i]
		matched, w := matches(draft, rule)
		warnings = append(warnings, w...)
		if !matched {
			continue
		}
		warnings = append(warnings, execute(draft, rule)...)
	}
	return warnings
}

func matches(draft *Draft, rule Rule) (bool, []Warning) {
	if len(rule.Conditions) == 0 {
		if rule.MatchField == "" || rule.MatchPattern == "" {
			return false, nil
		}
		field := ParseField(rule.MatchField)
		if field == FieldUnsupported {
			return false, []Warning{{RuleID: rule.ID, Message: fmt.Sprintf("unsupported match field %q", rule.MatchField)}}
		}
		return containsFold(draft.Lookup(field), rule.MatchPattern), nil
	}

	logic, ok := ParseLogic(rule.Logic)
	var warnings []Warning
	if !ok {
		warnings = append(warnings, Warning{RuleID: rule.ID, Message: fmt.Sprintf("unknown logic %q, using and", rule.Logic)})
	}

	result := logic == LogicAnd
	for _, cond := range rule.Conditions {
		hit, w := evaluate(draft, rule.ID, cond)
		warnings = append(warnings, w...)
		if logic == LogicAnd {
			result = result && hit
		} else {
			result = result || hit
		}
	}
	return result, warnings
}

func evaluate(draft *Draft, ruleID int64, cond Condition) (bool, []Warning) {
	field := ParseField(cond.Field)
	if field == FieldUnsupported {
		return cond.Negated, []Warning{{RuleID: ruleID, Message: fmt.Sprintf("unsupported condition field %q", cond.Field)}}
	}

	value := draft.Lookup(field)
	var hit bool
	switch ParseOperator(cond.Operator) {
	case OperatorEquals:
		hit = strings.EqualFold(value, cond.Value)
	case OperatorContains:
		hit = containsFold(value, cond.Value)
	case OperatorStartsWith:
		hit = strings.HasPrefix(strings.ToLower(value), strings.ToLower(cond.Value))
	case OperatorEndsWith:
		hit = strings.HasSuffix(strings.ToLower(value), strings.ToLower(cond.Value))
	case OperatorGreaterThan:
		hit = parseNumber(value).GreaterThan(parseNumber(cond.Value))
	case OperatorLessThan:
		hit = parseNumber(value).LessThan(parseNumber(cond.Value))
	default:
		return cond.Negated, []Warning{{RuleID: ruleID, Message: fmt.Sprintf("unsupported operator %q", cond.Operator)}}
	}

	if cond.Negated {
		hit = !hit
	}
	return hit, nil
}

func execute(draft *Draft, rule Rule) []Warning {
	actions := rule.Actions
	if len(actions) == 0 {
		if rule.ActionField == "" {
			return nil
		}
		actions = []Action{{Field: rule.ActionField, Value: rule.ActionValue}}
	}

	var warnings []Warning
	for _, action := range actions {
		field := ParseField(action.Field)
		if !field.Writable() {
			warnings = append(warnings, Warning{RuleID: rule.ID, Message: fmt.Sprintf("unsupported action field %q", action.Field)})
			continue
		}
		draft.assign(field, action.Value)
	}
	return warnings
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// parseNumber reads a numeric operand; unparsable input counts as zero.
func parseNumber(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}
