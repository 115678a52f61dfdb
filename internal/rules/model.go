package rules

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Field is a transaction field a rule can read or write.
type Field int8

const (
	FieldUnsupported Field = iota
	FieldPayee
	FieldNotes
	FieldCategory
	FieldAmount
	FieldDate
	FieldCurrency
	FieldTicker
)

var fieldNames = map[string]Field{
	"payee":    FieldPayee,
	"notes":    FieldNotes,
	"category": FieldCategory,
	"amount":   FieldAmount,
	"date":     FieldDate,
	"currency": FieldCurrency,
	"ticker":   FieldTicker,
}

// ParseField maps a stored field name to a Field. Unknown names yield
// FieldUnsupported.
func ParseField(name string) Field {
	if f, ok := fieldNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return f
	}
	return FieldUnsupported
}

func (f Field) String() string {
	for name, field := range fieldNames {
		if field == f {
			return name
		}
	}
	return "unsupported"
}

// Writable reports whether actions may assign the field.
func (f Field) Writable() bool {
	return f == FieldPayee || f == FieldNotes || f == FieldCategory
}

// Operator compares a field value with a condition value.
type Operator int8

const (
	OperatorUnsupported Operator = iota
	OperatorEquals
	OperatorContains
	OperatorStartsWith
	OperatorEndsWith
	OperatorGreaterThan
	OperatorLessThan
)

var operatorNames = map[string]Operator{
	"equals":       OperatorEquals,
	"contains":     OperatorContains,
	"starts_with":  OperatorStartsWith,
	"ends_with":    OperatorEndsWith,
	"greater_than": OperatorGreaterThan,
	"less_than":    OperatorLessThan,
}

func ParseOperator(name string) Operator {
	if op, ok := operatorNames[strings.ToLower(strings.TrimSpace(name))]; ok {
		return op
	}
	return OperatorUnsupported
}

// Logic combines the results of a rule's conditions.
type Logic string

const (
	LogicAnd Logic = "and"
	LogicOr  Logic = "or"
)

// ParseLogic normalises a stored connective. Empty means "and"; ok is false
// for anything else that is not "and" or "or".
func ParseLogic(s string) (Logic, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "and":
		return LogicAnd, true
	case "or":
		return LogicOr, true
	}
	return LogicAnd, false
}

// Condition is one predicate of a compound rule.
type Condition struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
	Negated  bool   `json:"negated"`
}

// Action assigns Value to Field when a rule matches.
type Action struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

// Rule is a user-defined categorisation rule. The Match*/Action* pairs are
// the single-condition shorthand used when Conditions or Actions are empty.
type Rule struct {
	ID           int64
	Priority     int
	MatchField   string
	MatchPattern string
	ActionField  string
	ActionValue  string
	Logic        string
	Conditions   []Condition
	Actions      []Action
}

// Draft is the part of a transaction rules can see and change.
type Draft struct {
	Date     string
	Payee    string
	Notes    *string
	Category *string
	Amount   decimal.Decimal
	Currency *string
	Ticker   *string
}

// Lookup returns the string form of a draft field. Absent optional fields
// read as the empty string.
func (d *Draft) Lookup(f Field) string {
	switch f {
	case FieldPayee:
		return d.Payee
	case FieldNotes:
		return deref(d.Notes)
	case FieldCategory:
		return deref(d.Category)
	case FieldAmount:
		return d.Amount.String()
	case FieldDate:
		return d.Date
	case FieldCurrency:
		return deref(d.Currency)
	case FieldTicker:
		return deref(d.Ticker)
	}
	return ""
}

func (d *Draft) assign(f Field, value string) {
	switch f {
	case FieldPayee:
		d.Payee = value
	case FieldNotes:
		d.Notes = &value
	case FieldCategory:
		d.Category = &value
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
