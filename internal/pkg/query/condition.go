package query

import "fmt"

// Condition is one WHERE predicate.
// SQL renders the fragment using @p<index> parameter names starting at paramIndex
// and returns the parameters it consumed.
type Condition interface {
	SQL(paramIndex int) (string, map[string]interface{})
}

// compareCondition renders "field <op> @pN".
type compareCondition struct {
	field string
	op    string
	value interface{}
}

func (c *compareCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s %s @%s", c.field, c.op, paramName), map[string]interface{}{paramName: c.value}
}

// Eq matches field = value.
// Example: Eq("status", "pending") generates "status = @p0"
func Eq(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "=", value: value}
}

// Lt matches field < value.
func Lt(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "<", value: value}
}

// Lte matches field <= value.
func Lte(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: "<=", value: value}
}

// Gt matches field > value.
func Gt(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: ">", value: value}
}

// Gte matches field >= value.
func Gte(field string, value interface{}) Condition {
	return &compareCondition{field: field, op: ">=", value: value}
}

// In matches field against an array parameter.
// Example: In("status", []string{"completed", "failed"}) generates "status IN UNNEST(@p0)"
func In(field string, values interface{}) Condition {
	return &inCondition{field: field, values: values}
}

type inCondition struct {
	field  string
	values interface{}
}

func (c *inCondition) SQL(paramIndex int) (string, map[string]interface{}) {
	paramName := fmt.Sprintf("p%d", paramIndex)
	return fmt.Sprintf("%s IN UNNEST(@%s)", c.field, paramName), map[string]interface{}{paramName: c.values}
}

// IsNull matches rows where field is NULL.
func IsNull(field string) Condition {
	return &nullCondition{field: field}
}

// IsNotNull matches rows where field is not NULL.
func IsNotNull(field string) Condition {
	return &nullCondition{field: field, negate: true}
}

type nullCondition struct {
	field  string
	negate bool
}

func (c *nullCondition) SQL(int) (string, map[string]interface{}) {
	if c.negate {
		return fmt.Sprintf("%s IS NOT NULL", c.field), map[string]interface{}{}
	}
	return fmt.Sprintf("%s IS NULL", c.field), map[string]interface{}{}
}
