package docstore

import "fmt"

// Op is a filter operator.
type Op string

const (
	OpEq            Op = "=="
	OpNe            Op = "!="
	OpLt            Op = "<"
	OpLte           Op = "<="
	OpGt            Op = ">"
	OpGte           Op = ">="
	OpIn            Op = "in"
	OpArrayContains Op = "array-contains"
)

// IsRange reports whether the operator needs an ordered index on its field.
func (o Op) IsRange() bool {
	switch o {
	case OpNe, OpLt, OpLte, OpGt, OpGte:
		return true
	}
	return false
}

// Valid reports whether o is a known operator.
func (o Op) Valid() bool {
	switch o {
	case OpEq, OpNe, OpLt, OpLte, OpGt, OpGte, OpIn, OpArrayContains:
		return true
	}
	return false
}

// Filter is a single {field, op, value} predicate.
type Filter struct {
	Field string
	Op    Op
	Value any
}

// Order sorts results by a field.
type Order struct {
	Field string
	Desc  bool
}

// Query is a conjunction of filters with optional ordering and limit.
type Query struct {
	Filters []Filter
	OrderBy []Order
	Limit   int
}

// All matches every document in a collection.
func All() Query { return Query{} }

// Where starts a query with one filter.
func Where(field string, op Op, value any) Query {
	return Query{}.Where(field, op, value)
}

// Where appends a filter.
func (q Query) Where(field string, op Op, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: op, Value: value})
	return q
}

// Order appends an ordering.
func (q Query) Order(field string, desc bool) Query {
	q.OrderBy = append(append([]Order(nil), q.OrderBy...), Order{Field: field, Desc: desc})
	return q
}

// WithLimit caps the number of results; zero means no limit.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// Validate checks operators and field names.
func (q Query) Validate() error {
	for _, f := range q.Filters {
		if f.Field == "" {
			return fmt.Errorf("%w: empty field name", ErrInvalidQuery)
		}
		if !f.Op.Valid() {
			return fmt.Errorf("%w: unknown operator %q", ErrInvalidQuery, f.Op)
		}
		if f.Op == OpIn {
			if _, ok := f.Value.([]any); !ok {
				return fmt.Errorf("%w: operator in needs a []any value", ErrInvalidQuery)
			}
		}
	}
	for _, o := range q.OrderBy {
		if o.Field == "" {
			return fmt.Errorf("%w: empty order field", ErrInvalidQuery)
		}
	}
	if q.Limit < 0 {
		return fmt.Errorf("%w: negative limit", ErrInvalidQuery)
	}
	return nil
}

// IsCompoundRange reports whether the query combines a range filter with a
// filter on another field. Stores without composite indexes reject these.
func (q Query) IsCompoundRange() bool {
	fields := map[string]struct{}{}
	hasRange := false
	for _, f := range q.Filters {
		fields[f.Field] = struct{}{}
		if f.Op.IsRange() {
			hasRange = true
		}
	}
	return hasRange && len(fields) > 1
}
