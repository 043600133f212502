package postgres

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/yigit/deptportal/internal/docstore"
)

// filterSql turns one docstore filter into a squirrel predicate over the
// JSONB body column. Field names are always bound as parameters.
func filterSql(f docstore.Filter) (squirrel.Sqlizer, error) {
	value := docstore.NormalizeValue(f.Value)

	switch f.Op {
	case docstore.OpEq:
		doc, err := json.Marshal(map[string]any{f.Field: value})
		if err != nil {
			return nil, err
		}
		return squirrel.Expr("body @> ?::jsonb", string(doc)), nil

	case docstore.OpNe:
		doc, err := json.Marshal(map[string]any{f.Field: value})
		if err != nil {
			return nil, err
		}
		return squirrel.Expr("(body->?::text IS NOT NULL AND body->?::text <> 'null'::jsonb AND NOT body @> ?::jsonb)", f.Field, f.Field, string(doc)), nil

	case docstore.OpLt, docstore.OpLte, docstore.OpGt, docstore.OpGte:
		op := string(f.Op)
		switch v := value.(type) {
		case time.Time:
			return squirrel.Expr(
				fmt.Sprintf("(CASE WHEN jsonb_typeof(body->?::text) = 'string' THEN (body->>?::text)::timestamptz END) %s ?", op),
				f.Field, f.Field, v), nil
		case float64:
			return squirrel.Expr(
				fmt.Sprintf("(CASE WHEN jsonb_typeof(body->?::text) = 'number' THEN (body->>?::text)::numeric END) %s ?", op),
				f.Field, f.Field, v), nil
		case string:
			return squirrel.Expr(
				fmt.Sprintf("(CASE WHEN jsonb_typeof(body->?::text) = 'string' THEN body->>?::text END) %s ?", op),
				f.Field, f.Field, v), nil
		}
		return nil, fmt.Errorf("%w: range filter on %s with %T value", docstore.ErrQueryNotSupported, f.Field, value)

	case docstore.OpIn:
		list, err := json.Marshal(value)
		if err != nil {
			return nil, err
		}
		return squirrel.Expr("?::jsonb @> (body->?::text)", string(list), f.Field), nil

	case docstore.OpArrayContains:
		elem, err := json.Marshal([]any{value})
		if err != nil {
			return nil, err
		}
		return squirrel.Expr("(jsonb_typeof(body->?::text) = 'array' AND body->?::text @> ?::jsonb)", f.Field, f.Field, string(elem)), nil
	}
	return nil, fmt.Errorf("%w: operator %q", docstore.ErrQueryNotSupported, f.Op)
}

// buildFind assembles the SELECT for a query. Results fall back to
// insertion order (seq) so ties keep store order.
func buildFind(sb squirrel.StatementBuilderType, collection string, q docstore.Query) (string, []interface{}, error) {
	sel := sb.Select("id", "body").
		From(tableName).
		Where(squirrel.Eq{"collection": collection})

	for _, f := range q.Filters {
		pred, err := filterSql(f)
		if err != nil {
			return "", nil, err
		}
		sel = sel.Where(pred)
	}
	for _, o := range q.OrderBy {
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		sel = sel.OrderByClause("body->?::text "+dir, o.Field)
	}
	sel = sel.OrderBy("seq ASC")
	if q.Limit > 0 {
		sel = sel.Limit(uint64(q.Limit))
	}
	return sel.ToSql()
}
