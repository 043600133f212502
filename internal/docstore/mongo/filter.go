package mongo

import (
	"fmt"

	"github.com/yigit/deptportal/internal/docstore"
	"go.mongodb.org/mongo-driver/bson"
)

var operators = map[docstore.Op]string{
	docstore.OpEq:  "$eq",
	docstore.OpNe:  "$ne",
	docstore.OpLt:  "$lt",
	docstore.OpLte: "$lte",
	docstore.OpGt:  "$gt",
	docstore.OpGte: "$gte",
	docstore.OpIn:  "$in",
}

// buildFilter ANDs the filters into one bson document. Each field may carry
// several operators, so conditions are grouped per field.
func buildFilter(filters []docstore.Filter) (bson.D, error) {
	if len(filters) == 0 {
		return bson.D{}, nil
	}
	clauses := bson.A{}
	for _, f := range filters {
		value := docstore.NormalizeValue(f.Value)
		if f.Op == docstore.OpArrayContains {
			clauses = append(clauses, bson.D{{Key: f.Field, Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$eq", Value: value}}}}}})
			continue
		}
		op, ok := operators[f.Op]
		if !ok {
			return nil, fmt.Errorf("%w: operator %q", docstore.ErrQueryNotSupported, f.Op)
		}
		cond := bson.D{{Key: op, Value: value}}
		if f.Op == docstore.OpNe {
			// a missing field never matches
			cond = bson.D{{Key: "$exists", Value: true}, {Key: "$nin", Value: bson.A{value, nil}}}
		}
		clauses = append(clauses, bson.D{{Key: f.Field, Value: cond}})
	}
	return bson.D{{Key: "$and", Value: clauses}}, nil
}
