package mongo

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/deptportal/internal/docstore"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildFilter_Empty(t *testing.T) {
	f, err := buildFilter(nil)
	require.NoError(t, err)
	assert.Empty(t, f)
}

func TestBuildFilter_NotificationWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q := docstore.Where("active", docstore.OpEq, true).
		Where("startDate", docstore.OpLte, now).
		Where("endDate", docstore.OpGte, now)

	f, err := buildFilter(q.Filters)
	require.NoError(t, err)

	want := bson.D{{Key: "$and", Value: bson.A{
		bson.D{{Key: "active", Value: bson.D{{Key: "$eq", Value: true}}}},
		bson.D{{Key: "startDate", Value: bson.D{{Key: "$lte", Value: now}}}},
		bson.D{{Key: "endDate", Value: bson.D{{Key: "$gte", Value: now}}}},
	}}}
	assert.Equal(t, want, f)
}

func TestBuildFilter_ArrayContainsAndNe(t *testing.T) {
	f, err := buildFilter([]docstore.Filter{
		{Field: "specializations", Op: docstore.OpArrayContains, Value: "Data Science"},
		{Field: "role", Op: docstore.OpNe, Value: "admin"},
	})
	require.NoError(t, err)

	clauses := f[0].Value.(bson.A)
	require.Len(t, clauses, 2)
	assert.Equal(t, bson.D{{Key: "specializations", Value: bson.D{{Key: "$elemMatch", Value: bson.D{{Key: "$eq", Value: "Data Science"}}}}}}, clauses[0])
	assert.Equal(t, bson.D{{Key: "role", Value: bson.D{{Key: "$exists", Value: true}, {Key: "$nin", Value: bson.A{"admin", nil}}}}}, clauses[1])
}

func TestFromBSON(t *testing.T) {
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	doc := toDocument(bson.M{
		"_id":   "abc",
		"_seq":  int64(1),
		"when":  primitive.NewDateTimeFromTime(ts),
		"tags":  primitive.A{"a", "b"},
		"order": int32(3),
	})

	assert.Equal(t, "abc", doc.ID)
	assert.NotContains(t, doc.Data, "_seq")
	assert.Equal(t, ts, doc.Data["when"])
	assert.Equal(t, []any{"a", "b"}, doc.Data["tags"])
	assert.Equal(t, float64(3), doc.Data["order"])
}
