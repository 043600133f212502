package postgres

import (
	"testing"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/deptportal/internal/docstore"
)

var sb = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func TestBuildFind_NotificationWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	q := docstore.Where("active", docstore.OpEq, true).
		Where("startDate", docstore.OpLte, now).
		Where("endDate", docstore.OpGte, now)

	sql, args, err := buildFind(sb, "notifications", q)
	require.NoError(t, err)

	assert.Contains(t, sql, "FROM documents WHERE collection = $1")
	assert.Contains(t, sql, "body @> $2::jsonb")
	assert.Contains(t, sql, "::timestamptz END) <= $")
	assert.Contains(t, sql, "::timestamptz END) >= $")
	assert.Contains(t, sql, "ORDER BY seq ASC")
	assert.Equal(t, "notifications", args[0])
	assert.Equal(t, `{"active":true}`, args[1])
	assert.Len(t, args, 8)
}

func TestBuildFind_OrderAndLimit(t *testing.T) {
	q := docstore.Where("isActive", docstore.OpEq, true).Order("order", false).WithLimit(10)

	sql, args, err := buildFind(sb, "faculty", q)
	require.NoError(t, err)

	assert.Contains(t, sql, "ORDER BY body->$3::text ASC, seq ASC LIMIT 10")
	assert.Equal(t, "order", args[2])
}

func TestFilterSql_Operators(t *testing.T) {
	tests := []struct {
		name   string
		filter docstore.Filter
		want   string
	}{
		{"in", docstore.Filter{Field: "type", Op: docstore.OpIn, Value: []any{"info", "warning"}}, "?::jsonb @> (body->?::text)"},
		{"array contains", docstore.Filter{Field: "specializations", Op: docstore.OpArrayContains, Value: "Data Science"}, "body->?::text @> ?::jsonb"},
		{"numeric range", docstore.Filter{Field: "order", Op: docstore.OpGt, Value: 2}, "::numeric END) > ?"},
		{"not equal", docstore.Filter{Field: "role", Op: docstore.OpNe, Value: "admin"}, "NOT body @> ?::jsonb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := filterSql(tt.filter)
			require.NoError(t, err)
			sql, _, err := pred.ToSql()
			require.NoError(t, err)
			assert.Contains(t, sql, tt.want)
		})
	}
}

func TestFilterSql_UnsupportedRangeValue(t *testing.T) {
	_, err := filterSql(docstore.Filter{Field: "active", Op: docstore.OpLt, Value: true})
	assert.ErrorIs(t, err, docstore.ErrQueryNotSupported)
}
