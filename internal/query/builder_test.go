package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectBuilder_Build(t *testing.T) {
	tests := []struct {
		name     string
		build    func() *SelectBuilder
		wantSQL  string
		wantArgs []any
	}{
		{
			name: "no conditions",
			build: func() *SelectBuilder {
				return Select("id", "name").From("users")
			},
			wantSQL: "SELECT id, name FROM users",
		},
		{
			name: "star when no columns",
			build: func() *SelectBuilder {
				return Select().From("users").Limit(5)
			},
			wantSQL:  "SELECT * FROM users LIMIT $1",
			wantArgs: []any{5},
		},
		{
			name: "where conditions are joined with AND",
			build: func() *SelectBuilder {
				return Select("id").From("users").
					Where("name = ?", "A").
					Where("email = ?", "a@x.com")
			},
			wantSQL:  "SELECT id FROM users WHERE name = $1 AND email = $2",
			wantArgs: []any{"A", "a@x.com"},
		},
		{
			name: "having is numbered after where even when added first",
			build: func() *SelectBuilder {
				return Select("properties.id").From("properties").
					LeftJoin("property_reviews", "property_reviews.property_id = properties.id").
					Having("avg(property_reviews.rating) >= ?", 4.0).
					Where("properties.owner_id = ?", int64(3)).
					GroupBy("properties.id").
					OrderBy("properties.cost_per_night").
					Limit(10)
			},
			wantSQL: "SELECT properties.id FROM properties " +
				"LEFT JOIN property_reviews ON property_reviews.property_id = properties.id " +
				"WHERE properties.owner_id = $1 GROUP BY properties.id " +
				"HAVING avg(property_reviews.rating) >= $2 " +
				"ORDER BY properties.cost_per_night LIMIT $3",
			wantArgs: []any{int64(3), 4.0, 10},
		},
		{
			name: "multiple markers in one predicate",
			build: func() *SelectBuilder {
				return Select("id").From("properties").
					Where("cost_per_night BETWEEN ? AND ?", 100, 200).
					Join("users", "users.id = properties.owner_id")
			},
			wantSQL:  "SELECT id FROM properties JOIN users ON users.id = properties.owner_id WHERE cost_per_night BETWEEN $1 AND $2",
			wantArgs: []any{100, 200},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := tt.build().Build()
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestSelectBuilder_BuildErrors(t *testing.T) {
	_, _, err := Select("id").Build()
	assert.ErrorContains(t, err, "missing FROM")

	_, _, err = Select("id").From("users").Where("id = ? OR id = ?", 1).Build()
	assert.ErrorContains(t, err, "more placeholders than arguments")

	_, _, err = Select("id").From("users").Where("id = ?", 1, 2).Build()
	assert.ErrorContains(t, err, "1 placeholders but 2 arguments")
}

func TestContains(t *testing.T) {
	assert.Equal(t, "%Vancouver%", Contains("Vancouver"))
	assert.Equal(t, `%100\%\_off\\%`, Contains(`100%_off\`))
	assert.Equal(t, "%%", Contains(""))
}
