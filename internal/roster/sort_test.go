package roster

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseSort(t *testing.T) {
	tests := []struct {
		sortBy, order string
		want          Sort
	}{
		{"", "", Sort{FieldTimestamp, OrderDesc}},
		{"name", "asc", Sort{FieldName, OrderAsc}},
		{"role", "desc", Sort{FieldRole, OrderDesc}},
		{"group", "asc", Sort{FieldGroup, OrderAsc}},
		{"timestamp", "asc", Sort{FieldTimestamp, OrderAsc}},
		{"id; DROP TABLE attendees", "asc", Sort{FieldTimestamp, OrderAsc}},
		{"name", "sideways", Sort{FieldName, OrderDesc}},
		{"Name", "ASC", Sort{FieldTimestamp, OrderDesc}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseSort(tt.sortBy, tt.order), "%q %q", tt.sortBy, tt.order)
	}
}

func TestUnknownValuesMatchDefaults(t *testing.T) {
	assert.Equal(t, ParseSort("timestamp", "asc"), ParseSort("bogus", "asc"))
	assert.Equal(t, ParseSort("name", "desc"), ParseSort("name", "bogus"))
	assert.Equal(t, ParseSort("timestamp", "desc").orderBy(), ParseSort("bogus", "bogus").orderBy())
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, "group_name ASC NULLS LAST, id ASC", Sort{FieldGroup, OrderAsc}.orderBy())
	assert.Equal(t, "created_at DESC NULLS LAST, id DESC", DefaultSort.orderBy())
	assert.Equal(t, "created_at DESC NULLS LAST, id DESC", Sort{Field("evil"), Order("x")}.orderBy())
}

func TestToggle(t *testing.T) {
	s := Sort{FieldName, OrderAsc}
	assert.Equal(t, OrderDesc, s.Toggle(FieldName))
	assert.Equal(t, OrderAsc, s.Toggle(FieldRole))
	assert.Equal(t, OrderAsc, DefaultSort.Toggle(FieldTimestamp))
}
