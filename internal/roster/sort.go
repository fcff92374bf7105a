package roster

// Field is a sortable attendee column.
type Field string

// Sortable fields.
const (
	FieldName      Field = "name"
	FieldRole      Field = "role"
	FieldGroup     Field = "group"
	FieldTimestamp Field = "timestamp"
)

// Order is a sort direction.
type Order string

// Sort directions.
const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// Fields lists the sortable fields in display order.
var Fields = []Field{FieldName, FieldRole, FieldGroup, FieldTimestamp}

var columns = map[Field]string{
	FieldName:      "name",
	FieldRole:      "role",
	FieldGroup:     "group_name",
	FieldTimestamp: "created_at",
}

// Sort is a validated attendee ordering.
type Sort struct {
	Field Field
	Order Order
}

// DefaultSort is newest first.
var DefaultSort = Sort{Field: FieldTimestamp, Order: OrderDesc}

// ParseSort validates query values. Unknown fields fall back to timestamp and
// unknown orders to desc.
func ParseSort(sortBy, order string) Sort {
	s := DefaultSort
	if _, ok := columns[Field(sortBy)]; ok {
		s.Field = Field(sortBy)
	}
	if Order(order) == OrderAsc {
		s.Order = OrderAsc
	}
	return s
}

// orderBy renders the ORDER BY clause. Only whitelisted column names reach SQL.
func (s Sort) orderBy() string {
	col, ok := columns[s.Field]
	if !ok {
		col = columns[FieldTimestamp]
	}
	dir := "DESC"
	if s.Order == OrderAsc {
		dir = "ASC"
	}
	return col + " " + dir + " NULLS LAST, id " + dir
}

// Toggle returns the order a column header should link to.
func (s Sort) Toggle(f Field) Order {
	if f == s.Field && s.Order == OrderAsc {
		return OrderDesc
	}
	return OrderAsc
}
