package remote

// Filter is an equality predicate on one field.
type Filter struct {
	Field string
	Value any
}

// Order sorts a listing by one field.
type Order struct {
	Field      string
	Descending bool
}

// DefaultOrder is newest first.
var DefaultOrder = Order{Field: FieldCreatedAt, Descending: true}

// Query narrows a List call. The zero value lists everything newest first.
type Query struct {
	Where []Filter
	Order *Order
	Limit int
}

// Eq returns a copy of q with an extra equality filter.
func (q Query) Eq(field string, value any) Query {
	where := make([]Filter, len(q.Where), len(q.Where)+1)
	copy(where, q.Where)
	q.Where = append(where, Filter{Field: field, Value: value})
	return q
}

// OrderBy returns a copy of q sorted by field.
func (q Query) OrderBy(field string, descending bool) Query {
	q.Order = &Order{Field: field, Descending: descending}
	return q
}

// WithLimit returns a copy of q capped at n records; n <= 0 means no cap.
func (q Query) WithLimit(n int) Query {
	q.Limit = n
	return q
}

// Ordering returns the effective order.
func (q Query) Ordering() Order {
	if q.Order == nil || q.Order.Field == "" {
		return DefaultOrder
	}
	return *q.Order
}
