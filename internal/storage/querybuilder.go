package storage

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lib/pq"
)

// MaxLimit caps the page size of every list query.
const MaxLimit = 100

// predicate is one staged filter condition. The fragment holds a single %d
// verb marking where the positional placeholder number goes.
type predicate struct {
	fragment string
	arg      interface{}
}

// QueryBuilder accumulates typed predicates and emits parameterized SQL once,
// at Build time. Placeholder numbers are assigned mechanically from the
// accumulated list, so a bound value can never leak into query text and no
// call site counts placeholders by hand.
type QueryBuilder struct {
	preds     []predicate
	orderBy   string
	limit     int
	offset    int
	paginated bool
}

// NewQueryBuilder returns an empty builder.
func NewQueryBuilder() *QueryBuilder { return &QueryBuilder{} }

func (qb *QueryBuilder) add(fragment string, arg interface{}) {
	qb.preds = append(qb.preds, predicate{fragment: fragment, arg: arg})
}

// Equal matches column = value.
func (qb *QueryBuilder) Equal(column string, value interface{}) *QueryBuilder {
	qb.add(column+" = $%d", value)
	return qb
}

// AtLeast matches column >= value.
func (qb *QueryBuilder) AtLeast(column string, value interface{}) *QueryBuilder {
	qb.add(column+" >= $%d", value)
	return qb
}

// AtMost matches column <= value.
func (qb *QueryBuilder) AtMost(column string, value interface{}) *QueryBuilder {
	qb.add(column+" <= $%d", value)
	return qb
}

// AnyOf matches column against a set of candidates. An empty set stages no
// predicate: absent filters are open, not exclusionary.
func (qb *QueryBuilder) AnyOf(column string, values []string) *QueryBuilder {
	if len(values) == 0 {
		return qb
	}
	qb.add(column+" = ANY($%d)", pq.Array(values))
	return qb
}

// ContainsJSON requires the JSONB column to contain every listed value under
// the given key. The row's bag may hold more values than the filter names.
// An empty list stages no predicate.
func (qb *QueryBuilder) ContainsJSON(column, key string, values []string) *QueryBuilder {
	if len(values) == 0 {
		return qb
	}
	// map[string][]string always marshals.
	payload, _ := json.Marshal(map[string][]string{key: values})
	qb.add(column+" @> $%d::jsonb", string(payload))
	return qb
}

// MatchesText applies English full-text matching of query against expr,
// which must be a to_tsvector-compatible column expression.
func (qb *QueryBuilder) MatchesText(expr, query string) *QueryBuilder {
	qb.add("to_tsvector('english', "+expr+") @@ plainto_tsquery($%d)", query)
	return qb
}

// OrderBy sets the ORDER BY expression.
func (qb *QueryBuilder) OrderBy(expr string) *QueryBuilder {
	qb.orderBy = expr
	return qb
}

// Paginate stages LIMIT/OFFSET. Non-positive limits fall back to
// defaultLimit, limits above MaxLimit are capped, negative offsets become 0.
func (qb *QueryBuilder) Paginate(limit, offset, defaultLimit int) *QueryBuilder {
	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	qb.limit = limit
	qb.offset = offset
	qb.paginated = true
	return qb
}

// Build appends the staged predicates to base, which must end in a WHERE
// clause (conventionally WHERE 1=1), then ORDER BY and pagination. It returns
// the final SQL and the bound arguments in placeholder order.
func (qb *QueryBuilder) Build(base string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(base)
	args := make([]interface{}, 0, len(qb.preds)+2)
	n := 0
	for _, p := range qb.preds {
		n++
		sb.WriteString(" AND ")
		fmt.Fprintf(&sb, p.fragment, n)
		args = append(args, p.arg)
	}
	if qb.orderBy != "" {
		sb.WriteString(" ORDER BY ")
		sb.WriteString(qb.orderBy)
	}
	if qb.paginated {
		n++
		fmt.Fprintf(&sb, " LIMIT $%d", n)
		args = append(args, qb.limit)
		n++
		fmt.Fprintf(&sb, " OFFSET $%d", n)
		args = append(args, qb.offset)
	}
	return sb.String(), args
}

// assignment is one staged SET column or WHERE key of an UpdateBuilder.
// Unbound entries are raw expressions such as updated_at = NOW().
type assignment struct {
	fragment string
	arg      interface{}
	bound    bool
}

// UpdateBuilder assembles partial UPDATE statements: only explicitly staged
// columns are rewritten, and placeholders are numbered the same mechanical
// way QueryBuilder numbers them.
type UpdateBuilder struct {
	assigns []assignment
	keys    []assignment
}

// NewUpdateBuilder returns an empty builder.
func NewUpdateBuilder() *UpdateBuilder { return &UpdateBuilder{} }

// Set stages column = value.
func (ub *UpdateBuilder) Set(column string, value interface{}) *UpdateBuilder {
	ub.assigns = append(ub.assigns, assignment{fragment: column + " = $%d", arg: value, bound: true})
	return ub
}

// SetExpr stages a raw assignment such as updated_at = NOW().
func (ub *UpdateBuilder) SetExpr(expr string) *UpdateBuilder {
	ub.assigns = append(ub.assigns, assignment{fragment: expr})
	return ub
}

// Key adds a WHERE column = value condition.
func (ub *UpdateBuilder) Key(column string, value interface{}) *UpdateBuilder {
	ub.keys = append(ub.keys, assignment{fragment: column + " = $%d", arg: value, bound: true})
	return ub
}

// HasChanges reports whether any column assignment was staged. Callers treat
// a change-free update as a plain read.
func (ub *UpdateBuilder) HasChanges() bool {
	for _, a := range ub.assigns {
		if a.bound {
			return true
		}
	}
	return false
}

// Build emits UPDATE table SET ... WHERE ... [RETURNING returning] and the
// bound arguments in placeholder order.
func (ub *UpdateBuilder) Build(table, returning string) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString("UPDATE ")
	sb.WriteString(table)
	sb.WriteString(" SET ")
	args := make([]interface{}, 0, len(ub.assigns)+len(ub.keys))
	n := 0
	for i, a := range ub.assigns {
		if i > 0 {
			sb.WriteString(", ")
		}
		if a.bound {
			n++
			fmt.Fprintf(&sb, a.fragment, n)
			args = append(args, a.arg)
		} else {
			sb.WriteString(a.fragment)
		}
	}
	sb.WriteString(" WHERE ")
	for i, k := range ub.keys {
		if i > 0 {
			sb.WriteString(" AND ")
		}
		n++
		fmt.Fprintf(&sb, k.fragment, n)
		args = append(args, k.arg)
	}
	if returning != "" {
		sb.WriteString(" RETURNING ")
		sb.WriteString(returning)
	}
	return sb.String(), args
}
