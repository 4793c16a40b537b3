// Package repository holds the storage-neutral pieces shared by every store:
// the optional-predicate query builder and the common error values.
package repository

import (
	"errors"
	"strings"
)

// ErrDuplicate is returned by stores when an insert violates a uniqueness rule.
var ErrDuplicate = errors.New("duplicate record")

// Logical field names used in predicates. Each store maps them to its own
// column or document path.
const (
	FieldLeaderEmail   = "leaderEmail"
	FieldTeamName      = "teamName"
	FieldTransactionID = "transactionId"
	FieldDeviceID      = "deviceId"
)

// Predicate is one optional equality condition.
type Predicate struct {
	Field   string
	Value   string
	Enabled bool
}

// When builds a predicate that only takes part in the query if cond holds
// and value is non-empty.
func When(cond bool, field, value string) Predicate {
	return Predicate{Field: field, Value: value, Enabled: cond && value != ""}
}

// Always builds a predicate that is included whenever value is non-empty.
func Always(field, value string) Predicate {
	return When(true, field, value)
}

// Predicates are OR-combined by the stores.
type Predicates []Predicate

// Active drops disabled predicates, keeping order.
func (ps Predicates) Active() Predicates {
	out := make(Predicates, 0, len(ps))
	for _, p := range ps {
		if p.Enabled {
			out = append(out, p)
		}
	}
	return out
}

// Matches reports whether a row exposing the given field values satisfies
// any active predicate. In-memory stores use it in place of a real query.
func (ps Predicates) Matches(values map[string]string) bool {
	for _, p := range ps.Active() {
		if v, ok := values[p.Field]; ok && v == p.Value {
			return true
		}
	}
	return false
}

// NormalizeKey is the canonical form for case-insensitive uniqueness keys.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
