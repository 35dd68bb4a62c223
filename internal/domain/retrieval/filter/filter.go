// Package filter parses the filterExpression of a retrieval request into a
// structured form the index layer can translate to pre-filters.
package filter

import "fmt"

// MaxTerms bounds the number of terms a single expression may carry.
const MaxTerms = 32

// Match is a single key:value term.
type Match struct {
	key   string
	value string
}

// NewMatch validates and creates a match term.
func NewMatch(key, value string) (Match, error) {
	if key == "" {
		return Match{}, fmt.Errorf("filter key is required")
	}
	if !isIdentifier(key) {
		return Match{}, fmt.Errorf("filter key %q contains invalid characters", key)
	}
	if value == "" {
		return Match{}, fmt.Errorf("filter value is required for key %q", key)
	}
	return Match{key: key, value: value}, nil
}

// Key returns the field name.
func (m Match) Key() string { return m.key }

// Value returns the exact match value.
func (m Match) Value() string { return m.value }

// Expression is a conjunction of match terms with optional negations.
type Expression struct {
	must    []Match
	mustNot []Match
}

// NewExpression validates and creates an Expression.
func NewExpression(must, mustNot []Match) (Expression, error) {
	if len(must)+len(mustNot) > MaxTerms {
		return Expression{}, fmt.Errorf("too many filter terms (max %d)", MaxTerms)
	}
	return Expression{must: must, mustNot: mustNot}, nil
}

// Must returns the positive terms.
func (e Expression) Must() []Match { return e.must }

// MustNot returns the negated terms.
func (e Expression) MustNot() []Match { return e.mustNot }

// IsEmpty reports whether the expression has no terms.
func (e Expression) IsEmpty() bool {
	return len(e.must) == 0 && len(e.mustNot) == 0
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		isAlpha := (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r == '_'
		isDigit := r >= '0' && r <= '9'
		if !isAlpha && !(isDigit && i > 0) {
			return false
		}
	}
	return true
}
