package filter

import (
	"fmt"
	"strings"
	"unicode"
)

// Parse converts a filterExpression string into an Expression.
//
// Grammar: whitespace-separated key:value terms, implicitly conjoined.
// Values may be double-quoted to include spaces. A term prefixed with NOT
// (or a leading '-') is negated. An explicit AND between terms is accepted
// and ignored. An empty or all-whitespace expression parses to the empty
// Expression.
//
//	path:reports AND filetype:docx NOT author:"Jane Doe"
func Parse(expr string) (Expression, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return Expression{}, err
	}

	var must, mustNot []Match
	negateNext := false

	for _, tok := range tokens {
		switch {
		case strings.EqualFold(tok, "AND"):
			if negateNext {
				return Expression{}, fmt.Errorf("NOT must be followed by a term")
			}
			continue
		case strings.EqualFold(tok, "NOT"):
			if negateNext {
				return Expression{}, fmt.Errorf("NOT NOT is not allowed")
			}
			negateNext = true
			continue
		}

		negated := negateNext
		negateNext = false
		if strings.HasPrefix(tok, "-") {
			negated = true
			tok = tok[1:]
		}

		key, value, ok := strings.Cut(tok, ":")
		if !ok {
			return Expression{}, fmt.Errorf("term %q must have the form key:value", tok)
		}

		m, err := NewMatch(key, unquote(value))
		if err != nil {
			return Expression{}, err
		}
		if negated {
			mustNot = append(mustNot, m)
		} else {
			must = append(must, m)
		}
	}

	if negateNext {
		return Expression{}, fmt.Errorf("NOT must be followed by a term")
	}

	return NewExpression(must, mustNot)
}

// tokenize splits the expression on whitespace, keeping quoted spans intact.
func tokenize(expr string) ([]string, error) {
	var tokens []string
	var cur strings.Builder
	inQuotes := false

	for _, r := range expr {
		switch {
		case r == '"':
			inQuotes = !inQuotes
			cur.WriteRune(r)
		case unicode.IsSpace(r) && !inQuotes:
			if cur.Len() > 0 {
				tokens = append(tokens, cur.String())
				cur.Reset()
			}
		default:
			cur.WriteRune(r)
		}
	}
	if inQuotes {
		return nil, fmt.Errorf("unterminated quote in filter expression")
	}
	if cur.Len() > 0 {
		tokens = append(tokens, cur.String())
	}
	return tokens, nil
}

func unquote(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}
