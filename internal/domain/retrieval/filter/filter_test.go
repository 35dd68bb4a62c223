package filter

import "testing"

func TestNewMatch(t *testing.T) {
	m, err := NewMatch("author", "alice")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.Key() != "author" || m.Value() != "alice" {
		t.Errorf("got %q:%q", m.Key(), m.Value())
	}
}

func TestNewMatch_EmptyKey(t *testing.T) {
	if _, err := NewMatch("", "x"); err == nil {
		t.Fatal("expected error for empty key")
	}
}

func TestNewMatch_EmptyValue(t *testing.T) {
	if _, err := NewMatch("author", ""); err == nil {
		t.Fatal("expected error for empty value")
	}
}

func TestNewMatch_InvalidKey(t *testing.T) {
	for _, key := range []string{"has space", "dash-key", "1leading", "semi;colon"} {
		if _, err := NewMatch(key, "x"); err == nil {
			t.Errorf("expected error for key %q", key)
		}
	}
}

func TestNewMatch_ValidKeys(t *testing.T) {
	for _, key := range []string{"author", "file_type", "_private", "key2"} {
		if _, err := NewMatch(key, "x"); err != nil {
			t.Errorf("unexpected error for key %q: %v", key, err)
		}
	}
}

func TestNewExpression_TooManyTerms(t *testing.T) {
	m, _ := NewMatch("k", "v")
	terms := make([]Match, MaxTerms+1)
	for i := range terms {
		terms[i] = m
	}
	if _, err := NewExpression(terms, nil); err == nil {
		t.Fatal("expected error for too many terms")
	}
}

func TestExpression_IsEmpty(t *testing.T) {
	if !(Expression{}).IsEmpty() {
		t.Error("zero expression should be empty")
	}
	m, _ := NewMatch("k", "v")
	e, _ := NewExpression([]Match{m}, nil)
	if e.IsEmpty() {
		t.Error("expression with terms should not be empty")
	}
}
