package retrieval

import (
	"context"
	"errors"
	"testing"

	"github.com/graphmesh/retrieval/internal/db"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/filter"
	domres "github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
)

type mockStore struct {
	knnFn        func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	bm25Fn       func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	textSearchOK bool
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	if m.knnFn != nil {
		return m.knnFn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	if m.bm25Fn != nil {
		return m.bm25Fn(ctx, q)
	}
	return &db.SearchResult{}, nil
}

func (m *mockStore) SupportsTextSearch(_ context.Context) bool { return m.textSearchOK }

func TestSearchKNN(t *testing.T) {
	ms := &mockStore{}
	var gotQuery *db.KNNQuery
	ms.knnFn = func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		gotQuery = q
		return &db.SearchResult{
			Total: 1,
			Entries: []db.SearchEntry{{
				Key:   "retrieval:sharePoint:doc-1",
				Score: 0.93,
				Fields: map[string]string{
					"__content": "matched content",
					"__rtype":   "driveItem",
					"__weburl":  "https://contoso.example/doc-1",
					"m_author":  "jane",
				},
			}},
		}, nil
	}

	repo := New(ms)
	candidates, err := repo.SearchKNN(context.Background(), source.SharePoint,
		[]float32{0.1, 0.2}, filter.Expression{}, 5, []string{"author"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.IndexName != "retrieval:sharePoint:idx" {
		t.Errorf("index: %q", gotQuery.IndexName)
	}
	if gotQuery.K != 5 {
		t.Errorf("topK: %d", gotQuery.K)
	}

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	c := candidates[0]
	if c.ID() != "doc-1" {
		t.Errorf("key prefix should be trimmed, got id %q", c.ID())
	}
	if c.Score() != 0.93 {
		t.Errorf("score: %f", c.Score())
	}
	if c.Content() != "matched content" || c.Type() != domres.TypeDriveItem {
		t.Errorf("candidate: content=%q type=%q", c.Content(), c.Type())
	}
	if c.Metadata()["author"] != "jane" {
		t.Errorf("metadata: %v", c.Metadata())
	}
}

func TestSearchKNN_StoreError(t *testing.T) {
	ms := &mockStore{}
	ms.knnFn = func(_ context.Context, _ *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("index missing")
	}

	repo := New(ms)
	_, err := repo.SearchKNN(context.Background(), source.SharePoint, nil, filter.Expression{}, 5, nil)
	if err == nil {
		t.Fatal("expected error from store")
	}
}

func TestSearchBM25(t *testing.T) {
	ms := &mockStore{}
	var gotQuery *db.TextQuery
	ms.bm25Fn = func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		gotQuery = q
		return &db.SearchResult{
			Total: 2,
			Entries: []db.SearchEntry{
				{Key: "retrieval:mail:a", Score: 3.2, Fields: map[string]string{"__content": "alpha"}},
				{Key: "retrieval:mail:b", Score: 1.1, Fields: map[string]string{"__content": "beta"}},
			},
		}, nil
	}

	repo := New(ms)
	candidates, err := repo.SearchBM25(context.Background(), source.Mail,
		"quarterly report", filter.Expression{}, 10, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery.IndexName != "retrieval:mail:idx" || gotQuery.Query != "quarterly report" {
		t.Errorf("query: %+v", gotQuery)
	}
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].ID() != "a" || candidates[1].ID() != "b" {
		t.Errorf("ids: %q, %q", candidates[0].ID(), candidates[1].ID())
	}
}

func TestSupportsTextSearch(t *testing.T) {
	repo := New(&mockStore{textSearchOK: true})
	if !repo.SupportsTextSearch(context.Background()) {
		t.Error("expected text search support to be proxied")
	}
}

func TestReturnFields(t *testing.T) {
	fields := returnFields([]string{"author", "title"}, true)

	want := map[string]bool{
		"__content": true, "__rtype": true, "__weburl": true, "__label": true,
		"__vector_score": true, "m_author": true, "m_title": true,
	}
	if len(fields) != len(want) {
		t.Fatalf("fields: %v", fields)
	}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected field %q", f)
		}
	}

	noScore := returnFields(nil, false)
	for _, f := range noScore {
		if f == "__vector_score" {
			t.Error("__vector_score should be absent for BM25 projections")
		}
	}
}

func TestParseCandidates_Empty(t *testing.T) {
	if got := parseCandidates(nil, source.Mail); got != nil {
		t.Errorf("nil result: %v", got)
	}
	if got := parseCandidates(&db.SearchResult{}, source.Mail); got != nil {
		t.Errorf("empty result: %v", got)
	}
}

func TestParseEntry_Defaults(t *testing.T) {
	c := parseEntry("doc-1", db.SearchEntry{
		Key:    "retrieval:mail:doc-1",
		Fields: map[string]string{"__content": "text"},
	})

	if c.Type() != domres.TypeUnknownFutureValue {
		t.Errorf("missing rtype should default to sentinel, got %q", c.Type())
	}
	if c.Metadata() != nil {
		t.Errorf("expected nil metadata, got %v", c.Metadata())
	}
	if !c.Label().IsZero() {
		t.Error("expected zero label")
	}
}

func TestParseEntry_Label(t *testing.T) {
	c := parseEntry("doc-1", db.SearchEntry{
		Fields: map[string]string{
			"__label": `{"id":"lbl-1","displayName":"Confidential","priority":3,"isEncrypted":true}`,
		},
	})

	lbl := c.Label()
	if lbl.ID() != "lbl-1" || lbl.DisplayName() != "Confidential" {
		t.Errorf("label: id=%q name=%q", lbl.ID(), lbl.DisplayName())
	}
	if lbl.Priority() != 3 || !lbl.IsEncrypted() {
		t.Errorf("label: priority=%d encrypted=%v", lbl.Priority(), lbl.IsEncrypted())
	}
}

func TestParseEntry_CorruptLabelIgnored(t *testing.T) {
	c := parseEntry("doc-1", db.SearchEntry{
		Fields: map[string]string{"__label": "{broken"},
	})
	if !c.Label().IsZero() {
		t.Error("expected zero label for corrupt JSON")
	}
}
