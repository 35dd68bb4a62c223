package retrieval

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/graphmesh/retrieval/internal/domain"
	"github.com/graphmesh/retrieval/internal/domain/label"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/filter"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/request"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/result"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
)

// --- Mocks ---

type mockRepo struct {
	knnResults   []result.Candidate
	knnErr       error
	bm25Results  []result.Candidate
	bm25Err      error
	textSearchOK bool
	knnCalled    bool
	bm25Called   bool
	lastKNNTopK  int
}

func (m *mockRepo) SearchKNN(
	_ context.Context, _ source.DataSource,
	_ []float32, _ filter.Expression, topK int, _ []string,
) ([]result.Candidate, error) {
	m.knnCalled = true
	m.lastKNNTopK = topK
	return m.knnResults, m.knnErr
}

func (m *mockRepo) SearchBM25(
	_ context.Context, _ source.DataSource,
	_ string, _ filter.Expression, _ int, _ []string,
) ([]result.Candidate, error) {
	m.bm25Called = true
	return m.bm25Results, m.bm25Err
}

func (m *mockRepo) SupportsTextSearch(_ context.Context) bool {
	return m.textSearchOK
}

type mockEmbedder struct {
	vec    []float32
	tokens int
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	m.called = true
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: m.tokens}, nil
}

func makeRequest(t *testing.T, maxResults int, metadataKeys []string) *request.Request {
	t.Helper()
	r, err := request.New("test query", source.SharePoint, filter.Expression{}, metadataKeys, maxResults)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return &r
}

func candidate(id string, score float64, content string) result.Candidate {
	return result.NewCandidate(id, score, content, resource.TypeDriveItem, "", nil, label.Label{})
}

// --- Tests ---

func TestRetrieve_Hybrid(t *testing.T) {
	repo := &mockRepo{
		knnResults:   []result.Candidate{candidate("a", 0.9, "alpha text")},
		bm25Results:  []result.Candidate{candidate("b", 0.8, "beta text")},
		textSearchOK: true,
	}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(repo, embed)

	hits, err := svc.Retrieve(context.Background(), makeRequest(t, 10, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 2 {
		t.Fatalf("expected 2 hits, got %d", len(hits))
	}
	if !repo.knnCalled {
		t.Error("expected SearchKNN to be called")
	}
	if !repo.bm25Called {
		t.Error("expected SearchBM25 to be called")
	}
	if !embed.called {
		t.Error("expected Embed to be called")
	}
}

func TestRetrieve_SemanticOnlyWithoutTextSearch(t *testing.T) {
	repo := &mockRepo{
		knnResults:   []result.Candidate{candidate("a", 0.9, "alpha text")},
		textSearchOK: false,
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	hits, err := svc.Retrieve(context.Background(), makeRequest(t, 10, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	if repo.bm25Called {
		t.Error("SearchBM25 should not be called without text search support")
	}
}

func TestRetrieve_FetchesWiderThanMaxResults(t *testing.T) {
	repo := &mockRepo{textSearchOK: true}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	if _, err := svc.Retrieve(context.Background(), makeRequest(t, 5, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastKNNTopK != 5*candidateMultiplier {
		t.Errorf("expected fetch topK=%d, got %d", 5*candidateMultiplier, repo.lastKNNTopK)
	}
}

func TestRetrieve_ClampsToMaxResults(t *testing.T) {
	many := make([]result.Candidate, 8)
	for i := range many {
		many[i] = candidate(string(rune('a'+i)), 1.0-float64(i)*0.1, "some content")
	}
	repo := &mockRepo{knnResults: many, textSearchOK: false}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	hits, err := svc.Retrieve(context.Background(), makeRequest(t, 3, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 3 {
		t.Fatalf("expected 3 hits, got %d", len(hits))
	}
}

func TestRetrieve_EmbedError(t *testing.T) {
	repo := &mockRepo{textSearchOK: true}
	embed := &mockEmbedder{err: errors.New("embedding provider down")}
	svc := New(repo, embed)

	_, err := svc.Retrieve(context.Background(), makeRequest(t, 10, nil))
	if err == nil {
		t.Fatal("expected error from embedding failure")
	}
	if repo.knnCalled {
		t.Error("SearchKNN should not be called when embedding fails")
	}
}

func TestRetrieve_KNNError(t *testing.T) {
	repo := &mockRepo{knnErr: errors.New("knn failure"), textSearchOK: true}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	if _, err := svc.Retrieve(context.Background(), makeRequest(t, 10, nil)); err == nil {
		t.Fatal("expected error from KNN failure")
	}
}

func TestRetrieve_BM25Error(t *testing.T) {
	repo := &mockRepo{
		knnResults:   []result.Candidate{candidate("a", 0.9, "text")},
		bm25Err:      errors.New("bm25 failure"),
		textSearchOK: true,
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	if _, err := svc.Retrieve(context.Background(), makeRequest(t, 10, nil)); err == nil {
		t.Fatal("expected error from BM25 failure")
	}
}

func TestRetrieve_EmptyCorpus(t *testing.T) {
	repo := &mockRepo{textSearchOK: true}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	hits, err := svc.Retrieve(context.Background(), makeRequest(t, 10, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Fatalf("expected 0 hits, got %d", len(hits))
	}
}

func TestRetrieve_RecordsEmbeddingTokens(t *testing.T) {
	repo := &mockRepo{textSearchOK: false}
	embed := &mockEmbedder{vec: []float32{0.1}, tokens: 42}
	svc := New(repo, embed)

	ctx, usage := domain.NewContextWithUsage(context.Background())
	if _, err := svc.Retrieve(ctx, makeRequest(t, 10, nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if usage.TotalTokens != 42 {
		t.Errorf("expected 42 tokens recorded, got %d", usage.TotalTokens)
	}
	if !usage.Used {
		t.Error("expected usage to be marked used")
	}
}

func TestRetrieve_HitsCarryExtracts(t *testing.T) {
	repo := &mockRepo{
		knnResults:   []result.Candidate{candidate("a", 0.9, "A short document about test queries.")},
		textSearchOK: false,
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	hits, err := svc.Retrieve(context.Background(), makeRequest(t, 10, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 {
		t.Fatalf("expected 1 hit, got %d", len(hits))
	}
	extracts := hits[0].Extracts()
	if len(extracts) == 0 {
		t.Fatal("expected at least one extract")
	}
	if !strings.Contains(extracts[0], "short document") {
		t.Errorf("extract does not carry content: %q", extracts[0])
	}
}

func TestRetrieve_MetadataProjection(t *testing.T) {
	cand := result.NewCandidate("a", 0.9, "content",
		resource.TypeDriveItem, "https://example.com/doc",
		map[string]string{"author": "alice", "title": "report", "internal": "x"},
		label.Label{})
	repo := &mockRepo{knnResults: []result.Candidate{cand}, textSearchOK: false}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	hits, err := svc.Retrieve(context.Background(), makeRequest(t, 10, []string{"author", "missing"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	md := hits[0].Metadata()
	if len(md) != 1 {
		t.Fatalf("expected 1 projected key, got %d: %v", len(md), md)
	}
	if md["author"] != "alice" {
		t.Errorf("expected author=alice, got %q", md["author"])
	}
}

func TestRetrieve_NoMetadataKeysReturnsNil(t *testing.T) {
	cand := result.NewCandidate("a", 0.9, "content",
		resource.TypeDriveItem, "", map[string]string{"author": "alice"}, label.Label{})
	repo := &mockRepo{knnResults: []result.Candidate{cand}, textSearchOK: false}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	hits, err := svc.Retrieve(context.Background(), makeRequest(t, 10, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if hits[0].Metadata() != nil {
		t.Errorf("expected nil metadata without requested keys, got %v", hits[0].Metadata())
	}
}

func TestRetrieve_LabelPassedThrough(t *testing.T) {
	lbl := label.New("lbl-1", "Confidential", "#FF0000", "Internal only", 5, true)
	cand := result.NewCandidate("a", 0.9, "content",
		resource.TypeDriveItem, "", nil, lbl)
	repo := &mockRepo{knnResults: []result.Candidate{cand}, textSearchOK: false}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	hits, err := svc.Retrieve(context.Background(), makeRequest(t, 10, nil))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := hits[0].Label()
	if got.IsZero() {
		t.Fatal("expected label to survive the pipeline")
	}
	if got.ID() != "lbl-1" || !got.IsEncrypted() {
		t.Errorf("label mangled: id=%q encrypted=%v", got.ID(), got.IsEncrypted())
	}
}
