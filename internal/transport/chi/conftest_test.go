package chi

import (
	"context"
	"net/http/httptest"

	chirouter "github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/graphmesh/retrieval/internal/domain"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/filter"
	domres "github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/result"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
	healthuc "github.com/graphmesh/retrieval/internal/usecase/health"
	ingestuc "github.com/graphmesh/retrieval/internal/usecase/ingest"
	retrievaluc "github.com/graphmesh/retrieval/internal/usecase/retrieval"
)

// --- Shared mocks for handler tests ---

type mockSearchRepo struct {
	knnResults   []result.Candidate
	knnErr       error
	bm25Results  []result.Candidate
	bm25Err      error
	textSearchOK bool
}

func (m *mockSearchRepo) SearchKNN(
	_ context.Context, _ source.DataSource,
	_ []float32, _ filter.Expression, _ int, _ []string,
) ([]result.Candidate, error) {
	return m.knnResults, m.knnErr
}

func (m *mockSearchRepo) SearchBM25(
	_ context.Context, _ source.DataSource,
	_ string, _ filter.Expression, _ int, _ []string,
) ([]result.Candidate, error) {
	return m.bm25Results, m.bm25Err
}

func (m *mockSearchRepo) SupportsTextSearch(_ context.Context) bool {
	return m.textSearchOK
}

type mockIngestRepo struct {
	upsertCreated bool
	upsertErr     error
	getRes        domres.Resource
	getErr        error
	listRes       []domres.Resource
	listNext      string
	listErr       error
	count         int
	countErr      error
	deleteErr     error
}

func (m *mockIngestRepo) Upsert(
	_ context.Context, _ source.DataSource, _ *domres.Resource, _ []float32,
) (bool, error) {
	return m.upsertCreated, m.upsertErr
}

func (m *mockIngestRepo) UpsertMulti(
	_ context.Context, _ source.DataSource, _ []domres.Resource, _ [][]float32,
) error {
	return m.upsertErr
}

func (m *mockIngestRepo) Get(_ context.Context, _ source.DataSource, _ string) (domres.Resource, error) {
	return m.getRes, m.getErr
}

func (m *mockIngestRepo) List(
	_ context.Context, _ source.DataSource, _ string, _ int,
) ([]domres.Resource, string, error) {
	return m.listRes, m.listNext, m.listErr
}

func (m *mockIngestRepo) Count(_ context.Context, _ source.DataSource) (int, error) {
	return m.count, m.countErr
}

func (m *mockIngestRepo) Delete(_ context.Context, _ source.DataSource, _ string) error {
	return m.deleteErr
}

type mockEmbedder struct {
	vec    []float32
	tokens int
	err    error
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	if m.err != nil {
		return domain.EmbeddingResult{}, m.err
	}
	return domain.EmbeddingResult{Embedding: m.vec, TotalTokens: m.tokens}, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(_ context.Context) error { return m.err }

// testServer wires a Server with mocks behind a chi router.
func testServer(searchRepo *mockSearchRepo, ingestRepo *mockIngestRepo, embed *mockEmbedder) *httptest.Server {
	retrievalSvc := retrievaluc.New(searchRepo, embed)
	ingestSvc := ingestuc.New(ingestRepo, embed)
	healthSvc := healthuc.New(&mockPinger{}, nil)

	s := NewServer(retrievalSvc, ingestSvc, healthSvc, zap.NewNop())
	r := chirouter.NewRouter()
	s.Routes(r)
	return httptest.NewServer(r)
}
