package chi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	"github.com/graphmesh/retrieval/internal/domain"
	domres "github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
	ingestuc "github.com/graphmesh/retrieval/internal/usecase/ingest"
	"github.com/graphmesh/retrieval/pkg/graph"
)

// listResourcesParams are the query parameters of the admin listing.
type listResourcesParams struct {
	Cursor *string `json:"cursor,omitempty"`
	Limit  *int    `json:"limit,omitempty"`
}

// UpsertResource handles PUT /admin/sources/{dataSource}/resources/{id}.
func (s *Server) UpsertResource(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataSourceParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req upsertResourceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, graph.ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	res, err := resourceFromRequest(id, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, graph.ErrorCodeInvalidRequest, err.Error())
		return
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	created, err := s.ingest.Upsert(ctx, ds, &res)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
		w.Header().Set("Location", fmt.Sprintf("/admin/sources/%s/resources/%s", ds, id))
	}
	setEmbeddingHeaders(w, usage)

	writeJSON(w, status, resourceToResponse(&res))
}

// BatchUpsertResources handles POST /admin/sources/{dataSource}/resources/batch.
func (s *Server) BatchUpsertResources(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataSourceParam(w, r)
	if !ok {
		return
	}

	var req batchUpsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, graph.ErrorCodeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Resources) == 0 || len(req.Resources) > ingestuc.MaxBatchSize {
		writeError(w, http.StatusBadRequest, graph.ErrorCodeInvalidRequest,
			fmt.Sprintf("resources count must be between 1 and %d", ingestuc.MaxBatchSize))
		return
	}

	resources := make([]domres.Resource, 0, len(req.Resources))
	for _, item := range req.Resources {
		res, err := resourceFromRequest(item.ID, &item.upsertResourceRequest)
		if err != nil {
			writeError(w, http.StatusBadRequest, graph.ErrorCodeInvalidRequest, err.Error())
			return
		}
		resources = append(resources, res)
	}

	ctx, usage := domain.NewContextWithUsage(r.Context())
	if err := s.ingest.UpsertBatch(ctx, ds, resources); err != nil {
		s.handleDomainError(w, err)
		return
	}

	setEmbeddingHeaders(w, usage)
	writeJSON(w, http.StatusOK, map[string]int{"upserted": len(resources)})
}

// GetResource handles GET /admin/sources/{dataSource}/resources/{id}.
func (s *Server) GetResource(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataSourceParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	res, err := s.ingest.Get(r.Context(), ds, id)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resourceToResponse(&res))
}

// ListResources handles GET /admin/sources/{dataSource}/resources.
func (s *Server) ListResources(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataSourceParam(w, r)
	if !ok {
		return
	}

	params, err := bindListParams(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, graph.ErrorCodeBadRequest, err.Error())
		return
	}

	cursor := ""
	if params.Cursor != nil {
		cursor = *params.Cursor
	}
	limit := 20
	if params.Limit != nil {
		limit = *params.Limit
	}

	resources, nextCursor, err := s.ingest.List(r.Context(), ds, cursor, limit)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	total, err := s.ingest.Count(r.Context(), ds)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := make([]resourceResponse, len(resources))
	for i := range resources {
		items[i] = resourceToResponse(&resources[i])
	}

	resp := resourceListResponse{
		Items:   items,
		Total:   total,
		HasMore: nextCursor != "",
	}
	if nextCursor != "" {
		resp.NextCursor = &nextCursor
	}

	writeJSON(w, http.StatusOK, resp)
}

// DeleteResource handles DELETE /admin/sources/{dataSource}/resources/{id}.
func (s *Server) DeleteResource(w http.ResponseWriter, r *http.Request) {
	ds, ok := s.dataSourceParam(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if err := s.ingest.Delete(r.Context(), ds, id); err != nil {
		s.handleDomainError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// dataSourceParam resolves and validates the {dataSource} path parameter.
func (s *Server) dataSourceParam(w http.ResponseWriter, r *http.Request) (source.DataSource, bool) {
	ds := source.DataSource(chi.URLParam(r, "dataSource"))
	if !ds.IsValid() {
		writeError(w, http.StatusBadRequest, graph.ErrorCodeInvalidRequest,
			fmt.Sprintf("unknown data source %q", ds))
		return "", false
	}
	if !ds.IsRoutable() {
		writeError(w, http.StatusBadRequest, graph.ErrorCodeDataSourceNotSupported,
			fmt.Sprintf("data source %q is not supported", ds))
		return "", false
	}
	return ds, true
}

// bindListParams binds cursor/limit query parameters.
func bindListParams(r *http.Request) (listResourcesParams, error) {
	var params listResourcesParams

	if err := runtime.BindQueryParameter(
		"form", true, false, "cursor", r.URL.Query(), &params.Cursor,
	); err != nil {
		return params, fmt.Errorf("invalid cursor parameter: %w", err)
	}

	if err := runtime.BindQueryParameter(
		"form", true, false, "limit", r.URL.Query(), &params.Limit,
	); err != nil {
		return params, fmt.Errorf("invalid limit parameter: %w", err)
	}

	if params.Limit != nil && (*params.Limit <= 0 || *params.Limit > 100) {
		return params, fmt.Errorf("limit must be between 1 and 100")
	}

	return params, nil
}
