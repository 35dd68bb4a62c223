package resource

import (
	"context"
	"errors"
	"testing"

	"github.com/graphmesh/retrieval/internal/db"
	"github.com/graphmesh/retrieval/internal/domain"
	"github.com/graphmesh/retrieval/internal/domain/label"
	domres "github.com/graphmesh/retrieval/internal/domain/retrieval/resource"
	"github.com/graphmesh/retrieval/internal/domain/retrieval/source"
)

func makeResource(t *testing.T, id string) domres.Resource {
	t.Helper()
	res, err := domres.New(id, "some content", domres.TypeMail, "", nil, label.Label{})
	if err != nil {
		t.Fatalf("make resource: %v", err)
	}
	return res
}

func TestUpsert_Created(t *testing.T) {
	ms := &mockStore{}
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }

	var gotKey string
	var gotFields map[string]string
	ms.hsetFn = func(_ context.Context, key string, fields map[string]string) error {
		gotKey = key
		gotFields = fields
		return nil
	}

	repo := New(ms)
	res := makeResource(t, "doc-1")
	created, err := repo.Upsert(context.Background(), source.SharePoint, &res, []float32{0.1, 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true for new key")
	}
	if gotKey != "retrieval:sharePoint:doc-1" {
		t.Errorf("key: %q", gotKey)
	}
	if gotFields[fieldContent] != "some content" {
		t.Errorf("content field: %q", gotFields[fieldContent])
	}
	if gotFields[fieldVector] == "" {
		t.Error("expected vector field to be set")
	}
}

func TestUpsert_Updated(t *testing.T) {
	ms := &mockStore{}
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	repo := New(ms)
	res := makeResource(t, "doc-1")
	created, err := repo.Upsert(context.Background(), source.SharePoint, &res, []float32{0.1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created {
		t.Error("expected created=false for existing key")
	}
}

func TestUpsert_StoreError(t *testing.T) {
	ms := &mockStore{}
	ms.hsetFn = func(_ context.Context, _ string, _ map[string]string) error {
		return errors.New("connection reset")
	}

	repo := New(ms)
	res := makeResource(t, "doc-1")
	if _, err := repo.Upsert(context.Background(), source.SharePoint, &res, nil); err == nil {
		t.Fatal("expected error from store")
	}
}

func TestUpsertMulti(t *testing.T) {
	ms := &mockStore{}
	var gotItems []db.HashSetItem
	ms.hsetMultiFn = func(_ context.Context, items []db.HashSetItem) error {
		gotItems = items
		return nil
	}

	repo := New(ms)
	resources := []domres.Resource{makeResource(t, "a"), makeResource(t, "b")}
	vectors := [][]float32{{0.1}, {0.2}}

	if err := repo.UpsertMulti(context.Background(), source.Mail, resources, vectors); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotItems) != 2 {
		t.Fatalf("expected 2 items, got %d", len(gotItems))
	}
	if gotItems[0].Key != "retrieval:mail:a" || gotItems[1].Key != "retrieval:mail:b" {
		t.Errorf("keys: %q, %q", gotItems[0].Key, gotItems[1].Key)
	}
}

func TestUpsertMulti_LengthMismatch(t *testing.T) {
	repo := New(&mockStore{})
	resources := []domres.Resource{makeResource(t, "a")}

	err := repo.UpsertMulti(context.Background(), source.Mail, resources, nil)
	if err == nil {
		t.Fatal("expected error for resources/vectors length mismatch")
	}
}

func TestGet(t *testing.T) {
	ms := &mockStore{}
	ms.hgetAllFn = func(_ context.Context, key string) (map[string]string, error) {
		if key != "retrieval:oneDriveBusiness:doc-7" {
			t.Errorf("key: %q", key)
		}
		return map[string]string{
			fieldContent: "stored content",
			fieldType:    "driveItem",
			fieldWebURL:  "https://contoso.example/doc-7",
		}, nil
	}

	repo := New(ms)
	res, err := repo.Get(context.Background(), source.OneDriveBusiness, "doc-7")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.ID() != "doc-7" || res.Content() != "stored content" {
		t.Errorf("resource: id=%q content=%q", res.ID(), res.Content())
	}
	if res.Type() != domres.TypeDriveItem {
		t.Errorf("type: %q", res.Type())
	}
	if res.WebURL() != "https://contoso.example/doc-7" {
		t.Errorf("webURL: %q", res.WebURL())
	}
}

func TestGet_NotFound(t *testing.T) {
	ms := &mockStore{}
	ms.hgetAllFn = func(_ context.Context, _ string) (map[string]string, error) {
		return map[string]string{}, nil
	}

	repo := New(ms)
	_, err := repo.Get(context.Background(), source.SharePoint, "missing")
	if !errors.Is(err, domain.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestList(t *testing.T) {
	ms := &mockStore{}
	ms.searchListFn = func(_ context.Context, index, query string, offset, limit int, _ []string) (*db.SearchResult, error) {
		if index != "retrieval:sharePoint:idx" {
			t.Errorf("index: %q", index)
		}
		if query != "*" {
			t.Errorf("query: %q", query)
		}
		if offset != 0 {
			t.Errorf("offset: %d", offset)
		}
		if limit != 3 {
			t.Errorf("expected fetch of limit+1=3, got %d", limit)
		}
		return &db.SearchResult{
			Total: 10,
			Entries: []db.SearchEntry{
				{Key: "retrieval:sharePoint:a", Fields: map[string]string{fieldContent: "alpha"}},
				{Key: "retrieval:sharePoint:b", Fields: map[string]string{fieldContent: "beta"}},
				{Key: "retrieval:sharePoint:c", Fields: map[string]string{fieldContent: "gamma"}},
			},
		}, nil
	}

	repo := New(ms)
	resources, next, err := repo.List(context.Background(), source.SharePoint, "", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resources) != 2 {
		t.Fatalf("expected 2 resources, got %d", len(resources))
	}
	if resources[0].ID() != "a" || resources[1].ID() != "b" {
		t.Errorf("ids: %q, %q", resources[0].ID(), resources[1].ID())
	}
	if next != "2" {
		t.Errorf("expected nextCursor=2, got %q", next)
	}
}

func TestList_Cursor(t *testing.T) {
	ms := &mockStore{}
	var gotOffset int
	ms.searchListFn = func(_ context.Context, _, _ string, offset, _ int, _ []string) (*db.SearchResult, error) {
		gotOffset = offset
		return &db.SearchResult{
			Total:   5,
			Entries: []db.SearchEntry{{Key: "retrieval:sharePoint:e", Fields: map[string]string{}}},
		}, nil
	}

	repo := New(ms)
	resources, next, err := repo.List(context.Background(), source.SharePoint, "4", 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotOffset != 4 {
		t.Errorf("offset: %d", gotOffset)
	}
	if len(resources) != 1 {
		t.Errorf("expected 1 resource, got %d", len(resources))
	}
	if next != "" {
		t.Errorf("expected empty nextCursor at end, got %q", next)
	}
}

func TestList_InvalidCursor(t *testing.T) {
	repo := New(&mockStore{})
	_, _, err := repo.List(context.Background(), source.SharePoint, "abc", 10)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestList_IndexNotFound(t *testing.T) {
	ms := &mockStore{}
	ms.searchListFn = func(_ context.Context, _, _ string, _, _ int, _ []string) (*db.SearchResult, error) {
		return nil, db.ErrIndexNotFound
	}

	repo := New(ms)
	resources, next, err := repo.List(context.Background(), source.SharePoint, "", 10)
	if err != nil {
		t.Fatalf("expected empty result, got error: %v", err)
	}
	if len(resources) != 0 || next != "" {
		t.Errorf("expected empty list, got %d resources, cursor %q", len(resources), next)
	}
}

func TestCount(t *testing.T) {
	ms := &mockStore{}
	ms.searchCountFn = func(_ context.Context, index, query string) (int, error) {
		if index != "retrieval:calendar:idx" || query != "*" {
			t.Errorf("search count args: %q %q", index, query)
		}
		return 42, nil
	}

	repo := New(ms)
	n, err := repo.Count(context.Background(), source.Calendar)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 42 {
		t.Errorf("count: %d", n)
	}
}

func TestCount_IndexNotFound(t *testing.T) {
	ms := &mockStore{}
	ms.searchCountFn = func(_ context.Context, _, _ string) (int, error) {
		return 0, db.ErrIndexNotFound
	}

	repo := New(ms)
	n, err := repo.Count(context.Background(), source.Calendar)
	if err != nil {
		t.Fatalf("expected 0 count, got error: %v", err)
	}
	if n != 0 {
		t.Errorf("count: %d", n)
	}
}

func TestDelete(t *testing.T) {
	ms := &mockStore{}
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return true, nil }

	var delKey string
	ms.delFn = func(_ context.Context, key string) error {
		delKey = key
		return nil
	}

	repo := New(ms)
	if err := repo.Delete(context.Background(), source.Teams, "msg-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if delKey != "retrieval:teams:msg-1" {
		t.Errorf("key: %q", delKey)
	}
}

func TestDelete_NotFound(t *testing.T) {
	ms := &mockStore{}
	ms.existsFn = func(_ context.Context, _ string) (bool, error) { return false, nil }

	repo := New(ms)
	err := repo.Delete(context.Background(), source.Teams, "missing")
	if !errors.Is(err, domain.ErrResourceNotFound) {
		t.Fatalf("expected ErrResourceNotFound, got %v", err)
	}
}

func TestIndexName(t *testing.T) {
	if got := IndexName(source.SharePoint); got != "retrieval:sharePoint:idx" {
		t.Errorf("IndexName: %q", got)
	}
}

func TestKeyPrefix(t *testing.T) {
	if got := KeyPrefix(source.Mail); got != "retrieval:mail:" {
		t.Errorf("KeyPrefix: %q", got)
	}
}
