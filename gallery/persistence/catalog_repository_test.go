package persistence

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"gitgallery/gallery/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory BlobStore that enforces the revision-token
// precondition the way the real contents API does.
type fakeStore struct {
	resources map[string]*domain.Resource
	shaSeq    int

	fetchCalls int
	writeCalls int

	failWrites bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{resources: make(map[string]*domain.Resource)}
}

func (s *fakeStore) put(path string, content []byte) {
	s.shaSeq++
	s.resources[path] = &domain.Resource{
		Path:    path,
		Content: content,
		SHA:     fmt.Sprintf("sha-%d", s.shaSeq),
	}
}

func (s *fakeStore) FetchResource(_ context.Context, path string) (*domain.Resource, error) {
	s.fetchCalls++
	res, ok := s.resources[path]
	if !ok {
		return nil, &domain.StoreError{Op: "getting file " + path, StatusCode: http.StatusNotFound, Message: "Not Found"}
	}
	copied := *res
	return &copied, nil
}

func (s *fakeStore) WriteResource(_ context.Context, path string, content []byte, _ string, priorSHA string) (string, error) {
	s.writeCalls++
	if s.failWrites {
		return "", &domain.StoreError{Op: "updating file " + path, Err: fmt.Errorf("connection reset")}
	}
	current, exists := s.resources[path]
	if exists && priorSHA != current.SHA {
		return "", &domain.StoreError{Op: "updating file " + path, StatusCode: http.StatusConflict, Message: "is at " + current.SHA + " but expected " + priorSHA}
	}
	if !exists && priorSHA != "" {
		return "", &domain.StoreError{Op: "updating file " + path, StatusCode: http.StatusConflict, Message: "does not exist"}
	}
	s.put(path, content)
	return s.resources[path].SHA, nil
}

func (s *fakeStore) DeleteResource(_ context.Context, path string, sha string, _ string) error {
	current, exists := s.resources[path]
	if !exists {
		return &domain.StoreError{Op: "deleting file " + path, StatusCode: http.StatusNotFound, Message: "Not Found"}
	}
	if sha != current.SHA {
		return &domain.StoreError{Op: "deleting file " + path, StatusCode: http.StatusConflict, Message: "is at " + current.SHA + " but expected " + sha}
	}
	delete(s.resources, path)
	return nil
}

func (s *fakeStore) ListResources(_ context.Context, dir string) ([]domain.Resource, error) {
	var out []domain.Resource
	for path, res := range s.resources {
		if len(path) > len(dir) && path[:len(dir)+1] == dir+"/" {
			out = append(out, domain.Resource{Path: path, SHA: res.SHA})
		}
	}
	return out, nil
}

func (s *fakeStore) catalog(t *testing.T) domain.Catalog {
	t.Helper()
	res, ok := s.resources[domain.CatalogPath]
	require.True(t, ok, "catalog resource should exist")
	catalog, err := domain.DecodeCatalog(res.Content)
	require.NoError(t, err)
	return catalog
}

func TestFetchAbsentCatalogIsEmpty(t *testing.T) {
	repo := NewCatalogRepository(newFakeStore())

	catalog, sha, origin, err := repo.Fetch(context.Background())
	require.NoError(t, err, "an absent catalog is a valid first-run state, not a failure")
	assert.Empty(t, catalog.Images)
	assert.Empty(t, sha)
	assert.Equal(t, domain.OriginAbsent, origin)
}

func TestFetchCorruptCatalogIsEmptyButFlagged(t *testing.T) {
	store := newFakeStore()
	store.put(domain.CatalogPath, []byte(`{"images":[`))
	repo := NewCatalogRepository(store)

	catalog, sha, origin, err := repo.Fetch(context.Background())
	require.NoError(t, err)
	assert.Empty(t, catalog.Images)
	assert.NotEmpty(t, sha, "the corrupt resource's token is still needed for the next write")
	assert.Equal(t, domain.OriginCorrupt, origin)
}

func TestApplyIssuesOneFetchAndOneWrite(t *testing.T) {
	store := newFakeStore()
	store.put(domain.CatalogPath, []byte(`{"images":[{"filename":"1_a.png","description":"","url":"u","timestamp":"t"}]}`))
	repo := NewCatalogRepository(store)

	err := repo.Apply(context.Background(), func(c domain.Catalog) domain.Catalog {
		return c.Prepend(domain.ImageEntry{Filename: "2_b.png"})
	}, "Add 2_b.png to catalog")
	require.NoError(t, err)

	assert.Equal(t, 1, store.fetchCalls)
	assert.Equal(t, 1, store.writeCalls)
	assert.Len(t, store.catalog(t).Images, 2)
}

func TestApplyCreatesCatalogWhenAbsent(t *testing.T) {
	store := newFakeStore()
	repo := NewCatalogRepository(store)

	err := repo.Apply(context.Background(), func(c domain.Catalog) domain.Catalog {
		return c.Prepend(domain.ImageEntry{Filename: "1_a.png"})
	}, "Add 1_a.png to catalog")
	require.NoError(t, err)

	assert.Len(t, store.catalog(t).Images, 1)
}

func TestApplyStaleTokenFailsAndLeavesStoreUnchanged(t *testing.T) {
	store := newFakeStore()
	store.put(domain.CatalogPath, []byte(`{"images":[]}`))

	// A concurrent writer bumps the catalog between our fetch and write.
	racing := NewCatalogRepository(&racingStore{fakeStore: store})

	err := racing.Apply(context.Background(), func(c domain.Catalog) domain.Catalog {
		return c.Prepend(domain.ImageEntry{Filename: "9_z.png"})
	}, "Add 9_z.png to catalog")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)

	// The concurrent writer's version is what remains at the store.
	assert.Len(t, store.catalog(t).Images, 1)
	assert.Equal(t, "interloper_1.png", store.catalog(t).Images[0].Filename)
}

func TestApplyRebuildsFromCorruptContent(t *testing.T) {
	store := newFakeStore()
	store.put(domain.CatalogPath, []byte(`not json`))
	repo := NewCatalogRepository(store)

	err := repo.Apply(context.Background(), func(c domain.Catalog) domain.Catalog {
		return c.Prepend(domain.ImageEntry{Filename: "1_a.png"})
	}, "Add 1_a.png to catalog")
	require.NoError(t, err)

	catalog := store.catalog(t)
	require.Len(t, catalog.Images, 1, "corrupt content is replaced by the mutated empty catalog")
	assert.Equal(t, "1_a.png", catalog.Images[0].Filename)
}

func TestApplyPropagatesWriteFailure(t *testing.T) {
	store := newFakeStore()
	store.put(domain.CatalogPath, []byte(`{"images":[]}`))
	store.failWrites = true
	repo := NewCatalogRepository(store)

	err := repo.Apply(context.Background(), func(c domain.Catalog) domain.Catalog { return c }, "noop")
	require.Error(t, err)
	assert.Equal(t, 1, store.writeCalls, "no retry on failure")
}

// racingStore simulates a concurrent writer that updates the catalog after
// every fetch, invalidating the token the fetch returned.
type racingStore struct {
	*fakeStore
}

func (s *racingStore) FetchResource(ctx context.Context, path string) (*domain.Resource, error) {
	res, err := s.fakeStore.FetchResource(ctx, path)
	if err != nil {
		return nil, err
	}
	s.fakeStore.put(path, []byte(`{"images":[{"filename":"interloper_1.png","description":"","url":"u","timestamp":"t"}]}`))
	return res, nil
}
