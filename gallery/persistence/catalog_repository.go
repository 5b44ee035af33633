package persistence

import (
	"context"
	"errors"
	"fmt"

	"gitgallery/gallery/domain"

	"github.com/rs/zerolog/log"
)

// CatalogRepository owns the read-modify-write cycle for the metadata
// catalog. There is no retry loop: the store's revision token is fetched
// immediately before each write, and a stale token fails the operation
// outright. The single-writer assumption (one browser tab) is what makes
// that acceptable.
type CatalogRepository struct {
	store domain.BlobStore
}

func NewCatalogRepository(store domain.BlobStore) *CatalogRepository {
	return &CatalogRepository{store: store}
}

// Fetch returns the current catalog, the revision token to use for the next
// write, and where the value came from. An absent resource is an empty
// catalog with no token (first run). Corrupt content also yields an empty
// catalog, but with OriginCorrupt and the resource's token, so the caller
// can tell self-healed corruption apart from legitimate emptiness.
func (r *CatalogRepository) Fetch(ctx context.Context) (domain.Catalog, string, domain.CatalogOrigin, error) {
	res, err := r.store.FetchResource(ctx, domain.CatalogPath)
	if err != nil {
		if errors.Is(err, domain.ErrResourceNotFound) {
			return domain.Catalog{}, "", domain.OriginAbsent, nil
		}
		return domain.Catalog{}, "", domain.OriginAbsent, fmt.Errorf("failed to fetch catalog: %w", err)
	}

	catalog, err := domain.DecodeCatalog(res.Content)
	if err != nil {
		return domain.Catalog{}, res.SHA, domain.OriginCorrupt, nil
	}

	return catalog, res.SHA, domain.OriginExisting, nil
}

// Apply runs one catalog mutation as a single fetch-modify-write: fetch the
// latest revision, apply the pure mutation function, write back with the
// token from that same fetch. Corrupt content is replaced by the mutated
// empty catalog (prior entries are lost; logged, not failed). A concurrent
// writer between fetch and write surfaces as domain.ErrRevisionConflict.
func (r *CatalogRepository) Apply(ctx context.Context, mutate func(domain.Catalog) domain.Catalog, message string) error {
	catalog, sha, origin, err := r.Fetch(ctx)
	if err != nil {
		return err
	}

	if origin == domain.OriginCorrupt {
		log.Warn().Str("path", domain.CatalogPath).Msg("Catalog content is corrupt, rebuilding from empty")
	}

	content, err := domain.EncodeCatalog(mutate(catalog))
	if err != nil {
		return fmt.Errorf("failed to encode catalog: %w", err)
	}

	if _, err := r.store.WriteResource(ctx, domain.CatalogPath, content, message, sha); err != nil {
		return fmt.Errorf("failed to write catalog: %w", err)
	}

	return nil
}
