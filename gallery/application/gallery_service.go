package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gitgallery/gallery/domain"
	"gitgallery/gallery/persistence"

	"github.com/rs/zerolog/log"
)

// GalleryService sequences blob operations and catalog synchronizations into
// the upload/delete transactions the gallery exposes. It is stateless between
// calls; every operation re-fetches the catalog's revision token through the
// catalog repository immediately before mutating it.
type GalleryService struct {
	store   domain.BlobStore
	catalog *persistence.CatalogRepository
	owner   string
	repo    string
	branch  string
}

func NewGalleryService(store domain.BlobStore, catalog *persistence.CatalogRepository, owner, repo, branch string) *GalleryService {
	return &GalleryService{
		store:   store,
		catalog: catalog,
		owner:   owner,
		repo:    repo,
		branch:  branch,
	}
}

// Upload writes the image blob and prepends its catalog entry, in that
// order. The blob path is freshly minted from the upload instant, so the
// create carries no prior revision token. If the catalog write fails after
// the blob write succeeded, the blob is left orphaned on purpose: a
// compensating delete could race a legitimate concurrent catalog update,
// and an unreferenced blob is the cheaper inconsistency.
func (s *GalleryService) Upload(ctx context.Context, content []byte, originalName, description string) (*domain.ImageEntry, error) {
	now := time.Now().UTC()
	filename := domain.NewFilename(originalName, now)

	sha, err := s.store.WriteResource(ctx, domain.BlobPath(filename), content, "Upload "+filename, "")
	if err != nil {
		return nil, fmt.Errorf("failed to upload image %s: %w", filename, err)
	}

	entry := domain.ImageEntry{
		Filename:    filename,
		Description: description,
		URL:         domain.BlobURL(s.owner, s.repo, s.branch, filename),
		Timestamp:   now.Format(time.RFC3339),
		SHA:         sha,
	}

	err = s.catalog.Apply(ctx, func(c domain.Catalog) domain.Catalog {
		return c.Prepend(entry)
	}, "Add "+filename+" to catalog")
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("Blob uploaded but catalog update failed, blob is orphaned")
		return nil, fmt.Errorf("image %s uploaded but not cataloged: %w", filename, err)
	}

	return &entry, nil
}

// Delete removes the blob and the catalog entry for filename. The blob side
// is idempotent: an already-absent blob is skipped, and deletion counts as
// successful once the catalog no longer references the image, whether or not
// a blob was actually removed.
func (s *GalleryService) Delete(ctx context.Context, filename string) error {
	blobPath := domain.BlobPath(filename)

	res, err := s.store.FetchResource(ctx, blobPath)
	switch {
	case errors.Is(err, domain.ErrResourceNotFound):
		log.Info().Str("filename", filename).Msg("Blob already absent, removing catalog entry only")
	case err != nil:
		return fmt.Errorf("failed to look up image %s: %w", filename, err)
	default:
		if err := s.store.DeleteResource(ctx, blobPath, res.SHA, "Delete "+filename); err != nil {
			return fmt.Errorf("failed to delete image %s: %w", filename, err)
		}
	}

	err = s.catalog.Apply(ctx, func(c domain.Catalog) domain.Catalog {
		return c.RemoveByFilename(filename)
	}, "Remove "+filename+" from catalog")
	if err != nil {
		return fmt.Errorf("image %s removed but catalog update failed: %w", filename, err)
	}

	return nil
}

// List returns the current catalog entries, newest first. A corrupt catalog
// lists as empty; the corruption is logged, not surfaced.
func (s *GalleryService) List(ctx context.Context) ([]domain.ImageEntry, error) {
	catalog, _, origin, err := s.catalog.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if origin == domain.OriginCorrupt {
		log.Warn().Str("path", domain.CatalogPath).Msg("Catalog content is corrupt, listing as empty")
	}
	if catalog.Images == nil {
		return []domain.ImageEntry{}, nil
	}
	return catalog.Images, nil
}
