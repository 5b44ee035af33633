package application

import (
	"context"
	"fmt"
	"path"

	"gitgallery/gallery/domain"

	"github.com/rs/zerolog/log"
)

// ReconcileReport is the outcome of one best-effort consistency pass over
// the blob folder and the catalog.
type ReconcileReport struct {
	// OrphanedBlobs are blob filenames present in the store but missing
	// from the catalog (an upload whose catalog write failed).
	OrphanedBlobs []string `json:"orphanedBlobs"`
	// DanglingEntries are catalog filenames whose blob no longer exists
	// (a delete whose catalog write failed, or an out-of-band removal).
	DanglingEntries []string `json:"danglingEntries"`
	// CatalogCorrupt is set when the catalog resource exists but does not
	// decode; the comparison then ran against an empty catalog.
	CatalogCorrupt bool `json:"catalogCorrupt"`
}

// Consistent reports whether the pass found nothing out of place.
func (r *ReconcileReport) Consistent() bool {
	return len(r.OrphanedBlobs) == 0 && len(r.DanglingEntries) == 0 && !r.CatalogCorrupt
}

// Reconcile lists the blob folder, cross-checks it against the catalog, and
// reports orphaned blobs and dangling entries. It repairs nothing: the
// partial-failure windows of upload and delete are accepted, and this pass
// only makes them visible.
func (s *GalleryService) Reconcile(ctx context.Context) (*ReconcileReport, error) {
	blobs, err := s.store.ListResources(ctx, domain.BlobDir)
	if err != nil {
		return nil, fmt.Errorf("failed to list blobs: %w", err)
	}

	catalog, _, origin, err := s.catalog.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	report := &ReconcileReport{
		OrphanedBlobs:   []string{},
		DanglingEntries: []string{},
		CatalogCorrupt:  origin == domain.OriginCorrupt,
	}

	stored := make(map[string]bool, len(blobs))
	for _, blob := range blobs {
		name := path.Base(blob.Path)
		stored[name] = true
		if _, ok := catalog.Find(name); !ok {
			report.OrphanedBlobs = append(report.OrphanedBlobs, name)
		}
	}
	for _, entry := range catalog.Images {
		if !stored[entry.Filename] {
			report.DanglingEntries = append(report.DanglingEntries, entry.Filename)
		}
	}

	if !report.Consistent() {
		log.Warn().
			Int("orphanedBlobs", len(report.OrphanedBlobs)).
			Int("danglingEntries", len(report.DanglingEntries)).
			Bool("catalogCorrupt", report.CatalogCorrupt).
			Msg("Gallery is inconsistent")
	}

	return report, nil
}
