package domain

import "context"

// Resource is one stored file in the remote repository together with the
// revision token (content SHA) the store assigned to it.
type Resource struct {
	Path    string
	Content []byte
	SHA     string
}

// BlobStore abstracts the remote repository's contents API: every resource is
// addressed by path within a fixed (repository, branch) pair, and every write
// or delete is preconditioned on the store's current revision token for that
// path. Writes and deletes produce commits in the underlying repository; the
// commit message is part of the contract (audit trail), not decoration.
type BlobStore interface {
	// FetchResource retrieves content and revision token for a path. A
	// missing resource is reported as ErrResourceNotFound; every call
	// observes the store's current state (no intermediary caching).
	FetchResource(ctx context.Context, path string) (*Resource, error)

	// WriteResource creates the resource when priorSHA is empty, otherwise
	// updates it, failing with ErrRevisionConflict when priorSHA does not
	// match the store's current token. Returns the new revision token.
	WriteResource(ctx context.Context, path string, content []byte, message string, priorSHA string) (string, error)

	// DeleteResource removes the resource; fails when sha is stale or the
	// resource is already absent.
	DeleteResource(ctx context.Context, path string, sha string, message string) error

	// ListResources lists the resources directly under dir. Content is not
	// populated, only paths and revision tokens.
	ListResources(ctx context.Context, dir string) ([]Resource, error)
}
