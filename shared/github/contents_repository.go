package github

import (
	"context"
	"errors"
	"fmt"

	"gitgallery/gallery/domain"

	"github.com/google/go-github/v75/github"
)

var _ domain.BlobStore = (*ContentsRepository)(nil)

// ContentsRepository implements domain.BlobStore against the GitHub Contents
// API. All resources live in one (owner, repo, branch) triple fixed at
// construction; the content SHA GitHub assigns per file is the revision
// token. The client is used without a caching transport, so every fetch
// observes the repository's current state.
type ContentsRepository struct {
	client *github.Client
	owner  string
	repo   string
	branch string
}

// NewContentsRepository creates a ContentsRepository bound to one repository
// and branch.
func NewContentsRepository(client *github.Client, owner, repo, branch string) *ContentsRepository {
	return &ContentsRepository{
		client: client,
		owner:  owner,
		repo:   repo,
		branch: branch,
	}
}

// FetchResource retrieves a file's decoded content and its current SHA.
// A missing path is reported as domain.ErrResourceNotFound.
func (r *ContentsRepository) FetchResource(ctx context.Context, path string) (*domain.Resource, error) {
	op := fmt.Sprintf("getting file %s", path)
	fileContent, _, _, err := r.client.Repositories.GetContents(ctx, r.owner, r.repo, path, &github.RepositoryContentGetOptions{
		Ref: r.branch,
	})
	if err != nil {
		return nil, mapGithubError(op, err)
	}

	if fileContent == nil {
		return nil, &domain.StoreError{Op: op, Err: fmt.Errorf("path is a directory, not a file")}
	}

	content, err := fileContent.GetContent()
	if err != nil {
		return nil, &domain.StoreError{Op: op, Err: fmt.Errorf("failed to decode content: %w", err)}
	}

	return &domain.Resource{
		Path:    path,
		Content: []byte(content),
		SHA:     fileContent.GetSHA(),
	}, nil
}

// WriteResource creates the file when priorSHA is empty, else updates it with
// the SHA precondition. Raw bytes go in; go-github base64-encodes them the
// way the Contents API requires. Returns the SHA of the written blob.
func (r *ContentsRepository) WriteResource(ctx context.Context, path string, content []byte, message string, priorSHA string) (string, error) {
	opts := &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		Content: content,
		Branch:  github.Ptr(r.branch),
	}

	var (
		resp *github.RepositoryContentResponse
		err  error
	)
	if priorSHA == "" {
		op := fmt.Sprintf("creating file %s", path)
		resp, _, err = r.client.Repositories.CreateFile(ctx, r.owner, r.repo, path, opts)
		if err != nil {
			return "", mapGithubError(op, err)
		}
	} else {
		op := fmt.Sprintf("updating file %s", path)
		opts.SHA = github.Ptr(priorSHA)
		resp, _, err = r.client.Repositories.UpdateFile(ctx, r.owner, r.repo, path, opts)
		if err != nil {
			return "", mapGithubError(op, err)
		}
	}

	return resp.Content.GetSHA(), nil
}

// DeleteResource removes a file, preconditioned on its current SHA.
func (r *ContentsRepository) DeleteResource(ctx context.Context, path string, sha string, message string) error {
	op := fmt.Sprintf("deleting file %s", path)
	_, _, err := r.client.Repositories.DeleteFile(ctx, r.owner, r.repo, path, &github.RepositoryContentFileOptions{
		Message: github.Ptr(message),
		SHA:     github.Ptr(sha),
		Branch:  github.Ptr(r.branch),
	})
	if err != nil {
		return mapGithubError(op, err)
	}
	return nil
}

// ListResources lists the files directly under dir, names and SHAs only.
// A missing directory lists as empty rather than failing.
func (r *ContentsRepository) ListResources(ctx context.Context, dir string) ([]domain.Resource, error) {
	op := fmt.Sprintf("listing directory %s", dir)
	_, dirContent, _, err := r.client.Repositories.GetContents(ctx, r.owner, r.repo, dir, &github.RepositoryContentGetOptions{
		Ref: r.branch,
	})
	if err != nil {
		mapped := mapGithubError(op, err)
		if errors.Is(mapped, domain.ErrResourceNotFound) {
			return nil, nil
		}
		return nil, mapped
	}

	resources := make([]domain.Resource, 0, len(dirContent))
	for _, entry := range dirContent {
		if entry.GetType() != "file" {
			continue
		}
		resources = append(resources, domain.Resource{
			Path: entry.GetPath(),
			SHA:  entry.GetSHA(),
		})
	}
	return resources, nil
}

// RepoFullName returns the bound repository's full name (e.g. "owner/repo").
func (r *ContentsRepository) RepoFullName() string {
	return fmt.Sprintf("%s/%s", r.owner, r.repo)
}

// mapGithubError converts a go-github failure into the domain taxonomy: 404
// becomes the not-found sentinel, 409 the revision conflict sentinel, and
// everything else a StoreError carrying the API's structured message when
// one was returned.
func mapGithubError(op string, err error) error {
	if err == nil {
		return nil
	}

	var errResp *github.ErrorResponse
	if errors.As(err, &errResp) {
		return &domain.StoreError{
			Op:         op,
			StatusCode: errResp.Response.StatusCode,
			Message:    errResp.Message,
		}
	}

	return &domain.StoreError{Op: op, Err: err}
}
