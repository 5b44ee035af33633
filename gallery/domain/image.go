package domain

import (
	"fmt"
	"regexp"
	"time"
)

// BlobDir is the repository folder that holds all image blobs.
const BlobDir = "images"

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9.-]`)

// ImageEntry is one record in the catalog. Fields map directly onto the
// persisted JSON document; URL is derived at upload time and stored for
// convenience, never recomputed for existing entries.
type ImageEntry struct {
	Filename    string `json:"filename"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Timestamp   string `json:"timestamp"`
	SHA         string `json:"sha,omitempty"`
}

// NewFilename mints a unique blob filename for an upload: the upload instant
// in unix milliseconds followed by the sanitized original name. Uniqueness
// rests on the millisecond prefix; same-name same-millisecond collisions are
// accepted as rare.
func NewFilename(originalName string, at time.Time) string {
	return fmt.Sprintf("%d_%s", at.UnixMilli(), SanitizeFilename(originalName))
}

// SanitizeFilename replaces every character outside [A-Za-z0-9.-] with an
// underscore so the name is safe as a repository path segment.
func SanitizeFilename(name string) string {
	return unsafeFilenameChars.ReplaceAllString(name, "_")
}

// BlobPath returns the repository path of an image blob.
func BlobPath(filename string) string {
	return BlobDir + "/" + filename
}

// BlobURL derives the stable public address of a blob. The template must stay
// byte-for-byte fixed: URLs persisted in the catalog are only valid as long as
// this derivation does not change.
func BlobURL(owner, repo, branch, filename string) string {
	return fmt.Sprintf("https://github.com/%s/%s/blob/%s/%s/%s?raw=true", owner, repo, branch, BlobDir, filename)
}
