package application

import "fmt"

// MaxFileSize is the largest accepted upload, in bytes.
const MaxFileSize = 5 << 20 // 5 MiB

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// ValidationResult is the outcome of pre-upload file validation, consumed
// directly by the presentation layer.
type ValidationResult struct {
	Valid  bool   `json:"valid"`
	Reason string `json:"reason,omitempty"`
}

// ValidateFile checks an upload candidate before any network call: the
// declared content type must be one of the accepted image formats and the
// size must be positive and within the limit.
func ValidateFile(content []byte, declaredType string, size int64) ValidationResult {
	if !allowedImageTypes[declaredType] {
		return ValidationResult{Reason: fmt.Sprintf("unsupported file type %q: only JPEG, PNG and GIF images are accepted", declaredType)}
	}
	if size <= 0 || len(content) == 0 {
		return ValidationResult{Reason: "file is empty"}
	}
	if size > MaxFileSize {
		return ValidationResult{Reason: fmt.Sprintf("file is too large: %d bytes exceeds the %d byte limit", size, MaxFileSize)}
	}
	return ValidationResult{Valid: true}
}
