package domain

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var safeFilename = regexp.MustCompile(`^[A-Za-z0-9.-]*$`)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "already safe",
			input:    "photo.png",
			expected: "photo.png",
		},
		{
			name:     "spaces become underscores",
			input:    "my holiday photo.jpg",
			expected: "my_holiday_photo.jpg",
		},
		{
			name:     "path separators are neutralized",
			input:    "../../etc/passwd",
			expected: ".._.._etc_passwd",
		},
		{
			name:     "unicode becomes underscores",
			input:    "café.png",
			expected: "caf_.png",
		},
		{
			name:     "empty name",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			assert.Equal(t, tt.expected, got)
			assert.Regexp(t, safeFilename, got)
		})
	}
}

func TestNewFilename(t *testing.T) {
	at := time.UnixMilli(1756339200123).UTC()
	got := NewFilename("my photo.png", at)

	assert.Equal(t, "1756339200123_my_photo.png", got)

	prefix, rest, found := strings.Cut(got, "_")
	require.True(t, found)
	_, err := strconv.ParseInt(prefix, 10, 64)
	require.NoError(t, err, "filename must start with a millisecond timestamp")
	assert.Regexp(t, safeFilename, rest)
}

func TestBlobPath(t *testing.T) {
	assert.Equal(t, "images/1_a.png", BlobPath("1_a.png"))
}

func TestBlobURL(t *testing.T) {
	// The template is load-bearing: previously persisted URLs stay valid
	// only as long as this stays byte-for-byte identical.
	got := BlobURL("alice", "gallery", "main", "1756339200123_photo.png")
	assert.Equal(t, "https://github.com/alice/gallery/blob/main/images/1756339200123_photo.png?raw=true", got)
}
