package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateFile(t *testing.T) {
	tests := []struct {
		name         string
		content      []byte
		declaredType string
		size         int64
		valid        bool
	}{
		{
			name:         "valid JPEG",
			content:      []byte("jpeg bytes"),
			declaredType: "image/jpeg",
			size:         10,
			valid:        true,
		},
		{
			name:         "valid PNG",
			content:      []byte("png bytes"),
			declaredType: "image/png",
			size:         9,
			valid:        true,
		},
		{
			name:         "valid GIF",
			content:      []byte("gif bytes"),
			declaredType: "image/gif",
			size:         9,
			valid:        true,
		},
		{
			name:         "rejected type",
			content:      []byte("<svg/>"),
			declaredType: "image/svg+xml",
			size:         6,
			valid:        false,
		},
		{
			name:         "rejected non-image",
			content:      []byte("%PDF-1.4"),
			declaredType: "application/pdf",
			size:         8,
			valid:        false,
		},
		{
			name:         "empty file",
			content:      nil,
			declaredType: "image/png",
			size:         0,
			valid:        false,
		},
		{
			name:         "at the size limit",
			content:      []byte("x"),
			declaredType: "image/png",
			size:         MaxFileSize,
			valid:        true,
		},
		{
			name:         "over the size limit",
			content:      []byte("x"),
			declaredType: "image/png",
			size:         MaxFileSize + 1,
			valid:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ValidateFile(tt.content, tt.declaredType, tt.size)
			assert.Equal(t, tt.valid, result.Valid)
			if !tt.valid {
				assert.NotEmpty(t, result.Reason)
			} else {
				assert.Empty(t, result.Reason)
			}
		})
	}
}
