package phone

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		region string
		want   string
	}{
		{"international with spaces", "+91 98765 43210", "IN", "+919876543210"},
		{"national format", "98765 43210", "IN", "+919876543210"},
		{"hyphenated", "98765-43210", "IN", "+919876543210"},
		{"foreign number with plus ignores region", "+14155552671", "IN", "+14155552671"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.region)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"too short", "12345"},
		{"not a number", "call me maybe"},
		{"empty", ""},
		{"wrong length for region", "98765 432"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.raw, "IN")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidPhone), "expected ErrInvalidPhone, got %v", err)
		})
	}
}
