package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsValidPhone(t *testing.T) {
	tests := []struct {
		name  string
		phone string
		want  bool
	}{
		{"valid 10 digits", "0912345678", true},
		{"valid with spaces", "091 234 5678", true},
		{"too short", "091234567", false},
		{"too long", "09123456789", false},
		{"letters", "09123a5678", false},
		{"empty", "", false},
		{"only spaces", "   ", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidPhone(tt.phone))
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	assert.Equal(t, "0912345678", NormalizePhone(" 091 234 5678 "))
	assert.Equal(t, "0912345678", NormalizePhone("0912345678"))
}

func TestGenerateLuckyCode(t *testing.T) {
	for i := 0; i < 1000; i++ {
		code := GenerateLuckyCode()
		require.Len(t, code, 6)
		assert.GreaterOrEqual(t, code, "100000")
		assert.LessOrEqual(t, code, "999999")
		for _, c := range code {
			assert.True(t, c >= '0' && c <= '9', "code %q contains non-digit", code)
		}
	}
}

func TestGenerateBraceletCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := GenerateBraceletCode()
		require.Len(t, code, 8)
		assert.NotContains(t, code, "O")
		assert.NotContains(t, code, "0")
		assert.NotContains(t, code, "I")
		assert.NotContains(t, code, "1")
		seen[code] = true
	}
	// 100 draws over a 32^8 space should never collide
	assert.Len(t, seen, 100)
}

func TestIsValidRedirectPath(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/dashboard", true},
		{"/dashboard/draw-control", true},
		{"//evil.com", false},
		{"/", false},
		{"", false},
		{"https://evil.com", false},
		{"javascript:alert(1)", false},
		{"/redirect?to=https://evil.com", false},
		{"dashboard", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidRedirectPath(tt.path))
		})
	}
}

func TestGenerateRandomString(t *testing.T) {
	s1, err := GenerateRandomString(32)
	require.NoError(t, err)
	s2, err := GenerateRandomString(32)
	require.NoError(t, err)
	assert.Len(t, s1, 32)
	assert.NotEqual(t, s1, s2)
}
