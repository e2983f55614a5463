package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMagicLink_SignVerify(t *testing.T) {
	m := NewMagicLink("shared-secret", "https://sklad.example.com")

	sig := m.Sign(123456789)
	assert.True(t, m.Verify(123456789, sig))

	// Different tg_id, tampered signature and wrong secret all fail.
	assert.False(t, m.Verify(987654321, sig))
	assert.False(t, m.Verify(123456789, sig+"00"))
	assert.False(t, m.Verify(123456789, ""))

	other := NewMagicLink("other-secret", "https://sklad.example.com")
	assert.False(t, other.Verify(123456789, sig))
}

func TestMagicLink_SignIsDeterministic(t *testing.T) {
	m := NewMagicLink("shared-secret", "")
	assert.Equal(t, m.Sign(42), m.Sign(42))
	assert.NotEqual(t, m.Sign(42), m.Sign(43))
}

func TestMagicLink_URL(t *testing.T) {
	m := NewMagicLink("shared-secret", "https://sklad.example.com")

	url := m.URL(123456789)
	require.Contains(t, url, "https://sklad.example.com/api/v1/auth/magic?")
	assert.Contains(t, url, "tg_id=123456789")
	assert.Contains(t, url, "sig="+m.Sign(123456789))
}

func TestParseAdminTgIDs(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []int64
	}{
		{name: "empty", input: "", want: nil},
		{name: "single", input: "123", want: []int64{123}},
		{name: "multiple with spaces", input: "123, 456 ,789", want: []int64{123, 456, 789}},
		{name: "skips garbage and non-positive", input: "123,abc,-5,0,456", want: []int64{123, 456}},
		{name: "trailing comma", input: "123,", want: []int64{123}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAdminTgIDs(tt.input))
		})
	}
}
