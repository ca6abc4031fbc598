package asin

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValid(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  bool
	}{
		{
			name:  "typical asin",
			token: "B08N5WRWNW",
			want:  true,
		},
		{
			name:  "all digits",
			token: "0123456789",
			want:  true,
		},
		{
			name:  "all letters",
			token: "ABCDEFGHIJ",
			want:  true,
		},
		{
			name:  "too short",
			token: "B08N5WRWN",
			want:  false,
		},
		{
			name:  "too long",
			token: "B08N5WRWNW1",
			want:  false,
		},
		{
			name:  "lowercase rejected",
			token: "b08n5wrwnw",
			want:  false,
		},
		{
			name:  "punctuation rejected",
			token: "B08N5-RWNW",
			want:  false,
		},
		{
			name:  "embedded space rejected",
			token: "B08N5 RWNW",
			want:  false,
		},
		{
			name:  "empty",
			token: "",
			want:  false,
		},
		{
			name:  "unicode rejected",
			token: "B08N5WRWNÖ",
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, Valid(tt.token))
		})
	}
}

func TestNormalize(t *testing.T) {
	require.Equal(t, "B08N5WRWNW", Normalize("  b08n5wrwnw "))
	require.True(t, Valid(Normalize("b08n5wrwnw")))
}
