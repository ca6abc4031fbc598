package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKeywords(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want []string
	}{
		{
			name: "canonical json array",
			raw:  `["a","b"]`,
			want: []string{"a", "b"},
		},
		{
			name: "comma separated text",
			raw:  "a, b",
			want: []string{"a", "b"},
		},
		{
			name: "bracketed pseudo array",
			raw:  "[a, b]",
			want: []string{"a", "b"},
		},
		{
			name: "bracketed pseudo array with quotes",
			raw:  `[wireless earbuds, "noise cancelling", 'bluetooth']`,
			want: []string{"wireless earbuds", "noise cancelling", "bluetooth"},
		},
		{
			name: "single bare value",
			raw:  "a",
			want: []string{"a"},
		},
		{
			name: "empty string",
			raw:  "",
			want: []string{},
		},
		{
			name: "json null",
			raw:  "null",
			want: []string{},
		},
		{
			name: "whitespace only",
			raw:  "   ",
			want: []string{},
		},
		{
			name: "empty json array",
			raw:  "[]",
			want: []string{},
		},
		{
			name: "comma text with empty pieces",
			raw:  "a,, b,",
			want: []string{"a", "b"},
		},
		{
			name: "json array preserved verbatim",
			raw:  `[" spaced ","b"]`,
			want: []string{" spaced ", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseKeywords(tt.raw)
			require.NotNil(t, got)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeKeywords(t *testing.T) {
	require.Equal(t, `["a","b"]`, EncodeKeywords([]string{"a", "b"}))
	require.Equal(t, `[]`, EncodeKeywords(nil))
	require.Equal(t, `[]`, EncodeKeywords([]string{}))
}

func TestParseKeywordsRoundTrip(t *testing.T) {
	keywords := []string{"wireless earbuds", "noise cancelling", "bluetooth 5.3"}
	require.Equal(t, keywords, ParseKeywords(EncodeKeywords(keywords)))
}
