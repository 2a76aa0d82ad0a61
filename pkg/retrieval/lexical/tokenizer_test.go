package lexical

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "lowercases and drops stopwords",
			text: "What is the warranty on Eagle F1?",
			want: []string{"warranty", "eagle", "f1"},
		},
		{
			name: "size with space canonicalized",
			text: "tyres in 205/55 R16",
			want: []string{"tyres", "205/55r16"},
		},
		{
			name: "size already compact",
			text: "205/55R16 price",
			want: []string{"205/55r16", "price"},
		},
		{
			name: "zr size with dashes",
			text: "245/45 ZR-18 options",
			want: []string{"245/45r18", "options"},
		},
		{
			name: "single letter tokens dropped, digits kept",
			text: "a b 5 f1",
			want: []string{"5", "f1"},
		},
		{
			name: "punctuation stripped",
			text: "Wrangler, AT/SilentTrac!",
			want: []string{"wrangler", "at/silenttrac"},
		},
		{
			name: "empty input",
			text: "   ",
			want: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokenize(tt.text))
		})
	}
}
