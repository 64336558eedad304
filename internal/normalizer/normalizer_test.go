package normalizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTokens(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{"empty", "", nil},
		{"whitespace only", "  \t\n ", nil},
		{"lowercases latin", "Hello World", []string{"hello", "world"}},
		{"keeps digits", "top 5 results", []string{"top", "5", "results"}},
		{"punctuation separates", "foo,bar.baz!", []string{"foo", "bar", "baz"}},
		{"hangul survives", "문서 기반 질문", []string{"문서", "기반", "질문"}},
		{"mixed scripts", "RAG 검색 v2", []string{"rag", "검색", "v2"}},
		{"symbols dropped", "§±…", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Tokens(tt.in))
		})
	}
}
