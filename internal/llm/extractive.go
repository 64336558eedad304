package llm

import (
	"context"
	"fmt"
	"strings"
)

// Extractive is a retrieval-only generator. Instead of calling a language
// model it returns the retrieved passages verbatim, numbered the same way
// the model prompt numbers them.
type Extractive struct{}

// NewExtractive returns a generator that never leaves the process.
func NewExtractive() Extractive { return Extractive{} }

// Generate ignores the question and formats the evidence passages.
func (Extractive) Generate(_ context.Context, _ string, contextChunks []string) (string, error) {
	if len(contextChunks) == 0 {
		return "", genErr("extract", fmt.Errorf("no context passages"))
	}
	var b strings.Builder
	b.WriteString("Most relevant passages:\n")
	for i, chunk := range contextChunks {
		fmt.Fprintf(&b, "\n[Evidence %d]\n%s\n", i+1, strings.TrimSpace(chunk))
	}
	return b.String(), nil
}
