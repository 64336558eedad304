// Package llm is the answer-generation boundary. The client is an
// explicitly constructed handle passed to call sites; there is no
// process-wide lazily initialized instance.
package llm

import "fmt"

// GenerationError reports a failed language-model call (transport, auth,
// quota, malformed response). It is deliberately distinct from the
// retrieval gate's "insufficient evidence" refusal, which is a decision,
// not a failure.
type GenerationError struct {
	Op  string
	Err error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("llm %s: %v", e.Op, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

func genErr(op string, err error) *GenerationError {
	return &GenerationError{Op: op, Err: err}
}
