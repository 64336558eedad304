package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRequiresPrepare(t *testing.T) {
	e := New()
	_, err := e.Encode(context.Background(), []string{"text"})
	assert.Error(t, err)
}

func TestPrepareEmptyCorpus(t *testing.T) {
	e := New()
	assert.Error(t, e.Prepare(nil))
}

func TestEncodeShapeAndOrder(t *testing.T) {
	corpus := []string{
		"the sun is a star",
		"planets orbit the sun",
		"코끼리는 포유류다",
	}
	e := New()
	require.NoError(t, e.Prepare(corpus))
	require.Positive(t, e.Dimension())

	vecs, err := e.Encode(context.Background(), corpus)
	require.NoError(t, err)
	require.Len(t, vecs, len(corpus))
	for _, v := range vecs {
		assert.Len(t, v, e.Dimension())
	}
}

func TestEncodeDeterministic(t *testing.T) {
	corpus := []string{"alpha beta gamma", "beta gamma delta"}
	e := New()
	require.NoError(t, e.Prepare(corpus))

	a, err := e.Encode(context.Background(), []string{"beta gamma"})
	require.NoError(t, err)
	b, err := e.Encode(context.Background(), []string{"beta gamma"})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestEncodeOutOfVocabulary(t *testing.T) {
	e := New()
	require.NoError(t, e.Prepare([]string{"alpha beta"}))

	vecs, err := e.Encode(context.Background(), []string{"zzz unseen words"})
	require.NoError(t, err)
	for _, v := range vecs[0] {
		assert.Equal(t, 0.0, v)
	}
}

func TestEncodeUnitNorm(t *testing.T) {
	e := New()
	require.NoError(t, e.Prepare([]string{"alpha beta gamma", "gamma delta"}))

	vecs, err := e.Encode(context.Background(), []string{"alpha gamma"})
	require.NoError(t, err)
	var sum float64
	for _, v := range vecs[0] {
		sum += v * v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
}
