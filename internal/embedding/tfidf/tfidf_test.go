package tfidf

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testCorpus = []string{
	"reset my password",
	"cancel my subscription",
	"track my order status",
}

func TestPrepareRejectsEmptyCorpus(t *testing.T) {
	err := New().Prepare(nil)
	require.Error(t, err)
}

func TestEmbedRequiresPrepare(t *testing.T) {
	_, err := New().Embed(context.Background(), "hello")
	require.Error(t, err)
}

func TestEmbedIsDeterministic(t *testing.T) {
	emb := New()
	require.NoError(t, emb.Prepare(testCorpus))

	a, err := emb.Embed(context.Background(), "reset my password")
	require.NoError(t, err)
	b, err := emb.Embed(context.Background(), "reset my password")
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestEmbedProducesUnitVectors(t *testing.T) {
	emb := New()
	require.NoError(t, emb.Prepare(testCorpus))

	vec, err := emb.Embed(context.Background(), "reset my password")
	require.NoError(t, err)

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	assert.InDelta(t, 1.0, norm, 1e-9)
	assert.Len(t, vec, emb.Dimension())
}

func TestSelfSimilarityIsMaximal(t *testing.T) {
	emb := New()
	require.NoError(t, emb.Prepare(testCorpus))

	query, err := emb.Embed(context.Background(), testCorpus[0])
	require.NoError(t, err)

	best := -1
	bestScore := -1.0
	for i, text := range testCorpus {
		vec, err := emb.Embed(context.Background(), text)
		require.NoError(t, err)
		score := 0.0
		for j := range vec {
			score += vec[j] * query[j]
		}
		if score > bestScore {
			best = i
			bestScore = score
		}
	}

	assert.Equal(t, 0, best)
	assert.InDelta(t, 1.0, bestScore, 1e-9)
}

func TestEmbedOutOfVocabularyYieldsZeroVector(t *testing.T) {
	emb := New()
	require.NoError(t, emb.Prepare(testCorpus))

	vec, err := emb.Embed(context.Background(), "zzz qqq www")
	require.NoError(t, err)

	for _, v := range vec {
		assert.Zero(t, v)
	}
}

func TestPrepareStopwordsOnlyCorpusFails(t *testing.T) {
	err := New().Prepare([]string{"the and or", "is are was"})
	require.Error(t, err)
}
