package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"faqbot/internal/corpus"
	"faqbot/internal/domain"
)

// stubEmbedder returns fixed vectors per text; unknown text embeds to
// the zero vector, which scores 0 against everything.
type stubEmbedder struct {
	vectors map[string][]float64
}

func (s *stubEmbedder) Name() string { return "stub" }
func (s *stubEmbedder) Prepare(texts []string) error { return nil }
func (s *stubEmbedder) Dimension() int { return 3 }

func (s *stubEmbedder) Embed(_ context.Context, text string) ([]float64, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float64{0, 0, 0}, nil
}

// failingEmbedder errors on every call; used to prove fast paths never
// reach the embedder.
type failingEmbedder struct{}

func (failingEmbedder) Name() string { return "failing" }
func (failingEmbedder) Prepare(texts []string) error { return nil }
func (failingEmbedder) Dimension() int { return 3 }

func (failingEmbedder) Embed(context.Context, string) ([]float64, error) {
	return nil, errors.New("embedder should not be called")
}

func fixtureEntries() []domain.Entry {
	return []domain.Entry{
		{
			Example:     "reset my password",
			Response:    "Go to settings > security.",
			FollowupYes: "Here is the direct link: https://example.com/settings/security",
			FollowupNo:  "No problem.",
		},
		{
			Example:  "cancel my subscription",
			Response: "You can cancel from the subscription page.",
		},
	}
}

func fixtureEmbedder() *stubEmbedder {
	return &stubEmbedder{vectors: map[string][]float64{
		"reset my password":          {1, 0, 0},
		"cancel my subscription":     {0, 1, 0},
		"how do i reset my password": {1, 0, 0},
		"partially related":          {0.9, 1.0, 0},
		"kinda unrelated":            {1, 2, 10},
	}}
}

func newTestEngine(t *testing.T, embedder domain.Embedder) *Engine {
	t.Helper()
	index, err := corpus.Build(context.Background(), fixtureEntries(), fixtureEmbedder())
	require.NoError(t, err)
	return NewEngine(embedder, index, DefaultThreshold)
}

func TestAnswerEmptyQueryFastPath(t *testing.T) {
	engine := newTestEngine(t, failingEmbedder{})

	for _, query := range []string{"", "   ", "\t\n"} {
		out, err := engine.Answer(context.Background(), query)

		require.NoError(t, err)
		assert.Equal(t, domain.AnswerPayload{Answer: "Please say or type something.", Score: 0.0, Match: ""}, out.Payload)
		assert.Nil(t, out.Pending)
		assert.False(t, out.ClearPending)
	}
}

func TestAnswerLowConfidenceHasEmptyMatch(t *testing.T) {
	engine := newTestEngine(t, fixtureEmbedder())

	out, err := engine.Answer(context.Background(), "banana")

	require.NoError(t, err)
	assert.Equal(t, "I’m not fully sure I understood that. Could you rephrase?", out.Payload.Answer)
	assert.Empty(t, out.Payload.Match)
	assert.Nil(t, out.Pending)
	assert.False(t, out.ClearPending)
}

func TestAnswerMatchWithBranchesCreatesFollowup(t *testing.T) {
	engine := newTestEngine(t, fixtureEmbedder())

	out, err := engine.Answer(context.Background(), "how do i reset my password")

	require.NoError(t, err)
	assert.Equal(t, "Go to settings > security. Would you like me to help with this?", out.Payload.Answer)
	assert.Equal(t, "reset my password", out.Payload.Match)
	assert.GreaterOrEqual(t, out.Payload.Score, DefaultThreshold)
	require.NotNil(t, out.Pending)
	assert.Equal(t, "Here is the direct link: https://example.com/settings/security", out.Pending.Yes)
	assert.Equal(t, "No problem.", out.Pending.No)
	assert.False(t, out.ClearPending)
}

func TestAnswerUnconditionalMatchClearsFollowup(t *testing.T) {
	engine := newTestEngine(t, fixtureEmbedder())

	out, err := engine.Answer(context.Background(), "cancel my subscription")

	require.NoError(t, err)
	assert.Equal(t, "You can cancel from the subscription page.", out.Payload.Answer)
	assert.Equal(t, "cancel my subscription", out.Payload.Match)
	assert.Nil(t, out.Pending)
	assert.True(t, out.ClearPending)
}

func TestAnswerRoundsScoreToFourDecimals(t *testing.T) {
	engine := newTestEngine(t, fixtureEmbedder())

	// {0.9, 1.0, 0} normalized against {0, 1, 0} gives 1/sqrt(1.81).
	out, err := engine.Answer(context.Background(), "partially related")

	require.NoError(t, err)
	assert.InDelta(t, 0.7433, out.Payload.Score, 1e-9)
	assert.Equal(t, "cancel my subscription", out.Payload.Match)
}

func TestAnswerRoundsLowConfidenceScoreToo(t *testing.T) {
	engine := newTestEngine(t, fixtureEmbedder())

	// {1, 2, 10} normalized against {0, 1, 0} gives 2/sqrt(105).
	out, err := engine.Answer(context.Background(), "kinda unrelated")

	require.NoError(t, err)
	assert.InDelta(t, 0.1952, out.Payload.Score, 1e-9)
	assert.Empty(t, out.Payload.Match)
}

func TestAnswerRejectsMismatchedQueryEmbedding(t *testing.T) {
	emb := fixtureEmbedder()
	emb.vectors["short vector"] = []float64{1, 0}
	engine := newTestEngine(t, emb)

	_, err := engine.Answer(context.Background(), "short vector")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "matching query")
}

func TestAnswerPropagatesEmbedderFailure(t *testing.T) {
	engine := newTestEngine(t, failingEmbedder{})

	_, err := engine.Answer(context.Background(), "anything")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "embedding query")
}
