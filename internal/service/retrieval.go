// Package service implements the retrieval engine and the follow-up
// dialogue state machine over the corpus index.
package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"faqbot/internal/corpus"
	"faqbot/internal/domain"
)

// DefaultThreshold is the minimum cosine similarity for a match to be
// considered usable.
const DefaultThreshold = 0.55

const (
	emptyQueryPrompt   = "Please say or type something."
	lowConfidenceReply = "I’m not fully sure I understood that. Could you rephrase?"
	followupOffer      = " Would you like me to help with this?"
)

// Engine answers queries against the corpus index. It holds no
// per-conversation state; follow-up transitions are reported through
// the Outcome so the caller's session can apply them.
type Engine struct {
	embedder  domain.Embedder
	index     *corpus.Index
	threshold float64
}

// Outcome bundles the reply payload with the follow-up transition the
// caller must apply to the conversation's session. At most one of
// Pending and ClearPending is set; both unset means the session is left
// untouched (empty query, low confidence).
type Outcome struct {
	Payload      domain.AnswerPayload
	Pending      *domain.PendingFollowup
	ClearPending bool
}

// NewEngine creates a retrieval engine. A non-positive threshold falls
// back to DefaultThreshold.
func NewEngine(embedder domain.Embedder, index *corpus.Index, threshold float64) *Engine {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	return &Engine{embedder: embedder, index: index, threshold: threshold}
}

// Answer retrieves the closest corpus entry for the query and packages
// the response. Empty and whitespace-only queries short-circuit without
// touching the index.
func (e *Engine) Answer(ctx context.Context, query string) (Outcome, error) {
	if strings.TrimSpace(query) == "" {
		return Outcome{Payload: domain.AnswerPayload{Answer: emptyQueryPrompt, Score: 0.0, Match: ""}}, nil
	}

	vec, err := e.embedder.Embed(ctx, query)
	if err != nil {
		return Outcome{}, fmt.Errorf("embedding query: %w", err)
	}
	match, err := e.index.Nearest(vec, e.threshold)
	if err != nil {
		return Outcome{}, fmt.Errorf("matching query: %w", err)
	}

	// Match stays empty below the threshold: callers read it as "no
	// usable match" even though some entry was nearest.
	if match.BelowThreshold {
		return Outcome{Payload: domain.AnswerPayload{
			Answer: lowConfidenceReply,
			Score:  round4(match.Score),
			Match:  "",
		}}, nil
	}

	entry := e.index.Entry(match.EntryIndex)
	payload := domain.AnswerPayload{
		Answer: entry.Response,
		Score:  round4(match.Score),
		Match:  entry.Example,
	}
	if entry.HasFollowup() {
		payload.Answer += followupOffer
		return Outcome{
			Payload: payload,
			Pending: &domain.PendingFollowup{Yes: entry.FollowupYes, No: entry.FollowupNo},
		}, nil
	}
	// A fresh unconditional match discards any stale pending follow-up.
	return Outcome{Payload: payload, ClearPending: true}, nil
}

func round4(v float64) float64 {
	return math.Round(v*10000) / 10000
}
