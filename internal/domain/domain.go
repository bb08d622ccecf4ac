package domain

import "context"

// Entry is a single corpus record: a canonical example utterance, the
// response served when a query matches it, and optional yes/no follow-up
// branches. Entries are built once at startup and never mutated.
type Entry struct {
	Example     string
	Response    string
	FollowupYes string
	FollowupNo  string
}

// HasFollowup reports whether matching this entry should offer a
// yes/no confirmation to the user.
func (e Entry) HasFollowup() bool {
	return e.FollowupYes != "" || e.FollowupNo != ""
}

// MatchResult is the outcome of a nearest-neighbor lookup.
type MatchResult struct {
	EntryIndex     int
	Score          float64 // cosine similarity in [-1, 1]
	BelowThreshold bool
}

// AnswerPayload is the reply envelope for a single query.
type AnswerPayload struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Match  string  `json:"match"`
}

// PendingFollowup is the session-scoped record of an offered yes/no
// choice awaiting the user's next reply. A conversation holds at most
// one; it is consumed on the next query regardless of how it resolves.
type PendingFollowup struct {
	Yes string `json:"yes"`
	No  string `json:"no"`
}

// Embedder converts free text into a numeric vector representation.
// Implementations may require a preparation phase over the corpus and
// must be deterministic for identical input within a process lifetime.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, text string) ([]float64, error)
}
