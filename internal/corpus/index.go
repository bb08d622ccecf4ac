package corpus

import (
	"context"
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"faqbot/internal/domain"
)

// buildConcurrency bounds the parallel embedding calls during Build so a
// remote embedder is not flooded at startup.
const buildConcurrency = 8

// Index holds the immutable corpus entries and their precomputed,
// L2-normalized embedding vectors. vectors[i] corresponds to entries[i].
// Read-only after Build, so it is safe for concurrent use.
type Index struct {
	entries []domain.Entry
	vectors [][]float64
	dim     int
}

// Build prepares the embedder over the corpus examples and embeds every
// entry. It fails if the entry list is empty or any entry is missing a
// required field.
func Build(ctx context.Context, entries []domain.Entry, embedder domain.Embedder) (*Index, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyCorpus
	}
	examples := make([]string, len(entries))
	for i, e := range entries {
		if e.Example == "" || e.Response == "" {
			return nil, fmt.Errorf("corpus: entry %d missing example or response", i)
		}
		examples[i] = e.Example
	}
	if err := embedder.Prepare(examples); err != nil {
		return nil, fmt.Errorf("corpus: prepare embedder: %w", err)
	}

	vectors := make([][]float64, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(buildConcurrency)
	for i := range examples {
		i := i
		g.Go(func() error {
			vec, err := embedder.Embed(gctx, examples[i])
			if err != nil {
				return fmt.Errorf("corpus: embed entry %d: %w", i, err)
			}
			vectors[i] = normalize(vec)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	dim := len(vectors[0])
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, fmt.Errorf("corpus: entry %d embedded with dimension %d, want %d", i, len(vec), dim)
		}
	}
	return &Index{entries: entries, vectors: vectors, dim: dim}, nil
}

// Nearest returns the entry maximizing cosine similarity to the query
// vector. Ties resolve to the lowest index. BelowThreshold is set when
// the best score falls under the given threshold. A query whose
// dimension differs from the indexed vectors is rejected rather than
// silently truncated.
func (ix *Index) Nearest(vector []float64, threshold float64) (domain.MatchResult, error) {
	if len(vector) != ix.dim {
		return domain.MatchResult{}, fmt.Errorf("corpus: query dimension %d, index has %d", len(vector), ix.dim)
	}
	query := normalize(vector)
	best := 0
	bestScore := math.Inf(-1)
	for i := range ix.vectors {
		score := dot(ix.vectors[i], query)
		if score > bestScore {
			best = i
			bestScore = score
		}
	}
	return domain.MatchResult{
		EntryIndex:     best,
		Score:          bestScore,
		BelowThreshold: bestScore < threshold,
	}, nil
}

// Entry returns the corpus entry at index i.
func (ix *Index) Entry(i int) domain.Entry { return ix.entries[i] }

// Len returns the number of indexed entries.
func (ix *Index) Len() int { return len(ix.entries) }

// dot assumes equal lengths; Build and Nearest enforce that.
func dot(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// normalize returns an L2-normalized copy of vec. Zero vectors are
// returned as-is; their similarity to everything is 0.
func normalize(vec []float64) []float64 {
	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	norm = math.Sqrt(norm)
	out := make([]float64, len(vec))
	if norm == 0 {
		copy(out, vec)
		return out
	}
	for i, v := range vec {
		out[i] = v / norm
	}
	return out
}
