package retriever

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"finance-assistant/internal/logger"
)

// VectorStore is an in-memory cosine-similarity index over text chunks.
type VectorStore struct {
	mu     sync.RWMutex
	chunks []string
	vecs   [][]float64
}

func NewVectorStore() *VectorStore {
	return &VectorStore{}
}

// Add appends chunks with their vectors. Lengths must match.
func (s *VectorStore) Add(chunks []string, vecs [][]float64) error {
	if len(chunks) != len(vecs) {
		return fmt.Errorf("chunk/vector count mismatch: %d vs %d", len(chunks), len(vecs))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.chunks = append(s.chunks, chunks...)
	s.vecs = append(s.vecs, vecs...)
	return nil
}

// Len returns the number of indexed chunks.
func (s *VectorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.chunks)
}

// Search returns the k chunks most similar to the query vector, best
// first. Fewer than k indexed chunks returns them all.
func (s *VectorStore) Search(query []float64, k int) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		idx   int
		score float64
	}
	results := make([]scored, 0, len(s.vecs))
	for i, v := range s.vecs {
		results = append(results, scored{idx: i, score: cosine(query, v)})
	}
	sort.Slice(results, func(a, b int) bool {
		return results[a].score > results[b].score
	})

	if k > len(results) {
		k = len(results)
	}
	top := make([]string, 0, k)
	for _, r := range results[:k] {
		top = append(top, s.chunks[r.idx])
	}
	return top
}

func cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// Retriever answers top-k chunk queries against an embedded corpus.
type Retriever struct {
	embedder Embedder
	store    *VectorStore
	topK     int
}

func New(embedder Embedder, store *VectorStore, topK int) *Retriever {
	if topK <= 0 {
		topK = 3
	}
	return &Retriever{embedder: embedder, store: store, topK: topK}
}

// TopChunks embeds the query and returns the most relevant indexed
// chunks. An empty index yields an empty slice, not an error.
func (r *Retriever) TopChunks(ctx context.Context, query string, k int) ([]string, error) {
	if k <= 0 {
		k = r.topK
	}
	if r.store.Len() == 0 {
		logger.Debug(ctx, "Retriever index empty", "query", query)
		return []string{}, nil
	}

	vecs, err := r.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	return r.store.Search(vecs[0], k), nil
}
