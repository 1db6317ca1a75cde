package retrieval

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/heartmarshall/dualtrack-backend/internal/domain"
)

// ErrDimensionMismatch is returned when a vector's length differs from the index dimension.
var ErrDimensionMismatch = errors.New("embedding dimension mismatch")

// Hit is one scored document.
type Hit struct {
	Doc   domain.Document
	Score float64
}

// Index is the nearest-neighbour contract the engine depends on.
// Implementations return at most k hits in non-increasing score order.
type Index interface {
	Add(doc domain.Document) error
	Search(vec []float32, k int, category string) ([]Hit, error)
	Len() int
	// Dim is the vector length every document must have, or 0 while empty.
	Dim() int
}

type snapshot struct {
	docs  []domain.Document
	norms []float64
	ids   map[string]struct{}
	dim   int
}

// BruteForceIndex scores every document on each query. Readers load an
// immutable snapshot without locking; writers serialize on mu and publish a
// new snapshot.
type BruteForceIndex struct {
	mu   sync.Mutex
	snap atomic.Pointer[snapshot]
}

// NewBruteForceIndex returns an empty index.
func NewBruteForceIndex() *BruteForceIndex {
	idx := &BruteForceIndex{}
	idx.snap.Store(&snapshot{ids: map[string]struct{}{}})
	return idx
}

// Add stores doc. The first document fixes the index dimension.
func (idx *BruteForceIndex) Add(doc domain.Document) error {
	if len(doc.Embedding) == 0 {
		return domain.NewValidationError("embedding", "required")
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	cur := idx.snap.Load()
	if cur.dim != 0 && len(doc.Embedding) != cur.dim {
		return fmt.Errorf("%w: document %s has %d, index has %d", ErrDimensionMismatch, doc.ID, len(doc.Embedding), cur.dim)
	}
	if _, ok := cur.ids[doc.ID]; ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrAlreadyExists)
	}

	next := &snapshot{
		docs:  append(slices.Clip(cur.docs), doc),
		norms: append(slices.Clip(cur.norms), norm(doc.Embedding)),
		ids:   make(map[string]struct{}, len(cur.ids)+1),
		dim:   len(doc.Embedding),
	}
	for id := range cur.ids {
		next.ids[id] = struct{}{}
	}
	next.ids[doc.ID] = struct{}{}

	idx.snap.Store(next)
	return nil
}

// Search returns the top k documents by cosine similarity, optionally limited
// to one category. Equal scores keep insertion order.
func (idx *BruteForceIndex) Search(vec []float32, k int, category string) ([]Hit, error) {
	if k < 1 {
		return nil, domain.NewValidationError("k", "must be at least 1")
	}

	snap := idx.snap.Load()
	if len(snap.docs) == 0 {
		return []Hit{}, nil
	}
	if len(vec) != snap.dim {
		return nil, fmt.Errorf("%w: query has %d, index has %d", ErrDimensionMismatch, len(vec), snap.dim)
	}

	qn := norm(vec)
	hits := make([]Hit, 0, len(snap.docs))
	for i, doc := range snap.docs {
		if category != "" && doc.Category != category {
			continue
		}
		hits = append(hits, Hit{Doc: doc, Score: cosine(vec, doc.Embedding, qn, snap.norms[i])})
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Score > hits[b].Score })

	if len(hits) > k {
		hits = hits[:k]
	}
	return hits, nil
}

// Len returns the number of indexed documents.
func (idx *BruteForceIndex) Len() int { return len(idx.snap.Load().docs) }

// Dim returns the index dimension, 0 until the first Add.
func (idx *BruteForceIndex) Dim() int { return idx.snap.Load().dim }

func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosine scores zero-norm vectors as 0 and clamps rounding drift to [-1, 1].
func cosine(a, b []float32, na, nb float64) float64 {
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return math.Max(-1, math.Min(1, dot/(na*nb)))
}
