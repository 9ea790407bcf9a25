package vectorstore

import (
	"fmt"
	"sort"
)

// Hit is one nearest-neighbour match: a vector id and its squared
// Euclidean distance from the query.
type Hit struct {
	ID       int
	Distance float64
}

// Index is the nearest-neighbour structure behind the store. The surface
// is kept narrow so an approximate backend can replace FlatIndex without
// touching callers.
type Index interface {
	Add(vectors [][]float32) ([]int, error)
	Search(query []float32, k int) ([]Hit, error)
	Reset()
	Count() int
}

// FlatIndex stores fixed-dimension vectors in one contiguous slice, where
// a vector's id is literally its row offset, and answers exact queries by
// brute-force linear scan. Ids are dense, 0-based and assigned in
// insertion order; they are never reused while the index lives.
//
// FlatIndex is not safe for concurrent use; Store serializes access.
type FlatIndex struct {
	dim  int
	data []float32
}

// NewFlatIndex creates an empty index for vectors of the given width.
func NewFlatIndex(dim int) (*FlatIndex, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("%w: dimension %d", ErrConfiguration, dim)
	}
	return &FlatIndex{dim: dim}, nil
}

// Count returns the number of stored vectors.
func (x *FlatIndex) Count() int {
	return len(x.data) / x.dim
}

// Add appends vectors and returns their newly assigned ids, a contiguous
// block starting at the previous count. Every vector's width is checked
// before anything is written, so a failed call leaves the index unchanged.
func (x *FlatIndex) Add(vectors [][]float32) ([]int, error) {
	for i, v := range vectors {
		if len(v) != x.dim {
			return nil, fmt.Errorf("%w: vector %d has width %d, index dimension is %d",
				ErrDimensionMismatch, i, len(v), x.dim)
		}
	}
	base := x.Count()
	ids := make([]int, len(vectors))
	for i, v := range vectors {
		x.data = append(x.data, v...)
		ids[i] = base + i
	}
	return ids, nil
}

// Search returns up to k hits ordered by ascending squared Euclidean
// distance, ties broken by ascending id. k above the stored count returns
// everything ranked; an empty index returns no hits.
func (x *FlatIndex) Search(query []float32, k int) ([]Hit, error) {
	if len(query) != x.dim {
		return nil, fmt.Errorf("%w: query has width %d, index dimension is %d",
			ErrDimensionMismatch, len(query), x.dim)
	}
	n := x.Count()
	if n == 0 || k <= 0 {
		return nil, nil
	}
	hits := make([]Hit, n)
	for i := 0; i < n; i++ {
		row := x.data[i*x.dim : (i+1)*x.dim]
		var sum float64
		for j := range row {
			d := float64(row[j]) - float64(query[j])
			sum += d * d
		}
		hits[i] = Hit{ID: i, Distance: sum}
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})
	if k > n {
		k = n
	}
	return hits[:k], nil
}

// Reset drops all vectors; the next assigned id returns to 0.
func (x *FlatIndex) Reset() {
	x.data = x.data[:0]
}
