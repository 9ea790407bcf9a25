package vectorstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlatIndexAddAssignsContiguousIDs(t *testing.T) {
	x, err := NewFlatIndex(2)
	require.NoError(t, err)

	ids, err := x.Add([][]float32{{1, 0}, {0, 1}, {1, 1}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2}, ids)
	assert.Equal(t, 3, x.Count())

	ids, err = x.Add([][]float32{{2, 2}})
	require.NoError(t, err)
	assert.Equal(t, []int{3}, ids)
	assert.Equal(t, 4, x.Count())
}

func TestFlatIndexAddRejectsWrongWidth(t *testing.T) {
	x, err := NewFlatIndex(3)
	require.NoError(t, err)

	_, err = x.Add([][]float32{{1, 2, 3}, {1, 2}})
	require.ErrorIs(t, err, ErrDimensionMismatch)
	assert.Equal(t, 0, x.Count(), "failed add must not insert anything")
}

func TestFlatIndexSearchOrdering(t *testing.T) {
	x, err := NewFlatIndex(2)
	require.NoError(t, err)
	_, err = x.Add([][]float32{
		{10, 0}, // id 0, far
		{1, 0},  // id 1, near
		{3, 0},  // id 2, middle
	})
	require.NoError(t, err)

	hits, err := x.Search([]float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, 1, hits[0].ID)
	assert.Equal(t, 2, hits[1].ID)
	assert.Equal(t, 0, hits[2].ID)
	assert.InDelta(t, 1.0, hits[0].Distance, 1e-9)
	assert.InDelta(t, 9.0, hits[1].Distance, 1e-9)
	assert.InDelta(t, 100.0, hits[2].Distance, 1e-9)
}

func TestFlatIndexSearchTiesBrokenByID(t *testing.T) {
	x, err := NewFlatIndex(2)
	require.NoError(t, err)
	_, err = x.Add([][]float32{{0, 1}, {1, 0}, {0, -1}})
	require.NoError(t, err)

	hits, err := x.Search([]float32{0, 0}, 3)
	require.NoError(t, err)
	require.Len(t, hits, 3)
	assert.Equal(t, []int{hits[0].ID, hits[1].ID, hits[2].ID}, []int{0, 1, 2})
}

func TestFlatIndexSearchClampsK(t *testing.T) {
	x, err := NewFlatIndex(1)
	require.NoError(t, err)
	_, err = x.Add([][]float32{{1}, {2}})
	require.NoError(t, err)

	hits, err := x.Search([]float32{0}, 10)
	require.NoError(t, err)
	assert.Len(t, hits, 2, "k above count returns all vectors ranked")
}

func TestFlatIndexSearchEmpty(t *testing.T) {
	x, err := NewFlatIndex(4)
	require.NoError(t, err)

	hits, err := x.Search([]float32{0, 0, 0, 0}, 5)
	require.NoError(t, err)
	assert.Empty(t, hits)
}

func TestFlatIndexSearchRejectsWrongQueryWidth(t *testing.T) {
	x, err := NewFlatIndex(2)
	require.NoError(t, err)
	_, err = x.Search([]float32{1, 2, 3}, 1)
	assert.ErrorIs(t, err, ErrDimensionMismatch)
}

func TestFlatIndexReset(t *testing.T) {
	x, err := NewFlatIndex(2)
	require.NoError(t, err)
	_, err = x.Add([][]float32{{1, 2}, {3, 4}})
	require.NoError(t, err)

	x.Reset()
	assert.Equal(t, 0, x.Count())

	ids, err := x.Add([][]float32{{5, 6}})
	require.NoError(t, err)
	assert.Equal(t, []int{0}, ids, "ids restart at 0 after reset")
}

func TestNewFlatIndexRejectsBadDimension(t *testing.T) {
	_, err := NewFlatIndex(0)
	assert.ErrorIs(t, err, ErrConfiguration)
	_, err = NewFlatIndex(-3)
	assert.ErrorIs(t, err, ErrConfiguration)
}
