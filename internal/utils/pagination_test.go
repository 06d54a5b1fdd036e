package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPaginationParams_Defaults(t *testing.T) {
	p := NewPaginationParams(0, 0)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.Limit)
}

func TestNewPaginationParams_LimitCap(t *testing.T) {
	p := NewPaginationParams(2, 500)
	assert.Equal(t, MaxPageSize, p.Limit)

	p = NewPaginationParams(2, -5)
	assert.Equal(t, DefaultPageSize, p.Limit)
}

func TestPaginationParams_Slice(t *testing.T) {
	p := NewPaginationParams(2, 10)

	start, end := p.Slice(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	// Page past the end collapses to an empty range.
	p = NewPaginationParams(4, 10)
	start, end = p.Slice(25)
	assert.Equal(t, 25, start)
	assert.Equal(t, 25, end)
}

func TestCreatePaginationMeta(t *testing.T) {
	p := NewPaginationParams(2, 10)
	meta := CreatePaginationMeta(p, 25)

	assert.Equal(t, int64(25), meta.Total)
	assert.Equal(t, 3, meta.TotalPages)
	assert.True(t, meta.HasNext)
	assert.True(t, meta.HasPrevious)
	assert.Equal(t, 3, *meta.NextPage)
	assert.Equal(t, 1, *meta.PreviousPage)

	last := CreatePaginationMeta(NewPaginationParams(3, 10), 25)
	assert.False(t, last.HasNext)
	assert.True(t, last.HasPrevious)

	first := CreatePaginationMeta(NewPaginationParams(1, 10), 5)
	assert.False(t, first.HasNext)
	assert.False(t, first.HasPrevious)
}
