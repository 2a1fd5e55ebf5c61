package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateOffsetLimit(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		size       int
		wantOffset uint64
		wantLimit  int
	}{
		{"first page default size", 1, 20, 0, 20},
		{"third page", 3, 10, 20, 10},
		{"zero page clamps to first", 0, 10, 0, 10},
		{"negative page clamps to first", -5, 10, 0, 10},
		{"zero size falls back to default", 2, 0, DefaultPageSize, DefaultPageSize},
		{"oversized size falls back to default", 1, MaxPageSize + 1, 0, DefaultPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			offset, limit := CalculateOffsetLimit(tt.page, tt.size)
			assert.Equal(t, tt.wantOffset, offset)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPaginationInfo(t *testing.T) {
	t.Run("exact division", func(t *testing.T) {
		info := NewPaginationInfo(40, 2, 20)
		assert.Equal(t, 2, info.CurrentPage)
		assert.Equal(t, 20, info.PageSize)
		assert.Equal(t, int64(40), info.TotalItems)
		assert.Equal(t, 2, info.TotalPages)
	})

	t.Run("partial last page", func(t *testing.T) {
		info := NewPaginationInfo(41, 1, 20)
		assert.Equal(t, 3, info.TotalPages)
	})

	t.Run("empty result keeps one page", func(t *testing.T) {
		info := NewPaginationInfo(0, 1, 20)
		assert.Equal(t, 1, info.TotalPages)
		assert.Equal(t, 1, info.CurrentPage)
	})

	t.Run("page beyond total clamps", func(t *testing.T) {
		info := NewPaginationInfo(10, 9, 20)
		assert.Equal(t, 1, info.CurrentPage)
	})
}
