package paginate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNumPages(t *testing.T) {
	tests := []struct {
		count, perPage, want int
	}{
		{0, 10, 1},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{15, 10, 2},
		{21, 10, 3},
		{5, 0, 1}, // falls back to DefaultPerPage
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.count, tt.perPage).NumPages(), "count=%d perPage=%d", tt.count, tt.perPage)
	}
}

func TestNumber(t *testing.T) {
	p := New(25, 10) // 3 pages

	tests := []struct {
		raw  string
		want int
	}{
		{"", 1},
		{"abc", 1},
		{"1", 1},
		{"2", 2},
		{"3", 3},
		{"4", 3},
		{"999", 3},
		{"0", 3},
		{"-1", 3},
	}
	for _, tt := range tests {
		t.Run("page="+tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, p.Number(tt.raw))
		})
	}
}

func TestBounds(t *testing.T) {
	p := New(15, 10)

	limit, offset := p.Bounds(1)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	limit, offset = p.Bounds(2)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 10, offset)
}

func TestPageNavigation(t *testing.T) {
	p := New(25, 10)

	first := NewPage(p, 1, []int{})
	assert.False(t, first.HasPrevious())
	assert.True(t, first.HasNext())
	assert.Equal(t, 2, first.NextPageNumber())
	assert.True(t, first.HasOtherPages())

	last := NewPage(p, 3, []int{})
	assert.True(t, last.HasPrevious())
	assert.False(t, last.HasNext())
	assert.Equal(t, 2, last.PreviousPageNumber())

	assert.Equal(t, []int{1, 2, 3}, last.PageRange())
}

func TestPage_SinglePageHasNoLinks(t *testing.T) {
	pg := NewPage(New(3, 10), 1, []string{"a", "b", "c"})
	assert.False(t, pg.HasOtherPages())
}

func TestSlice(t *testing.T) {
	items := make([]int, 15)
	for i := range items {
		items[i] = i
	}

	first := Slice(items, 10, "1")
	assert.Len(t, first.Items, 10)
	assert.Equal(t, 0, first.Items[0])

	second := Slice(items, 10, "2")
	assert.Len(t, second.Items, 5)
	assert.Equal(t, 10, second.Items[0])

	// Out-of-range pages land on the last page.
	clamped := Slice(items, 10, "42")
	assert.Equal(t, 2, clamped.Number)
	assert.Len(t, clamped.Items, 5)

	empty := Slice([]int{}, 10, "")
	assert.Equal(t, 1, empty.Number)
	assert.Empty(t, empty.Items)
}
