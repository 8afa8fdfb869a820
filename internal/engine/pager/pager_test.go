package pager

import (
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeItems(n int) []string {
	items := make([]string, n)
	for i := range items {
		items[i] = fmt.Sprintf("post-%02d", i+1)
	}
	return items
}

func TestNew(t *testing.T) {
	p := New[string](0)
	assert.Equal(t, DefaultPageSize, p.PageSize())
	assert.Equal(t, 1, p.CurrentPage())
	assert.Equal(t, 1, p.TotalPages())
	assert.Empty(t, p.VisibleItems())
}

// TestSetItems_ClampInvariant checks 1 <= current <= total and the total page
// formula for a range of list lengths and page sizes.
func TestSetItems_ClampInvariant(t *testing.T) {
	for size := 1; size <= 7; size++ {
		for n := 0; n <= 23; n++ {
			p := New[string](size)
			p.SetItems(makeItems(30))
			p.Last()

			p.SetItems(makeItems(n))

			wantTotal := 1
			if n > 0 {
				wantTotal = (n + size - 1) / size
			}
			require.Equal(t, wantTotal, p.TotalPages(), "n=%d size=%d", n, size)
			require.GreaterOrEqual(t, p.CurrentPage(), 1)
			require.LessOrEqual(t, p.CurrentPage(), p.TotalPages())
			if n > 0 {
				require.Less(t, (p.CurrentPage()-1)*size, n)
			}
		}
	}
}

func TestVisibleItems_SliceCorrectness(t *testing.T) {
	items := makeItems(13)
	for size := 1; size <= 6; size++ {
		p := New[string](size)
		p.SetItems(items)
		for page := 1; page <= p.TotalPages(); page++ {
			require.True(t, p.GoToPage(page))
			start := (page - 1) * size
			wantLen := min(size, len(items)-start)
			got := p.VisibleItems()
			require.Len(t, got, wantLen, "page=%d size=%d", page, size)
			assert.Equal(t, items[start:start+wantLen], got)
		}
	}
}

func TestNavigation_Boundaries(t *testing.T) {
	p := New[string](5)
	p.SetItems(makeItems(12))

	t.Run("previous on first page", func(t *testing.T) {
		assert.False(t, p.Previous())
		assert.Equal(t, 1, p.CurrentPage())
		assert.False(t, p.HasPrevious())
	})

	t.Run("next walks forward", func(t *testing.T) {
		assert.True(t, p.Next())
		assert.Equal(t, 2, p.CurrentPage())
		assert.True(t, p.Next())
		assert.Equal(t, 3, p.CurrentPage())
	})

	t.Run("next on last page", func(t *testing.T) {
		assert.False(t, p.Next())
		assert.Equal(t, 3, p.CurrentPage())
		assert.False(t, p.HasNext())
	})

	t.Run("first and last", func(t *testing.T) {
		assert.True(t, p.First())
		assert.Equal(t, 1, p.CurrentPage())
		assert.True(t, p.Last())
		assert.Equal(t, 3, p.CurrentPage())
	})

	t.Run("out of range jumps are ignored", func(t *testing.T) {
		for _, n := range []int{-1, 0, 4, 100} {
			assert.False(t, p.GoToPage(n), "page %d", n)
			assert.Equal(t, 3, p.CurrentPage())
		}
	})
}

func TestSetItems_ShrinkReclamps(t *testing.T) {
	p := New[string](5)
	p.SetItems(makeItems(12))
	require.True(t, p.GoToPage(3))
	assert.Equal(t, []string{"post-11", "post-12"}, p.VisibleItems())

	p.SetItems(makeItems(7))

	assert.Equal(t, 2, p.TotalPages())
	assert.Equal(t, 2, p.CurrentPage())
	assert.Equal(t, []string{"post-06", "post-07"}, p.VisibleItems())
}

func TestSetItems_Empty(t *testing.T) {
	p := New[string](5)
	p.SetItems(makeItems(8))
	p.Last()

	p.SetItems(nil)

	assert.Equal(t, 1, p.TotalPages())
	assert.Equal(t, 1, p.CurrentPage())
	assert.Empty(t, p.VisibleItems())
	assert.False(t, p.Next())
	assert.False(t, p.Previous())
}

func TestExactPageBoundary(t *testing.T) {
	items := makeItems(10)
	p := New[string](5)
	p.SetItems(items)

	assert.Equal(t, 2, p.TotalPages())
	assert.Equal(t, items[0:5], p.VisibleItems())
	require.True(t, p.Next())
	assert.Equal(t, items[5:10], p.VisibleItems())
	assert.Equal(t, []string{"1", "2"}, WindowStrings(p.PageNumberWindow(DefaultWindowSize)))
}

func TestSetPageSize(t *testing.T) {
	p := New[string](5)
	p.SetItems(makeItems(23))
	require.True(t, p.GoToPage(3)) // items 11-15

	t.Run("keeps first visible item", func(t *testing.T) {
		assert.True(t, p.SetPageSize(2))
		assert.Equal(t, 6, p.CurrentPage())
		assert.Equal(t, "post-11", p.VisibleItems()[0])
	})

	t.Run("larger size clamps", func(t *testing.T) {
		assert.True(t, p.SetPageSize(20))
		assert.Equal(t, 1, p.CurrentPage())
		assert.Equal(t, 2, p.TotalPages())
	})

	t.Run("invalid and unchanged sizes are ignored", func(t *testing.T) {
		assert.False(t, p.SetPageSize(0))
		assert.False(t, p.SetPageSize(-3))
		assert.False(t, p.SetPageSize(20))
		assert.Equal(t, 20, p.PageSize())
	})
}

func TestOnPageChange(t *testing.T) {
	p := New[string](5)
	p.SetItems(makeItems(12))

	var pages []int
	var lastVisible []string
	p.OnPageChange(func(page int, visible []string) {
		pages = append(pages, page)
		lastVisible = append([]string(nil), visible...)
	})
	p.OnPageChange(nil)

	p.Next()
	p.Next()
	p.Next()      // ignored
	p.GoToPage(9) // ignored
	p.First()
	p.SetItems(makeItems(3)) // re-clamp without navigation does not notify

	assert.Equal(t, []int{2, 3, 1}, pages)
	assert.Equal(t, makeItems(5), lastVisible)
}

func TestPageOf(t *testing.T) {
	p := New[string](5)
	p.SetItems(makeItems(12))
	assert.Equal(t, 1, p.PageOf(0))
	assert.Equal(t, 2, p.PageOf(5))
	assert.Equal(t, 3, p.PageOf(11))
	assert.Equal(t, 0, p.PageOf(12))
	assert.Equal(t, 0, p.PageOf(-1))
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, size, want int
	}{
		{0, 5, 1},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{10, 5, 2},
		{11, 5, 3},
		{7, 0, 1},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.total, tt.size), func(t *testing.T) {
			assert.Equal(t, tt.want, TotalPages(tt.total, tt.size))
		})
	}
}

func TestWindow(t *testing.T) {
	tests := []struct {
		name       string
		current    int
		total      int
		maxVisible int
		want       []string
	}{
		{"single page", 1, 1, 5, []string{"1"}},
		{"fits", 3, 5, 5, []string{"1", "2", "3", "4", "5"}},
		{"start", 1, 10, 5, []string{"1", "2", "3", "4", "…", "10"}},
		{"start edge", 3, 10, 5, []string{"1", "2", "3", "4", "…", "10"}},
		{"middle", 5, 10, 5, []string{"1", "…", "4", "5", "6", "…", "10"}},
		{"middle low", 4, 10, 5, []string{"1", "…", "3", "4", "5", "…", "10"}},
		{"end edge", 8, 10, 5, []string{"1", "…", "7", "8", "9", "10"}},
		{"end", 10, 10, 5, []string{"1", "…", "7", "8", "9", "10"}},
		{"six pages", 4, 6, 5, []string{"1", "…", "3", "4", "5", "6"}},
		{"wide window fits", 5, 8, 10, []string{"1", "2", "3", "4", "5", "6", "7", "8"}},
		{"narrow window raised", 1, 5, 2, []string{"1", "2", "3", "4", "5"}},
		{"current out of range", 42, 10, 5, []string{"1", "…", "7", "8", "9", "10"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WindowStrings(Window(tt.current, tt.total, tt.maxVisible))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Window(%d, %d, %d) mismatch (-want +got):\n%s",
					tt.current, tt.total, tt.maxVisible, diff)
			}
		})
	}
}

func TestPageNumberWindow(t *testing.T) {
	p := New[string](5)
	p.SetItems(makeItems(50))

	assert.Equal(t, []string{"1", "2", "3", "4", "…", "10"}, WindowStrings(p.PageNumberWindow(5)))
	p.GoToPage(5)
	assert.Equal(t, []string{"1", "…", "4", "5", "6", "…", "10"}, WindowStrings(p.PageNumberWindow(5)))
	p.Last()
	assert.Equal(t, []string{"1", "…", "7", "8", "9", "10"}, WindowStrings(p.PageNumberWindow(5)))
}
