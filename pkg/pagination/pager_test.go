package pagination

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// numbered serves totalPages pages of size items each.
func numbered(totalPages, size int) FetchFunc[int] {
	return func(ctx context.Context, page, limit int) (FetchResult[int], error) {
		if page > totalPages {
			return FetchResult[int]{HasNextPage: boolPtr(false), LastVisiblePage: totalPages}, nil
		}
		items := make([]int, size)
		for i := range items {
			items[i] = (page-1)*size + i
		}
		return FetchResult[int]{Items: items, HasNextPage: boolPtr(page < totalPages), LastVisiblePage: totalPages}, nil
	}
}

func identity(v int) int { return v }

func TestPager_AppendUntilEnd(t *testing.T) {
	ctx := context.Background()
	pager := NewPager[int](NewSource("test", numbered(3, 2), identity), 2)

	require.True(t, pager.HasNext())
	require.NoError(t, pager.Refresh(ctx))
	for pager.HasNext() {
		require.NoError(t, pager.Append(ctx))
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, pager.Items())
	assert.ErrorIs(t, pager.Append(ctx), ErrNoMorePages)
	assert.False(t, pager.HasPrev())
}

func TestPager_AppendWithoutRefreshLoadsFirstPage(t *testing.T) {
	pager := NewPager[int](NewSource("test", numbered(2, 2), identity), 2)

	require.NoError(t, pager.Append(context.Background()))
	assert.Equal(t, []int{0, 1}, pager.Items())
}

func TestPager_RefreshAroundAnchorThenPrepend(t *testing.T) {
	ctx := context.Background()
	pager := NewPager[int](NewSource("test", numbered(5, 2), identity), 2)

	require.NoError(t, pager.Refresh(ctx))
	require.NoError(t, pager.Append(ctx))
	require.NoError(t, pager.Append(ctx))
	pager.Access(5) // page 3

	require.NoError(t, pager.Refresh(ctx))
	state := pager.State()
	require.Len(t, state.Pages, 1)
	assert.Equal(t, 2, state.Pages[0].PrevKey)
	assert.Equal(t, 4, state.ItemsBefore)
	assert.Equal(t, []int{4, 5}, pager.Items())

	require.True(t, pager.HasPrev())
	require.NoError(t, pager.Prepend(ctx))
	require.NoError(t, pager.Prepend(ctx))
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, pager.Items())
	assert.Equal(t, 0, pager.State().ItemsBefore)
	assert.ErrorIs(t, pager.Prepend(ctx), ErrNoMorePages)
}

func TestPager_ErrorKeepsPages(t *testing.T) {
	ctx := context.Background()
	fail := false
	fetch := func(ctx context.Context, page, limit int) (FetchResult[int], error) {
		if fail {
			return FetchResult[int]{}, errors.New("offline")
		}
		return numbered(3, 1)(ctx, page, limit)
	}
	pager := NewPager[int](NewSource("test", fetch, identity), 1)

	require.NoError(t, pager.Refresh(ctx))
	fail = true
	assert.Error(t, pager.Append(ctx))
	assert.Equal(t, []int{0}, pager.Items())
	assert.True(t, pager.HasNext())
}
