package pagination

// Page is a loaded page held by a pager.
type Page[T any] struct {
	Data    []T
	PrevKey int
	NextKey int
}

// PagingState is a snapshot of the loaded pages and the reader's position.
type PagingState[T any] struct {
	Pages []Page[T]

	// AnchorPosition is the index of the most recently accessed item,
	// counted from the start of the list including ItemsBefore.
	AnchorPosition int
	HasAnchor      bool

	// ItemsBefore counts unloaded items before the first page.
	ItemsBefore int
}

// ClosestPageToPosition returns the loaded page containing pos, or the
// nearest one when pos falls outside the loaded range.
func (s PagingState[T]) ClosestPageToPosition(pos int) (Page[T], bool) {
	if len(s.Pages) == 0 {
		return Page[T]{}, false
	}

	idx := pos - s.ItemsBefore
	for i, p := range s.Pages {
		if idx < len(p.Data) || i == len(s.Pages)-1 {
			return p, true
		}
		idx -= len(p.Data)
	}
	return s.Pages[len(s.Pages)-1], true
}

// RefreshKey picks the page to reload on refresh: the page adjacent to the
// anchor's closest page.
func RefreshKey[T any](state PagingState[T]) int {
	if !state.HasAnchor {
		return NoKey
	}
	page, ok := state.ClosestPageToPosition(state.AnchorPosition)
	if !ok {
		return NoKey
	}
	if page.PrevKey != NoKey {
		return page.PrevKey + 1
	}
	if page.NextKey != NoKey {
		return page.NextKey - 1
	}
	return NoKey
}
