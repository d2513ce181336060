package pagination

import (
	"context"
	"errors"
	"sync"
)

// ErrNoMorePages is returned when appending past the last page or
// prepending before the first.
var ErrNoMorePages = errors.New("no more pages")

// Pager holds loaded pages of a PagingSource and loads neighbours on demand.
// It is safe for concurrent use.
type Pager[T any] struct {
	source   PagingSource[T]
	pageSize int

	mu    sync.Mutex
	state PagingState[T]
}

// NewPager creates a pager requesting pageSize items per page.
func NewPager[T any](source PagingSource[T], pageSize int) *Pager[T] {
	return &Pager[T]{source: source, pageSize: pageSize}
}

// Refresh drops all pages and reloads around the anchor, or page 1 without one.
func (p *Pager[T]) Refresh(ctx context.Context) error {
	p.mu.Lock()
	key := RefreshKey(p.state)
	p.mu.Unlock()

	res := p.source.Load(ctx, LoadParams{Key: key, LoadSize: p.pageSize})
	if res.IsError() {
		return res.Err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	page := Page[T]{Data: res.Data, PrevKey: res.PrevKey, NextKey: res.NextKey}
	itemsBefore := 0
	if res.PrevKey != NoKey {
		itemsBefore = res.PrevKey * p.pageSize
	}
	p.state = PagingState[T]{
		Pages:          []Page[T]{page},
		AnchorPosition: p.state.AnchorPosition,
		HasAnchor:      p.state.HasAnchor,
		ItemsBefore:    itemsBefore,
	}
	return nil
}

// Append loads the page after the last loaded page.
func (p *Pager[T]) Append(ctx context.Context) error {
	p.mu.Lock()
	if len(p.state.Pages) == 0 {
		p.mu.Unlock()
		return p.Refresh(ctx)
	}
	key := p.state.Pages[len(p.state.Pages)-1].NextKey
	p.mu.Unlock()

	if key == NoKey {
		return ErrNoMorePages
	}

	res := p.source.Load(ctx, LoadParams{Key: key, LoadSize: p.pageSize})
	if res.IsError() {
		return res.Err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.Pages = append(p.state.Pages, Page[T]{Data: res.Data, PrevKey: res.PrevKey, NextKey: res.NextKey})
	return nil
}

// Prepend loads the page before the first loaded page.
func (p *Pager[T]) Prepend(ctx context.Context) error {
	p.mu.Lock()
	if len(p.state.Pages) == 0 {
		p.mu.Unlock()
		return p.Refresh(ctx)
	}
	key := p.state.Pages[0].PrevKey
	p.mu.Unlock()

	if key == NoKey {
		return ErrNoMorePages
	}

	res := p.source.Load(ctx, LoadParams{Key: key, LoadSize: p.pageSize})
	if res.IsError() {
		return res.Err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	page := Page[T]{Data: res.Data, PrevKey: res.PrevKey, NextKey: res.NextKey}
	p.state.Pages = append([]Page[T]{page}, p.state.Pages...)
	p.state.ItemsBefore -= len(res.Data)
	if p.state.ItemsBefore < 0 || res.PrevKey == NoKey {
		p.state.ItemsBefore = 0
	}
	return nil
}

// HasNext reports whether another page can be appended.
func (p *Pager[T]) HasNext() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.state.Pages) == 0 {
		return true
	}
	return p.state.Pages[len(p.state.Pages)-1].NextKey != NoKey
}

// HasPrev reports whether another page can be prepended.
func (p *Pager[T]) HasPrev() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.state.Pages) == 0 {
		return false
	}
	return p.state.Pages[0].PrevKey != NoKey
}

// Access records pos as the most recently read item.
func (p *Pager[T]) Access(pos int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.state.AnchorPosition = pos
	p.state.HasAnchor = true
}

// Items returns all loaded items in order.
func (p *Pager[T]) Items() []T {
	p.mu.Lock()
	defer p.mu.Unlock()
	var items []T
	for _, page := range p.state.Pages {
		items = append(items, page.Data...)
	}
	return items
}

// State returns a snapshot of the paging state.
func (p *Pager[T]) State() PagingState[T] {
	p.mu.Lock()
	defer p.mu.Unlock()
	s := p.state
	s.Pages = append([]Page[T](nil), p.state.Pages...)
	return s
}
