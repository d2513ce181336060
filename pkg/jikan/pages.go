package jikan

import (
	"context"
	"net/url"

	"github.com/Sternrassler/jikan-client/pkg/pagination"
	"github.com/Sternrassler/jikan-client/pkg/retry"
)

// TopAnimePages pages through /top/anime.
func (a *API) TopAnimePages(q TopQuery) pagination.FetchFunc[AnimeDTO] {
	return func(ctx context.Context, page, limit int) (pagination.FetchResult[AnimeDTO], error) {
		return listPage[AnimeDTO](ctx, a, "/top/anime", q.values(page, limit))
	}
}

// SearchAnimePages pages through /anime.
func (a *API) SearchAnimePages(q SearchQuery) pagination.FetchFunc[AnimeDTO] {
	return func(ctx context.Context, page, limit int) (pagination.FetchResult[AnimeDTO], error) {
		return listPage[AnimeDTO](ctx, a, "/anime", q.values(page, limit))
	}
}

// SeasonNowPages pages through /seasons/now.
func (a *API) SeasonNowPages() pagination.FetchFunc[AnimeDTO] {
	return func(ctx context.Context, page, limit int) (pagination.FetchResult[AnimeDTO], error) {
		return listPage[AnimeDTO](ctx, a, "/seasons/now", pageValues(page, limit))
	}
}

// EpisodePages pages through /anime/{id}/episodes. The endpoint ignores limit.
func (a *API) EpisodePages(id int) pagination.FetchFunc[EpisodeDTO] {
	return func(ctx context.Context, page, _ int) (pagination.FetchResult[EpisodeDTO], error) {
		return listPage[EpisodeDTO](ctx, a, animePath(id, "episodes"), pageValues(page, 0))
	}
}

// ReviewPages pages through /anime/{id}/reviews.
func (a *API) ReviewPages(id int) pagination.FetchFunc[ReviewDTO] {
	return func(ctx context.Context, page, _ int) (pagination.FetchResult[ReviewDTO], error) {
		return listPage[ReviewDTO](ctx, a, animePath(id, "reviews"), pageValues(page, 0))
	}
}

// NewsPages pages through /anime/{id}/news.
func (a *API) NewsPages(id int) pagination.FetchFunc[NewsDTO] {
	return func(ctx context.Context, page, _ int) (pagination.FetchResult[NewsDTO], error) {
		return listPage[NewsDTO](ctx, a, animePath(id, "news"), pageValues(page, 0))
	}
}

// listPage fetches one page. Non-2xx responses become *retry.HTTPError.
func listPage[T any](ctx context.Context, a *API, path string, query url.Values) (pagination.FetchResult[T], error) {
	raw, err := a.get(ctx, path, query)
	if err != nil {
		return pagination.FetchResult[T]{}, err
	}
	if err := raw.apiError(); err != nil {
		return pagination.FetchResult[T]{}, err
	}

	resp, err := decode[ListResponse[T]](raw, "")
	if err != nil {
		return pagination.FetchResult[T]{}, err
	}
	if resp.Body == nil {
		return pagination.FetchResult[T]{}, retry.ErrEmptyBody
	}

	res := pagination.FetchResult[T]{Items: resp.Body.Data}
	if p := resp.Body.Pagination; p != nil {
		hasNext := p.HasNextPage
		res.HasNextPage = &hasNext
		res.LastVisiblePage = p.LastVisiblePage
	}
	return res, nil
}
