package anime

import (
	"context"

	"github.com/Sternrassler/jikan-client/pkg/jikan"
	"github.com/Sternrassler/jikan-client/pkg/pagination"
)

// TopAnimeSource pages through the top list, retrying transient failures.
func (r *Repository) TopAnimeSource(q jikan.TopQuery) pagination.PagingSource[Anime] {
	return pagination.NewRetryingSource("top_anime", r.api.TopAnimePages(q), FromDTO, r.policy)
}

// SearchSource pages through search results. Search is typed interactively,
// so failures surface immediately instead of being retried.
func (r *Repository) SearchSource(q jikan.SearchQuery) pagination.PagingSource[Anime] {
	return pagination.NewSource("search", r.api.SearchAnimePages(q), FromDTO)
}

// SeasonNowSource pages through the current season.
func (r *Repository) SeasonNowSource() pagination.PagingSource[Anime] {
	return pagination.NewRetryingSource("season_now", r.api.SeasonNowPages(), FromDTO, r.policy)
}

// EpisodeSource pages through the episodes of an anime.
func (r *Repository) EpisodeSource(id int) pagination.PagingSource[Episode] {
	return pagination.NewRetryingSource("episodes", r.api.EpisodePages(id), EpisodeFromDTO, r.policy)
}

// ReviewSource pages through the reviews of an anime.
func (r *Repository) ReviewSource(id int) pagination.PagingSource[Review] {
	return pagination.NewRetryingSource("reviews", r.api.ReviewPages(id), ReviewFromDTO, r.policy)
}

// NewsSource pages through the news of an anime.
func (r *Repository) NewsSource(id int) pagination.PagingSource[News] {
	return pagination.NewRetryingSource("news", r.api.NewsPages(id), NewsFromDTO, r.policy)
}

// FetchAllTopAnime fetches every visible page of the top list in parallel.
func (r *Repository) FetchAllTopAnime(ctx context.Context, q jikan.TopQuery) ([]Anime, error) {
	return fetchAll(ctx, r, "top_anime", r.api.TopAnimePages(q), FromDTO)
}

// FetchAllSeasonNow fetches every visible page of the current season.
func (r *Repository) FetchAllSeasonNow(ctx context.Context) ([]Anime, error) {
	return fetchAll(ctx, r, "season_now", r.api.SeasonNowPages(), FromDTO)
}

// FetchAllEpisodes fetches every episode of an anime.
func (r *Repository) FetchAllEpisodes(ctx context.Context, id int) ([]Episode, error) {
	return fetchAll(ctx, r, "episodes", r.api.EpisodePages(id), EpisodeFromDTO)
}

// fetchAll runs a batch fetch with retries per page. Partial results are
// returned together with the error.
func fetchAll[D, M any](ctx context.Context, r *Repository, name string, fetch pagination.FetchFunc[D], f func(D) M) ([]M, error) {
	bf := pagination.NewRetryingBatchFetcher(name, fetch, r.policy, r.batch)
	items, err := bf.FetchAll(ctx)
	return mapAll(items, f), err
}
