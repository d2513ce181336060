package anime

import (
	"context"

	"github.com/Sternrassler/jikan-client/pkg/jikan"
	"github.com/Sternrassler/jikan-client/pkg/pagination"
	"github.com/Sternrassler/jikan-client/pkg/resource"
	"github.com/Sternrassler/jikan-client/pkg/retry"
)

// Repository exposes Jikan data as domain state streams and paging sources.
type Repository struct {
	api    *jikan.API
	policy retry.Policy
	batch  pagination.Config
}

// NewRepository creates a repository. policy governs every stream and
// retrying source; batch configures FetchAll* calls.
func NewRepository(api *jikan.API, policy retry.Policy, batch pagination.Config) *Repository {
	return &Repository{api: api, policy: policy, batch: batch}
}

// Policy returns the retry policy in use.
func (r *Repository) Policy() retry.Policy {
	return r.policy
}

func listData[T any](l jikan.ListResponse[T]) []T {
	return l.Data
}

// TopAnime streams one page of the top list.
func (r *Repository) TopAnime(ctx context.Context, q jikan.TopQuery, page, limit int) <-chan resource.State[[]Anime] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[jikan.ListResponse[jikan.AnimeDTO]], error) {
		return r.api.TopAnime(ctx, q, page, limit)
	}, func(l jikan.ListResponse[jikan.AnimeDTO]) []Anime {
		return FromDTOs(listData(l))
	}, r.policy)
}

// Search streams one page of search results.
func (r *Repository) Search(ctx context.Context, q jikan.SearchQuery, page, limit int) <-chan resource.State[[]Anime] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[jikan.ListResponse[jikan.AnimeDTO]], error) {
		return r.api.SearchAnime(ctx, q, page, limit)
	}, func(l jikan.ListResponse[jikan.AnimeDTO]) []Anime {
		return FromDTOs(listData(l))
	}, r.policy)
}

// SeasonNow streams one page of the current season.
func (r *Repository) SeasonNow(ctx context.Context, page, limit int) <-chan resource.State[[]Anime] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[jikan.ListResponse[jikan.AnimeDTO]], error) {
		return r.api.SeasonNow(ctx, page, limit)
	}, func(l jikan.ListResponse[jikan.AnimeDTO]) []Anime {
		return FromDTOs(listData(l))
	}, r.policy)
}

// Anime streams the full detail of one anime.
func (r *Repository) Anime(ctx context.Context, id int) <-chan resource.State[Anime] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[jikan.AnimeDTO], error) {
		return r.api.AnimeFull(ctx, id)
	}, FromDTO, r.policy)
}

// RefreshAnime is Anime, but error states carry stale.
func (r *Repository) RefreshAnime(ctx context.Context, id int, stale Anime) <-chan resource.State[Anime] {
	return resource.Refresh(ctx, func(ctx context.Context) (*resource.Response[jikan.AnimeDTO], error) {
		return r.api.AnimeFull(ctx, id)
	}, FromDTO, r.policy, stale)
}

// Episodes streams one page of episodes.
func (r *Repository) Episodes(ctx context.Context, id, page int) <-chan resource.State[[]Episode] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[jikan.ListResponse[jikan.EpisodeDTO]], error) {
		return r.api.Episodes(ctx, id, page)
	}, func(l jikan.ListResponse[jikan.EpisodeDTO]) []Episode {
		return mapAll(l.Data, EpisodeFromDTO)
	}, r.policy)
}

// Characters streams the cast.
func (r *Repository) Characters(ctx context.Context, id int) <-chan resource.State[[]Character] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[[]jikan.CharacterDTO], error) {
		return r.api.Characters(ctx, id)
	}, func(ds []jikan.CharacterDTO) []Character {
		return mapAll(ds, CharacterFromDTO)
	}, r.policy)
}

// Pictures streams the gallery.
func (r *Repository) Pictures(ctx context.Context, id int) <-chan resource.State[[]Picture] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[[]jikan.Images], error) {
		return r.api.Pictures(ctx, id)
	}, func(ds []jikan.Images) []Picture {
		return mapAll(ds, PictureFromDTO)
	}, r.policy)
}

// Videos streams promos and episode previews.
func (r *Repository) Videos(ctx context.Context, id int) <-chan resource.State[Videos] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[jikan.VideosDTO], error) {
		return r.api.Videos(ctx, id)
	}, VideosFromDTO, r.policy)
}

// Reviews streams one page of reviews.
func (r *Repository) Reviews(ctx context.Context, id, page int) <-chan resource.State[[]Review] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[jikan.ListResponse[jikan.ReviewDTO]], error) {
		return r.api.Reviews(ctx, id, page)
	}, func(l jikan.ListResponse[jikan.ReviewDTO]) []Review {
		return mapAll(l.Data, ReviewFromDTO)
	}, r.policy)
}

// Recommendations streams user recommendations.
func (r *Repository) Recommendations(ctx context.Context, id int) <-chan resource.State[[]Recommendation] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[[]jikan.RecommendationDTO], error) {
		return r.api.Recommendations(ctx, id)
	}, func(ds []jikan.RecommendationDTO) []Recommendation {
		return mapAll(ds, RecommendationFromDTO)
	}, r.policy)
}

// News streams one page of news.
func (r *Repository) News(ctx context.Context, id, page int) <-chan resource.State[[]News] {
	return resource.Flow(ctx, func(ctx context.Context) (*resource.Response[jikan.ListResponse[jikan.NewsDTO]], error) {
		return r.api.News(ctx, id, page)
	}, func(l jikan.ListResponse[jikan.NewsDTO]) []News {
		return mapAll(l.Data, NewsFromDTO)
	}, r.policy)
}
