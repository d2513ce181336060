package jikan

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Sternrassler/jikan-client/pkg/client"
	"github.com/Sternrassler/jikan-client/pkg/resource"
	"github.com/Sternrassler/jikan-client/pkg/retry"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// API exposes the Jikan anime endpoints.
type API struct {
	client *client.Client
	logger zerolog.Logger
}

// NewAPI wraps a client.
func NewAPI(c *client.Client) *API {
	return &API{
		client: c,
		logger: log.With().Str("component", "jikan-api").Logger(),
	}
}

// TopQuery filters /top/anime.
type TopQuery struct {
	Type   string // tv, movie, ova, special, ona, music
	Filter string // airing, upcoming, bypopularity, favorite
	SFW    bool
}

func (q TopQuery) values(page, limit int) url.Values {
	v := pageValues(page, limit)
	setIf(v, "type", q.Type)
	setIf(v, "filter", q.Filter)
	if q.SFW {
		v.Set("sfw", "true")
	}
	return v
}

// SearchQuery filters /anime.
type SearchQuery struct {
	Query   string
	Type    string
	Status  string // airing, complete, upcoming
	Rating  string
	OrderBy string // mal_id, title, score, rank, popularity, members, ...
	Sort    string // asc, desc
	SFW     bool
}

func (q SearchQuery) values(page, limit int) url.Values {
	v := pageValues(page, limit)
	setIf(v, "q", q.Query)
	setIf(v, "type", q.Type)
	setIf(v, "status", q.Status)
	setIf(v, "rating", q.Rating)
	setIf(v, "order_by", q.OrderBy)
	setIf(v, "sort", q.Sort)
	if q.SFW {
		v.Set("sfw", "true")
	}
	return v
}

func pageValues(page, limit int) url.Values {
	v := url.Values{}
	if page > 0 {
		v.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		v.Set("limit", strconv.Itoa(limit))
	}
	return v
}

func setIf(v url.Values, key, value string) {
	if value != "" {
		v.Set(key, value)
	}
}

// TopAnime returns one page of /top/anime.
func (a *API) TopAnime(ctx context.Context, q TopQuery, page, limit int) (*resource.Response[ListResponse[AnimeDTO]], error) {
	return envelope[ListResponse[AnimeDTO]](ctx, a, "/top/anime", q.values(page, limit))
}

// SearchAnime returns one page of /anime.
func (a *API) SearchAnime(ctx context.Context, q SearchQuery, page, limit int) (*resource.Response[ListResponse[AnimeDTO]], error) {
	return envelope[ListResponse[AnimeDTO]](ctx, a, "/anime", q.values(page, limit))
}

// SeasonNow returns one page of /seasons/now.
func (a *API) SeasonNow(ctx context.Context, page, limit int) (*resource.Response[ListResponse[AnimeDTO]], error) {
	return envelope[ListResponse[AnimeDTO]](ctx, a, "/seasons/now", pageValues(page, limit))
}

// AnimeFull returns /anime/{id}/full.
func (a *API) AnimeFull(ctx context.Context, id int) (*resource.Response[AnimeDTO], error) {
	return unwrap[AnimeDTO](ctx, a, animePath(id, "full"), nil)
}

// Episodes returns one page of /anime/{id}/episodes.
func (a *API) Episodes(ctx context.Context, id, page int) (*resource.Response[ListResponse[EpisodeDTO]], error) {
	return envelope[ListResponse[EpisodeDTO]](ctx, a, animePath(id, "episodes"), pageValues(page, 0))
}

// Characters returns /anime/{id}/characters.
func (a *API) Characters(ctx context.Context, id int) (*resource.Response[[]CharacterDTO], error) {
	return unwrap[[]CharacterDTO](ctx, a, animePath(id, "characters"), nil)
}

// Pictures returns /anime/{id}/pictures.
func (a *API) Pictures(ctx context.Context, id int) (*resource.Response[[]Images], error) {
	return unwrap[[]Images](ctx, a, animePath(id, "pictures"), nil)
}

// Videos returns /anime/{id}/videos.
func (a *API) Videos(ctx context.Context, id int) (*resource.Response[VideosDTO], error) {
	return unwrap[VideosDTO](ctx, a, animePath(id, "videos"), nil)
}

// Reviews returns one page of /anime/{id}/reviews.
func (a *API) Reviews(ctx context.Context, id, page int) (*resource.Response[ListResponse[ReviewDTO]], error) {
	return envelope[ListResponse[ReviewDTO]](ctx, a, animePath(id, "reviews"), pageValues(page, 0))
}

// Recommendations returns /anime/{id}/recommendations.
func (a *API) Recommendations(ctx context.Context, id int) (*resource.Response[[]RecommendationDTO], error) {
	return unwrap[[]RecommendationDTO](ctx, a, animePath(id, "recommendations"), nil)
}

// News returns one page of /anime/{id}/news.
func (a *API) News(ctx context.Context, id, page int) (*resource.Response[ListResponse[NewsDTO]], error) {
	return envelope[ListResponse[NewsDTO]](ctx, a, animePath(id, "news"), pageValues(page, 0))
}

func animePath(id int, sub string) string {
	return fmt.Sprintf("/anime/%d/%s", id, sub)
}

// rawResponse is a response whose body has been read but not decoded.
type rawResponse struct {
	statusCode int
	header     http.Header
	body       []byte
}

func (r *rawResponse) successful() bool {
	return r.statusCode >= 200 && r.statusCode < 300
}

// apiError returns the parsed error of a non-2xx response, nil otherwise.
func (r *rawResponse) apiError() error {
	if r.successful() {
		return nil
	}
	return ParseError(r.statusCode, r.header, r.body)
}

func (a *API) get(ctx context.Context, path string, query url.Values) (*rawResponse, error) {
	resp, err := a.client.Get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	raw := &rawResponse{statusCode: resp.StatusCode, header: resp.Header, body: body}
	if err := raw.apiError(); err != nil {
		a.logger.Debug().
			Str("endpoint", path).
			Int("status", resp.StatusCode).
			Err(err).
			Msg("Jikan returned an error body")
	}
	return raw, nil
}

// envelope decodes the whole body into R.
func envelope[R any](ctx context.Context, a *API, path string, query url.Values) (*resource.Response[R], error) {
	raw, err := a.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return decode[R](raw, "")
}

// unwrap decodes the "data" member of the body into R.
func unwrap[R any](ctx context.Context, a *API, path string, query url.Values) (*resource.Response[R], error) {
	raw, err := a.get(ctx, path, query)
	if err != nil {
		return nil, err
	}
	return decode[R](raw, "data")
}

// decode converts raw into a typed response. Non-2xx responses and empty or
// null payloads yield a nil Body.
func decode[R any](raw *rawResponse, field string) (*resource.Response[R], error) {
	out := &resource.Response[R]{StatusCode: raw.statusCode, Header: raw.header}
	if !raw.successful() {
		return out, nil
	}

	payload := bytes.TrimSpace(raw.body)
	if isNull(payload) {
		return out, nil
	}
	if !gjson.ValidBytes(payload) {
		return nil, &retry.MalformedError{Err: fmt.Errorf("invalid JSON (%d bytes)", len(payload))}
	}

	if field != "" {
		member := gjson.GetBytes(payload, field)
		if !member.Exists() || member.Type == gjson.Null {
			return out, nil
		}
		payload = []byte(member.Raw)
	}

	var v R
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, &retry.MalformedError{Err: err}
	}
	out.Body = &v
	return out, nil
}

func isNull(b []byte) bool {
	return len(b) == 0 || bytes.Equal(b, []byte("null"))
}
