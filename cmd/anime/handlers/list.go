package handlers

import (
	"context"

	"github.com/Sternrassler/jikan-client/pkg/anime"
	"github.com/Sternrassler/jikan-client/pkg/jikan"
	"github.com/Sternrassler/jikan-client/pkg/pagination"
)

// Top prints the top anime list.
func Top(ctx context.Context, opts Options, q jikan.TopQuery, p PageOptions) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if p.All {
		list, err := s.repo.FetchAllTopAnime(ctx, q)
		if err != nil && len(list) == 0 {
			return err
		}
		return printAnimeList(opts, "Top Anime", list, 0, 0, err)
	}

	list, err := await(opts, s.repo.TopAnime(ctx, q, p.Page, s.pageSize(p)))
	if err != nil {
		return err
	}
	return printAnimeList(opts, "Top Anime", list, offset(p, s.pageSize(p)), p.Page, nil)
}

// Search prints anime matching a query.
func Search(ctx context.Context, opts Options, q jikan.SearchQuery, p PageOptions) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if p.All {
		list, err := collectPages(ctx, s.repo.SearchSource(q), s.pageSize(p), s.cfg.Pagination.MaxPages)
		if err != nil && len(list) == 0 {
			return err
		}
		return printAnimeList(opts, "Search: "+q.Query, list, 0, 0, err)
	}

	list, err := await(opts, s.repo.Search(ctx, q, p.Page, s.pageSize(p)))
	if err != nil {
		return err
	}
	return printAnimeList(opts, "Search: "+q.Query, list, offset(p, s.pageSize(p)), p.Page, nil)
}

// Season prints the anime airing this season.
func Season(ctx context.Context, opts Options, p PageOptions) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	if p.All {
		list, err := s.repo.FetchAllSeasonNow(ctx)
		if err != nil && len(list) == 0 {
			return err
		}
		return printAnimeList(opts, "This Season", list, 0, 0, err)
	}

	list, err := await(opts, s.repo.SeasonNow(ctx, p.Page, s.pageSize(p)))
	if err != nil {
		return err
	}
	return printAnimeList(opts, "This Season", list, offset(p, s.pageSize(p)), p.Page, nil)
}

// printAnimeList renders list. A non-nil partial error is reported after
// the partial results and returned.
func printAnimeList(opts Options, heading string, list []anime.Anime, off, page int, partial error) error {
	if opts.JSON {
		if err := writeJSON(opts.Out, list); err != nil {
			return err
		}
		return partial
	}

	out := renderAnimeList(heading, list, off)
	if page > 0 {
		out += renderPageFooter(page)
	}
	if _, err := opts.Out.Write([]byte(out)); err != nil {
		return err
	}
	return partial
}

func offset(p PageOptions, size int) int {
	if p.Page <= 1 {
		return 0
	}
	return (p.Page - 1) * size
}

// collectPages follows next keys from page 1 until the list ends or
// maxPages pages are loaded. Items loaded before a failure are returned
// with the error.
func collectPages[T any](ctx context.Context, src pagination.PagingSource[T], size, maxPages int) ([]T, error) {
	pager := pagination.NewPager[T](src, size)
	if err := pager.Refresh(ctx); err != nil {
		return nil, err
	}

	for loaded := 1; pager.HasNext() && (maxPages <= 0 || loaded < maxPages); loaded++ {
		if err := pager.Append(ctx); err != nil {
			return pager.Items(), err
		}
	}
	return pager.Items(), nil
}
