package handlers

import (
	"context"
	"errors"
	"fmt"

	"github.com/Sternrassler/jikan-client/pkg/anime"
)

// detailJSON is the JSON shape of the show command.
type detailJSON struct {
	Anime      anime.Anime       `json:"anime"`
	Episodes   []anime.Episode   `json:"episodes,omitempty"`
	Characters []anime.Character `json:"characters,omitempty"`
	Pictures   []anime.Picture   `json:"pictures,omitempty"`
	Videos     *anime.Videos     `json:"videos,omitempty"`
}

// Show prints the detail page of one anime. The anime itself must load;
// the other sections are shown when available.
func Show(ctx context.Context, opts Options, id int) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	res := s.repo.Detail(ctx, id).Wait()

	switch {
	case res.Anime.IsError():
		return errors.New(res.Anime.Message)
	case !res.Anime.IsSuccess():
		return ErrCancelled
	}

	if opts.JSON {
		out := detailJSON{}
		out.Anime, _ = res.Anime.Value()
		out.Episodes, _ = res.Episodes.Value()
		out.Characters, _ = res.Characters.Value()
		out.Pictures, _ = res.Pictures.Value()
		if v, ok := res.Videos.Value(); ok {
			out.Videos = &v
		}
		return writeJSON(opts.Out, out)
	}

	_, err = fmt.Fprint(opts.Out, renderDetail(res))
	return err
}

// Episodes prints the episodes of an anime.
func Episodes(ctx context.Context, opts Options, id int, p PageOptions) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	var eps []anime.Episode
	var partial error
	if p.All {
		eps, partial = s.repo.FetchAllEpisodes(ctx, id)
		if partial != nil && len(eps) == 0 {
			return partial
		}
	} else if eps, err = await(opts, s.repo.Episodes(ctx, id, p.Page)); err != nil {
		return err
	}

	if opts.JSON {
		if err := writeJSON(opts.Out, eps); err != nil {
			return err
		}
		return partial
	}
	if _, err := fmt.Fprint(opts.Out, renderEpisodes(eps)); err != nil {
		return err
	}
	return partial
}

// Characters prints the cast of an anime.
func Characters(ctx context.Context, opts Options, id int) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	cs, err := await(opts, s.repo.Characters(ctx, id))
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(opts.Out, cs)
	}
	_, err = fmt.Fprint(opts.Out, renderCharacters(cs))
	return err
}

// Reviews prints user reviews of an anime.
func Reviews(ctx context.Context, opts Options, id int, p PageOptions) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	var rs []anime.Review
	var partial error
	if p.All {
		rs, partial = collectPages(ctx, s.repo.ReviewSource(id), 0, s.cfg.Pagination.MaxPages)
		if partial != nil && len(rs) == 0 {
			return partial
		}
	} else if rs, err = await(opts, s.repo.Reviews(ctx, id, p.Page)); err != nil {
		return err
	}

	if opts.JSON {
		if err := writeJSON(opts.Out, rs); err != nil {
			return err
		}
		return partial
	}
	if _, err := fmt.Fprint(opts.Out, renderReviews(rs)); err != nil {
		return err
	}
	return partial
}

// Recommendations prints anime recommended alongside an anime.
func Recommendations(ctx context.Context, opts Options, id int) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	rs, err := await(opts, s.repo.Recommendations(ctx, id))
	if err != nil {
		return err
	}
	if opts.JSON {
		return writeJSON(opts.Out, rs)
	}
	_, err = fmt.Fprint(opts.Out, renderRecommendations(rs))
	return err
}

// News prints news about an anime.
func News(ctx context.Context, opts Options, id int, p PageOptions) error {
	s, err := openSession(ctx, opts)
	if err != nil {
		return err
	}
	defer s.Close()

	var ns []anime.News
	var partial error
	if p.All {
		ns, partial = collectPages(ctx, s.repo.NewsSource(id), 0, s.cfg.Pagination.MaxPages)
		if partial != nil && len(ns) == 0 {
			return partial
		}
	} else if ns, err = await(opts, s.repo.News(ctx, id, p.Page)); err != nil {
		return err
	}

	if opts.JSON {
		if err := writeJSON(opts.Out, ns); err != nil {
			return err
		}
		return partial
	}
	if _, err := fmt.Fprint(opts.Out, renderNews(ns)); err != nil {
		return err
	}
	return partial
}
