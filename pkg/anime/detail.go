package anime

import (
	"context"
	"sync"

	"github.com/Sternrassler/jikan-client/pkg/resource"
)

// DetailStreams are the independent state streams of a detail page.
type DetailStreams struct {
	Anime      <-chan resource.State[Anime]
	Episodes   <-chan resource.State[[]Episode]
	Characters <-chan resource.State[[]Character]
	Pictures   <-chan resource.State[[]Picture]
	Videos     <-chan resource.State[Videos]
}

// Detail starts the five detail-page streams concurrently. Each stream
// retries on its own; cancelling ctx abandons all of them.
func (r *Repository) Detail(ctx context.Context, id int) DetailStreams {
	return DetailStreams{
		Anime:      r.Anime(ctx, id),
		Episodes:   r.Episodes(ctx, id, 1),
		Characters: r.Characters(ctx, id),
		Pictures:   r.Pictures(ctx, id),
		Videos:     r.Videos(ctx, id),
	}
}

// DetailResult holds the terminal state of each detail stream.
// A state that is not terminal means the stream was cancelled.
type DetailResult struct {
	Anime      resource.State[Anime]
	Episodes   resource.State[[]Episode]
	Characters resource.State[[]Character]
	Pictures   resource.State[[]Picture]
	Videos     resource.State[Videos]
}

// Wait drains all streams concurrently and returns their terminal states.
func (d DetailStreams) Wait() DetailResult {
	var res DetailResult
	var wg sync.WaitGroup

	wg.Add(5)
	go func() { defer wg.Done(); res.Anime, _ = resource.Last(d.Anime) }()
	go func() { defer wg.Done(); res.Episodes, _ = resource.Last(d.Episodes) }()
	go func() { defer wg.Done(); res.Characters, _ = resource.Last(d.Characters) }()
	go func() { defer wg.Done(); res.Pictures, _ = resource.Last(d.Pictures) }()
	go func() { defer wg.Done(); res.Videos, _ = resource.Last(d.Videos) }()
	wg.Wait()

	return res
}
