// Package pagination turns page-keyed Jikan list endpoints into pages for
// infinite scrolling and bulk fetching.
//
// Jikan list responses carry a pagination object with current_page,
// has_next_page and last_visible_page. Pages are 1-based; NoKey (0) marks a
// missing previous or next key.
//
// Example usage:
//
//	src := pagination.NewRetryingSource("top", api.TopAnimePage(jikan.TopQuery{}), anime.FromDTO, retry.DefaultPolicy())
//	pager := pagination.NewPager[anime.Anime](src, 25)
//	if err := pager.Refresh(ctx); err != nil { ... }
//	for pager.HasNext() {
//		if err := pager.Append(ctx); err != nil { ... }
//	}
//
// The batch fetcher:
//   - Fetches the first page to learn last_visible_page
//   - Spawns a bounded worker pool for the remaining pages
//   - Collects results in page order
//   - Returns partial data with an error when a worker fails
package pagination
