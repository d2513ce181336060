package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/jikan-client/cmd/anime/handlers"
	"github.com/Sternrassler/jikan-client/pkg/jikan"
)

// Top returns the command listing top anime.
func Top(g *global) *cobra.Command {
	var q jikan.TopQuery
	var p handlers.PageOptions

	cmd := &cobra.Command{
		Use:   "top",
		Short: "List top ranked anime",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validatePage(p); err != nil {
				return err
			}
			return handlers.Top(cmd.Context(), g.options(cmd), q, p)
		},
	}

	cmd.Flags().StringVar(&q.Type, "type", "", "Filter by type (tv, movie, ova, special, ona, music)")
	cmd.Flags().StringVar(&q.Filter, "filter", "", "Ranking filter (airing, upcoming, bypopularity, favorite)")
	cmd.Flags().BoolVar(&q.SFW, "sfw", false, "Exclude adult entries")
	pageFlags(cmd, &p, true)

	return cmd
}

// Search returns the command searching anime by title.
func Search(g *global) *cobra.Command {
	var q jikan.SearchQuery
	var p handlers.PageOptions

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search anime by title",
		Long: `Search anime by title.

Results can be narrowed by type and status and ordered by any Jikan
order_by field, for example:

  anime search "cowboy bebop"
  anime search gundam --type tv --order-by score --sort desc --all
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validatePage(p); err != nil {
				return err
			}
			q.Query = strings.Join(args, " ")
			return handlers.Search(cmd.Context(), g.options(cmd), q, p)
		},
	}

	cmd.Flags().StringVar(&q.Type, "type", "", "Filter by type")
	cmd.Flags().StringVar(&q.Status, "status", "", "Filter by status (airing, complete, upcoming)")
	cmd.Flags().StringVar(&q.Rating, "rating", "", "Filter by age rating (g, pg, pg13, r17, r, rx)")
	cmd.Flags().StringVar(&q.OrderBy, "order-by", "", "Order by field (score, rank, popularity, title, ...)")
	cmd.Flags().StringVar(&q.Sort, "sort", "", "Sort direction (asc, desc)")
	cmd.Flags().BoolVar(&q.SFW, "sfw", false, "Exclude adult entries")
	pageFlags(cmd, &p, true)

	return cmd
}

// Season returns the command listing the current season.
func Season(g *global) *cobra.Command {
	var p handlers.PageOptions

	cmd := &cobra.Command{
		Use:   "season",
		Short: "List anime airing this season",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validatePage(p); err != nil {
				return err
			}
			return handlers.Season(cmd.Context(), g.options(cmd), p)
		},
	}

	pageFlags(cmd, &p, true)

	return cmd
}
