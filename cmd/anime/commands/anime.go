package commands

import (
	"github.com/spf13/cobra"

	"github.com/Sternrassler/jikan-client/cmd/anime/handlers"
)

// Show returns the command printing an anime detail page.
func Show(g *global) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show details, episodes, cast, pictures and videos of an anime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := animeID(args[0])
			if err != nil {
				return err
			}
			return handlers.Show(cmd.Context(), g.options(cmd), id)
		},
	}
}

// Episodes returns the command listing episodes.
func Episodes(g *global) *cobra.Command {
	var p handlers.PageOptions

	cmd := &cobra.Command{
		Use:   "episodes <id>",
		Short: "List episodes of an anime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := animeID(args[0])
			if err != nil {
				return err
			}
			if err := validatePage(p); err != nil {
				return err
			}
			return handlers.Episodes(cmd.Context(), g.options(cmd), id, p)
		},
	}

	pageFlags(cmd, &p, false)

	return cmd
}

// Characters returns the command listing the cast.
func Characters(g *global) *cobra.Command {
	return &cobra.Command{
		Use:   "characters <id>",
		Short: "List characters and Japanese voice actors of an anime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := animeID(args[0])
			if err != nil {
				return err
			}
			return handlers.Characters(cmd.Context(), g.options(cmd), id)
		},
	}
}

// Reviews returns the command listing user reviews.
func Reviews(g *global) *cobra.Command {
	var p handlers.PageOptions

	cmd := &cobra.Command{
		Use:   "reviews <id>",
		Short: "List user reviews of an anime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := animeID(args[0])
			if err != nil {
				return err
			}
			if err := validatePage(p); err != nil {
				return err
			}
			return handlers.Reviews(cmd.Context(), g.options(cmd), id, p)
		},
	}

	pageFlags(cmd, &p, false)

	return cmd
}

// Recommendations returns the command listing recommendations.
func Recommendations(g *global) *cobra.Command {
	return &cobra.Command{
		Use:     "recommendations <id>",
		Aliases: []string{"recs"},
		Short:   "List anime recommended by users who liked this one",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := animeID(args[0])
			if err != nil {
				return err
			}
			return handlers.Recommendations(cmd.Context(), g.options(cmd), id)
		},
	}
}

// News returns the command listing news articles.
func News(g *global) *cobra.Command {
	var p handlers.PageOptions

	cmd := &cobra.Command{
		Use:   "news <id>",
		Short: "List news about an anime",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := animeID(args[0])
			if err != nil {
				return err
			}
			if err := validatePage(p); err != nil {
				return err
			}
			return handlers.News(cmd.Context(), g.options(cmd), id, p)
		},
	}

	pageFlags(cmd, &p, false)

	return cmd
}
