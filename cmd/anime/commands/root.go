// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sternrassler/jikan-client/cmd/anime/handlers"
)

// global holds the persistent flags of the root command.
type global struct {
	configPath string
	logLevel   string
	jsonOutput bool
}

func (g *global) options(cmd *cobra.Command) handlers.Options {
	return handlers.Options{
		ConfigPath: g.configPath,
		LogLevel:   g.logLevel,
		JSON:       g.jsonOutput,
		Out:        cmd.OutOrStdout(),
		Err:        cmd.ErrOrStderr(),
	}
}

// Root returns the root command for the anime CLI.
func Root() *cobra.Command {
	g := &global{}

	cmd := &cobra.Command{
		Use:           "anime",
		Short:         "Browse anime metadata from the Jikan API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVarP(&g.configPath, "config", "c", "", "Path to configuration file")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	cmd.PersistentFlags().BoolVar(&g.jsonOutput, "json", false, "Output in JSON format")

	// Lists
	cmd.AddCommand(Top(g))
	cmd.AddCommand(Search(g))
	cmd.AddCommand(Season(g))

	// Single anime
	cmd.AddCommand(Show(g))
	cmd.AddCommand(Episodes(g))
	cmd.AddCommand(Characters(g))
	cmd.AddCommand(Reviews(g))
	cmd.AddCommand(Recommendations(g))
	cmd.AddCommand(News(g))

	cmd.AddCommand(Version())

	return cmd
}

// pageFlags binds --page, --limit and --all.
func pageFlags(cmd *cobra.Command, p *handlers.PageOptions, withLimit bool) {
	cmd.Flags().IntVarP(&p.Page, "page", "p", 1, "Page number (1-based)")
	if withLimit {
		cmd.Flags().IntVarP(&p.Limit, "limit", "l", 0, "Items per page, at most 25 (default from config)")
	}
	cmd.Flags().BoolVar(&p.All, "all", false, "Fetch all pages (bounded by pagination.max_pages)")
}

func validatePage(p handlers.PageOptions) error {
	if p.Page < 1 {
		return fmt.Errorf("--page must be at least 1, got %d", p.Page)
	}
	if p.Limit < 0 || p.Limit > 25 {
		return fmt.Errorf("--limit must be between 1 and 25, got %d", p.Limit)
	}
	return nil
}

// animeID parses the MyAnimeList id argument.
func animeID(arg string) (int, error) {
	id, err := strconv.Atoi(arg)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid anime id %q: must be a positive integer", arg)
	}
	return id, nil
}
