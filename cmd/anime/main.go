// Package main is the entry point for the anime CLI.
//
// anime browses anime metadata from the public Jikan v4 API: top lists,
// search, the current season, detail pages, episodes, characters, reviews,
// recommendations and news. Requests are rate limited, retried on 429 and
// connectivity failures, and cached in Redis when one is configured.
//
// For detailed usage information, run:
//
//	anime --help
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sternrassler/jikan-client/cmd/anime/commands"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}
