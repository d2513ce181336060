package handlers

import (
	"fmt"
	"strings"

	"github.com/Sternrassler/jikan-client/pkg/anime"
	"github.com/Sternrassler/jikan-client/pkg/resource"
	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent = lipgloss.Color("#3b82f6")
	colorScore  = lipgloss.Color("#eab308")
	colorWarn   = lipgloss.Color("#f97316")
	colorDim    = lipgloss.Color("#6b7280")
	colorWhite  = lipgloss.Color("#f9fafb")
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorWhite)

	sectionStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorAccent)

	scoreStyle = lipgloss.NewStyle().
			Foreground(colorScore)

	warnStyle = lipgloss.NewStyle().
			Foreground(colorWarn)

	dimStyle = lipgloss.NewStyle().
			Foreground(colorDim)
)

const reviewExcerptLength = 280

func renderAnimeList(heading string, list []anime.Anime, offset int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(heading))
	b.WriteString("\n")
	if len(list) == 0 {
		b.WriteString(dimStyle.Render("  No results."))
		b.WriteString("\n")
		return b.String()
	}

	for i, a := range list {
		fmt.Fprintf(&b, "%4d. %s  %s", offset+i+1, a.Title, dimStyle.Render(fmt.Sprintf("#%d", a.ID)))
		if meta := animeMeta(a); meta != "" {
			b.WriteString("  " + dimStyle.Render(meta))
		}
		if a.Score > 0 {
			b.WriteString("  " + scoreStyle.Render(fmt.Sprintf("★ %.2f", a.Score)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func animeMeta(a anime.Anime) string {
	var parts []string
	if a.Type != "" {
		parts = append(parts, a.Type)
	}
	if a.Episodes > 0 {
		parts = append(parts, fmt.Sprintf("%d eps", a.Episodes))
	}
	if a.Year > 0 {
		parts = append(parts, fmt.Sprintf("%d", a.Year))
	}
	if len(parts) == 0 {
		return ""
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func renderPageFooter(page int) string {
	if page < 1 {
		page = 1
	}
	return dimStyle.Render(fmt.Sprintf("Page %d. Use --page %d for more.", page, page+1)) + "\n"
}

func renderAnime(a anime.Anime) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(a.Title))
	if a.TitleJapanese != "" {
		b.WriteString("  " + dimStyle.Render(a.TitleJapanese))
	}
	b.WriteString("\n")

	field := func(label, value string) {
		if value != "" {
			fmt.Fprintf(&b, "  %-11s %s\n", label+":", value)
		}
	}
	if a.Score > 0 {
		field("Score", scoreStyle.Render(fmt.Sprintf("★ %.2f", a.Score))+dimStyle.Render(fmt.Sprintf(" (%d users)", a.ScoredBy)))
	}
	if a.Rank > 0 {
		field("Rank", fmt.Sprintf("#%d", a.Rank))
	}
	field("Type", a.Type)
	if a.Episodes > 0 {
		field("Episodes", fmt.Sprintf("%d", a.Episodes))
	}
	field("Status", a.Status)
	field("Aired", a.Aired)
	field("Duration", a.Duration)
	field("Rating", a.Rating)
	field("Genres", strings.Join(a.Genres, ", "))
	field("Studios", strings.Join(a.Studios, ", "))
	field("Trailer", a.TrailerURL)
	field("URL", a.URL)

	if a.Synopsis != "" {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render("Synopsis"))
		b.WriteString("\n")
		b.WriteString(a.Synopsis)
		b.WriteString("\n")
	}
	return b.String()
}

func renderDetail(res anime.DetailResult) string {
	a, _ := res.Anime.Value()

	var b strings.Builder
	b.WriteString(renderAnime(a))

	section(&b, "Episodes", res.Episodes, func(eps []anime.Episode) string { return renderEpisodes(eps) })
	section(&b, "Characters", res.Characters, func(cs []anime.Character) string { return renderCharacters(cs) })
	section(&b, "Pictures", res.Pictures, func(ps []anime.Picture) string {
		return dimStyle.Render(fmt.Sprintf("  %d pictures", len(ps))) + "\n"
	})
	section(&b, "Videos", res.Videos, func(v anime.Videos) string { return renderVideos(v) })

	return b.String()
}

// section renders one detail section, or the reason it is missing.
func section[T any](b *strings.Builder, heading string, state resource.State[T], render func(T) string) {
	b.WriteString("\n")
	b.WriteString(sectionStyle.Render(heading))
	b.WriteString("\n")

	switch {
	case state.IsSuccess():
		v, _ := state.Value()
		b.WriteString(render(v))
	case state.IsError():
		b.WriteString(warnStyle.Render("  " + state.Message))
		b.WriteString("\n")
	default:
		b.WriteString(dimStyle.Render("  Not loaded."))
		b.WriteString("\n")
	}
}

func renderEpisodes(eps []anime.Episode) string {
	if len(eps) == 0 {
		return dimStyle.Render("  No episodes.") + "\n"
	}

	var b strings.Builder
	for _, e := range eps {
		fmt.Fprintf(&b, "%4d. %s", e.Number, e.Title)
		var flags []string
		if e.Filler {
			flags = append(flags, "filler")
		}
		if e.Recap {
			flags = append(flags, "recap")
		}
		if len(flags) > 0 {
			b.WriteString("  " + warnStyle.Render("["+strings.Join(flags, ", ")+"]"))
		}
		if e.Score > 0 {
			b.WriteString("  " + scoreStyle.Render(fmt.Sprintf("★ %.2f", e.Score)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderCharacters(cs []anime.Character) string {
	if len(cs) == 0 {
		return dimStyle.Render("  No characters.") + "\n"
	}

	var b strings.Builder
	for _, c := range cs {
		fmt.Fprintf(&b, "  %s  %s", c.Name, dimStyle.Render(c.Role))
		if c.VoiceActor != "" {
			b.WriteString("  " + dimStyle.Render("CV: "+c.VoiceActor))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func renderVideos(v anime.Videos) string {
	if len(v.Promos) == 0 && len(v.Episodes) == 0 {
		return dimStyle.Render("  No videos.") + "\n"
	}

	var b strings.Builder
	for _, p := range v.Promos {
		fmt.Fprintf(&b, "  %s  %s\n", p.Title, dimStyle.Render(p.URL))
	}
	for _, e := range v.Episodes {
		fmt.Fprintf(&b, "  %s: %s  %s\n", e.Episode, e.Title, dimStyle.Render(e.URL))
	}
	return b.String()
}

func renderReviews(rs []anime.Review) string {
	if len(rs) == 0 {
		return dimStyle.Render("No reviews.") + "\n"
	}

	var b strings.Builder
	for i, r := range rs {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s  %s  %s", titleStyle.Render(r.Username), scoreStyle.Render(fmt.Sprintf("%d/10", r.Score)), dimStyle.Render(r.Date))
		if r.Spoiler {
			b.WriteString("  " + warnStyle.Render("[spoiler]"))
		}
		b.WriteString("\n")
		b.WriteString(r.Excerpt(reviewExcerptLength))
		b.WriteString("\n")
	}
	return b.String()
}

func renderRecommendations(rs []anime.Recommendation) string {
	if len(rs) == 0 {
		return dimStyle.Render("No recommendations.") + "\n"
	}

	var b strings.Builder
	for _, r := range rs {
		fmt.Fprintf(&b, "  %s  %s  %s\n", r.Title, dimStyle.Render(fmt.Sprintf("#%d", r.ID)), dimStyle.Render(fmt.Sprintf("%d votes", r.Votes)))
	}
	return b.String()
}

func renderNews(ns []anime.News) string {
	if len(ns) == 0 {
		return dimStyle.Render("No news.") + "\n"
	}

	var b strings.Builder
	for i, n := range ns {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(titleStyle.Render(n.Title))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render(fmt.Sprintf("%s by %s, %d comments", n.Date, n.Author, n.Comments)))
		b.WriteString("\n")
		if n.Excerpt != "" {
			b.WriteString(n.Excerpt)
			b.WriteString("\n")
		}
		b.WriteString(dimStyle.Render(n.URL))
		b.WriteString("\n")
	}
	return b.String()
}
