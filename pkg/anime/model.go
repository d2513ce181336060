// Package anime holds the domain models and the repository that turns Jikan
// endpoints into state streams and paging sources.
package anime

import "strings"

// Anime is an anime as shown in lists and detail pages.
type Anime struct {
	ID            int      `json:"id"`
	URL           string   `json:"url"`
	Title         string   `json:"title"`
	TitleJapanese string   `json:"title_japanese,omitempty"`
	ImageURL      string   `json:"image_url,omitempty"`
	TrailerURL    string   `json:"trailer_url,omitempty"`
	Type          string   `json:"type,omitempty"`
	Source        string   `json:"source,omitempty"`
	Episodes      int      `json:"episodes,omitempty"`
	Status        string   `json:"status,omitempty"`
	Airing        bool     `json:"airing"`
	Aired         string   `json:"aired,omitempty"`
	Duration      string   `json:"duration,omitempty"`
	Rating        string   `json:"rating,omitempty"`
	Score         float64  `json:"score,omitempty"`
	ScoredBy      int      `json:"scored_by,omitempty"`
	Rank          int      `json:"rank,omitempty"`
	Popularity    int      `json:"popularity,omitempty"`
	Members       int      `json:"members,omitempty"`
	Favorites     int      `json:"favorites,omitempty"`
	Synopsis      string   `json:"synopsis,omitempty"`
	Background    string   `json:"background,omitempty"`
	Season        string   `json:"season,omitempty"`
	Year          int      `json:"year,omitempty"`
	Genres        []string `json:"genres,omitempty"`
	Studios       []string `json:"studios,omitempty"`
}

// Episode is one episode of an anime.
type Episode struct {
	Number        int     `json:"number"`
	Title         string  `json:"title"`
	TitleJapanese string  `json:"title_japanese,omitempty"`
	Aired         string  `json:"aired,omitempty"`
	Score         float64 `json:"score,omitempty"`
	Filler        bool    `json:"filler"`
	Recap         bool    `json:"recap"`
}

// Character is a character with the Japanese voice actor, if any.
type Character struct {
	ID                 int    `json:"id"`
	Name               string `json:"name"`
	ImageURL           string `json:"image_url,omitempty"`
	Role               string `json:"role"`
	Favorites          int    `json:"favorites"`
	VoiceActor         string `json:"voice_actor,omitempty"`
	VoiceActorImageURL string `json:"voice_actor_image_url,omitempty"`
}

// Picture is a gallery image.
type Picture struct {
	ImageURL      string `json:"image_url"`
	LargeImageURL string `json:"large_image_url,omitempty"`
}

// Video is a promo or episode video.
type Video struct {
	Title        string `json:"title"`
	URL          string `json:"url,omitempty"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Episode      string `json:"episode,omitempty"`
}

// Videos groups promos and episode previews.
type Videos struct {
	Promos   []Video `json:"promos"`
	Episodes []Video `json:"episodes"`
}

// Review is a user review.
type Review struct {
	ID       int      `json:"id"`
	Username string   `json:"username"`
	Date     string   `json:"date"`
	Score    int      `json:"score"`
	Text     string   `json:"text"`
	Tags     []string `json:"tags,omitempty"`
	Spoiler  bool     `json:"spoiler"`
}

// Excerpt returns at most n runes of the review, cut at a word boundary.
func (r Review) Excerpt(n int) string {
	text := strings.Join(strings.Fields(r.Text), " ")
	runes := []rune(text)
	if n <= 0 || len(runes) <= n {
		return text
	}

	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return cut + "…"
}

// Recommendation is a related anime suggested by users.
type Recommendation struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	ImageURL string `json:"image_url,omitempty"`
	Votes    int    `json:"votes"`
}

// News is a news article about an anime.
type News struct {
	ID       int    `json:"id"`
	Title    string `json:"title"`
	URL      string `json:"url"`
	Date     string `json:"date"`
	Author   string `json:"author"`
	ImageURL string `json:"image_url,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
	Comments int    `json:"comments"`
}
