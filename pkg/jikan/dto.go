package jikan

// Pagination is the pagination object of Jikan list responses.
type Pagination struct {
	LastVisiblePage int              `json:"last_visible_page"`
	HasNextPage     bool             `json:"has_next_page"`
	CurrentPage     int              `json:"current_page,omitempty"`
	Items           *PaginationItems `json:"items,omitempty"`
}

// PaginationItems holds item counts, present on search and top endpoints only.
type PaginationItems struct {
	Count   int `json:"count"`
	Total   int `json:"total"`
	PerPage int `json:"per_page"`
}

// ListResponse is the envelope of list endpoints. Pagination is nil for
// endpoints that return everything at once.
type ListResponse[T any] struct {
	Pagination *Pagination `json:"pagination,omitempty"`
	Data       []T         `json:"data"`
}

// ImageSet holds the URLs of one image format.
type ImageSet struct {
	ImageURL      string `json:"image_url"`
	SmallImageURL string `json:"small_image_url,omitempty"`
	LargeImageURL string `json:"large_image_url,omitempty"`
}

// Images holds JPG and WebP variants.
type Images struct {
	JPG  ImageSet `json:"jpg"`
	WebP ImageSet `json:"webp"`
}

// Trailer is a YouTube trailer reference.
type Trailer struct {
	YoutubeID string         `json:"youtube_id"`
	URL       string         `json:"url"`
	EmbedURL  string         `json:"embed_url"`
	Images    *TrailerImages `json:"images,omitempty"`
}

// TrailerImages are YouTube thumbnails.
type TrailerImages struct {
	ImageURL      string `json:"image_url"`
	LargeImageURL string `json:"large_image_url"`
}

// Aired is the airing period.
type Aired struct {
	From   *string `json:"from"`
	To     *string `json:"to"`
	String string  `json:"string"`
}

// Resource is a named MyAnimeList entity such as a genre or studio.
type Resource struct {
	MalID int    `json:"mal_id"`
	Type  string `json:"type"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// AnimeDTO is the anime object of /anime, /top/anime and /seasons.
type AnimeDTO struct {
	MalID         int        `json:"mal_id"`
	URL           string     `json:"url"`
	Images        Images     `json:"images"`
	Trailer       *Trailer   `json:"trailer,omitempty"`
	Title         string     `json:"title"`
	TitleEnglish  *string    `json:"title_english"`
	TitleJapanese *string    `json:"title_japanese"`
	TitleSynonyms []string   `json:"title_synonyms,omitempty"`
	Type          *string    `json:"type"`
	Source        *string    `json:"source"`
	Episodes      *int       `json:"episodes"`
	Status        *string    `json:"status"`
	Airing        bool       `json:"airing"`
	Aired         Aired      `json:"aired"`
	Duration      *string    `json:"duration"`
	Rating        *string    `json:"rating"`
	Score         *float64   `json:"score"`
	ScoredBy      *int       `json:"scored_by"`
	Rank          *int       `json:"rank"`
	Popularity    *int       `json:"popularity"`
	Members       *int       `json:"members"`
	Favorites     *int       `json:"favorites"`
	Synopsis      *string    `json:"synopsis"`
	Background    *string    `json:"background"`
	Season        *string    `json:"season"`
	Year          *int       `json:"year"`
	Genres        []Resource `json:"genres"`
	Themes        []Resource `json:"themes,omitempty"`
	Studios       []Resource `json:"studios"`
}

// EpisodeDTO is an entry of /anime/{id}/episodes.
type EpisodeDTO struct {
	MalID         int      `json:"mal_id"`
	URL           *string  `json:"url"`
	Title         string   `json:"title"`
	TitleJapanese *string  `json:"title_japanese"`
	TitleRomanji  *string  `json:"title_romanji"`
	Aired         *string  `json:"aired"`
	Score         *float64 `json:"score"`
	Filler        bool     `json:"filler"`
	Recap         bool     `json:"recap"`
	ForumURL      *string  `json:"forum_url"`
}

// Person is a character or voice actor reference.
type Person struct {
	MalID  int    `json:"mal_id"`
	URL    string `json:"url"`
	Images Images `json:"images"`
	Name   string `json:"name"`
}

// VoiceActorDTO is a voice actor credit.
type VoiceActorDTO struct {
	Person   Person `json:"person"`
	Language string `json:"language"`
}

// CharacterDTO is an entry of /anime/{id}/characters.
type CharacterDTO struct {
	Character   Person          `json:"character"`
	Role        string          `json:"role"`
	Favorites   int             `json:"favorites"`
	VoiceActors []VoiceActorDTO `json:"voice_actors"`
}

// PromoDTO is a promotional video.
type PromoDTO struct {
	Title   string  `json:"title"`
	Trailer Trailer `json:"trailer"`
}

// EpisodeVideoDTO is an episode preview video.
type EpisodeVideoDTO struct {
	MalID   int    `json:"mal_id"`
	URL     string `json:"url"`
	Title   string `json:"title"`
	Episode string `json:"episode"`
	Images  Images `json:"images"`
}

// VideosDTO is the payload of /anime/{id}/videos.
type VideosDTO struct {
	Promo    []PromoDTO        `json:"promo"`
	Episodes []EpisodeVideoDTO `json:"episodes"`
}

// UserDTO is a MyAnimeList user reference.
type UserDTO struct {
	Username string `json:"username"`
	URL      string `json:"url"`
	Images   Images `json:"images"`
}

// ReviewDTO is an entry of /anime/{id}/reviews.
type ReviewDTO struct {
	MalID           int      `json:"mal_id"`
	URL             string   `json:"url"`
	Type            string   `json:"type"`
	Date            string   `json:"date"`
	Review          string   `json:"review"`
	Score           int      `json:"score"`
	Tags            []string `json:"tags"`
	IsSpoiler       bool     `json:"is_spoiler"`
	IsPreliminary   bool     `json:"is_preliminary"`
	EpisodesWatched *int     `json:"episodes_watched"`
	User            UserDTO  `json:"user"`
}

// RecommendationEntry is the recommended anime.
type RecommendationEntry struct {
	MalID  int    `json:"mal_id"`
	URL    string `json:"url"`
	Images Images `json:"images"`
	Title  string `json:"title"`
}

// RecommendationDTO is an entry of /anime/{id}/recommendations.
type RecommendationDTO struct {
	Entry RecommendationEntry `json:"entry"`
	URL   string              `json:"url"`
	Votes int                 `json:"votes"`
}

// NewsDTO is an entry of /anime/{id}/news.
type NewsDTO struct {
	MalID          int     `json:"mal_id"`
	URL            string  `json:"url"`
	Title          string  `json:"title"`
	Date           string  `json:"date"`
	AuthorUsername string  `json:"author_username"`
	AuthorURL      string  `json:"author_url"`
	ForumURL       string  `json:"forum_url"`
	Images         Images  `json:"images"`
	Comments       int     `json:"comments"`
	Excerpt        *string `json:"excerpt"`
}
