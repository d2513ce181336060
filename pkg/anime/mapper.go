package anime

import "github.com/Sternrassler/jikan-client/pkg/jikan"

// FromDTO maps a Jikan anime object.
func FromDTO(d jikan.AnimeDTO) Anime {
	a := Anime{
		ID:            d.MalID,
		URL:           d.URL,
		Title:         d.Title,
		TitleJapanese: str(d.TitleJapanese),
		ImageURL:      imageURL(d.Images),
		Type:          str(d.Type),
		Source:        str(d.Source),
		Episodes:      num(d.Episodes),
		Status:        str(d.Status),
		Airing:        d.Airing,
		Aired:         d.Aired.String,
		Duration:      str(d.Duration),
		Rating:        str(d.Rating),
		Score:         score(d.Score),
		ScoredBy:      num(d.ScoredBy),
		Rank:          num(d.Rank),
		Popularity:    num(d.Popularity),
		Members:       num(d.Members),
		Favorites:     num(d.Favorites),
		Synopsis:      str(d.Synopsis),
		Background:    str(d.Background),
		Season:        str(d.Season),
		Year:          num(d.Year),
		Genres:        names(d.Genres),
		Studios:       names(d.Studios),
	}
	if english := str(d.TitleEnglish); english != "" {
		a.Title = english
	}
	if d.Trailer != nil {
		a.TrailerURL = d.Trailer.URL
	}
	return a
}

// FromDTOs maps a list of anime objects.
func FromDTOs(ds []jikan.AnimeDTO) []Anime {
	return mapAll(ds, FromDTO)
}

// EpisodeFromDTO maps an episode.
func EpisodeFromDTO(d jikan.EpisodeDTO) Episode {
	return Episode{
		Number:        d.MalID,
		Title:         d.Title,
		TitleJapanese: str(d.TitleJapanese),
		Aired:         str(d.Aired),
		Score:         score(d.Score),
		Filler:        d.Filler,
		Recap:         d.Recap,
	}
}

// CharacterFromDTO maps a character entry, keeping the Japanese voice actor.
func CharacterFromDTO(d jikan.CharacterDTO) Character {
	c := Character{
		ID:        d.Character.MalID,
		Name:      d.Character.Name,
		ImageURL:  d.Character.Images.JPG.ImageURL,
		Role:      d.Role,
		Favorites: d.Favorites,
	}
	for _, va := range d.VoiceActors {
		if va.Language == "Japanese" {
			c.VoiceActor = va.Person.Name
			c.VoiceActorImageURL = va.Person.Images.JPG.ImageURL
			break
		}
	}
	return c
}

// PictureFromDTO maps a picture.
func PictureFromDTO(d jikan.Images) Picture {
	return Picture{ImageURL: d.JPG.ImageURL, LargeImageURL: d.JPG.LargeImageURL}
}

// VideosFromDTO maps the videos payload.
func VideosFromDTO(d jikan.VideosDTO) Videos {
	v := Videos{
		Promos:   make([]Video, 0, len(d.Promo)),
		Episodes: make([]Video, 0, len(d.Episodes)),
	}
	for _, p := range d.Promo {
		promo := Video{Title: p.Title, URL: p.Trailer.URL}
		if p.Trailer.Images != nil {
			promo.ThumbnailURL = p.Trailer.Images.ImageURL
		}
		v.Promos = append(v.Promos, promo)
	}
	for _, e := range d.Episodes {
		v.Episodes = append(v.Episodes, Video{
			Title:        e.Title,
			URL:          e.URL,
			ThumbnailURL: e.Images.JPG.ImageURL,
			Episode:      e.Episode,
		})
	}
	return v
}

// ReviewFromDTO maps a review.
func ReviewFromDTO(d jikan.ReviewDTO) Review {
	return Review{
		ID:       d.MalID,
		Username: d.User.Username,
		Date:     d.Date,
		Score:    d.Score,
		Text:     d.Review,
		Tags:     d.Tags,
		Spoiler:  d.IsSpoiler,
	}
}

// RecommendationFromDTO maps a recommendation.
func RecommendationFromDTO(d jikan.RecommendationDTO) Recommendation {
	return Recommendation{
		ID:       d.Entry.MalID,
		Title:    d.Entry.Title,
		ImageURL: imageURL(d.Entry.Images),
		Votes:    d.Votes,
	}
}

// NewsFromDTO maps a news article.
func NewsFromDTO(d jikan.NewsDTO) News {
	return News{
		ID:       d.MalID,
		Title:    d.Title,
		URL:      d.URL,
		Date:     d.Date,
		Author:   d.AuthorUsername,
		ImageURL: d.Images.JPG.ImageURL,
		Excerpt:  str(d.Excerpt),
		Comments: d.Comments,
	}
}

// imageURL prefers the large JPG.
func imageURL(i jikan.Images) string {
	for _, u := range []string{i.JPG.LargeImageURL, i.JPG.ImageURL, i.WebP.LargeImageURL, i.WebP.ImageURL} {
		if u != "" {
			return u
		}
	}
	return ""
}

func names(rs []jikan.Resource) []string {
	if len(rs) == 0 {
		return nil
	}
	out := make([]string, 0, len(rs))
	for _, r := range rs {
		out = append(out, r.Name)
	}
	return out
}

func mapAll[D, M any](ds []D, f func(D) M) []M {
	out := make([]M, 0, len(ds))
	for _, d := range ds {
		out = append(out, f(d))
	}
	return out
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

func num(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

func score(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
