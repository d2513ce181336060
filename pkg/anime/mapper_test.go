package anime

import (
	"testing"

	"github.com/Sternrassler/jikan-client/pkg/jikan"
	"github.com/stretchr/testify/assert"
)

func ptr[T any](v T) *T { return &v }

func TestFromDTO(t *testing.T) {
	d := jikan.AnimeDTO{
		MalID:        1,
		Title:        "Cowboy Bebop",
		TitleEnglish: ptr("Cowboy Bebop (EN)"),
		Images: jikan.Images{JPG: jikan.ImageSet{
			ImageURL:      "small.jpg",
			LargeImageURL: "large.jpg",
		}},
		Type:     ptr("TV"),
		Episodes: ptr(26),
		Score:    ptr(8.75),
		Aired:    jikan.Aired{String: "Apr 3, 1998 to Apr 24, 1999"},
		Genres:   []jikan.Resource{{Name: "Action"}, {Name: "Sci-Fi"}},
		Studios:  []jikan.Resource{{Name: "Sunrise"}},
		Trailer:  &jikan.Trailer{URL: "https://youtube.com/watch?v=x"},
	}

	a := FromDTO(d)

	assert.Equal(t, 1, a.ID)
	assert.Equal(t, "Cowboy Bebop (EN)", a.Title)
	assert.Equal(t, "large.jpg", a.ImageURL)
	assert.Equal(t, "TV", a.Type)
	assert.Equal(t, 26, a.Episodes)
	assert.InDelta(t, 8.75, a.Score, 0.001)
	assert.Equal(t, "Apr 3, 1998 to Apr 24, 1999", a.Aired)
	assert.Equal(t, []string{"Action", "Sci-Fi"}, a.Genres)
	assert.Equal(t, []string{"Sunrise"}, a.Studios)
	assert.Equal(t, "https://youtube.com/watch?v=x", a.TrailerURL)
}

func TestFromDTO_Fallbacks(t *testing.T) {
	tests := []struct {
		name      string
		dto       jikan.AnimeDTO
		wantTitle string
		wantImage string
	}{
		{
			name:      "no english title",
			dto:       jikan.AnimeDTO{Title: "Shingeki no Kyojin"},
			wantTitle: "Shingeki no Kyojin",
		},
		{
			name:      "empty english title",
			dto:       jikan.AnimeDTO{Title: "Mushishi", TitleEnglish: ptr("")},
			wantTitle: "Mushishi",
		},
		{
			name: "small jpg only",
			dto: jikan.AnimeDTO{Title: "A", Images: jikan.Images{
				JPG: jikan.ImageSet{ImageURL: "a.jpg"},
			}},
			wantTitle: "A",
			wantImage: "a.jpg",
		},
		{
			name: "webp only",
			dto: jikan.AnimeDTO{Title: "B", Images: jikan.Images{
				WebP: jikan.ImageSet{ImageURL: "b.webp", LargeImageURL: "bl.webp"},
			}},
			wantTitle: "B",
			wantImage: "bl.webp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := FromDTO(tt.dto)
			assert.Equal(t, tt.wantTitle, a.Title)
			assert.Equal(t, tt.wantImage, a.ImageURL)
			assert.Zero(t, a.Episodes)
			assert.Nil(t, a.Genres)
		})
	}
}

func TestCharacterFromDTO_PicksJapaneseVoiceActor(t *testing.T) {
	d := jikan.CharacterDTO{
		Character: jikan.Person{MalID: 1, Name: "Spiegel, Spike"},
		Role:      "Main",
		VoiceActors: []jikan.VoiceActorDTO{
			{Person: jikan.Person{Name: "Blum, Steven"}, Language: "English"},
			{Person: jikan.Person{Name: "Yamadera, Kouichi"}, Language: "Japanese"},
		},
	}

	c := CharacterFromDTO(d)
	assert.Equal(t, "Spiegel, Spike", c.Name)
	assert.Equal(t, "Main", c.Role)
	assert.Equal(t, "Yamadera, Kouichi", c.VoiceActor)

	d.VoiceActors = d.VoiceActors[:1]
	assert.Empty(t, CharacterFromDTO(d).VoiceActor)
}

func TestVideosFromDTO(t *testing.T) {
	v := VideosFromDTO(jikan.VideosDTO{
		Promo: []jikan.PromoDTO{{
			Title:   "PV 1",
			Trailer: jikan.Trailer{URL: "https://y/1", Images: &jikan.TrailerImages{ImageURL: "thumb.jpg"}},
		}},
		Episodes: []jikan.EpisodeVideoDTO{{Title: "Asteroid Blues", Episode: "Episode 1", URL: "https://mal/ep1"}},
	})

	assert.Equal(t, []Video{{Title: "PV 1", URL: "https://y/1", ThumbnailURL: "thumb.jpg"}}, v.Promos)
	assert.Equal(t, "Episode 1", v.Episodes[0].Episode)
	assert.NotNil(t, VideosFromDTO(jikan.VideosDTO{}).Promos)
}

func TestReviewExcerpt(t *testing.T) {
	r := Review{Text: "A  masterpiece of\nstyle and jazz."}

	assert.Equal(t, "A masterpiece of style and jazz.", r.Excerpt(0))
	assert.Equal(t, "A masterpiece of style and jazz.", r.Excerpt(100))
	assert.Equal(t, "A masterpiece…", r.Excerpt(16))
	assert.Equal(t, "Amaz…", Review{Text: "Amazing"}.Excerpt(4))
}

func TestNewsAndRecommendationFromDTO(t *testing.T) {
	n := NewsFromDTO(jikan.NewsDTO{MalID: 9, Title: "News", AuthorUsername: "mal", Excerpt: ptr("short"), Comments: 3})
	assert.Equal(t, News{ID: 9, Title: "News", Author: "mal", Excerpt: "short", Comments: 3}, n)

	rec := RecommendationFromDTO(jikan.RecommendationDTO{
		Entry: jikan.RecommendationEntry{MalID: 2, Title: "Trigun", Images: jikan.Images{JPG: jikan.ImageSet{ImageURL: "t.jpg"}}},
		Votes: 40,
	})
	assert.Equal(t, Recommendation{ID: 2, Title: "Trigun", ImageURL: "t.jpg", Votes: 40}, rec)
}
