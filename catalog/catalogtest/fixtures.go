// Package catalogtest provides a fixture catalog shared by tests.
package catalogtest

import (
	"encoding/json"

	"github.com/s0up4200/marquee/catalog"
)

// Movies returns a fresh copy of the fixture catalog in service order
func Movies() []catalog.CatalogItem {
	return []catalog.CatalogItem{
		{
			ID:             "tt0068646",
			Title:          "The Godfather",
			Genres:         []catalog.Genre{catalog.GenreCrime, catalog.GenreDrama},
			ReleaseYear:    1972,
			Description:    "The aging patriarch of an organized crime dynasty transfers control to his reluctant son.",
			ImageURL:       "https://img.example.com/godfather.jpg",
			RuntimeMinutes: 175,
			Directors:      []string{"Francis Ford Coppola"},
			Writers:        []string{"Mario Puzo", "Francis Ford Coppola"},
			Cast:           []string{"Marlon Brando", "Al Pacino", "James Caan"},
			Rating:         9.2,
		},
		{
			ID:             "tt0448694",
			Title:          "Puss in Boots",
			Genres:         []catalog.Genre{catalog.GenreAnimation, catalog.GenreAdventure, catalog.GenreComedy},
			ReleaseYear:    2011,
			Description:    "An outlaw cat teams up with Humpty Dumpty to steal the goose that lays golden eggs.",
			ImageURL:       "https://img.example.com/puss.jpg",
			RuntimeMinutes: 90,
			Directors:      []string{"Chris Miller"},
			Writers:        []string{"Tom Wheeler"},
			Cast:           []string{"Antonio Banderas", "Salma Hayek"},
			Rating:         6.6,
		},
		{
			ID:             "tt1375666",
			Title:          "Inception",
			Genres:         []catalog.Genre{catalog.GenreAction, catalog.GenreScienceFiction},
			ReleaseYear:    2010,
			Description:    "A thief who steals corporate secrets through dream-sharing technology.",
			RuntimeMinutes: 148,
			Directors:      []string{"Christopher Nolan"},
			Writers:        []string{"Christopher Nolan"},
			Cast:           []string{"Leonardo DiCaprio", "Joseph Gordon-Levitt"},
			Rating:         8.8,
		},
		{
			ID:             "tt0245429",
			Title:          "Spirited Away",
			Genres:         []catalog.Genre{catalog.GenreAnimation, catalog.GenreFamily, catalog.GenreFantasy},
			ReleaseYear:    2001,
			RuntimeMinutes: 125,
			Directors:      []string{"Hayao Miyazaki"},
			Writers:        []string{"Hayao Miyazaki"},
			Cast:           []string{"Rumi Hiiragi", "Miyu Irino"},
			Rating:         8.6,
		},
		{
			ID:             "tt0111161",
			Title:          "The Shawshank Redemption",
			Genres:         []catalog.Genre{catalog.GenreDrama},
			ReleaseYear:    1994,
			RuntimeMinutes: 142,
			Directors:      []string{"Frank Darabont"},
			Writers:        []string{"Stephen King", "Frank Darabont"},
			Cast:           []string{"Tim Robbins", "Morgan Freeman"},
			Rating:         9.3,
		},
		{
			ID:             "tt0137523",
			Title:          "Fight Club",
			Genres:         []catalog.Genre{catalog.GenreDrama},
			ReleaseYear:    1999,
			RuntimeMinutes: 139,
			Directors:      []string{"David Fincher"},
			Writers:        []string{"Jim Uhls"},
			Cast:           []string{"Brad Pitt", "Edward Norton"},
			Rating:         8.8,
		},
		{
			ID:             "tt0000001",
			Title:          "Untitled Short",
			Genres:         []catalog.Genre{},
			ReleaseYear:    1895,
			RuntimeMinutes: 1,
			Directors:      []string{},
			Writers:        []string{},
			Cast:           []string{},
			Rating:         5.0,
		},
	}
}

// Titles returns the titles of items in order
func Titles(items []catalog.CatalogItem) []string {
	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
	}
	return titles
}

// JSON encodes items in the catalog service's wire format
func JSON(items []catalog.CatalogItem) []byte {
	type wire struct {
		ID              string          `json:"id"`
		Title           string          `json:"title"`
		Genres          []catalog.Genre `json:"genres"`
		ReleaseYear     int             `json:"releaseYear"`
		Description     string          `json:"description"`
		ImgURL          string          `json:"imgUrl"`
		LengthInMinutes int             `json:"lengthInMinutes"`
		Directors       []string        `json:"directors"`
		Writers         []string        `json:"writers"`
		MainCast        []string        `json:"mainCast"`
		Rating          float64         `json:"rating"`
	}

	out := make([]wire, len(items))
	for i, item := range items {
		out[i] = wire{
			ID:              item.ID,
			Title:           item.Title,
			Genres:          item.Genres,
			ReleaseYear:     item.ReleaseYear,
			Description:     item.Description,
			ImgURL:          item.ImageURL,
			LengthInMinutes: item.RuntimeMinutes,
			Directors:       item.Directors,
			Writers:         item.Writers,
			MainCast:        item.Cast,
			Rating:          item.Rating,
		}
	}

	data, err := json.Marshal(out)
	if err != nil {
		panic(err)
	}
	return data
}
