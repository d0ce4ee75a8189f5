package catalog

import (
	"fmt"
	"strings"
)

// Genre is one value of the catalog's closed genre enumeration
type Genre string

const (
	GenreAction         Genre = "ACTION"
	GenreAdventure      Genre = "ADVENTURE"
	GenreAnimation      Genre = "ANIMATION"
	GenreBiography      Genre = "BIOGRAPHY"
	GenreComedy         Genre = "COMEDY"
	GenreCrime          Genre = "CRIME"
	GenreDocumentary    Genre = "DOCUMENTARY"
	GenreDrama          Genre = "DRAMA"
	GenreFamily         Genre = "FAMILY"
	GenreFantasy        Genre = "FANTASY"
	GenreHistory        Genre = "HISTORY"
	GenreHorror         Genre = "HORROR"
	GenreMusic          Genre = "MUSIC"
	GenreMusical        Genre = "MUSICAL"
	GenreMystery        Genre = "MYSTERY"
	GenreRomance        Genre = "ROMANCE"
	GenreScienceFiction Genre = "SCIENCE_FICTION"
	GenreSport          Genre = "SPORT"
	GenreThriller       Genre = "THRILLER"
	GenreWar            Genre = "WAR"
	GenreWestern        Genre = "WESTERN"
)

var allGenres = []Genre{
	GenreAction, GenreAdventure, GenreAnimation, GenreBiography, GenreComedy,
	GenreCrime, GenreDocumentary, GenreDrama, GenreFamily, GenreFantasy,
	GenreHistory, GenreHorror, GenreMusic, GenreMusical, GenreMystery,
	GenreRomance, GenreScienceFiction, GenreSport, GenreThriller, GenreWar,
	GenreWestern,
}

var genreByName = func() map[string]Genre {
	m := make(map[string]Genre, len(allGenres))
	for _, g := range allGenres {
		m[string(g)] = g
	}
	return m
}()

// Genres returns every known genre in declaration order
func Genres() []Genre {
	out := make([]Genre, len(allGenres))
	copy(out, allGenres)
	return out
}

// ParseGenre converts a genre name to a Genre.
// Matching ignores case and surrounding whitespace, and treats spaces and hyphens
// as underscores, so "science fiction" yields GenreScienceFiction.
func ParseGenre(s string) (Genre, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	name = strings.NewReplacer(" ", "_", "-", "_").Replace(name)
	if g, ok := genreByName[name]; ok {
		return g, nil
	}
	return "", &GenreError{Value: s}
}

// String returns the enumeration name
func (g Genre) String() string {
	return string(g)
}

// DisplayName returns a human friendly name, e.g. "Science Fiction"
func (g Genre) DisplayName() string {
	words := strings.Split(strings.ToLower(string(g)), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

// IsValid reports whether g is a member of the enumeration
func (g Genre) IsValid() bool {
	_, ok := genreByName[string(g)]
	return ok
}

// MarshalText implements encoding.TextMarshaler
func (g Genre) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, &GenreError{Value: string(g)}
	}
	return []byte(g), nil
}

// UnmarshalText implements encoding.TextUnmarshaler using ParseGenre
func (g *Genre) UnmarshalText(text []byte) error {
	parsed, err := ParseGenre(string(text))
	if err != nil {
		return err
	}
	*g = parsed
	return nil
}

// CatalogItem is one movie as returned by the catalog service.
// Values are never modified after construction; slices are shared read-only.
type CatalogItem struct {
	ID             string
	Title          string
	Genres         []Genre
	ReleaseYear    int
	Description    string
	ImageURL       string
	RuntimeMinutes int
	Directors      []string
	Writers        []string
	Cast           []string
	Rating         float64
}

// HasGenre reports whether the item is tagged with g
func (c CatalogItem) HasGenre(g Genre) bool {
	for _, have := range c.Genres {
		if have == g {
			return true
		}
	}
	return false
}

// FormattedRuntime returns the runtime in a human-readable format
func (c CatalogItem) FormattedRuntime() string {
	if c.RuntimeMinutes <= 0 {
		return ""
	}
	h := c.RuntimeMinutes / 60
	m := c.RuntimeMinutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// GenreNames returns the display names of the item's genres in order
func (c CatalogItem) GenreNames() []string {
	names := make([]string, len(c.Genres))
	for i, g := range c.Genres {
		names[i] = g.DisplayName()
	}
	return names
}

// movieDTO mirrors one element of the catalog service's JSON array
type movieDTO struct {
	ID              string   `json:"id"`
	Title           string   `json:"title"`
	Genres          []Genre  `json:"genres"`
	ReleaseYear     int      `json:"releaseYear"`
	Description     string   `json:"description"`
	ImgURL          string   `json:"imgUrl"`
	LengthInMinutes int      `json:"lengthInMinutes"`
	Directors       []string `json:"directors"`
	Writers         []string `json:"writers"`
	MainCast        []string `json:"mainCast"`
	Rating          float64  `json:"rating"`
}

// toItem converts the DTO, rejecting genres that bypassed UnmarshalText such as null
func (d movieDTO) toItem() (CatalogItem, error) {
	for _, g := range d.Genres {
		if !g.IsValid() {
			return CatalogItem{}, &GenreError{Value: string(g)}
		}
	}

	return CatalogItem{
		ID:             d.ID,
		Title:          d.Title,
		Genres:         nonNil(d.Genres),
		ReleaseYear:    d.ReleaseYear,
		Description:    d.Description,
		ImageURL:       d.ImgURL,
		RuntimeMinutes: max(d.LengthInMinutes, 0),
		Directors:      nonNil(d.Directors),
		Writers:        nonNil(d.Writers),
		Cast:           nonNil(d.MainCast),
		Rating:         d.Rating,
	}, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
