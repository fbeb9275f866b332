package enrich

import (
	"strconv"
	"strings"

	"github.com/okian/filmcat/internal/domain/model"
)

// Placeholder markers in a catalog file.
const (
	PlaceholderCategory    = "Placeholder"
	PlaceholderTitlePrefix = "Filme Placeholder"
	FallbackCategory       = "Filme"
)

const (
	imdbTitleURL  = "https://www.imdb.com/title/"
	posterBaseURL = "https://image.tmdb.org/t/p/w500"
)

// IsPlaceholder reports whether f is a stand-in entry to be replaced: its
// category is Placeholder, its title starts with "Filme Placeholder", or it
// has no detail link.
func IsPlaceholder(f model.Film) bool {
	return f.Category == PlaceholderCategory ||
		strings.HasPrefix(f.Title, PlaceholderTitlePrefix) ||
		f.DetailLink == ""
}

// PlaceholderIndexes returns the positions of placeholder entries in films.
func PlaceholderIndexes(films []model.Film) []int {
	var idx []int
	for i, f := range films {
		if IsPlaceholder(f) {
			idx = append(idx, i)
		}
	}
	return idx
}

// BuildFilm maps TMDb data to a catalog film. The first credited director
// and the first genre are used; without genres the category is "Filme".
func BuildFilm(d Details, cr Credits, voteAverage float64) model.Film {
	title := d.Title
	if title == "" {
		title = d.OriginalTitle
	}

	var year int
	if y, _, _ := strings.Cut(d.ReleaseDate, "-"); y != "" {
		year, _ = strconv.Atoi(y)
	}

	var director string
	for _, m := range cr.Crew {
		if m.Job == "Director" {
			director = m.Name
			break
		}
	}

	category := FallbackCategory
	if len(d.Genres) > 0 {
		category = d.Genres[0].Name
	}

	f := model.Film{
		Title:       title,
		Year:        year,
		Category:    category,
		Director:    director,
		Description: d.Overview,
		Rating:      model.ClampRating(voteAverage),
	}
	if d.IMDbID != "" {
		f.DetailLink = imdbTitleURL + d.IMDbID + "/"
	}
	if d.PosterPath != "" {
		f.PosterURL = posterBaseURL + d.PosterPath
	}
	return f
}
