// Package render turns a derived view into display records and writes them
// as HTML, a terminal table, JSON or YAML.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/okian/filmcat/internal/domain/model"
)

// Display constants.
const (
	StarCount         = 5
	StarFilled        = "★"
	StarEmpty         = "☆"
	PosterPlaceholder = "Pôster indisponível"
	DetailHint        = "Ver Detalhes (IMDb)"
	DefaultDetailLink = "#"
)

// Card is the display record for one film.
type Card struct {
	Title       string  `json:"title" yaml:"title"`
	Year        int     `json:"year" yaml:"year"`
	Heading     string  `json:"heading" yaml:"heading"`
	Category    string  `json:"category" yaml:"category"`
	Director    string  `json:"director" yaml:"director"`
	Description string  `json:"description" yaml:"description"`
	Rating      float64 `json:"rating" yaml:"rating"`
	FilledStars int     `json:"filledStars" yaml:"filledStars"`
	Stars       string  `json:"stars" yaml:"stars"`
	RatingLabel string  `json:"ratingLabel" yaml:"ratingLabel"`
	// PosterURL is empty when the placeholder should be shown.
	PosterURL  string `json:"posterUrl,omitempty" yaml:"posterUrl,omitempty"`
	DetailLink string `json:"detailLink" yaml:"detailLink"`
}

// NewCard builds the display record for f.
func NewCard(f model.Film) Card {
	link := strings.TrimSpace(f.DetailLink)
	if link == "" {
		link = DefaultDetailLink
	}
	return Card{
		Title:       f.Title,
		Year:        f.Year,
		Heading:     fmt.Sprintf("%s (%d)", f.Title, f.Year),
		Category:    f.Category,
		Director:    f.Director,
		Description: f.Description,
		Rating:      f.Rating,
		FilledStars: FilledStars(f.Rating),
		Stars:       Stars(f.Rating),
		RatingLabel: RatingLabel(f.Rating),
		PosterURL:   PosterURL(f.PosterURL),
		DetailLink:  link,
	}
}

// HasPoster reports whether the card shows an image rather than the placeholder.
func (c Card) HasPoster() bool { return c.PosterURL != "" }

// FilledStars counts the integers i in [1, StarCount] with
// i <= rating/10*StarCount. No rounding is applied.
func FilledStars(rating float64) int {
	scaled := rating / model.MaxRating * StarCount
	n := 0
	for i := 1; i <= StarCount; i++ {
		if float64(i) <= scaled {
			n++
		}
	}
	return n
}

// Stars renders the filled/empty star indicator.
func Stars(rating float64) string {
	filled := FilledStars(rating)
	return strings.Repeat(StarFilled, filled) + strings.Repeat(StarEmpty, StarCount-filled)
}

// RatingLabel formats rating as "(r.r/10)".
func RatingLabel(rating float64) string {
	return "(" + strconv.FormatFloat(rating, 'f', 1, 64) + "/10)"
}

// PosterURL returns raw when it is an http(s) URL, otherwise "".
func PosterURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if !strings.HasPrefix(raw, "http") {
		return ""
	}
	return raw
}
