// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// Rating bounds.
const (
	MinRating = 0.0
	MaxRating = 10.0
)

// Film is one catalog entry. Once loaded it is only ever read.
type Film struct {
	Title       string  `json:"title" yaml:"title"`
	Year        int     `json:"year" yaml:"year"`
	Category    string  `json:"category" yaml:"category"`
	Director    string  `json:"director" yaml:"director"`
	Description string  `json:"description" yaml:"description"`
	Rating      float64 `json:"rating" yaml:"rating"`
	PosterURL   string  `json:"posterUrl,omitempty" yaml:"posterUrl,omitempty"`
	DetailLink  string  `json:"detailLink,omitempty" yaml:"detailLink,omitempty"`
}

// wireFilm is the tolerant decoding shape. Every field is optional and the
// legacy Portuguese keys are accepted as aliases.
type wireFilm struct {
	Title       *string    `json:"title"`
	Year        flexNumber `json:"year"`
	Category    *string    `json:"category"`
	Director    *string    `json:"director"`
	Description *string    `json:"description"`
	Rating      flexNumber `json:"rating"`
	PosterURL   *string    `json:"posterUrl"`
	DetailLink  *string    `json:"detailLink"`

	Titulo    *string    `json:"titulo"`
	Ano       flexNumber `json:"ano"`
	Categoria *string    `json:"categoria"`
	Diretor   *string    `json:"diretor"`
	Descricao *string    `json:"descricao"`
	Avaliacao flexNumber `json:"avaliacao"`
	Poster    *string    `json:"poster"`
	Link      *string    `json:"link"`
}

// UnmarshalJSON decodes a film, substituting defaults for missing or
// unusable fields instead of failing.
func (f *Film) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*f = Film{}
		return nil
	}
	if len(data) == 0 || data[0] != '{' {
		return fmt.Errorf("%w: film entry is not an object", ErrMalformedPayload)
	}
	var w wireFilm
	if err := json.Unmarshal(data, &w); err != nil {
		// A mistyped field degrades to its default; the rest still decodes.
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return err
		}
	}
	*f = Film{
		Title:       firstString(w.Title, w.Titulo),
		Year:        int(firstNumber(w.Year, w.Ano)),
		Category:    strings.TrimSpace(firstString(w.Category, w.Categoria)),
		Director:    firstString(w.Director, w.Diretor),
		Description: firstString(w.Description, w.Descricao),
		Rating:      ClampRating(firstNumber(w.Rating, w.Avaliacao)),
		PosterURL:   strings.TrimSpace(firstString(w.PosterURL, w.Poster)),
		DetailLink:  strings.TrimSpace(firstString(w.DetailLink, w.Link)),
	}
	return nil
}

// ClampRating forces r into [MinRating, MaxRating]. NaN becomes 0.
func ClampRating(r float64) float64 {
	switch {
	case math.IsNaN(r), r < MinRating:
		return MinRating
	case r > MaxRating:
		return MaxRating
	}
	return r
}

// DecodeFilms reads a JSON array of film objects. Anything that is not an
// array of objects is reported as ErrMalformedPayload.
func DecodeFilms(r io.Reader) ([]Film, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] != '[' {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedPayload)
	}
	var films []Film
	if err := json.Unmarshal(raw, &films); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedPayload, err)
	}
	if films == nil {
		films = []Film{}
	}
	return films, nil
}

func firstString(vals ...*string) string {
	for _, v := range vals {
		if v != nil {
			return *v
		}
	}
	return ""
}

func firstNumber(vals ...flexNumber) float64 {
	for _, v := range vals {
		if v.set {
			return v.value
		}
	}
	return 0
}

// flexNumber accepts a JSON number or a numeric string. Anything else
// decodes to an unset zero value.
type flexNumber struct {
	value float64
	set   bool
}

func (n *flexNumber) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = flexNumber{}
		return nil
	}
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*n = flexNumber{value: num, set: true}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if v, perr := strconv.ParseFloat(strings.TrimSpace(s), 64); perr == nil {
			*n = flexNumber{value: v, set: true}
			return nil
		}
	}
	*n = flexNumber{}
	return nil
}
