package render_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/filmcat/internal/adapters/render"
	"github.com/okian/filmcat/internal/domain/model"
	"github.com/okian/filmcat/internal/domain/types"
)

func readyView(films ...model.Film) types.View {
	return types.View{
		Status:     types.StatusReady,
		Selection:  types.DefaultSelection(),
		Categories: []string{types.AllCategories, "Comedy", "Drama"},
		Films:      films,
		Total:      2,
		Source:     "embedded",
	}
}

var (
	alpha = model.Film{
		Title: "Alpha", Year: 2001, Rating: 9.0, Category: "Drama",
		Director: "Ann", Description: "First <b>film</b>",
		PosterURL: "https://img.example.com/alpha.jpg", DetailLink: "https://www.imdb.com/title/tt0000001/",
	}
	beta = model.Film{Title: "Beta", Year: 1999, Rating: 5.0, Category: "Comedy"}
)

func TestStars(t *testing.T) {
	convey.Convey("Given the star formula", t, func() {
		convey.Convey("Filled stars count integers up to rating/10*5 without rounding", func() {
			cases := map[float64]int{
				0:    0,
				1.9:  0,
				2.0:  1,
				5.0:  2,
				6.0:  3,
				7.0:  3,
				7.9:  3,
				8.0:  4,
				9.9:  4,
				10.0: 5,
			}
			for rating, want := range cases {
				convey.So(render.FilledStars(rating), convey.ShouldEqual, want)
			}
		})

		convey.Convey("The indicator always has five units", func() {
			convey.So(render.Stars(7.0), convey.ShouldEqual, "★★★☆☆")
			convey.So(render.Stars(0), convey.ShouldEqual, "☆☆☆☆☆")
			convey.So(render.Stars(10), convey.ShouldEqual, "★★★★★")
		})

		convey.Convey("The label has one decimal", func() {
			convey.So(render.RatingLabel(0), convey.ShouldEqual, "(0.0/10)")
			convey.So(render.RatingLabel(8.25), convey.ShouldEqual, "(8.2/10)")
			convey.So(render.RatingLabel(10), convey.ShouldEqual, "(10.0/10)")
		})
	})
}

func TestNewCard(t *testing.T) {
	convey.Convey("Given films to display", t, func() {
		convey.Convey("A complete film keeps its poster and link", func() {
			c := render.NewCard(alpha)
			convey.So(c.Heading, convey.ShouldEqual, "Alpha (2001)")
			convey.So(c.FilledStars, convey.ShouldEqual, 4)
			convey.So(c.RatingLabel, convey.ShouldEqual, "(9.0/10)")
			convey.So(c.HasPoster(), convey.ShouldBeTrue)
			convey.So(c.DetailLink, convey.ShouldEqual, alpha.DetailLink)
		})

		convey.Convey("A film missing its rating renders with zero stars", func() {
			var f model.Film
			err := json.Unmarshal([]byte(`{"title":"Gamma","year":2010}`), &f)
			convey.So(err, convey.ShouldBeNil)

			c := render.NewCard(f)
			convey.So(c.FilledStars, convey.ShouldEqual, 0)
			convey.So(c.Stars, convey.ShouldEqual, "☆☆☆☆☆")
			convey.So(c.RatingLabel, convey.ShouldEqual, "(0.0/10)")
		})

		convey.Convey("Posters without an http scheme use the placeholder", func() {
			for _, raw := range []string{"", "   ", "poster.jpg", "ftp://x/y.jpg", "data:image/png;base64,AA"} {
				c := render.NewCard(model.Film{Title: "X", PosterURL: raw})
				convey.So(c.HasPoster(), convey.ShouldBeFalse)
			}
		})

		convey.Convey("A missing detail link falls back to a placeholder anchor", func() {
			convey.So(render.NewCard(beta).DetailLink, convey.ShouldEqual, render.DefaultDetailLink)
		})
	})
}

func TestNewPage(t *testing.T) {
	convey.Convey("Given views in each state", t, func() {
		convey.Convey("A ready view with films has no message", func() {
			p := render.NewPage(readyView(alpha, beta))
			convey.So(p.Message, convey.ShouldBeEmpty)
			convey.So(p.Cards, convey.ShouldHaveLength, 2)
			convey.So(p.Shown, convey.ShouldEqual, 2)
			convey.So(p.SortLabel, convey.ShouldEqual, "Padrão")
			convey.So(p.SortOptions, convey.ShouldHaveLength, len(types.SortKeys))
			convey.So(p.SortOptions[0].Selected, convey.ShouldBeTrue)
		})

		convey.Convey("An empty result is a no-results page", func() {
			p := render.NewPage(readyView())
			convey.So(p.Message, convey.ShouldEqual, render.MessageNoResults)
			convey.So(p.Cards, convey.ShouldBeEmpty)
		})

		convey.Convey("An unavailable catalog is distinct from no results", func() {
			v := types.View{Status: types.StatusUnavailable, Selection: types.DefaultSelection(), Error: "boom"}
			p := render.NewPage(v)
			convey.So(p.Message, convey.ShouldEqual, render.MessageUnavailable)
			convey.So(p.Message, convey.ShouldNotEqual, render.MessageNoResults)
			convey.So(p.Error, convey.ShouldEqual, "boom")
			convey.So(p.Categories, convey.ShouldResemble, []string{types.AllCategories})
		})

		convey.Convey("A loading catalog shows the loading message", func() {
			p := render.NewPage(types.View{Status: types.StatusLoading, Selection: types.DefaultSelection()})
			convey.So(p.Message, convey.ShouldEqual, render.MessageLoading)
		})
	})
}

func TestRenderers(t *testing.T) {
	convey.Convey("Given each renderer", t, func() {
		var buf bytes.Buffer

		convey.Convey("HTML renders one card per film in order", func() {
			err := render.NewHTMLRenderer().Render(&buf, readyView(alpha, beta))
			convey.So(err, convey.ShouldBeNil)

			out := buf.String()
			convey.So(strings.Count(out, `<article class="card">`), convey.ShouldEqual, 2)
			convey.So(strings.Index(out, "Alpha (2001)"), convey.ShouldBeLessThan, strings.Index(out, "Beta (1999)"))
			convey.So(out, convey.ShouldContainSubstring, `src="https://img.example.com/alpha.jpg"`)
			convey.So(out, convey.ShouldContainSubstring, render.PosterPlaceholder)
			convey.So(out, convey.ShouldContainSubstring, render.DetailHint)
			convey.So(out, convey.ShouldContainSubstring, "(9.0/10)")
			convey.So(out, convey.ShouldContainSubstring, "First &lt;b&gt;film&lt;/b&gt;")
		})

		convey.Convey("HTML renders the no-results and unavailable messages", func() {
			convey.So(render.NewHTMLRenderer().Render(&buf, readyView()), convey.ShouldBeNil)
			convey.So(buf.String(), convey.ShouldContainSubstring, render.MessageNoResults)
			convey.So(buf.String(), convey.ShouldNotContainSubstring, `<article`)

			buf.Reset()
			v := types.View{Status: types.StatusUnavailable, Selection: types.DefaultSelection()}
			convey.So(render.NewHTMLRenderer().Render(&buf, v), convey.ShouldBeNil)
			convey.So(buf.String(), convey.ShouldContainSubstring, "error-message")
			convey.So(buf.String(), convey.ShouldContainSubstring, render.MessageUnavailable)
		})

		convey.Convey("Table prints a summary and a row per film", func() {
			err := (&render.TableRenderer{}).Render(&buf, readyView(alpha, beta))
			convey.So(err, convey.ShouldBeNil)

			out := buf.String()
			convey.So(out, convey.ShouldContainSubstring, "2 de 2 filmes")
			convey.So(out, convey.ShouldContainSubstring, "Alpha")
			convey.So(out, convey.ShouldContainSubstring, "Beta")
			convey.So(out, convey.ShouldContainSubstring, render.PosterPlaceholder)
		})

		convey.Convey("Table prints the message instead of an empty table", func() {
			err := (&render.TableRenderer{}).Render(&buf, readyView())
			convey.So(err, convey.ShouldBeNil)
			convey.So(buf.String(), convey.ShouldContainSubstring, render.MessageNoResults)
		})

		convey.Convey("JSON encodes the page", func() {
			err := (&render.JSONRenderer{}).Render(&buf, readyView(alpha))
			convey.So(err, convey.ShouldBeNil)

			var p render.Page
			convey.So(json.Unmarshal(buf.Bytes(), &p), convey.ShouldBeNil)
			convey.So(p.Status, convey.ShouldEqual, types.StatusReady)
			convey.So(p.Cards, convey.ShouldHaveLength, 1)
			convey.So(p.Cards[0].Heading, convey.ShouldEqual, "Alpha (2001)")
		})

		convey.Convey("YAML encodes the page", func() {
			err := (&render.YAMLRenderer{}).Render(&buf, readyView(beta))
			convey.So(err, convey.ShouldBeNil)

			var p render.Page
			convey.So(yaml.Unmarshal(buf.Bytes(), &p), convey.ShouldBeNil)
			convey.So(p.Cards, convey.ShouldHaveLength, 1)
			convey.So(p.Cards[0].Title, convey.ShouldEqual, "Beta")
			convey.So(p.Selection.Category, convey.ShouldEqual, types.AllCategories)
		})

		convey.Convey("A writer surface renders every view it is shown", func() {
			s := render.NewWriterSurface(&buf, &render.TableRenderer{})
			convey.So(s.Show(context.Background(), readyView(alpha)), convey.ShouldBeNil)
			convey.So(s.Show(context.Background(), readyView()), convey.ShouldBeNil)
			convey.So(strings.Count(buf.String(), "Categoria:"), convey.ShouldEqual, 2)
		})
	})
}

func TestFormats(t *testing.T) {
	convey.Convey("Given format selection", t, func() {
		convey.Convey("Known formats parse case-insensitively", func() {
			f, err := render.ParseFormat(" YAML ")
			convey.So(err, convey.ShouldBeNil)
			convey.So(f, convey.ShouldEqual, render.FormatYAML)
		})

		convey.Convey("Unknown formats are rejected", func() {
			_, err := render.ParseFormat("xml")
			convey.So(errors.Is(err, render.ErrUnknownFormat), convey.ShouldBeTrue)

			_, err = render.NewRenderer(render.Format("xml"))
			convey.So(errors.Is(err, render.ErrUnknownFormat), convey.ShouldBeTrue)
		})

		convey.Convey("Every known format has a renderer", func() {
			for _, f := range []render.Format{render.FormatHTML, render.FormatTable, render.FormatJSON, render.FormatYAML} {
				r, err := render.NewRenderer(f)
				convey.So(err, convey.ShouldBeNil)
				convey.So(r, convey.ShouldNotBeNil)
			}
		})

		convey.Convey("An explicit format wins over detection", func() {
			convey.So(render.DetectFormat("table", nil), convey.ShouldEqual, render.FormatTable)
		})

		convey.Convey("A nil or non-terminal output defaults to JSON", func() {
			convey.So(render.DetectFormat("", nil), convey.ShouldEqual, render.FormatJSON)
		})
	})
}
