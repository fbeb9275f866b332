package query_test

import (
	"testing"

	"github.com/okian/filmcat/internal/domain/model"
	"github.com/okian/filmcat/internal/domain/query"
	"github.com/okian/filmcat/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
	"golang.org/x/text/language"
)

func sampleDataset() []model.Film {
	return []model.Film{
		{Title: "Alpha", Year: 2001, Rating: 9.0, Category: "Drama", Description: "A quiet story"},
		{Title: "Beta", Year: 1999, Rating: 5.0, Category: "Comedy", Description: "Loud jokes"},
		{Title: "Ébano", Year: 2010, Rating: 7.5, Category: "Drama", Description: "Dark wood"},
		{Title: "delta", Year: 1999, Rating: 9.0, Category: "Comedy", Description: "River mouth"},
		{Title: "Gamma", Year: 2020, Rating: 5.0, Category: "", Description: "Rays"},
	}
}

func titles(films []model.Film) []string {
	out := make([]string, len(films))
	for i, f := range films {
		out[i] = f.Title
	}
	return out
}

func selection(term, category string, key types.SortKey) types.Selection {
	return types.Selection{SearchTerm: term, Category: category, Sort: key}
}

func TestCompute_Defaults(t *testing.T) {
	Convey("Given a dataset and the default selection", t, func() {
		data := sampleDataset()

		Convey("When computing the view", func() {
			view := query.Compute(data, types.DefaultSelection())

			Convey("Then it should equal the dataset element for element", func() {
				So(view, ShouldResemble, data)
			})
		})

		Convey("When computing with an empty category", func() {
			view := query.Compute(data, selection("", "", types.SortDefault))

			Convey("Then it should behave as all categories", func() {
				So(len(view), ShouldEqual, len(data))
			})
		})
	})
}

func TestCompute_Scenario(t *testing.T) {
	Convey("Given the two-film scenario", t, func() {
		data := []model.Film{
			{Title: "Alpha", Year: 2001, Rating: 9.0, Category: "Drama"},
			{Title: "Beta", Year: 1999, Rating: 5.0, Category: "Comedy"},
		}

		Convey("Sorting by year ascending puts Beta first", func() {
			So(titles(query.Compute(data, selection("", types.AllCategories, types.SortYearAsc))), ShouldResemble, []string{"Beta", "Alpha"})
		})

		Convey("Filtering by Drama keeps Alpha", func() {
			So(titles(query.Compute(data, selection("", "Drama", types.SortDefault))), ShouldResemble, []string{"Alpha"})
		})

		Convey("Searching bet across all categories finds Beta", func() {
			So(titles(query.Compute(data, selection("bet", types.AllCategories, types.SortDefault))), ShouldResemble, []string{"Beta"})
		})
	})
}

func TestCompute_Filters(t *testing.T) {
	Convey("Given a dataset", t, func() {
		data := sampleDataset()

		Convey("Category filtering is exact and order preserving", func() {
			So(titles(query.Compute(data, selection("", "Drama", types.SortDefault))), ShouldResemble, []string{"Alpha", "Ébano"})
			So(query.Compute(data, selection("", "drama", types.SortDefault)), ShouldBeEmpty)
		})

		Convey("Category filtering is idempotent", func() {
			once := query.Compute(data, selection("", "Comedy", types.SortDefault))
			twice := query.Compute(once, selection("", "Comedy", types.SortDefault))
			So(twice, ShouldResemble, once)
		})

		Convey("Going back to all categories restores the original order", func() {
			_ = query.Compute(data, selection("", "Comedy", types.SortRatingDesc))
			So(query.Compute(data, types.DefaultSelection()), ShouldResemble, data)
		})

		Convey("Search is case-insensitive on the title", func() {
			So(titles(query.Compute(data, selection("ALP", types.AllCategories, types.SortDefault))), ShouldResemble, []string{"Alpha"})
			So(titles(query.Compute(data, selection("  delta ", types.AllCategories, types.SortDefault))), ShouldResemble, []string{"delta"})
		})

		Convey("Search ignores descriptions by default", func() {
			So(query.Compute(data, selection("jokes", types.AllCategories, types.SortDefault)), ShouldBeEmpty)
		})

		Convey("Search and category combine", func() {
			So(titles(query.Compute(data, selection("el", "Comedy", types.SortDefault))), ShouldResemble, []string{"delta"})
		})

		Convey("An empty result is not an error", func() {
			view := query.Compute(data, selection("zzz", types.AllCategories, types.SortAlphabetical))
			So(view, ShouldNotBeNil)
			So(view, ShouldBeEmpty)
		})

		Convey("The dataset itself is never reordered", func() {
			before := sampleDataset()
			_ = query.Compute(data, selection("", types.AllCategories, types.SortAlphabetical))
			So(data, ShouldResemble, before)
		})
	})
}

func TestCompute_DescriptionSearch(t *testing.T) {
	Convey("Given a pipeline with description search", t, func() {
		p := query.New(query.WithDescriptionSearch(true))

		Convey("Then matching descriptions are kept", func() {
			So(titles(p.Compute(sampleDataset(), selection("jokes", types.AllCategories, types.SortDefault))), ShouldResemble, []string{"Beta"})
		})
	})
}

func TestCompute_Sorting(t *testing.T) {
	Convey("Given a dataset with ties", t, func() {
		data := sampleDataset()
		all := func(k types.SortKey) []string {
			return titles(query.Compute(data, selection("", types.AllCategories, k)))
		}

		Convey("Rating descending keeps ties in dataset order", func() {
			So(all(types.SortRatingDesc), ShouldResemble, []string{"Alpha", "delta", "Ébano", "Beta", "Gamma"})
		})

		Convey("Rating ascending keeps ties in dataset order", func() {
			So(all(types.SortRatingAsc), ShouldResemble, []string{"Beta", "Gamma", "Ébano", "Alpha", "delta"})
		})

		Convey("Year descending", func() {
			So(all(types.SortYearDesc), ShouldResemble, []string{"Gamma", "Ébano", "Alpha", "Beta", "delta"})
		})

		Convey("Year ascending keeps ties in dataset order", func() {
			So(all(types.SortYearAsc), ShouldResemble, []string{"Beta", "delta", "Alpha", "Ébano", "Gamma"})
		})

		Convey("Alphabetical uses collation, not byte order", func() {
			So(all(types.SortAlphabetical), ShouldResemble, []string{"Alpha", "Beta", "delta", "Ébano", "Gamma"})
		})

		Convey("Every sort is idempotent", func() {
			for _, k := range types.SortKeys {
				sel := selection("", types.AllCategories, k)
				once := query.Compute(data, sel)
				So(query.Compute(once, sel), ShouldResemble, once)
			}
		})

		Convey("An unknown key keeps the default order", func() {
			So(all(types.SortKey("sideways")), ShouldResemble, titles(data))
		})
	})

	Convey("Given an explicit collation language", t, func() {
		p := query.New(query.WithLanguage(language.English))

		Convey("Then accented titles still sort next to their base letter", func() {
			got := titles(p.Compute(sampleDataset(), selection("", types.AllCategories, types.SortAlphabetical)))
			So(got, ShouldResemble, []string{"Alpha", "Beta", "delta", "Ébano", "Gamma"})
		})
	})
}
