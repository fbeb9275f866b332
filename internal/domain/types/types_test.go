package types_test

import (
	"testing"

	"github.com/okian/filmcat/internal/domain/model"
	types "github.com/okian/filmcat/internal/domain/types"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseSortKey(t *testing.T) {
	Convey("Given the canonical sort keys", t, func() {
		Convey("Then each one parses to itself", func() {
			for _, k := range types.SortKeys {
				got, ok := types.ParseSortKey(string(k))
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, k)
			}
		})
	})

	Convey("Given legacy aliases", t, func() {
		cases := map[string]types.SortKey{
			"padrao":         types.SortDefault,
			"avaliacao-desc": types.SortRatingDesc,
			"avaliacao-asc":  types.SortRatingAsc,
			"ano-desc":       types.SortYearDesc,
			"ano-asc":        types.SortYearAsc,
			"ALFA":           types.SortAlphabetical,
		}

		Convey("Then they map onto the canonical keys", func() {
			for in, want := range cases {
				got, ok := types.ParseSortKey(in)
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, want)
			}
		})
	})

	Convey("Given empty input", t, func() {
		Convey("Then it is the default key", func() {
			got, ok := types.ParseSortKey("   ")
			So(ok, ShouldBeTrue)
			So(got, ShouldEqual, types.SortDefault)
		})
	})

	Convey("Given an unknown key", t, func() {
		Convey("Then it is coerced to the default and reported invalid", func() {
			got, ok := types.ParseSortKey("by-length")
			So(ok, ShouldBeFalse)
			So(got, ShouldEqual, types.SortDefault)
		})
	})
}

func TestSortKeyLabel(t *testing.T) {
	Convey("Given sort keys", t, func() {
		So(types.SortDefault.Label(), ShouldEqual, "Padrão")
		So(types.SortAlphabetical.Label(), ShouldNotBeEmpty)
		So(types.SortKey("nope").Label(), ShouldEqual, "Padrão")
		So(types.SortKey("nope").Valid(), ShouldBeFalse)
	})
}

func TestDefaultSelection(t *testing.T) {
	Convey("Given the default selection", t, func() {
		sel := types.DefaultSelection()

		Convey("Then it has no search, all categories and default order", func() {
			So(sel.SearchTerm, ShouldEqual, "")
			So(sel.Category, ShouldEqual, types.AllCategories)
			So(sel.Sort, ShouldEqual, types.SortDefault)
		})
	})
}

func TestViewEmpty(t *testing.T) {
	Convey("Given views in different states", t, func() {
		Convey("A ready view without films is empty", func() {
			So(types.View{Status: types.StatusReady}.Empty(), ShouldBeTrue)
		})

		Convey("A ready view with films is not empty", func() {
			v := types.View{Status: types.StatusReady, Films: []model.Film{{Title: "x"}}}
			So(v.Empty(), ShouldBeFalse)
		})

		Convey("An unavailable view is not the empty-result case", func() {
			So(types.View{Status: types.StatusUnavailable}.Empty(), ShouldBeFalse)
		})

		Convey("A loading view is not the empty-result case", func() {
			So(types.View{Status: types.StatusLoading}.Empty(), ShouldBeFalse)
		})
	})
}
