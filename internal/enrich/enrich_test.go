package enrich_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/smartystreets/goconvey/convey"

	"github.com/okian/filmcat/internal/domain/model"
	"github.com/okian/filmcat/internal/enrich"
)

// fakeTMDB serves a fixed set of popular films and details.
type fakeTMDB struct {
	mu          sync.Mutex
	hits        map[string]int
	queries     []url.Values
	rateLimited int
	popular     []map[string]any
}

func newFakeTMDB() *fakeTMDB {
	return &fakeTMDB{
		hits: map[string]int{},
		popular: []map[string]any{
			{"id": 0},
			{"id": 10, "vote_average": 7.9},
			{"id": 20, "vote_average": 8.4},
			{"id": 30, "vote_average": 6.5},
		},
	}
}

func (f *fakeTMDB) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeTMDB) limit(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rateLimited = n
}

func (f *fakeTMDB) query(i int) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queries[i]
}

func (f *fakeTMDB) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	f.queries = append(f.queries, r.URL.Query())
	limited := false
	if r.URL.Path == "/movie/popular" && f.rateLimited > 0 {
		f.rateLimited--
		limited = true
	}
	f.mu.Unlock()

	if limited {
		w.WriteHeader(http.StatusTooManyRequests)
		return
	}

	var body any
	switch r.URL.Path {
	case "/movie/popular":
		results := f.popular
		if r.URL.Query().Get("page") != "1" {
			results = nil
		}
		body = map[string]any{"page": 1, "results": results}
	case "/movie/20":
		body = map[string]any{
			"title":        "Duna: Parte Dois",
			"overview":     "Paul Atreides se une aos Fremen.",
			"release_date": "2024-02-27",
			"genres":       []map[string]any{{"name": "Ficção científica"}, {"name": "Aventura"}},
			"imdb_id":      "tt15239678",
			"poster_path":  "/duna.jpg",
		}
	case "/movie/20/credits":
		body = map[string]any{"crew": []map[string]any{
			{"job": "Producer", "name": "Mary Parent"},
			{"job": "Director", "name": "Denis Villeneuve"},
		}}
	case "/movie/30":
		body = map[string]any{"title": "", "original_title": "Inside Out 2", "release_date": ""}
	case "/movie/30/credits":
		w.WriteHeader(http.StatusInternalServerError)
		return
	default:
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func testConfig(baseURL string) *enrich.Config {
	cfg := enrich.DefaultConfig()
	cfg.APIKey = "secret"
	cfg.BaseURL = baseURL
	cfg.Timeout = time.Second
	cfg.RetryBackoff = time.Millisecond
	cfg.PageDelay = 0
	cfg.DetailDelay = 0
	return cfg
}

const catalogWithPlaceholders = `[
  {"title": "Cidade de Deus", "year": 2002, "category": "Crime", "director": "Fernando Meirelles", "description": "Dois garotos seguem caminhos diferentes.", "rating": 8.6, "detailLink": "https://www.imdb.com/title/tt0317248/"},
  {"titulo": "Filme Placeholder 1", "categoria": "Placeholder", "link": "https://example.com/1"},
  {"title": "Sem link", "category": "Drama"}
]`

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIsPlaceholder(t *testing.T) {
	convey.Convey("Given catalog entries", t, func() {
		link := "https://www.imdb.com/title/tt0068646/"

		convey.Convey("Then placeholders are detected by category, title prefix or missing link", func() {
			convey.So(enrich.IsPlaceholder(model.Film{Title: "X", Category: "Placeholder", DetailLink: link}), convey.ShouldBeTrue)
			convey.So(enrich.IsPlaceholder(model.Film{Title: "Filme Placeholder 7", Category: "Drama", DetailLink: link}), convey.ShouldBeTrue)
			convey.So(enrich.IsPlaceholder(model.Film{Title: "O Poderoso Chefão", Category: "Crime"}), convey.ShouldBeTrue)
			convey.So(enrich.IsPlaceholder(model.Film{Title: "O Poderoso Chefão", Category: "Crime", DetailLink: link}), convey.ShouldBeFalse)
		})
	})
}

func TestBuildFilm(t *testing.T) {
	convey.Convey("Given TMDb details and credits", t, func() {
		d := enrich.Details{
			Title:       "Oppenheimer",
			Overview:    "A história do pai da bomba atômica.",
			ReleaseDate: "2023-07-19",
			Genres:      []enrich.Genre{{Name: "Drama"}, {Name: "História"}},
			IMDbID:      "tt15398776",
			PosterPath:  "/oppenheimer.jpg",
		}
		cr := enrich.Credits{Crew: []enrich.CrewMember{{Job: "Director", Name: "Christopher Nolan"}, {Job: "Director", Name: "Someone Else"}}}

		convey.Convey("Then every film field is mapped", func() {
			f := enrich.BuildFilm(d, cr, 8.1)
			convey.So(f, convey.ShouldResemble, model.Film{
				Title:       "Oppenheimer",
				Year:        2023,
				Category:    "Drama",
				Director:    "Christopher Nolan",
				Description: "A história do pai da bomba atômica.",
				Rating:      8.1,
				PosterURL:   "https://image.tmdb.org/t/p/w500/oppenheimer.jpg",
				DetailLink:  "https://www.imdb.com/title/tt15398776/",
			})
		})

		convey.Convey("Then sparse data falls back to defaults", func() {
			f := enrich.BuildFilm(enrich.Details{OriginalTitle: "Original", ReleaseDate: "soon"}, enrich.Credits{}, 11)
			convey.So(f.Title, convey.ShouldEqual, "Original")
			convey.So(f.Year, convey.ShouldEqual, 0)
			convey.So(f.Category, convey.ShouldEqual, enrich.FallbackCategory)
			convey.So(f.Director, convey.ShouldBeEmpty)
			convey.So(f.Rating, convey.ShouldEqual, model.MaxRating)
			convey.So(f.DetailLink, convey.ShouldBeEmpty)
			convey.So(f.PosterURL, convey.ShouldBeEmpty)
		})
	})
}

func TestClientRetries(t *testing.T) {
	convey.Convey("Given a TMDb server that rate limits", t, func() {
		fake := newFakeTMDB()
		srv := httptest.NewServer(fake)
		defer srv.Close()
		client := enrich.NewClient(testConfig(srv.URL), nil)
		ctx := context.Background()

		convey.Convey("When fewer 429s than attempts are served", func() {
			fake.limit(2)
			results, err := client.Popular(ctx, 1)

			convey.Convey("Then the request succeeds on the last attempt", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(results, convey.ShouldHaveLength, 4)
				convey.So(fake.count("/movie/popular"), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When every attempt is rate limited", func() {
			fake.limit(5)
			_, err := client.Popular(ctx, 1)

			convey.Convey("Then the rate limit error is returned after the last attempt", func() {
				convey.So(errors.Is(err, enrich.ErrRateLimited), convey.ShouldBeTrue)
				convey.So(fake.count("/movie/popular"), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When the film does not exist", func() {
			_, err := client.Details(ctx, 10)

			convey.Convey("Then it fails without retrying", func() {
				convey.So(errors.Is(err, enrich.ErrRequest), convey.ShouldBeTrue)
				convey.So(fake.count("/movie/10"), convey.ShouldEqual, 1)
			})
		})

		convey.Convey("When any request is sent", func() {
			_, err := client.Credits(ctx, 20)

			convey.Convey("Then the API key and language are passed", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(fake.query(0).Get("api_key"), convey.ShouldEqual, "secret")
				convey.So(fake.query(0).Get("language"), convey.ShouldEqual, "pt-BR")
			})
		})
	})

	convey.Convey("Given an unreachable TMDb server", t, func() {
		srv := httptest.NewServer(http.NotFoundHandler())
		srv.Close()
		client := enrich.NewClient(testConfig(srv.URL), nil)

		convey.Convey("Then transport errors surface after retrying", func() {
			_, err := client.Popular(context.Background(), 1)
			convey.So(errors.Is(err, enrich.ErrRequest), convey.ShouldBeTrue)
		})
	})
}

func TestEnricherRun(t *testing.T) {
	convey.Convey("Given a catalog file with placeholders", t, func() {
		fake := newFakeTMDB()
		srv := httptest.NewServer(fake)
		defer srv.Close()
		cfg := testConfig(srv.URL)
		path := writeFile(t, catalogWithPlaceholders)
		e := enrich.New(enrich.NewClient(cfg, nil), cfg, nil)

		rep, err := e.Run(context.Background(), path)
		convey.So(err, convey.ShouldBeNil)

		convey.Convey("Then each placeholder is replaced by the next usable candidate", func() {
			convey.So(rep.Placeholders, convey.ShouldEqual, 2)
			convey.So(rep.Candidates, convey.ShouldEqual, 4)
			convey.So(rep.Replaced, convey.ShouldEqual, 2)
			convey.So(fake.count("/movie/10"), convey.ShouldEqual, 1)
			convey.So(fake.count("/movie/popular"), convey.ShouldEqual, 1)

			data, err := os.ReadFile(path)
			convey.So(err, convey.ShouldBeNil)
			films, err := model.DecodeFilms(bytes.NewReader(data))
			convey.So(err, convey.ShouldBeNil)
			convey.So(films, convey.ShouldHaveLength, 3)

			convey.So(films[0].Title, convey.ShouldEqual, "Cidade de Deus")
			convey.So(films[1], convey.ShouldResemble, model.Film{
				Title:       "Duna: Parte Dois",
				Year:        2024,
				Category:    "Ficção científica",
				Director:    "Denis Villeneuve",
				Description: "Paul Atreides se une aos Fremen.",
				Rating:      8.4,
				PosterURL:   "https://image.tmdb.org/t/p/w500/duna.jpg",
				DetailLink:  "https://www.imdb.com/title/tt15239678/",
			})
			convey.So(films[2].Title, convey.ShouldEqual, "Inside Out 2")
			convey.So(films[2].Director, convey.ShouldBeEmpty)
			convey.So(films[2].Category, convey.ShouldEqual, enrich.FallbackCategory)
		})

		convey.Convey("Then the original file is kept as a backup", func() {
			convey.So(rep.BackupPath, convey.ShouldEqual, path+enrich.BackupSuffix)
			backup, err := os.ReadFile(rep.BackupPath)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(backup), convey.ShouldEqual, catalogWithPlaceholders)
		})
	})

	convey.Convey("Given a catalog file without placeholders", t, func() {
		fake := newFakeTMDB()
		srv := httptest.NewServer(fake)
		defer srv.Close()
		cfg := testConfig(srv.URL)
		content := `[{"title": "Cidade de Deus", "detailLink": "https://www.imdb.com/title/tt0317248/"}]`
		path := writeFile(t, content)

		rep, err := enrich.New(enrich.NewClient(cfg, nil), cfg, nil).Run(context.Background(), path)

		convey.Convey("Then nothing is fetched or written", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(rep.Placeholders, convey.ShouldEqual, 0)
			convey.So(fake.count("/movie/popular"), convey.ShouldEqual, 0)
			data, _ := os.ReadFile(path)
			convey.So(string(data), convey.ShouldEqual, content)
			_, statErr := os.Stat(path + enrich.BackupSuffix)
			convey.So(os.IsNotExist(statErr), convey.ShouldBeTrue)
		})
	})

	convey.Convey("Given TMDb returns no popular films", t, func() {
		fake := newFakeTMDB()
		fake.popular = nil
		srv := httptest.NewServer(fake)
		defer srv.Close()
		cfg := testConfig(srv.URL)
		cfg.MaxPages = 2
		path := writeFile(t, catalogWithPlaceholders)

		rep, err := enrich.New(enrich.NewClient(cfg, nil), cfg, nil).Run(context.Background(), path)

		convey.Convey("Then the run fails and the file is untouched", func() {
			convey.So(errors.Is(err, enrich.ErrNoCandidates), convey.ShouldBeTrue)
			convey.So(rep.Replaced, convey.ShouldEqual, 0)
			convey.So(fake.count("/movie/popular"), convey.ShouldEqual, 2)
			data, _ := os.ReadFile(path)
			convey.So(string(data), convey.ShouldEqual, catalogWithPlaceholders)
		})
	})
}

func TestLoadConfig(t *testing.T) {
	convey.Convey("Given the TMDb environment", t, func() {
		unsetEnv := func() {
			for _, k := range []string{"TMDB_API_KEY", "TMDB_LANGUAGE", "TMDB_MAX_PAGES", "TMDB_BASE_URL"} {
				_ = os.Unsetenv(k)
			}
		}
		unsetEnv()
		defer unsetEnv()

		convey.Convey("When no API key is set", func() {
			cfg, err := enrich.LoadConfig(context.Background())

			convey.Convey("Then loading fails", func() {
				convey.So(errors.Is(err, enrich.ErrMissingAPIKey), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When the key and overrides are set", func() {
			_ = os.Setenv("TMDB_API_KEY", "abc")
			_ = os.Setenv("TMDB_LANGUAGE", "en-US")
			_ = os.Setenv("TMDB_MAX_PAGES", "2")

			cfg, err := enrich.LoadConfig(context.Background())

			convey.Convey("Then they override the defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.APIKey, convey.ShouldEqual, "abc")
				convey.So(cfg.Language, convey.ShouldEqual, "en-US")
				convey.So(cfg.MaxPages, convey.ShouldEqual, 2)
				convey.So(cfg.BaseURL, convey.ShouldEqual, enrich.DefaultBaseURL)
				convey.So(cfg.RetryBackoff, convey.ShouldEqual, enrich.DefaultRetryBackoff)
			})
		})
	})
}

func TestRootCommand(t *testing.T) {
	convey.Convey("Given the enrich command", t, func() {
		fake := newFakeTMDB()
		srv := httptest.NewServer(fake)
		defer srv.Close()
		_ = os.Setenv("TMDB_API_KEY", "secret")
		_ = os.Setenv("TMDB_BASE_URL", srv.URL)
		defer func() {
			_ = os.Unsetenv("TMDB_API_KEY")
			_ = os.Unsetenv("TMDB_BASE_URL")
		}()
		path := writeFile(t, catalogWithPlaceholders)

		var out, errOut bytes.Buffer
		cmd := enrich.NewRootCommand()
		cmd.SetOut(&out)
		cmd.SetErr(&errOut)
		cmd.SetArgs([]string{"--data-file", path, "--log-level", "error"})

		err := cmd.ExecuteContext(context.Background())

		convey.Convey("Then the report is printed", func() {
			convey.So(err, convey.ShouldBeNil)
			convey.So(out.String(), convey.ShouldContainSubstring, "Replaced 2 of 2 placeholders")
			convey.So(out.String(), convey.ShouldContainSubstring, path+enrich.BackupSuffix)
		})
	})
}
