package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinolib/movie-storefront/internal/model"
	"github.com/kinolib/movie-storefront/internal/repository"
	"github.com/kinolib/movie-storefront/internal/search"
)

// CatalogHandler serves the public movie catalog.
type CatalogHandler struct {
	Movies *repository.MovieRepo
}

func NewCatalogHandler(movies *repository.MovieRepo) *CatalogHandler {
	return &CatalogHandler{Movies: movies}
}

type moviePart struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Director    string    `json:"director"`
	Genre       string    `json:"genre"`
	Rating      float64   `json:"rating"`
	Description string    `json:"description"`
	CoverColor  string    `json:"cover_color"`
	CoverURL    string    `json:"cover_url"`
	Summary     string    `json:"summary"`
	CreatedAt   time.Time `json:"created_at"`
}

func toMoviePart(m model.Movie) moviePart {
	return moviePart{
		ID:          m.ID,
		Title:       m.Title,
		Director:    m.Director,
		Genre:       m.Genre,
		Rating:      m.Rating,
		Description: m.Description,
		CoverColor:  m.CoverColor,
		CoverURL:    m.CoverURL,
		Summary:     m.Summary,
		CreatedAt:   m.CreatedAt,
	}
}

func toMovieParts(ms []model.Movie) []moviePart {
	out := make([]moviePart, 0, len(ms))
	for _, m := range ms {
		out = append(out, toMoviePart(m))
	}
	return out
}

// List returns the catalog newest-first, filtered by the optional ?query=
// parameter.  The response mirrors the storefront's presentation split:
// the first match is the featured "hero" item and the remainder is the
// list section.  An empty catalog and a query with no matches are
// distinct states so the client can render the right empty screen.
func (h *CatalogHandler) List(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context(), 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}

	res := search.Filter(movies, c.QueryParam("query"))

	var hero *moviePart
	if res.Hero != nil {
		hp := toMoviePart(*res.Hero)
		hero = &hp
	}
	return c.JSON(http.StatusOK, echo.Map{
		"hero":          hero,
		"movies":        toMovieParts(res.Rest),
		"total":         len(res.Movies),
		"no_results":    res.NoResults,
		"empty_catalog": res.EmptyCatalog,
	})
}

// Get returns a single movie by id.
func (h *CatalogHandler) Get(c echo.Context) error {
	m, err := h.Movies.GetByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		if err == sql.ErrNoRows {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "Movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movie"})
	}
	return c.JSON(http.StatusOK, toMoviePart(m))
}
