package handler

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinolib/movie-storefront/internal/repository"
)

func newCatalogHandler(t *testing.T) (*CatalogHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewCatalogHandler(repository.NewMovieRepo(db)), mock
}

func movieRows(titles ...string) *sqlmock.Rows {
	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "director", "genre", "rating", "description",
		"cover_color", "cover_url", "summary", "created_at",
	})
	for i, title := range titles {
		rows.AddRow(
			string(rune('a'+i)), title, "Some Director", "Drama", 4.0,
			"A description long enough.", "#112233", "https://img.example.com/c.png",
			"A summary.", now,
		)
	}
	return rows
}

func getRequest(t *testing.T, h echo.HandlerFunc, target string, setup func(echo.Context)) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	require.NoError(t, h(c))
	return rec
}

func TestCatalogList_HeroAndRest(t *testing.T) {
	h, mock := newCatalogHandler(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM movies ORDER BY created_at DESC")).
		WillReturnRows(movieRows("First Movie", "Second Movie", "Third Movie"))

	rec := getRequest(t, h.List, "/v1/movies", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"hero"`)
	assert.Contains(t, body, "First Movie")
	assert.Contains(t, body, `"total":3`)
	assert.Contains(t, body, `"no_results":false`)
}

func TestCatalogList_QueryNoMatches(t *testing.T) {
	h, mock := newCatalogHandler(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM movies ORDER BY created_at DESC")).
		WillReturnRows(movieRows("First Movie"))

	rec := getRequest(t, h.List, "/v1/movies?query=zzz-nothing", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, `"no_results":true`)
	assert.Contains(t, body, `"empty_catalog":false`)
	assert.Contains(t, body, `"total":0`)
}

func TestCatalogGet_NotFound(t *testing.T) {
	h, mock := newCatalogHandler(t)
	mock.ExpectQuery(regexp.QuoteMeta("FROM movies WHERE id=?")).
		WithArgs("no-such-id").
		WillReturnError(sql.ErrNoRows)

	rec := getRequest(t, h.Get, "/v1/movies/no-such-id", func(c echo.Context) {
		c.SetParamNames("id")
		c.SetParamValues("no-such-id")
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Movie not found")
}
