// Package search implements the catalog filter: a pure, in-memory
// substring match over an already-fetched movie list.  The storefront
// recomputes it on every keystroke, so it must stay cheap and
// side-effect free.
package search

import (
	"strings"

	"github.com/kinolib/movie-storefront/internal/model"
)

// Result is the outcome of filtering a catalog with a query.
//
// The storefront renders the first match as the featured "hero" item and
// the remainder as the list section.  EmptyCatalog and NoResults are
// distinct states: an empty catalog shows "no movies available" while a
// query that matches nothing shows "no movies found".
type Result struct {
	Movies       []model.Movie // all matches, input order preserved
	Hero         *model.Movie  // first match, nil when there are none
	Rest         []model.Movie // matches after the hero
	EmptyCatalog bool          // the input list itself was empty
	NoResults    bool          // a non-empty query matched nothing
}

// Filter keeps movies whose title, director or genre contains the query
// as a case-insensitive substring.  A blank query (empty after trimming)
// is the identity filter and returns the input in its original order.
func Filter(movies []model.Movie, query string) Result {
	res := Result{EmptyCatalog: len(movies) == 0}

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		res.Movies = movies
	} else {
		for _, m := range movies {
			if strings.Contains(strings.ToLower(m.Title), q) ||
				strings.Contains(strings.ToLower(m.Director), q) ||
				strings.Contains(strings.ToLower(m.Genre), q) {
				res.Movies = append(res.Movies, m)
			}
		}
		res.NoResults = len(res.Movies) == 0 && !res.EmptyCatalog
	}

	if len(res.Movies) > 0 {
		res.Hero = &res.Movies[0]
		res.Rest = res.Movies[1:]
	}
	return res
}
