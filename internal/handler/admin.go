package handler

import (
	"context"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinolib/movie-storefront/internal/model"
	"github.com/kinolib/movie-storefront/internal/repository"
)

// AdminHandler exposes the dashboard statistics and record management
// endpoints.  All routes are gated behind the ADMIN role.
type AdminHandler struct {
	Users     *repository.UserRepo
	Movies    *repository.MovieRepo
	Purchases *repository.PurchaseRepo
}

func NewAdminHandler(users *repository.UserRepo, movies *repository.MovieRepo, purchases *repository.PurchaseRepo) *AdminHandler {
	return &AdminHandler{Users: users, Movies: movies, Purchases: purchases}
}

// Stats returns the dashboard aggregates: record counts, total revenue
// over COMPLETED purchases, and the five most recent movies and users.
func (h *AdminHandler) Stats(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movieCount, err := h.Movies.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	userCount, err := h.Users.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	purchaseCount, err := h.Purchases.Count(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	revenue, err := h.Purchases.TotalRevenue(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	recentMovies, err := h.Movies.List(ctx, 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}
	recentUsers, err := h.Users.List(ctx, 5)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load stats"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"movies":        movieCount,
		"users":         userCount,
		"purchases":     purchaseCount,
		"revenue":       revenue,
		"recent_movies": toMovieParts(recentMovies),
		"recent_users":  toAdminUserParts(recentUsers),
	})
}

type adminUserPart struct {
	ID               string     `json:"id"`
	FullName         string     `json:"full_name"`
	Email            string     `json:"email"`
	Role             string     `json:"role"`
	Status           string     `json:"status"`
	LastActivityDate *time.Time `json:"last_activity_date"`
	CreatedAt        time.Time  `json:"created_at"`
}

func toAdminUserParts(users []model.User) []adminUserPart {
	out := make([]adminUserPart, 0, len(users))
	for _, u := range users {
		out = append(out, adminUserPart{
			ID:               u.ID,
			FullName:         u.FullName,
			Email:            u.Email,
			Role:             u.Role,
			Status:           u.Status,
			LastActivityDate: u.LastActivityDate,
			CreatedAt:        u.CreatedAt,
		})
	}
	return out
}

// ListUsers returns all users for the admin table, newest first.
func (h *AdminHandler) ListUsers(c echo.Context) error {
	users, err := h.Users.List(c.Request().Context(), 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load users"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toAdminUserParts(users), "total": len(users)})
}

// ListMovies returns the whole catalog for the admin table.
func (h *AdminHandler) ListMovies(c echo.Context) error {
	movies, err := h.Movies.List(c.Request().Context(), 0)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load movies"})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": toMovieParts(movies), "total": len(movies)})
}

// ----- movie creation -----

type createMovieReq struct {
	Title       string  `json:"title"`
	Director    string  `json:"director"`
	Genre       string  `json:"genre"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
	CoverColor  string  `json:"cover_color"`
	CoverURL    string  `json:"cover_url"`
	Summary     string  `json:"summary"`
}

var coverColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func (r *createMovieReq) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	r.Director = strings.TrimSpace(r.Director)
	r.Genre = strings.TrimSpace(r.Genre)
	r.Description = strings.TrimSpace(r.Description)
	r.CoverColor = strings.TrimSpace(r.CoverColor)
	r.Summary = strings.TrimSpace(r.Summary)

	switch {
	case len(r.Title) < 2 || len(r.Title) > 100:
		return "title must be 2-100 characters"
	case len(r.Director) < 2 || len(r.Director) > 100:
		return "director must be 2-100 characters"
	case len(r.Genre) < 2 || len(r.Genre) > 50:
		return "genre must be 2-50 characters"
	case r.Rating < 1 || r.Rating > 5:
		return "rating must be between 1 and 5"
	case len(r.Description) < 10 || len(r.Description) > 1000:
		return "description must be 10-1000 characters"
	case !coverColorRe.MatchString(r.CoverColor):
		return "cover_color must be a #RRGGBB hex string"
	case len(r.Summary) < 10:
		return "summary must be at least 10 characters"
	}
	if u, err := url.Parse(r.CoverURL); err != nil || u.Scheme == "" || u.Host == "" {
		return "cover_url must be a valid URL"
	}
	return ""
}

// CreateMovie inserts a new catalog entry.
func (h *AdminHandler) CreateMovie(c echo.Context) error {
	var req createMovieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := model.Movie{
		Title:       req.Title,
		Director:    req.Director,
		Genre:       req.Genre,
		Rating:      req.Rating,
		Description: req.Description,
		CoverColor:  req.CoverColor,
		CoverURL:    req.CoverURL,
		Summary:     req.Summary,
	}
	if err := h.Movies.Create(ctx, &m); err != nil {
		c.Logger().Errorf("create movie failed: %v", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{
			"success": false,
			"error":   "An error occurred while creating movie",
		})
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "data": toMoviePart(m)})
}
