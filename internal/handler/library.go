package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kinolib/movie-storefront/internal/middleware"
	"github.com/kinolib/movie-storefront/internal/model"
	"github.com/kinolib/movie-storefront/internal/repository"
	"github.com/kinolib/movie-storefront/internal/service"
)

// LibraryHandler exposes the purchase workflow and the user's library.
type LibraryHandler struct {
	Purchases *service.Purchases
	Repo      *repository.PurchaseRepo
}

func NewLibraryHandler(purchases *service.Purchases, repo *repository.PurchaseRepo) *LibraryHandler {
	return &LibraryHandler{Purchases: purchases, Repo: repo}
}

type purchaseReq struct {
	// Price is optional; omitting it records a free library add.
	Price *float64 `json:"price"`
}

type purchasePart struct {
	ID           string    `json:"id"`
	MovieID      string    `json:"movie_id"`
	Price        float64   `json:"price"`
	Currency     string    `json:"currency"`
	Status       string    `json:"status"`
	PurchaseDate time.Time `json:"purchase_date"`
}

func toPurchasePart(p model.Purchase) purchasePart {
	return purchasePart{
		ID:           p.ID,
		MovieID:      p.MovieID,
		Price:        p.Price,
		Currency:     p.Currency,
		Status:       p.Status,
		PurchaseDate: p.PurchaseDate,
	}
}

// Purchase adds the movie in the path to the caller's library.
func (h *LibraryHandler) Purchase(c echo.Context) error {
	var req purchaseReq
	// An empty body is fine: the price defaults to 0.
	_ = c.Bind(&req)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	res := h.Purchases.PurchaseMovie(ctx, middleware.UserID(c), c.Param("id"), req.Price)
	if !res.Success {
		status := http.StatusInternalServerError
		switch res.Error {
		case "Movie not found":
			status = http.StatusNotFound
		case "You have already added this movie to your library":
			status = http.StatusConflict
		}
		return c.JSON(status, echo.Map{"success": false, "error": res.Error})
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"data":    toPurchasePart(res.Purchase),
	})
}

// MyLibrary lists the caller's purchased movies, newest purchase first.
func (h *LibraryHandler) MyLibrary(c echo.Context) error {
	items, err := h.Repo.ListByUser(c.Request().Context(), middleware.UserID(c))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load library"})
	}

	type libraryItem struct {
		Purchase purchasePart `json:"purchase"`
		Movie    moviePart    `json:"movie"`
	}
	out := make([]libraryItem, 0, len(items))
	for _, it := range items {
		out = append(out, libraryItem{
			Purchase: toPurchasePart(it.Purchase),
			Movie:    toMoviePart(it.Movie),
		})
	}
	return c.JSON(http.StatusOK, echo.Map{"data": out, "total": len(out)})
}
