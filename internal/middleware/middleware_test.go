package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinolib/movie-storefront/internal/utils"
)

const testSecret = "test-secret"

func doRequest(e *echo.Echo, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func protectedEcho(mw ...echo.MiddlewareFunc) *echo.Echo {
	e := echo.New()
	e.GET("/protected", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"user_id": UserID(c)})
	}, mw...)
	return e
}

func TestJWTAuth_ValidToken(t *testing.T) {
	tok, err := utils.NewAccessToken(testSecret, "u1", "Test User", "USER", 15)
	require.NoError(t, err)

	rec := doRequest(protectedEcho(JWTAuth(testSecret)), tok.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "u1")
}

func TestJWTAuth_MissingOrGarbageToken(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret))

	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "").Code)
	assert.Equal(t, http.StatusUnauthorized, doRequest(e, "not.a.jwt").Code)
}

func TestJWTAuth_WrongSecret(t *testing.T) {
	tok, err := utils.NewAccessToken("other-secret", "u1", "Test User", "USER", 15)
	require.NoError(t, err)

	rec := doRequest(protectedEcho(JWTAuth(testSecret)), tok.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	e := protectedEcho(JWTAuth(testSecret), RequireRole("ADMIN"))

	admin, err := utils.NewAccessToken(testSecret, "u1", "Admin", "ADMIN", 15)
	require.NoError(t, err)
	user, err := utils.NewAccessToken(testSecret, "u2", "User", "USER", 15)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, doRequest(e, admin.Token).Code)
	assert.Equal(t, http.StatusForbidden, doRequest(e, user.Token).Code)
}

type recordingToucher struct {
	mu      sync.Mutex
	touched []string
	done    chan struct{}
}

func (r *recordingToucher) Touch(ctx context.Context, userID string) error {
	r.mu.Lock()
	r.touched = append(r.touched, userID)
	r.mu.Unlock()
	close(r.done)
	return nil
}

func TestTrackActivity_RunsAfterResponse(t *testing.T) {
	toucher := &recordingToucher{done: make(chan struct{})}
	e := protectedEcho(JWTAuth(testSecret), TrackActivity(toucher))

	tok, err := utils.NewAccessToken(testSecret, "u1", "Test User", "USER", 15)
	require.NoError(t, err)

	rec := doRequest(e, tok.Token)
	require.Equal(t, http.StatusOK, rec.Code)

	<-toucher.done
	toucher.mu.Lock()
	defer toucher.mu.Unlock()
	assert.Equal(t, []string{"u1"}, toucher.touched)
}

func TestTrackActivity_SkipsAnonymous(t *testing.T) {
	toucher := &recordingToucher{done: make(chan struct{})}
	// No JWTAuth in front, so the context carries no user id.
	e := protectedEcho(TrackActivity(toucher))

	rec := doRequest(e, "")
	require.Equal(t, http.StatusOK, rec.Code)

	toucher.mu.Lock()
	defer toucher.mu.Unlock()
	assert.Empty(t, toucher.touched)
}
