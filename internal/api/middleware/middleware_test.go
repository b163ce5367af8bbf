package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/crazycube/graveyard-api/internal/api/middleware"
	"github.com/crazycube/graveyard-api/internal/logger"
)

func newRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.RequestID(), middleware.Recovery(), middleware.Logger())
	router.GET("/echo", func(c *gin.Context) {
		c.String(http.StatusOK, logger.RequestIDFromContext(c.Request.Context()))
	})
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return router
}

func TestRequestID(t *testing.T) {
	router := newRouter()

	t.Run("generates an id", func(t *testing.T) {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/echo", nil))

		require.Equal(t, http.StatusOK, w.Code)
		id := w.Header().Get(middleware.REQUEST_ID_HEADER)
		_, err := uuid.Parse(id)
		require.NoError(t, err)
		assert.Equal(t, id, w.Body.String())
	})

	t.Run("reuses a valid incoming id", func(t *testing.T) {
		incoming := uuid.NewString()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.Header.Set(middleware.REQUEST_ID_HEADER, incoming)
		router.ServeHTTP(w, req)

		assert.Equal(t, incoming, w.Header().Get(middleware.REQUEST_ID_HEADER))
		assert.Equal(t, incoming, w.Body.String())
	})

	t.Run("replaces an invalid incoming id", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/echo", nil)
		req.Header.Set(middleware.REQUEST_ID_HEADER, "not-a-uuid\n")
		router.ServeHTTP(w, req)

		id := w.Header().Get(middleware.REQUEST_ID_HEADER)
		assert.NotEqual(t, "not-a-uuid\n", id)
		_, err := uuid.Parse(id)
		assert.NoError(t, err)
	})
}

func TestRecovery(t *testing.T) {
	router := newRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"code":"internal_error","message":"Internal server error"}`, w.Body.String())
}
