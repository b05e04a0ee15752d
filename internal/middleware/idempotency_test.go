package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"

	"github.com/mythicalbadger/swe-hw1-backend/internal/middleware"
)

func TestIdempotency(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("first request runs and caches the response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := gin.New()
		r.POST("/leave-requests", func(c *gin.Context) { c.Set("user_id", "u1") }, middleware.Idempotency(rdb), func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		cacheKey := "idemp:/leave-requests:u1:key-1"
		lockKey := cacheKey + ":lock"

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(true)
		mock.ExpectSet(cacheKey, []byte(`{"ok":true}`), 24*time.Hour).SetVal("OK")
		mock.ExpectDel(lockKey).SetVal(1)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("repeated key replays the cached response", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		var handlerCalled bool
		r := gin.New()
		r.POST("/leave-requests", func(c *gin.Context) { c.Set("user_id", "u1") }, middleware.Idempotency(rdb), func(c *gin.Context) {
			handlerCalled = true
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		cacheKey := "idemp:/leave-requests:u1:key-1"
		mock.ExpectGet(cacheKey).SetVal(`{"ok":true}`)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `{"ok":true}`, w.Body.String())
		assert.False(t, handlerCalled)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("in-flight key conflicts", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := gin.New()
		r.POST("/leave-requests", func(c *gin.Context) { c.Set("user_id", "u1") }, middleware.Idempotency(rdb), func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		cacheKey := "idemp:/leave-requests:u1:key-1"
		lockKey := cacheKey + ":lock"

		mock.ExpectGet(cacheKey).RedisNil()
		mock.ExpectSetNX(lockKey, "locked", 30*time.Second).SetVal(false)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/leave-requests", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("request without key passes through", func(t *testing.T) {
		rdb, mock := redismock.NewClientMock()

		r := gin.New()
		r.POST("/leave-requests", middleware.Idempotency(rdb), func(c *gin.Context) {
			c.JSON(http.StatusCreated, gin.H{"ok": true})
		})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/leave-requests", nil))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
