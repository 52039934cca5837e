package http

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIPLimiter(t *testing.T) {
	t.Run("per ip buckets", func(t *testing.T) {
		l := newIPLimiter(0.001, 2)
		assert.True(t, l.allow("10.0.0.1"))
		assert.True(t, l.allow("10.0.0.1"))
		assert.False(t, l.allow("10.0.0.1"))
		assert.True(t, l.allow("10.0.0.2"))
	})

	t.Run("disabled", func(t *testing.T) {
		l := newIPLimiter(0, 0)
		for i := 0; i < 100; i++ {
			assert.True(t, l.allow("10.0.0.1"))
		}
	})

	t.Run("idle buckets swept periodically", func(t *testing.T) {
		now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
		l := newIPLimiter(0.001, 1)
		l.now = func() time.Time { return now }

		assert.True(t, l.allow("10.0.0.1"))
		assert.False(t, l.allow("10.0.0.1"))

		now = now.Add(limiterIdleTTL - time.Second)
		assert.True(t, l.allow("10.0.0.2"))
		assert.Len(t, l.limiters, 2)

		now = now.Add(2 * time.Second)
		assert.True(t, l.allow("10.0.0.3"))
		assert.Len(t, l.limiters, 2)
		assert.NotContains(t, l.limiters, "10.0.0.1")

		// no sweep until another full interval has passed
		now = now.Add(limiterIdleTTL - time.Second)
		assert.True(t, l.allow("10.0.0.4"))
		assert.Len(t, l.limiters, 3)
	})
}

func TestRecoveryRendersGenericPage(t *testing.T) {
	logger, hook := test.NewNullLogger()
	srv := newTestServer(t, func(o *Options) { o.Logger = logger })
	srv.router.GET("/boom", func(*gin.Context) { panic("kaboom") })

	rec := srv.get("/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Something unexpected went wrong. Sorry about that.")
	assert.NotContains(t, rec.Body.String(), "kaboom")

	var logged bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.ErrorLevel && entry.Message == "panic: kaboom" {
			logged = true
		}
	}
	require.True(t, logged, "panic was not logged")

	rec = srv.get("/songs")
	assert.NotEqual(t, http.StatusInternalServerError, rec.Code)
}
