package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(incoming string) (string, string) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(Middleware())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = Value(c)
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if incoming != "" {
		req.Header.Set(Header, incoming)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return seen, rec.Header().Get(Header)
}

func TestMiddlewareKeepsValidID(t *testing.T) {
	seen, header := run("req-123.abc_DEF")
	assert.Equal(t, "req-123.abc_DEF", seen)
	assert.Equal(t, seen, header)
}

func TestMiddlewareReplacesMissingOrUnsafeID(t *testing.T) {
	for _, incoming := range []string{"", "bad id\n", strings.Repeat("a", 129)} {
		seen, header := run(incoming)
		_, err := uuid.Parse(seen)
		require.NoError(t, err, incoming)
		assert.Equal(t, seen, header)
	}
}

func TestValueWithoutMiddleware(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	assert.Empty(t, Value(c))
}
