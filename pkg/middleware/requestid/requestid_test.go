package requestid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func perform(t *testing.T, inbound string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/schedules", nil)
	if inbound != "" {
		c.Request.Header.Set("X-Request-ID", inbound)
	}

	var captured string
	Middleware()(c)
	captured = Value(c)
	return w, captured
}

func TestMiddlewareKeepsSaneInboundID(t *testing.T) {
	w, id := perform(t, "frontend-abc-123")
	assert.Equal(t, "frontend-abc-123", id)
	assert.Equal(t, "frontend-abc-123", w.Header().Get("X-Request-ID"))
}

func TestMiddlewareReplacesHostileInboundID(t *testing.T) {
	_, id := perform(t, "evil\nid: injected")
	require.NotEmpty(t, id)
	assert.NotContains(t, id, "\n")
	assert.NotEqual(t, "evil\nid: injected", id)
}

func TestMiddlewareGeneratesWhenMissing(t *testing.T) {
	w, id := perform(t, "")
	require.NotEmpty(t, id)
	assert.Equal(t, id, w.Header().Get("X-Request-ID"))
}
