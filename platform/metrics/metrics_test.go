package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMiddlewareCountsByRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(Middleware())
	engine.GET("/leads/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/leads/:id", "200"))
	for _, id := range []string{"a", "b"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/leads/"+id, nil))
	}
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues(http.MethodGet, "/leads/:id", "200"))

	assert.Equal(t, 2.0, after-before)
}

func TestRecordTransition(t *testing.T) {
	before := testutil.ToFloat64(lifecycleTransitions.WithLabelValues("message_approved"))
	RecordTransition("message_approved")
	assert.Equal(t, 1.0, testutil.ToFloat64(lifecycleTransitions.WithLabelValues("message_approved"))-before)
}
