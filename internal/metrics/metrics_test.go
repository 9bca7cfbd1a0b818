package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHandlerExposesPrivateRegistry(t *testing.T) {
	m := New()
	m.Refreshes.WithLabelValues("background", ResultOK).Inc()
	m.Positions.Set(3)
	m.CacheLookups.WithLabelValues("miss").Inc()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	require.Equal(t, 200, rec.Code)

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `portfoliodesk_refreshes_total{mode="background",result="ok"} 1`)
	assert.Contains(t, string(body), "portfoliodesk_positions 3")
	assert.NotContains(t, string(body), "go_goroutines", "default collectors are not registered")
}

func TestInstancesAreIndependent(t *testing.T) {
	a, b := New(), New()
	a.StaleWrites.Inc()
	assert.Equal(t, 1.0, testutil.ToFloat64(a.StaleWrites))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.StaleWrites))
}
