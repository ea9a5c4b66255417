package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/spms-api/internal/service"
)

func TestMetricsHandlerReady(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	c, rec := newTestContext(http.MethodGet, "/ready", "")
	NewMetricsHandler(nil, map[string]ReadinessCheck{"database": ok, "redis": ok}).Ready(c)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"database":"ok","redis":"ok"}}`, rec.Body.String())

	c, rec = newTestContext(http.MethodGet, "/ready", "")
	NewMetricsHandler(nil, map[string]ReadinessCheck{"database": ok, "redis": down}).Ready(c)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable","checks":{"database":"ok","redis":"connection refused"}}`, rec.Body.String())
}

func TestMetricsHandlerSummary(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.SetAtRisk(3)

	c, rec := newTestContext(http.MethodGet, "/api/system/metrics", "")
	NewMetricsHandler(metrics, nil).Summary(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"atRiskStudents":3`)
}

func TestMetricsHandlerPrometheus(t *testing.T) {
	metrics := service.NewMetricsService()
	metrics.RecordDigest(true)

	c, rec := newTestContext(http.MethodGet, "/metrics", "")
	NewMetricsHandler(metrics, nil).Prometheus(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `spms_alert_digest_emails_total{status="sent"} 1`)

	c, rec = newTestContext(http.MethodGet, "/metrics", "")
	NewMetricsHandler(nil, nil).Prometheus(c)
	c.Writer.WriteHeaderNow()
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
