package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/classtrack/classtrack-api/internal/models"
)

type dashboardServiceMock struct {
	stats models.DashboardStats
}

func (m *dashboardServiceMock) Stats(ctx context.Context) models.DashboardStats {
	return m.stats
}

func TestDashboardHandlerStats(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewDashboardHandler(&dashboardServiceMock{stats: models.DashboardStats{
		TotalStudents:          12,
		TotalClasses:           3,
		TotalAttendanceRecords: 40,
	}})
	r.GET("/dashboard", h.Stats)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/dashboard", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Data models.DashboardStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 12, envelope.Data.TotalStudents)
	assert.Equal(t, 3, envelope.Data.TotalClasses)
	assert.Equal(t, 40, envelope.Data.TotalAttendanceRecords)
}
