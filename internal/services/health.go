package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"brightscope/internal/database"
)

const healthTimeout = 2 * time.Second

// HealthResult is the body of GET /health.
type HealthResult struct {
	Status   string `json:"status"`
	Service  string `json:"service"`
	Version  string `json:"version"`
	Database string `json:"database"`
}

// HealthService implements the health service
type HealthService struct {
	db      *gorm.DB
	name    string
	version string
	log     zerolog.Logger
}

// NewHealthService creates a new health service
func NewHealthService(db *gorm.DB, name, version string, log zerolog.Logger) *HealthService {
	return &HealthService{db: db, name: name, version: version, log: log}
}

// Check pings the database and refreshes the pool gauges. The second return
// value is false when the service is degraded.
func (s *HealthService) Check(ctx context.Context) (*HealthResult, bool) {
	result := &HealthResult{
		Status:   "healthy",
		Service:  s.name,
		Version:  s.version,
		Database: "ok",
	}

	ctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()
	if err := database.Ping(ctx, s.db); err != nil {
		s.log.Error().Err(err).Msg("database ping failed")
		result.Status = "unhealthy"
		result.Database = "unreachable"
		return result, false
	}
	database.ReportPoolStats(s.db)
	return result, true
}
