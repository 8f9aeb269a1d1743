package service

import (
	"database/sql"

	"github.com/vishal3152/port-api/internal/database"
	"github.com/vishal3152/port-api/internal/version"
)

// SystemService answers the operational endpoints: liveness of the
// database and the running version.
type SystemService struct {
	db *sql.DB
}

// NewSystemService creates a new SystemService.
func NewSystemService(db *sql.DB) *SystemService {
	return &SystemService{db: db}
}

// CheckHealth reports whether the database is reachable.
func (s *SystemService) CheckHealth() error {
	return database.HealthCheck(s.db)
}

// CheckVersion returns the application version string.
func (s *SystemService) CheckVersion() string {
	return version.Version
}
