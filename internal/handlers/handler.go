package handlers

import (
	"github.com/sensorcast/sensorcast/internal/logging"
	"github.com/sensorcast/sensorcast/internal/scheduler"
)

// Handler contains all HTTP handlers
type Handler struct {
	logger  *logging.Logger
	manager *scheduler.Manager
}

// New creates a new handler instance
func New(logger *logging.Logger, manager *scheduler.Manager) *Handler {
	return &Handler{
		logger:  logger,
		manager: manager,
	}
}
