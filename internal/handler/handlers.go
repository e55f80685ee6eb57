package handler

import (
	"github.com/deppfellow/fnguard/internal/server"
)

// Handlers groups all HTTP handlers so router setup receives one object.
type Handlers struct {
	Health  *HealthHandler
	Profile *ProfileHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		Profile: NewProfileHandler(s),
	}
}
