// Package calculator provides the win-probability calculator page.
package calculator

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/crease/internal/ui/features/common"
)

// SetupRoutes registers the calculator feature routes.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/winprob", handlers.WinprobPage)
	router.Post("/api/winprob", handlers.EstimateSSE)

	return nil
}
