// Package advisory provides the auction strategy page and the impact-player
// scenario picker.
package advisory

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/crease/internal/ui/features/common"
)

// SetupRoutes registers the advisory feature routes.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/strategy", handlers.StrategyPage)
	router.Get("/impact", handlers.ImpactPage)
	router.Post("/api/impact", handlers.ScenarioSSE)

	return nil
}
