// Package dashboard provides the team statistics pages, the selection
// endpoint and the live-update stream.
package dashboard

import (
	"github.com/go-chi/chi/v5"

	"github.com/leapstack-labs/crease/internal/ui/features/common"
)

// SetupRoutes registers the dashboard feature routes.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	handlers := NewHandlers(deps)

	router.Get("/", handlers.OverviewPage)
	router.Get("/seasons", handlers.SeasonsPage)
	router.Get("/batting", handlers.BattingPage)
	router.Get("/bowling", handlers.BowlingPage)
	router.Get("/venues", handlers.VenuesPage)
	router.Get("/updates", handlers.Updates)

	router.Post("/api/selection", handlers.SelectionSSE)

	return nil
}
