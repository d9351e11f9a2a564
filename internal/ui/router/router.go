// Package router sets up HTTP routes for the UI server.
package router

import (
	"github.com/go-chi/chi/v5"

	advisoryFeature "github.com/leapstack-labs/crease/internal/ui/features/advisory"
	calculatorFeature "github.com/leapstack-labs/crease/internal/ui/features/calculator"
	"github.com/leapstack-labs/crease/internal/ui/features/common"
	dashboardFeature "github.com/leapstack-labs/crease/internal/ui/features/dashboard"
	"github.com/leapstack-labs/crease/internal/ui/resources"
)

// SetupRoutes configures all routes for the UI server.
func SetupRoutes(router chi.Router, deps *common.Deps) error {
	// Static assets
	router.Handle("/static/*", resources.Handler())

	// Feature routes
	if err := dashboardFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := advisoryFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	if err := calculatorFeature.SetupRoutes(router, deps); err != nil {
		return err
	}

	return nil
}
