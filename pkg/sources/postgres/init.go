// This file registers the PostgreSQL source with the source registry.
// Import this package with a blank identifier to register the source:
//
//	import _ "github.com/leapstack-labs/crease/pkg/sources/postgres"

package postgres

import (
	"log/slog"

	"github.com/leapstack-labs/crease/pkg/core"
	"github.com/leapstack-labs/crease/pkg/source"
)

func init() {
	source.Register(Name, func(logger *slog.Logger) core.Source { return New(logger) })
}
