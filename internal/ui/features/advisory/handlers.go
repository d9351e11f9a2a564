package advisory

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/crease/internal/ui/features/common"
	"github.com/leapstack-labs/crease/pkg/core"
)

// Handlers provides HTTP handlers for the advisory feature.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// ScenarioSignals is the body of a scenario change.
type ScenarioSignals struct {
	Scenario string `json:"scenario"`
}

// StrategyPage renders the auction strategy.
func (h *Handlers) StrategyPage(w http.ResponseWriter, r *http.Request) {
	h.deps.RenderPage(w, r, "/strategy", func(_ common.Selection, _ *core.Dataset) templ.Component {
		return StrategyView(h.deps.Advisory.Strategy)
	})
}

// ImpactPage renders the scenario picker with the first scenario selected.
func (h *Handlers) ImpactPage(w http.ResponseWriter, r *http.Request) {
	h.deps.RenderPage(w, r, "/impact", func(_ common.Selection, _ *core.Dataset) templ.Component {
		return ImpactView(h.deps.Advisory.Scenarios)
	})
}

// ScenarioSSE patches the card of the posted scenario.
func (h *Handlers) ScenarioSSE(w http.ResponseWriter, r *http.Request) {
	var signals ScenarioSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(ScenarioError("Failed to read signals: " + err.Error()))
		return
	}

	sse := datastar.NewSSE(w, r)

	scenario, ok := h.deps.Advisory.Scenario(signals.Scenario)
	if !ok {
		_ = sse.PatchElementTempl(ScenarioError(fmt.Sprintf("Unknown scenario %q", signals.Scenario)))
		return
	}
	if err := sse.PatchElementTempl(ScenarioCard(scenario)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
