package calculator

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/crease/internal/ui/features/common"
	"github.com/leapstack-labs/crease/internal/winprob"
	"github.com/leapstack-labs/crease/pkg/core"
)

// Handlers provides HTTP handlers for the calculator feature.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// WinprobPage renders the calculator form.
func (h *Handlers) WinprobPage(w http.ResponseWriter, r *http.Request) {
	h.deps.RenderPage(w, r, "/winprob", func(_ common.Selection, _ *core.Dataset) templ.Component {
		return Form()
	})
}

// EstimateSSE estimates the posted innings state and patches the result.
// Each call draws fresh noise.
func (h *Handlers) EstimateSSE(w http.ResponseWriter, r *http.Request) {
	var in winprob.Input
	if err := datastar.ReadSignals(r, &in); err != nil {
		sse := datastar.NewSSE(w, r)
		_ = sse.PatchElementTempl(EstimateError("Failed to read signals: " + err.Error()))
		return
	}

	sse := datastar.NewSSE(w, r)

	p, err := h.deps.Estimator.Estimate(in)
	if err != nil {
		_ = sse.PatchElementTempl(EstimateError(err.Error()))
		return
	}
	if err := sse.PatchElementTempl(Estimate(in, p)); err != nil {
		_ = sse.ConsoleError(err)
	}
}
