package dashboard

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/starfederation/datastar-go/datastar"

	"github.com/leapstack-labs/crease/internal/filter"
	"github.com/leapstack-labs/crease/internal/stats"
	"github.com/leapstack-labs/crease/internal/ui/features/common"
	"github.com/leapstack-labs/crease/pkg/core"
)

// Handlers provides HTTP handlers for the dashboard feature.
type Handlers struct {
	deps *common.Deps
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(deps *common.Deps) *Handlers {
	return &Handlers{deps: deps}
}

// SelectionSignals is the body of a selection change.
type SelectionSignals struct {
	Team   string `json:"team"`
	Season string `json:"season"`
	Path   string `json:"path"`
}

// OverviewPage renders the win record and matches per season.
func (h *Handlers) OverviewPage(w http.ResponseWriter, r *http.Request) {
	h.deps.RenderPage(w, r, "/", func(sel common.Selection, ds *core.Dataset) templ.Component {
		view := filter.NewView(ds, sel.Team, sel.Season)
		if view.Empty() {
			return common.EmptySelection(view.Check())
		}
		return Overview(sel, stats.TotalAndWins(view.Matches(), sel.Team), stats.SeasonParticipation(view.Matches()))
	})
}

// SeasonsPage renders wins per season next to matches per season.
func (h *Handlers) SeasonsPage(w http.ResponseWriter, r *http.Request) {
	h.deps.RenderPage(w, r, "/seasons", func(sel common.Selection, ds *core.Dataset) templ.Component {
		view := filter.NewView(ds, sel.Team, sel.Season)
		if view.Empty() {
			return common.EmptySelection(view.Check())
		}
		participation := stats.SeasonParticipation(view.Matches())
		wins := stats.ZeroFill(stats.SeasonWins(view.Matches(), sel.Team), participation.Keys())
		return common.Group(
			common.BarChart(common.Chart{ID: "season-wins", Title: "Wins per Season", KeyLabel: "Season", ValueLabel: "Wins", Series: wins, Gold: true}),
			common.BarChart(common.Chart{ID: "season-matches", Title: "Matches per Season", KeyLabel: "Season", ValueLabel: "Matches", Series: participation}),
		)
	})
}

// BattingPage renders the top run scorers.
func (h *Handlers) BattingPage(w http.ResponseWriter, r *http.Request) {
	h.deps.RenderPage(w, r, "/batting", func(sel common.Selection, ds *core.Dataset) templ.Component {
		view := filter.NewView(ds, sel.Team, sel.Season)
		if view.Empty() {
			return common.EmptySelection(view.Check())
		}
		return common.BarChart(common.Chart{
			ID: "top-run-scorers", Title: "Top Run Scorers", KeyLabel: "Batter", ValueLabel: "Runs",
			Series: stats.TopRunScorers(view.Deliveries(), sel.Team, h.deps.Limit),
		})
	})
}

// BowlingPage renders the top wicket takers.
func (h *Handlers) BowlingPage(w http.ResponseWriter, r *http.Request) {
	h.deps.RenderPage(w, r, "/bowling", func(sel common.Selection, ds *core.Dataset) templ.Component {
		view := filter.NewView(ds, sel.Team, sel.Season)
		if view.Empty() {
			return common.EmptySelection(view.Check())
		}
		return common.BarChart(common.Chart{
			ID: "top-wicket-takers", Title: "Top Wicket Takers", KeyLabel: "Bowler", ValueLabel: "Wickets",
			Series: stats.TopWicketTakers(view.Deliveries(), sel.Team, h.deps.Limit), Gold: true,
		})
	})
}

// VenuesPage renders wins by venue.
func (h *Handlers) VenuesPage(w http.ResponseWriter, r *http.Request) {
	h.deps.RenderPage(w, r, "/venues", func(sel common.Selection, ds *core.Dataset) templ.Component {
		view := filter.NewView(ds, sel.Team, sel.Season)
		if view.Empty() {
			return common.EmptySelection(view.Check())
		}
		return common.BarChart(common.Chart{
			ID: "venue-wins", Title: "Wins by Venue", KeyLabel: "Venue", ValueLabel: "Wins",
			Series: stats.VenueWins(view.Matches(), sel.Team),
		})
	})
}

// SelectionSSE stores the posted team and season in the session and sends
// the browser back to the page it came from.
func (h *Handlers) SelectionSSE(w http.ResponseWriter, r *http.Request) {
	// Read signals before creating the SSE, which consumes the body.
	var signals SelectionSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "invalid selection: "+err.Error(), http.StatusBadRequest)
		return
	}

	sel := h.deps.Normalize(common.Selection{Team: signals.Team, Season: signals.Season})
	if err := h.deps.SaveSelection(w, r, sel); err != nil {
		h.deps.Logger.Error("failed to save selection", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	target := signals.Path
	if !common.IsSection(target) {
		target = "/"
	}

	sse := datastar.NewSSE(w, r)
	if err := sse.Redirect(target); err != nil {
		_ = sse.ConsoleError(err)
	}
}

// Updates is the long-lived SSE endpoint. Pages are fully rendered on load,
// so it only pushes the banner when a notice is broadcast.
func (h *Handlers) Updates(w http.ResponseWriter, r *http.Request) {
	sse := datastar.NewSSE(w, r)

	updates := h.deps.Notifier.Subscribe()
	defer h.deps.Notifier.Unsubscribe(updates)

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case notice, ok := <-updates:
			if !ok {
				return
			}
			if err := sse.PatchElementTempl(common.Banner(&notice)); err != nil {
				_ = sse.ConsoleError(err)
			}
		}
	}
}
