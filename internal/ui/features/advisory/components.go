package advisory

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/crease/internal/advisory"
	"github.com/leapstack-labs/crease/internal/ui/features/common"
)

// ScenarioID is the element holding the selected scenario.
const ScenarioID = "scenario"

// StrategyView renders the strategy groups as lists.
func StrategyView(s advisory.Strategy) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := common.NewWriter(w)
		hw.Raw("<div class=\"strategy\"><h3>")
		hw.Text(s.Title)
		hw.Raw("</h3>")
		if s.Team != "" {
			hw.Raw("<p class=\"selection\">")
			hw.Text(s.Team)
			hw.Raw("</p>")
		}
		for _, g := range s.Groups {
			hw.Raw("<h4>")
			hw.Text(g.Title)
			hw.Raw("</h4><ul>")
			for _, item := range g.Items {
				hw.Raw("<li>")
				hw.Text(item)
				hw.Raw("</li>")
			}
			hw.Raw("</ul>")
		}
		hw.Raw("</div>")
		return hw.Err()
	})
}

// ImpactView renders the scenario selector and the first scenario's card.
func ImpactView(scenarios []advisory.Scenario) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := common.NewWriter(w)
		if len(scenarios) == 0 {
			hw.Component(ctx, common.NoData("No scenarios configured."))
			return hw.Err()
		}

		hw.Raw("<div data-signals:scenario=\"'")
		hw.Text(scenarios[0].Key)
		hw.Raw("'\"><label>Scenario <select data-bind:scenario data-on:change=\"@post('/api/impact')\">")
		for _, s := range scenarios {
			hw.Raw("<option value=\"")
			hw.Text(s.Key)
			hw.Raw("\">")
			hw.Text(s.Title)
			hw.Raw("</option>")
		}
		hw.Raw("</select></label>")
		hw.Component(ctx, ScenarioCard(scenarios[0]))
		hw.Raw("</div>")
		return hw.Err()
	})
}

// ScenarioCard renders one scenario.
func ScenarioCard(s advisory.Scenario) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := common.NewWriter(w)
		hw.Rawf("<div id=\"%s\" class=\"scenario\"><h3>", ScenarioID)
		hw.Text(s.Title)
		hw.Raw("</h3><p><strong>Situation:</strong> ")
		hw.Text(s.Situation)
		hw.Raw("</p><p><strong>Recommendation:</strong> ")
		hw.Text(s.Recommendation)
		hw.Raw("</p>")
		if len(s.Players) > 0 {
			hw.Raw("<p><strong>Impact players:</strong></p><ul>")
			for _, p := range s.Players {
				hw.Raw("<li>")
				hw.Text(p)
				hw.Raw("</li>")
			}
			hw.Raw("</ul>")
		}
		hw.Raw("</div>")
		return hw.Err()
	})
}

// ScenarioError replaces the scenario card with an error message.
func ScenarioError(msg string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := common.NewWriter(w)
		hw.Rawf("<div id=\"%s\" class=\"scenario error\">", ScenarioID)
		hw.Text(msg)
		hw.Raw("</div>")
		return hw.Err()
	})
}
