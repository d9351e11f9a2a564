package calculator

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/crease/internal/ui/features/common"
	"github.com/leapstack-labs/crease/internal/winprob"
)

// EstimateID is the element holding the latest estimate.
const EstimateID = "estimate"

// Form renders the three inputs and the estimate target.
func Form() templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := common.NewWriter(w)
		hw.Raw("<form class=\"calc\" data-signals=\"{score: 0, wickets: 0, overs: 0}\" data-on:submit__prevent=\"@post('/api/winprob')\">")
		hw.Raw("<label>Current score<input type=\"number\" name=\"score\" min=\"0\" step=\"1\" data-bind:score></label>")
		hw.Rawf("<label>Wickets lost<input type=\"number\" name=\"wickets\" min=\"0\" max=\"%d\" step=\"1\" data-bind:wickets></label>", winprob.MaxWickets)
		hw.Rawf("<label>Overs bowled<input type=\"number\" name=\"overs\" min=\"0\" max=\"%g\" step=\"%g\" data-bind:overs></label>", winprob.MaxOvers, winprob.OversStep)
		hw.Raw("<button type=\"submit\">Estimate</button></form>")
		hw.Rawf("<div id=\"%s\"></div>", EstimateID)
		hw.Raw("<p class=\"no-data\">The estimate adds random noise of up to ")
		hw.Rawf("%d points either way, so the same inputs give different answers.</p>", winprob.NoiseRange)
		return hw.Err()
	})
}

// Estimate renders one estimate.
func Estimate(in winprob.Input, p float64) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := common.NewWriter(w)
		hw.Rawf("<div id=\"%s\"><div class=\"estimate\">Win probability: %.2f%%</div>", EstimateID, p)
		hw.Raw("<p class=\"selection\">")
		hw.Text(fmt.Sprintf("%d/%d after %g overs, run rate %.2f", in.Score, in.Wickets, in.Overs, in.RunRate()))
		hw.Raw("</p></div>")
		return hw.Err()
	})
}

// EstimateError replaces the estimate with an error message.
func EstimateError(msg string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := common.NewWriter(w)
		hw.Rawf("<div id=\"%s\" class=\"error\">", EstimateID)
		hw.Text(msg)
		hw.Raw("</div>")
		return hw.Err()
	})
}
