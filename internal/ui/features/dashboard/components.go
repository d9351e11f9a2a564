package dashboard

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/crease/internal/stats"
	"github.com/leapstack-labs/crease/internal/ui/features/common"
	"github.com/leapstack-labs/crease/pkg/core"
)

// Overview renders the headline numbers and the matches-per-season chart.
func Overview(sel common.Selection, rec stats.WinRecord, participation core.Series) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := common.NewWriter(w)
		hw.Raw("<p class=\"selection\">")
		hw.Text(common.SelectionLabel(sel))
		hw.Raw("</p>")
		hw.Component(ctx, common.Metrics(
			common.Metric("Matches", strconv.Itoa(rec.Total)),
			common.Metric("Wins", strconv.Itoa(rec.Wins)),
			common.Metric("Win rate", common.FormatPct(rec.WinPct)),
		))
		hw.Component(ctx, common.BarChart(common.Chart{
			ID: "season-matches", Title: "Matches per Season", KeyLabel: "Season", ValueLabel: "Matches",
			Series: participation,
		}))
		return hw.Err()
	})
}
