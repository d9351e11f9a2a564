package common

import (
	"context"
	"encoding/json"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/crease/internal/ui/notifier"
	"github.com/leapstack-labs/crease/internal/ui/resources"
	"github.com/leapstack-labs/crease/pkg/core"
)

// Element IDs patched over SSE.
const (
	BannerID  = "banner"
	ContentID = "content"
)

// Page renders a complete HTML document around data.Content.
func Page(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw("<!doctype html>\n<html lang=\"en\"><head><meta charset=\"utf-8\">")
		hw.Raw("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		hw.Raw("<title>")
		hw.Text(data.Title)
		hw.Raw(" - crease</title>")
		hw.Rawf("<link rel=\"stylesheet\" href=\"%s\">", resources.StaticPath("crease.css"))
		hw.Rawf("<script type=\"module\" src=\"%s\"></script>", resources.DatastarScript)
		hw.Raw("</head><body data-init=\"@get('/updates')\"><div class=\"layout\">")
		hw.Component(ctx, Sidebar(data.Sidebar))
		hw.Rawf("<main id=\"%s\">", ContentID)
		hw.Component(ctx, Banner(data.Notice))
		hw.Raw("<h2>")
		hw.Text(data.Title)
		hw.Raw("</h2>")
		hw.Component(ctx, data.Content)
		hw.Raw("</main></div></body></html>")
		return hw.Err()
	})
}

// Sidebar renders the navigation and the team and season selectors.
// Changing a selector posts the selection and reloads the current page.
func Sidebar(data SidebarData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		signals, err := json.Marshal(map[string]string{
			"team":   data.Selection.Team,
			"season": data.Selection.Season,
			"path":   data.CurrentPath,
		})
		if err != nil {
			return err
		}

		hw := NewWriter(w)
		hw.Raw("<aside id=\"sidebar\" class=\"sidebar\" data-signals=\"")
		hw.Text(string(signals))
		hw.Raw("\"><h1>crease</h1><nav>")
		for _, s := range Sections {
			class := ""
			if s.Path == data.CurrentPath {
				class = " class=\"active\""
			}
			hw.Rawf("<a href=\"%s\"%s>", templ.EscapeString(s.Path), class)
			hw.Text(s.Label)
			hw.Raw("</a>")
		}
		hw.Raw("</nav>")

		hw.Raw("<label>Team<select name=\"team\" data-bind:team data-on:change=\"@post('/api/selection')\">")
		writeOptions(hw, data.Teams, data.Selection.Team, nil)
		hw.Raw("</select></label>")

		hw.Raw("<label>Season<select name=\"season\" data-bind:season data-on:change=\"@post('/api/selection')\">")
		writeOptions(hw, data.Seasons, data.Selection.Season, map[string]string{"all": "All seasons"})
		hw.Raw("</select></label></aside>")
		return hw.Err()
	})
}

func writeOptions(hw *Writer, values []string, selected string, labels map[string]string) {
	for _, v := range values {
		attr := ""
		if v == selected {
			attr = " selected"
		}
		hw.Raw("<option value=\"")
		hw.Text(v)
		hw.Rawf("\"%s>", attr)
		if label, ok := labels[v]; ok {
			hw.Text(label)
		} else {
			hw.Text(v)
		}
		hw.Raw("</option>")
	}
}

// Banner renders the notice banner. The element is always present so SSE
// updates have a target.
func Banner(notice *notifier.Notice) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := NewWriter(w)
		if notice == nil {
			hw.Rawf("<div id=\"%s\"></div>", BannerID)
			return hw.Err()
		}
		hw.Rawf("<div id=\"%s\" class=\"banner\" role=\"status\">", BannerID)
		hw.Text(notice.Message)
		hw.Raw("</div>")
		return hw.Err()
	})
}

// NoData renders the empty-selection message.
func NoData(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw("<p class=\"no-data\">")
		hw.Text(message)
		hw.Raw("</p>")
		return hw.Err()
	})
}

// EmptySelection renders the no-data message for an empty team/season view.
func EmptySelection(err error) templ.Component {
	return NoData("No data: " + err.Error() + ".")
}

// Metric renders one headline number.
func Metric(label, value string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw("<div class=\"metric\"><div class=\"label\">")
		hw.Text(label)
		hw.Raw("</div><div class=\"value\">")
		hw.Text(value)
		hw.Raw("</div></div>")
		return hw.Err()
	})
}

// Metrics lays out metric cards in a row.
func Metrics(cards ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw("<div class=\"metrics\">")
		for _, c := range cards {
			hw.Component(ctx, c)
		}
		hw.Raw("</div>")
		return hw.Err()
	})
}

// Chart describes a horizontal bar chart of a series.
type Chart struct {
	ID         string
	Title      string
	KeyLabel   string
	ValueLabel string
	Series     core.Series
	Gold       bool
}

// BarChart renders c as a table of bars scaled to the largest value. An
// empty series renders the no-data message.
func BarChart(c Chart) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		hw.Raw("<section class=\"chart\" id=\"")
		hw.Text(c.ID)
		hw.Raw("\"><h3>")
		hw.Text(c.Title)
		hw.Raw("</h3>")

		if c.Series.Len() == 0 {
			hw.Component(ctx, NoData("No data for this selection."))
			hw.Raw("</section>")
			return hw.Err()
		}

		barClass := "bar"
		if c.Gold {
			barClass = "bar gold"
		}
		maxV := c.Series.Max()
		hw.Raw("<table><thead><tr><th>")
		hw.Text(c.KeyLabel)
		hw.Raw("</th><th></th><th>")
		hw.Text(c.ValueLabel)
		hw.Raw("</th></tr></thead><tbody>")
		for _, e := range c.Series {
			width := 0
			if maxV > 0 {
				width = e.Value * 100 / maxV
			}
			hw.Raw("<tr><td class=\"key\">")
			hw.Text(e.Key)
			hw.Rawf("</td><td><div class=\"%s\" style=\"width: %d%%\"></div></td><td class=\"num\">%s</td></tr>",
				barClass, width, strconv.Itoa(e.Value))
		}
		hw.Raw("</tbody></table></section>")
		return hw.Err()
	})
}

// Group renders components one after another.
func Group(parts ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		hw := NewWriter(w)
		for _, p := range parts {
			hw.Component(ctx, p)
		}
		return hw.Err()
	})
}
