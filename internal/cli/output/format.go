package output

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// DefaultBarWidth is the width of the longest bar in a text chart.
const DefaultBarWidth = 30

// FormatHeader formats a header for the given mode.
func FormatHeader(mode OutputMode, styles *Styles, level int, title string) string {
	if mode != ModeText {
		return strings.Repeat("#", max(level, 1)) + " " + title
	}
	if level <= 1 {
		return styles.Header1.Render(title)
	}
	return styles.Header2.Render(title)
}

// FormatKeyValue formats a labelled value.
func FormatKeyValue(mode OutputMode, styles *Styles, key, value string) string {
	if mode != ModeText {
		return fmt.Sprintf("- **%s:** %s", key, value)
	}
	return styles.Key.Render(key+":") + " " + value
}

// Bar returns a bar of width proportional to value/maxValue.
// A positive value always gets at least one cell.
func Bar(value, maxValue, width int) string {
	if value <= 0 || maxValue <= 0 || width <= 0 {
		return ""
	}
	n := value * width / maxValue
	if n == 0 {
		n = 1
	}
	return strings.Repeat("█", min(n, width))
}

// Table renders rows under headers: a light box table in text mode, a pipe
// table otherwise. Numeric columns are right-aligned.
func (r *Renderer) Table(headers []string, rows [][]any, numeric ...int) {
	t := table.NewWriter()
	t.SetOutputMirror(r.out)
	t.SetStyle(table.StyleLight)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)
	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}

	configs := make([]table.ColumnConfig, 0, len(numeric))
	for _, col := range numeric {
		configs = append(configs, table.ColumnConfig{Number: col, Align: text.AlignRight})
	}
	t.SetColumnConfigs(configs)

	if r.EffectiveMode() == ModeText {
		t.Render()
		return
	}
	t.RenderMarkdown()
}
