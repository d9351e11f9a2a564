package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/crease/internal/cli/output"
	"github.com/leapstack-labs/crease/internal/filter"
	"github.com/leapstack-labs/crease/internal/stats"
	"github.com/leapstack-labs/crease/pkg/core"
)

const barWidth = output.DefaultBarWidth

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.styles.Header1.Render("crease") + "  " + m.styles.Muted.Render(output.SelectionLabel(m.Team(), m.Season())))
	b.WriteString("\n\n")
	b.WriteString(m.tabs())
	b.WriteString("\n\n")
	b.WriteString(m.styles.Header2.Render(m.section.String()))
	b.WriteString("\n\n")
	b.WriteString(m.body())
	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(m.help()))
	b.WriteString("\n")
	return b.String()
}

func (m Model) tabs() string {
	parts := make([]string, sectionCount)
	for i := Section(0); i < sectionCount; i++ {
		label := fmt.Sprintf("%d %s", i+1, i)
		if i == m.section {
			parts[i] = m.styles.Bold.Render("[" + label + "]")
		} else {
			parts[i] = m.styles.Muted.Render(" " + label + " ")
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) help() string {
	switch m.section {
	case SectionWinprob:
		return "up/down field • enter estimate • esc clear • tab section • q quit"
	case SectionImpact:
		return "up/down scenario • tab section • q quit"
	case SectionStrategy:
		return "tab section • q quit"
	default:
		return "tab/1-8 section • [ ] season • t/T team • q quit"
	}
}

func (m Model) body() string {
	switch m.section {
	case SectionStrategy:
		return m.strategyView()
	case SectionImpact:
		return m.impactView()
	case SectionWinprob:
		return m.winprobView()
	}

	view := filter.NewView(m.ds, m.Team(), m.Season())
	if view.Empty() {
		return m.styles.Muted.Render("No data: "+view.Check().Error()+".") + "\n"
	}

	switch m.section {
	case SectionSeasons:
		participation := stats.SeasonParticipation(view.Matches())
		wins := stats.ZeroFill(stats.SeasonWins(view.Matches(), m.Team()), participation.Keys())
		return m.chart("Wins per Season", wins) + "\n" + m.chart("Matches per Season", participation)
	case SectionBatting:
		return m.chart("Runs", stats.TopRunScorers(view.Deliveries(), m.Team(), m.limit))
	case SectionBowling:
		return m.chart("Wickets", stats.TopWicketTakers(view.Deliveries(), m.Team(), m.limit))
	case SectionVenues:
		return m.chart("Wins by Venue", stats.VenueWins(view.Matches(), m.Team()))
	default:
		return m.overview(stats.TotalAndWins(view.Matches(), m.Team()), stats.SeasonParticipation(view.Matches()))
	}
}

func (m Model) overview(rec stats.WinRecord, participation core.Series) string {
	pct := "no data"
	if !math.IsNaN(rec.WinPct) {
		pct = fmt.Sprintf("%.2f%%", rec.WinPct)
	}

	var b strings.Builder
	for _, kv := range [][2]string{
		{"Matches", strconv.Itoa(rec.Total)},
		{"Wins", strconv.Itoa(rec.Wins)},
		{"Win rate", pct},
	} {
		b.WriteString(m.styles.Key.Render(kv[0]) + m.styles.Bold.Render(kv[1]) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(m.chart("Matches per Season", participation))
	return b.String()
}

// chart renders series as one bar per line, keys padded to a common width.
func (m Model) chart(title string, series core.Series) string {
	var b strings.Builder
	b.WriteString(m.styles.Bold.Render(title) + "\n")
	if series.Len() == 0 {
		b.WriteString(m.styles.Muted.Render("No data for this selection.") + "\n")
		return b.String()
	}

	keyWidth := 0
	for _, e := range series {
		keyWidth = max(keyWidth, lipgloss.Width(e.Key))
	}
	maxV := series.Max()
	for _, e := range series {
		pad := strings.Repeat(" ", keyWidth-lipgloss.Width(e.Key))
		bar := output.Bar(e.Value, maxV, barWidth)
		b.WriteString(fmt.Sprintf("%s%s  %s %d\n", e.Key, pad, m.styles.Bar.Render(bar), e.Value))
	}
	return b.String()
}

func (m Model) strategyView() string {
	s := m.advisory.Strategy
	var b strings.Builder
	b.WriteString(m.styles.Bold.Render(s.Title) + "\n")
	for _, g := range s.Groups {
		b.WriteString("\n" + m.styles.Info.Render(g.Title) + "\n")
		for _, item := range g.Items {
			b.WriteString("  • " + item + "\n")
		}
	}
	return b.String()
}

func (m Model) impactView() string {
	scenarios := m.advisory.Scenarios
	if len(scenarios) == 0 {
		return m.styles.Muted.Render("No scenarios configured.") + "\n"
	}

	var b strings.Builder
	for i, s := range scenarios {
		if i == m.scenario {
			b.WriteString(m.styles.Bold.Render("> "+s.Title) + "\n")
		} else {
			b.WriteString("  " + s.Title + "\n")
		}
	}

	s := scenarios[m.scenario]
	b.WriteString("\n" + m.styles.Key.Render("Situation") + s.Situation + "\n")
	b.WriteString(m.styles.Key.Render("Recommended") + s.Recommendation + "\n")
	if len(s.Players) > 0 {
		b.WriteString(m.styles.Key.Render("Players") + strings.Join(s.Players, ", ") + "\n")
	}
	return b.String()
}

func (m Model) winprobView() string {
	var b strings.Builder
	for i := range m.inputs {
		label := m.styles.Key.Render(fieldLabels[i])
		if i == m.focus {
			label = m.styles.Key.Inherit(m.styles.Bold).Render(fieldLabels[i])
		}
		b.WriteString(label + m.inputs[i].View() + "\n")
	}
	b.WriteString("\n")

	switch {
	case m.errMsg != "":
		b.WriteString(m.styles.Error.Render(m.errMsg) + "\n")
	case m.estimate != "":
		b.WriteString(m.styles.Bold.Render("Win probability: ") + m.styles.Info.Render(m.estimate) + "\n")
	default:
		b.WriteString(m.styles.Muted.Render("Enter the innings state and press enter.") + "\n")
	}
	return b.String()
}
