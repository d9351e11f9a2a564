// Package tui provides the terminal dashboard: the same sections as the web
// dashboard, rendered as text charts in a bubbletea program.
package tui

import (
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/leapstack-labs/crease/internal/advisory"
	"github.com/leapstack-labs/crease/internal/cli/output"
	"github.com/leapstack-labs/crease/internal/filter"
	"github.com/leapstack-labs/crease/internal/stats"
	"github.com/leapstack-labs/crease/internal/winprob"
	"github.com/leapstack-labs/crease/pkg/core"
)

// Section is one dashboard page.
type Section int

// Sections in tab order.
const (
	SectionOverview Section = iota
	SectionSeasons
	SectionBatting
	SectionBowling
	SectionVenues
	SectionStrategy
	SectionImpact
	SectionWinprob
	sectionCount
)

var sectionTitles = [sectionCount]string{
	"Overview",
	"Season-wise Wins",
	"Top Batsmen",
	"Top Bowlers",
	"Venue Performance",
	"Auction Strategy",
	"Impact Player",
	"Win Probability",
}

// String returns the section title.
func (s Section) String() string {
	if s < 0 || s >= sectionCount {
		return "Unknown"
	}
	return sectionTitles[s]
}

// Win-probability form fields.
const (
	fieldScore = iota
	fieldWickets
	fieldOvers
	fieldCount
)

var fieldLabels = [fieldCount]string{"Score", "Wickets", "Overs"}

// Config holds what the dashboard shows.
type Config struct {
	Dataset   *core.Dataset
	Advisory  *advisory.Content
	Estimator *winprob.Estimator

	Team   string
	Season string
	Limit  int

	// Input and Output default to the process's stdin and stdout.
	Input  io.Reader
	Output io.Writer
}

// Model is the bubbletea model of the terminal dashboard.
type Model struct {
	ds        *core.Dataset
	advisory  *advisory.Content
	estimator *winprob.Estimator
	limit     int
	styles    *output.Styles

	section   Section
	teams     []string
	teamIdx   int
	seasons   []string
	seasonIdx int
	scenario  int

	inputs   [fieldCount]textinput.Model
	focus    int
	estimate string
	errMsg   string

	width    int
	quitting bool
}

// New creates the model for cfg. The configured team is kept in the team
// list even when the dataset has no match for it.
func New(cfg Config) Model {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	if cfg.Advisory == nil {
		cfg.Advisory = advisory.MustLoad()
	}
	if cfg.Estimator == nil {
		cfg.Estimator = winprob.New()
	}
	if cfg.Limit <= 0 {
		cfg.Limit = stats.DefaultLimit
	}
	ds := cfg.Dataset
	if ds == nil {
		ds = &core.Dataset{}
	}

	m := Model{
		ds:        ds,
		advisory:  cfg.Advisory,
		estimator: cfg.Estimator,
		limit:     cfg.Limit,
		styles:    output.NewStyles(lipgloss.NewRenderer(out)),
		teams:     filter.Teams(ds.Matches),
		seasons:   append([]string{filter.AllSeasons}, filter.Seasons(ds.Matches)...),
	}

	m.teamIdx = indexOf(m.teams, cfg.Team)
	if m.teamIdx < 0 {
		m.teams = append([]string{cfg.Team}, m.teams...)
		m.teamIdx = 0
	}
	if idx := indexOf(m.seasons, cfg.Season); idx >= 0 {
		m.seasonIdx = idx
	}

	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = ""
		ti.Placeholder = "0"
		ti.CharLimit = 6
		ti.Width = 8
		m.inputs[i] = ti
	}
	m.inputs[fieldScore].Focus()
	return m
}

func indexOf(values []string, v string) int {
	for i, s := range values {
		if s == v {
			return i
		}
	}
	return -1
}

// Team returns the selected team.
func (m Model) Team() string { return m.teams[m.teamIdx] }

// Season returns the selected season, or filter.AllSeasons.
func (m Model) Season() string { return m.seasons[m.seasonIdx] }

// Section returns the section on screen.
func (m Model) Section() Section { return m.section }

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.quitting = true
			return m, tea.Quit
		case "tab", "right":
			m.section = (m.section + 1) % sectionCount
			return m, nil
		case "shift+tab", "left":
			m.section = (m.section + sectionCount - 1) % sectionCount
			return m, nil
		}

		if m.section == SectionWinprob {
			return m.updateWinprob(msg)
		}
		return m.updateBrowse(msg), nil
	}

	return m, nil
}

func (m Model) updateBrowse(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "]":
		m.seasonIdx = (m.seasonIdx + 1) % len(m.seasons)
	case "[":
		m.seasonIdx = (m.seasonIdx + len(m.seasons) - 1) % len(m.seasons)
	case "t":
		m.teamIdx = (m.teamIdx + 1) % len(m.teams)
	case "T":
		m.teamIdx = (m.teamIdx + len(m.teams) - 1) % len(m.teams)
	case "up", "k":
		if m.section == SectionImpact && m.scenario > 0 {
			m.scenario--
		}
	case "down", "j":
		if m.section == SectionImpact && m.scenario < len(m.advisory.Scenarios)-1 {
			m.scenario++
		}
	default:
		if n, err := strconv.Atoi(msg.String()); err == nil && n >= 1 && n <= int(sectionCount) {
			m.section = Section(n - 1)
		}
	}
	return m
}

func (m Model) updateWinprob(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up":
		return m.focusField((m.focus + fieldCount - 1) % fieldCount), nil
	case "down":
		return m.focusField((m.focus + 1) % fieldCount), nil
	case "enter":
		return m.runEstimate(), nil
	case "esc":
		for i := range m.inputs {
			m.inputs[i].SetValue("")
		}
		m.estimate, m.errMsg = "", ""
		return m.focusField(fieldScore), nil
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) focusField(i int) Model {
	m.inputs[m.focus].Blur()
	m.focus = i
	m.inputs[m.focus].Focus()
	return m
}

// runEstimate parses the form and draws a fresh estimate.
func (m Model) runEstimate() Model {
	m.estimate, m.errMsg = "", ""

	in, err := m.formInput()
	if err != nil {
		m.errMsg = err.Error()
		return m
	}
	p, err := m.estimator.Estimate(in)
	if err != nil {
		m.errMsg = err.Error()
		return m
	}
	m.estimate = strconv.FormatFloat(p, 'f', 2, 64) + "%"
	return m
}

func (m Model) formInput() (winprob.Input, error) {
	var in winprob.Input
	values := [fieldCount]string{}
	for i := range m.inputs {
		values[i] = strings.TrimSpace(m.inputs[i].Value())
		if values[i] == "" {
			values[i] = "0"
		}
	}

	score, err := strconv.Atoi(values[fieldScore])
	if err != nil {
		return in, &fieldError{field: "score", value: values[fieldScore], want: "a whole number"}
	}
	wickets, err := strconv.Atoi(values[fieldWickets])
	if err != nil {
		return in, &fieldError{field: "wickets", value: values[fieldWickets], want: "a whole number"}
	}
	overs, err := strconv.ParseFloat(values[fieldOvers], 64)
	if err != nil {
		return in, &fieldError{field: "overs", value: values[fieldOvers], want: "a number"}
	}
	return winprob.Input{Score: score, Wickets: wickets, Overs: overs}, nil
}

type fieldError struct {
	field, value, want string
}

func (e *fieldError) Error() string {
	return e.field + " must be " + e.want + ", got " + strconv.Quote(e.value)
}
