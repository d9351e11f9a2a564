package common

import (
	"context"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/leapstack-labs/crease/internal/filter"
	"github.com/leapstack-labs/crease/pkg/core"
)

// SessionName is the cookie session holding the selection.
const SessionName = "crease"

const (
	sessionTeam   = "team"
	sessionSeason = "season"
)

// LoadSelection returns the visitor's selection, falling back to the
// configured defaults for anything the session does not hold.
func (d *Deps) LoadSelection(r *http.Request) Selection {
	sel := d.Defaults
	if sel.Season == "" {
		sel.Season = filter.AllSeasons
	}
	if d.Sessions == nil {
		return sel
	}

	// A cookie that fails to decode yields a fresh session; the defaults apply.
	session, _ := d.Sessions.Get(r, SessionName)
	if team, ok := session.Values[sessionTeam].(string); ok && team != "" {
		sel.Team = team
	}
	if season, ok := session.Values[sessionSeason].(string); ok && season != "" {
		sel.Season = season
	}
	return sel
}

// SaveSelection stores sel in the visitor's session.
func (d *Deps) SaveSelection(w http.ResponseWriter, r *http.Request, sel Selection) error {
	session, _ := d.Sessions.Get(r, SessionName)
	session.Values[sessionTeam] = sel.Team
	session.Values[sessionSeason] = sel.Season
	return session.Save(r, w)
}

// Normalize trims sel and fills blanks from the defaults.
func (d *Deps) Normalize(sel Selection) Selection {
	sel.Team = strings.TrimSpace(sel.Team)
	sel.Season = strings.TrimSpace(sel.Season)
	if sel.Team == "" {
		sel.Team = d.Defaults.Team
	}
	if sel.Season == "" || filter.IsAllSeasons(sel.Season) {
		sel.Season = filter.AllSeasons
	}
	return sel
}

// RenderPage writes the full page for path. content builds the section body
// from the selection and the loaded dataset.
func (d *Deps) RenderPage(w http.ResponseWriter, r *http.Request, path string, content func(sel Selection, ds *core.Dataset) templ.Component) {
	ds, err := d.Provider.Dataset(r.Context())
	if err != nil {
		d.Logger.Error("dataset unavailable", "error", err)
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	sel := d.LoadSelection(r)
	data := PageData{
		Title:   SectionLabel(path),
		Sidebar: BuildSidebar(path, sel, ds),
		Content: content(sel, ds),
	}
	if notice, ok := d.Notifier.Latest(); ok {
		data.Notice = &notice
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := Page(data).Render(r.Context(), w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// BuildSidebar lists the teams and seasons of ds for the selection controls.
// The selected team is kept in the list even when the data has no match for it.
func BuildSidebar(path string, sel Selection, ds *core.Dataset) SidebarData {
	teams := filter.Teams(ds.Matches)
	found := false
	for _, t := range teams {
		if t == sel.Team {
			found = true
			break
		}
	}
	if !found && sel.Team != "" {
		teams = append([]string{sel.Team}, teams...)
	}

	return SidebarData{
		CurrentPath: path,
		Selection:   sel,
		Teams:       teams,
		Seasons:     append([]string{filter.AllSeasons}, filter.Seasons(ds.Matches)...),
	}
}

// SectionLabel returns the sidebar label of path.
func SectionLabel(path string) string {
	for _, s := range Sections {
		if s.Path == path {
			return s.Label
		}
	}
	return "crease"
}

// SelectionLabel describes sel for headings.
func SelectionLabel(sel Selection) string {
	if filter.IsAllSeasons(sel.Season) {
		return sel.Team + ", all seasons"
	}
	return sel.Team + ", season " + sel.Season
}

// FormatPct renders a win percentage, or "no data" for the NaN sentinel.
func FormatPct(pct float64) string {
	if math.IsNaN(pct) {
		return "no data"
	}
	return fmt.Sprintf("%.2f%%", pct)
}

// Writer writes HTML fragments and keeps the first error.
type Writer struct {
	w   io.Writer
	err error
}

// NewWriter wraps w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Raw writes s unescaped.
func (hw *Writer) Raw(s string) {
	if hw.err != nil {
		return
	}
	_, hw.err = io.WriteString(hw.w, s)
}

// Rawf writes a formatted string unescaped. Arguments must already be safe.
func (hw *Writer) Rawf(format string, args ...any) {
	hw.Raw(fmt.Sprintf(format, args...))
}

// Text writes s HTML-escaped.
func (hw *Writer) Text(s string) {
	hw.Raw(templ.EscapeString(s))
}

// Component renders c in place.
func (hw *Writer) Component(ctx context.Context, c templ.Component) {
	if hw.err != nil || c == nil {
		return
	}
	hw.err = c.Render(ctx, hw.w)
}

// Err returns the first write error.
func (hw *Writer) Err() error {
	return hw.err
}
