package output

import "github.com/charmbracelet/lipgloss"

// Colors shared by the CLI and the terminal dashboard.
var (
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#004BA0", Dark: "#4D9DE0"}
	ColorSuccess = lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#66BB6A"}
	ColorWarning = lipgloss.AdaptiveColor{Light: "#B26A00", Dark: "#FFB74D"}
	ColorError   = lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#EF5350"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
)

// Styles holds the lipgloss styles for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Bar     lipgloss.Style
	Key     lipgloss.Style
}

// NewStyles creates styles bound to a lipgloss renderer.
func NewStyles(r *lipgloss.Renderer) *Styles {
	return &Styles{
		Header1: r.NewStyle().Bold(true).Foreground(ColorAccent).Underline(true),
		Header2: r.NewStyle().Bold(true).Foreground(ColorAccent),
		Bold:    r.NewStyle().Bold(true),
		Muted:   r.NewStyle().Foreground(ColorMuted),
		Success: r.NewStyle().Foreground(ColorSuccess),
		Warning: r.NewStyle().Foreground(ColorWarning),
		Error:   r.NewStyle().Foreground(ColorError).Bold(true),
		Info:    r.NewStyle().Foreground(ColorAccent),
		Bar:     r.NewStyle().Foreground(ColorAccent),
		Key:     r.NewStyle().Foreground(ColorMuted).Width(14),
	}
}
