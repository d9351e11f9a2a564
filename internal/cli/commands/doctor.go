package commands

import (
	"fmt"
	"os"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/crease/internal/cli/config"
	"github.com/leapstack-labs/crease/internal/cli/output"
	"github.com/leapstack-labs/crease/internal/dataset"
	"github.com/leapstack-labs/crease/internal/filter"
	"github.com/leapstack-labs/crease/internal/state"
	"github.com/leapstack-labs/crease/pkg/core"
	"github.com/leapstack-labs/crease/pkg/source"
)

// Check statuses.
const (
	StatusPass  = "pass"
	StatusWarn  = "warn"
	StatusError = "error"
)

// DoctorOptions holds options for the doctor command.
type DoctorOptions struct {
	Format string // Output format: text, markdown, json
}

// NewDoctorCommand creates the doctor command.
func NewDoctorCommand() *cobra.Command {
	opts := &DoctorOptions{}
	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check configuration, source and dataset health",
		Long: `Check that crease can load the dataset and report what it finds.

The doctor command checks:
- Configuration and the state database
- Source reachability and, for file sources, changes since the last load
- Required columns, row counts and the selected team
- Advisory content

Output adapts to environment:
  - Terminal: Styled output with colors
  - Piped/Scripted: Markdown format
  - JSON: Machine-readable format`,
		Example: `  # Run health check
  crease doctor

  # Output as JSON
  crease doctor --format json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runDoctor(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Format, "format", "f", "", "Output format: text, markdown, json")

	return cmd
}

// DoctorOutput is the JSON output for the doctor command.
type DoctorOutput struct {
	Summary         DatasetSummary `json:"summary"`
	HealthChecks    []HealthCheck  `json:"health_checks"`
	Score           int            `json:"score"`
	Recommendations []string       `json:"recommendations"`
	IssueCount      int            `json:"issue_count"`
}

// DatasetSummary describes the configuration and the loaded dataset.
type DatasetSummary struct {
	ConfigFile  string `json:"config_file,omitempty"`
	SourceType  string `json:"source_type"`
	Team        string `json:"team"`
	Season      string `json:"season"`
	Matches     int    `json:"matches"`
	Deliveries  int    `json:"deliveries"`
	Teams       int    `json:"teams"`
	Seasons     int    `json:"seasons"`
	FirstSeason string `json:"first_season,omitempty"`
	LastSeason  string `json:"last_season,omitempty"`
}

// HealthCheck represents a single health check result.
type HealthCheck struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Group   string   `json:"group"`
	Status  string   `json:"status"` // "pass", "warn", "error"
	Details []string `json:"details,omitempty"`
}

func runDoctor(cmd *cobra.Command, opts *DoctorOptions) error {
	cmdCtx := NewCommandContextWithoutSource(cmd)
	r := cmdCtx.Renderer
	if opts.Format != "" {
		r = rendererFor(cmd, opts.Format)
	}

	d := &doctor{cmd: cmd, ctx: cmdCtx}
	defer d.close()
	out := d.run()

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(out)
	case output.ModeMarkdown:
		return renderDoctorMarkdown(r, out)
	default:
		return renderDoctorText(r, out)
	}
}

// doctor runs the checks in order; later checks see what earlier ones set up.
type doctor struct {
	cmd    *cobra.Command
	ctx    *CommandContext
	checks []HealthCheck

	store *state.SQLiteStore
	src   core.Source
	ds    *core.Dataset
}

func (d *doctor) add(id, name, group, status string, details ...string) {
	d.checks = append(d.checks, HealthCheck{ID: id, Name: name, Group: group, Status: status, Details: details})
}

func (d *doctor) close() {
	if d.src != nil {
		_ = d.src.Close()
	}
	if d.store != nil {
		_ = d.store.Close()
	}
}

func (d *doctor) run() *DoctorOutput {
	cfg := d.ctx.Cfg
	team, season := selection(d.cmd, cfg)
	summary := DatasetSummary{
		ConfigFile: config.GetConfigFileUsed(),
		SourceType: cfg.SourceConfig().Type,
		Team:       team,
		Season:     season,
	}

	d.checkConfig()
	d.checkStore()
	if d.checkSource() {
		d.checkFiles()
		d.checkLoad()
	}
	if d.ds != nil {
		summary.Matches = len(d.ds.Matches)
		summary.Deliveries = len(d.ds.Deliveries)
		teams := filter.Teams(d.ds.Matches)
		seasons := filter.Seasons(d.ds.Matches)
		summary.Teams = len(teams)
		summary.Seasons = len(seasons)
		if len(seasons) > 0 {
			summary.FirstSeason = seasons[0]
			summary.LastSeason = seasons[len(seasons)-1]
		}
		d.checkSelection(teams, team, season)
		d.checkOrphans()
	}
	d.checkAdvisory()

	issues := 0
	for _, c := range d.checks {
		if c.Status != StatusPass {
			issues++
		}
	}
	return &DoctorOutput{
		Summary:         summary,
		HealthChecks:    d.checks,
		Score:           calculateHealthScore(d.checks),
		Recommendations: generateRecommendations(d.checks),
		IssueCount:      issues,
	}
}

func (d *doctor) checkConfig() {
	if f := config.GetConfigFileUsed(); f != "" {
		d.add("CF01", "Configuration file", "configuration", StatusPass, f)
		return
	}
	d.add("CF01", "Configuration file", "configuration", StatusWarn, "no crease.yaml found, using defaults")
}

func (d *doctor) checkStore() {
	store, err := openStore(d.ctx.Cfg, d.ctx.Logger)
	if err != nil {
		d.add("CF02", "State database", "configuration", StatusWarn, err.Error())
		return
	}
	d.store = store
	d.add("CF02", "State database", "configuration", StatusPass, store.Path())
}

func (d *doctor) checkSource() bool {
	cfg := d.ctx.Cfg
	if err := cfg.ValidateDataDir(); err != nil {
		d.add("SR01", "Source configured", "source", StatusError, firstLine(err.Error()))
		return false
	}
	src, err := source.New(cfg.SourceConfig(), d.ctx.Logger)
	if err != nil {
		d.add("SR01", "Source configured", "source", StatusError, err.Error())
		return false
	}
	d.src = src
	d.add("SR01", "Source configured", "source", StatusPass, src.Name())
	return true
}

func (d *doctor) checkFiles() {
	fs, ok := d.src.(core.FileSource)
	if !ok {
		return
	}

	var missing, changed, seen []string
	for table, path := range fs.Files() {
		if strings.Contains(path, "://") {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			missing = append(missing, fmt.Sprintf("%s: %s", table, path))
		}
	}
	if len(missing) > 0 {
		d.add("SR02", "Source files present", "source", StatusError, missing...)
		return
	}
	d.add("SR02", "Source files present", "source", StatusPass)

	var store core.LoadStore
	if d.store != nil {
		store = d.store
	}
	statuses, err := dataset.Inspect(fs.Files(), store)
	if err != nil {
		d.add("SR03", "Source files unchanged", "source", StatusWarn, err.Error())
		return
	}
	for _, st := range statuses {
		switch {
		case st.Changed():
			changed = append(changed, fmt.Sprintf("%s changed since last load", st.Path))
		case st.Previous == nil:
			seen = append(seen, fmt.Sprintf("%s not loaded before", st.Path))
		}
	}
	if len(changed) > 0 {
		d.add("SR03", "Source files unchanged", "source", StatusWarn, changed...)
		return
	}
	d.add("SR03", "Source files unchanged", "source", StatusPass, seen...)
}

func (d *doctor) checkLoad() {
	var store core.LoadStore
	if d.store != nil {
		store = d.store
	}
	loader := dataset.NewLoader(d.src, store, d.ctx.Logger)
	ds, err := loader.Dataset(d.cmd.Context())
	if err != nil {
		d.add("DT01", "Dataset loads", "data", StatusError, err.Error())
		return
	}
	d.ds = ds
	d.add("DT01", "Dataset loads", "data", StatusPass,
		fmt.Sprintf("%d matches, %d deliveries", len(ds.Matches), len(ds.Deliveries)))
}

func (d *doctor) checkSelection(teams []string, team, season string) {
	if !teamKnown(teams, team) {
		d.add("DT02", "Selected team present", "data", StatusWarn, fmt.Sprintf("no matches for %q", team))
		return
	}
	view := filter.NewView(d.ds, team, season)
	if err := view.Check(); err != nil {
		d.add("DT02", "Selected team present", "data", StatusWarn, err.Error())
		return
	}
	d.add("DT02", "Selected team present", "data", StatusPass,
		fmt.Sprintf("%d matches for %s", len(view.Matches()), output.SelectionLabel(team, view.Season())))
}

func (d *doctor) checkOrphans() {
	ids := d.ds.Matches.IDs()
	orphans := 0
	for _, del := range d.ds.Deliveries {
		if _, ok := ids[del.MatchID]; !ok {
			orphans++
		}
	}
	if orphans > 0 {
		d.add("DT03", "Deliveries reference known matches", "data", StatusWarn,
			fmt.Sprintf("%d deliveries reference unknown match ids", orphans))
		return
	}
	d.add("DT03", "Deliveries reference known matches", "data", StatusPass)
}

func (d *doctor) checkAdvisory() {
	content, err := d.ctx.Advisory()
	if err != nil {
		d.add("CT01", "Advisory content", "content", StatusError, err.Error())
		return
	}
	d.add("CT01", "Advisory content", "content", StatusPass,
		fmt.Sprintf("%d strategy groups, %d impact scenarios", len(content.Strategy.Groups), len(content.Scenarios)))
}

// calculateHealthScore computes a health score from 0-100.
func calculateHealthScore(checks []HealthCheck) int {
	score := 100
	for _, check := range checks {
		switch check.Status {
		case StatusError:
			score -= 25
		case StatusWarn:
			score -= 10
		}
	}
	return max(score, 0)
}

// generateRecommendations creates actionable recommendations based on findings.
func generateRecommendations(checks []HealthCheck) []string {
	var recommendations []string
	for _, check := range checks {
		if check.Status == StatusPass {
			continue
		}
		if rec := getRecommendation(check.ID); rec != "" {
			recommendations = append(recommendations, rec)
		}
	}
	return recommendations
}

// getRecommendation returns a recommendation for a specific check.
func getRecommendation(id string) string {
	switch id {
	case "CF01":
		return "Create crease.yaml in the project root to pin the data directory and team"
	case "CF02":
		return "Point state_path (or --state) at a writable location to record load history"
	case "SR01":
		return "Fix the source section of crease.yaml or pass --data-dir"
	case "SR02":
		return "Place matches.csv and deliveries.csv in the data directory or set source.matches and source.deliveries"
	case "SR03":
		return "Restart 'crease serve' to pick up the changed source files"
	case "DT01":
		return "Check the source tables for the required columns listed above"
	case "DT02":
		return "Choose a team and season that appear in the dataset (--team, --season)"
	case "DT03":
		return "Load the matching matches table for the deliveries table"
	case "CT01":
		return "Fix or remove the advisory file set by advisory_path"
	default:
		return ""
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func statusIcon(r *output.Renderer, status string) string {
	styles := r.Styles()
	switch status {
	case StatusWarn:
		return styles.Warning.Render("!")
	case StatusError:
		return styles.Error.Render("✗")
	default:
		return styles.Success.Render("✓")
	}
}

func renderDoctorText(r *output.Renderer, out *DoctorOutput) error {
	styles := r.Styles()

	r.Println("")
	r.Println(styles.Header1.Render("crease Health Report"))
	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	r.Println("")

	r.Println(styles.Header2.Render("Dataset Summary"))
	r.Printf("   Source: %s | Selection: %s\n", out.Summary.SourceType, output.SelectionLabel(out.Summary.Team, out.Summary.Season))
	r.Printf("   Matches: %s | Deliveries: %s\n", r.Number(out.Summary.Matches), r.Number(out.Summary.Deliveries))
	if out.Summary.Seasons > 0 {
		r.Printf("   Teams: %d | Seasons: %d (%s to %s)\n", out.Summary.Teams, out.Summary.Seasons, out.Summary.FirstSeason, out.Summary.LastSeason)
	}
	r.Println("")

	r.Println(styles.Header2.Render("Health Checks"))
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println(styles.Bold.Render("   " + titleCaser.String(currentGroup)))
			r.Println(styles.Muted.Render("   " + strings.Repeat("-", 40)))
		}
		r.Printf("   %s %s: %s\n", statusIcon(r, check.Status), check.ID, check.Name)
		for _, detail := range check.Details {
			r.Println(styles.Muted.Render("       - " + detail))
		}
	}
	r.Println("")

	r.Println(styles.Muted.Render(strings.Repeat("=", 55)))
	scoreStyle := styles.Success
	if out.Score < 70 {
		scoreStyle = styles.Warning
	}
	if out.Score < 50 {
		scoreStyle = styles.Error
	}
	r.Printf("   Health Score: %s\n", scoreStyle.Render(fmt.Sprintf("%d/100", out.Score)))
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println(styles.Header2.Render("Recommendations"))
		for i, rec := range out.Recommendations {
			r.Printf("   %d. %s\n", i+1, rec)
		}
		r.Println("")
	}
	return nil
}

func renderDoctorMarkdown(r *output.Renderer, out *DoctorOutput) error {
	r.Println("# crease Health Report")
	r.Println("")

	r.Println("## Dataset Summary")
	r.Println("")
	r.Printf("- **Source**: %s\n", out.Summary.SourceType)
	r.Printf("- **Selection**: %s\n", output.SelectionLabel(out.Summary.Team, out.Summary.Season))
	r.Printf("- **Matches**: %d\n", out.Summary.Matches)
	r.Printf("- **Deliveries**: %d\n", out.Summary.Deliveries)
	r.Printf("- **Teams**: %d\n", out.Summary.Teams)
	r.Printf("- **Seasons**: %d\n", out.Summary.Seasons)
	r.Println("")

	r.Println("## Health Checks")
	r.Println("")

	currentGroup := ""
	titleCaser := cases.Title(language.English)
	for _, check := range out.HealthChecks {
		if check.Group != currentGroup {
			currentGroup = check.Group
			r.Println("### " + titleCaser.String(currentGroup))
			r.Println("")
		}
		r.Printf("- **[%s]** %s: %s\n", strings.ToUpper(check.Status), check.ID, check.Name)
		for _, detail := range check.Details {
			r.Printf("  - %s\n", detail)
		}
	}
	r.Println("")

	r.Println("## Health Score")
	r.Println("")
	r.Printf("**%d/100**\n", out.Score)
	r.Println("")

	if len(out.Recommendations) > 0 {
		r.Println("## Recommendations")
		r.Println("")
		for i, rec := range out.Recommendations {
			r.Printf("%d. %s\n", i+1, rec)
		}
		r.Println("")
	}
	return nil
}
