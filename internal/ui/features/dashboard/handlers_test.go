package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/crease/internal/dataset"
	"github.com/leapstack-labs/crease/internal/ui/features"
	"github.com/leapstack-labs/crease/internal/ui/features/common"
	"github.com/leapstack-labs/crease/pkg/core"
)

// =============================================================================
// Test Setup Helpers
// =============================================================================

func setupRoutes(fixture *features.TestFixture) func(chi.Router) error {
	return func(r chi.Router) error {
		return SetupRoutes(r, fixture.Deps)
	}
}

func get(t *testing.T, fixture *features.TestFixture, path string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return features.Serve(t, setupRoutes(fixture), req)
}

// selectCookie posts a selection and returns the session cookie it sets.
func selectCookie(t *testing.T, fixture *features.TestFixture, team, season string) *http.Cookie {
	t.Helper()
	req := features.SignalsRequest(t, "/api/selection", SelectionSignals{Team: team, Season: season, Path: "/"})
	rec := features.Serve(t, setupRoutes(fixture), req)
	require.Equal(t, http.StatusOK, rec.Code)

	for _, c := range rec.Result().Cookies() {
		if c.Name == common.SessionName {
			return c
		}
	}
	t.Fatal("selection did not set a session cookie")
	return nil
}

// =============================================================================
// Page Tests - server-rendered sections
// =============================================================================

func TestPages(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		chartID  string
		wantRows [][2]string
	}{
		{
			name:     "overview shows matches per season",
			path:     "/",
			chartID:  "season-matches",
			wantRows: [][2]string{{"2008", "2"}, {"2009", "1"}},
		},
		{
			name:     "seasons shows wins per season",
			path:     "/seasons",
			chartID:  "season-wins",
			wantRows: [][2]string{{"2008", "1"}, {"2009", "1"}},
		},
		{
			name:     "batting ranks run scorers",
			path:     "/batting",
			chartID:  "top-run-scorers",
			wantRows: [][2]string{{"A", "10"}, {"B", "3"}},
		},
		{
			name:     "bowling excludes run outs",
			path:     "/bowling",
			chartID:  "top-wicket-takers",
			wantRows: [][2]string{{"Malinga", "2"}, {"Bumrah", "1"}},
		},
		{
			name:     "venues break ties by name",
			path:     "/venues",
			chartID:  "venue-wins",
			wantRows: [][2]string{{"Kingsmead", "1"}, {"Wankhede Stadium", "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := features.SetupTestFixture(t)

			rec := get(t, fixture, tt.path)
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

			body := rec.Body.String()
			assert.Contains(t, body, "<!doctype html>")
			assert.Contains(t, body, "/updates")
			assert.Contains(t, body, "<title>"+common.SectionLabel(tt.path)+" - crease</title>")

			doc := features.ParseHTML(t, body)
			chart := features.FindByID(doc, tt.chartID)
			require.NotNil(t, chart, "chart %q should be rendered", tt.chartID)
			assert.Equal(t, tt.wantRows, features.RowsOf(chart))
		})
	}
}

func TestOverviewPage_Metrics(t *testing.T) {
	fixture := features.SetupTestFixture(t)

	rec := get(t, fixture, "/")
	require.Equal(t, http.StatusOK, rec.Code)

	text := features.TextContent(features.ParseHTML(t, rec.Body.String()))
	assert.Contains(t, text, "Mumbai Indians, all seasons")
	assert.Contains(t, text, "Matches3")
	assert.Contains(t, text, "Wins2")
	assert.Contains(t, text, "Win rate66.67%")
}

func TestPages_SidebarMarksCurrentSection(t *testing.T) {
	fixture := features.SetupTestFixture(t)

	rec := get(t, fixture, "/bowling")
	body := rec.Body.String()
	assert.Contains(t, body, `<a href="/bowling" class="active">`)
	assert.Contains(t, body, `<a href="/batting">`)
	assert.Contains(t, body, `<option value="Mumbai Indians" selected>`)
	assert.Contains(t, body, `<option value="all" selected>All seasons</option>`)
}

func TestPages_EmptySelection(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	cookie := selectCookie(t, fixture, "Mumbai Indians", "2010")

	for _, path := range []string{"/", "/seasons", "/batting", "/bowling", "/venues"} {
		t.Run(path, func(t *testing.T) {
			rec := get(t, fixture, path, cookie)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Body.String(), "No data: no matches for Mumbai Indians in season 2010.")
		})
	}
}

func TestBattingPage_EmptySeries(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	// Mumbai Indians only bowled in their 2009 match.
	cookie := selectCookie(t, fixture, "Mumbai Indians", "2009")

	rec := get(t, fixture, "/batting", cookie)
	doc := features.ParseHTML(t, rec.Body.String())
	chart := features.FindByID(doc, "top-run-scorers")
	require.NotNil(t, chart)
	assert.Contains(t, features.TextContent(chart), "No data for this selection.")
}

func TestPages_DatasetUnavailable(t *testing.T) {
	fixture := features.SetupTestFixtureWithProvider(t, dataset.Static{Err: &core.DataUnavailableError{Source: "csv", Table: "matches", Reason: "file not found"}})

	rec := get(t, fixture, "/")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), "data unavailable")
}

// =============================================================================
// Selection Tests
// =============================================================================

func TestSelectionSSE(t *testing.T) {
	fixture := features.SetupTestFixture(t)

	req := features.SignalsRequest(t, "/api/selection", SelectionSignals{Team: "Chennai Super Kings", Season: "2008", Path: "/venues"})
	rec := features.Serve(t, setupRoutes(fixture), req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/venues", "redirects back to the posted section")

	var cookie *http.Cookie
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.SessionName {
			cookie = c
		}
	}
	require.NotNil(t, cookie)

	page := get(t, fixture, "/", cookie)
	text := features.TextContent(features.ParseHTML(t, page.Body.String()))
	assert.Contains(t, text, "Chennai Super Kings, season 2008")
	assert.Contains(t, text, "Matches1")
	assert.Contains(t, text, "Win rate0.00%")
}

func TestSelectionSSE_UnknownPathRedirectsHome(t *testing.T) {
	fixture := features.SetupTestFixture(t)

	req := features.SignalsRequest(t, "/api/selection", SelectionSignals{Team: "", Season: "", Path: "https://example.com"})
	rec := features.Serve(t, setupRoutes(fixture), req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "example.com")
}

func TestSelectionSSE_InvalidBody(t *testing.T) {
	fixture := features.SetupTestFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/api/selection", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	rec := features.Serve(t, setupRoutes(fixture), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// Updates Tests - SSE endpoint for notices only
// =============================================================================

func TestUpdates_SendsBannerOnBroadcast(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	h := NewHandlers(fixture.Deps)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 300*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		h.Updates(rec, req)
		close(done)
	}()

	time.Sleep(50 * time.Millisecond)
	fixture.Notifier.Broadcast("matches.csv changed on disk")
	<-done

	body := rec.Body.String()
	assert.GreaterOrEqual(t, strings.Count(body, "event:"), 1, "should have at least 1 SSE event from broadcast")
	assert.Contains(t, body, "matches.csv changed on disk")
	assert.Contains(t, body, common.BannerID)
}

func TestUpdates_NoInitialState(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	h := NewHandlers(fixture.Deps)

	req := httptest.NewRequest(http.MethodGet, "/updates", nil)
	ctx, cancel := context.WithTimeout(req.Context(), 50*time.Millisecond)
	defer cancel()
	req = req.WithContext(ctx)
	rec := httptest.NewRecorder()

	h.Updates(rec, req)

	assert.Equal(t, 0, strings.Count(rec.Body.String(), "event:"), "should have no SSE events without broadcast")
}

func TestPages_ShowLatestNotice(t *testing.T) {
	fixture := features.SetupTestFixture(t)
	fixture.Notifier.Broadcast("deliveries.csv changed on disk")

	rec := get(t, fixture, "/seasons")
	banner := features.FindByID(features.ParseHTML(t, rec.Body.String()), common.BannerID)
	require.NotNil(t, banner)
	assert.Equal(t, "deliveries.csv changed on disk", features.TextContent(banner))
}

func TestEmptySelectionComponent(t *testing.T) {
	var b strings.Builder
	err := common.EmptySelection(errors.New("no matches for X")).Render(context.Background(), &b)
	require.NoError(t, err)
	assert.Equal(t, `<p class="no-data">No data: no matches for X.</p>`, b.String())
}
