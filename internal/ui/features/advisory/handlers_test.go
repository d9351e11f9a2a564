package advisory

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/crease/internal/ui/features"
)

func setupRoutes(fixture *features.TestFixture) func(chi.Router) error {
	return func(r chi.Router) error {
		return SetupRoutes(r, fixture.Deps)
	}
}

func TestStrategyPage(t *testing.T) {
	fixture := features.SetupTestFixture(t)

	rec := features.Serve(t, setupRoutes(fixture), httptest.NewRequest(http.MethodGet, "/strategy", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	strategy := fixture.Deps.Advisory.Strategy
	assert.Contains(t, body, "<title>Auction Strategy - crease</title>")
	assert.Contains(t, body, strategy.Title)
	for _, g := range strategy.Groups {
		assert.Contains(t, body, "<h4>"+g.Title+"</h4>")
	}
	assert.Contains(t, body, "<li>Jasprit Bumrah</li>")
}

func TestImpactPage(t *testing.T) {
	fixture := features.SetupTestFixture(t)

	rec := features.Serve(t, setupRoutes(fixture), httptest.NewRequest(http.MethodGet, "/impact", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	doc := features.ParseHTML(t, rec.Body.String())
	card := features.FindByID(doc, ScenarioID)
	require.NotNil(t, card)

	first := fixture.Deps.Advisory.Scenarios[0]
	assert.Contains(t, features.TextContent(card), first.Recommendation)
	for _, s := range fixture.Deps.Advisory.Scenarios {
		assert.Contains(t, rec.Body.String(), `<option value="`+s.Key+`">`)
	}
}

func TestScenarioSSE(t *testing.T) {
	tests := []struct {
		name     string
		scenario string
		want     string
	}{
		{"known scenario", "spin-track", "Add a wrist spinner"},
		{"unknown scenario", "rain-delay", `Unknown scenario &#34;rain-delay&#34;`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fixture := features.SetupTestFixture(t)

			req := features.SignalsRequest(t, "/api/impact", ScenarioSignals{Scenario: tt.scenario})
			rec := features.Serve(t, setupRoutes(fixture), req)
			require.Equal(t, http.StatusOK, rec.Code)

			body := rec.Body.String()
			assert.Contains(t, body, "event: datastar-patch-elements")
			assert.Contains(t, body, `id="scenario"`)
			assert.Contains(t, body, tt.want)
		})
	}
}
