// Package features provides shared test utilities for UI feature tests.
package features

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/sessions"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/leapstack-labs/crease/internal/advisory"
	"github.com/leapstack-labs/crease/internal/dataset"
	"github.com/leapstack-labs/crease/internal/testutil"
	"github.com/leapstack-labs/crease/internal/ui/features/common"
	"github.com/leapstack-labs/crease/internal/ui/notifier"
	"github.com/leapstack-labs/crease/internal/winprob"
)

// MidNoise makes every estimate noise-free: IntN(21) returns 10.
type MidNoise struct{}

// IntN returns n/2.
func (MidNoise) IntN(n int) int { return n / 2 }

// TestFixture holds all dependencies needed for UI handler tests.
type TestFixture struct {
	Deps     *common.Deps
	Notifier *notifier.Notifier
}

// SetupTestFixture creates dependencies over the fixture dataset with the
// fixture team selected and noise-free estimates.
func SetupTestFixture(t *testing.T) *TestFixture {
	t.Helper()
	return SetupTestFixtureWithProvider(t, dataset.Static{DS: testutil.Dataset()})
}

// SetupTestFixtureWithProvider is SetupTestFixture over an explicit provider.
func SetupTestFixtureWithProvider(t *testing.T, provider dataset.Provider) *TestFixture {
	t.Helper()

	notify := notifier.New()
	return &TestFixture{
		Deps: &common.Deps{
			Provider:  provider,
			Advisory:  advisory.MustLoad(),
			Estimator: winprob.WithRand(MidNoise{}),
			Sessions:  NewTestSessionStore(),
			Notifier:  notify,
			Defaults:  common.Selection{Team: testutil.FixtureTeam, Season: "all"},
			Limit:     10,
			Logger:    testutil.NewTestLogger(t),
		},
		Notifier: notify,
	}
}

// NewTestSessionStore creates a session store for testing.
func NewTestSessionStore() *sessions.CookieStore {
	return sessions.NewCookieStore([]byte("test-secret-key-32-bytes-long!!"))
}

// Serve runs a request against a router configured by setup.
func Serve(t *testing.T, setup func(chi.Router) error, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	r := chi.NewRouter()
	require.NoError(t, setup(r))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

// SignalsRequest builds a Datastar POST carrying signals as its JSON body.
func SignalsRequest(t *testing.T, path string, signals any) *http.Request {
	t.Helper()
	body, err := json.Marshal(signals)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Datastar-Request", "true")
	return req
}

// ParseHTML parses body and fails the test on invalid markup.
func ParseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

// FindByID returns the element with id, or nil.
func FindByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, a := range n.Attr {
			if a.Key == "id" && a.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := FindByID(c, id); found != nil {
			return found
		}
	}
	return nil
}

// TextContent returns the concatenated text below n.
func TextContent(n *html.Node) string {
	if n == nil {
		return ""
	}
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return b.String()
}

// RowsOf returns the [key, value] cells of every body row of the chart table
// below n.
func RowsOf(n *html.Node) [][2]string {
	var rows [][2]string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "tr" {
			var cells []string
			for c := n.FirstChild; c != nil; c = c.NextSibling {
				if c.Type == html.ElementNode && c.Data == "td" {
					cells = append(cells, strings.TrimSpace(TextContent(c)))
				}
			}
			if len(cells) == 3 {
				rows = append(rows, [2]string{cells[0], cells[2]})
			}
			return
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return rows
}
