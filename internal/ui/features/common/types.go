// Package common provides shared types and utilities for UI features.
package common

import (
	"log/slog"

	"github.com/a-h/templ"
	"github.com/gorilla/sessions"

	"github.com/leapstack-labs/crease/internal/advisory"
	"github.com/leapstack-labs/crease/internal/dataset"
	"github.com/leapstack-labs/crease/internal/ui/notifier"
	"github.com/leapstack-labs/crease/internal/winprob"
)

// Selection is the team and season a visitor is looking at.
type Selection struct {
	Team   string `json:"team"`
	Season string `json:"season"`
}

// NavItem is one sidebar link.
type NavItem struct {
	Path  string
	Label string
}

// Sections lists the dashboard pages in sidebar order.
var Sections = []NavItem{
	{Path: "/", Label: "Overview"},
	{Path: "/seasons", Label: "Season-wise Wins"},
	{Path: "/batting", Label: "Top Batsmen"},
	{Path: "/bowling", Label: "Top Bowlers"},
	{Path: "/venues", Label: "Venue Performance"},
	{Path: "/strategy", Label: "Auction Strategy"},
	{Path: "/impact", Label: "Impact Player"},
	{Path: "/winprob", Label: "Win Probability"},
}

// IsSection reports whether path is one of the dashboard pages.
func IsSection(path string) bool {
	for _, s := range Sections {
		if s.Path == path {
			return true
		}
	}
	return false
}

// SidebarData holds what the sidebar needs to render.
type SidebarData struct {
	CurrentPath string
	Selection   Selection
	Teams       []string
	Seasons     []string
}

// PageData is a full page: shell plus section content.
type PageData struct {
	Title   string
	Sidebar SidebarData
	Notice  *notifier.Notice
	Content templ.Component
}

// Deps holds the dependencies shared by every feature.
type Deps struct {
	Provider  dataset.Provider
	Advisory  *advisory.Content
	Estimator *winprob.Estimator
	Sessions  sessions.Store
	Notifier  *notifier.Notifier
	Defaults  Selection
	Limit     int
	Logger    *slog.Logger
}
