package model

import "net/url"

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// ProductsLoadedMsg is sent when the full product snapshot is loaded.
type ProductsLoadedMsg struct {
	Products   []Product
	Categories []string
}

// ProductPageLoadedMsg is sent when one page of products is loaded for a
// query-driven reload.
type ProductPageLoadedMsg struct {
	Products   []Product
	Categories []string
	Total      int
	Query      url.Values

	// Request numbers the reload that produced the page; only the most
	// recent request is shown.
	Request uint64
}

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeSearch
)
