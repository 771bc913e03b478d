package domain

import (
	"net/url"
	"strings"
)

// DefaultSearchPrefix is the catalog used for plain-text queries.
const DefaultSearchPrefix = "dzsearch"

// SearchQuery represents a query for searching tracks.
type SearchQuery struct {
	Query  string // the normalized search term or URL
	Prefix string // catalog prefix, empty for URLs
	IsURL  bool
}

// NewSearchQuery normalizes user input into a SearchQuery.
// Angle brackets used to suppress link embeds are stripped. Input that is not a
// URI with a recognized scheme is wrapped as a catalog search with prefix.
func NewSearchQuery(input, prefix string) *SearchQuery {
	input = strings.TrimSpace(strings.NewReplacer("<", "", ">", "").Replace(input))
	if prefix == "" {
		prefix = DefaultSearchPrefix
	}

	if isURL(input) {
		if strings.HasPrefix(input, "www.") {
			input = "https://" + input
		}
		return &SearchQuery{
			Query: input,
			IsURL: true,
		}
	}

	return &SearchQuery{
		Query:  input,
		Prefix: prefix,
	}
}

// BackendQuery returns the query string formatted for the audio backend.
func (q *SearchQuery) BackendQuery() string {
	if q.IsURL {
		return q.Query
	}
	return q.Prefix + ":" + q.Query
}

// IsValid returns true if the query is not empty.
func (q *SearchQuery) IsValid() bool {
	return q.Query != ""
}

var urlSchemes = map[string]bool{
	"http":  true,
	"https": true,
}

// isURL checks if the input looks like a URL.
func isURL(input string) bool {
	if strings.HasPrefix(input, "www.") {
		return true
	}
	u, err := url.Parse(input)
	if err != nil {
		return false
	}
	return urlSchemes[strings.ToLower(u.Scheme)] && u.Host != ""
}
