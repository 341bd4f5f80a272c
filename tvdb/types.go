package tvdb

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Kind is a TheTVDB entity category, used as the first path segment.
type Kind string

const (
	KindSeries     Kind = "series"
	KindEpisodes   Kind = "episodes"
	KindSeasons    Kind = "seasons"
	KindMovies     Kind = "movies"
	KindArtwork    Kind = "artwork"
	KindAwards     Kind = "awards"
	KindPeople     Kind = "people"
	KindCharacters Kind = "characters"

	// Kinds that only appear in type and status enumerations
	KindCompanies Kind = "companies"
	KindEntities  Kind = "entities"
	KindSources   Kind = "sources"
)

// ID identifies a resource. It is forwarded into the URL path as given.
type ID string

// IntID converts a numeric TheTVDB id.
func IntID(id int64) ID {
	return ID(strconv.FormatInt(id, 10))
}

// String returns the id as it appears in the URL
func (id ID) String() string {
	return string(id)
}

// Credentials holds the login pair issued by TheTVDB.
type Credentials struct {
	Pin    string
	APIKey string
}

// Token is a bearer token and its validity window.
type Token struct {
	Value      string
	AcquiredAt time.Time
	ExpiresAt  time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t Token) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}

// Envelope is the wrapper around every TheTVDB response body.
type Envelope[T any] struct {
	Status  string `json:"status"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// StatusSuccess is the envelope status of a successful call
const StatusSuccess = "success"

// OK reports whether the envelope carries a successful status.
func (e *Envelope[T]) OK() bool {
	return e.Status == StatusSuccess
}

// Param is a single query parameter.
type Param struct {
	Key   string
	Value string
}

// Params is an ordered list of query parameters. Unlike url.Values it keeps
// insertion order when encoded.
type Params []Param

// Encode renders the parameters as a query string without the leading '?'.
func (p Params) Encode() string {
	var sb strings.Builder
	for i, param := range p {
		if i > 0 {
			sb.WriteByte('&')
		}
		sb.WriteString(url.QueryEscape(param.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(param.Value))
	}
	return sb.String()
}

// FetchOptions controls a single resource fetch
type FetchOptions struct {
	Extended bool
	Params   Params
}

// SearchOptions restricts a search. Nil and empty fields are omitted from
// the request.
type SearchOptions struct {
	// Type restricts results to movie, series, person or company
	Type   string
	Year   *int
	Offset *int
	Limit  *int
}

// Int returns a pointer to n, for the optional SearchOptions fields.
func Int(n int) *int {
	return &n
}

// FullRecord pairs an extended resource with one of its translations. The
// halves come from independent calls.
type FullRecord struct {
	Extended     Record `json:"extended"`
	Translations Record `json:"translations"`
}
