package tvdb

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultBaseURL is the root of TheTVDB v4 API
const DefaultBaseURL = "https://api4.thetvdb.com/v4/"

func resourceURL(base string, kind Kind, id ID, extended bool, params Params) string {
	u := base + string(kind) + "/" + string(id)
	if extended {
		u += "/extended"
	}
	if len(params) > 0 {
		u += "?" + params.Encode()
	}
	return u
}

func typesURL(base string, kind Kind) string {
	return base + string(kind) + "/types"
}

func statusesURL(base string, kind Kind) string {
	return base + string(kind) + "/statuses"
}

func translationURL(base string, kind Kind, id ID, lang string) string {
	return base + string(kind) + "/" + string(id) + "/translations/" + lang
}

// searchURL appends the optional filters in the fixed order type, year,
// offset, limit.
func searchURL(base, query string, opts SearchOptions) string {
	var sb strings.Builder
	sb.WriteString(base)
	sb.WriteString("search?q=")
	sb.WriteString(escapeQuery(query))

	if opts.Type != "" {
		sb.WriteString("&type=")
		sb.WriteString(escapeQuery(opts.Type))
	}
	if opts.Year != nil {
		sb.WriteString("&year=")
		sb.WriteString(strconv.Itoa(*opts.Year))
	}
	if opts.Offset != nil {
		sb.WriteString("&offset=")
		sb.WriteString(strconv.Itoa(*opts.Offset))
	}
	if opts.Limit != nil {
		sb.WriteString("&limit=")
		sb.WriteString(strconv.Itoa(*opts.Limit))
	}
	return sb.String()
}

// escapeQuery encodes a query value with spaces as %20 rather than '+'.
func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// normalizeBaseURL ensures the base ends with exactly one slash
func normalizeBaseURL(base string) string {
	return strings.TrimRight(base, "/") + "/"
}
