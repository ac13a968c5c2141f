// Package fixture describes canned request→response pairs for the mirrored API.
package fixture

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Media types of the mirrored API.
const (
	MediaTypeSearch         = "application/vnd.elife.search+json; version=1"
	MediaTypeArticlePoA     = "application/vnd.elife.article-poa+json; version=1"
	MediaTypeArticleVoR     = "application/vnd.elife.article-vor+json; version=1"
	MediaTypeArticleHistory = "application/vnd.elife.article-history+json; version=1"
)

// Request describes an API call the system under test will make.
type Request struct {
	Method string
	URL    string
	Accept []string
}

// Key is the canonical lookup key: method, normalized URL and accepted media types.
// Two requests resolve to the same fixture iff their keys are equal.
func (r Request) Key() string {
	return strings.ToUpper(r.Method) + " " + CanonicalURL(r.URL) + "|" + strings.Join(NormalizeAccept(r.Accept), ",")
}

// Response is the canned answer for a Request.
type Response struct {
	Status      int
	ContentType string
	Body        []byte
}

// NewJSONResponse encodes payload as the body of a successful response.
func NewJSONResponse(contentType string, payload any) (Response, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Response{}, fmt.Errorf("encode payload: %w", err)
	}
	return Response{Status: http.StatusOK, ContentType: contentType, Body: body}, nil
}

// Fixture is an immutable request→response pair.
type Fixture struct {
	Request  Request
	Response Response
}

// SearchURL renders the canonical search URL. Subject ids keep the given order.
func SearchURL(base, keyword string, page, perPage int, subjectIDs []string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(base, "/"))
	b.WriteString("/search?for=")
	b.WriteString(url.QueryEscape(keyword))
	b.WriteString("&page=")
	b.WriteString(strconv.Itoa(page))
	b.WriteString("&per-page=")
	b.WriteString(strconv.Itoa(perPage))
	b.WriteString("&sort=relevance&order=desc")
	for _, id := range subjectIDs {
		b.WriteString("&subject[]=")
		b.WriteString(url.QueryEscape(id))
	}
	return b.String()
}

// SearchRequest builds the descriptor of one search page call.
func SearchRequest(base, keyword string, page, perPage int, subjectIDs []string) Request {
	return Request{
		Method: http.MethodGet,
		URL:    SearchURL(base, keyword, page, perPage, subjectIDs),
		Accept: []string{MediaTypeSearch},
	}
}

// ItemRequest builds the descriptor of a single content item read.
func ItemRequest(base, id string) Request {
	return Request{
		Method: http.MethodGet,
		URL:    strings.TrimRight(base, "/") + "/articles/" + id,
		Accept: []string{MediaTypeArticlePoA, MediaTypeArticleVoR},
	}
}

// HistoryRequest builds the descriptor of a content item version history read.
func HistoryRequest(base, id string) Request {
	return Request{
		Method: http.MethodGet,
		URL:    strings.TrimRight(base, "/") + "/articles/" + id + "/versions",
		Accept: []string{MediaTypeArticleHistory},
	}
}

// CanonicalURL normalizes escaping and query encoding while keeping the order of repeated
// values. Unparseable input is returned unchanged.
func CanonicalURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return raw
	}
	u.RawQuery = q.Encode()
	u.Fragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	return u.String()
}

// NormalizeAccept splits comma-joined header values and trims each media type.
func NormalizeAccept(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if p := strings.TrimSpace(part); p != "" {
				out = append(out, p)
			}
		}
	}
	return out
}
