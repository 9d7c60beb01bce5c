/*
Package books provides the catalog search client backed by the Open Library
HTTP API.
*/
package books

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"inkwell/internal/pkg/errs"
	"inkwell/internal/pkg/logx"
)

const (
	// overFetch is how many extra docs to request per page so the result
	// still fills out after multi-volume bundles are filtered away.
	overFetch = 30

	defaultSearchLimit = 20
	maxSearchLimit     = 50

	coverURLFormat = "https://covers.openlibrary.org/b/id/%d-M.jpg"

	// cap on upstream response bodies.
	maxResponseBytes = 4 << 20
)

// packKeywords flag result titles that bundle multiple works into one entry.
var packKeywords = []string{
	"boxed set",
	"box set",
	"collection",
	"omnibus",
	"trilogy",
	"complete set",
	"anthology",
	"bundle",
}

// packPatterns match numeric-range titles such as "Books 1-3" or "Vol. 1 & 2".
var packPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)books?\s*\d+\s*[-&]\s*\d+`),
	regexp.MustCompile(`(?i)vol(ume)?s?\.?\s*\d+\s*[-&]\s*\d+`),
	regexp.MustCompile(`(?i)\d+\s*books?\s+in\s+\d+`),
}

// Book is one search result entry.
type Book struct {
	BookKey          string `json:"bookKey"`
	Title            string `json:"title"`
	Author           string `json:"author"`
	FirstPublishYear *int   `json:"firstPublishYear,omitempty"`
	CoverID          *int64 `json:"coverId,omitempty"`
	CoverURL         string `json:"coverUrl,omitempty"`
}

// SearchResult is one page of catalog search results.
type SearchResult struct {
	Query    string `json:"query"`
	Page     int    `json:"page"`
	NumFound int    `json:"numFound"`
	Books    []Book `json:"books"`
}

// Client queries the Open Library search API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a catalog search client for the given API base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// searchDoc mirrors the subset of the upstream search document we consume.
type searchDoc struct {
	Key              string   `json:"key"`
	Title            string   `json:"title"`
	AuthorName       []string `json:"author_name"`
	FirstPublishYear *int     `json:"first_publish_year"`
	CoverID          *int64   `json:"cover_i"`
}

type searchResponse struct {
	NumFound int         `json:"numFound"`
	Docs     []searchDoc `json:"docs"`
}

// Search queries the catalog for works matching query. Multi-volume bundle
// entries are filtered out, so the upstream request over-fetches to keep the
// page filled. An empty query is rejected before any upstream call.
func (c *Client) Search(ctx context.Context, query string, page, limit int) (SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return SearchResult{}, errs.NewError(errs.ErrSearchQueryRequired)
	}

	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultSearchLimit
	}
	if limit > maxSearchLimit {
		limit = maxSearchLimit
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("page", fmt.Sprintf("%d", page))
	params.Set("limit", fmt.Sprintf("%d", limit+overFetch))
	params.Set("fields", "key,title,author_name,first_publish_year,cover_i")

	endpoint := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return SearchResult{}, err
	}

	var upstream searchResponse
	if err := json.Unmarshal(body, &upstream); err != nil {
		logx.Error(err, "Failed to decode catalog search response")
		return SearchResult{}, errs.NewError(errs.ErrUpstreamFailed)
	}

	books := make([]Book, 0, limit)
	for _, doc := range upstream.Docs {
		if isPack(doc.Title) {
			continue
		}
		books = append(books, toBook(doc))
		if len(books) == limit {
			break
		}
	}

	return SearchResult{
		Query:    query,
		Page:     page,
		NumFound: upstream.NumFound,
		Books:    books,
	}, nil
}

// workResponse mirrors the subset of an upstream work document we consume.
type workResponse struct {
	Key         string  `json:"key"`
	Title       string  `json:"title"`
	Description any     `json:"description"`
	Covers      []int64 `json:"covers"`
}

// Work is the detail view of a single catalog entry.
type Work struct {
	BookKey     string `json:"bookKey"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	CoverURL    string `json:"coverUrl,omitempty"`
}

// GetWork fetches the detail record for one work key, e.g. "/works/OL45883W".
func (c *Client) GetWork(ctx context.Context, workKey string) (Work, error) {
	workKey = strings.TrimSpace(workKey)
	if workKey == "" || !strings.HasPrefix(workKey, "/works/") {
		return Work{}, errs.NewError(errs.ErrResourceNotFound)
	}

	endpoint := fmt.Sprintf("%s%s.json", c.baseURL, workKey)

	body, err := c.get(ctx, endpoint)
	if err != nil {
		return Work{}, err
	}

	var upstream workResponse
	if err := json.Unmarshal(body, &upstream); err != nil {
		logx.Error(err, "Failed to decode catalog work response")
		return Work{}, errs.NewError(errs.ErrUpstreamFailed)
	}

	work := Work{
		BookKey:     upstream.Key,
		Title:       upstream.Title,
		Description: workDescription(upstream.Description),
	}
	if len(upstream.Covers) > 0 && upstream.Covers[0] > 0 {
		work.CoverURL = fmt.Sprintf(coverURLFormat, upstream.Covers[0])
	}
	return work, nil
}

// get performs one upstream GET and returns the body, mapping transport and
// status failures onto the upstream error code.
func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		logx.Error(err, "Failed to build catalog request", "endpoint", endpoint)
		return nil, errs.NewError(errs.ErrUpstreamFailed)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		logx.Error(err, "Catalog request failed", "endpoint", endpoint)
		return nil, errs.NewError(errs.ErrUpstreamFailed)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, errs.NewError(errs.ErrResourceNotFound)
	}
	if res.StatusCode != http.StatusOK {
		logx.Warn("Catalog returned non-OK status", "status", res.StatusCode, "endpoint", endpoint)
		return nil, errs.NewError(errs.ErrUpstreamFailed)
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		logx.Error(err, "Failed to read catalog response body")
		return nil, errs.NewError(errs.ErrUpstreamFailed)
	}
	return body, nil
}

// isPack reports whether a result title looks like a multi-volume bundle
// rather than a single work.
func isPack(title string) bool {
	lower := strings.ToLower(title)
	for _, kw := range packKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	for _, p := range packPatterns {
		if p.MatchString(title) {
			return true
		}
	}
	return false
}

func toBook(doc searchDoc) Book {
	b := Book{
		BookKey:          doc.Key,
		Title:            doc.Title,
		FirstPublishYear: doc.FirstPublishYear,
		CoverID:          doc.CoverID,
	}
	if len(doc.AuthorName) > 0 {
		b.Author = doc.AuthorName[0]
	}
	if doc.CoverID != nil && *doc.CoverID > 0 {
		b.CoverURL = fmt.Sprintf(coverURLFormat, *doc.CoverID)
	}
	return b
}

// workDescription flattens the upstream description field, which may be a
// plain string or a {type, value} object.
func workDescription(raw any) string {
	switch v := raw.(type) {
	case string:
		return v
	case map[string]any:
		if s, ok := v["value"].(string); ok {
			return s
		}
	}
	return ""
}
