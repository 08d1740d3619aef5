// Package omdb is a thin client for the OMDb HTTP API, covering the two
// calls the app needs: title search and full-detail lookup by IMDb id.
package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/reelhub/reelhub/internal/domain/apperr"
	"go.uber.org/zap"
)

// DefaultBaseURL is the public OMDb endpoint.
const DefaultBaseURL = "https://www.omdbapi.com/"

// Client talks to OMDb. Construct with New; the zero value is unusable.
type Client struct {
	baseURL string
	apiKey  string
	httpc   *http.Client
	log     *zap.Logger
}

// New builds a Client. baseURL falls back to DefaultBaseURL when empty.
func New(baseURL, apiKey string, log *zap.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpc:   &http.Client{Timeout: 10 * time.Second},
		log:     log,
	}
}

// SearchOptions narrow a title search. Zero values mean "no filter" and
// page 1.
type SearchOptions struct {
	Type string // "movie", "series", or "" for both
	Page int
}

// SearchItem is one row of a search result. Fields mirror OMDb's "s="
// response, which omits ratings and plot.
type SearchItem struct {
	Title  string `json:"Title"`
	Year   string `json:"Year"`
	IMDBID string `json:"imdbID"`
	Type   string `json:"Type"`
	Poster string `json:"Poster"`
}

// SearchResult is a page of search hits plus the total match count
// across all pages.
type SearchResult struct {
	Items []SearchItem
	Total int
}

// Detail is the full record returned by an "i=" lookup with plot=full.
type Detail struct {
	Title   string `json:"Title"`
	Year    string `json:"Year"`
	Rated   string `json:"Rated"`
	Runtime string `json:"Runtime"`
	Genre   string `json:"Genre"`
	Plot    string `json:"Plot"`
	Poster  string `json:"Poster"`
	Rating  string `json:"imdbRating"`
	IMDBID  string `json:"imdbID"`
	Type    string `json:"Type"`
}

// searchEnvelope is the raw search response. OMDb sends totalResults as
// a quoted string, and signals failure in-band with Response:"False".
type searchEnvelope struct {
	Search       []SearchItem `json:"Search"`
	TotalResults string       `json:"totalResults"`
	Response     string       `json:"Response"`
	Error        string       `json:"Error"`
}

// detailEnvelope wraps Detail with OMDb's in-band status fields.
type detailEnvelope struct {
	Detail
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Search runs a title search. A search with no matches returns
// apperr.ErrNotFound, matching OMDb's "Movie not found!" response.
func (c *Client) Search(ctx context.Context, term string, opts SearchOptions) (SearchResult, error) {
	q := url.Values{}
	q.Set("s", term)
	if opts.Type != "" {
		q.Set("type", opts.Type)
	}
	if opts.Page > 1 {
		q.Set("page", strconv.Itoa(opts.Page))
	}

	var env searchEnvelope
	if err := c.get(ctx, q, &env); err != nil {
		return SearchResult{}, err
	}
	if !strings.EqualFold(env.Response, "True") {
		return SearchResult{}, c.apiError(env.Error)
	}

	total, err := strconv.Atoi(env.TotalResults)
	if err != nil {
		c.log.Warn("omdb sent non-numeric totalResults",
			zap.String("total_results", env.TotalResults))
		total = len(env.Search)
	}
	return SearchResult{Items: env.Search, Total: total}, nil
}

// GetByID fetches the full record for an IMDb id, with the full plot.
func (c *Client) GetByID(ctx context.Context, imdbID string) (Detail, error) {
	q := url.Values{}
	q.Set("i", imdbID)
	q.Set("plot", "full")

	var env detailEnvelope
	if err := c.get(ctx, q, &env); err != nil {
		return Detail{}, err
	}
	if !strings.EqualFold(env.Response, "True") {
		return Detail{}, c.apiError(env.Error)
	}
	return env.Detail, nil
}

func (c *Client) get(ctx context.Context, q url.Values, v any) error {
	q.Set("apikey", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("%w: build omdb request: %v", apperr.ErrRemote, err)
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: omdb request: %v", apperr.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: omdb returned status %d", apperr.ErrRemote, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode omdb response: %v", apperr.ErrRemote, err)
	}
	return nil
}

// apiError classifies OMDb's in-band error strings. "not found" variants
// map to ErrNotFound; everything else (bad key, rate limit) is a remote
// failure.
func (c *Client) apiError(msg string) error {
	if strings.Contains(strings.ToLower(msg), "not found") {
		return fmt.Errorf("%w: %s", apperr.ErrNotFound, msg)
	}
	return fmt.Errorf("%w: omdb: %s", apperr.ErrRemote, msg)
}
