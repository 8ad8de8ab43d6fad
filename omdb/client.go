package omdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultBaseURL is the public OMDb endpoint.
const DefaultBaseURL = "https://www.omdbapi.com/"

// Client is an OMDb API client.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a new OMDb client.
func NewClient(apiKey string, logger zerolog.Logger, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, ErrAPIKeyMissing
	}

	client := &Client{
		baseURL:    DefaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		logger:     logger.With().Str("component", "omdb").Logger(),
	}

	for _, opt := range opts {
		opt(client)
	}

	client.baseURL = strings.TrimRight(client.baseURL, "/")

	return client, nil
}

// Test verifies connectivity and the API key by fetching a known record.
func (c *Client) Test(ctx context.Context) error {
	_, err := c.GetByID(ctx, "tt0133093") // The Matrix
	return err
}

// Search runs a paged title search. An empty term returns an empty result
// without touching the network. A catalog-level failure ("Movie not found!",
// "Too many results.") is returned as *UpstreamError.
func (c *Client) Search(ctx context.Context, term string, page int) (SearchResult, error) {
	if strings.TrimSpace(term) == "" {
		return SearchResult{}, nil
	}
	if page < 1 {
		page = 1
	}

	params := url.Values{}
	params.Set("s", term)
	params.Set("page", strconv.Itoa(page))

	body, err := c.get(ctx, params)
	if err != nil {
		return SearchResult{}, err
	}

	var resp searchResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return SearchResult{}, fmt.Errorf("failed to decode search response: %w", err)
	}

	if resp.Response == "False" {
		return SearchResult{}, &UpstreamError{Message: resp.Error}
	}

	// totalResults is a string on the wire.
	total, err := strconv.Atoi(resp.TotalResults)
	if err != nil {
		total = len(resp.Search)
	}

	c.logger.Debug().
		Str("term", term).
		Int("page", page).
		Int("count", len(resp.Search)).
		Int("total", total).
		Msg("Search results retrieved")

	return SearchResult{Items: resp.Search, TotalCount: total}, nil
}

// GetByID fetches the full record for an IMDb identifier.
func (c *Client) GetByID(ctx context.Context, id string) (*Detail, error) {
	params := url.Values{}
	params.Set("i", id)
	params.Set("plot", "full")

	return c.getDetail(ctx, params)
}

// GetByTitle fetches the full record for an exact title.
func (c *Client) GetByTitle(ctx context.Context, title string) (*Detail, error) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("plot", "full")

	return c.getDetail(ctx, params)
}

func (c *Client) getDetail(ctx context.Context, params url.Values) (*Detail, error) {
	body, err := c.get(ctx, params)
	if err != nil {
		return nil, err
	}

	var resp detailResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode detail response: %w", err)
	}

	if resp.Response == "False" {
		return nil, &UpstreamError{Message: resp.Error}
	}

	c.logger.Debug().Str("id", resp.ID).Str("title", resp.Title).Msg("Detail record retrieved")

	detail := resp.Detail
	return &detail, nil
}

// get performs a single GET against the API with the key attached.
func (c *Client) get(ctx context.Context, params url.Values) ([]byte, error) {
	params.Set("apikey", c.apiKey)

	requestURL := fmt.Sprintf("%s/?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return body, nil
}
