package search

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	jsoniter "github.com/json-iterator/go"

	domainsearch "github.com/felixgeelhaar/react-agent/domain/search"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// DefaultBraveURL is the Brave web search endpoint.
const DefaultBraveURL = "https://api.search.brave.com/res/v1/web/search"

// BraveConfig configures the Brave provider.
type BraveConfig struct {
	APIKey     string        // Required: subscription token
	BaseURL    string        // Default: https://api.search.brave.com/res/v1/web/search
	MaxResults int           // Default: 5
	Timeout    time.Duration // Default: 15s
	HTTPClient *http.Client  // Optional
}

// Brave searches the Brave Search API.
type Brave struct {
	apiKey     string
	baseURL    string
	maxResults int
	client     *http.Client
}

type braveResponse struct {
	Web struct {
		Results []struct {
			Title       string `json:"title"`
			URL         string `json:"url"`
			Description string `json:"description"`
		} `json:"results"`
	} `json:"web"`
}

// NewBrave creates a Brave searcher.
func NewBrave(config BraveConfig) (*Brave, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("%w: brave", domainsearch.ErrMissingAPIKey)
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultBraveURL
	}
	if config.MaxResults <= 0 {
		config.MaxResults = 5
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &Brave{
		apiKey:     config.APIKey,
		baseURL:    config.BaseURL,
		maxResults: config.MaxResults,
		client:     client,
	}, nil
}

// Name returns the provider name.
func (b *Brave) Name() string {
	return "brave"
}

// Search implements domainsearch.Searcher.
func (b *Brave) Search(ctx context.Context, query string) ([]domainsearch.Result, error) {
	query = domainsearch.NormalizeQuery(query)
	if query == "" {
		return nil, domainsearch.ErrEmptyQuery
	}

	params := url.Values{
		"q":     {query},
		"count": {strconv.Itoa(b.maxResults)},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domainsearch.ErrUnavailable, err)
	}
	req.Header.Set("X-Subscription-Token", b.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, classifyTransport(b.Name(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(b.Name(), resp.StatusCode)
	}

	var body braveResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("%w: brave: decode response: %v", domainsearch.ErrUnavailable, err)
	}

	results := make([]domainsearch.Result, 0, len(body.Web.Results))
	for _, r := range body.Web.Results {
		if len(results) >= b.maxResults {
			break
		}
		results = append(results, domainsearch.Result{
			Title:   cleanHTML(r.Title),
			Snippet: cleanHTML(r.Description),
			Link:    r.URL,
		})
	}
	return results, nil
}
