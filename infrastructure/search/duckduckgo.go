package search

import (
	"context"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/time/rate"

	domainsearch "github.com/felixgeelhaar/react-agent/domain/search"
)

// DefaultDuckDuckGoURL is the non-JavaScript DuckDuckGo endpoint.
const DefaultDuckDuckGoURL = "https://html.duckduckgo.com/html/"

const duckDuckGoUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var (
	ddgLinkRe    = regexp.MustCompile(`(?s)<a[^>]+class="[^"]*result__a[^"]*"[^>]+href="([^"]+)"[^>]*>(.*?)</a>`)
	ddgSnippetRe = regexp.MustCompile(`(?s)<a[^>]+class="[^"]*result__snippet[^"]*"[^>]*>(.*?)</a>`)
	tagRe        = regexp.MustCompile(`<[^>]+>`)
)

// DuckDuckGoConfig configures the DuckDuckGo provider.
type DuckDuckGoConfig struct {
	BaseURL    string        // Default: https://html.duckduckgo.com/html/
	MaxResults int           // Default: 5
	RateLimit  float64       // Queries per second, default 1
	Timeout    time.Duration // Default: 15s
	HTTPClient *http.Client  // Optional
}

// DuckDuckGo searches the DuckDuckGo HTML endpoint. It needs no credential.
type DuckDuckGo struct {
	baseURL    string
	maxResults int
	limiter    *rate.Limiter
	client     *http.Client
}

// NewDuckDuckGo creates a DuckDuckGo searcher.
func NewDuckDuckGo(config DuckDuckGoConfig) *DuckDuckGo {
	if config.BaseURL == "" {
		config.BaseURL = DefaultDuckDuckGoURL
	}
	if config.MaxResults <= 0 {
		config.MaxResults = 5
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 15 * time.Second
	}
	client := config.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: config.Timeout}
	}

	return &DuckDuckGo{
		baseURL:    config.BaseURL,
		maxResults: config.MaxResults,
		limiter:    rate.NewLimiter(rate.Limit(config.RateLimit), 1),
		client:     client,
	}
}

// Name returns the provider name.
func (d *DuckDuckGo) Name() string {
	return "duckduckgo"
}

// Search implements domainsearch.Searcher.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]domainsearch.Result, error) {
	query = domainsearch.NormalizeQuery(query)
	if query == "" {
		return nil, domainsearch.ErrEmptyQuery
	}

	if err := d.limiter.Wait(ctx); err != nil {
		return nil, classifyTransport(d.Name(), err)
	}

	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", domainsearch.ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", duckDuckGoUserAgent)
	req.Header.Set("Accept", "text/html")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, classifyTransport(d.Name(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, classifyStatus(d.Name(), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 2<<20))
	if err != nil {
		return nil, classifyTransport(d.Name(), err)
	}

	return parseDuckDuckGo(string(body), d.maxResults), nil
}

// parseDuckDuckGo extracts results from the HTML result page. A page
// without result links yields an empty, non-nil slice. Each result owns the
// markup between its link and the next result link, so a result without a
// snippet never borrows the next one's.
func parseDuckDuckGo(page string, limit int) []domainsearch.Result {
	links := ddgLinkRe.FindAllStringSubmatchIndex(page, -1)

	results := make([]domainsearch.Result, 0, min(len(links), limit))
	for i, m := range links {
		if len(results) >= limit {
			break
		}
		link := decodeRedirect(html.UnescapeString(page[m[2]:m[3]]))
		title := cleanHTML(page[m[4]:m[5]])
		if title == "" || link == "" {
			continue
		}

		blockEnd := len(page)
		if i+1 < len(links) {
			blockEnd = links[i+1][0]
		}
		var snippet string
		if sm := ddgSnippetRe.FindStringSubmatch(page[m[1]:blockEnd]); sm != nil {
			snippet = cleanHTML(sm[1])
		}

		results = append(results, domainsearch.Result{
			Title:   title,
			Snippet: snippet,
			Link:    link,
		})
	}
	return results
}

// decodeRedirect unwraps DuckDuckGo's //duckduckgo.com/l/?uddg=... links.
func decodeRedirect(raw string) string {
	if !strings.Contains(raw, "uddg=") {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return raw
}

func cleanHTML(s string) string {
	s = tagRe.ReplaceAllString(s, "")
	return strings.Join(strings.Fields(html.UnescapeString(s)), " ")
}
