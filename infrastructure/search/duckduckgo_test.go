package search

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	domainsearch "github.com/felixgeelhaar/react-agent/domain/search"
)

const ddgPage = `<html><body>
<div class="result results_links">
  <a rel="nofollow" class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fen.wikipedia.org%2Fwiki%2FParis&amp;rut=abc">Paris - <b>Wikipedia</b></a>
  <a class="result__snippet" href="//duckduckgo.com/l/?uddg=x">Paris is the <b>capital</b> of France &amp; its largest city.</a>
</div>
<div class="result results_links">
  <a rel="nofollow" class="result__a" href="https://www.britannica.com/place/Paris">Paris | Britannica</a>
  <a class="result__snippet" href="https://www.britannica.com/place/Paris">Capital city of France.</a>
</div>
</body></html>`

func TestDuckDuckGo_Search(t *testing.T) {
	t.Parallel()

	var gotQuery, gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		_ = r.ParseForm()
		gotQuery = r.PostForm.Get("q")
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, ddgPage)
	}))
	defer server.Close()

	d := NewDuckDuckGo(DuckDuckGoConfig{BaseURL: server.URL, RateLimit: 100})
	results, err := d.Search(context.Background(), "  capital   of France ")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}

	if gotMethod != http.MethodPost {
		t.Errorf("method = %s, want POST", gotMethod)
	}
	if gotQuery != "capital of France" {
		t.Errorf("query = %q, want %q", gotQuery, "capital of France")
	}
	if len(results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(results))
	}

	first := results[0]
	if first.Title != "Paris - Wikipedia" {
		t.Errorf("Title = %q, want %q", first.Title, "Paris - Wikipedia")
	}
	if first.Link != "https://en.wikipedia.org/wiki/Paris" {
		t.Errorf("Link = %q, want decoded redirect", first.Link)
	}
	if first.Snippet != "Paris is the capital of France & its largest city." {
		t.Errorf("Snippet = %q", first.Snippet)
	}
	if results[1].Link != "https://www.britannica.com/place/Paris" {
		t.Errorf("Link = %q", results[1].Link)
	}
}

func TestDuckDuckGo_MaxResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, ddgPage)
	}))
	defer server.Close()

	d := NewDuckDuckGo(DuckDuckGoConfig{BaseURL: server.URL, MaxResults: 1, RateLimit: 100})
	results, err := d.Search(context.Background(), "paris")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 1 {
		t.Errorf("len(results) = %d, want 1", len(results))
	}
}

func TestDuckDuckGo_NoResults(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `<html><body><div class="no-results">No results.</div></body></html>`)
	}))
	defer server.Close()

	d := NewDuckDuckGo(DuckDuckGoConfig{BaseURL: server.URL, RateLimit: 100})
	results, err := d.Search(context.Background(), "zzzxxy")
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results == nil {
		t.Error("results = nil, want empty non-nil slice")
	}
	if len(results) != 0 {
		t.Errorf("len(results) = %d, want 0", len(results))
	}
}

func TestParseDuckDuckGo_ResultWithoutSnippet(t *testing.T) {
	t.Parallel()

	page := `<html><body>
<div class="result results_links result--ad">
  <a rel="nofollow" class="result__a" href="https://a.example.com/">Result A</a>
</div>
<div class="result results_links">
  <a rel="nofollow" class="result__a" href="https://b.example.com/">Result B</a>
  <a class="result__snippet" href="https://b.example.com/">snippet for B</a>
</div>
<div class="result results_links">
  <a rel="nofollow" class="result__a" href="https://c.example.com/">Result C</a>
</div>
</body></html>`

	results := parseDuckDuckGo(page, 5)
	if len(results) != 3 {
		t.Fatalf("len(results) = %d, want 3", len(results))
	}

	tests := []struct {
		link    string
		snippet string
	}{
		{"https://a.example.com/", ""},
		{"https://b.example.com/", "snippet for B"},
		{"https://c.example.com/", ""},
	}
	for i, tt := range tests {
		if results[i].Link != tt.link {
			t.Errorf("results[%d].Link = %q, want %q", i, results[i].Link, tt.link)
		}
		if results[i].Snippet != tt.snippet {
			t.Errorf("results[%d].Snippet = %q, want %q", i, results[i].Snippet, tt.snippet)
		}
	}
}

func TestDuckDuckGo_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		status int
		want   error
	}{
		{"rate limited", http.StatusTooManyRequests, domainsearch.ErrRateLimited},
		{"server error", http.StatusInternalServerError, domainsearch.ErrUnavailable},
		{"forbidden", http.StatusForbidden, domainsearch.ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
			}))
			defer server.Close()

			d := NewDuckDuckGo(DuckDuckGoConfig{BaseURL: server.URL, RateLimit: 100})
			_, err := d.Search(context.Background(), "paris")
			if !errors.Is(err, tt.want) {
				t.Errorf("Search() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDuckDuckGo_EmptyQuery(t *testing.T) {
	t.Parallel()

	d := NewDuckDuckGo(DuckDuckGoConfig{BaseURL: "http://127.0.0.1:0"})
	_, err := d.Search(context.Background(), "   ")
	if !errors.Is(err, domainsearch.ErrEmptyQuery) {
		t.Errorf("Search() error = %v, want %v", err, domainsearch.ErrEmptyQuery)
	}
}

func TestDuckDuckGo_Unreachable(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	d := NewDuckDuckGo(DuckDuckGoConfig{BaseURL: url, RateLimit: 100})
	_, err := d.Search(context.Background(), "paris")
	if !errors.Is(err, domainsearch.ErrUnavailable) {
		t.Errorf("Search() error = %v, want %v", err, domainsearch.ErrUnavailable)
	}
}
