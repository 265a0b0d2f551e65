package wiki

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fpang/seo-content-helper/internal/config"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(config.WikiConfig{
		BaseURL:   srv.URL,
		UserAgent: "Mozilla/5.0 (compatible; BrandSearchBot/1.0)",
		Timeout:   2 * time.Second,
	})
}

func TestClient_Search(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "query", q.Get("action"))
		assert.Equal(t, "search", q.Get("list"))
		assert.Equal(t, "json", q.Get("format"))
		assert.Equal(t, "1", q.Get("srlimit"))
		assert.True(t, q.Has("utf8"))
		assert.Equal(t, "Bosch бренд производитель история компания", q.Get("srsearch"))
		assert.Equal(t, "Mozilla/5.0 (compatible; BrandSearchBot/1.0)", r.Header.Get("User-Agent"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"query":{"search":[{"title":"Bosch","snippet":"s1"},{"title":"Other","snippet":"s2"}]}}`))
	})

	hit, err := client.Search(context.Background(), SearchQuery("Bosch"))
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "Bosch", hit.Title)
	assert.Equal(t, "s1", hit.Snippet)
}

func TestClient_SearchNoResults(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"query":{"search":[]}}`))
	})
	hit, err := client.Search(context.Background(), "nothing")
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestClient_SearchUpstreamError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "maintenance", http.StatusServiceUnavailable)
	})
	_, err := client.Search(context.Background(), "Bosch")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestClient_SearchUpstreamErrorCutsOnCharacters(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("x" + strings.Repeat("ошибка", 60)))
	})
	_, err := client.Search(context.Background(), "Bosch")
	require.Error(t, err)

	msg := err.Error()
	assert.True(t, utf8.ValidString(msg))
	assert.True(t, strings.HasSuffix(msg, "..."))
	body := strings.TrimSuffix(msg[strings.Index(msg, ": ")+2:], "...")
	assert.Equal(t, 200, utf8.RuneCountInString(body))
}

func TestClient_SearchBadJSON(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>`))
	})
	_, err := client.Search(context.Background(), "Bosch")
	require.Error(t, err)
}

type stubSearcher struct {
	hit   *SearchResult
	err   error
	query string
}

func (s *stubSearcher) Search(_ context.Context, query string) (*SearchResult, error) {
	s.query = query
	return s.hit, s.err
}

func TestLookup_RemovesHighlighting(t *testing.T) {
	s := &stubSearcher{hit: &SearchResult{
		Title:   "Bosch",
		Snippet: `<span class="searchmatch">Bosch</span> — немецкая компания`,
	}}
	info, err := (&Lookup{Searcher: s, TitleFallback: true}).Brand(context.Background(), "Bosch")
	require.NoError(t, err)
	assert.Equal(t, "Bosch — Bosch — немецкая компания", info.BrandInfo)
	assert.Equal(t, SourceWiki, info.Source)
	assert.Equal(t, "Bosch бренд производитель история компания", s.query)
}

func TestLookup_NoHit(t *testing.T) {
	info, err := (&Lookup{Searcher: &stubSearcher{}}).Brand(context.Background(), "Nope")
	require.NoError(t, err)
	assert.Equal(t, BrandInfo{BrandInfo: "", Source: SourceNone}, info)
}

func TestLookup_SearchError(t *testing.T) {
	_, err := (&Lookup{Searcher: &stubSearcher{err: errors.New("timeout")}}).Brand(context.Background(), "Bosch")
	assert.EqualError(t, err, "timeout")
}

func TestLookup_TitleFallback(t *testing.T) {
	s := &stubSearcher{hit: &SearchResult{Snippet: "text"}}

	info, err := (&Lookup{Searcher: s, TitleFallback: true}).Brand(context.Background(), "Makita")
	require.NoError(t, err)
	assert.Equal(t, "Makita — text", info.BrandInfo)

	info, err = (&Lookup{Searcher: s}).Brand(context.Background(), "Makita")
	require.NoError(t, err)
	assert.Equal(t, " — text", info.BrandInfo)
}

func TestLookup_Truncates(t *testing.T) {
	s := &stubSearcher{hit: &SearchResult{Title: "Бренд", Snippet: strings.Repeat("я", 1000)}}
	info, err := (&Lookup{Searcher: s}).Brand(context.Background(), "Бренд")
	require.NoError(t, err)
	assert.Equal(t, MaxBrandInfoLen, utf8.RuneCountInString(info.BrandInfo))
	assert.True(t, strings.HasSuffix(info.BrandInfo, "..."))
}

func TestCleanSnippet(t *testing.T) {
	got := CleanSnippet(`&quot;<span class="searchmatch">Sony</span>&quot; &#039;s history`)
	assert.Equal(t, `"Sony" 's history`, got)
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"абвгдеёжзий", 10, "абвгдеё..."},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truncate(tt.in, tt.max), tt.in)
	}
}
