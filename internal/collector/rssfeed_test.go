package collector

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/LJTian/NewsIngest/internal/config"
)

const sampleRSS = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0">
<channel>
  <title>BBC News</title>
  <link>https://www.bbc.co.uk/news</link>
  <item>
    <title>Market rally continues</title>
    <link>https://www.bbc.co.uk/business/market-rally-1</link>
    <description><![CDATA[<p>Stocks &amp; bonds rallied</p>]]></description>
    <pubDate>Mon, 01 Jan 2024 12:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Vote ahead</title>
    <link>https://www.bbc.co.uk/news/vote-2</link>
    <category>Politics</category>
    <description>Parliament returns</description>
    <pubDate>Mon, 01 Jan 2024 13:00:00 GMT</pubDate>
  </item>
  <item>
    <title>Entry without link</title>
    <description>should be dropped</description>
  </item>
</channel>
</rss>`

func TestFeedFetcherNormalizesEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(sampleRSS))
	}))
	defer srv.Close()

	f := NewFeedFetcher(config.FeedSource{Name: "BBC", URL: srv.URL, TopicFromPath: true})
	if f.Name() != "feed_bbc" {
		t.Fatalf("Name = %q, want %q", f.Name(), "feed_bbc")
	}

	items, err := f.Fetch()
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	// 第三条缺链接，降级丢弃
	if len(items) != 2 {
		t.Fatalf("expected 2 articles, got %d", len(items))
	}

	first := items[0]
	if first.Title != "Market rally continues" {
		t.Fatalf("Title = %q", first.Title)
	}
	if first.Source != "BBC" {
		t.Fatalf("Source = %q, want %q", first.Source, "BBC")
	}
	if first.Content != "Stocks & bonds rallied" {
		t.Fatalf("Content = %q, want sanitized text", first.Content)
	}
	// 无显式标签时按 URL 路径推断
	if first.Topic != "business" {
		t.Fatalf("Topic = %q, want %q", first.Topic, "business")
	}
	if first.PublishTime == nil || first.PublishTime.Hour() != 12 {
		t.Fatalf("PublishTime = %v, want 12:00 GMT", first.PublishTime)
	}

	// 显式分类标签优先于路径推断
	second := items[1]
	if second.Topic != "politics" {
		t.Fatalf("Topic = %q, want %q", second.Topic, "politics")
	}
}

func TestFeedFetcherTransportFailureIsolated(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewFeedFetcher(config.FeedSource{Name: "Broken", URL: srv.URL})
	items, err := f.Fetch()
	if err == nil {
		t.Fatalf("expected error for failed feed fetch")
	}
	if len(items) != 0 {
		t.Fatalf("failed feed should contribute zero articles, got %d", len(items))
	}
}

func TestFeedFetcherUnparseableFeed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("this is not xml at all"))
	}))
	defer srv.Close()

	f := NewFeedFetcher(config.FeedSource{Name: "Garbage", URL: srv.URL})
	if _, err := f.Fetch(); err == nil {
		t.Fatalf("expected parse error for non-feed content")
	}
}
