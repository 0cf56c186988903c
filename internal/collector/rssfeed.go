package collector

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/LJTian/NewsIngest/internal/config"
)

const (
	feedClientTimeout    = 10 * time.Second
	feedMaxResponseBytes = 5 << 20 // 5MB
	feedUserAgent        = "NewsIngest RSS/1.0"
)

// FeedFetcher 抓取并解析单个 RSS/Atom 订阅源；单源失败只影响自身，不波及其它源
type FeedFetcher struct {
	Source config.FeedSource
}

func NewFeedFetcher(src config.FeedSource) *FeedFetcher {
	return &FeedFetcher{Source: src}
}

func (f *FeedFetcher) Name() string {
	return "feed_" + strings.ToLower(strings.ReplaceAll(f.Source.Name, " ", "_"))
}

func (f *FeedFetcher) Fetch() ([]Article, error) {
	log.Printf("fetch RSS feed %s: %s", f.Source.Name, f.Source.URL)

	body, err := fetchFeedBody(f.Source.URL)
	if err != nil {
		return nil, fmt.Errorf("feed %s: fetch: %w", f.Source.Name, err)
	}

	feed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("feed %s: parse: %w", f.Source.Name, err)
	}

	results := make([]Article, 0, len(feed.Items))
	dropped := 0
	for _, item := range feed.Items {
		a := normalizeFeedEntry(item, f.Source)
		if a == nil {
			dropped++
			continue
		}
		results = append(results, *a)
	}

	// 条目有缺损但整体可解析时按“降级”处理：告警后继续用剩余条目
	if dropped > 0 {
		log.Printf("warn: feed %s degraded: %d of %d entries dropped", f.Source.Name, dropped, len(feed.Items))
	}

	return results, nil
}

func fetchFeedBody(feedURL string) ([]byte, error) {
	client := &http.Client{Timeout: feedClientTimeout}

	req, err := http.NewRequest(http.MethodGet, feedURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", feedUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return io.ReadAll(io.LimitReader(resp.Body, feedMaxResponseBytes))
}

// normalizeFeedEntry 把一条 feed 条目映射为统一 Article；缺标题或链接返回 nil
func normalizeFeedEntry(item *gofeed.Item, src config.FeedSource) *Article {
	title := strings.TrimSpace(item.Title)
	link := strings.TrimSpace(item.Link)
	if title == "" || link == "" {
		log.Printf("skip %s entry with missing title or url", src.Name)
		return nil
	}

	// 结构化时间优先；Published 缺失时退回 Updated
	parsed := item.PublishedParsed
	if parsed == nil {
		parsed = item.UpdatedParsed
	}
	raw := item.Published
	if raw == "" {
		raw = item.Updated
	}

	// 正文回退链：全文 content > summary/description
	body := item.Content
	if body == "" {
		body = item.Description
	}

	return &Article{
		Title:       title,
		Source:      src.Name,
		URL:         link,
		PublishTime: ParseTime(parsed, raw),
		Content:     SanitizeText(body),
		Topic:       ClassifyTopic(src.Name, item.Categories, link, src.TopicFromPath),
		RawData: map[string]any{
			"feed_url":   src.URL,
			"categories": item.Categories,
		},
	}
}
