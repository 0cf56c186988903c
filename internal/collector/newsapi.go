package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	newsAPIPageSize         = 100 // 接口上限
	newsAPIMaxPages         = 10  // 最多 1000 条，防止对限流接口无界轮询
	newsAPIClientTimeout    = 10 * time.Second
	newsAPIMaxResponseBytes = 1 << 20 // 1MB
	newsAPIUserAgent        = "NewsIngest/1.0"
)

type newsAPIResponse struct {
	Status       string          `json:"status"`
	Message      string          `json:"message"`
	TotalResults int             `json:"totalResults"`
	Articles     []newsAPIRecord `json:"articles"`
}

type newsAPIRecord struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"publishedAt"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// NewsAPISearchFetcher 调用 NewsAPI everything 接口做分页关键词检索
type NewsAPISearchFetcher struct {
	APIKey   string
	BaseURL  string
	Query    string
	Language string
	DaysBack int
}

func (f *NewsAPISearchFetcher) Name() string {
	return "newsapi_search"
}

func (f *NewsAPISearchFetcher) Fetch() ([]Article, error) {
	log.Println("fetch NewsAPI everything...")

	client := &http.Client{Timeout: newsAPIClientTimeout}
	results := make([]Article, 0, newsAPIPageSize)
	fetched := 0

	for page := 1; ; page++ {
		if page > newsAPIMaxPages {
			log.Printf("warn: newsapi reached max page limit (%d)", newsAPIMaxPages)
			break
		}

		data, err := f.fetchPage(client, page)
		if err != nil {
			// 传输失败不重试；已取到的页照常返回
			return results, fmt.Errorf("newsapi: page %d: %w", page, err)
		}

		if data.Status != "ok" {
			// 非 ok 状态是本次调用的终止信号
			log.Printf("newsapi: non-ok status %q: %s", data.Status, data.Message)
			break
		}

		if len(data.Articles) == 0 {
			break
		}

		for _, rec := range data.Articles {
			if a := normalizeAPIRecord(rec, "NewsAPI"); a != nil {
				results = append(results, *a)
			}
		}
		fetched += len(data.Articles)
		log.Printf("newsapi: fetched %d articles from page %d", len(data.Articles), page)

		// 达到接口报告的总数，或本页不满一页，说明数据已取尽
		if fetched >= data.TotalResults || len(data.Articles) < newsAPIPageSize {
			break
		}
	}

	return results, nil
}

func (f *NewsAPISearchFetcher) fetchPage(client *http.Client, page int) (*newsAPIResponse, error) {
	to := time.Now()
	from := to.AddDate(0, 0, -f.DaysBack)

	params := url.Values{}
	params.Set("language", f.Language)
	params.Set("from", from.Format("2006-01-02"))
	params.Set("to", to.Format("2006-01-02"))
	params.Set("pageSize", strconv.Itoa(newsAPIPageSize))
	params.Set("sortBy", "publishedAt")
	params.Set("page", strconv.Itoa(page))
	if f.Query != "" {
		params.Set("q", f.Query)
	}

	return fetchNewsAPI(client, f.BaseURL+"/everything?"+params.Encode(), f.APIKey)
}

// NewsAPIHeadlinesFetcher 调用 top-headlines 接口，单页返回
type NewsAPIHeadlinesFetcher struct {
	APIKey   string
	BaseURL  string
	Country  string
	Category string
	Language string
}

func (f *NewsAPIHeadlinesFetcher) Name() string {
	return "newsapi_headlines"
}

func (f *NewsAPIHeadlinesFetcher) Fetch() ([]Article, error) {
	log.Println("fetch NewsAPI top headlines...")

	params := url.Values{}
	params.Set("language", f.Language)
	params.Set("pageSize", strconv.Itoa(newsAPIPageSize))
	if f.Country != "" {
		params.Set("country", f.Country)
	}
	if f.Category != "" {
		params.Set("category", f.Category)
	}

	client := &http.Client{Timeout: newsAPIClientTimeout}
	data, err := fetchNewsAPI(client, f.BaseURL+"/top-headlines?"+params.Encode(), f.APIKey)
	if err != nil {
		return nil, fmt.Errorf("newsapi headlines: %w", err)
	}
	if data.Status != "ok" {
		// 与 everything 路径一致：非 ok 状态是终止信号而非错误
		log.Printf("newsapi headlines: non-ok status %q: %s", data.Status, data.Message)
		return nil, nil
	}

	results := make([]Article, 0, len(data.Articles))
	for _, rec := range data.Articles {
		if a := normalizeAPIRecord(rec, "NewsAPI-Headlines"); a != nil {
			results = append(results, *a)
		}
	}

	log.Printf("newsapi: fetched %d top headlines", len(results))
	return results, nil
}

func fetchNewsAPI(client *http.Client, reqURL, apiKey string) (*newsAPIResponse, error) {
	req, err := http.NewRequest(http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", apiKey)
	req.Header.Set("User-Agent", newsAPIUserAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var data newsAPIResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, newsAPIMaxResponseBytes)).Decode(&data); err != nil {
		return nil, err
	}
	return &data, nil
}

// normalizeAPIRecord 把一条 NewsAPI 原始记录映射为统一 Article；
// 标题或链接裁剪后为空的记录直接丢弃（返回 nil），属于硬校验
func normalizeAPIRecord(rec newsAPIRecord, sourcePrefix string) *Article {
	title := strings.TrimSpace(rec.Title)
	link := strings.TrimSpace(rec.URL)
	if title == "" || link == "" {
		log.Printf("skip %s record with missing title or url", sourcePrefix)
		return nil
	}

	sourceName := sourcePrefix
	if rec.Source.Name != "" {
		sourceName = sourcePrefix + "-" + rec.Source.Name
	}

	// 正文回退链：content > description，再做词法清洗
	body := rec.Content
	if body == "" {
		body = rec.Description
	}

	return &Article{
		Title:       title,
		Source:      sourceName,
		URL:         link,
		PublishTime: ParseTime(nil, rec.PublishedAt),
		Content:     SanitizeText(body),
		Topic:       ClassifyTopic(sourceName, nil, link, false),
		RawData: map[string]any{
			"publisher": rec.Source.Name,
		},
	}
}
