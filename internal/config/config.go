package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// FeedSource 一个 RSS/Atom 订阅源；TopicFromPath 表示该源的文章链接带栏目路径段，
// 可参与主题推断
type FeedSource struct {
	Name          string
	URL           string
	TopicFromPath bool
}

type Config struct {
	AppPort string

	PostgresDSN string
	RedisAddr   string

	CronSpec string

	NewsAPIKey     string
	NewsAPIBaseURL string
	NewsAPIQuery   string

	DefaultLanguage string
	DefaultDaysBack int

	Feeds []FeedSource

	BasicAuthUser string
	BasicAuthPass string
}

func Load() *Config {
	// 支持从 .env 读取环境变量，文件不存在时静默跳过
	_ = godotenv.Load()

	cfg := &Config{
		AppPort:         getEnv("APP_PORT", "9000"),
		PostgresDSN:     getEnv("POSTGRES_DSN", "host=localhost user=newsingest password=newsingest dbname=newsingest port=5432 sslmode=disable TimeZone=UTC"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		CronSpec:        getEnv("CRON_SPEC", "*/30 * * * *"),
		NewsAPIKey:      getEnv("NEWS_API_KEY", ""),
		NewsAPIBaseURL:  getEnv("NEWS_API_BASE_URL", "https://newsapi.org/v2"),
		NewsAPIQuery:    getEnv("NEWS_API_QUERY", ""),
		DefaultLanguage: getEnv("DEFAULT_LANGUAGE", "en"),
		DefaultDaysBack: getEnvInt("DEFAULT_DAYS_BACK", 7),
		Feeds:           loadFeeds(),
		BasicAuthUser:   getEnv("APP_BASIC_USER", ""),
		BasicAuthPass:   getEnv("APP_BASIC_PASS", ""),
	}

	log.Printf("config loaded: port=%s cron=%s feeds=%d", cfg.AppPort, cfg.CronSpec, len(cfg.Feeds))
	return cfg
}

// HasNewsAPI 是否配置了 NewsAPI 密钥；未配置时跳过 API 抓取路径，订阅源照常采集
func (c *Config) HasNewsAPI() bool {
	return c.NewsAPIKey != ""
}

// loadFeeds 内置三个主流新闻源；可用 RSS_FEEDS=Name=URL,Name=URL 覆盖。
// BBC 与 NYT 的文章链接带栏目路径，开启按路径推断主题。
func loadFeeds() []FeedSource {
	if raw := os.Getenv("RSS_FEEDS"); raw != "" {
		return parseFeeds(raw)
	}
	return []FeedSource{
		{Name: "BBC", URL: "http://feeds.bbci.co.uk/news/rss.xml", TopicFromPath: true},
		{Name: "TechCrunch", URL: "https://techcrunch.com/feed/"},
		{Name: "New York Times", URL: "https://rss.nytimes.com/services/xml/rss/nyt/HomePage.xml", TopicFromPath: true},
	}
}

func parseFeeds(raw string) []FeedSource {
	feeds := make([]FeedSource, 0, 4)
	for _, part := range strings.Split(raw, ",") {
		kv := strings.SplitN(strings.TrimSpace(part), "=", 2)
		if len(kv) != 2 || kv[0] == "" || kv[1] == "" {
			continue
		}
		feeds = append(feeds, FeedSource{Name: kv[0], URL: kv[1]})
	}
	return feeds
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Printf("warn: invalid %s=%q, using default %d", key, v, def)
		return def
	}
	return n
}
