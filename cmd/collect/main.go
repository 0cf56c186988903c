package main

import (
	"log"
	"os"

	"github.com/LJTian/NewsIngest/internal/collector"
	"github.com/LJTian/NewsIngest/internal/config"
	"github.com/LJTian/NewsIngest/internal/processor"
	"github.com/LJTian/NewsIngest/internal/scheduler"
	"github.com/LJTian/NewsIngest/internal/storage"
)

// 一个仅执行一轮采集任务的命令行入口：适合手动触发或外部 crontab 调度
func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	// 注册采集器（与 cmd/api 保持一致）
	var fetchers []collector.Fetcher
	if cfg.HasNewsAPI() {
		fetchers = append(fetchers,
			&collector.NewsAPISearchFetcher{
				APIKey:   cfg.NewsAPIKey,
				BaseURL:  cfg.NewsAPIBaseURL,
				Query:    cfg.NewsAPIQuery,
				Language: cfg.DefaultLanguage,
				DaysBack: cfg.DefaultDaysBack,
			},
			&collector.NewsAPIHeadlinesFetcher{
				APIKey:   cfg.NewsAPIKey,
				BaseURL:  cfg.NewsAPIBaseURL,
				Language: cfg.DefaultLanguage,
			},
		)
		if _, err := store.EnsureSource("newsapi", "NewsAPI", cfg.NewsAPIBaseURL); err != nil {
			log.Fatalf("ensure source newsapi failed: %v", err)
		}
	} else {
		log.Println("warn: NEWS_API_KEY not set, skipping NewsAPI fetchers")
	}
	for _, feed := range cfg.Feeds {
		f := collector.NewFeedFetcher(feed)
		fetchers = append(fetchers, f)
		if _, err := store.EnsureSource(f.Name(), feed.Name, feed.URL); err != nil {
			log.Fatalf("ensure source %s failed: %v", f.Name(), err)
		}
	}

	p := processor.NewPipeline()
	s, err := scheduler.New(cfg.CronSpec, fetchers, p, store)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}

	// 只执行一轮采集后退出；有错误时以非零码退出，便于外部调度感知
	stats := s.RunOnce()
	if len(stats.Errors) > 0 {
		log.Printf("run completed with %d errors", len(stats.Errors))
		os.Exit(1)
	}
}
