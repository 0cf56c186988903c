package main

import (
	"crypto/subtle"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/LJTian/NewsIngest/internal/api"
	"github.com/LJTian/NewsIngest/internal/collector"
	"github.com/LJTian/NewsIngest/internal/config"
	"github.com/LJTian/NewsIngest/internal/processor"
	"github.com/LJTian/NewsIngest/internal/scheduler"
	"github.com/LJTian/NewsIngest/internal/storage"
)

func main() {
	cfg := config.Load()

	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		log.Fatalf("init store failed: %v", err)
	}

	fetchers := buildFetchers(cfg, store)

	p := processor.NewPipeline()
	s, err := scheduler.New(cfg.CronSpec, fetchers, p, store)
	if err != nil {
		log.Fatalf("init scheduler failed: %v", err)
	}
	s.Start()

	// 中断信号在核心之上处理：停掉定时器后退出；批内提交保证不会留下半写状态
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, syscall.SIGINT, syscall.SIGTERM)
		sig := <-ch
		log.Printf("received %s, stopping scheduler...", sig)
		s.Stop()
		os.Exit(0)
	}()

	// API
	r := gin.Default()
	// 若配置了全局访问密码，则启用 Basic Auth 保护（/health 仍然免认证）
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(basicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	apiServer := api.NewServer(store, s)
	apiServer.RegisterRoutes(r)

	addr := ":" + cfg.AppPort
	log.Printf("starting api server at %s ...", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("server exit: %v", err)
	}
}

// buildFetchers 按配置注册数据源：NewsAPI 两条路径 + 每个订阅源一个 fetcher
func buildFetchers(cfg *config.Config, store *storage.Store) []collector.Fetcher {
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

	return fetchers
}

// basicAuthMiddleware 为整个站点增加一个简单的 Basic Auth 访问密码。
// 仅当配置了 APP_BASIC_USER / APP_BASIC_PASS 时启用。
// /health 不做认证，便于健康检查。
func basicAuthMiddleware(user, pass string) gin.HandlerFunc {
	const realm = "Restricted"
	uBytes := []byte(user)
	pBytes := []byte(pass)

	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}
		u, p, ok := c.Request.BasicAuth()
		if !ok ||
			subtle.ConstantTimeCompare([]byte(u), uBytes) != 1 ||
			subtle.ConstantTimeCompare([]byte(p), pBytes) != 1 {
			c.Header("WWW-Authenticate", `Basic realm="`+realm+`"`)
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
