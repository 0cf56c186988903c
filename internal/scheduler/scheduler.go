package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/LJTian/NewsIngest/internal/collector"
	"github.com/LJTian/NewsIngest/internal/processor"
)

// Store 调度器依赖的存储能力：幂等批量插入 + 按来源计数
type Store interface {
	SaveBatch(items []collector.Article) (int64, error)
	CountBySource() (map[string]int64, error)
}

// Stats 一轮采集的统计结果；Errors 累积各来源与入库的失败，整轮不抛出
type Stats struct {
	StartTime       time.Time      `json:"startTime"`
	EndTime         time.Time      `json:"endTime"`
	FetchedBySource map[string]int `json:"fetchedBySource"`
	TotalFetched    int            `json:"totalFetched"`
	TotalStored     int64          `json:"totalStored"`
	Errors          []string       `json:"errors"`
}

type Scheduler struct {
	cron     *cron.Cron
	fetchers []collector.Fetcher
	pipeline *processor.Pipeline
	store    Store
}

func New(spec string, fetchers []collector.Fetcher, p *processor.Pipeline, store Store) (*Scheduler, error) {
	c := cron.New()

	s := &Scheduler{
		cron:     c,
		fetchers: fetchers,
		pipeline: p,
		store:    store,
	}

	if _, err := c.AddFunc(spec, func() { s.RunOnce() }); err != nil {
		return nil, err
	}

	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop 停止定时器并等待在跑的任务结束；上层收到中断信号时调用
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// RunOnce 顺序执行一轮完整采集：逐个来源抓到底，汇总后过滤去重，一次性入库。
// 单个来源失败只记入 Errors，不影响其余来源；存储失败同样只体现在统计里。
func (s *Scheduler) RunOnce() Stats {
	log.Println("start ingestion run...")

	stats := Stats{
		StartTime:       time.Now(),
		FetchedBySource: make(map[string]int),
	}

	var all []collector.Article
	for _, f := range s.fetchers {
		name := f.Name()
		log.Printf("fetch from %s...", name)

		items, err := f.Fetch()
		if err != nil {
			msg := fmt.Sprintf("fetch %s: %v", name, err)
			log.Printf("error: %s", msg)
			stats.Errors = append(stats.Errors, msg)
		}
		// 失败前已取到的页照常并入
		if len(items) == 0 {
			continue
		}
		stats.FetchedBySource[name] = len(items)
		all = append(all, items...)
	}

	stats.TotalFetched = len(all)

	if len(all) > 0 {
		valid := s.pipeline.Process(all)
		log.Printf("valid articles after filtering: %d", len(valid))

		stored, err := s.store.SaveBatch(valid)
		if err != nil {
			msg := fmt.Sprintf("save batch: %v", err)
			log.Printf("error: %s", msg)
			stats.Errors = append(stats.Errors, msg)
		}
		stats.TotalStored = stored
	}

	stats.EndTime = time.Now()
	s.logStats(&stats)
	return stats
}

func (s *Scheduler) logStats(stats *Stats) {
	log.Println("=== ingestion run statistics ===")
	log.Printf("duration: %s", stats.EndTime.Sub(stats.StartTime))
	for name, n := range stats.FetchedBySource {
		log.Printf("  %s: %d articles", name, n)
	}
	log.Printf("total fetched: %d, total stored: %d", stats.TotalFetched, stats.TotalStored)
	if len(stats.Errors) > 0 {
		log.Printf("warn: %d errors during run", len(stats.Errors))
		for _, e := range stats.Errors {
			log.Printf("  - %s", e)
		}
	}

	counts, err := s.store.CountBySource()
	if err != nil {
		log.Printf("warn: count by source: %v", err)
		return
	}
	for src, n := range counts {
		log.Printf("  stored %s: %d", src, n)
	}
}
