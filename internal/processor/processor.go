package processor

import (
	"log"
	"strings"

	"github.com/LJTian/NewsIngest/internal/collector"
)

// Pipeline 入库前最后一道闸：校验必填字段、补默认值、按 URL 去重。
// 这一层不再做任何日期/正文变换，纯过滤转发。
type Pipeline struct{}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

func (p *Pipeline) Process(items []collector.Article) []collector.Article {
	out := make([]collector.Article, 0, len(items))
	seen := make(map[string]struct{})

	for _, it := range items {
		it.Title = strings.TrimSpace(it.Title)
		it.URL = strings.TrimSpace(it.URL)

		// normalizer 已保证必填字段，这里防御性复查，防止变体被错误复用
		if it.Title == "" || it.URL == "" {
			log.Printf("skip article with missing title or url: %q", it.URL)
			continue
		}

		// 同一批内按 URL 去重，先到先得；跨批去重交给存储层唯一索引
		if _, ok := seen[it.URL]; ok {
			continue
		}
		seen[it.URL] = struct{}{}

		if it.Source == "" {
			it.Source = "Unknown"
		}
		if it.Topic == "" {
			it.Topic = "general"
		}

		out = append(out, it)
	}

	return out
}
