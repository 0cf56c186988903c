package collector

import "time"

// Article 各数据源归一化后的统一结构，入库前的唯一中间形态
type Article struct {
	Title  string
	Source string
	URL    string
	// 解析不出发布时间时保持 nil，入库为 NULL
	PublishTime *time.Time
	Content     string
	Topic       string
	RawData     map[string]any
}

// Fetcher 抽象每一个数据源
type Fetcher interface {
	Name() string
	Fetch() ([]Article, error)
}
