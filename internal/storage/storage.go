package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/LJTian/NewsIngest/internal/collector"
)

// Source 描述一个已登记的采集来源，例如 newsapi_search / feed_bbc
type Source struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	Code   string `gorm:"size:64;uniqueIndex" json:"code"`
	Name   string `gorm:"size:128" json:"name"`
	URL    string `gorm:"size:256" json:"url"`
	Status string `gorm:"size:32;index" json:"status"` // active / disabled

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Article 持久化的规范文章。URL 是天然主键，唯一索引兜底去重；
// 表只增不改，重复 URL 在插入时被静默忽略。
type Article struct {
	ID          uint              `gorm:"primaryKey" json:"id"`
	Title       string            `gorm:"type:text;not null" json:"title"`
	Source      string            `gorm:"size:255;index" json:"source"`
	URL         string            `gorm:"size:1024;uniqueIndex" json:"url"`
	PublishTime *time.Time        `gorm:"index" json:"publishTime"`
	Content     string            `gorm:"type:text" json:"content"`
	Topic       string            `gorm:"size:255;index" json:"topic"`
	ExtraData   datatypes.JSONMap `gorm:"type:jsonb" json:"extraData"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

type Store struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewStore(dsn, redisAddr string) (*Store, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(&Source{}, &Article{}); err != nil {
		return nil, err
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: redisAddr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Printf("warn: redis ping failed: %v", err)
	}

	return &Store{DB: db, Redis: rdb}, nil
}

// EnsureSource 确保某个采集来源已登记
func (s *Store) EnsureSource(code, name, url string) (*Source, error) {
	src := &Source{}
	if err := s.DB.Where("code = ?", code).First(src).Error; err == nil {
		return src, nil
	}

	src = &Source{
		Code:   code,
		Name:   name,
		URL:    url,
		Status: "active",
	}
	if err := s.DB.Create(src).Error; err != nil {
		return nil, err
	}
	return src, nil
}

// toValidUTF8 将字符串规范为合法 UTF-8，避免 PostgreSQL invalid byte sequence 错误
// （个别 feed 正文可能混入非法字节）
func toValidUTF8(s string) string {
	return strings.ToValidUTF8(s, "�")
}

// truncateRunesDB 按 rune 数截断字符串，保证不超过数据库字段长度（例如 varchar(255)）。
// 这是对上游 normalizer 的双保险，防止异常长文本导致入库失败。
func truncateRunesDB(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	rs := []rune(s)
	if len(rs) <= limit {
		return s
	}
	return string(rs[:limit])
}

// SaveBatch 一次性插入一批文章，URL 冲突时静默忽略，返回实际新增行数。
// 重复记录不计入返回值。
func (s *Store) SaveBatch(items []collector.Article) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	rows := make([]Article, 0, len(items))
	for _, it := range items {
		rows = append(rows, Article{
			Title:       toValidUTF8(it.Title),
			Source:      truncateRunesDB(toValidUTF8(it.Source), 255),
			URL:         truncateRunesDB(it.URL, 1024),
			PublishTime: it.PublishTime,
			Content:     toValidUTF8(it.Content),
			Topic:       truncateRunesDB(toValidUTF8(it.Topic), 255),
			ExtraData:   datatypes.JSONMap(it.RawData),
		})
	}

	res := s.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "url"}},
		DoNothing: true,
	}).Create(&rows)
	if res.Error != nil {
		return 0, res.Error
	}

	// 入库后不做缓存通配删除，依赖短 TTL 自然过期
	return res.RowsAffected, nil
}

// CountBySource 按来源统计文章数
func (s *Store) CountBySource() (map[string]int64, error) {
	var rows []struct {
		Source string
		Count  int64
	}
	if err := s.DB.Model(&Article{}).
		Select("source, COUNT(*) AS count").
		Group("source").
		Order("count DESC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, r := range rows {
		counts[r.Source] = r.Count
	}
	return counts, nil
}

// ListRecent 按发布时间倒序返回最近文章，可按来源/主题过滤，结果用 Redis 缓存 5 分钟
func (s *Store) ListRecent(source, topic string, limit int) ([]Article, error) {
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	ctx := context.Background()
	cacheKey := fmt.Sprintf("articles:recent:%s:%s:%d", source, topic, limit)

	// L2: Redis 缓存
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, cacheKey).Bytes(); err == nil {
			var cached []Article
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	// DB 兜底；无发布时间的记录排在最后
	var list []Article
	db := s.DB.Model(&Article{})
	if source != "" {
		db = db.Where("source = ?", source)
	}
	if topic != "" {
		db = db.Where("topic = ?", topic)
	}
	if err := db.Order("publish_time DESC NULLS LAST").Limit(limit).Find(&list).Error; err != nil {
		return nil, err
	}

	const listCacheTTL = 5 * time.Minute
	if s.Redis != nil && len(list) > 0 {
		if bs, err := json.Marshal(list); err == nil {
			_ = s.Redis.Set(ctx, cacheKey, bs, listCacheTTL).Err()
		}
	}

	return list, nil
}
