package collector

import (
	"log"
	"strings"
	"time"
)

// dateFormats 按顺序尝试的发布时间格式：RFC 2822 的几种变体在前，ISO 8601 在后，
// 最后是裸日期。time.Parse 不接受多余的尾部字符，前面的格式不会截断误配后面的串。
var dateFormats = []string{
	"Mon, 02 Jan 2006 15:04:05 -0700", // RFC 2822 带数字时区
	"Mon, 02 Jan 2006 15:04:05 GMT",   // 字面 GMT；其它缩写时区一律不猜测
	"Mon, 02 Jan 2006 15:04:05",
	"2006-01-02T15:04:05-07:00", // ISO 8601 带时区
	"2006-01-02T15:04:05Z",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTime 归一发布时间：优先采用上游 feed 解析器给出的结构化时间（最可靠），
// 其次按固定顺序尝试字符串格式，全部失败时返回 nil（仅告警，采集继续）。
// 无时区信息的格式按 UTC 解析，保证结果总是带时区的瞬时值。
func ParseTime(parsed *time.Time, raw string) *time.Time {
	if parsed != nil && !parsed.IsZero() {
		t := *parsed
		return &t
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}

	for _, layout := range dateFormats {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}

	log.Printf("warn: unparseable publish time: %q", raw)
	return nil
}
