package collector

import "strings"

// sourceTopics 来源名关键词 -> 受控主题标签
var sourceTopics = []struct {
	keyword string
	topic   string
}{
	{"tech", "technology"},
	{"business", "business"},
	{"financial", "business"},
	{"sports", "sports"},
	{"health", "health"},
	{"medical", "health"},
	{"science", "science"},
}

// pathTopics URL 路径段 -> 受控主题标签；对开启 TopicFromPath 的订阅源生效
var pathTopics = []struct {
	segment string
	topic   string
}{
	{"/business/", "business"},
	{"/technology/", "technology"},
	{"/tech/", "technology"},
	{"/science/", "science"},
	{"/health/", "health"},
	{"/sports/", "sports"},
	{"/sport/", "sports"},
}

// ClassifyTopic 按固定优先级推断主题：显式标签 > 来源名关键词 > URL 路径（可选）> general。
// 第一个命中即返回，不做组合；这是有损启发式，误判按可接受噪声处理。
// 永远返回非空标签，不会出错。
func ClassifyTopic(source string, tags []string, link string, inspectPath bool) string {
	// 条目自带的第一个分类标签原样采用（转小写）
	if len(tags) > 0 {
		if t := strings.ToLower(strings.TrimSpace(tags[0])); t != "" {
			return t
		}
	}

	s := strings.ToLower(source)
	for _, st := range sourceTopics {
		if strings.Contains(s, st.keyword) {
			return st.topic
		}
	}

	if inspectPath && link != "" {
		l := strings.ToLower(link)
		for _, pt := range pathTopics {
			if strings.Contains(l, pt.segment) {
				return pt.topic
			}
		}
	}

	return "general"
}
