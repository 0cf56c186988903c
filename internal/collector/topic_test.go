package collector

import "testing"

func TestClassifyTopicExplicitTagWins(t *testing.T) {
	// 显式标签优先于来源名启发式，原样小写采用
	got := ClassifyTopic("TechCrunch", []string{"Politics"}, "", false)
	if got != "politics" {
		t.Fatalf("ClassifyTopic with explicit tag = %q, want %q", got, "politics")
	}
}

func TestClassifyTopicSourceKeywords(t *testing.T) {
	cases := []struct {
		source string
		want   string
	}{
		{"NewsAPI-TechCrunch", "technology"},
		{"NewsAPI-Financial Times", "business"},
		{"Business Insider", "business"},
		{"Sports Weekly", "sports"},
		{"WebMD Medical News", "health"},
		{"Science Daily", "science"},
		{"Some Random Outlet", "general"},
	}

	for _, c := range cases {
		if got := ClassifyTopic(c.source, nil, "", false); got != c.want {
			t.Fatalf("ClassifyTopic(%q) = %q, want %q", c.source, got, c.want)
		}
	}
}

func TestClassifyTopicURLPathSegments(t *testing.T) {
	link := "https://www.bbc.co.uk/business/economy-12345"

	if got := ClassifyTopic("BBC", nil, link, true); got != "business" {
		t.Fatalf("ClassifyTopic with path inspection = %q, want %q", got, "business")
	}
	// 未开启路径推断时退回 general
	if got := ClassifyTopic("BBC", nil, link, false); got != "general" {
		t.Fatalf("ClassifyTopic without path inspection = %q, want %q", got, "general")
	}
}

func TestClassifyTopicPriorityOrder(t *testing.T) {
	// 来源名关键词先于 URL 路径
	got := ClassifyTopic("Sports Daily", nil, "https://example.com/technology/gadget", true)
	if got != "sports" {
		t.Fatalf("source keyword should win over URL path, got %q", got)
	}
}

func TestClassifyTopicNeverEmpty(t *testing.T) {
	if got := ClassifyTopic("", []string{"", "  "}, "", true); got != "general" {
		t.Fatalf("ClassifyTopic fallback = %q, want %q", got, "general")
	}
}
