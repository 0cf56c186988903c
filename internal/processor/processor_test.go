package processor

import (
	"testing"
	"time"

	"github.com/LJTian/NewsIngest/internal/collector"
)

func TestPipelineDeduplicatesByURL(t *testing.T) {
	p := NewPipeline()
	now := time.Now()

	items := []collector.Article{
		{
			Title:       "Title 1",
			URL:         "https://example.com/1",
			Source:      "test",
			Topic:       "general",
			PublishTime: &now,
		},
		{
			// URL 相同、标题不同：同一批内先到先得
			Title:  "Title 1 duplicate by URL",
			URL:    "https://example.com/1",
			Source: "test",
			Topic:  "general",
		},
		{
			Title:  "Title 2",
			URL:    "https://example.com/2",
			Source: "test",
			Topic:  "general",
		},
	}

	out := p.Process(items)
	if len(out) != 2 {
		t.Fatalf("expected 2 articles after dedupe, got %d", len(out))
	}
	if out[0].Title != "Title 1" {
		t.Fatalf("first occurrence should win, got %q", out[0].Title)
	}
}

func TestPipelineDropsMissingRequiredFields(t *testing.T) {
	p := NewPipeline()

	items := []collector.Article{
		{Title: "", URL: "https://example.com/no-title"},
		{Title: "No URL", URL: ""},
		{Title: "   ", URL: "https://example.com/blank-title"},
		{Title: "Valid", URL: "https://example.com/ok"},
	}

	out := p.Process(items)
	if len(out) != 1 {
		t.Fatalf("expected 1 valid article, got %d", len(out))
	}
	if out[0].Title != "Valid" {
		t.Fatalf("unexpected survivor: %q", out[0].Title)
	}
}

func TestPipelineBackfillsSourceAndTopic(t *testing.T) {
	p := NewPipeline()

	items := []collector.Article{
		{Title: "  Trimmed title  ", URL: "https://example.com/a"},
	}

	out := p.Process(items)
	if len(out) != 1 {
		t.Fatalf("expected 1 article, got %d", len(out))
	}
	if out[0].Title != "Trimmed title" {
		t.Fatalf("Title = %q, want trimmed", out[0].Title)
	}
	if out[0].Source != "Unknown" {
		t.Fatalf("Source = %q, want backfilled %q", out[0].Source, "Unknown")
	}
	if out[0].Topic != "general" {
		t.Fatalf("Topic = %q, want backfilled %q", out[0].Topic, "general")
	}
}
