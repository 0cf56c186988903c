package collector

import "testing"

func TestSanitizeTextStripsTagsAndEntities(t *testing.T) {
	in := `<p>This is <b>HTML</b> content with &quot;quotes&quot;</p>`
	want := `This is HTML content with "quotes"`
	if got := SanitizeText(in); got != want {
		t.Fatalf("SanitizeText = %q, want %q", got, want)
	}
}

func TestSanitizeTextCollapsesWhitespace(t *testing.T) {
	in := "  line one\n\n\tline   two  "
	want := "line one line two"
	if got := SanitizeText(in); got != want {
		t.Fatalf("SanitizeText = %q, want %q", got, want)
	}
}

func TestSanitizeTextEmptyInput(t *testing.T) {
	if got := SanitizeText(""); got != "" {
		t.Fatalf("SanitizeText(\"\") = %q, want empty string", got)
	}
}

func TestSanitizeTextToleratesMalformedMarkup(t *testing.T) {
	// 词法级剥离：未闭合的标记保留原样，但绝不报错
	in := "<p>broken <b text"
	want := "broken <b text"
	if got := SanitizeText(in); got != want {
		t.Fatalf("SanitizeText = %q, want %q", got, want)
	}
}
