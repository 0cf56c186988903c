package collector

import (
	"html"
	"regexp"
	"strings"
)

// tagPattern 词法级去标签：删掉 '<' 到下一个 '>' 之间的片段，不做 DOM 解析，
// 残缺标记不会导致报错
var tagPattern = regexp.MustCompile(`<[^>]*>`)

// SanitizeText 把可能带标记的正文转成纯文本：去标签、还原实体、压缩空白。
// 空输入返回空串。
func SanitizeText(s string) string {
	if s == "" {
		return ""
	}
	s = tagPattern.ReplaceAllString(s, "")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}
