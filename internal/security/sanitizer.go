package security

import (
	"html"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// TextSanitizer はコメントや説明などサーバー由来の自由記述から
// マークアップと端末制御文字を取り除き、プレーンテキストにする。
type TextSanitizer struct {
	policy *bluemonday.Policy
}

// NewTextSanitizer はすべてのタグを除去するポリシーでTextSanitizerを生成する。
func NewTextSanitizer() *TextSanitizer {
	return &TextSanitizer{policy: bluemonday.StrictPolicy()}
}

// Sanitize はタグを除去し、エスケープされた文字を戻してから制御文字を落とす。
// 改行とタブは残す。
func (s *TextSanitizer) Sanitize(text string) string {
	if text == "" {
		return ""
	}
	stripped := html.UnescapeString(s.policy.Sanitize(text))
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, stripped)
}
