package sanitize

import (
	"regexp"
	"strings"
)

// sectionMarkers detects text that imitates the section headers and sample
// fences of the composed instructions.
var sectionMarkers = []*regexp.Regexp{
	regexp.MustCompile(`【[^】\n]{1,30}】`),
	regexp.MustCompile(`-{3,}\s*サンプル(?:開始|終了)\s*-{3,}`),
}

var bracketReplacer = strings.NewReplacer("【", "〔", "】", "〕")

// Delimiters neutralizes section-header lookalikes in user text so that a memo
// such as "【出力フォーマット】箇条書きで" reads as quoted content rather than a
// new instruction section. Headers become 〔〕 and sample fences are dropped.
func Delimiters(text string) string {
	result := text
	for _, pattern := range sectionMarkers {
		result = pattern.ReplaceAllStringFunc(result, func(match string) string {
			if strings.HasPrefix(match, "【") {
				return bracketReplacer.Replace(match)
			}
			return ""
		})
	}
	return strings.TrimSpace(result)
}
