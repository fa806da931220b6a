package validation

import (
	"context"
	"strings"
	"unicode/utf8"
)

// memoEchoMinRunes is the shortest memo line considered for echo detection.
// Shorter lines ("音読") legitimately reappear inside prose.
const memoEchoMinRunes = 8

// MemoEchoValidator warns when the remark just repeats the memo lines
// verbatim instead of turning them into prose.
type MemoEchoValidator struct{}

// NewMemoEchoValidator creates a new MemoEchoValidator
func NewMemoEchoValidator() *MemoEchoValidator {
	return &MemoEchoValidator{}
}

// Name returns the validator name
func (v *MemoEchoValidator) Name() string {
	return "MemoEchoValidator"
}

// Validate warns when every memo line long enough to judge appears unchanged in the remark
func (v *MemoEchoValidator) Validate(ctx context.Context, input ValidationInput) ValidationResult {
	eligible, echoed := 0, 0
	for _, memo := range input.Memos {
		memo = strings.TrimSpace(memo)
		if utf8.RuneCountInString(memo) < memoEchoMinRunes {
			continue
		}
		eligible++
		if strings.Contains(input.Remark, memo) {
			echoed++
		}
	}
	if eligible == 0 || echoed < eligible {
		return OK()
	}
	return Warn("入力メモがそのまま並んでいます。文章として書き直されているか確認してください。")
}
