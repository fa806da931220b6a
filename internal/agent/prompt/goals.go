package prompt

import (
	"fmt"

	"shoken-assist/backend/internal/model"
)

// GoalSpec is the narrative instruction and default length for a goal code
type GoalSpec struct {
	Instruction       string
	RecommendedLength string
	MinChars          int
	MaxChars          int
}

// GoalSpecFor resolves a goal code. Unknown codes get the balanced default.
func GoalSpecFor(code model.GoalCode) GoalSpec {
	switch code {
	case model.GoalGrowth:
		return GoalSpec{
			Instruction:       "成長の過程を「初期→変化→現在」の流れで、エピソードを一般化して物語的に示す。変化の背景にある努力や姿勢にも触れる。",
			RecommendedLength: "200〜300字",
			MinChars:          200,
			MaxChars:          300,
		}
	case model.GoalReassurance:
		return GoalSpec{
			Instruction:       "保護者に安心感と期待感を与える。事実に基づく肯定的な観察→学校での支援→今後の見通しの順にまとめる。",
			RecommendedLength: "180〜280字",
			MinChars:          180,
			MaxChars:          280,
		}
	case model.GoalNextSteps:
		return GoalSpec{
			Instruction:       "次に取れる具体的な行動を2〜3点、温かいトーンで提案する。強制ではなく選択肢として提示する。",
			RecommendedLength: "160〜240字",
			MinChars:          160,
			MaxChars:          240,
		}
	default:
		return GoalSpec{
			Instruction:       "丁寧で温かく、観察に基づくバランスのとれた所見を作成する。",
			RecommendedLength: "180〜260字",
			MinChars:          180,
			MaxChars:          260,
		}
	}
}

// LengthDirective returns "約N字" when a character count is given,
// otherwise the goal's recommended range.
func LengthDirective(spec GoalSpec, charCount *int) string {
	if charCount != nil && *charCount > 0 {
		return fmt.Sprintf("約%d字", *charCount)
	}
	return spec.RecommendedLength
}

// TargetRange is the character range a remark is checked against
func TargetRange(spec GoalSpec, charCount *int) (minChars, maxChars int) {
	if charCount != nil && *charCount > 0 {
		return *charCount, *charCount
	}
	return spec.MinChars, spec.MaxChars
}
