package prompt

import (
	"shoken-assist/backend/internal/model"
)

// DefaultAudienceInstruction addresses both the student and the guardian
const DefaultAudienceInstruction = "児童生徒本人と保護者の双方が読むことを前提に、分かりやすく配慮のある表現を用いる。"

// BuildAudienceInstruction returns vocabulary and tone guidance for a grade tier
func BuildAudienceInstruction(grade model.GradeLevel) string {
	switch grade {
	case model.GradeElementary1:
		return "小学1年生の本人と保護者に向けて書く。ひらがなで読める平易な言葉と短い文を用い、できるようになったことを具体的に認める。"
	case model.GradeElementary2:
		return "小学2年生の本人と保護者に向けて書く。平易な言葉と短い文を用い、がんばった場面が思い浮かぶように具体的に書く。"
	case model.GradeElementary3:
		return "小学3年生の本人と保護者に向けて書く。具体的な場面が伝わる分かりやすい表現を用い、努力の過程を認める。"
	case model.GradeElementary4:
		return "小学4年生の本人と保護者に向けて書く。分かりやすい表現を基本に、友達との関わりや工夫した点にも触れる。"
	case model.GradeElementary5:
		return "小学5年生の本人と保護者に向けて書く。自主性や責任感に触れ、やや抽象的な語も適度に用いる。"
	case model.GradeElementary6:
		return "小学6年生の本人と保護者に向けて書く。最高学年としての役割や中学校への見通しにも触れ、落ち着いた表現を用いる。"
	case model.GradeMiddleSchool:
		return "中学生本人と保護者に向けて書く。自己理解や進路を意識した、落ち着いた客観的な表現を用いる。"
	case model.GradeHighSchool:
		return "高校生本人と保護者に向けて書く。主体性・探究心・将来への展望に触れる、大人びた客観的な表現を用いる。"
	default:
		return DefaultAudienceInstruction
	}
}
